package report

import (
	"reflect"
	"testing"

	"github.com/clinidata/radreport-api/internal/models"
)

// sampleReport is a cleaned (single-line) report in the usual layout:
// patient header, exam line, the four content sections, validation line.
const sampleReport = "DUPONT JEAN, 12.05.1957 (65 ans) / 123456 / A789 " +
	"Examen(s): TDM cérébrale native " +
	"Indication : Chute de sa hauteur " +
	"Technique : Acquisition spiralée sans injection " +
	"Description : Pas de lésion traumatique " +
	"Conclusion : Examen normal " +
	"Validé électroniquement par Docteur Jean Martin"

func TestSplitSections(t *testing.T) {
	sections := SplitSections(sampleReport)

	tests := []struct {
		section string
		want    string
	}{
		{models.SectionExamType, "TDM cérébrale native"},
		{models.SectionIndication, "Chute de sa hauteur"},
		{models.SectionTechnique, "Acquisition spiralée sans injection"},
		{models.SectionConclusion, "Examen normal"},
		{models.SectionValidatedBy, "Jean Martin"},
	}
	for _, tt := range tests {
		t.Run(tt.section, func(t *testing.T) {
			if got := sections[tt.section]; got != tt.want {
				t.Errorf("section %q = %q, want %q", tt.section, got, tt.want)
			}
		})
	}

	// The patient header precedes any recognized section header, so it lands
	// in the description along with the description content itself.
	wantDesc := "DUPONT JEAN, 12.05.1957 (65 ans) / 123456 / A789 Pas de lésion traumatique"
	if got := sections[models.SectionDescription]; got != wantDesc {
		t.Errorf("description = %q, want %q", got, wantDesc)
	}
}

func TestSplitSectionsNoHeaders(t *testing.T) {
	text := "Texte libre sans aucune structure reconnaissable."
	sections := SplitSections(text)

	if got := sections[models.SectionDescription]; got != text {
		t.Errorf("description = %q, want the full text", got)
	}
	for _, key := range []string{
		models.SectionExamType, models.SectionIndication,
		models.SectionTechnique, models.SectionConclusion,
	} {
		if sections[key] != "" {
			t.Errorf("section %q = %q, want empty", key, sections[key])
		}
	}
}

func TestSplitSectionsEmpty(t *testing.T) {
	sections := SplitSections("   ")
	if len(sections) != 6 {
		t.Fatalf("expected all 6 keys present, got %d", len(sections))
	}
	for key, val := range sections {
		if val != "" {
			t.Errorf("section %q = %q, want empty", key, val)
		}
	}
}

func TestSplitSectionsDeterministic(t *testing.T) {
	first := SplitSections(sampleReport)
	second := SplitSections(sampleReport)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("two runs on the same text disagree:\n%v\n%v", first, second)
	}
}

func TestSplitSectionsExamLineWithoutColon(t *testing.T) {
	// The exam-type header pattern scans forward to the next colon. When the
	// exam line has no colon of its own, the first colon belongs to the next
	// header — that header must still open its own section instead of being
	// swallowed into the exam-type match.
	text := "Examen(s) du 14.03.2022 Indication : douleur Technique : acquisition spiralée"
	sections := SplitSections(text)

	if got := sections[models.SectionIndication]; got != "douleur" {
		t.Errorf("indication = %q, want %q", got, "douleur")
	}
	if got := sections[models.SectionTechnique]; got != "acquisition spiralée" {
		t.Errorf("technique = %q, want %q", got, "acquisition spiralée")
	}
	if got := sections[models.SectionExamType]; got != "" {
		t.Errorf("exam_type = %q, want empty (the exam line carries no content of its own)", got)
	}
}

func TestSplitSectionsDiscardsAfterSignature(t *testing.T) {
	text := "Conclusion : Examen normal Validé électroniquement par Docteur Jean Martin"
	sections := SplitSections(text)
	if got := sections[models.SectionConclusion]; got != "Examen normal" {
		t.Errorf("conclusion = %q, want %q", got, "Examen normal")
	}
}

func TestExtractSignatories(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "electronic validation",
			text: "Validé électroniquement par Docteur Jean Martin",
			want: "Jean Martin",
		},
		{
			name: "title suffix stripped",
			text: "Validé par Paul Durand Médecin chef de service",
			want: "Paul Durand",
		},
		{
			name: "slash separated pair",
			text: "Marc Petit / Anne Dupont",
			want: "Anne Dupont; Marc Petit",
		},
		{
			name: "duplicates collapse",
			text: "Validé par Docteur Jean Martin, Radiologie. Docteur Jean Martin",
			want: "Jean Martin",
		},
		{
			name: "nothing plausible",
			text: "Examen sans anomalie notable.",
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractSignatories(tt.text); got != tt.want {
				t.Errorf("ExtractSignatories(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestCleanSectionContent(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{": - Contenu après ponctuation", "Contenu après ponctuation"},
		{"- item en liste", "item en liste"},
		{"  espaces   multiples  ", "espaces multiples"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := cleanSectionContent(tt.in); got != tt.want {
			t.Errorf("cleanSectionContent(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
