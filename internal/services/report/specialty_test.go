package report

import (
	"testing"

	"github.com/clinidata/radreport-api/internal/models"
)

func TestClassifySpecialty(t *testing.T) {
	tests := []struct {
		name      string
		exam      string
		technique string
		want      models.Specialty
	}{
		{"tdm cerebrale accented", "TDM cérébrale native", "", models.SpecialtyNeuroBrain},
		{"tdm cerebrale unaccented", "TDM cerebrale", "", models.SpecialtyNeuroBrain},
		{"perfusion", "CT de perfusion", "", models.SpecialtyNeuroBrain},
		{"carotides table entry", "Angio-CT des carotides", "", models.SpecialtyNeuroORL},
		{"rachis", "IRM du rachis lombaire", "", models.SpecialtySpine},
		{"thorax", "CT du thorax", "", models.SpecialtyThoracic},
		{"abdomen", "TDM de l'abdomen", "", models.SpecialtyGI},
		{"pelvis", "IRM du pelvis", "", models.SpecialtyGU},
		{"keyword in technique only", "", "acquisition sur le rachis cervical", models.SpecialtySpine},
		{"broad thoracic keyword", "Radiographie thoracique", "", models.SpecialtyThoracic},
		{"broad brain keyword", "Scanner du crâne", "", models.SpecialtyNeuroBrain},
		{"sinus goes to ORL", "CT des sinus", "", models.SpecialtyNeuroORL},
		{"unrecognized falls back to default", "Echographie mammaire", "", models.SpecialtyDefault},
		{"empty input", "", "", models.SpecialtyDefault},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifySpecialty(tt.exam, tt.technique); got != tt.want {
				t.Errorf("ClassifySpecialty(%q, %q) = %q, want %q", tt.exam, tt.technique, got, tt.want)
			}
		})
	}
}

func TestClassifySpecialtyTableBeatsKeywordGroups(t *testing.T) {
	// "rachis" sits in the ordered table, "cérébral" only in the broad brain
	// group — the table entry must win even though both words are present.
	got := ClassifySpecialty("IRM du rachis avec comparaison cérébrale", "")
	if got != models.SpecialtySpine {
		t.Errorf("got %q, want %q", got, models.SpecialtySpine)
	}
}

func TestValidateCoherence(t *testing.T) {
	tests := []struct {
		name       string
		exam       string
		technique  string
		wantOK     bool
		wantReason string
	}{
		{"both empty", "", "", true, "no info"},
		{"exam missing", "", "acquisition spiralée", false, "exam missing"},
		{"technique missing", "TDM cérébrale", "", true, "technique missing but acceptable"},
		{"tdm matches technique", "TDM cérébrale", "Acquisition spiralée sans injection", true, "OK"},
		{"tdm mismatched technique", "TDM cérébrale", "séquences pondérées T2", false, "'tdm' in exam type but technique does not match"},
		{"irm matches", "IRM du rachis", "imagerie par résonance magnétique", true, "OK"},
		{"irm mismatched", "IRM du rachis", "acquisition hélicoïdale", false, "'irm' in exam type but technique does not match"},
		{"angio matches", "Angio-CT", "étude vasculaire après injection", true, "OK"},
		{"no rule applies", "Radiographie du thorax", "cliché de face", true, "OK"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidateCoherence(tt.exam, tt.technique)
			if got.Coherent != tt.wantOK {
				t.Errorf("Coherent = %v, want %v", got.Coherent, tt.wantOK)
			}
			if got.Reason != tt.wantReason {
				t.Errorf("Reason = %q, want %q", got.Reason, tt.wantReason)
			}
		})
	}
}
