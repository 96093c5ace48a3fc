package report

import (
	"regexp"
	"sort"
	"strings"

	"github.com/clinidata/radreport-api/internal/models"
)

// Section header recognition. Each section carries an ordered pattern list;
// the first pattern with a match in the text wins and the remaining patterns
// for that section are never tried. The slice order is the section priority
// order: exam type, indication, technique, description, conclusion.
//
// Patterns match the header itself, not the content. Content runs from the
// end of a header to the start of the next recognized header (any section)
// or the end of the text. Go's RE2 has no lookahead, so boundaries are
// computed from header positions instead of the lookahead groups the
// equivalent single-regex formulation would use.
var sectionHeaderPatterns = []struct {
	section  string
	patterns []*regexp.Regexp
}{
	{models.SectionExamType, []*regexp.Regexp{
		regexp.MustCompile(`(?i)examen\(s\)[^:]*:`),
	}},
	{models.SectionIndication, []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(?:indication|motif|contexte)\s*[:\-]`),
		regexp.MustCompile(`(?i)\bindication\b`),
	}},
	{models.SectionTechnique, []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(?:technique|protocole)\s*[:\-]`),
		regexp.MustCompile(`(?i)\btechnique\b`),
	}},
	{models.SectionDescription, []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(?:description|constatations|r[ée]sultats?|compte\s*rendu)\s*[:\-]`),
		regexp.MustCompile(`(?i)\bdescription\b`),
	}},
	{models.SectionConclusion, []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(?:conclusion|impression|avis)\s*[:\-]`),
		regexp.MustCompile(`(?i)\bconclusion\b`),
	}},
}

// Terminators close the currently open section without opening a new one:
// signature lines, closing formulas and the comparison block. Text between a
// terminator and the next recognized header belongs to no section.
var sectionTerminators = []*regexp.Regexp{
	regexp.MustCompile(`(?i)valid[ée]\s+(?:électroniquement\s+)?par\b`),
	regexp.MustCompile(`\bDocteur\b`),
	regexp.MustCompile(`\bEn restant\b`),
	regexp.MustCompile(`\bNB\s*:`),
	regexp.MustCompile(`(?i)\bcomparatif\s*:`),
}

var bulletPrefix = regexp.MustCompile(`^\s*[-*•]\s*`)

// headerMatch is one occurrence of a recognized section header.
type headerMatch struct {
	section      string
	start        int // offset of the header itself
	contentStart int // offset just past the header
}

// SplitSections carves report text into named sections.
//
// Behavior: every occurrence of a recognized header opens (or re-opens) its
// section; text between headers accumulates into the currently open section.
// Text before the first header, or all of it when no header is recognized,
// accumulates into the description section. All keys are always present in
// the returned map, possibly empty. The operation is deterministic: running
// it twice on the same text yields the same map.
func SplitSections(text string) models.SectionMap {
	sections := models.NewSectionMap()
	if strings.TrimSpace(text) == "" {
		return sections
	}

	var matches []headerMatch
	for _, sp := range sectionHeaderPatterns {
		for _, re := range sp.patterns {
			locs := re.FindAllStringIndex(text, -1)
			if len(locs) == 0 {
				continue
			}
			for _, loc := range locs {
				matches = append(matches, headerMatch{
					section:      sp.section,
					start:        loc[0],
					contentStart: loc[1],
				})
			}
			break // first matching pattern wins for this section
		}
	}

	for _, re := range sectionTerminators {
		for _, loc := range re.FindAllStringIndex(text, -1) {
			// Empty section name marks a terminator: the segment that
			// follows it is discarded.
			matches = append(matches, headerMatch{section: "", start: loc[0], contentStart: loc[1]})
		}
	}

	sort.Slice(matches, func(i, j int) bool { return matches[i].start < matches[j].start })

	// Resolve overlapping header matches. The exam-type pattern scans
	// forward to the next colon, so on an exam line without its own colon
	// the match span can swallow the following header ("Examen(s) du
	// 14.03.2022 Indication :"). A later header starting inside an earlier
	// span cuts the earlier header short there; only a header starting at
	// the same offset as the previous one is dropped.
	filtered := matches[:0]
	for _, m := range matches {
		if n := len(filtered); n > 0 && m.start < filtered[n-1].contentStart {
			prev := &filtered[n-1]
			if m.start <= prev.start {
				continue
			}
			prev.contentStart = m.start
		}
		filtered = append(filtered, m)
	}
	matches = filtered

	appendContent := func(section, content string) {
		content = cleanSectionContent(content)
		if content == "" {
			return
		}
		if sections[section] == "" {
			sections[section] = content
		} else {
			sections[section] = sections[section] + " " + content
		}
	}

	if len(matches) == 0 {
		// No recognized header: everything is description.
		appendContent(models.SectionDescription, text)
		sections[models.SectionValidatedBy] = ExtractSignatories(text)
		return sections
	}

	// Preamble before the first header has no open section yet.
	appendContent(models.SectionDescription, text[:matches[0].start])

	for i, m := range matches {
		if m.section == "" {
			continue
		}
		end := len(text)
		if i+1 < len(matches) {
			end = matches[i+1].start
		}
		appendContent(m.section, text[m.contentStart:end])
	}

	sections[models.SectionValidatedBy] = ExtractSignatories(text)
	return sections
}

// cleanSectionContent strips leading bullet markers and punctuation left
// over from the header, and collapses internal whitespace.
func cleanSectionContent(content string) string {
	content = strings.TrimLeft(content, " \t:-–")
	content = bulletPrefix.ReplaceAllString(content, "")
	content = multiSpace.ReplaceAllString(content, " ")
	return strings.TrimSpace(content)
}

// Signatory extraction. Reports are closed by an electronic validation line
// ("Validé électroniquement par ...") or one or more doctor names; all
// patterns are scanned and their captures pooled.
var signaturePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)valid[ée]\s+(?:électroniquement\s+)?par\s+([^,\n]+)`),
	regexp.MustCompile(`Docteur\s+([A-Z][a-z]+\s+[A-Z][a-z]+)`),
	regexp.MustCompile(`([A-Z][a-z]+\s+[A-Z][a-z]+)\s*/\s*([A-Z][a-z]+\s+[A-Z][a-z]+)`),
}

var (
	docteurPrefix = regexp.MustCompile(`(?i)^\s*Docteur\s+`)
	medecinSuffix = regexp.MustCompile(`\s*Médecin.*$`)
)

// ExtractSignatories collects signatory names from the full report text,
// strips repeated titles, deduplicates and returns them sorted and joined
// with "; ". Empty string when nothing plausible is found.
func ExtractSignatories(text string) string {
	seen := make(map[string]bool)
	var names []string

	add := func(raw string) {
		sig := strings.TrimSpace(raw)
		sig = docteurPrefix.ReplaceAllString(sig, "")
		sig = medecinSuffix.ReplaceAllString(sig, "")
		sig = strings.TrimSpace(sig)
		// Short captures are regex noise, not names.
		if len(sig) <= 5 || seen[sig] {
			return
		}
		seen[sig] = true
		names = append(names, sig)
	}

	for _, re := range signaturePatterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			for _, group := range m[1:] {
				if strings.TrimSpace(group) != "" {
					add(group)
				}
			}
		}
	}

	sort.Strings(names)
	return strings.Join(names, "; ")
}
