package extract

import (
	"sort"
	"strings"

	"github.com/dlclark/regexp2"

	"github.com/dotmd/dotmd/core"
)

// acronymPatterns are common patterns for spelling out an acronym next
// to its expansion, checked in order against every chunk body:
//   - "Security Information and Event Management (SIEM)"
//   - "SIEM (Security Information and Event Management)"
//   - "SIEM stands for Security Information and Event Management"
//   - "Mean Time To Identify, or MTTI"
//   - a two-column markdown table row: "| **MTTD** | Mean Time to Detect |"
var acronymPatterns = []*regexp2.Regexp{
	regexp2.MustCompile(`([A-Z][a-zA-Z\s&]+?)\s*\(([A-Z]{2,})\)`, regexp2.None),
	regexp2.MustCompile(`([A-Z]{2,})\s*\(([A-Z][a-zA-Z\s&]+?)\)`, regexp2.None),
	regexp2.MustCompile(`([A-Z]{2,})\s+(?:stands for|is short for|means)\s+([A-Z][a-zA-Z\s&]+)`, regexp2.None),
	regexp2.MustCompile(`([A-Z][a-zA-Z\s]+?),\s+(?:or|abbreviated as)\s+([A-Z]{2,})`, regexp2.None),
	regexp2.MustCompile(`\|\s*\*?\*?([A-Z]{2,})\*?\*?\s*\|\s*([A-Z][a-zA-Z\s]+?)\s*\|`, regexp2.None),
}

// Acronyms scans text for acronym-definition patterns and returns a
// mapping of uppercase acronym to the distinct expansions found for it.
func Acronyms(text string) map[string][]string {
	found := make(map[string]map[string]bool)

	for _, pattern := range acronymPatterns {
		m, _ := pattern.FindStringMatch(text)
		for m != nil {
			groups := m.Groups()
			if len(groups) < 3 {
				m, _ = pattern.FindNextMatch(m)
				continue
			}
			part1 := groups[1].String()
			part2 := groups[2].String()

			var acronym, expansion string
			switch {
			case isAllUpper(part1) && len(part1) >= 2:
				acronym, expansion = part1, strings.TrimSpace(part2)
			case isAllUpper(part2) && len(part2) >= 2:
				acronym, expansion = part2, strings.TrimSpace(part1)
			default:
				m, _ = pattern.FindNextMatch(m)
				continue
			}

			if isValidAcronym(acronym, expansion) {
				if found[acronym] == nil {
					found[acronym] = make(map[string]bool)
				}
				found[acronym][expansion] = true
			}
			m, _ = pattern.FindNextMatch(m)
		}
	}

	out := make(map[string][]string, len(found))
	for acronym, expansions := range found {
		list := make([]string, 0, len(expansions))
		for e := range expansions {
			list = append(list, e)
		}
		sort.Strings(list)
		out[acronym] = list
	}
	return out
}

// AcronymsFromChunks combines the acronym dictionary found across every
// chunk's text, so a query expander can be built from a whole corpus in
// one pass.
func AcronymsFromChunks(chunks []core.Chunk) map[string][]string {
	combined := make(map[string]map[string]bool)

	for _, c := range chunks {
		for acronym, expansions := range Acronyms(c.Text) {
			if combined[acronym] == nil {
				combined[acronym] = make(map[string]bool)
			}
			for _, e := range expansions {
				combined[acronym][e] = true
			}
		}
	}

	out := make(map[string][]string, len(combined))
	for acronym, expansions := range combined {
		list := make([]string, 0, len(expansions))
		for e := range expansions {
			list = append(list, e)
		}
		sort.Strings(list)
		out[acronym] = list
	}
	return out
}

func isAllUpper(s string) bool {
	hasLetter := false
	for _, r := range s {
		if r >= 'a' && r <= 'z' {
			return false
		}
		if r >= 'A' && r <= 'Z' {
			hasLetter = true
		}
	}
	return hasLetter
}

// isValidAcronym reports whether acronym is a (possibly non-contiguous)
// subsequence of the initial letters of expansion's words, allowing
// minor words like "and" or "of" to be skipped, e.g. "CIA" from
// "Confidentiality Integrity Availability".
func isValidAcronym(acronym, expansion string) bool {
	var initials []rune
	for _, word := range strings.Fields(expansion) {
		for _, r := range word {
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
				initials = append(initials, toUpperRune(r))
			}
			break
		}
	}

	idx := 0
	for _, letter := range strings.ToUpper(acronym) {
		found := false
		for ; idx < len(initials); idx++ {
			if initials[idx] == letter {
				found = true
				idx++
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func toUpperRune(r rune) rune {
	if r >= 'a' && r <= 'z' {
		return r - ('a' - 'A')
	}
	return r
}
