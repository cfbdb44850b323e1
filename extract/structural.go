package extract

import (
	"strings"

	"github.com/dlclark/regexp2"
)

// wikilinkPattern matches [[Target]] and [[Target|Alias]] references.
var wikilinkPattern = regexp2.MustCompile(`\[\[([^\]|]+)(?:\|[^\]]+)?\]\]`, regexp2.None)

// mdLinkPattern matches standard Markdown [text](target) links, but not
// image references (![alt](src)) which describe assets, not relations.
var mdLinkPattern = regexp2.MustCompile(`(?<!!)\[[^\]]*\]\(([^)\s]+)(?:\s+"[^"]*")?\)`, regexp2.None)

// tagPattern matches #tag / #tag/subtag hashtags, excluding ATX heading
// markers ("# Heading") and hex color codes or anchors that happen to
// follow a word character.
var tagPattern = regexp2.MustCompile(`(?<![\w#])#([A-Za-z][A-Za-z0-9_/-]*)`, regexp2.None)

// Structural runs the always-on structural extractor over body (a
// chunk's or file's text, with frontmatter and fenced code already
// stripped or opaque). It never fails: malformed input yields partial
// or empty results.
func Structural(body string) StructuralResult {
	body = stripCodeFences(body)

	return StructuralResult{
		WikiLinks:           findAllGroups(wikilinkPattern, body),
		MarkdownLinkTargets: findAllGroups(mdLinkPattern, body),
		Tags:                normalizeTags(findAllGroups(tagPattern, body)),
	}
}

func findAllGroups(re *regexp2.Regexp, text string) []string {
	var out []string
	m, _ := re.FindStringMatch(text)
	for m != nil {
		if groups := m.Groups(); len(groups) > 1 {
			out = append(out, groups[1].String())
		}
		m, _ = re.FindNextMatch(m)
	}
	return out
}

func normalizeTags(raw []string) []string {
	seen := make(map[string]bool, len(raw))
	out := make([]string, 0, len(raw))
	for _, t := range raw {
		norm := strings.ToLower(t)
		if seen[norm] {
			continue
		}
		seen[norm] = true
		out = append(out, norm)
	}
	return out
}

// stripCodeFences blanks the contents of fenced (```) code blocks so
// hashtags and links inside example code are not mistaken for real
// structural references. Line structure is preserved.
func stripCodeFences(text string) string {
	lines := strings.Split(text, "\n")
	inFence := false
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			inFence = !inFence
			lines[i] = ""
			continue
		}
		if inFence {
			lines[i] = ""
		}
	}
	return strings.Join(lines, "\n")
}
