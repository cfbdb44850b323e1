// Package extract pulls structural and semantic signal out of chunk and
// file text: wikilinks, markdown links and hashtags at the structural
// layer, named entities at the optional NER layer. Frontmatter is parsed
// by package chunk, not here.
package extract

// StructuralResult holds everything the always-on structural extractor
// finds in a single chunk or file body.
type StructuralResult struct {
	// WikiLinks are the targets of [[Target]] / [[Target|Alias]] links.
	WikiLinks []string

	// MarkdownLinkTargets are the URLs/paths of [text](target) links.
	MarkdownLinkTargets []string

	// Tags are hashtag references, normalized (leading "#" stripped,
	// lowercased).
	Tags []string
}
