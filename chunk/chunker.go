// Package chunk splits a Markdown document into heading-scoped chunks
// suitable for embedding and retrieval. Well-formed frontmatter is
// extracted separately (see frontmatter.go) and never emitted as a chunk.
package chunk

import (
	"strings"

	"github.com/russross/blackfriday/v2"

	"github.com/dotmd/dotmd/core"
)

// windowSize and windowOverlap are the sliding window parameters for
// sections that exceed the target chunk length.
const (
	windowSize    = 512
	windowOverlap = 50
)

// Result is the output of chunking a single file: its frontmatter, the
// section hierarchy discovered, and the chunks derived from it.
type Result struct {
	Frontmatter map[string]string
	Sections    []core.Section
	Chunks      []core.Chunk
}

// headingFrame is one level of the heading stack maintained while
// walking the document.
type headingFrame struct {
	level int
	text  string
}

// section accumulates the body text belonging to one heading scope
// (the text between this heading and the next heading of equal or
// shallower level).
type section struct {
	headingPath []string
	level       int
	body        strings.Builder
}

// Chunk splits off content's leading frontmatter block, parses the rest
// and produces the section hierarchy and chunk records for filePath.
// Malformed frontmatter is not an error: the whole content is chunked
// as opaque text and Result.Frontmatter is nil. Code fences are
// opaque to heading detection: a "#" inside a fenced block is never
// mistaken for a heading, since blackfriday's block parser only
// recognizes ATX headings outside of code spans.
func Chunk(filePath string, content string) (Result, error) {
	// A ParseError from splitFrontmatter is recovered here: body is then
	// the unchanged content and fm is nil.
	fm, body, _ := splitFrontmatter(content)

	sections := walkSections(body)

	var res Result
	res.Frontmatter = fm

	ordinal := 0
	for _, s := range sections {
		text := strings.TrimSpace(s.body.String())
		if text == "" {
			// Empty section (heading with no body before the next
			// heading) produces no chunk, per spec.
			continue
		}

		secID := core.SectionID(filePath, s.headingPath)
		res.Sections = append(res.Sections, core.Section{
			Id:          secID,
			FilePath:    filePath,
			Level:       s.level,
			Heading:     lastOrEmpty(s.headingPath),
			HeadingPath: s.headingPath,
		})

		for _, win := range windowText(text, windowSize, windowOverlap) {
			chunkText := strings.TrimSpace(win.text)
			if chunkText == "" {
				continue
			}
			res.Chunks = append(res.Chunks, core.Chunk{
				Id:          core.ChunkID(filePath, ordinal),
				FilePath:    filePath,
				Ordinal:     ordinal,
				SectionId:   secID,
				HeadingPath: s.headingPath,
				Text:        chunkText,
				StartOffset: win.start,
				EndOffset:   win.end,
				Tokens:      countTokens(chunkText),
			})
			ordinal++
		}
	}

	return res, nil
}

// walkSections traverses the Markdown AST, splitting body into one
// section per heading scope. A leading section with an empty heading
// path holds any content that precedes the first heading, covering
// files with no headings at all.
func walkSections(body string) []*section {
	root := blackfriday.New().Parse([]byte(body))

	var (
		stack   []headingFrame
		result  []*section
		cur     = &section{headingPath: nil, level: 0}
		heading bool
		headBuf strings.Builder
		curLvl  int
	)
	result = append(result, cur)

	finalize := func() {
		if cur != nil {
			// no-op: sections are collected into result as created.
		}
	}
	_ = finalize

	root.Walk(func(n *blackfriday.Node, entering bool) blackfriday.WalkStatus {
		switch n.Type {
		case blackfriday.Heading:
			if entering {
				heading = true
				curLvl = n.HeadingData.Level
				headBuf.Reset()
			} else {
				heading = false
				title := strings.TrimSpace(headBuf.String())

				for len(stack) > 0 && stack[len(stack)-1].level >= curLvl {
					stack = stack[:len(stack)-1]
				}
				stack = append(stack, headingFrame{level: curLvl, text: title})

				path := make([]string, len(stack))
				for i, f := range stack {
					path[i] = f.text
				}
				cur = &section{headingPath: path, level: curLvl}
				result = append(result, cur)
			}
		case blackfriday.Text:
			if heading {
				headBuf.Write(n.Literal)
			} else {
				cur.body.Write(n.Literal)
				cur.body.WriteByte(' ')
			}
		case blackfriday.Code:
			if heading {
				headBuf.Write(n.Literal)
			} else {
				cur.body.Write(n.Literal)
				cur.body.WriteByte(' ')
			}
		case blackfriday.CodeBlock:
			cur.body.Write(n.Literal)
			cur.body.WriteByte('\n')
		case blackfriday.Softbreak, blackfriday.Hardbreak:
			cur.body.WriteByte('\n')
		}
		return blackfriday.GoToNext
	})

	return result
}

func lastOrEmpty(path []string) string {
	if len(path) == 0 {
		return ""
	}
	return path[len(path)-1]
}

type textWindow struct {
	text       string
	start, end int
}

// windowText splits text into overlapping windows of at most size
// tokens, accumulating whole sentences rather than cutting at raw
// token offsets: a sentence never straddles two windows, and each
// window after the first is seeded with the trailing sentences of the
// previous one so consecutive windows share roughly overlap tokens of
// context. A sentence longer than size on its own is kept whole rather
// than being cut. Sections at or under size produce exactly one
// window.
func windowText(text string, size, overlap int) []textWindow {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	if countTokens(text) <= size {
		return []textWindow{{text: text, start: 0, end: len(text)}}
	}

	sentences := splitSentences(text)
	if len(sentences) == 0 {
		return nil
	}

	var (
		windows []textWindow
		current []sentenceSpan
		tokens  int
	)

	flush := func() {
		if len(current) == 0 {
			return
		}
		texts := make([]string, len(current))
		for i, s := range current {
			texts[i] = s.text
		}
		windows = append(windows, textWindow{
			text:  strings.Join(texts, " "),
			start: current[0].start,
			end:   current[len(current)-1].end,
		})
	}

	for _, s := range sentences {
		if s.text == "" {
			continue
		}
		sentTokens := countTokens(s.text)

		if len(current) > 0 && tokens+sentTokens > size {
			flush()

			// Seed the next window with the trailing sentences of this
			// one, up to overlap tokens.
			var kept []sentenceSpan
			keptTok := 0
			for i := len(current) - 1; i >= 0; i-- {
				t := countTokens(current[i].text)
				if keptTok+t > overlap && len(kept) > 0 {
					break
				}
				kept = append([]sentenceSpan{current[i]}, kept...)
				keptTok += t
			}
			current = kept
			tokens = keptTok
		}

		current = append(current, s)
		tokens += sentTokens
	}
	flush()

	return windows
}
