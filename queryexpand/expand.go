// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package queryexpand appends acronym expansions and heading-structure
// context to a raw query string, before it reaches any retriever. It
// never consults the vector or graph stores: every expansion is derived
// from dictionaries and a heading index built ahead of time.
package queryexpand

import (
	"strings"

	"github.com/xrash/smetrics"
)

// HeadingEntry names one corpus heading and the ancestor titles above
// it in its file's heading tree.
type HeadingEntry struct {
	Heading  string
	Ancestry []string
}

// Expander appends acronym and heading-context terms to a query. It
// holds no store handles; both dictionaries are supplied at
// construction and Expand never mutates them.
type Expander struct {
	acronyms map[string]string      // uppercase acronym -> expansion
	headings map[string]HeadingEntry // lowercase heading -> entry
}

// New builds an Expander from an acronym dictionary (keys are matched
// case-insensitively against uppercase query tokens) and a corpus
// heading index.
func New(acronyms map[string]string, headings []HeadingEntry) *Expander {
	upperAcronyms := make(map[string]string, len(acronyms))
	for k, v := range acronyms {
		upperAcronyms[strings.ToUpper(k)] = v
	}
	headingIndex := make(map[string]HeadingEntry, len(headings))
	for _, h := range headings {
		headingIndex[strings.ToLower(h.Heading)] = h
	}
	return &Expander{acronyms: upperAcronyms, headings: headingIndex}
}

// Expand appends acronym and heading-context terms to query, returning
// the expanded string used by downstream retrievers. It is a pure
// function of its inputs and the Expander's dictionaries.
func (e *Expander) Expand(query string) string {
	tokens := strings.Fields(query)
	var extra []string

	for _, tok := range tokens {
		clean := strings.Trim(tok, ".,!?;:'\"()[]{}")
		if clean == "" {
			continue
		}
		if expansion, ok := e.expandAcronym(clean); ok {
			extra = append(extra, expansion)
		}
	}

	for _, tok := range tokens {
		clean := strings.ToLower(strings.Trim(tok, ".,!?;:'\"()[]{}"))
		if entry, ok := e.headings[clean]; ok {
			extra = append(extra, entry.Ancestry...)
		}
	}

	if len(extra) == 0 {
		return query
	}
	return query + " " + strings.Join(extra, " ")
}

// expandAcronym matches tok against the acronym dictionary: an exact
// uppercase match first, then a fuzzy match (edit distance <= 1) for
// tokens of length >= 3.
func (e *Expander) expandAcronym(tok string) (string, bool) {
	upper := strings.ToUpper(tok)
	if expansion, ok := e.acronyms[upper]; ok {
		return expansion, true
	}
	if len(upper) < 3 {
		return "", false
	}
	for acronym, expansion := range e.acronyms {
		if len(acronym) < 3 {
			continue
		}
		if smetrics.WagnerFischer(upper, acronym, 1, 1, 1) <= 1 {
			return expansion, true
		}
	}
	return "", false
}
