// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package cssrules

import (
	"io"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// Usage is the set of element names, classes and ids found in a document.
type Usage struct {
	Tags    map[string]bool
	Classes map[string]bool
	IDs     map[string]bool
}

// NewUsage returns an empty Usage.
func NewUsage() *Usage {
	return &Usage{
		Tags:    make(map[string]bool),
		Classes: make(map[string]bool),
		IDs:     make(map[string]bool),
	}
}

// Add records a tag together with its class and id attributes.
func (u *Usage) Add(tag, class, id string) {
	u.Tags[strings.ToLower(tag)] = true
	for _, c := range strings.Fields(class) {
		u.Classes[c] = true
	}
	if id != "" {
		u.IDs[id] = true
	}
}

// compound is the tags, classes and ids of one complex selector.
type compound struct {
	tags, classes, ids []string
}

// SelectorUsed reports whether at least one selector of the list could match
// an element of the document. Pseudo-classes, pseudo-elements, attribute
// selectors and combinators are ignored, so the answer over-approximates.
func (u *Usage) SelectorUsed(selectorList string) bool {
	for _, c := range parseSelectorList(selectorList) {
		if u.matches(c) {
			return true
		}
	}
	return false
}

func (u *Usage) matches(c compound) bool {
	for _, t := range c.tags {
		if !u.Tags[t] {
			return false
		}
	}
	for _, cl := range c.classes {
		if !u.Classes[cl] {
			return false
		}
	}
	for _, id := range c.ids {
		if !u.IDs[id] {
			return false
		}
	}
	return true
}

func parseSelectorList(sel string) []compound {
	l := css.NewLexer(parse.NewInputString(sel))

	var (
		out     []compound
		cur     compound
		nesting int
		afterDot, afterColon bool
	)

	for {
		tt, data := l.Next()
		if tt == css.ErrorToken {
			if l.Err() != io.EOF {
				return nil
			}
			return append(out, cur)
		}

		switch tt {
		case css.LeftBracketToken, css.LeftParenthesisToken, css.FunctionToken:
			nesting++
		case css.RightBracketToken, css.RightParenthesisToken:
			nesting--
		}
		if nesting > 0 || tt == css.RightBracketToken || tt == css.RightParenthesisToken {
			afterDot, afterColon = false, false
			continue
		}

		switch tt {
		case css.CommaToken:
			out = append(out, cur)
			cur = compound{}
		case css.DelimToken:
			afterDot = string(data) == "."
			continue
		case css.ColonToken:
			afterColon = true
			continue
		case css.HashToken:
			cur.ids = append(cur.ids, string(data[1:]))
		case css.IdentToken:
			switch {
			case afterDot:
				cur.classes = append(cur.classes, string(data))
			case afterColon:
				// pseudo-class or pseudo-element
			default:
				cur.tags = append(cur.tags, strings.ToLower(string(data)))
			}
		}
		afterDot, afterColon = false, false
	}
}
