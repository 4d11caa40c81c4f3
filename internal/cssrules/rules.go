// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package cssrules

import (
	"bytes"
	"fmt"
	"io"
	"slices"
	"strings"
	"unicode"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// Rule is one top-level CSS construct: a qualified rule (`a { ... }`), a block
// at-rule (`@media ... { ... }`) or a statement at-rule (`@import ...;`).
type Rule struct {
	// Prelude is everything before the block, trimmed.
	Prelude string
	// Body is the raw text between the outer braces. Empty for statements.
	Body string
	// Statement is true for at-rules terminated by a semicolon.
	Statement bool
	// Start and End are the byte offsets of the rule within the parsed
	// stylesheet, from the first prelude byte to just past the closing
	// brace or semicolon.
	Start, End int
}

// AtKeyword returns the lowercased at-keyword without the `@`, or "" for
// qualified rules.
func (r Rule) AtKeyword() string {
	if !strings.HasPrefix(r.Prelude, "@") {
		return ""
	}
	kw := r.Prelude[1:]
	if i := strings.IndexFunc(kw, func(c rune) bool { return c == ' ' || c == '\t' || c == '\n' || c == '(' || c == '"' || c == '\'' }); i >= 0 {
		kw = kw[:i]
	}
	return strings.ToLower(kw)
}

// Params returns the prelude of an at-rule after its keyword.
func (r Rule) Params() string {
	if r.AtKeyword() == "" {
		return ""
	}
	return strings.TrimSpace(r.Prelude[1+len(r.AtKeyword()):])
}

// String renders the rule back to CSS.
func (r Rule) String() string {
	if r.Statement {
		return r.Prelude + ";"
	}
	return r.Prelude + " {" + r.Body + "}"
}

// Split parses src and returns its top-level rules in source order.
// Top-level comments are not rules and are skipped.
func Split(src []byte) ([]Rule, error) {
	p := css.NewParser(parse.NewInputBytes(src), false)
	var (
		rules []Rule
		depth int
		open  int // offset just past the '{' of the current top-level block
		prev  int // offset just past the previous top-level construct
	)
	for {
		gt, tt, _ := p.Next()
		switch gt {
		case css.ErrorGrammar:
			if depth > 0 {
				// Broken declarations are left to the consumer.
				continue
			}
			if !p.HasParseError() {
				if err := p.Err(); err != io.EOF {
					return nil, err
				}
				return rules, nil
			}
			rest := bytes.TrimSpace(src[prev:])
			switch {
			case bytes.HasPrefix(rest, []byte("}")):
				return nil, fmt.Errorf("unbalanced '}' after %d rule(s)", len(rules))
			case p.Offset() >= len(src):
				return nil, fmt.Errorf("unexpected end of stylesheet after %q", rest)
			}
			return nil, p.Err()
		case css.CommentGrammar, css.TokenGrammar:
			if depth == 0 {
				prev = p.Offset()
			}
		case css.AtRuleGrammar:
			if depth > 0 {
				continue
			}
			end := p.Offset()
			text := src[prev:end]
			switch {
			case bytes.HasSuffix(text, []byte("}")):
				return nil, fmt.Errorf("unbalanced '}' after %d rule(s)", len(rules))
			case !bytes.HasSuffix(text, []byte(";")):
				return nil, fmt.Errorf("unexpected end of stylesheet after %q", bytes.TrimSpace(text))
			}
			rules = append(rules, Rule{
				Prelude:   strings.TrimSpace(string(text[:len(text)-1])),
				Statement: true,
				Start:     prev + leadingSpace(text),
				End:       end,
			})
			prev = end
		case css.BeginAtRuleGrammar, css.BeginRulesetGrammar:
			if depth == 0 {
				open = p.Offset()
			}
			depth++
		case css.EndAtRuleGrammar, css.EndRulesetGrammar:
			if tt == css.ErrorToken {
				return nil, fmt.Errorf("unexpected end of stylesheet: %d unclosed block(s)", depth)
			}
			depth--
			if depth > 0 {
				continue
			}
			end := p.Offset()
			rules = append(rules, Rule{
				Prelude: strings.TrimSpace(string(src[prev : open-1])),
				Body:    string(src[open : end-1]),
				Start:   prev + leadingSpace(src[prev:open]),
				End:     end,
			})
			prev = end
		}
	}
}

func leadingSpace(b []byte) int {
	return len(b) - len(bytes.TrimLeftFunc(b, unicode.IsSpace))
}

// Blank returns a copy of src with the given rules replaced by spaces. Line
// breaks are kept and every character becomes as many spaces as it has
// UTF-16 units, so source map positions of the remaining text stay valid.
// The rules must come from Split(src).
func Blank(src []byte, rules []Rule) []byte {
	sorted := slices.Clone(rules)
	slices.SortFunc(sorted, func(a, b Rule) int { return a.Start - b.Start })

	out := make([]byte, 0, len(src))
	last := 0
	for _, r := range sorted {
		out = append(out, src[last:r.Start]...)
		for b := src[r.Start:r.End]; len(b) > 0; {
			c, size := utf8.DecodeRune(b)
			b = b[size:]
			switch {
			case c == '\n' || c == '\r':
				out = append(out, byte(c))
			case utf16.RuneLen(c) == 2:
				out = append(out, ' ', ' ')
			default:
				out = append(out, ' ')
			}
		}
		last = r.End
	}
	return append(out, src[last:]...)
}

// Join renders rules back into a stylesheet, one rule per line.
func Join(rules []Rule) []byte {
	var buf bytes.Buffer
	for _, r := range rules {
		buf.WriteString(r.String())
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}
