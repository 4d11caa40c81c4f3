// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package cssrules

import (
	"strings"
	"unicode"
)

// ExtractMedia removes the top-level `@media` rules whose query appears in
// queries (query → label) and returns them grouped by label. Matching
// ignores case and whitespace. The extracted rules keep their `@media`
// wrapper so each file can be linked without a media attribute.
//
// The removed rules are blanked rather than cut, so rest keeps the line and
// column of everything left in it, including a trailing source map comment.
func ExtractMedia(src []byte, queries map[string]string) (rest []byte, extracted map[string][]byte, err error) {
	rules, err := Split(src)
	if err != nil {
		return nil, nil, err
	}

	byQuery := make(map[string]string, len(queries))
	for q, label := range queries {
		byQuery[normalizeQuery(q)] = label
	}

	var removed []Rule
	grouped := make(map[string][]Rule)
	for _, r := range rules {
		if r.AtKeyword() == "media" {
			if label, ok := byQuery[normalizeQuery(r.Params())]; ok {
				grouped[label] = append(grouped[label], r)
				removed = append(removed, r)
			}
		}
	}

	extracted = make(map[string][]byte, len(grouped))
	for label, rs := range grouped {
		extracted[label] = Join(rs)
	}
	return Blank(src, removed), extracted, nil
}

func normalizeQuery(q string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToLower(r)
	}, q)
}
