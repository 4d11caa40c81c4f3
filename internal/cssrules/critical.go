// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package cssrules

// Critical returns the part of src a document with the given usage needs on
// first paint: the qualified rules with a used selector, `@font-face`, and
// `@media`/`@supports` blocks reduced to their used rules.
func Critical(src []byte, u *Usage) ([]byte, error) {
	rules, err := Split(src)
	if err != nil {
		return nil, err
	}
	kept, err := filterRules(rules, u)
	if err != nil {
		return nil, err
	}
	return Join(kept), nil
}

func filterRules(rules []Rule, u *Usage) ([]Rule, error) {
	var kept []Rule
	for _, r := range rules {
		switch r.AtKeyword() {
		case "":
			if u.SelectorUsed(r.Prelude) {
				kept = append(kept, r)
			}
		case "font-face":
			kept = append(kept, r)
		case "media", "supports":
			inner, err := Split([]byte(r.Body))
			if err != nil {
				return nil, err
			}
			used, err := filterRules(inner, u)
			if err != nil {
				return nil, err
			}
			if len(used) > 0 {
				kept = append(kept, Rule{Prelude: r.Prelude, Body: "\n" + string(Join(used))})
			}
		}
	}
	return kept, nil
}
