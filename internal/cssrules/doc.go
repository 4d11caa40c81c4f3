// Package cssrules splits compiled CSS into its top-level rules and offers
// the rule-level operations the style stages need: moving media queries into
// their own stylesheets and keeping only the rules a document uses.
//
// It works on grammar events from the tdewolff/parse CSS parser, so strings,
// comments and escapes containing braces never confuse the rule boundaries.
package cssrules
