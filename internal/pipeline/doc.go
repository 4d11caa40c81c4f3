// Package pipeline declares the canonical build order of the asset stages and
// selects the build variant.
//
// Build turns a populated registry and a configuration into a dag.Graph:
// clean first, then the writer stages in parallel (images before webp), and
// for the min and prod variants the minification, font and critical-CSS
// stages chained after the stages whose output they rewrite. WatchRules
// derives the file watcher's rule table from the same registry.
package pipeline
