// Package config defines the format-agnostic configuration model of the
// asset build: where sources live, where output goes, and the settings of
// every transform stage and of the dev server.
//
// The `config.Model` is the single source of truth for the `pipeline`,
// `watcher` and `devserver` packages. Concrete loaders, such as the HCL one,
// are provided in separate packages.
package config
