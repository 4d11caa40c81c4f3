// Package app contains the core application logic. It wires configuration,
// the transform registry, the build graph, the watcher and the dev server
// together, decoupled from any specific entrypoint like a CLI.
package app
