// Package hcl_adapter loads the build configuration from an HCL file into the
// format-agnostic config.Model.
//
// Every block and attribute is optional; anything left out keeps the value
// from config.Default. Expressions are evaluated with a small function set
// (env, upper, lower, join, format) so a configuration can read, for
// example, the dev server port from the environment.
package hcl_adapter
