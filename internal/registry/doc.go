// Package registry provides the central "glue" for the module system.
//
// The Registry maps stage names (e.g., "styles", "compress-css") to the
// compiled Go factories that turn the build configuration into a runnable
// task. Modules populate it at startup through their Register method.
//
// After population the registry is validated against the stages the build
// graph needs, so a missing or misnamed module is reported before any file
// is touched.
package registry
