// Package template discovers declarative YAML template files and registers
// their documents in the definition registry.
//
// Templates live in directories named "templates" anywhere under the scan
// roots (the host tree and each plugin tree). Every top-level key of a
// template file becomes one registered definition whose value is the parsed
// document body, so code-defined tasks and declarative templates share a
// single lookup surface under different categories.
package template
