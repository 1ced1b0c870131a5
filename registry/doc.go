// Package registry provides the in-memory definition catalog at the core of
// the plugin system.
//
// Every extension point — tasks, task chains, templates, service blueprints —
// is stored as a Definition under a (category, name) key and resolved later
// by symbolic name, so workflow descriptions never link against concrete
// implementations. Registration happens through Add or a module-scoped
// Binder; resolution happens through Find and its projection wrappers.
//
// Usage:
//
//	reg := registry.New(logger)
//	reg.Add(registry.Definition{Category: "task", Name: "file_copy", Value: factory})
//	defs := reg.FindDefinitions(registry.Query{Category: "task", Name: "file_copy"})
package registry
