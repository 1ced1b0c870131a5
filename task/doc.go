// Package task defines the host's "named unit of work" boundary: the Task
// and Chain types that workflow descriptions reference by symbolic name,
// and the registry-backed Resolver that turns those names into concrete
// implementations at runtime.
package task
