// Package metrics provides internal Prometheus metrics collection for the
// registry and the bootstrap pipeline. This package is internal and should
// not be imported by external projects; it is wired in through the
// registry.Observer interface and the bootstrap's template/install hooks.
package metrics
