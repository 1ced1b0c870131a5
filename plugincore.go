// Package plugincore provides a top-level convenience entry point for
// wiring the definition registry and bootstrap pipeline with minimal
// boilerplate.
//
// Usage:
//
//	reg, boot := plugincore.New(logger)
//	boot.Provide("demo", demoBuilder)
//	report := boot.Run(ctx, manifest)
//
// Hosts that need metrics use NewInstrumented, which registers Prometheus
// instruments under the given namespace and attaches them to both the
// registry and the bootstrap.
package plugincore

import (
	"go.uber.org/zap"

	"github.com/cloudharvest/plugincore/internal/metrics"
	"github.com/cloudharvest/plugincore/plugin"
	"github.com/cloudharvest/plugincore/registry"
)

// New creates an empty registry and a bootstrap populating it.
func New(logger *zap.Logger) (*registry.Registry, *plugin.Bootstrap) {
	reg := registry.New(logger)
	return reg, plugin.NewBootstrap(reg, logger)
}

// NewInstrumented is New with Prometheus metrics registered under
// namespace on the default registerer.
func NewInstrumented(namespace string, logger *zap.Logger) (*registry.Registry, *plugin.Bootstrap) {
	collector := metrics.NewCollector(namespace, logger)
	reg := registry.New(logger, registry.WithObserver(collector))
	boot := plugin.NewBootstrap(reg, logger, plugin.WithObserver(collector))
	return reg, boot
}
