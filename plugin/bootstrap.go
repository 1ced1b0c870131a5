package plugin

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/cloudharvest/plugincore/registry"
	"github.com/cloudharvest/plugincore/template"
)

// privateMarker prefixes reserved plugin names that discovery never
// imports.
const privateMarker = "_"

// Observer receives bootstrap events, typically for metrics. A nil
// Observer disables observation.
type Observer interface {
	RecordPlugin(outcome string)
	RecordTemplate(ok bool)
}

// Option configures a Bootstrap created by NewBootstrap.
type Option func(*Bootstrap)

// WithObserver attaches an Observer to the bootstrap.
func WithObserver(obs Observer) Option {
	return func(b *Bootstrap) { b.obs = obs }
}

// Bootstrap runs the discovery pipeline: it imports each manifested
// plugin's registration entry point, scans template directories, and
// invokes installation routines. It is meant to run once, synchronously,
// at process startup, before the host accepts work.
type Bootstrap struct {
	reg      *registry.Registry
	logger   *zap.Logger
	loader   *template.Loader
	obs      Observer
	builders map[string]Builder
}

// NewBootstrap creates a Bootstrap populating reg. A nil logger is
// replaced with a no-op one.
func NewBootstrap(reg *registry.Registry, logger *zap.Logger, opts ...Option) *Bootstrap {
	if logger == nil {
		logger = zap.NewNop()
	}
	b := &Bootstrap{
		reg:      reg,
		logger:   logger.With(zap.String("component", "bootstrap")),
		loader:   template.NewLoader(logger),
		builders: make(map[string]Builder),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Provide announces an available plugin under its manifest identifier.
// Providing a name twice replaces the earlier builder.
func (b *Bootstrap) Provide(name string, builder Builder) {
	b.builders[name] = builder
}

// Run executes one full bootstrap pass over the manifest: registration
// entry points in manifest order, then template discovery, then
// installation routines. Every per-plugin and per-file failure is caught
// at its boundary and recorded in the Report; Run always completes and
// never returns an error.
func (b *Bootstrap) Run(ctx context.Context, m Manifest) *Report {
	m.applyDefaults()
	report := &Report{}

	type registered struct {
		idx    int
		plugin Plugin
	}
	var imported []registered

	for _, name := range m.Plugins {
		status := Status{Name: name, Install: InstallNone}

		switch {
		case strings.HasPrefix(name, privateMarker):
			status.State = StateSkipped
			b.logger.Debug("reserved plugin name skipped", zap.String("plugin", name))
		case b.builders[name] == nil:
			// No registration entry point: nothing to register, not an
			// error.
			status.State = StateSkipped
			b.logger.Info("plugin has nothing to register", zap.String("plugin", name))
		default:
			p, err := b.importPlugin(name, b.builders[name])
			if err != nil {
				status.State = StateImportFailed
				status.Err = err
				b.logger.Error("plugin import failed",
					zap.String("plugin", name),
					zap.Error(err))
			} else {
				status.State = StateRegistered
				status.Version = p.Version()
				imported = append(imported, registered{idx: len(report.Plugins), plugin: p})
				b.logger.Info("plugin registered",
					zap.String("plugin", name),
					zap.String("version", p.Version()))
			}
		}

		if b.obs != nil {
			b.obs.RecordPlugin(string(status.State))
		}
		report.Plugins = append(report.Plugins, status)
	}

	report.Templates = b.loader.Scan(b.reg, m.TemplateRoots)
	if b.obs != nil {
		for i := 0; i < report.Templates.Loaded; i++ {
			b.obs.RecordTemplate(true)
		}
		for range report.Templates.Issues {
			b.obs.RecordTemplate(false)
		}
	}

	if !m.SkipInstall {
		for _, r := range imported {
			b.install(ctx, r.plugin, &report.Plugins[r.idx])
		}
	}

	b.logger.Info("bootstrap complete",
		zap.Int("plugins", len(report.Plugins)),
		zap.Int("registered", len(imported)),
		zap.Int("templates", report.Templates.Loaded))
	return report
}

// importPlugin builds the plugin and runs its registration entry point,
// containing panics. Definitions added before a failure stay in the
// registry; there is no rollback.
func (b *Bootstrap) importPlugin(name string, builder Builder) (Plugin, error) {
	var p Plugin
	err := guard(func() error {
		built, err := builder()
		if err != nil {
			return fmt.Errorf("build plugin %s: %w", name, err)
		}
		if built == nil {
			return fmt.Errorf("build plugin %s: builder returned nil", name)
		}
		p = built
		binder := b.reg.Bind(registry.ModuleMetadata{
			Package: built.Name(),
			Version: built.Version(),
		})
		if err := built.Register(binder); err != nil {
			return fmt.Errorf("register plugin %s: %w", name, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// install runs the plugin's installation routine, if it has one. Failures
// are recorded but leave the plugin's registrations usable.
func (b *Bootstrap) install(ctx context.Context, p Plugin, status *Status) {
	installer, ok := p.(Installer)
	if !ok {
		return
	}
	err := guard(func() error { return installer.Install(ctx) })
	if err != nil {
		status.Install = InstallFailed
		status.InstallErr = err
		if b.obs != nil {
			b.obs.RecordPlugin("install_failed")
		}
		b.logger.Error("plugin install failed; registered definitions remain usable",
			zap.String("plugin", p.Name()),
			zap.Error(err))
		return
	}
	status.Install = InstallSucceeded
	b.logger.Info("plugin installed", zap.String("plugin", p.Name()))
}

// guard converts a panic in fn into an error so one plugin's failure is
// contained at its boundary.
func guard(fn func() error) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v", p)
		}
	}()
	return fn()
}
