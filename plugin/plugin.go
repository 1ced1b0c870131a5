package plugin

import (
	"context"

	"github.com/cloudharvest/plugincore/registry"
)

// Plugin is the registration entry point every plugin package exposes.
// Register is the plugin's one chance to populate the catalog; definitions
// added through the supplied Binder automatically carry the plugin's
// package name and version.
type Plugin interface {
	// Name returns the unique plugin package name, e.g. "aws".
	Name() string
	// Version returns the plugin version string.
	Version() string
	// Register adds the plugin's definitions to the registry. An error (or
	// panic) here is contained by the bootstrap: definitions added before
	// the failure point stay registered, remaining plugins are unaffected.
	Register(b *registry.Binder) error
}

// Installer is the optional installation entry point. Plugins that need
// external binaries or other one-time setup implement it; the bootstrap
// invokes Install exactly once per process start, after a successful
// Register. A failed install leaves the plugin's registered definitions
// usable.
type Installer interface {
	Install(ctx context.Context) error
}

// Builder constructs a Plugin. The host's build wires one Builder per
// available plugin into the Bootstrap; the manifest decides which of them
// actually run.
type Builder func() (Plugin, error)
