// Package plugin provides the discovery and bootstrap pipeline that
// populates the definition registry at process startup.
//
// Plugins are compiled into the host and announced to a Bootstrap through
// Provide; a Manifest selects which of them are activated for a given
// deployment. Bootstrap.Run imports each manifested plugin's registration
// entry point, scans template directories, and runs optional installation
// routines — with per-plugin and per-file failure isolation, so one broken
// plugin can never prevent the others (or the host) from starting.
//
//	boot := plugin.NewBootstrap(reg, logger)
//	boot.Provide("demo", func() (plugin.Plugin, error) { return demo.New(), nil })
//	report := boot.Run(ctx, manifest)
package plugin
