package plugin

import "github.com/cloudharvest/plugincore/template"

// State is a plugin's registration outcome.
type State string

const (
	// StateSkipped marks a manifested name with no provided builder (the
	// package has nothing to register) or a reserved private name.
	StateSkipped State = "skipped"
	// StateRegistered marks a plugin whose entry point imported cleanly.
	StateRegistered State = "registered"
	// StateImportFailed marks a plugin whose entry point errored or
	// panicked. Definitions added before the failure point are kept.
	StateImportFailed State = "import_failed"
)

// InstallState is a plugin's installation outcome, orthogonal to State.
type InstallState string

const (
	// InstallNone marks plugins with no installation routine, plugins that
	// never registered, and bootstraps run with SkipInstall.
	InstallNone InstallState = "none"
	// InstallSucceeded marks a completed installation routine.
	InstallSucceeded InstallState = "succeeded"
	// InstallFailed marks an installation routine that errored or panicked.
	// The plugin's registered definitions remain usable.
	InstallFailed InstallState = "failed"
)

// Status is the diagnostic record for one manifested plugin.
type Status struct {
	Name       string
	Version    string
	State      State
	Install    InstallState
	Err        error
	InstallErr error
}

// Report is the outcome of one bootstrap pass. Bootstrap failures never
// propagate as errors; they are collected here for diagnostics.
type Report struct {
	Plugins   []Status
	Templates template.Result
}

// Registered returns the names of plugins whose entry point imported
// cleanly.
func (r *Report) Registered() []string {
	var out []string
	for _, s := range r.Plugins {
		if s.State == StateRegistered {
			out = append(out, s.Name)
		}
	}
	return out
}

// Failed returns the statuses of plugins that failed to import or install.
func (r *Report) Failed() []Status {
	var out []Status
	for _, s := range r.Plugins {
		if s.State == StateImportFailed || s.Install == InstallFailed {
			out = append(out, s)
		}
	}
	return out
}

// Status returns the record for the named plugin.
func (r *Report) Status(name string) (Status, bool) {
	for _, s := range r.Plugins {
		if s.Name == name {
			return s, true
		}
	}
	return Status{}, false
}
