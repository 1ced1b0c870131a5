package registry

// Binder is a module-scoped registrar. The bootstrap hands one to each
// plugin's registration entry point so every definition the plugin adds is
// stamped with the plugin's package and version automatically; the plugin
// never resolves its own metadata.
//
// Registration through a Binder is otherwise identical to calling Add on
// the underlying Registry: the registered value is stored unmodified and
// duplicate keys replace the previous record.
type Binder struct {
	reg    *Registry
	module ModuleMetadata
}

// Bind returns a Binder that stamps every registration with m.
func (r *Registry) Bind(m ModuleMetadata) *Binder {
	return &Binder{reg: r, module: m}
}

// Add registers a definition with the bound module metadata. Any metadata
// already present on the definition is overwritten.
func (b *Binder) Add(def Definition) error {
	def.Module = b.module
	return b.reg.Add(def)
}

// TrackInstance records a constructed object against the live record at
// (category, name). See Registry.TrackInstance.
func (b *Binder) TrackInstance(category, name string, object any) error {
	return b.reg.TrackInstance(category, name, object)
}

// Module returns the metadata this Binder stamps onto registrations.
func (b *Binder) Module() ModuleMetadata {
	return b.module
}

// Registry returns the underlying Registry, for plugins that need read
// access during registration.
func (b *Binder) Registry() *Registry {
	return b.reg
}
