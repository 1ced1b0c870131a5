package task

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/cloudharvest/plugincore/registry"
)

// ErrUnknownTask is returned when no definition exists for a requested
// task name. The registry itself reports absence as an empty result; the
// error condition belongs to this consumer.
var ErrUnknownTask = errors.New("task: unknown task")

// Resolver resolves symbolic task names against the definition registry.
type Resolver struct {
	reg    *registry.Registry
	logger *zap.Logger
}

// NewResolver creates a Resolver over reg. A nil logger is replaced with a
// no-op one.
func NewResolver(reg *registry.Registry, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{
		reg:    reg,
		logger: logger.With(zap.String("component", "task_resolver")),
	}
}

// Resolve returns the Factory registered under (task, name).
func (r *Resolver) Resolve(name string) (Factory, error) {
	defs := r.reg.FindDefinitions(registry.Query{Category: Category, Name: name})
	if len(defs) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTask, name)
	}
	switch f := defs[0].(type) {
	case Factory:
		return f, nil
	case func() Task:
		return Factory(f), nil
	default:
		return nil, fmt.Errorf("%w: %q is registered but is not a task factory", ErrUnknownTask, name)
	}
}

// Build resolves name and constructs one Task instance. The construction
// is recorded against the definition before Build returns, so definitions
// registered with instance tracking observe every build.
func (r *Resolver) Build(name string) (Task, error) {
	factory, err := r.Resolve(name)
	if err != nil {
		return nil, err
	}
	t := factory()
	if err := r.reg.TrackInstance(Category, name, t); err != nil {
		r.logger.Warn("instance tracking failed",
			zap.String("task", name),
			zap.Error(err))
	}
	return t, nil
}
