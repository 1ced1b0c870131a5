package task

import (
	"context"
	"fmt"
)

// Registry categories for code-defined units of work. Declarative
// templates land in their own categories (see package template).
const (
	Category      = "task"
	CategoryChain = "task chain"
)

// Task is a named unit of work. Workflow descriptions reference tasks only
// by name; the registry resolves the name to a Factory.
type Task interface {
	// Name returns the task's registered name.
	Name() string
	// Run executes the task, feeding the previous step's output in and
	// returning this step's output.
	Run(ctx context.Context, input any) (any, error)
}

// Factory constructs one Task instance. Factories are what task
// definitions register as their value.
type Factory func() Task

// Func adapts a function to the Task interface.
type Func struct {
	TaskName string
	Fn       func(ctx context.Context, input any) (any, error)
}

func (f *Func) Name() string { return f.TaskName }

func (f *Func) Run(ctx context.Context, input any) (any, error) {
	return f.Fn(ctx, input)
}

// Chain runs tasks sequentially, passing each task's output as the next
// task's input.
type Chain struct {
	name  string
	tasks []Task
}

// NewChain creates a chain over the given tasks.
func NewChain(name string, tasks ...Task) *Chain {
	return &Chain{name: name, tasks: tasks}
}

func (c *Chain) Name() string { return c.name }

// Run executes the chain. A task error or context cancellation stops the
// chain at that step.
func (c *Chain) Run(ctx context.Context, input any) (any, error) {
	current := input
	for i, t := range c.tasks {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		out, err := t.Run(ctx, current)
		if err != nil {
			return nil, fmt.Errorf("task %d (%s) failed: %w", i+1, t.Name(), err)
		}
		current = out
	}
	return current, nil
}

// Append adds a task to the end of the chain.
func (c *Chain) Append(t Task) {
	c.tasks = append(c.tasks, t)
}

// Tasks returns the chain's tasks in execution order.
func (c *Chain) Tasks() []Task {
	return c.tasks
}
