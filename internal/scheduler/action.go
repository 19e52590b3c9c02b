package scheduler

import (
	"context"
	"fmt"
)

// Action names a registered function together with its bound arguments.
// Only the name is persisted, so a job can be rebuilt after a restart.
type Action struct {
	Name   string
	Args   []string
	Kwargs map[string]string
}

type ActionFunc func(ctx context.Context, action Action) error

// Registry maps action names to their implementations.
type Registry map[string]ActionFunc

func (r Registry) Resolve(name string) (ActionFunc, error) {
	fn, ok := r[name]
	if !ok || fn == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, name)
	}
	return fn, nil
}

func (a Action) Arg(i int) string {
	if i < 0 || i >= len(a.Args) {
		return ""
	}
	return a.Args[i]
}

func (a Action) Kwarg(key string) string {
	return a.Kwargs[key]
}
