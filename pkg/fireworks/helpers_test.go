package fireworks_test

import (
	"context"

	"github.com/molverse/fragflow/pkg/fireworks"
)

type noopTask struct {
	name string
}

func (t noopTask) Name() string { return t.name }

func (t noopTask) Run(ctx context.Context, spec fireworks.Spec) (*fireworks.FWAction, error) {
	return nil, nil
}

func newFirework(name string, opts ...fireworks.FireworkOption) *fireworks.Firework {
	return fireworks.NewFirework(name, []fireworks.FireTask{noopTask{name: name}}, opts...)
}
