package launcher_test

import (
	"context"
	"sync"

	"github.com/molverse/fragflow/pkg/fireworks"
)

type stubTask struct {
	name string
	run  func(ctx context.Context, spec fireworks.Spec) (*fireworks.FWAction, error)
}

func (t stubTask) Name() string { return t.name }

func (t stubTask) Run(ctx context.Context, spec fireworks.Spec) (*fireworks.FWAction, error) {
	if t.run == nil {
		return nil, nil
	}

	return t.run(ctx, spec)
}

// recorder keeps the order tasks ran in, across goroutines.
type recorder struct {
	mu    sync.Mutex
	order []string
}

func (r *recorder) add(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.order = append(r.order, name)
}

func (r *recorder) names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]string(nil), r.order...)
}

func recordingFirework(rec *recorder, name string, opts ...fireworks.FireworkOption) *fireworks.Firework {
	task := stubTask{name: name, run: func(ctx context.Context, spec fireworks.Spec) (*fireworks.FWAction, error) {
		rec.add(name)

		return nil, nil
	}}

	return fireworks.NewFirework(name, []fireworks.FireTask{task}, opts...)
}
