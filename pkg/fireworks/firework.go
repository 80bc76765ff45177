package fireworks

import (
	"context"

	"github.com/google/uuid"
)

// State is the lifecycle state of a firework.
type State string

const (
	StateWaiting   State = "WAITING"
	StateReady     State = "READY"
	StateRunning   State = "RUNNING"
	StateCompleted State = "COMPLETED"
	StateFizzled   State = "FIZZLED"
	StateDefused   State = "DEFUSED"
)

// Spec carries the parameters a firework's tasks run against. Parents can
// extend it through FWAction spec updates before the firework launches.
type Spec map[string]any

// Copy returns a shallow copy of the spec.
func (s Spec) Copy() Spec {
	cp := make(Spec, len(s))
	for k, v := range s {
		cp[k] = v
	}

	return cp
}

// FWAction is what a task hands back to the launcher: data worth keeping,
// spec updates for children, dynamically created child fireworks, and
// whether the children should be defused instead of run.
type FWAction struct {
	StoredData     map[string]any
	UpdateSpec     Spec
	Additions      []*Firework
	DefuseChildren bool
}

// FireTask is one executable action inside a firework.
type FireTask interface {
	Name() string
	Run(ctx context.Context, spec Spec) (*FWAction, error)
}

// Firework is a unit of work in a workflow.
type Firework struct {
	id      string
	name    string
	tasks   []FireTask
	spec    Spec
	parents []string
	state   State
}

type FireworkOption func(fw *Firework)

// WithSpec sets one spec entry on the firework.
func WithSpec(key string, value any) FireworkOption {
	return func(fw *Firework) {
		fw.spec[key] = value
	}
}

// WithParents declares dependencies: each parent must complete before this
// firework runs. Parents are honoured when the firework joins a workflow.
func WithParents(parents ...*Firework) FireworkOption {
	return func(fw *Firework) {
		for _, p := range parents {
			fw.parents = append(fw.parents, p.ID())
		}
	}
}

// NewFirework creates a firework with a fresh identity.
func NewFirework(name string, tasks []FireTask, opts ...FireworkOption) *Firework {
	fw := &Firework{
		id:    uuid.NewString(),
		name:  name,
		tasks: tasks,
		spec:  Spec{},
		state: StateWaiting,
	}
	for _, opt := range opts {
		opt(fw)
	}

	return fw
}

func (fw *Firework) ID() string        { return fw.id }
func (fw *Firework) Name() string      { return fw.name }
func (fw *Firework) Tasks() []FireTask { return fw.tasks }
func (fw *Firework) State() State      { return fw.state }

// Spec returns the live spec. The launcher owns mutation ordering; readers
// outside a launch should Copy first.
func (fw *Firework) Spec() Spec { return fw.spec }

// SetState moves the firework to the given state.
func (fw *Firework) SetState(state State) { fw.state = state }

// UpdateSpec merges the given entries into the firework spec.
func (fw *Firework) UpdateSpec(update Spec) {
	for k, v := range update {
		fw.spec[k] = v
	}
}

// ParentIDs lists the parents declared at construction time.
func (fw *Firework) ParentIDs() []string {
	return append([]string(nil), fw.parents...)
}
