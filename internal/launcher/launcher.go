// Package launcher executes a workflow of fireworks: it repeatedly launches
// every firework whose parents completed, with bounded concurrency, and
// applies the actions tasks hand back (spec updates, defusing, dynamic
// additions).
package launcher

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/molverse/fragflow/pkg/fireworks"
	"github.com/molverse/fragflow/pkg/fireworks/model"
)

// Launcher runs a workflow to completion. It is single-use: create a fresh
// launcher per run.
type Launcher struct {
	wf            *fireworks.Workflow
	worker        *fireworks.Worker
	maxConcurrent int
	opts          []model.LaunchOption

	mu        sync.Mutex
	readyAt   map[string]time.Time
	durations map[string]time.Duration
	startTime time.Time
	ran       bool
}

type Option func(l *Launcher)

// WithWorker sets the environment ">>key<<" spec values resolve against.
func WithWorker(w *fireworks.Worker) Option {
	return func(l *Launcher) {
		l.worker = w
	}
}

// WithMaxConcurrent bounds how many fireworks launch at the same time.
func WithMaxConcurrent(n int) Option {
	return func(l *Launcher) {
		l.maxConcurrent = n
	}
}

// WithLaunchOptions attaches observers such as the drawer and the measure.
func WithLaunchOptions(opts ...model.LaunchOption) Option {
	return func(l *Launcher) {
		l.opts = append(l.opts, opts...)
	}
}

// New creates a launcher for the workflow.
func New(wf *fireworks.Workflow, opts ...Option) (*Launcher, error) {
	if wf == nil {
		return nil, ErrWorkflowMustBeSet
	}
	l := &Launcher{
		wf:            wf,
		maxConcurrent: 1,
		readyAt:       map[string]time.Time{},
		durations:     map[string]time.Duration{},
	}
	for _, opt := range opts {
		opt(l)
	}

	for _, opt := range l.opts {
		err := opt.New()
		if err != nil {
			return nil, errors.Wrap(err, "unable to apply launch option")
		}
	}

	return l, nil
}

// Run launches the workflow and waits for it to finish. The first task
// failure fizzles its firework and fails the run once the current round has
// drained.
func (l *Launcher) Run(ctx context.Context) error {
	l.mu.Lock()
	if l.ran {
		l.mu.Unlock()
		return ErrAlreadyRun
	}
	l.ran = true
	l.startTime = time.Now()
	l.mu.Unlock()

	for _, fw := range l.wf.Fireworks() {
		err := l.prepareFirework(fw)
		if err != nil {
			return err
		}
	}

	for {
		ready := l.readyFireworks()
		if len(ready) == 0 {
			break
		}

		err := l.launchRound(ctx, ready)
		if err != nil {
			return err
		}
	}

	return l.finishRun()
}

func (l *Launcher) finishRun() error {
	for _, opt := range l.opts {
		err := opt.Finish()
		if err != nil {
			return errors.Wrap(err, "unable to finish launch option")
		}
	}

	return nil
}

func (l *Launcher) prepareFirework(fw *fireworks.Firework) error {
	parents := l.wf.Parents(fw.ID())
	parentInfos := make([]*model.FireworkInfo, 0, len(parents))
	for _, p := range parents {
		parentInfos = append(parentInfos, fireworkInfo(p))
	}
	for _, opt := range l.opts {
		err := opt.PrepareFirework(parentInfos, fireworkInfo(fw))
		if err != nil {
			return errors.Wrap(err, "unable to prepare firework")
		}
	}

	return nil
}

// readyFireworks promotes waiting fireworks whose parents all completed and
// returns everything currently launchable.
func (l *Launcher) readyFireworks() []*fireworks.Firework {
	l.mu.Lock()
	defer l.mu.Unlock()

	var ready []*fireworks.Firework
	for _, fw := range l.wf.Fireworks() {
		if fw.State() != fireworks.StateWaiting && fw.State() != fireworks.StateReady {
			continue
		}
		launchable := true
		for _, parent := range l.wf.Parents(fw.ID()) {
			if parent.State() != fireworks.StateCompleted {
				launchable = false
				break
			}
		}
		if !launchable {
			continue
		}
		if fw.State() == fireworks.StateWaiting {
			fw.SetState(fireworks.StateReady)
			l.readyAt[fw.ID()] = time.Now()
		}
		ready = append(ready, fw)
	}

	return ready
}

// launchRound runs one batch of ready fireworks. All launches in the round
// run to completion; their failures are merged and the first one wins.
func (l *Launcher) launchRound(ctx context.Context, round []*fireworks.Firework) error {
	ecs := &errorChans{}
	errGrp, dCtx := errgroup.WithContext(ctx)
	errGrp.SetLimit(l.maxConcurrent)

	for _, fw := range round {
		localFw := fw
		errC := make(chan error, 1)
		ecs.add(newErrorChan(localFw.Name(), errC))
		errGrp.Go(func() error {
			defer close(errC)
			err := l.launch(dCtx, localFw)
			if err != nil {
				errC <- err
			}

			return nil
		})
	}

	err := errGrp.Wait()
	if err != nil {
		return err
	}

	return firstError(ecs.list...)
}

func (l *Launcher) launch(ctx context.Context, fw *fireworks.Firework) error {
	l.mu.Lock()
	waited := time.Since(l.readyAt[fw.ID()])
	fw.SetState(fireworks.StateRunning)
	spec := fw.Spec()
	if l.worker != nil {
		spec[fireworks.SpecWorkerKey] = l.worker
	}
	l.mu.Unlock()

	for _, opt := range l.opts {
		err := opt.BeforeLaunch(fireworkInfo(fw), waited)
		if err != nil {
			return errors.Wrap(err, "unable to run before launch function")
		}
	}

	start := time.Now()
	var actions []*fireworks.FWAction
	var taskErr error
	for _, task := range fw.Tasks() {
		action, err := task.Run(ctx, spec)
		if err != nil {
			taskErr = errors.Wrap(err, task.Name())
			break
		}
		if action != nil {
			actions = append(actions, action)
		}
	}
	ran := time.Since(start)

	l.mu.Lock()
	if taskErr != nil {
		fw.SetState(fireworks.StateFizzled)
	} else {
		fw.SetState(fireworks.StateCompleted)
	}
	l.durations[fw.ID()] = ran
	l.mu.Unlock()

	if taskErr == nil {
		for _, action := range actions {
			err := l.applyAction(fw, action)
			if err != nil {
				return err
			}
		}
	}

	for _, opt := range l.opts {
		err := opt.AfterLaunch(fireworkInfo(fw), ran, time.Since(l.startTime))
		if err != nil {
			return errors.Wrap(err, "unable to run after launch function")
		}
	}

	return taskErr
}

// applyAction pushes an FWAction into the workflow: spec updates and
// defusing to existing children, additions as new children of the emitter.
func (l *Launcher) applyAction(fw *fireworks.Firework, action *fireworks.FWAction) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, child := range l.wf.Children(fw.ID()) {
		if len(action.UpdateSpec) > 0 {
			child.UpdateSpec(action.UpdateSpec)
		}
		if action.DefuseChildren {
			child.SetState(fireworks.StateDefused)
		}
	}

	if len(action.Additions) == 0 {
		return nil
	}
	err := l.wf.Append(fw.ID(), action.Additions)
	if err != nil {
		return errors.Wrap(err, "unable to append additions")
	}
	for _, added := range action.Additions {
		err := l.prepareFirework(added)
		if err != nil {
			return err
		}
	}

	return nil
}

func fireworkInfo(fw *fireworks.Firework) *model.FireworkInfo {
	return &model.FireworkInfo{
		ID:    fw.ID(),
		Name:  fw.Name(),
		State: string(fw.State()),
	}
}
