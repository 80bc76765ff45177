package model

import "time"

// FireworkInfo is the read-only summary of a firework handed to launch
// options.
type FireworkInfo struct {
	ID    string
	Name  string
	State string
}

// LaunchOption defines the interface for launch observers such as the
// drawer and the measure.
type LaunchOption interface {
	// New initialises the launch option.
	New() error

	// PrepareFirework runs when a firework joins the launch, with the
	// fireworks it depends on.
	PrepareFirework(parents []*FireworkInfo, fw *FireworkInfo) error
	// BeforeLaunch runs right before a firework's tasks execute.
	BeforeLaunch(fw *FireworkInfo, waited time.Duration) error
	// AfterLaunch runs once a firework finished, with its final state, how
	// long its tasks ran and how far into the launch it completed.
	AfterLaunch(fw *FireworkInfo, ran, sinceStart time.Duration) error

	// Finish runs after the whole launch is over.
	Finish() error
}
