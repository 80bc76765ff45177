package drawer

import (
	"time"

	"github.com/pkg/errors"

	"github.com/molverse/fragflow/pkg/fireworks/measure"
	"github.com/molverse/fragflow/pkg/fireworks/model"
)

type launchDrawer struct {
	Drawer
	m measure.Measure
}

func (ld *launchDrawer) New() error {
	return nil
}

func (ld *launchDrawer) PrepareFirework(parents []*model.FireworkInfo, fw *model.FireworkInfo) error {
	err := ld.AddFirework(fw.Name)
	if err != nil {
		return err
	}
	for _, parent := range parents {
		err := ld.AddLink(parent.Name, fw.Name)
		if err != nil {
			return err
		}
	}

	return nil
}

func (ld *launchDrawer) BeforeLaunch(fw *model.FireworkInfo, waited time.Duration) error {
	return nil
}

func (ld *launchDrawer) AfterLaunch(fw *model.FireworkInfo, ran, sinceStart time.Duration) error {
	return ld.SetState(fw.Name, fw.State)
}

func (ld *launchDrawer) Finish() error {
	if ld.m != nil {
		err := ld.AddMeasure(ld.m)
		if err != nil {
			return errors.Wrap(err, "unable to add measure")
		}
	}

	err := ld.Draw()
	if err != nil {
		return errors.Wrap(err, "unable to draw workflow")
	}

	return nil
}

// LaunchDrawer wires a Drawer into a launch as an option. The measure may be
// nil when no timings are collected.
func LaunchDrawer(drawer Drawer, measure measure.Measure) model.LaunchOption {
	return &launchDrawer{drawer, measure}
}
