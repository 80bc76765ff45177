package measure

import (
	"time"

	"github.com/molverse/fragflow/pkg/fireworks/model"
)

type launchMeasure struct {
	Measure
}

func (lm *launchMeasure) New() error {
	return nil
}

func (lm *launchMeasure) PrepareFirework(parents []*model.FireworkInfo, fw *model.FireworkInfo) error {
	lm.AddMetric(fw.Name)

	return nil
}

func (lm *launchMeasure) BeforeLaunch(fw *model.FireworkInfo, waited time.Duration) error {
	lm.GetMetric(fw.Name).AddWaitDuration(waited)

	return nil
}

func (lm *launchMeasure) AfterLaunch(fw *model.FireworkInfo, ran, sinceStart time.Duration) error {
	mt := lm.GetMetric(fw.Name)
	mt.AddRunDuration(ran)
	mt.SetTotalDuration(sinceStart)

	return nil
}

func (lm *launchMeasure) Finish() error {
	return nil
}

// LaunchMeasure wires a Measure into a launch as an option.
func LaunchMeasure(measure Measure) model.LaunchOption {
	return &launchMeasure{measure}
}
