package drawer

import (
	"github.com/molverse/fragflow/pkg/fireworks/measure"
)

// Drawer is an interface that defines the methods for drawing a workflow.
type Drawer interface {
	// AddFirework adds a firework node to the workflow drawer.
	AddFirework(name string) error
	// AddLink adds a link between parent and child fireworks.
	AddLink(parentName, childName string) error
	// SetState records the final state of a firework.
	SetState(name, state string) error
	// Draw creates a file with the workflow graph.
	Draw() error
	// AddMeasure adds a measure to the workflow drawer.
	AddMeasure(measure measure.Measure) error
}
