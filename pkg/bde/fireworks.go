package bde

import (
	"github.com/molverse/fragflow/pkg/calcdb"
	"github.com/molverse/fragflow/pkg/fireworks"
	"github.com/molverse/fragflow/pkg/molecule"
	"github.com/molverse/fragflow/pkg/qchem"
)

// Settings carries the job parameters every firework in a fragmentation
// workflow shares. Command, core count and db file accept ">>key<<"
// placeholders resolved from the worker environment at launch time.
type Settings struct {
	QChemCmd    string
	MaxCores    string
	DBFile      string
	InputParams qchem.InputParams

	// Runner and Store override the command execution and the dedup
	// database, mainly for tests and dry runs.
	Runner qchem.Runner
	Store  calcdb.Store

	// MaxFlattenIterations bounds the frequency-flattening restart loop.
	MaxFlattenIterations int
}

func (s Settings) flattenIterations() int {
	if s.MaxFlattenIterations < 1 {
		return 10
	}

	return s.MaxFlattenIterations
}

func (s Settings) specOptions() []fireworks.FireworkOption {
	return []fireworks.FireworkOption{
		fireworks.WithSpec(SpecQChemCmd, s.QChemCmd),
		fireworks.WithSpec(SpecMaxCores, s.MaxCores),
		fireworks.WithSpec(SpecDBFile, s.DBFile),
		fireworks.WithSpec(SpecInputParams, s.InputParams),
	}
}

// NewOptimizeFirework builds the frequency-flattening optimize firework:
// write the input for an optimization, run it until no imaginary modes
// remain, then parse the output, insert the document into the database and
// pass the relaxed molecule on to children.
func NewOptimizeFirework(mol *molecule.Molecule, name string, settings Settings, opts ...fireworks.FireworkOption) *fireworks.Firework {
	tasks := []fireworks.FireTask{
		WriteInputTask{},
		RunJobTask{Runner: settings.Runner, MaxIterations: settings.flattenIterations()},
		ParseOutputTask{Store: settings.Store},
	}

	all := append(settings.specOptions(), fireworks.WithSpec(SpecMolecule, mol))
	all = append(all, opts...)

	return fireworks.NewFirework(name, tasks, all...)
}

// NewFragmentFirework builds the fragmentation firework. The molecule may be
// nil when a parent optimize firework supplies the relaxed structure through
// its spec update.
func NewFragmentFirework(mol *molecule.Molecule, depth int, openRings, checkDB bool, name string, settings Settings, opts ...fireworks.FireworkOption) *fireworks.Firework {
	tasks := []fireworks.FireTask{
		FragmentTask{Settings: settings},
	}

	all := append(settings.specOptions(),
		fireworks.WithSpec(SpecDepth, depth),
		fireworks.WithSpec(SpecOpenRings, openRings),
		fireworks.WithSpec(SpecCheckDB, checkDB),
	)
	if mol != nil {
		all = append(all, fireworks.WithSpec(SpecMolecule, mol))
	}
	all = append(all, opts...)

	return fireworks.NewFirework(name, tasks, all...)
}
