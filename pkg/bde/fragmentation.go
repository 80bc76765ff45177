// Package bde assembles workflows that fragment a molecule and optimize
// each fragment, most often to obtain bond dissociation energies.
package bde

import (
	"github.com/pkg/errors"

	"github.com/molverse/fragflow/pkg/calcdb"
	"github.com/molverse/fragflow/pkg/fireworks"
	"github.com/molverse/fragflow/pkg/molecule"
	"github.com/molverse/fragflow/pkg/qchem"
)

var ErrMoleculeMustBeSet = errors.New("molecule must be set")

const (
	// Spec value defaults resolved from the worker environment at launch.
	DefaultMaxCores = ">>max_cores<<"
	DefaultQChemCmd = ">>qchem_cmd<<"
	DefaultDBFile   = ">>db_file<<"

	defaultName  = "FF then fragment"
	optimizeName = "first FF"
	fragmentName = "fragment and FF_opt"
)

type config struct {
	openRings      bool
	pcmDielectric  *float64
	doOptimization bool
	checkDB        bool
	name           string
	settings       Settings
	metadata       map[string]any
}

type Option func(c *config)

// KeepRingsClosed disables ring opening during fragmentation.
func KeepRingsClosed() Option {
	return func(c *config) {
		c.openRings = false
	}
}

// WithPCMDielectric optimizes in implicit solvent with the given dielectric
// constant.
func WithPCMDielectric(eps float64) Option {
	return func(c *config) {
		c.pcmDielectric = &eps
	}
}

// SkipOptimization fragments the given molecule directly instead of
// optimizing it first.
func SkipOptimization() Option {
	return func(c *config) {
		c.doOptimization = false
	}
}

// SkipDBCheck adds fragment fireworks without consulting the database for
// equivalent structures.
func SkipDBCheck() Option {
	return func(c *config) {
		c.checkDB = false
	}
}

// WithMaxCores sets the core-count limit, either a number or a ">>key<<"
// placeholder.
func WithMaxCores(maxCores string) Option {
	return func(c *config) {
		c.settings.MaxCores = maxCores
	}
}

// WithQChemCmd sets the command used to run the quantum-chemistry code.
func WithQChemCmd(cmd string) Option {
	return func(c *config) {
		c.settings.QChemCmd = cmd
	}
}

// WithDBFile points at the file containing the database credentials.
func WithDBFile(dbFile string) Option {
	return func(c *config) {
		c.settings.DBFile = dbFile
	}
}

// WithInputParams sets the input set parameters used by every job.
func WithInputParams(params qchem.InputParams) Option {
	return func(c *config) {
		c.settings.InputParams = params
	}
}

// WithName sets the label combined with the reduced formula into the
// workflow name.
func WithName(name string) Option {
	return func(c *config) {
		c.name = name
	}
}

// WithRunner overrides command execution, mainly for tests and dry runs.
func WithRunner(runner qchem.Runner) Option {
	return func(c *config) {
		c.settings.Runner = runner
	}
}

// WithStore overrides the dedup database, mainly for tests.
func WithStore(store calcdb.Store) Option {
	return func(c *config) {
		c.settings.Store = store
	}
}

// WithWorkflowMetadata forwards a free-form key/value pair to the returned
// workflow.
func WithWorkflowMetadata(key string, value any) Option {
	return func(c *config) {
		c.metadata[key] = value
	}
}

// Fragmentation assembles a workflow that fragments the molecule and
// optimizes each fragment.
//
// With optimization on (the default) the workflow holds two fireworks: an
// optimize firework relaxing the molecule, and a fragment firework that
// depends on it and fragments the relaxed structure. With optimization off
// it holds the single fragment firework built directly from the given
// molecule.
//
// depth is the number of levels of iterative fragmentation to perform,
// where each level includes fragments obtained by breaking one bond of a
// fragment one level up. A depth of zero generates all possible fragments
// using the exhaustive scheme instead.
func Fragmentation(mol *molecule.Molecule, depth int, opts ...Option) (*fireworks.Workflow, error) {
	if mol == nil {
		return nil, ErrMoleculeMustBeSet
	}

	cfg := &config{
		openRings:      true,
		doOptimization: true,
		checkDB:        true,
		name:           defaultName,
		settings: Settings{
			QChemCmd: DefaultQChemCmd,
			MaxCores: DefaultMaxCores,
			DBFile:   DefaultDBFile,
		},
		metadata: map[string]any{},
	}
	for _, opt := range opts {
		opt(cfg)
	}

	params := cfg.settings.InputParams.Copy()
	if cfg.pcmDielectric != nil {
		params.SetPCMDielectric(*cfg.pcmDielectric)
	}
	cfg.settings.InputParams = params

	var fws []*fireworks.Firework
	if cfg.doOptimization {
		// Optimize the original molecule, then fragment the relaxed one.
		optimize := NewOptimizeFirework(mol, optimizeName, cfg.settings)
		fragment := NewFragmentFirework(nil, depth, cfg.openRings, cfg.checkDB, fragmentName, cfg.settings,
			fireworks.WithParents(optimize))
		fws = []*fireworks.Firework{optimize, fragment}
	} else {
		// Fragment the given molecule directly.
		fragment := NewFragmentFirework(mol, depth, cfg.openRings, cfg.checkDB, fragmentName, cfg.settings)
		fws = []*fireworks.Firework{fragment}
	}

	wfName := mol.Composition().ReducedFormula() + ":" + cfg.name

	return fireworks.New(wfName, fws, fireworks.WithMetadataMap(cfg.metadata))
}
