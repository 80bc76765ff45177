package bde

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/molverse/fragflow/pkg/calcdb"
	"github.com/molverse/fragflow/pkg/fireworks"
	"github.com/molverse/fragflow/pkg/fragmenter"
	"github.com/molverse/fragflow/pkg/molecule"
	"github.com/molverse/fragflow/pkg/qchem"
)

var (
	ErrSpecValueMissing = errors.New("spec value missing or mistyped")
	ErrNotConverged     = errors.New("optimization did not converge")
)

const (
	inputFileName  = "mol.qin"
	outputFileName = "mol.qout"
)

func specMolecule(spec fireworks.Spec) (*molecule.Molecule, error) {
	mol, ok := spec[SpecMolecule].(*molecule.Molecule)
	if !ok || mol == nil {
		return nil, errors.Wrap(ErrSpecValueMissing, SpecMolecule)
	}

	return mol, nil
}

func specString(spec fireworks.Spec, key string) (string, error) {
	s, ok := spec[key].(string)
	if !ok {
		return "", errors.Wrap(ErrSpecValueMissing, key)
	}

	return s, nil
}

func specInputParams(spec fireworks.Spec) qchem.InputParams {
	params, _ := spec[SpecInputParams].(qchem.InputParams)

	return params
}

// launchDir returns the directory this firework runs in, creating a scratch
// directory on first use and recording it in the spec for later tasks.
func launchDir(spec fireworks.Spec) (string, error) {
	if dir, ok := spec[SpecLaunchDir].(string); ok && dir != "" {
		return dir, nil
	}
	dir, err := os.MkdirTemp("", "launch-")
	if err != nil {
		return "", errors.Wrap(err, "unable to create launch directory")
	}
	spec[SpecLaunchDir] = dir

	return dir, nil
}

// WriteInputTask renders the input file for the spec molecule.
type WriteInputTask struct{}

func (WriteInputTask) Name() string { return "write input" }

func (WriteInputTask) Run(ctx context.Context, spec fireworks.Spec) (*fireworks.FWAction, error) {
	mol, err := specMolecule(spec)
	if err != nil {
		return nil, err
	}
	dir, err := launchDir(spec)
	if err != nil {
		return nil, err
	}

	text, err := specInputParams(spec).Render(mol)
	if err != nil {
		return nil, errors.Wrap(err, "unable to render input")
	}
	err = os.WriteFile(filepath.Join(dir, inputFileName), []byte(text), 0o644)
	if err != nil {
		return nil, errors.Wrap(err, "unable to write input")
	}

	return nil, nil
}

// RunJobTask executes the quantum-chemistry command on the rendered input,
// re-running with the relaxed geometry while the frequency block still
// reports imaginary modes (the frequency-flattening loop).
type RunJobTask struct {
	Runner        qchem.Runner
	MaxIterations int
}

func (RunJobTask) Name() string { return "run job" }

func (t RunJobTask) Run(ctx context.Context, spec fireworks.Spec) (*fireworks.FWAction, error) {
	dir, err := launchDir(spec)
	if err != nil {
		return nil, err
	}
	worker := fireworks.WorkerFromSpec(spec)

	rawCmd, err := specString(spec, SpecQChemCmd)
	if err != nil {
		return nil, err
	}
	cmd, err := fireworks.EnvChk(rawCmd, worker)
	if err != nil {
		return nil, err
	}
	rawCores, err := specString(spec, SpecMaxCores)
	if err != nil {
		return nil, err
	}
	cores, err := fireworks.EnvChkInt(rawCores, worker)
	if err != nil {
		return nil, err
	}

	runner := t.Runner
	if runner == nil {
		runner = qchem.ExecRunner{}
	}
	maxIter := t.MaxIterations
	if maxIter < 1 {
		maxIter = 1
	}

	inPath := filepath.Join(dir, inputFileName)
	outPath := filepath.Join(dir, outputFileName)
	for iter := 0; ; iter++ {
		err := runner.Run(ctx, cmd, cores, inPath, outPath)
		if err != nil {
			return nil, errors.Wrap(err, "unable to run job")
		}

		data, err := os.ReadFile(outPath)
		if err != nil {
			return nil, errors.Wrap(err, "unable to read output")
		}
		res, err := qchem.ParseOutput(string(data))
		if err != nil {
			return nil, err
		}
		if res.ImaginaryFrequencies == 0 || iter+1 >= maxIter {
			return nil, nil
		}

		// Imaginary modes left: restart from the relaxed geometry.
		mol, err := specMolecule(spec)
		if err != nil {
			return nil, err
		}
		restart := mol.Copy()
		if len(res.OptimizedAtoms) == len(restart.Atoms) {
			restart.Atoms = res.OptimizedAtoms
		}
		text, err := specInputParams(spec).Render(restart)
		if err != nil {
			return nil, errors.Wrap(err, "unable to render restart input")
		}
		err = os.WriteFile(inPath, []byte(text), 0o644)
		if err != nil {
			return nil, errors.Wrap(err, "unable to write restart input")
		}
	}
}

// ParseOutputTask reads the final output, stores the calculation document
// and pushes the relaxed molecule to child fireworks.
type ParseOutputTask struct {
	// Store overrides the db-file credentials, mainly for tests.
	Store calcdb.Store
}

func (ParseOutputTask) Name() string { return "parse output" }

func (t ParseOutputTask) Run(ctx context.Context, spec fireworks.Spec) (*fireworks.FWAction, error) {
	dir, err := launchDir(spec)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(dir, outputFileName))
	if err != nil {
		return nil, errors.Wrap(err, "unable to read output")
	}
	res, err := qchem.ParseOutput(string(data))
	if err != nil {
		return nil, err
	}
	if !res.Converged {
		return nil, ErrNotConverged
	}

	mol, err := specMolecule(spec)
	if err != nil {
		return nil, err
	}
	relaxed := mol.Copy()
	if len(res.OptimizedAtoms) == len(relaxed.Atoms) {
		relaxed.Atoms = res.OptimizedAtoms
	}

	store, err := t.openStore(spec)
	if err != nil {
		return nil, err
	}
	if store != nil {
		comp := relaxed.Composition()
		err = store.Insert(calcdb.Document{
			Key:         relaxed.Fingerprint(),
			Formula:     comp.Formula(),
			Charge:      relaxed.Charge,
			FinalEnergy: res.FinalEnergy,
		})
		if err != nil && !errors.Is(err, calcdb.ErrDocumentExists) {
			return nil, errors.Wrap(err, "unable to insert document")
		}
	}

	return &fireworks.FWAction{
		StoredData: map[string]any{
			"final_energy": res.FinalEnergy,
		},
		UpdateSpec: fireworks.Spec{SpecMolecule: relaxed},
	}, nil
}

// openStore resolves the db file from the spec. A worker that defines no
// database simply skips document insertion.
func (t ParseOutputTask) openStore(spec fireworks.Spec) (calcdb.Store, error) {
	if t.Store != nil {
		return t.Store, nil
	}
	rawDBFile, ok := spec[SpecDBFile].(string)
	if !ok || rawDBFile == "" {
		return nil, nil
	}
	dbFile, err := fireworks.EnvChk(rawDBFile, fireworks.WorkerFromSpec(spec))
	if errors.Is(err, fireworks.ErrEnvKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	creds, err := calcdb.LoadCredentials(dbFile)
	if err != nil {
		return nil, err
	}

	return calcdb.Open(creds)
}

// FragmentTask finds all unique fragments of the spec molecule and adds a
// frequency-flattening optimize firework to the workflow for each one not
// already known to the database.
type FragmentTask struct {
	Settings Settings
}

func (FragmentTask) Name() string { return "fragment" }

func (t FragmentTask) Run(ctx context.Context, spec fireworks.Spec) (*fireworks.FWAction, error) {
	mol, err := specMolecule(spec)
	if err != nil {
		return nil, err
	}
	depth, ok := spec[SpecDepth].(int)
	if !ok {
		return nil, errors.Wrap(ErrSpecValueMissing, SpecDepth)
	}
	openRings, ok := spec[SpecOpenRings].(bool)
	if !ok {
		return nil, errors.Wrap(ErrSpecValueMissing, SpecOpenRings)
	}
	checkDB, ok := spec[SpecCheckDB].(bool)
	if !ok {
		return nil, errors.Wrap(ErrSpecValueMissing, SpecCheckDB)
	}

	var fragOpts []fragmenter.Option
	if !openRings {
		fragOpts = append(fragOpts, fragmenter.KeepRingsClosed())
	}
	frag, err := fragmenter.New(depth, fragOpts...)
	if err != nil {
		return nil, err
	}
	frags, err := frag.Fragment(mol)
	if err != nil {
		return nil, errors.Wrap(err, "unable to fragment molecule")
	}

	var store calcdb.Store
	if checkDB {
		store, err = t.openStore(spec)
		if err != nil {
			return nil, err
		}
	}

	action := &fireworks.FWAction{
		StoredData: map[string]any{"fragments": len(frags)},
	}
	for i, fragment := range frags {
		if store != nil {
			_, found, err := store.FindByKey(fragment.Fingerprint())
			if err != nil {
				return nil, errors.Wrap(err, "unable to check database")
			}
			if found {
				continue
			}
		}
		name := fmt.Sprintf("%s: fragment %d FF", fragment.Composition().ReducedFormula(), i)
		action.Additions = append(action.Additions, NewOptimizeFirework(fragment, name, t.Settings))
	}

	return action, nil
}

func (t FragmentTask) openStore(spec fireworks.Spec) (calcdb.Store, error) {
	if t.Settings.Store != nil {
		return t.Settings.Store, nil
	}

	return ParseOutputTask{}.openStore(spec)
}
