package qchem

import (
	"context"
	"os"
	"os/exec"
	"strconv"

	"github.com/pkg/errors"
)

var ErrCommandMustBeSet = errors.New("command must be set")

// Runner executes the quantum-chemistry code on a rendered input file and
// leaves its text output at outputPath.
type Runner interface {
	Run(ctx context.Context, cmd string, maxCores int, inputPath, outputPath string) error
}

// ExecRunner shells out to the configured command, threading over at most
// maxCores cores: `<cmd> -nt <cores> <input> <output>`.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, cmd string, maxCores int, inputPath, outputPath string) error {
	if cmd == "" {
		return ErrCommandMustBeSet
	}
	if maxCores < 1 {
		maxCores = 1
	}

	run := exec.CommandContext(ctx, cmd, "-nt", strconv.Itoa(maxCores), inputPath, outputPath)
	out, err := run.CombinedOutput()
	if err != nil {
		return errors.Wrapf(err, "command %q failed: %s", cmd, out)
	}

	return nil
}

var _ Runner = ExecRunner{}

// FileRunner copies a canned output file into place instead of running
// anything. It backs tests and dry runs.
type FileRunner struct {
	OutputFixture string
}

func (r FileRunner) Run(ctx context.Context, cmd string, maxCores int, inputPath, outputPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := os.ReadFile(r.OutputFixture)
	if err != nil {
		return errors.Wrap(err, "unable to read output fixture")
	}

	return errors.Wrap(os.WriteFile(outputPath, data, 0o644), "unable to write output")
}

var _ Runner = FileRunner{}
