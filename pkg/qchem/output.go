package qchem

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/molverse/fragflow/pkg/molecule"
)

var (
	ErrNoEnergy = errors.New("output contains no final energy")

	energyRe    = regexp.MustCompile(`(?m)^\s*Final energy is\s+(-?\d+\.\d+)`)
	basisSetRe  = regexp.MustCompile(`Total energy in the final basis set =\s+(-?\d+\.\d+)`)
	frequencyRe = regexp.MustCompile(`(?m)^\s*Frequency:((?:\s+-?\d+\.\d+)+)`)
	geometryRe  = regexp.MustCompile(`(?m)^\s+\d+\s+([A-Z][a-z]?)\s+(-?\d+\.\d+)\s+(-?\d+\.\d+)\s+(-?\d+\.\d+)`)
)

// Result holds what the workflow needs from an output file: the final
// energy, the relaxed geometry when the optimizer converged, and the
// imaginary-mode count from a frequency block.
type Result struct {
	FinalEnergy          float64
	Converged            bool
	ImaginaryFrequencies int
	OptimizedAtoms       []molecule.Atom
}

// ParseOutput extracts a Result from raw output text. The last reported
// energy wins, matching restarted or multi-step jobs.
func ParseOutput(text string) (*Result, error) {
	res := &Result{}

	matches := energyRe.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		matches = basisSetRe.FindAllStringSubmatch(text, -1)
	}
	if len(matches) == 0 {
		return nil, ErrNoEnergy
	}
	energy, err := strconv.ParseFloat(matches[len(matches)-1][1], 64)
	if err != nil {
		return nil, errors.Wrap(err, "unable to parse final energy")
	}
	res.FinalEnergy = energy

	res.Converged = strings.Contains(text, "OPTIMIZATION CONVERGED")

	for _, m := range frequencyRe.FindAllStringSubmatch(text, -1) {
		for _, field := range strings.Fields(m[1]) {
			freq, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, errors.Wrapf(err, "unable to parse frequency %q", field)
			}
			if freq < 0 {
				res.ImaginaryFrequencies++
			}
		}
	}

	if res.Converged {
		res.OptimizedAtoms = parseGeometry(text)
	}

	return res, nil
}

// parseGeometry reads the last coordinate block. Atom lines look like
// "   1      C       0.0000000000    0.0000000000    0.0000000000".
func parseGeometry(text string) []molecule.Atom {
	idx := strings.LastIndex(text, "OPTIMIZATION CONVERGED")
	if idx < 0 {
		return nil
	}

	var atoms []molecule.Atom
	for _, m := range geometryRe.FindAllStringSubmatch(text[idx:], -1) {
		x, errX := strconv.ParseFloat(m[2], 64)
		y, errY := strconv.ParseFloat(m[3], 64)
		z, errZ := strconv.ParseFloat(m[4], 64)
		if errX != nil || errY != nil || errZ != nil {
			continue
		}
		atoms = append(atoms, molecule.Atom{Symbol: m[1], X: x, Y: y, Z: z})
	}

	return atoms
}
