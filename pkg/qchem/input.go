// Package qchem renders quantum-chemistry input files, runs the external
// code and parses what it writes back.
package qchem

import (
	"fmt"
	"sort"
	"strings"
	"text/template"

	"github.com/pkg/errors"

	"github.com/molverse/fragflow/pkg/molecule"
)

var ErrMoleculeMustBeSet = errors.New("molecule must be set")

const inputTemplate = `$molecule
 {{.Charge}} {{.Spin}}
{{- range .Atoms}}
 {{.Symbol}} {{printf "%.10f" .X}} {{printf "%.10f" .Y}} {{printf "%.10f" .Z}}
{{- end}}
$end

$rem
{{- range .Rem}}
   {{.Key}} = {{.Value}}
{{- end}}
$end
{{- if .PCM}}

$pcm
   theory cpcm
$end

$solvent
   dielectric {{printf "%.4f" .Dielectric}}
$end
{{- end}}
`

// InputParams configures the generated input set. The zero value renders the
// default frequency-flattening optimization set.
type InputParams struct {
	JobType string
	Method  string
	Basis   string
	// Rem holds extra rem-section overrides. Keys set here win over the
	// defaults above.
	Rem map[string]string
	// PCMDielectric enables implicit solvation when non-nil.
	PCMDielectric *float64
}

// Copy returns a deep copy so a shared parameter set can be specialized per
// job without aliasing.
func (p InputParams) Copy() InputParams {
	cp := p
	cp.Rem = make(map[string]string, len(p.Rem))
	for k, v := range p.Rem {
		cp.Rem[k] = v
	}
	if p.PCMDielectric != nil {
		eps := *p.PCMDielectric
		cp.PCMDielectric = &eps
	}

	return cp
}

// SetPCMDielectric turns on implicit solvation with the given dielectric
// constant.
func (p *InputParams) SetPCMDielectric(eps float64) {
	p.PCMDielectric = &eps
}

func (p InputParams) remSection() []remEntry {
	rem := map[string]string{
		"job_type":            "opt",
		"method":              "wb97xd",
		"basis":               "def2-tzvppd",
		"max_scf_cycles":      "200",
		"geom_opt_max_cycles": "200",
	}
	if p.JobType != "" {
		rem["job_type"] = p.JobType
	}
	if p.Method != "" {
		rem["method"] = p.Method
	}
	if p.Basis != "" {
		rem["basis"] = p.Basis
	}
	for k, v := range p.Rem {
		rem[k] = v
	}
	if p.PCMDielectric != nil {
		rem["solvent_method"] = "pcm"
	}

	keys := make([]string, 0, len(rem))
	for k := range rem {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	entries := make([]remEntry, 0, len(keys))
	for _, k := range keys {
		entries = append(entries, remEntry{Key: k, Value: rem[k]})
	}

	return entries
}

type remEntry struct {
	Key   string
	Value string
}

type inputContext struct {
	Charge     int
	Spin       int
	Atoms      []molecule.Atom
	Rem        []remEntry
	PCM        bool
	Dielectric float64
}

// Render writes the full input file text for the molecule.
func (p InputParams) Render(mol *molecule.Molecule) (string, error) {
	if mol == nil {
		return "", ErrMoleculeMustBeSet
	}

	spin := mol.SpinMultiplicity
	if spin == 0 {
		spin = 1
	}
	ictx := inputContext{
		Charge: mol.Charge,
		Spin:   spin,
		Atoms:  mol.Atoms,
		Rem:    p.remSection(),
	}
	if p.PCMDielectric != nil {
		ictx.PCM = true
		ictx.Dielectric = *p.PCMDielectric
	}

	tpl, err := template.New("inputTemplate").Parse(inputTemplate)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	var sb strings.Builder
	err = tpl.Execute(&sb, ictx)
	if err != nil {
		return "", errors.Wrap(err, "unable to execute template")
	}

	return sb.String(), nil
}
