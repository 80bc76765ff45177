package bde

// Spec keys shared between the firework constructors and their tasks.
// Values under these keys are stored verbatim at construction time;
// ">>key<<" placeholders resolve only when a task runs.
const (
	SpecMolecule    = "molecule"
	SpecDepth       = "depth"
	SpecOpenRings   = "open_rings"
	SpecMaxCores    = "max_cores"
	SpecQChemCmd    = "qchem_cmd"
	SpecDBFile      = "db_file"
	SpecCheckDB     = "check_db"
	SpecInputParams = "qchem_input_params"
	SpecLaunchDir   = "_launch_dir"
)
