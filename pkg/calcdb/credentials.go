// Package calcdb stores calculation documents and answers the "have we
// already seen an equivalent structure" question asked before new fragment
// jobs are added to a workflow.
package calcdb

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

var ErrDBFileMustBeSet = errors.New("db file must be set")

// Credentials describe the database a deployment writes calculation
// documents to. They are loaded from the db file referenced by workflows.
type Credentials struct {
	Host       string `yaml:"host"`
	Port       int    `yaml:"port"`
	Database   string `yaml:"database"`
	Collection string `yaml:"collection"`
	AdminUser  string `yaml:"admin_user"`
	AdminPass  string `yaml:"admin_password"`
	// Path optionally points at a local JSON document store, used when no
	// server-backed database is reachable.
	Path string `yaml:"path"`
}

// LoadCredentials reads a YAML credentials file.
func LoadCredentials(dbFile string) (*Credentials, error) {
	if dbFile == "" {
		return nil, ErrDBFileMustBeSet
	}
	data, err := os.ReadFile(dbFile)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to read db file %s", dbFile)
	}

	creds := &Credentials{}
	err = yaml.Unmarshal(data, creds)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to parse db file %s", dbFile)
	}

	return creds, nil
}
