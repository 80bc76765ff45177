package fireworks

import (
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// SpecWorkerKey is the reserved spec entry the launcher injects so tasks
// can resolve ">>key<<" values.
const SpecWorkerKey = "_worker"

// WorkerFromSpec returns the worker injected by the launcher, or nil when
// the firework runs outside a launch.
func WorkerFromSpec(spec Spec) *Worker {
	w, _ := spec[SpecWorkerKey].(*Worker)

	return w
}

// Worker describes the environment a launch runs in. Spec values of the
// form ">>key<<" stay verbatim in specs and resolve against this
// environment only at launch time.
type Worker struct {
	Name string            `yaml:"name"`
	Env  map[string]string `yaml:"env"`
}

// LoadWorker reads a worker environment from a YAML file.
func LoadWorker(path string) (*Worker, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to read worker file %s", path)
	}
	w := &Worker{}
	err = yaml.Unmarshal(data, w)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to parse worker file %s", path)
	}

	return w, nil
}

// EnvChk resolves a spec value. Plain values pass through unchanged;
// ">>key<<" values resolve from the worker env, falling back to the process
// environment.
func EnvChk(value string, w *Worker) (string, error) {
	if !strings.HasPrefix(value, ">>") || !strings.HasSuffix(value, "<<") {
		return value, nil
	}
	key := strings.TrimSuffix(strings.TrimPrefix(value, ">>"), "<<")

	if w != nil {
		if resolved, ok := w.Env[key]; ok {
			return resolved, nil
		}
	}
	if resolved, ok := os.LookupEnv(strings.ToUpper(key)); ok {
		return resolved, nil
	}

	return "", errors.Wrap(ErrEnvKeyNotFound, key)
}

// EnvChkInt resolves a spec value that must end up as an integer.
func EnvChkInt(value string, w *Worker) (int, error) {
	resolved, err := EnvChk(value, w)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(resolved)
	if err != nil {
		return 0, errors.Wrapf(err, "value %q is not an integer", resolved)
	}

	return n, nil
}
