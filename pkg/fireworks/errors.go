package fireworks

import (
	"github.com/pkg/errors"
)

var (
	ErrWorkflowMustBeSet = errors.New("workflow must be set")
	ErrFireworkMustBeSet = errors.New("firework must be set")
	ErrUnknownFirework   = errors.New("unknown firework")
	ErrWorkflowCycle     = errors.New("link would create a cycle")
	ErrEnvKeyNotFound    = errors.New("env key not found")
)
