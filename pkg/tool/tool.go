// Package tool resolves an invoked command name to the binary that
// should actually run: a project-local dependency binary, a tool from
// the user toolchain, or a passthrough to the ambient PATH.
package tool

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
)

// Kind tags how a command was resolved.
type Kind int

const (
	// ProjectLocal runs a binary declared by the active project.
	ProjectLocal Kind = iota
	// Direct runs a tool installed in the user toolchain.
	Direct
	// Passthrough defers to the ambient command search path.
	Passthrough
)

func (k Kind) String() string {
	switch k {
	case ProjectLocal:
		return "project-local"
	case Direct:
		return "user"
	default:
		return "passthrough"
	}
}

// ErrNoPlatform is reported when a tool needs a Node platform at
// execution time but neither the project nor the user selects one.
var ErrNoPlatform = errors.New("no node platform pinned in the project or selected for the user")

// Command is a fully assembled tool invocation.
type Command struct {
	Kind Kind
	// Path is the resolved executable path, or the bare command name
	// for a passthrough.
	Path string
	Args []string
	// Env is the execution environment; nil inherits the ambient one.
	Env []string

	// deferred is raised only if actually executing the command fails;
	// resolution itself already succeeded.
	deferred error
}

// DeferredError returns the failure that execution would surface, if any.
func (c *Command) DeferredError() error {
	return c.deferred
}

// Exec runs the command with stdio attached, returning its exit code.
// When the process cannot be started at all, the resolution-time
// deferred error takes precedence over the raw exec failure.
func (c *Command) Exec() (int, error) {
	cmd := exec.Command(c.Path, c.Args...) // #nosec G204 -- dispatching the command the user invoked
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if c.Env != nil {
		cmd.Env = c.Env
	}

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode(), nil
		}
		if c.deferred != nil {
			return 1, c.deferred
		}
		return 1, fmt.Errorf("failed to execute %s: %w", c.Path, err)
	}
	return 0, nil
}
