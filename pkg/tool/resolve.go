package tool

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/jolt-sh/jolt/pkg/project"
	"github.com/jolt-sh/jolt/pkg/session"
)

// Resolve decides which binary an invoked command name dispatches to.
// The precedence chain is fixed and short-circuiting: project-local
// direct-dependency binaries win, then tools installed in the user
// toolchain, and finally the bare name is passed through to the ambient
// PATH. Each invocation resolves independently.
func Resolve(name string, args []string, sess *session.Session) (*Command, error) {
	proj, err := sess.Project()
	if err != nil {
		return nil, err
	}

	if proj != nil && proj.HasDirectBin(name) {
		binPath := filepath.Join(proj.LocalBinDir(), name)

		// A declared dependency binary is expected to exist; a missing
		// file is a broken project install, not a reason to fall back.
		if info, err := os.Stat(binPath); err != nil || !info.Mode().IsRegular() {
			return nil, fmt.Errorf("project-local binary not found: %s (run your package manager install)", binPath)
		}

		env, deferred, err := projectEnvironment(proj, sess)
		if err != nil {
			return nil, err
		}

		log.Debug("resolved project-local binary", "name", name, "path", binPath)
		return &Command{
			Kind:     ProjectLocal,
			Path:     binPath,
			Args:     args,
			Env:      env,
			deferred: deferred,
		}, nil
	}

	userTool, err := sess.UserTool(name)
	if err != nil {
		return nil, err
	}
	if userTool != nil {
		image, err := userTool.Platform.Checkout(sess)
		if err != nil {
			return nil, err
		}

		cmd := &Command{Kind: Direct, Env: image.Env()}
		if loader := userTool.Loader; loader != nil {
			// loader command, loader args, real binary, caller args —
			// in exactly that order.
			cmd.Path = loader.Command
			cmd.Args = append(append(append([]string{}, loader.Args...), userTool.BinPath), args...)
		} else {
			cmd.Path = userTool.BinPath
			cmd.Args = args
		}
		log.Debug("resolved user toolchain binary", "name", name, "path", userTool.BinPath)
		return cmd, nil
	}

	log.Debug("passing through to ambient PATH", "name", name)
	return &Command{
		Kind:     Passthrough,
		Path:     name,
		Args:     args,
		deferred: fmt.Errorf("binary not found: %s", name),
	}, nil
}

// projectEnvironment picks the environment for a project-local binary:
// the project's pinned platform, else the user default, else the
// ambient environment with a deferred no-platform failure.
func projectEnvironment(proj *project.Project, sess *session.Session) (env []string, deferred, err error) {
	spec, err := proj.Platform()
	if err != nil {
		return nil, nil, err
	}
	if spec == nil {
		spec, err = sess.UserPlatform()
		if err != nil {
			return nil, nil, err
		}
	}
	if spec == nil {
		return nil, ErrNoPlatform, nil
	}

	image, err := spec.Checkout(sess)
	if err != nil {
		return nil, nil, err
	}
	return image.Env(), nil, nil
}
