package commands

import (
	"errors"
	"fmt"

	"github.com/jessevdk/go-flags"
	"github.com/mitchellh/cli"

	"github.com/jolt-sh/jolt/pkg/distro"
	"github.com/jolt-sh/jolt/pkg/hook"
	"github.com/jolt-sh/jolt/pkg/platform"
	"github.com/jolt-sh/jolt/pkg/session"
)

// InstallCommand installs a Node distribution into the image tree
type InstallCommand struct{}

// InstallOptions holds command-line options for the install command
type InstallOptions struct {
	Verbose bool `short:"v" long:"verbose" description:"Show download and unpack detail"`
	Default bool `long:"default"           description:"Select the installed version as the user default"`
	Help    bool `short:"h" long:"help"    description:"Show this help message"`
}

// Help returns the help text for the install command
func (c *InstallCommand) Help() string {
	var opts InstallOptions
	parser := flags.NewParser(&opts, flags.Default)
	parser.Usage = OptionsUsage

	formatter := &HelpFormatter{
		Command:     "install",
		Description: "Download and install a Node.js version (with its bundled npm).",
		Usage:       "[OPTIONS] VERSION",
		Examples: []Example{
			{Command: "jolt install 18.17.1", Description: "Install an exact version"},
			{Command: "jolt install 18.17.1 --default", Description: "Install and make it the user default"},
		},
		Notes: []string{
			"Downloaded archives are cached and revalidated before reuse.",
			"Installing a version that is already present is a no-op.",
			"Loose specs (\"18\", \"18.17\") resolve to the highest installed or published match.",
			"The first version installed becomes the user default automatically.",
		},
	}

	return formatter.FormatHelp(parser)
}

// Synopsis returns a short description of the install command
func (c *InstallCommand) Synopsis() string {
	return "Download and install a Node.js version"
}

// Run executes the install command
func (c *InstallCommand) Run(args []string) int {
	var opts InstallOptions
	parser := flags.NewParser(&opts, flags.Default)
	parser.Usage = OptionsUsage

	rest, err := parser.ParseArgs(args)
	if err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			return 0
		}
		fmt.Println(failure(fmt.Sprintf("parsing arguments: %v", err)))
		return 1
	}
	if len(rest) != 1 {
		fmt.Println(failure("install requires exactly one VERSION argument"))
		return 1
	}

	sess, err := session.New()
	if err != nil {
		fmt.Println(failure(err.Error()))
		return 1
	}

	fetched, err := installVersion(sess, rest[0], opts.Verbose)
	if err != nil {
		fmt.Println(failure(err.Error()))
		return 1
	}

	switch fetched.Status {
	case distro.FetchedAlready:
		fmt.Printf("%s is already installed\n", fetched.Version)
	case distro.FetchedNow:
		fmt.Println(success("installed " + fetched.Version.String()))
	}

	if opts.Default || shouldBecomeDefault(sess) {
		spec := platform.Spec{Node: fetched.Version.Runtime, Npm: fetched.Version.Npm}
		if err := sess.SetUserPlatform(spec); err != nil {
			fmt.Println(failure(err.Error()))
			return 1
		}
		fmt.Println(subtle(fmt.Sprintf("node@%s is now the user default", fetched.Version.Runtime)))
	}
	return 0
}

// installVersion provisions and fetches the requested version.
func installVersion(sess *session.Session, spec string, verbose bool) (distro.Fetched, error) {
	v, err := resolveVersionArg(sess, spec)
	if err != nil {
		return distro.Fetched{}, err
	}

	cfg, err := sess.Hooks()
	if err != nil {
		return distro.Fetched{}, err
	}
	var hooks *hook.ToolHooks
	if cfg != nil {
		hooks = &cfg.Node
	}

	d, err := distro.New(sess.Layout(), v, hooks)
	if err != nil {
		return distro.Fetched{}, err
	}

	coll, err := sess.Inventory()
	if err != nil {
		return distro.Fetched{}, err
	}

	var unpacked uint64
	fetched, err := d.Fetch(coll, func(read int) {
		unpacked += uint64(read) // #nosec G115 -- read counts are non-negative
	})
	if err != nil {
		return distro.Fetched{}, err
	}
	if verbose && fetched.Status == distro.FetchedNow {
		fmt.Println(subtle(fmt.Sprintf("unpacked %d bytes from %s", unpacked, d.Archive().Origin())))
	}

	coll.Add(fetched.Version.Runtime)
	return fetched, nil
}

// shouldBecomeDefault reports whether the install should select the
// version as the user default because none is set yet.
func shouldBecomeDefault(sess *session.Session) bool {
	spec, err := sess.UserPlatform()
	return err == nil && spec == nil
}

// InstallCommandFactory creates a new install command instance
func InstallCommandFactory() (cli.Command, error) {
	return &InstallCommand{}, nil
}
