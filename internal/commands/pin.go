package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jessevdk/go-flags"
	"github.com/mitchellh/cli"

	"github.com/jolt-sh/jolt/pkg/session"
)

// PinCommand pins a Node version into the active project's package.json
type PinCommand struct{}

// PinOptions holds command-line options for the pin command
type PinOptions struct {
	WithNpm bool `long:"with-npm"        description:"Also pin the bundled npm version explicitly"`
	Help    bool `short:"h" long:"help"  description:"Show this help message"`
}

// Help returns the help text for the pin command
func (c *PinCommand) Help() string {
	var opts PinOptions
	parser := flags.NewParser(&opts, flags.Default)
	parser.Usage = OptionsUsage

	formatter := &HelpFormatter{
		Command:     "pin",
		Description: "Pin a Node.js version for the current project.",
		Usage:       "[OPTIONS] VERSION",
		Examples: []Example{
			{Command: "jolt pin 18.17.1", Description: "Pin the project to node 18.17.1"},
			{Command: "jolt pin 18.17.1 --with-npm", Description: "Pin node and its bundled npm"},
		},
		Notes: []string{
			"The pin is written to the \"jolt\" key of the nearest package.json.",
			"The version is installed first if it is not present.",
		},
	}

	return formatter.FormatHelp(parser)
}

// Synopsis returns a short description of the pin command
func (c *PinCommand) Synopsis() string {
	return "Pin a Node.js version for the current project"
}

// Run executes the pin command
func (c *PinCommand) Run(args []string) int {
	var opts PinOptions
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
		fmt.Println(failure("pin requires exactly one VERSION argument"))
		return 1
	}

	sess, err := session.New()
	if err != nil {
		fmt.Println(failure(err.Error()))
		return 1
	}

	proj, err := sess.Project()
	if err != nil {
		fmt.Println(failure(err.Error()))
		return 1
	}
	if proj == nil {
		fmt.Println(failure("not in a project: no package.json found above the working directory"))
		return 1
	}

	fetched, err := installVersion(sess, rest[0], false)
	if err != nil {
		fmt.Println(failure(err.Error()))
		return 1
	}

	pin := map[string]string{"node": fetched.Version.Runtime.String()}
	if opts.WithNpm {
		pin["npm"] = fetched.Version.Npm.String()
	}
	if err := writePin(filepath.Join(proj.Dir(), "package.json"), pin); err != nil {
		fmt.Println(failure(err.Error()))
		return 1
	}

	fmt.Println(success(fmt.Sprintf("pinned node@%s in %s", fetched.Version.Runtime, proj.Dir())))
	return 0
}

// writePin updates the "jolt" key of package.json in place, preserving
// every other field.
func writePin(manifestPath string, pin map[string]string) error {
	data, err := os.ReadFile(manifestPath) // #nosec G304 -- updating the user's project manifest
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", manifestPath, err)
	}

	var manifest map[string]any
	if err := json.Unmarshal(data, &manifest); err != nil {
		return fmt.Errorf("failed to parse %s: %w", manifestPath, err)
	}
	manifest["jolt"] = pin

	out, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", manifestPath, err)
	}
	out = append(out, '\n')

	if err := os.WriteFile(manifestPath, out, 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", manifestPath, err)
	}
	return nil
}

// PinCommandFactory creates a new pin command instance
func PinCommandFactory() (cli.Command, error) {
	return &PinCommand{}, nil
}
