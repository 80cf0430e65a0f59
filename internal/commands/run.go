package commands

import (
	"fmt"

	"github.com/jessevdk/go-flags"
	"github.com/mitchellh/cli"

	"github.com/jolt-sh/jolt/pkg/session"
	"github.com/jolt-sh/jolt/pkg/tool"
)

// RunCommand dispatches a command through the toolchain resolver
type RunCommand struct{}

// Help returns the help text for the run command
func (c *RunCommand) Help() string {
	var opts struct{}
	parser := flags.NewParser(&opts, flags.Default)
	parser.Usage = OptionsUsage

	formatter := &HelpFormatter{
		Command:     "run",
		Description: "Run a command through the toolchain resolver.",
		Usage:       "COMMAND [ARGS...]",
		Examples: []Example{
			{Command: "jolt run tsc --build", Description: "Run the project's tsc"},
			{Command: "jolt run node script.js", Description: "Run the selected node"},
		},
		Notes: []string{
			"Arguments after COMMAND are passed through unchanged.",
			"Project-local binaries win over user tools; unknown names fall back to PATH.",
		},
	}

	return formatter.FormatHelp(parser)
}

// Synopsis returns a short description of the run command
func (c *RunCommand) Synopsis() string {
	return "Run a command through the toolchain resolver"
}

// Run executes the run command
func (c *RunCommand) Run(args []string) int {
	// No flag parsing here: everything after the command name belongs
	// to the dispatched tool.
	if len(args) == 0 {
		fmt.Println(failure("run requires a COMMAND to execute"))
		return 1
	}

	sess, err := session.New()
	if err != nil {
		fmt.Println(failure(err.Error()))
		return 1
	}

	cmd, err := tool.Resolve(args[0], args[1:], sess)
	if err != nil {
		fmt.Println(failure(err.Error()))
		return 1
	}

	code, err := cmd.Exec()
	if err != nil {
		fmt.Println(failure(err.Error()))
	}
	return code
}

// RunCommandFactory creates a new run command instance
func RunCommandFactory() (cli.Command, error) {
	return &RunCommand{}, nil
}
