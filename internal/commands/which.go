package commands

import (
	"errors"
	"fmt"

	"github.com/jessevdk/go-flags"
	"github.com/mitchellh/cli"

	"github.com/jolt-sh/jolt/pkg/session"
	"github.com/jolt-sh/jolt/pkg/tool"
)

// WhichCommand shows how a command name would be dispatched
type WhichCommand struct{}

// WhichOptions holds command-line options for the which command
type WhichOptions struct {
	Help bool `short:"h" long:"help" description:"Show this help message"`
}

// Help returns the help text for the which command
func (c *WhichCommand) Help() string {
	var opts WhichOptions
	parser := flags.NewParser(&opts, flags.Default)
	parser.Usage = OptionsUsage

	formatter := &HelpFormatter{
		Command:     "which",
		Description: "Show which binary a command name resolves to, without running it.",
		Usage:       "[OPTIONS] COMMAND",
		Examples: []Example{
			{Command: "jolt which tsc", Description: "Show the tsc binary that would run"},
		},
		Notes: []string{
			"Resolution order: project-local dependency binaries, then the user toolchain, then the ambient PATH.",
		},
	}

	return formatter.FormatHelp(parser)
}

// Synopsis returns a short description of the which command
func (c *WhichCommand) Synopsis() string {
	return "Show which binary a command resolves to"
}

// Run executes the which command
func (c *WhichCommand) Run(args []string) int {
	var opts WhichOptions
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
		fmt.Println(failure("which requires exactly one COMMAND argument"))
		return 1
	}

	sess, err := session.New()
	if err != nil {
		fmt.Println(failure(err.Error()))
		return 1
	}

	cmd, err := tool.Resolve(rest[0], nil, sess)
	if err != nil {
		fmt.Println(failure(err.Error()))
		return 1
	}

	fmt.Printf("%s %s\n", cmd.Path, subtle("("+cmd.Kind.String()+")"))
	return 0
}

// WhichCommandFactory creates a new which command instance
func WhichCommandFactory() (cli.Command, error) {
	return &WhichCommand{}, nil
}
