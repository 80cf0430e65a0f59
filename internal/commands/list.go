package commands

import (
	"errors"
	"fmt"

	"github.com/jessevdk/go-flags"
	"github.com/mitchellh/cli"

	"github.com/jolt-sh/jolt/pkg/distro"
	"github.com/jolt-sh/jolt/pkg/session"
)

// ListCommand lists installed Node versions
type ListCommand struct{}

// ListOptions holds command-line options for the list command
type ListOptions struct {
	Help bool `short:"h" long:"help" description:"Show this help message"`
}

// Help returns the help text for the list command
func (c *ListCommand) Help() string {
	var opts ListOptions
	parser := flags.NewParser(&opts, flags.Default)
	parser.Usage = OptionsUsage

	formatter := &HelpFormatter{
		Command:     "list",
		Description: "List installed Node.js versions and their bundled npm versions.",
		Usage:       OptionsUsage,
		Examples: []Example{
			{Command: "jolt list", Description: "Show all installed versions"},
		},
	}

	return formatter.FormatHelp(parser)
}

// Synopsis returns a short description of the list command
func (c *ListCommand) Synopsis() string {
	return "List installed Node.js versions"
}

// Run executes the list command
func (c *ListCommand) Run(args []string) int {
	var opts ListOptions
	parser := flags.NewParser(&opts, flags.Default)
	parser.Usage = OptionsUsage

	if _, err := parser.ParseArgs(args); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			return 0
		}
		fmt.Println(failure(fmt.Sprintf("parsing arguments: %v", err)))
		return 1
	}

	sess, err := session.New()
	if err != nil {
		fmt.Println(failure(err.Error()))
		return 1
	}

	coll, err := sess.Inventory()
	if err != nil {
		fmt.Println(failure(err.Error()))
		return 1
	}

	versions := coll.Versions()
	if len(versions) == 0 {
		fmt.Println(subtle("no Node.js versions installed; run: jolt install <version>"))
		return 0
	}

	userPlat, err := sess.UserPlatform()
	if err != nil {
		fmt.Println(failure(err.Error()))
		return 1
	}

	for _, v := range versions {
		line := "node@" + v.String()
		if npm, err := distro.LoadBundledNpm(sess.Layout(), v); err == nil {
			line += " (with npm@" + npm.String() + ")"
		}
		if userPlat != nil && userPlat.Node.Equal(v) {
			line += " " + subtle("(default)")
		}
		fmt.Println(line)
	}
	return 0
}

// ListCommandFactory creates a new list command instance
func ListCommandFactory() (cli.Command, error) {
	return &ListCommand{}, nil
}
