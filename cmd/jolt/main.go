// Package main provides the jolt command-line tool, a per-developer
// Node.js toolchain manager.
package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mitchellh/cli"

	"github.com/jolt-sh/jolt/internal/commands"
)

// Version information set by GoReleaser
var (
	version = "dev"
	commit  = "none"    //nolint:unused // Set by GoReleaser
	date    = "unknown" //nolint:unused // Set by GoReleaser
)

func main() {
	if os.Getenv("JOLT_DEBUG") != "" {
		log.SetLevel(log.DebugLevel)
	}

	c := cli.NewCLI("jolt", version)
	c.Args = os.Args[1:]
	c.HelpFunc = customHelpFunc
	c.Commands = map[string]cli.CommandFactory{
		"install": commands.InstallCommandFactory,
		"pin":     commands.PinCommandFactory,
		"list":    commands.ListCommandFactory,
		"which":   commands.WhichCommandFactory,
		"run":     commands.RunCommandFactory,
		"clean":   commands.CleanCommandFactory,
	}

	exitStatus, err := c.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(exitStatus)
}

// customHelpFunc renders the top-level usage summary
func customHelpFunc(cmdFactories map[string]cli.CommandFactory) string {
	var commandNames []string
	for name := range cmdFactories {
		commandNames = append(commandNames, name)
	}
	sort.Strings(commandNames)

	usageLine := "usage: jolt [-h] [--version]\n"
	usageLine += "            {" + strings.Join(commandNames, ",") + "}\n            ...\n"

	return usageLine + `
A per-developer Node.js toolchain manager.

positional arguments:
  {` + strings.Join(commandNames, ",") + `}
    clean               Remove cached archives and scratch directories
    install             Download and install a Node.js version
    list                List installed Node.js versions
    pin                 Pin a Node.js version for the current project
    run                 Run a command through the toolchain resolver
    which               Show which binary a command resolves to

optional arguments:
  -h, --help            show this help message and exit
  --version             show program's version number and exit
`
}
