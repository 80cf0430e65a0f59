package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jessevdk/go-flags"
	"github.com/mitchellh/cli"

	"github.com/jolt-sh/jolt/pkg/session"
)

// CleanCommand removes cached archives and orphaned scratch directories
type CleanCommand struct{}

// CleanOptions holds command-line options for the clean command
type CleanOptions struct {
	Verbose bool `short:"v" long:"verbose" description:"Show what is being cleaned"`
	Help    bool `short:"h" long:"help"    description:"Show this help message"`
}

// Help returns the help text for the clean command
func (c *CleanCommand) Help() string {
	var opts CleanOptions
	parser := flags.NewParser(&opts, flags.Default)
	parser.Usage = OptionsUsage

	formatter := &HelpFormatter{
		Command:     "clean",
		Description: "Remove cached distribution archives and leftover scratch directories.",
		Examples: []Example{
			{Command: "jolt clean", Description: "Clean all cached data"},
			{Command: "jolt clean --verbose", Description: "Show detailed output"},
		},
		Notes: []string{
			"Installed images are kept; only archives and scratch space are removed.",
			"Interrupted installs leave scratch directories behind; clean sweeps them.",
		},
	}

	return formatter.FormatHelp(parser)
}

// Synopsis returns a short description of the clean command
func (c *CleanCommand) Synopsis() string {
	return "Remove cached archives and scratch directories"
}

// Run executes the clean command
func (c *CleanCommand) Run(args []string) int {
	var opts CleanOptions
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
	lay := sess.Layout()

	scratch := lay.ScratchRoot()
	if _, err := os.Stat(scratch); err == nil {
		if opts.Verbose {
			fmt.Println(subtle("cleaning " + scratch))
		}
		if err := os.RemoveAll(scratch); err != nil {
			fmt.Println(failure(fmt.Sprintf("failed to clean %s: %v", scratch, err)))
			return 1
		}
		fmt.Printf("Cleaned %s.\n", scratch)
	}

	// Sidecar files stay: installed images still need their bundled
	// npm records. Only the downloaded archives are removed.
	removed, err := removeArchives(lay.InventoryDir(), opts.Verbose)
	if err != nil {
		fmt.Println(failure(err.Error()))
		return 1
	}
	if removed > 0 {
		fmt.Printf("Removed %d cached archive(s).\n", removed)
	}
	return 0
}

// removeArchives deletes distribution archives from the inventory dir.
func removeArchives(dir string, verbose bool) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read inventory directory %s: %w", dir, err)
	}

	removed := 0
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasSuffix(name, ".tar.gz") && !strings.HasSuffix(name, ".zip") {
			continue
		}
		path := filepath.Join(dir, name)
		if verbose {
			fmt.Println(subtle("removing " + path))
		}
		if err := os.Remove(path); err != nil {
			return removed, fmt.Errorf("failed to remove %s: %w", path, err)
		}
		removed++
	}
	return removed, nil
}

// CleanCommandFactory creates a new clean command instance
func CleanCommandFactory() (cli.Command, error) {
	return &CleanCommand{}, nil
}
