// Package cli is the cogflow command-line surface: thin go-flags
// subcommands over the pipeline, storage, and embedding packages.
package cli

import (
	"fmt"
	"os"

	goflags "github.com/jessevdk/go-flags"
)

// commands holds references to all subcommand structs for inspection/testing.
type commands struct {
	Analyze    *AnalyzeCommand
	Status     *StatusCommand
	PurgeCache *PurgeCacheCommand
}

// buildParser constructs the go-flags parser with all subcommands registered.
func buildParser(version string) (*goflags.Parser, *GlobalFlags, *commands) {
	var globals GlobalFlags

	parser := goflags.NewParser(&globals, goflags.Default)
	parser.Name = "cogflow"
	parser.LongDescription = "Reconstructs attention flow, focus sessions, and foraging chains from a browser history log."

	cmds := &commands{
		Analyze:    &AnalyzeCommand{Input: "-", globals: &globals, version: version},
		Status:     &StatusCommand{globals: &globals, version: version},
		PurgeCache: &PurgeCacheCommand{globals: &globals, version: version},
	}

	parser.AddCommand("analyze", "Analyze a history log", "Run the full attention-flow analysis over a history JSON log and print the report.", cmds.Analyze)
	parser.AddCommand("status", "Show cache and calibration state", "Show embedding cache statistics and persisted calibration thresholds.", cmds.Status)
	parser.AddCommand("purge-cache", "Delete cached data", "Delete cached embeddings and persisted thresholds. Destructive operation with safety prompt.", cmds.PurgeCache)

	return parser, &globals, cmds
}

// Run is the main entry point for the cogflow CLI using os.Args.
func Run(version string) error {
	return RunWithArgs(version, nil)
}

// RunWithArgs parses the given args (or os.Args if nil) and executes the matched subcommand.
func RunWithArgs(version string, args []string) error {
	// Handle --version before parser (go-flags requires a subcommand, but
	// --version is valid without one).
	checkArgs := args
	if checkArgs == nil {
		checkArgs = os.Args[1:]
	}
	for _, arg := range checkArgs {
		if arg == "--version" {
			fmt.Printf("cogflow %s\n", version)
			return nil
		}
		if arg == "--" {
			break
		}
	}

	parser, _, _ := buildParser(version)

	var err error
	if args != nil {
		_, err = parser.ParseArgs(args)
	} else {
		_, err = parser.Parse()
	}

	if err != nil {
		if flagsErr, ok := err.(*goflags.Error); ok {
			if flagsErr.Type == goflags.ErrHelp {
				return nil
			}
		}
		return err
	}

	return nil
}
