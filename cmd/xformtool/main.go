// xformtool is a CLI utility for inspecting and editing transform op stacks
// in YAML stage files.
package main

import (
	"fmt"
	"os"

	"github.com/Faultbox/xformsync/internal/config"
	"github.com/Faultbox/xformsync/internal/logger"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	args := config.Args()
	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.LoadFor(stageArg(args))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	command := args[0]
	args = args[1:]

	switch command {
	case "info":
		err = cmdInfo(args)
	case "match":
		err = cmdMatch(args)
	case "matrix", "m":
		err = cmdMatrix(cfg, args)
	case "set":
		err = cmdSet(cfg, args)
	case "normalize":
		err = cmdNormalize(cfg, args)
	case "config":
		err = cmdConfig(cfg, args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		logger.Sync()
		os.Exit(1)
	}
}

// stageArg returns the stage file a command operates on, if any.
func stageArg(args []string) string {
	switch args[0] {
	case "info", "match", "matrix", "m", "set", "normalize":
		if len(args) > 1 {
			return args[1]
		}
	}
	return ""
}

func printUsage() {
	fmt.Println(`xformtool - transform op stack utility

Usage:
  xformtool [flags] <command> [arguments]

Commands:
  info <stage.yaml>                             Show prims, op order and samples
  match <stage.yaml>                            Show the schema and op roles per prim
  matrix <stage.yaml> <prim>                    Compare prim and engine matrices
  set <stage.yaml> <prim> <component> <x y z>   Edit a component and save the stage
  normalize <stage.yaml> <prim>                 Rewrite a prim's ops in host order
  config [path]                                 Print or save the effective config

Flags:
  -config <file>       Config file (default: xformsync.yaml next to the stage,
                       then ./xformsync.yaml, ./config.yaml, user config dir)
  -debug               Debug logging
  -push                Write edits back to the prim
  -no-read-animated    Do not re-read animated ops
  -precision <p>       Precision of inserted ops (double, float, half)
  -time <t>            Evaluation time code

Rotations are given and shown in degrees.

Examples:
  xformtool info scene.yaml
  xformtool -time 12 matrix scene.yaml /world/mover
  xformtool set scene.yaml /world/mover rotatePivot 0 1 0`)
}
