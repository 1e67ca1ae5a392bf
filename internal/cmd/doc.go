// Package cmd provides the command-line interface implementation for cowfs.
//
// This package contains all the subcommand implementations for the cowfs CLI
// tool. It uses the Cobra library for command structure and Fang for styling.
//
// The package is organized into the following commands:
//   - root: Main command coordinator and entry point
//   - mount: FUSE mounting of an image
//   - create: Image and file creation
//   - ls / history: Listing files and version logs
//   - verify: Structural invariant checking
//   - gc: Unreferenced-block sweep
//   - info: JSON metadata snapshot dump
//   - seed: Versioned write workload generation
//
// Each command is implemented as a separate file with its own constructor
// function that returns a *cobra.Command. The root command coordinates all
// subcommands.
package cmd
