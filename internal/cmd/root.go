package cmd

import (
	"github.com/spf13/cobra"

	"github.com/dendrascience/dendra-cow-fuse/version"
)

// NewRootCmd creates and returns the root cobra command for the cowfs CLI.
// It sets up all subcommands, command groups, and basic configuration.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "cowfs",
		Short: "cowfs - A single-file copy-on-write filesystem with per-write version history",
		Long: `cowfs stores small files inside one flat image file using a copy-on-write
block layout. Every write becomes an immutable version unless its content
equals, or is a prefix of, the current version; prior versions stay
readable until rolled back. Each version holds its own chain of
reference-counted blocks.

Use subcommands to perform different operations:
  - mount: Mount an image as a FUSE filesystem
  - create: Create a new image, or new empty files inside one
  - ls: List files in an image
  - history: Show the version history of a file
  - verify: Check an image's structural invariants
  - gc: Sweep unreferenced blocks back onto the free list
  - info: Dump an image metadata snapshot as JSON
  - seed: Generate a versioned write workload for testing`,
		Version: version.GetFullVersion(),
	}

	groupUtilities := "utilities"
	groupFilesystem := "filesystem"

	rootCmd.AddGroup(&cobra.Group{
		ID:    groupFilesystem,
		Title: "Filesystem Operations",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    groupUtilities,
		Title: "Utility Commands",
	})

	mountCmd := NewMountCmd()
	createCmd := NewCreateCmd()
	lsCmd := NewLsCmd()
	historyCmd := NewHistoryCmd()
	verifyCmd := NewVerifyCmd()
	gcCmd := NewGCCmd()
	infoCmd := NewInfoCmd()
	seedCmd := NewSeedCmd()

	mountCmd.GroupID = groupFilesystem
	createCmd.GroupID = groupFilesystem
	lsCmd.GroupID = groupFilesystem
	historyCmd.GroupID = groupFilesystem
	verifyCmd.GroupID = groupUtilities
	gcCmd.GroupID = groupUtilities
	infoCmd.GroupID = groupUtilities
	seedCmd.GroupID = groupUtilities

	rootCmd.AddCommand(mountCmd)
	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(lsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(gcCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(seedCmd)

	return rootCmd
}
