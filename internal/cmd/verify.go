package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
)

// NewVerifyCmd creates and returns the verify subcommand for the cowfs CLI.
// It checks an image's structural invariants.
func NewVerifyCmd() *cobra.Command {
	var (
		imagePath string
		diskSize  int64
		verbose   bool
	)

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check a cowfs image for corruption and consistency",
		Long: `Verify the structural invariants of a cowfs image:

  - free runs and in-use blocks partition the block array
  - the free-run list is ordered and fully coalesced
  - reference counts match chain reachability exactly
  - version logs are dense (1..N) and mirrored by the inode fields
  - filenames are unique

Exits non-zero if any invariant is violated.`,
		Run: func(cmd *cobra.Command, args []string) {
			runVerify(imagePath, diskSize, verbose)
		},
	}

	cmd.Flags().StringVarP(&imagePath, "image", "i", "", "Path to the image file (required)")
	cmd.Flags().Int64VarP(&diskSize, "size", "s", defaultDiskSize, "Image capacity in bytes")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	cmd.MarkFlagRequired("image")

	return cmd
}

func runVerify(imagePath string, diskSize int64, verbose bool) {
	engine, err := openExistingImage(imagePath, diskSize)
	if err != nil {
		log.Fatalf("Failed to open image: %v", err)
	}

	if verbose {
		fmt.Printf("Checking %s (%d blocks, %d files)\n",
			imagePath, engine.TotalBlocks(), len(engine.ListFiles()))
	}

	problems := engine.Verify()
	if len(problems) == 0 {
		fmt.Println("OK: all invariants hold")
		return
	}

	for _, p := range problems {
		fmt.Fprintf(os.Stderr, "FAIL: %s\n", p)
	}
	os.Exit(1)
}
