package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/dendrascience/dendra-cow-fuse/cowfs"
)

// NewGCCmd creates and returns the gc subcommand for the cowfs CLI.
// It runs the engine's mark/sweep pass and persists the result.
func NewGCCmd() *cobra.Command {
	var (
		imagePath string
		diskSize  int64
	)

	cmd := &cobra.Command{
		Use:   "gc",
		Short: "Sweep unreferenced blocks back onto the free list",
		Run: func(cmd *cobra.Command, args []string) {
			runGC(imagePath, diskSize)
		},
	}

	cmd.Flags().StringVarP(&imagePath, "image", "i", "", "Path to the image file (required)")
	cmd.Flags().Int64VarP(&diskSize, "size", "s", defaultDiskSize, "Image capacity in bytes")

	cmd.MarkFlagRequired("image")

	return cmd
}

func runGC(imagePath string, diskSize int64) {
	engine, err := openExistingImage(imagePath, diskSize)
	if err != nil {
		log.Fatalf("Failed to open image: %v", err)
	}

	before := engine.TotalMemoryUsage()
	engine.GarbageCollect()
	after := engine.TotalMemoryUsage()

	if err := engine.Close(); err != nil {
		log.Fatalf("Failed to persist image: %v", err)
	}

	fmt.Printf("reclaimed %d block(s), %d of %d blocks in use\n",
		(before-after)/cowfs.BlockSize, after/cowfs.BlockSize, engine.TotalBlocks())
}
