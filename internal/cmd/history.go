package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/dendrascience/dendra-cow-fuse/cowfs"
)

// NewHistoryCmd creates and returns the history subcommand for the cowfs
// CLI. It prints the version log of one file.
func NewHistoryCmd() *cobra.Command {
	var (
		imagePath string
		diskSize  int64
	)

	cmd := &cobra.Command{
		Use:   "history NAME",
		Short: "Show the version history of a file",
		Long: `Show every recorded version of NAME: timestamp, size, the byte window
that changed from the previous version, and the content hash.`,
		Args: cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			runHistory(imagePath, diskSize, args[0])
		},
	}

	cmd.Flags().StringVarP(&imagePath, "image", "i", "", "Path to the image file (required)")
	cmd.Flags().Int64VarP(&diskSize, "size", "s", defaultDiskSize, "Image capacity in bytes")

	cmd.MarkFlagRequired("image")

	return cmd
}

func runHistory(imagePath string, diskSize int64, name string) {
	engine, err := openExistingImage(imagePath, diskSize)
	if err != nil {
		log.Fatalf("Failed to open image: %v", err)
	}

	fd, err := engine.Open(name, cowfs.ModeRead)
	if err != nil {
		log.Fatalf("Failed to open %s: %v", name, err)
	}
	defer engine.CloseFile(fd)

	versions, err := engine.VersionHistory(fd)
	if err != nil {
		log.Fatalf("Failed to read version history: %v", err)
	}

	fmt.Printf("%s: %d version(s)\n", name, len(versions))
	for _, v := range versions {
		fmt.Printf("  v%d  %s  %6d bytes  delta [%d,+%d)  %s\n",
			v.VersionNumber, v.Timestamp, v.Size,
			v.DeltaStart, v.DeltaSize, shortHash(v.ContentHash))
	}
}

// shortHash abbreviates a hex content hash for display.
func shortHash(hash string) string {
	if len(hash) > 12 {
		return hash[:12]
	}
	return hash
}
