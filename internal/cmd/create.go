package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/dendrascience/dendra-cow-fuse/cowfs"
)

// NewCreateCmd creates and returns the create subcommand for the cowfs CLI.
// It initializes a new image file and optionally creates empty files in it.
func NewCreateCmd() *cobra.Command {
	var (
		imagePath string
		diskSize  int64
	)

	cmd := &cobra.Command{
		Use:   "create [NAME...]",
		Short: "Create a cowfs image, or empty files inside one",
		Long: `Create a cowfs image at the path given by --image, initializing it with
the given capacity if it does not exist, then create an empty file for
every NAME argument. Each name gets its own inode; writing to it later
starts its version history.`,
		Run: func(cmd *cobra.Command, args []string) {
			runCreate(imagePath, diskSize, args)
		},
	}

	cmd.Flags().StringVarP(&imagePath, "image", "i", "", "Path to the image file (required)")
	cmd.Flags().Int64VarP(&diskSize, "size", "s", defaultDiskSize, "Image capacity in bytes")

	cmd.MarkFlagRequired("image")

	return cmd
}

func runCreate(imagePath string, diskSize int64, names []string) {
	engine, err := openOrCreateImage(imagePath, diskSize)
	if err != nil {
		log.Fatalf("Failed to open image: %v", err)
	}

	for _, name := range names {
		fd, err := engine.Create(name)
		if err != nil {
			log.Fatalf("Failed to create %s: %v", name, err)
		}
		if err := engine.CloseFile(fd); err != nil {
			log.Fatalf("Failed to close handle for %s: %v", name, err)
		}
		fmt.Printf("created %s\n", name)
	}

	if err := engine.Close(); err != nil {
		log.Fatalf("Failed to persist image: %v", err)
	}
	fmt.Printf("image %s ready (%d blocks of %d bytes)\n",
		imagePath, engine.TotalBlocks(), cowfs.BlockSize)
}
