package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/dendrascience/dendra-cow-fuse/cowfs"
)

// NewLsCmd creates and returns the ls subcommand for the cowfs CLI.
// It lists the files stored in an image with size and version counts.
func NewLsCmd() *cobra.Command {
	var (
		imagePath string
		diskSize  int64
	)

	cmd := &cobra.Command{
		Use:   "ls",
		Short: "List files in a cowfs image",
		Run: func(cmd *cobra.Command, args []string) {
			runLs(imagePath, diskSize)
		},
	}

	cmd.Flags().StringVarP(&imagePath, "image", "i", "", "Path to the image file (required)")
	cmd.Flags().Int64VarP(&diskSize, "size", "s", defaultDiskSize, "Image capacity in bytes")

	cmd.MarkFlagRequired("image")

	return cmd
}

func runLs(imagePath string, diskSize int64) {
	engine, err := openExistingImage(imagePath, diskSize)
	if err != nil {
		log.Fatalf("Failed to open image: %v", err)
	}

	names := engine.ListFiles()
	if len(names) == 0 {
		fmt.Println("(empty image)")
		return
	}

	for _, name := range names {
		fd, err := engine.Open(name, cowfs.ModeRead)
		if err != nil {
			log.Fatalf("Failed to open %s: %v", name, err)
		}
		size, _ := engine.FileSize(fd)
		versions, _ := engine.VersionCount(fd)
		engine.CloseFile(fd)
		fmt.Printf("%-32s %8d bytes  %d version(s)\n", name, size, versions)
	}
	fmt.Printf("\n%d file(s), %d of %d blocks in use\n",
		len(names), engine.TotalMemoryUsage()/cowfs.BlockSize, engine.TotalBlocks())
}
