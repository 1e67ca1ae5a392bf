package cmd

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
)

// NewInfoCmd creates and returns the info subcommand for the cowfs CLI.
// It dumps an image metadata snapshot as JSON.
func NewInfoCmd() *cobra.Command {
	var (
		imagePath  string
		diskSize   int64
		label      string
		outputPath string
	)

	cmd := &cobra.Command{
		Use:   "info",
		Short: "Dump an image metadata snapshot as JSON",
		Long: `Dump a labeled JSON snapshot of the image: block usage totals, free-run
summary, and every file with its full version history including delta
windows, content hashes, and shard buckets.`,
		Run: func(cmd *cobra.Command, args []string) {
			runInfo(imagePath, diskSize, label, outputPath)
		},
	}

	cmd.Flags().StringVarP(&imagePath, "image", "i", "", "Path to the image file (required)")
	cmd.Flags().Int64VarP(&diskSize, "size", "s", defaultDiskSize, "Image capacity in bytes")
	cmd.Flags().StringVarP(&label, "label", "l", "", "Label recorded in the snapshot")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write JSON to this file instead of stdout")

	cmd.MarkFlagRequired("image")

	return cmd
}

func runInfo(imagePath string, diskSize int64, label, outputPath string) {
	engine, err := openExistingImage(imagePath, diskSize)
	if err != nil {
		log.Fatalf("Failed to open image: %v", err)
	}

	snapshot := engine.Snapshot(label)

	if outputPath != "" {
		if err := snapshot.Save(outputPath); err != nil {
			log.Fatalf("Failed to write snapshot: %v", err)
		}
		fmt.Printf("snapshot written to %s\n", outputPath)
		return
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snapshot); err != nil {
		log.Fatalf("Failed to encode snapshot: %v", err)
	}
}
