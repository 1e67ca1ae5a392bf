package cmd

import (
	"crypto/rand"
	"fmt"
	"log"
	"math/big"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// NewSeedCmd creates and returns the seed subcommand for the cowfs CLI.
// It generates a versioned write workload against an image.
func NewSeedCmd() *cobra.Command {
	var (
		imagePath string
		diskSize  int64
		fileCount int
		writes    int
		verbose   bool
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Generate a versioned write workload for testing",
		Long: `Generate test files inside an image and write several versions to each.

Content lines are drawn from a small UUID pool, so repeated writes
sometimes produce identical content (exercising no-op detection) and
sometimes small deltas (exercising version chains and block sharing).`,
		Run: func(cmd *cobra.Command, args []string) {
			runSeed(imagePath, diskSize, fileCount, writes, verbose)
		},
	}

	cmd.Flags().StringVarP(&imagePath, "image", "i", "", "Path to the image file (required)")
	cmd.Flags().Int64VarP(&diskSize, "size", "s", defaultDiskSize, "Image capacity in bytes")
	cmd.Flags().IntVarP(&fileCount, "count", "c", 8, "Number of files to generate")
	cmd.Flags().IntVarP(&writes, "writes", "w", 4, "Writes per file")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	cmd.MarkFlagRequired("image")

	return cmd
}

func runSeed(imagePath string, diskSize int64, fileCount, writes int, verbose bool) {
	engine, err := openOrCreateImage(imagePath, diskSize)
	if err != nil {
		log.Fatalf("Failed to open image: %v", err)
	}

	// Small pool so repeated draws collide and trigger no-op writes.
	uuidPool := make([]string, 8)
	for i := range uuidPool {
		uuidPool[i] = uuid.New().String()
	}
	draw := func() string {
		n, _ := rand.Int(rand.Reader, big.NewInt(int64(len(uuidPool))))
		return uuidPool[n.Int64()]
	}

	for i := 0; i < fileCount; i++ {
		name := fmt.Sprintf("seed-%04d", i)
		fd, err := engine.Create(name)
		if err != nil {
			log.Fatalf("Failed to create %s: %v", name, err)
		}

		for w := 0; w < writes; w++ {
			lines, _ := rand.Int(rand.Reader, big.NewInt(4))
			content := make([]string, lines.Int64()+1)
			for l := range content {
				content[l] = draw()
			}
			payload := []byte(strings.Join(content, "\n") + "\n")
			if _, err := engine.Write(fd, payload); err != nil {
				log.Fatalf("Failed to write %s: %v", name, err)
			}
		}

		versions, _ := engine.VersionCount(fd)
		if verbose {
			fmt.Printf("%s: %d write(s), %d version(s) recorded\n", name, writes, versions)
		}
		engine.CloseFile(fd)
	}

	if err := engine.Close(); err != nil {
		log.Fatalf("Failed to persist image: %v", err)
	}
	fmt.Printf("seeded %d file(s) with %d write(s) each into %s\n", fileCount, writes, imagePath)
}
