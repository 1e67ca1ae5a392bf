package cmd

import (
	"fmt"
	"log"
	"os"
	"os/signal"

	"bazil.org/fuse"
	"bazil.org/fuse/fs"
	_ "bazil.org/fuse/fs/fstestutil"
	"github.com/spf13/cobra"

	"github.com/dendrascience/dendra-cow-fuse/cowfuse"
	"github.com/dendrascience/dendra-cow-fuse/version"
)

// NewMountCmd creates and returns the mount subcommand for the cowfs CLI.
// It mounts a cowfs image as a FUSE filesystem.
func NewMountCmd() *cobra.Command {
	var diskSize int64

	cmd := &cobra.Command{
		Use:   "mount IMAGE MOUNTPOINT",
		Short: "Mount a cowfs image as a FUSE filesystem",
		Long: `Mount a cowfs image at the specified mountpoint.

IMAGE is the path to the image file; it is created with the given size if
it does not exist. MOUNTPOINT is the directory where the filesystem will
be mounted. Each file save through the mount becomes one copy-on-write
version inside the image.`,
		Args: cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			runMount(args[0], args[1], diskSize)
		},
	}

	cmd.Flags().Int64VarP(&diskSize, "size", "s", defaultDiskSize, "Image capacity in bytes (for new images)")

	return cmd
}

func runMount(imagePath, mountpoint string, diskSize int64) {
	fmt.Printf("cowfs %s starting...\n", version.GetFullVersion())

	engine, err := openOrCreateImage(imagePath, diskSize)
	if err != nil {
		log.Fatalf("Failed to open image: %v", err)
	}
	filesystem := cowfuse.New(engine)

	c, err := fuse.Mount(
		mountpoint,
		fuse.FSName("cowfs"),
		fuse.Subtype("cowfs"),
	)
	if err != nil {
		log.Fatal(err)
	}
	defer c.Close()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)
	go func() {
		<-sigChan
		log.Println("Received interrupt signal, shutting down...")

		if err := filesystem.Close(); err != nil {
			log.Printf("Failed to persist image: %v", err)
		}

		fuse.Unmount(mountpoint)
		c.Close()

		log.Println("Shutdown complete")
		os.Exit(0)
	}()

	log.Printf("cowfs %s mounted at %s (image: %s)", version.GetVersion(), mountpoint, imagePath)
	err = fs.Serve(c, filesystem)
	if err != nil {
		log.Fatal(err)
	}
}
