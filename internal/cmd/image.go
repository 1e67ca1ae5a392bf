package cmd

import (
	"fmt"
	"os"

	"github.com/dendrascience/dendra-cow-fuse/cowfs"
)

// defaultDiskSize is the image capacity used when --size is not given.
const defaultDiskSize = 1 << 20 // 1 MiB

// openOrCreateImage opens path, initializing a fresh image when absent.
func openOrCreateImage(path string, size int64) (*cowfs.FileSystem, error) {
	return cowfs.New(path, size)
}

// openExistingImage opens an image that must already exist on disk. The
// stored geometry is validated against size.
func openExistingImage(path string, size int64) (*cowfs.FileSystem, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("image %s does not exist (run 'cowfs create' first)", path)
	}
	return cowfs.New(path, size)
}
