package cowfs

// Fixed image geometry. Images written with one set of values cannot be
// opened with another.
const (
	// BlockSize is the number of payload bytes per block.
	BlockSize = 4096

	// MaxFiles is the size of the inode table and of the file
	// descriptor table.
	MaxFiles = 16

	// MaxFilenameLength is the maximum filename length in bytes,
	// including the terminator slot of the on-image name buffer.
	MaxFilenameLength = 32
)

// noBlock marks the end of a block chain and an absent chain head.
// Index 0 is a normal allocatable block.
const noBlock = ^uint32(0)

// TimestampFormat is the layout of the human-readable version timestamps.
const TimestampFormat = "2006-01-02 15:04:05"

// FD is an open-file handle index into the descriptor table.
type FD int

// Mode selects what an open handle may do.
type Mode int

const (
	ModeRead Mode = iota
	ModeWrite
)

// Block is the unit of allocation. A file's content is a singly-linked
// chain of blocks; chains are shared between versions via RefCount.
type Block struct {
	InUse    bool
	Next     uint32
	RefCount uint32
	Data     [BlockSize]byte
}

// FileSystem is a COW filesystem held entirely in memory and backed by a
// single flat image file. It is not safe for concurrent use; callers that
// need concurrency must serialize externally.
type FileSystem struct {
	diskPath    string
	diskSize    int64
	totalBlocks uint32

	inodes  []Inode
	blocks  []Block
	handles []fileHandle

	freeRuns *freeRun
}

// New opens the image at path, creating and zero-initializing it if it
// does not exist. diskSize is the logical capacity in bytes and must hold
// at least one block.
func New(path string, diskSize int64) (*FileSystem, error) {
	if diskSize < BlockSize {
		return nil, ErrCorruptImage
	}

	fs := &FileSystem{
		diskPath:    path,
		diskSize:    diskSize,
		totalBlocks: uint32(diskSize / BlockSize),
	}
	fs.inodes = make([]Inode, MaxFiles)
	fs.blocks = make([]Block, fs.totalBlocks)
	fs.handles = make([]fileHandle, MaxFiles)

	for i := range fs.inodes {
		fs.inodes[i].FirstBlock = noBlock
	}
	for i := range fs.blocks {
		fs.blocks[i].Next = noBlock
	}

	loaded, err := fs.loadImage()
	if err != nil {
		return nil, err
	}

	if loaded {
		// The image records per-block usage but not the free-run
		// list; rebuild it by scanning.
		fs.rebuildFreeList()
	} else {
		fs.addToFreeList(0, fs.totalBlocks)
		if err := fs.writeImage(); err != nil {
			return nil, err
		}
	}
	return fs, nil
}

// Close rewrites the image file in full. The FileSystem must not be used
// afterward.
func (fs *FileSystem) Close() error {
	err := fs.writeImage()
	fs.freeRuns = nil
	return err
}

// DiskPath returns the image file path.
func (fs *FileSystem) DiskPath() string { return fs.diskPath }

// DiskSize returns the logical capacity in bytes.
func (fs *FileSystem) DiskSize() int64 { return fs.diskSize }

// TotalBlocks returns the number of blocks in the image.
func (fs *FileSystem) TotalBlocks() int { return int(fs.totalBlocks) }

// TotalMemoryUsage returns the number of payload bytes held by in-use
// blocks.
func (fs *FileSystem) TotalMemoryUsage() int64 {
	var total int64
	for i := range fs.blocks {
		if fs.blocks[i].InUse {
			total += BlockSize
		}
	}
	return total
}
