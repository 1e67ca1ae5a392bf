package cowfs

// VersionInfo is one entry of a file's version log, recorded on every
// successful non-empty write whose content neither equals nor is a prefix
// of the current version. The full content lives in the
// chain at BlockIndex; the delta window only describes what changed from
// the previous version.
type VersionInfo struct {
	VersionNumber int    `json:"version_number"`
	Timestamp     string `json:"timestamp"`
	Size          int64  `json:"size"`
	BlockIndex    uint32 `json:"block_index"`
	DeltaStart    int64  `json:"delta_start"`
	DeltaSize     int64  `json:"delta_size"`
	PrevVersion   int    `json:"prev_version"`
	ContentHash   string `json:"content_hash"`
}

// Inode describes one file. FirstBlock, Size and VersionCount always
// mirror the last entry of Versions.
type Inode struct {
	InUse        bool          `json:"in_use"`
	Name         string        `json:"name"`
	FirstBlock   uint32        `json:"first_block"`
	Size         int64         `json:"size"`
	VersionCount int           `json:"version_count"`
	Versions     []VersionInfo `json:"versions"`
}

// currentVersion returns the most recent version entry, or nil if the file
// has never been written.
func (ino *Inode) currentVersion() *VersionInfo {
	if len(ino.Versions) == 0 {
		return nil
	}
	return &ino.Versions[len(ino.Versions)-1]
}

// findInode returns the index of the in-use inode named name, or -1.
func (fs *FileSystem) findInode(name string) int {
	for i := range fs.inodes {
		if fs.inodes[i].InUse && fs.inodes[i].Name == name {
			return i
		}
	}
	return -1
}

// Create makes a new empty file and returns a handle opened for writing
// with the cursor at zero.
func (fs *FileSystem) Create(name string) (FD, error) {
	if len(name) >= MaxFilenameLength {
		return -1, ErrNameTooLong
	}
	if fs.findInode(name) >= 0 {
		return -1, ErrAlreadyExists
	}

	slot := -1
	for i := range fs.inodes {
		if !fs.inodes[i].InUse {
			slot = i
			break
		}
	}
	if slot < 0 {
		return -1, ErrNoFreeInode
	}

	fs.inodes[slot] = Inode{
		InUse:      true,
		Name:       name,
		FirstBlock: noBlock,
	}

	fd, err := fs.allocateHandle(slot, ModeWrite)
	if err != nil {
		fs.inodes[slot].InUse = false
		return -1, err
	}
	return fd, nil
}

// Open returns a handle on an existing file with the cursor at zero.
func (fs *FileSystem) Open(name string, mode Mode) (FD, error) {
	slot := fs.findInode(name)
	if slot < 0 {
		return -1, ErrNotFound
	}
	return fs.allocateHandle(slot, mode)
}

// ListFiles returns the names of all in-use inodes in slot order.
func (fs *FileSystem) ListFiles() []string {
	names := make([]string, 0, len(fs.inodes))
	for i := range fs.inodes {
		if fs.inodes[i].InUse {
			names = append(names, fs.inodes[i].Name)
		}
	}
	return names
}
