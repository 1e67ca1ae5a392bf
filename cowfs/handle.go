package cowfs

// fileHandle is a runtime-only open-file record. Handles are never
// persisted to the image.
type fileHandle struct {
	inode  int
	mode   Mode
	cursor int64
	valid  bool
}

// allocateHandle claims the lowest free descriptor slot.
func (fs *FileSystem) allocateHandle(inode int, mode Mode) (FD, error) {
	for i := range fs.handles {
		if !fs.handles[i].valid {
			fs.handles[i] = fileHandle{inode: inode, mode: mode, valid: true}
			return FD(i), nil
		}
	}
	return -1, ErrNoFreeHandle
}

// handleAt validates fd and returns its slot.
func (fs *FileSystem) handleAt(fd FD) (*fileHandle, error) {
	if fd < 0 || int(fd) >= len(fs.handles) || !fs.handles[fd].valid {
		return nil, ErrInvalidHandle
	}
	return &fs.handles[fd], nil
}

// inodeOf resolves a handle to its inode, rejecting handles whose slot has
// been released.
func (fs *FileSystem) inodeOf(h *fileHandle) (*Inode, error) {
	if h.inode < 0 || h.inode >= len(fs.inodes) || !fs.inodes[h.inode].InUse {
		return nil, ErrMissingInode
	}
	return &fs.inodes[h.inode], nil
}

// CloseFile releases a handle. It never releases inodes or blocks.
func (fs *FileSystem) CloseFile(fd FD) error {
	h, err := fs.handleAt(fd)
	if err != nil {
		return err
	}
	h.valid = false
	return nil
}

// FileSize returns the current size of the file behind fd.
func (fs *FileSystem) FileSize(fd FD) (int64, error) {
	h, err := fs.handleAt(fd)
	if err != nil {
		return 0, err
	}
	ino, err := fs.inodeOf(h)
	if err != nil {
		return 0, err
	}
	return ino.Size, nil
}

// FileStatus is a point-in-time summary of an open file.
type FileStatus struct {
	IsOpen         bool  `json:"is_open"`
	IsModified     bool  `json:"is_modified"`
	CurrentSize    int64 `json:"current_size"`
	CurrentVersion int   `json:"current_version"`
}

// FileStatus reports the open state of fd. A closed or invalid descriptor
// yields the zero status rather than an error.
func (fs *FileSystem) FileStatus(fd FD) FileStatus {
	h, err := fs.handleAt(fd)
	if err != nil {
		return FileStatus{}
	}
	ino, err := fs.inodeOf(h)
	if err != nil {
		return FileStatus{}
	}
	return FileStatus{
		IsOpen:         true,
		IsModified:     h.mode == ModeWrite,
		CurrentSize:    ino.Size,
		CurrentVersion: ino.VersionCount,
	}
}

// VersionHistory returns a copy of the version log of the file behind fd.
func (fs *FileSystem) VersionHistory(fd FD) ([]VersionInfo, error) {
	h, err := fs.handleAt(fd)
	if err != nil {
		return nil, err
	}
	ino, err := fs.inodeOf(h)
	if err != nil {
		return nil, err
	}
	out := make([]VersionInfo, len(ino.Versions))
	copy(out, ino.Versions)
	return out, nil
}

// VersionCount returns the number of recorded versions of the file behind
// fd.
func (fs *FileSystem) VersionCount(fd FD) (int, error) {
	h, err := fs.handleAt(fd)
	if err != nil {
		return 0, err
	}
	ino, err := fs.inodeOf(h)
	if err != nil {
		return 0, err
	}
	return ino.VersionCount, nil
}
