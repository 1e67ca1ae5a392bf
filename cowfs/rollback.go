package cowfs

// RollbackToVersion truncates the file's version log to version v,
// releasing the block references held by every discarded later version.
// Rolling back to the current version releases nothing; the handle's
// cursor is still reset (to the file size for a write handle, to 0 for a
// read handle).
func (fs *FileSystem) RollbackToVersion(fd FD, v int) error {
	h, err := fs.handleAt(fd)
	if err != nil {
		return err
	}
	ino, err := fs.inodeOf(h)
	if err != nil {
		return err
	}

	if v < 1 || v > ino.VersionCount {
		return ErrVersionOutOfRange
	}

	var target VersionInfo
	found := false
	for i := range ino.Versions {
		if ino.Versions[i].VersionNumber == v {
			target = ino.Versions[i]
			found = true
			break
		}
	}
	if !found {
		// Version numbering invariant is broken; surface rather than
		// guess.
		return ErrVersionOutOfRange
	}

	kept := ino.Versions[:0]
	for i := range ino.Versions {
		if ino.Versions[i].VersionNumber <= v {
			kept = append(kept, ino.Versions[i])
		} else {
			fs.decrementBlockRefs(ino.Versions[i].BlockIndex)
		}
	}

	ino.Versions = kept
	ino.FirstBlock = target.BlockIndex
	ino.Size = target.Size
	ino.VersionCount = v

	if h.mode == ModeWrite {
		h.cursor = target.Size
	} else {
		h.cursor = 0
	}
	return nil
}
