package cowfs

import "time"

// Read copies up to len(p) bytes from the current version of the file
// behind fd into p, starting at the handle's cursor. It returns the number
// of bytes read; 0 means end of file.
func (fs *FileSystem) Read(fd FD, p []byte) (int, error) {
	h, err := fs.handleAt(fd)
	if err != nil {
		return 0, err
	}
	ino, err := fs.inodeOf(h)
	if err != nil {
		return 0, err
	}

	if ino.Size == 0 {
		return 0, nil
	}
	if !fs.validBlock(ino.FirstBlock) || !fs.blocks[ino.FirstBlock].InUse {
		return 0, ErrCorruptChain
	}

	available := ino.Size - h.cursor
	if available <= 0 {
		return 0, nil
	}
	toRead := int64(len(p))
	if toRead > available {
		toRead = available
	}
	if toRead == 0 {
		return 0, nil
	}

	// Skip whole blocks to reach the cursor.
	current := ino.FirstBlock
	blockOffset := h.cursor % BlockSize
	for skip := h.cursor / BlockSize; skip > 0; skip-- {
		next := fs.blocks[current].Next
		if !fs.validBlock(next) {
			return 0, ErrCorruptChain
		}
		current = next
	}

	var done int64
	for done < toRead {
		if !fs.validBlock(current) {
			return 0, ErrCorruptChain
		}
		if !fs.blocks[current].InUse {
			return 0, ErrCorruptChain
		}
		chunk := toRead - done
		if room := BlockSize - blockOffset; chunk > room {
			chunk = room
		}
		copy(p[done:done+chunk], fs.blocks[current].Data[blockOffset:blockOffset+chunk])
		done += chunk
		blockOffset = 0
		current = fs.blocks[current].Next
	}

	h.cursor += done
	return int(done), nil
}

// Write replaces the file's content with p as a new immutable version.
// The previous version keeps its blocks. A write whose content matches the
// current version, or is a prefix of it, is accepted without recording
// anything and leaves the current content as it was. Returns len(p) on
// success.
func (fs *FileSystem) Write(fd FD, p []byte) (int, error) {
	h, err := fs.handleAt(fd)
	if err != nil {
		return 0, err
	}
	if h.mode != ModeWrite {
		return 0, ErrNotWritable
	}
	ino, err := fs.inodeOf(h)
	if err != nil {
		return 0, err
	}

	if len(p) == 0 {
		return 0, nil
	}

	oldSize := ino.Size
	var deltaStart, deltaSize int64

	if ino.VersionCount == 0 || oldSize == 0 {
		deltaStart, deltaSize = 0, int64(len(p))
	} else {
		old := make([]byte, oldSize)
		saved := h.cursor
		h.cursor = 0
		n, err := fs.Read(fd, old)
		h.cursor = saved
		if err != nil {
			return 0, err
		}
		if int64(n) != oldSize {
			return 0, ErrCorruptChain
		}
		deltaStart, deltaSize = findDelta(old, p)
	}

	// Nothing inside p differs (identical content, or p is a prefix of
	// the current content): accept the write without a new version.
	if deltaSize == 0 {
		h.cursor = int64(len(p))
		return len(p), nil
	}

	newHead, err := fs.writeChain(p)
	if err != nil {
		return 0, err
	}

	version := VersionInfo{
		VersionNumber: ino.VersionCount + 1,
		Timestamp:     time.Now().Format(TimestampFormat),
		Size:          int64(len(p)),
		BlockIndex:    newHead,
		DeltaStart:    deltaStart,
		DeltaSize:     deltaSize,
		PrevVersion:   ino.VersionCount,
		ContentHash:   HashBytes(p),
	}

	fs.incrementBlockRefs(newHead)

	ino.Versions = append(ino.Versions, version)
	ino.FirstBlock = newHead
	ino.Size = version.Size
	ino.VersionCount++
	h.cursor = version.Size

	return len(p), nil
}

// writeChain allocates a fresh chain holding all of p, zero-padding the
// tail of the last block. On allocation failure the partial chain is
// released and the image is left unchanged.
func (fs *FileSystem) writeChain(p []byte) (uint32, error) {
	blocksNeeded := (len(p) + BlockSize - 1) / BlockSize
	head := noBlock
	prev := noBlock
	remaining := p

	for i := 0; i < blocksNeeded; i++ {
		index, err := fs.allocateBlock()
		if err != nil {
			fs.releaseChain(head)
			return noBlock, err
		}
		if head == noBlock {
			head = index
		} else {
			fs.blocks[prev].Next = index
		}
		n := copy(fs.blocks[index].Data[:], remaining)
		clear(fs.blocks[index].Data[n:])
		remaining = remaining[n:]
		prev = index
	}
	return head, nil
}

// releaseChain frees every block reachable from head without touching
// reference counts. Only valid for chains that were never published to a
// version record.
func (fs *FileSystem) releaseChain(head uint32) {
	for fs.validBlock(head) {
		next := fs.blocks[head].Next
		fs.freeBlock(head)
		head = next
	}
}
