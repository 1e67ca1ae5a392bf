package cowfs

// validBlock reports whether index addresses a block in this image.
// noBlock is never valid.
func (fs *FileSystem) validBlock(index uint32) bool {
	return index < fs.totalBlocks
}

// allocateBlock takes one block from the free list and marks it as the
// start of a fresh, unlinked chain node. The caller owns the subsequent
// incrementBlockRefs on the chain head.
func (fs *FileSystem) allocateBlock() (uint32, error) {
	index, ok := fs.takeFreeBlock()
	if !ok {
		return 0, ErrOutOfSpace
	}
	b := &fs.blocks[index]
	b.InUse = true
	b.Next = noBlock
	b.RefCount = 0
	return index, nil
}

// freeBlock clears a block's ownership flags and returns it to the free
// list.
func (fs *FileSystem) freeBlock(index uint32) {
	if !fs.validBlock(index) {
		return
	}
	b := &fs.blocks[index]
	b.InUse = false
	b.Next = noBlock
	b.RefCount = 0
	fs.addToFreeList(index, 1)
}

// incrementBlockRefs raises the reference count of every block reachable
// from head. The walk follows Next links unconditionally until the end of
// the chain.
func (fs *FileSystem) incrementBlockRefs(head uint32) {
	for fs.validBlock(head) {
		fs.blocks[head].RefCount++
		head = fs.blocks[head].Next
	}
}

// decrementBlockRefs lowers the reference count of blocks reachable from
// head, reclaiming any block whose count reaches zero. The walk stops at
// the first block whose count stays positive: the rest of the chain is
// still shared by another owner and must keep its counts intact.
func (fs *FileSystem) decrementBlockRefs(head uint32) {
	for fs.validBlock(head) {
		b := &fs.blocks[head]
		if b.RefCount == 0 {
			head = b.Next
			continue
		}
		b.RefCount--
		if b.RefCount > 0 {
			return
		}
		next := b.Next
		fs.freeBlock(head)
		head = next
	}
}

// walkChain visits every block index reachable from head in order.
// It returns ErrCorruptChain if a visited index is out of range while the
// chain is expected to continue, or if a visited block is not in use.
func (fs *FileSystem) walkChain(head uint32, visit func(index uint32) error) error {
	for head != noBlock {
		if !fs.validBlock(head) || !fs.blocks[head].InUse {
			return ErrCorruptChain
		}
		if err := visit(head); err != nil {
			return err
		}
		head = fs.blocks[head].Next
	}
	return nil
}

// chainLength counts the blocks reachable from head.
func (fs *FileSystem) chainLength(head uint32) (int, error) {
	n := 0
	err := fs.walkChain(head, func(uint32) error {
		n++
		return nil
	})
	return n, err
}
