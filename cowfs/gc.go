package cowfs

// GarbageCollect sweeps blocks that no version chain can reach back onto
// the free list. With eager reclamation on the decrement path this is a
// defensive no-op; it still catches blocks left dormant by chain
// corruption or a crash-recovered image.
func (fs *FileSystem) GarbageCollect() {
	used := make([]bool, fs.totalBlocks)

	for i := range fs.inodes {
		if !fs.inodes[i].InUse {
			continue
		}
		for _, version := range fs.inodes[i].Versions {
			current := version.BlockIndex
			for fs.validBlock(current) {
				if fs.blocks[current].RefCount > 0 {
					used[current] = true
				}
				current = fs.blocks[current].Next
			}
		}
	}

	// Rebuild the free list from the reachability bitmap so that
	// already-free and newly-reclaimed runs end up coalesced without
	// duplicates.
	fs.freeRuns = nil
	start := uint32(0)
	for start < fs.totalBlocks {
		if used[start] {
			start++
			continue
		}
		count := uint32(0)
		for start+count < fs.totalBlocks && !used[start+count] {
			b := &fs.blocks[start+count]
			b.InUse = false
			b.Next = noBlock
			b.RefCount = 0
			clear(b.Data[:])
			count++
		}
		fs.addToFreeList(start, count)
		start += count
	}

	fs.mergeFreeRuns()
}
