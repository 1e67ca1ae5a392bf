package cowfs

import "fmt"

// Verify checks the structural invariants of the in-memory image and
// returns one finding per violation. An empty result means the image is
// consistent.
func (fs *FileSystem) Verify() []string {
	var problems []string
	report := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	// Free list: ascending, in range, coalesced, non-overlapping.
	onFreeList := make([]bool, fs.totalBlocks)
	prevEnd := int64(-1)
	for run := fs.freeRuns; run != nil; run = run.next {
		if run.count == 0 {
			report("free run at %d has zero length", run.start)
			continue
		}
		end := uint64(run.start) + uint64(run.count)
		if end > uint64(fs.totalBlocks) {
			report("free run [%d,%d) exceeds image bounds", run.start, end)
			continue
		}
		if int64(run.start) <= prevEnd {
			report("free run at %d overlaps its predecessor", run.start)
		}
		prevEnd = int64(end) - 1
		for i := run.start; uint64(i) < end; i++ {
			onFreeList[i] = true
		}
	}
	for run := fs.freeRuns; run != nil && run.next != nil; run = run.next {
		if run.start+run.count == run.next.start {
			report("free runs at %d and %d are adjacent but not coalesced",
				run.start, run.next.start)
		}
	}

	// Partition: free list and in-use blocks cover every index exactly
	// once.
	for i := uint32(0); i < fs.totalBlocks; i++ {
		free := onFreeList[i]
		switch {
		case free && fs.blocks[i].InUse:
			report("block %d is both free and in use", i)
		case !free && !fs.blocks[i].InUse:
			report("block %d is neither free nor in use", i)
		}
	}

	// Reachability: ref_count > 0 exactly for blocks on some version
	// chain.
	reachable := make([]bool, fs.totalBlocks)
	seenNames := make(map[string]bool)
	for i := range fs.inodes {
		ino := &fs.inodes[i]
		if !ino.InUse {
			continue
		}
		if seenNames[ino.Name] {
			report("filename %q appears on more than one inode", ino.Name)
		}
		seenNames[ino.Name] = true

		if ino.VersionCount != len(ino.Versions) {
			report("inode %q: version_count %d != %d recorded versions",
				ino.Name, ino.VersionCount, len(ino.Versions))
		}
		for j, v := range ino.Versions {
			if v.VersionNumber != j+1 {
				report("inode %q: version at position %d is numbered %d",
					ino.Name, j, v.VersionNumber)
			}
			current := v.BlockIndex
			for fs.validBlock(current) {
				reachable[current] = true
				current = fs.blocks[current].Next
			}
		}
		if cur := ino.currentVersion(); cur != nil {
			if ino.FirstBlock != cur.BlockIndex {
				report("inode %q: first_block %d != head of current version %d",
					ino.Name, ino.FirstBlock, cur.BlockIndex)
			}
			if ino.Size != cur.Size {
				report("inode %q: size %d != current version size %d",
					ino.Name, ino.Size, cur.Size)
			}
		}
	}
	for i := uint32(0); i < fs.totalBlocks; i++ {
		hasRefs := fs.blocks[i].RefCount > 0
		if hasRefs && !reachable[i] {
			report("block %d has ref_count %d but is unreachable", i, fs.blocks[i].RefCount)
		}
		if !hasRefs && reachable[i] {
			report("block %d is reachable but has ref_count 0", i)
		}
		if !hasRefs && fs.blocks[i].InUse {
			report("block %d is in use but unreferenced (dormant)", i)
		}
	}

	return problems
}
