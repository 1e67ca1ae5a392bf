package cowfs

// freeRun is a maximal contiguous run of free block indices. Runs form a
// singly-linked list in strictly ascending start order; no two runs in the
// list touch.
type freeRun struct {
	start uint32
	count uint32
	next  *freeRun
}

// addToFreeList inserts the run [start, start+count) at its address-ordered
// position and merges adjacent runs until the list is stable.
func (fs *FileSystem) addToFreeList(start, count uint32) {
	run := &freeRun{start: start, count: count}

	if fs.freeRuns == nil || start < fs.freeRuns.start {
		run.next = fs.freeRuns
		fs.freeRuns = run
	} else {
		cur := fs.freeRuns
		for cur.next != nil && cur.next.start < start {
			cur = cur.next
		}
		run.next = cur.next
		cur.next = run
	}

	fs.mergeFreeRuns()
}

// mergeFreeRuns coalesces touching neighbors. Reports whether any merge
// happened.
func (fs *FileSystem) mergeFreeRuns() bool {
	merged := false
	cur := fs.freeRuns
	for cur != nil && cur.next != nil {
		if cur.start+cur.count == cur.next.start {
			cur.count += cur.next.count
			cur.next = cur.next.next
			merged = true
		} else {
			cur = cur.next
		}
	}
	return merged
}

// findBestFit returns the run with the smallest count >= need, preferring
// the lowest start on ties. Returns nil if no run is large enough.
func (fs *FileSystem) findBestFit(need uint32) *freeRun {
	var best *freeRun
	smallest := ^uint32(0)
	for cur := fs.freeRuns; cur != nil; cur = cur.next {
		if cur.count >= need {
			diff := cur.count - need
			if diff < smallest {
				smallest = diff
				best = cur
				if diff == 0 {
					break
				}
			}
		}
	}
	return best
}

// takeFreeRun removes the first need blocks from the best-fit run and
// returns their starting index. A larger run is split: the suffix stays
// free just after the allocated prefix. An exactly-consumed run is
// unlinked.
func (fs *FileSystem) takeFreeRun(need uint32) (uint32, bool) {
	run := fs.findBestFit(need)
	if run == nil {
		return 0, false
	}

	start := run.start
	if run.count > need {
		run.start += need
		run.count -= need
		return start, true
	}

	if run == fs.freeRuns {
		fs.freeRuns = run.next
	} else {
		cur := fs.freeRuns
		for cur != nil && cur.next != run {
			cur = cur.next
		}
		if cur != nil {
			cur.next = run.next
		}
	}
	return start, true
}

// takeFreeBlock takes a single block; chains are built one block at a
// time.
func (fs *FileSystem) takeFreeBlock() (uint32, bool) {
	return fs.takeFreeRun(1)
}

// rebuildFreeList discards the current list and reconstructs it from the
// per-block InUse flags, producing maximal coalesced runs.
func (fs *FileSystem) rebuildFreeList() {
	fs.freeRuns = nil
	var tail *freeRun
	i := uint32(0)
	for i < fs.totalBlocks {
		if fs.blocks[i].InUse {
			i++
			continue
		}
		start := i
		for i < fs.totalBlocks && !fs.blocks[i].InUse {
			i++
		}
		run := &freeRun{start: start, count: i - start}
		if tail == nil {
			fs.freeRuns = run
		} else {
			tail.next = run
		}
		tail = run
	}
}

// freeBlockCount returns the total number of blocks on the free list.
func (fs *FileSystem) freeBlockCount() uint32 {
	var n uint32
	for cur := fs.freeRuns; cur != nil; cur = cur.next {
		n += cur.count
	}
	return n
}

// freeRunCount returns the number of runs on the free list.
func (fs *FileSystem) freeRunCount() int {
	n := 0
	for cur := fs.freeRuns; cur != nil; cur = cur.next {
		n++
	}
	return n
}
