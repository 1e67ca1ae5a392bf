package cowfs

import "testing"

func TestGarbageCollectIsNoOpOnConsistentImage(t *testing.T) {
	fs := newTestFS(t)
	fd, _ := fs.Create("a")
	fs.Write(fd, []byte("one"))
	fs.Write(fd, []byte("two"))

	usage := fs.TotalMemoryUsage()
	free := fs.freeBlockCount()

	fs.GarbageCollect()

	if got := fs.TotalMemoryUsage(); got != usage {
		t.Errorf("memory usage changed: %d -> %d", usage, got)
	}
	if got := fs.freeBlockCount(); got != free {
		t.Errorf("free block count changed: %d -> %d", free, got)
	}
	if problems := fs.Verify(); len(problems) != 0 {
		t.Errorf("invariants violated after GC: %v", problems)
	}
}

func TestGarbageCollectReclaimsDormantBlocks(t *testing.T) {
	fs := newTestFS(t)
	fd, _ := fs.Create("a")
	fs.Write(fd, []byte("keep"))

	// Fake a dormant block: in use, referenced by nothing. This is the
	// state allocateBlock leaves a block in until references are taken.
	index, err := fs.allocateBlock()
	if err != nil {
		t.Fatalf("allocateBlock failed: %v", err)
	}
	free := fs.freeBlockCount()

	fs.GarbageCollect()

	if fs.blocks[index].InUse {
		t.Error("dormant block still in use after GC")
	}
	if got := fs.freeBlockCount(); got != free+1 {
		t.Errorf("free blocks after GC = %d, want %d", got, free+1)
	}
	if problems := fs.Verify(); len(problems) != 0 {
		t.Errorf("invariants violated after GC: %v", problems)
	}

	// The survivor is untouched.
	rfd, _ := fs.Open("a", ModeRead)
	buf := make([]byte, 8)
	n, err := fs.Read(rfd, buf)
	if err != nil || string(buf[:n]) != "keep" {
		t.Errorf("surviving content = (%q, %v), want \"keep\"", buf[:n], err)
	}
}

func TestGarbageCollectPreservesHistoricalVersions(t *testing.T) {
	fs := newTestFS(t)
	fd, _ := fs.Create("a")
	fs.Write(fd, []byte("version one"))
	fs.Write(fd, []byte("version two"))

	fs.GarbageCollect()

	// Both version chains survive: the historical one is still
	// reachable through the version log.
	if usage := fs.TotalMemoryUsage(); usage != 2*BlockSize {
		t.Errorf("memory usage after GC = %d, want %d", usage, 2*BlockSize)
	}
	if err := fs.RollbackToVersion(fd, 1); err != nil {
		t.Fatalf("rollback after GC failed: %v", err)
	}
	rfd, _ := fs.Open("a", ModeRead)
	buf := make([]byte, 32)
	n, _ := fs.Read(rfd, buf)
	if string(buf[:n]) != "version one" {
		t.Errorf("historical content after GC = %q, want \"version one\"", buf[:n])
	}
}
