package cowfs

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"
)

func TestImageRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "round.img")

	fs, err := New(path, 1<<20)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	fd, _ := fs.Create("notes")
	fs.Write(fd, []byte("draft"))
	fs.Write(fd, []byte("draft, revised"))
	big, _ := fs.Create("big")
	payload := make([]byte, 2*BlockSize+11)
	for i := range payload {
		payload[i] = byte(i % 7)
	}
	fs.Write(big, payload)
	if err := fs.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened, err := New(path, 1<<20)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}

	names := reopened.ListFiles()
	if len(names) != 2 || names[0] != "notes" || names[1] != "big" {
		t.Fatalf("reopened files = %v, want [notes big]", names)
	}

	rfd, err := reopened.Open("notes", ModeRead)
	if err != nil {
		t.Fatalf("Open after reopen failed: %v", err)
	}
	buf := make([]byte, 64)
	n, err := reopened.Read(rfd, buf)
	if err != nil || string(buf[:n]) != "draft, revised" {
		t.Errorf("content after reopen = (%q, %v)", buf[:n], err)
	}

	versions, _ := reopened.VersionHistory(rfd)
	if len(versions) != 2 || versions[1].DeltaStart != 5 {
		t.Errorf("version history lost in round trip: %+v", versions)
	}

	bfd, _ := reopened.Open("big", ModeRead)
	got := make([]byte, len(payload))
	read := 0
	for read < len(payload) {
		n, err := reopened.Read(bfd, got[read:])
		if err != nil || n == 0 {
			t.Fatalf("multi-block read after reopen stalled at %d: %v", read, err)
		}
		read += n
	}
	if !bytes.Equal(got, payload) {
		t.Error("multi-block content corrupted by round trip")
	}

	// Rollback across a reopen still works: references survived the
	// round trip.
	if err := reopened.RollbackToVersion(rfd, 1); err != nil {
		t.Errorf("rollback after reopen failed: %v", err)
	}
	n, err = reopened.Read(rfd, buf)
	if err != nil || string(buf[:n]) != "draft" {
		t.Errorf("content after rollback = (%q, %v), want \"draft\"", buf[:n], err)
	}
}

func TestReopenRebuildsFreeList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "free.img")

	fs, _ := New(path, 1<<20)
	fd, _ := fs.Create("a")
	fs.Write(fd, []byte("x"))
	usedBefore := fs.TotalMemoryUsage()
	freeBefore := fs.freeBlockCount()
	fs.Close()

	reopened, err := New(path, 1<<20)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	if got := reopened.freeBlockCount(); got != freeBefore {
		t.Errorf("free blocks after reopen = %d, want %d", got, freeBefore)
	}
	if got := reopened.TotalMemoryUsage(); got != usedBefore {
		t.Errorf("memory usage after reopen = %d, want %d", got, usedBefore)
	}
	if problems := reopened.Verify(); len(problems) != 0 {
		t.Errorf("invariants violated after reopen: %v", problems)
	}
}

func TestOpenRejectsGeometryMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "geom.img")
	fs, _ := New(path, 1<<20)
	fs.Close()

	if _, err := New(path, 1<<19); !errors.Is(err, ErrCorruptImage) {
		t.Errorf("reopen with half capacity returned %v, want ErrCorruptImage", err)
	}
}

func TestOpenRejectsTinyCapacity(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tiny.img")
	if _, err := New(path, BlockSize-1); !errors.Is(err, ErrCorruptImage) {
		t.Errorf("New with sub-block capacity returned %v, want ErrCorruptImage", err)
	}
}
