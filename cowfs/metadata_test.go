package cowfs

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestSnapshotCounts(t *testing.T) {
	fs := newTestFS(t)
	fd, _ := fs.Create("a")
	fs.Write(fd, []byte("one"))
	fs.Write(fd, []byte("two"))
	b, _ := fs.Create("b")
	fs.Write(b, []byte("other"))

	m := fs.Snapshot("pre-release")

	if m.Label != "pre-release" {
		t.Errorf("label = %q, want %q", m.Label, "pre-release")
	}
	if m.TotalBlocks != 256 || m.BlockSize != BlockSize {
		t.Errorf("geometry = %d blocks of %d, want 256 of %d", m.TotalBlocks, m.BlockSize, BlockSize)
	}
	if m.UsedBlocks != 3 || m.FreeBlocks != 253 {
		t.Errorf("usage = %d used / %d free, want 3 / 253", m.UsedBlocks, m.FreeBlocks)
	}
	if m.MemoryUsage != 3*BlockSize {
		t.Errorf("memory usage = %d, want %d", m.MemoryUsage, 3*BlockSize)
	}
	if len(m.Files) != 2 {
		t.Fatalf("snapshot holds %d files, want 2", len(m.Files))
	}
	if m.Files[0].Name != "a" || m.Files[0].VersionCount != 2 {
		t.Errorf("first file = %s with %d versions, want a with 2", m.Files[0].Name, m.Files[0].VersionCount)
	}
}

func TestSnapshotShardBucketsAreStable(t *testing.T) {
	fs := newTestFS(t)
	fd, _ := fs.Create("a")
	fs.Write(fd, []byte("payload"))

	first := fs.Snapshot("")
	second := fs.Snapshot("")

	bucket := first.Files[0].Versions[0].ShardBucket
	if bucket < 0 || bucket >= shardBuckets {
		t.Errorf("shard bucket %d outside [0,%d)", bucket, shardBuckets)
	}
	if second.Files[0].Versions[0].ShardBucket != bucket {
		t.Error("shard bucket not stable across snapshots of the same content")
	}
}

func TestMetadataSave(t *testing.T) {
	fs := newTestFS(t)
	fd, _ := fs.Create("a")
	fs.Write(fd, []byte("content"))

	path := filepath.Join(t.TempDir(), "snapshot.json")
	if err := fs.Snapshot("dump").Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading snapshot failed: %v", err)
	}
	var m Metadata
	if err := json.Unmarshal(raw, &m); err != nil {
		t.Fatalf("snapshot is not valid JSON: %v", err)
	}
	if m.Label != "dump" || len(m.Files) != 1 {
		t.Errorf("decoded snapshot = label %q with %d files", m.Label, len(m.Files))
	}
	if m.Files[0].Versions[0].ContentHash != HashBytes([]byte("content")) {
		t.Error("content hash lost in JSON round trip")
	}
}
