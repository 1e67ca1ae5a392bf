package cowfs

import (
	"encoding/json"
	"os"
	"time"

	"github.com/taigrr/colorhash"

	"github.com/dendrascience/dendra-cow-fuse/version"
)

type (
	// VersionMetadata is one version log entry as it appears in a
	// metadata dump, enriched with a shard bucket derived from the
	// content hash.
	VersionMetadata struct {
		VersionInfo
		ShardBucket int `json:"shard_bucket"`
	}

	// FileMetadata summarizes one file and its full history.
	FileMetadata struct {
		Name         string            `json:"name"`
		Size         int64             `json:"size"`
		VersionCount int               `json:"version_count"`
		FirstBlock   uint32            `json:"first_block"`
		Versions     []VersionMetadata `json:"versions"`
	}

	// Metadata is a point-in-time snapshot of the whole image, meant
	// for diagnostics and external tooling.
	Metadata struct {
		Label        string         `json:"label"`
		GeneratedAt  string         `json:"generated_at"`
		CowFSVersion string         `json:"cowfs_version"`
		DiskPath     string         `json:"disk_path"`
		DiskSize     int64          `json:"disk_size"`
		BlockSize    int            `json:"block_size"`
		TotalBlocks  int            `json:"total_blocks"`
		UsedBlocks   int            `json:"used_blocks"`
		FreeBlocks   int            `json:"free_blocks"`
		FreeRuns     int            `json:"free_runs"`
		MemoryUsage  int64          `json:"memory_usage"`
		Files        []FileMetadata `json:"files"`
	}
)

// shardBuckets is the modulus for the content-hash shard hint, matching
// the archive bucketing used across dendra tooling.
const shardBuckets = 1000

// shardBucketFor maps a content hash to its shard bucket.
func shardBucketFor(hash string) int {
	return colorhash.HashString(hash) % shardBuckets
}

// Snapshot captures the current state of the image under a caller-chosen
// label.
func (fs *FileSystem) Snapshot(label string) Metadata {
	m := Metadata{
		Label:        label,
		GeneratedAt:  time.Now().Format(TimestampFormat),
		CowFSVersion: version.GetVersion(),
		DiskPath:     fs.diskPath,
		DiskSize:     fs.diskSize,
		BlockSize:    BlockSize,
		TotalBlocks:  int(fs.totalBlocks),
		FreeBlocks:   int(fs.freeBlockCount()),
		FreeRuns:     fs.freeRunCount(),
		MemoryUsage:  fs.TotalMemoryUsage(),
	}
	m.UsedBlocks = m.TotalBlocks - m.FreeBlocks

	for i := range fs.inodes {
		ino := &fs.inodes[i]
		if !ino.InUse {
			continue
		}
		fm := FileMetadata{
			Name:         ino.Name,
			Size:         ino.Size,
			VersionCount: ino.VersionCount,
			FirstBlock:   ino.FirstBlock,
			Versions:     make([]VersionMetadata, 0, len(ino.Versions)),
		}
		for _, v := range ino.Versions {
			fm.Versions = append(fm.Versions, VersionMetadata{
				VersionInfo: v,
				ShardBucket: shardBucketFor(v.ContentHash),
			})
		}
		m.Files = append(m.Files, fm)
	}
	return m
}

// Save writes the snapshot as JSON to path.
func (m Metadata) Save(path string) error {
	return WriteJSONFile(path, m)
}

// WriteJSONFile writes any value as JSON to the specified file path.
// It creates the file and encodes the value using the standard JSON encoder.
func WriteJSONFile(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(v)
}
