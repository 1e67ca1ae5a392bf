package cowfs

import (
	"encoding/binary"
	"fmt"
	"os"

	"github.com/fxamacker/cbor/v2"
)

// Image layout: a length-prefixed CBOR encoding of the inode table,
// followed by the packed block array. Both sections are loaded whole on
// open and rewritten whole on close. Images written with a different
// (BlockSize, MaxFiles, disk size) tuple are rejected on load.

// blockRecordSize is the packed on-image size of one block: the in-use
// flag, the chain link, the reference count, and the payload.
const blockRecordSize = 1 + 4 + 4 + BlockSize

// encMode is the CBOR encoder configured with Core Deterministic
// Encoding: sorted map keys, smallest integer encoding. The same inode
// table always produces identical bytes.
var encMode cbor.EncMode

var decMode cbor.DecMode

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("cowfs: CBOR encoder initialization failed: " + err.Error())
	}
	decMode, err = cbor.DecOptions{}.DecMode()
	if err != nil {
		panic("cowfs: CBOR decoder initialization failed: " + err.Error())
	}
}

// loadImage reads the image file into the in-memory tables. It reports
// false without error when the file does not exist yet.
func (fs *FileSystem) loadImage() (bool, error) {
	raw, err := os.ReadFile(fs.diskPath)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if len(raw) < 8 {
		return false, fmt.Errorf("%w: truncated inode section", ErrCorruptImage)
	}
	inodeLen := binary.LittleEndian.Uint64(raw)
	rest := raw[8:]
	if uint64(len(rest)) < inodeLen {
		return false, fmt.Errorf("%w: truncated inode section", ErrCorruptImage)
	}

	var inodes []Inode
	if err := decMode.Unmarshal(rest[:inodeLen], &inodes); err != nil {
		return false, fmt.Errorf("decoding inode table: %w", err)
	}
	if len(inodes) != MaxFiles {
		return false, fmt.Errorf("%w: inode table holds %d slots, want %d",
			ErrCorruptImage, len(inodes), MaxFiles)
	}

	blockSection := rest[inodeLen:]
	if len(blockSection) != int(fs.totalBlocks)*blockRecordSize {
		return false, fmt.Errorf("%w: block array holds %d bytes, want %d",
			ErrCorruptImage, len(blockSection), int(fs.totalBlocks)*blockRecordSize)
	}

	copy(fs.inodes, inodes)
	for i := range fs.blocks {
		record := blockSection[i*blockRecordSize:]
		b := &fs.blocks[i]
		b.InUse = record[0] != 0
		b.Next = binary.LittleEndian.Uint32(record[1:])
		b.RefCount = binary.LittleEndian.Uint32(record[5:])
		copy(b.Data[:], record[9:blockRecordSize])
	}
	return true, nil
}

// writeImage rewrites the image file in full, going through a temp file
// and a rename so a crash mid-write leaves the previous image intact.
func (fs *FileSystem) writeImage() error {
	inodeSection, err := encMode.Marshal(fs.inodes)
	if err != nil {
		return fmt.Errorf("encoding inode table: %w", err)
	}

	out := make([]byte, 0, 8+len(inodeSection)+int(fs.totalBlocks)*blockRecordSize)
	out = binary.LittleEndian.AppendUint64(out, uint64(len(inodeSection)))
	out = append(out, inodeSection...)

	record := make([]byte, blockRecordSize)
	for i := range fs.blocks {
		b := &fs.blocks[i]
		if b.InUse {
			record[0] = 1
		} else {
			record[0] = 0
		}
		binary.LittleEndian.PutUint32(record[1:], b.Next)
		binary.LittleEndian.PutUint32(record[5:], b.RefCount)
		copy(record[9:], b.Data[:])
		out = append(out, record...)
	}

	tmp := fs.diskPath + ".tmp"
	if err := os.WriteFile(tmp, out, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, fs.diskPath)
}
