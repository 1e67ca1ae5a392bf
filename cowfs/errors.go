package cowfs

import "errors"

// Sentinel errors for package cowfs.
// These errors can be checked with errors.Is() for specific error handling.
var (
	// Handle errors
	ErrInvalidHandle = errors.New("file descriptor out of range or closed")
	ErrMissingInode  = errors.New("handle references an unused inode slot")
	ErrNotWritable   = errors.New("file not opened for writing")

	// Name errors
	ErrNotFound      = errors.New("file not found")
	ErrAlreadyExists = errors.New("file already exists")
	ErrNameTooLong   = errors.New("filename too long")

	// Resource exhaustion
	ErrNoFreeInode  = errors.New("no free inodes available")
	ErrNoFreeHandle = errors.New("no free file descriptors available")
	ErrOutOfSpace   = errors.New("no free blocks available")

	// Consistency errors
	ErrCorruptChain      = errors.New("block chain is corrupt")
	ErrCorruptImage      = errors.New("image file does not match expected geometry")
	ErrVersionOutOfRange = errors.New("version number does not exist")
)
