// Package cowfuse exposes a cowfs image as a FUSE filesystem.
//
// The mount presents the image's flat namespace as a single directory.
// Reads go straight to the current version of each file; writes are
// buffered per open file and committed as one copy-on-write version on
// flush, so an editor save records at most one version in the image. A
// save whose content equals, or is a prefix of, the current version
// records none.
//
// The cowfs engine is single-threaded. The adapter owns the one lock that
// serializes all engine calls, which is the external serialization the
// engine's contract requires.
//
// Deletion and directory creation return EPERM: the image format keeps
// every file for its whole life and has no hierarchy.
package cowfuse
