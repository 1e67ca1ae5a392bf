// Package main provides the cowfs command-line interface.
//
// cowfs is a user-space, single-file copy-on-write filesystem that keeps
// full per-write version history. Files live inside one flat image file as
// reference-counted chains of fixed-size blocks; every write produces a
// new immutable version with its own chain, except a write whose content
// equals, or is a prefix of, the current version, which stores nothing.
//
// The main binary supports multiple subcommands:
//   - mount: Mount an image as a FUSE filesystem
//   - create: Create a new image or empty files inside one
//   - ls, history, info: Inspect files, version logs, and image metadata
//   - verify: Check an image's structural invariants
//   - gc: Sweep unreferenced blocks back onto the free list
//   - seed: Generate a versioned write workload for testing
package main
