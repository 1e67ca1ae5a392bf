// Package cowfs implements a user-space, single-file filesystem image that
// stores small files with full per-write version history using a
// copy-on-write block layout.
//
// Every write produces a new immutable version of a file unless its content
// equals, or is a prefix of, the current version; prior versions stay
// readable until they are rolled back. Each recorded version holds its own
// chain of reference-counted blocks; a write that records no version
// allocates no blocks.
//
// Key Components:
//
// Storage Layout:
//   - Fixed inode table (MaxFiles slots) with per-file version logs
//   - Fixed block array, files as singly-linked chains of 4 KiB blocks
//   - Flat namespace, no directories
//
// Free-Space Management:
//   - Address-ordered list of free runs with best-fit allocation
//   - Coalescing on insert, eager return of unreferenced blocks
//
// Versioning:
//   - Delta detection decides whether a write is a no-op
//   - Full content stored per version; the delta window is informational
//   - Rollback truncates the log and releases discarded references
//   - Defensive mark/sweep garbage collection
//
// Persistence:
//   - The whole image loads on open and rewrites on close
//   - Inode table encoded as deterministic CBOR, block array packed binary
//   - SHA-256 content hash recorded per version for diagnostics
//
// The main entry point is New() which opens or initializes an image file.
// The engine is single-threaded; callers that need concurrency (such as
// the cowfuse adapter) must serialize access externally.
package cowfs
