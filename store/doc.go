// Package store implements the durable job store: a single JSON file shared
// by every queuectl process, guarded by an advisory file lock.
//
// Every mutating operation is one transaction: acquire the lock, load the
// full snapshot, mutate it, persist via write-to-temp-then-atomic-rename,
// release the lock. Because the rename is atomic and readers open the path
// fresh, another process observes either the fully pre- or fully
// post-transaction state, never a mix. Read-only operations skip the
// exclusive lock and just read the current file.
//
// The lock lives on a sibling "<file>.lock" path rather than the data file
// itself: the data file's inode is replaced on every commit, which would
// silently detach any lock held on it.
package store
