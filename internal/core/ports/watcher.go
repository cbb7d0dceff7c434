package ports

import (
	"context"
	"iter"
)

// WatchOp describes what happened to a watched path.
type WatchOp int

const (
	// OpCreate indicates a file or directory was created.
	OpCreate WatchOp = iota
	// OpWrite indicates a file was modified.
	OpWrite
	// OpRemove indicates a file or directory was removed.
	OpRemove
	// OpRename indicates a file or directory was renamed.
	OpRename
)

// WatchEvent is a single file system change.
type WatchEvent struct {
	Path      string
	Operation WatchOp
}

// Watcher reports changes below a directory tree.
type Watcher interface {
	// Start watches root recursively. Directories in ignore, given as absolute
	// paths, are never watched. Events stop when ctx is done or Stop is called.
	Start(ctx context.Context, root string, ignore []string) error
	// Stop releases the watcher.
	Stop() error
	// Events yields changes until the watcher stops.
	Events() iter.Seq[WatchEvent]
}

// WatcherFactory creates watchers. A watcher is used for one session only.
type WatcherFactory interface {
	NewWatcher() Watcher
}
