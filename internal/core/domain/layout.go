package domain

import "path/filepath"

const (
	// ConfigFileName is the name of the project configuration file.
	ConfigFileName = "xform.yaml"

	// DependencyDirName is the directory under which the cache lives by default.
	DependencyDirName = "node_modules"

	// CacheDirName is the name of the transform cache directory.
	CacheDirName = ".xform-cache"

	// EntriesDirName is the directory holding the sharded cache entries.
	EntriesDirName = "entries"

	// LockFileName is the name of the store lock file.
	LockFileName = ".lock"

	// EntryExt is the file extension of a cache entry.
	EntryExt = ".xfc"

	// CacheDirEnv overrides the cache directory when set.
	CacheDirEnv = "XFORM_CACHE_DIR"

	// SourceDirName is the directory whose files are fully transformed by default.
	SourceDirName = "src"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// DefaultCachePath returns the default cache root for a working directory.
// It joins node_modules and .xform-cache.
func DefaultCachePath(cwd string) string {
	return filepath.Join(cwd, DependencyDirName, CacheDirName)
}
