package domain

import "go.trai.ch/zerr"

var (
	// ErrEmptyCacheKey is returned when a transform is requested without a cache key.
	ErrEmptyCacheKey = zerr.New("cache key must not be empty")

	// ErrCacheMiss is returned when a requested entry is not present in the store.
	ErrCacheMiss = zerr.New("cache miss")

	// ErrCacheCorrupt is returned when a stored entry cannot be decoded.
	// It never leaves the store: a corrupt entry is treated as a miss.
	ErrCacheCorrupt = zerr.New("cache entry is corrupt")

	// ErrCacheKeyMismatch is returned when a stored entry was recorded for a different key.
	ErrCacheKeyMismatch = zerr.New("cache entry belongs to a different key")

	// ErrStoreCreateFailed is returned when the store directory cannot be created.
	ErrStoreCreateFailed = zerr.New("failed to create cache store directory")

	// ErrStoreReadFailed is returned when an entry cannot be read.
	ErrStoreReadFailed = zerr.New("failed to read cache entry")

	// ErrStoreMarshalFailed is returned when an artifact cannot be serialized.
	ErrStoreMarshalFailed = zerr.New("failed to marshal cache entry")

	// ErrStoreWriteFailed is returned when an entry cannot be written.
	ErrStoreWriteFailed = zerr.New("failed to write cache entry")

	// ErrStoreLockFailed is returned when the store lock cannot be acquired.
	ErrStoreLockFailed = zerr.New("failed to lock cache store")

	// ErrStoreCleanFailed is returned when entries cannot be removed.
	ErrStoreCleanFailed = zerr.New("failed to clean cache store")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrConfigNotFound is returned when no config file exists between cwd and the filesystem root.
	ErrConfigNotFound = zerr.New("could not find xform.yaml")

	// ErrInvalidConfig is returned when a config file parses but holds invalid values.
	ErrInvalidConfig = zerr.New("invalid configuration")

	// ErrConfigResolutionFailed is returned when a configuration identity cannot be expanded.
	ErrConfigResolutionFailed = zerr.New("failed to resolve transform configuration")

	// ErrUnknownPreset is returned when a configuration extends a preset that does not exist.
	ErrUnknownPreset = zerr.New("unknown preset")

	// ErrPresetCycle is returned when presets extend each other in a cycle.
	ErrPresetCycle = zerr.New("preset cycle detected")

	// ErrInvalidTransformMode is returned when a transform rule yields something other than none, spec or all.
	ErrInvalidTransformMode = zerr.New("unexpected transform mode, expected 'spec' | 'all' | 'none'")

	// ErrUnknownCompiler is returned when the configured compiler kind is not supported.
	ErrUnknownCompiler = zerr.New("unknown compiler")

	// ErrCompileFailed is returned when the compiler fails for reasons other than invalid input.
	ErrCompileFailed = zerr.New("compiler failed")

	// ErrCompilerProtocol is returned when an external compiler answers with malformed output.
	ErrCompilerProtocol = zerr.New("malformed compiler response")

	// ErrFileOpenFailed is returned when a source file cannot be opened.
	ErrFileOpenFailed = zerr.New("failed to open file")

	// ErrFileHashFailed is returned when hashing a file fails.
	ErrFileHashFailed = zerr.New("failed to hash file content")

	// ErrOutputWriteFailed is returned when a transformed file cannot be written.
	ErrOutputWriteFailed = zerr.New("failed to write output file")

	// ErrTransformFailed is returned when at least one file of a run could not be transformed.
	ErrTransformFailed = zerr.New("transformation failed")

	// ErrNoInputs is returned when the transform command receives no paths.
	ErrNoInputs = zerr.New("no input files specified")
)
