// Package cas implements the content addressed artifact store.
package cas

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"go.trai.ch/xform/internal/core/domain"
	"go.trai.ch/xform/internal/core/ports"
	"go.trai.ch/zerr"
)

const (
	lockRetryDelay = 50 * time.Millisecond
	tempPattern    = "entry-*.tmp"
)

// Store implements ports.ArtifactStore with one file per key.
//
// Entries live at <root>/entries/<hh>/<sha256(key)>.xfc. Writes go to a temp
// file in the shard directory and are renamed into place, so readers in any
// process see either the previous entry or the complete new one.
type Store struct {
	root string
	log  ports.Logger
}

// NewStore creates a store rooted at root. Directories are created on first write.
func NewStore(root string, log ports.Logger) *Store {
	return &Store{root: root, log: log}
}

// Root returns the store's root directory.
func (s *Store) Root() string {
	return s.root
}

// Get returns the artifact stored for key or computes and stores it.
//
// Unreadable or corrupt entries are logged and recomputed. A nil artifact from
// compute is returned as is and nothing is stored. Write failures are logged and
// the fresh artifact is still returned. A computed artifact is returned in the
// form a later Load decodes, so hits and misses for a key are equal.
func (s *Store) Get(ctx context.Context, key string, compute ports.ComputeFunc) (*domain.Artifact, error) {
	if key == "" {
		return nil, domain.ErrEmptyCacheKey
	}

	artifact, err := s.Load(key)
	switch {
	case err == nil:
		return artifact, nil
	case errors.Is(err, domain.ErrCacheMiss):
	default:
		s.log.Warn(fmt.Sprintf("ignoring unreadable cache entry for %s: %v", key, err))
	}

	artifact, err = compute(ctx)
	if err != nil {
		return nil, err
	}
	if artifact == nil {
		return nil, nil
	}
	if artifact.Metadata == nil {
		artifact.Metadata = domain.Metadata{}
	}

	data, err := encodeEntry(newEntry(key, artifact))
	if err != nil {
		s.log.Warn(domain.NewWriteError(err).Error())
		return artifact, nil
	}
	entry, err := decodeEntry(data)
	if err != nil {
		s.log.Warn(domain.NewWriteError(err).Error())
		return artifact, nil
	}

	if err := s.write(key, data); err != nil {
		s.log.Warn(domain.NewWriteError(err).Error())
	}
	return entry.Artifact, nil
}

// Load reads the artifact stored for key.
// It returns domain.ErrCacheMiss when there is no entry.
func (s *Store) Load(key string) (*domain.Artifact, error) {
	if key == "" {
		return nil, domain.ErrEmptyCacheKey
	}

	path := s.entryPath(key)
	//nolint:gosec // Path is constructed from the store root and a hashed filename
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.ErrCacheMiss
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrStoreReadFailed.Error()), "path", path)
	}

	entry, err := decodeEntry(data)
	if err != nil {
		return nil, zerr.With(err, "path", path)
	}
	if entry.Key != key {
		return nil, zerr.With(domain.ErrCacheKeyMismatch, "stored_key", entry.Key)
	}
	return entry.Artifact, nil
}

// Save writes artifact under key, replacing any previous entry.
func (s *Store) Save(key string, artifact *domain.Artifact) error {
	if key == "" {
		return domain.ErrEmptyCacheKey
	}

	data, err := encodeEntry(newEntry(key, artifact))
	if err != nil {
		return err
	}
	return s.write(key, data)
}

func newEntry(key string, artifact *domain.Artifact) *domain.CacheEntry {
	return &domain.CacheEntry{
		Key:      key,
		StoredAt: time.Now().UTC(),
		Artifact: artifact,
	}
}

// write atomically replaces the entry file for key with data.
func (s *Store) write(key string, data []byte) error {
	path := s.entryPath(key)
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return zerr.Wrap(err, domain.ErrStoreCreateFailed.Error())
	}

	tmpFile, err := os.CreateTemp(dir, tempPattern)
	if err != nil {
		return zerr.Wrap(err, domain.ErrStoreWriteFailed.Error())
	}
	tmpName := tmpFile.Name()

	defer func() {
		if _, err := os.Stat(tmpName); err == nil {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		return zerr.Wrap(err, domain.ErrStoreWriteFailed.Error())
	}
	if err := tmpFile.Sync(); err != nil {
		_ = tmpFile.Close()
		return zerr.Wrap(err, domain.ErrStoreWriteFailed.Error())
	}
	if err := tmpFile.Close(); err != nil {
		return zerr.Wrap(err, domain.ErrStoreWriteFailed.Error())
	}
	if err := os.Chmod(tmpName, domain.FilePerm); err != nil {
		return zerr.Wrap(err, domain.ErrStoreWriteFailed.Error())
	}

	// Clean holds the exclusive lock while it removes entries.
	lock := flock.New(s.lockPath())
	if err := lock.RLock(); err != nil {
		return zerr.Wrap(err, domain.ErrStoreLockFailed.Error())
	}
	defer func() { _ = lock.Close() }()

	if err := os.Rename(tmpName, path); err != nil {
		return zerr.Wrap(err, domain.ErrStoreWriteFailed.Error())
	}
	return nil
}

// Clean removes every entry from the store.
func (s *Store) Clean(ctx context.Context) error {
	unlock, err := s.lockExclusive(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	if err := os.RemoveAll(s.entriesDir()); err != nil {
		return zerr.Wrap(err, domain.ErrStoreCleanFailed.Error())
	}
	return nil
}

// Prune removes entries and stale temp files last written before now-olderThan.
// It returns the number of entries removed.
func (s *Store) Prune(ctx context.Context, olderThan time.Duration) (int, error) {
	unlock, err := s.lockExclusive(ctx)
	if err != nil {
		return 0, err
	}
	defer unlock()

	cutoff := time.Now().Add(-olderThan)
	removed := 0
	err = filepath.WalkDir(s.entriesDir(), func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() {
			return nil
		}
		isEntry := strings.HasSuffix(path, domain.EntryExt)
		if !isEntry && !strings.HasSuffix(path, ".tmp") {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil //nolint:nilerr // Entry vanished while walking
		}
		if !info.ModTime().Before(cutoff) {
			return nil
		}
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		if isEntry {
			removed++
		}
		return nil
	})
	if err != nil {
		return removed, zerr.Wrap(err, domain.ErrStoreCleanFailed.Error())
	}
	return removed, nil
}

func (s *Store) lockExclusive(ctx context.Context) (func(), error) {
	if err := os.MkdirAll(s.root, domain.DirPerm); err != nil {
		return nil, zerr.Wrap(err, domain.ErrStoreCreateFailed.Error())
	}

	lock := flock.New(s.lockPath())
	locked, err := lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrStoreLockFailed.Error())
	}
	if !locked {
		return nil, zerr.With(domain.ErrStoreLockFailed, "path", lock.Path())
	}
	return func() { _ = lock.Close() }, nil
}

func (s *Store) entriesDir() string {
	return filepath.Join(s.root, domain.EntriesDirName)
}

func (s *Store) lockPath() string {
	return filepath.Join(s.root, domain.LockFileName)
}

func (s *Store) entryPath(key string) string {
	hash := sha256.Sum256([]byte(key))
	hexHash := hex.EncodeToString(hash[:])
	return filepath.Join(s.entriesDir(), hexHash[:2], hexHash+domain.EntryExt)
}
