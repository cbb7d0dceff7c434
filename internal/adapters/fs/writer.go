package fs

import (
	"os"
	"path/filepath"

	"go.trai.ch/xform/internal/core/domain"
	"go.trai.ch/zerr"
)

// Writer writes transformed files below an output directory.
type Writer struct {
	outDir string
}

// NewWriter creates a Writer rooted at outDir.
func NewWriter(outDir string) *Writer {
	return &Writer{outDir: outDir}
}

// Write stores data at rel below the output directory, replacing the file
// through a rename so readers never observe a partial write.
func (w *Writer) Write(rel string, data []byte) (string, error) {
	path := filepath.Join(w.outDir, filepath.FromSlash(rel))
	dir := filepath.Dir(path)

	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrOutputWriteFailed.Error()), "path", path)
	}

	tmp, err := os.CreateTemp(dir, ".xform-out-*")
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrOutputWriteFailed.Error()), "path", path)
	}
	tmpName := tmp.Name()
	defer func() {
		if _, err := os.Stat(tmpName); err == nil {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return "", zerr.With(zerr.Wrap(err, domain.ErrOutputWriteFailed.Error()), "path", path)
	}
	if err := tmp.Close(); err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrOutputWriteFailed.Error()), "path", path)
	}
	if err := os.Chmod(tmpName, domain.FilePerm); err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrOutputWriteFailed.Error()), "path", path)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrOutputWriteFailed.Error()), "path", path)
	}
	return path, nil
}
