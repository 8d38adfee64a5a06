package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// FileAdapter keeps each collection in <dir>/<collection>.json.
type FileAdapter struct {
	*collections
	dir string
}

func NewFileAdapter(dir string, logger zerolog.Logger) *FileAdapter {
	a := &FileAdapter{dir: dir}
	a.collections = &collections{
		blobs:  a,
		logger: logger.With().Str("component", "file_store").Str("dir", dir).Logger(),
	}
	return a
}

func (a *FileAdapter) path(name string) string {
	return filepath.Join(a.dir, name+".json")
}

func (a *FileAdapter) read(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(a.path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

// write replaces the file through a rename so a failed write leaves the
// previous version in place.
func (a *FileAdapter) write(ctx context.Context, name string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(a.dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	tmp, err := os.CreateTemp(a.dir, name+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), a.path(name)); err != nil {
		return fmt.Errorf("replace %s: %w", a.path(name), err)
	}
	return nil
}
