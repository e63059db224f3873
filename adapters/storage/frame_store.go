// Package storage implements the on-disk stores: gzipped JSON frames
// and trained-model artifact directories.
package storage

import (
	"compress/gzip"
	"context"
	"fmt"
	"os"
	"path/filepath"

	json "github.com/goccy/go-json"

	"orion/domain/core"
	"orion/internal/frame"
	"orion/ports"
)

// frameStore writes one gzipped JSON file per dataset under the data
// directory.
type frameStore struct {
	dir string
}

// NewFrameStore creates the data directory if needed.
func NewFrameStore(dir string) (ports.FrameStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data dir %s: %w", dir, err)
	}
	return &frameStore{dir: dir}, nil
}

func (s *frameStore) path(id core.DatasetID) string {
	return filepath.Join(s.dir, id.String()+".json.gz")
}

func (s *frameStore) Save(ctx context.Context, id core.DatasetID, f *frame.Frame) (string, error) {
	path := s.path(id)
	tmp := path + ".tmp"

	file, err := os.Create(tmp)
	if err != nil {
		return "", fmt.Errorf("failed to create frame file: %w", err)
	}
	gz := gzip.NewWriter(file)
	if err := json.NewEncoder(gz).Encode(f); err != nil {
		gz.Close()
		file.Close()
		os.Remove(tmp)
		return "", fmt.Errorf("failed to encode frame: %w", err)
	}
	if err := gz.Close(); err != nil {
		file.Close()
		os.Remove(tmp)
		return "", fmt.Errorf("failed to flush frame: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("failed to close frame file: %w", err)
	}
	// rename keeps readers from ever seeing a half-written frame
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("failed to finalize frame file: %w", err)
	}
	return path, nil
}

func (s *frameStore) Load(ctx context.Context, id core.DatasetID) (*frame.Frame, error) {
	file, err := os.Open(s.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("frame not found for dataset %s", id)
		}
		return nil, fmt.Errorf("failed to open frame file: %w", err)
	}
	defer file.Close()

	gz, err := gzip.NewReader(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read frame file: %w", err)
	}
	defer gz.Close()

	var f frame.Frame
	if err := json.NewDecoder(gz).Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to decode frame: %w", err)
	}
	return &f, nil
}

func (s *frameStore) Delete(ctx context.Context, id core.DatasetID) error {
	if err := os.Remove(s.path(id)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete frame file: %w", err)
	}
	return nil
}
