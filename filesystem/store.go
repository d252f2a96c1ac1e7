// Package filesystem provides the on-disk blob store. Each blob is named by
// a random identifier unrelated to the logical file name, which keeps
// user-supplied names out of filesystem paths entirely.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"github.com/anverma/filecab"
)

// Store writes and reads raw file bytes under a sandboxed root directory.
type Store struct {
	root *os.Root
}

// NewStore creates a Store over the given root. The root provides sandboxed
// file operations preventing path traversal.
func NewStore(root *os.Root) *Store {
	return &Store{root: root}
}

// Open ensures dir exists and returns a Store rooted at it. Creating an
// existing directory is a no-op.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create blob root: %w", err)
	}

	root, err := os.OpenRoot(dir)
	if err != nil {
		return nil, fmt.Errorf("open blob root: %w", err)
	}

	return NewStore(root), nil
}

// Write stores content under a fresh random blob id and returns the id.
// The write goes to a temp file first and is renamed into place, so a
// concurrent reader never observes a partial blob.
func (s *Store) Write(ctx context.Context, content []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	blobID := uuid.New().String()
	tmpName := ".t" + blobID

	t, err := s.root.Create(tmpName)
	if err != nil {
		return "", fmt.Errorf("create temp blob: %w", err)
	}

	success := false
	defer func() {
		if closeErr := t.Close(); closeErr != nil {
			slog.Warn("failed to close temp blob", "err", closeErr)
		}
		if !success {
			if rmErr := s.root.Remove(tmpName); rmErr != nil {
				slog.Warn("failed to remove temp blob", "err", rmErr)
			}
		}
	}()

	if _, err := t.Write(content); err != nil {
		return "", fmt.Errorf("write blob: %w", err)
	}

	if err := t.Sync(); err != nil {
		return "", fmt.Errorf("sync blob: %w", err)
	}

	if err := s.root.Rename(tmpName, blobID); err != nil {
		return "", fmt.Errorf("rename blob: %w", err)
	}

	success = true
	return blobID, nil
}

// Read returns the bytes of the blob with the given id. A missing blob,
// including one externally deleted after upload, is filecab.ErrNotFound.
func (s *Store) Read(ctx context.Context, blobID string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := s.root.Open(blobID)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read blob: %w", filecab.ErrNotFound)
		}
		return nil, fmt.Errorf("read blob: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			slog.Warn("failed to close blob", "blobId", blobID, "err", closeErr)
		}
	}()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read blob: %w", err)
	}

	return data, nil
}
