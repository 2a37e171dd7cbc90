// Package stores contains the filesystem-backed implementations of the core
// store contracts: the category-directory item store and the daily-file
// audit log.
package stores

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"syscall"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"

	"github.com/colonyops/vaultflow/internal/core/vault"
)

// FSStore implements vault.Store over category directories rooted at a
// single vault path. Documents are matched against a glob pattern
// (typically "*.md") applied to filenames only; subdirectories are skipped.
type FSStore struct {
	root   string
	glob   string
	logger zerolog.Logger
}

var _ vault.Store = (*FSStore)(nil)

// NewFSStore creates a store for the given vault root and document glob.
func NewFSStore(root, glob string, logger zerolog.Logger) *FSStore {
	return &FSStore{
		root:   root,
		glob:   glob,
		logger: logger.With().Str("component", "fsstore").Logger(),
	}
}

// List returns the document files directly inside the category's directory.
// A missing directory is an empty category, not an error.
func (s *FSStore) List(ctx context.Context, category vault.Category) ([]vault.ItemMeta, error) {
	dir := category.Dir(s.root)

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read category dir %s: %w", dir, err)
	}

	items := make([]vault.ItemMeta, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ok, err := doublestar.Match(s.glob, entry.Name())
		if err != nil {
			return nil, fmt.Errorf("match %q against %q: %w", entry.Name(), s.glob, err)
		}
		if !ok {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			// File disappeared between ReadDir and Stat; skip it.
			s.logger.Debug().Err(err).Str("file", entry.Name()).Msg("stat failed during list")
			continue
		}

		items = append(items, vault.ItemMeta{
			Filename: entry.Name(),
			Path:     filepath.Join(dir, entry.Name()),
			Category: category,
			Modified: info.ModTime(),
			Size:     info.Size(),
		})
	}

	return items, nil
}

// Read returns the raw content of the item at path.
func (s *FSStore) Read(ctx context.Context, path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("read %s: %w", path, vault.ErrNotFound)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

// Move relocates the file at path into the destination category directory.
// The rename is the serialization point: of two concurrent moves of the same
// source, exactly one succeeds and the other observes ErrNotFound.
func (s *FSStore) Move(ctx context.Context, path string, dest vault.Category) (vault.ItemMeta, error) {
	destDir := dest.Dir(s.root)
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return vault.ItemMeta{}, fmt.Errorf("create destination dir %s: %w", destDir, err)
	}

	destPath := filepath.Join(destDir, filepath.Base(path))
	if _, err := os.Lstat(destPath); err == nil {
		return vault.ItemMeta{}, fmt.Errorf("move to %s: %w", destPath, vault.ErrAlreadyExists)
	}

	if err := os.Rename(path, destPath); err != nil {
		if os.IsNotExist(err) {
			return vault.ItemMeta{}, fmt.Errorf("move %s: %w", path, vault.ErrNotFound)
		}
		if errors.Is(err, syscall.EXDEV) {
			// Destination sits on another filesystem; rename cannot be
			// atomic there, so fall back to copy-verify-delete.
			if err := s.copyAcrossDevices(path, destPath); err != nil {
				return vault.ItemMeta{}, err
			}
		} else {
			return vault.ItemMeta{}, fmt.Errorf("move %s to %s: %w", path, destPath, err)
		}
	}

	info, err := os.Stat(destPath)
	if err != nil {
		return vault.ItemMeta{}, fmt.Errorf("stat moved item %s: %w", destPath, err)
	}

	s.logger.Debug().Str("from", path).Str("to", destPath).Msg("moved item")

	return vault.ItemMeta{
		Filename: info.Name(),
		Path:     destPath,
		Category: dest,
		Modified: info.ModTime(),
		Size:     info.Size(),
	}, nil
}

// copyAcrossDevices copies src to dst, verifies the copied size, and only
// then removes the source. The destination is created exclusively so a
// concurrent mover cannot interleave a partial copy.
func (s *FSStore) copyAcrossDevices(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("copy %s: %w", src, vault.ErrNotFound)
		}
		return fmt.Errorf("copy %s: %w", src, err)
	}
	defer in.Close()

	srcInfo, err := in.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", src, err)
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return fmt.Errorf("copy to %s: %w", dst, vault.ErrAlreadyExists)
		}
		return fmt.Errorf("create %s: %w", dst, err)
	}

	written, err := io.Copy(out, in)
	if err == nil {
		err = out.Sync()
	}
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err == nil && written != srcInfo.Size() {
		err = fmt.Errorf("short copy: wrote %d of %d bytes", written, srcInfo.Size())
	}
	if err != nil {
		_ = os.Remove(dst)
		return fmt.Errorf("copy %s to %s: %w", src, dst, err)
	}

	if err := os.Remove(src); err != nil {
		return fmt.Errorf("remove source %s after copy: %w", src, err)
	}
	return nil
}
