// Package filestore places uploaded files under a content-addressed
// name: <md5-hex>.<ext>. Identical bytes land on the same final path, so
// a Put of already-stored content discards its source instead of
// duplicating storage.
package filestore

import (
	"fmt"
	"os"
	"path/filepath"
)

type Store struct {
	root string
}

// New creates the store root if absent.
func New(root string) (*Store, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create store root %s: %w", root, err)
	}
	return &Store{root: root}, nil
}

func (s *Store) Root() string { return s.root }

func (s *Store) path(hash, ext string) string {
	return filepath.Join(s.root, hash+"."+ext)
}

func (s *Store) Exists(hash, ext string) bool {
	_, err := os.Stat(s.path(hash, ext))
	return err == nil
}

// Put moves srcPath into place under the content-addressed name. If the
// final file already exists the source is removed and the existing file
// reused. Either way srcPath is gone afterwards.
func (s *Store) Put(hash, ext, srcPath string) (string, error) {
	final := s.path(hash, ext)
	if s.Exists(hash, ext) {
		if err := os.Remove(srcPath); err != nil {
			return "", fmt.Errorf("discard duplicate upload: %w", err)
		}
		return final, nil
	}
	if err := os.Rename(srcPath, final); err != nil {
		return "", fmt.Errorf("place %s: %w", final, err)
	}
	return final, nil
}
