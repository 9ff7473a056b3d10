// Package storage provides the on-disk photo store. Filenames are
// generated server-side, but Base is applied anyway so a stored name can
// never escape the upload directory.
package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrInvalidFilename is returned when a filename would resolve outside
// the upload directory.
var ErrInvalidFilename = errors.New("invalid filename")

// DiskStore stores uploaded files under a single directory
type DiskStore struct {
	dir string
}

// NewDiskStore creates the upload directory if needed and returns a store
func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating upload directory: %w", err)
	}
	return &DiskStore{dir: dir}, nil
}

// Save writes a file into the upload directory
func (s *DiskStore) Save(filename string, data []byte) error {
	path, err := s.resolve(filename)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Open reads a stored file
func (s *DiskStore) Open(filename string) ([]byte, error) {
	path, err := s.resolve(filename)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(path)
}

// Remove deletes a stored file. Removing a missing file is not an error.
func (s *DiskStore) Remove(filename string) error {
	path, err := s.resolve(filename)
	if err != nil {
		return err
	}
	err = os.Remove(path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (s *DiskStore) resolve(filename string) (string, error) {
	if filename == "" || filename != filepath.Base(filename) {
		return "", ErrInvalidFilename
	}
	return filepath.Join(s.dir, filename), nil
}
