package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

type FileStorage interface {
	Save(path string, data io.Reader) error
	Get(path string) (io.ReadCloser, error)
	Delete(path string) error
	Exists(path string) bool
	// Path returns the location of path on disk.
	Path(path string) string
}

type fileStorage struct {
	basePath string
}

func NewFileStorage(basePath string) FileStorage {
	return &fileStorage{basePath: basePath}
}

func (s *fileStorage) resolve(path string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(path))
	if clean == "." || filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid storage path %q", path)
	}
	return filepath.Join(s.basePath, clean), nil
}

func (s *fileStorage) Save(path string, data io.Reader) error {
	fullPath, err := s.resolve(path)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return err
	}

	// write to a sibling temp file so readers never see a partial image
	tmp, err := os.CreateTemp(filepath.Dir(fullPath), ".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), fullPath)
}

func (s *fileStorage) Get(path string) (io.ReadCloser, error) {
	fullPath, err := s.resolve(path)
	if err != nil {
		return nil, err
	}
	return os.Open(fullPath)
}

// Delete removes a file or a whole directory.
func (s *fileStorage) Delete(path string) error {
	fullPath, err := s.resolve(path)
	if err != nil {
		return err
	}
	if _, err := os.Stat(fullPath); err != nil {
		return err
	}
	return os.RemoveAll(fullPath)
}

func (s *fileStorage) Exists(path string) bool {
	fullPath, err := s.resolve(path)
	if err != nil {
		return false
	}
	_, err = os.Stat(fullPath)
	return !os.IsNotExist(err)
}

func (s *fileStorage) Path(path string) string {
	fullPath, err := s.resolve(path)
	if err != nil {
		return ""
	}
	return fullPath
}
