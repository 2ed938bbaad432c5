// Package storage keeps uploaded images on the local disk. Files get
// uuid names so user-supplied filenames never touch the filesystem.
package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

type ImageStore struct {
	dir     string
	baseURL string
}

func NewImageStore(dir, baseURL string) (*ImageStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("os.MkdirAll -> %w", err)
	}

	return &ImageStore{
		dir:     dir,
		baseURL: baseURL,
	}, nil
}

// Save writes the uploaded file under a fresh uuid name, keeping the
// original extension, and returns the stored relative path.
func (s *ImageStore) Save(file *multipart.FileHeader, subdir string) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("file.Open -> %w", err)
	}
	defer src.Close()

	name := uuid.NewString() + filepath.Ext(file.Filename)
	rel := filepath.Join(subdir, name)

	if err := os.MkdirAll(filepath.Join(s.dir, subdir), 0o755); err != nil {
		return "", fmt.Errorf("os.MkdirAll -> %w", err)
	}

	dst, err := os.Create(filepath.Join(s.dir, rel))
	if err != nil {
		return "", fmt.Errorf("os.Create -> %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("io.Copy -> %w", err)
	}

	return rel, nil
}

// Remove deletes the stored file. A file already missing on disk is not
// an error; the database record is the source of truth.
func (s *ImageStore) Remove(rel string) error {
	err := os.Remove(filepath.Join(s.dir, rel))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("os.Remove -> %w", err)
	}

	return nil
}

// URL returns the public URL for a stored path; empty in, empty out.
func (s *ImageStore) URL(rel string) string {
	if rel == "" {
		return ""
	}

	return s.baseURL + "/" + filepath.ToSlash(rel)
}
