// Package storage keeps uploaded images on local disk.
package storage

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"coursehub/internal/domain"
)

const MaxUploadSize = 5 << 20

var allowedExtensions = map[string]bool{
	".jpeg": true,
	".jpg":  true,
	".png":  true,
}

var allowedTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
}

type Uploads struct {
	dir string
	now func() time.Time
}

// NewUploads creates dir if needed.
func NewUploads(dir string) (*Uploads, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads dir: %w", err)
	}
	return &Uploads{dir: dir, now: time.Now}, nil
}

func (u *Uploads) Dir() string { return u.dir }

// Save validates and stores an uploaded image as "<unix-millis>-<name>".
func (u *Uploads) Save(fh *multipart.FileHeader) (*domain.Upload, error) {
	if fh.Size > MaxUploadSize {
		return nil, domain.Invalid("File too large, maximum is 5MB")
	}
	name := filepath.Base(fh.Filename)
	ext := strings.ToLower(filepath.Ext(name))
	if !allowedExtensions[ext] || !allowedTypes[fh.Header.Get("Content-Type")] {
		return nil, domain.Invalid("Only images (jpeg, jpg, png) are allowed")
	}

	src, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	stored := fmt.Sprintf("%d-%s", u.now().UnixMilli(), sanitize(name))
	dst, err := os.OpenFile(filepath.Join(u.dir, stored), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, fmt.Errorf("create upload: %w", err)
	}
	if _, err := io.Copy(dst, io.LimitReader(src, MaxUploadSize+1)); err != nil {
		dst.Close()
		os.Remove(dst.Name())
		return nil, fmt.Errorf("write upload: %w", err)
	}
	if err := dst.Close(); err != nil {
		os.Remove(dst.Name())
		return nil, fmt.Errorf("write upload: %w", err)
	}
	return &domain.Upload{Filename: stored}, nil
}

// Remove deletes a stored upload. Missing files are not an error.
func (u *Uploads) Remove(name string) error {
	if name == "" {
		return nil
	}
	err := os.Remove(filepath.Join(u.dir, filepath.Base(name)))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

func sanitize(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
}
