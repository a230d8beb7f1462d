// Package storage keeps uploaded resource files on the local filesystem.
//
// Files are stored under generated names; the client-supplied filename is
// never used to build a path.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/afero"
)

var (
	ErrOutsideRoot = errors.New("path is outside storage root")
	ErrTooLarge    = errors.New("file exceeds upload limit")
)

type StoredFile struct {
	Path string
	Size int64
}

type Local struct {
	fs      afero.Fs
	root    string
	maxSize int64
}

// NewLocal stores files under root on the OS filesystem.
func NewLocal(root string, maxSize int64) (*Local, error) {
	return New(afero.NewOsFs(), root, maxSize)
}

func New(fs afero.Fs, root string, maxSize int64) (*Local, error) {
	root = filepath.Clean(root)
	if err := fs.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage root %s: %w", root, err)
	}
	return &Local{fs: fs, root: root, maxSize: maxSize}, nil
}

// Save writes r to a new file and returns where it landed. Only the
// extension of originalName is kept.
func (l *Local) Save(ctx context.Context, originalName string, r io.Reader) (*StoredFile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := filepath.Join(l.root, uuid.NewString()+safeExt(originalName))
	f, err := l.fs.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}

	src := r
	if l.maxSize > 0 {
		src = io.LimitReader(r, l.maxSize+1)
	}
	n, err := io.Copy(f, src)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil && l.maxSize > 0 && n > l.maxSize {
		err = ErrTooLarge
	}
	if err != nil {
		_ = l.fs.Remove(path)
		if errors.Is(err, ErrTooLarge) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to write file: %w", err)
	}

	return &StoredFile{Path: path, Size: n}, nil
}

// Remove deletes a stored file. A missing file is reported as an error
// wrapping os.ErrNotExist.
func (l *Local) Remove(path string) error {
	clean, err := l.within(path)
	if err != nil {
		return err
	}
	return l.fs.Remove(clean)
}

func (l *Local) within(path string) (string, error) {
	clean := filepath.Clean(path)
	rel, err := filepath.Rel(l.root, clean)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrOutsideRoot, path)
	}
	return clean, nil
}

func safeExt(name string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(name)))
	if len(ext) > 16 {
		return ""
	}
	for _, r := range strings.TrimPrefix(ext, ".") {
		if !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9') {
			return ""
		}
	}
	return ext
}
