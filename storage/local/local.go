// Package local stages request-scoped files on the local filesystem.
//
// Every staged file has a unique name and is owned by exactly one caller,
// who removes it when done:
//
//	f, err := scratch.Stage(ctx, part, limit, ".wav")
//	if err != nil {
//	    return err
//	}
//	defer f.Remove()
package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrTooLarge is returned by Stage when the source exceeds the limit.
var ErrTooLarge = errors.New("storage: file exceeds size limit")

// Scratch is a directory of short-lived files.
type Scratch struct {
	dir string
}

// NewScratch creates the directory if needed.
func NewScratch(cfg Config) (*Scratch, error) {
	cfg.ApplyDefaults()
	abs, err := filepath.Abs(cfg.BasePath)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve base path: %w", err)
	}
	if err := os.MkdirAll(abs, 0o700); err != nil {
		return nil, fmt.Errorf("storage: create base directory: %w", err)
	}
	return &Scratch{dir: abs}, nil
}

// Dir returns the absolute scratch directory.
func (s *Scratch) Dir() string { return s.dir }

// File is a staged file.
type File struct {
	Path string
	Size int64
}

// Remove deletes the file. Removing an already removed file is not an error.
func (f *File) Remove() error {
	if err := os.Remove(f.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("storage: remove %s: %w", f.Path, err)
	}
	return nil
}

// Stage copies r into a new uniquely named file ending in ext. A limit
// above zero caps the size; going past it removes the partial file and
// returns ErrTooLarge. Any failure leaves nothing on disk.
func (s *Scratch) Stage(ctx context.Context, r io.Reader, limit int64, ext string) (*File, error) {
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	path := filepath.Join(s.dir, uuid.NewString()+ext)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return nil, fmt.Errorf("storage: create file: %w", err)
	}
	staged := &File{Path: path}

	src := &ctxReader{ctx: ctx, r: r}
	var n int64
	if limit > 0 {
		n, err = io.Copy(f, io.LimitReader(src, limit+1))
		if err == nil && n > limit {
			err = ErrTooLarge
		}
	} else {
		n, err = io.Copy(f, src)
	}
	if cerr := f.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("storage: close file: %w", cerr)
	}
	if err != nil {
		_ = staged.Remove()
		return nil, err
	}
	staged.Size = n
	return staged, nil
}

// Purge removes files last modified before now minus age and reports how
// many were deleted. It clears files left behind by a crashed process.
func (s *Scratch) Purge(age time.Duration) (int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, fmt.Errorf("storage: list %s: %w", s.dir, err)
	}
	cutoff := time.Now().Add(-age)
	removed := 0
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		if os.Remove(filepath.Join(s.dir, e.Name())) == nil {
			removed++
		}
	}
	return removed, nil
}

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
