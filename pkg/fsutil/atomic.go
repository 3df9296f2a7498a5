package fsutil

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// DefaultFileMode is the default permission mode for newly created files.
const DefaultFileMode os.FileMode = 0644

// pendingFile is a temp file next to its target that either replaces the
// target on commit or disappears on abort.
type pendingFile struct {
	target string
	tmp    *os.File
}

func createPending(target string) (*pendingFile, error) {
	tmp, err := os.CreateTemp(filepath.Dir(target), filepath.Base(target)+".tmp.*")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	return &pendingFile{target: target, tmp: tmp}, nil
}

// commit syncs the temp file, applies mode and renames it over the target.
func (p *pendingFile) commit(mode os.FileMode) error {
	if err := p.tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := p.tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(p.tmp.Name(), mode); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(p.tmp.Name(), p.target); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

func (p *pendingFile) abort() {
	_ = p.tmp.Close()
	_ = os.Remove(p.tmp.Name())
}

// WriteAtomicFunc streams output produced by write into path. The target is
// replaced only after write returns nil and the data is synced; on any
// error it is left untouched and the temp file is removed.
//
// If mode is 0, an existing file keeps its mode and a new one gets
// DefaultFileMode.
func WriteAtomicFunc(ctx context.Context, path string, mode os.FileMode, write func(io.Writer) error) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("write atomic: %w", err)
	}

	if mode == 0 {
		mode = ExistingMode(path)
	}

	pending, err := createPending(path)
	if err != nil {
		return err
	}

	if err := write(pending.tmp); err != nil {
		pending.abort()
		return err
	}

	// Output may take a while to produce; do not replace the target for a
	// run that was cancelled meanwhile.
	if err := ctx.Err(); err != nil {
		pending.abort()
		return fmt.Errorf("write atomic: %w", err)
	}

	if err := pending.commit(mode); err != nil {
		pending.abort()
		return err
	}
	return nil
}

// WriteAtomic writes content to path through a temp file and rename.
// Mode follows WriteAtomicFunc.
func WriteAtomic(ctx context.Context, path string, content []byte, mode os.FileMode) error {
	return WriteAtomicFunc(ctx, path, mode, func(w io.Writer) error {
		if _, err := w.Write(content); err != nil {
			return fmt.Errorf("write temp file: %w", err)
		}
		return nil
	})
}

// WriteAtomicIfChanged writes content to path atomically only if the content differs.
// Returns true if the file was written, false if it was unchanged.
func WriteAtomicIfChanged(ctx context.Context, path string, content []byte, mode os.FileMode) (bool, error) {
	existing, _, err := ReadFile(ctx, path)
	switch {
	case errors.Is(err, ErrNotFound):
	case err != nil:
		return false, fmt.Errorf("read existing: %w", err)
	case bytes.Equal(existing, content):
		return false, nil
	}

	if err := WriteAtomic(ctx, path, content, mode); err != nil {
		return false, err
	}
	return true, nil
}
