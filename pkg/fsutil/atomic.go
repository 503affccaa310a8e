// Package fsutil holds the small file primitives every persisted write in
// switchboard goes through.
package fsutil

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"time"
)

const (
	// DirMode is used for every directory switchboard creates.
	DirMode fs.FileMode = 0o700

	// FileMode is used for every file switchboard writes.
	FileMode fs.FileMode = 0o600
)

// AtomicWrite writes content to a temp file in the destination directory and
// renames it into place, so readers never observe a partial file.
func AtomicWrite(path string, content []byte, mode fs.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, DirMode); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file for %s: %w", path, err)
	}
	tmpName := tmp.Name()

	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(content); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Chmod(mode); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("setting mode on %s: %w", path, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("syncing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("closing %s: %w", path, err)
	}

	if err := rename(tmpName, path); err != nil {
		cleanup()
		return fmt.Errorf("replacing %s: %w", path, err)
	}

	return nil
}

// rename moves tmp over path. On Windows the destination may be briefly
// locked by another process, so a few retries are attempted.
func rename(tmp, path string) error {
	err := os.Rename(tmp, path)
	if err == nil || runtime.GOOS != "windows" {
		return err
	}

	last := err
	for range 5 {
		time.Sleep(50 * time.Millisecond)
		if last = os.Rename(tmp, path); last == nil {
			return nil
		}
	}
	return last
}

// ReadIfExists returns the file content, or nil and false when it does not
// exist. Any other read error is returned.
func ReadIfExists(path string) ([]byte, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, true, nil
}

// WriteIfChanged writes content atomically unless the file already holds
// exactly those bytes. It reports whether a write happened.
func WriteIfChanged(path string, content []byte, mode fs.FileMode) (bool, error) {
	current, exists, err := ReadIfExists(path)
	if err != nil {
		return false, err
	}
	if exists && bytes.Equal(current, content) {
		return false, nil
	}
	if err := AtomicWrite(path, content, mode); err != nil {
		return false, err
	}
	return true, nil
}

// Exists reports whether path exists.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
