// Package backup keeps timestamped copies of files before they are
// overwritten.
//
// A backup of /dir/name is written next to it as /dir/name.backup.<unixMillis>.
// Retention is tracked per source path: only siblings matching exactly
// <name>.backup.<digits> count against that path's quota, so backups of other
// files in the same directory are never pruned.
package backup

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"time"

	"github.com/papercomputeco/switchboard/pkg/fsutil"
)

const (
	// DefaultKeep is the number of backups retained per path.
	DefaultKeep = 3

	infix = ".backup."
)

// Entry is one backup file of a source path.
type Entry struct {
	Path  string
	Stamp int64
}

// Time returns the creation time encoded in the backup name.
func (e Entry) Time() time.Time {
	return time.UnixMilli(e.Stamp)
}

// Create backs up path using the current time. See CreateAt.
func Create(path string, keep int) (string, error) {
	return CreateAt(path, keep, time.Now())
}

// CreateAt copies path to path.backup.<unixMillis of now> and prunes older
// backups of the same path down to the newest keep. When a backup with the
// same millisecond already exists the stamp is bumped until it is unique.
// A missing source returns *SourceNotFoundError.
func CreateAt(path string, keep int, now time.Time) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", &SourceNotFoundError{Path: path}
		}
		return "", fmt.Errorf("reading %s for backup: %w", path, err)
	}

	stamp := now.UnixMilli()
	target := backupName(path, stamp)
	for fsutil.Exists(target) {
		stamp++
		target = backupName(path, stamp)
	}

	if err := fsutil.AtomicWrite(target, data, fsutil.FileMode); err != nil {
		return "", fmt.Errorf("writing backup of %s: %w", path, err)
	}

	if keep < 1 {
		keep = 1
	}
	if err := prune(path, keep); err != nil {
		return target, err
	}

	return target, nil
}

// Restore copies backupPath over target atomically. A missing backup
// returns *NotFoundError.
func Restore(backupPath, target string) error {
	data, err := os.ReadFile(backupPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &NotFoundError{Path: backupPath}
		}
		return fmt.Errorf("reading backup %s: %w", backupPath, err)
	}

	if err := fsutil.AtomicWrite(target, data, fsutil.FileMode); err != nil {
		return fmt.Errorf("restoring %s from %s: %w", target, backupPath, err)
	}
	return nil
}

// List returns the backups of path ordered oldest first.
func List(path string) ([]Entry, error) {
	dir := filepath.Dir(path)
	pattern := patternFor(path)

	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("listing backups in %s: %w", dir, err)
	}

	var out []Entry
	for _, de := range dirEntries {
		if de.IsDir() {
			continue
		}
		m := pattern.FindStringSubmatch(de.Name())
		if m == nil {
			continue
		}
		stamp, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			continue
		}
		out = append(out, Entry{Path: filepath.Join(dir, de.Name()), Stamp: stamp})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Stamp < out[j].Stamp })
	return out, nil
}

// Latest returns the newest backup of path.
func Latest(path string) (Entry, error) {
	entries, err := List(path)
	if err != nil {
		return Entry{}, err
	}
	if len(entries) == 0 {
		return Entry{}, &NotFoundError{Path: path}
	}
	return entries[len(entries)-1], nil
}

func prune(path string, keep int) error {
	entries, err := List(path)
	if err != nil {
		return err
	}
	if len(entries) <= keep {
		return nil
	}

	for _, e := range entries[:len(entries)-keep] {
		if err := os.Remove(e.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("pruning backup %s: %w", e.Path, err)
		}
	}
	return nil
}

func backupName(path string, stamp int64) string {
	return path + infix + strconv.FormatInt(stamp, 10)
}

func patternFor(path string) *regexp.Regexp {
	return regexp.MustCompile(`^` + regexp.QuoteMeta(filepath.Base(path)+infix) + `(\d+)$`)
}
