package syncer

import (
	"errors"
	"fmt"
	"os"

	"github.com/papercomputeco/switchboard/pkg/backup"
	"github.com/papercomputeco/switchboard/pkg/fsutil"
)

// journal records every local file a run is about to overwrite so the run
// can be undone as a whole.
type journal struct {
	keep    int
	backups []backupRecord
	created []string
	seen    map[string]bool
}

type backupRecord struct {
	target string
	backup string
}

func newJournal(keep int) *journal {
	return &journal{keep: keep, seen: map[string]bool{}}
}

// protect backs up path if it exists, or remembers that it did not exist.
// It returns the backup path, or "" when there was nothing to back up.
func (j *journal) protect(path string) (string, error) {
	if j.seen[path] {
		return "", nil
	}
	j.seen[path] = true

	if !fsutil.Exists(path) {
		j.created = append(j.created, path)
		return "", nil
	}
	b, err := backup.Create(path, j.keep)
	if err != nil {
		return "", fmt.Errorf("backing up %s: %w", path, err)
	}
	j.backups = append(j.backups, backupRecord{target: path, backup: b})
	return b, nil
}

// rollback restores every backup and removes files that did not exist
// before the run.
func (j *journal) rollback() error {
	var errs []error
	for i := len(j.backups) - 1; i >= 0; i-- {
		rec := j.backups[i]
		if err := backup.Restore(rec.backup, rec.target); err != nil {
			errs = append(errs, fmt.Errorf("restoring %s: %w", rec.target, err))
		}
	}
	for _, path := range j.created {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, fmt.Errorf("removing %s: %w", path, err))
		}
	}
	return errors.Join(errs...)
}
