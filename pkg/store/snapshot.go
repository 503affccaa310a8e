package store

import (
	"errors"
	"fmt"
	"os"

	"github.com/papercomputeco/switchboard/pkg/fsutil"
)

type fileState struct {
	path    string
	content []byte
	existed bool
}

// snapshot holds the content of a set of files so they can be put back.
type snapshot []fileState

func takeSnapshot(paths []string) (snapshot, error) {
	snap := make(snapshot, 0, len(paths))
	for _, p := range paths {
		data, exists, err := fsutil.ReadIfExists(p)
		if err != nil {
			return nil, err
		}
		snap = append(snap, fileState{path: p, content: data, existed: exists})
	}
	return snap, nil
}

func (s snapshot) restore() error {
	var errs []error
	for _, f := range s {
		if f.existed {
			if _, err := fsutil.WriteIfChanged(f.path, f.content, fsutil.FileMode); err != nil {
				errs = append(errs, fmt.Errorf("restoring %s: %w", f.path, err))
			}
			continue
		}
		if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, fmt.Errorf("removing %s: %w", f.path, err))
		}
	}
	return errors.Join(errs...)
}
