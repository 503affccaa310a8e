package writer

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/papercomputeco/switchboard/pkg/fsutil"
)

// pendingWrite is one file a writer wants to replace.
type pendingWrite struct {
	path    string
	content []byte

	// secondary files get a one-time .bak copy before their first
	// destructive overwrite.
	secondary bool
}

// committer writes a set of files as one unit: if a later file fails, files
// already replaced in the same call are put back.
type committer struct {
	mu       sync.Mutex
	backedUp map[string]bool
}

type original struct {
	path    string
	content []byte
	existed bool
}

func (c *committer) commit(writes ...pendingWrite) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var done []original
	for _, w := range writes {
		current, exists, err := fsutil.ReadIfExists(w.path)
		if err != nil {
			return c.rollback(done, err)
		}
		if exists && bytes.Equal(current, w.content) {
			continue
		}

		if w.secondary && exists {
			if err := c.backupOnce(w.path, current); err != nil {
				return c.rollback(done, err)
			}
		}

		if err := fsutil.AtomicWrite(w.path, w.content, fsutil.FileMode); err != nil {
			return c.rollback(done, err)
		}
		done = append(done, original{path: w.path, content: current, existed: exists})
	}
	return nil
}

func (c *committer) backupOnce(path string, content []byte) error {
	if c.backedUp == nil {
		c.backedUp = make(map[string]bool)
	}
	if c.backedUp[path] {
		return nil
	}
	if err := fsutil.AtomicWrite(path+".bak", content, fsutil.FileMode); err != nil {
		return fmt.Errorf("backing up %s: %w", path, err)
	}
	c.backedUp[path] = true
	return nil
}

func (c *committer) rollback(done []original, cause error) error {
	var errs []error
	for i := len(done) - 1; i >= 0; i-- {
		o := done[i]
		if o.existed {
			if err := fsutil.AtomicWrite(o.path, o.content, fsutil.FileMode); err != nil {
				errs = append(errs, fmt.Errorf("restoring %s: %w", o.path, err))
			}
			continue
		}
		if err := os.Remove(o.path); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, fmt.Errorf("removing %s: %w", o.path, err))
		}
	}
	if len(errs) > 0 {
		return errors.Join(append([]error{cause}, errs...)...)
	}
	return cause
}
