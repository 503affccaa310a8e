package webdav

import "fmt"

// TransportError wraps any WebDAV failure other than a missing object.
type TransportError struct {
	Op   string
	Path string
	Err  error
}

func (e *TransportError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("webdav %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("webdav %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
