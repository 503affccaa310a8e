package writer

import "fmt"

// ParseError is returned when an existing native config file cannot be
// parsed. The file is left untouched.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse %s (file left untouched): %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
