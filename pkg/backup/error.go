package backup

// SourceNotFoundError is returned when the file to back up does not exist.
type SourceNotFoundError struct {
	Path string
}

func (e *SourceNotFoundError) Error() string {
	return "backup source not found: " + e.Path
}

// NotFoundError is returned when a backup to restore does not exist.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return "backup not found: " + e.Path
}
