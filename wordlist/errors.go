package wordlist

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
)

// FileError is an I/O failure on a named file.
type FileError struct {
	// Op describes what was being attempted, e.g. "read wordlist file".
	Op   string
	Path string
	Err  error

	// Hidden asks callers to present the error without Path.
	Hidden bool
}

func (e *FileError) Error() string {
	return fmt.Sprintf("failed to %s %s: %v", e.Op, e.Path, e.Err)
}

// Redacted renders the error without the path, for system-managed locations
// the user never chose.
func (e *FileError) Redacted() string {
	// os errors carry the path themselves
	var pathErr *fs.PathError
	if errors.As(e.Err, &pathErr) {
		return fmt.Sprintf("failed to %s: %s: %v", e.Op, pathErr.Op, pathErr.Err)
	}
	msg := fmt.Sprint(e.Err)
	if e.Path != "" {
		msg = strings.ReplaceAll(msg, e.Path, "<redacted>")
	}
	return fmt.Sprintf("failed to %s: %s", e.Op, msg)
}

func (e *FileError) Unwrap() error { return e.Err }

// ValidationError means the wordlist content cannot be used.
type ValidationError struct {
	Source string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid wordlist %s: %s", e.Source, e.Reason)
}

// ErrDownloadDeclined is returned when the user refuses to fetch the default wordlist.
var ErrDownloadDeclined = errors.New("download of the default wordlist was declined")
