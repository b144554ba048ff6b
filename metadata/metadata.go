// Package metadata records which name was generated, from which revision, and when.
package metadata

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"
)

// WriteMode selects how the metadata file is opened.
type WriteMode int

const (
	// ModeTruncate replaces the file with a single pretty-printed record.
	ModeTruncate WriteMode = iota
	// ModeAppend adds one compact record per line (JSON lines).
	ModeAppend
)

func (m WriteMode) String() string {
	switch m {
	case ModeTruncate:
		return "truncate"
	case ModeAppend:
		return "append"
	default:
		return fmt.Sprintf("WriteMode(%d)", int(m))
	}
}

func (m WriteMode) flags() int {
	if m == ModeAppend {
		return os.O_CREATE | os.O_WRONLY | os.O_APPEND
	}
	return os.O_CREATE | os.O_WRONLY | os.O_TRUNC
}

// Resolve normalizes path and picks the write mode from its extension.
// Paths not ending in .json or .jsonl get .json appended.
func Resolve(path string) (string, WriteMode) {
	switch {
	case strings.HasSuffix(path, ".jsonl"):
		return path, ModeAppend
	case strings.HasSuffix(path, ".json"):
		return path, ModeTruncate
	default:
		return path + ".json", ModeTruncate
	}
}

// Record describes one generated name.
type Record struct {
	Label     string  `json:"label"`
	Revision  *string `json:"revision"`
	Timestamp string  `json:"timestamp"`
}

// NewRecord builds a Record stamped with now in local time.
// An empty revision with ok false is serialized as null.
func NewRecord(label, revision string, ok bool, now time.Time) Record {
	rec := Record{
		Label:     label,
		Timestamp: now.Local().Format(time.RFC3339),
	}
	if ok {
		rec.Revision = &revision
	}
	return rec
}

// Encode serializes rec for mode, including the trailing newline.
func Encode(rec Record, mode WriteMode) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	if mode == ModeAppend {
		data, err = json.Marshal(rec)
	} else {
		data, err = json.MarshalIndent(rec, "", "  ")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to marshal metadata: %w", err)
	}
	return append(data, '\n'), nil
}

// Write stores rec at the resolved form of path and returns that resolved path.
func Write(path string, rec Record) (string, error) {
	resolved, mode := Resolve(path)

	data, err := Encode(rec, mode)
	if err != nil {
		return resolved, err
	}

	f, err := os.OpenFile(resolved, mode.flags(), 0644)
	if err != nil {
		return resolved, fmt.Errorf("failed to write metadata file %s: %w", resolved, err)
	}
	w := bufio.NewWriter(f)
	if _, err := w.Write(data); err != nil {
		f.Close()
		return resolved, fmt.Errorf("failed to write metadata file %s: %w", resolved, err)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return resolved, fmt.Errorf("failed to write metadata file %s: %w", resolved, err)
	}
	if err := f.Close(); err != nil {
		return resolved, fmt.Errorf("failed to write metadata file %s: %w", resolved, err)
	}
	return resolved, nil
}
