package config

import (
	"fmt"
	"os"
)

// FileLock serializes writers of a file across processes through a sibling
// "<path>.lock" file, so the data file itself can be replaced by rename.
type FileLock struct {
	path string
	file *os.File
}

// NewFileLock creates a new FileLock guarding path.
func NewFileLock(path string) *FileLock {
	return &FileLock{path: path + ".lock"}
}

// WithLock runs fn while holding an exclusive lock on path.
func WithLock(path string, fn func() error) error {
	lock := NewFileLock(path)
	if err := lock.Lock(); err != nil {
		return err
	}
	defer func() {
		_ = lock.Unlock()
	}()
	return fn()
}

func (l *FileLock) open() (*os.File, error) {
	if l.file != nil {
		return nil, fmt.Errorf("lock already held")
	}
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open lock file: %w", err)
	}
	return f, nil
}
