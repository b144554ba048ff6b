// Package wordlist loads and validates the pool of words names are built from.
//
// Entries are read one per line and trimmed. Only entries made entirely of ASCII
// letters are kept; anything else is dropped with a single warning per load.
package wordlist

import (
	"bufio"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// WordList is a non-empty, validated list of words.
type WordList []string

// Source names where a wordlist comes from.
type Source struct {
	name string
	open func() (io.ReadCloser, error)
}

// Name returns the path or label of the source.
func (s Source) Name() string {
	return s.name
}

// FromFile reads the wordlist at path.
func FromFile(path string) Source {
	return Source{
		name: path,
		open: func() (io.ReadCloser, error) { return os.Open(path) },
	}
}

// FromReader reads the wordlist from r. name is used in error messages.
func FromReader(name string, r io.Reader) Source {
	return Source{
		name: name,
		open: func() (io.ReadCloser, error) { return io.NopCloser(r), nil },
	}
}

// Load reads and validates src. Invalid entries are discarded and reported once on logger.
func Load(src Source, logger logrus.FieldLogger) (WordList, error) {
	rc, err := src.open()
	if err != nil {
		return nil, &FileError{Op: "read wordlist file", Path: src.Name(), Err: err}
	}
	defer rc.Close()

	var (
		words  WordList
		warned bool
	)
	// no line length limit: an overlong line is just another invalid entry
	r := bufio.NewReader(rc)
	for {
		line, readErr := r.ReadString('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return nil, &FileError{Op: "read wordlist file", Path: src.Name(), Err: readErr}
		}
		if line != "" {
			word := strings.TrimSpace(line)
			if IsWord(word) {
				words = append(words, word)
			} else {
				if !warned && logger != nil {
					logger.WithField("wordlist", src.Name()).Warn("wordlist contains invalid words, discarding")
				}
				warned = true
			}
		}
		if readErr != nil {
			break
		}
	}

	if len(words) == 0 {
		return nil, &ValidationError{Source: src.Name(), Reason: "no valid words"}
	}
	return words, nil
}

// IsWord reports whether s is a non-empty run of ASCII letters.
func IsWord(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') {
			return false
		}
	}
	return true
}
