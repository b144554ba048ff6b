// Package app wires wordlist loading, name generation and metadata recording
// into a single run of the tool.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"kioku/config"
	"kioku/log"
	"kioku/metadata"
	"kioku/namegen"
	"kioku/revision"
	"kioku/wordlist"

	"github.com/sirupsen/logrus"
)

// ErrBrokenOutput means whoever reads stdout went away. It is not a user-facing failure.
var ErrBrokenOutput = errors.New("standard output closed")

// WordlistCache provides the default wordlist when none is given explicitly.
type WordlistCache interface {
	Ensure(ctx context.Context) (string, error)
	Remove() error
}

// Options controls a single run.
type Options struct {
	// Length is the number of words in the name.
	Length int
	// Output is the metadata file. Empty disables metadata.
	Output string
	// Words is an explicit wordlist path. Empty means the cached default.
	Words string
	// RemoveCached deletes the cached default wordlist instead of generating.
	RemoveCached bool

	Cache WordlistCache
	// Dir is where the revision is probed. Empty means the current directory.
	Dir       string
	Generator *namegen.Generator
	Logger    logrus.FieldLogger
	Now       func() time.Time
}

// Run generates one name, prints it to stdout and records metadata if requested.
func Run(ctx context.Context, opts Options, stdout io.Writer) error {
	if opts.RemoveCached {
		return removeCached(opts, stdout)
	}
	if opts.Length < 0 {
		return &config.ConfigError{What: fmt.Sprintf("invalid length %d: must not be negative", opts.Length)}
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.Logger
	}

	words, err := loadWords(ctx, opts, logger)
	if err != nil {
		return err
	}
	log.Debug("loaded %d words", len(words))

	gen := opts.Generator
	if gen == nil {
		gen = namegen.New()
	}
	name := gen.Generate(words, opts.Length)

	if _, err := fmt.Fprintln(stdout, name); err != nil {
		if isBrokenPipe(err) {
			return ErrBrokenOutput
		}
		return fmt.Errorf("failed to write name: %w", err)
	}

	if opts.Output == "" {
		return nil
	}
	return recordMetadata(opts, name, logger)
}

func loadWords(ctx context.Context, opts Options, logger logrus.FieldLogger) (wordlist.WordList, error) {
	if opts.Words != "" {
		return wordlist.Load(wordlist.FromFile(opts.Words), logger)
	}

	if opts.Cache == nil {
		return nil, &config.ConfigError{What: "no wordlist given and no default wordlist location configured"}
	}
	path, err := opts.Cache.Ensure(ctx)
	if err != nil {
		return nil, hideCachePath(err)
	}
	words, err := wordlist.Load(wordlist.FromFile(path), logger)
	if err != nil {
		return nil, hideCachePath(err)
	}
	return words, nil
}

// hideCachePath keeps the system-managed cache location out of error messages.
func hideCachePath(err error) error {
	var fileErr *wordlist.FileError
	if errors.As(err, &fileErr) {
		fileErr.Hidden = true
	}
	var valErr *wordlist.ValidationError
	if errors.As(err, &valErr) {
		valErr.Source = "default wordlist"
	}
	return err
}

func recordMetadata(opts Options, name string, logger logrus.FieldLogger) error {
	dir := opts.Dir
	if dir == "" {
		dir = "."
	}
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}

	rev, ok := revision.Probe(dir)
	rec := metadata.NewRecord(name, rev, ok, now())

	path, err := metadata.Write(opts.Output, rec)
	if err != nil {
		return err
	}
	logger.WithFields(logrus.Fields{"file": path, "revision": rev}).Info("recorded metadata")
	return nil
}

func removeCached(opts Options, stdout io.Writer) error {
	if opts.Cache == nil {
		return &config.ConfigError{What: "no default wordlist location configured"}
	}
	if err := opts.Cache.Remove(); err != nil {
		return hideCachePath(err)
	}
	if _, err := fmt.Fprintln(stdout, "Cached wordlist has been removed"); err != nil {
		if isBrokenPipe(err) {
			return ErrBrokenOutput
		}
		return fmt.Errorf("failed to write confirmation: %w", err)
	}
	return nil
}
