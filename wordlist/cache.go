package wordlist

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"kioku/config"
	"kioku/log"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/sethvargo/go-retry"
	"github.com/sirupsen/logrus"
)

// CacheFileName is the name of the cached default wordlist inside the config dir.
const CacheFileName = "wordlist.txt"

// maxDownloadSize bounds the body read from the wordlist URL. Larger bodies are rejected.
var maxDownloadSize int64 = 32 << 20

// Confirmer asks the user a yes/no question.
type Confirmer interface {
	Confirm(question string) (bool, error)
}

// Cache manages the default wordlist, downloaded once and kept in the config dir.
type Cache struct {
	Dir     string
	URL     string
	Client  *http.Client
	Confirm Confirmer
	Logger  logrus.FieldLogger
	// Backoff builds the retry policy for one download. Backoffs are stateful,
	// so a fresh one is needed per call.
	Backoff func() retry.Backoff
}

// NewCache returns a Cache in dir fetching from url.
func NewCache(dir, url string, confirm Confirmer) *Cache {
	return &Cache{
		Dir:     dir,
		URL:     url,
		Client:  cleanhttp.DefaultClient(),
		Confirm: confirm,
		Logger:  log.Logger,
		Backoff: defaultBackoff,
	}
}

func defaultBackoff() retry.Backoff {
	b := retry.NewExponential(500 * time.Millisecond)
	b = retry.WithJitterPercent(10, b)
	return retry.WithMaxRetries(3, b)
}

// Path returns the location of the cached wordlist.
func (c *Cache) Path() string {
	return filepath.Join(c.Dir, CacheFileName)
}

// Exists reports whether the wordlist has already been cached.
func (c *Cache) Exists() bool {
	info, err := os.Stat(c.Path())
	return err == nil && info.Mode().IsRegular()
}

// Ensure returns the path of the cached wordlist, downloading it first if needed.
// The download only happens after Confirm agrees.
func (c *Cache) Ensure(ctx context.Context) (string, error) {
	path := c.Path()
	if c.Exists() {
		log.Debug("using cached wordlist %s", path)
		return path, nil
	}

	if c.Confirm == nil {
		return "", ErrDownloadDeclined
	}
	ok, err := c.Confirm.Confirm(fmt.Sprintf("No wordlist found. Download the default wordlist from %s?", c.URL))
	if err != nil {
		return "", err
	}
	if !ok {
		return "", ErrDownloadDeclined
	}

	body, err := c.download(ctx)
	if err != nil {
		return "", err
	}
	// refuse to cache something that would fail every later run
	if _, err := Load(FromReader(c.URL, bytes.NewReader(body)), c.Logger); err != nil {
		return "", err
	}

	if err := os.MkdirAll(c.Dir, 0755); err != nil {
		return "", &FileError{Op: "create wordlist directory", Path: c.Dir, Err: err}
	}
	err = config.WithLock(path, func() error {
		if c.Exists() {
			// another process finished first
			return nil
		}
		return writeAtomic(path, body)
	})
	if err != nil {
		return "", err
	}
	return path, nil
}

// Remove deletes the cached wordlist. A missing cache is not an error.
func (c *Cache) Remove() error {
	path := c.Path()
	if _, err := os.Stat(c.Dir); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return config.WithLock(path, func() error {
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return &FileError{Op: "remove cached wordlist", Path: path, Err: err}
		}
		return nil
	})
}

func (c *Cache) download(ctx context.Context) ([]byte, error) {
	client := c.Client
	if client == nil {
		client = cleanhttp.DefaultClient()
	}
	backoff := c.Backoff
	if backoff == nil {
		backoff = defaultBackoff
	}

	var body []byte
	err := retry.Do(ctx, backoff(), func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL, nil)
		if err != nil {
			return fmt.Errorf("failed to build request for %s: %w", c.URL, err)
		}
		resp, err := client.Do(req)
		if err != nil {
			log.Debug("wordlist download failed, retrying: %v", err)
			return retry.RetryableError(fmt.Errorf("failed to download wordlist: %w", err))
		}
		defer resp.Body.Close()

		if resp.StatusCode >= http.StatusInternalServerError {
			return retry.RetryableError(fmt.Errorf("failed to download wordlist: %s", resp.Status))
		}
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("failed to download wordlist: %s", resp.Status)
		}

		body, err = io.ReadAll(io.LimitReader(resp.Body, maxDownloadSize+1))
		if err != nil {
			return retry.RetryableError(fmt.Errorf("failed to read wordlist response: %w", err))
		}
		if int64(len(body)) > maxDownloadSize {
			body = nil
			return fmt.Errorf("failed to download wordlist: response exceeds %d bytes", maxDownloadSize)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return body, nil
}

func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".wordlist-*.tmp")
	if err != nil {
		return &FileError{Op: "write cached wordlist", Path: path, Err: err}
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return &FileError{Op: "write cached wordlist", Path: path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &FileError{Op: "write cached wordlist", Path: path, Err: err}
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return &FileError{Op: "write cached wordlist", Path: path, Err: err}
	}
	if err := os.Rename(tmpName, path); err != nil {
		return &FileError{Op: "write cached wordlist", Path: path, Err: err}
	}
	return nil
}
