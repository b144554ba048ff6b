package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"kioku/config"
	"kioku/metadata"
	"kioku/namegen"
	"kioku/wordlist"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCache struct {
	path      string
	ensureErr error
	removed   bool
}

func (f *fakeCache) Ensure(context.Context) (string, error) {
	return f.path, f.ensureErr
}

func (f *fakeCache) Remove() error {
	f.removed = true
	return nil
}

func writeWords(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "words.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func testOptions(t *testing.T) Options {
	t.Helper()
	logger, _ := logtest.NewNullLogger()
	return Options{
		Length:    3,
		Dir:       t.TempDir(),
		Generator: namegen.NewSeeded(1, 1),
		Logger:    logger,
		Now:       func() time.Time { return time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC) },
	}
}

func TestRunPrintsName(t *testing.T) {
	opts := testOptions(t)
	opts.Words = writeWords(t, "alpha\nbeta\ngamma\n")

	var out bytes.Buffer
	require.NoError(t, Run(context.Background(), opts, &out))

	name := strings.TrimSuffix(out.String(), "\n")
	parts := strings.Split(name, "-")
	require.Len(t, parts, 3)
	for _, p := range parts {
		assert.Contains(t, []string{"alpha", "beta", "gamma"}, p)
	}
}

func TestRunUsesCache(t *testing.T) {
	opts := testOptions(t)
	opts.Cache = &fakeCache{path: writeWords(t, "solo\n")}
	opts.Length = 2

	var out bytes.Buffer
	require.NoError(t, Run(context.Background(), opts, &out))
	assert.Equal(t, "solo-solo\n", out.String())
}

func TestRunZeroLength(t *testing.T) {
	opts := testOptions(t)
	opts.Words = writeWords(t, "alpha\n")
	opts.Length = 0

	var out bytes.Buffer
	require.NoError(t, Run(context.Background(), opts, &out))
	assert.Equal(t, "\n", out.String())
}

func TestRunNegativeLength(t *testing.T) {
	opts := testOptions(t)
	opts.Words = writeWords(t, "alpha\n")
	opts.Length = -1

	err := Run(context.Background(), opts, &bytes.Buffer{})
	var cfgErr *config.ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestRunWritesMetadataOutsideRepository(t *testing.T) {
	opts := testOptions(t)
	opts.Words = writeWords(t, "alpha\n")
	opts.Output = filepath.Join(t.TempDir(), "run")

	var out bytes.Buffer
	require.NoError(t, Run(context.Background(), opts, &out))

	data, err := os.ReadFile(opts.Output + ".json")
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "alpha-alpha-alpha", raw["label"])
	assert.Contains(t, raw, "revision")
	assert.Nil(t, raw["revision"])
	assert.NotEmpty(t, raw["timestamp"])
}

func TestRunAppendsJSONLines(t *testing.T) {
	opts := testOptions(t)
	opts.Words = writeWords(t, "alpha\nbeta\n")
	opts.Output = filepath.Join(t.TempDir(), "runs.jsonl")

	var out bytes.Buffer
	require.NoError(t, Run(context.Background(), opts, &out))
	require.NoError(t, Run(context.Background(), opts, &out))

	data, err := os.ReadFile(opts.Output)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	require.Len(t, lines, 2)

	names := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	for i, line := range lines {
		var rec metadata.Record
		require.NoError(t, json.Unmarshal([]byte(line), &rec))
		assert.Equal(t, names[i], rec.Label)
	}
}

func TestRunNoMetadataOnLoadFailure(t *testing.T) {
	opts := testOptions(t)
	opts.Words = filepath.Join(t.TempDir(), "missing.txt")
	opts.Output = filepath.Join(t.TempDir(), "run.json")

	var out bytes.Buffer
	err := Run(context.Background(), opts, &out)

	var fileErr *wordlist.FileError
	require.ErrorAs(t, err, &fileErr)
	assert.False(t, fileErr.Hidden, "user-supplied paths stay visible")
	assert.Empty(t, out.String())
	assert.NoFileExists(t, opts.Output)
}

func TestRunHidesCachePath(t *testing.T) {
	opts := testOptions(t)
	opts.Cache = &fakeCache{path: filepath.Join(t.TempDir(), "wordlist.txt")}

	err := Run(context.Background(), opts, &bytes.Buffer{})

	var fileErr *wordlist.FileError
	require.ErrorAs(t, err, &fileErr)
	assert.True(t, fileErr.Hidden)
}

func TestRunCacheDeclined(t *testing.T) {
	opts := testOptions(t)
	opts.Cache = &fakeCache{ensureErr: wordlist.ErrDownloadDeclined}

	err := Run(context.Background(), opts, &bytes.Buffer{})
	assert.ErrorIs(t, err, wordlist.ErrDownloadDeclined)
}

func TestRunWithoutCache(t *testing.T) {
	opts := testOptions(t)

	err := Run(context.Background(), opts, &bytes.Buffer{})
	var cfgErr *config.ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestRunRemoveCached(t *testing.T) {
	cache := &fakeCache{}
	opts := testOptions(t)
	opts.Cache = cache
	opts.RemoveCached = true

	var out bytes.Buffer
	require.NoError(t, Run(context.Background(), opts, &out))
	assert.True(t, cache.removed)
	assert.Contains(t, out.String(), "removed")
}

type failingWriter struct{ err error }

func (w failingWriter) Write([]byte) (int, error) { return 0, w.err }

func TestRunOutputError(t *testing.T) {
	opts := testOptions(t)
	opts.Words = writeWords(t, "alpha\n")
	opts.Output = filepath.Join(t.TempDir(), "run.json")

	err := Run(context.Background(), opts, failingWriter{err: errors.New("disk full")})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrBrokenOutput)
	assert.NoFileExists(t, opts.Output, "metadata must not be written when the name was not printed")
}

func TestRunRemoveCachedOutputError(t *testing.T) {
	cache := &fakeCache{}
	opts := testOptions(t)
	opts.Cache = cache
	opts.RemoveCached = true

	err := Run(context.Background(), opts, failingWriter{err: errors.New("disk full")})
	require.Error(t, err)
	assert.True(t, cache.removed)
	assert.Contains(t, err.Error(), "disk full")
	assert.NotErrorIs(t, err, ErrBrokenOutput)
}

func TestRunHidesCachePathOnValidation(t *testing.T) {
	cached := writeWords(t, "123\n")
	opts := testOptions(t)
	opts.Cache = &fakeCache{path: cached}

	err := Run(context.Background(), opts, &bytes.Buffer{})

	var valErr *wordlist.ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.NotContains(t, err.Error(), cached)
}
