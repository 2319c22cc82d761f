// Package testutils provides shared helpers for groundlab tests.
package testutils

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// FileHelpers provides utilities for laying out prompt fixtures on disk.
type FileHelpers struct{}

// NewFileHelpers creates a new file helpers instance
func NewFileHelpers() *FileHelpers {
	return &FileHelpers{}
}

// CreateTempFile creates a temporary file with the given content and returns
// its path.
func (f *FileHelpers) CreateTempFile(t *testing.T, filename, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), filename)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644), "Should create temp file successfully")
	return path
}

// CreatePromptDir lays out a prompts directory from filename to content
// pairs and returns the directory path. Nested names create subdirectories.
func (f *FileHelpers) CreatePromptDir(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	for filename, content := range files {
		path := filepath.Join(dir, filename)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755), "Should create parent directory for %s", filename)
		require.NoError(t, os.WriteFile(path, []byte(content), 0644), "Should create file %s", filename)
	}
	return dir
}

// DurationPtr returns a pointer to d, for building expected results with
// present observed latencies.
func DurationPtr(d time.Duration) *time.Duration {
	return &d
}
