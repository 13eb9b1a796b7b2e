// Package testutil provides shared helpers for tests: temp directories
// grouped under a per-run parent, and lock-file content normalization.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

var (
	testRunDirOnce sync.Once
	testRunDir     string
)

// GetTestRunDir returns a process-wide directory under the system temp
// root where this run's test directories are created. The same path is
// returned for every call, so artifacts from one test run stay grouped.
func GetTestRunDir() string {
	testRunDirOnce.Do(func() {
		testRunDir = filepath.Join(os.TempDir(), "dryflow", "test-runs",
			fmt.Sprintf("run-%d-%d", os.Getpid(), time.Now().UnixNano()))
		if err := os.MkdirAll(testRunDir, 0o755); err != nil {
			// Fall back to the system temp dir rather than failing the
			// caller here; MkdirTemp will surface the real error.
			testRunDir = os.TempDir()
		}
	})
	return testRunDir
}

// TempDir creates a temp directory under GetTestRunDir using pattern
// (os.MkdirTemp semantics) and removes it when the test finishes.
func TempDir(t *testing.T, pattern string) string {
	t.Helper()
	dir, err := os.MkdirTemp(GetTestRunDir(), pattern)
	if err != nil {
		t.Fatalf("failed to create temp directory: %v", err)
	}
	t.Cleanup(func() {
		os.RemoveAll(dir)
	})
	return dir
}

// StripYAMLCommentHeader removes the leading comment block (and any
// blank lines) from compiled lock-file content so tests can compare the
// YAML body alone. Content that is nothing but comments is returned
// unchanged.
func StripYAMLCommentHeader(content string) string {
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		return strings.Join(lines[i:], "\n")
	}
	return content
}
