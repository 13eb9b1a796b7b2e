//go:build !integration

package testutil_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dryflow/dryflow/pkg/testutil"
)

func TestGetTestRunDirIsStable(t *testing.T) {
	dir := testutil.GetTestRunDir()

	_, err := os.Stat(dir)
	require.NoError(t, err)
	assert.Contains(t, dir, "test-runs")
	assert.Equal(t, dir, testutil.GetTestRunDir(), "repeated calls share one directory")
}

func TestTempDirIsWritable(t *testing.T) {
	dir := testutil.TempDir(t, "lock-output-*")

	assert.True(t, strings.HasPrefix(dir, testutil.GetTestRunDir()))
	assert.Contains(t, filepath.Base(dir), "lock-output-")

	path := filepath.Join(dir, "ci.lock.yml")
	require.NoError(t, os.WriteFile(path, []byte("jobs: {}\n"), 0o644))
	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestStripYAMLCommentHeader(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name: "strips generated-file header",
			input: `# This file was automatically generated by dryflow. DO NOT EDIT.
# Compiled from .github/ci/test.yml

jobs: {}`,
			expected: `jobs: {}`,
		},
		{
			name:     "no header untouched",
			input:    `jobs: {}`,
			expected: `jobs: {}`,
		},
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
		{
			name: "comment-only content untouched",
			input: `# nothing
# but comments`,
			expected: `# nothing
# but comments`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, testutil.StripYAMLCommentHeader(tt.input))
		})
	}
}
