//go:build !integration

package stringutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSourceToLockFile(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		expected string
	}{
		{
			name:     "yml extension",
			source:   ".github/ci/ci.yml",
			expected: ".github/ci/ci.lock.yml",
		},
		{
			name:     "yaml extension",
			source:   ".github/ci/release.yaml",
			expected: ".github/ci/release.lock.yml",
		},
		{
			name:     "bare name",
			source:   "pipeline",
			expected: "pipeline.lock.yml",
		},
		{
			name:     "dot in directory name",
			source:   "a.b/ci.yml",
			expected: "a.b/ci.lock.yml",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SourceToLockFile(tt.source))
		})
	}
}

func TestIsLockFile(t *testing.T) {
	assert.True(t, IsLockFile("ci.lock.yml"))
	assert.True(t, IsLockFile(".github/ci/ci.lock.yml"))
	assert.False(t, IsLockFile("ci.yml"))
	assert.False(t, IsLockFile("ci.lock.yaml"))
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "already a slug",
			input:    "unit-tests",
			expected: "unit-tests",
		},
		{
			name:     "glob patterns",
			input:    "src/**/*.js",
			expected: "src-js",
		},
		{
			name:     "uppercase and spaces",
			input:    "Install Node 20",
			expected: "install-node-20",
		},
		{
			name:     "collapses runs of separators",
			input:    "a//--b",
			expected: "a-b",
		},
		{
			name:     "strips leading and trailing separators",
			input:    "*.go",
			expected: "go",
		},
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Slugify(tt.input))
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "exact", Truncate("exact", 5))
	assert.Equal(t, "long st...", Truncate("long string here", 10))
	assert.Equal(t, "ab", Truncate("abcdef", 2))
}
