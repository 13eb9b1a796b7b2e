//go:build !integration

package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnabledPatterns(t *testing.T) {
	tests := []struct {
		name      string
		debug     string
		namespace string
		enabled   bool
	}{
		{
			name:      "empty DEBUG disables everything",
			debug:     "",
			namespace: "workflow:graph",
			enabled:   false,
		},
		{
			name:      "star enables everything",
			debug:     "*",
			namespace: "workflow:graph",
			enabled:   true,
		},
		{
			name:      "namespace wildcard matches subtree",
			debug:     "workflow:*",
			namespace: "workflow:graph",
			enabled:   true,
		},
		{
			name:      "namespace wildcard does not match other trees",
			debug:     "workflow:*",
			namespace: "cli:compile",
			enabled:   false,
		},
		{
			name:      "exact namespace match",
			debug:     "cli:compile",
			namespace: "cli:compile",
			enabled:   true,
		},
		{
			name:      "comma separated patterns",
			debug:     "workflow:*,cli:*",
			namespace: "cli:run",
			enabled:   true,
		},
		{
			name:      "exclusion wins over star",
			debug:     "*,-workflow:graph",
			namespace: "workflow:graph",
			enabled:   false,
		},
		{
			name:      "exclusion only affects its match",
			debug:     "workflow:*,-workflow:cache",
			namespace: "workflow:graph",
			enabled:   true,
		},
		{
			name:      "exclusion listed first still wins",
			debug:     "-workflow:graph,*",
			namespace: "workflow:graph",
			enabled:   false,
		},
		{
			name:      "whitespace around patterns is ignored",
			debug:     " workflow:* , cli:run ",
			namespace: "cli:run",
			enabled:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("DEBUG", tt.debug)
			log := New(tt.namespace)
			assert.Equal(t, tt.enabled, log.Enabled())
		})
	}
}

func TestNewReturnsCachedLogger(t *testing.T) {
	a := New("logger:cache-check")
	b := New("logger:cache-check")
	assert.Same(t, a, b, "New should return the same logger for the same namespace")
}

func TestDisabledLoggerDoesNotPanic(t *testing.T) {
	t.Setenv("DEBUG", "")
	log := New("logger:disabled")
	assert.NotPanics(t, func() {
		log.Printf("formatted %d", 1)
		log.Print("plain")
	})
}
