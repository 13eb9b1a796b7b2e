// Package logger provides namespaced debug logging gated by the DEBUG
// environment variable, in the style of the debug npm package.
//
// Namespaces are colon-separated, e.g. "workflow:graph". DEBUG holds a
// comma-separated pattern list: "*" enables everything, "workflow:*"
// enables a subtree, and a leading "-" excludes matches, e.g.
// "*,-workflow:cache". Output goes to stderr and is not part of any
// stability contract.
package logger

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"
)

// Logger emits debug lines for a single namespace when enabled.
type Logger struct {
	namespace string

	mu   sync.Mutex
	last time.Time
}

var (
	registryMu sync.Mutex
	registry   = make(map[string]*Logger)
)

// New returns the logger for the given namespace, creating it on first
// use. Loggers are cached so elapsed-time state is shared across call
// sites using the same namespace.
func New(namespace string) *Logger {
	registryMu.Lock()
	defer registryMu.Unlock()
	if l, ok := registry[namespace]; ok {
		return l
	}
	l := &Logger{namespace: namespace}
	registry[namespace] = l
	return l
}

// Enabled reports whether the DEBUG environment variable selects this
// logger's namespace. DEBUG is consulted on every call so tests can
// toggle it at runtime.
func (l *Logger) Enabled() bool {
	return namespaceEnabled(l.namespace)
}

// Printf writes a formatted line to stderr when the logger is enabled.
func (l *Logger) Printf(format string, args ...any) {
	if !l.Enabled() {
		return
	}
	fmt.Fprintf(os.Stderr, "%s %s\n", l.namespace, fmt.Sprintf(format, args...))
}

// Print concatenates its arguments like fmt.Sprint and appends the time
// elapsed since this logger's previous Print.
func (l *Logger) Print(args ...any) {
	if !l.Enabled() {
		return
	}

	l.mu.Lock()
	now := time.Now()
	var elapsed time.Duration
	if !l.last.IsZero() {
		elapsed = now.Sub(l.last)
	}
	l.last = now
	l.mu.Unlock()

	fmt.Fprintf(os.Stderr, "%s %s +%s\n", l.namespace, fmt.Sprint(args...), formatElapsed(elapsed))
}

func formatElapsed(d time.Duration) string {
	if d == 0 {
		return "0ns"
	}
	return d.String()
}

// namespaceEnabled evaluates the DEBUG pattern list against a namespace.
// Exclusion patterns win over inclusions regardless of order.
func namespaceEnabled(namespace string) bool {
	value := os.Getenv("DEBUG")
	if value == "" {
		return false
	}

	matched := false
	for _, pattern := range strings.Split(value, ",") {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			continue
		}
		negate := strings.HasPrefix(pattern, "-")
		if negate {
			pattern = pattern[1:]
		}
		if !matchPattern(pattern, namespace) {
			continue
		}
		if negate {
			return false
		}
		matched = true
	}
	return matched
}

func matchPattern(pattern, namespace string) bool {
	if pattern == "*" {
		return true
	}
	if strings.HasSuffix(pattern, "*") {
		return strings.HasPrefix(namespace, strings.TrimSuffix(pattern, "*"))
	}
	return pattern == namespace
}
