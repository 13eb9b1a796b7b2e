//go:build !integration

package logger_test

import (
	"fmt"
	"os"

	"github.com/dryflow/dryflow/pkg/logger"
)

// Example functions have no *testing.T, so they set DEBUG with
// os.Setenv directly instead of t.Setenv.

func ExampleNew() {
	os.Setenv("DEBUG", "workflow:*")
	defer os.Unsetenv("DEBUG")

	log := logger.New("workflow:paths")

	if log.Enabled() {
		fmt.Println("Logger is enabled")
	}

	// Output: Logger is enabled
}

func ExampleLogger_Printf() {
	os.Setenv("DEBUG", "*")
	defer os.Unsetenv("DEBUG")

	log := logger.New("workflow:compiler")

	log.Printf("Compiled %d jobs", 3)

	// Output to stderr: workflow:compiler Compiled 3 jobs
}

func ExampleNew_patterns() {
	// DEBUG selects namespaces with glob-style patterns.

	// Everything
	os.Setenv("DEBUG", "*")

	// One package family
	os.Setenv("DEBUG", "workflow:*")

	// Several families
	os.Setenv("DEBUG", "workflow:*,cli:*")

	// Everything except one namespace
	os.Setenv("DEBUG", "*,-cli:runner")

	defer os.Unsetenv("DEBUG")
}
