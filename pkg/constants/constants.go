// Package constants centralizes names shared across the compiler and the
// CLI: directory conventions, environment variables, generated-step
// markers, and output keys.
package constants

type cliName string

// CLIExtensionPrefix is the command prefix shown in usage examples.
const CLIExtensionPrefix cliName = "dryflow"

const (
	// SourceDir is where workflow source documents live by convention.
	SourceDir = ".github/ci"

	// LockFileSuffix is appended to a source name ("ci.yml" becomes
	// "ci.lock.yml") for compiled output.
	LockFileSuffix = ".lock.yml"

	// CheckoutSetupName is the privileged setup group that fetches the
	// repository. It is never gated behind a path condition and path
	// conditions never propagate through it.
	CheckoutSetupName = "checkout"

	// ChangedOutputKey is the step output written by generated
	// path-check steps: "true" when any matching file changed.
	ChangedOutputKey = "changed"

	// BaseRefEnv names the environment variable carrying the diff base
	// branch; DefaultBaseRef applies when it is unset.
	BaseRefEnv     = "GITHUB_BASE_REF"
	DefaultBaseRef = "main"

	// OutputFileEnv names the file steps append "key=value" output
	// lines to.
	OutputFileEnv = "GITHUB_OUTPUT"

	// FatalMarkerPrefix marks an output line that fails the step even
	// when its process exits zero.
	FatalMarkerPrefix = "::error"

	// GroupStartPrefix and GroupEndMarker delimit multi-step setup
	// blocks in compiled output so logs fold them as a unit.
	GroupStartPrefix = "::group::"
	GroupEndMarker   = "::endgroup::"
)

// Environment knobs read by the CLI.
const (
	// MaxParallelEnv caps concurrent file compilations.
	MaxParallelEnv     = "DRYFLOW_MAX_PARALLEL"
	DefaultMaxParallel = 4

	// NoColorEnv disables styled output when set.
	NoColorEnv = "DRYFLOW_NO_COLOR"
)

// GetSourceDir returns the directory scanned for workflow sources.
func GetSourceDir() string {
	return SourceDir
}
