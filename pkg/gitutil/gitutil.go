// Package gitutil shells out to git for the information the local runner
// needs: the diff base ref and the list of files changed against it.
package gitutil

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/dryflow/dryflow/pkg/constants"
	"github.com/dryflow/dryflow/pkg/logger"
)

var log = logger.New("gitutil:gitutil")

// ResolveBaseRef picks the diff base: the explicit flag value when
// given, otherwise the GITHUB_BASE_REF environment variable, otherwise
// the default branch name.
func ResolveBaseRef(flagValue string) string {
	if flagValue != "" {
		log.Printf("Using base ref from flag: %s", flagValue)
		return flagValue
	}
	if env := os.Getenv(constants.BaseRefEnv); env != "" {
		log.Printf("Using base ref from %s: %s", constants.BaseRefEnv, env)
		return env
	}
	return constants.DefaultBaseRef
}

// ChangedFiles lists paths changed between origin/<baseRef> and HEAD,
// matching the diff the compiled path-check steps run. Paths are
// repo-relative, one per git name, empty lines dropped. A base ref that
// looks like a commit SHA is diffed directly without the origin/ prefix.
func ChangedFiles(baseRef string) ([]string, error) {
	if !InsideWorkTree() {
		return nil, fmt.Errorf("not inside a git work tree")
	}

	rangeSpec := fmt.Sprintf("origin/%s...HEAD", baseRef)
	if len(baseRef) >= 7 && IsHexString(baseRef) {
		rangeSpec = fmt.Sprintf("%s...HEAD", baseRef)
	}
	log.Printf("Listing changed files: %s", rangeSpec)

	out, err := exec.Command("git", "diff", "--name-only", rangeSpec).Output()
	if err != nil {
		return nil, fmt.Errorf("git diff --name-only %s: %w", rangeSpec, err)
	}

	var files []string
	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			files = append(files, line)
		}
	}
	log.Printf("Found %d changed files", len(files))
	return files, nil
}

// InsideWorkTree reports whether the current directory is inside a git
// work tree.
func InsideWorkTree() bool {
	out, err := exec.Command("git", "rev-parse", "--is-inside-work-tree").Output()
	if err != nil {
		return false
	}
	return strings.TrimSpace(string(out)) == "true"
}

// IsHexString checks if a string contains only hexadecimal characters.
// This is used to validate Git commit SHAs passed as base refs.
func IsHexString(s string) bool {
	if len(s) == 0 {
		return false
	}
	for _, c := range s {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') && (c < 'A' || c > 'F') {
			return false
		}
	}
	return true
}
