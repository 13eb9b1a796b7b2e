package workflow

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/dryflow/dryflow/pkg/constants"
	"github.com/dryflow/dryflow/pkg/logger"
	"github.com/dryflow/dryflow/pkg/stringutil"
)

var pathsLog = logger.New("workflow:paths")

// PathCheck is the compiled form of one deduplicated path-pattern set:
// a generated step that diffs against the base ref and emits a boolean
// "changed" output. Two steps requesting the identical pattern set share
// one check.
type PathCheck struct {
	ID       string   // generated step id, claimed from the registry
	Patterns []string // sorted, deduplicated
	Regex    string   // anchored alternation over the translated patterns
}

// pathNodeID derives the graph identity for a pattern set. The sorted,
// concatenated list makes identical sets collapse to one node.
func pathNodeID(patterns []string) string {
	return "paths-" + strings.Join(sortPatterns(patterns), ",")
}

func sortPatterns(patterns []string) []string {
	sorted := make([]string, 0, len(patterns))
	seen := make(map[string]bool, len(patterns))
	for _, p := range patterns {
		if !seen[p] {
			seen[p] = true
			sorted = append(sorted, p)
		}
	}
	sort.Strings(sorted)
	return sorted
}

// translateGlob converts one pattern of the supported glob subset to a
// regular expression fragment: `*` matches within a path segment,
// `**` and `**/*` match anything across segments, and literal dots are
// escaped. Runs of three or more stars are not part of the subset.
func translateGlob(pattern string) (string, error) {
	var b strings.Builder
	for i := 0; i < len(pattern); {
		switch pattern[i] {
		case '*':
			stars := 0
			for i+stars < len(pattern) && pattern[i+stars] == '*' {
				stars++
			}
			if stars > 2 {
				return "", fmt.Errorf("runs of three or more '*' are not supported")
			}
			if stars == 2 {
				if strings.HasPrefix(pattern[i+2:], "/*") && !strings.HasPrefix(pattern[i+2:], "/**") {
					b.WriteString(".*")
					i += 4
					continue
				}
				b.WriteString(".*")
				i += 2
				continue
			}
			b.WriteString("[^/]*")
			i++
		case '.':
			b.WriteString(`\.`)
			i++
		default:
			b.WriteByte(pattern[i])
			i++
		}
	}
	return b.String(), nil
}

// patternAlternation builds the anchored `^(p1|p2)$` regex the compiled
// shell check and the in-process matcher both use, so their matching
// semantics cannot drift apart.
func patternAlternation(sorted []string) (string, error) {
	parts := make([]string, len(sorted))
	for i, p := range sorted {
		translated, err := translateGlob(p)
		if err != nil {
			return "", &PatternError{Pattern: p, Reason: err.Error()}
		}
		parts[i] = translated
	}
	return "^(" + strings.Join(parts, "|") + ")$", nil
}

// newPathCheck compiles a pattern set into a check, claiming its step id
// from the compilation's registry. Identical content reuses the claimed
// id; a canonical-name collision with different content gets a numeric
// suffix.
func newPathCheck(patterns []string, ids *idRegistry) (*PathCheck, error) {
	sorted := sortPatterns(patterns)
	regex, err := patternAlternation(sorted)
	if err != nil {
		return nil, err
	}

	canonical := "changed"
	if slug := stringutil.Slugify(strings.Join(sorted, " ")); slug != "" {
		canonical = "changed-" + slug
	}
	id := ids.claim(canonical, regex)
	pathsLog.Printf("Compiled path check %s for %d patterns", id, len(sorted))

	return &PathCheck{ID: id, Patterns: sorted, Regex: regex}, nil
}

// checkStep renders the check as an emitted workflow step. The diff base
// comes from the environment at execution time, not compile time.
func (c *PathCheck) checkStep() *Step {
	script := fmt.Sprintf(`if git diff --name-only "origin/${%s:-%s}...HEAD" | grep -qE '%s'; then
  echo "%s=true" >> "$%s"
else
  echo "%s=false" >> "$%s"
fi`,
		constants.BaseRefEnv, constants.DefaultBaseRef, c.Regex,
		constants.ChangedOutputKey, constants.OutputFileEnv,
		constants.ChangedOutputKey, constants.OutputFileEnv)

	return &Step{
		ID:    c.ID,
		Name:  "Check paths: " + strings.Join(c.Patterns, ", "),
		Run:   script,
		Check: c,
	}
}

// Matcher evaluates a compiled check against a precomputed changed-file
// list, matching exactly what the emitted shell check matches.
type Matcher struct {
	re *regexp.Regexp
}

// Matcher compiles the check's pattern alternation for in-process use.
func (c *PathCheck) Matcher() (*Matcher, error) {
	re, err := regexp.Compile(c.Regex)
	if err != nil {
		return nil, fmt.Errorf("compiling path check %s: %w", c.ID, err)
	}
	return &Matcher{re: re}, nil
}

// NewMatcher builds a matcher straight from a pattern list.
func NewMatcher(patterns []string) (*Matcher, error) {
	regex, err := patternAlternation(sortPatterns(patterns))
	if err != nil {
		return nil, err
	}
	re, err := regexp.Compile(regex)
	if err != nil {
		return nil, err
	}
	return &Matcher{re: re}, nil
}

// Matches reports whether a single path matches the pattern set.
func (m *Matcher) Matches(path string) bool {
	return m.re.MatchString(path)
}

// AnyMatch reports whether any of the given paths matches.
func (m *Matcher) AnyMatch(paths []string) bool {
	for _, p := range paths {
		if m.re.MatchString(p) {
			return true
		}
	}
	return false
}
