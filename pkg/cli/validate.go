package cli

import (
	"fmt"
	"io"

	"github.com/rhysd/actionlint"

	"github.com/dryflow/dryflow/pkg/console"
	"github.com/dryflow/dryflow/pkg/logger"
	"github.com/dryflow/dryflow/pkg/parser"
)

var validateLog = logger.New("cli:validate")

// validateCompiledYAML lints emitted workflow YAML with actionlint and
// reports findings as positioned compiler errors. Findings fail the
// compile so broken output never lands in a lock file.
func validateCompiledYAML(path string, content []byte) error {
	linter, err := actionlint.NewLinter(io.Discard, &actionlint.LinterOptions{})
	if err != nil {
		return fmt.Errorf("initializing actionlint: %w", err)
	}

	findings, err := linter.Lint(path, content, nil)
	if err != nil {
		return fmt.Errorf("linting %s: %w", path, err)
	}
	validateLog.Printf("actionlint: %d findings for %s", len(findings), path)
	if len(findings) == 0 {
		return nil
	}

	for _, finding := range findings {
		compErr := console.CompilerError{
			Position: console.ErrorPosition{
				File:   path,
				Line:   finding.Line,
				Column: finding.Column,
			},
			Type:    "error",
			Message: fmt.Sprintf("%s (%s)", finding.Message, finding.Kind),
			Context: parser.ContextLines(content, finding.Line),
		}
		fmt.Println(console.FormatError(compErr))
	}
	return fmt.Errorf("%s: %d actionlint findings", path, len(findings))
}
