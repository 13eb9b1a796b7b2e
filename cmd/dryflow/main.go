// Command dryflow compiles deduplicated workflow descriptions into flat
// CI lock files and can execute them locally.
package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dryflow/dryflow/pkg/cli"
	"github.com/dryflow/dryflow/pkg/console"
	"github.com/dryflow/dryflow/pkg/constants"
	"github.com/dryflow/dryflow/pkg/workflow"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   string(constants.CLIExtensionPrefix),
		Short: "Compile deduplicated workflow descriptions into flat CI workflows",
		Long: `dryflow compiles a higher-level workflow description (reusable setup
groups, per-step path conditions, early-bail conditions) into a flat,
directly executable CI workflow, and can run that description locally
by interpreting it and spawning shell processes.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(cli.NewCompileCommand())
	rootCmd.AddCommand(cli.NewRunCommand())
	rootCmd.AddCommand(cli.NewListCommand())
	rootCmd.AddCommand(cli.NewVersionCommand(version))

	if err := rootCmd.Execute(); err != nil {
		var unknown *workflow.UnknownSetupError
		if errors.As(err, &unknown) {
			var suggestions []string
			if unknown.Suggestion != "" {
				suggestions = append(suggestions, fmt.Sprintf("did you mean %q?", unknown.Suggestion))
			}
			if len(unknown.Known) > 0 {
				suggestions = append(suggestions, "known setup groups: "+strings.Join(unknown.Known, ", "))
			}
			msg := fmt.Sprintf("job %q references unknown setup %q", unknown.Job, unknown.Setup)
			fmt.Fprint(os.Stderr, console.FormatErrorWithSuggestions(msg, suggestions))
		} else {
			fmt.Fprintln(os.Stderr, console.FormatErrorMessage(err.Error()))
		}
		os.Exit(1)
	}
}
