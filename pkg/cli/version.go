package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/dryflow/dryflow/pkg/constants"
)

// NewVersionCommand creates the version command. The version string is
// injected by the build.
func NewVersionCommand(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the " + string(constants.CLIExtensionPrefix) + " version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s %s (%s/%s)\n", constants.CLIExtensionPrefix, version, runtime.GOOS, runtime.GOARCH)
		},
	}
}
