package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newVersionCmd(info BuildInfo) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "simwatch %s", info.Version)
			if info.Commit != "" {
				fmt.Fprintf(out, " (commit %s)", info.Commit)
			}
			if info.Date != "" {
				fmt.Fprintf(out, " built %s", info.Date)
			}
			fmt.Fprintln(out)
		},
	}
}
