package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/DeBrosOfficial/simwatch/pkg/observation"
)

func newParseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse <line>",
		Short: "Parse a solver log line",
		Long:  "Check whether a log line matches the TimeStep grammar and print the extracted step and time.",
		Example: `  simwatch parse "TimeStep   1234: Time   6.1700e+01"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			obs, err := observation.Parse(strings.Join(args, " "))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "step: %d\n", obs.Step)
			fmt.Fprintf(out, "time: %.4e\n", obs.Time)
			return nil
		},
	}
}
