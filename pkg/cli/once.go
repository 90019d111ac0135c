package cli

import (
	"github.com/spf13/cobra"

	"github.com/DeBrosOfficial/simwatch/pkg/errors"
	"github.com/DeBrosOfficial/simwatch/pkg/monitor"
	"github.com/DeBrosOfficial/simwatch/pkg/status"
)

func newOnceCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "once",
		Short: "Run one refresh cycle and print the table",
		Long: "Read every case log once and print the status table. Averages need two\n" +
			"observations, so this mostly checks that every log path resolves and parses.\n" +
			"All cases are read even if some fail; the first failure sets the exit code.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig(flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			logger, err := newLogger(cfg, false)
			if err != nil {
				return err
			}
			defer logger.Sync()

			cases, err := buildCases(cfg, logger)
			if err != nil {
				return err
			}

			m := monitor.New(cases, monitor.Options{
				Interval: cfg.PollInterval,
				Policy:   monitor.PolicyIsolate,
				Logger:   logger,
			})
			report, err := m.RunCycle(cmd.Context())
			if err != nil {
				return err
			}
			if err := status.NewPlainRenderer(cmd.OutOrStdout(), false).Render(report); err != nil {
				return err
			}

			for _, s := range report.Cases {
				if s.Err != nil {
					return errors.WithCase(s.Name, s.Err)
				}
			}
			return nil
		},
	}
}
