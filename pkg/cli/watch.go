package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/DeBrosOfficial/simwatch/pkg/config"
	"github.com/DeBrosOfficial/simwatch/pkg/errors"
	"github.com/DeBrosOfficial/simwatch/pkg/logging"
	"github.com/DeBrosOfficial/simwatch/pkg/monitor"
	"github.com/DeBrosOfficial/simwatch/pkg/status"
)

type watchOptions struct {
	tui       bool
	plain     bool
	policy    string
	maxCycles uint64
}

func newWatchCmd(flags *globalFlags) *cobra.Command {
	opts := &watchOptions{}

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Poll every case until interrupted",
		Long: "Refresh every configured case once per poll interval and redraw the status table.\n" +
			"With failure_policy abort the first failing case stops the monitor.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, flags, opts)
		},
	}
	cmd.Flags().BoolVar(&opts.tui, "tui", false, "use the interactive dashboard")
	cmd.Flags().BoolVar(&opts.plain, "plain", false, "force the plain console table")
	cmd.Flags().StringVar(&opts.policy, "policy", "", "override failure_policy (abort, isolate)")
	cmd.Flags().Uint64Var(&opts.maxCycles, "cycles", 0, "stop after this many cycles (0 runs until interrupted)")
	cmd.MarkFlagsMutuallyExclusive("tui", "plain")

	return cmd
}

func runWatch(cmd *cobra.Command, flags *globalFlags, opts *watchOptions) error {
	cfg, path, err := loadConfig(flags, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	if opts.policy != "" {
		cfg.FailurePolicy = opts.policy
		if errs := cfg.Validate(); len(errs) > 0 {
			return errors.NewValidationError("failure_policy", errs[0].Error(), opts.policy)
		}
	}

	display := cfg.Display
	switch {
	case opts.tui:
		display = config.DisplayTUI
	case opts.plain:
		display = config.DisplayPlain
	}

	logger, err := newLogger(cfg, display == config.DisplayTUI)
	if err != nil {
		return err
	}
	defer logger.Sync()

	cases, err := buildCases(cfg, logger)
	if err != nil {
		return err
	}
	logger.ComponentInfo(logging.ComponentCLI, "Watching cases",
		zap.String("config", path),
		zap.String("display", display))

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	monitorOpts := monitor.Options{
		Interval:  cfg.PollInterval,
		Policy:    monitor.FailurePolicy(cfg.FailurePolicy),
		MaxCycles: opts.maxCycles,
		Logger:    logger,
	}

	if display == config.DisplayTUI {
		logger.ComponentInfo(logging.ComponentDisplay, "Starting dashboard")
		err = status.RunDashboard(ctx, func(ctx context.Context, r monitor.Renderer) error {
			monitorOpts.Renderer = r
			return monitor.New(cases, monitorOpts).Run(ctx)
		})
	} else {
		logger.ComponentDebug(logging.ComponentDisplay, "Rendering plain table")
		monitorOpts.Renderer = status.NewPlainRenderer(cmd.OutOrStdout(), true)
		err = monitor.New(cases, monitorOpts).Run(ctx)
	}

	if errors.IsCancelled(err) {
		logger.ComponentInfo(logging.ComponentCLI, "Interrupted, exiting")
		return nil
	}
	return err
}
