// Package cli implements the simwatch command tree.
package cli

import (
	stderrors "errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/DeBrosOfficial/simwatch/pkg/config"
	"github.com/DeBrosOfficial/simwatch/pkg/errors"
	"github.com/DeBrosOfficial/simwatch/pkg/logging"
	"github.com/DeBrosOfficial/simwatch/pkg/observation"
	"github.com/DeBrosOfficial/simwatch/pkg/tracker"
)

// BuildInfo is the version metadata injected at build time.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

type globalFlags struct {
	configPath string
	logLevel   string
}

// NewRootCmd builds the simwatch command tree.
func NewRootCmd(info BuildInfo) *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:   "simwatch",
		Short: "Monitor the progress of running simulations",
		Long: "simwatch polls the solver logs of a batch of simulation cases and prints\n" +
			"the current step, simulated time, seconds per step and estimated completion time.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "config file (default ./simwatch.yaml or ~/.simwatch/simwatch.yaml)")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "override logging.level from the config")

	root.AddCommand(newWatchCmd(flags))
	root.AddCommand(newOnceCmd(flags))
	root.AddCommand(newParseCmd())
	root.AddCommand(newConfigCmd(flags))
	root.AddCommand(newVersionCmd(info))

	return root
}

// Execute runs the command tree with args and returns the process exit code.
func Execute(info BuildInfo, args []string, stdout, stderr io.Writer) int {
	root := NewRootCmd(info)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.Execute(); err != nil {
		if errors.IsCancelled(err) {
			return errors.ExitOK
		}
		reportError(stderr, err)
		return errors.ExitCode(err)
	}
	return errors.ExitOK
}

// reportError prints the failing case, the error message and, for typed
// errors that carry one, the root cause on a second line.
func reportError(w io.Writer, err error) {
	msg := errors.GetErrorMessage(err)
	if name, ok := errors.CaseName(err); ok {
		fmt.Fprintf(w, "❌ case %s: %s\n", name, msg)
	} else {
		fmt.Fprintf(w, "❌ %s\n", msg)
	}

	var typed errors.Error
	if stderrors.As(err, &typed) && typed.Unwrap() != nil {
		fmt.Fprintf(w, "   cause: %v\n", errors.Cause(err))
	}
}

// loadConfig resolves, decodes and validates the configuration. Every
// validation problem is written to w before the aggregated error is returned.
func loadConfig(flags *globalFlags, w io.Writer) (*config.Config, string, error) {
	path, err := config.DefaultPath(flags.configPath)
	if err != nil {
		return nil, "", errors.NewConfigError(flags.configPath, err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, path, err
	}
	if flags.logLevel != "" {
		cfg.Logging.Level = flags.logLevel
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintf(w, "  - %v\n", e)
		}
		return nil, path, errors.NewValidationError("", fmt.Sprintf("%s has %d problem(s)", path, len(errs)), len(errs))
	}
	return cfg, path, nil
}

// newLogger builds the run logger. quiet discards console output that would
// otherwise corrupt a full-screen display.
func newLogger(cfg *config.Config, quiet bool) (*logging.ColoredLogger, error) {
	opts := logging.Options{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		OutputFile: cfg.Logging.OutputFile,
		Colors:     true,
	}
	if quiet && opts.OutputFile == "" {
		opts.Output = io.Discard
	}
	logger, err := logging.New(opts)
	if err != nil {
		return nil, errors.NewValidationError("logging", err.Error(), cfg.Logging)
	}
	return logger, nil
}

// buildCases creates one tracker per configured case, all sharing a single
// extractor.
func buildCases(cfg *config.Config, logger *logging.ColoredLogger) ([]*tracker.Case, error) {
	ex, err := observation.New(cfg.Extractor, logger)
	if err != nil {
		return nil, errors.NewValidationError("extractor", err.Error(), cfg.Extractor)
	}

	settings := cfg.TrackerSettings()
	cases := make([]*tracker.Case, 0, len(cfg.Cases))
	for _, spec := range cfg.Specs() {
		cases = append(cases, tracker.NewCase(spec, settings, ex, tracker.WithLogger(logger)))
	}

	logger.ComponentInfo(logging.ComponentConfig, "Cases loaded",
		zap.Int("cases", len(cases)),
		zap.String("root_dir", settings.RootDir),
		zap.String("extractor", cfg.Extractor),
		zap.String("elapsed", string(settings.Elapsed)))
	return cases, nil
}
