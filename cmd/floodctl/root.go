package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/flood-risk-service/internal/artifact"
	"github.com/couchcryptid/flood-risk-service/internal/config"
	"github.com/couchcryptid/flood-risk-service/internal/observability"
	"github.com/couchcryptid/flood-risk-service/internal/pipeline"
)

// options holds the flags shared by every subcommand.
type options struct {
	modelDir  string
	dataPath  string
	scalerFit string
	logLevel  string
	logFormat string

	logger *slog.Logger
}

func (o *options) store() *artifact.Store {
	return artifact.NewStore(o.modelDir)
}

func (o *options) fitMode() (pipeline.ScalerFit, error) {
	switch o.scalerFit {
	case config.ScalerFitAll, config.ScalerFitTrain:
		return pipeline.ScalerFit(o.scalerFit), nil
	default:
		return "", fmt.Errorf("invalid scaler fit %q: must be %q or %q", o.scalerFit, config.ScalerFitAll, config.ScalerFitTrain)
	}
}

// newRootCmd builds the command tree. Flag defaults come from cfg so the
// environment and .env apply unless overridden on the command line.
func newRootCmd(cfg *config.Config) *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "floodctl",
		Short:         "Train and exercise the flood risk model",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			opts.logger = observability.NewLoggerWithWriter(cmd.ErrOrStderr(), opts.logLevel, opts.logFormat)
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.modelDir, "model-dir", cfg.ModelDir, "directory holding the encoder, scaler and model artifacts")
	flags.StringVar(&opts.dataPath, "data", cfg.DataPath, "training corpus CSV")
	flags.StringVar(&opts.scalerFit, "scaler-fit", cfg.ScalerFit, "rows the scaler is fitted on: all or train")
	flags.StringVar(&opts.logLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn, error")
	flags.StringVar(&opts.logFormat, "log-format", cfg.LogFormat, "log format: json or text")

	root.AddCommand(
		genmockCommand(opts),
		preprocessCommand(opts),
		trainCommand(opts),
		predictCommand(opts),
		validateCommand(opts),
	)
	return root
}
