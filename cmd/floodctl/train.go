package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/flood-risk-service/internal/dataset"
	"github.com/couchcryptid/flood-risk-service/internal/ml"
	"github.com/couchcryptid/flood-risk-service/internal/pipeline"
)

func preprocessCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "preprocess",
		Short: "Fit and save the station encoder and feature scaler",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			split, err := runPreprocess(cmd, opts)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Preprocessors saved to %s (train %d, test %d)\n",
				opts.modelDir, len(split.TrainX), len(split.TestX))
			return nil
		},
	}
}

func trainCommand(opts *options) *cobra.Command {
	forest := ml.DefaultForestConfig()

	cmd := &cobra.Command{
		Use:   "train",
		Short: "Preprocess the corpus, fit the random forest and save every artifact",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			split, err := runPreprocess(cmd, opts)
			if err != nil {
				return err
			}

			trainer := pipeline.NewTrainer(opts.store(), forest, opts.logger)
			_, report, err := trainer.Train(cmd.Context(), split)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Model accuracy: %.4f\n", report.Accuracy)
			return nil
		},
	}

	cmd.Flags().IntVar(&forest.NTrees, "trees", forest.NTrees, "number of trees")
	cmd.Flags().Uint64Var(&forest.Seed, "seed", forest.Seed, "training seed")
	cmd.Flags().IntVar(&forest.Workers, "workers", 0, "concurrent tree fits (0 means GOMAXPROCS)")
	return cmd
}

func runPreprocess(cmd *cobra.Command, opts *options) (pipeline.Split, error) {
	fit, err := opts.fitMode()
	if err != nil {
		return pipeline.Split{}, err
	}
	corpus, err := dataset.LoadFile(opts.dataPath)
	if err != nil {
		return pipeline.Split{}, err
	}
	return pipeline.NewPreprocessor(opts.store(), fit, opts.logger).FitTransformSplit(cmd.Context(), corpus)
}
