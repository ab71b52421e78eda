package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/flood-risk-service/internal/domain"
	"github.com/couchcryptid/flood-risk-service/internal/pipeline"
)

// sampleRow is the July 2025 Barisal monsoon observation scored when no row
// is given.
var sampleRow = domain.FeatureRow{
	StationName:      "Barisal",
	Year:             2025,
	Month:            7,
	MaxTemp:          34.5,
	MinTemp:          26.5,
	Rainfall:         400,
	RelativeHumidity: 85,
	WindSpeed:        1.5,
	CloudCoverage:    4.5,
	BrightSunshine:   6.5,
	StationNumber:    41950,
	XCor:             536809.8,
	YCor:             510151.9,
	Latitude:         22.7,
	Longitude:        90.36,
	Alt:              4,
	Period:           2025.07,
}

func predictCommand(opts *options) *cobra.Command {
	var (
		rowPath string
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Score one observation with the saved model",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			row := sampleRow
			if rowPath != "" {
				data, err := os.ReadFile(rowPath)
				if err != nil {
					return fmt.Errorf("read row: %w", err)
				}
				row, err = domain.ParseFeatureRow(data)
				if err != nil {
					return err
				}
			}

			set, err := opts.store().Load()
			if err != nil {
				return err
			}
			predictor, err := pipeline.NewPredictor(set)
			if err != nil {
				return err
			}

			label, probability, err := predictor.Predict(row)
			if err != nil {
				return err
			}
			assessment := domain.NewRiskAssessment(row, label, probability)

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(assessment)
			}
			fmt.Fprintf(out, "Flood Prediction: %s (Risk: %.2f%%)\n", assessment.FloodPrediction, assessment.RiskPercentage)
			return nil
		},
	}

	cmd.Flags().StringVar(&rowPath, "row", "", "JSON file with one observation keyed by column name")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full assessment as JSON")
	return cmd
}
