package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/flood-risk-service/internal/dataset"
	"github.com/couchcryptid/flood-risk-service/internal/domain"
	"github.com/couchcryptid/flood-risk-service/internal/ml"
	"github.com/couchcryptid/flood-risk-service/internal/pipeline"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

// maxReported caps the per-phase error listing.
const maxReported = 10

func validateCommand(opts *options) *cobra.Command {
	var minAccuracy float64

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check that the saved artifacts load together and agree with the corpus",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "=== Flood Model Validation ===")
			fmt.Fprintln(out)

			artifacts := &phase{name: "Artifacts load and agree"}
			phases := []*phase{artifacts}

			var predictor *pipeline.Predictor
			set, err := opts.store().Load()
			if err != nil {
				artifacts.errorf("%v", err)
			} else if predictor, err = pipeline.NewPredictor(set); err != nil {
				artifacts.errorf("%v", err)
			}

			corpus, err := dataset.LoadFile(opts.dataPath)
			switch {
			case errors.Is(err, fs.ErrNotExist):
				fmt.Fprintf(out, "Corpus %s not found, skipping corpus checks.\n\n", opts.dataPath)
			case err != nil:
				p := &phase{name: "Corpus readable"}
				p.errorf("%v", err)
				phases = append(phases, p)
			case predictor != nil:
				vocab, scoring := checkCorpus(corpus, set.Encoder, predictor, minAccuracy, out)
				phases = append(phases, vocab, scoring)
			}

			if report(out, phases) {
				fmt.Fprintln(out, "\nAll validations passed.")
				return nil
			}
			fmt.Fprintln(out, "\nValidation FAILED.")
			return errors.New("validation failed")
		},
	}

	cmd.Flags().Float64Var(&minAccuracy, "min-accuracy", 0, "fail when accuracy over the corpus is below this value")
	return cmd
}

// checkCorpus verifies every corpus station is in the encoder vocabulary and
// scores every row.
func checkCorpus(corpus *dataset.Corpus, encoder *ml.LabelEncoder, predictor *pipeline.Predictor, minAccuracy float64, out io.Writer) (*phase, *phase) {
	vocab := &phase{name: "Corpus stations known to encoder"}
	scoring := &phase{name: "Corpus rows score"}

	stations, err := corpus.Strings(domain.ColStationName)
	if err != nil {
		vocab.errorf("%v", err)
		return vocab, scoring
	}
	seen := make(map[string]bool)
	for _, s := range stations {
		if seen[s] {
			continue
		}
		seen[s] = true
		if _, err := encoder.Transform(s); err != nil {
			vocab.errorf("%v", err)
		}
	}

	labels, err := corpus.Ints(domain.ColLabel)
	if err != nil {
		scoring.errorf("%v", err)
		return vocab, scoring
	}
	columns := domain.NumericColumns()
	values := make([][]float64, len(columns))
	for i, col := range columns {
		if values[i], err = corpus.Floats(col); err != nil {
			scoring.errorf("%v", err)
			return vocab, scoring
		}
	}

	var truth, predicted []int
	for r := range stations {
		numeric := make([]float64, len(columns))
		for i := range columns {
			numeric[i] = values[i][r]
		}
		row, err := domain.NewFeatureRow(stations[r], numeric)
		if err == nil {
			var label int
			label, _, err = predictor.Predict(row)
			if err == nil {
				truth = append(truth, labels[r])
				predicted = append(predicted, label)
				continue
			}
		}
		scoring.errorf("row %d: %v", r, err)
	}

	accuracy := ml.Accuracy(truth, predicted)
	fmt.Fprintf(out, "Scored %d of %d corpus rows, accuracy %.4f\n\n", len(predicted), len(stations), accuracy)
	if accuracy < minAccuracy {
		scoring.errorf("accuracy %.4f is below %.4f", accuracy, minAccuracy)
	}
	return vocab, scoring
}

func report(out io.Writer, phases []*phase) bool {
	allPassed := true
	for _, p := range phases {
		status := "PASS"
		if !p.passed() {
			status = fmt.Sprintf("FAIL (%d errors)", len(p.errors))
			allPassed = false
		}
		fmt.Fprintf(out, "  %-42s %s\n", p.name, status)
	}

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Fprintf(out, "\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			if i == maxReported {
				fmt.Fprintf(out, "  ... %d more\n", len(p.errors)-maxReported)
				break
			}
			fmt.Fprintf(out, "  [%d] %s\n", i+1, e)
		}
	}
	return allPassed
}
