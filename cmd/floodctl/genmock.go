package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/flood-risk-service/internal/dataset"
)

func genmockCommand(opts *options) *cobra.Command {
	var (
		rows int
		seed uint64
		out  string
	)

	cmd := &cobra.Command{
		Use:   "genmock",
		Short: "Write a synthetic training corpus",
		Long:  "Generates monthly observations for the Bangladesh weather stations with a rainfall and humidity driven flood label.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if rows <= 0 {
				return fmt.Errorf("rows must be positive, got %d", rows)
			}
			if out == "" {
				out = opts.dataPath
			}
			if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
				return fmt.Errorf("create output dir: %w", err)
			}

			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("create %s: %w", out, err)
			}
			records := dataset.GenerateMock(rows, seed)
			if err := dataset.WriteMockCSV(f, records); err != nil {
				f.Close()
				return fmt.Errorf("write %s: %w", out, err)
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("close %s: %w", out, err)
			}

			floods := 0
			for _, r := range records {
				floods += r.Flood
			}
			opts.logger.Info("mock corpus written", "path", out, "rows", len(records), "floods", floods)
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d rows (%d floods) to %s\n", len(records), floods, out)
			return nil
		},
	}

	cmd.Flags().IntVar(&rows, "rows", 2000, "number of rows to generate")
	cmd.Flags().Uint64Var(&seed, "seed", 1, "generator seed")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output path (defaults to --data)")
	return cmd
}
