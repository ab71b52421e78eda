package ml

import (
	"fmt"
	"math"

	"github.com/couchcryptid/flood-risk-service/internal/domain"
)

// StandardScaler standardizes each column to zero mean and unit variance using
// the population standard deviation. Columns with zero variance keep a scale
// of 1 so they are only centred.
type StandardScaler struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

// FitStandardScaler computes per-column mean and standard deviation.
func FitStandardScaler(x [][]float64) (*StandardScaler, error) {
	if len(x) == 0 {
		return nil, fmt.Errorf("%w: cannot fit scaler on an empty matrix", domain.ErrDataFormat)
	}
	width := len(x[0])
	if err := checkWidth(x, width); err != nil {
		return nil, err
	}

	n := float64(len(x))
	mean := make([]float64, width)
	for _, row := range x {
		for j, v := range row {
			mean[j] += v
		}
	}
	for j := range mean {
		mean[j] /= n
	}

	scale := make([]float64, width)
	for _, row := range x {
		for j, v := range row {
			d := v - mean[j]
			scale[j] += d * d
		}
	}
	for j := range scale {
		scale[j] = math.Sqrt(scale[j] / n)
		if scale[j] == 0 {
			scale[j] = 1
		}
	}

	return &StandardScaler{Mean: mean, Scale: scale}, nil
}

// Width returns the number of columns the scaler was fitted on.
func (s *StandardScaler) Width() int { return len(s.Mean) }

// Transform scales a single row. The row must have the fitted width.
func (s *StandardScaler) Transform(row []float64) ([]float64, error) {
	if len(row) != len(s.Mean) {
		return nil, fmt.Errorf("%w: scaler expects %d columns, got %d", domain.ErrDataFormat, len(s.Mean), len(row))
	}
	out := make([]float64, len(row))
	for j, v := range row {
		out[j] = (v - s.Mean[j]) / s.Scale[j]
	}
	return out, nil
}

// TransformAll scales every row of x.
func (s *StandardScaler) TransformAll(x [][]float64) ([][]float64, error) {
	out := make([][]float64, len(x))
	for i, row := range x {
		scaled, err := s.Transform(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		out[i] = scaled
	}
	return out, nil
}

func checkWidth(x [][]float64, width int) error {
	for i, row := range x {
		if len(row) != width {
			return fmt.Errorf("%w: row %d has %d columns, expected %d", domain.ErrDataFormat, i, len(row), width)
		}
	}
	return nil
}
