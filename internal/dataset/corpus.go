// Package dataset loads the flood training corpus and derives the station
// analytics served by the API.
package dataset

import (
	"fmt"
	"io"
	"math"
	"os"
	"slices"
	"strings"

	"github.com/go-gota/gota/dataframe"

	"github.com/couchcryptid/flood-risk-service/internal/domain"
)

// Corpus is a loaded training CSV.
type Corpus struct {
	df dataframe.DataFrame
}

// ReadCSV parses a corpus with a header row. Column types are detected from
// the data.
func ReadCSV(r io.Reader) (*Corpus, error) {
	df := dataframe.ReadCSV(r, dataframe.HasHeader(true), dataframe.DetectTypes(true))
	if df.Err != nil {
		return nil, fmt.Errorf("%w: read corpus: %v", domain.ErrDataFormat, df.Err)
	}
	return &Corpus{df: df}, nil
}

// LoadFile opens and parses a corpus file.
func LoadFile(path string) (*Corpus, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open corpus: %w", err)
	}
	defer f.Close()
	return ReadCSV(f)
}

// FromDataFrame wraps an existing dataframe.
func FromDataFrame(df dataframe.DataFrame) *Corpus {
	return &Corpus{df: df}
}

// Len returns the number of rows.
func (c *Corpus) Len() int { return c.df.Nrow() }

// Columns returns the column names in file order.
func (c *Corpus) Columns() []string { return c.df.Names() }

// HasColumn reports whether name is a column.
func (c *Corpus) HasColumn(name string) bool {
	return slices.Contains(c.df.Names(), name)
}

// Require fails with domain.ErrDataFormat naming the first missing column.
func (c *Corpus) Require(names ...string) error {
	for _, name := range names {
		if !c.HasColumn(name) {
			return fmt.Errorf("%w: missing column %q", domain.ErrDataFormat, name)
		}
	}
	return nil
}

// Without returns a corpus without the named column. It is a no-op when the
// column is absent.
func (c *Corpus) Without(name string) *Corpus {
	if !c.HasColumn(name) {
		return c
	}
	return &Corpus{df: c.df.Drop(name)}
}

// Strings returns a column's values as text. Empty cells are rejected.
func (c *Corpus) Strings(name string) ([]string, error) {
	if err := c.Require(name); err != nil {
		return nil, err
	}
	col := c.df.Col(name)
	values := col.Records()
	for i, isNaN := range col.IsNaN() {
		if isNaN || strings.TrimSpace(values[i]) == "" {
			return nil, fmt.Errorf("%w: column %q row %d is empty", domain.ErrDataFormat, name, i)
		}
	}
	return values, nil
}

// Floats returns a column's values as numbers.
func (c *Corpus) Floats(name string) ([]float64, error) {
	if err := c.Require(name); err != nil {
		return nil, err
	}
	values := c.df.Col(name).Float()
	for i, v := range values {
		if math.IsNaN(v) {
			return nil, fmt.Errorf("%w: column %q row %d is missing or not numeric", domain.ErrDataFormat, name, i)
		}
	}
	return values, nil
}

// Ints returns a column's values as integers. Missing and fractional values
// are rejected.
func (c *Corpus) Ints(name string) ([]int, error) {
	if err := c.Require(name); err != nil {
		return nil, err
	}
	floats := c.df.Col(name).Float()
	values := make([]int, len(floats))
	for i, v := range floats {
		if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) {
			return nil, fmt.Errorf("%w: column %q row %d is not an integer", domain.ErrDataFormat, name, i)
		}
		values[i] = int(v)
	}
	return values, nil
}

// DataFrame exposes the underlying frame for aggregations.
func (c *Corpus) DataFrame() dataframe.DataFrame { return c.df }
