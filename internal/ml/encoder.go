package ml

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/couchcryptid/flood-risk-service/internal/domain"
)

// LabelEncoder maps a closed vocabulary of strings to the integers
// 0..len(Classes)-1. Classes are kept sorted; a value's code is its position.
type LabelEncoder struct {
	Classes []string `json:"classes"`
	index   map[string]int
}

// FitLabelEncoder builds an encoder over the distinct values observed.
func FitLabelEncoder(values []string) *LabelEncoder {
	classes := slices.Clone(values)
	slices.Sort(classes)
	return NewLabelEncoder(slices.Compact(classes))
}

// NewLabelEncoder builds an encoder from an already sorted, duplicate-free
// class list.
func NewLabelEncoder(classes []string) *LabelEncoder {
	e := &LabelEncoder{Classes: classes}
	e.buildIndex()
	return e
}

func (e *LabelEncoder) buildIndex() {
	e.index = make(map[string]int, len(e.Classes))
	for i, c := range e.Classes {
		e.index[c] = i
	}
}

// UnmarshalJSON restores the lookup index along with the class list.
func (e *LabelEncoder) UnmarshalJSON(data []byte) error {
	var raw struct {
		Classes []string `json:"classes"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if !slices.IsSorted(raw.Classes) {
		return fmt.Errorf("%w: encoder classes are not sorted", domain.ErrDataFormat)
	}
	e.Classes = raw.Classes
	e.buildIndex()
	return nil
}

// Len returns the vocabulary size.
func (e *LabelEncoder) Len() int { return len(e.Classes) }

// Transform returns the code for value. Values outside the fitted vocabulary
// fail with domain.ErrUnknownCategory.
func (e *LabelEncoder) Transform(value string) (int, error) {
	code, ok := e.index[value]
	if !ok {
		return 0, fmt.Errorf("%w: %q was not seen during training", domain.ErrUnknownCategory, value)
	}
	return code, nil
}

// TransformAll encodes every value, failing on the first unknown one.
func (e *LabelEncoder) TransformAll(values []string) ([]int, error) {
	codes := make([]int, len(values))
	for i, v := range values {
		code, err := e.Transform(v)
		if err != nil {
			return nil, err
		}
		codes[i] = code
	}
	return codes, nil
}

// Inverse returns the class for code.
func (e *LabelEncoder) Inverse(code int) (string, error) {
	if code < 0 || code >= len(e.Classes) {
		return "", fmt.Errorf("%w: code %d out of range [0,%d)", domain.ErrUnknownCategory, code, len(e.Classes))
	}
	return e.Classes[code], nil
}
