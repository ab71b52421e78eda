// Package artifact persists the fitted encoder, scaler, and classifier as
// independently loadable blobs at fixed paths under a model directory.
package artifact

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/couchcryptid/flood-risk-service/internal/domain"
	"github.com/couchcryptid/flood-risk-service/internal/ml"
)

// Well-known artifact file names relative to the model directory.
const (
	EncoderFile = "label_encoder.json"
	ScalerFile  = "scaler.json"
	ModelFile   = "flood_model.json"
)

// Set bundles the three artifacts the predictor needs.
type Set struct {
	Encoder *ml.LabelEncoder
	Scaler  *ml.StandardScaler
	Model   *ml.Forest
}

// Store reads and writes artifacts under a directory.
type Store struct {
	dir string
}

// NewStore returns a store rooted at dir. The directory is created on first
// write.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the model directory.
func (s *Store) Dir() string { return s.dir }

// SavePreprocessors writes the encoder and scaler.
func (s *Store) SavePreprocessors(enc *ml.LabelEncoder, sc *ml.StandardScaler) error {
	if err := s.ensureDir(); err != nil {
		return err
	}
	if err := s.write(EncoderFile, enc); err != nil {
		return err
	}
	return s.write(ScalerFile, sc)
}

// SaveModel writes the classifier.
func (s *Store) SaveModel(model *ml.Forest) error {
	if err := s.ensureDir(); err != nil {
		return err
	}
	return s.write(ModelFile, model)
}

// LoadEncoder reads the encoder artifact.
func (s *Store) LoadEncoder() (*ml.LabelEncoder, error) {
	var enc ml.LabelEncoder
	if err := s.read(EncoderFile, &enc); err != nil {
		return nil, err
	}
	return &enc, nil
}

// LoadScaler reads the scaler artifact.
func (s *Store) LoadScaler() (*ml.StandardScaler, error) {
	var sc ml.StandardScaler
	if err := s.read(ScalerFile, &sc); err != nil {
		return nil, err
	}
	return &sc, nil
}

// LoadModel reads the classifier artifact.
func (s *Store) LoadModel() (*ml.Forest, error) {
	var f ml.Forest
	if err := s.read(ModelFile, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

// Load reads all three artifacts.
func (s *Store) Load() (Set, error) {
	enc, err := s.LoadEncoder()
	if err != nil {
		return Set{}, err
	}
	sc, err := s.LoadScaler()
	if err != nil {
		return Set{}, err
	}
	model, err := s.LoadModel()
	if err != nil {
		return Set{}, err
	}
	return Set{Encoder: enc, Scaler: sc, Model: model}, nil
}

func (s *Store) ensureDir() error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("%w: create model directory: %v", domain.ErrArtifactIO, err)
	}
	return nil
}

// write encodes v to a temporary file and renames it into place so readers
// never observe a partially written artifact.
func (s *Store) write(name string, v any) error {
	tmp, err := os.CreateTemp(s.dir, name+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: create %s: %v", domain.ErrArtifactIO, name, err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // no-op after a successful rename

	if err := json.NewEncoder(tmp).Encode(v); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: encode %s: %v", domain.ErrArtifactIO, name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %v", domain.ErrArtifactIO, name, err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(s.dir, name)); err != nil {
		return fmt.Errorf("%w: rename %s: %v", domain.ErrArtifactIO, name, err)
	}
	return nil
}

func (s *Store) read(name string, v any) error {
	f, err := os.Open(filepath.Join(s.dir, name))
	if err != nil {
		return fmt.Errorf("%w: open %s: %v", domain.ErrArtifactIO, name, err)
	}
	defer f.Close()

	if err := json.NewDecoder(f).Decode(v); err != nil {
		return fmt.Errorf("%w: decode %s: %v", domain.ErrArtifactIO, name, err)
	}
	return nil
}
