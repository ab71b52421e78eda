package domain

import "errors"

var (
	// ErrDataFormat is returned when a required column is missing or a value
	// cannot be interpreted. Callers surface it as a rejected request.
	ErrDataFormat = errors.New("data format error")

	// ErrUnknownCategory is returned when a station name is not part of the
	// vocabulary the encoder was fitted on.
	ErrUnknownCategory = errors.New("unknown category")

	// ErrArtifactIO is returned when a model artifact cannot be read or written.
	ErrArtifactIO = errors.New("artifact io error")
)
