// Package apperr holds the error kinds shared by the quiz, training, and
// feedback pipelines.
package apperr

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// Error kinds. Callers match them with errors.Is.
var (
	ErrMissingSource      = errors.New("missing source")
	ErrMalformedSource    = errors.New("malformed source")
	ErrInvalidChoice      = errors.New("invalid choice")
	ErrNoMatchedQuestions = errors.New("no matched questions")
	ErrRemoteCollaborator = errors.New("remote collaborator failure")
)

// SourceError reports a problem with a named input file.
type SourceError struct {
	Kind error
	Path string
	Err  error
}

func (e *SourceError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Kind, e.Path)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Path, e.Err)
}

func (e *SourceError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Missing wraps err as an ErrMissingSource for path.
func Missing(path string, err error) error {
	return &SourceError{Kind: ErrMissingSource, Path: path, Err: err}
}

// Malformed wraps err as an ErrMalformedSource for path.
func Malformed(path string, err error) error {
	return &SourceError{Kind: ErrMalformedSource, Path: path, Err: err}
}

// ReadFile reads path, classifying a missing file as ErrMissingSource.
func ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, Missing(path, nil)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

// Remote wraps a failure from an external collaborator.
func Remote(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrRemoteCollaborator, op, err)
}
