package apperr

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSourceErrorMatchesKindAndCause(t *testing.T) {
	cause := errors.New("unexpected end of JSON input")
	err := Malformed("key.json", cause)

	assert.ErrorIs(t, err, ErrMalformedSource)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrMissingSource)
	assert.Contains(t, err.Error(), "key.json")
}

func TestReadFileMissing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingSource)

	var se *SourceError
	require.ErrorAs(t, err, &se)
	assert.Contains(t, se.Path, "absent.json")
}

func TestReadFileOK(t *testing.T) {
	path := filepath.Join(t.TempDir(), "present.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o644))

	data, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestRemoteWrapsCollaboratorKind(t *testing.T) {
	cause := errors.New("timeout")
	err := Remote("generate", cause)
	assert.ErrorIs(t, err, ErrRemoteCollaborator)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "timeout")
}
