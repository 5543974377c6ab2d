package cli

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/scribe/internal/document"
	"github.com/roach88/scribe/internal/query"
)

func TestLoadDocuments(t *testing.T) {
	docs, err := LoadDocuments("testdata/queries.yaml", "")
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "active_users", docs[0].Name)

	docs, err = LoadDocuments("testdata/queries.yaml", "add_user")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "add_user", docs[0].Name)
}

func TestLoadDocumentsErrors(t *testing.T) {
	testCases := []struct {
		path string
		name string
		code string
	}{
		{path: "testdata/missing.yaml", code: ErrCodeNotFound},
		{path: "testdata/queries.yaml", name: "nope", code: ErrCodeNoMatch},
		{path: "testdata/invalid.cue", code: ErrCodeLoadFailed},
	}

	for _, tc := range testCases {
		t.Run(tc.path+tc.name, func(t *testing.T) {
			_, err := LoadDocuments(tc.path, tc.name)
			require.Error(t, err)

			var loadErr *LoadError
			require.ErrorAs(t, err, &loadErr)
			assert.Equal(t, tc.code, loadErr.Code)
			assert.Equal(t, tc.code, MapErrorToCode(err))
		})
	}
}

func TestLoadDocumentsCUEPosition(t *testing.T) {
	_, err := LoadDocuments("testdata/invalid.cue", "")
	require.Error(t, err)

	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.True(t, loadErr.Pos.IsValid())
	assert.Contains(t, loadMessage(err), "invalid.cue:")
}

func TestMapErrorToCode(t *testing.T) {
	assert.Equal(t, ErrCodeInvalidDocument, MapErrorToCode(&document.FieldError{Field: "query"}))
	assert.Equal(t, ErrCodeInvalidArgument, MapErrorToCode(fmt.Errorf("document x: %w", &query.InvalidArgumentError{Param: "limit"})))
	assert.Equal(t, ErrCodeInvalidReturnValue, MapErrorToCode(&query.InvalidReturnValueError{Param: "closure"}))
	assert.Equal(t, ErrCodeGeneric, MapErrorToCode(assert.AnError))
}
