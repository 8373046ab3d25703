package schemas

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["name", "image_uri"],
	"properties": {
		"name": {"type": "string"},
		"image_uri": {"type": "string"},
		"size": {"type": "string", "enum": ["small", "large"]},
		"dask_cluster": {
			"type": "object",
			"properties": {"num_workers": {"type": "integer"}}
		}
	}
}`

func TestCompile_AndValidate(t *testing.T) {
	schema, err := Compile("inline", []byte(testSchema))
	require.NoError(t, err)
	assert.Equal(t, "inline", schema.Source())

	assert.NoError(t, schema.Validate([]byte(`{"name":"dask","image_uri":"a/b:1"}`)))
}

func TestValidate_ReportsEveryField(t *testing.T) {
	schema, err := Compile("inline", []byte(testSchema))
	require.NoError(t, err)

	err = schema.Validate([]byte(`{"size":"medium","dask_cluster":{"num_workers":"two"}}`))
	require.Error(t, err)

	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr))

	var all strings.Builder
	for _, fe := range validationErr.Errors {
		all.WriteString(fe.String() + "\n")
	}
	assert.Contains(t, all.String(), "name is required")
	assert.Contains(t, all.String(), "image_uri is required")
	assert.Contains(t, all.String(), "size")
	assert.Contains(t, all.String(), "dask_cluster.num_workers")
}

func TestValidate_MalformedDocument(t *testing.T) {
	schema, err := Compile("inline", []byte(testSchema))
	require.NoError(t, err)

	err = schema.Validate([]byte(`{not json`))
	require.Error(t, err)

	var validationErr *ValidationError
	assert.False(t, errors.As(err, &validationErr))
}

func TestCompile_InvalidSchema(t *testing.T) {
	_, err := Compile("broken", []byte(`{"type": 12}`))
	require.Error(t, err)

	var loadErr *SchemaLoadError
	assert.True(t, errors.As(err, &loadErr))
	assert.Contains(t, err.Error(), "broken")
}

func TestFetch_DownloadsOnce(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(testSchema))
	}))
	defer server.Close()

	schema, err := Fetch(context.Background(), server.URL+"/schema.json", nil)
	require.NoError(t, err)
	assert.Equal(t, server.URL+"/schema.json", schema.Source())

	// The compiled schema is shared across concurrent validations without refetching.
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, schema.Validate([]byte(`{"name":"x","image_uri":"a/b:1"}`)))
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), hits.Load())
}

func TestFetch_NotFound(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	_, err := Fetch(context.Background(), server.URL+"/missing.json", nil)
	require.Error(t, err)

	var loadErr *SchemaLoadError
	assert.True(t, errors.As(err, &loadErr))
	assert.Contains(t, err.Error(), "404")
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schema.json")
	require.NoError(t, os.WriteFile(path, []byte(testSchema), 0644))

	schema, err := Load(path)
	require.NoError(t, err)
	assert.Error(t, schema.Validate([]byte(`{}`)))
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)

	var loadErr *SchemaLoadError
	assert.True(t, errors.As(err, &loadErr))
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{Errors: []FieldError{
		{Field: "name", Message: "name is required"},
		{Field: "weight", Message: "Invalid type"},
	}}
	msg := err.Error()
	assert.Contains(t, msg, "1. name: name is required")
	assert.Contains(t, msg, "2. weight: Invalid type")
}
