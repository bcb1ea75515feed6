package report

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/lanyi1998/dirsearch/pkg/fuzzer"
	"github.com/lanyi1998/dirsearch/pkg/requester"
)

func sampleMatches() []*fuzzer.Result {
	return []*fuzzer.Result{
		{Path: "login", Status: 200, Response: &requester.Response{Status: 200, Body: "form", ContentLength: 4}},
		{Path: "admin", Status: 301, Response: &requester.Response{Status: 301, Redirect: "/admin/"}},
	}
}

func TestNewSortsAndCounts(t *testing.T) {
	started := time.Now().Add(-2 * time.Second)
	r := New("https://example.com", started, 150, 3, sampleMatches())

	assert.NotEmpty(t, r.RunID)
	assert.Equal(t, "https://example.com", r.Target)
	assert.Equal(t, 150, r.Requested)
	assert.Equal(t, 2, r.Found)
	assert.Equal(t, 3, r.Errors)
	assert.GreaterOrEqual(t, r.Duration, 2*time.Second)

	require.Len(t, r.Results, 2)
	assert.Equal(t, "admin", r.Results[0].Path)
	assert.Equal(t, "/admin/", r.Results[0].Redirect)
	assert.Equal(t, "login", r.Results[1].Path)
	assert.Equal(t, 4, r.Results[1].ContentLength)
}

func TestWriteJSONRoundTrip(t *testing.T) {
	r := New("https://example.com", time.Now(), 10, 0, sampleMatches())

	var buf bytes.Buffer
	require.NoError(t, r.WriteJSON(&buf))

	var decoded Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, r.RunID, decoded.RunID)
	assert.Equal(t, r.Found, decoded.Found)
	assert.Len(t, decoded.Results, 2)
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	r := New("https://example.com", time.Now(), 10, 0, sampleMatches())

	var buf bytes.Buffer
	require.NoError(t, r.WriteYAML(&buf))

	var decoded Report
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, r.Target, decoded.Target)
	assert.Len(t, decoded.Results, 2)
}

func TestSavePicksFormatFromExtension(t *testing.T) {
	r := New("https://example.com", time.Now(), 10, 0, nil)
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "scan.json")
	require.NoError(t, r.Save(jsonPath))
	data, err := os.ReadFile(jsonPath)
	require.NoError(t, err)
	assert.True(t, json.Valid(data))

	yamlPath := filepath.Join(dir, "scan.yaml")
	require.NoError(t, r.Save(yamlPath))
	data, err = os.ReadFile(yamlPath)
	require.NoError(t, err)
	assert.False(t, json.Valid(data), "yaml output should not parse as JSON")
	var decoded Report
	assert.NoError(t, yaml.Unmarshal(data, &decoded))
}
