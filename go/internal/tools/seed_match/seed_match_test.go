package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcdev12/scorecast/go/internal/models"
	"github.com/mcdev12/scorecast/go/internal/scoreboard/source"
)

func TestReadDocument_Demo(t *testing.T) {
	data, err := readDocument("")
	require.NoError(t, err)

	m, err := models.DecodeMatchState(data)
	require.NoError(t, err)
	assert.Equal(t, "T20 International Match", m.MatchTitle)
}

func TestReadDocument_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "match.json")
	require.NoError(t, os.WriteFile(path, []byte("{\n  \"matchTitle\": \"Final\"\n}\n"), 0o644))

	data, err := readDocument(path)
	require.NoError(t, err)
	assert.Equal(t, `{"matchTitle":"Final"}`, string(data))
}

func TestReadDocument_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "match.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"matchTitle": `), 0o644))

	_, err := readDocument(path)
	require.Error(t, err)

	_, err = readDocument(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}

func TestSeed_File(t *testing.T) {
	cfg := source.DefaultConfig()
	cfg.Dir = t.TempDir()
	cfg.Key = ""

	require.NoError(t, seed(context.Background(), cfg, []byte(`{"matchTitle":"Final"}`)))

	got, err := source.NewFileSource(cfg.Dir, source.DefaultKey).Read(context.Background())
	require.NoError(t, err)
	assert.Equal(t, `{"matchTitle":"Final"}`, string(got))
}

func TestSeed_UnknownKind(t *testing.T) {
	cfg := source.DefaultConfig()
	cfg.Kind = source.KindMemory
	require.Error(t, seed(context.Background(), cfg, []byte(`{}`)))
}
