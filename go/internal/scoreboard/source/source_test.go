package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySource(t *testing.T) {
	ctx := context.Background()
	s := NewMemorySource(DefaultKey)

	_, err := s.Read(ctx)
	require.ErrorIs(t, err, ErrNotFound)

	s.Set([]byte(`{"matchTitle":"one"}`))
	data, err := s.Read(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `{"matchTitle":"one"}`, string(data))

	// callers cannot mutate the stored value
	data[0] = 'X'
	again, err := s.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, byte('{'), again[0])

	s.Delete()
	_, err = s.Read(ctx)
	require.ErrorIs(t, err, ErrNotFound)

	assert.Equal(t, "memory:cricketMatchData", s.Name())
}

func TestMemorySource_Changes(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := NewMemorySource(DefaultKey)

	changes, err := s.Changes(ctx)
	require.NoError(t, err)

	s.Set([]byte(`{}`))
	s.Set([]byte(`{"a":1}`)) // coalesced with the first signal

	select {
	case <-changes:
	case <-time.After(time.Second):
		t.Fatal("expected change signal")
	}

	select {
	case <-changes:
		t.Fatal("signals should be coalesced")
	default:
	}

	cancel()
	select {
	case _, ok := <-changes:
		assert.False(t, ok, "channel should be closed after cancel")
	case <-time.After(time.Second):
		t.Fatal("channel not closed after cancel")
	}
}

func TestFileSource(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s := NewFileSource(dir, DefaultKey)

	assert.Equal(t, filepath.Join(dir, "cricketMatchData.json"), s.Path())

	_, err := s.Read(ctx)
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Write([]byte(`{"matchTitle":"file"}`)))
	data, err := s.Read(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `{"matchTitle":"file"}`, string(data))

	require.NoError(t, s.Write([]byte(`{"matchTitle":"replaced"}`)))
	data, err = s.Read(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `{"matchTitle":"replaced"}`, string(data))

	// no temp files left behind
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestFileSource_MissingDir(t *testing.T) {
	s := NewFileSource(filepath.Join(t.TempDir(), "nope"), DefaultKey)
	_, err := s.Read(context.Background())
	require.ErrorIs(t, err, ErrNotFound)
}

func TestFileSource_ReadError(t *testing.T) {
	dir := t.TempDir()
	// a directory where the file should be cannot be read as a file
	require.NoError(t, os.Mkdir(filepath.Join(dir, DefaultKey+".json"), 0o755))

	s := NewFileSource(dir, DefaultKey)
	_, err := s.Read(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestNew(t *testing.T) {
	ctx := context.Background()

	src, err := New(ctx, Config{Kind: KindMemory})
	require.NoError(t, err)
	assert.IsType(t, &MemorySource{}, src)
	assert.Equal(t, "memory:cricketMatchData", src.Name())

	dir := t.TempDir()
	src, err = New(ctx, Config{Kind: KindFile, Dir: dir, Key: "match1"})
	require.NoError(t, err)
	require.IsType(t, &FileSource{}, src)
	assert.Equal(t, filepath.Join(dir, "match1.json"), src.(*FileSource).Path())

	_, err = New(ctx, Config{Kind: "carrier-pigeon"})
	require.Error(t, err)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, KindFile, cfg.Kind)
	assert.Equal(t, "cricketMatchData", cfg.Key)
	assert.Equal(t, DefaultNotifyChannel, cfg.NotifyChannel)
}
