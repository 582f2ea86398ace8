package sinks

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStreamSink_Write(t *testing.T) {
	var buf bytes.Buffer
	sink := NewStreamSink("stdout", &buf)

	require.NoError(t, sink.Write(t.Context(), "team1.json", strings.NewReader("{\"id\":\"team1\"}\n")))
	require.NoError(t, sink.Write(t.Context(), "team2.json", strings.NewReader("{\"id\":\"team2\"}\n")))
	require.NoError(t, sink.Close(t.Context()))

	assert.Equal(t, "{\"id\":\"team1\"}\n{\"id\":\"team2\"}\n", buf.String())
	assert.Equal(t, "stream(stdout)", sink.Name())
	assert.Equal(t, "stream", sink.Kind())
}

func TestFilesystemSink_Write(t *testing.T) {
	t.Run("writes file", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		sink := NewFilesystemSink(fs)

		require.NoError(t, sink.Write(t.Context(), "team1.json", strings.NewReader(`{"status":0}`)))

		content, err := afero.ReadFile(fs, "team1.json")
		require.NoError(t, err)
		assert.Equal(t, `{"status":0}`, string(content))

		exists, err := afero.Exists(fs, "team1.json.tmp")
		require.NoError(t, err)
		assert.False(t, exists, "temporary file must be renamed")
	})

	t.Run("creates nested directories", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		sink := NewFilesystemSink(fs)

		require.NoError(t, sink.Write(t.Context(), "round-1/team1.json", strings.NewReader("{}")))

		content, err := afero.ReadFile(fs, "round-1/team1.json")
		require.NoError(t, err)
		assert.Equal(t, "{}", string(content))
	})

	t.Run("overwrites previous result", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		sink := NewFilesystemSink(fs)

		require.NoError(t, sink.Write(t.Context(), "team1.json", strings.NewReader("old")))
		require.NoError(t, sink.Write(t.Context(), "team1.json", strings.NewReader("new")))

		content, err := afero.ReadFile(fs, "team1.json")
		require.NoError(t, err)
		assert.Equal(t, "new", string(content))
	})

	t.Run("read-only filesystem", func(t *testing.T) {
		sink := NewFilesystemSink(afero.NewReadOnlyFs(afero.NewMemMapFs()))

		err := sink.Write(t.Context(), "team1.json", strings.NewReader("{}"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create file")
	})
}

func TestNewFilesystemSinkFromPath(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "results", "round-1")

	sink, err := NewFilesystemSinkFromPath(dir)
	require.NoError(t, err)
	require.NoError(t, sink.Write(t.Context(), "team1.json", strings.NewReader("{}")))

	content, err := os.ReadFile(filepath.Join(dir, "team1.json"))
	require.NoError(t, err)
	assert.Equal(t, "{}", string(content))
	assert.Equal(t, "filesystem", sink.Kind())
}
