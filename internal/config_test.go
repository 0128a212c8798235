package internal

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigDerivedPaths(t *testing.T) {
	config := &Config{DatasetDir: filepath.Join("out", "dataset")}

	assert.Equal(t, filepath.Join("out", "dataset", "output_mp4"), config.MP4Dir())
	assert.Equal(t, filepath.Join("out", "dataset", "output_mp3"), config.MP3Dir())
	assert.Equal(t, filepath.Join("out", "dataset", "output_transcripts"), config.TranscriptsDir())
	assert.Equal(t, filepath.Join("out", "dataset", "dataset.csv"), config.DatasetCSV())
}

func TestEnsureDefaultConfig(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "config")

	require.NoError(t, EnsureDefaultConfig(dir))
	data, err := os.ReadFile(filepath.Join(dir, "config.toml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "dataset_dir")

	// Existing files are left alone
	custom := []byte("dataset_dir = \"elsewhere\"\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), custom, 0644))
	require.NoError(t, EnsureDefaultConfig(dir))
	data, err = os.ReadFile(filepath.Join(dir, "config.toml"))
	require.NoError(t, err)
	assert.Equal(t, custom, data)
}

func TestEnsureDefaultPrompt(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "config")

	require.NoError(t, EnsureDefaultPrompt(dir))
	data, err := os.ReadFile(filepath.Join(dir, "prompt.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "{{.Transcript}}")
	assert.Contains(t, string(data), "{{.NumPairs}}")
}
