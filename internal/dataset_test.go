package internal

import (
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCSVFile(t *testing.T, path string, rows [][]string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	w := csv.NewWriter(f)
	require.NoError(t, w.WriteAll(rows))
	require.NoError(t, f.Close())
}

func TestReadInput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "videos.csv")
	writeCSVFile(t, path, [][]string{
		{"url"},
		{"https://www.youtube.com/watch?v=aaaaaaaaaaa"},
		{""},
		{"  https://youtu.be/bbbbbbbbbbb  "},
	})

	rows, err := ReadInput(path)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "https://www.youtube.com/watch?v=aaaaaaaaaaa", rows[0].URL)
	assert.Equal(t, "https://youtu.be/bbbbbbbbbbb", rows[1].URL)
}

func TestReadInputHeaderVariants(t *testing.T) {
	t.Run("case insensitive", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "videos.csv")
		writeCSVFile(t, path, [][]string{
			{"URL"},
			{"https://youtu.be/aaaaaaaaaaa"},
		})

		rows, err := ReadInput(path)
		require.NoError(t, err)
		require.Len(t, rows, 1)
	})

	t.Run("extra columns", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "videos.csv")
		writeCSVFile(t, path, [][]string{
			{"notes", "url"},
			{"watch later", "https://youtu.be/aaaaaaaaaaa"},
		})

		rows, err := ReadInput(path)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "https://youtu.be/aaaaaaaaaaa", rows[0].URL)
	})

	t.Run("qa_pairs column", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "videos.csv")
		qa := `[{"question":"q","answer":"a"}]`
		writeCSVFile(t, path, [][]string{
			{"url", "qa_pairs"},
			{"https://youtu.be/aaaaaaaaaaa", qa},
			{"https://youtu.be/bbbbbbbbbbb", ""},
		})

		rows, err := ReadInput(path)
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, qa, rows[0].QAPairs)
		assert.Empty(t, rows[1].QAPairs)
	})

	t.Run("no url column", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "videos.csv")
		writeCSVFile(t, path, [][]string{
			{"link"},
			{"https://youtu.be/aaaaaaaaaaa"},
		})

		_, err := ReadInput(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no url column")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := ReadInput(filepath.Join(t.TempDir(), "nope.csv"))
		require.Error(t, err)
	})
}

func TestReadInputRaggedRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "videos.csv")
	raw := "url,qa_pairs\nhttps://youtu.be/aaaaaaaaaaa\nhttps://youtu.be/bbbbbbbbbbb,\n"
	require.NoError(t, os.WriteFile(path, []byte(raw), 0644))

	rows, err := ReadInput(path)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Empty(t, rows[0].QAPairs)
}

func TestWriteCSVHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dataset.csv")
	require.NoError(t, WriteCSV(nil, path, false))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, 1)
	assert.Equal(t, "url,video_id,title,mp4_path,mp3_path,transcript_path,transcript_exists,transcript", lines[0])
}

func TestWriteCSVRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dataset.csv")
	records := []Record{
		{
			URL:              "https://youtu.be/aaaaaaaaaaa",
			VideoID:          "aaaaaaaaaaa",
			Title:            "First",
			MP4Path:          "dataset/output_mp4/First.mp4",
			MP3Path:          "dataset/output_mp3/First.mp3",
			TranscriptPath:   "dataset/output_transcripts/aaaaaaaaaaa.txt",
			TranscriptExists: true,
			Transcript:       "hello there",
		},
		{URL: "https://example.com/bad"},
	}
	require.NoError(t, WriteCSV(records, path, false))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	require.Len(t, rows, 3)
	assert.Equal(t, []string{
		"https://youtu.be/aaaaaaaaaaa", "aaaaaaaaaaa", "First",
		"dataset/output_mp4/First.mp4", "dataset/output_mp3/First.mp3",
		"dataset/output_transcripts/aaaaaaaaaaa.txt", "True", "hello there",
	}, rows[1])
	assert.Equal(t, []string{"https://example.com/bad", "", "", "", "", "", "False", ""}, rows[2])
}

func TestWriteCSVQAColumn(t *testing.T) {
	dir := t.TempDir()
	records := []Record{
		{
			URL:     "https://youtu.be/aaaaaaaaaaa",
			VideoID: "aaaaaaaaaaa",
			QAPairs: []QAPair{{Question: "q1", Answer: "a1"}},
		},
		{URL: "https://youtu.be/bbbbbbbbbbb", VideoID: "bbbbbbbbbbb"},
	}

	t.Run("enabled", func(t *testing.T) {
		path := filepath.Join(dir, "with_qa.csv")
		require.NoError(t, WriteCSV(records, path, true))

		f, err := os.Open(path)
		require.NoError(t, err)
		defer f.Close()
		rows, err := csv.NewReader(f).ReadAll()
		require.NoError(t, err)

		wantHeader := append(append([]string{}, DatasetHeader...), "qa_pairs")
		assert.Equal(t, wantHeader, rows[0])
		assert.Equal(t, `[{"question":"q1","answer":"a1"}]`, rows[1][8])
		assert.Equal(t, "[]", rows[2][8])
	})

	t.Run("disabled", func(t *testing.T) {
		path := filepath.Join(dir, "without_qa.csv")
		require.NoError(t, WriteCSV(records, path, false))

		f, err := os.Open(path)
		require.NoError(t, err)
		defer f.Close()
		rows, err := csv.NewReader(f).ReadAll()
		require.NoError(t, err)

		assert.Equal(t, DatasetHeader, rows[0])
		assert.Len(t, rows[1], 8)
	})
}

func TestWriteCSVCreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deep", "nested", "dataset.csv")
	require.NoError(t, WriteCSV(nil, path, false))
	assert.True(t, FileExists(path))
}

func TestWriteCSVError(t *testing.T) {
	dir := t.TempDir()
	blocking := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocking, []byte("x"), 0644))

	err := WriteCSV(nil, filepath.Join(blocking, "dataset.csv"), false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDatasetWrite), "want ErrDatasetWrite, got %v", err)
}

func TestDatasetCSVRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dataset.csv")
	records := []Record{
		{
			URL:              "https://youtu.be/aaaaaaaaaaa",
			VideoID:          "aaaaaaaaaaa",
			Title:            "Commas, quotes \"and\" newlines",
			MP4Path:          "dataset/output_mp4/a.mp4",
			MP3Path:          "dataset/output_mp3/a.mp3",
			TranscriptPath:   "dataset/output_transcripts/aaaaaaaaaaa.txt",
			TranscriptExists: true,
			Transcript:       "first, second, third",
			QAPairs:          []QAPair{{Question: "why?", Answer: "because, obviously"}},
		},
		{URL: "https://example.com/bad"},
	}
	require.NoError(t, WriteCSV(records, path, true))

	got, hasQA, err := ReadDatasetCSV(path)
	require.NoError(t, err)
	assert.True(t, hasQA)
	assert.Equal(t, records, got)
}

func TestReadDatasetCSVWithoutQA(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dataset.csv")
	records := []Record{{URL: "https://youtu.be/aaaaaaaaaaa", VideoID: "aaaaaaaaaaa"}}
	require.NoError(t, WriteCSV(records, path, false))

	got, hasQA, err := ReadDatasetCSV(path)
	require.NoError(t, err)
	assert.False(t, hasQA)
	assert.Equal(t, records, got)
}

func TestReadDatasetCSVBadHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dataset.csv")
	require.NoError(t, os.WriteFile(path, []byte("url,title\nx,y\n"), 0644))

	_, _, err := ReadDatasetCSV(path)
	require.Error(t, err)
}

func TestQAPairsJSON(t *testing.T) {
	assert.Equal(t, "[]", Record{}.QAPairsJSON())

	r := Record{QAPairs: []QAPair{{Question: "q", Answer: "a"}}}
	assert.Equal(t, `[{"question":"q","answer":"a"}]`, r.QAPairsJSON())
}
