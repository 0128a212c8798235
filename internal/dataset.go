package internal

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// ErrDatasetWrite indicates the dataset CSV could not be written. Unlike
// per-video stage failures this aborts a run, the dataset file is the whole
// point of the tool.
var ErrDatasetWrite = errors.New("writing dataset CSV")

// DatasetHeader is the fixed column order of dataset.csv.
var DatasetHeader = []string{
	"url",
	"video_id",
	"title",
	"mp4_path",
	"mp3_path",
	"transcript_path",
	"transcript_exists",
	"transcript",
}

// qaColumn is appended to DatasetHeader when Q&A generation is enabled.
const qaColumn = "qa_pairs"

// InputRow is one row of the input CSV: the URL to process plus any
// previously generated Q&A pairs carried along for reuse.
type InputRow struct {
	URL     string
	QAPairs string
}

// ReadInput reads the input CSV. The header must contain a url column;
// a qa_pairs column is picked up when present. Rows with a blank URL are
// skipped, everything else is kept in file order.
func ReadInput(path string) ([]InputRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening input CSV: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // tolerate ragged rows

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading input CSV header: %w", err)
	}

	urlCol, qaCol := -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "url":
			if urlCol < 0 {
				urlCol = i
			}
		case qaColumn:
			qaCol = i
		}
	}
	if urlCol < 0 {
		return nil, fmt.Errorf("input CSV %s has no url column", path)
	}

	var rows []InputRow
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading input CSV: %w", err)
		}
		if urlCol >= len(record) {
			continue
		}
		rawURL := strings.TrimSpace(record[urlCol])
		if rawURL == "" {
			continue
		}
		row := InputRow{URL: rawURL}
		if qaCol >= 0 && qaCol < len(record) {
			row.QAPairs = strings.TrimSpace(record[qaCol])
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// WriteCSV writes one row per record to path, in order, replacing any
// existing file. The qa_pairs column is only present when includeQA is set.
func WriteCSV(records []Record, path string, includeQA bool) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := EnsureDirs(dir); err != nil {
			return fmt.Errorf("%w: %v", ErrDatasetWrite, err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatasetWrite, err)
	}

	writer := csv.NewWriter(f)
	header := DatasetHeader
	if includeQA {
		header = append(slices.Clone(header), qaColumn)
	}
	if err := writer.Write(header); err != nil {
		f.Close()
		return fmt.Errorf("%w: %v", ErrDatasetWrite, err)
	}
	for _, record := range records {
		if err := writer.Write(csvRow(record, includeQA)); err != nil {
			f.Close()
			return fmt.Errorf("%w: %v", ErrDatasetWrite, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		f.Close()
		return fmt.Errorf("%w: %v", ErrDatasetWrite, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: %v", ErrDatasetWrite, err)
	}
	return nil
}

func csvRow(r Record, includeQA bool) []string {
	row := []string{
		r.URL,
		r.VideoID,
		r.Title,
		r.MP4Path,
		r.MP3Path,
		r.TranscriptPath,
		formatBool(r.TranscriptExists),
		r.Transcript,
	}
	if includeQA {
		row = append(row, r.QAPairsJSON())
	}
	return row
}

// formatBool renders booleans the way the dataset schema expects them.
func formatBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

// ReadDatasetCSV reads a dataset.csv back into records. The second return
// reports whether the file carried a qa_pairs column.
func ReadDatasetCSV(path string) ([]Record, bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, false, fmt.Errorf("opening dataset CSV: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err != nil {
		return nil, false, fmt.Errorf("reading dataset CSV header: %w", err)
	}
	if len(header) < len(DatasetHeader) || !slices.Equal(header[:len(DatasetHeader)], DatasetHeader) {
		return nil, false, fmt.Errorf("unexpected dataset CSV header in %s", path)
	}
	hasQA := len(header) > len(DatasetHeader) && header[len(DatasetHeader)] == qaColumn

	var records []Record
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, false, fmt.Errorf("reading dataset CSV: %w", err)
		}
		record := Record{
			URL:              row[0],
			VideoID:          row[1],
			Title:            row[2],
			MP4Path:          row[3],
			MP3Path:          row[4],
			TranscriptPath:   row[5],
			TranscriptExists: row[6] == "True",
			Transcript:       row[7],
		}
		if hasQA && len(row) > len(DatasetHeader) {
			var pairs []QAPair
			if err := json.Unmarshal([]byte(row[len(DatasetHeader)]), &pairs); err == nil && len(pairs) > 0 {
				record.QAPairs = pairs
			}
		}
		records = append(records, record)
	}
	return records, hasQA, nil
}
