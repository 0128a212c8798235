package internal

import (
	"encoding/json"
	"fmt"
)

// QAPair is one generated question-answer pair about a video transcript.
type QAPair struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Record is one row of the dataset: everything the pipeline produced for a
// single input URL. Stages that fail leave their fields zero-valued, so a
// record never disappears, it just gets sparser.
type Record struct {
	URL              string   `json:"url"`
	VideoID          string   `json:"video_id"`
	Title            string   `json:"title"`
	MP4Path          string   `json:"mp4_path"`
	MP3Path          string   `json:"mp3_path"`
	TranscriptPath   string   `json:"transcript_path"`
	TranscriptExists bool     `json:"transcript_exists"`
	Transcript       string   `json:"transcript"`
	QAPairs          []QAPair `json:"qa_pairs,omitempty"`
}

// QAPairsJSON renders the record's Q&A pairs as a JSON list, "[]" when none.
func (r Record) QAPairsJSON() string {
	if len(r.QAPairs) == 0 {
		return "[]"
	}
	data, err := json.Marshal(r.QAPairs)
	if err != nil {
		return "[]"
	}
	return string(data)
}

// String returns a compact representation for verbose logging.
func (r Record) String() string {
	return fmt.Sprintf("Record{id=%s, mp4=%t, mp3=%t, transcript=%t}",
		r.VideoID, r.MP4Path != "", r.MP3Path != "", r.TranscriptExists)
}
