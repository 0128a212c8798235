package internal

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestExtractSubtitleInfo(t *testing.T) {
	tests := []struct {
		name    string
		rawData map[string]any
		want    bool
	}{
		{
			"manual subtitles",
			map[string]any{"subtitles": map[string]any{"en": []any{}}},
			true,
		},
		{
			"automatic captions",
			map[string]any{"automatic_captions": map[string]any{"en": []any{}}},
			true,
		},
		{
			"both empty",
			map[string]any{"subtitles": map[string]any{}, "automatic_captions": map[string]any{}},
			false,
		},
		{
			"keys missing",
			map[string]any{"title": "whatever"},
			false,
		},
		{
			"null subtitles",
			map[string]any{"subtitles": nil},
			false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractSubtitleInfo(tt.rawData); got != tt.want {
				t.Errorf("extractSubtitleInfo() = %t, want %t", got, tt.want)
			}
		})
	}
}

func TestVideoMetadataParsing(t *testing.T) {
	// Shape of yt-dlp --dump-single-json output, trimmed to the fields we keep
	raw := `{
		"title": "A Video",
		"description": "About things",
		"channel": "Some Channel",
		"uploader": "someone",
		"duration": 93.0,
		"categories": ["Education"],
		"tags": ["go"],
		"chapters": [{"start_time": 0.0, "end_time": 30.0, "title": "Intro"}]
	}`

	var metadata VideoMetadata
	if err := json.Unmarshal([]byte(raw), &metadata); err != nil {
		t.Fatalf("unmarshaling metadata: %v", err)
	}

	if metadata.Title != "A Video" || metadata.Channel != "Some Channel" {
		t.Errorf("unexpected metadata: %+v", metadata)
	}
	if metadata.Duration != 93.0 {
		t.Errorf("duration = %f, want 93.0", metadata.Duration)
	}
	if len(metadata.Chapters) != 1 || metadata.Chapters[0].Title != "Intro" {
		t.Errorf("chapters = %+v", metadata.Chapters)
	}
}

func TestVideoReusesExistingFile(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "My Video.mp4")
	if err := os.WriteFile(existing, []byte("video"), 0644); err != nil {
		t.Fatal(err)
	}

	yt := NewYouTube(dir, false)
	path, err := yt.Video(context.Background(), "https://youtu.be/dQw4w9WgXcQ", "My Video")
	if err != nil {
		t.Fatalf("Video() error: %v", err)
	}
	if path != existing {
		t.Errorf("Video() = %q, want %q", path, existing)
	}
}
