package internal

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestExtractVideoID(t *testing.T) {
	tests := []struct {
		url     string
		want    string
		wantErr bool
	}{
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ", false},
		{"https://youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ", false},
		{"https://m.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ", false},
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42s", "dQw4w9WgXcQ", false},
		{"https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ", false},
		{"https://youtu.be/dQw4w9WgXcQ?t=30", "dQw4w9WgXcQ", false},
		{"https://www.youtube.com/embed/dQw4w9WgXcQ", "dQw4w9WgXcQ", false},
		{"https://www.youtube.com/shorts/dQw4w9WgXcQ", "dQw4w9WgXcQ", false},
		{"https://www.youtube.com/live/dQw4w9WgXcQ", "dQw4w9WgXcQ", false},
		{"  https://youtu.be/dQw4w9WgXcQ  ", "dQw4w9WgXcQ", false},
		{"https://www.youtube.com/playlist?list=PLabc123", "", true},
		{"https://www.youtube.com/watch", "", true},
		{"https://youtu.be/", "", true},
		{"https://example.com/watch?v=dQw4w9WgXcQ", "", true},
		{"not a url at all", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			got, err := ExtractVideoID(tt.url)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ExtractVideoID(%q) = %q, want error", tt.url, got)
				}
				if !errors.Is(err, ErrExtraction) {
					t.Errorf("ExtractVideoID(%q) error = %v, want ErrExtraction", tt.url, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ExtractVideoID(%q) unexpected error: %v", tt.url, err)
			}
			if got != tt.want {
				t.Errorf("ExtractVideoID(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}

func TestParseArg(t *testing.T) {
	tests := []struct {
		arg     string
		wantURL string
		wantID  string
	}{
		{"dQw4w9WgXcQ", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://youtu.be/dQw4w9WgXcQ", "https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://example.com/video", "https://example.com/video", "https://example.com/video"},
	}
	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			gotURL, gotID := ParseArg(tt.arg)
			if gotURL != tt.wantURL || gotID != tt.wantID {
				t.Errorf("ParseArg(%q) = (%q, %q), want (%q, %q)", tt.arg, gotURL, gotID, tt.wantURL, tt.wantID)
			}
		})
	}
}

func TestIsValidYouTubeID(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{"dQw4w9WgXcQ", true},
		{"abc-DEF_123", true},
		{"tooshort", false},
		{"waytoolongforanid", false},
		{"has space 1", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsValidYouTubeID(tt.id); got != tt.want {
			t.Errorf("IsValidYouTubeID(%q) = %t, want %t", tt.id, got, tt.want)
		}
	}
}

func TestIsLikelyCommand(t *testing.T) {
	tests := []struct {
		arg  string
		want bool
	}{
		{"downlod", true},
		{"hlp", true},
		{"dQw4w9WgXcQ", false},
		{"https://youtu.be/dQw4w9WgXcQ", false},
	}
	for _, tt := range tests {
		if got := IsLikelyCommand(tt.arg); got != tt.want {
			t.Errorf("IsLikelyCommand(%q) = %t, want %t", tt.arg, got, tt.want)
		}
	}
}

func TestSanitizeTranscript(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"hello world", "hello world"},
		{"line one\nline two", "line one line two"},
		{"  tabs\tand\r\nnewlines  ", "tabs and newlines"},
		{"a\n\n\nb", "a b"},
		{"", ""},
		{"   \n\t  ", ""},
	}
	for _, tt := range tests {
		if got := SanitizeTranscript(tt.in); got != tt.want {
			t.Errorf("SanitizeTranscript(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"clean", "My Cool Video", "My Cool Video"},
		{"slashes", `a/b\c`, "a_b_c"},
		{"windows reserved", `what? "why": <how>|`, `what_ _why__ _how__`},
		{"percent", "100% true", "100_ true"},
		{"nul byte", "abc\x00def", "abcdef"},
		{"trailing dots", "Title...", "Title"},
		{"surrounding space", "  spaced  ", "spaced"},
		{"empty after cleanup", " ... ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeFilename(tt.in); got != tt.want {
				t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}

	t.Run("long titles are capped", func(t *testing.T) {
		got := SanitizeFilename(strings.Repeat("x", 300))
		if len(got) != 150 {
			t.Errorf("SanitizeFilename(300 chars) has %d chars, want 150", len(got))
		}
	})
}

func TestOutputBase(t *testing.T) {
	tests := []struct {
		title   string
		videoID string
		want    string
	}{
		{"My Cool Video", "dQw4w9WgXcQ", "My Cool Video"},
		{"", "dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{" ... ", "dQw4w9WgXcQ", "dQw4w9WgXcQ"},
	}
	for _, tt := range tests {
		if got := OutputBase(tt.title, tt.videoID); got != tt.want {
			t.Errorf("OutputBase(%q, %q) = %q, want %q", tt.title, tt.videoID, got, tt.want)
		}
	}
}

func TestTitleFromPath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/data/output_mp4/My Video.mp4", "My Video"},
		{"My Video.mp3", "My Video"},
		{"/data/a.b.c.mp4", "a.b.c"},
		{"noext", "noext"},
	}
	for _, tt := range tests {
		if got := TitleFromPath(tt.path); got != tt.want {
			t.Errorf("TitleFromPath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestEnsureDirs(t *testing.T) {
	root := t.TempDir()
	a := filepath.Join(root, "a", "nested")
	b := filepath.Join(root, "b")

	if err := EnsureDirs(a, b); err != nil {
		t.Fatalf("EnsureDirs failed: %v", err)
	}
	for _, dir := range []string{a, b} {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Errorf("expected directory %s to exist", dir)
		}
	}

	// A second call on existing directories is a no-op
	if err := EnsureDirs(a, b); err != nil {
		t.Fatalf("EnsureDirs on existing dirs failed: %v", err)
	}

	// A regular file in the way is an error
	file := filepath.Join(root, "file")
	if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := EnsureDirs(filepath.Join(file, "child")); err == nil {
		t.Error("expected error creating directory under a regular file")
	}
}

func TestSaveTranscript(t *testing.T) {
	dir := t.TempDir()
	if err := SaveTranscript("dQw4w9WgXcQ", "some transcript", dir); err != nil {
		t.Fatalf("SaveTranscript failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "dQw4w9WgXcQ.txt"))
	if err != nil {
		t.Fatalf("reading saved transcript: %v", err)
	}
	if string(data) != "some transcript" {
		t.Errorf("saved transcript = %q, want %q", data, "some transcript")
	}
}

func TestMetadataCacheRoundTrip(t *testing.T) {
	dir := t.TempDir()
	metadata := &VideoMetadata{
		Title:       "Test Video",
		Description: "A description",
		Channel:     "Test Channel",
		Duration:    123.5,
		Categories:  []string{"Education"},
		Tags:        []string{"go", "testing"},
		Chapters: []VideoChapter{
			{StartTime: 0, EndTime: 60, Title: "Intro"},
		},
		HasCaptions: true,
	}

	if err := SaveMetadata("dQw4w9WgXcQ", metadata, dir); err != nil {
		t.Fatalf("SaveMetadata failed: %v", err)
	}

	loaded, err := LoadCachedMetadata("dQw4w9WgXcQ", dir)
	if err != nil {
		t.Fatalf("LoadCachedMetadata failed: %v", err)
	}
	if loaded.Title != metadata.Title || loaded.Channel != metadata.Channel {
		t.Errorf("loaded metadata = %+v, want %+v", loaded, metadata)
	}
	if loaded.Duration != metadata.Duration || loaded.HasCaptions != metadata.HasCaptions {
		t.Errorf("loaded metadata = %+v, want %+v", loaded, metadata)
	}
	if len(loaded.Chapters) != 1 || loaded.Chapters[0].Title != "Intro" {
		t.Errorf("loaded chapters = %+v, want %+v", loaded.Chapters, metadata.Chapters)
	}
}

func TestLoadCachedMetadataMissing(t *testing.T) {
	if _, err := LoadCachedMetadata("missing00000", t.TempDir()); err == nil {
		t.Error("expected error for missing metadata cache")
	}
}

func TestValidateModel(t *testing.T) {
	for _, model := range []string{"gpt-4o", "gpt-4o-mini", "o4-mini", "gpt-4.1-nano"} {
		if err := ValidateModel(model); err != nil {
			t.Errorf("ValidateModel(%q) = %v, want nil", model, err)
		}
	}
	if err := ValidateModel("gpt-2"); err == nil {
		t.Error("ValidateModel(gpt-2) = nil, want error")
	}
}
