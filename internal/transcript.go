package internal

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/horiagug/youtube-transcript-api-go/pkg/yt_transcript"
	"github.com/horiagug/youtube-transcript-api-go/pkg/yt_transcript_formatters"
)

// ErrTranscriptUnavailable indicates a video has no transcript in any of the
// preferred languages (captions disabled, video private or removed).
var ErrTranscriptUnavailable = errors.New("no transcript available")

// transcriptAPI is the slice of the yt_transcript client we use.
type transcriptAPI interface {
	GetFormattedTranscripts(videoID string, languages []string, preserveFormatting bool) (string, error)
}

// Transcripts fetches YouTube captions and persists them as plain text files.
type Transcripts struct {
	api            transcriptAPI
	transcriptsDir string
	languages      []string
	verbose        bool
}

// NewTranscripts creates a transcript fetcher writing <videoID>.txt files
// into transcriptsDir, trying languages in order.
func NewTranscripts(transcriptsDir string, languages []string, verbose bool) *Transcripts {
	formatter := yt_transcript_formatters.NewTextFormatter(
		yt_transcript_formatters.WithTimestamps(false),
		yt_transcript_formatters.WithLanguageCode(false),
	)
	client := yt_transcript.NewClient(yt_transcript.WithFormatter(formatter))
	return &Transcripts{
		api:            client,
		transcriptsDir: transcriptsDir,
		languages:      languages,
		verbose:        verbose,
	}
}

// Fetch returns the transcript text for a video and the path it was saved
// under. A transcript already on disk is reused without hitting YouTube.
func (t *Transcripts) Fetch(ctx context.Context, videoID string) (string, string, error) {
	transcriptPath := filepath.Join(t.transcriptsDir, videoID+".txt")
	if FileExists(transcriptPath) {
		data, err := os.ReadFile(transcriptPath)
		if err == nil {
			if t.verbose {
				fmt.Printf("Using existing transcript %s\n", transcriptPath)
			}
			return string(data), transcriptPath, nil
		}
	}

	type fetchResult struct {
		text string
		err  error
	}
	resultChan := make(chan fetchResult, 1)
	go func() {
		text, err := t.api.GetFormattedTranscripts(videoID, t.languages, false)
		resultChan <- fetchResult{text: text, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", "", ctx.Err()
	case result := <-resultChan:
		if result.err != nil {
			return "", "", fmt.Errorf("video %s: %w: %v", videoID, ErrTranscriptUnavailable, result.err)
		}
		text := SanitizeTranscript(result.text)
		if text == "" {
			return "", "", fmt.Errorf("video %s: %w: transcript empty", videoID, ErrTranscriptUnavailable)
		}
		if err := EnsureDirs(t.transcriptsDir); err != nil {
			return "", "", err
		}
		if err := SaveTranscript(videoID, text, t.transcriptsDir); err != nil {
			return "", "", err
		}
		return text, transcriptPath, nil
	}
}
