package internal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/lrstanley/go-ytdlp"
)

// ErrDownload indicates yt-dlp could not produce a local video file.
var ErrDownload = errors.New("video download failed")

// VideoMetadata contains YouTube video information
type VideoMetadata struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Channel     string         `json:"channel"`
	Uploader    string         `json:"uploader"`
	Duration    float64        `json:"duration"`
	Categories  []string       `json:"categories"`
	Tags        []string       `json:"tags"`
	Chapters    []VideoChapter `json:"chapters"`
	HasCaptions bool           `json:"has_captions"`
}

// VideoChapter represents a video chapter marker
type VideoChapter struct {
	StartTime float64 `json:"start_time"`
	EndTime   float64 `json:"end_time"`
	Title     string  `json:"title"`
}

// YouTube handles YouTube downloads via yt-dlp
type YouTube struct {
	videoDir string
	verbose  bool
}

// NewYouTube creates a new YouTube downloader writing videos into videoDir
func NewYouTube(videoDir string, verbose bool) *YouTube {
	return &YouTube{
		videoDir: videoDir,
		verbose:  verbose,
	}
}

// Metadata fetches video details using go-ytdlp
func (yt *YouTube) Metadata(ctx context.Context, youtubeURL string) (*VideoMetadata, error) {
	if yt.verbose {
		fmt.Println("Extracting video metadata...")
	}

	// Create a new ytdlp command to extract JSON metadata
	dl := ytdlp.New().
		DumpSingleJSON(). // Get all info in JSON format
		NoPlaylist().     // Don't process playlists
		SkipDownload()    // Don't download the actual video

	// Run the command
	result, err := dl.Run(ctx, youtubeURL)
	if err != nil {
		if yt.verbose {
			fmt.Printf("Metadata extraction error: %v\n", err)
			fmt.Printf("Stderr: %s\n", result.Stderr)
		}
		return nil, fmt.Errorf("extracting video metadata: %w", err)
	}

	// Parse the JSON output into a raw map first to extract subtitle info
	var rawData map[string]any
	if err := json.Unmarshal([]byte(result.Stdout), &rawData); err != nil {
		if yt.verbose {
			fmt.Printf("Failed to parse metadata JSON: %v\n", err)
		}
		return nil, fmt.Errorf("parsing video metadata: %w", err)
	}

	// Parse the JSON output into our struct
	var metadata VideoMetadata
	if err := json.Unmarshal([]byte(result.Stdout), &metadata); err != nil {
		if yt.verbose {
			fmt.Printf("Failed to parse metadata JSON: %v\n", err)
		}
		return nil, fmt.Errorf("parsing video metadata: %w", err)
	}

	// Extract subtitle availability information
	metadata.HasCaptions = extractSubtitleInfo(rawData)

	if yt.verbose {
		fmt.Println("Metadata extraction completed successfully")
		fmt.Printf("Title: %s\n", metadata.Title)
		fmt.Printf("Channel: %s\n", metadata.Channel)
		fmt.Printf("Duration: %.2f seconds\n", metadata.Duration)
		fmt.Printf("Chapters: %d\n", len(metadata.Chapters))
	}

	return &metadata, nil
}

// Video downloads a YouTube video as MP4 into the video directory, using
// base as the file name. An existing file is reused without re-downloading.
func (yt *YouTube) Video(ctx context.Context, youtubeURL, base string) (string, error) {
	target := filepath.Join(yt.videoDir, base+".mp4")
	if FileExists(target) {
		if yt.verbose {
			fmt.Printf("Using existing video %s\n", target)
		}
		return target, nil
	}

	if yt.verbose {
		fmt.Println("Downloading video...")
	}

	if err := EnsureDirs(yt.videoDir); err != nil {
		return "", fmt.Errorf("creating video directory: %w", err)
	}

	// Only %(ext)s may expand here, base is already sanitized
	outputPath := filepath.Join(yt.videoDir, base+".%(ext)s")

	// Create a new ytdlp command with the desired options for video download
	dl := ytdlp.New().
		Format("best[ext=mp4]/best"). // Prefer a ready-made MP4
		RemuxVideo("mp4").            // Remux other containers into MP4
		NoPlaylist().                 // Don't process playlists
		Output(outputPath)

	// Run the command
	result, err := dl.Run(ctx, youtubeURL)
	if err != nil {
		if yt.verbose {
			fmt.Printf("Video download error: %v\n", err)
			fmt.Printf("Stderr: %s\n", result.Stderr)
		}
		return "", fmt.Errorf("%w: yt-dlp: %v\nOutput: %s", ErrDownload, err, result.Stderr)
	}

	if yt.verbose {
		fmt.Println("Video download completed successfully")
	}

	if !FileExists(target) {
		return "", fmt.Errorf("%w: expected file %s missing after download", ErrDownload, target)
	}

	return target, nil
}

// extractSubtitleInfo extracts subtitle availability from yt-dlp JSON output
func extractSubtitleInfo(rawData map[string]any) bool {
	// Check for manual subtitles
	if subtitles, ok := rawData["subtitles"].(map[string]any); ok && subtitles != nil {
		if len(subtitles) > 0 {
			return true
		}
	}

	// Check for automatic captions
	if autoCaptions, ok := rawData["automatic_captions"].(map[string]any); ok && autoCaptions != nil {
		if len(autoCaptions) > 0 {
			return true
		}
	}

	return false
}
