package internal

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// ErrExtraction indicates a URL no video ID could be extracted from.
var ErrExtraction = errors.New("no video ID in URL")

// ParseArg normalizes a command argument into a watch URL and a video ID.
// Accepts full YouTube URLs as well as bare 11-character video IDs.
func ParseArg(arg string) (string, string) {
	arg = strings.TrimSpace(arg)
	if strings.HasPrefix(arg, "https://") || strings.HasPrefix(arg, "http://") {
		videoID, err := ExtractVideoID(arg)
		if err == nil {
			return arg, videoID
		}
		// Fall back to the original arg if we can't extract an ID
		return arg, arg
	}

	return "https://www.youtube.com/watch?v=" + arg, arg
}

// ExtractVideoID pulls the video ID out of a YouTube URL. Recognized shapes
// are watch?v=, youtu.be/<id>, and /embed/, /shorts/, /live/ paths.
func ExtractVideoID(youtubeURL string) (string, error) {
	// Trim any leading or trailing whitespace from the URL
	youtubeURL = strings.TrimSpace(youtubeURL)
	u, err := url.Parse(youtubeURL)
	if err != nil {
		return "", fmt.Errorf("%w: parsing %q: %v", ErrExtraction, youtubeURL, err)
	}

	switch u.Host {
	case "www.youtube.com", "youtube.com", "m.youtube.com":
	case "youtu.be":
		if id := lastPathSegment(u.Path); id != "" {
			return id, nil
		}
		return "", fmt.Errorf("%w: %s", ErrExtraction, youtubeURL)
	default:
		return "", fmt.Errorf("%w: not a YouTube URL: %s", ErrExtraction, youtubeURL)
	}

	if v := u.Query().Get("v"); v != "" {
		return v, nil
	}

	// Don't extract video IDs from playlist URLs
	if strings.Contains(u.Path, "/playlist") {
		return "", fmt.Errorf("%w: playlist URL, not a video URL: %s", ErrExtraction, youtubeURL)
	}

	if id := lastPathSegment(u.Path); id != "" && id != "watch" {
		return id, nil
	}

	return "", fmt.Errorf("%w: %s", ErrExtraction, youtubeURL)
}

func lastPathSegment(path string) string {
	parts := strings.Split(path, "/")
	if len(parts) == 0 {
		return ""
	}
	return parts[len(parts)-1]
}

// SanitizeTranscript collapses whitespace runs into single spaces so a
// transcript fits on one CSV line.
func SanitizeTranscript(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// filenameSanitizer strips characters that break file paths or yt-dlp
// output templates.
var filenameSanitizer = strings.NewReplacer(
	"/", "_", "\\", "_", ":", "_", "*", "_", "?", "_",
	"\"", "_", "<", "_", ">", "_", "|", "_", "%", "_", "\x00", "",
)

// SanitizeFilename turns a video title into a safe file base name.
func SanitizeFilename(name string) string {
	name = filenameSanitizer.Replace(strings.TrimSpace(name))
	name = strings.Trim(name, ". ")

	const maxLen = 150
	if utf8.RuneCountInString(name) > maxLen {
		runes := []rune(name)
		name = strings.TrimRight(string(runes[:maxLen]), ". ")
	}
	return name
}

// OutputBase picks the file base name for a video: the sanitized title, or
// the video ID when the title sanitizes away to nothing.
func OutputBase(title, videoID string) string {
	if base := SanitizeFilename(title); base != "" {
		return base
	}
	return videoID
}

// TitleFromPath recovers the title from a downloaded file's base name.
func TitleFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// CleanupTempDir purges files from a temporary directory
func CleanupTempDir(tempDir string) error {
	// Check if directory exists
	if _, err := os.Stat(tempDir); os.IsNotExist(err) {
		return nil // Directory doesn't exist, nothing to clean up
	}

	// Read directory contents
	entries, err := os.ReadDir(tempDir)
	if err != nil {
		return fmt.Errorf("reading temp directory: %w", err)
	}

	// Remove each file in the directory
	for _, entry := range entries {
		filePath := filepath.Join(tempDir, entry.Name())
		if err := os.Remove(filePath); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to remove temporary file %s: %v\n", filePath, err)
		}
	}

	// Try to remove the directory itself
	if err := os.Remove(tempDir); err != nil {
		// It's okay if we can't remove the directory (it might not be empty)
		// Just log a warning
		fmt.Fprintf(os.Stderr, "Note: could not remove temp directory %s: %v\n", tempDir, err)
	}

	return nil
}

// getTerminalWidth gets terminal width with fallback
func getTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return 80
	}

	if width > 10 {
		return width - 4
	}

	return width
}

// RenderMarkdown renders markdown content with glamour
func RenderMarkdown(content string) (string, error) {
	width := getTerminalWidth()
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
		glamour.WithColorProfile(termenv.EnvColorProfile()),
	)
	if err != nil {
		return "", fmt.Errorf("creating terminal renderer: %w", err)
	}

	renderedContent, err := r.Render(content)
	if err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}

	return renderedContent, nil
}

// FileExists checks if a file exists
func FileExists(filename string) bool {
	_, err := os.Stat(filename)
	return !os.IsNotExist(err)
}

// ValidateModel checks if the model is supported
func ValidateModel(model string) error {
	supportedModels := []string{"gpt-4o", "gpt-4o-mini", "o4-mini", "gpt-4.1-nano"}
	if slices.Contains(supportedModels, model) {
		return nil
	}
	return fmt.Errorf("unsupported model: %s (supported: %s)", model, strings.Join(supportedModels, ", "))
}

// EnsureDirs creates directories if needed
func EnsureDirs(dirs ...string) error {
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}
	return nil
}

// cleanupFiles removes temporary files
func cleanupFiles(files ...string) {
	for _, file := range files {
		if err := os.Remove(file); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to remove file %s: %v\n", file, err)
		}
	}
}

// IsValidYouTubeID checks if a string looks like a valid YouTube video ID
func IsValidYouTubeID(id string) bool {
	// YouTube video IDs are exactly 11 characters long
	if len(id) != 11 {
		return false
	}

	// YouTube video IDs contain only alphanumeric characters, hyphens, and underscores
	matched, _ := regexp.MatchString(`^[A-Za-z0-9_-]+$`, id)
	return matched
}

// IsLikelyCommand checks if a string looks like it might be a mistyped command
func IsLikelyCommand(arg string) bool {
	// Short strings (1-10 chars) that don't look like YouTube IDs are likely commands
	return len(arg) <= 10 && !IsValidYouTubeID(arg)
}

// ValidateOpenAIAPIKey checks if the OpenAI API key is set and returns a standardized error if not
func ValidateOpenAIAPIKey(apiKey string) error {
	if apiKey == "" {
		return fmt.Errorf("OpenAI API key is required - set it in config.toml or OPENAI_API_KEY environment variable")
	}
	return nil
}

// SaveTranscript saves a transcript to the specified directory with standard error handling
func SaveTranscript(youtubeID, transcript, transcriptsDir string) error {
	transcriptPath := filepath.Join(transcriptsDir, youtubeID+".txt")
	if err := os.WriteFile(transcriptPath, []byte(transcript), 0644); err != nil {
		return fmt.Errorf("saving transcript: %w", err)
	}
	return nil
}

// CachedVideoMetadata extends VideoMetadata with cache information
type CachedVideoMetadata struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Channel     string         `json:"channel"`
	Duration    float64        `json:"duration"`
	Categories  []string       `json:"categories"`
	Tags        []string       `json:"tags"`
	Chapters    []VideoChapter `json:"chapters"`
	HasCaptions bool           `json:"has_captions"`
	CachedAt    time.Time      `json:"cached_at"`
}

// SaveMetadata saves video metadata to cache as JSON
func SaveMetadata(youtubeID string, metadata *VideoMetadata, cacheDir string) error {
	cached := CachedVideoMetadata{
		Title:       metadata.Title,
		Description: metadata.Description,
		Channel:     metadata.Channel,
		Duration:    metadata.Duration,
		Categories:  metadata.Categories,
		Tags:        metadata.Tags,
		Chapters:    metadata.Chapters,
		HasCaptions: metadata.HasCaptions,
		CachedAt:    time.Now(),
	}

	metadataPath := filepath.Join(cacheDir, youtubeID+".meta.json")
	data, err := json.MarshalIndent(cached, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling metadata: %w", err)
	}

	if err := os.WriteFile(metadataPath, data, 0644); err != nil {
		return fmt.Errorf("saving metadata: %w", err)
	}

	return nil
}

// LoadCachedMetadata loads video metadata from cache
func LoadCachedMetadata(youtubeID, cacheDir string) (*VideoMetadata, error) {
	metadataPath := filepath.Join(cacheDir, youtubeID+".meta.json")

	if !FileExists(metadataPath) {
		return nil, fmt.Errorf("metadata cache not found")
	}

	data, err := os.ReadFile(metadataPath)
	if err != nil {
		return nil, fmt.Errorf("reading metadata cache: %w", err)
	}

	var cached CachedVideoMetadata
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, fmt.Errorf("parsing metadata cache: %w", err)
	}

	return &VideoMetadata{
		Title:       cached.Title,
		Description: cached.Description,
		Channel:     cached.Channel,
		Duration:    cached.Duration,
		Categories:  cached.Categories,
		Tags:        cached.Tags,
		Chapters:    cached.Chapters,
		HasCaptions: cached.HasCaptions,
	}, nil
}
