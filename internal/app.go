package internal

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// VideoSource downloads videos and reports their metadata.
type VideoSource interface {
	Metadata(ctx context.Context, youtubeURL string) (*VideoMetadata, error)
	Video(ctx context.Context, youtubeURL, base string) (string, error)
}

// AudioConverter turns a video file into an audio file.
type AudioConverter interface {
	Convert(ctx context.Context, videoFile, audioFile string) error
}

// TranscriptSource fetches and persists transcript text for a video ID.
type TranscriptSource interface {
	Fetch(ctx context.Context, videoID string) (text, path string, err error)
}

// App holds the application state and dependencies
type App struct {
	youtube       VideoSource
	audio         AudioConverter
	transcripts   TranscriptSource
	ai            *AI
	promptManager *PromptManager
	config        *Config
	ui            UIManager
}

// NewApp initializes the application
func NewApp(config *Config, options ...AppOption) *App {
	cmdRunner := &DefaultCommandRunner{}

	promptManager := NewPromptManager(config.ConfigDir, config.Prompt)
	audio := NewAudio(cmdRunner, config.TempDir, config.Verbose)

	ui := NewUIManager(config.Verbose, config.Quiet)

	app := &App{
		youtube:       NewYouTube(config.MP4Dir(), config.Verbose),
		audio:         audio,
		transcripts:   NewTranscripts(config.TranscriptsDir(), config.Languages, config.Verbose),
		ai:            NewAIWithKey(config.OpenAIAPIKey, audio, config.QAModel, WhisperLimit, config.QATimeout, config.Verbose),
		promptManager: promptManager,
		config:        config,
		ui:            ui,
	}

	// Apply any custom options
	for _, option := range options {
		option(app)
	}

	return app
}

// AppOption customizes App creation
type AppOption func(*App)

// WithYouTube sets a custom video downloader
func WithYouTube(youtube VideoSource) AppOption {
	return func(a *App) {
		a.youtube = youtube
	}
}

// WithAudio sets a custom audio converter
func WithAudio(audio AudioConverter) AppOption {
	return func(a *App) {
		a.audio = audio
	}
}

// WithTranscripts sets a custom transcript source
func WithTranscripts(transcripts TranscriptSource) AppOption {
	return func(a *App) {
		a.transcripts = transcripts
	}
}

// WithAI sets a custom AI processor
func WithAI(ai *AI) AppOption {
	return func(a *App) {
		a.ai = ai
	}
}

// WithUI sets a custom UI manager
func WithUI(ui UIManager) AppOption {
	return func(a *App) {
		a.ui = ui
	}
}

// SetPromptManager sets a new prompt manager
func (app *App) SetPromptManager(pm *PromptManager) {
	app.promptManager = pm
}

// BuildDataset runs the pipeline over every URL in the input CSV and writes
// dataset.csv, one row per input URL in input order. Stage failures degrade
// individual records; only reading the input and writing the dataset abort
// the run. Returns the path of the written CSV.
func (app *App) BuildDataset(ctx context.Context, inputPath string) (string, error) {
	if err := EnsureDirs(app.config.DatasetDir, app.config.MP4Dir(), app.config.MP3Dir(), app.config.TranscriptsDir()); err != nil {
		return "", fmt.Errorf("creating dataset directories: %w", err)
	}

	rows, err := ReadInput(inputPath)
	if err != nil {
		return "", err
	}

	app.ui.Printf("Processing %d videos from %s\n", len(rows), inputPath)
	bar := app.ui.NewProgressBar(len(rows), "Building dataset")

	records := make([]Record, 0, len(rows))
	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		records = append(records, app.processInput(ctx, row))
		bar.Add(1)
	}
	bar.Finish()

	datasetPath := app.config.DatasetCSV()
	if err := WriteCSV(records, datasetPath, app.config.QAEnabled); err != nil {
		return "", err
	}
	return datasetPath, nil
}

// ProcessURL runs every pipeline stage for a single URL and returns the
// resulting record.
func (app *App) ProcessURL(ctx context.Context, youtubeURL string) Record {
	return app.processInput(ctx, InputRow{URL: youtubeURL})
}

func (app *App) processInput(ctx context.Context, row InputRow) Record {
	record := Record{URL: row.URL}

	videoID, err := ExtractVideoID(row.URL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		return record
	}
	record.VideoID = videoID

	app.downloadStage(ctx, &record)
	app.convertStage(ctx, &record)
	app.transcriptStage(ctx, &record)
	app.qaStage(ctx, &record, row.QAPairs)

	app.ui.Verbose("Processed %s: %s\n", row.URL, record)
	return record
}

// downloadStage fills MP4Path and Title. The title comes from the downloaded
// file's base name, so a failed download leaves both fields empty.
func (app *App) downloadStage(ctx context.Context, record *Record) {
	videoFile, err := app.downloadVideo(ctx, record.URL, record.VideoID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: downloading %s: %v\n", record.VideoID, err)
		return
	}
	record.MP4Path = videoFile
	record.Title = TitleFromPath(videoFile)
}

func (app *App) downloadVideo(ctx context.Context, youtubeURL, videoID string) (string, error) {
	metadata, err := app.Metadata(ctx, youtubeURL)
	if err != nil {
		return "", fmt.Errorf("%w: metadata: %v", ErrDownload, err)
	}
	base := OutputBase(metadata.Title, videoID)
	return app.youtube.Video(ctx, youtubeURL, base)
}

// DownloadVideo downloads a single video into the dataset tree and returns
// the file path.
func (app *App) DownloadVideo(ctx context.Context, youtubeURL string) (string, error) {
	videoID, err := ExtractVideoID(youtubeURL)
	if err != nil {
		return "", err
	}
	return app.downloadVideo(ctx, youtubeURL, videoID)
}

// convertStage fills MP3Path from MP4Path. Without a downloaded video there
// is nothing to convert.
func (app *App) convertStage(ctx context.Context, record *Record) {
	if record.MP4Path == "" {
		return
	}
	audioFile, err := app.ConvertVideo(ctx, record.MP4Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: converting %s: %v\n", record.MP4Path, err)
		return
	}
	record.MP3Path = audioFile
}

// ConvertVideo converts a downloaded video into an MP3 in the dataset tree.
// An existing MP3 is reused without re-converting.
func (app *App) ConvertVideo(ctx context.Context, videoFile string) (string, error) {
	if err := EnsureDirs(app.config.MP3Dir()); err != nil {
		return "", fmt.Errorf("creating audio directory: %w", err)
	}

	audioFile := filepath.Join(app.config.MP3Dir(), TitleFromPath(videoFile)+".mp3")
	if FileExists(audioFile) {
		app.ui.Verbose("Using existing audio %s\n", audioFile)
		return audioFile, nil
	}

	if err := app.audio.Convert(ctx, videoFile, audioFile); err != nil {
		return "", err
	}
	return audioFile, nil
}

// transcriptStage fills the transcript fields. Caption fetching is
// independent of the download and convert stages, except that the Whisper
// fallback needs the converted audio to work with.
func (app *App) transcriptStage(ctx context.Context, record *Record) {
	text, transcriptPath, err := app.transcripts.Fetch(ctx, record.VideoID)
	if err == nil {
		record.Transcript = text
		record.TranscriptPath = transcriptPath
		record.TranscriptExists = true
		return
	}
	fmt.Fprintf(os.Stderr, "Warning: %v\n", err)

	if !app.config.FallbackWhisper || record.MP3Path == "" {
		return
	}
	text, transcriptPath, err = app.whisperTranscript(ctx, record.VideoID, record.MP3Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: whisper transcription for %s: %v\n", record.VideoID, err)
		return
	}
	record.Transcript = text
	record.TranscriptPath = transcriptPath
	record.TranscriptExists = true
}

// whisperTranscript transcribes an audio file with Whisper and persists the
// result like a fetched transcript.
func (app *App) whisperTranscript(ctx context.Context, videoID, audioFile string) (string, string, error) {
	text, err := app.ai.Transcribe(ctx, audioFile)
	if err != nil {
		return "", "", err
	}
	text = SanitizeTranscript(text)
	if text == "" {
		return "", "", fmt.Errorf("empty transcription for %s", audioFile)
	}

	if err := EnsureDirs(app.config.TranscriptsDir()); err != nil {
		return "", "", err
	}
	if err := SaveTranscript(videoID, text, app.config.TranscriptsDir()); err != nil {
		return "", "", err
	}
	return text, filepath.Join(app.config.TranscriptsDir(), videoID+".txt"), nil
}

// qaStage fills QAPairs. Valid pairs carried in the input CSV are reused,
// otherwise pairs are generated from the transcript.
func (app *App) qaStage(ctx context.Context, record *Record, existingQA string) {
	if !app.config.QAEnabled {
		return
	}
	if pairs := parseExistingQAPairs(existingQA); pairs != nil {
		app.ui.Verbose("Reusing %d Q&A pairs for %s\n", len(pairs), record.VideoID)
		record.QAPairs = pairs
		return
	}
	if !record.TranscriptExists {
		return
	}

	prompt, err := app.promptManager.CreatePrompt(record.Transcript, app.config.QACount, app.promptMetadata(record))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: creating Q&A prompt for %s: %v\n", record.VideoID, err)
		return
	}
	pairs, err := app.ai.QAPairs(ctx, prompt)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: generating Q&A for %s: %v\n", record.VideoID, err)
		return
	}
	record.QAPairs = pairs
}

// promptMetadata returns the richest metadata available without another
// network round trip.
func (app *App) promptMetadata(record *Record) *VideoMetadata {
	if metadata, err := LoadCachedMetadata(record.VideoID, app.config.CacheDir); err == nil {
		return metadata
	}
	return &VideoMetadata{Title: record.Title}
}

// Transcript returns the transcript for a single video, falling back to
// Whisper transcription of the converted audio when enabled.
func (app *App) Transcript(ctx context.Context, youtubeURL string, fallbackWhisper bool) (string, error) {
	videoID, err := ExtractVideoID(youtubeURL)
	if err != nil {
		return "", err
	}

	text, _, err := app.transcripts.Fetch(ctx, videoID)
	if err == nil {
		return text, nil
	}
	if !fallbackWhisper {
		return "", err
	}

	app.ui.Verbose("No captions for %s, transcribing audio with Whisper\n", videoID)
	record := Record{URL: youtubeURL, VideoID: videoID}
	app.downloadStage(ctx, &record)
	app.convertStage(ctx, &record)
	if record.MP3Path == "" {
		return "", err
	}

	text, _, whisperErr := app.whisperTranscript(ctx, videoID, record.MP3Path)
	if whisperErr != nil {
		return "", whisperErr
	}
	return text, nil
}

// Metadata gets metadata from YouTube (cached or fresh)
func (app *App) Metadata(ctx context.Context, youtubeURL string) (*VideoMetadata, error) {
	_, youtubeID := ParseArg(youtubeURL)

	// Try to load cached metadata first
	if cachedMetadata, err := LoadCachedMetadata(youtubeID, app.config.CacheDir); err == nil {
		if app.config.Verbose {
			fmt.Printf("Using cached metadata for %s\n", youtubeID)
		}
		return cachedMetadata, nil
	}

	if app.config.Verbose {
		fmt.Printf("Fetching fresh metadata for %s\n", youtubeID)
	}

	metadata, err := app.youtube.Metadata(ctx, youtubeURL)
	if err != nil {
		return nil, err
	}

	// Cache the metadata for future use
	if err := EnsureDirs(app.config.CacheDir); err == nil {
		if err := SaveMetadata(youtubeID, metadata, app.config.CacheDir); err != nil {
			if app.config.Verbose {
				fmt.Printf("Warning: Failed to cache metadata: %v\n", err)
			}
		}
	}

	return metadata, nil
}
