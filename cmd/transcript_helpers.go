package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ncls-p/yt-transcript-dataset-generator/internal"
)

// prepareTranscriptApp applies transcript-related flags and builds the app.
func prepareTranscriptApp(cmd *cobra.Command) (*internal.App, error) {
	if err := internal.HandleTranscriptionFlags(cmd, config); err != nil {
		return nil, err
	}
	if config.FallbackWhisper {
		if err := internal.ValidateOpenAIRequirements(cmd, config); err != nil {
			return nil, err
		}
	}
	return internal.NewApp(config), nil
}

// fetchTranscript retrieves a transcript for the given argument and optionally falls back to Whisper.
func fetchTranscript(cmd *cobra.Command, app *internal.App, arg string) (string, error) {
	if internal.IsLikelyCommand(arg) {
		return "", fmt.Errorf("'%s' doesn't look like a YouTube URL or video ID", arg)
	}

	youtubeURL, _ := internal.ParseArg(arg)
	return app.Transcript(cmd.Context(), youtubeURL, config.FallbackWhisper)
}
