package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ncls-p/yt-transcript-dataset-generator/internal"
)

// transcriptCmd represents the transcript command
var transcriptCmd = &cobra.Command{
	Use:   "transcript [YouTube URL or ID]",
	Short: "Fetch the transcript of a single video",
	Example: `  # Print the transcript of a video
  ytdg transcript "https://www.youtube.com/watch?v=tAP1eZYEuKA"
  ytdg transcript tAP1eZYEuKA

  # Save transcript to file
  ytdg transcript tAP1eZYEuKA -o transcript.txt

  # Prefer French captions
  ytdg transcript tAP1eZYEuKA --languages fr,en

  # Use Whisper if no captions available (costs money)
  ytdg transcript tAP1eZYEuKA --fallback-whisper`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := prepareTranscriptApp(cmd)
		if err != nil {
			return err
		}

		transcript, err := fetchTranscript(cmd, app, args[0])
		if err != nil {
			return err
		}

		// Handle output flag
		outputFile, _ := cmd.Flags().GetString("output")
		if outputFile != "" {
			return os.WriteFile(outputFile, []byte(transcript), 0644)
		}

		fmt.Println(transcript)
		return nil
	},
}

func init() {
	internal.AddTranscriptionFlags(transcriptCmd)
	transcriptCmd.Flags().StringP("output", "o", "", "Output file path (default: stdout)")
	rootCmd.AddCommand(transcriptCmd)
}
