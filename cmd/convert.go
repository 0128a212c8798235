package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ncls-p/yt-transcript-dataset-generator/internal"
)

// convertCmd represents the convert command
var convertCmd = &cobra.Command{
	Use:   "convert [MP4 file, YouTube URL or ID]",
	Short: "Convert a video to MP3 in the dataset tree",
	Long: `Convert extracts the audio track of a video into dataset/output_mp3/.

The argument is either the path of an already-downloaded video file or a
YouTube URL, in which case the video is downloaded first.`,
	Example: `  # Convert a downloaded video
  ytdg convert dataset/output_mp4/some-talk.mp4

  # Download and convert in one go
  ytdg convert "https://www.youtube.com/watch?v=tAP1eZYEuKA"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := internal.NewApp(config)

		videoFile := args[0]
		if !internal.FileExists(videoFile) {
			// Not a local file, treat it as a YouTube URL or ID
			if internal.IsLikelyCommand(args[0]) {
				return fmt.Errorf("'%s' is neither a video file nor a YouTube URL or video ID", args[0])
			}
			youtubeURL, _ := internal.ParseArg(args[0])
			var err error
			videoFile, err = app.DownloadVideo(cmd.Context(), youtubeURL)
			if err != nil {
				return err
			}
		}

		audioFile, err := app.ConvertVideo(cmd.Context(), videoFile)
		if err != nil {
			return err
		}

		fmt.Println(audioFile)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(convertCmd)
}
