package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ncls-p/yt-transcript-dataset-generator/internal"
)

// downloadCmd represents the download command
var downloadCmd = &cobra.Command{
	Use:   "download [YouTube URL or ID]",
	Short: "Download a single video as MP4 into the dataset tree",
	Example: `  # Download a video into dataset/output_mp4/
  ytdg download "https://www.youtube.com/watch?v=tAP1eZYEuKA"
  ytdg download tAP1eZYEuKA

  # Download into another dataset tree
  ytdg download tAP1eZYEuKA --dataset-dir /data/yt`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if internal.IsLikelyCommand(args[0]) {
			return fmt.Errorf("'%s' doesn't look like a YouTube URL or video ID", args[0])
		}

		app := internal.NewApp(config)
		youtubeURL, _ := internal.ParseArg(args[0])

		videoFile, err := app.DownloadVideo(cmd.Context(), youtubeURL)
		if err != nil {
			return err
		}

		fmt.Println(videoFile)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(downloadCmd)
}
