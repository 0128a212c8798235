package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// pathsCmd represents the paths command
var pathsCmd = &cobra.Command{
	Use:   "paths",
	Short: "Show paths used by the application",
	Example: `  # Show all application paths
  ytdg paths`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("Config directory: %s\n", config.ConfigDir)
		fmt.Printf("Data directory: %s\n", config.DataDir)
		fmt.Printf("Cache directory: %s\n", config.CacheDir)
		fmt.Printf("Dataset directory: %s\n", config.DatasetDir)
		fmt.Printf("Videos directory: %s\n", config.MP4Dir())
		fmt.Printf("Audio directory: %s\n", config.MP3Dir())
		fmt.Printf("Transcripts directory: %s\n", config.TranscriptsDir())
		fmt.Printf("Dataset CSV: %s\n", config.DatasetCSV())
	},
}

func init() {
	rootCmd.AddCommand(pathsCmd)
}
