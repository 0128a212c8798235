package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ncls-p/yt-transcript-dataset-generator/internal"
)

var (
	config *internal.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ytdg [input.csv]",
	Short: "Build a transcript dataset from YouTube videos",
	Long: `ytdg builds a machine learning dataset from a list of YouTube URLs.

For every URL in the input CSV it downloads the video as MP4, converts it
to MP3, fetches the transcript, and writes one row to dataset.csv. Videos
that fail a stage still get a row, with the missing fields left empty.

The dataset tree is created under the dataset directory:

  dataset/
    output_mp4/         downloaded videos
    output_mp3/         converted audio
    output_transcripts/ transcript text files
    dataset.csv         one row per input URL`,
	Example: `  # Build a dataset from videos.csv (needs a url column)
  ytdg videos.csv

  # Write the dataset tree somewhere else
  ytdg videos.csv --dataset-dir /data/yt

  # Prefer French captions, fall back to English
  ytdg videos.csv --languages fr,en

  # Also generate question-answer pairs per transcript (needs OpenAI API key)
  ytdg videos.csv --qa

  # Transcribe videos without captions using Whisper (costs money)
  ytdg videos.csv --fallback-whisper`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := internal.HandleVerboseFlag(cmd, config); err != nil {
			return err
		}
		if cmd.Flags().Changed("quiet") {
			quiet, err := cmd.Flags().GetBool("quiet")
			if err != nil {
				return fmt.Errorf("failed to get quiet flag: %w", err)
			}
			config.Quiet = quiet
		}
		return internal.HandleDatasetDirFlag(cmd, config)
	},
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := internal.HandleTranscriptionFlags(cmd, config); err != nil {
			return err
		}
		if err := internal.HandleQAFlags(cmd, config); err != nil {
			return err
		}

		// OpenAI is only involved when Q&A or the Whisper fallback is on
		if config.QAEnabled || config.FallbackWhisper {
			if err := internal.ValidateOpenAIRequirements(cmd, config); err != nil {
				return err
			}
		}

		inputPath := config.InputCSV
		if len(args) == 1 {
			inputPath = args[0]
		}

		if !internal.FileExists(inputPath) {
			if len(args) == 1 && internal.IsLikelyCommand(args[0]) {
				// Check if it's similar to any available commands
				availableCommands := []string{"download", "convert", "transcript", "metadata", "report", "cp", "mcp", "paths", "version", "help"}
				var suggestions []string
				for _, cmdName := range availableCommands {
					if strings.Contains(cmdName, args[0]) || (len(args[0]) <= len(cmdName) && strings.Contains(args[0], cmdName[:len(args[0])])) {
						suggestions = append(suggestions, cmdName)
					}
				}
				if len(suggestions) > 0 {
					return fmt.Errorf("'%s' is not an input CSV. Did you mean: %s?", args[0], strings.Join(suggestions, ", "))
				}
			}
			return fmt.Errorf("input CSV %s not found", inputPath)
		}

		app := internal.NewApp(config)
		if err := internal.HandlePromptFlag(cmd, app); err != nil {
			return err
		}

		datasetPath, err := app.BuildDataset(cmd.Context(), inputPath)
		if err != nil {
			return err
		}

		if !config.Quiet {
			fmt.Printf("Dataset written to %s\n", datasetPath)
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	// Create a cancellable context for the entire application
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize configuration with Viper
	config = internal.InitConfig()

	// Ensure XDG directories exist
	if err := internal.EnsureDirs(config.ConfigDir, config.DataDir, config.CacheDir); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating XDG directories: %v\n", err)
		os.Exit(1)
	}

	// Ensure default config exists in XDG config directory
	if err := internal.EnsureDefaultConfig(config.ConfigDir); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to ensure default config: %v\n", err)
	}

	// Ensure default prompt exists in XDG config directory
	if err := internal.EnsureDefaultPrompt(config.ConfigDir); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to ensure default prompt: %v\n", err)
	}

	// Set up signal handling for graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	// Handle shutdown signal in a separate goroutine
	go func() {
		<-sigCh
		fmt.Println("\nReceived interrupt signal. Cleaning up and shutting down...")

		// Cancel the main context to signal all operations to stop
		cancel()

		// Create a context with timeout for cleanup operations
		cleanupCtx, cleanupCancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cleanupCancel()

		// Run cleanup with timeout context
		cleanupDone := make(chan struct{})
		go func() {
			if err := internal.CleanupTempDir(config.TempDir); err != nil {
				fmt.Fprintf(os.Stderr, "Error cleaning up temporary files: %v\n", err)
			}
			close(cleanupDone)
		}()

		// Wait for either cleanup to complete or timeout
		select {
		case <-cleanupDone:
			// Cleanup completed successfully
		case <-cleanupCtx.Done():
			// Timeout occurred
			fmt.Fprintln(os.Stderr, "Warning: Cleanup timed out, forcing exit")
		}

		// Exit the program
		os.Exit(0)
	}()

	// Set context on root command
	rootCmd.SetContext(ctx)

	return rootCmd.Execute()
}

func init() {
	internal.AddTranscriptionFlags(rootCmd)
	internal.AddQAFlags(rootCmd)
	internal.AddOpenAIFlags(rootCmd)
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output for debugging")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Suppress progress output")
	rootCmd.PersistentFlags().StringP("dataset-dir", "d", "", "Root of the dataset tree (default ./dataset)")
	rootCmd.PersistentFlags().String("config", "", "Config file (default is $XDG_CONFIG_HOME/ytdg/config.toml)")
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}
