package internal

import (
	"fmt"

	"github.com/spf13/cobra"
)

// AddTranscriptionFlags adds flags related to transcription functionality
func AddTranscriptionFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("fallback-whisper", false, "Transcribe with Whisper when no captions are available (costs money)")
	cmd.Flags().StringSliceP("languages", "l", nil, "Transcript languages to try, in order (default en,fr)")
}

// AddQAFlags adds flags related to Q&A pair generation
func AddQAFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("qa", false, "Generate question-answer pairs for each transcript (adds a qa_pairs column)")
	cmd.Flags().Int("qa-pairs", 0, "Number of question-answer pairs per transcript (default 5)")
}

// AddOpenAIFlags adds flags related to OpenAI API functionality
func AddOpenAIFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("model", "m", "", "OpenAI model to use for Q&A generation")
	cmd.Flags().StringP("prompt", "p", "", "Custom Q&A prompt (string or file path)")
}

// HandleTranscriptionFlags applies transcription flags to the config
func HandleTranscriptionFlags(cmd *cobra.Command, config *Config) error {
	fallback, err := cmd.Flags().GetBool("fallback-whisper")
	if err != nil {
		return fmt.Errorf("failed to get fallback-whisper flag: %w", err)
	}
	if cmd.Flags().Changed("fallback-whisper") {
		config.FallbackWhisper = fallback
	}

	if cmd.Flags().Changed("languages") {
		languages, err := cmd.Flags().GetStringSlice("languages")
		if err != nil {
			return fmt.Errorf("failed to get languages flag: %w", err)
		}
		if len(languages) > 0 {
			config.Languages = languages
		}
	}

	return nil
}

// HandleQAFlags applies Q&A flags to the config
func HandleQAFlags(cmd *cobra.Command, config *Config) error {
	if cmd.Flags().Changed("qa") {
		qa, err := cmd.Flags().GetBool("qa")
		if err != nil {
			return fmt.Errorf("failed to get qa flag: %w", err)
		}
		config.QAEnabled = qa
	}

	if cmd.Flags().Changed("qa-pairs") {
		count, err := cmd.Flags().GetInt("qa-pairs")
		if err != nil {
			return fmt.Errorf("failed to get qa-pairs flag: %w", err)
		}
		if count > 0 {
			config.QACount = count
		}
	}

	return nil
}

// HandlePromptFlag processes the --prompt flag to set custom prompt
func HandlePromptFlag(cmd *cobra.Command, app *App) error {
	// Check if prompt flag was explicitly set
	promptFlag := cmd.Flags().Lookup("prompt")
	if promptFlag == nil || !promptFlag.Changed {
		return nil
	}

	prompt, err := cmd.Flags().GetString("prompt")
	if err != nil {
		return fmt.Errorf("failed to get prompt flag: %w", err)
	}

	// If prompt is empty, nothing to do
	if prompt == "" {
		return nil
	}

	// Create a new PromptManager with the specified prompt
	app.SetPromptManager(NewPromptManager(app.config.ConfigDir, prompt))

	// Check if it's a file path or a prompt string for verbose output
	if IsLikelyFilePath(prompt) && FileExists(prompt) {
		if app.config.Verbose {
			fmt.Printf("Using custom prompt file: %s\n", prompt)
		}
	} else {
		if app.config.Verbose {
			fmt.Printf("Using custom prompt string\n")
		}
	}

	return nil
}

// HandleVerboseFlag processes the --verbose flag to update config
func HandleVerboseFlag(cmd *cobra.Command, config *Config) error {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		return fmt.Errorf("failed to get verbose flag: %w", err)
	}
	config.Verbose = verbose
	return nil
}

// HandleDatasetDirFlag processes the --dataset-dir flag to update config
func HandleDatasetDirFlag(cmd *cobra.Command, config *Config) error {
	if !cmd.Flags().Changed("dataset-dir") {
		return nil
	}
	dir, err := cmd.Flags().GetString("dataset-dir")
	if err != nil {
		return fmt.Errorf("failed to get dataset-dir flag: %w", err)
	}
	if dir != "" {
		config.DatasetDir = dir
	}
	return nil
}

// ValidateOpenAIRequirements validates OpenAI API key and model from command flags and config
func ValidateOpenAIRequirements(cmd *cobra.Command, config *Config) error {
	// Check OpenAI API key
	if err := ValidateOpenAIAPIKey(config.OpenAIAPIKey); err != nil {
		return err
	}

	// Handle model flag if provided
	modelFlag, _ := cmd.Flags().GetString("model")
	if modelFlag != "" {
		if err := ValidateModel(modelFlag); err != nil {
			return err
		}
		config.QAModel = modelFlag
	} else if err := ValidateModel(config.QAModel); err != nil {
		return fmt.Errorf("invalid model in config: %w", err)
	}

	return nil
}
