package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ncls-p/yt-transcript-dataset-generator/internal"
)

// reportCmd represents the report command
var reportCmd = &cobra.Command{
	Use:   "report [dataset.csv]",
	Short: "Summarize a generated dataset",
	Long: `Read a dataset CSV and print a per-stage summary: how many videos were
downloaded, converted to audio, and had transcripts fetched. Useful for spotting
which stage failed most after a large run.`,
	Example: `  # Summarize the default dataset
  ytdg report

  # Summarize a specific CSV
  ytdg report ./dataset/dataset.csv`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.DatasetCSV()
		if len(args) > 0 {
			path = args[0]
		}
		if !internal.FileExists(path) {
			return fmt.Errorf("dataset CSV not found: %s", path)
		}

		records, hasQA, err := internal.ReadDatasetCSV(path)
		if err != nil {
			return err
		}

		markdown := buildReport(path, records, hasQA)
		rendered, err := internal.RenderMarkdown(markdown)
		if err != nil {
			// Fall back to raw markdown if rendering fails
			fmt.Println(markdown)
			return nil
		}
		fmt.Print(rendered)
		return nil
	},
}

// buildReport formats per-stage counts for a dataset as markdown.
func buildReport(path string, records []internal.Record, hasQA bool) string {
	var extracted, downloaded, converted, transcribed, withQA int
	for _, r := range records {
		if r.VideoID != "" {
			extracted++
		}
		if r.MP4Path != "" {
			downloaded++
		}
		if r.MP3Path != "" {
			converted++
		}
		if r.TranscriptExists {
			transcribed++
		}
		if len(r.QAPairs) > 0 {
			withQA++
		}
	}

	total := len(records)
	var b strings.Builder
	fmt.Fprintf(&b, "# Dataset report\n\n")
	fmt.Fprintf(&b, "**File:** `%s`\n\n", path)
	fmt.Fprintf(&b, "| Stage | Succeeded | Failed |\n")
	fmt.Fprintf(&b, "|---|---|---|\n")
	fmt.Fprintf(&b, "| Video ID extracted | %d | %d |\n", extracted, total-extracted)
	fmt.Fprintf(&b, "| Video downloaded | %d | %d |\n", downloaded, total-downloaded)
	fmt.Fprintf(&b, "| Audio converted | %d | %d |\n", converted, total-converted)
	fmt.Fprintf(&b, "| Transcript fetched | %d | %d |\n", transcribed, total-transcribed)
	if hasQA {
		fmt.Fprintf(&b, "| Q&A pairs generated | %d | %d |\n", withQA, total-withQA)
	}
	fmt.Fprintf(&b, "\n%d records total.\n", total)
	return b.String()
}

func init() {
	rootCmd.AddCommand(reportCmd)
}
