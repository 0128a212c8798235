package main

import (
	"os"

	"github.com/ncls-p/yt-transcript-dataset-generator/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
