package main

import (
	"os"

	"github.com/handiism/batch-downloader/internal/cli"
)

// Populated by the build via -ldflags.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	cli.SetBuildInfo(version, commit, date)
	os.Exit(cli.Execute())
}
