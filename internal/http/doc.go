// Package http provides the HTTP download engine.
//
// The Client in this package handles:
//   - User-Agent, timeout and proxy configuration
//   - Rewriting Dropbox share links to direct downloads
//   - Retrying failed requests with an exponential cooldown
//   - Unpacking zipped shared-folder downloads
//   - Following one asset link out of an HTML landing page
//   - Streaming files to disk with progress tracking
//
// # Basic Usage
//
//	client := http.NewClient(http.Options{UserAgent: "batch-downloader"})
//
//	// As a download engine
//	path, err := client.Retrieve(ctx, download.Request{
//	    Locator:    "https://www.dropbox.com/sh/abc/xyz?dl=0",
//	    StagingDir: staging,
//	})
//
// # Progress Tracking
//
// The ProgressWriter type can be used to wrap any io.Writer for progress tracking:
//
//	pw := &http.ProgressWriter{
//	    Writer:   file,
//	    Total:    contentLength,
//	    OnUpdate: func(written, total int64) { /* update UI */ },
//	}
package http
