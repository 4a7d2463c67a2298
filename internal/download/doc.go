// Package download provides the orchestration logic for retrieving the
// assets named in a work manifest.
//
// # Manager
//
// The Manager runs one round over a list of work items:
//
//  1. Probe the output tree and skip items that are already present
//  2. Stage a per-item temporary directory
//  3. Call the Retriever with a per-slot automation session
//  4. Verify and move the retrieved file to <output>/<category>/<id><ext>
//  5. Clean up staging and session directories on every path
//  6. Report each outcome to the Aggregator and the Reporter
//
// # Basic Usage
//
//	pipeline := download.NewPipeline(retriever, download.PipelineConfig{
//	    OutputRoot: "out",
//	}, logger)
//	manager := download.NewManager(pipeline, reporter, 4, logger)
//
//	stats := manager.Run(ctx, items, download.RoundOptions{})
//	fmt.Println(stats.Completed, stats.Skipped, len(stats.Failures))
//
// # Concurrency
//
// With one worker items run in manifest order and are reported in that
// order. With W > 1 workers, item i runs on slot i mod W; each slot is
// served by one goroutine, so at most W retrievals are in flight and a
// slot's automation session is never shared by two running items.
// Outcomes are funneled over a channel to a single collector which reports
// every item exactly once, in completion order.
//
// # Failures
//
// Per-item faults never escape: retrieval problems, finalize problems and
// panics all become model.Failed outcomes. Canceling the context makes
// items that have not started yet fail with model.ErrCanceled.
package download
