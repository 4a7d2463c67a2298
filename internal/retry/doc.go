// Package retry drives repeated download rounds over a manifest.
//
// A Coordinator runs a round, writes the rows that failed to a
// failed-subset manifest next to the working directory, and decides
// whether to run again: automatically within a retry budget, or by asking
// a Decider in interactive mode. Rounds whose input is itself a
// failed-subset manifest prune the rows that are now resolved.
//
//	coord := retry.New(manager, retry.NewPromptDecider(os.Stdin, os.Stdout), console, retry.Config{
//	    Schema:      settings.ToSchema(),
//	    OutputDir:   "out",
//	    ArtifactDir: ".",
//	    Budget:      2,
//	}, logger)
//	res, err := coord.Run(ctx, "items.xlsx")
package retry
