// Package model defines the core data structures used throughout
// the batch-downloader application.
//
// # Work items
//
// A WorkItem is one manifest row that passed validation:
//
//	item := model.WorkItem{
//	    Index:    0,
//	    ID:       "0123456789012",
//	    Locator:  "https://www.dropbox.com/sh/abc/def?dl=0",
//	    Category: "shoes",
//	    Record:   row,
//	}
//
// Record is the untouched manifest row. It is carried through to
// FailureRecord so a failed-subset manifest can be regenerated with every
// original column, including ones the downloader does not know about.
//
// # Outcomes
//
// Processing an item yields exactly one Outcome:
//
//	model.Completed("/out/shoes/0123456789012.png")
//	model.Skipped("/out/shoes/0123456789012.png")
//	model.Failed(model.ErrRetrieval, "no file returned")
//
// # Round statistics
//
// RunStats accumulates outcomes for one round. The invariant
// Completed + Skipped + len(Failures) == Processed() <= Total holds at all
// times.
package model
