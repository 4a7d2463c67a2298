package model

// FailureRecord describes one failed item together with its original row.
type FailureRecord struct {
	ItemID  string
	Locator string
	Error   string
	Record  Record
}

// RunStats summarizes one round.
type RunStats struct {
	// Total is the number of items handed to the round, after validation.
	Total int

	Completed int
	Skipped   int

	// Failures is ordered by report time.
	Failures []FailureRecord

	// Resolved lists the IDs of completed and skipped items in report order.
	Resolved []string
}

// Processed returns how many items produced an outcome.
func (s RunStats) Processed() int {
	return s.Completed + s.Skipped + len(s.Failures)
}

// Failed returns the number of failed items.
func (s RunStats) Failed() int {
	return len(s.Failures)
}

// FailedRecords returns the original rows of the failed items, in failure order.
func (s RunStats) FailedRecords() []Record {
	out := make([]Record, len(s.Failures))
	for i, f := range s.Failures {
		out[i] = f.Record
	}
	return out
}
