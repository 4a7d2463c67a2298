package retry

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Decision resolves the AwaitingDecision state.
type Decision int

const (
	// DecisionRetry switches to unlimited automatic retries.
	DecisionRetry Decision = iota

	// DecisionRetryDebug retries like DecisionRetry with verbose output for
	// every following round.
	DecisionRetryDebug

	// DecisionDecline stops and leaves the failed-subset manifest in place.
	DecisionDecline
)

func (d Decision) String() string {
	switch d {
	case DecisionRetry:
		return "retry"
	case DecisionRetryDebug:
		return "retry-debug"
	case DecisionDecline:
		return "decline"
	default:
		return "unknown"
	}
}

// Prompt describes the failures a decision is asked for.
type Prompt struct {
	Artifact  string
	Remaining int
}

// Decider blocks until an external decision is available.
type Decider interface {
	Decide(ctx context.Context, p Prompt) (Decision, error)
}

// DeciderFunc adapts a function to the Decider interface.
type DeciderFunc func(ctx context.Context, p Prompt) (Decision, error)

// Decide calls f.
func (f DeciderFunc) Decide(ctx context.Context, p Prompt) (Decision, error) {
	return f(ctx, p)
}

// PromptDecider asks on a terminal. Unrecognized answers are asked again;
// end of input declines.
type PromptDecider struct {
	in  *bufio.Reader
	out io.Writer

	// pending holds a read that outlived a canceled Decide.
	pending chan line
}

type line struct {
	text string
	err  error
}

// NewPromptDecider creates a PromptDecider reading answers from in.
func NewPromptDecider(in io.Reader, out io.Writer) *PromptDecider {
	return &PromptDecider{in: bufio.NewReader(in), out: out}
}

// Decide implements Decider.
func (d *PromptDecider) Decide(ctx context.Context, p Prompt) (Decision, error) {
	fmt.Fprintln(d.out)
	fmt.Fprintln(d.out, strings.Repeat("=", 60))
	fmt.Fprintf(d.out, "%d item(s) still failing, saved to %s\n", p.Remaining, p.Artifact)
	for {
		fmt.Fprint(d.out, "Would you like to retry the failed downloads now? (Y/N/D): ")

		l, err := d.readLine(ctx)
		if err != nil {
			fmt.Fprintln(d.out)
			return DecisionDecline, err
		}
		if dec, ok := parseAnswer(l.text); ok {
			return dec, nil
		}
		if l.err != nil {
			fmt.Fprintln(d.out)
			if errors.Is(l.err, io.EOF) {
				return DecisionDecline, nil
			}
			return DecisionDecline, l.err
		}
		fmt.Fprintln(d.out, "   Please enter Y (yes), N (no), or D (debug mode).")
	}
}

// readLine reads one answer in the background so a blocked terminal read
// never prevents cancellation.
func (d *PromptDecider) readLine(ctx context.Context) (line, error) {
	if d.pending == nil {
		ch := make(chan line, 1)
		go func() {
			text, err := d.in.ReadString('\n')
			ch <- line{text: text, err: err}
		}()
		d.pending = ch
	}

	select {
	case <-ctx.Done():
		return line{}, ctx.Err()
	case l := <-d.pending:
		d.pending = nil
		return l, nil
	}
}

func parseAnswer(s string) (Decision, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "Y", "YES":
		return DecisionRetry, true
	case "D", "DEBUG":
		return DecisionRetryDebug, true
	case "N", "NO":
		return DecisionDecline, true
	default:
		return 0, false
	}
}
