// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package batch drives sequential extraction runs over the configured
// token-id splits.
package batch

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/pdiddy/circuit-batch/internal/timeouttool"
	"github.com/pdiddy/circuit-batch/pkg/types"
)

// Recorder persists one record per launched invocation. A nil Recorder on
// the Runner disables journaling.
type Recorder interface {
	Record(ctx context.Context, inv types.Invocation) error
}

// Summary holds counts from one batch run.
type Summary struct {
	Launched int
	Failed   int
	TimedOut int
}

// HasFailures reports whether any invocation failed or timed out.
func (s Summary) HasFailures() bool {
	return s.Failed > 0
}

func (s *Summary) add(o Summary) {
	s.Launched += o.Launched
	s.Failed += o.Failed
	s.TimedOut += o.TimedOut
}

// Runner launches the extractor once per configured (split, token id) pair,
// strictly sequentially, each invocation wrapped in the wall-clock budget.
type Runner struct {
	// Tool wraps each invocation in the timeout budget.
	Tool timeouttool.Tool

	// Extractor is the path of the extraction script. It receives four
	// positional arguments: tag, split, token id, threshold.
	Extractor string

	// Budget is the wall-clock limit applied to each invocation.
	Budget time.Duration

	// Profile supplies the tag, token-id lists, and thresholds.
	Profile types.Profile

	// Strict aborts the batch on the first failed or timed-out
	// invocation. The default is to count the failure and continue.
	Strict bool

	// Journal receives one record per invocation; nil disables it.
	Journal Recorder

	// Out receives progress lines and the extractor's stdout. Errw
	// receives failure notes and the extractor's stderr.
	Out  io.Writer
	Errw io.Writer
}

// Run processes the train split, then the val split.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	var sum Summary

	for _, split := range []types.Split{types.SplitTrain, types.SplitVal} {
		s, err := r.ProcessTokenIDs(ctx, split)
		sum.add(s)
		if err != nil {
			return sum, err
		}
	}

	return sum, nil
}

// ProcessTokenIDs launches the extractor once per token id configured for
// the split, in list order. An empty list is a no-op. Invocation outcomes
// never stop the loop unless Strict is set; only context cancellation and
// an unstartable extractor abort it.
func (r *Runner) ProcessTokenIDs(ctx context.Context, split types.Split) (Summary, error) {
	var sum Summary
	threshold := r.Profile.Threshold(split)

	for _, id := range r.Profile.TokenIDs(split) {
		if err := ctx.Err(); err != nil {
			return sum, err
		}

		fmt.Fprintf(r.Out, "Processing %s:%d\n", split, id)

		inv := types.Invocation{
			Profile:   r.Profile.Name,
			Tag:       r.Profile.Tag,
			Split:     split,
			TokenID:   id,
			Threshold: threshold,
			StartedAt: time.Now(),
		}
		argv := []string{
			r.Extractor,
			r.Profile.Tag,
			string(split),
			strconv.Itoa(id),
			formatThreshold(threshold),
		}

		res, err := r.Tool.Run(ctx, r.Budget, argv, r.Out, r.Errw)
		sum.Launched++

		inv.Duration = time.Since(inv.StartedAt)
		inv.ExitCode = res.ExitCode
		inv.TimedOut = res.TimedOut
		r.record(ctx, inv)

		if err != nil {
			// The extractor could not be launched at all; retrying the
			// remaining ids would fail the same way.
			return sum, err
		}

		switch {
		case res.TimedOut:
			sum.Failed++
			sum.TimedOut++
			fmt.Fprintf(r.Errw, "timed out %s:%d after %s\n", split, id, timeouttool.FormatBudget(r.Budget))
		case res.ExitCode != 0:
			sum.Failed++
			fmt.Fprintf(r.Errw, "failed %s:%d: exit status %d\n", split, id, res.ExitCode)
		}

		if r.Strict && !inv.OK() {
			return sum, fmt.Errorf("aborting batch: extraction %s:%d failed with exit status %d", split, id, res.ExitCode)
		}
	}

	return sum, nil
}

// record journals the invocation. Journal errors are reported but never
// abort a batch that may have hours of work behind it.
func (r *Runner) record(ctx context.Context, inv types.Invocation) {
	if r.Journal == nil {
		return
	}
	if err := r.Journal.Record(ctx, inv); err != nil {
		fmt.Fprintf(r.Errw, "journal: %v\n", err)
	}
}

// formatThreshold renders the threshold without trailing zeros, matching
// how it appears in profile definitions (0.15, not 0.150000).
func formatThreshold(t float64) string {
	return strconv.FormatFloat(t, 'g', -1, 64)
}
