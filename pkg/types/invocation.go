// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines data types shared across circuit-batch stages.
package types

import "time"

// Invocation records one launch of the extractor: the arguments it was
// called with and how the process ended. The batch runner fills the outcome
// fields after the process exits; the extractor's own output is never
// captured or interpreted.
type Invocation struct {
	// Profile is the name of the profile that produced this invocation.
	Profile string `json:"profile" yaml:"profile"`

	// Tag, Split, TokenID, and Threshold are the four positional arguments
	// passed to the extractor, in order.
	Tag       string  `json:"tag" yaml:"tag"`
	Split     Split   `json:"split" yaml:"split"`
	TokenID   int     `json:"token_id" yaml:"token_id"`
	Threshold float64 `json:"threshold" yaml:"threshold"`

	// StartedAt is when the process was launched; Duration how long it ran.
	StartedAt time.Time     `json:"started_at" yaml:"started_at"`
	Duration  time.Duration `json:"duration" yaml:"duration"`

	// ExitCode is the process exit status. -1 means the process could not
	// be started at all.
	ExitCode int `json:"exit_code" yaml:"exit_code"`

	// TimedOut reports whether the timeout tool terminated the process at
	// the budget boundary.
	TimedOut bool `json:"timed_out" yaml:"timed_out"`
}

// OK reports whether the invocation ran to completion with exit status 0.
func (i Invocation) OK() bool {
	return i.ExitCode == 0 && !i.TimedOut
}
