// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package timeouttool

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"
)

// mockExecutor records calls and returns configured responses.
type mockExecutor struct {
	availableBins map[string]bool // binary -> whether LookPath succeeds
	exitCode      int
	runErr        error
	calls         [][]string // recorded name + args per Run call
}

func (m *mockExecutor) LookPath(file string) (string, error) {
	if m.availableBins[file] {
		return "/usr/bin/" + file, nil
	}
	return "", errors.New("not found: " + file)
}

func (m *mockExecutor) Run(_ context.Context, name string, args []string, _, _ io.Writer) (int, error) {
	m.calls = append(m.calls, append([]string{name}, args...))
	if m.runErr != nil {
		return -1, m.runErr
	}
	return m.exitCode, nil
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name     string
		bins     map[string]bool
		wantName string
		wantErr  bool
	}{
		{
			name:     "timeout available",
			bins:     map[string]bool{"timeout": true},
			wantName: "timeout",
		},
		{
			name:     "gtimeout fallback when timeout missing",
			bins:     map[string]bool{"gtimeout": true},
			wantName: "gtimeout",
		},
		{
			name:     "both available, timeout preferred",
			bins:     map[string]bool{"timeout": true, "gtimeout": true},
			wantName: "timeout",
		},
		{
			name:    "neither available",
			bins:    map[string]bool{},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tool, err := detect(&mockExecutor{availableBins: tt.bins})
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !strings.Contains(err.Error(), "no timeout command available") {
					t.Errorf("error should name the missing capability, got: %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tool.Name() != tt.wantName {
				t.Errorf("got tool %q, want %q", tool.Name(), tt.wantName)
			}
		})
	}
}

func TestNamed(t *testing.T) {
	exec := &mockExecutor{availableBins: map[string]bool{"gtimeout": true}}

	tool, err := named("gtimeout", exec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tool.Name() != "gtimeout" {
		t.Errorf("got tool %q, want gtimeout", tool.Name())
	}

	if _, err := named("mytimeout", exec); err == nil {
		t.Fatal("expected error for missing command, got nil")
	}
}

func TestRunComposesCommandLine(t *testing.T) {
	exec := &mockExecutor{availableBins: map[string]bool{"timeout": true}}
	tool, err := detect(exec)
	if err != nil {
		t.Fatalf("detect: %v", err)
	}

	argv := []string{"scripts/extract.sh", "shakespeare_64x4", "val", "15", "0.25"}
	res, err := tool.Run(context.Background(), 180*time.Minute, argv, io.Discard, io.Discard)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.ExitCode != 0 || res.TimedOut {
		t.Errorf("got result %+v, want clean exit", res)
	}

	want := []string{"timeout", "180m", "scripts/extract.sh", "shakespeare_64x4", "val", "15", "0.25"}
	if len(exec.calls) != 1 {
		t.Fatalf("got %d calls, want 1", len(exec.calls))
	}
	got := exec.calls[0]
	if len(got) != len(want) {
		t.Fatalf("got command %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("arg %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestRunOutcomes(t *testing.T) {
	tests := []struct {
		name         string
		exitCode     int
		runErr       error
		wantExit     int
		wantTimedOut bool
		wantErr      bool
	}{
		{name: "clean exit", exitCode: 0, wantExit: 0},
		{name: "extractor failure passes through", exitCode: 3, wantExit: 3},
		{name: "budget expiry", exitCode: 124, wantExit: 124, wantTimedOut: true},
		{name: "killed after expiry", exitCode: 137, wantExit: 137, wantTimedOut: true},
		{name: "unstartable process", runErr: errors.New("fork failed"), wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec := &mockExecutor{exitCode: tt.exitCode, runErr: tt.runErr}
			tmo := &tool{bin: "timeout", exec: exec}

			res, err := tmo.Run(context.Background(), time.Minute, []string{"extract.sh"}, io.Discard, io.Discard)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if res.ExitCode != tt.wantExit {
				t.Errorf("exit code = %d, want %d", res.ExitCode, tt.wantExit)
			}
			if res.TimedOut != tt.wantTimedOut {
				t.Errorf("timed out = %v, want %v", res.TimedOut, tt.wantTimedOut)
			}
		})
	}
}

func TestRunEmptyCommandLine(t *testing.T) {
	tmo := &tool{bin: "timeout", exec: &mockExecutor{}}
	if _, err := tmo.Run(context.Background(), time.Minute, nil, io.Discard, io.Discard); err == nil {
		t.Fatal("expected error for empty argv, got nil")
	}
}

func TestFormatBudget(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{180 * time.Minute, "180m"},
		{2 * time.Hour, "120m"},
		{time.Minute, "1m"},
		{90 * time.Second, "90s"},
		{30 * time.Second, "30s"},
	}
	for _, tt := range tests {
		if got := FormatBudget(tt.d); got != tt.want {
			t.Errorf("FormatBudget(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
