package main

import (
	"strings"
	"testing"
	"time"
)

func TestReportRange(t *testing.T) {
	tests := []struct {
		name      string
		start     string
		end       string
		wantErr   string
		wantStart string
		wantEnd   string
	}{
		{
			name:      "explicit range",
			start:     "2026-01-01",
			end:       "2026-02-01",
			wantStart: "2026-01-01",
			wantEnd:   "2026-02-01",
		},
		{
			name:    "invalid start",
			start:   "01/01/2026",
			wantErr: "invalid --start",
		},
		{
			name:    "invalid end",
			end:     "not-a-date",
			wantErr: "invalid --end",
		},
		{
			name:    "end before start",
			start:   "2026-02-01",
			end:     "2026-01-01",
			wantErr: "before",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, err := reportRange(tt.start, tt.end)

			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("reportRange() error = %v, want it to contain %q", err, tt.wantErr)
				}
				return
			}

			if err != nil {
				t.Fatalf("reportRange() error: %v", err)
			}
			if got := start.Format("2006-01-02"); got != tt.wantStart {
				t.Errorf("start = %s, want %s", got, tt.wantStart)
			}
			if got := end.Format("2006-01-02"); got != tt.wantEnd {
				t.Errorf("end = %s, want %s", got, tt.wantEnd)
			}
		})
	}
}

func TestReportRange_Defaults(t *testing.T) {
	start, end, err := reportRange("", "")
	if err != nil {
		t.Fatalf("reportRange() error: %v", err)
	}

	if window := end.Sub(start); window < 29*24*time.Hour || window > 31*24*time.Hour {
		t.Errorf("default window = %s, want roughly 30 days", window)
	}
	if time.Since(end) > time.Minute {
		t.Errorf("default end = %s, want now", end)
	}
}

func TestRootCommand_Subcommands(t *testing.T) {
	expected := []string{"mailboxes", "search", "report", "ratelimit"}

	for _, name := range expected {
		found := false
		for _, cmd := range rootCmd.Commands() {
			if cmd.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("root command is missing subcommand %q", name)
		}
	}
}
