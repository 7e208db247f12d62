package cmd

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		input string
		err   bool
	}{
		{"2025-11-03", false},
		{"2025-01-31", false},
		{"2025-13-01", true},
		{"03-11-2025", true},
		{"invalid", true},
		{"", true},
	}
	for _, tt := range tests {
		got, err := parseDate(tt.input)
		if tt.err {
			if err == nil {
				t.Errorf("parseDate(%q): expected error, got %v", tt.input, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseDate(%q): unexpected error: %v", tt.input, err)
			continue
		}
		if got.Format("2006-01-02") != tt.input {
			t.Errorf("parseDate(%q) = %v", tt.input, got)
		}
	}
}

func TestTargetDate(t *testing.T) {
	base := time.Date(2025, 11, 5, 13, 45, 0, 0, time.UTC)

	got := targetDate(base, 2)
	want := time.Date(2025, 11, 3, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("targetDate(lag=2) = %v, want %v", got, want)
	}

	got = targetDate(base, 0)
	want = time.Date(2025, 11, 5, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("targetDate(lag=0) = %v, want %v", got, want)
	}
}

func TestTargetDateCrossesMonth(t *testing.T) {
	base := time.Date(2025, 12, 1, 8, 0, 0, 0, time.UTC)
	got := targetDate(base, 2)
	want := time.Date(2025, 11, 29, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("targetDate = %v, want %v", got, want)
	}
}
