package format

import (
	"testing"
	"time"
)

func TestFileSize(t *testing.T) {
	tests := []struct {
		name  string
		bytes int64
		want  string
	}{
		{"zero", 0, "0 Bytes"},
		{"negative", -1, "0 Bytes"},
		{"small", 512, "512 Bytes"},
		{"one kilobyte", 1024, "1 KB"},
		{"fractional kilobytes", 1500, "1.46 KB"},
		{"one megabyte", 1048576, "1 MB"},
		{"one and a half megabytes", 1572864, "1.5 MB"},
		{"one gigabyte", 1073741824, "1 GB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FileSize(tt.bytes); got != tt.want {
				t.Errorf("FileSize(%d) = %q, want %q", tt.bytes, got, tt.want)
			}
		})
	}
}

func TestRelTime(t *testing.T) {
	now := time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		t    time.Time
		want string
	}{
		{"seconds ago", now.Add(-30 * time.Second), "just now"},
		{"minutes ago", now.Add(-5 * time.Minute), "5m ago"},
		{"hours ago", now.Add(-3 * time.Hour), "3h ago"},
		{"days ago", now.Add(-2 * 24 * time.Hour), "2d ago"},
		{"over a week ago", now.Add(-10 * 24 * time.Hour), "Jun 5, 2025"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := relTime(tt.t, now); got != tt.want {
				t.Errorf("relTime(%v) = %q, want %q", tt.t, got, tt.want)
			}
		})
	}
}

func TestJoin(t *testing.T) {
	tests := []struct {
		name  string
		parts []string
		want  string
	}{
		{"empty", nil, ""},
		{"single", []string{"row"}, "row"},
		{"skips blanks", []string{"row", "", "selected"}, "row selected"},
		{"all blank", []string{"", ""}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Join(tt.parts...); got != tt.want {
				t.Errorf("Join(%v) = %q, want %q", tt.parts, got, tt.want)
			}
		})
	}
}
