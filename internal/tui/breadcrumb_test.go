package tui

import (
	"testing"

	"dataroom/internal/domain"
)

func chainOf(names ...string) []domain.Folder {
	out := make([]domain.Folder, len(names))
	for i, n := range names {
		out[i] = domain.Folder{ID: int64(i + 1), Name: n}
	}
	return out
}

func TestBreadcrumb(t *testing.T) {
	tests := []struct {
		name  string
		chain []domain.Folder
		want  string
	}{
		{"root", nil, "Home"},
		{"one level", chainOf("Reports"), "Home / Reports"},
		{"three levels", chainOf("a", "b", "c"), "Home / a / b / c"},
		{
			"deep chain collapses",
			chainOf("a", "b", "c", "d"),
			"Home / … / b / c / d",
		},
		{
			"very deep chain keeps root and last three",
			chainOf("a", "b", "c", "d", "e", "f"),
			"Home / … / d / e / f",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Breadcrumb(tt.chain); got != tt.want {
				t.Errorf("Breadcrumb = %q, want %q", got, tt.want)
			}
		})
	}
}
