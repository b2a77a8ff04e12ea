package httputil

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestQueryInt(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want int
	}{
		{"present", "/x?limit=25", 25},
		{"absent", "/x", 100},
		{"malformed", "/x?limit=abc", 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, tt.url, nil)
			if got := QueryInt(r, "limit", 100); got != tt.want {
				t.Errorf("QueryInt = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestQueryBool(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/x?owned=true", nil)
	if !QueryBool(r, "owned") {
		t.Error("owned=true not recognized")
	}
	r = httptest.NewRequest(http.MethodGet, "/x?owned=1", nil)
	if QueryBool(r, "owned") {
		t.Error("owned=1 should not count as true")
	}
}

func TestRespondErrorIsProblemJSON(t *testing.T) {
	w := httptest.NewRecorder()
	RespondError(w, http.StatusNotFound, "Folder not found")

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "application/problem+json") {
		t.Errorf("Content-Type = %q", ct)
	}
	if !strings.Contains(w.Body.String(), "Folder not found") {
		t.Errorf("body = %q", w.Body.String())
	}
}

func TestParseJSONRejectsGarbage(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/x", strings.NewReader("{not json"))

	var dest struct{}
	if err := ParseJSON(w, r, &dest); err == nil {
		t.Error("garbage body parsed without error")
	}
}
