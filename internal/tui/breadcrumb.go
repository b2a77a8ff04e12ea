package tui

import (
	"strings"

	"dataroom/internal/domain"
)

// breadcrumbRoot is the label for the top-level listing.
const breadcrumbRoot = "Home"

// maxCrumbs is how many segments render before the middle collapses.
const maxCrumbs = 4

// Breadcrumb renders the navigation trail for a folder chain ordered
// root-first. Past four segments the middle collapses to an ellipsis, keeping
// the root and the last three.
func Breadcrumb(chain []domain.Folder) string {
	segments := make([]string, 0, len(chain)+1)
	segments = append(segments, breadcrumbRoot)
	for _, f := range chain {
		segments = append(segments, f.Name)
	}

	if len(segments) > maxCrumbs {
		collapsed := []string{segments[0], "…"}
		collapsed = append(collapsed, segments[len(segments)-3:]...)
		segments = collapsed
	}

	return strings.Join(segments, " / ")
}
