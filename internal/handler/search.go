package handler

import (
	"log/slog"
	"net/http"

	"dataroom/internal/config"
	"dataroom/internal/httputil"
	"dataroom/internal/service"
)

// SearchHandler handles cross-entity name search.
type SearchHandler struct {
	searchService *service.SearchService
	logger        *slog.Logger
}

func NewSearchHandler(searchService *service.SearchService, logger *slog.Logger) *SearchHandler {
	return &SearchHandler{searchService: searchService, logger: logger}
}

// Search matches folders and files by name.
// GET /api/search?q=&limit=&offset=
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	results, err := h.searchService.Search(r.Context(),
		r.URL.Query().Get("q"),
		httputil.QueryInt(r, "limit", config.DefaultSearchLimit),
		httputil.QueryInt(r, "offset", 0),
	)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, results)
}
