package handler

import (
	"log/slog"
	"net/http"

	"dataroom/internal/config"
	"dataroom/internal/domain"
	"dataroom/internal/httputil"
	"dataroom/internal/service"
)

// FolderHandler handles folder HTTP requests.
type FolderHandler struct {
	folderService *service.FolderService
	logger        *slog.Logger
}

func NewFolderHandler(folderService *service.FolderService, logger *slog.Logger) *FolderHandler {
	return &FolderHandler{folderService: folderService, logger: logger}
}

// ListRoot lists root-level folders and files.
// GET /api/folders?owned=bool&limit&offset
func (h *FolderHandler) ListRoot(w http.ResponseWriter, r *http.Request) {
	var ownerID *int64
	if httputil.QueryBool(r, "owned") {
		userID := httputil.GetUserID(r)
		if userID == 0 {
			httputil.RespondError(w, http.StatusUnauthorized, "Authentication required for owned filter")
			return
		}
		ownerID = &userID
	}

	listing, err := h.folderService.ListRoot(r.Context(), ownerID,
		httputil.QueryInt(r, "limit", config.DefaultListLimit),
		httputil.QueryInt(r, "offset", 0),
	)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, listing)
}

// Get returns a folder with its immediate contents.
// GET /api/folders/{id}
func (h *FolderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.PathID(r)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid folder ID")
		return
	}

	contents, err := h.folderService.Contents(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, contents)
}

// Ancestors returns the breadcrumb chain root→folder in one response.
// GET /api/folders/{id}/ancestors
func (h *FolderHandler) Ancestors(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.PathID(r)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid folder ID")
		return
	}

	chain, err := h.folderService.Ancestors(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string][]domain.Folder{"folders": chain})
}

// Create makes a folder.
// POST /api/folders
func (h *FolderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.CreateFolderRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	folder, err := h.folderService.Create(r.Context(), httputil.GetUserID(r), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, map[string]*domain.Folder{"folder": folder})
}

// renameRequest is the body of folder and file renames.
type renameRequest struct {
	Name string `json:"name"`
}

// Rename changes a folder's name.
// PUT /api/folders/{id}
func (h *FolderHandler) Rename(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.PathID(r)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid folder ID")
		return
	}

	var req renameRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	folder, err := h.folderService.Rename(r.Context(), httputil.GetUserID(r), id, req.Name)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]*domain.Folder{"folder": folder})
}

// Delete removes a folder and its subtree.
// DELETE /api/folders/{id}
func (h *FolderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.PathID(r)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid folder ID")
		return
	}

	if err := h.folderService.Delete(r.Context(), httputil.GetUserID(r), id); err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]string{"message": "Folder deleted successfully"})
}
