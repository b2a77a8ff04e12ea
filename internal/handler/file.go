package handler

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"dataroom/internal/domain"
	"dataroom/internal/httputil"
	"dataroom/internal/service"
)

// FileHandler handles file HTTP requests, including content streaming.
type FileHandler struct {
	fileService    *service.FileService
	maxUploadBytes int64
	logger         *slog.Logger
}

func NewFileHandler(fileService *service.FileService, maxUploadBytes int64, logger *slog.Logger) *FileHandler {
	return &FileHandler{
		fileService:    fileService,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

// Upload stores a new PDF.
// POST /api/files  multipart: file, name, folder_id?
func (h *FileHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	// 32MB in memory; larger parts spill to temp files.
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Failed to parse multipart form")
		return
	}

	part, header, err := r.FormFile("file")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "No file provided")
		return
	}
	defer part.Close()

	name := r.FormValue("name")
	if name == "" {
		name = header.Filename
	}

	var folderID *int64
	if raw := r.FormValue("folder_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			httputil.RespondError(w, http.StatusBadRequest, "Invalid folder_id")
			return
		}
		folderID = &id
	}

	file, err := h.fileService.Upload(r.Context(), httputil.GetUserID(r), &service.UploadRequest{
		Name:             name,
		OriginalFilename: header.Filename,
		FolderID:         folderID,
		Content:          part,
	})
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, map[string]*domain.File{"file": file})
}

// Get returns file metadata.
// GET /api/files/{id}
func (h *FileHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.PathID(r)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid file ID")
		return
	}

	file, err := h.fileService.Get(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]*domain.File{"file": file})
}

// Download streams the file as an attachment.
// GET /api/files/{id}/download
func (h *FileHandler) Download(w http.ResponseWriter, r *http.Request) {
	h.stream(w, r, true)
}

// Preview streams the file inline for in-browser rendering.
// GET /api/files/{id}/preview
func (h *FileHandler) Preview(w http.ResponseWriter, r *http.Request) {
	h.stream(w, r, false)
}

func (h *FileHandler) stream(w http.ResponseWriter, r *http.Request, attachment bool) {
	id, err := httputil.PathID(r)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid file ID")
		return
	}

	file, rc, err := h.fileService.Open(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", file.MimeType)
	w.Header().Set("Content-Length", strconv.FormatInt(file.SizeBytes, 10))
	if attachment {
		w.Header().Set("Content-Disposition",
			fmt.Sprintf("attachment; filename=%q", file.OriginalFilename))
	} else {
		w.Header().Set("Content-Disposition", "inline")
	}

	if _, err := io.Copy(w, rc); err != nil {
		// Headers are gone; all we can do is log the broken transfer.
		h.logger.Warn("file stream interrupted", "file_id", id, "error", err)
	}
}

// Rename changes a file's display name.
// PUT /api/files/{id}
func (h *FileHandler) Rename(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.PathID(r)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid file ID")
		return
	}

	var req renameRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	file, err := h.fileService.Rename(r.Context(), httputil.GetUserID(r), id, req.Name)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]*domain.File{"file": file})
}

// Delete removes a file and its blob.
// DELETE /api/files/{id}
func (h *FileHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.PathID(r)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid file ID")
		return
	}

	if err := h.fileService.Delete(r.Context(), httputil.GetUserID(r), id); err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]string{"message": "File deleted successfully"})
}
