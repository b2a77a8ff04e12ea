package handler

import (
	"log/slog"
	"net/http"

	"dataroom/internal/config"
	"dataroom/internal/domain"
	"dataroom/internal/httputil"
	"dataroom/internal/service"
)

// UserHandler handles the admin-only user management endpoints. Role checks
// happen in the service.
type UserHandler struct {
	userService *service.UserService
	logger      *slog.Logger
}

func NewUserHandler(userService *service.UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{userService: userService, logger: logger}
}

// List pages through registered users.
// GET /api/users?limit=&offset=
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	listing, err := h.userService.List(r.Context(), httputil.GetUserID(r),
		httputil.QueryInt(r, "limit", config.DefaultListLimit),
		httputil.QueryInt(r, "offset", 0),
	)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, listing)
}

// Get returns one user.
// GET /api/users/{id}
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.PathID(r)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	user, err := h.userService.Get(r.Context(), httputil.GetUserID(r), id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]*domain.User{"user": user})
}

type updateRoleRequest struct {
	Role string `json:"role"`
}

// UpdateRole promotes or demotes a user.
// PUT /api/users/{id}/role
func (h *UserHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.PathID(r)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	var req updateRoleRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.userService.UpdateRole(r.Context(), httputil.GetUserID(r), id, req.Role)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]*domain.User{"user": user})
}
