package handler

import (
	"net/http"

	"dataroom/internal/middleware"
)

// Handlers bundles every HTTP handler the router mounts.
type Handlers struct {
	Auth   *AuthHandler
	Folder *FolderHandler
	File   *FileHandler
	Search *SearchHandler
	User   *UserHandler
}

// NewRouter registers all routes on a fresh mux. Read endpoints accept
// anonymous requests; everything that mutates state requires a valid token.
func NewRouter(h Handlers) *http.ServeMux {
	mux := http.NewServeMux()

	// Auth routes
	mux.HandleFunc("GET /api/auth/health", h.Auth.Health)
	mux.HandleFunc("POST /api/auth/register", h.Auth.Register)
	mux.HandleFunc("POST /api/auth/login", h.Auth.Login)
	mux.HandleFunc("GET /api/auth/me", middleware.RequireAuth(h.Auth.Me))
	mux.HandleFunc("POST /api/auth/logout", middleware.RequireAuth(h.Auth.Logout))

	// Folder routes
	mux.HandleFunc("GET /api/folders", h.Folder.ListRoot)
	mux.HandleFunc("POST /api/folders", middleware.RequireAuth(h.Folder.Create))
	mux.HandleFunc("GET /api/folders/{id}", h.Folder.Get)
	mux.HandleFunc("GET /api/folders/{id}/ancestors", h.Folder.Ancestors)
	mux.HandleFunc("PUT /api/folders/{id}", middleware.RequireAuth(h.Folder.Rename))
	mux.HandleFunc("DELETE /api/folders/{id}", middleware.RequireAuth(h.Folder.Delete))

	// File routes
	mux.HandleFunc("POST /api/files", middleware.RequireAuth(h.File.Upload))
	mux.HandleFunc("GET /api/files/{id}", h.File.Get)
	mux.HandleFunc("GET /api/files/{id}/download", h.File.Download)
	mux.HandleFunc("GET /api/files/{id}/preview", h.File.Preview)
	mux.HandleFunc("PUT /api/files/{id}", middleware.RequireAuth(h.File.Rename))
	mux.HandleFunc("DELETE /api/files/{id}", middleware.RequireAuth(h.File.Delete))

	// Search
	mux.HandleFunc("GET /api/search", h.Search.Search)

	// Admin user management
	mux.HandleFunc("GET /api/users", middleware.RequireAuth(h.User.List))
	mux.HandleFunc("GET /api/users/{id}", middleware.RequireAuth(h.User.Get))
	mux.HandleFunc("PUT /api/users/{id}/role", middleware.RequireAuth(h.User.UpdateRole))

	return mux
}
