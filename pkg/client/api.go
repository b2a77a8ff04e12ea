package client

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"dataroom/internal/config"
	"dataroom/internal/domain"
)

// Listing is the root-level folders and files page.
type Listing struct {
	Folders []domain.Folder `json:"folders"`
	Files   []domain.File   `json:"files"`
	Limit   int             `json:"limit"`
	Offset  int             `json:"offset"`
}

// UserListing is the admin user page.
type UserListing struct {
	Users  []domain.User `json:"users"`
	Limit  int           `json:"limit"`
	Offset int           `json:"offset"`
}

type authResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

// Register creates an account and stores the resulting session. Basic field
// checks run before any request goes out.
func (c *Client) Register(ctx context.Context, email, name, password string) (*Session, error) {
	email = strings.TrimSpace(email)
	name = strings.TrimSpace(name)
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("a valid email is required")
	}
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}
	if len(password) < config.MinPasswordLength {
		return nil, fmt.Errorf("password must be at least %d characters", config.MinPasswordLength)
	}

	var resp authResponse
	err := c.doJSON(ctx, http.MethodPost, "/api/auth/register", map[string]string{
		"email":    email,
		"name":     name,
		"password": password,
	}, &resp)
	if err != nil {
		return nil, err
	}

	session := &Session{Token: resp.Token, User: resp.User}
	if err := c.setSession(session); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}
	return session, nil
}

// Login authenticates and stores the resulting session.
func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	var resp authResponse
	err := c.doJSON(ctx, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    strings.TrimSpace(email),
		"password": password,
	}, &resp)
	if err != nil {
		return nil, err
	}

	session := &Session{Token: resp.Token, User: resp.User}
	if err := c.setSession(session); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}
	return session, nil
}

// Me fetches the authenticated user.
func (c *Client) Me(ctx context.Context) (*domain.User, error) {
	var resp struct {
		User domain.User `json:"user"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/api/auth/me", nil, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// Logout revokes the token server-side and clears the local session either
// way.
func (c *Client) Logout(ctx context.Context) error {
	err := c.doJSON(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
	if clearErr := c.setSession(nil); clearErr != nil && err == nil {
		err = clearErr
	}
	return err
}

// ListRoot pages through root-level folders and files. With owned set, only
// the caller's own entries come back.
func (c *Client) ListRoot(ctx context.Context, owned bool, limit, offset int) (*Listing, error) {
	q := url.Values{}
	if owned {
		q.Set("owned", "true")
	}
	addPage(q, limit, offset)

	var listing Listing
	if err := c.doJSON(ctx, http.MethodGet, withQuery("/api/folders", q), nil, &listing); err != nil {
		return nil, err
	}
	return &listing, nil
}

// GetFolder fetches a folder with its immediate children.
func (c *Client) GetFolder(ctx context.Context, id int64) (*domain.FolderContents, error) {
	var contents domain.FolderContents
	err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/api/folders/%d", id), nil, &contents)
	if err != nil {
		return nil, err
	}
	return &contents, nil
}

// GetAncestors returns the chain from the root down to the folder itself.
func (c *Client) GetAncestors(ctx context.Context, id int64) ([]domain.Folder, error) {
	var resp struct {
		Folders []domain.Folder `json:"folders"`
	}
	err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/api/folders/%d/ancestors", id), nil, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Folders, nil
}

// CreateFolder creates a folder, at the root when parentID is nil.
func (c *Client) CreateFolder(ctx context.Context, name string, parentID *int64) (*domain.Folder, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("folder name is required")
	}

	var resp struct {
		Folder domain.Folder `json:"folder"`
	}
	err := c.doJSON(ctx, http.MethodPost, "/api/folders", map[string]any{
		"name":      strings.TrimSpace(name),
		"parent_id": parentID,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp.Folder, nil
}

// RenameFolder changes a folder's name.
func (c *Client) RenameFolder(ctx context.Context, id int64, name string) (*domain.Folder, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("folder name is required")
	}

	var resp struct {
		Folder domain.Folder `json:"folder"`
	}
	err := c.doJSON(ctx, http.MethodPut, fmt.Sprintf("/api/folders/%d", id),
		map[string]string{"name": strings.TrimSpace(name)}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp.Folder, nil
}

// DeleteFolder removes a folder and everything under it.
func (c *Client) DeleteFolder(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/api/folders/%d", id), nil, nil)
}

// Upload sends one PDF. The extension check runs before any bytes hit the
// wire.
func (c *Client) Upload(ctx context.Context, name string, folderID *int64, filename string, content io.Reader) (*domain.File, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("file name is required")
	}
	if !strings.EqualFold(filepath.Ext(filename), ".pdf") {
		return nil, fmt.Errorf("only PDF files are allowed")
	}

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		err := func() error {
			if err := mw.WriteField("name", strings.TrimSpace(name)); err != nil {
				return err
			}
			if folderID != nil {
				if err := mw.WriteField("folder_id", strconv.FormatInt(*folderID, 10)); err != nil {
					return err
				}
			}
			part, err := mw.CreateFormFile("file", filepath.Base(filename))
			if err != nil {
				return err
			}
			if _, err := io.Copy(part, content); err != nil {
				return err
			}
			return mw.Close()
		}()
		pw.CloseWithError(err)
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/files", pr)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.send(req, "/api/files")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var decoded struct {
		File domain.File `json:"file"`
	}
	if err := jsonDecode(resp.Body, &decoded); err != nil {
		return nil, err
	}
	return &decoded.File, nil
}

// GetFile fetches a file's metadata.
func (c *Client) GetFile(ctx context.Context, id int64) (*domain.File, error) {
	var resp struct {
		File domain.File `json:"file"`
	}
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/api/files/%d", id), nil, &resp); err != nil {
		return nil, err
	}
	return &resp.File, nil
}

// RenameFile changes a file's display name.
func (c *Client) RenameFile(ctx context.Context, id int64, name string) (*domain.File, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("file name is required")
	}

	var resp struct {
		File domain.File `json:"file"`
	}
	err := c.doJSON(ctx, http.MethodPut, fmt.Sprintf("/api/files/%d", id),
		map[string]string{"name": strings.TrimSpace(name)}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp.File, nil
}

// DeleteFile removes a file's blob and metadata.
func (c *Client) DeleteFile(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/api/files/%d", id), nil, nil)
}

// Download streams a file's content. The caller must close the reader.
func (c *Client) Download(ctx context.Context, id int64) (io.ReadCloser, error) {
	path := fmt.Sprintf("/api/files/%d/download", id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.send(req, path)
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

// DownloadURL returns the attachment URL for a file.
func (c *Client) DownloadURL(id int64) string {
	return fmt.Sprintf("%s/api/files/%d/download", c.baseURL, id)
}

// PreviewURL returns the inline view URL for a file.
func (c *Client) PreviewURL(id int64) string {
	return fmt.Sprintf("%s/api/files/%d/preview", c.baseURL, id)
}

// Search matches folders and files by name. Queries under two characters are
// rejected locally, matching the server rule.
func (c *Client) Search(ctx context.Context, query string, limit, offset int) (*domain.SearchResults, error) {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < config.MinSearchQueryLength {
		return nil, fmt.Errorf("search query must be at least %d characters", config.MinSearchQueryLength)
	}

	q := url.Values{}
	q.Set("q", query)
	addPage(q, limit, offset)

	var results domain.SearchResults
	if err := c.doJSON(ctx, http.MethodGet, withQuery("/api/search", q), nil, &results); err != nil {
		return nil, err
	}
	return &results, nil
}

// ListUsers pages through all users. Admin only.
func (c *Client) ListUsers(ctx context.Context, limit, offset int) (*UserListing, error) {
	q := url.Values{}
	addPage(q, limit, offset)

	var listing UserListing
	if err := c.doJSON(ctx, http.MethodGet, withQuery("/api/users", q), nil, &listing); err != nil {
		return nil, err
	}
	return &listing, nil
}

// GetUser fetches one user. Admin only.
func (c *Client) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	var resp struct {
		User domain.User `json:"user"`
	}
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/api/users/%d", id), nil, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// UpdateUserRole sets a user's role to "user" or "admin". Admin only.
func (c *Client) UpdateUserRole(ctx context.Context, id int64, role string) (*domain.User, error) {
	var resp struct {
		User domain.User `json:"user"`
	}
	err := c.doJSON(ctx, http.MethodPut, fmt.Sprintf("/api/users/%d/role", id),
		map[string]string{"role": role}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp.User, nil
}

func addPage(q url.Values, limit, offset int) {
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if offset > 0 {
		q.Set("offset", strconv.Itoa(offset))
	}
}

func withQuery(path string, q url.Values) string {
	if len(q) == 0 {
		return path
	}
	return path + "?" + q.Encode()
}
