package domain

import "time"

// Role values stored on User.Role.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is the identity and session subject. PasswordHash never leaves the server.
type User struct {
	ID           int64      `json:"id"`
	Email        string     `json:"email"`
	Name         string     `json:"name"`
	Role         string     `json:"role"`
	PasswordHash string     `json:"-"`
	CreatedAt    time.Time  `json:"created_at"`
	LastLogin    *time.Time `json:"last_login"`
}

// Folder is a node in the folder tree. ParentID == nil means root level.
type Folder struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	ParentID  *int64    `json:"parent_id"`
	OwnerID   int64     `json:"owner_id"`
	OwnerName string    `json:"owner_name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// File is an uploaded document's metadata. StorageKey locates the blob in the
// configured BlobStorage and is never serialized.
type File struct {
	ID               int64     `json:"id"`
	Name             string    `json:"name"`
	OriginalFilename string    `json:"original_filename"`
	SizeBytes        int64     `json:"size_bytes"`
	MimeType         string    `json:"mime_type"`
	FolderID         *int64    `json:"folder_id"`
	OwnerID          int64     `json:"owner_id"`
	OwnerName        string    `json:"owner_name"`
	UploadedAt       time.Time `json:"uploaded_at"`
	UpdatedAt        time.Time `json:"updated_at"`
	StorageKey       string    `json:"-"`
}

// FolderContents is the composite listing returned for a folder. It is a read
// view, not a persisted entity.
type FolderContents struct {
	Folder     Folder   `json:"folder"`
	Subfolders []Folder `json:"subfolders"`
	Files      []File   `json:"files"`
}

// SearchResults is a transient query response over folders and files.
type SearchResults struct {
	Query   string   `json:"query"`
	Folders []Folder `json:"folders"`
	Files   []File   `json:"files"`
	Limit   int      `json:"limit"`
	Offset  int      `json:"offset"`
}

// ActivityLog records a mutating action for auditing. Written best-effort;
// failures never fail the triggering operation.
type ActivityLog struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
	Action     string    `json:"action"`
	EntityType string    `json:"entity_type"`
	EntityID   int64     `json:"entity_id"`
	Detail     string    `json:"detail,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// TokenClaims are the parsed claims of a session token.
type TokenClaims struct {
	JTI       string
	UserID    int64
	Email     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}
