package domain

import "context"

// ListOptions is plain limit/offset pagination passed through to queries.
type ListOptions struct {
	Limit  int
	Offset int
}

// UserRepository persists users.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context, opts ListOptions) ([]User, error)
	UpdateRole(ctx context.Context, id int64, role string) error
	TouchLastLogin(ctx context.Context, id int64) error
}

// FolderRepository persists folders. All reads hydrate OwnerName.
type FolderRepository interface {
	Create(ctx context.Context, folder *Folder) error
	GetByID(ctx context.Context, id int64) (*Folder, error)
	// GetByNameAndParent returns nil, nil when no sibling with that name exists.
	GetByNameAndParent(ctx context.Context, ownerID int64, parentID *int64, name string) (*Folder, error)
	ListRoot(ctx context.Context, ownerID *int64, opts ListOptions) ([]Folder, error)
	ListChildren(ctx context.Context, parentID int64) ([]Folder, error)
	// Ancestors returns the chain from root to the given folder, inclusive.
	Ancestors(ctx context.Context, id int64) ([]Folder, error)
	Rename(ctx context.Context, id int64, name string) (*Folder, error)
	// Delete removes the folder; child rows cascade at the database level.
	Delete(ctx context.Context, id int64) error
	SearchByName(ctx context.Context, query string, opts ListOptions) ([]Folder, error)
}

// FileRepository persists file metadata. Blob bytes live in BlobStorage.
type FileRepository interface {
	Create(ctx context.Context, file *File) error
	GetByID(ctx context.Context, id int64) (*File, error)
	GetByNameAndFolder(ctx context.Context, ownerID int64, folderID *int64, name string) (*File, error)
	ListRoot(ctx context.Context, ownerID *int64, opts ListOptions) ([]File, error)
	ListByFolder(ctx context.Context, folderID int64) ([]File, error)
	// ListKeysUnderFolder returns the storage keys of every file in the folder's
	// subtree, so blobs can be removed before a cascading folder delete.
	ListKeysUnderFolder(ctx context.Context, folderID int64) ([]string, error)
	Rename(ctx context.Context, id int64, name string) (*File, error)
	Delete(ctx context.Context, id int64) error
	SearchByName(ctx context.Context, query string, opts ListOptions) ([]File, error)
}

// ActivityRepository appends audit records.
type ActivityRepository interface {
	Record(ctx context.Context, entry *ActivityLog) error
}
