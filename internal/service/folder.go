package service

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"dataroom/internal/config"
	"dataroom/internal/domain"
)

var folderNameRe = regexp.MustCompile(`^[^/]+$`)

// FolderService implements folder tree operations. Ownership is enforced here
// for every mutation; clients only hide affordances.
type FolderService struct {
	folders  domain.FolderRepository
	files    domain.FileRepository
	storage  domain.BlobStorage
	activity domain.ActivityRepository
	logger   *slog.Logger
}

func NewFolderService(
	folders domain.FolderRepository,
	files domain.FileRepository,
	storage domain.BlobStorage,
	activity domain.ActivityRepository,
	logger *slog.Logger,
) *FolderService {
	return &FolderService{
		folders:  folders,
		files:    files,
		storage:  storage,
		activity: activity,
		logger:   logger,
	}
}

type CreateFolderRequest struct {
	Name     string `json:"name"`
	ParentID *int64 `json:"parent_id"`
}

func (r CreateFolderRequest) validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name,
			validation.Required.Error("folder name is required"),
			validation.Length(1, config.MaxNameLength),
			validation.Match(folderNameRe).Error("folder name cannot contain slashes"),
		),
	)
}

// RootListing is the top-level browse view: root folders plus root files.
type RootListing struct {
	Folders []domain.Folder `json:"folders"`
	Files   []domain.File   `json:"files"`
	Limit   int             `json:"limit"`
	Offset  int             `json:"offset"`
}

// ListRoot returns root-level folders and files, optionally restricted to one
// owner.
func (s *FolderService) ListRoot(ctx context.Context, ownerID *int64, limit, offset int) (*RootListing, error) {
	limit = clamp(limit, config.DefaultListLimit, config.MaxListLimit)
	if offset < 0 {
		offset = 0
	}
	opts := domain.ListOptions{Limit: limit, Offset: offset}

	folders, err := s.folders.ListRoot(ctx, ownerID, opts)
	if err != nil {
		return nil, err
	}
	files, err := s.files.ListRoot(ctx, ownerID, opts)
	if err != nil {
		return nil, err
	}

	return &RootListing{
		Folders: emptyIfNil(folders),
		Files:   emptyIfNil(files),
		Limit:   limit,
		Offset:  offset,
	}, nil
}

// Contents returns a folder with its immediate subfolders and files.
func (s *FolderService) Contents(ctx context.Context, id int64) (*domain.FolderContents, error) {
	folder, err := s.folders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	subfolders, err := s.folders.ListChildren(ctx, id)
	if err != nil {
		return nil, err
	}
	files, err := s.files.ListByFolder(ctx, id)
	if err != nil {
		return nil, err
	}

	return &domain.FolderContents{
		Folder:     *folder,
		Subfolders: emptyIfNil(subfolders),
		Files:      emptyIfNil(files),
	}, nil
}

// Ancestors returns the breadcrumb chain from root to the folder in one call.
func (s *FolderService) Ancestors(ctx context.Context, id int64) ([]domain.Folder, error) {
	return s.folders.Ancestors(ctx, id)
}

// Create makes a folder, optionally under a parent the caller owns.
func (s *FolderService) Create(ctx context.Context, userID int64, req *CreateFolderRequest) (*domain.Folder, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := req.validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	if req.ParentID != nil {
		parent, err := s.folders.GetByID(ctx, *req.ParentID)
		if err != nil {
			return nil, err
		}
		if parent.OwnerID != userID {
			return nil, fmt.Errorf("%w: you can only create subfolders in your own folders", domain.ErrForbidden)
		}
	}

	if existing, err := s.folders.GetByNameAndParent(ctx, userID, req.ParentID, req.Name); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, &domain.ConflictError{
			Message:      "a folder with this name already exists in this location",
			ResourceType: "folder",
			ResourceID:   existing.ID,
		}
	}

	folder := &domain.Folder{
		Name:     req.Name,
		ParentID: req.ParentID,
		OwnerID:  userID,
	}

	if err := s.folders.Create(ctx, folder); err != nil {
		return nil, err
	}

	s.logger.Info("folder created", "folder_id", folder.ID, "name", folder.Name, "owner_id", userID)
	recordActivity(ctx, s.activity, s.logger, domain.ActivityLog{
		UserID: userID, Action: "create", EntityType: "folder", EntityID: folder.ID, Detail: folder.Name,
	})

	// Reload for owner_name.
	return s.folders.GetByID(ctx, folder.ID)
}

// Rename changes a folder's name; only the owner may do so.
func (s *FolderService) Rename(ctx context.Context, userID, id int64, name string) (*domain.Folder, error) {
	name = strings.TrimSpace(name)
	if err := (CreateFolderRequest{Name: name}).validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	folder, err := s.folders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if folder.OwnerID != userID {
		return nil, fmt.Errorf("%w: you do not have permission to edit this folder", domain.ErrForbidden)
	}

	if existing, err := s.folders.GetByNameAndParent(ctx, folder.OwnerID, folder.ParentID, name); err != nil {
		return nil, err
	} else if existing != nil && existing.ID != id {
		return nil, &domain.ConflictError{
			Message:      "a folder with this name already exists in this location",
			ResourceType: "folder",
			ResourceID:   existing.ID,
		}
	}

	renamed, err := s.folders.Rename(ctx, id, name)
	if err != nil {
		return nil, err
	}

	s.logger.Info("folder renamed", "folder_id", id, "name", name)
	recordActivity(ctx, s.activity, s.logger, domain.ActivityLog{
		UserID: userID, Action: "rename", EntityType: "folder", EntityID: id, Detail: name,
	})

	return renamed, nil
}

// Delete removes a folder and, via the database cascade, its whole subtree.
// Blob contents of every file underneath are removed from storage first.
func (s *FolderService) Delete(ctx context.Context, userID, id int64) error {
	folder, err := s.folders.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if folder.OwnerID != userID {
		return fmt.Errorf("%w: you do not have permission to delete this folder", domain.ErrForbidden)
	}

	keys, err := s.files.ListKeysUnderFolder(ctx, id)
	if err != nil {
		return err
	}

	if err := s.folders.Delete(ctx, id); err != nil {
		return err
	}

	// Rows are gone at this point; storage failures are logged and skipped.
	for _, key := range keys {
		if err := s.storage.Delete(ctx, key); err != nil {
			s.logger.Warn("failed to delete blob", "key", key, "error", err)
		}
	}

	s.logger.Info("folder deleted", "folder_id", id, "blobs", len(keys))
	recordActivity(ctx, s.activity, s.logger, domain.ActivityLog{
		UserID: userID, Action: "delete", EntityType: "folder", EntityID: id, Detail: folder.Name,
	})

	return nil
}

func clamp(n, def, max int) int {
	if n <= 0 {
		return def
	}
	if n > max {
		return max
	}
	return n
}

func emptyIfNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
