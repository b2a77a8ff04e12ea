package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"dataroom/internal/config"
	"dataroom/internal/domain"
)

const pdfMimeType = "application/pdf"

// FileService implements upload, metadata, rename, delete and content
// streaming for PDF files.
type FileService struct {
	files    domain.FileRepository
	folders  domain.FolderRepository
	storage  domain.BlobStorage
	activity domain.ActivityRepository
	logger   *slog.Logger
}

func NewFileService(
	files domain.FileRepository,
	folders domain.FolderRepository,
	storage domain.BlobStorage,
	activity domain.ActivityRepository,
	logger *slog.Logger,
) *FileService {
	return &FileService{
		files:    files,
		folders:  folders,
		storage:  storage,
		activity: activity,
		logger:   logger,
	}
}

type UploadRequest struct {
	Name             string
	OriginalFilename string
	FolderID         *int64
	Content          io.Reader
}

func (r UploadRequest) validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name,
			validation.Required.Error("file name is required"),
			validation.Length(1, config.MaxNameLength),
		),
		validation.Field(&r.OriginalFilename, validation.Required.Error("no file provided")),
		validation.Field(&r.Content, validation.Required.Error("no file provided")),
	)
}

// Upload stores the blob and creates the metadata row. Only .pdf files are
// accepted, matching the rule clients enforce before sending anything.
func (s *FileService) Upload(ctx context.Context, userID int64, req *UploadRequest) (*domain.File, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := req.validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	if strings.ToLower(filepath.Ext(req.OriginalFilename)) != ".pdf" {
		return nil, fmt.Errorf("%w: only PDF files are allowed", domain.ErrValidation)
	}

	if req.FolderID != nil {
		folder, err := s.folders.GetByID(ctx, *req.FolderID)
		if err != nil {
			return nil, err
		}
		if folder.OwnerID != userID {
			return nil, fmt.Errorf("%w: you can only upload files to your own folders", domain.ErrForbidden)
		}
	}

	if existing, err := s.files.GetByNameAndFolder(ctx, userID, req.FolderID, req.Name); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, &domain.ConflictError{
			Message:      "a file with this name already exists in this location",
			ResourceType: "file",
			ResourceID:   existing.ID,
		}
	}

	put, err := s.storage.Put(ctx, req.Content, req.OriginalFilename)
	if err != nil {
		return nil, fmt.Errorf("store file: %w", err)
	}

	file := &domain.File{
		Name:             req.Name,
		OriginalFilename: req.OriginalFilename,
		SizeBytes:        put.SizeBytes,
		MimeType:         pdfMimeType,
		FolderID:         req.FolderID,
		OwnerID:          userID,
		StorageKey:       put.Key,
	}

	if err := s.files.Create(ctx, file); err != nil {
		// Row creation failed; drop the stored blob.
		if delErr := s.storage.Delete(ctx, put.Key); delErr != nil {
			s.logger.Warn("failed to clean up blob after create failure", "key", put.Key, "error", delErr)
		}
		return nil, err
	}

	s.logger.Info("file uploaded",
		"file_id", file.ID,
		"name", file.Name,
		"size_bytes", file.SizeBytes,
		"owner_id", userID,
	)
	recordActivity(ctx, s.activity, s.logger, domain.ActivityLog{
		UserID: userID, Action: "upload", EntityType: "file", EntityID: file.ID, Detail: file.Name,
	})

	return s.files.GetByID(ctx, file.ID)
}

// Get returns file metadata.
func (s *FileService) Get(ctx context.Context, id int64) (*domain.File, error) {
	return s.files.GetByID(ctx, id)
}

// Open returns the file's metadata and a reader over its content. The caller
// closes the reader.
func (s *FileService) Open(ctx context.Context, id int64) (*domain.File, io.ReadCloser, error) {
	file, err := s.files.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	rc, err := s.storage.Get(ctx, file.StorageKey)
	if err != nil {
		return nil, nil, err
	}

	return file, rc, nil
}

// Rename changes a file's display name; only the owner may do so.
func (s *FileService) Rename(ctx context.Context, userID, id int64, name string) (*domain.File, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: file name is required", domain.ErrValidation)
	}
	if len(name) > config.MaxNameLength {
		return nil, fmt.Errorf("%w: file name is too long", domain.ErrValidation)
	}

	file, err := s.files.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if file.OwnerID != userID {
		return nil, fmt.Errorf("%w: you do not have permission to edit this file", domain.ErrForbidden)
	}

	if existing, err := s.files.GetByNameAndFolder(ctx, file.OwnerID, file.FolderID, name); err != nil {
		return nil, err
	} else if existing != nil && existing.ID != id {
		return nil, &domain.ConflictError{
			Message:      "a file with this name already exists in this location",
			ResourceType: "file",
			ResourceID:   existing.ID,
		}
	}

	renamed, err := s.files.Rename(ctx, id, name)
	if err != nil {
		return nil, err
	}

	s.logger.Info("file renamed", "file_id", id, "name", name)
	recordActivity(ctx, s.activity, s.logger, domain.ActivityLog{
		UserID: userID, Action: "rename", EntityType: "file", EntityID: id, Detail: name,
	})

	return renamed, nil
}

// Delete removes the blob and then the metadata row.
func (s *FileService) Delete(ctx context.Context, userID, id int64) error {
	file, err := s.files.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if file.OwnerID != userID {
		return fmt.Errorf("%w: you do not have permission to delete this file", domain.ErrForbidden)
	}

	if err := s.storage.Delete(ctx, file.StorageKey); err != nil {
		s.logger.Warn("failed to delete blob", "key", file.StorageKey, "error", err)
	}

	if err := s.files.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("file deleted", "file_id", id)
	recordActivity(ctx, s.activity, s.logger, domain.ActivityLog{
		UserID: userID, Action: "delete", EntityType: "file", EntityID: id, Detail: file.Name,
	})

	return nil
}
