package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"dataroom/internal/domain"
	"dataroom/internal/testutil"
)

func TestUpload(t *testing.T) {
	ctx := context.Background()
	fx := testutil.NewFixture()
	svc := newFileService(fx)
	alice := seedUser(t, fx, "alice@example.com", "Alice")

	file, err := svc.Upload(ctx, alice, &UploadRequest{
		Name:             "Q3 deck",
		OriginalFilename: "q3-deck.pdf",
		Content:          strings.NewReader("%PDF-1.4 fake"),
	})
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	if file.MimeType != "application/pdf" {
		t.Errorf("MimeType = %q, want application/pdf", file.MimeType)
	}
	if file.SizeBytes != int64(len("%PDF-1.4 fake")) {
		t.Errorf("SizeBytes = %d, want %d", file.SizeBytes, len("%PDF-1.4 fake"))
	}
	if file.OwnerName != "Alice" {
		t.Errorf("OwnerName = %q, want Alice", file.OwnerName)
	}
	if fx.Blobs.Len() != 1 {
		t.Errorf("blob count = %d, want 1", fx.Blobs.Len())
	}
}

func TestUploadRejectsNonPDF(t *testing.T) {
	ctx := context.Background()
	fx := testutil.NewFixture()
	svc := newFileService(fx)
	alice := seedUser(t, fx, "alice@example.com", "Alice")

	tests := []struct {
		name     string
		filename string
	}{
		{"word document", "notes.docx"},
		{"no extension", "notes"},
		{"pdf in the middle", "notes.pdf.exe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Upload(ctx, alice, &UploadRequest{
				Name:             "notes",
				OriginalFilename: tt.filename,
				Content:          strings.NewReader("data"),
			})
			if !errors.Is(err, domain.ErrValidation) {
				t.Errorf("got %v, want ErrValidation", err)
			}
		})
	}
	if fx.Blobs.Len() != 0 {
		t.Errorf("blob count = %d after rejected uploads, want 0", fx.Blobs.Len())
	}
}

func TestUploadAcceptsUppercaseExtension(t *testing.T) {
	ctx := context.Background()
	fx := testutil.NewFixture()
	svc := newFileService(fx)
	alice := seedUser(t, fx, "alice@example.com", "Alice")

	if _, err := svc.Upload(ctx, alice, &UploadRequest{
		Name:             "scan",
		OriginalFilename: "SCAN.PDF",
		Content:          strings.NewReader("data"),
	}); err != nil {
		t.Fatalf("Upload of .PDF failed: %v", err)
	}
}

func TestUploadToForeignFolder(t *testing.T) {
	ctx := context.Background()
	fx := testutil.NewFixture()
	folders := newFolderService(fx)
	files := newFileService(fx)
	alice := seedUser(t, fx, "alice@example.com", "Alice")
	bob := seedUser(t, fx, "bob@example.com", "Bob")

	folder, err := folders.Create(ctx, alice, &CreateFolderRequest{Name: "Alice's"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	_, err = files.Upload(ctx, bob, &UploadRequest{
		Name:             "intruder",
		OriginalFilename: "intruder.pdf",
		FolderID:         &folder.ID,
		Content:          strings.NewReader("data"),
	})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("got %v, want ErrForbidden", err)
	}
}

func TestUploadDuplicateName(t *testing.T) {
	ctx := context.Background()
	fx := testutil.NewFixture()
	svc := newFileService(fx)
	alice := seedUser(t, fx, "alice@example.com", "Alice")

	req := func() *UploadRequest {
		return &UploadRequest{
			Name:             "deck",
			OriginalFilename: "deck.pdf",
			Content:          strings.NewReader("data"),
		}
	}

	if _, err := svc.Upload(ctx, alice, req()); err != nil {
		t.Fatalf("first Upload failed: %v", err)
	}
	if _, err := svc.Upload(ctx, alice, req()); !errors.Is(err, domain.ErrConflict) {
		t.Errorf("got %v, want ErrConflict", err)
	}
}

func TestOpenStreamsContent(t *testing.T) {
	ctx := context.Background()
	fx := testutil.NewFixture()
	svc := newFileService(fx)
	alice := seedUser(t, fx, "alice@example.com", "Alice")

	uploaded, err := svc.Upload(ctx, alice, &UploadRequest{
		Name:             "deck",
		OriginalFilename: "deck.pdf",
		Content:          strings.NewReader("%PDF-1.4 body"),
	})
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}

	meta, rc, err := svc.Open(ctx, uploaded.ID)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer rc.Close()

	if meta.ID != uploaded.ID {
		t.Errorf("meta.ID = %d, want %d", meta.ID, uploaded.ID)
	}
	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if string(data) != "%PDF-1.4 body" {
		t.Errorf("content = %q, want the uploaded bytes", data)
	}
}

func TestDeleteFileRemovesBlob(t *testing.T) {
	ctx := context.Background()
	fx := testutil.NewFixture()
	svc := newFileService(fx)
	alice := seedUser(t, fx, "alice@example.com", "Alice")

	file, err := svc.Upload(ctx, alice, &UploadRequest{
		Name:             "deck",
		OriginalFilename: "deck.pdf",
		Content:          strings.NewReader("data"),
	})
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}

	if err := svc.Delete(ctx, alice, file.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if fx.Blobs.Len() != 0 {
		t.Errorf("blob count = %d after delete, want 0", fx.Blobs.Len())
	}
	if _, err := svc.Get(ctx, file.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("deleted file still readable: %v", err)
	}
}

func TestRenameFileValidation(t *testing.T) {
	ctx := context.Background()
	fx := testutil.NewFixture()
	svc := newFileService(fx)
	alice := seedUser(t, fx, "alice@example.com", "Alice")

	file, err := svc.Upload(ctx, alice, &UploadRequest{
		Name:             "deck",
		OriginalFilename: "deck.pdf",
		Content:          strings.NewReader("data"),
	})
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}

	if _, err := svc.Rename(ctx, alice, file.ID, "   "); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("blank rename: got %v, want ErrValidation", err)
	}

	renamed, err := svc.Rename(ctx, alice, file.ID, "Q3 deck")
	if err != nil {
		t.Fatalf("Rename failed: %v", err)
	}
	if renamed.Name != "Q3 deck" {
		t.Errorf("Name = %q, want Q3 deck", renamed.Name)
	}
}
