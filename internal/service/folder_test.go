package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"dataroom/internal/domain"
	"dataroom/internal/testutil"
)

func newFolderService(fx *testutil.Fixture) *FolderService {
	return NewFolderService(fx.Folders, fx.Files, fx.Blobs, fx.Activity, testLogger())
}

func newFileService(fx *testutil.Fixture) *FileService {
	return NewFileService(fx.Files, fx.Folders, fx.Blobs, fx.Activity, testLogger())
}

// seedUser inserts a user directly and returns its id.
func seedUser(t *testing.T, fx *testutil.Fixture, email, name string) int64 {
	t.Helper()
	u := &domain.User{Email: email, Name: name, Role: domain.RoleUser, PasswordHash: "x"}
	if err := fx.Users.Create(context.Background(), u); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u.ID
}

func TestCreateFolder(t *testing.T) {
	ctx := context.Background()
	fx := testutil.NewFixture()
	svc := newFolderService(fx)
	alice := seedUser(t, fx, "alice@example.com", "Alice")

	folder, err := svc.Create(ctx, alice, &CreateFolderRequest{Name: "Reports"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if folder.Name != "Reports" {
		t.Errorf("Name = %q, want Reports", folder.Name)
	}
	if folder.ParentID != nil {
		t.Error("root folder has a parent")
	}
	if folder.OwnerName != "Alice" {
		t.Errorf("OwnerName = %q, want Alice", folder.OwnerName)
	}
}

func TestCreateFolderValidation(t *testing.T) {
	ctx := context.Background()
	fx := testutil.NewFixture()
	svc := newFolderService(fx)
	alice := seedUser(t, fx, "alice@example.com", "Alice")

	tests := []struct {
		name       string
		folderName string
	}{
		{"empty name", ""},
		{"whitespace only", "   "},
		{"contains slash", "a/b"},
		{"too long", strings.Repeat("x", 300)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, alice, &CreateFolderRequest{Name: tt.folderName})
			if !errors.Is(err, domain.ErrValidation) {
				t.Errorf("got %v, want ErrValidation", err)
			}
		})
	}
}

func TestCreateFolderInForeignParent(t *testing.T) {
	ctx := context.Background()
	fx := testutil.NewFixture()
	svc := newFolderService(fx)
	alice := seedUser(t, fx, "alice@example.com", "Alice")
	bob := seedUser(t, fx, "bob@example.com", "Bob")

	parent, err := svc.Create(ctx, alice, &CreateFolderRequest{Name: "Alice's"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	_, err = svc.Create(ctx, bob, &CreateFolderRequest{Name: "Sneaky", ParentID: &parent.ID})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("got %v, want ErrForbidden", err)
	}
}

func TestCreateFolderDuplicateName(t *testing.T) {
	ctx := context.Background()
	fx := testutil.NewFixture()
	svc := newFolderService(fx)
	alice := seedUser(t, fx, "alice@example.com", "Alice")

	if _, err := svc.Create(ctx, alice, &CreateFolderRequest{Name: "Reports"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	_, err := svc.Create(ctx, alice, &CreateFolderRequest{Name: "Reports"})
	if !errors.Is(err, domain.ErrConflict) {
		t.Errorf("got %v, want ErrConflict", err)
	}
	var conflict *domain.ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("error is not a ConflictError: %v", err)
	}
	if conflict.ResourceType != "folder" {
		t.Errorf("ResourceType = %q, want folder", conflict.ResourceType)
	}
}

func TestRenameFolderForbiddenForNonOwner(t *testing.T) {
	ctx := context.Background()
	fx := testutil.NewFixture()
	svc := newFolderService(fx)
	alice := seedUser(t, fx, "alice@example.com", "Alice")
	bob := seedUser(t, fx, "bob@example.com", "Bob")

	folder, err := svc.Create(ctx, alice, &CreateFolderRequest{Name: "Reports"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if _, err := svc.Rename(ctx, bob, folder.ID, "Stolen"); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("got %v, want ErrForbidden", err)
	}
}

func TestDeleteFolderRemovesSubtreeBlobs(t *testing.T) {
	ctx := context.Background()
	fx := testutil.NewFixture()
	folders := newFolderService(fx)
	files := newFileService(fx)
	alice := seedUser(t, fx, "alice@example.com", "Alice")

	parent, err := folders.Create(ctx, alice, &CreateFolderRequest{Name: "Parent"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	child, err := folders.Create(ctx, alice, &CreateFolderRequest{Name: "Child", ParentID: &parent.ID})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if _, err := files.Upload(ctx, alice, &UploadRequest{
		Name:             "deck",
		OriginalFilename: "deck.pdf",
		FolderID:         &child.ID,
		Content:          strings.NewReader("%PDF-1.4 fake"),
	}); err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	if fx.Blobs.Len() != 1 {
		t.Fatalf("blob count = %d, want 1", fx.Blobs.Len())
	}

	if err := folders.Delete(ctx, alice, parent.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if _, err := folders.Contents(ctx, child.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("child folder still readable after cascade: %v", err)
	}
	if fx.Blobs.Len() != 0 {
		t.Errorf("blob count = %d after delete, want 0", fx.Blobs.Len())
	}
}

func TestAncestors(t *testing.T) {
	ctx := context.Background()
	fx := testutil.NewFixture()
	svc := newFolderService(fx)
	alice := seedUser(t, fx, "alice@example.com", "Alice")

	a, _ := svc.Create(ctx, alice, &CreateFolderRequest{Name: "a"})
	b, _ := svc.Create(ctx, alice, &CreateFolderRequest{Name: "b", ParentID: &a.ID})
	c, err := svc.Create(ctx, alice, &CreateFolderRequest{Name: "c", ParentID: &b.ID})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	chain, err := svc.Ancestors(ctx, c.ID)
	if err != nil {
		t.Fatalf("Ancestors failed: %v", err)
	}
	if len(chain) != 3 {
		t.Fatalf("chain length = %d, want 3", len(chain))
	}
	for i, want := range []string{"a", "b", "c"} {
		if chain[i].Name != want {
			t.Errorf("chain[%d] = %q, want %q", i, chain[i].Name, want)
		}
	}
}
