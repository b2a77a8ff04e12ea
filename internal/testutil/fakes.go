// Package testutil provides in-memory fakes for the persistence and storage
// interfaces, so service and handler tests run without Postgres or a blob
// store.
package testutil

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"dataroom/internal/domain"
)

// Fixture wires every fake together with shared ID counters.
type Fixture struct {
	Users    *UserRepo
	Folders  *FolderRepo
	Files    *FileRepo
	Activity *ActivityRepo
	Blobs    *BlobStore
}

func NewFixture() *Fixture {
	users := &UserRepo{byID: map[int64]*domain.User{}}
	folders := &FolderRepo{byID: map[int64]*domain.Folder{}, users: users}
	files := &FileRepo{byID: map[int64]*domain.File{}, users: users, folders: folders}
	return &Fixture{
		Users:    users,
		Folders:  folders,
		Files:    files,
		Activity: &ActivityRepo{},
		Blobs:    &BlobStore{data: map[string][]byte{}},
	}
}

// UserRepo is an in-memory domain.UserRepository.
type UserRepo struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]*domain.User
}

var _ domain.UserRepository = (*UserRepo)(nil)

func (r *UserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if strings.EqualFold(u.Email, user.Email) {
			return fmt.Errorf("%w: email already registered", domain.ErrConflict)
		}
	}
	r.nextID++
	user.ID = r.nextID
	user.CreatedAt = time.Now()
	clone := *user
	r.byID[user.ID] = &clone
	return nil
}

func (r *UserRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: user %d", domain.ErrNotFound, id)
	}
	clone := *u
	return &clone, nil
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if strings.EqualFold(u.Email, email) {
			clone := *u
			return &clone, nil
		}
	}
	return nil, fmt.Errorf("%w: user %s", domain.ErrNotFound, email)
}

func (r *UserRepo) List(_ context.Context, opts domain.ListOptions) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	users := make([]domain.User, 0, len(r.byID))
	for _, u := range r.byID {
		users = append(users, *u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return page(users, opts), nil
}

func (r *UserRepo) UpdateRole(_ context.Context, id int64, role string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return fmt.Errorf("%w: user %d", domain.ErrNotFound, id)
	}
	u.Role = role
	return nil
}

func (r *UserRepo) TouchLastLogin(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.byID[id]; ok {
		now := time.Now()
		u.LastLogin = &now
	}
	return nil
}

// FolderRepo is an in-memory domain.FolderRepository.
type FolderRepo struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]*domain.Folder
	users  *UserRepo
}

var _ domain.FolderRepository = (*FolderRepo)(nil)

func (r *FolderRepo) ownerName(id int64) string {
	if u, ok := r.users.byID[id]; ok {
		return u.Name
	}
	return ""
}

func (r *FolderRepo) Create(_ context.Context, folder *domain.Folder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	folder.ID = r.nextID
	now := time.Now()
	folder.CreatedAt = now
	folder.UpdatedAt = now
	folder.OwnerName = r.ownerName(folder.OwnerID)
	clone := *folder
	r.byID[folder.ID] = &clone
	return nil
}

func (r *FolderRepo) GetByID(_ context.Context, id int64) (*domain.Folder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: folder %d", domain.ErrNotFound, id)
	}
	clone := *f
	return &clone, nil
}

func (r *FolderRepo) GetByNameAndParent(_ context.Context, ownerID int64, parentID *int64, name string) (*domain.Folder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, f := range r.byID {
		if f.OwnerID == ownerID && sameParent(f.ParentID, parentID) && strings.EqualFold(f.Name, name) {
			clone := *f
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *FolderRepo) ListRoot(_ context.Context, ownerID *int64, opts domain.ListOptions) ([]domain.Folder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Folder
	for _, f := range r.byID {
		if f.ParentID != nil {
			continue
		}
		if ownerID != nil && f.OwnerID != *ownerID {
			continue
		}
		out = append(out, *f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return page(out, opts), nil
}

func (r *FolderRepo) ListChildren(_ context.Context, parentID int64) ([]domain.Folder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Folder
	for _, f := range r.byID {
		if f.ParentID != nil && *f.ParentID == parentID {
			out = append(out, *f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *FolderRepo) Ancestors(_ context.Context, id int64) ([]domain.Folder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var chain []domain.Folder
	cur, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: folder %d", domain.ErrNotFound, id)
	}
	for cur != nil {
		chain = append([]domain.Folder{*cur}, chain...)
		if cur.ParentID == nil {
			break
		}
		cur = r.byID[*cur.ParentID]
	}
	return chain, nil
}

func (r *FolderRepo) Rename(_ context.Context, id int64, name string) (*domain.Folder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: folder %d", domain.ErrNotFound, id)
	}
	f.Name = name
	f.UpdatedAt = time.Now()
	clone := *f
	return &clone, nil
}

func (r *FolderRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return fmt.Errorf("%w: folder %d", domain.ErrNotFound, id)
	}
	// Cascade like the database would.
	removed := map[int64]bool{id: true}
	for changed := true; changed; {
		changed = false
		for fid, f := range r.byID {
			if removed[fid] {
				continue
			}
			if f.ParentID != nil && removed[*f.ParentID] {
				removed[fid] = true
				changed = true
			}
		}
	}
	for fid := range removed {
		delete(r.byID, fid)
	}
	return nil
}

func (r *FolderRepo) SearchByName(_ context.Context, query string, opts domain.ListOptions) ([]domain.Folder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Folder
	for _, f := range r.byID {
		if strings.Contains(strings.ToLower(f.Name), strings.ToLower(query)) {
			out = append(out, *f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return page(out, opts), nil
}

// FileRepo is an in-memory domain.FileRepository.
type FileRepo struct {
	mu      sync.Mutex
	nextID  int64
	byID    map[int64]*domain.File
	users   *UserRepo
	folders *FolderRepo
}

var _ domain.FileRepository = (*FileRepo)(nil)

func (r *FileRepo) Create(_ context.Context, file *domain.File) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if file.FolderID != nil {
		if _, ok := r.folders.byID[*file.FolderID]; !ok {
			return fmt.Errorf("%w: folder %d", domain.ErrNotFound, *file.FolderID)
		}
	}
	r.nextID++
	file.ID = r.nextID
	now := time.Now()
	file.UploadedAt = now
	file.UpdatedAt = now
	if u, ok := r.users.byID[file.OwnerID]; ok {
		file.OwnerName = u.Name
	}
	clone := *file
	r.byID[file.ID] = &clone
	return nil
}

func (r *FileRepo) GetByID(_ context.Context, id int64) (*domain.File, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: file %d", domain.ErrNotFound, id)
	}
	clone := *f
	return &clone, nil
}

func (r *FileRepo) GetByNameAndFolder(_ context.Context, ownerID int64, folderID *int64, name string) (*domain.File, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, f := range r.byID {
		if f.OwnerID == ownerID && sameParent(f.FolderID, folderID) && strings.EqualFold(f.Name, name) {
			clone := *f
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *FileRepo) ListRoot(_ context.Context, ownerID *int64, opts domain.ListOptions) ([]domain.File, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.File
	for _, f := range r.byID {
		if f.FolderID != nil {
			continue
		}
		if ownerID != nil && f.OwnerID != *ownerID {
			continue
		}
		out = append(out, *f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return page(out, opts), nil
}

func (r *FileRepo) ListByFolder(_ context.Context, folderID int64) ([]domain.File, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.File
	for _, f := range r.byID {
		if f.FolderID != nil && *f.FolderID == folderID {
			out = append(out, *f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *FileRepo) ListKeysUnderFolder(_ context.Context, folderID int64) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	inSubtree := func(id int64) bool {
		cur := r.folders.byID[id]
		for cur != nil {
			if cur.ID == folderID {
				return true
			}
			if cur.ParentID == nil {
				return false
			}
			cur = r.folders.byID[*cur.ParentID]
		}
		return false
	}

	var keys []string
	for _, f := range r.byID {
		if f.FolderID != nil && inSubtree(*f.FolderID) {
			keys = append(keys, f.StorageKey)
		}
	}
	return keys, nil
}

func (r *FileRepo) Rename(_ context.Context, id int64, name string) (*domain.File, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: file %d", domain.ErrNotFound, id)
	}
	f.Name = name
	f.UpdatedAt = time.Now()
	clone := *f
	return &clone, nil
}

func (r *FileRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return fmt.Errorf("%w: file %d", domain.ErrNotFound, id)
	}
	delete(r.byID, id)
	return nil
}

func (r *FileRepo) SearchByName(_ context.Context, query string, opts domain.ListOptions) ([]domain.File, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.File
	q := strings.ToLower(query)
	for _, f := range r.byID {
		if strings.Contains(strings.ToLower(f.Name), q) ||
			strings.Contains(strings.ToLower(f.OriginalFilename), q) {
			out = append(out, *f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return page(out, opts), nil
}

// ActivityRepo collects audit entries.
type ActivityRepo struct {
	mu      sync.Mutex
	Entries []domain.ActivityLog
}

var _ domain.ActivityRepository = (*ActivityRepo)(nil)

func (r *ActivityRepo) Record(_ context.Context, entry *domain.ActivityLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Entries = append(r.Entries, *entry)
	return nil
}

// BlobStore is an in-memory domain.BlobStorage.
type BlobStore struct {
	mu     sync.Mutex
	nextID int
	data   map[string][]byte
}

var _ domain.BlobStorage = (*BlobStore)(nil)

func (b *BlobStore) Put(_ context.Context, r io.Reader, originalFilename string) (domain.BlobPutResult, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return domain.BlobPutResult{}, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	key := fmt.Sprintf("blob-%d-%s", b.nextID, originalFilename)
	b.data[key] = data
	return domain.BlobPutResult{Key: key, SizeBytes: int64(len(data))}, nil
}

func (b *BlobStore) Get(_ context.Context, key string) (io.ReadCloser, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	data, ok := b.data[key]
	if !ok {
		return nil, fmt.Errorf("%w: blob %s", domain.ErrNotFound, key)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (b *BlobStore) Delete(_ context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.data, key)
	return nil
}

// Len reports how many blobs are stored.
func (b *BlobStore) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.data)
}

func sameParent(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func page[T any](items []T, opts domain.ListOptions) []T {
	if opts.Offset >= len(items) {
		return nil
	}
	items = items[opts.Offset:]
	if opts.Limit > 0 && opts.Limit < len(items) {
		items = items[:opts.Limit]
	}
	return items
}
