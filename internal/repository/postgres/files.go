package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"dataroom/internal/domain"
)

const fileColumns = `
	f.id, f.name, f.original_filename, f.storage_key, f.size_bytes, f.mime_type,
	f.folder_id, f.owner_id, u.name, f.uploaded_at, f.updated_at
`

// FileRepository implements domain.FileRepository on Postgres.
type FileRepository struct {
	pool *pgxpool.Pool
}

var _ domain.FileRepository = (*FileRepository)(nil)

func NewFileRepository(config *RepositoryConfig) *FileRepository {
	return &FileRepository{pool: config.Pool}
}

func (r *FileRepository) Create(ctx context.Context, file *domain.File) error {
	query := `
		INSERT INTO files (name, original_filename, storage_key, size_bytes, mime_type, folder_id, owner_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, uploaded_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		file.Name,
		file.OriginalFilename,
		file.StorageKey,
		file.SizeBytes,
		file.MimeType,
		file.FolderID,
		file.OwnerID,
	).Scan(&file.ID, &file.UploadedAt, &file.UpdatedAt)

	if err != nil {
		if isPgDuplicateError(err) {
			return fmt.Errorf("file %q: %w", file.Name, domain.ErrConflict)
		}
		if isPgForeignKeyError(err) {
			return fmt.Errorf("folder for file %q: %w", file.Name, domain.ErrNotFound)
		}
		return fmt.Errorf("create file: %w", err)
	}

	return nil
}

func (r *FileRepository) GetByID(ctx context.Context, id int64) (*domain.File, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM files f
		JOIN users u ON u.id = f.owner_id
		WHERE f.id = $1
	`, fileColumns)

	file, err := scanFile(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("file %d: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get file: %w", err)
	}

	return file, nil
}

func (r *FileRepository) GetByNameAndFolder(ctx context.Context, ownerID int64, folderID *int64, name string) (*domain.File, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM files f
		JOIN users u ON u.id = f.owner_id
		WHERE f.owner_id = $1 AND f.name = $2 AND f.folder_id IS NOT DISTINCT FROM $3
	`, fileColumns)

	file, err := scanFile(r.pool.QueryRow(ctx, query, ownerID, name, folderID))
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get file by name: %w", err)
	}

	return file, nil
}

func (r *FileRepository) ListRoot(ctx context.Context, ownerID *int64, opts domain.ListOptions) ([]domain.File, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM files f
		JOIN users u ON u.id = f.owner_id
		WHERE f.folder_id IS NULL AND ($1::bigint IS NULL OR f.owner_id = $1)
		ORDER BY f.uploaded_at DESC
		LIMIT $2 OFFSET $3
	`, fileColumns)

	return r.queryFiles(ctx, query, ownerID, opts.Limit, opts.Offset)
}

func (r *FileRepository) ListByFolder(ctx context.Context, folderID int64) ([]domain.File, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM files f
		JOIN users u ON u.id = f.owner_id
		WHERE f.folder_id = $1
		ORDER BY f.name ASC
	`, fileColumns)

	return r.queryFiles(ctx, query, folderID)
}

// ListKeysUnderFolder walks the folder subtree and returns every storage key,
// so blobs can be removed before the cascading row delete.
func (r *FileRepository) ListKeysUnderFolder(ctx context.Context, folderID int64) ([]string, error) {
	query := `
		WITH RECURSIVE subtree AS (
			SELECT id FROM folders WHERE id = $1
			UNION ALL
			SELECT f.id FROM folders f JOIN subtree s ON f.parent_id = s.id
		)
		SELECT storage_key FROM files WHERE folder_id IN (SELECT id FROM subtree)
	`

	rows, err := r.pool.Query(ctx, query, folderID)
	if err != nil {
		return nil, fmt.Errorf("list storage keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("scan storage key: %w", err)
		}
		keys = append(keys, key)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate storage keys: %w", err)
	}

	return keys, nil
}

func (r *FileRepository) Rename(ctx context.Context, id int64, name string) (*domain.File, error) {
	query := `
		UPDATE files
		SET name = $1, updated_at = now()
		WHERE id = $2
	`

	result, err := r.pool.Exec(ctx, query, name, id)
	if err != nil {
		if isPgDuplicateError(err) {
			return nil, fmt.Errorf("file %q: %w", name, domain.ErrConflict)
		}
		return nil, fmt.Errorf("rename file: %w", err)
	}
	if result.RowsAffected() == 0 {
		return nil, fmt.Errorf("file %d: %w", id, domain.ErrNotFound)
	}

	return r.GetByID(ctx, id)
}

func (r *FileRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM files WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete file: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("file %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (r *FileRepository) SearchByName(ctx context.Context, q string, opts domain.ListOptions) ([]domain.File, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM files f
		JOIN users u ON u.id = f.owner_id
		WHERE f.name ILIKE '%%' || $1 || '%%'
		   OR f.original_filename ILIKE '%%' || $1 || '%%'
		ORDER BY f.name ASC
		LIMIT $2 OFFSET $3
	`, fileColumns)

	return r.queryFiles(ctx, query, q, opts.Limit, opts.Offset)
}

func (r *FileRepository) queryFiles(ctx context.Context, query string, args ...any) ([]domain.File, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query files: %w", err)
	}
	defer rows.Close()

	var files []domain.File
	for rows.Next() {
		file, err := scanFile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan file: %w", err)
		}
		files = append(files, *file)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate files: %w", err)
	}

	return files, nil
}

func scanFile(row pgx.Row) (*domain.File, error) {
	var file domain.File
	err := row.Scan(
		&file.ID,
		&file.Name,
		&file.OriginalFilename,
		&file.StorageKey,
		&file.SizeBytes,
		&file.MimeType,
		&file.FolderID,
		&file.OwnerID,
		&file.OwnerName,
		&file.UploadedAt,
		&file.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &file, nil
}
