package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"dataroom/internal/domain"
)

// folderColumns joins the owning user for owner_name on every read.
const folderColumns = `
	f.id, f.name, f.parent_id, f.owner_id, u.name, f.created_at, f.updated_at
`

// FolderRepository implements domain.FolderRepository on Postgres.
type FolderRepository struct {
	pool *pgxpool.Pool
}

var _ domain.FolderRepository = (*FolderRepository)(nil)

func NewFolderRepository(config *RepositoryConfig) *FolderRepository {
	return &FolderRepository{pool: config.Pool}
}

func (r *FolderRepository) Create(ctx context.Context, folder *domain.Folder) error {
	query := `
		INSERT INTO folders (name, parent_id, owner_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		folder.Name,
		folder.ParentID,
		folder.OwnerID,
	).Scan(&folder.ID, &folder.CreatedAt, &folder.UpdatedAt)

	if err != nil {
		if isPgDuplicateError(err) {
			return fmt.Errorf("folder %q: %w", folder.Name, domain.ErrConflict)
		}
		return fmt.Errorf("create folder: %w", err)
	}

	return nil
}

func (r *FolderRepository) GetByID(ctx context.Context, id int64) (*domain.Folder, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM folders f
		JOIN users u ON u.id = f.owner_id
		WHERE f.id = $1
	`, folderColumns)

	folder, err := scanFolder(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("folder %d: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get folder: %w", err)
	}

	return folder, nil
}

func (r *FolderRepository) GetByNameAndParent(ctx context.Context, ownerID int64, parentID *int64, name string) (*domain.Folder, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM folders f
		JOIN users u ON u.id = f.owner_id
		WHERE f.owner_id = $1 AND f.name = $2 AND f.parent_id IS NOT DISTINCT FROM $3
	`, folderColumns)

	folder, err := scanFolder(r.pool.QueryRow(ctx, query, ownerID, name, parentID))
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get folder by name: %w", err)
	}

	return folder, nil
}

func (r *FolderRepository) ListRoot(ctx context.Context, ownerID *int64, opts domain.ListOptions) ([]domain.Folder, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM folders f
		JOIN users u ON u.id = f.owner_id
		WHERE f.parent_id IS NULL AND ($1::bigint IS NULL OR f.owner_id = $1)
		ORDER BY f.created_at DESC
		LIMIT $2 OFFSET $3
	`, folderColumns)

	return r.queryFolders(ctx, query, ownerID, opts.Limit, opts.Offset)
}

func (r *FolderRepository) ListChildren(ctx context.Context, parentID int64) ([]domain.Folder, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM folders f
		JOIN users u ON u.id = f.owner_id
		WHERE f.parent_id = $1
		ORDER BY f.name ASC
	`, folderColumns)

	return r.queryFolders(ctx, query, parentID)
}

// Ancestors returns the chain from root to the folder itself in one query,
// replacing per-hop parent lookups with a recursive CTE.
func (r *FolderRepository) Ancestors(ctx context.Context, id int64) ([]domain.Folder, error) {
	query := fmt.Sprintf(`
		WITH RECURSIVE chain AS (
			SELECT f.*, 0 AS depth
			FROM folders f
			WHERE f.id = $1
			UNION ALL
			SELECT f.*, chain.depth + 1
			FROM folders f
			JOIN chain ON f.id = chain.parent_id
		)
		SELECT %s
		FROM chain f
		JOIN users u ON u.id = f.owner_id
		ORDER BY f.depth DESC
	`, folderColumns)

	folders, err := r.queryFolders(ctx, query, id)
	if err != nil {
		return nil, err
	}
	if len(folders) == 0 {
		return nil, fmt.Errorf("folder %d: %w", id, domain.ErrNotFound)
	}

	return folders, nil
}

func (r *FolderRepository) Rename(ctx context.Context, id int64, name string) (*domain.Folder, error) {
	query := `
		UPDATE folders
		SET name = $1, updated_at = now()
		WHERE id = $2
	`

	result, err := r.pool.Exec(ctx, query, name, id)
	if err != nil {
		if isPgDuplicateError(err) {
			return nil, fmt.Errorf("folder %q: %w", name, domain.ErrConflict)
		}
		return nil, fmt.Errorf("rename folder: %w", err)
	}
	if result.RowsAffected() == 0 {
		return nil, fmt.Errorf("folder %d: %w", id, domain.ErrNotFound)
	}

	return r.GetByID(ctx, id)
}

func (r *FolderRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM folders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete folder: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("folder %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (r *FolderRepository) SearchByName(ctx context.Context, q string, opts domain.ListOptions) ([]domain.Folder, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM folders f
		JOIN users u ON u.id = f.owner_id
		WHERE f.name ILIKE '%%' || $1 || '%%'
		ORDER BY f.name ASC
		LIMIT $2 OFFSET $3
	`, folderColumns)

	return r.queryFolders(ctx, query, q, opts.Limit, opts.Offset)
}

func (r *FolderRepository) queryFolders(ctx context.Context, query string, args ...any) ([]domain.Folder, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query folders: %w", err)
	}
	defer rows.Close()

	var folders []domain.Folder
	for rows.Next() {
		folder, err := scanFolder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan folder: %w", err)
		}
		folders = append(folders, *folder)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate folders: %w", err)
	}

	return folders, nil
}

func scanFolder(row pgx.Row) (*domain.Folder, error) {
	var folder domain.Folder
	err := row.Scan(
		&folder.ID,
		&folder.Name,
		&folder.ParentID,
		&folder.OwnerID,
		&folder.OwnerName,
		&folder.CreatedAt,
		&folder.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &folder, nil
}
