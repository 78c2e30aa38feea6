package postgres

import (
	"context"
	"database/sql"

	"filevault/internal/model"
	"filevault/internal/repository"
)

// FilePostgres is a PostgreSQL implementation of repository.FileRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type FilePostgres struct {
	db *sql.DB
}

// NewFilePostgres creates a new FilePostgres repository.
func NewFilePostgres(db *sql.DB) *FilePostgres {
	return &FilePostgres{db: db}
}

var _ repository.FileRepository = (*FilePostgres)(nil)

const fileColumns = `id, user_id, name, type, is_public, parent_id, storage_key, created_at`

// Create inserts a new file node and returns the stored record.
func (r *FilePostgres) Create(ctx context.Context, f *model.FileNode) (*model.FileNode, error) {
	const q = `
		INSERT INTO files (id, user_id, name, type, is_public, parent_id, storage_key, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), $8)
		RETURNING ` + fileColumns
	row := r.db.QueryRowContext(ctx, q,
		f.ID,
		f.UserID,
		f.Name,
		string(f.Type),
		f.IsPublic,
		f.ParentID,
		f.StorageKey,
		f.CreatedAt,
	)
	return scanFile(row)
}

// FindByID fetches a node by id with no owner filter.
func (r *FilePostgres) FindByID(ctx context.Context, id string) (*model.FileNode, error) {
	const q = `SELECT ` + fileColumns + ` FROM files WHERE id = $1`
	return scanFile(r.db.QueryRowContext(ctx, q, id))
}

// FindByIDAndOwner fetches a node only when owned by userID.
func (r *FilePostgres) FindByIDAndOwner(ctx context.Context, id, userID string) (*model.FileNode, error) {
	const q = `SELECT ` + fileColumns + ` FROM files WHERE id = $1 AND user_id = $2`
	return scanFile(r.db.QueryRowContext(ctx, q, id, userID))
}

// ListByParent returns a page of the owner's nodes under the given parent.
// Ordering is by insertion time so pagination stays stable within a snapshot.
func (r *FilePostgres) ListByParent(ctx context.Context, userID, parentID string, pq repository.PageQuery) ([]model.FileNode, error) {
	const q = `
		SELECT ` + fileColumns + `
		FROM files
		WHERE user_id = $1 AND parent_id = $2
		ORDER BY created_at, id
		LIMIT $3 OFFSET $4
	`
	rows, err := r.db.QueryContext(ctx, q, userID, parentID, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.FileNode, 0)
	for rows.Next() {
		f, err := scanFileRow(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// SetVisibility updates is_public with a filter on both id and owner.
func (r *FilePostgres) SetVisibility(ctx context.Context, id, userID string, isPublic bool) error {
	const q = `UPDATE files SET is_public = $1 WHERE id = $2 AND user_id = $3`
	res, err := r.db.ExecContext(ctx, q, isPublic, id, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Count returns the total number of file nodes.
func (r *FilePostgres) Count(ctx context.Context) (int, error) {
	const q = `SELECT COUNT(*) FROM files`
	var n int
	if err := r.db.QueryRowContext(ctx, q).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFile(row *sql.Row) (*model.FileNode, error) {
	return scanFileRow(row)
}

func scanFileRow(s rowScanner) (*model.FileNode, error) {
	var (
		f   model.FileNode
		typ string
		key sql.NullString
	)
	if err := s.Scan(&f.ID, &f.UserID, &f.Name, &typ, &f.IsPublic, &f.ParentID, &key, &f.CreatedAt); err != nil {
		return nil, err
	}
	f.Type = model.FileType(typ)
	f.StorageKey = key.String
	return &f, nil
}
