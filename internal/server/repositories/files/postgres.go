package files

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/cloudfiles/internal/common"
	"github.com/dmitrijs2005/cloudfiles/internal/dbx"
	"github.com/dmitrijs2005/cloudfiles/internal/server/models"
)

// PostgresRepository implements file metadata storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Insert creates a metadata row. The s3_key column carries a uniqueness
// constraint; a second insert with the same storage key is reported as
// common.ErrorDuplicateKey.
func (r *PostgresRepository) Insert(ctx context.Context, record *models.FileRecord) (*models.FileRecord, error) {
	query := `
		INSERT INTO files (user_id, filename, s3_key, size, uploaded_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query,
		record.OwnerID, record.Filename, record.StorageKey, record.Size, record.UploadedAt).Scan(&record.ID)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrorDuplicateKey
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return record, nil
}

// SelectByOwner returns all metadata rows owned by ownerID, in storage order.
func (r *PostgresRepository) SelectByOwner(ctx context.Context, ownerID string) ([]*models.FileRecord, error) {
	query := `
		SELECT id, user_id, filename, s3_key, size, uploaded_at FROM files
		WHERE user_id = $1
	`
	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to select files: %w", err)
	}
	defer rows.Close()

	var result []*models.FileRecord
	for rows.Next() {
		var item models.FileRecord
		if err := rows.Scan(&item.ID, &item.OwnerID, &item.Filename, &item.StorageKey, &item.Size, &item.UploadedAt); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// GetByStorageKey returns the row for storageKey or common.ErrorNotFound.
func (r *PostgresRepository) GetByStorageKey(ctx context.Context, storageKey string) (*models.FileRecord, error) {
	query := `
		SELECT id, user_id, filename, s3_key, size, uploaded_at FROM files
		WHERE s3_key = $1
	`
	result := &models.FileRecord{}
	err := r.db.QueryRowContext(ctx, query, storageKey).
		Scan(&result.ID, &result.OwnerID, &result.Filename, &result.StorageKey, &result.Size, &result.UploadedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

// DeleteByStorageKey removes the row for storageKey. Deleting an absent key
// is not an error; the object delete preceding this call is what decides
// whether the operation as a whole failed.
func (r *PostgresRepository) DeleteByStorageKey(ctx context.Context, storageKey string) error {
	query := `DELETE FROM files WHERE s3_key = $1`
	if _, err := r.db.ExecContext(ctx, query, storageKey); err != nil {
		return fmt.Errorf("failed to delete file record: %w", err)
	}
	return nil
}
