package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/cloudfiles/internal/common"
	"github.com/dmitrijs2005/cloudfiles/internal/server/config"
	"github.com/dmitrijs2005/cloudfiles/internal/server/models"
	"github.com/dmitrijs2005/cloudfiles/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/cloudfiles/internal/server/storage"
)

// uploadedAtLayout is the wire format of FileRecord.UploadedAt.
const uploadedAtLayout = "02 Jan 2006 15:04"

// now is a seam for tests.
var now = time.Now

// FileService orchestrates every file operation: it resolves the storage key,
// talks to the object store first, and writes metadata second.
//
// The object store and the metadata table are not transactionally coupled.
// Two partial-failure windows exist and are left unreconciled:
//   - Upload: object written, metadata insert fails -> orphaned object.
//   - Delete: object deleted, metadata delete fails -> orphaned row.
//
// The reverse windows cannot occur: a failed object write aborts the upload
// before any metadata is touched, and a failed object delete leaves the row
// intact.
type FileService struct {
	db            *sql.DB
	repomanager   repomanager.RepositoryManager
	store         storage.ObjectStore
	presignExpiry time.Duration
}

// NewFileService constructs a FileService. The object store client is built
// once at startup and passed in; the service holds no hidden globals.
func NewFileService(db *sql.DB, m repomanager.RepositoryManager, store storage.ObjectStore, cfg *config.Config) *FileService {
	return &FileService{
		db:            db,
		repomanager:   m,
		store:         store,
		presignExpiry: cfg.PresignExpiry,
	}
}

// StorageKey derives the object key for a file owned by ownerID. Two uploads
// sharing owner and filename collide here; the metadata uniqueness constraint
// turns the second one into ErrorDuplicateKey.
func StorageKey(ownerID, filename string) string {
	return fmt.Sprintf("user_%s/%s", ownerID, filename)
}

// Upload stores content under the derived storage key and records the
// metadata row. Zero-length content is permitted.
//
// If the object write fails, no metadata is created. If the metadata insert
// fails after a successful write, the object stays behind as an orphan; in
// the duplicate-key case it has also already overwritten the previous
// object's bytes (last writer wins at the object layer, first writer wins at
// the metadata layer).
func (s *FileService) Upload(ctx context.Context, ownerID, filename string, content []byte) (*models.FileRecord, error) {
	if filename == "" {
		return nil, common.ErrorValidation
	}

	storageKey := StorageKey(ownerID, filename)

	if err := s.store.Put(ctx, storageKey, content); err != nil {
		return nil, err
	}

	record := &models.FileRecord{
		OwnerID:    ownerID,
		Filename:   filename,
		StorageKey: storageKey,
		Size:       int64(len(content)),
		UploadedAt: now().Format(uploadedAtLayout),
	}

	repo := s.repomanager.Files(s.db)
	created, err := repo.Insert(ctx, record)
	if err != nil {
		return nil, err
	}
	return created, nil
}

// List returns a snapshot of all records owned by ownerID, in storage order.
func (s *FileService) List(ctx context.Context, ownerID string) ([]*models.FileRecord, error) {
	repo := s.repomanager.Files(s.db)
	records, err := repo.SelectByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("error listing files: %w", err)
	}
	return records, nil
}

// Download returns a presigned GET URL for storageKey.
//
// Ownership of the key is not checked: any authenticated caller can request
// a URL for any key. Neither is the object's existence; validity is deferred
// to the eventual GET against the returned URL.
func (s *FileService) Download(ctx context.Context, storageKey string) (string, error) {
	if storageKey == "" {
		return "", common.ErrorValidation
	}
	return s.store.PresignGet(ctx, storageKey, s.presignExpiry)
}

// Delete removes the object first and the metadata row second. A failed
// object delete leaves the row intact so the pairing still holds; ownership
// of the key is not checked, same as Download.
func (s *FileService) Delete(ctx context.Context, storageKey string) error {
	if storageKey == "" {
		return common.ErrorValidation
	}

	if err := s.store.Delete(ctx, storageKey); err != nil {
		return err
	}

	repo := s.repomanager.Files(s.db)
	if err := repo.DeleteByStorageKey(ctx, storageKey); err != nil {
		return fmt.Errorf("error deleting file record: %w", err)
	}
	return nil
}
