package files

import (
	"context"

	"github.com/dmitrijs2005/cloudfiles/internal/server/models"
)

type Repository interface {
	Insert(ctx context.Context, record *models.FileRecord) (*models.FileRecord, error)
	SelectByOwner(ctx context.Context, ownerID string) ([]*models.FileRecord, error)
	GetByStorageKey(ctx context.Context, storageKey string) (*models.FileRecord, error)
	DeleteByStorageKey(ctx context.Context, storageKey string) error
}
