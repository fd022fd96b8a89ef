package credentials

import (
	"context"

	"github.com/kshrestha1-godaddy/money-manager-sub008/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, c *models.Credential) error
	ListByUser(ctx context.Context, userID string) ([]*models.Credential, error)
}
