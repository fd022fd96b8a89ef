package contacts

import (
	"context"

	"github.com/kshrestha1-godaddy/money-manager-sub008/internal/server/models"
)

type Repository interface {
	List(ctx context.Context, userID string) ([]*models.EmergencyContact, error)
	ListActive(ctx context.Context, userID string) ([]*models.EmergencyContact, error)
	ActiveExists(ctx context.Context, userID, email string) (bool, error)
	Create(ctx context.Context, c *models.EmergencyContact) error
	Update(ctx context.Context, userID, id string, patch *models.ContactPatch) error
	Deactivate(ctx context.Context, userID, id string) error
	Delete(ctx context.Context, userID, id string) error
}
