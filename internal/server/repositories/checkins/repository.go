package checkins

import (
	"context"
	"time"

	"github.com/kshrestha1-godaddy/money-manager-sub008/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, c *models.CheckIn) error
	LastCheckIn(ctx context.Context, userID string) (*time.Time, error)
	ListInactive(ctx context.Context, before time.Time) ([]*models.InactiveUser, error)
}
