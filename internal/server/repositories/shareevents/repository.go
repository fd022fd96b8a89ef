package shareevents

import (
	"context"
	"time"

	"github.com/kshrestha1-godaddy/money-manager-sub008/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, e *models.ShareEvent) error
	ExistsRecent(ctx context.Context, userID string, reason models.ShareReason, since time.Time) (bool, error)
	LockUser(ctx context.Context, userID string) (bool, error)
}
