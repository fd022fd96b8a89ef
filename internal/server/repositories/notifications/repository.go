package notifications

import (
	"context"
	"time"

	"github.com/kshrestha1-godaddy/money-manager-sub008/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, n *models.Notification) error
	ExistsRecentByEntity(ctx context.Context, userID string, typ models.NotificationType, entityID string, since time.Time) (bool, error)
	ExistsRecentByContent(ctx context.Context, userID string, typ models.NotificationType, title, message string, since time.Time) (bool, error)
	GetSettings(ctx context.Context, userID string) (*models.NotificationSettings, error)
	EnsureSettings(ctx context.Context, userID string) error
}
