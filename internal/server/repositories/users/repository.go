package users

import (
	"context"

	"github.com/kshrestha1-godaddy/money-manager-sub008/internal/server/models"
)

type Repository interface {
	Get(ctx context.Context, id string) (*models.User, error)
}
