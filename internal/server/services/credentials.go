package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kshrestha1-godaddy/money-manager-sub008/internal/common"
	"github.com/kshrestha1-godaddy/money-manager-sub008/internal/cryptox"
	"github.com/kshrestha1-godaddy/money-manager-sub008/internal/server/models"
	"github.com/kshrestha1-godaddy/money-manager-sub008/internal/server/repositories/repomanager"
)

// CredentialInput is the plaintext payload of a credential write. The
// secret and PIN are encrypted at this edge; only ciphertext reaches the
// repository.
type CredentialInput struct {
	WebsiteName string
	Description string
	Username    string
	Secret      string
	Pin         string
	Notes       string
	Category    string
	ValidUntil  *time.Time
}

// CredentialService stores credentials encrypted under a key derived from
// the caller-supplied secret key and the user's salt. The key is never
// persisted; listing returns metadata only.
type CredentialService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	now         func() time.Time
}

// NewCredentialService constructs a CredentialService.
func NewCredentialService(db *sql.DB, m repomanager.RepositoryManager) *CredentialService {
	return &CredentialService{db: db, repomanager: m, now: time.Now}
}

// Add encrypts and persists one credential for the user.
func (s *CredentialService) Add(ctx context.Context, userID, secretKey string, in *CredentialInput) (*models.Credential, error) {
	if secretKey == "" {
		return nil, fmt.Errorf("%w: secret key is required", common.ErrorValidation)
	}
	if in.WebsiteName == "" || in.Username == "" || in.Secret == "" {
		return nil, fmt.Errorf("%w: website name, username and secret are required", common.ErrorValidation)
	}

	user, err := s.repomanager.Users(s.db).Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error loading user: %w", err)
	}

	now := s.now().UTC()
	c := &models.Credential{
		ID:          uuid.NewString(),
		UserID:      userID,
		WebsiteName: in.WebsiteName,
		Description: in.Description,
		Username:    in.Username,
		Notes:       in.Notes,
		Category:    in.Category,
		ValidUntil:  in.ValidUntil,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	key := cryptox.DeriveKey([]byte(secretKey), user.Salt)
	if err := cryptox.EncryptCredential(c, in.Secret, in.Pin, key); err != nil {
		return nil, fmt.Errorf("error encrypting credential: %w", err)
	}

	if err := s.repomanager.Credentials(s.db).Create(ctx, c); err != nil {
		return nil, fmt.Errorf("error creating credential: %w", err)
	}
	return c, nil
}

// List returns the user's credentials. Ciphertext fields are present but
// opaque; callers surface metadata only.
func (s *CredentialService) List(ctx context.Context, userID string) ([]*models.Credential, error) {
	return s.repomanager.Credentials(s.db).ListByUser(ctx, userID)
}
