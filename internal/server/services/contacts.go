package services

import (
	"context"
	"database/sql"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kshrestha1-godaddy/money-manager-sub008/internal/common"
	"github.com/kshrestha1-godaddy/money-manager-sub008/internal/server/models"
	"github.com/kshrestha1-godaddy/money-manager-sub008/internal/server/repositories/repomanager"
)

// ContactService is the emergency-contact registry. All operations are
// scoped to the acting user; touching another user's contact reports
// common.ErrorNotFound, indistinguishable from a missing row.
type ContactService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	now         func() time.Time
}

// NewContactService constructs a ContactService.
func NewContactService(db *sql.DB, m repomanager.RepositoryManager) *ContactService {
	return &ContactService{db: db, repomanager: m, now: time.Now}
}

// List returns all contacts of the user, active or not.
func (s *ContactService) List(ctx context.Context, userID string) ([]*models.EmergencyContact, error) {
	repo := s.repomanager.Contacts(s.db)
	return repo.List(ctx, userID)
}

// ListActive returns the contacts eligible to receive a disclosure.
func (s *ContactService) ListActive(ctx context.Context, userID string) ([]*models.EmergencyContact, error) {
	repo := s.repomanager.Contacts(s.db)
	return repo.ListActive(ctx, userID)
}

// Add validates the email format and creates an active contact. A second
// active contact with the same email (case-insensitive) is rejected with
// common.ErrDuplicateContact.
func (s *ContactService) Add(ctx context.Context, userID, email, label string) (*models.EmergencyContact, error) {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}

	repo := s.repomanager.Contacts(s.db)
	exists, err := repo.ActiveExists(ctx, userID, normalized)
	if err != nil {
		return nil, fmt.Errorf("error checking contact: %w", err)
	}
	if exists {
		return nil, common.ErrDuplicateContact
	}

	now := s.now().UTC()
	c := &models.EmergencyContact{
		ID:        uuid.NewString(),
		UserID:    userID,
		Email:     normalized,
		Label:     label,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := repo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("error creating contact: %w", err)
	}
	return c, nil
}

// Update applies a partial update to a contact the user owns. A changed
// email is validated and checked against the active-duplicate rule.
func (s *ContactService) Update(ctx context.Context, userID, id string, patch *models.ContactPatch) error {
	repo := s.repomanager.Contacts(s.db)

	if patch.Email != nil {
		normalized, err := normalizeEmail(*patch.Email)
		if err != nil {
			return err
		}
		exists, err := repo.ActiveExists(ctx, userID, normalized)
		if err != nil {
			return fmt.Errorf("error checking contact: %w", err)
		}
		if exists {
			return common.ErrDuplicateContact
		}
		patch.Email = &normalized
	}

	return repo.Update(ctx, userID, id, patch)
}

// Deactivate soft-deletes a contact: the row stays for audit but the
// contact no longer receives disclosures or blocks re-adding the email.
func (s *ContactService) Deactivate(ctx context.Context, userID, id string) error {
	repo := s.repomanager.Contacts(s.db)
	return repo.Deactivate(ctx, userID, id)
}

// Remove hard-deletes a contact row.
func (s *ContactService) Remove(ctx context.Context, userID, id string) error {
	repo := s.repomanager.Contacts(s.db)
	return repo.Delete(ctx, userID, id)
}

// normalizeEmail validates the address and returns its lowercased bare form.
func normalizeEmail(email string) (string, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(email))
	if err != nil {
		return "", common.ErrInvalidEmail
	}
	return strings.ToLower(addr.Address), nil
}
