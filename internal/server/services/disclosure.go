package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kshrestha1-godaddy/money-manager-sub008/internal/common"
	"github.com/kshrestha1-godaddy/money-manager-sub008/internal/cryptox"
	"github.com/kshrestha1-godaddy/money-manager-sub008/internal/logging"
	"github.com/kshrestha1-godaddy/money-manager-sub008/internal/server/mail"
	"github.com/kshrestha1-godaddy/money-manager-sub008/internal/server/models"
	"github.com/kshrestha1-godaddy/money-manager-sub008/internal/server/repositories/repomanager"
	"golang.org/x/sync/errgroup"
)

// maxConcurrentSends bounds the per-disclosure recipient fan-out.
const maxConcurrentSends = 4

// ShareRequest describes one disclosure. SecretKey is required and lives
// only for the duration of the call. Recipients overrides the active
// emergency-contact list when non-empty (manual shares only).
type ShareRequest struct {
	UserID     string
	SecretKey  string
	Reason     models.ShareReason
	Recipients []string
}

// ShareResult reports the outcome. Success means at least one recipient
// received the disclosure; a batch with some failed recipients is still a
// success, distinct from total failure.
type ShareResult struct {
	Success      bool
	SharedCount  int
	FailedEmails []string
	FailedItems  []string
}

// DisclosureService is the disclosure orchestrator: it gathers credentials
// and recipients, decrypts with the caller-supplied key, fans out delivery
// with per-recipient failure isolation, records the audit trail, and emits
// the deduplicated receipt notification.
type DisclosureService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	notify      *NotificationService
	mailer      mail.Mailer
	logger      logging.Logger
	mailTimeout time.Duration
	now         func() time.Time
}

// NewDisclosureService constructs a DisclosureService.
func NewDisclosureService(db *sql.DB, m repomanager.RepositoryManager, notify *NotificationService, mailer mail.Mailer, logger logging.Logger, mailTimeout time.Duration) *DisclosureService {
	return &DisclosureService{
		db:          db,
		repomanager: m,
		notify:      notify,
		mailer:      mailer,
		logger:      logger,
		mailTimeout: mailTimeout,
		now:         time.Now,
	}
}

// Share runs one disclosure end to end.
//
// Precondition failures (no credentials, no recipients, nothing decryptable)
// are returned verbatim. Per-credential decryption failures and per-recipient
// send failures are isolated and reported in the result, never aborting the
// rest of the batch.
func (s *DisclosureService) Share(ctx context.Context, req *ShareRequest) (*ShareResult, error) {
	if req.SecretKey == "" {
		return nil, fmt.Errorf("%w: secret key is required", common.ErrorValidation)
	}
	if !req.Reason.Valid() {
		return nil, fmt.Errorf("%w: unknown share reason %q", common.ErrorValidation, req.Reason)
	}

	user, err := s.repomanager.Users(s.db).Get(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("error loading user: %w", err)
	}

	creds, err := s.repomanager.Credentials(s.db).ListByUser(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("error loading credentials: %w", err)
	}
	if len(creds) == 0 {
		return nil, common.ErrNoCredentials
	}

	recipients := req.Recipients
	if len(recipients) == 0 {
		contacts, err := s.repomanager.Contacts(s.db).ListActive(ctx, req.UserID)
		if err != nil {
			return nil, fmt.Errorf("error loading contacts: %w", err)
		}
		for _, c := range contacts {
			recipients = append(recipients, c.Email)
		}
	}
	if len(recipients) == 0 {
		return nil, common.ErrNoRecipients
	}

	key := cryptox.DeriveKey([]byte(req.SecretKey), user.Salt)

	var decrypted []*models.PlainCredential
	var failedItems []string
	for _, c := range creds {
		plain, err := cryptox.DecryptCredential(c, key)
		if err != nil {
			failedItems = append(failedItems, c.ID)
			continue
		}
		if plain.PinMissing {
			s.logger.Warn(ctx, "credential PIN not decryptable, disclosed without PIN",
				"user_id", req.UserID, "credential_id", c.ID)
		}
		decrypted = append(decrypted, plain)
	}
	if len(decrypted) == 0 {
		return &ShareResult{FailedItems: failedItems}, common.ErrNoDecryptableCredentials
	}

	var lastCheckIn *time.Time
	if req.Reason == models.ReasonInactivity {
		lastCheckIn, err = s.repomanager.CheckIns(s.db).LastCheckIn(ctx, req.UserID)
		if err != nil {
			return nil, fmt.Errorf("error loading last check-in: %w", err)
		}
	}

	subject, htmlBody, textBody := mail.DisclosureEmail(user.Name, req.Reason, lastCheckIn, decrypted)

	result := &ShareResult{FailedItems: failedItems}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentSends)
	for _, recipient := range recipients {
		g.Go(func() error {
			if err := s.sendToRecipient(gctx, recipient, subject, htmlBody, textBody); err != nil {
				s.logger.Error(ctx, "disclosure send failed", "user_id", req.UserID, "recipient", recipient, "error", err)
				mu.Lock()
				result.FailedEmails = append(result.FailedEmails, recipient)
				mu.Unlock()
				return nil
			}

			event := &models.ShareEvent{
				ID:             uuid.NewString(),
				UserID:         req.UserID,
				RecipientEmail: recipient,
				PasswordCount:  len(decrypted),
				ShareReason:    req.Reason,
				SentAt:         s.now().UTC(),
			}
			if err := s.repomanager.ShareEvents(s.db).Create(ctx, event); err != nil {
				// The recipient has the mail; the delivery counts even if
				// the audit write failed.
				s.logger.Error(ctx, "share event write failed", "user_id", req.UserID, "recipient", recipient, "error", err)
			}

			mu.Lock()
			result.SharedCount++
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	result.Success = result.SharedCount > 0
	if result.Success {
		s.notify.CreateDeduped(ctx, &models.Notification{
			UserID:   req.UserID,
			Type:     models.TypePasswordShared,
			Title:    "Passwords Shared",
			Message:  fmt.Sprintf("%d credential(s) were shared with %d recipient(s).", len(decrypted), result.SharedCount),
			Priority: models.PriorityHigh,
			EntityID: string(req.Reason),
			Metadata: models.NotificationMeta{
				Disclosure: &models.DisclosureMeta{
					RecipientCount: result.SharedCount,
					ShareReason:    req.Reason,
				},
			},
		}, ReminderDedupWindow)
	}

	return result, nil
}

// CooldownActive reports whether the user already has a share event with
// this reason inside the window.
func (s *DisclosureService) CooldownActive(ctx context.Context, userID string, reason models.ShareReason, window time.Duration) (bool, error) {
	return s.repomanager.ShareEvents(s.db).ExistsRecent(ctx, userID, reason, s.now().Add(-window))
}

// sendToRecipient bounds one delivery by the configured mail timeout. A
// deadline hit is an ordinary recipient failure; nothing here retries.
func (s *DisclosureService) sendToRecipient(ctx context.Context, to, subject, htmlBody, textBody string) error {
	sendCtx := ctx
	if s.mailTimeout > 0 {
		var cancel context.CancelFunc
		sendCtx, cancel = context.WithTimeout(ctx, s.mailTimeout)
		defer cancel()
	}
	if err := s.mailer.Send(sendCtx, to, subject, htmlBody, textBody); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("send timed out after %s: %w", s.mailTimeout, err)
		}
		return err
	}
	return nil
}
