package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kshrestha1-godaddy/money-manager-sub008/internal/dbx"
	"github.com/kshrestha1-godaddy/money-manager-sub008/internal/logging"
	"github.com/kshrestha1-godaddy/money-manager-sub008/internal/server/mail"
	"github.com/kshrestha1-godaddy/money-manager-sub008/internal/server/models"
	"github.com/kshrestha1-godaddy/money-manager-sub008/internal/server/repositories/repomanager"
)

// SweepSummary is the structured result of one sweep run. Per-user errors
// are data, not transport failures: a sweep that ran to completion reports
// success even when some users failed.
type SweepSummary struct {
	ProcessedUsers   int      `json:"processed_users"`
	SuccessfulShares int      `json:"successful_shares,omitempty"`
	EmailsSent       int      `json:"emails_sent,omitempty"`
	Errors           []string `json:"errors,omitempty"`
}

// SweepService hosts the externally triggered batch entry points. There is
// no internal timer: each run is a pure pass over (current time, persisted
// state), invoked by the cron trigger, and re-reads all state every time.
type SweepService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	activity    *ActivityService
	notify      *NotificationService
	mailer      mail.Mailer
	logger      logging.Logger
	cooldown    time.Duration
	mailTimeout time.Duration
	now         func() time.Time
}

// NewSweepService constructs a SweepService. cooldownDays gates repeat
// INACTIVITY processing of the same user.
func NewSweepService(db *sql.DB, m repomanager.RepositoryManager, activity *ActivityService, notify *NotificationService, mailer mail.Mailer, logger logging.Logger, cooldownDays int, mailTimeout time.Duration) *SweepService {
	return &SweepService{
		db:          db,
		repomanager: m,
		activity:    activity,
		notify:      notify,
		mailer:      mailer,
		logger:      logger,
		cooldown:    time.Duration(cooldownDays) * 24 * time.Hour,
		mailTimeout: mailTimeout,
		now:         time.Now,
	}
}

// RunDisclosureSweep processes every user past the disclosure threshold.
//
// No secret key is ever custodied server-side, so automatic decryption is
// impossible by construction: for each eligible user the sweep degrades to
// a warning (notification + email) telling them their window is closing.
// The 7-day INACTIVITY cooldown and the advisory per-user lock make reruns
// and concurrent runs idempotent. One user's failure never stops the sweep.
func (s *SweepService) RunDisclosureSweep(ctx context.Context, thresholdDays int) (*SweepSummary, error) {
	inactive, err := s.activity.ListInactiveUsers(ctx, thresholdDays)
	if err != nil {
		return nil, fmt.Errorf("error listing inactive users: %w", err)
	}

	summary := &SweepSummary{}
	for _, u := range inactive {
		summary.ProcessedUsers++
		if err := s.isolate(ctx, u.UserID, func() error {
			return s.warnUser(ctx, u, thresholdDays)
		}); err != nil {
			summary.Errors = append(summary.Errors, fmt.Sprintf("user %s: %v", u.UserID, err))
		}
	}

	s.logger.Info(ctx, "disclosure sweep finished",
		"processed", summary.ProcessedUsers, "shares", summary.SuccessfulShares, "errors", len(summary.Errors))
	return summary, nil
}

// RunReminderSweep sends the softer "you've been inactive N days" email to
// users past the reminder threshold, honoring the per-user reminder toggle
// and the 7-day dedup window.
func (s *SweepService) RunReminderSweep(ctx context.Context, thresholdDays int) (*SweepSummary, error) {
	inactive, err := s.activity.ListInactiveUsers(ctx, thresholdDays)
	if err != nil {
		return nil, fmt.Errorf("error listing inactive users: %w", err)
	}

	summary := &SweepSummary{}
	for _, u := range inactive {
		summary.ProcessedUsers++
		if err := s.isolate(ctx, u.UserID, func() error {
			sent, err := s.remindUser(ctx, u, thresholdDays)
			if sent {
				summary.EmailsSent++
			}
			return err
		}); err != nil {
			summary.Errors = append(summary.Errors, fmt.Sprintf("user %s: %v", u.UserID, err))
		}
	}

	s.logger.Info(ctx, "reminder sweep finished",
		"processed", summary.ProcessedUsers, "emails", summary.EmailsSent, "errors", len(summary.Errors))
	return summary, nil
}

// warnUser runs the degrade-to-warning path for one user. The cooldown
// check and the warning notification are created inside one transaction
// holding the per-user advisory lock, so two concurrent sweeps cannot both
// pass the check.
func (s *SweepService) warnUser(ctx context.Context, u *models.InactiveUser, thresholdDays int) error {
	settings, err := s.notify.Settings(ctx, u.UserID)
	if err != nil {
		return fmt.Errorf("error loading settings: %w", err)
	}

	days := s.daysInactive(u, thresholdDays)
	sendEmail := false

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		events := s.repomanager.ShareEvents(tx)

		locked, err := events.LockUser(ctx, u.UserID)
		if err != nil {
			return err
		}
		if !locked {
			// Another sweep run holds this user; skip silently.
			return nil
		}

		recent, err := events.ExistsRecent(ctx, u.UserID, models.ReasonInactivity, s.now().Add(-s.cooldown))
		if err != nil {
			return err
		}
		if recent {
			return nil
		}

		if !settings.ShareWarnings {
			return nil
		}

		notifRepo := s.repomanager.Notifications(tx)
		since := s.now().Add(-ReminderDedupWindow)
		exists, err := notifRepo.ExistsRecentByEntity(ctx, u.UserID, models.TypePasswordShareWarning, "inactivity-warning", since)
		if err != nil {
			return err
		}
		if exists {
			return nil
		}

		n := &models.Notification{
			UserID:   u.UserID,
			Type:     models.TypePasswordShareWarning,
			Title:    "Emergency disclosure warning",
			Message:  fmt.Sprintf("You have been inactive for %d days. Check in now or your emergency contacts will be notified.", days),
			Priority: models.PriorityHigh,
			EntityID: "inactivity-warning",
			Metadata: models.NotificationMeta{
				Inactivity: &models.InactivityMeta{DaysInactive: days, LastCheckIn: u.LastCheckIn},
			},
		}
		fillNotificationDefaults(n, s.now().UTC())
		if err := notifRepo.Create(ctx, n); err != nil {
			return err
		}

		sendEmail = true
		return nil
	})
	if err != nil {
		return err
	}

	if sendEmail {
		subject, htmlBody, textBody := mail.WarningEmail(u.Name, days, thresholdDays)
		if err := s.send(ctx, u.Email, subject, htmlBody, textBody); err != nil {
			// The warning notification is recorded; the email is best effort.
			s.logger.Error(ctx, "warning email failed", "user_id", u.UserID, "error", err)
		}
	}
	return nil
}

// remindUser sends one inactivity reminder, deduplicated on the 7-day
// window. The returned bool reports whether an email went out.
func (s *SweepService) remindUser(ctx context.Context, u *models.InactiveUser, thresholdDays int) (bool, error) {
	settings, err := s.notify.Settings(ctx, u.UserID)
	if err != nil {
		return false, fmt.Errorf("error loading settings: %w", err)
	}
	if !settings.InactivityReminders {
		return false, nil
	}

	days := s.daysInactive(u, thresholdDays)
	n := &models.Notification{
		UserID:   u.UserID,
		Type:     models.TypeInactivityReminder,
		Title:    "Inactivity reminder",
		Message:  fmt.Sprintf("It has been %d days since your last check-in.", days),
		Priority: models.PriorityMedium,
		EntityID: "inactivity-reminder",
		Metadata: models.NotificationMeta{
			Inactivity: &models.InactivityMeta{DaysInactive: days, LastCheckIn: u.LastCheckIn},
		},
	}

	create, err := s.notify.ShouldCreate(ctx, n, ReminderDedupWindow)
	if err != nil {
		return false, err
	}
	if !create {
		return false, nil
	}

	subject, htmlBody, textBody := mail.ReminderEmail(u.Name, days)
	if err := s.send(ctx, u.Email, subject, htmlBody, textBody); err != nil {
		return false, fmt.Errorf("reminder email failed: %w", err)
	}

	// Recorded only after a successful send so the next run retries a
	// failed delivery instead of suppressing it.
	s.notify.CreateDeduped(ctx, n, ReminderDedupWindow)
	return true, nil
}

// isolate runs fn inside a panic boundary so one user's failure cannot
// abort the sweep.
func (s *SweepService) isolate(ctx context.Context, userID string, fn func() error) (err error) {
	defer func() {
		if p := recover(); p != nil {
			s.logger.Error(ctx, "sweep panic recovered", "user_id", userID, "panic", p)
			err = fmt.Errorf("panic: %v", p)
		}
	}()
	return fn()
}

func (s *SweepService) daysInactive(u *models.InactiveUser, thresholdDays int) int {
	if u.LastCheckIn == nil {
		return thresholdDays
	}
	return int(s.now().Sub(*u.LastCheckIn).Hours() / 24)
}

func (s *SweepService) send(ctx context.Context, to, subject, htmlBody, textBody string) error {
	sendCtx := ctx
	if s.mailTimeout > 0 {
		var cancel context.CancelFunc
		sendCtx, cancel = context.WithTimeout(ctx, s.mailTimeout)
		defer cancel()
	}
	return s.mailer.Send(sendCtx, to, subject, htmlBody, textBody)
}

func fillNotificationDefaults(n *models.Notification, now time.Time) {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.Priority == "" {
		n.Priority = models.PriorityMedium
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = now
	}
}
