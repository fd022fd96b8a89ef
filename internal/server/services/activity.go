// Package services contains the server-side business logic: activity
// tracking, the emergency-contact registry, credential handling, the
// notification deduplicator, the disclosure orchestrator, and the
// inactivity sweeps.
package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kshrestha1-godaddy/money-manager-sub008/internal/server/models"
	"github.com/kshrestha1-godaddy/money-manager-sub008/internal/server/repositories/repomanager"
)

// ActivityService records explicit check-ins and answers inactivity queries.
// It never triggers notifications itself; all activity transitions are
// discovered by the sweeps polling these queries.
type ActivityService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	now         func() time.Time
}

// NewActivityService constructs an ActivityService.
func NewActivityService(db *sql.DB, m repomanager.RepositoryManager) *ActivityService {
	return &ActivityService{db: db, repomanager: m, now: time.Now}
}

// RecordCheckIn appends a check-in row stamped with the current time.
// The only side effect is the persistence write.
func (s *ActivityService) RecordCheckIn(ctx context.Context, userID, ipAddress, userAgent string) (*models.CheckIn, error) {
	c := &models.CheckIn{
		ID:        uuid.NewString(),
		UserID:    userID,
		CheckinAt: s.now().UTC(),
		IPAddress: ipAddress,
		UserAgent: userAgent,
	}
	repo := s.repomanager.CheckIns(s.db)
	if err := repo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("error recording check-in: %w", err)
	}
	return c, nil
}

// LastCheckIn returns the user's newest check-in time, or nil if the user
// has never checked in.
func (s *ActivityService) LastCheckIn(ctx context.Context, userID string) (*time.Time, error) {
	repo := s.repomanager.CheckIns(s.db)
	return repo.LastCheckIn(ctx, userID)
}

// InactiveFor reports whether the user has been inactive for more than the
// given number of days. A user with no check-ins is inactive for every
// days >= 0: activity that cannot be proven is never assumed.
func (s *ActivityService) InactiveFor(ctx context.Context, userID string, days int) (bool, error) {
	last, err := s.LastCheckIn(ctx, userID)
	if err != nil {
		return false, err
	}
	if last == nil {
		return true, nil
	}
	return s.now().Sub(*last) > time.Duration(days)*24*time.Hour, nil
}

// ListInactiveUsers scans the whole population for users past the threshold,
// including users with zero check-ins.
func (s *ActivityService) ListInactiveUsers(ctx context.Context, days int) ([]*models.InactiveUser, error) {
	cutoff := s.now().Add(-time.Duration(days) * 24 * time.Hour)
	repo := s.repomanager.CheckIns(s.db)
	return repo.ListInactive(ctx, cutoff)
}
