// Package checkins persists proof-of-activity events and answers the
// inactivity population queries the sweeps are built on.
package checkins

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/kshrestha1-godaddy/money-manager-sub008/internal/dbx"
	"github.com/kshrestha1-godaddy/money-manager-sub008/internal/server/models"
)

// PostgresRepository implements check-in storage over a dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create appends a check-in row. Check-ins are append-only; there is no
// update or delete path.
func (r *PostgresRepository) Create(ctx context.Context, c *models.CheckIn) error {
	query := `
		INSERT INTO checkins (id, user_id, checkin_at, ip_address, user_agent)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.ExecContext(ctx, query,
		c.ID, c.UserID, c.CheckinAt, nullIfEmpty(c.IPAddress), nullIfEmpty(c.UserAgent))
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// LastCheckIn returns the newest checkin_at for the user, or nil if the user
// has never checked in.
func (r *PostgresRepository) LastCheckIn(ctx context.Context, userID string) (*time.Time, error) {
	query := `SELECT MAX(checkin_at) FROM checkins WHERE user_id = $1`

	var last sql.NullTime
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&last)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("db error: %w", err)
	}
	if !last.Valid {
		return nil, nil
	}
	return &last.Time, nil
}

// ListInactive returns every user whose newest check-in is older than the
// given cutoff. Users with zero check-ins are included with a nil
// LastCheckIn: activity that cannot be proven counts as inactivity.
func (r *PostgresRepository) ListInactive(ctx context.Context, before time.Time) ([]*models.InactiveUser, error) {
	query := `
		SELECT u.id, u.email, u.name, MAX(c.checkin_at) AS last_checkin
		FROM users u
		LEFT JOIN checkins c ON c.user_id = u.id
		GROUP BY u.id, u.email, u.name
		HAVING MAX(c.checkin_at) IS NULL OR MAX(c.checkin_at) < $1
		ORDER BY u.id
	`
	rows, err := r.db.QueryContext(ctx, query, before)
	if err != nil {
		return nil, fmt.Errorf("failed to select inactive users: %w", err)
	}
	defer rows.Close()

	var result []*models.InactiveUser
	for rows.Next() {
		var item models.InactiveUser
		var last sql.NullTime
		if err := rows.Scan(&item.UserID, &item.Email, &item.Name, &last); err != nil {
			return nil, err
		}
		if last.Valid {
			t := last.Time
			item.LastCheckIn = &t
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
