package services

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRecordCheckIn_Success(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := newFakeRepoManager()
	s := NewActivityService(db, rm)
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	got, err := s.RecordCheckIn(context.Background(), "u-1", "10.0.0.1", "curl/8.0")
	if err != nil {
		t.Fatalf("RecordCheckIn error: %v", err)
	}
	if got.ID == "" || got.UserID != "u-1" || !got.CheckinAt.Equal(fixed) {
		t.Fatalf("unexpected check-in: %+v", got)
	}
	if len(rm.checkins.created) != 1 {
		t.Fatalf("expected 1 persisted row, got %d", len(rm.checkins.created))
	}
}

func TestRecordCheckIn_RepoError(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := newFakeRepoManager()
	rm.checkins.createErr = errors.New("db down")
	s := NewActivityService(db, rm)

	if _, err := s.RecordCheckIn(context.Background(), "u-1", "", ""); err == nil {
		t.Fatalf("expected error")
	}
}

func TestInactiveFor_NeverCheckedIn(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	s := NewActivityService(db, newFakeRepoManager())

	inactive, err := s.InactiveFor(context.Background(), "u-1", 0)
	if err != nil {
		t.Fatalf("InactiveFor error: %v", err)
	}
	if !inactive {
		t.Fatalf("a user with no check-ins must count as inactive")
	}
}

func TestInactiveFor_Thresholds(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := newFakeRepoManager()
	s := NewActivityService(db, rm)
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	recent := fixed.Add(-2 * 24 * time.Hour)
	rm.checkins.lastOut = &recent
	inactive, err := s.InactiveFor(context.Background(), "u-1", 7)
	if err != nil {
		t.Fatalf("InactiveFor error: %v", err)
	}
	if inactive {
		t.Fatalf("2 days ago is inside a 7-day threshold")
	}

	stale := fixed.Add(-10 * 24 * time.Hour)
	rm.checkins.lastOut = &stale
	inactive, err = s.InactiveFor(context.Background(), "u-1", 7)
	if err != nil {
		t.Fatalf("InactiveFor error: %v", err)
	}
	if !inactive {
		t.Fatalf("10 days ago is past a 7-day threshold")
	}
}

func TestListInactiveUsers_CutoffFromThreshold(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := newFakeRepoManager()
	s := NewActivityService(db, rm)
	fixed := time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	if _, err := s.ListInactiveUsers(context.Background(), 15); err != nil {
		t.Fatalf("ListInactiveUsers error: %v", err)
	}
	want := fixed.Add(-15 * 24 * time.Hour)
	if !rm.checkins.listBefore.Equal(want) {
		t.Fatalf("cutoff mismatch: got %v, want %v", rm.checkins.listBefore, want)
	}
}
