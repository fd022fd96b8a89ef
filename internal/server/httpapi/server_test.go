package httpapi

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/kshrestha1-godaddy/money-manager-sub008/internal/dbx"
	"github.com/kshrestha1-godaddy/money-manager-sub008/internal/logging"
	"github.com/kshrestha1-godaddy/money-manager-sub008/internal/server/auth"
	"github.com/kshrestha1-godaddy/money-manager-sub008/internal/server/config"
	"github.com/kshrestha1-godaddy/money-manager-sub008/internal/server/models"
	checkinsrepo "github.com/kshrestha1-godaddy/money-manager-sub008/internal/server/repositories/checkins"
	contactsrepo "github.com/kshrestha1-godaddy/money-manager-sub008/internal/server/repositories/contacts"
	credentialsrepo "github.com/kshrestha1-godaddy/money-manager-sub008/internal/server/repositories/credentials"
	notificationsrepo "github.com/kshrestha1-godaddy/money-manager-sub008/internal/server/repositories/notifications"
	shareeventsrepo "github.com/kshrestha1-godaddy/money-manager-sub008/internal/server/repositories/shareevents"
	usersrepo "github.com/kshrestha1-godaddy/money-manager-sub008/internal/server/repositories/users"
	"github.com/kshrestha1-godaddy/money-manager-sub008/internal/server/services"
)

type noopLogger struct{}

func (noopLogger) Info(context.Context, string, ...any)  {}
func (noopLogger) Warn(context.Context, string, ...any)  {}
func (noopLogger) Error(context.Context, string, ...any) {}
func (l noopLogger) With(...any) logging.Logger          { return l }

type noopMailer struct{}

func (noopMailer) Send(context.Context, string, string, string, string) error { return nil }

// fakeRM stubs the repository manager with just enough behavior for the
// handler paths under test.
type fakeRM struct {
	checkins *fakeCheckIns
	contacts *fakeContacts
	creds    *fakeCredentials
}

type fakeCheckIns struct {
	created []*models.CheckIn
	lastOut *time.Time
	listOut []*models.InactiveUser
	seen    *bool
}

func (f *fakeCheckIns) Create(ctx context.Context, c *models.CheckIn) error {
	f.created = append(f.created, c)
	return nil
}

func (f *fakeCheckIns) LastCheckIn(ctx context.Context, userID string) (*time.Time, error) {
	return f.lastOut, nil
}

func (f *fakeCheckIns) ListInactive(ctx context.Context, before time.Time) ([]*models.InactiveUser, error) {
	if f.seen != nil {
		*f.seen = true
	}
	return f.listOut, nil
}

type fakeContacts struct {
	listOut []*models.EmergencyContact
}

func (f *fakeContacts) List(ctx context.Context, userID string) ([]*models.EmergencyContact, error) {
	return f.listOut, nil
}
func (f *fakeContacts) ListActive(ctx context.Context, userID string) ([]*models.EmergencyContact, error) {
	return f.listOut, nil
}
func (f *fakeContacts) ActiveExists(context.Context, string, string) (bool, error) { return false, nil }
func (f *fakeContacts) Create(context.Context, *models.EmergencyContact) error     { return nil }
func (f *fakeContacts) Update(context.Context, string, string, *models.ContactPatch) error {
	return nil
}
func (f *fakeContacts) Deactivate(context.Context, string, string) error { return nil }
func (f *fakeContacts) Delete(context.Context, string, string) error     { return nil }

type fakeCredentials struct {
	listOut []*models.Credential
}

func (f *fakeCredentials) Create(context.Context, *models.Credential) error { return nil }
func (f *fakeCredentials) ListByUser(ctx context.Context, userID string) ([]*models.Credential, error) {
	return f.listOut, nil
}

type fakeUsers struct{}

func (fakeUsers) Get(ctx context.Context, id string) (*models.User, error) {
	return &models.User{ID: id, Email: "alice@example.com", Name: "Alice", Salt: []byte("salt")}, nil
}

type fakeShareEvents struct{}

func (fakeShareEvents) Create(context.Context, *models.ShareEvent) error { return nil }
func (fakeShareEvents) ExistsRecent(context.Context, string, models.ShareReason, time.Time) (bool, error) {
	return false, nil
}
func (fakeShareEvents) LockUser(context.Context, string) (bool, error) { return true, nil }

type fakeNotifications struct{}

func (fakeNotifications) Create(context.Context, *models.Notification) error { return nil }
func (fakeNotifications) ExistsRecentByEntity(context.Context, string, models.NotificationType, string, time.Time) (bool, error) {
	return false, nil
}
func (fakeNotifications) ExistsRecentByContent(context.Context, string, models.NotificationType, string, string, time.Time) (bool, error) {
	return false, nil
}
func (fakeNotifications) GetSettings(ctx context.Context, userID string) (*models.NotificationSettings, error) {
	return &models.NotificationSettings{UserID: userID, InactivityReminders: true, ShareWarnings: true}, nil
}
func (fakeNotifications) EnsureSettings(context.Context, string) error { return nil }

func newFakeRM() *fakeRM {
	return &fakeRM{
		checkins: &fakeCheckIns{},
		contacts: &fakeContacts{},
		creds:    &fakeCredentials{},
	}
}

func (m *fakeRM) RunMigrations(context.Context, *sql.DB) error           { return nil }
func (m *fakeRM) Users(db dbx.DBTX) usersrepo.Repository                 { return fakeUsers{} }
func (m *fakeRM) CheckIns(db dbx.DBTX) checkinsrepo.Repository           { return m.checkins }
func (m *fakeRM) Contacts(db dbx.DBTX) contactsrepo.Repository           { return m.contacts }
func (m *fakeRM) Credentials(db dbx.DBTX) credentialsrepo.Repository     { return m.creds }
func (m *fakeRM) ShareEvents(db dbx.DBTX) shareeventsrepo.Repository     { return fakeShareEvents{} }
func (m *fakeRM) Notifications(db dbx.DBTX) notificationsrepo.Repository { return fakeNotifications{} }

func newTestServer(t *testing.T, rm *fakeRM) (http.Handler, *config.Config, func()) {
	t.Helper()
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.JWTSecret = "test-secret"
	cfg.TriggerToken = "trigger-token"

	logger := noopLogger{}
	activity := services.NewActivityService(db, rm)
	contacts := services.NewContactService(db, rm)
	credentials := services.NewCredentialService(db, rm)
	notify := services.NewNotificationService(db, rm, logger)
	disclosure := services.NewDisclosureService(db, rm, notify, noopMailer{}, logger, time.Second)
	sweeps := services.NewSweepService(db, rm, activity, notify, noopMailer{}, logger, cfg.CooldownDays, time.Second)

	s := NewServer(cfg, logger, activity, contacts, credentials, disclosure, sweeps)
	return s.Routes(), cfg, func() { db.Close() }
}

func sessionToken(t *testing.T, userID string) string {
	t.Helper()
	token, err := auth.GenerateToken(userID, []byte("test-secret"), time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}
	return token
}

func TestSessionAuth_MissingToken(t *testing.T) {
	handler, _, cleanup := newTestServer(t, newFakeRM())
	defer cleanup()

	req := httptest.NewRequest(http.MethodPost, "/api/checkins", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestSessionAuth_BadToken(t *testing.T) {
	handler, _, cleanup := newTestServer(t, newFakeRM())
	defer cleanup()

	req := httptest.NewRequest(http.MethodPost, "/api/checkins", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRecordCheckIn_UsesTokenIdentity(t *testing.T) {
	rm := newFakeRM()
	handler, _, cleanup := newTestServer(t, rm)
	defer cleanup()

	req := httptest.NewRequest(http.MethodPost, "/api/checkins", nil)
	req.Header.Set("Authorization", "Bearer "+sessionToken(t, "u-42"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(rm.checkins.created) != 1 || rm.checkins.created[0].UserID != "u-42" {
		t.Fatalf("check-in not scoped to the token's user: %+v", rm.checkins.created)
	}
}

func TestLastCheckIn_NeverCheckedIn(t *testing.T) {
	handler, _, cleanup := newTestServer(t, newFakeRM())
	defer cleanup()

	req := httptest.NewRequest(http.MethodGet, "/api/checkins/last", nil)
	req.Header.Set("Authorization", "Bearer "+sessionToken(t, "u-1"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp struct {
		LastCheckIn *time.Time `json:"last_check_in"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if resp.LastCheckIn != nil {
		t.Fatalf("expected null last_check_in, got %v", resp.LastCheckIn)
	}
}

func TestAddContact_InvalidEmail(t *testing.T) {
	handler, _, cleanup := newTestServer(t, newFakeRM())
	defer cleanup()

	body := bytes.NewBufferString(`{"email":"not-an-email"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/contacts", body)
	req.Header.Set("Authorization", "Bearer "+sessionToken(t, "u-1"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestShare_NoCredentialsIs422(t *testing.T) {
	handler, _, cleanup := newTestServer(t, newFakeRM())
	defer cleanup()

	body := bytes.NewBufferString(`{"secret_key":"k"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/share", body)
	req.Header.Set("Authorization", "Bearer "+sessionToken(t, "u-1"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestTriggerAuth_MismatchDoesNoWork(t *testing.T) {
	rm := newFakeRM()
	var listed bool
	rm.checkins.seen = &listed
	handler, _, cleanup := newTestServer(t, rm)
	defer cleanup()

	req := httptest.NewRequest(http.MethodPost, "/internal/sweeps/disclosure", nil)
	req.Header.Set("Authorization", "Bearer wrong-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if listed {
		t.Fatalf("a rejected trigger must not touch the database")
	}
}

func TestTriggerAuth_ValidTokenRunsSweep(t *testing.T) {
	rm := newFakeRM()
	var listed bool
	rm.checkins.seen = &listed
	handler, _, cleanup := newTestServer(t, rm)
	defer cleanup()

	req := httptest.NewRequest(http.MethodPost, "/internal/sweeps/reminder", nil)
	req.Header.Set("Authorization", "Bearer trigger-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !listed {
		t.Fatalf("expected the sweep to scan for inactive users")
	}
	var resp struct {
		ProcessedUsers int `json:"processed_users"`
		ErrorCount     int `json:"error_count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if resp.ProcessedUsers != 0 || resp.ErrorCount != 0 {
		t.Fatalf("unexpected summary: %+v", resp)
	}
}

func TestHealthz(t *testing.T) {
	handler, _, cleanup := newTestServer(t, newFakeRM())
	defer cleanup()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
