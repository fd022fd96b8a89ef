package services

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/kshrestha1-godaddy/money-manager-sub008/internal/common"
	"github.com/kshrestha1-godaddy/money-manager-sub008/internal/dbx"
	"github.com/kshrestha1-godaddy/money-manager-sub008/internal/logging"
	"github.com/kshrestha1-godaddy/money-manager-sub008/internal/server/models"
	checkinsrepo "github.com/kshrestha1-godaddy/money-manager-sub008/internal/server/repositories/checkins"
	contactsrepo "github.com/kshrestha1-godaddy/money-manager-sub008/internal/server/repositories/contacts"
	credentialsrepo "github.com/kshrestha1-godaddy/money-manager-sub008/internal/server/repositories/credentials"
	notificationsrepo "github.com/kshrestha1-godaddy/money-manager-sub008/internal/server/repositories/notifications"
	shareeventsrepo "github.com/kshrestha1-godaddy/money-manager-sub008/internal/server/repositories/shareevents"
	usersrepo "github.com/kshrestha1-godaddy/money-manager-sub008/internal/server/repositories/users"
)

// --- shared helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

type noopLogger struct{}

func (noopLogger) Info(context.Context, string, ...any)  {}
func (noopLogger) Warn(context.Context, string, ...any)  {}
func (noopLogger) Error(context.Context, string, ...any) {}
func (l noopLogger) With(...any) logging.Logger          { return l }

// --- repository fakes ---

type fakeUsersRepo struct {
	getOut *models.User
	getErr error
}

func (f *fakeUsersRepo) Get(ctx context.Context, id string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

type fakeCheckInsRepo struct {
	createErr error
	created   []*models.CheckIn

	lastOut *time.Time
	lastErr error

	listOut    []*models.InactiveUser
	listErr    error
	listBefore time.Time
}

func (f *fakeCheckInsRepo) Create(ctx context.Context, c *models.CheckIn) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, c)
	return nil
}

func (f *fakeCheckInsRepo) LastCheckIn(ctx context.Context, userID string) (*time.Time, error) {
	return f.lastOut, f.lastErr
}

func (f *fakeCheckInsRepo) ListInactive(ctx context.Context, before time.Time) ([]*models.InactiveUser, error) {
	f.listBefore = before
	return f.listOut, f.listErr
}

type fakeContactsRepo struct {
	listOut       []*models.EmergencyContact
	listActiveOut []*models.EmergencyContact
	listErr       error

	existsOut bool
	existsErr error

	created []*models.EmergencyContact

	createErr error
	updateErr error
	deactErr  error
	deleteErr error
}

func (f *fakeContactsRepo) List(ctx context.Context, userID string) ([]*models.EmergencyContact, error) {
	return f.listOut, f.listErr
}

func (f *fakeContactsRepo) ListActive(ctx context.Context, userID string) ([]*models.EmergencyContact, error) {
	return f.listActiveOut, f.listErr
}

func (f *fakeContactsRepo) ActiveExists(ctx context.Context, userID, email string) (bool, error) {
	return f.existsOut, f.existsErr
}

func (f *fakeContactsRepo) Create(ctx context.Context, c *models.EmergencyContact) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, c)
	return nil
}

func (f *fakeContactsRepo) Update(ctx context.Context, userID, id string, patch *models.ContactPatch) error {
	return f.updateErr
}

func (f *fakeContactsRepo) Deactivate(ctx context.Context, userID, id string) error {
	return f.deactErr
}

func (f *fakeContactsRepo) Delete(ctx context.Context, userID, id string) error {
	return f.deleteErr
}

type fakeCredentialsRepo struct {
	createErr error
	created   []*models.Credential

	listOut []*models.Credential
	listErr error
}

func (f *fakeCredentialsRepo) Create(ctx context.Context, c *models.Credential) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, c)
	return nil
}

func (f *fakeCredentialsRepo) ListByUser(ctx context.Context, userID string) ([]*models.Credential, error) {
	return f.listOut, f.listErr
}

type fakeShareEventsRepo struct {
	mu      sync.Mutex
	created []*models.ShareEvent

	createErr error

	existsOut bool
	existsErr error

	lockOut bool
	lockErr error
}

func (f *fakeShareEventsRepo) Create(ctx context.Context, e *models.ShareEvent) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, e)
	return nil
}

func (f *fakeShareEventsRepo) events() []*models.ShareEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*models.ShareEvent(nil), f.created...)
}

func (f *fakeShareEventsRepo) ExistsRecent(ctx context.Context, userID string, reason models.ShareReason, since time.Time) (bool, error) {
	return f.existsOut, f.existsErr
}

func (f *fakeShareEventsRepo) LockUser(ctx context.Context, userID string) (bool, error) {
	return f.lockOut, f.lockErr
}

type fakeNotificationsRepo struct {
	created   []*models.Notification
	createErr error

	entityExists  bool
	contentExists bool
	existsErr     error

	entityChecked  bool
	contentChecked bool

	settingsOut *models.NotificationSettings
	settingsErr error

	ensureErr    error
	ensureCalled bool
}

func (f *fakeNotificationsRepo) Create(ctx context.Context, n *models.Notification) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, n)
	return nil
}

func (f *fakeNotificationsRepo) ExistsRecentByEntity(ctx context.Context, userID string, typ models.NotificationType, entityID string, since time.Time) (bool, error) {
	f.entityChecked = true
	return f.entityExists, f.existsErr
}

func (f *fakeNotificationsRepo) ExistsRecentByContent(ctx context.Context, userID string, typ models.NotificationType, title, message string, since time.Time) (bool, error) {
	f.contentChecked = true
	return f.contentExists, f.existsErr
}

func (f *fakeNotificationsRepo) GetSettings(ctx context.Context, userID string) (*models.NotificationSettings, error) {
	if f.settingsErr != nil {
		return nil, f.settingsErr
	}
	if f.settingsOut == nil {
		return nil, common.ErrorNotFound
	}
	return f.settingsOut, nil
}

func (f *fakeNotificationsRepo) EnsureSettings(ctx context.Context, userID string) error {
	f.ensureCalled = true
	if f.ensureErr != nil {
		return f.ensureErr
	}
	// After the insert the settings row exists with defaults.
	if f.settingsOut == nil {
		f.settingsOut = &models.NotificationSettings{
			UserID:               userID,
			InactivityReminders:  true,
			ShareWarnings:        true,
			PasswordExpiryAlerts: true,
		}
	}
	return nil
}

// --- repomanager fake ---

type fakeRepoManager struct {
	users    *fakeUsersRepo
	checkins *fakeCheckInsRepo
	contacts *fakeContactsRepo
	creds    *fakeCredentialsRepo
	events   *fakeShareEventsRepo
	notifs   *fakeNotificationsRepo
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{
		users:    &fakeUsersRepo{},
		checkins: &fakeCheckInsRepo{},
		contacts: &fakeContactsRepo{},
		creds:    &fakeCredentialsRepo{},
		events:   &fakeShareEventsRepo{},
		notifs:   &fakeNotificationsRepo{},
	}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository       { return m.users }
func (m *fakeRepoManager) CheckIns(db dbx.DBTX) checkinsrepo.Repository { return m.checkins }
func (m *fakeRepoManager) Contacts(db dbx.DBTX) contactsrepo.Repository { return m.contacts }
func (m *fakeRepoManager) Credentials(db dbx.DBTX) credentialsrepo.Repository {
	return m.creds
}
func (m *fakeRepoManager) ShareEvents(db dbx.DBTX) shareeventsrepo.Repository {
	return m.events
}
func (m *fakeRepoManager) Notifications(db dbx.DBTX) notificationsrepo.Repository {
	return m.notifs
}

// --- mailer fake ---

type fakeMailer struct {
	mu      sync.Mutex
	sent    []string
	failFor map[string]error
	sendErr error
}

func (f *fakeMailer) Send(ctx context.Context, to, subject, htmlBody, textBody string) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	if err, ok := f.failFor[to]; ok {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, to)
	return nil
}

func (f *fakeMailer) recipients() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.sent...)
}
