package repomanager

import (
	"context"
	"database/sql"

	"github.com/kshrestha1-godaddy/money-manager-sub008/internal/dbx"
	"github.com/kshrestha1-godaddy/money-manager-sub008/internal/server/repositories/checkins"
	"github.com/kshrestha1-godaddy/money-manager-sub008/internal/server/repositories/contacts"
	"github.com/kshrestha1-godaddy/money-manager-sub008/internal/server/repositories/credentials"
	"github.com/kshrestha1-godaddy/money-manager-sub008/internal/server/repositories/notifications"
	"github.com/kshrestha1-godaddy/money-manager-sub008/internal/server/repositories/shareevents"
	"github.com/kshrestha1-godaddy/money-manager-sub008/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	CheckIns(db dbx.DBTX) checkins.Repository
	Contacts(db dbx.DBTX) contacts.Repository
	Credentials(db dbx.DBTX) credentials.Repository
	ShareEvents(db dbx.DBTX) shareevents.Repository
	Notifications(db dbx.DBTX) notifications.Repository
}
