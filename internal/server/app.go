// Package server initializes and runs the escrow application: it opens the
// database, runs migrations, wires the services, and starts the HTTP server
// with graceful shutdown on OS signals.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/kshrestha1-godaddy/money-manager-sub008/internal/logging"
	"github.com/kshrestha1-godaddy/money-manager-sub008/internal/server/config"
	"github.com/kshrestha1-godaddy/money-manager-sub008/internal/server/httpapi"
	"github.com/kshrestha1-godaddy/money-manager-sub008/internal/server/mail"
	"github.com/kshrestha1-godaddy/money-manager-sub008/internal/server/repositories/repomanager"
	"github.com/kshrestha1-godaddy/money-manager-sub008/internal/server/services"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	http   *httpapi.Server
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.NewJSON()

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	var mailer mail.Mailer
	if cfg.SMTPHost != "" {
		mailer = mail.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.MailFrom)
	} else {
		mailer = mail.NewLogMailer(logger)
	}

	activity := services.NewActivityService(db, rm)
	contacts := services.NewContactService(db, rm)
	credentials := services.NewCredentialService(db, rm)
	notify := services.NewNotificationService(db, rm, logger)
	disclosure := services.NewDisclosureService(db, rm, notify, mailer, logger, cfg.MailTimeout)
	sweeps := services.NewSweepService(db, rm, activity, notify, mailer, logger, cfg.CooldownDays, cfg.MailTimeout)

	httpServer := httpapi.NewServer(cfg, logger, activity, contacts, credentials, disclosure, sweeps)

	return &App{config: cfg, logger: logger, db: db, http: httpServer}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "starting app", "addr", app.config.EndpointAddrHTTP)

	app.initSignalHandler(cancelFunc)

	if err := app.http.Run(ctx); err != nil {
		app.logger.Error(ctx, "http server error", "error", err)
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}
}
