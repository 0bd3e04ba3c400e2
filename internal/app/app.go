package app

import (
	"context"
	"contacts/internal/config"
	httpserver "contacts/internal/http"
	"contacts/internal/http/upload"
	"contacts/internal/services/auth"
	"contacts/internal/services/contacts"
	"contacts/internal/services/user"
	"contacts/internal/storage/avatars"
	"contacts/internal/storage/migrations"
	"contacts/internal/storage/postgres"
	"log/slog"
)

type App struct {
	HTTPServer *httpserver.Server
	Storage    *postgres.Storage
	log        *slog.Logger
}

// New wires storage, services and the HTTP server. It panics on any startup
// failure.
func New(ctx context.Context, log *slog.Logger, cfg *config.Config) *App {
	if cfg.MigrateOnStart {
		applied, err := migrations.Up(cfg.DSN, migrations.DefaultTable)
		if err != nil {
			panic(err)
		}
		log.Info("database schema is up to date", slog.Bool("applied", applied))
	}

	storage, err := postgres.New(ctx, cfg.DSN, log)
	if err != nil {
		panic(err)
	}

	avatarStore, avatarDir := mustAvatarStore(ctx, cfg.Avatars)

	stager, err := upload.NewStager(cfg.Avatars.TempDir, cfg.Avatars.MaxBytes)
	if err != nil {
		panic(err)
	}

	authService := auth.New(log, storage, storage, cfg.JWT.Secret, cfg.JWT.TokenTTL, cfg.Auth.MinPasswordLength)
	userService := user.New(log, storage, avatarStore)
	contactService := contacts.New(log, storage)

	if cfg.Contacts.ReadPolicy == config.ReadPolicyAuthenticated {
		log.Warn("any authenticated user may read a contact by id while listings stay owner-scoped",
			slog.String("policy", cfg.Contacts.ReadPolicy))
	}

	router := httpserver.NewRouter(log, httpserver.RouterConfig{
		ContactReadPolicy: cfg.Contacts.ReadPolicy,
		AvatarDir:         avatarDir,
	}, httpserver.Services{
		Auth:     authService,
		Users:    userService,
		Contacts: contactService,
		Uploads:  stager,
		DB:       storage,
	})

	server := httpserver.NewServer(log, cfg.HTTPServer.Port, router, httpserver.Timeouts{
		Read:  cfg.HTTPServer.ReadTimeout,
		Write: cfg.HTTPServer.WriteTimeout,
		Idle:  cfg.HTTPServer.IdleTimeout,
	})

	return &App{
		HTTPServer: server,
		Storage:    storage,
		log:        log,
	}
}

// mustAvatarStore returns the configured store and, for the disk backend, the
// directory to serve under /avatars/.
func mustAvatarStore(ctx context.Context, cfg config.AvatarsConfig) (user.AvatarStore, string) {
	if cfg.Storage == config.AvatarStorageS3 {
		store, err := avatars.NewS3(ctx, avatars.S3Config{
			Endpoint:  cfg.S3.Endpoint,
			Region:    cfg.S3.Region,
			Bucket:    cfg.S3.Bucket,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
			PublicURL: cfg.S3.PublicURL,
		})
		if err != nil {
			panic(err)
		}
		return store, ""
	}

	store, err := avatars.NewDisk(cfg.Dir)
	if err != nil {
		panic(err)
	}
	return store, store.Dir()
}

func (a *App) CloseStorage() error {
	if a.Storage != nil {
		if err := a.Storage.Close(); err != nil {
			return err
		}
		a.log.Info("closed database connection")
	}
	return nil
}
