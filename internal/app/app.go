// Package app wires configuration into the services shared by the binaries.
package app

import (
	"context"

	"github.com/andresuchdata/sellerpulse/internal/cache"
	"github.com/andresuchdata/sellerpulse/internal/config"
	"github.com/andresuchdata/sellerpulse/internal/delivery"
	"github.com/andresuchdata/sellerpulse/internal/drive"
	"github.com/andresuchdata/sellerpulse/internal/pipeline"
	"github.com/andresuchdata/sellerpulse/internal/repository"
	"github.com/andresuchdata/sellerpulse/internal/repository/postgres"
	"github.com/andresuchdata/sellerpulse/internal/service"
	"github.com/andresuchdata/sellerpulse/internal/storage"
	"github.com/andresuchdata/sellerpulse/pkg/logger"
)

// Options override configuration for one process.
type Options struct {
	// DBURL opens the journal through pgx instead of the configured pool.
	DBURL string
	// DryRun logs digests instead of sending and archiving them.
	DryRun bool
}

type App struct {
	Reports *service.ReportService
	Digests *service.DigestService
	Archive storage.Archiver

	closers []func()
}

func New(ctx context.Context, cfg *config.Config, opts Options) *App {
	a := &App{}

	runner := pipeline.NewRunner(service.PipelineConfig(cfg))
	a.Reports = service.NewReportService(runner, service.NewSources(cfg), cache.NewReportCache(cfg.Cache))

	var sink delivery.Sink = delivery.LogSink{}
	if !opts.DryRun {
		sink = newSink(cfg.Telegram)
		a.Archive = a.newArchiver(ctx, cfg.Archive)
	}

	a.Digests = service.NewDigestService(service.DigestDeps{
		Reports:  a.Reports,
		Sink:     sink,
		Archiver: a.Archive,
		Runs:     a.newJournal(ctx, cfg.Database, opts.DBURL),
		Locker:   cache.NewLocker(cfg.Cache),
		Chats:    service.ChatIDs(cfg),
	})
	return a
}

func (a *App) Close() {
	for _, c := range a.closers {
		c()
	}
}

func (a *App) newJournal(ctx context.Context, cfg config.DatabaseConfig, dbURL string) repository.DigestRunRepository {
	var (
		db  *postgres.DB
		err error
	)
	switch {
	case dbURL != "":
		db, err = postgres.Open(postgres.DriverPGX, dbURL)
	case cfg.Enabled:
		db, err = postgres.NewDB(&cfg)
	default:
		return repository.NewMemoryDigestRunRepository()
	}
	if err != nil {
		logger.Log.Warn().Err(err).Msg("database unavailable, journaling digests in memory")
		return repository.NewMemoryDigestRunRepository()
	}

	a.closers = append(a.closers, func() { _ = db.Close() })
	if err := postgres.EnsureSchema(ctx, db); err != nil {
		logger.Log.Warn().Err(err).Msg("could not ensure digest_runs schema")
	}
	return postgres.NewDigestRunRepository(db)
}

func newSink(cfg config.TelegramConfig) delivery.Sink {
	if cfg.Token == "" {
		logger.Log.Warn().Msg("telegram token missing, digests are written to the log")
		return delivery.LogSink{}
	}
	return delivery.NewTelegram(delivery.TelegramConfig{Token: cfg.Token, BaseURL: cfg.BaseURL})
}

// newArchiver returns nil when no archive backend is usable.
func (a *App) newArchiver(ctx context.Context, cfg config.ArchiveConfig) storage.Archiver {
	var archivers storage.MultiArchiver

	if cfg.S3.Enabled {
		client, err := storage.NewMinioClient(storage.S3Config{
			Endpoint:  cfg.S3.Endpoint,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
			Bucket:    cfg.S3.Bucket,
			Region:    cfg.S3.Region,
			UseSSL:    cfg.S3.UseSSL,
		})
		if err != nil {
			logger.Log.Warn().Err(err).Msg("s3 archive disabled")
		} else {
			archivers = append(archivers, storage.NewObjectArchiver(client, client.Bucket(), cfg.S3.Prefix))
		}
	}

	if cfg.Drive.Enabled {
		svc, err := drive.NewService(ctx, cfg.Drive.CredentialsFile, cfg.Drive.FolderPath)
		if err != nil {
			logger.Log.Warn().Err(err).Msg("drive archive disabled")
		} else {
			archivers = append(archivers, svc)
		}
	}

	if len(archivers) == 0 {
		return nil
	}
	return archivers
}
