package cmd

import (
	"context"
	"fmt"

	"dropbox-comments/core/config"
	"dropbox-comments/core/database"
	"dropbox-comments/core/logger"
	"dropbox-comments/core/state"
	"dropbox-comments/core/storage"
	"dropbox-comments/feature/audit"
	"dropbox-comments/feature/comments"
	"dropbox-comments/feature/ledger"
	"dropbox-comments/feature/orchestrator"

	"go.uber.org/zap"
)

// app holds the pieces shared by every command.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
}

// newApp loads configuration and builds the logger. Remote settings are only
// validated when validate is set.
func newApp(validate bool) (*app, error) {
	cfg, err := config.LoadConfig(envFile)
	if err != nil {
		return nil, err
	}
	if verbose {
		cfg.Log.Level = "debug"
		cfg.Log.Format = "console"
	}
	if validate {
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return &app{cfg: cfg, logger: logg}, nil
}

// stateStore returns the local state store, mirrored to object storage when enabled.
func (a *app) stateStore(ctx context.Context) (*state.Store, error) {
	opts := []state.Option{state.WithLogger(a.logger)}

	if a.cfg.Storage.Enabled {
		client, err := storage.NewClient(a.cfg.Storage)
		if err != nil {
			return nil, fmt.Errorf("failed to create storage client: %w", err)
		}
		mirror := state.NewMinioMirror(client, a.cfg.Storage.Bucket, a.cfg.Storage.StateObject)
		if err := mirror.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		opts = append(opts, state.WithMirror(mirror))
		a.logger.Info("State mirroring enabled",
			zap.String("bucket", a.cfg.Storage.Bucket),
			zap.String("object", a.cfg.Storage.StateObject))
	}

	return state.NewStore(a.cfg.State.File, opts...), nil
}

// auditRepository connects the audit database. It returns nil when the mirror is disabled.
func (a *app) auditRepository(ctx context.Context) (*audit.Repository, error) {
	if !a.cfg.Database.Enabled {
		return nil, nil
	}
	db, err := database.Connect(a.cfg.Database)
	if err != nil {
		return nil, err
	}
	repo := audit.NewRepository(db)
	if err := repo.Migrate(ctx); err != nil {
		return nil, err
	}
	a.logger.Info("Audit database connected", zap.String("driver", a.cfg.Database.Driver))
	return repo, nil
}

// orchestrator builds the Gmail and Sheets clients and wires a cycle runner over them.
func (a *app) orchestrator(ctx context.Context, states orchestrator.StateStore, repo *audit.Repository) (*orchestrator.Orchestrator, error) {
	gsvc, err := comments.NewGmailService(ctx, a.cfg.Gmail, a.logger)
	if err != nil {
		return nil, err
	}
	ssvc, err := ledger.NewSheetsService(ctx, a.cfg.Sheet)
	if err != nil {
		return nil, err
	}

	opts := []orchestrator.Option{orchestrator.WithLogger(a.logger)}
	if repo != nil {
		opts = append(opts, orchestrator.WithAudit(repo))
	}

	return orchestrator.New(
		orchestrator.Config{Sheet: a.cfg.Sheet, Threshold: a.cfg.Match.Threshold},
		comments.NewGmailSource(gsvc, a.cfg.Gmail, a.logger),
		ledger.NewSheetsStore(ssvc, a.cfg.Sheet, a.logger),
		states,
		opts...,
	), nil
}
