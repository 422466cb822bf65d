package cli

import (
	"context"
	"fmt"

	"github.com/existflow/issuegantt/internal/config"
	"github.com/existflow/issuegantt/internal/db"
	"github.com/existflow/issuegantt/internal/github"
	"github.com/existflow/issuegantt/internal/logger"
	"github.com/existflow/issuegantt/internal/schedule"
	"github.com/existflow/issuegantt/internal/sync"
)

// app holds the collaborators every command builds from the config
type app struct {
	db        *db.DB
	remote    *github.Client
	syncer    *sync.Syncer
	projector *schedule.Projector
	sortKey   schedule.SortKey
}

// openApp opens the store and wires the syncer. needRemote makes a missing
// repository an error; read-only commands work from the store alone.
func openApp(ctx context.Context, c *config.Config, needRemote bool) (*app, error) {
	if needRemote {
		if err := c.Validate(); err != nil {
			return nil, fmt.Errorf("invalid config: %w", err)
		}
	}

	sortKey, err := schedule.ParseSortKey(c.Server.SortBy)
	if err != nil {
		return nil, err
	}

	database, err := db.Open(c.Database.Driver, c.Database.DSN)
	if err != nil {
		logger.Error("Failed to open database", logger.Err(err))
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	remote := github.NewClient(ctx, c.GitHubOptions())
	logger.Debug("App ready",
		logger.F("repo", remote.Repo()),
		logger.F("driver", database.Driver()))

	return &app{
		db:        database,
		remote:    remote,
		syncer:    sync.NewSyncer(database, remote, c.Keywords),
		projector: schedule.NewProjector(database),
		sortKey:   sortKey,
	}, nil
}

// Close closes the store
func (a *app) Close() {
	if err := a.db.Close(); err != nil {
		logger.Warn("Failed to close database", logger.Err(err))
		return
	}
	logger.Debug("Database closed")
}
