// Package app wires configuration, credentials, sources, the diagnostics
// journal and the status service together.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/nhle/workstatus/internal/actions"
	"github.com/nhle/workstatus/internal/credential"
	"github.com/nhle/workstatus/internal/logging"
	"github.com/nhle/workstatus/internal/model"
	"github.com/nhle/workstatus/internal/service"
	"github.com/nhle/workstatus/internal/source/github"
	"github.com/nhle/workstatus/internal/source/jira"
	"github.com/nhle/workstatus/internal/store"
)

// journalRetention is how long diagnostics entries are kept.
const journalRetention = 30 * 24 * time.Hour

// App holds the long-lived collaborators of one process.
type App struct {
	Config      *model.AppConfig
	ConfigPath  string
	Logger      *logging.Logger
	Credentials *credential.Store
	Jira        *jira.Adapter
	GitHub      *github.Adapter
	Journal     store.Journal
	Service     *service.Service
	Actions     *actions.Registry
}

// New loads the configuration at configPath and builds the application.
// A journal that cannot be opened is logged and skipped; queries still
// work without it.
func New(configPath string) (*App, error) {
	cfg, err := model.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	logger := logging.NewLogger(cfg.Env)

	creds := credential.NewStore(credential.Config{
		ServiceName: cfg.Credentials.ServiceName,
		FileDir:     cfg.Credentials.FileDir,
		EnvPrefix:   "workstatus",
	})

	a := &App{
		Config:      cfg,
		ConfigPath:  configPath,
		Logger:      logger,
		Credentials: creds,
		Jira: jira.NewAdapter(
			cfg.Jira.BaseURL,
			creds.TokenSource(cfg.Jira.CredentialKey),
			cfg.Jira.SprintIssueLimit,
		),
		GitHub: github.NewAdapter(
			cfg.GitHub.APIURL,
			creds.TokenSource(cfg.GitHub.CredentialKey),
		),
	}

	opts := []service.Option{service.WithLogger(logger)}
	if j := openJournal(cfg.Diagnostics.DBPath, logger); j != nil {
		a.Journal = j
		opts = append(opts, service.WithJournal(j))
	}

	a.Service = service.New(a.Jira, a.GitHub, service.Config{
		APIURL:          a.GitHub.APIURL(),
		SearchLimit:     cfg.GitHub.SearchLimit,
		SearchQualifier: cfg.GitHub.SearchQualifier,
		IssueProjects:   cfg.Jira.Projects,
	}, opts...)
	a.Actions = actions.NewRegistry(a.Service)

	return a, nil
}

// openJournal opens the diagnostics database and drops expired entries.
// An empty path disables the journal.
func openJournal(path string, logger *logging.Logger) store.Journal {
	if path == "" {
		return nil
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			logger.Warn("diagnostics journal disabled", "path", path, "err", err)
			return nil
		}
	}

	j, err := store.NewSQLiteStore(path)
	if err != nil {
		logger.Warn("diagnostics journal disabled", "path", path, "err", err)
		return nil
	}

	n, err := j.Prune(context.Background(), time.Now().Add(-journalRetention))
	if err != nil {
		logger.Warn("pruning diagnostics journal", "err", err)
	} else if n > 0 {
		logger.Debug("pruned diagnostics journal", "removed", n)
	}
	return j
}

// RequestTimeout is the per-request deadline of the HTTP surface.
func (a *App) RequestTimeout() time.Duration {
	return time.Duration(a.Config.Server.RequestTimeoutSec) * time.Second
}

// WatchInterval is the refresh interval of the watch view.
func (a *App) WatchInterval() time.Duration {
	return time.Duration(a.Config.Watch.IntervalSec) * time.Second
}

// Close releases the journal.
func (a *App) Close() error {
	if a.Journal == nil {
		return nil
	}
	if err := a.Journal.Close(); err != nil {
		return fmt.Errorf("closing diagnostics journal: %w", err)
	}
	return nil
}
