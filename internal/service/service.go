package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nhle/workstatus/internal/logging"
	"github.com/nhle/workstatus/internal/model"
	"github.com/nhle/workstatus/internal/source"
	"github.com/nhle/workstatus/internal/source/github"
	"github.com/nhle/workstatus/internal/source/jira"
	"github.com/nhle/workstatus/internal/store"
)

// ErrInvalidInput is wrapped by errors caused by a malformed query
// argument rather than by an upstream system.
var ErrInvalidInput = errors.New("invalid input")

// Tracker is the issue tracker collaborator.
type Tracker interface {
	GetIssue(ctx context.Context, key string) (*jira.Issue, error)
	GetDevPanel(ctx context.Context, issueID string) (*jira.DevPanel, error)
	GetBoards(ctx context.Context, projectKey string) ([]jira.Board, error)
	GetActiveSprints(ctx context.Context, boardID int) ([]jira.Sprint, error)
	GetSprintIssues(ctx context.Context, sprintID int) ([]jira.Issue, error)
	BrowseURL(key string) string
}

// CodeHost is the source-control host collaborator.
type CodeHost interface {
	GetPullRequest(ctx context.Context, repo string, number int) (*github.PullRequest, error)
	GetReviews(ctx context.Context, repo string, number int) ([]github.Review, error)
	GetCheckRuns(ctx context.Context, repo string, sha string) ([]github.CheckRun, error)
	SearchPullRequests(ctx context.Context, query string, limit int) ([]github.SearchItem, error)
}

// Config holds the query settings that are not owned by a collaborator.
type Config struct {
	// APIURL is the code host API root, stripped from search results'
	// repository URLs.
	APIURL string

	// SearchLimit is the top-N cutoff for search.
	SearchLimit int

	// SearchQualifier is appended to every search query.
	SearchQualifier string

	// IssueProjects, when set, restricts the issue keys reported on a
	// pull request to these project prefixes.
	IssueProjects []string
}

// Service answers status queries by reading from the tracker and the code
// host and normalizing what comes back. It keeps no state between calls.
type Service struct {
	tracker  Tracker
	host     CodeHost
	cfg      Config
	projects map[string]bool
	journal  store.Journal
	logger   *logging.Logger
	now      func() time.Time
}

// Option customizes a Service.
type Option func(*Service)

// WithJournal records query outcomes and soft failures in j.
func WithJournal(j store.Journal) Option {
	return func(s *Service) { s.journal = j }
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithClock replaces the clock used for sprint time arithmetic.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// New creates a Service.
func New(tracker Tracker, host CodeHost, cfg Config, opts ...Option) *Service {
	if cfg.SearchLimit < 1 {
		cfg.SearchLimit = model.DefaultSearchLimit
	}

	s := &Service{
		tracker: tracker,
		host:    host,
		cfg:     cfg,
		logger:  logging.Discard(),
		now:     time.Now,
	}
	if len(cfg.IssueProjects) > 0 {
		s.projects = make(map[string]bool, len(cfg.IssueProjects))
		for _, p := range cfg.IssueProjects {
			s.projects[strings.ToUpper(strings.TrimSpace(p))] = true
		}
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// apply runs err through the failure policy of op. Soft failures are
// logged, journaled and swallowed; hard failures come back unchanged.
func (s *Service) apply(
	ctx context.Context,
	op Operation,
	target string,
	err error,
) error {
	if err == nil {
		return nil
	}
	if PolicyFor(op) == PolicyHard {
		return err
	}

	soft := &source.SoftFailure{Operation: string(op), Target: target, Err: err}
	s.logger.Warn("degraded lookup",
		"operation", op,
		"target", target,
		"err", err,
	)

	if s.journal != nil {
		rec := model.SoftFailureRecord{
			Operation: soft.Operation,
			Target:    soft.Target,
			Message:   soft.Error(),
		}
		if jerr := s.journal.RecordSoftFailure(context.WithoutCancel(ctx), rec); jerr != nil {
			s.logger.Warn("journaling soft failure", "err", jerr)
		}
	}
	return nil
}

// record journals the outcome of one query.
func (s *Service) record(
	ctx context.Context,
	kind string,
	target string,
	started time.Time,
	err error,
) {
	elapsed := time.Since(started)
	if err != nil {
		s.logger.Info("query failed",
			"kind", kind, "target", target, "err", err,
			"duration_ms", elapsed.Milliseconds(),
		)
	} else {
		s.logger.Debug("query finished",
			"kind", kind, "target", target,
			"duration_ms", elapsed.Milliseconds(),
		)
	}

	if s.journal == nil {
		return
	}

	rec := model.QueryRecord{
		Kind:       kind,
		Target:     target,
		Outcome:    model.OutcomeOK,
		DurationMs: elapsed.Milliseconds(),
	}
	if err != nil {
		rec.Outcome = model.OutcomeError
		rec.Error = err.Error()
	}
	if jerr := s.journal.RecordQuery(context.WithoutCancel(ctx), rec); jerr != nil {
		s.logger.Warn("journaling query", "err", jerr)
	}
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
