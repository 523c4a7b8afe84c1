package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nhle/workstatus/internal/crossref"
	"github.com/nhle/workstatus/internal/model"
	"github.com/nhle/workstatus/internal/source/github"
	"github.com/nhle/workstatus/internal/status"
)

// PRStatus aggregates a pull request's metadata, reviews and checks.
//
// Metadata and reviews are fetched concurrently; if either fails the
// other is cancelled and the query fails. Check runs need the head commit
// from the metadata, so they are fetched after the join. No partial
// record is ever returned.
func (s *Service) PRStatus(ctx context.Context, repo string, number int) (pr *model.PRStatus, err error) {
	repo = strings.TrimSpace(repo)
	if !validRepo(repo) {
		return nil, invalid("repository must look like owner/name, got %q", repo)
	}
	if number < 1 {
		return nil, invalid("pull request number must be positive, got %d", number)
	}

	target := fmt.Sprintf("%s#%d", repo, number)
	defer func(started time.Time) {
		s.record(ctx, "pr", target, started, err)
	}(time.Now())

	var (
		meta    *github.PullRequest
		reviews []github.Review
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		got, err := s.host.GetPullRequest(gctx, repo, number)
		if err := s.apply(gctx, OpFetchPullRequest, target, err); err != nil {
			return err
		}
		meta = got
		return nil
	})
	g.Go(func() error {
		got, err := s.host.GetReviews(gctx, repo, number)
		if err := s.apply(gctx, OpFetchReviews, target, err); err != nil {
			return err
		}
		reviews = got
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var runs []github.CheckRun
	if meta.Head.SHA != "" {
		runs, err = s.host.GetCheckRuns(ctx, repo, meta.Head.SHA)
		if err = s.apply(ctx, OpFetchCheckRuns, target, err); err != nil {
			return nil, err
		}
	} else {
		s.logger.Warn("pull request has no head commit; skipping checks", "pr", target)
	}

	result := model.PRStatus{
		Repo:           repo,
		Number:         meta.Number,
		Title:          meta.Title,
		Author:         meta.User.Login,
		State:          meta.State,
		Draft:          meta.Draft,
		Mergeable:      meta.Mergeable,
		MergeableState: meta.MergeableState,
		MergeConflict:  status.MergeConflict(meta.Mergeable, meta.MergeableState),
		Additions:      meta.Additions,
		Deletions:      meta.Deletions,
		ChangedFiles:   meta.ChangedFiles,
		Reviews:        status.SummarizeReviews(toReviews(reviews)),
		Checks:         status.RollupChecks(toCheckRuns(runs)),
		IssueKeys:      crossref.PullRequestKeys(meta.Head.Ref, meta.Title, meta.Body, s.projects),
		URL:            meta.HTMLURL,
	}
	return &result, nil
}

// toReviews converts code host reviews. Reviews from deleted accounts
// (no user) have no identity to dedupe on and are skipped; a missing or
// malformed submission time is the zero time.
func toReviews(raw []github.Review) []model.Review {
	reviews := make([]model.Review, 0, len(raw))
	for _, r := range raw {
		if r.User == nil || r.User.Login == "" {
			continue
		}
		submitted, _ := time.Parse(time.RFC3339, r.SubmittedAt)
		reviews = append(reviews, model.Review{
			Reviewer:    r.User.Login,
			State:       r.State,
			SubmittedAt: submitted,
		})
	}
	return reviews
}

func toCheckRuns(raw []github.CheckRun) []model.CheckRun {
	runs := make([]model.CheckRun, 0, len(raw))
	for _, r := range raw {
		run := model.CheckRun{Name: r.Name, Status: r.Status}
		if r.Conclusion != nil {
			run.Conclusion = *r.Conclusion
		}
		runs = append(runs, run)
	}
	return runs
}

// validRepo reports whether repo has exactly two non-empty parts.
func validRepo(repo string) bool {
	owner, name, ok := strings.Cut(repo, "/")
	return ok && owner != "" && name != "" && !strings.Contains(name, "/")
}
