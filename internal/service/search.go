package service

import (
	"context"
	"strings"
	"time"

	"github.com/nhle/workstatus/internal/model"
	"github.com/nhle/workstatus/internal/status"
)

// SearchPRs runs a free-text search limited to pull requests and returns
// at most the configured number of hits, in upstream order.
func (s *Service) SearchPRs(ctx context.Context, query string) (hits []model.SearchHit, err error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, invalid("search query is required")
	}

	defer func(started time.Time) {
		s.record(ctx, "search", query, started, err)
	}(time.Now())

	scoped := status.ScopeToPullRequests(query, s.cfg.SearchQualifier)
	items, err := s.host.SearchPullRequests(ctx, scoped, s.cfg.SearchLimit)
	if err = s.apply(ctx, OpSearchPullRequests, query, err); err != nil {
		return nil, err
	}

	if len(items) > s.cfg.SearchLimit {
		items = items[:s.cfg.SearchLimit]
	}

	hits = make([]model.SearchHit, 0, len(items))
	for _, item := range items {
		hits = append(hits, model.SearchHit{
			Number: item.Number,
			Title:  item.Title,
			Author: item.User.Login,
			Repo:   status.RepoFromAPIURL(item.RepositoryURL, s.cfg.APIURL),
			State:  item.State,
		})
	}
	return hits, nil
}
