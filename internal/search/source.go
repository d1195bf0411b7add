package search

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"dailyjobs/search-service/internal/model"
	"dailyjobs/search-service/internal/query"
)

// Source resolves a run's postings: live provider results when possible,
// synthetic fallback otherwise.
type Source struct {
	provider  Provider
	synthetic *Synthetic
	log       *zap.Logger
	now       func() time.Time
}

// NewSource constructs a Source. provider may be nil, forcing the fallback.
func NewSource(provider Provider, synthetic *Synthetic, log *zap.Logger) *Source {
	return &Source{provider: provider, synthetic: synthetic, log: log, now: time.Now}
}

// Fetch runs q against the live provider when the user has search
// credentials, falling back to synthetic postings when the provider is
// unavailable, fails, or returns nothing. The boolean reports whether the
// postings came from a real search.
func (s *Source) Fetch(ctx context.Context, user model.UserCredentialView, cfg model.SearchConfig, q query.Query) ([]model.JobPosting, bool) {
	if s.provider != nil && user.HasSearchCredential() {
		results, err := s.provider.Search(ctx, q, user.SearchAPIKey, user.SearchEngineID)
		switch {
		case err != nil:
			s.log.Warn("live search unavailable, generating synthetic postings",
				zap.String("config_id", cfg.ID), zap.Error(err))
		case len(results) == 0:
			s.log.Info("live search returned no results, generating synthetic postings",
				zap.String("config_id", cfg.ID))
		default:
			return s.convert(results, q, cfg), true
		}
	} else {
		s.log.Debug("no search credentials configured, generating synthetic postings",
			zap.String("config_id", cfg.ID))
	}
	return s.synthetic.Generate(cfg), false
}

// convert maps raw provider results onto postings, attributing each to the
// config's first keyword.
func (s *Source) convert(results []RawResult, q query.Query, cfg model.SearchConfig) []model.JobPosting {
	now := s.now()
	postings := make([]model.JobPosting, 0, len(results))
	for _, r := range results {
		postings = append(postings, model.JobPosting{
			Title:   r.Title,
			Link:    r.Link,
			Snippet: r.Snippet,
			Site:    SiteOf(r.Link),
			Keyword: q.Keyword(),
			FoundAt: now,
		})
	}
	return postings
}

// SiteOf reports which known job site a result link points at.
func SiteOf(link string) string {
	for _, site := range query.DefaultJobSites {
		if strings.Contains(link, site) {
			return site
		}
	}
	return "Unknown"
}
