package service

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/codeGROOVE-dev/retry"
	"github.com/google/go-github/v66/github"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/mk-knight23/portfolio-backend/config"
	"github.com/mk-knight23/portfolio-backend/model"
)

type GithubService interface {
	GetAggregate(ctx context.Context, username string) (model.AggregateResponse, error)
}

type githubService struct {
	githubClient      *github.Client
	githubRateLimiter *rate.Limiter
	cache             *ResponseCache
	config            config.Config
}

// NewGithubService builds the aggregation service around an injected github
// client (so tests can pass a mocked HTTP client), a local rate limiter and
// the shared response cache
func NewGithubService(config config.Config, githubClient *github.Client, rateLimiter *rate.Limiter, cache *ResponseCache) GithubService {
	return githubService{
		githubClient:      githubClient,
		githubRateLimiter: rateLimiter,
		cache:             cache,
		config:            config,
	}
}

// GetAggregate validates the username, then serves the aggregate from the
// cache or fetches the profile and the complete repository list upstream.
// The payload is a faithful mirror of the upstream data: forked and archived
// repositories are not filtered here.
func (s githubService) GetAggregate(ctx context.Context, username string) (model.AggregateResponse, error) {
	trimmed, err := model.ValidateUsername(username)
	if err != nil {
		log.WithField("username", username).Debug("rejected invalid username")
		return model.AggregateResponse{}, err
	}

	if cached, found := s.cache.Get(trimmed); found {
		log.WithField("username", trimmed).Debug("returning cached aggregate response")
		return cached, nil
	}

	log.WithField("username", trimmed).Info("fetching github data for user")

	user, err := s.fetchUser(ctx, trimmed)
	if err != nil {
		return model.AggregateResponse{}, err
	}

	repos, err := s.fetchAllRepositories(ctx, trimmed)
	if err != nil {
		return model.AggregateResponse{}, err
	}

	log.WithFields(log.Fields{
		"username":     trimmed,
		"repositories": len(repos),
	}).Info("fetched all repositories for user")

	response := model.AggregateResponse{
		User:  user,
		Repos: repos,
	}

	s.cache.Set(trimmed, response)
	return response, nil
}

// fetchUser loads the public profile with a single request
func (s githubService) fetchUser(ctx context.Context, username string) (model.UserProfile, error) {
	var user *github.User

	err := s.withRetry(ctx, func() error {
		var err error
		user, _, err = s.githubClient.Users.Get(ctx, username)
		return err
	})

	if err != nil {
		return model.UserProfile{}, err
	}

	return model.NewUserProfile(user), nil
}

// fetchAllRepositories pages through the user repositories in strictly
// increasing page order, sorted by last update descending, and stops when a
// page comes back short or empty
func (s githubService) fetchAllRepositories(ctx context.Context, username string) ([]model.RepositoryRecord, error) {
	records := make([]model.RepositoryRecord, 0)

	for page := 1; ; page++ {
		var repos []*github.Repository

		err := s.withRetry(ctx, func() error {
			var err error
			repos, _, err = s.githubClient.Repositories.ListByUser(ctx, username, &github.RepositoryListByUserOptions{
				Sort:      "updated",
				Direction: "desc",
				ListOptions: github.ListOptions{
					Page:    page,
					PerPage: s.config.Github.PageSize,
				},
			})
			return err
		})

		if err != nil {
			return nil, err
		}

		for _, r := range repos {
			records = append(records, model.NewRepositoryRecord(r))
		}

		if len(repos) < s.config.Github.PageSize {
			break
		}
	}

	return records, nil
}

// withRetry executes a single upstream request, retrying only rate-limited
// responses with a linearly increasing delay, up to the configured total
// attempt count. Any other upstream failure is surfaced immediately.
func (s githubService) withRetry(ctx context.Context, call func() error) error {
	if !s.githubRateLimiter.Allow() {
		log.Warning("the Github rate limit has been reached. Use a token or wait until the limit reset")
		return errors.New(model.ErrCodeRateLimit)
	}

	err := retry.Do(
		call,
		retry.Context(ctx),
		retry.Attempts(s.config.Github.RetryAttempts),
		retry.DelayType(linearBackoff(time.Duration(s.config.Github.RetryDelayMs)*time.Millisecond)),
		retry.RetryIf(isRateLimited),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			log.WithFields(log.Fields{
				"attempt": n + 1,
			}).WithError(err).Warning("github request was rate limited, will retry")
		}),
	)

	if err == nil {
		return nil
	}

	if isRateLimited(err) {
		log.WithError(err).Warning("github rate limit persisted past the retry budget")
		return errors.New(model.ErrCodeRateLimit)
	}

	log.WithError(err).Error("error catched when fetching data from github")
	return errors.New(model.ErrCodeUpstream)
}

// linearBackoff waits base, 2*base, 3*base, ... between attempts
func linearBackoff(base time.Duration) retry.DelayTypeFunc {
	return func(n uint, _ error, _ *retry.Config) time.Duration {
		return time.Duration(n+1) * base
	}
}

// isRateLimited reports whether the upstream answered with a rate-limit-class
// status (403 or 429), the only failures considered transient
func isRateLimited(err error) bool {
	var rateLimitErr *github.RateLimitError
	var abuseErr *github.AbuseRateLimitError

	if errors.As(err, &rateLimitErr) || errors.As(err, &abuseErr) {
		return true
	}

	var responseErr *github.ErrorResponse

	if errors.As(err, &responseErr) && responseErr.Response != nil {
		return responseErr.Response.StatusCode == http.StatusForbidden ||
			responseErr.Response.StatusCode == http.StatusTooManyRequests
	}

	return false
}
