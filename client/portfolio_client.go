// Package client consumes the portfolio backend the way the website does:
// it fetches the aggregate once, retries transient failures with an
// increasing delay, filters out forked and archived repositories, and derives
// the display statistics from the raw payload.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/codeGROOVE-dev/retry"
	"github.com/remeh/sizedwaitgroup"
	log "github.com/sirupsen/logrus"

	"github.com/mk-knight23/portfolio-backend/config"
	"github.com/mk-knight23/portfolio-backend/model"
)

// Portfolio is what the presentation layer consumes: the profile, the kept
// repositories and the statistics derived from the unfiltered payload
type Portfolio struct {
	User  model.UserProfile
	Repos []model.RepositoryRecord
	Stats model.DerivedStats
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	config     config.Config

	// retry shape of the original hook: one call plus three retries with an
	// increasing delay between attempts
	fetchAttempts uint
	retryDelay    time.Duration
}

func New(baseURL string, config config.Config) *Client {
	return &Client{
		baseURL:       baseURL,
		httpClient:    &http.Client{},
		config:        config,
		fetchAttempts: 4,
		retryDelay:    1500 * time.Millisecond,
	}
}

// FetchPortfolio fetches the aggregate for the configured username. Transport
// failures and error responses are retried with an increasing delay until the
// attempt budget runs out. A canceled context stops the loop immediately so a
// torn-down consumer never receives a late result.
func (c *Client) FetchPortfolio(ctx context.Context) (*Portfolio, error) {
	var response model.AggregateResponse

	err := retry.Do(
		func() error {
			return c.postGithubData(ctx, &response)
		},
		retry.Context(ctx),
		retry.Attempts(c.fetchAttempts),
		retry.DelayType(func(n uint, _ error, _ *retry.Config) time.Duration {
			return time.Duration(n+1) * c.retryDelay
		}),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			log.WithFields(log.Fields{
				"attempt": n + 1,
			}).WithError(err).Warning("portfolio fetch failed, will retry")
		}),
	)

	if err != nil {
		return nil, err
	}

	// statistics are derived from the raw set before the fork/archived filter
	stats := model.ComputeStats(response.User, response.Repos)

	kept := make([]model.RepositoryRecord, 0, len(response.Repos))
	for _, repo := range response.Repos {
		if repo.Fork || repo.Archived {
			continue
		}
		kept = append(kept, repo)
	}

	return &Portfolio{
		User:  response.User,
		Repos: kept,
		Stats: stats,
	}, nil
}

func (c *Client) postGithubData(ctx context.Context, response *model.AggregateResponse) error {
	body, err := json.Marshal(map[string]string{"username": c.config.Github.Username})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/github-data", bytes.NewReader(body))
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiError model.APIError
		if err := json.NewDecoder(resp.Body).Decode(&apiError); err == nil && apiError.Error != "" {
			return fmt.Errorf("backend error: %s", apiError.Error)
		}
		return fmt.Errorf("backend answered with status %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(response)
}

// ByCategory filters the kept repositories by gallery category
func (p *Portfolio) ByCategory(category model.Category) []model.RepositoryRecord {
	if category == model.CategoryAll {
		return p.Repos
	}

	filtered := make([]model.RepositoryRecord, 0)

	for _, repo := range p.Repos {
		for _, matched := range model.Categorize(repo) {
			if matched == category {
				filtered = append(filtered, repo)
				break
			}
		}
	}

	return filtered
}

type repositoryImage struct {
	RepositoryID int64
	Image        string
}

// OGImages looks up preview images for a set of repositories with bounded
// parallelism, preferring the homepage over the repository page. Lookups that
// fail or find nothing are simply absent from the result.
func (c *Client) OGImages(ctx context.Context, repos []model.RepositoryRecord) map[int64]string {
	swg := sizedwaitgroup.New(c.config.Tasks.MaxParallelTasksAllowed)
	results := make(chan repositoryImage, len(repos))

	for _, repo := range repos {
		target := repo.HTMLURL
		if repo.Homepage != nil && *repo.Homepage != "" {
			target = *repo.Homepage
		}

		if target == "" {
			continue
		}

		swg.Add()

		go func(repositoryID int64, target string) {
			defer swg.Done()

			image, err := c.fetchOGImage(ctx, target)
			if err != nil || image == "" {
				return
			}

			results <- repositoryImage{RepositoryID: repositoryID, Image: image}
		}(repo.ID, target)
	}

	swg.Wait()
	close(results)

	images := make(map[int64]string)
	for result := range results {
		images[result.RepositoryID] = result.Image
	}

	return images
}

func (c *Client) fetchOGImage(ctx context.Context, target string) (string, error) {
	body, err := json.Marshal(map[string]string{"url": target})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/fetch-og-image", bytes.NewReader(body))
	if err != nil {
		return "", err
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// drain so the connection can be reused
		_, _ = io.Copy(io.Discard, resp.Body)
		return "", fmt.Errorf("backend answered with status %d", resp.StatusCode)
	}

	var response struct {
		OGImage *string `json:"ogImage"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return "", err
	}

	if response.OGImage == nil {
		return "", nil
	}

	return *response.OGImage, nil
}
