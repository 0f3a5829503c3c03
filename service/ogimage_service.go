package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/mk-knight23/portfolio-backend/config"
	"github.com/mk-knight23/portfolio-backend/model"
)

type OGImageService interface {
	FetchOGImage(ctx context.Context, rawURL string) (string, error)
}

type ogImageService struct {
	httpClient *http.Client
	config     config.Config
}

func NewOGImageService(config config.Config) OGImageService {
	return ogImageService{
		httpClient: &http.Client{
			Timeout: time.Duration(config.OGImage.TimeoutSeconds) * time.Second,
		},
		config: config,
	}
}

// meta tags can carry their attributes in either order
var ogImagePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)<meta[^>]*property=["']og:image["'][^>]*content=["']([^"']+)["']`),
	regexp.MustCompile(`(?i)<meta[^>]*content=["']([^"']+)["'][^>]*property=["']og:image["']`),
	regexp.MustCompile(`(?i)<meta[^>]*name=["']twitter:image["'][^>]*content=["']([^"']+)["']`),
	regexp.MustCompile(`(?i)<meta[^>]*content=["']([^"']+)["'][^>]*name=["']twitter:image["']`),
}

var headCloseMarker = []byte("</head>")

// FetchOGImage fetches the first part of a page and extracts its Open-Graph
// or Twitter-card image URL. An unreachable page or a page without an image
// both come back as an empty string, only an invalid URL is an error.
func (s ogImageService) FetchOGImage(ctx context.Context, rawURL string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return "", errors.New(model.ErrCodeInvalidURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", errors.New(model.ErrCodeInvalidURL)
	}

	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; OGImageBot/1.0)")
	req.Header.Set("Accept", "text/html")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		log.WithField("url", rawURL).WithError(err).Debug("unable to fetch page for og image lookup")
		return "", nil
	}

	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.WithFields(log.Fields{
			"url":    rawURL,
			"status": resp.StatusCode,
		}).Debug("page answered with non success status for og image lookup")
		return "", nil
	}

	head, err := readHead(resp.Body, s.config.OGImage.MaxBodyBytes)
	if err != nil {
		log.WithField("url", rawURL).WithError(err).Debug("unable to read page body for og image lookup")
		return "", nil
	}

	return extractOGImage(head), nil
}

// readHead reads at most maxBytes from the body, stopping early once the
// document head closes: the meta tags we look for live there
func readHead(r io.Reader, maxBytes int) ([]byte, error) {
	var buf bytes.Buffer
	chunk := make([]byte, 4096)

	for buf.Len() < maxBytes {
		n, err := r.Read(chunk)

		if n > 0 {
			buf.Write(chunk[:n])

			if bytes.Contains(buf.Bytes(), headCloseMarker) {
				break
			}
		}

		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return buf.Bytes(), err
		}
	}

	return buf.Bytes(), nil
}

// extractOGImage returns the first matching image URL, og:image before the
// twitter:image fallback, or an empty string
func extractOGImage(head []byte) string {
	for _, pattern := range ogImagePatterns {
		if match := pattern.FindSubmatch(head); match != nil {
			return string(match[1])
		}
	}

	return ""
}
