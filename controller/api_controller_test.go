package controller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/mk-knight23/portfolio-backend/config"
	"github.com/mk-knight23/portfolio-backend/model"
)

type stubGithubService struct {
	response model.AggregateResponse
	err      error
	calls    int
}

func (s *stubGithubService) GetAggregate(_ context.Context, _ string) (model.AggregateResponse, error) {
	s.calls++

	if s.err != nil {
		return model.AggregateResponse{}, s.err
	}

	return s.response, nil
}

type stubOGImageService struct {
	image string
	err   error
}

func (s *stubOGImageService) FetchOGImage(_ context.Context, _ string) (string, error) {
	return s.image, s.err
}

// setupRouter builds a router with the same middleware chain as main
func setupRouter(githubService *stubGithubService, ogImageService *stubOGImageService) *gin.Engine {
	cfg := config.GetDefault()

	gin.SetMode(gin.TestMode)
	router := gin.New()

	originPattern := regexp.MustCompile(cfg.CORS.OriginPattern)

	router.Use(
		RequestLogger(),
		cors.New(cors.Config{
			AllowOriginFunc: func(origin string) bool {
				for _, allowed := range cfg.CORS.AllowedOrigins {
					if origin == allowed {
						return true
					}
				}
				return originPattern.MatchString(origin)
			},
			AllowMethods: []string{"POST", "OPTIONS"},
			AllowHeaders: []string{"Authorization", "X-Client-Info", "Apikey", "Content-Type"},
			MaxAge:       12 * time.Hour,
		}),
	)

	apiController := NewAPIController(*cfg, githubService, ogImageService)

	router.POST("/github-data", apiController.GetGithubData)
	router.POST("/fetch-og-image", apiController.GetOGImage)

	return router
}

// TestGetGithubData will test the /github-data endpoint
func TestGetGithubData(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		serviceErr     error
		expectedStatus int
	}{
		{
			name:           "Success",
			body:           `{"username": "mk-knight23"}`,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Invalid username",
			body:           `{"username": "-bad-"}`,
			serviceErr:     errors.New(model.ErrCodeInvalidUsername),
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Rate limit exhausted",
			body:           `{"username": "mk-knight23"}`,
			serviceErr:     errors.New(model.ErrCodeRateLimit),
			expectedStatus: http.StatusInternalServerError,
		},
		{
			name:           "Upstream failure",
			body:           `{"username": "mk-knight23"}`,
			serviceErr:     errors.New(model.ErrCodeUpstream),
			expectedStatus: http.StatusInternalServerError,
		},
		{
			name:           "Malformed body",
			body:           `{"username":`,
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			githubService := &stubGithubService{
				response: model.AggregateResponse{
					User:  model.UserProfile{Login: "mk-knight23"},
					Repos: []model.RepositoryRecord{{ID: 1, Name: "ai-chatbot"}},
				},
				err: tt.serviceErr,
			}

			router := setupRouter(githubService, &stubOGImageService{})

			recorder := httptest.NewRecorder()
			request := httptest.NewRequest(http.MethodPost, "/github-data", strings.NewReader(tt.body))
			request.Header.Set("Content-Type", "application/json")

			router.ServeHTTP(recorder, request)

			assert.Equal(t, tt.expectedStatus, recorder.Code)
			assert.NotEmpty(t, recorder.Header().Get("X-Request-ID"))

			if tt.expectedStatus == http.StatusOK {
				var response model.AggregateResponse
				assert.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
				assert.Equal(t, "mk-knight23", response.User.Login)
				assert.Len(t, response.Repos, 1)
			} else {
				var apiError model.APIError
				assert.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &apiError))
				assert.NotEmpty(t, apiError.Error)
			}
		})
	}
}

// TestGetOGImage will test the /fetch-og-image endpoint
func TestGetOGImage(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		stub           *stubOGImageService
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "Image found",
			body:           `{"url": "https://example.com"}`,
			stub:           &stubOGImageService{image: "https://example.com/preview.png"},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"ogImage":"https://example.com/preview.png"}`,
		},
		{
			name:           "No image on page",
			body:           `{"url": "https://example.com"}`,
			stub:           &stubOGImageService{},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"ogImage":null}`,
		},
		{
			name:           "Invalid url",
			body:           `{"url": "ftp://example.com"}`,
			stub:           &stubOGImageService{err: errors.New(model.ErrCodeInvalidURL)},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Missing url",
			body:           `{}`,
			stub:           &stubOGImageService{},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupRouter(&stubGithubService{}, tt.stub)

			recorder := httptest.NewRecorder()
			request := httptest.NewRequest(http.MethodPost, "/fetch-og-image", strings.NewReader(tt.body))
			request.Header.Set("Content-Type", "application/json")

			router.ServeHTTP(recorder, request)

			assert.Equal(t, tt.expectedStatus, recorder.Code)

			if tt.expectedBody != "" {
				assert.JSONEq(t, tt.expectedBody, recorder.Body.String())
			}
		})
	}
}

// TestPreflight checks the cross-origin capability negotiation: allowed
// origins get an empty 2xx carrying the CORS headers
func TestPreflight(t *testing.T) {
	tests := []struct {
		name           string
		origin         string
		expectedStatus int
		allowed        bool
	}{
		{
			name:           "Fixed allow-list origin",
			origin:         "http://localhost:3000",
			expectedStatus: http.StatusNoContent,
			allowed:        true,
		},
		{
			name:           "Preview deployment origin",
			origin:         "https://my-preview-42.lovableproject.com",
			expectedStatus: http.StatusNoContent,
			allowed:        true,
		},
		{
			name:           "Unknown origin",
			origin:         "https://evil.example.com",
			expectedStatus: http.StatusForbidden,
			allowed:        false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupRouter(&stubGithubService{}, &stubOGImageService{})

			recorder := httptest.NewRecorder()
			request := httptest.NewRequest(http.MethodOptions, "/github-data", nil)
			request.Header.Set("Origin", tt.origin)
			request.Header.Set("Access-Control-Request-Method", http.MethodPost)
			request.Header.Set("Access-Control-Request-Headers", "content-type")

			router.ServeHTTP(recorder, request)

			assert.Equal(t, tt.expectedStatus, recorder.Code)
			assert.Empty(t, recorder.Body.String())

			if tt.allowed {
				assert.Equal(t, tt.origin, recorder.Header().Get("Access-Control-Allow-Origin"))
				assert.Contains(t, recorder.Header().Get("Access-Control-Allow-Headers"), "Content-Type")
			} else {
				assert.Empty(t, recorder.Header().Get("Access-Control-Allow-Origin"))
			}
		})
	}
}

// TestPreflightDoesNotHitServices checks OPTIONS is answered by the
// middleware, not the handlers
func TestPreflightDoesNotHitServices(t *testing.T) {
	githubService := &stubGithubService{}
	router := setupRouter(githubService, &stubOGImageService{})

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodOptions, "/github-data", nil)
	request.Header.Set("Origin", "http://localhost:3000")
	request.Header.Set("Access-Control-Request-Method", http.MethodPost)

	router.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusNoContent, recorder.Code)
	assert.Equal(t, 0, githubService.calls)
}
