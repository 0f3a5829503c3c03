package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mk-knight23/portfolio-backend/config"
	"github.com/mk-knight23/portfolio-backend/model"
	"github.com/mk-knight23/portfolio-backend/service"
)

type APIController interface {
	GetGithubData(ctx *gin.Context)
	GetOGImage(ctx *gin.Context)
}

type apiController struct {
	githubService  service.GithubService
	ogImageService service.OGImageService
	config         config.Config
}

func NewAPIController(config config.Config, githubService service.GithubService, ogImageService service.OGImageService) APIController {
	return apiController{
		githubService:  githubService,
		ogImageService: ogImageService,
		config:         config,
	}
}

type githubDataRequest struct {
	Username string `json:"username"`
}

type ogImageRequest struct {
	URL string `json:"url"`
}

type ogImageResponse struct {
	OGImage *string `json:"ogImage"`
}

// GetGithubData returns the aggregate profile + repositories payload for the
// requested username
func (s apiController) GetGithubData(c *gin.Context) {
	var request githubDataRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, model.APIError{Error: "a json body with a username field is required"})
		return
	}

	// execute the request
	response, err := s.githubService.GetAggregate(c.Request.Context(), request.Username)
	if err != nil {
		c.JSON(model.StatusCode(err), model.NewAPIError(err))
		return
	}

	c.JSON(http.StatusOK, response)
}

// GetOGImage returns the preview image of an arbitrary page, or null when the
// page has none or cannot be fetched
func (s apiController) GetOGImage(c *gin.Context) {
	var request ogImageRequest
	if err := c.ShouldBindJSON(&request); err != nil || request.URL == "" {
		c.JSON(http.StatusBadRequest, model.APIError{Error: "a json body with a url field is required"})
		return
	}

	image, err := s.ogImageService.FetchOGImage(c.Request.Context(), request.URL)
	if err != nil {
		c.JSON(model.StatusCode(err), model.NewAPIError(err))
		return
	}

	if image == "" {
		c.JSON(http.StatusOK, ogImageResponse{OGImage: nil})
		return
	}

	c.JSON(http.StatusOK, ogImageResponse{OGImage: &image})
}
