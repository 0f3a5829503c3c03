package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"regexp"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/go-github/v66/github"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/mk-knight23/portfolio-backend/config"
	"github.com/mk-knight23/portfolio-backend/controller"
	"github.com/mk-knight23/portfolio-backend/logger"
	"github.com/mk-knight23/portfolio-backend/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Error("unable to load configuration")
	}

	// configure logger
	logger.Setup(*cfg)

	// setup github client
	// we do here and pass the client to Github service to easily improve tests with mock client
	githubClient := github.NewClient(nil)

	if cfg.Github.Token != "" {
		log.Debug("will setup github client with authorization token")
		githubClient = githubClient.WithAuthToken(cfg.Github.Token)
	}

	// setup local rate limiter
	// execute first request to github to fetch current rate limits
	log.Debug("loading current rate limit from github")
	rateLimits, _, err := githubClient.RateLimit.Get(context.Background())
	if err != nil {
		log.WithError(err).Panic("unable to load current github rate limits")
	}

	log.WithFields(log.Fields{
		"totalAvailable":    rateLimits.Core.Limit,
		"remainingRequests": rateLimits.Core.Remaining,
	}).Debug("will setup local rate limiter with rate limits infos from github")

	// setup rate limiter
	// consume X tokens according to the number of remaining tokens
	// this help us to have a right rate limiter even if external requests are made
	rateLimiter := rate.NewLimiter(rate.Every(time.Hour), rateLimits.Core.Limit)

	if !rateLimiter.AllowN(time.Now(), rateLimits.Core.Limit-rateLimits.Core.Remaining) {
		log.WithError(err).Panic("unable to configure the github rate limiter")
	}

	// setup handlers and services
	responseCache := service.NewResponseCache(*cfg)
	githubService := service.NewGithubService(*cfg, githubClient, rateLimiter, responseCache)
	ogImageService := service.NewOGImageService(*cfg)
	apiController := controller.NewAPIController(*cfg, githubService, ogImageService)

	// setup server and define all routes
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	server := &http.Server{
		Addr:    ":" + cfg.API.ListenPort,
		Handler: router,
	}

	// allow the fixed origins plus the preview deployment subdomains
	originPattern := regexp.MustCompile(cfg.CORS.OriginPattern)

	router.Use(
		controller.RequestLogger(),
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

	api := router.Group("")
	{
		api.POST("/github-data", apiController.GetGithubData)
		api.POST("/fetch-og-image", apiController.GetOGImage)
	}

	// start with configuration
	go func() {
		log.Info("server listening on port " + cfg.API.ListenPort)

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("error while starting server")
		}

	}()

	// create context with 15 seconds timeout
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	// wait for interrupt signal to gracefully shut down the server with a timeout of 15 seconds.
	// kill default send syscall.SIGTERM
	// kill -2 is syscall.SIGINT
	quit := make(chan os.Signal, 1)

	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("SIGINT, SIGTERM received, will shut down server ...")

	if err := server.Shutdown(ctx); err != nil {
		log.WithError(err).Error("Server forced to shutdown")
	} else {
		log.Info("Application stopped gracefully !")
	}
}
