package router

import (
	"net/http"
	"time"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/unrolled/secure"
	"go.uber.org/zap"

	"github.com/nicolippi7-boop/sensory-lab-sub000/internal/config"
	"github.com/nicolippi7-boop/sensory-lab-sub000/internal/handlers"
	"github.com/nicolippi7-boop/sensory-lab-sub000/internal/services"
	"github.com/nicolippi7-boop/sensory-lab-sub000/internal/session"
)

func keyFunc(c *gin.Context) string {
	return c.ClientIP()
}
func errorHandler(c *gin.Context, info ratelimit.Info) {
	c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many requests, try again later"})
}

func Setup(log *zap.Logger, mgr *session.Manager) *gin.Engine {
	// Set up a new Gin router, add recovery middleware and request logging.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger(log))

	registerValidators()

	store := cookie.NewStore([]byte(config.Conf.Server.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		HttpOnly: true,
		Secure:   false, // Set to true in production
		SameSite: http.SameSiteLaxMode,
		MaxAge:   86400 * 7,
	})
	router.Use(sessions.Sessions("panelsession", store))

	router.Use(CSRFProtection())

	secureMiddleware := secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
	})
	router.Use(func(c *gin.Context) {
		err := secureMiddleware.Process(c.Writer, c.Request)
		if err != nil {
			c.Abort()
			return
		}
	})

	// Handlers and routes
	testsHandler := handlers.NewTestsHandler(log)
	runnerHandler := handlers.NewRunnerHandler(log, mgr)
	reviewHandler := handlers.NewReviewHandler(log)
	aiHandler := handlers.NewAIHandler(log, services.NewAIService(log))

	// The text-generation endpoints are metered; everything else is local.
	rateLimitStore := ratelimit.InMemoryStore(&ratelimit.InMemoryOptions{
		Rate:  time.Minute,
		Limit: 5,
	})
	limiter := ratelimit.RateLimiter(rateLimitStore, &ratelimit.Options{
		ErrorHandler: errorHandler,
		KeyFunc:      keyFunc,
	})

	api := router.Group("/api")
	{
		api.GET("/csrf", CSRFToken)

		tests := api.Group("/tests")
		{
			tests.POST("", testsHandler.Create)
			tests.GET("", testsHandler.List)
			tests.GET("/:id", testsHandler.Get)
			tests.PUT("/:id", testsHandler.Update)
			tests.POST("/:id/close", testsHandler.Close)
			tests.DELETE("/:id", testsHandler.Delete)

			tests.GET("/:id/vocabulary", testsHandler.ListVocabulary)
			tests.DELETE("/:id/vocabulary", testsHandler.RemoveVocabularyWord)

			tests.GET("/:id/results", testsHandler.ListResults)
			tests.DELETE("/:id/results", testsHandler.DeleteResults)
			tests.GET("/:id/review", reviewHandler.Review)
			tests.GET("/:id/review/dominance", reviewHandler.DominanceCurve)
			tests.GET("/:id/review/intensity", reviewHandler.IntensityCurve)
		}

		run := api.Group("/run")
		{
			run.POST("/start", runnerHandler.Start)
			run.GET("", runnerHandler.Snapshot)
			run.DELETE("", runnerHandler.Exit)
			run.POST("/advance", runnerHandler.Advance)
			run.POST("/submit", runnerHandler.Submit)

			run.POST("/rate", runnerHandler.Rate)
			run.POST("/check", runnerHandler.ToggleCheck)
			run.POST("/applicable", runnerHandler.ToggleApplicable)
			run.POST("/select", runnerHandler.Select)

			flash := run.Group("/flash")
			{
				flash.POST("/word", runnerHandler.AddFlashWord)
				flash.DELETE("/word", runnerHandler.RemoveFlashWord)
				flash.POST("/associate", runnerHandler.AssociateFlash)
				flash.POST("/dissociate", runnerHandler.DissociateFlash)
				flash.POST("/rate", runnerHandler.RateFlash)
			}

			triangle := run.Group("/triangle")
			{
				triangle.POST("/select", runnerHandler.TriangleSelect)
				triangle.POST("/forced", runnerHandler.TriangleForced)
				triangle.POST("/details", runnerHandler.TriangleDetails)
				triangle.POST("/next", runnerHandler.TriangleNext)
				triangle.POST("/back", runnerHandler.TriangleBack)
				triangle.POST("/confirm", runnerHandler.TriangleConfirm)
			}

			groups := run.Group("/groups")
			{
				groups.POST("", runnerHandler.AddGroup)
				groups.DELETE("", runnerHandler.RemoveGroup)
				groups.POST("/assign", runnerHandler.AssignGroup)
			}

			run.POST("/place", runnerHandler.Place)

			clock := run.Group("/clock")
			{
				clock.POST("/start", runnerHandler.ClockStart)
				clock.POST("/stop", runnerHandler.ClockStop)
				clock.POST("/reset", runnerHandler.ClockReset)
			}

			run.POST("/dominant", runnerHandler.MarkDominant)
			run.POST("/intensity", runnerHandler.SetIntensity)
			run.POST("/track", runnerHandler.TrackAttribute)
		}

		ai := api.Group("/ai")
		{
			ai.POST("/suggest", limiter, aiHandler.Suggest)
			ai.POST("/analyze", limiter, aiHandler.Analyze)
		}
	}

	return router
}
