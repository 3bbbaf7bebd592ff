package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"srhbot/middleware"
)

// NewRouter builds the Gin engine with middlewares and routes. metricsHandler
// and obs may be nil when metrics are disabled.
func NewRouter(handler *APIHandler, obs middleware.RequestObserver, metricsHandler http.Handler) *gin.Engine {
	r := gin.New()
	r.SetTrustedProxies(nil)

	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Cors())
	if obs != nil {
		r.Use(middleware.Metrics(obs))
	}

	r.GET("/healthz", handler.HealthHandler)
	if metricsHandler != nil {
		r.GET("/metrics", gin.WrapH(metricsHandler))
	}

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/init", handler.InitHandler)
		apiGroup.POST("/chat", handler.ChatHandler)
		apiGroup.POST("/analyze", handler.AnalyzeHandler)
		apiGroup.GET("/hotlines", handler.HotlinesHandler)
		apiGroup.GET("/suggestions", handler.SuggestionsHandler)
		apiGroup.GET("/topics", handler.TopicsHandler)
		apiGroup.GET("/history/:userID", handler.HistoryHandler)

		profileGroup := apiGroup.Group("/profile")
		{
			profileGroup.GET("/:userID", handler.GetProfileHandler)
			profileGroup.PUT("/:userID", handler.UpdateProfileHandler)
		}
	}
	return r
}
