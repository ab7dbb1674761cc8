package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/layer-3/amicbridge/service"
	"go.uber.org/zap"
)

// SetupRouter sets up the Gin router. metricsHandler may be nil.
func SetupRouter(
	verification *service.VerificationService,
	trust *service.TrustService,
	metricsHandler http.Handler,
	log *zap.Logger,
) *gin.Engine {
	router := gin.New()
	router.Use(RequestIDMiddleware(), LoggerMiddleware(log), RecoveryMiddleware(log))

	handlers := NewHandlers(verification, trust, log)

	router.GET("/health", handlers.Health)
	router.GET("/challenge", handlers.Challenge)
	router.POST("/verify", handlers.Verify)
	router.GET("/trust-score", handlers.TrustScore)

	// Paths used by the original web client
	api := router.Group("/api")
	{
		api.POST("/verify-wallets", handlers.Verify)
		api.GET("/trust-score", handlers.TrustScore)
	}

	if metricsHandler != nil {
		router.GET("/metrics", gin.WrapH(metricsHandler))
	}

	return router
}
