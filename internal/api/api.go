// internal/api/api.go
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/andresuchdata/sellerpulse/internal/api/handlers"
	"github.com/andresuchdata/sellerpulse/internal/api/middleware"
	"github.com/andresuchdata/sellerpulse/internal/service"
)

type Services struct {
	ReportService *service.ReportService
	DigestService *service.DigestService
}

func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	// Add middleware
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiGroup := router.Group("/api/v1")

	if services != nil {
		if services.ReportService != nil {
			reportHandler := handlers.NewReportHandler(services.ReportService)
			marketplaceGroup := apiGroup.Group("/marketplaces/:marketplace")
			{
				marketplaceGroup.GET("/finance", reportHandler.GetFinance)
				marketplaceGroup.GET("/stock", reportHandler.GetStock)
				marketplaceGroup.GET("/forecast", reportHandler.GetForecast)
				marketplaceGroup.GET("/digest", reportHandler.GetDigest)
				marketplaceGroup.GET("/export", reportHandler.GetExport)
			}
			apiGroup.POST("/cache/invalidate", reportHandler.InvalidateCache)
		}

		if services.DigestService != nil {
			digestHandler := handlers.NewDigestHandler(services.DigestService)
			apiGroup.GET("/digest-runs", digestHandler.ListRuns)
		}
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		parts := strings.Split(origin, ",")
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
