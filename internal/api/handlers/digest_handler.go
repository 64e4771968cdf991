package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/andresuchdata/sellerpulse/internal/domain"
	"github.com/andresuchdata/sellerpulse/internal/service"
)

type DigestHandler struct {
	service *service.DigestService
}

func NewDigestHandler(service *service.DigestService) *DigestHandler {
	return &DigestHandler{service: service}
}

func (h *DigestHandler) ListRuns(c *gin.Context) {
	var filter domain.DigestRunFilter

	if raw := c.Query("marketplace"); raw != "" {
		mp, ok := domain.ParseMarketplace(raw)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown marketplace", "details": raw})
			return
		}
		filter.Marketplace = mp
	}
	if raw := c.Query("kind"); raw != "" {
		kind, ok := domain.ParseDigestKind(raw)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid kind", "details": raw})
			return
		}
		filter.Kind = kind
	}
	if limit, err := strconv.Atoi(c.DefaultQuery("limit", "50")); err == nil && limit > 0 {
		filter.Limit = limit
	}

	runs, err := h.service.ListRuns(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list digest runs", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": runs, "total": len(runs)})
}
