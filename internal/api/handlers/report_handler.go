// internal/api/handlers/report_handler.go
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/andresuchdata/sellerpulse/internal/domain"
	"github.com/andresuchdata/sellerpulse/internal/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReportHandler struct {
	service *service.ReportService
}

func NewReportHandler(service *service.ReportService) *ReportHandler {
	return &ReportHandler{service: service}
}

func (h *ReportHandler) parseMarketplace(c *gin.Context) (domain.Marketplace, bool) {
	mp, ok := domain.ParseMarketplace(c.Param("marketplace"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown marketplace", "details": c.Param("marketplace")})
		return "", false
	}
	return mp, true
}

func (h *ReportHandler) parseKind(c *gin.Context) (domain.DigestKind, bool) {
	kind, ok := domain.ParseDigestKind(c.DefaultQuery("kind", string(domain.DigestDaily)))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid kind", "details": c.Query("kind")})
		return "", false
	}
	return kind, true
}

// parsePeriod reads from/to. Without from, the default period of kind is used.
func (h *ReportHandler) parsePeriod(c *gin.Context, kind domain.DigestKind) (domain.Period, bool) {
	from := strings.TrimSpace(c.Query("from"))
	if from == "" {
		return kind.PeriodFor(h.service.Now()), true
	}

	period, err := domain.ParsePeriod(from, strings.TrimSpace(c.Query("to")))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid period", "details": err.Error()})
		return domain.Period{}, false
	}
	return period, true
}

func (h *ReportHandler) fail(c *gin.Context, message string, err error) {
	if errors.Is(err, service.ErrUnknownMarketplace) {
		c.JSON(http.StatusNotFound, gin.H{"error": message, "details": err.Error()})
		return
	}
	log.Error().Err(err).Str("path", c.FullPath()).Msg(message)
	c.JSON(http.StatusInternalServerError, gin.H{"error": message, "details": err.Error()})
}

// InvalidateCache drops cached reports of every marketplace.
func (h *ReportHandler) InvalidateCache(c *gin.Context) {
	if err := h.service.Refresh(c.Request.Context()); err != nil {
		h.fail(c, "failed to invalidate report cache", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ReportHandler) GetFinance(c *gin.Context) {
	mp, ok := h.parseMarketplace(c)
	if !ok {
		return
	}
	period, ok := h.parsePeriod(c, domain.DigestDaily)
	if !ok {
		return
	}

	report, err := h.service.Finance(c.Request.Context(), mp, period)
	if err != nil {
		h.fail(c, "failed to build finance report", err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *ReportHandler) GetStock(c *gin.Context) {
	mp, ok := h.parseMarketplace(c)
	if !ok {
		return
	}

	report, err := h.service.Stock(c.Request.Context(), mp)
	if err != nil {
		h.fail(c, "failed to build stock report", err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *ReportHandler) GetForecast(c *gin.Context) {
	mp, ok := h.parseMarketplace(c)
	if !ok {
		return
	}
	period, ok := h.parsePeriod(c, domain.DigestDaily)
	if !ok {
		return
	}

	result, err := h.service.Forecast(c.Request.Context(), mp, period)
	if err != nil {
		h.fail(c, "failed to build forecast", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *ReportHandler) GetDigest(c *gin.Context) {
	mp, ok := h.parseMarketplace(c)
	if !ok {
		return
	}
	kind, ok := h.parseKind(c)
	if !ok {
		return
	}
	period, ok := h.parsePeriod(c, kind)
	if !ok {
		return
	}

	text, err := h.service.Preview(c.Request.Context(), mp, kind, period)
	if err != nil {
		h.fail(c, "failed to build digest", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"marketplace": mp,
		"kind":        kind,
		"period":      period.String(),
		"text":        text,
	})
}

func (h *ReportHandler) GetExport(c *gin.Context) {
	mp, ok := h.parseMarketplace(c)
	if !ok {
		return
	}
	kind, ok := h.parseKind(c)
	if !ok {
		return
	}
	period, ok := h.parsePeriod(c, kind)
	if !ok {
		return
	}

	data, err := h.service.Export(c.Request.Context(), mp, kind, period)
	if err != nil {
		h.fail(c, "failed to export report", err)
		return
	}

	filename := fmt.Sprintf("%s_%s_%s.xlsx", mp, kind, period.From.Format(domain.DateLayout))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, xlsxContentType, data)
}
