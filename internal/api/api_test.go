package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andresuchdata/sellerpulse/internal/cache"
	"github.com/andresuchdata/sellerpulse/internal/classify"
	"github.com/andresuchdata/sellerpulse/internal/domain"
	"github.com/andresuchdata/sellerpulse/internal/ingest"
	"github.com/andresuchdata/sellerpulse/internal/pipeline"
	"github.com/andresuchdata/sellerpulse/internal/pipeline/finance"
	"github.com/andresuchdata/sellerpulse/internal/service"
)

var now = time.Date(2026, 10, 17, 6, 0, 0, 0, time.UTC)

type stubSource struct {
	periods []domain.Period
}

func (s *stubSource) Marketplace() domain.Marketplace { return domain.MarketplaceWildberries }
func (s *stubSource) Classifier() finance.Classifier  { return classify.Wildberries }
func (s *stubSource) Policy() finance.Policy           { return finance.Policy{NetFromPaid: true} }
func (s *stubSource) LedgerStart(domain.Period) ingest.Cursor {
	return ingest.Cursor{}
}
func (s *stubSource) StockStart(time.Time) ingest.Cursor { return ingest.Cursor{} }

func (s *stubSource) FetchLedger(_ context.Context, p domain.Period, _ ingest.Cursor) (ingest.Page[domain.RawRecord], error) {
	s.periods = append(s.periods, p)
	return ingest.Page[domain.RawRecord]{Records: []domain.RawRecord{
		{Key: "1", Operation: "Продажа", SKU: "A", Gross: 1500, NetPaid: 1200, HasNetPaid: true},
	}}, nil
}

func (s *stubSource) FetchStock(context.Context, ingest.Cursor) (ingest.Page[domain.StockRecord], error) {
	return ingest.Page[domain.StockRecord]{Records: []domain.StockRecord{
		{Key: "A|1", SKU: "A", Warehouse: "1", Quantity: 40, LastChange: now},
	}}, nil
}

func newTestRouter(t *testing.T) (*gin.Engine, *stubSource, *service.DigestService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	src := &stubSource{}
	reports := service.NewReportService(
		pipeline.NewRunner(pipeline.DefaultConfig()),
		service.Sources{domain.MarketplaceWildberries: src},
		cache.NewNoopReportCache(),
	).WithClock(func() time.Time { return now })
	digests := service.NewDigestService(service.DigestDeps{Reports: reports})

	return NewRouter(&Services{ReportService: reports, DigestService: digests}, []string{"*"}), src, digests
}

func get(router http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	router.ServeHTTP(w, req)
	return w
}

func TestFinanceEndpoint(t *testing.T) {
	router, src, _ := newTestRouter(t)

	w := get(router, "/api/v1/marketplaces/wildberries/finance?from=2026-10-01&to=2026-10-07")
	require.Equal(t, http.StatusOK, w.Code)

	var report domain.PeriodReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.Equal(t, domain.MarketplaceWildberries, report.Marketplace)
	assert.Equal(t, 1500.0, report.GrossRevenue)
	assert.Equal(t, 1200.0, report.NetRevenue)

	require.Len(t, src.periods, 1)
	assert.Equal(t, "2026-10-01 - 2026-10-07", src.periods[0].String())
}

func TestFinanceEndpointDefaultsToYesterday(t *testing.T) {
	router, src, _ := newTestRouter(t)

	w := get(router, "/api/v1/marketplaces/wb/finance")
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, src.periods, 1)
	assert.Equal(t, "2026-10-16", src.periods[0].String())
}

func TestFinanceEndpointErrors(t *testing.T) {
	router, _, _ := newTestRouter(t)

	assert.Equal(t, http.StatusNotFound, get(router, "/api/v1/marketplaces/amazon/finance").Code)
	assert.Equal(t, http.StatusBadRequest, get(router, "/api/v1/marketplaces/wb/finance?from=yesterday").Code)
	assert.Equal(t, http.StatusBadRequest, get(router, "/api/v1/marketplaces/wb/finance?from=2026-10-07&to=2026-10-01").Code)
}

func TestUnconfiguredMarketplaceReturnsSkippedReport(t *testing.T) {
	router, _, _ := newTestRouter(t)

	w := get(router, "/api/v1/marketplaces/ozon/finance")
	require.Equal(t, http.StatusOK, w.Code)

	var report domain.PeriodReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.Equal(t, domain.RunStatusSkipped, report.Diagnostics.Status)
}

func TestStockAndForecastEndpoints(t *testing.T) {
	router, _, _ := newTestRouter(t)

	w := get(router, "/api/v1/marketplaces/wb/stock")
	require.Equal(t, http.StatusOK, w.Code)
	var stock domain.StockReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stock))
	assert.Equal(t, 40, stock.TotalUnits)

	w = get(router, "/api/v1/marketplaces/wb/forecast")
	require.Equal(t, http.StatusOK, w.Code)
	var forecast domain.ForecastResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &forecast))
	require.Len(t, forecast.Entries, 1)
	assert.Equal(t, "A", forecast.Entries[0].SKU)
}

func TestDigestAndExportEndpoints(t *testing.T) {
	router, _, _ := newTestRouter(t)

	w := get(router, "/api/v1/marketplaces/wb/digest?kind=weekly")
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Period string `json:"period"`
		Text   string `json:"text"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "2026-10-05 - 2026-10-11", body.Period)
	assert.Contains(t, body.Text, "*Wildberries weekly digest")

	assert.Equal(t, http.StatusBadRequest, get(router, "/api/v1/marketplaces/wb/digest?kind=monthly").Code)

	w = get(router, "/api/v1/marketplaces/wb/export")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "wb_daily_2026-10-16.xlsx")
	assert.NotZero(t, w.Body.Len())
}

func TestDigestRunsEndpoint(t *testing.T) {
	router, _, digests := newTestRouter(t)

	_, err := digests.Run(context.Background(), domain.MarketplaceWildberries, domain.DigestDaily)
	require.NoError(t, err)

	w := get(router, "/api/v1/digest-runs?marketplace=wb")
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Data  []domain.DigestRun `json:"data"`
		Total int                `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Total)

	assert.Equal(t, http.StatusBadRequest, get(router, "/api/v1/digest-runs?kind=hourly").Code)
}

func TestNormalizeAllowedOrigins(t *testing.T) {
	origins, all := normalizeAllowedOrigins([]string{"http://a.test, http://b.test", ""})
	assert.False(t, all)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, origins)

	_, all = normalizeAllowedOrigins([]string{"*"})
	assert.True(t, all)
}

func TestInvalidateCacheEndpoint(t *testing.T) {
	gin.SetMode(gin.TestMode)
	src := &stubSource{}
	reports := service.NewReportService(
		pipeline.NewRunner(pipeline.DefaultConfig()),
		service.Sources{domain.MarketplaceWildberries: src},
		cache.NewMemoryReportCache(time.Hour, func() time.Time { return now }),
	).WithClock(func() time.Time { return now })
	router := NewRouter(&Services{ReportService: reports}, nil)

	require.Equal(t, http.StatusOK, get(router, "/api/v1/marketplaces/wb/finance").Code)
	require.Equal(t, http.StatusOK, get(router, "/api/v1/marketplaces/wb/finance").Code)
	require.Len(t, src.periods, 1)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/cache/invalidate", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)

	require.Equal(t, http.StatusOK, get(router, "/api/v1/marketplaces/wb/finance").Code)
	assert.Len(t, src.periods, 2)
}
