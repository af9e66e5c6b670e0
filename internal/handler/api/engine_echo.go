package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	models "RetailMind/internal/domain/models"
	icache "RetailMind/internal/service/cache"
	svcmetrics "RetailMind/internal/service/metrics"
	"RetailMind/internal/service/ratelimit"
	"RetailMind/internal/usecase"
	xhttp "RetailMind/pkg/http"
	xlogger "RetailMind/pkg/logger"

	"github.com/labstack/echo/v4"
)

const insightsCacheTTL = 30 * time.Second

// EngineEchoHandler exposes the decision-support engine over HTTP.
type EngineEchoHandler struct {
	logger    *xlogger.Logger
	forecasts *usecase.ForecastService
	risks     *usecase.RiskClassifier
	simulator *usecase.SimulationEngine
	insights  *usecase.InsightGenerator
	products  *usecase.CatalogQuery
	limiter   *ratelimit.Limiter
	respCache icache.BytesCache
}

func NewEngineEchoHandler(
	logger *xlogger.Logger,
	forecasts *usecase.ForecastService,
	risks *usecase.RiskClassifier,
	simulator *usecase.SimulationEngine,
	insights *usecase.InsightGenerator,
	products *usecase.CatalogQuery,
	respCache icache.BytesCache,
) *EngineEchoHandler {
	svcmetrics.Register()
	return &EngineEchoHandler{
		logger:    logger,
		forecasts: forecasts,
		risks:     risks,
		simulator: simulator,
		insights:  insights,
		products:  products,
		limiter:   ratelimit.New(),
		respCache: respCache,
	}
}

func (h *EngineEchoHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.Health)

	g := e.Group("/api")
	g.GET("/forecast", h.Forecast)
	g.GET("/risk", h.Risk)
	g.POST("/simulate", h.Simulate)
	g.GET("/insights", h.Insights)
	g.GET("/products", h.Products)
}

func (h *EngineEchoHandler) Health(c echo.Context) error {
	return xhttp.SuccessResponse(c, map[string]string{"status": "ok"})
}

func (h *EngineEchoHandler) Forecast(c echo.Context) error {
	start := time.Now()
	defer func() { svcmetrics.EngineLatency.WithLabelValues("forecast").Observe(time.Since(start).Seconds()) }()

	req := &models.ForecastRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if req.Horizon == 0 {
		req.Horizon = 14
	}

	res, err := h.forecasts.Forecast(c.Request().Context(), req.ProductID, req.Horizon)
	if err != nil {
		return h.engineError(c, "forecast", err)
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=15")
	return xhttp.SuccessResponse(c, res)
}

func (h *EngineEchoHandler) Risk(c echo.Context) error {
	start := time.Now()
	defer func() { svcmetrics.EngineLatency.WithLabelValues("risk").Observe(time.Since(start).Seconds()) }()

	req := &models.RiskRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.risks.Assess(c.Request().Context(), req.ProductID)
	if err != nil {
		return h.engineError(c, "risk", err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *EngineEchoHandler) Simulate(c echo.Context) error {
	start := time.Now()
	defer func() { svcmetrics.EngineLatency.WithLabelValues("simulate").Observe(time.Since(start).Seconds()) }()

	// Simulations are the most expensive call; cap them per client IP.
	if !h.limiter.Allow("simulate:"+c.RealIP(), 10, 5) {
		return xhttp.AppErrorResponse(c, xhttp.NewAppError("rate_limited", "", "too many simulation requests", 429))
	}

	req := &models.SimulateRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if req.Horizon == 0 {
		req.Horizon = 14
	}
	iv := models.Intervention{
		PriceDeltaPct:   req.Intervention.PriceDeltaPct,
		StockDeltaUnits: req.Intervention.StockDeltaUnits,
		PromotionFlag:   req.Intervention.PromotionFlag,
	}

	res, err := h.simulator.Simulate(c.Request().Context(), req.ProductID, iv, req.Horizon)
	if err != nil {
		return h.engineError(c, "simulate", err)
	}
	return xhttp.SuccessResponse(c, struct {
		models.SimulationResult
		Verdict string `json:"verdict"`
	}{SimulationResult: res, Verdict: usecase.Verdict(res)})
}

func (h *EngineEchoHandler) Insights(c echo.Context) error {
	start := time.Now()
	defer func() { svcmetrics.EngineLatency.WithLabelValues("insights").Observe(time.Since(start).Seconds()) }()

	req := &models.InsightsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	ctx := c.Request().Context()
	if req.ProductID != "" {
		res, err := h.insights.ForProduct(ctx, req.ProductID)
		if err != nil {
			return h.engineError(c, "insights", err)
		}
		return xhttp.SuccessResponse(c, []usecase.Insight{res})
	}

	// The catalog-wide digest recomputes every forecast, so serve a short
	// lived cached copy when one exists.
	const cacheKey = "insights:all"
	if h.respCache != nil {
		if b, ok, _ := h.respCache.GetBytes(cacheKey); ok {
			return c.JSONBlob(http.StatusOK, b)
		}
	}

	res, err := h.insights.ForAll(ctx)
	if err != nil {
		return h.engineError(c, "insights", err)
	}
	if h.respCache != nil {
		if b, merr := json.Marshal(xhttp.APIResponse{
			Status:  http.StatusOK,
			Message: http.StatusText(http.StatusOK),
			Data:    res,
		}); merr == nil {
			_ = h.respCache.SetBytes(cacheKey, b, insightsCacheTTL)
		}
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *EngineEchoHandler) Products(c echo.Context) error {
	res, err := h.products.List(c.Request().Context())
	if err != nil {
		return h.engineError(c, "products", err)
	}
	return xhttp.ListResponse(c, res, int64(len(res)))
}

// engineError maps domain errors to HTTP: validation problems are 400,
// missing history is 404, everything else is degraded to 500 without
// taking the process down.
func (h *EngineEchoHandler) engineError(c echo.Context, endpoint string, err error) error {
	svcmetrics.EngineErrors.WithLabelValues(endpoint).Inc()

	var verr *models.ValidationError
	if errors.As(err, &verr) {
		return xhttp.BadRequestResponse(c, map[string]string{"field": verr.Field, "message": verr.Reason})
	}
	var ierr *models.InsufficientDataError
	if errors.As(err, &ierr) {
		return xhttp.AppErrorResponse(c, xhttp.NotFoundErrorf("no sales history for product %s", ierr.ProductID))
	}
	h.logger.Error(endpoint+" usecase error", xlogger.Error(err))
	return xhttp.AppErrorResponse(c, err)
}
