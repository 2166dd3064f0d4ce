package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/numderiv/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/numderiv/internal/infrastructure/tracing"
	"github.com/GriffinCanCode/numderiv/internal/providers/math/common"
	"github.com/GriffinCanCode/numderiv/internal/service"
	"github.com/GriffinCanCode/numderiv/internal/shared/id"
	"github.com/GriffinCanCode/numderiv/internal/shared/types"
)

// Version is reported by the root endpoint
const Version = "0.1.0"

// Handlers contains all HTTP handlers
type Handlers struct {
	registry *service.Registry
	ops      *common.MathOps
	metrics  *monitoring.Metrics
	logger   *zap.Logger
}

// NewHandlers creates a new handler set. ops backs the export endpoint, which
// streams a file instead of going through the registry.
func NewHandlers(registry *service.Registry, ops *common.MathOps, metrics *monitoring.Metrics, logger *zap.Logger) *Handlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handlers{
		registry: registry,
		ops:      ops,
		metrics:  metrics,
		logger:   logger,
	}
}

// Register mounts every route on router
func (h *Handlers) Register(router gin.IRouter) {
	router.GET("/", h.Root)
	router.GET("/health", h.Health)

	expressions := router.Group("/expressions")
	expressions.GET("/functions", h.Functions)
	expressions.POST("/validate", h.Validate)
	expressions.POST("/evaluate", h.Evaluate)

	derivatives := router.Group("/derivatives")
	derivatives.POST("/point", h.Point)
	derivatives.POST("/range", h.Range)
	derivatives.POST("/points", h.Points)
	derivatives.POST("/export", h.Export)

	router.GET("/services", h.ListServices)
	router.POST("/services/discover", h.DiscoverServices)
	router.POST("/services/execute", h.ExecuteService)
}

// Root handles the liveness check
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "numderiv",
		"version": Version,
	})
}

// Health handles detailed health check
func (h *Handlers) Health(c *gin.Context) {
	body := gin.H{
		"status":           "healthy",
		"service_registry": h.registry.Stats(),
	}
	if h.metrics != nil {
		body["metrics"] = h.metrics.Snapshot()
	}
	c.JSON(http.StatusOK, body)
}

// ListServices lists all available services
func (h *Handlers) ListServices(c *gin.Context) {
	var category *types.Category
	if raw := strings.TrimSpace(c.Query("category")); raw != "" {
		cat := types.Category(raw)
		category = &cat
	}

	c.JSON(http.StatusOK, gin.H{
		"services": h.registry.List(category),
		"stats":    h.registry.Stats(),
	})
}

// DiscoverServices ranks tools against a free-text query
func (h *Handlers) DiscoverServices(c *gin.Context) {
	var req struct {
		Query string `json:"query" binding:"required"`
		Limit int    `json:"limit"`
	}
	if !bind(c, &req) {
		return
	}
	if req.Limit <= 0 || req.Limit > 20 {
		req.Limit = 5
	}

	c.JSON(http.StatusOK, gin.H{
		"query": req.Query,
		"tools": h.registry.Discover(req.Query, req.Limit),
	})
}

// ExecuteService executes a registry tool and returns its result envelope
func (h *Handlers) ExecuteService(c *gin.Context) {
	var req types.ExecuteRequest
	if !bind(c, &req) {
		return
	}

	result, ok := h.execute(c, req.ToolID, req.Params)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, result)
}

// execute runs a tool with timing and writes a 400 when the tool cannot be routed
func (h *Handlers) execute(c *gin.Context, toolID string, params map[string]interface{}) (*types.Result, bool) {
	ctx := c.Request.Context()

	var timer *monitoring.Timer
	if h.metrics != nil {
		service, _, _ := strings.Cut(toolID, ".")
		timer = monitoring.NewTimer(h.metrics, service, toolID)
	}

	result, err := h.registry.Execute(ctx, toolID, params, appContext(ctx))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return nil, false
	}

	if timer != nil {
		kind := ""
		if result.Kind != nil {
			kind = *result.Kind
		}
		timer.Stop(result.Success, kind)
	}
	if !result.Success {
		h.logger.Debug("Tool failed",
			zap.String("tool", toolID),
			zap.Stringp("kind", result.Kind),
			zap.Stringp("error", result.Error),
		)
	}
	return result, true
}

// respond writes the tool data on success, or the failure envelope with the
// status its kind maps to
func (h *Handlers) respond(c *gin.Context, toolID string, params map[string]interface{}) {
	result, ok := h.execute(c, toolID, params)
	if !ok {
		return
	}
	if result.Success {
		c.JSON(http.StatusOK, result.Data)
		return
	}
	c.JSON(statusFor(result.Kind), result)
}

// statusFor maps an error kind to an HTTP status
func statusFor(kind *string) int {
	if kind == nil {
		return http.StatusBadRequest
	}
	switch *kind {
	case "unsafe", "syntax", "evaluation":
		return http.StatusUnprocessableEntity
	case "canceled":
		return http.StatusServiceUnavailable
	}
	return http.StatusBadRequest
}

func bind(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request: " + err.Error()})
		return false
	}
	return true
}

func appContext(ctx context.Context) *types.Context {
	reqID := id.NewRequestID().String()
	appCtx := &types.Context{RequestID: &reqID}
	if traceID := tracing.GetTraceID(ctx); traceID != "" {
		s := traceID.String()
		appCtx.TraceID = &s
	}
	return appCtx
}
