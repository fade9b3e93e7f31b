package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/akshay-gocharting/gocharting-sdk-demo/internal/datafeed"
	"github.com/akshay-gocharting/gocharting-sdk-demo/internal/model"
)

// GetSymbol handles GET /api/v1/symbols/:name requests
func (h *APIHandler) GetSymbol(c *gin.Context) {
	name, err := h.validator.ValidateSymbolName(c.Param("name"))
	if err != nil {
		h.handleValidationError(c, err)
		return
	}

	var (
		resolved model.SymbolInfo
		reason   string
		ok       bool
	)
	h.feed.ResolveSymbol(name,
		func(info model.SymbolInfo) { resolved, ok = info, true },
		func(r string) { reason = r })

	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": reason})
		return
	}

	c.JSON(http.StatusOK, resolved)
}

// SearchSymbols handles GET /api/v1/search requests
func (h *APIHandler) SearchSymbols(c *gin.Context) {
	query := c.Query("query")

	matches := h.feed.SearchSymbols(query)

	c.JSON(http.StatusOK, matches)
}

// GetBars handles GET /api/v1/bars requests. The response mirrors the
// datafeed's tristate: "ok" with bars, "no_data", or a 5xx on error.
func (h *APIHandler) GetBars(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), DefaultTimeout)
	defer cancel()

	req, err := h.validator.ValidateBarsRequest(
		c.Query("symbol"),
		c.Query("resolution"),
		c.Query("from"),
		c.Query("to"),
	)
	if err != nil {
		h.handleValidationError(c, err)
		return
	}

	var (
		symbolInfo model.SymbolInfo
		reason     string
		resolvedOK bool
	)
	h.feed.ResolveSymbol(req.Symbol,
		func(info model.SymbolInfo) { symbolInfo, resolvedOK = info, true },
		func(r string) { reason = r })
	if !resolvedOK {
		c.JSON(http.StatusNotFound, gin.H{"error": reason})
		return
	}

	result := h.feed.GetBars(ctx, symbolInfo, req.Resolution, req.From, req.To)
	switch result.Status {
	case datafeed.StatusOK:
		c.JSON(http.StatusOK, gin.H{"s": result.Status.String(), "bars": result.Bars})
	case datafeed.StatusNoData:
		c.JSON(http.StatusOK, gin.H{"s": result.Status.String()})
	default:
		h.handleError(c, result.Err, http.StatusInternalServerError, "Internal server error")
	}
}

// ChartStatus handles GET /status requests
func (h *APIHandler) ChartStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": h.chartHost.Status()})
}

// HealthCheck handles GET /health requests
func (h *APIHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "OK",
		"service":   ServiceName,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   ServiceVersion,
	})
}

// handleError logs the error and sends an appropriate HTTP response
func (h *APIHandler) handleError(c *gin.Context, err error, statusCode int, userMessage string) {
	requestID, exists := c.Get(RequestIDContextKey)
	requestIDStr := "unknown"
	if exists {
		if id, ok := requestID.(string); ok {
			requestIDStr = id
		}
	}

	h.logger.Error("API error",
		slog.String("request_id", requestIDStr),
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
		slog.String("error", err.Error()),
		slog.Int("status_code", statusCode),
	)

	c.JSON(statusCode, gin.H{
		"error":      userMessage,
		"request_id": requestIDStr,
	})
}

// handleValidationError handles validation errors specifically
func (h *APIHandler) handleValidationError(c *gin.Context, err error) {
	h.handleError(c, err, http.StatusBadRequest, err.Error())
}
