package api

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/akshay-gocharting/gocharting-sdk-demo/internal/datafeed"
	"github.com/akshay-gocharting/gocharting-sdk-demo/internal/model"
)

// This file is the entry point for the API package: it defines the handler
// struct, its dependencies, and the route table. The HTTP handlers, the
// middleware, the request validation, and the WebSocket stream live in
// handler.go, middleware.go, validator.go, and stream.go respectively.

// Constants
const (
	DefaultTimeout      = 30 * time.Second
	ServiceVersion      = "1.0.0"
	ServiceName         = "gocharting-demo-feed"
	RequestIDContextKey = "request_id"
	RequestIDHeaderKey  = "X-Request-ID"
)

// ChartFeed is the datafeed contract the API serves over HTTP
type ChartFeed interface {
	ResolveSymbol(name string, onResolve func(model.SymbolInfo), onError func(reason string))
	SearchSymbols(query string) []model.SymbolInfo
	GetBars(ctx context.Context, symbolInfo model.SymbolInfo, resolution string, from, to int64) datafeed.HistoryResult
	SubscribeBars(symbolInfo model.SymbolInfo, resolution string, onTick func(model.Bar), subscriptionID string)
	UnsubscribeBars(subscriptionID string)
}

// StatusProvider reports the chart host's user-visible status string
type StatusProvider interface {
	Status() string
}

// APIHandler handles HTTP requests using the Gin framework
type APIHandler struct {
	feed      ChartFeed
	chartHost StatusProvider
	validator *Validator
	logger    *slog.Logger
}

// NewAPIHandler creates a new API handler
func NewAPIHandler(feed ChartFeed, chartHost StatusProvider, logger *slog.Logger) *APIHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &APIHandler{
		feed:      feed,
		chartHost: chartHost,
		validator: GetValidator(),
		logger:    logger,
	}
}

// StartServer starts the HTTP server
func (h *APIHandler) StartServer(port int) error {
	router := h.SetupRoutes()
	return router.Run(":" + strconv.Itoa(port))
}

// SetupRoutes configures all API routes
func (h *APIHandler) SetupRoutes() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	router.Use(requestIDMiddleware())
	router.Use(ginLoggerMiddleware())
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	v1 := router.Group("/api/v1")
	v1.GET("/symbols/:name", h.GetSymbol)
	v1.GET("/search", h.SearchSymbols)
	v1.GET("/bars", h.GetBars)
	v1.GET("/stream", h.StreamBars)

	router.GET("/status", h.ChartStatus)
	router.GET("/health", h.HealthCheck)

	return router
}
