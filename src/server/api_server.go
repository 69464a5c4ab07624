package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"stock-trend/src/analysis"
	"stock-trend/src/daterange"
	"stock-trend/src/helpers"
	"stock-trend/src/logger"
	"stock-trend/src/models"
	"stock-trend/src/presentation"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-ID"

// -----------------------------------------------------------------------------
// APIServer
// -----------------------------------------------------------------------------

type APIServer struct {
	Config *models.MConfig
	Facade *analysis.AnalysisFacade
	Logger *logger.Logger
	Errors *helpers.ErrorHandler
	engine *gin.Engine
	server *http.Server

	// WebSocket clients, owned by the hub goroutine
	clients     map[*Client]struct{}
	broadcast   chan *models.MSocketMessage
	direct      chan clientMessage
	register    chan *Client
	unregister  chan *Client
	quit        chan struct{}
	stopOnce    sync.Once
	connections atomic.Int64
}

// -----------------------------------------------------------------------------
// Constructor
// -----------------------------------------------------------------------------

func NewAPIServer(cfg *models.MConfig, facade *analysis.AnalysisFacade, log *logger.Logger) *APIServer {
	if !strings.EqualFold(cfg.LogLevel, "DEBUG") {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &APIServer{
		Config:     cfg,
		Facade:     facade,
		Logger:     log,
		Errors:     helpers.NewErrorHandler(log),
		engine:     gin.New(),
		clients:    make(map[*Client]struct{}),
		broadcast:  make(chan *models.MSocketMessage, 256),
		direct:     make(chan clientMessage),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		quit:       make(chan struct{}),
	}

	s.engine.Use(gin.Recovery(), s.requestID(), cors())
	s.setupRoutes()

	go s.runHub()
	return s
}

// -----------------------------------------------------------------------------
// Middleware
// -----------------------------------------------------------------------------

func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if strings.HasPrefix(origin, "http://127.0.0.1:") || strings.HasPrefix(origin, "http://localhost:") {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept, Origin, Cache-Control, X-Requested-With, "+requestIDHeader)
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// -----------------------------------------------------------------------------

// requestID tags every request with the caller's X-Request-ID or a fresh uuid
func (s *APIServer) requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Writer.Header().Set(requestIDHeader, id)

		start := time.Now()
		c.Next()
		s.Logger.Debug("%s %s %d %s [%s]", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start), id)
	}
}

// -----------------------------------------------------------------------------
// Route Setup
// -----------------------------------------------------------------------------

func (s *APIServer) setupRoutes() {
	api := s.engine.Group("/api")
	api.GET("/health", s.getHealth)
	api.GET("/config", s.getConfig)
	api.GET("/range", s.getRange)
	api.GET("/chart", s.getChart)
	api.GET("/figure", s.getFigure)

	s.engine.GET("/ws", s.handleWebSocket)
}

// Handler exposes the router, mainly for httptest
func (s *APIServer) Handler() http.Handler {
	return s.engine
}

// -----------------------------------------------------------------------------
// Server Lifecycle
// -----------------------------------------------------------------------------

// Start serves HTTP until Stop is called
func (s *APIServer) Start() error {
	addr := fmt.Sprintf("%s:%d", s.Config.Host, s.Config.Port)
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.Logger.Info("Starting server on %s", addr)

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// -----------------------------------------------------------------------------

func (s *APIServer) Stop() error {
	var err error
	s.stopOnce.Do(func() {
		close(s.quit)
		if s.server == nil {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err = s.server.Shutdown(ctx)
	})
	return err
}

// -----------------------------------------------------------------------------
// Route Handlers
// -----------------------------------------------------------------------------

func (s *APIServer) getHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":         "ok",
		"connections":    s.connections.Load(),
		"reference_date": s.Facade.Clock.Today().Format(models.DateLayout),
	})
}

// -----------------------------------------------------------------------------

func (s *APIServer) getConfig(c *gin.Context) {
	bounds := s.Facade.Bounds()

	presets := make([]gin.H, 0, len(daterange.Priority))
	for _, p := range daterange.Priority {
		presets = append(presets, gin.H{"name": p.String(), "days": p.Days()})
	}

	c.JSON(http.StatusOK, gin.H{
		"default_symbol": s.Facade.DefaultSymbol(),
		"default_start":  s.Facade.DefaultStart().Format(models.DateLayout),
		"min_date":       bounds.Min.Format(models.DateLayout),
		"max_date":       bounds.Max.Format(models.DateLayout),
		"windows":        s.Facade.Windows(),
		"presets":        presets,
		"sources":        s.Facade.Sources.Names(),
	})
}

// -----------------------------------------------------------------------------

func (s *APIServer) getRange(c *gin.Context) {
	var (
		resp models.MRangeResponse
		err  error
	)
	if preset, ok := c.GetQuery("preset"); ok {
		resp, err = s.Facade.RangeForPreset(preset)
	} else {
		var activations map[string]int64
		if activations, err = activationsFromQuery(c); err == nil {
			resp, err = s.Facade.RangeForActivations(activations)
		}
	}
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// -----------------------------------------------------------------------------

func (s *APIServer) getChart(c *gin.Context) {
	chart, err := s.chartFromQuery(c)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"chart":  chart,
		"notice": presentation.NoticeFor(chart),
	})
}

// -----------------------------------------------------------------------------

func (s *APIServer) getFigure(c *gin.Context) {
	chart, err := s.chartFromQuery(c)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"figure": presentation.BuildFigure(chart, s.Config.Chart.Height),
		"notice": presentation.NoticeFor(chart),
	})
}

// -----------------------------------------------------------------------------

func (s *APIServer) chartFromQuery(c *gin.Context) (*models.MChartData, error) {
	req, err := s.Facade.NewRequest(c.Query("symbol"), c.Query("source"), c.Query("start"), c.Query("end"))
	if err != nil {
		return nil, err
	}
	return s.Facade.BuildChart(c.Request.Context(), req)
}

// -----------------------------------------------------------------------------

func (s *APIServer) writeError(c *gin.Context, err error) {
	status := helpers.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.Errors.Handle(err, c.Request.URL.Path)
	}
	c.AbortWithStatusJSON(status, gin.H{
		"error":      err.Error(),
		"request_id": c.GetString("request_id"),
	})
}
