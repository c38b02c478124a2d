package transporthttp

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"workforceintel/internal/dumpstore"
	"workforceintel/internal/hypothesis"
)

// Server exposes the risk engine and the dump store over HTTP. It owns
// serialization and status mapping only; all analysis semantics live in the
// hypothesis package.
type Server struct {
	engine         *hypothesis.Engine
	store          *dumpstore.Store
	requestTimeout time.Duration
}

// NewServer constructs a Server.
func NewServer(engine *hypothesis.Engine, store *dumpstore.Store, requestTimeout time.Duration) *Server {
	if requestTimeout <= 0 {
		requestTimeout = 120 * time.Second
	}
	return &Server{engine: engine, store: store, requestTimeout: requestTimeout}
}

// Routes builds the router.
func (s *Server) Routes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery(), withCORS())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	api.POST("/analyze", s.handleAnalyze)
	api.POST("/dumps", s.handleSaveDump)
	api.GET("/dumps", s.handleListDumps)
	api.GET("/dumps/:id", s.handleGetDump)
	api.DELETE("/dumps/:id", s.handleDeleteDump)
	api.POST("/dumps/:id/analyze", s.handleAnalyzeDump)

	return router
}

func (s *Server) handleAnalyze(c *gin.Context) {
	var req hypothesis.AnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	if req.CompanyName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "company_name is required"})
		return
	}
	s.runAnalysis(c, req)
}

func (s *Server) handleAnalyzeDump(c *gin.Context) {
	id := c.Param("id")
	dump, err := s.store.Get(id)
	if errors.Is(err, dumpstore.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "dump not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	signals, financial, err := s.store.Load(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	s.runAnalysis(c, hypothesis.AnalysisRequest{
		CompanyName: dump.CompanyName,
		Signals:     signals,
		Financial:   financial,
	})
}

func (s *Server) runAnalysis(c *gin.Context, req hypothesis.AnalysisRequest) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), s.requestTimeout)
	defer cancel()

	analysis, err := s.engine.Analyze(ctx, req)
	if errors.Is(err, hypothesis.ErrNoData) {
		c.JSON(http.StatusNotFound, gin.H{"error": "no data for this company"})
		return
	}
	var invariantErr *hypothesis.ValidationError
	if errors.As(err, &invariantErr) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": invariantErr.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, analysis)
}

func (s *Server) handleSaveDump(c *gin.Context) {
	var payload struct {
		CompanyName string                        `json:"company_name"`
		DumpType    string                        `json:"dump_type"`
		Signals     []hypothesis.RawSignal        `json:"signals"`
		Financial   *hypothesis.FinancialSnapshot `json:"financial_snapshot"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	if payload.CompanyName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "company_name is required"})
		return
	}
	if payload.DumpType == "" {
		payload.DumpType = "scrape"
	}
	dump, err := s.store.Save(payload.CompanyName, payload.DumpType, payload.Signals, payload.Financial)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, dump)
}

func (s *Server) handleListDumps(c *gin.Context) {
	dumps, err := s.store.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"dumps": dumps})
}

func (s *Server) handleGetDump(c *gin.Context) {
	dump, err := s.store.Get(c.Param("id"))
	if errors.Is(err, dumpstore.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "dump not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dump)
}

func (s *Server) handleDeleteDump(c *gin.Context) {
	err := s.store.Delete(c.Param("id"))
	if errors.Is(err, dumpstore.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "dump not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func withCORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}
		c.Next()
	}
}
