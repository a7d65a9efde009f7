// Package server exposes the assessment pipeline over HTTP.
package server

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/inodb/pharmaguard/internal/assess"
	"github.com/inodb/pharmaguard/internal/drug"
	"github.com/inodb/pharmaguard/internal/duckdb"
	"github.com/inodb/pharmaguard/internal/report"
)

// DefaultMaxUploadBytes bounds the size of an uploaded variant file.
const DefaultMaxUploadBytes = 32 << 20

// defaultRecentLimit is used by /analyses/recent without a limit parameter.
const defaultRecentLimit = 5

// History records and lists assessment results.
type History interface {
	WriteResults(results []*report.Result) ([]string, error)
	Recent(limit int) ([]duckdb.Record, error)
}

// Server wires the assessment engine to HTTP handlers.
type Server struct {
	engine         *assess.Engine
	history        History
	logger         *zap.Logger
	maxUploadBytes int64
}

// New creates a server around engine. history may be nil.
func New(engine *assess.Engine, history History) *Server {
	return &Server{
		engine:         engine,
		history:        history,
		logger:         zap.NewNop(),
		maxUploadBytes: DefaultMaxUploadBytes,
	}
}

// SetLogger sets the logger for request and error messages.
func (s *Server) SetLogger(l *zap.Logger) {
	s.logger = l
}

// SetMaxUploadBytes sets the request body size limit.
func (s *Server) SetMaxUploadBytes(n int64) {
	s.maxUploadBytes = n
}

// Router builds the gin engine.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(
		requestLogger(s.logger),
		gin.Recovery(),
		limitBodySize(s.maxUploadBytes),
		cors.New(cors.Config{
			AllowOrigins: []string{"*"},
			AllowMethods: []string{"GET", "POST", "OPTIONS"},
			AllowHeaders: []string{"Origin", "Content-Type", "Authorization"},
			MaxAge:       12 * time.Hour,
		}),
	)

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/drugs", s.handleDrugs)
	router.POST("/process_vcf/", s.handleProcessVCF)
	router.GET("/analyses/recent", s.handleRecent)

	return router
}

func (s *Server) handleDrugs(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"drugs": drug.All()})
}

// handleProcessVCF accepts a multipart upload in field "file" and the drug
// name in the "drug" query parameter.
func (s *Server) handleProcessVCF(c *gin.Context) {
	drugName := c.Query("drug")
	if drugName == "" {
		drugName = c.PostForm("drug")
	}

	// Reject unsupported drugs before touching the upload.
	if err := assess.Check(drugName); err != nil {
		s.unsupported(c, drugName)
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing variant file in form field \"file\""})
		return
	}

	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read uploaded file"})
		return
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read uploaded file"})
		return
	}

	res, err := s.engine.AssessReader(bytes.NewReader(content), drugName)
	if err != nil {
		if errors.Is(err, assess.ErrUnsupportedDrug) {
			s.unsupported(c, drugName)
			return
		}
		s.logger.Error("assessment failed", zap.String("file", fh.Filename), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "assessment failed"})
		return
	}

	s.record(res)
	c.JSON(http.StatusOK, res)
}

func (s *Server) unsupported(c *gin.Context, drugName string) {
	c.JSON(http.StatusUnprocessableEntity, gin.H{
		"error":     "unsupported drug",
		"drug":      drugName,
		"supported": drug.Names(),
	})
}

// record stores res in the history. Failures are logged only.
func (s *Server) record(res *report.Result) {
	if s.history == nil {
		return
	}
	if _, err := s.history.WriteResults([]*report.Result{res}); err != nil {
		s.logger.Warn("failed to record assessment",
			zap.String("patient_id", res.PatientID),
			zap.String("drug", res.Drug),
			zap.Error(err))
	}
}

func (s *Server) handleRecent(c *gin.Context) {
	if s.history == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "history is disabled"})
		return
	}

	limit := defaultRecentLimit
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}

	records, err := s.history.Recent(limit)
	if err != nil {
		s.logger.Error("failed to list assessments", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot list assessments"})
		return
	}
	if records == nil {
		records = []duckdb.Record{}
	}
	c.JSON(http.StatusOK, gin.H{"analyses": records})
}

func limitBodySize(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

func requestLogger(l *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		l.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)))
	}
}
