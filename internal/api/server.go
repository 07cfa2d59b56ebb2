// Package api exposes the intake pipeline over HTTP: POST /mtbfile to
// submit a case, DELETE /patient/:id to retract one. Request and response
// bodies are read and encoded with goccy/go-json rather than gin's
// built-in binder, so one codec serves the whole HTTP boundary. The
// staging store and the intake pipeline marshal with encoding/json.
package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/sirupsen/logrus"

	"github.com/dnpm-intake/mtbvalidate/internal/config"
	"github.com/dnpm-intake/mtbvalidate/internal/domain"
	"github.com/dnpm-intake/mtbvalidate/internal/intake"
)

// Server is the intake service's HTTP surface.
type Server struct {
	cfg      *config.Manager
	pipeline *intake.Pipeline
	log      *logrus.Logger
	router   *gin.Engine
	server   *http.Server
}

// NewServer builds a Server wired to pipeline.
func NewServer(cfg *config.Manager, pipeline *intake.Pipeline, logger *logrus.Logger) *Server {
	if cfg.Config().Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLoggerMiddleware(logger))

	s := &Server{cfg: cfg, pipeline: pipeline, log: logger, router: router}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)
	s.router.POST("/mtbfile", s.handleUpload)
	s.router.DELETE("/patient/:id", s.handleDelete)
}

// Start runs the HTTP server until ctx is canceled, then shuts it down
// gracefully.
func (s *Server) Start(ctx context.Context) error {
	cfg := s.cfg.Config().Server
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("api: server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return s.server.Shutdown(shutdownCtx)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.Status(http.StatusOK)
}

// handleUpload reads the raw request body and decodes it into an MTBFile
// with goccy/go-json, runs it through the intake pipeline, and maps the
// resulting Outcome onto an HTTP status.
func (s *Server) handleUpload(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		writeJSON(c, http.StatusBadRequest, gin.H{"error": "could not read request body"})
		return
	}

	var file domain.MTBFile
	if err := json.Unmarshal(body, &file); err != nil {
		writeJSON(c, http.StatusBadRequest, gin.H{"error": "malformed mtb file payload"})
		return
	}

	outcome := s.pipeline.Upload(c.Request.Context(), file)
	switch outcome.Kind {
	case intake.Imported:
		writeJSON(c, http.StatusOK, gin.H{"status": outcome.Kind.String(), "patient": outcome.Patient})
	case intake.IssuesDetected:
		writeJSON(c, http.StatusAccepted, gin.H{"status": outcome.Kind.String(), "patient": outcome.Patient, "issues": outcome.Report.Issues})
	case intake.InvalidData:
		writeJSON(c, http.StatusUnprocessableEntity, gin.H{"status": outcome.Kind.String(), "patient": outcome.Patient, "issues": outcome.Report.Issues})
	default:
		s.log.WithFields(logrus.Fields{"patient": outcome.Patient, "error": outcome.Err}).Error("mtb file upload failed")
		writeJSON(c, http.StatusBadGateway, gin.H{"status": outcome.Kind.String(), "error": "forwarding failed"})
	}
}

func (s *Server) handleDelete(c *gin.Context) {
	patient := domain.PatientID(c.Param("id"))
	outcome := s.pipeline.Delete(c.Request.Context(), patient)
	switch outcome.Kind {
	case intake.Deleted:
		c.Status(http.StatusNoContent)
	default:
		s.log.WithFields(logrus.Fields{"patient": patient, "error": outcome.Err}).Error("patient delete failed")
		writeJSON(c, http.StatusBadGateway, gin.H{"status": outcome.Kind.String(), "error": "delete failed"})
	}
}

func writeJSON(c *gin.Context, status int, payload gin.H) {
	body, err := json.Marshal(payload)
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}
	c.Data(status, "application/json; charset=utf-8", body)
}

func requestLoggerMiddleware(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.WithFields(logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": time.Since(start),
		}).Info("handled request")
	}
}
