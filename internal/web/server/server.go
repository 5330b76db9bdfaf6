// Package server exposes the validation pipeline over HTTP.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/aisp-lang/aisp/internal/analyzer/ast"
	"github.com/aisp-lang/aisp/internal/analyzer/errors"
	"github.com/aisp-lang/aisp/internal/analyzer/semantic"
	"github.com/aisp-lang/aisp/internal/validator"
	"github.com/aisp-lang/aisp/internal/web/middleware"
)

// Config holds server configuration
type Config struct {
	// Host and Port form the listen address.
	Host string
	Port int

	// Thresholds are the classifier tier cutoffs used for every request.
	Thresholds semantic.Thresholds

	// MaxAnalysisTime is the advisory analysis deadline.
	MaxAnalysisTime time.Duration

	// Timeouts
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	ReadHeaderTimeout time.Duration

	// MaxHeaderBytes limits request header size.
	MaxHeaderBytes int
}

// DefaultConfig returns a production-ready server configuration
func DefaultConfig() Config {
	return Config{
		Host:              "localhost",
		Port:              3000,
		Thresholds:        semantic.DefaultThresholds(),
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1 MB
	}
}

// Server serves the validation API.
type Server struct {
	httpServer *http.Server
	config     Config
	logger     *log.Logger
	listener   net.Listener
}

// New creates a server with its routes registered.
func New(config Config) *Server {
	s := &Server{
		config: config,
		logger: log.New(os.Stderr, "[aisp-http] ", log.LstdFlags),
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging(s.logger))
	r.Use(middleware.Recovery(s.logger))
	r.Get("/v1/health", s.handleHealth)
	r.Post("/v1/validate", s.handleValidate)

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", config.Host, config.Port),
		Handler:           r,
		ReadTimeout:       config.ReadTimeout,
		WriteTimeout:      config.WriteTimeout,
		IdleTimeout:       config.IdleTimeout,
		ReadHeaderTimeout: config.ReadHeaderTimeout,
		MaxHeaderBytes:    config.MaxHeaderBytes,
	}
	return s
}

// Handler returns the underlying HTTP handler, exposed for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start starts the server
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("failed to create listener: %w", err)
	}
	s.listener = listener
	s.logger.Printf("listening on %s", listener.Addr())
	return s.httpServer.Serve(listener)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Addr returns the server's network address
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.httpServer.Addr
}

// validateRequest is the POST /v1/validate payload. Source carries the
// raw document text for the symbol scan; Document is the optional JSON
// document tree for the structural analyses.
type validateRequest struct {
	Source   string          `json:"source"`
	Document json.RawMessage `json:"document,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
	// Diagnostic carries the structured analyzer error when one exists.
	Diagnostic *errors.AnalysisError `json:"diagnostic,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req validateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	doc := &ast.Document{}
	if len(req.Document) > 0 {
		decoded, err := ast.DecodeDocument(req.Document)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid document: " + err.Error()})
			return
		}
		doc = decoded
	}

	// Analyzer instances are not safe for concurrent use, so each
	// request gets its own.
	v := validator.New(s.config.Thresholds, s.config.MaxAnalysisTime)
	result, err := v.Validate(doc, req.Source)
	if err != nil {
		resp := errorResponse{Error: err.Error()}
		if ae, ok := err.(*errors.AnalysisError); ok {
			resp.Diagnostic = ae
		}
		writeJSON(w, http.StatusUnprocessableEntity, resp)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("writing response: %v", err)
	}
}
