// Package server exposes the automation API over HTTP: a liveness
// route, the task submission route, and the sandboxed file read route.
// Request-level security checks run here, before any handler is chosen.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"net"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dwarakesh2005/llm-automation-agent/internal/alog"
	"github.com/dwarakesh2005/llm-automation-agent/internal/audit"
	"github.com/dwarakesh2005/llm-automation-agent/internal/sandbox"
	"github.com/dwarakesh2005/llm-automation-agent/internal/task"
)

// DefaultAddr is the default listen address for the API server.
const DefaultAddr = "127.0.0.1:8000"

// Dispatcher executes an accepted task description and reports the
// outcome. Implemented by agent.Agent.
type Dispatcher interface {
	Execute(ctx context.Context, taskText string) task.Result
}

// Server handles task submissions and sandboxed file reads.
// Rejections and dispatch outcomes are audited when a logger is set;
// handler failures travel inside the response body, never as HTTP
// errors.
type Server struct {
	// Addr is the address to listen on (e.g., "127.0.0.1:8000").
	Addr string

	// Dispatcher runs accepted tasks. Required.
	Dispatcher Dispatcher

	// Box is the sandbox the read endpoint serves files from. Required.
	Box *sandbox.Dir

	// AuditLogger records task and file-read events. If nil, no audit
	// logging is performed.
	AuditLogger *audit.Logger

	server   *http.Server
	listener net.Listener
	mu       sync.Mutex
	running  bool
}

// New creates an API server listening on addr. If addr is empty, it
// defaults to DefaultAddr. The dispatcher and box are required;
// auditLogger may be nil.
func New(addr string, dispatcher Dispatcher, box *sandbox.Dir, auditLogger *audit.Logger) *Server {
	if addr == "" {
		addr = DefaultAddr
	}
	return &Server{
		Addr:        addr,
		Dispatcher:  dispatcher,
		Box:         box,
		AuditLogger: auditLogger,
	}
}

// Start begins accepting connections on the API server.
// Returns an error if the server is already running or fails to start.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return errors.New("server already running")
	}

	listener, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.Addr, err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("POST /run", s.handleRun)
	mux.HandleFunc("GET /read", s.handleRead)

	s.listener = listener
	s.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 30 * time.Second,
		ErrorLog:          log.New(alog.Writer(alog.LevelWarn), "", 0),
	}
	s.running = true

	go func() {
		_ = s.server.Serve(listener)
	}()

	return nil
}

// Stop gracefully shuts down the API server.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}

	s.running = false
	return s.server.Shutdown(ctx)
}

// ListenAddr returns the actual address the server is listening on.
// This is useful when the server was started with port 0 (random port).
// Returns empty string if the server is not running.
func (s *Server) ListenAddr() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// messageResponse is the liveness body for GET /.
type messageResponse struct {
	Message string `json:"message"`
}

// runResponse is the success envelope for POST /run. Status is always
// "success" at the HTTP layer; the dispatch outcome lives in Result.
type runResponse struct {
	Status string      `json:"status"`
	Result task.Result `json:"result"`
}

// errorResponse carries a rejection or fault detail.
type errorResponse struct {
	Error string `json:"error"`
}

// handleRoot handles GET / requests.
func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, messageResponse{Message: "LLM Automation Agent API is running"})
}

// handleRun processes POST /run?task=<text>. The task is vetted before
// classification; a rejected task never reaches a handler. An accepted
// task always yields 200 with the handler's result inside, whatever
// the outcome.
func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	taskText := r.URL.Query().Get("task")
	requestID := uuid.NewString()

	alog.Debug("server: run request=%s task=%q", requestID, taskText)
	_ = s.AuditLogger.LogReceived(requestID, taskText)

	if detail := VetTask(taskText, s.Box); detail != "" {
		alog.Warn("server: run request=%s rejected: %s", requestID, detail)
		_ = s.AuditLogger.LogRejected(requestID, taskText, detail)
		s.writeError(w, http.StatusBadRequest, detail)
		return
	}

	kind := task.Classify(taskText)
	start := time.Now()
	result := s.Dispatcher.Execute(r.Context(), taskText)
	_ = s.AuditLogger.LogCompleted(requestID, taskText, kind.String(), string(result.Status), time.Since(start))
	alog.Info("server: run request=%s kind=%s status=%s", requestID, kind, result.Status)

	s.writeJSON(w, http.StatusOK, runResponse{Status: "success", Result: result})
}

// handleRead processes GET /read?path=<path>, serving the raw bytes of
// a file inside the sandbox as plain text.
func (s *Server) handleRead(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	requestID := uuid.NewString()

	if path == "" {
		s.writeError(w, http.StatusBadRequest, "File path is required")
		return
	}
	if strings.Contains(path, "../") {
		s.writeError(w, http.StatusBadRequest, "Invalid path access")
		return
	}
	resolved, err := s.Box.Resolve(path)
	if err != nil {
		alog.Warn("server: read request=%s rejected: %v", requestID, err)
		s.writeError(w, http.StatusBadRequest, "Invalid path access")
		return
	}

	data, err := os.ReadFile(resolved)
	if errors.Is(err, fs.ErrNotExist) {
		s.writeError(w, http.StatusNotFound, "File not found")
		return
	}
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	_ = s.AuditLogger.LogFileRead(requestID, resolved)
	alog.Debug("server: read request=%s path=%s bytes=%d", requestID, resolved, len(data))

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write(data)
}

// writeJSON writes a JSON response with the given status code.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes an error response with the given status code.
func (s *Server) writeError(w http.ResponseWriter, status int, detail string) {
	s.writeJSON(w, status, errorResponse{Error: detail})
}
