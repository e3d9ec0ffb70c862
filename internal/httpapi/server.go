// Package httpapi serves the codec over HTTP.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/observe-l/fecchan/fecframe"
	"github.com/observe-l/fecchan/internal/codec"
	"github.com/observe-l/fecchan/internal/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/netutil"
)

// Response headers carrying decode diagnostics.
const (
	HeaderMethod        = "X-Fec-Method"
	HeaderFactor        = "X-Fec-Factor"
	HeaderSourceBits    = "X-Fec-Source-Bits"
	HeaderCorrected     = "X-Fec-Corrected"
	HeaderUncorrectable = "X-Fec-Uncorrectable"
	HeaderTruncated     = "X-Fec-Truncated"
)

// Config bounds request handling.
type Config struct {
	MaxFrameBytes  int64
	MaxConnections int
}

// Server holds the API server state.
type Server struct {
	svc      *codec.Service
	gatherer prometheus.Gatherer
	log      *log.Logger
	cfg      Config
}

// NewServer creates a new API server. gatherer may be nil to omit /metrics.
func NewServer(svc *codec.Service, gatherer prometheus.Gatherer, logger *log.Logger, cfg Config) *Server {
	if logger == nil {
		logger = log.NewLogger("http")
	}
	if cfg.MaxFrameBytes <= 0 {
		cfg.MaxFrameBytes = 16 << 20
	}
	return &Server{svc: svc, gatherer: gatherer, log: logger, cfg: cfg}
}

// Router returns the chi router with every route mounted.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Post("/encode", s.handleEncode)
		r.Post("/decode", s.handleDecode)
	})
	return r
}

// Serve accepts on ln, capped at MaxConnections concurrent connections, until
// ctx is done.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	if s.cfg.MaxConnections > 0 {
		ln = netutil.LimitListener(ln, s.cfg.MaxConnections)
	}
	srv := &http.Server{Handler: s.Router(), ReadHeaderTimeout: 10 * time.Second}
	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()
	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.WithField("method", r.Method).
			WithField("path", r.URL.Path).
			WithField("status", ww.Status()).
			WithField("bytes", ww.BytesWritten()).
			WithField("duration", time.Since(start)).
			WithField("request_id", middleware.GetReqID(r.Context())).
			Debug("request")
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	sendJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleEncode(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	method, err := fecframe.ParseMethod(q.Get("method"))
	if err != nil {
		sendError(w, err.Error(), http.StatusBadRequest)
		return
	}
	factor, err := strconv.Atoi(q.Get("factor"))
	if err != nil {
		sendError(w, fmt.Sprintf("factor: %v", err), http.StatusBadRequest)
		return
	}
	body, ok := s.readBody(w, r)
	if !ok {
		return
	}
	frame, err := s.svc.Encode(method, factor, body)
	if err != nil {
		sendError(w, err.Error(), statusFor(err))
		return
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(frame)
}

func (s *Server) handleDecode(w http.ResponseWriter, r *http.Request) {
	body, ok := s.readBody(w, r)
	if !ok {
		return
	}
	res, err := s.svc.Decode(body)
	if err != nil {
		sendError(w, err.Error(), statusFor(err))
		return
	}
	h := w.Header()
	h.Set("Content-Type", "application/octet-stream")
	h.Set(HeaderMethod, res.Header.Method.String())
	h.Set(HeaderFactor, strconv.Itoa(int(res.Header.Factor)))
	h.Set(HeaderSourceBits, strconv.FormatUint(uint64(res.Header.SourceLength), 10))
	h.Set(HeaderCorrected, strconv.Itoa(res.Stats.Corrected))
	h.Set(HeaderUncorrectable, strconv.Itoa(res.Stats.Uncorrectable))
	h.Set(HeaderTruncated, strconv.FormatBool(res.Stats.Truncated))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Data)
}

func (s *Server) readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.MaxFrameBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			sendError(w, "request body too large", http.StatusRequestEntityTooLarge)
		} else {
			sendError(w, "failed to read body", http.StatusBadRequest)
		}
		return nil, false
	}
	return body, true
}

func statusFor(err error) int {
	switch {
	case codec.IsClientError(err):
		return http.StatusBadRequest
	case codec.IsFrameError(err):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// APIResponse is the JSON body of health checks and errors.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func sendJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(APIResponse{Success: true, Data: data})
}

func sendError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(APIResponse{Success: false, Error: message})
}
