// Package server exposes spectral analysis sessions over a JSON HTTP API.
package server

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/laserkelvin/Spectron3000/internal/model"
	"github.com/laserkelvin/Spectron3000/internal/session"
	"github.com/laserkelvin/Spectron3000/internal/synth"
	"github.com/laserkelvin/Spectron3000/internal/worker"
)

// sessionHeader carries the session ID; every response echoes it back.
const sessionHeader = "X-Session-ID"

// sessionCookie names the fallback cookie for clients that do not manage
// the header themselves.
const sessionCookie = "spectron3000_sid"

// Server handles the JSON API around one session store and one synthesis
// engine.
type Server struct {
	cfg      *model.Config
	sessions *session.Store
	engine   *synth.Engine
	limiter  *worker.Limiter
	metrics  *Metrics
	metricsH http.Handler
}

// NewServer wires a server from configuration.
func NewServer(cfg *model.Config) *Server {
	if cfg == nil {
		cfg = model.DefaultConfig()
	}

	sessions := session.NewStore(cfg.Session, cfg.Defaults)
	registry := prometheus.NewRegistry()

	return &Server{
		cfg:      cfg,
		sessions: sessions,
		engine:   synth.NewEngine(cfg.Synthesis),
		limiter:  worker.NewLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst),
		metrics: NewMetrics(registry, func() float64 {
			return float64(sessions.Count())
		}),
		metricsH: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	route := s.dispatch(w, r)
	s.metrics.RequestSecs.WithLabelValues(route).Observe(time.Since(start).Seconds())
}

// dispatch routes one request and returns the route label used for
// latency metrics. Labels stay bounded: path parameters never leak in.
func (s *Server) dispatch(w http.ResponseWriter, r *http.Request) string {
	path := strings.TrimSuffix(r.URL.Path, "/")
	switch {
	case path == "":
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return "/"
		}
		s.handleIndex(w, r)
		return "/"
	case path == "/healthz":
		s.handleHealthz(w, r)
		return "/healthz"
	case path == "/metrics":
		s.metricsH.ServeHTTP(w, r)
		return "/metrics"
	case path == "/api/spectrum":
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return "/api/spectrum"
		}
		if !s.allow(w, r) {
			return "/api/spectrum"
		}
		s.handleSpectrumUpload(w, r)
		return "/api/spectrum"
	case path == "/api/catalogs":
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return "/api/catalogs"
		}
		if !s.allow(w, r) {
			return "/api/catalogs"
		}
		s.handleCatalogUpload(w, r)
		return "/api/catalogs"
	case path == "/api/figure":
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return "/api/figure"
		}
		s.handleFigure(w, r)
		return "/api/figure"
	case path == "/api/table":
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return "/api/table"
		}
		s.handleTable(w, r)
		return "/api/table"
	case strings.HasPrefix(path, "/api/catalogs/"):
		remainder := strings.TrimPrefix(path, "/api/catalogs/")
		s.handleCatalogItem(w, r, remainder)
		if strings.HasSuffix(remainder, "/params") {
			return "/api/catalogs/{molecule}/params"
		}
		return "/api/catalogs/{molecule}"
	default:
		http.NotFound(w, r)
		return "unknown"
	}
}

// sessionFor resolves the request's session, minting one on first contact.
// New sessions also receive the fallback cookie.
func (s *Server) sessionFor(w http.ResponseWriter, r *http.Request) (*session.State, error) {
	id := r.Header.Get(sessionHeader)
	if id == "" {
		if c, err := r.Cookie(sessionCookie); err == nil {
			id = c.Value
		}
	}

	minted := id == ""
	id, state, err := s.sessions.GetOrCreate(id)
	if err != nil {
		return nil, err
	}

	w.Header().Set(sessionHeader, id)
	if minted {
		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookie,
			Value:    id,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return state, nil
}

// allow enforces the per-client upload rate limit.
func (s *Server) allow(w http.ResponseWriter, r *http.Request) bool {
	if s.limiter.Allow(clientIP(r)) {
		return true
	}
	writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
	return false
}

// clientIP strips the port from the remote address.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// limitBody caps the request body at twice the upload limit: base64
// inflates payloads by a third and the JSON envelope adds a little more.
func (s *Server) limitBody(w http.ResponseWriter, r *http.Request) {
	if s.cfg.Upload.MaxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Upload.MaxBytes*2)
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": message})
}
