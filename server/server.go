package server

import (
	"net"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/hupe1980/drawboard/core"
	"github.com/hupe1980/drawboard/engine"
	"github.com/hupe1980/drawboard/logging"
	"github.com/hupe1980/drawboard/onboard"
)

// Options configures the HTTP server.
type Options struct {
	// Logger receives request logs and handler failures. Defaults to NoOp.
	Logger logging.Logger

	// AllowedOrigins is the CORS allowlist. The default, ["*"], admits
	// every origin: the board is meant to be watched and drawn on from
	// anywhere.
	AllowedOrigins []string

	// PublicBaseURL overrides the base URL written into onboarding links
	// (skill_md_url and the URLs inside the guide). Empty means derive it
	// per request from X-Forwarded-Proto/Host or the request host. Set it
	// explicitly when a proxy strips forwarded headers.
	PublicBaseURL string
}

// WithLogger sets the server logger.
func WithLogger(logger logging.Logger) func(o *Options) {
	return func(o *Options) { o.Logger = logger }
}

// WithAllowedOrigins replaces the CORS allowlist.
func WithAllowedOrigins(origins ...string) func(o *Options) {
	return func(o *Options) { o.AllowedOrigins = origins }
}

// WithPublicBaseURL pins the base URL used in onboarding links.
func WithPublicBaseURL(base string) func(o *Options) {
	return func(o *Options) { o.PublicBaseURL = base }
}

// Server routes HTTP and WebSocket traffic to a drawing engine.
//
// Rate limiters for session starts and ask requests are keyed by client IP;
// chimw.RealIP resolves proxy headers before the key is taken.
type Server struct {
	engine       *engine.Engine
	logger       logging.Logger
	origins      []string
	publicBase   string
	askLimiter   *core.RateLimiter
	startLimiter *core.RateLimiter
	upgrader     websocket.Upgrader
	router       chi.Router
}

// New builds a Server around eng. Limits and the clear policy come from the
// engine's Config.
func New(eng *engine.Engine, optFns ...func(o *Options)) *Server {
	opts := Options{
		Logger:         logging.NoOpLogger{},
		AllowedOrigins: []string{"*"},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	cfg := eng.Config()
	s := &Server{
		engine:       eng,
		logger:       opts.Logger,
		origins:      opts.AllowedOrigins,
		publicBase:   strings.TrimRight(strings.TrimSpace(opts.PublicBaseURL), "/"),
		askLimiter:   core.NewRateLimiter(cfg.AskRateLimit, cfg.RateWindow),
		startLimiter: core.NewRateLimiter(cfg.StartRateLimit, cfg.RateWindow),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Viewing is open to any origin, matching the CORS default.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
	s.router = s.buildRouter()
	return s
}

// Handler returns the root handler, ready for http.Server.
func (s *Server) Handler() http.Handler { return s.router }

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(chimw.RequestID)
	r.Use(s.recoverer)
	r.Use(s.requestLogger)
	r.Use(s.cors)

	r.Get("/", s.handleIndex)
	r.Get("/favicon.ico", s.handleFavicon)
	r.Get("/health", s.handleHealth)
	r.Get("/api/health", s.handleHealth)

	// Bot onboarding. /api is the legacy entry path; /bot is the one the
	// guide advertises.
	r.Get(onboard.EntryPath, s.handleDiscover)
	r.Get("/api", s.handleDiscover)
	r.Get("/skill", s.handleSkill)
	r.Get("/skill.md", s.handleSkill)

	r.Post("/api/draw", s.handleDraw)
	r.Get("/api/canvas", s.handleCanvas)
	r.Post("/api/ask", s.handleAsk)
	r.Post("/api/clear", s.handleClear)

	r.Post("/api/agent/register", s.handleRegister)
	r.Post("/api/ai/start", s.handleStart)
	r.Post("/api/ai/message", s.handleMessage)
	r.Post("/api/ai/stop", s.handleStop)

	r.Get("/ws", s.handleWS)

	return r
}

// recoverer turns handler panics into 500 envelopes instead of dropped
// connections.
func (s *Server) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error("panic recovered",
					"panic", rec,
					"request_id", chimw.GetReqID(r.Context()),
					"stack", string(debug.Stack()),
				)
				s.writeError(w, http.StatusInternalServerError, codeInternal, "internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", chimw.GetReqID(r.Context()),
		)
	})
}

func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" {
			if !originAllowed(origin, s.origins) {
				s.writeError(w, http.StatusForbidden, codeForbidden, "origin not allowed")
				return
			}
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// originAllowed reports whether origin passes the allowlist. "*" admits
// everything; other entries match the origin exactly, case-insensitively.
func originAllowed(origin string, allowlist []string) bool {
	for _, allowed := range allowlist {
		allowed = strings.TrimSpace(allowed)
		if allowed == "*" {
			return true
		}
		if allowed != "" && strings.EqualFold(strings.TrimRight(allowed, "/"), strings.TrimRight(origin, "/")) {
			return true
		}
	}
	return false
}

// baseURL resolves the public base URL for links in onboarding documents:
// the configured override, else proxy forwarded headers, else the request
// host itself.
func (s *Server) baseURL(r *http.Request) string {
	if s.publicBase != "" {
		return s.publicBase
	}
	proto := headerFirst(r.Header.Get("X-Forwarded-Proto"))
	if proto == "" {
		proto = "https"
	}
	if host := headerFirst(r.Header.Get("X-Forwarded-Host")); host != "" && (proto == "http" || proto == "https") {
		return proto + "://" + host
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}

// headerFirst returns the first comma-separated element of a forwarded
// header, trimmed. Proxies append one element per hop.
func headerFirst(v string) string {
	if i := strings.IndexByte(v, ','); i >= 0 {
		v = v[:i]
	}
	return strings.TrimSpace(v)
}

// clientKey is the rate-limit key for r. RealIP has already folded proxy
// headers into RemoteAddr, which may or may not still carry a port.
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
