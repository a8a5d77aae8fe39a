// internal/api/server.go
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"site-builder/internal/common/logger"
	slotgenerator "site-builder/internal/services/booking/slot-generator"
	leadrelay "site-builder/internal/services/leads/lead-relay"
	submitlead "site-builder/internal/services/leads/submit-lead"
	reputationgate "site-builder/internal/services/reputation/reputation-gate"
	configstore "site-builder/internal/services/site/config-store"
	exportsite "site-builder/internal/services/site/export-site"
	generateimage "site-builder/internal/services/site/generate-image"
)

type ImageGenerator interface {
	Generate(ctx context.Context, req generateimage.Request) generateimage.Result
}

type Exporter interface {
	Run(ctx context.Context, action, githubRepo string) (*exportsite.Output, error)
}

// Deps are the services behind the routes. Relay may be nil, which leaves
// /hooks/lead unregistered.
type Deps struct {
	Store    *configstore.Store
	Slots    *slotgenerator.Service
	Gateway  submitlead.Submitter
	Sessions *reputationgate.Sessions
	Images   ImageGenerator
	Exporter Exporter
	Relay    *leadrelay.Relay

	// Ready reports whether backing stores are reachable.
	Ready func(ctx context.Context) error
	// Location is used to read YYYY-MM-DD dates. Defaults to time.Local.
	Location *time.Location
	Now      func() time.Time
}

type Options struct {
	AllowedOrigins     []string
	RateLimitPerMinute int
	RateLimitBurst     int
	WebhookConfigured  bool

	// AdminToken guards config writes, image generation and export. Empty
	// leaves them open.
	AdminToken string
	// HookSecret is the bearer token /hooks/lead expects from the gateway.
	HookSecret string
}

type Server struct {
	deps    Deps
	opts    Options
	limiter *RateLimiter
	router  *httprouter.Router
	handler http.Handler
	logger  logger.Logger
}

func NewServer(deps Deps, opts Options, log logger.Logger) *Server {
	if deps.Location == nil {
		deps.Location = time.Local
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	s := &Server{
		deps:    deps,
		opts:    opts,
		limiter: NewRateLimiter(opts.RateLimitPerMinute, opts.RateLimitBurst),
		router:  httprouter.New(),
		logger:  log.WithFields(map[string]interface{}{"service": "api"}),
	}
	s.routes()

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	corsHandler := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization", submitlead.IdempotencyHeader},
	}).Handler(s.router)

	s.handler = securityHeaders(corsHandler)
	return s
}

func (s *Server) Handler() http.Handler { return s.handler }

// Limiter exposes the rate limiter so the caller can run its sweeper.
func (s *Server) Limiter() *RateLimiter { return s.limiter }

func (s *Server) routes() {
	s.handle(http.MethodGet, "/health", s.health, false)
	s.handle(http.MethodGet, "/ready", s.ready, false)
	s.router.Handler(http.MethodGet, "/metrics", promhttp.Handler())

	s.handle(http.MethodGet, "/api/config", s.getConfig, false)
	s.handle(http.MethodGet, "/api/config/export", s.admin(s.exportConfig), false)
	s.handle(http.MethodPatch, "/api/config", s.admin(s.patchConfig), false)
	s.handle(http.MethodPatch, "/api/config/:section", s.admin(s.patchSection), false)
	s.handle(http.MethodPost, "/api/config/reset", s.admin(s.resetConfig), false)
	s.handle(http.MethodPost, "/api/config/import", s.admin(s.importConfig), false)

	s.handle(http.MethodGet, "/api/slots", s.getSlots, false)
	s.handle(http.MethodPost, "/api/leads", s.postLead, true)
	s.handle(http.MethodGet, "/api/test-webhook", s.admin(s.testWebhook), true)

	s.handle(http.MethodPost, "/api/reputation/sessions", s.createSession, true)
	s.handle(http.MethodGet, "/api/reputation/sessions/:id", s.getSession, false)
	s.handle(http.MethodPost, "/api/reputation/sessions/:id/rating", s.rate, true)
	s.handle(http.MethodPost, "/api/reputation/sessions/:id/feedback", s.feedback, true)

	s.handle(http.MethodPost, "/api/images", s.admin(s.generateImage), true)
	s.handle(http.MethodPost, "/api/export", s.admin(s.export), true)

	// every lead reaches the hook from the gateway's address, so the
	// per-visitor limiter would throttle the whole site
	if s.deps.Relay != nil {
		s.handle(http.MethodPost, "/hooks/lead", requireBearer(s.opts.HookSecret, s.relayLead), false)
	}
}

// handle registers h with logging and metrics, and rate limiting when limited.
func (s *Server) handle(method, path string, h httprouter.Handle, limited bool) {
	if limited {
		h = s.limiter.Limit(h)
	}
	s.router.Handle(method, path, s.instrument(path, h))
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}

func (s *Server) ready(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if s.deps.Ready != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.deps.Ready(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"error":  err.Error(),
			})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ready",
		"time":   time.Now().Format(time.RFC3339),
	})
}
