package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"portfolio/internal/log"
	"portfolio/internal/middleware/ratelimit"
	"portfolio/internal/middleware/security"
	"portfolio/internal/middleware/trace"
	"portfolio/internal/observability"
	"portfolio/internal/ports"
	"portfolio/internal/services"
)

// Dependencies are the collaborators the API serves from. Metrics and
// Logger are optional.
type Dependencies struct {
	Store              ports.Store
	Expenses           *services.ExpenseService
	Analytics          *services.AnalyticsService
	Metrics            *observability.Metrics
	Logger             *log.Logger
	RateLimitPerMinute int
}

type Server struct {
	http.Server
	store     ports.Store
	expenses  *services.ExpenseService
	analytics *services.AnalyticsService
	metrics   *observability.Metrics
	limiter   *ratelimit.Limiter
	detector  *security.Detector
	startedAt time.Time
}

func NewServer(addr string, deps Dependencies) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}

	s := &Server{
		store:     deps.Store,
		expenses:  deps.Expenses,
		analytics: deps.Analytics,
		metrics:   deps.Metrics,
		limiter:   ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: deps.RateLimitPerMinute}),
		detector:  security.NewDetector(),
		startedAt: time.Now(),
	}
	if s.expenses == nil {
		s.expenses = services.NewExpenseService(deps.Store, nil)
	}
	if s.analytics == nil {
		s.analytics = services.NewAnalyticsService(deps.Store, time.Local)
	}

	s.detector.OnSuspicious(func(r *http.Request) {
		s.metrics.RecordSuspicious()
		log.FromContext(r.Context()).WithComponent(log.ComponentSecurity).WarnContext(r.Context(),
			"Suspicious request",
			log.FieldClientIP, s.detector.ExtractClientIP(r),
			log.FieldMethod, r.Method,
			log.FieldPath, r.URL.Path)
	})

	s.Server = http.Server{
		Addr:              addr,
		Handler:           s.routes(logger),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

func (s *Server) routes(logger *log.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(log.Middleware(logger))
	r.Use(trace.NewMiddleware(s.detector.ExtractClientIP, s.metrics).Middleware)
	r.Use(log.RequestIDMiddleware(trace.GetRequestID))
	r.Use(chimw.Recoverer)
	r.Use(security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware)
	r.Use(s.detector.Middleware)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSONError(w, http.StatusNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Handle("/metrics", s.metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(s.limiter.Middleware(s.detector.ExtractClientIP, s.handleRateLimited))
		r.Use(chimw.AllowContentType("application/json"))

		r.Route("/projects", func(r chi.Router) {
			r.Get("/", s.handleListProjects)
			r.Post("/", s.handleCreateProject)
			r.Get("/{id}", s.handleGetProject)
			r.Put("/{id}", s.handleUpdateProject)
			r.Delete("/{id}", s.handleDeleteProject)
		})
		r.Route("/backlinks", func(r chi.Router) {
			r.Get("/", s.handleListBacklinks)
			r.Post("/", s.handleCreateBacklink)
			r.Get("/{id}", s.handleGetBacklink)
			r.Put("/{id}", s.handleUpdateBacklink)
			r.Delete("/{id}", s.handleDeleteBacklink)
		})
		r.Route("/expenses", func(r chi.Router) {
			r.Get("/", s.handleListExpenses)
			r.Post("/", s.handleCreateExpense)
			r.Get("/{id}", s.handleGetExpense)
			r.Put("/{id}", s.handleUpdateExpense)
			r.Delete("/{id}", s.handleDeleteExpense)
		})
		r.Route("/github-accounts", func(r chi.Router) {
			r.Get("/", s.handleListGithubAccounts)
			r.Post("/", s.handleCreateGithubAccount)
			r.Get("/{id}", s.handleGetGithubAccount)
			r.Put("/{id}", s.handleUpdateGithubAccount)
			r.Delete("/{id}", s.handleDeleteGithubAccount)
		})
		r.Route("/links", func(r chi.Router) {
			r.Get("/", s.handleListLinks)
			r.Post("/", s.handleCreateLink)
			r.Get("/{id}", s.handleGetLink)
			r.Put("/{id}", s.handleUpdateLink)
			r.Delete("/{id}", s.handleDeleteLink)
		})
		r.Route("/recurring-costs", func(r chi.Router) {
			r.Get("/", s.handleListRecurringCosts)
			r.Post("/", s.handleCreateRecurringCost)
			r.Delete("/{id}", s.handleDeleteRecurringCost)
		})
		r.Route("/analytics", func(r chi.Router) {
			r.Get("/expenses", s.handleExpenseAnalytics)
			r.Get("/backlinks", s.handleBacklinkAnalytics)
			r.Get("/dashboard", s.handleDashboard)
		})
	})

	return r
}

func (s *Server) handleRateLimited(w http.ResponseWriter, r *http.Request) {
	s.metrics.RecordRateLimited()
	log.FromContext(r.Context()).WithComponent(log.ComponentRateLimit).WarnContext(r.Context(),
		"Rate limit exceeded", log.FieldClientIP, s.detector.ExtractClientIP(r))
	writeJSONError(w, http.StatusTooManyRequests, "rate limit exceeded, please try again later")
}

// Shutdown stops the rate limiter and drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.limiter.Stop()
	return s.Server.Shutdown(ctx)
}
