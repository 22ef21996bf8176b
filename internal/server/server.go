package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/vantail/collectroom/internal/database"
	"github.com/vantail/collectroom/internal/event"
	"github.com/vantail/collectroom/internal/freepull"
	"github.com/vantail/collectroom/internal/handler"
	"github.com/vantail/collectroom/internal/logger"
	"github.com/vantail/collectroom/internal/metrics"
	"github.com/vantail/collectroom/internal/repository"
	"github.com/vantail/collectroom/internal/reveal"
	"github.com/vantail/collectroom/internal/sse"
	"github.com/vantail/collectroom/internal/transfer"
)

type Server struct {
	httpServer      *http.Server
	dbPool          database.Pool
	revealService   reveal.Service
	transferService transfer.Service
}

// NewServer creates a new Server instance
func NewServer(port int, apiKey string, trustedProxies []string, dbPool database.Pool, cardRepo repository.Collection, revealService reveal.Service, transferService transfer.Service, freePullService freepull.Service, eventBus event.Bus, sseHub *sse.Hub) *Server {
	r := chi.NewRouter()

	// Middleware stack
	// Chi middleware executes in order defined (outermost to innermost)
	detector := NewSuspiciousActivityDetector()

	r.Use(SecurityHeadersMiddleware())
	r.Use(AuthMiddleware(apiKey, trustedProxies, detector))
	r.Use(SecurityLoggingMiddleware(trustedProxies, detector))
	r.Use(RequestSizeLimitMiddleware(1 << 20)) // 1MB limit
	r.Use(metrics.Middleware)
	r.Use(loggingMiddleware)

	// Health check routes (unversioned)
	r.Get("/healthz", handler.HandleHealthz())
	r.Get("/readyz", handler.HandleReadyz(dbPool))

	// Version endpoint (public, for deployment verification)
	r.Get("/version", handler.HandleVersion())

	// Metrics endpoint (public, for Prometheus scraping)
	r.Handle("/metrics", promhttp.Handler())

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Card delivery and lookup
		cardHandler := handler.NewCardHandler(cardRepo, eventBus)
		r.Route("/cards", func(r chi.Router) {
			r.Post("/deliver", cardHandler.HandleDeliverCard)
			r.Get("/get", cardHandler.HandleGetCard)
		})

		// Daily free pull routes
		freePullHandler := handler.NewFreePullHandler(freePullService)
		r.Route("/pulls/free", func(r chi.Router) {
			r.Get("/", freePullHandler.HandleGetStatus)
			r.Post("/", freePullHandler.HandleClaim)
		})

		// Reveal flow routes
		revealHandler := handler.NewRevealHandler(revealService)
		r.Route("/reveal", func(r chi.Router) {
			r.Post("/user", revealHandler.HandleSetUser)
			r.Post("/open", revealHandler.HandleOpenNext)
			r.Post("/flip", revealHandler.HandleReveal)
			r.Post("/file", revealHandler.HandleFile)
			r.Post("/sync", revealHandler.HandleSync)
			r.Get("/state", revealHandler.HandleGetState)
		})

		// Collection and progress routes
		progressHandler := handler.NewProgressHandler(revealService)
		r.Get("/collection", progressHandler.HandleGetCollection)
		r.Get("/progress", progressHandler.HandleGetProgress)

		// Transfer routes
		transferHandler := handler.NewTransferHandler(transferService)
		r.Route("/transfers", func(r chi.Router) {
			r.Get("/", transferHandler.HandleListPending)
			r.Post("/revoke", transferHandler.HandleRevokeGrant)

			r.Route("/session", func(r chi.Router) {
				r.Post("/", transferHandler.HandleBeginSession)
				r.Get("/", transferHandler.HandleGetSession)
				r.Post("/confirm", transferHandler.HandleConfirmSession)
				r.Post("/close", transferHandler.HandleCloseSession)
			})
		})

		// Claim routes
		claimHandler := handler.NewClaimHandler(transferService)
		r.Route("/claim", func(r chi.Router) {
			r.Get("/resolve", claimHandler.HandleResolveToken)
			r.Post("/gift", claimHandler.HandleClaimGift)
			r.Post("/swap", claimHandler.HandleClaimSwap)
		})

		// Server-sent events stream
		r.Get("/events", sse.Handler(sseHub))
	})

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           r,
			ReadHeaderTimeout: 5 * time.Second,
		},
		dbPool:          dbPool,
		revealService:   revealService,
		transferService: transferService,
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK, // default status
	}
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	if !rw.written {
		rw.statusCode = statusCode
		rw.written = true
		rw.ResponseWriter.WriteHeader(statusCode)
	}
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

// Flush lets SSE responses stream through the wrapper.
func (rw *responseWriter) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Skip logging for health check endpoints and metrics
		// Use HasPrefix to catch potential variations (e.g. /healthz/)
		if strings.HasPrefix(r.URL.Path, "/healthz") ||
			strings.HasPrefix(r.URL.Path, "/readyz") ||
			strings.HasPrefix(r.URL.Path, "/metrics") {
			next.ServeHTTP(w, r)
			return
		}

		// Generate unique request ID
		requestID := logger.GenerateRequestID()

		ctx := logger.WithRequestID(r.Context(), requestID)
		r = r.WithContext(ctx)

		log := logger.FromContext(ctx)

		log.Info(LogMsgRequestStarted,
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"content_length", r.ContentLength,
			"user_agent", r.UserAgent())

		// Sanitize headers for logging
		sanitizedHeaders := make(http.Header)
		for k, v := range r.Header {
			if strings.EqualFold(k, HeaderAPIKey) || strings.EqualFold(k, HeaderAuthorization) {
				sanitizedHeaders[k] = []string{RedactedValue}
			} else {
				sanitizedHeaders[k] = v
			}
		}
		log.Debug(LogMsgRequestHeaders, "headers", sanitizedHeaders)

		// Wrap response writer to capture status code
		rw := newResponseWriter(w)

		next.ServeHTTP(rw, r)

		duration := time.Since(start)
		log.Info(LogMsgRequestCompleted,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds(),
			"duration", duration)
	})
}

// Start starts the server
func (s *Server) Start() error {
	slog.Default().Info(LogMsgServerStarting, "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Stop stops the server gracefully
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
