package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/convive/convive/internal/config"
	"github.com/convive/convive/internal/handler"
	"github.com/convive/convive/internal/handler/auth"
	calhandler "github.com/convive/convive/internal/handler/calendar"
	"github.com/convive/convive/internal/handler/chat"
	"github.com/convive/convive/internal/handler/event"
	"github.com/convive/convive/internal/handler/invite"
	"github.com/convive/convive/internal/logging"
	"github.com/convive/convive/internal/middleware"
	"github.com/convive/convive/internal/reminder"
	"github.com/convive/convive/internal/svc"
)

// ServerOptions holds optional dependencies for the server
type ServerOptions struct {
	SvcCtx *svc.ServiceContext // Pre-initialized service context (tests)
	Quiet  bool                // Suppress startup messages
}

// Run starts the convive server with the given configuration.
// It blocks until the context is cancelled or an error occurs.
func Run(ctx context.Context, c config.Config, opts ...ServerOptions) error {
	var o ServerOptions
	if len(opts) > 0 {
		o = opts[0]
	}
	return run(ctx, c, o)
}

func run(ctx context.Context, c config.Config, opts ServerOptions) error {
	serverPort := c.Port

	if err := checkPortAvailable(serverPort); err != nil {
		return fmt.Errorf("port %d is already in use", serverPort)
	}

	var svcCtx *svc.ServiceContext
	if opts.SvcCtx != nil {
		svcCtx = opts.SvcCtx
	} else {
		var err error
		svcCtx, err = svc.NewServiceContext(c)
		if err != nil {
			return err
		}
		defer svcCtx.Close()
	}

	// Reminder scheduler runs inside the server process.
	if c.IsReminderEnabled() {
		scheduler, err := reminder.NewScheduler(svcCtx)
		if err != nil {
			return fmt.Errorf("start reminder scheduler: %w", err)
		}
		scheduler.Start()
		defer scheduler.Stop()
	}

	r := NewRouter(svcCtx, opts.Quiet)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", serverPort),
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	if !opts.Quiet {
		logging.Infof("Server ready at http://localhost:%d", serverPort)
	}

	go func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Errorf("HTTP server error: %v", err)
		}
	}()

	<-ctx.Done()

	if !opts.Quiet {
		logging.Info("Shutting down server gracefully...")
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return httpServer.Shutdown(shutdownCtx)
}

// NewRouter builds the full route tree. Exposed separately so tests can
// mount it on an httptest server.
func NewRouter(svcCtx *svc.ServiceContext, quiet bool) chi.Router {
	c := svcCtx.Config

	r := chi.NewRouter()
	if !quiet {
		r.Use(chimw.Logger)
	}
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(corsMiddleware())

	r.Get("/health", handler.HealthCheckHandler(svcCtx))

	authLimiter := middleware.NewRateLimiter(middleware.AuthRateLimitConfig(
		c.Security.AuthRateLimitRequests, c.Security.AuthRateLimitInterval))
	apiLimiter := middleware.NewRateLimiter(middleware.APIRateLimitConfig(
		c.Security.RateLimitRequests, c.Security.RateLimitInterval))

	r.Route("/api/v1", func(r chi.Router) {
		if c.IsSecurityHeadersEnabled() {
			r.Use(securityHeadersMiddleware())
		}
		r.Use(apiLimiter.Middleware())

		// Auth routes with stricter rate limiting
		r.Group(func(r chi.Router) {
			r.Use(authLimiter.Middleware())
			registerAuthRoutes(r, svcCtx)
		})

		// Public routes (no auth required)
		registerPublicRoutes(r, svcCtx)

		// Protected routes (JWT required)
		r.Group(func(r chi.Router) {
			r.Use(middleware.JWTMiddleware(c.Auth.AccessSecret, svcCtx.KV))
			registerProtectedRoutes(r, svcCtx)
		})
	})

	return r
}

// registerAuthRoutes registers auth routes with stricter rate limiting
func registerAuthRoutes(r chi.Router, svcCtx *svc.ServiceContext) {
	r.Post("/auth/request-code", auth.RequestCodeHandler(svcCtx))
	r.Post("/auth/verify", auth.VerifyHandler(svcCtx))
	r.Post("/auth/refresh", auth.RefreshTokenHandler(svcCtx))
	r.Post("/auth/logout", auth.LogoutHandler(svcCtx))
}

// registerPublicRoutes registers routes that don't require authentication
func registerPublicRoutes(r chi.Router, svcCtx *svc.ServiceContext) {
	// Invitation token routes (the link guests get by SMS)
	r.Get("/invite/{token}", invite.GetInviteHandler(svcCtx))
	r.Post("/invite/{token}/respond", invite.RespondHandler(svcCtx))
	r.Get("/invite/{token}/event.ics", invite.ICSHandler(svcCtx))

	// Room routes used by the chat pipeline
	r.Post("/invite/room/{roomId}/respond", invite.RoomRespondHandler(svcCtx))
	r.Get("/invite/room/{roomId}/status", invite.RoomStatusHandler(svcCtx))

	// Chat ingress
	r.Post("/chat/message", chat.SendMessageHandler(svcCtx))
	r.Get("/chat/room/{roomId}/state", chat.RoomStateHandler(svcCtx))

	// OAuth callback (Google redirects the browser here, no auth header)
	r.Get("/calendar/callback", calhandler.CallbackHandler(svcCtx))
}

// registerProtectedRoutes registers routes that require JWT authentication
func registerProtectedRoutes(r chi.Router, svcCtx *svc.ServiceContext) {
	// Event CRUD
	r.Post("/events", event.CreateEventHandler(svcCtx))
	r.Get("/events", event.ListEventsHandler(svcCtx))
	r.Get("/events/{id}", event.GetEventHandler(svcCtx))
	r.Put("/events/{id}", event.UpdateEventHandler(svcCtx))
	r.Delete("/events/{id}", event.DeleteEventHandler(svcCtx))

	// Invitations
	r.Post("/events/{id}/invitations", invite.CreateInviteHandler(svcCtx))
	r.Get("/events/{id}/invitations", invite.ListInvitesHandler(svcCtx))

	// Calendar
	r.Get("/calendar/connect", calhandler.ConnectHandler(svcCtx))
	r.Get("/calendar/status", calhandler.StatusHandler(svcCtx))
	r.Delete("/calendar", calhandler.DisconnectHandler(svcCtx))
}

// securityHeadersMiddleware adds security headers to responses
func securityHeadersMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			headers := middleware.APISecurityHeaders()
			w.Header().Set("Content-Security-Policy", headers.ContentSecurityPolicy)
			w.Header().Set("X-Content-Type-Options", headers.XContentTypeOptions)
			w.Header().Set("X-Frame-Options", headers.XFrameOptions)
			w.Header().Set("X-XSS-Protection", headers.XXSSProtection)
			w.Header().Set("Referrer-Policy", headers.ReferrerPolicy)
			w.Header().Set("Permissions-Policy", headers.PermissionsPolicy)
			w.Header().Set("Cache-Control", headers.CacheControl)
			w.Header().Set("Pragma", headers.Pragma)
			next.ServeHTTP(w, r)
		})
	}
}

// corsMiddleware handles CORS for the web client.
func corsMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if origin := r.Header.Get("Origin"); origin != "" {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Credentials", "true")
			}
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS, PATCH")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// checkPortAvailable checks if a port is available for binding
func checkPortAvailable(port int) error {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return err
	}
	ln.Close()
	return nil
}
