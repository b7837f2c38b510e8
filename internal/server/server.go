package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/pawmark/auth-service/internal/api"
	"github.com/pawmark/auth-service/internal/auth"
	"github.com/pawmark/auth-service/internal/config"
)

type Server struct {
	config     *config.AppConfig
	log        *zap.Logger
	httpServer *http.Server
}

type Params struct {
	fx.In

	Config          *config.AppConfig
	Logger          *zap.Logger
	AuthHandler     *auth.Handler
	AdminMiddleware *auth.AdminMiddleware
	RateLimiter     *auth.RateLimiter
}

func isProtectedEndpoint(r *http.Request) bool {
	route := mux.CurrentRoute(r)
	if route == nil {
		return true
	}
	tmpl, err := route.GetPathTemplate()
	if err != nil {
		return true
	}
	isPublic, exists := api.PublicEndpoints[tmpl]
	return !exists || !isPublic
}

func NewServer(p Params) *Server {
	router := mux.NewRouter()

	// Admin auth applies router-wide; public endpoints are skipped.
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !isProtectedEndpoint(r) {
				next.ServeHTTP(w, r)
				return
			}
			p.AdminMiddleware.Wrap(next).ServeHTTP(w, r)
		})
	})

	routes := []struct {
		path    string
		handler http.HandlerFunc
	}{
		{api.AuthRegister, p.AuthHandler.Register},
		{api.AuthLogin, p.AuthHandler.Login},
		{api.AuthVerifyTOTP, p.AuthHandler.VerifyTOTP},
		{api.AuthLogout, p.AuthHandler.Logout},
		{api.AuthResetRequest, p.AuthHandler.RequestReset},
		{api.AuthResetConfirm, p.AuthHandler.ConfirmReset},
		{api.AdminLock, p.AuthHandler.AdminLock},
		{api.AdminUnlock, p.AuthHandler.AdminUnlock},
	}
	for _, rt := range routes {
		var h http.Handler = rt.handler
		if api.ThrottledEndpoints[rt.path] {
			h = p.RateLimiter.Wrap(h)
		}
		router.Handle(rt.path, h).Methods(http.MethodPost)
	}

	loggedRouter := handlers.LoggingHandler(os.Stdout, router)

	addr := fmt.Sprintf("%s:%s", p.Config.Server.Host, p.Config.Server.Port)
	httpServer := &http.Server{
		Handler:      loggedRouter,
		Addr:         addr,
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		config:     p.Config,
		log:        p.Logger,
		httpServer: httpServer,
	}
}

func (s *Server) Start() error {
	s.log.Info("Starting HTTP server",
		zap.String("address", s.httpServer.Addr),
		zap.Object("config", serverConfigToField(s.config)),
	)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to serve: %w", err)
	}
	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	s.log.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

func serverConfigToField(config *config.AppConfig) zapcore.ObjectMarshaler {
	return zapcore.ObjectMarshalerFunc(func(enc zapcore.ObjectEncoder) error {
		enc.AddString("environment", os.Getenv("APP_ENV"))
		enc.AddDuration("session_idle_timeout", config.Session.IdleTimeout)
		enc.AddInt("lockout_max_attempts", config.Lockout.MaxAttempts)
		return nil
	})
}
