package main

import (
	"log/slog"

	"callsim/internal/auth"
	"callsim/internal/config"
	"callsim/internal/httpapi"

	"github.com/gin-gonic/gin"
)

// registerRoutes wires HTTP routes to handlers.
// Keep this file free of business logic.
func registerRoutes(r *gin.Engine, cfg *config.Config, h httpapi.Handlers) error {
	var protect gin.HandlerFunc
	if cfg.AuthEnabled() {
		m, err := auth.NewManager(cfg.Auth)
		if err != nil {
			return err
		}
		h.Auth = m
		protect = auth.RequireAccessToken(m)
	} else {
		slog.Warn("JWT_SECRET not set, API is unauthenticated", "env", cfg.App.Env)
	}

	httpapi.Register(r, h, protect)
	return nil
}
