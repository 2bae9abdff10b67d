package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"callsim/internal/audit"
	"callsim/internal/calllog"
	"callsim/internal/calls"
	"callsim/internal/config"
	"callsim/internal/contacts"
	"callsim/internal/gesture"
	"callsim/internal/httpapi"
	"callsim/internal/reporting"
	"callsim/internal/ringer"
	"callsim/internal/simulator"
	"callsim/pkg/logger"

	"github.com/gin-gonic/gin"
)

func main() {
	// Root context that cancels on shutdown
	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "err", err)
		os.Exit(1)
	}

	log := logger.New(cfg.App.Env)
	slog.SetDefault(log)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	backend, closeBackend, err := calllog.OpenBackend(rootCtx, cfg)
	if err != nil {
		log.Error("call log storage init failed", "driver", cfg.Storage.Driver, "err", err)
		os.Exit(1)
	}
	defer closeBackend()

	store := calllog.New(backend, calllog.Options{
		Key:          cfg.Storage.Key,
		WriteTimeout: cfg.Storage.WriteTimeout,
		Logger:       log.With("component", "calllog"),
	})
	loaded := store.Load(rootCtx)
	log.Info("call log loaded", "driver", cfg.Storage.Driver, "entries", len(loaded))

	classifier, err := gesture.NewTrackClassifier(gesture.Track{
		Width:      cfg.Calls.SwipeTrackWidth,
		ButtonSize: cfg.Calls.SwipeButtonSize,
	})
	if err != nil {
		log.Error("swipe track invalid", "err", err)
		os.Exit(1)
	}

	trail := audit.NewService(audit.NewMemoryRepo(audit.DefaultCapacity), log.With("component", "audit"))

	ring := ringer.NewSimulated(ringer.Options{Logger: log.With("component", "ringer")})
	engine := calls.NewEngine(store, ring, calls.Options{
		RingTimeout: cfg.Calls.RingTimeout,
		Observer:    trail.Observe,
		Logger:      log.With("component", "calls"),
	})

	sim := simulator.New(simulator.Deps{
		Engine:       engine,
		Classifier:   classifier,
		Logs:         store,
		Directory:    contacts.NewMemoryDirectory(contacts.Seed(cfg.Calls.ContactsCount), cfg.Calls.ContactsPage),
		Trail:        trail,
		ConnectDelay: cfg.Calls.ConnectDelay,
		Logger:       log.With("component", "simulator"),
	})

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.Middleware(log))

	if err := registerRoutes(r, cfg, httpapi.Handlers{
		Sim:     sim,
		Reports: reporting.NewService(store),
		Events:  trail,
	}); err != nil {
		log.Error("route wiring failed", "err", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("api listening", "addr", srv.Addr, "env", cfg.App.Env, "auth", cfg.AuthEnabled())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", "err", err)
			stop()
		}
	}()

	<-rootCtx.Done()
	log.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown failed", "err", err)
	}
	engine.Close()
	_ = ring.Stop()
	if err := store.Close(shutdownCtx); err != nil {
		log.Error("call log flush failed", "err", err)
	}
}
