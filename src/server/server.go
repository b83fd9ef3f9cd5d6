package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	logger "github.com/sirupsen/logrus"

	"github.com/ZocoMacc/PaperDuel/src/auth"
	"github.com/ZocoMacc/PaperDuel/src/battle"
	"github.com/ZocoMacc/PaperDuel/src/handler"
	"github.com/ZocoMacc/PaperDuel/src/stream"
)

// NewRouter wires every battle endpoint onto a chi router.
func NewRouter(registry *battle.Registry, hub *stream.Hub, users *auth.Store) chi.Router {
	r := chi.NewRouter()

	// Public routes
	r.Get("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("OK")); err != nil {
			logger.WithError(err).Error("\"/healthcheck\" error")
		}
	})

	r.Post("/login", handler.LoginHandler(users))

	r.Route("/battle", func(r chi.Router) {
		r.Post("/start", handler.StartBattleHandler(registry))
		r.Post("/trade", handler.PlaceTradeHandler(registry))
		r.Post("/{battleID}/advance", handler.AdvanceBarHandler(registry, hub))
		r.Get("/{battleID}/state", handler.GetStateHandler(registry))
		r.Get("/{battleID}/ws", handler.BattleStreamHandler(registry, hub))
	})

	return r
}

// StartServer serves the router until SIGINT/SIGTERM, then shuts down
// gracefully.
func StartServer(port string, registry *battle.Registry, hub *stream.Hub, users *auth.Store) {
	addr := ":" + port
	srv := &http.Server{
		Addr:    addr,
		Handler: NewRouter(registry, hub, users),
	}

	// Start server in goroutine
	go func() {
		logger.Infof("Listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("Server crashed")
		}
	}()

	// Shutdown on SIGINT or SIGTERM
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("Shutting down gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("Shutdown error")
	}
}
