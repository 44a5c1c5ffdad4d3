package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/akolanti/kbcurator/internal/adapter/utils"
	"github.com/akolanti/kbcurator/internal/config"
	"github.com/akolanti/kbcurator/internal/handlers"
	"github.com/akolanti/kbcurator/internal/middleware"
	"github.com/akolanti/kbcurator/pkg/logger_i"
)

var ErrForcedShutdown = errors.New("shutdown timed out, forcing exit")

type ShutdownParams struct {
	Server        *http.Server
	WorkerStop    chan bool
	Group         *sync.WaitGroup
	CloseServices context.CancelFunc
}

// NewRouter mounts the job API. /healthz and /metrics skip the middleware chain.
func NewRouter() http.Handler {
	r := utils.NewRouter()

	r.Router.Get("/healthz", handlers.HealthHandler)
	r.Router.Post("/classify", middleware.ClassifyHandler)
	r.Router.Post("/validate", middleware.ValidateHandler)
	r.Router.Post("/validate/upload", middleware.ValidateUploadHandler)
	r.Router.Get("/status/{id}", middleware.GetStatusHandler)
	r.Router.Get("/history/{batch}", middleware.GetHistoryHandler)
	return r.Router
}

func CreateServer(listenAddr string) *http.Server {
	return &http.Server{
		Addr:         listenAddr,
		Handler:      NewRouter(),
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		IdleTimeout:  config.IdleTimeout,
	}
}

// ListenAndServe blocks until the server is shut down. A clean shutdown returns nil.
func ListenAndServe(server *http.Server) error {
	log := logger_i.NewLogger("server")
	log.Info("server is listening", "address", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("server crashed", "error", err, "addr", server.Addr)
		return fmt.Errorf("listen on %s: %w", server.Addr, err)
	}
	return nil
}

// ShutDownHandler drains the server, then the workers, then the external services.
func ShutDownHandler(params ShutdownParams) error {
	log := logger_i.NewLogger("server")
	log.Info("server is shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), config.ShutdownContextTimeout)
	defer cancel()

	done := make(chan struct{})

	go func() {
		if params.Server != nil {
			params.Server.SetKeepAlivesEnabled(false)
			if err := params.Server.Shutdown(ctx); err != nil {
				log.Error("could not shutdown gracefully", "error", err)
			}
		}

		//close workers
		if params.WorkerStop != nil {
			close(params.WorkerStop)
		}
		if params.Group != nil {
			params.Group.Wait()
		}
		if params.CloseServices != nil {
			params.CloseServices()
		}
		close(done)
	}()

	select {
	case <-done:
		log.Info("graceful shutdown complete")
		return nil
	case <-ctx.Done():
		log.Warn("force shut down")
		return ErrForcedShutdown
	}
}
