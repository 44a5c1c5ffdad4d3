package cli

import (
	"context"
	"errors"
	"sync"

	"github.com/akolanti/kbcurator/internal/config"
	"github.com/akolanti/kbcurator/internal/data/redisStore"
	"github.com/akolanti/kbcurator/internal/data/store"
	"github.com/akolanti/kbcurator/internal/domain/jobModel"
	"github.com/akolanti/kbcurator/internal/handlers"
	"github.com/akolanti/kbcurator/internal/job"
	"github.com/akolanti/kbcurator/internal/middleware"
	"github.com/akolanti/kbcurator/internal/server"
	"github.com/akolanti/kbcurator/internal/worker"
	"github.com/akolanti/kbcurator/pkg/logger_i"
	"github.com/spf13/cobra"
)

var errRedisOffline = errors.New("redis stores are offline")

func newServeCmd(a *app) *cobra.Command {
	var listenAddr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the asynchronous classify/validate job API",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			if listenAddr == "" {
				listenAddr = a.cfg.Server.ListenAddr
			}
			return a.serve(cmd.Context(), listenAddr)
		},
	}
	cmd.Flags().StringVar(&listenAddr, "listen-addr", "", "server listen address (default from config)")
	return cmd
}

func (a *app) serve(ctx context.Context, listenAddr string) error {
	logger := logger_i.NewLogger("serve")

	jobChannel := make(chan jobModel.Job, config.BufferLimit)
	dispatcherChannel := make(chan bool, 1)
	stopWorkerChannel := make(chan bool, 1)
	var workerWaitGroup sync.WaitGroup

	serviceContext, closeExternalServices := context.WithCancel(context.Background())
	defer closeExternalServices()

	serviceConfig := job.ServiceConfig{
		JobChannel:        jobChannel,
		DispatcherChannel: dispatcherChannel,
	}
	opts := redisStore.Options{Addr: a.cfg.Server.RedisAddr, Password: a.cfg.Server.RedisPassword}
	jobStore := store.GetRedisJobStore(serviceContext, opts)
	historyStore := store.GetRedisHistoryStore(serviceContext, opts)
	if jobStore != nil && historyStore != nil {
		serviceConfig.JobStore = jobStore
		serviceConfig.HistoryStore = historyStore
	} else if config.FALLBACK_REDIS_TO_INTERNALSTORE {
		logger.Warn("redis stores are offline, using in-memory stores", "addr", opts.Addr)
		serviceConfig.JobStore = store.InitInMemoryJobStore()
		serviceConfig.HistoryStore = store.InitInMemoryHistoryStore()
	} else {
		return errRedisOffline
	}
	service := job.InitJobService(serviceConfig)

	handlers.InitJobHandler(service)
	middleware.Init(a.cfg.Server.AuthToken)

	worker.InitServices(service, a.curationService())
	worker.InitWorkerPool(stopWorkerChannel, &workerWaitGroup)

	srv := server.CreateServer(listenAddr)
	errCh := make(chan error, 1)
	go func() { errCh <- server.ListenAndServe(srv) }()

	var serveErr error
	select {
	case <-ctx.Done():
		logger.Info("stop signal received")
	case serveErr = <-errCh:
	}

	shutdownErr := server.ShutDownHandler(server.ShutdownParams{
		Server:        srv,
		WorkerStop:    stopWorkerChannel,
		Group:         &workerWaitGroup,
		CloseServices: closeExternalServices,
	})
	if serveErr != nil {
		return serveErr
	}
	return shutdownErr
}
