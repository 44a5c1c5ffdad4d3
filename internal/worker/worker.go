package worker

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/akolanti/kbcurator/internal/config"
	"github.com/akolanti/kbcurator/internal/curation"
	"github.com/akolanti/kbcurator/internal/job"
	"github.com/akolanti/kbcurator/internal/metrics"
	"github.com/akolanti/kbcurator/pkg/logger_i"
)

var (
	_jobService        *job.Service
	stopWorkerChannel  chan bool
	workerWaitGroup    *sync.WaitGroup
	dispatcherChannel  chan bool
	currentWorkerCount int64
	logger             *logger_i.Logger
	_curationService   curation.Service
	minWorkerCount     = config.MinWorkerCount
	idleTimeout        = config.IdleWorkerTimeout
)

func InitServices(jobService *job.Service, curationService curation.Service) {
	_jobService = jobService
	_curationService = curationService
	dispatcherChannel = jobService.DispatcherChannel
}

func InitWorkerPool(stopWorkerChan chan bool, waitGroup *sync.WaitGroup) {
	stopWorkerChannel = stopWorkerChan
	workerWaitGroup = waitGroup
	logger = logger_i.NewLogger("worker_pool")
	logger.Info("initializing worker pool")
	createWorker()
	go dispatcher(dispatcherChannel)
}

func dispatcher(signals <-chan bool) {
	logger.Info("dispatcher started")
	for range signals {
		if atomic.LoadInt64(&currentWorkerCount) < config.MaxWorkerCount {
			createWorker()
		}
	}
}

func createWorker() {
	workerWaitGroup.Add(1)
	n := atomic.AddInt64(&currentWorkerCount, 1)
	metrics.IncrementActiveWorkerCount()
	logger.Info("created new worker", "workerCount", n)
	go worker()
}

func worker() {
	for {
		select {
		case currentJob := <-_jobService.JobChannel:
			metrics.DecrementJobsInQueue()
			executeJob(currentJob)

		case <-stopWorkerChannel:
			removeWorker("stop worker signal received")
			return

		case <-time.After(idleTimeout):
			if tryRetire() {
				workerWaitGroup.Done()
				metrics.DecrementActiveWorkerCount()
				logger.Info("idle worker retired", "workerCount", atomic.LoadInt64(&currentWorkerCount))
				return
			}
		}
	}
}

// tryRetire claims one slot above the minimum pool size.
func tryRetire() bool {
	for {
		n := atomic.LoadInt64(&currentWorkerCount)
		if n <= minWorkerCount {
			return false
		}
		if atomic.CompareAndSwapInt64(&currentWorkerCount, n, n-1) {
			return true
		}
	}
}
