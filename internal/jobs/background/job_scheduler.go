package background

import (
	"context"
	"log"
	"sync"
	"time"

	"salonstock/internal/caching"
	"salonstock/internal/services"

	"github.com/go-co-op/gocron/v2"
)

// JobScheduler runs the periodic maintenance jobs: a full low-stock scan as a
// safety net behind the per-mutation scans, and an inventory stats refresh.
type JobScheduler struct {
	scheduler gocron.Scheduler
	alertSvc  services.AlertService
	cacheSvc  caching.CacheService
	jobs      map[string]gocron.Job
	mu        sync.RWMutex

	scanInterval  time.Duration
	statsInterval time.Duration
}

func NewJobScheduler(alertSvc services.AlertService, cacheSvc caching.CacheService,
	scanInterval, statsInterval time.Duration) *JobScheduler {

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		log.Fatalf("Failed to create scheduler: %v", err)
	}

	js := &JobScheduler{
		scheduler:     scheduler,
		alertSvc:      alertSvc,
		cacheSvc:      cacheSvc,
		jobs:          make(map[string]gocron.Job),
		scanInterval:  scanInterval,
		statsInterval: statsInterval,
	}

	js.registerJobs()

	return js
}

func (js *JobScheduler) Start() error {
	log.Printf("Starting background job scheduler")
	js.scheduler.Start()
	return nil
}

func (js *JobScheduler) Stop() error {
	log.Printf("Stopping background job scheduler")
	return js.scheduler.Shutdown()
}

func (js *JobScheduler) registerJobs() {
	scanJob, err := js.scheduler.NewJob(
		gocron.DurationJob(js.scanInterval),
		gocron.NewTask(js.runLowStockScan, context.Background()),
		gocron.WithName("low-stock-scan"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Printf("Failed to create low-stock scan job: %v", err)
	} else {
		js.jobs["low-stock-scan"] = scanJob
	}

	statsJob, err := js.scheduler.NewJob(
		gocron.DurationJob(js.statsInterval),
		gocron.NewTask(js.refreshInventoryStats, context.Background()),
		gocron.WithName("inventory-stats-refresh"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Printf("Failed to create stats refresh job: %v", err)
	} else {
		js.jobs["inventory-stats-refresh"] = statsJob
	}

	log.Printf("Registered %d background jobs", len(js.jobs))
}

func (js *JobScheduler) runLowStockScan(ctx context.Context) {
	created, err := js.alertSvc.GenerateLowStockAlerts(ctx)
	if err != nil {
		log.Printf("Scheduled low-stock scan failed: %v", err)
		return
	}
	if created > 0 {
		log.Printf("Scheduled low-stock scan created %d alerts", created)
	}
}

// refreshInventoryStats drops the cached aggregate and recomputes it so
// dashboard reads between mutations stay warm.
func (js *JobScheduler) refreshInventoryStats(ctx context.Context) {
	if err := js.cacheSvc.DeleteInventoryStats(ctx); err != nil {
		log.Printf("Failed to drop cached inventory stats: %v", err)
	}
	if _, err := js.alertSvc.GetInventoryStats(ctx); err != nil {
		log.Printf("Failed to refresh inventory stats: %v", err)
	}
}

// GetJobStatus returns the names of the registered jobs, used by the health
// endpoint.
func (js *JobScheduler) GetJobStatus() map[string]interface{} {
	js.mu.RLock()
	defer js.mu.RUnlock()

	jobs := make([]string, 0, len(js.jobs))
	for name := range js.jobs {
		jobs = append(jobs, name)
	}
	return map[string]interface{}{
		"total_jobs": len(js.jobs),
		"jobs":       jobs,
	}
}
