package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"salonstock/internal/services"

	"github.com/hibiken/asynq"
)

// Task type definitions
const (
	TypeAlertScan = "alerts:scan"
)

// AlertScanPayload carries when the scan was requested; the scan itself always
// runs over current state.
type AlertScanPayload struct {
	RequestedAt time.Time `json:"requested_at"`
}

// NewAlertScanTask creates a low-stock scan task.
func NewAlertScanTask() (*asynq.Task, error) {
	payload := AlertScanPayload{RequestedAt: time.Now()}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeAlertScan, data), nil
}

// AlertQueue enqueues alert scans after ledger mutations. It implements
// services.AlertEnqueuer.
type AlertQueue struct {
	client *asynq.Client
}

func NewAlertQueue(client *asynq.Client) *AlertQueue {
	return &AlertQueue{client: client}
}

func (q *AlertQueue) EnqueueAlertScan(ctx context.Context) error {
	task, err := NewAlertScanTask()
	if err != nil {
		return fmt.Errorf("build alert scan task: %w", err)
	}
	// Deduplicated: mutations arriving while a scan is queued collapse into it.
	_, err = q.client.EnqueueContext(ctx, task,
		asynq.TaskID("alerts:scan:pending"),
		asynq.Retention(time.Minute))
	if err != nil && err != asynq.ErrDuplicateTask {
		return fmt.Errorf("enqueue alert scan: %w", err)
	}
	return nil
}

// AlertScanner runs the scans dequeued by the asynq worker.
type AlertScanner struct {
	alertSvc services.AlertService
}

func NewAlertScanner(alertSvc services.AlertService) *AlertScanner {
	return &AlertScanner{alertSvc: alertSvc}
}

// AlertScanHandler handles low-stock scan tasks.
func (s *AlertScanner) AlertScanHandler(ctx context.Context, t *asynq.Task) error {
	var payload AlertScanPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal alert scan payload: %w", err)
	}

	created, err := s.alertSvc.GenerateLowStockAlerts(ctx)
	if err != nil {
		log.Printf("Low-stock scan failed: %v", err)
		return err
	}
	if created > 0 {
		log.Printf("Low-stock scan created %d alerts (requested at %s)", created, payload.RequestedAt.Format(time.RFC3339))
	}
	return nil
}
