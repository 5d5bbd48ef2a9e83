package queue

import (
	"context"
	"log"

	"github.com/foster034/pal-content-api/internal/service"
	"github.com/hibiken/asynq"
)

type Worker struct {
	repair service.RepairService
}

func NewWorker(repair service.RepairService) *Worker {
	return &Worker{repair: repair}
}

func (w *Worker) HandleBackfillTask(ctx context.Context, task *asynq.Task) error {
	report, err := w.repair.BackfillFranchiseIDs(ctx)
	if err != nil {
		log.Printf("Backfill task failed: %v", err)
		return err
	}

	log.Printf("Backfill task done: repaired=%d unresolved=%d", report.Repaired, report.Unresolved)
	return nil
}
