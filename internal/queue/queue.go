package queue

import (
	"log"

	"github.com/hibiken/asynq"
)

const TaskTypeBackfillFranchiseIDs = "repair:backfill_franchise_ids"

// EnqueueBackfill schedules one run of the franchise-id repair.
func EnqueueBackfill(asynqClient *asynq.Client) error {
	task := asynq.NewTask(TaskTypeBackfillFranchiseIDs, nil)

	_, err := asynqClient.Enqueue(task)
	if err != nil {
		return err
	}

	log.Printf("Task enqueued: %s", TaskTypeBackfillFranchiseIDs)
	return nil
}
