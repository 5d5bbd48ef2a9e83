package handlers

import (
	"github.com/foster034/pal-content-api/internal/queue"
	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"
)

type AdminHandler struct {
	AsynqClient *asynq.Client
}

func NewAdminHandler(asynqClient *asynq.Client) *AdminHandler {
	return &AdminHandler{AsynqClient: asynqClient}
}

// BackfillFranchiseIDs enqueues the franchise-id repair. It runs as a queued
// task so the request returns immediately and the repair stays off the normal
// write path.
func (h *AdminHandler) BackfillFranchiseIDs(c *fiber.Ctx) error {
	if err := queue.EnqueueBackfill(h.AsynqClient); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "unable to enqueue backfill task",
		})
	}

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"success": true,
		"message": "backfill task enqueued",
	})
}
