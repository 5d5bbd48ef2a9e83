package handlers

import (
	"strconv"

	"github.com/foster034/pal-content-api/internal/service"
	"github.com/foster034/pal-content-api/internal/transfer"
	"github.com/gofiber/fiber/v2"
)

type PostsHandler struct {
	s service.PublishService
}

func NewPostsHandler(s service.PublishService) *PostsHandler {
	return &PostsHandler{s: s}
}

func (h *PostsHandler) ListScheduled(c *fiber.Ctx) error {
	franchiseID := c.Query("franchise_id")
	limit := c.QueryInt("limit", 0)
	includeArchived := c.QueryBool("include_archived", false)

	posts, err := h.s.ListScheduled(c.Context(), franchiseID, limit, includeArchived)
	if err != nil {
		return writeError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(posts)
}

func (h *PostsHandler) CreateScheduled(c *fiber.Ctx) error {
	var pc transfer.ScheduledPostCreation
	if err := c.BodyParser(&pc); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "unable to parse json",
		})
	}

	post, err := h.s.Schedule(c.Context(), &pc)
	if err != nil {
		return writeError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(post)
}

type archiveRequest struct {
	ID int64 `json:"id"`
}

// ArchiveScheduled cancels a scheduled item before its hand-off.
func (h *PostsHandler) ArchiveScheduled(c *fiber.Ctx) error {
	var req archiveRequest
	if err := c.BodyParser(&req); err != nil || req.ID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "id is required",
		})
	}

	if err := h.s.ArchiveScheduled(c.Context(), req.ID); err != nil {
		return writeError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"success": true})
}

func (h *PostsHandler) ListPublished(c *fiber.Ctx) error {
	franchiseID := c.Query("franchise_id")
	limit := c.QueryInt("limit", 0)
	includeArchived := c.QueryBool("include_archived", false)

	posts, err := h.s.ListPublished(c.Context(), franchiseID, limit, includeArchived)
	if err != nil {
		return writeError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(posts)
}

func (h *PostsHandler) CreatePublished(c *fiber.Ctx) error {
	var pc transfer.PublishedPostCreation
	if err := c.BodyParser(&pc); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "unable to parse json",
		})
	}

	post, err := h.s.Publish(c.Context(), &pc)
	if err != nil {
		return writeError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(post)
}

func (h *PostsHandler) UpdatePublished(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid id",
		})
	}

	var upd transfer.PublishedPostUpdate
	if err := c.BodyParser(&upd); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "unable to parse json",
		})
	}

	post, err := h.s.UpdatePublished(c.Context(), id, &upd)
	if err != nil {
		return writeError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(post)
}

// DeletePublished archives the item. History is never physically deleted.
func (h *PostsHandler) DeletePublished(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid id",
		})
	}

	if err := h.s.ArchivePublished(c.Context(), id); err != nil {
		return writeError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"success": true})
}
