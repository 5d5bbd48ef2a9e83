package handlers

import (
	"errors"
	"fmt"
	"log/slog"

	config "github.com/foster034/pal-content-api/configs"
	"github.com/foster034/pal-content-api/internal/service"
	"github.com/gofiber/fiber/v2"
)

type GBPHandler struct {
	auth       service.GBPAuthService
	status     service.StatusService
	connection service.ConnectionService
	cfg        config.Config
}

func NewGBPHandler(auth service.GBPAuthService, status service.StatusService, connection service.ConnectionService, cfg config.Config) *GBPHandler {
	return &GBPHandler{
		auth:       auth,
		status:     status,
		connection: connection,
		cfg:        cfg,
	}
}

// Authorize redirects the franchise to Google's consent screen.
func (h *GBPHandler) Authorize(c *fiber.Ctx) error {
	franchiseID := c.Query("franchise_id")
	if franchiseID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "franchise_id is required",
		})
	}

	authURL, err := h.auth.GetAuthURL(franchiseID)
	if err != nil {
		return writeError(c, err)
	}

	return c.Redirect(authURL, fiber.StatusFound)
}

// Callback finishes the exchange and sends the operator back to the app.
// OAuth errors surface as an error redirect, never as a silent retry.
func (h *GBPHandler) Callback(c *fiber.Ctx) error {
	code := c.Query("code")
	state := c.Query("state")

	cred, err := h.auth.Callback(c.Context(), code, state)
	if err != nil {
		slog.Info(err.Error())
		reason := "exchange_failed"
		if errors.Is(err, service.ErrStateMismatch) {
			reason = "state_mismatch"
		}
		redirectURL := fmt.Sprintf("%s/settings/google-business?error=%s", h.cfg.FrontendURL, reason)
		return c.Redirect(redirectURL, fiber.StatusTemporaryRedirect)
	}

	redirectURL := fmt.Sprintf("%s/settings/google-business?connected=%s", h.cfg.FrontendURL, cred.FranchiseID)
	return c.Redirect(redirectURL, fiber.StatusTemporaryRedirect)
}

func (h *GBPHandler) Status(c *fiber.Ctx) error {
	franchiseID := c.Query("franchise_id")
	if franchiseID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "franchise_id is required",
		})
	}

	status, err := h.status.GetStatus(c.Context(), franchiseID)
	if err != nil {
		return writeError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(status)
}

type updateLocationRequest struct {
	FranchiseID      string `json:"franchise_id"`
	SelectedLocation string `json:"selected_location"`
}

func (h *GBPHandler) UpdateLocation(c *fiber.Ctx) error {
	var req updateLocationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "unable to parse json",
		})
	}

	if req.FranchiseID == "" || req.SelectedLocation == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "franchise_id and selected_location are required",
		})
	}

	if _, err := h.connection.SelectLocation(c.Context(), req.FranchiseID, req.SelectedLocation); err != nil {
		return writeError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"success": true})
}

type disconnectRequest struct {
	FranchiseID string `json:"franchise_id"`
}

func (h *GBPHandler) Disconnect(c *fiber.Ctx) error {
	var req disconnectRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "unable to parse json",
		})
	}

	if req.FranchiseID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "franchise_id is required",
		})
	}

	if err := h.auth.Disconnect(c.Context(), req.FranchiseID); err != nil {
		return writeError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"success": true})
}

type postURLRequest struct {
	FranchiseID string `json:"franchise_id"`
}

func (h *GBPHandler) PostURL(c *fiber.Ctx) error {
	var req postURLRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "unable to parse json",
		})
	}

	if req.FranchiseID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "franchise_id is required",
		})
	}

	url, locationID, err := h.connection.PostURL(c.Context(), req.FranchiseID)
	if err != nil {
		return writeError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success":     true,
		"url":         url,
		"location_id": locationID,
	})
}
