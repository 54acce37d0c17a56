package monitor

import (
	"errors"

	"dropbox-comments/core/logger"
	"dropbox-comments/feature/scheduler"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler serves the sync control routes.
type Handler struct {
	monitor *Monitor
}

// NewHandler creates a new HTTP handler.
func NewHandler(m *Monitor) *Handler {
	return &Handler{monitor: m}
}

// RegisterRoutes registers the sync routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/sync")
	group.Get("/status", h.HandleStatus)
	group.Post("/trigger", h.HandleTrigger)
	group.Put("/interval", h.HandleSetInterval)
	group.Post("/reload", h.HandleReload)
}

// IntervalRequest is the body of PUT /sync/interval.
type IntervalRequest struct {
	Minutes int `json:"minutes"`
}

// HandleStatus reports the scheduler state.
// @Summary Sync Status
// @Description Returns the scheduler status, poll interval, last result and comments synced today.
// @Tags sync
// @Produce json
// @Success 200 {object} Snapshot
// @Router /sync/status [get]
func (h *Handler) HandleStatus(c *fiber.Ctx) error {
	return c.JSON(h.monitor.Snapshot())
}

// HandleTrigger requests an immediate cycle.
// @Summary Trigger Sync
// @Description Starts a cycle now. Rejected while a cycle is running.
// @Tags sync
// @Produce json
// @Success 202 {object} map[string]string
// @Failure 409 {object} map[string]string "Sync already running"
// @Router /sync/trigger [post]
func (h *Handler) HandleTrigger(c *fiber.Ctx) error {
	l := logger.WithRayID(h.monitor.logger, c)

	if !h.monitor.controller.TriggerNow() {
		l.Warn("Manual sync rejected", zap.String("status", string(h.monitor.controller.Status())))
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "sync already running"})
	}

	l.Info("Manual sync accepted")
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"status": "triggered"})
}

// HandleSetInterval changes the poll interval.
// @Summary Set Poll Interval
// @Description Sets the poll interval in minutes (5, 10, 15 or 30). Applies from the next countdown.
// @Tags sync
// @Accept json
// @Produce json
// @Param body body IntervalRequest true "Interval"
// @Success 200 {object} map[string]int
// @Failure 400 {object} map[string]string "Invalid interval"
// @Router /sync/interval [put]
func (h *Handler) HandleSetInterval(c *fiber.Ctx) error {
	l := logger.WithRayID(h.monitor.logger, c)

	var req IntervalRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if err := h.monitor.controller.SetInterval(req.Minutes); err != nil {
		if errors.Is(err, scheduler.ErrInvalidInterval) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error":   err.Error(),
				"allowed": scheduler.AllowedIntervals,
			})
		}
		l.Error("Failed to set interval", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"interval_minutes": req.Minutes})
}

// HandleReload drops cached credentials.
// @Summary Reload Credentials
// @Description Forces the Gmail and Sheets clients to be rebuilt before the next cycle.
// @Tags sync
// @Produce json
// @Success 200 {object} map[string]string
// @Router /sync/reload [post]
func (h *Handler) HandleReload(c *fiber.Ctx) error {
	logger.WithRayID(h.monitor.logger, c).Info("Credentials reload requested over HTTP")
	h.monitor.controller.ReloadCredentials()
	return c.JSON(fiber.Map{"status": "reloaded"})
}
