package handlers

import (
	"database/sql"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/ipowatch/ipo-analyzer/database"
	"github.com/ipowatch/ipo-analyzer/jobs"
	"github.com/sirupsen/logrus"
)

type IPOHandler struct {
	Store      *database.IPOStore
	RefreshJob *jobs.RefreshJob
}

func NewIPOHandler(store *database.IPOStore, refreshJob *jobs.RefreshJob) *IPOHandler {
	return &IPOHandler{
		Store:      store,
		RefreshJob: refreshJob,
	}
}

func (h *IPOHandler) GetScoredIPOs(c *fiber.Ctx) error {
	records, err := h.Store.ListScoredIPOs(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    records,
	})
}

func (h *IPOHandler) GetScoredIPOBySymbol(c *fiber.Ctx) error {
	symbol := c.Params("symbol")
	record, err := h.Store.GetBySymbol(c.Context(), symbol)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"error":   "IPO not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    record,
	})
}

// TriggerRefresh kicks off a pipeline run in the background and returns
// immediately.
func (h *IPOHandler) TriggerRefresh(c *fiber.Ctx) error {
	logrus.Info("Manual refresh triggered via admin endpoint")
	go h.RefreshJob.Run()
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"success": true,
		"message": "Refresh started",
	})
}
