package handler

import (
	"log/slog"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"docarchive/internal/domain"
	"docarchive/internal/service"
)

// ListActivity returns the most recent audit entries.
//
//	@Summary	Activity log
//	@Tags		activity
//	@Produce	json
//	@Param		limit	query	int	false	"entries to return (default 50, max 500)"
//	@Success	200		{array}	model.ActivityLog
//	@Failure	400		{object}	errorPayload
//	@Router		/activity-log [get]
func ListActivity(svc service.ActivityLogService, logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit := 0
		if v := c.Query("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 1 {
				return writeServiceError(c, logger, domain.NewValidation("limit must be a positive integer"))
			}
			limit = n
		}
		entries, err := svc.List(c.UserContext(), limit)
		if err != nil {
			return writeServiceError(c, logger, err)
		}
		return c.JSON(entries)
	}
}

// Dashboard returns the archive summary.
//
//	@Summary	Dashboard summary
//	@Tags		dashboard
//	@Produce	json
//	@Success	200	{object}	model.DashboardSummary
//	@Router		/dashboard [get]
func Dashboard(svc service.DashboardService, logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		summary, err := svc.Summary(c.UserContext())
		if err != nil {
			return writeServiceError(c, logger, err)
		}
		return c.JSON(summary)
	}
}

// ResetData wipes every category, document and activity entry.
//
//	@Summary	Reset archive data
//	@Tags		system
//	@Produce	json
//	@Success	200	{object}	messageResponse
//	@Router		/system/data [delete]
func ResetData(svc service.SystemService, logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := svc.Reset(c.UserContext()); err != nil {
			return writeServiceError(c, logger, err)
		}
		return c.JSON(messageResponse{Message: "Archive data reset successfully"})
	}
}
