package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/loga115/ticketflow/internal/api/dto"
	"github.com/loga115/ticketflow/internal/domain"
	"github.com/loga115/ticketflow/internal/service"
)

// TimeAnalyticsHandler serves the aggregated time review and stats views.
type TimeAnalyticsHandler struct {
	timesheets *service.TimesheetService
	now        func() time.Time
}

// NewTimeAnalyticsHandler constructs handler.
func NewTimeAnalyticsHandler(timesheets *service.TimesheetService) *TimeAnalyticsHandler {
	return &TimeAnalyticsHandler{timesheets: timesheets, now: time.Now}
}

// ReviewEmployee GET /time/review/employee/:id.
func (h *TimeAnalyticsHandler) ReviewEmployee(c *fiber.Ctx) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}
	window, err := h.windowQuery(c)
	if err != nil {
		return err
	}

	review, err := h.timesheets.ReviewEmployee(c.Context(), identity.OwnerID, c.Params("id"), window)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewEmployeeTimeReviewResponse(review)})
}

// ReviewTicket GET /time/review/ticket/:id.
func (h *TimeAnalyticsHandler) ReviewTicket(c *fiber.Ctx) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}
	review, err := h.timesheets.ReviewTicket(c.Context(), identity.OwnerID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketTimeReviewResponse(review)})
}

// StatsSummary GET /time/stats/summary.
func (h *TimeAnalyticsHandler) StatsSummary(c *fiber.Ctx) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}
	window, err := h.windowQuery(c)
	if err != nil {
		return err
	}

	stats, err := h.timesheets.Summarize(c.Context(), identity.OwnerID, window)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTimeStatsSummaryResponse(stats)})
}

// StatsTrends GET /time/stats/trends.
func (h *TimeAnalyticsHandler) StatsTrends(c *fiber.Ctx) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}
	days, err := parseIntQuery(c, "days", 0)
	if err != nil {
		return err
	}

	report, err := h.timesheets.Trends(c.Context(), identity.OwnerID, days)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewDailyTrendResponse(report)})
}

func (h *TimeAnalyticsHandler) windowQuery(c *fiber.Ctx) (domain.PeriodWindow, error) {
	start, err := parseDateQuery(c, "start_date")
	if err != nil {
		return domain.PeriodWindow{}, err
	}
	end, err := parseDateQuery(c, "end_date")
	if err != nil {
		return domain.PeriodWindow{}, err
	}
	return domain.NewPeriodWindow(start, end, h.now()), nil
}
