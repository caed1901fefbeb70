package handler

import (
	"bytes"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/moneymanager/money-api/internal/core/domain"
	"github.com/moneymanager/money-api/internal/core/ports"
	"github.com/moneymanager/money-api/internal/infrastructure/report"
)

type DashboardHandler struct {
	service ports.DashboardService
}

func NewDashboardHandler(service ports.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// Get handles GET /dashboard.
//
// @Summary      Lifetime dashboard with the ten most recent transactions
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.Summary
// @Failure      401  {object}  map[string]string
// @Router       /dashboard [get]
func (h *DashboardHandler) Get(c echo.Context) error {
	username, err := ctxUsername(c)
	if err != nil {
		return err
	}
	summary, err := h.service.Dashboard(c.Request().Context(), username)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, summary)
}

// DateRange handles POST /dashboard/date-range.
//
// @Summary      Dashboard restricted to an inclusive date range
// @Tags         dashboard
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      dateRangeRequest  true  "Range"
// @Success      200   {object}  domain.Summary
// @Failure      400   {object}  map[string]string
// @Router       /dashboard/date-range [post]
func (h *DashboardHandler) DateRange(c echo.Context) error {
	username, err := ctxUsername(c)
	if err != nil {
		return err
	}
	var req dateRangeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	summary, err := h.service.DashboardForRange(c.Request().Context(), username, req.StartDate, req.EndDate)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, summary)
}

// Statement handles GET /dashboard/statement?startDate=&endDate=.
//
// @Summary      PDF statement for an inclusive date range
// @Tags         dashboard
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        startDate  query  string  true  "YYYY-MM-DD"
// @Param        endDate    query  string  true  "YYYY-MM-DD"
// @Success      200
// @Failure      400  {object}  map[string]string
// @Router       /dashboard/statement [get]
func (h *DashboardHandler) Statement(c echo.Context) error {
	username, err := ctxUsername(c)
	if err != nil {
		return err
	}
	start, err := domain.ParseDate(c.QueryParam("startDate"))
	if err != nil {
		return err
	}
	end, err := domain.ParseDate(c.QueryParam("endDate"))
	if err != nil {
		return err
	}

	summary, err := h.service.DashboardForRange(c.Request().Context(), username, start, end)
	if err != nil {
		return err
	}

	st := report.Statement{Username: username, Start: start, End: end, Summary: summary}
	var buf bytes.Buffer
	if err := report.RenderStatement(&buf, st); err != nil {
		return err
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+st.Filename()+`"`)
	return c.Blob(http.StatusOK, "application/pdf", buf.Bytes())
}
