package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/moneymanager/money-api/internal/core/domain"
	"github.com/moneymanager/money-api/internal/core/ports"
	"github.com/moneymanager/money-api/internal/metrics"
)

// TransactionHandler serves the CRUD routes of one kind. The same handler
// type is mounted at /income and /expense.
type TransactionHandler struct {
	service ports.TransactionService
}

func NewTransactionHandler(service ports.TransactionService) *TransactionHandler {
	return &TransactionHandler{service: service}
}

// Register mounts the handler's routes on g.
func (h *TransactionHandler) Register(g *echo.Group) {
	g.POST("", h.Add)
	g.GET("", h.List)
	g.GET("/total", h.Total)
	g.GET("/by-category", h.ByCategory)
	g.GET("/category/:category", h.ListByCategory)
	g.POST("/date-range", h.ListByDateRange)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
}

func (h *TransactionHandler) kind() domain.Kind { return h.service.Kind() }

// Add handles POST /income and POST /expense.
//
// @Summary      Add a transaction
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      transactionRequest  true  "Transaction"
// @Success      201   {object}  createdResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /income [post]
// @Router       /expense [post]
func (h *TransactionHandler) Add(c echo.Context) error {
	username, err := ctxUsername(c)
	if err != nil {
		return err
	}
	var req transactionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	t, err := h.service.Add(c.Request().Context(), username, req.toInput())
	if err != nil {
		return err
	}

	metrics.TransactionWritesTotal.WithLabelValues(string(h.kind()), "add").Inc()
	return c.JSON(http.StatusCreated, createdResponse{
		Message: h.kind().Label() + " added successfully",
		ID:      t.ID,
	})
}

// List handles GET /income and GET /expense.
//
// @Summary      List transactions
// @Tags         transactions
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   transactionResponse
// @Failure      401  {object}  map[string]string
// @Router       /income [get]
// @Router       /expense [get]
func (h *TransactionHandler) List(c echo.Context) error {
	username, err := ctxUsername(c)
	if err != nil {
		return err
	}
	txs, err := h.service.List(c.Request().Context(), username)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTransactionResponses(txs))
}

// Get handles GET /income/:id and GET /expense/:id.
//
// @Summary      Get a transaction
// @Tags         transactions
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Transaction id"
// @Success      200  {object}  transactionResponse
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /income/{id} [get]
// @Router       /expense/{id} [get]
func (h *TransactionHandler) Get(c echo.Context) error {
	username, err := ctxUsername(c)
	if err != nil {
		return err
	}
	t, err := h.service.Get(c.Request().Context(), username, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTransactionResponse(t))
}

// Update handles PUT /income/:id and PUT /expense/:id.
//
// @Summary      Replace a transaction
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string              true  "Transaction id"
// @Param        body  body      transactionRequest  true  "Transaction"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /income/{id} [put]
// @Router       /expense/{id} [put]
func (h *TransactionHandler) Update(c echo.Context) error {
	username, err := ctxUsername(c)
	if err != nil {
		return err
	}
	var req transactionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if _, err := h.service.Update(c.Request().Context(), username, c.Param("id"), req.toInput()); err != nil {
		return err
	}

	metrics.TransactionWritesTotal.WithLabelValues(string(h.kind()), "update").Inc()
	return c.JSON(http.StatusOK, messageResponse{Message: h.kind().Label() + " updated successfully"})
}

// Delete handles DELETE /income/:id and DELETE /expense/:id.
//
// @Summary      Delete a transaction
// @Tags         transactions
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Transaction id"
// @Success      200  {object}  messageResponse
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /income/{id} [delete]
// @Router       /expense/{id} [delete]
func (h *TransactionHandler) Delete(c echo.Context) error {
	username, err := ctxUsername(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), username, c.Param("id")); err != nil {
		return err
	}

	metrics.TransactionWritesTotal.WithLabelValues(string(h.kind()), "delete").Inc()
	return c.JSON(http.StatusOK, messageResponse{Message: h.kind().Label() + " deleted successfully"})
}

// ListByCategory handles GET /income/category/:category.
//
// @Summary      List transactions of one category
// @Tags         transactions
// @Produce      json
// @Security     BearerAuth
// @Param        category  path      string  true  "Category (exact, case-sensitive)"
// @Success      200       {array}   transactionResponse
// @Router       /income/category/{category} [get]
// @Router       /expense/category/{category} [get]
func (h *TransactionHandler) ListByCategory(c echo.Context) error {
	username, err := ctxUsername(c)
	if err != nil {
		return err
	}
	txs, err := h.service.ListByCategory(c.Request().Context(), username, c.Param("category"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTransactionResponses(txs))
}

// ListByDateRange handles POST /income/date-range.
//
// @Summary      List transactions in an inclusive date range
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      dateRangeRequest  true  "Range"
// @Success      200   {array}   transactionResponse
// @Failure      400   {object}  map[string]string
// @Router       /income/date-range [post]
// @Router       /expense/date-range [post]
func (h *TransactionHandler) ListByDateRange(c echo.Context) error {
	username, err := ctxUsername(c)
	if err != nil {
		return err
	}
	var req dateRangeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	txs, err := h.service.ListByDateRange(c.Request().Context(), username, req.StartDate, req.EndDate)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTransactionResponses(txs))
}

// Total handles GET /income/total.
//
// @Summary      Sum of all amounts
// @Tags         transactions
// @Produce      json
// @Security     BearerAuth
// @Success      200  {number}  number
// @Router       /income/total [get]
// @Router       /expense/total [get]
func (h *TransactionHandler) Total(c echo.Context) error {
	username, err := ctxUsername(c)
	if err != nil {
		return err
	}
	total, err := h.service.Total(c.Request().Context(), username)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, total)
}

// ByCategory handles GET /income/by-category.
//
// @Summary      Sums grouped by category
// @Tags         transactions
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.CategoryTotal
// @Router       /income/by-category [get]
// @Router       /expense/by-category [get]
func (h *TransactionHandler) ByCategory(c echo.Context) error {
	username, err := ctxUsername(c)
	if err != nil {
		return err
	}
	totals, err := h.service.TotalsByCategory(c.Request().Context(), username)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, totals)
}
