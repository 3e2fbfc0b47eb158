package transaction

import (
	nethttp "net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/jbmohler/lmsmono/internal/common"
	"github.com/jbmohler/lmsmono/internal/common/http"
	"github.com/jbmohler/lmsmono/internal/common/validation"
	"github.com/jbmohler/lmsmono/internal/models"
	"github.com/jbmohler/lmsmono/internal/services"
)

type transactionHandler struct {
	transactionSvc services.TransactionService
}

// New transaction handler will initialize the transactions/ resources endpoint
func New(app *echo.Group, transactionSvc services.TransactionService) {
	handler := transactionHandler{
		transactionSvc: transactionSvc,
	}
	api := app.Group("/transactions")
	api.POST("", handler.createTransaction)
	api.GET("", handler.listTransactions)
	api.GET("/:id", handler.getTransaction)
	api.PUT("/:id", handler.updateTransaction)
	api.DELETE("/:id", handler.deleteTransaction)
}

func (h *transactionHandler) createTransaction(c echo.Context) error {
	req := new(models.CreateTransactionRequest)

	if err := c.Bind(req); err != nil {
		return http.RestErrorResponse(c, nethttp.StatusBadRequest, err)
	}

	if err := validation.ValidateStruct(req); err != nil {
		return http.RestErrorValidationResponse(c, err)
	}

	res, err := h.transactionSvc.Create(c.Request().Context(), *req)
	if err != nil {
		return http.RestMappedErrorResponse(c, err)
	}

	return http.RestSuccessResponse(c, nethttp.StatusCreated, res.ToResponse())
}

func (h *transactionHandler) getTransaction(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return http.RestErrorResponse(c, nethttp.StatusBadRequest, common.ErrIDEmpty)
	}

	res, err := h.transactionSvc.GetByID(c.Request().Context(), id)
	if err != nil {
		return http.RestMappedErrorResponse(c, err)
	}

	return http.RestSuccessResponse(c, nethttp.StatusOK, res.ToResponse())
}

func (h *transactionHandler) updateTransaction(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return http.RestErrorResponse(c, nethttp.StatusBadRequest, common.ErrIDEmpty)
	}

	req := new(models.UpdateTransactionRequest)
	if err := c.Bind(req); err != nil {
		return http.RestErrorResponse(c, nethttp.StatusBadRequest, err)
	}

	if err := validation.ValidateStruct(req); err != nil {
		return http.RestErrorValidationResponse(c, err)
	}

	res, err := h.transactionSvc.Update(c.Request().Context(), id, *req)
	if err != nil {
		return http.RestMappedErrorResponse(c, err)
	}

	return http.RestSuccessResponse(c, nethttp.StatusOK, res.ToResponse())
}

func (h *transactionHandler) deleteTransaction(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return http.RestErrorResponse(c, nethttp.StatusBadRequest, common.ErrIDEmpty)
	}

	if err := h.transactionSvc.Delete(c.Request().Context(), id); err != nil {
		return http.RestMappedErrorResponse(c, err)
	}

	return c.NoContent(nethttp.StatusNoContent)
}

func (h *transactionHandler) listTransactions(c echo.Context) error {
	opts, err := parseListFilter(c)
	if err != nil {
		return http.RestMappedErrorResponse(c, err)
	}

	res, total, err := h.transactionSvc.List(c.Request().Context(), opts)
	if err != nil {
		return http.RestMappedErrorResponse(c, err)
	}

	data := make([]models.TransactionResponse, 0, len(res))
	for _, trx := range res {
		data = append(data, trx.ToResponse())
	}

	return http.RestSuccessResponseListWithTotalRows(c, data, total)
}

func parseListFilter(c echo.Context) (models.ListTransactionsFilter, error) {
	opts := models.ListTransactionsFilter{
		Query:     c.QueryParam("q"),
		AccountID: c.QueryParam("account_id"),
	}

	if raw := c.QueryParam("d1"); raw != "" {
		d, err := time.Parse(common.DateFormatYYYYMMDD, raw)
		if err != nil {
			return opts, models.GetErrMap(models.ErrKeyInvalidDate, raw)
		}
		opts.DateFrom = &d
	}
	if raw := c.QueryParam("d2"); raw != "" {
		d, err := time.Parse(common.DateFormatYYYYMMDD, raw)
		if err != nil {
			return opts, models.GetErrMap(models.ErrKeyInvalidDate, raw)
		}
		opts.DateTo = &d
	}

	opts.Limit, _ = strconv.Atoi(c.QueryParam("limit"))
	opts.Offset, _ = strconv.Atoi(c.QueryParam("offset"))

	return opts, nil
}
