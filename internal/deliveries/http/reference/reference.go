package reference

import (
	nethttp "net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/jbmohler/lmsmono/internal/common"
	"github.com/jbmohler/lmsmono/internal/common/http"
	"github.com/jbmohler/lmsmono/internal/models"
	"github.com/jbmohler/lmsmono/internal/services"
)

type referenceHandler struct {
	referenceSvc services.ReferenceService
}

// New reference handler will initialize the accounts/, account-types/ and
// journals/ resources endpoint
func New(app *echo.Group, referenceSvc services.ReferenceService) {
	handler := referenceHandler{
		referenceSvc: referenceSvc,
	}

	accounts := app.Group("/accounts")
	accounts.GET("", handler.listAccounts)
	accounts.GET("/:id", handler.getAccount)
	accounts.GET("/:id/transactions", handler.accountTransactions)

	app.GET("/account-types", handler.listAccountTypes)
	app.GET("/journals", handler.listJournals)
}

func (h *referenceHandler) listAccounts(c echo.Context) error {
	res, err := h.referenceSvc.ListAccounts(c.Request().Context())
	if err != nil {
		return http.RestMappedErrorResponse(c, err)
	}

	data := make([]models.AccountResponse, 0, len(res))
	for _, account := range res {
		data = append(data, account.ToResponse())
	}

	return http.RestSuccessResponseListWithTotalRows(c, data, len(data))
}

func (h *referenceHandler) getAccount(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return http.RestErrorResponse(c, nethttp.StatusBadRequest, common.ErrIDEmpty)
	}

	res, err := h.referenceSvc.GetAccount(c.Request().Context(), id)
	if err != nil {
		return http.RestMappedErrorResponse(c, err)
	}

	return http.RestSuccessResponse(c, nethttp.StatusOK, res.ToResponse())
}

func (h *referenceHandler) accountTransactions(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return http.RestErrorResponse(c, nethttp.StatusBadRequest, common.ErrIDEmpty)
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))

	res, err := h.referenceSvc.AccountTransactions(c.Request().Context(), id, limit, offset)
	if err != nil {
		return http.RestMappedErrorResponse(c, err)
	}

	data := make([]models.LedgerLineResponse, 0, len(res))
	for _, line := range res {
		data = append(data, line.ToResponse())
	}

	return http.RestSuccessResponseListWithTotalRows(c, data, len(data))
}

func (h *referenceHandler) listAccountTypes(c echo.Context) error {
	res, err := h.referenceSvc.ListAccountTypes(c.Request().Context())
	if err != nil {
		return http.RestMappedErrorResponse(c, err)
	}

	data := make([]models.AccountTypeResponse, 0, len(res))
	for _, at := range res {
		data = append(data, at.ToResponse())
	}

	return http.RestSuccessResponseListWithTotalRows(c, data, len(data))
}

func (h *referenceHandler) listJournals(c echo.Context) error {
	res, err := h.referenceSvc.ListJournals(c.Request().Context())
	if err != nil {
		return http.RestMappedErrorResponse(c, err)
	}

	data := make([]models.JournalResponse, 0, len(res))
	for _, j := range res {
		data = append(data, j.ToResponse())
	}

	return http.RestSuccessResponseListWithTotalRows(c, data, len(data))
}
