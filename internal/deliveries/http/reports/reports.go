package reports

import (
	nethttp "net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/jbmohler/lmsmono/internal/common"
	"github.com/jbmohler/lmsmono/internal/common/http"
	"github.com/jbmohler/lmsmono/internal/models"
	"github.com/jbmohler/lmsmono/internal/services"
)

type reportsHandler struct {
	reportSvc services.ReportService
}

// New reports handler will initialize the reports/ resources endpoint
func New(app *echo.Group, reportSvc services.ReportService) {
	handler := reportsHandler{
		reportSvc: reportSvc,
	}
	api := app.Group("/reports")
	api.GET("/balance-sheet", handler.balanceSheet)
	api.GET("/profit-loss", handler.profitLoss)
	api.GET("/profit-loss-transactions", handler.profitLossTransactions)
	api.GET("/multi-period-balance-sheet", handler.multiPeriodBalanceSheet)
	api.GET("/account-running-balance", handler.accountRunningBalance)
}

func (h *reportsHandler) balanceSheet(c echo.Context) error {
	asOf, err := queryDate(c, "d", time.Now().UTC())
	if err != nil {
		return http.RestMappedErrorResponse(c, err)
	}

	res, err := h.reportSvc.BalanceSheet(c.Request().Context(), asOf)
	if err != nil {
		return http.RestMappedErrorResponse(c, err)
	}

	return http.RestSuccessResponse(c, nethttp.StatusOK, res)
}

func (h *reportsHandler) profitLoss(c echo.Context) error {
	dateFrom, dateTo, err := queryRange(c)
	if err != nil {
		return http.RestMappedErrorResponse(c, err)
	}

	res, err := h.reportSvc.ProfitAndLoss(c.Request().Context(), dateFrom, dateTo)
	if err != nil {
		return http.RestMappedErrorResponse(c, err)
	}

	return http.RestSuccessResponse(c, nethttp.StatusOK, res)
}

func (h *reportsHandler) profitLossTransactions(c echo.Context) error {
	dateFrom, dateTo, err := queryRange(c)
	if err != nil {
		return http.RestMappedErrorResponse(c, err)
	}

	res, err := h.reportSvc.ProfitLossTransactions(c.Request().Context(), dateFrom, dateTo)
	if err != nil {
		return http.RestMappedErrorResponse(c, err)
	}

	return http.RestSuccessResponse(c, nethttp.StatusOK, res)
}

func (h *reportsHandler) multiPeriodBalanceSheet(c echo.Context) error {
	year, err := strconv.Atoi(c.QueryParam("year"))
	if err != nil {
		return http.RestMappedErrorResponse(c, models.GetErrMap(models.ErrKeyInvalidDate, c.QueryParam("year")))
	}
	month, err := strconv.Atoi(c.QueryParam("month"))
	if err != nil {
		return http.RestMappedErrorResponse(c, models.GetErrMap(models.ErrKeyInvalidDate, c.QueryParam("month")))
	}
	periods, err := strconv.Atoi(c.QueryParam("periods"))
	if err != nil {
		return http.RestMappedErrorResponse(c, models.GetErrMap(models.ErrKeyInvalidPeriodCount, c.QueryParam("periods")))
	}

	res, err := h.reportSvc.MultiPeriodBalanceSheet(c.Request().Context(), year, month, periods)
	if err != nil {
		return http.RestMappedErrorResponse(c, err)
	}

	return http.RestSuccessResponse(c, nethttp.StatusOK, res)
}

func (h *reportsHandler) accountRunningBalance(c echo.Context) error {
	accountID := c.QueryParam("account_id")
	if accountID == "" {
		return http.RestErrorResponse(c, nethttp.StatusBadRequest, common.ErrIDEmpty)
	}

	dateFrom, err := queryDate(c, "d", time.Now().UTC().AddDate(0, -1, 0))
	if err != nil {
		return http.RestMappedErrorResponse(c, err)
	}

	project, _ := strconv.ParseBool(c.QueryParam("project"))

	res, err := h.reportSvc.AccountRunningBalance(c.Request().Context(), accountID, dateFrom, project)
	if err != nil {
		return http.RestMappedErrorResponse(c, err)
	}

	return http.RestSuccessResponse(c, nethttp.StatusOK, res)
}

func queryDate(c echo.Context, name string, fallback time.Time) (time.Time, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return fallback.Truncate(24 * time.Hour), nil
	}

	d, err := time.Parse(common.DateFormatYYYYMMDD, raw)
	if err != nil {
		return time.Time{}, models.GetErrMap(models.ErrKeyInvalidDate, raw)
	}

	return d, nil
}

func queryRange(c echo.Context) (dateFrom, dateTo time.Time, err error) {
	now := time.Now().UTC()
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	dateFrom, err = queryDate(c, "d1", firstOfMonth)
	if err != nil {
		return
	}
	dateTo, err = queryDate(c, "d2", now)
	return
}
