package reconcile

import (
	nethttp "net/http"

	"github.com/labstack/echo/v4"

	"github.com/jbmohler/lmsmono/internal/common"
	"github.com/jbmohler/lmsmono/internal/common/http"
	"github.com/jbmohler/lmsmono/internal/common/validation"
	"github.com/jbmohler/lmsmono/internal/models"
	"github.com/jbmohler/lmsmono/internal/services"
)

type reconcileHandler struct {
	reconcileSvc services.ReconcileService
}

// New reconcile handler will initialize the reconcile/ resources endpoint
func New(app *echo.Group, reconcileSvc services.ReconcileService) {
	handler := reconcileHandler{
		reconcileSvc: reconcileSvc,
	}
	api := app.Group("/reconcile")
	api.GET("/:accountId", handler.getSession)
	api.POST("/:accountId/splits/:splitId/toggle", handler.toggleSplit)
	api.POST("/:accountId/finalize", handler.finalize)
}

func (h *reconcileHandler) getSession(c echo.Context) error {
	accountID := c.Param("accountId")
	if accountID == "" {
		return http.RestErrorResponse(c, nethttp.StatusBadRequest, common.ErrIDEmpty)
	}

	res, err := h.reconcileSvc.Session(c.Request().Context(), accountID)
	if err != nil {
		return http.RestMappedErrorResponse(c, err)
	}

	return http.RestSuccessResponse(c, nethttp.StatusOK, res.ToResponse())
}

func (h *reconcileHandler) toggleSplit(c echo.Context) error {
	accountID := c.Param("accountId")
	splitID := c.Param("splitId")
	if accountID == "" || splitID == "" {
		return http.RestErrorResponse(c, nethttp.StatusBadRequest, common.ErrIDEmpty)
	}

	res, err := h.reconcileSvc.Toggle(c.Request().Context(), accountID, splitID)
	if err != nil {
		return http.RestMappedErrorResponse(c, err)
	}

	return http.RestSuccessResponse(c, nethttp.StatusOK, res)
}

func (h *reconcileHandler) finalize(c echo.Context) error {
	accountID := c.Param("accountId")
	if accountID == "" {
		return http.RestErrorResponse(c, nethttp.StatusBadRequest, common.ErrIDEmpty)
	}

	req := new(models.FinalizeReconcileRequest)
	if err := c.Bind(req); err != nil {
		return http.RestErrorResponse(c, nethttp.StatusBadRequest, err)
	}

	if err := validation.ValidateStruct(req); err != nil {
		return http.RestErrorValidationResponse(c, err)
	}

	res, err := h.reconcileSvc.Finalize(c.Request().Context(), accountID, req.StatementBalance.Decimal)
	if err != nil {
		return http.RestMappedErrorResponse(c, err)
	}

	return http.RestSuccessResponse(c, nethttp.StatusOK, res)
}
