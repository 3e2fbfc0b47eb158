package reports

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/jbmohler/lmsmono/internal/models"
)

type stubService struct {
	balanceSheetFn func(ctx context.Context, asOf time.Time) (*models.BalanceSheetResponse, error)
	profitLossFn   func(ctx context.Context, dateFrom, dateTo time.Time) (*models.ProfitLossResponse, error)
	plTrxFn        func(ctx context.Context, dateFrom, dateTo time.Time) (*models.ProfitLossTransactionsResponse, error)
	multiPeriodFn  func(ctx context.Context, year, month, periods int) (*models.MultiPeriodBalanceSheetResponse, error)
	runningFn      func(ctx context.Context, accountID string, dateFrom time.Time, project bool) (*models.AccountRunningBalanceResponse, error)
}

func (s *stubService) BalanceSheet(ctx context.Context, asOf time.Time) (*models.BalanceSheetResponse, error) {
	return s.balanceSheetFn(ctx, asOf)
}

func (s *stubService) ProfitAndLoss(ctx context.Context, dateFrom, dateTo time.Time) (*models.ProfitLossResponse, error) {
	return s.profitLossFn(ctx, dateFrom, dateTo)
}

func (s *stubService) ProfitLossTransactions(ctx context.Context, dateFrom, dateTo time.Time) (*models.ProfitLossTransactionsResponse, error) {
	return s.plTrxFn(ctx, dateFrom, dateTo)
}

func (s *stubService) MultiPeriodBalanceSheet(ctx context.Context, year, month, periods int) (*models.MultiPeriodBalanceSheetResponse, error) {
	return s.multiPeriodFn(ctx, year, month, periods)
}

func (s *stubService) AccountRunningBalance(ctx context.Context, accountID string, dateFrom time.Time, project bool) (*models.AccountRunningBalanceResponse, error) {
	return s.runningFn(ctx, accountID, dateFrom, project)
}

func newRouter(svc *stubService) *echo.Echo {
	e := echo.New()
	New(e.Group("/api"), svc)
	return e
}

func Test_Handler_balanceSheet(t *testing.T) {
	t.Run("explicit cutoff date", func(t *testing.T) {
		svc := &stubService{
			balanceSheetFn: func(ctx context.Context, asOf time.Time) (*models.BalanceSheetResponse, error) {
				assert.Equal(t, "2026-08-31", asOf.Format("2006-01-02"))
				return &models.BalanceSheetResponse{AsOf: "2026-08-31"}, nil
			},
		}

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/reports/balance-sheet?d=2026-08-31", nil)
		newRouter(svc).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"as_of":"2026-08-31"`)
	})

	t.Run("defaults to today", func(t *testing.T) {
		svc := &stubService{
			balanceSheetFn: func(ctx context.Context, asOf time.Time) (*models.BalanceSheetResponse, error) {
				assert.False(t, asOf.IsZero())
				return &models.BalanceSheetResponse{}, nil
			},
		}

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/reports/balance-sheet", nil)
		newRouter(svc).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("malformed date", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/reports/balance-sheet?d=31-08-2026", nil)
		newRouter(&stubService{}).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "LMS-400")
	})
}

func Test_Handler_profitLoss(t *testing.T) {
	svc := &stubService{
		profitLossFn: func(ctx context.Context, dateFrom, dateTo time.Time) (*models.ProfitLossResponse, error) {
			assert.Equal(t, "2026-08-01", dateFrom.Format("2006-01-02"))
			assert.Equal(t, "2026-08-31", dateTo.Format("2006-01-02"))
			return &models.ProfitLossResponse{DateFrom: "2026-08-01", DateTo: "2026-08-31"}, nil
		},
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/reports/profit-loss?d1=2026-08-01&d2=2026-08-31", nil)
	newRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"d1":"2026-08-01"`)
}

func Test_Handler_multiPeriodBalanceSheet(t *testing.T) {
	t.Run("parses the period window", func(t *testing.T) {
		svc := &stubService{
			multiPeriodFn: func(ctx context.Context, year, month, periods int) (*models.MultiPeriodBalanceSheetResponse, error) {
				assert.Equal(t, 2026, year)
				assert.Equal(t, 1, month)
				assert.Equal(t, 6, periods)
				return &models.MultiPeriodBalanceSheetResponse{PeriodEnds: []string{"2026-01-31"}}, nil
			},
		}

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/reports/multi-period-balance-sheet?year=2026&month=1&periods=6", nil)
		newRouter(svc).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "2026-01-31")
	})

	t.Run("non numeric periods", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/reports/multi-period-balance-sheet?year=2026&month=1&periods=six", nil)
		newRouter(&stubService{}).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func Test_Handler_accountRunningBalance(t *testing.T) {
	t.Run("projection flag", func(t *testing.T) {
		svc := &stubService{
			runningFn: func(ctx context.Context, accountID string, dateFrom time.Time, project bool) (*models.AccountRunningBalanceResponse, error) {
				assert.Equal(t, "acc-1", accountID)
				assert.True(t, project)
				return &models.AccountRunningBalanceResponse{DateFrom: dateFrom.Format("2006-01-02")}, nil
			},
		}

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/reports/account-running-balance?account_id=acc-1&project=true", nil)
		newRouter(svc).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("account id is required", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/reports/account-running-balance", nil)
		newRouter(&stubService{}).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("not a balance sheet account", func(t *testing.T) {
		svc := &stubService{
			runningFn: func(ctx context.Context, accountID string, dateFrom time.Time, project bool) (*models.AccountRunningBalanceResponse, error) {
				return nil, models.GetErrMap(models.ErrKeyAccountNotBalanceSheet, "Salary")
			},
		}

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/reports/account-running-balance?account_id=acc-3", nil)
		newRouter(svc).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, rec.Body.String(), "LMS-422")
	})
}
