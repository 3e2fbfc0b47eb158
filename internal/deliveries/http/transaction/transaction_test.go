package transaction

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jbmohler/lmsmono/internal/models"
)

type stubService struct {
	createFn func(ctx context.Context, req models.CreateTransactionRequest) (*models.Transaction, error)
	updateFn func(ctx context.Context, tid string, req models.UpdateTransactionRequest) (*models.Transaction, error)
	deleteFn func(ctx context.Context, tid string) error
	getFn    func(ctx context.Context, tid string) (*models.Transaction, error)
	listFn   func(ctx context.Context, opts models.ListTransactionsFilter) ([]models.Transaction, int, error)
}

func (s *stubService) Create(ctx context.Context, req models.CreateTransactionRequest) (*models.Transaction, error) {
	return s.createFn(ctx, req)
}

func (s *stubService) Update(ctx context.Context, tid string, req models.UpdateTransactionRequest) (*models.Transaction, error) {
	return s.updateFn(ctx, tid, req)
}

func (s *stubService) Delete(ctx context.Context, tid string) error {
	return s.deleteFn(ctx, tid)
}

func (s *stubService) GetByID(ctx context.Context, tid string) (*models.Transaction, error) {
	return s.getFn(ctx, tid)
}

func (s *stubService) List(ctx context.Context, opts models.ListTransactionsFilter) ([]models.Transaction, int, error) {
	return s.listFn(ctx, opts)
}

func newRouter(svc *stubService) *echo.Echo {
	e := echo.New()
	New(e.Group("/api"), svc)
	return e
}

func sampleTransaction() *models.Transaction {
	return &models.Transaction{
		TID:      "t-1",
		TranDate: time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC),
		Payee:    "Grocer",
		Splits: []models.Split{
			{SID: "s-1", AccountID: "11111111-1111-4111-8111-111111111111", Sum: decimal.RequireFromString("-120")},
			{SID: "s-2", AccountID: "22222222-2222-4222-8222-222222222222", Sum: decimal.RequireFromString("120")},
		},
	}
}

func Test_Handler_createTransaction(t *testing.T) {
	validBody := `{
		"trandate": "2026-08-15",
		"payee": "Grocer",
		"splits": [
			{"account_id": "11111111-1111-4111-8111-111111111111", "credit": 120},
			{"account_id": "22222222-2222-4222-8222-222222222222", "debit": 120}
		]
	}`

	t.Run("created", func(t *testing.T) {
		svc := &stubService{
			createFn: func(ctx context.Context, req models.CreateTransactionRequest) (*models.Transaction, error) {
				assert.Equal(t, "2026-08-15", req.TranDate)
				assert.Len(t, req.Splits, 2)
				return sampleTransaction(), nil
			},
		}

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/transactions", strings.NewReader(validBody))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		newRouter(svc).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Contains(t, rec.Body.String(), `"tid":"t-1"`)
		assert.Contains(t, rec.Body.String(), `"trandate":"2026-08-15"`)
	})

	t.Run("missing trandate fails validation", func(t *testing.T) {
		body := `{"splits": [{"account_id": "11111111-1111-4111-8111-111111111111", "debit": 10}]}`

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/transactions", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		newRouter(&stubService{}).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, rec.Body.String(), "trandate")
	})

	t.Run("unbalanced maps to 400", func(t *testing.T) {
		svc := &stubService{
			createFn: func(ctx context.Context, req models.CreateTransactionRequest) (*models.Transaction, error) {
				return nil, models.GetErrMap(models.ErrKeyUnbalancedTransaction, "10")
			},
		}

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/transactions", strings.NewReader(validBody))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		newRouter(svc).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "LMS-400")
	})
}

func Test_Handler_getTransaction(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		svc := &stubService{
			getFn: func(ctx context.Context, tid string) (*models.Transaction, error) {
				assert.Equal(t, "t-1", tid)
				return sampleTransaction(), nil
			},
		}

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/transactions/t-1", nil)
		newRouter(svc).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"payee":"Grocer"`)
	})

	t.Run("not found", func(t *testing.T) {
		svc := &stubService{
			getFn: func(ctx context.Context, tid string) (*models.Transaction, error) {
				return nil, models.GetErrMap(models.ErrKeyTransactionNotFound)
			},
		}

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/transactions/missing", nil)
		newRouter(svc).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "LMS-404")
	})
}

func Test_Handler_updateTransaction(t *testing.T) {
	svc := &stubService{
		updateFn: func(ctx context.Context, tid string, req models.UpdateTransactionRequest) (*models.Transaction, error) {
			assert.Equal(t, "t-1", tid)
			if assert.NotNil(t, req.Payee) {
				assert.Equal(t, "New Payee", *req.Payee)
			}
			trx := sampleTransaction()
			trx.Payee = "New Payee"
			return trx, nil
		},
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/transactions/t-1", strings.NewReader(`{"payee": "New Payee"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	newRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"payee":"New Payee"`)
}

func Test_Handler_deleteTransaction(t *testing.T) {
	t.Run("deleted", func(t *testing.T) {
		svc := &stubService{
			deleteFn: func(ctx context.Context, tid string) error { return nil },
		}

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodDelete, "/api/transactions/t-1", nil)
		newRouter(svc).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Empty(t, rec.Body.String())
	})

	t.Run("not found", func(t *testing.T) {
		svc := &stubService{
			deleteFn: func(ctx context.Context, tid string) error {
				return models.GetErrMap(models.ErrKeyTransactionNotFound)
			},
		}

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodDelete, "/api/transactions/missing", nil)
		newRouter(svc).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func Test_Handler_listTransactions(t *testing.T) {
	t.Run("filters pass through", func(t *testing.T) {
		svc := &stubService{
			listFn: func(ctx context.Context, opts models.ListTransactionsFilter) ([]models.Transaction, int, error) {
				assert.Equal(t, "acme", opts.Query)
				assert.Equal(t, 25, opts.Limit)
				if assert.NotNil(t, opts.DateFrom) {
					assert.Equal(t, "2026-08-01", opts.DateFrom.Format("2006-01-02"))
				}
				return []models.Transaction{*sampleTransaction()}, 1, nil
			},
		}

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/transactions?q=acme&d1=2026-08-01&limit=25", nil)
		newRouter(svc).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"kind":"collection"`)
		assert.Contains(t, rec.Body.String(), `"total_rows":1`)
	})

	t.Run("bad date filter", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/transactions?d1=15-08-2026", nil)
		newRouter(&stubService{}).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "LMS-400")
	})
}
