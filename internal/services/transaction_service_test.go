package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jbmohler/lmsmono/internal/models"
)

func transactionHeaderRows(tid string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"tid", "trandate", "tranref", "payee", "memo"}).
		AddRow(tid, time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC), nil, "Acme Groceries", nil)
}

func transactionSplitRows(tid string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"sid", "stid", "account_id", "acc_name", "sum", "is_pending", "reconciled_at"}).
		AddRow("s-1", tid, "11111111-1111-4111-8111-111111111111", "Groceries", "42.5", false, nil).
		AddRow("s-2", tid, "22222222-2222-4222-8222-222222222222", "Checking", "-42.5", false, nil)
}

func balancedCreateRequest() models.CreateTransactionRequest {
	debit := models.NewDecimalFromExternal(decimal.RequireFromString("42.50"))
	credit := models.NewDecimalFromExternal(decimal.RequireFromString("42.50"))
	return models.CreateTransactionRequest{
		TranDate: "2026-03-14",
		Payee:    "Acme Groceries",
		Splits: []models.SplitRequest{
			{AccountID: "11111111-1111-4111-8111-111111111111", Debit: &debit},
			{AccountID: "22222222-2222-4222-8222-222222222222", Credit: &credit},
		},
	}
}

func TestTransactionService_Create(t *testing.T) {
	t.Run("stores a balanced transaction", func(t *testing.T) {
		ts := newTestServices(t)

		ts.sqlMock.ExpectQuery("SELECT id FROM hacc.accounts").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).
				AddRow("11111111-1111-4111-8111-111111111111").
				AddRow("22222222-2222-4222-8222-222222222222"))
		ts.sqlMock.ExpectBegin()
		ts.sqlMock.ExpectExec("INSERT INTO hacc.transactions").
			WillReturnResult(sqlmock.NewResult(0, 1))
		ts.sqlMock.ExpectExec("INSERT INTO hacc.splits").
			WillReturnResult(sqlmock.NewResult(0, 2))
		ts.sqlMock.ExpectCommit()

		tid := "any"
		ts.sqlMock.ExpectQuery("SELECT(.|\n)*FROM hacc.transactions").
			WillReturnRows(transactionHeaderRows(tid))
		ts.sqlMock.ExpectQuery("SELECT(.|\n)*FROM hacc.splits s").
			WillReturnRows(transactionSplitRows(tid))

		out, err := ts.srv.Transaction.Create(context.Background(), balancedCreateRequest())
		require.NoError(t, err)
		require.NotNil(t, out)
		assert.Len(t, out.Splits, 2)
		assert.True(t, out.Balanced())

		assert.NoError(t, ts.sqlMock.ExpectationsWereMet())
	})

	t.Run("rejects unknown account before writing", func(t *testing.T) {
		ts := newTestServices(t)

		ts.sqlMock.ExpectQuery("SELECT id FROM hacc.accounts").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).
				AddRow("11111111-1111-4111-8111-111111111111"))

		_, err := ts.srv.Transaction.Create(context.Background(), balancedCreateRequest())

		var detail models.ErrorDetail
		require.ErrorAs(t, err, &detail)
		assert.Equal(t, "LMS-404", detail.Code)
		assert.Contains(t, detail.ErrorMessage.Error(), "22222222-2222-4222-8222-222222222222")

		assert.NoError(t, ts.sqlMock.ExpectationsWereMet())
	})

	t.Run("rejects unbalanced request without touching the database", func(t *testing.T) {
		ts := newTestServices(t)

		req := balancedCreateRequest()
		bad := models.NewDecimalFromExternal(decimal.RequireFromString("40"))
		req.Splits[1].Credit = &bad

		_, err := ts.srv.Transaction.Create(context.Background(), req)

		var detail models.ErrorDetail
		require.ErrorAs(t, err, &detail)
		assert.Equal(t, "LMS-400", detail.Code)

		assert.NoError(t, ts.sqlMock.ExpectationsWereMet())
	})
}

func TestTransactionService_Update(t *testing.T) {
	tid := "ec53a0a1-9f1a-4a27-9cbc-6427bb2cc8de"

	t.Run("patches header inside a transaction", func(t *testing.T) {
		ts := newTestServices(t)

		payee := "New Payee"
		req := models.UpdateTransactionRequest{Payee: &payee}

		ts.sqlMock.ExpectBegin()
		ts.sqlMock.ExpectQuery("SELECT(.|\n)*FROM hacc.transactions").
			WillReturnRows(transactionHeaderRows(tid))
		ts.sqlMock.ExpectQuery("SELECT(.|\n)*FROM hacc.splits s").
			WillReturnRows(transactionSplitRows(tid))
		ts.sqlMock.ExpectExec("UPDATE hacc.transactions SET payee").
			WillReturnResult(sqlmock.NewResult(0, 1))
		ts.sqlMock.ExpectCommit()

		ts.sqlMock.ExpectQuery("SELECT(.|\n)*FROM hacc.transactions").
			WillReturnRows(transactionHeaderRows(tid))
		ts.sqlMock.ExpectQuery("SELECT(.|\n)*FROM hacc.splits s").
			WillReturnRows(transactionSplitRows(tid))

		out, err := ts.srv.Transaction.Update(context.Background(), tid, req)
		require.NoError(t, err)
		require.NotNil(t, out)

		assert.NoError(t, ts.sqlMock.ExpectationsWereMet())
	})

	t.Run("missing transaction maps to not found", func(t *testing.T) {
		ts := newTestServices(t)

		payee := "New Payee"
		req := models.UpdateTransactionRequest{Payee: &payee}

		ts.sqlMock.ExpectBegin()
		ts.sqlMock.ExpectQuery("SELECT(.|\n)*FROM hacc.transactions").
			WillReturnError(sql.ErrNoRows)
		ts.sqlMock.ExpectRollback()

		_, err := ts.srv.Transaction.Update(context.Background(), tid, req)

		var detail models.ErrorDetail
		require.ErrorAs(t, err, &detail)
		assert.Equal(t, "LMS-404", detail.Code)
	})
}

func TestTransactionService_Delete(t *testing.T) {
	tid := "ec53a0a1-9f1a-4a27-9cbc-6427bb2cc8de"

	t.Run("deletes splits then header", func(t *testing.T) {
		ts := newTestServices(t)

		ts.sqlMock.ExpectBegin()
		ts.sqlMock.ExpectExec("DELETE FROM hacc.splits").
			WillReturnResult(sqlmock.NewResult(0, 2))
		ts.sqlMock.ExpectExec("DELETE FROM hacc.transactions").
			WillReturnResult(sqlmock.NewResult(0, 1))
		ts.sqlMock.ExpectCommit()

		err := ts.srv.Transaction.Delete(context.Background(), tid)
		require.NoError(t, err)
		assert.NoError(t, ts.sqlMock.ExpectationsWereMet())
	})

	t.Run("missing transaction maps to not found", func(t *testing.T) {
		ts := newTestServices(t)

		ts.sqlMock.ExpectBegin()
		ts.sqlMock.ExpectExec("DELETE FROM hacc.splits").
			WillReturnResult(sqlmock.NewResult(0, 0))
		ts.sqlMock.ExpectExec("DELETE FROM hacc.transactions").
			WillReturnResult(sqlmock.NewResult(0, 0))
		ts.sqlMock.ExpectRollback()

		err := ts.srv.Transaction.Delete(context.Background(), tid)

		var detail models.ErrorDetail
		require.ErrorAs(t, err, &detail)
		assert.Equal(t, "LMS-404", detail.Code)
	})
}

func TestTransactionService_List(t *testing.T) {
	ts := newTestServices(t)

	ts.sqlMock.ExpectQuery("COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	ts.sqlMock.ExpectQuery("SELECT DISTINCT t.tid").
		WillReturnRows(transactionHeaderRows("t-1"))
	ts.sqlMock.ExpectQuery("SELECT(.|\n)*FROM hacc.splits s").
		WillReturnRows(transactionSplitRows("t-1"))

	out, total, err := ts.srv.Transaction.List(context.Background(), models.ListTransactionsFilter{Query: "  acme "})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, out, 1)
	assert.Len(t, out[0].Splits, 2)

	assert.NoError(t, ts.sqlMock.ExpectationsWereMet())
}
