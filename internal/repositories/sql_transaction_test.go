package repositories

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/jbmohler/lmsmono/internal/common"
	"github.com/jbmohler/lmsmono/internal/config"
	"github.com/jbmohler/lmsmono/internal/models"
)

func TestTransactionRepositoryTestSuite(t *testing.T) {
	t.Helper()
	suite.Run(t, new(transactionTestSuite))
}

type transactionTestSuite struct {
	suite.Suite
	t       *testing.T
	writeDB *sql.DB
	readDB  *sql.DB
	mock    sqlmock.Sqlmock
	repo    TransactionRepository
}

func (suite *transactionTestSuite) SetupTest() {
	var err error
	var cfg config.Config

	suite.writeDB, suite.mock, err = sqlmock.New()
	require.NoError(suite.T(), err)

	suite.readDB = suite.writeDB

	suite.t = suite.T()
	suite.repo = NewSQLRepository(suite.writeDB, suite.readDB, cfg).GetTransactionRepository()
}

func (suite *transactionTestSuite) TearDownTest() {
	defer suite.writeDB.Close()
	defer suite.readDB.Close()
}

func (suite *transactionTestSuite) TestRepository_Store() {
	trandate := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	trx := &models.Transaction{
		TID:      "ec53a0a1-9f1a-4a27-9cbc-6427bb2cc8de",
		TranDate: trandate,
		Payee:    "Acme Groceries",
		Splits: []models.Split{
			{SID: "s-1", AccountID: "acc-1", Sum: decimal.NewFromFloat(42.50)},
			{SID: "s-2", AccountID: "acc-2", Sum: decimal.NewFromFloat(-42.50)},
		},
	}

	type args struct {
		ctx        context.Context
		setupMocks func()
	}

	testCases := []struct {
		name    string
		args    args
		wantErr bool
	}{
		{
			name: "test success",
			args: args{
				ctx: context.Background(),
				setupMocks: func() {
					suite.mock.ExpectExec(regexp.QuoteMeta(storeTransactionQuery)).
						WithArgs(trx.TID, trx.TranDate, trx.TranRef, trx.Payee, trx.Memo).
						WillReturnResult(sqlmock.NewResult(0, 1))
					suite.mock.ExpectExec(regexp.QuoteMeta(storeSplitQuery)).
						WillReturnResult(sqlmock.NewResult(0, 2))
				},
			},
			wantErr: false,
		},
		{
			name: "test error on header insert",
			args: args{
				ctx: context.Background(),
				setupMocks: func() {
					suite.mock.ExpectExec(regexp.QuoteMeta(storeTransactionQuery)).
						WillReturnError(assert.AnError)
				},
			},
			wantErr: true,
		},
		{
			name: "test error on splits insert",
			args: args{
				ctx: context.Background(),
				setupMocks: func() {
					suite.mock.ExpectExec(regexp.QuoteMeta(storeTransactionQuery)).
						WillReturnResult(sqlmock.NewResult(0, 1))
					suite.mock.ExpectExec(regexp.QuoteMeta(storeSplitQuery)).
						WillReturnError(assert.AnError)
				},
			},
			wantErr: true,
		},
	}
	for _, tt := range testCases {
		tt := tt
		suite.t.Run(tt.name, func(t *testing.T) {
			tt.args.setupMocks()

			err := suite.repo.Store(tt.args.ctx, trx)
			assert.Equal(t, tt.wantErr, err != nil)

			if err = suite.mock.ExpectationsWereMet(); err != nil {
				t.Errorf("there were unfulfilled expectations: %s", err)
			}
		})
	}
}

func (suite *transactionTestSuite) TestRepository_UpdateHeader() {
	tid := "ec53a0a1-9f1a-4a27-9cbc-6427bb2cc8de"
	changes := map[string]interface{}{"payee": "New Payee"}

	testCases := []struct {
		name       string
		setupMocks func()
		wantErr    error
	}{
		{
			name: "test success",
			setupMocks: func() {
				suite.mock.ExpectExec(regexp.QuoteMeta(`UPDATE hacc.transactions SET payee = $1 WHERE tid = $2`)).
					WithArgs("New Payee", tid).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "test no rows affected",
			setupMocks: func() {
				suite.mock.ExpectExec(regexp.QuoteMeta(`UPDATE hacc.transactions SET payee = $1 WHERE tid = $2`)).
					WithArgs("New Payee", tid).
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
			wantErr: common.ErrNoRowsAffected,
		},
	}
	for _, tt := range testCases {
		tt := tt
		suite.t.Run(tt.name, func(t *testing.T) {
			tt.setupMocks()

			err := suite.repo.UpdateHeader(context.Background(), tid, changes)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}

			if err = suite.mock.ExpectationsWereMet(); err != nil {
				t.Errorf("there were unfulfilled expectations: %s", err)
			}
		})
	}
}

func (suite *transactionTestSuite) TestRepository_Delete() {
	tid := "ec53a0a1-9f1a-4a27-9cbc-6427bb2cc8de"

	suite.t.Run("test success", func(t *testing.T) {
		suite.mock.ExpectExec(regexp.QuoteMeta(deleteTransactionQuery)).
			WithArgs(tid).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := suite.repo.Delete(context.Background(), tid)
		assert.NoError(t, err)
	})

	suite.t.Run("test not found", func(t *testing.T) {
		suite.mock.ExpectExec(regexp.QuoteMeta(deleteTransactionQuery)).
			WithArgs(tid).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := suite.repo.Delete(context.Background(), tid)
		assert.ErrorIs(t, err, common.ErrNoRowsAffected)
	})
}

func (suite *transactionTestSuite) TestRepository_GetByID() {
	tid := "ec53a0a1-9f1a-4a27-9cbc-6427bb2cc8de"
	trandate := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)

	suite.t.Run("test success", func(t *testing.T) {
		headerRows := sqlmock.NewRows([]string{"tid", "trandate", "tranref", "payee", "memo"}).
			AddRow(tid, trandate, nil, "Acme Groceries", nil)
		suite.mock.ExpectQuery(regexp.QuoteMeta(getTransactionByIDQuery)).
			WithArgs(tid).
			WillReturnRows(headerRows)

		splitRows := sqlmock.NewRows([]string{"sid", "stid", "account_id", "acc_name", "sum", "is_pending", "reconciled_at"}).
			AddRow("s-1", tid, "acc-1", "Groceries", "42.5", false, nil).
			AddRow("s-2", tid, "acc-2", "Checking", "-42.5", true, nil)
		suite.mock.ExpectQuery(regexp.QuoteMeta(getSplitsByTransactionQuery)).
			WithArgs(tid).
			WillReturnRows(splitRows)

		trx, err := suite.repo.GetByID(context.Background(), tid)
		require.NoError(t, err)
		assert.Equal(t, "Acme Groceries", trx.Payee)
		assert.Len(t, trx.Splits, 2)
		assert.True(t, trx.Splits[1].IsPending)
		assert.True(t, trx.Balanced())
	})

	suite.t.Run("test not found", func(t *testing.T) {
		suite.mock.ExpectQuery(regexp.QuoteMeta(getTransactionByIDQuery)).
			WithArgs(tid).
			WillReturnError(sql.ErrNoRows)

		_, err := suite.repo.GetByID(context.Background(), tid)
		assert.ErrorIs(t, err, sql.ErrNoRows)
	})
}

func (suite *transactionTestSuite) TestRepository_GetList() {
	trandate := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)

	suite.t.Run("test success with splits", func(t *testing.T) {
		listRows := sqlmock.NewRows([]string{"tid", "trandate", "tranref", "payee", "memo"}).
			AddRow("t-1", trandate, "CHK-10", "Acme Groceries", nil)
		suite.mock.ExpectQuery("SELECT DISTINCT t.tid").WillReturnRows(listRows)

		splitRows := sqlmock.NewRows([]string{"sid", "stid", "account_id", "acc_name", "sum", "is_pending", "reconciled_at"}).
			AddRow("s-1", "t-1", "acc-1", "Groceries", "42.5", false, nil).
			AddRow("s-2", "t-1", "acc-2", "Checking", "-42.5", false, nil)
		suite.mock.ExpectQuery(regexp.QuoteMeta(getSplitsByTransactionsQuery)).
			WillReturnRows(splitRows)

		res, err := suite.repo.GetList(context.Background(), models.ListTransactionsFilter{Limit: 10})
		require.NoError(t, err)
		require.Len(t, res, 1)
		assert.Len(t, res[0].Splits, 2)
	})

	suite.t.Run("test empty result skips split query", func(t *testing.T) {
		listRows := sqlmock.NewRows([]string{"tid", "trandate", "tranref", "payee", "memo"})
		suite.mock.ExpectQuery("SELECT DISTINCT t.tid").WillReturnRows(listRows)

		res, err := suite.repo.GetList(context.Background(), models.ListTransactionsFilter{Limit: 10})
		require.NoError(t, err)
		assert.Empty(t, res)

		if err = suite.mock.ExpectationsWereMet(); err != nil {
			t.Errorf("there were unfulfilled expectations: %s", err)
		}
	})
}

func (suite *transactionTestSuite) TestRepository_MissingAccounts() {
	suite.t.Run("test reports unknown accounts", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id"}).AddRow("acc-1")
		suite.mock.ExpectQuery(regexp.QuoteMeta(checkAccountsExistQuery)).
			WillReturnRows(rows)

		missing, err := suite.repo.MissingAccounts(context.Background(), []string{"acc-1", "acc-2"})
		require.NoError(t, err)
		assert.Equal(t, []string{"acc-2"}, missing)
	})

	suite.t.Run("test all known", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id"}).AddRow("acc-1").AddRow("acc-2")
		suite.mock.ExpectQuery(regexp.QuoteMeta(checkAccountsExistQuery)).
			WillReturnRows(rows)

		missing, err := suite.repo.MissingAccounts(context.Background(), []string{"acc-1", "acc-2"})
		require.NoError(t, err)
		assert.Empty(t, missing)
	})
}

func TestBuildListTransactionsQuery(t *testing.T) {
	dateFrom := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("all filters compose", func(t *testing.T) {
		query, args, err := buildListTransactionsQuery(models.ListTransactionsFilter{
			Query:     "acme",
			AccountID: "acc-1",
			DateFrom:  &dateFrom,
			Limit:     25,
			Offset:    50,
		}, false)
		require.NoError(t, err)
		assert.Contains(t, query, "JOIN hacc.splits s ON s.stid = t.tid")
		assert.Contains(t, query, "ILIKE")
		assert.Contains(t, query, "LIMIT 25")
		assert.Contains(t, query, "OFFSET 50")
		assert.Len(t, args, 5)
	})

	t.Run("count variant has no ordering", func(t *testing.T) {
		query, _, err := buildListTransactionsQuery(models.ListTransactionsFilter{}, true)
		require.NoError(t, err)
		assert.Contains(t, query, "COUNT(DISTINCT t.tid)")
		assert.NotContains(t, query, "ORDER BY")
	})
}
