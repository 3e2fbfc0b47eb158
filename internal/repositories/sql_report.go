package repositories

import (
	"context"
	"database/sql"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jbmohler/lmsmono/internal/models"
	"github.com/jbmohler/lmsmono/internal/monitoring"
)

type ReportRepository interface {
	BalancesAsOf(ctx context.Context, asOf time.Time) (rows []models.BalanceRow, err error)
	PLBalances(ctx context.Context, dateFrom, dateTo time.Time) (rows []models.BalanceRow, err error)
	PLTransactions(ctx context.Context, dateFrom, dateTo time.Time) (rows []models.PLTransactionRow, err error)
	MonthlyMovements(ctx context.Context, dateFrom, dateTo time.Time) (rows []models.MovementRow, err error)
	AccountOpeningBalance(ctx context.Context, accountID string, before time.Time) (balance decimal.Decimal, err error)
	AccountLedgerFrom(ctx context.Context, accountID string, dateFrom time.Time) (lines []models.LedgerLine, err error)
	RecurringGroups(ctx context.Context, accountID string, since time.Time, minOccurrences int) (groups []models.RecurringGroup, err error)
}

type reportRepository sqlRepo

var _ ReportRepository = (*reportRepository)(nil)

func (rp *reportRepository) scanBalanceRows(rows *sql.Rows) (out []models.BalanceRow, err error) {
	defer rows.Close()

	for rows.Next() {
		var row models.BalanceRow
		if err = rows.Scan(&row.AccountID, &row.AccountName, &row.TypeID, &row.TypeName,
			&row.BalanceSheet, &row.Debit, &row.RetainedEarnings, &row.Sort, &row.Balance); err != nil {
			return
		}
		out = append(out, row)
	}
	err = rows.Err()

	return
}

func (rp *reportRepository) BalancesAsOf(ctx context.Context, asOf time.Time) (rows []models.BalanceRow, err error) {
	monitor := monitoring.New(ctx)
	defer monitor.Finish(monitoring.WithFinishCheckError(err))

	db := rp.r.extractTxRead(ctx)

	result, err := db.QueryContext(ctx, balancesAsOfQuery, asOf)
	if err != nil {
		return
	}

	return rp.scanBalanceRows(result)
}

func (rp *reportRepository) PLBalances(ctx context.Context, dateFrom, dateTo time.Time) (rows []models.BalanceRow, err error) {
	monitor := monitoring.New(ctx)
	defer monitor.Finish(monitoring.WithFinishCheckError(err))

	db := rp.r.extractTxRead(ctx)

	result, err := db.QueryContext(ctx, plBalancesQuery, dateFrom, dateTo)
	if err != nil {
		return
	}

	return rp.scanBalanceRows(result)
}

func (rp *reportRepository) PLTransactions(ctx context.Context, dateFrom, dateTo time.Time) (rows []models.PLTransactionRow, err error) {
	monitor := monitoring.New(ctx)
	defer monitor.Finish(monitoring.WithFinishCheckError(err))

	db := rp.r.extractTxRead(ctx)

	result, err := db.QueryContext(ctx, plTransactionsQuery, dateFrom, dateTo)
	if err != nil {
		return
	}
	defer result.Close()

	for result.Next() {
		var (
			row     models.PLTransactionRow
			tranRef sql.NullString
			payee   sql.NullString
			memo    sql.NullString
		)
		if err = result.Scan(&row.AccountID, &row.AccountName, &row.TypeID, &row.TypeName,
			&row.Debit, &row.Sort, &row.TID, &row.TranDate, &tranRef, &payee, &memo,
			&row.Sum); err != nil {
			return
		}
		row.TranRef = tranRef.String
		row.Payee = payee.String
		row.Memo = memo.String
		rows = append(rows, row)
	}
	err = result.Err()

	return
}

func (rp *reportRepository) MonthlyMovements(ctx context.Context, dateFrom, dateTo time.Time) (rows []models.MovementRow, err error) {
	monitor := monitoring.New(ctx)
	defer monitor.Finish(monitoring.WithFinishCheckError(err))

	db := rp.r.extractTxRead(ctx)

	result, err := db.QueryContext(ctx, monthlyMovementsQuery, dateFrom, dateTo)
	if err != nil {
		return
	}
	defer result.Close()

	for result.Next() {
		var row models.MovementRow
		if err = result.Scan(&row.AccountID, &row.AccountName, &row.TypeID, &row.TypeName,
			&row.Debit, &row.Sort, &row.Month, &row.Net); err != nil {
			return
		}
		rows = append(rows, row)
	}
	err = result.Err()

	return
}

func (rp *reportRepository) AccountOpeningBalance(ctx context.Context, accountID string, before time.Time) (balance decimal.Decimal, err error) {
	monitor := monitoring.New(ctx)
	defer monitor.Finish(monitoring.WithFinishCheckError(err))

	db := rp.r.extractTxRead(ctx)

	err = db.QueryRowContext(ctx, accountOpeningBalanceQuery, accountID, before).Scan(&balance)
	return
}

func (rp *reportRepository) AccountLedgerFrom(ctx context.Context, accountID string, dateFrom time.Time) (lines []models.LedgerLine, err error) {
	monitor := monitoring.New(ctx)
	defer monitor.Finish(monitoring.WithFinishCheckError(err))

	db := rp.r.extractTxRead(ctx)

	result, err := db.QueryContext(ctx, accountLedgerFromQuery, accountID, dateFrom)
	if err != nil {
		return
	}
	defer result.Close()

	for result.Next() {
		var (
			line    models.LedgerLine
			tranRef sql.NullString
			payee   sql.NullString
			memo    sql.NullString
		)
		if err = result.Scan(&line.SID, &line.TID, &line.TranDate, &tranRef, &payee,
			&memo, &line.Sum); err != nil {
			return
		}
		line.TranRef = tranRef.String
		line.Payee = payee.String
		line.Memo = memo.String
		lines = append(lines, line)
	}
	err = result.Err()

	return
}

func (rp *reportRepository) RecurringGroups(ctx context.Context, accountID string, since time.Time, minOccurrences int) (groups []models.RecurringGroup, err error) {
	monitor := monitoring.New(ctx)
	defer monitor.Finish(monitoring.WithFinishCheckError(err))

	db := rp.r.extractTxRead(ctx)

	result, err := db.QueryContext(ctx, recurringGroupsQuery, accountID, since, minOccurrences)
	if err != nil {
		return
	}
	defer result.Close()

	for result.Next() {
		var group models.RecurringGroup
		if err = result.Scan(&group.Payee, &group.Memo, &group.Occurrences,
			&group.LastDate, &group.LastSum, &group.IntervalDays); err != nil {
			return
		}
		groups = append(groups, group)
	}
	err = result.Err()

	return
}
