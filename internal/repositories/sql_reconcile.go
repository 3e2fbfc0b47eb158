package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jbmohler/lmsmono/internal/common"
	"github.com/jbmohler/lmsmono/internal/models"
	"github.com/jbmohler/lmsmono/internal/monitoring"
)

type ReconcileRepository interface {
	ReconciledTotal(ctx context.Context, accountID string) (total decimal.Decimal, err error)
	PendingTotal(ctx context.Context, accountID string) (total decimal.Decimal, err error)
	SessionRows(ctx context.Context, accountID string) (rows []models.ReconcileRow, err error)
	Toggle(ctx context.Context, accountID, splitID string) (isPending bool, err error)
	StampPending(ctx context.Context, accountID string, reconciledAt time.Time) (count int64, err error)
}

type reconcileRepository sqlRepo

var _ ReconcileRepository = (*reconcileRepository)(nil)

func (rr *reconcileRepository) ReconciledTotal(ctx context.Context, accountID string) (total decimal.Decimal, err error) {
	monitor := monitoring.New(ctx)
	defer monitor.Finish(monitoring.WithFinishCheckError(err))

	db := rr.r.extractTxRead(ctx)

	err = db.QueryRowContext(ctx, reconciledTotalQuery, accountID).Scan(&total)
	return
}

func (rr *reconcileRepository) PendingTotal(ctx context.Context, accountID string) (total decimal.Decimal, err error) {
	monitor := monitoring.New(ctx)
	defer monitor.Finish(monitoring.WithFinishCheckError(err))

	db := rr.r.extractTxRead(ctx)

	err = db.QueryRowContext(ctx, pendingTotalQuery, accountID).Scan(&total)
	return
}

func (rr *reconcileRepository) SessionRows(ctx context.Context, accountID string) (rows []models.ReconcileRow, err error) {
	monitor := monitoring.New(ctx)
	defer monitor.Finish(monitoring.WithFinishCheckError(err))

	db := rr.r.extractTxRead(ctx)

	result, err := db.QueryContext(ctx, sessionRowsQuery, accountID)
	if err != nil {
		return
	}
	defer result.Close()

	for result.Next() {
		var (
			row     models.ReconcileRow
			tranRef sql.NullString
			payee   sql.NullString
			memo    sql.NullString
		)
		if err = result.Scan(&row.SID, &row.TID, &row.TranDate, &tranRef, &payee, &memo,
			&row.Sum, &row.IsPending); err != nil {
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

// Toggle flips the pending mark in a single conditional UPDATE so two
// racing toggles can never double-apply. A split that is already
// reconciled reports ErrSplitAlreadyCleared, a split that does not belong
// to this account reports sql.ErrNoRows.
func (rr *reconcileRepository) Toggle(ctx context.Context, accountID, splitID string) (isPending bool, err error) {
	monitor := monitoring.New(ctx)
	defer monitor.Finish(monitoring.WithFinishCheckError(err))

	db := rr.r.extractTxWrite(ctx)

	err = db.QueryRowContext(ctx, toggleSplitQuery, splitID, accountID).Scan(&isPending)
	if err == nil {
		return
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return
	}

	// distinguish missing split from already reconciled
	var (
		pending      bool
		reconciledAt sql.NullTime
	)
	stateErr := db.QueryRowContext(ctx, splitStateQuery, splitID, accountID).Scan(&pending, &reconciledAt)
	if stateErr != nil {
		err = stateErr
		return
	}
	if reconciledAt.Valid {
		err = common.ErrSplitAlreadyCleared
	}

	return
}

func (rr *reconcileRepository) StampPending(ctx context.Context, accountID string, reconciledAt time.Time) (count int64, err error) {
	monitor := monitoring.New(ctx)
	defer monitor.Finish(monitoring.WithFinishCheckError(err))

	db := rr.r.extractTxWrite(ctx)

	res, err := db.ExecContext(ctx, stampPendingQuery, accountID, reconciledAt)
	if err != nil {
		return
	}

	count, err = res.RowsAffected()
	return
}
