package repositories

import (
	"context"
	"database/sql"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/jbmohler/lmsmono/internal/common"
	"github.com/jbmohler/lmsmono/internal/models"
	"github.com/jbmohler/lmsmono/internal/monitoring"
)

type TransactionRepository interface {
	Store(ctx context.Context, en *models.Transaction) (err error)
	StoreSplits(ctx context.Context, tid string, splits []models.Split) (err error)
	UpdateHeader(ctx context.Context, tid string, changes map[string]interface{}) (err error)
	DeleteSplits(ctx context.Context, tid string) (err error)
	Delete(ctx context.Context, tid string) (err error)
	GetByID(ctx context.Context, tid string) (en *models.Transaction, err error)
	GetList(ctx context.Context, opts models.ListTransactionsFilter) (res []models.Transaction, err error)
	CountAll(ctx context.Context, opts models.ListTransactionsFilter) (total int, err error)
	MissingAccounts(ctx context.Context, accountIDs []string) (missing []string, err error)
}

type transactionRepository sqlRepo

var _ TransactionRepository = (*transactionRepository)(nil)

func (tr *transactionRepository) Store(ctx context.Context, en *models.Transaction) (err error) {
	monitor := monitoring.New(ctx)
	defer monitor.Finish(monitoring.WithFinishCheckError(err))

	db := tr.r.extractTxWrite(ctx)

	_, err = db.ExecContext(ctx, storeTransactionQuery,
		en.TID,
		en.TranDate,
		en.TranRef,
		en.Payee,
		en.Memo)
	if err != nil {
		return
	}

	return tr.StoreSplits(ctx, en.TID, en.Splits)
}

func (tr *transactionRepository) StoreSplits(ctx context.Context, tid string, splits []models.Split) (err error) {
	monitor := monitoring.New(ctx)
	defer monitor.Finish(monitoring.WithFinishCheckError(err))

	db := tr.r.extractTxWrite(ctx)

	valueStrings := []string{}
	valueArgs := []interface{}{}
	for _, split := range splits {
		valueStrings = append(valueStrings, "(?, ?, ?, ?)")
		valueArgs = append(valueArgs, split.SID)
		valueArgs = append(valueArgs, tid)
		valueArgs = append(valueArgs, split.AccountID)
		valueArgs = append(valueArgs, split.Sum)
	}

	query := storeSplitQuery + strings.Join(valueStrings, ", ")
	query = tr.r.SubstitutePlaceholder(query, 1)

	_, err = db.ExecContext(ctx, query, valueArgs...)
	return
}

func (tr *transactionRepository) UpdateHeader(ctx context.Context, tid string, changes map[string]interface{}) (err error) {
	monitor := monitoring.New(ctx)
	defer monitor.Finish(monitoring.WithFinishCheckError(err))

	db := tr.r.extractTxWrite(ctx)

	query, args, err := sq.StatementBuilder.
		PlaceholderFormat(sq.Dollar).
		Update("hacc.transactions").
		SetMap(changes).
		Where(sq.Eq{"tid": tid}).
		ToSql()
	if err != nil {
		return
	}

	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return
	}
	if affected == 0 {
		return common.ErrNoRowsAffected
	}

	return
}

func (tr *transactionRepository) DeleteSplits(ctx context.Context, tid string) (err error) {
	monitor := monitoring.New(ctx)
	defer monitor.Finish(monitoring.WithFinishCheckError(err))

	db := tr.r.extractTxWrite(ctx)

	_, err = db.ExecContext(ctx, deleteSplitsByTransactionQuery, tid)
	return
}

func (tr *transactionRepository) Delete(ctx context.Context, tid string) (err error) {
	monitor := monitoring.New(ctx)
	defer monitor.Finish(monitoring.WithFinishCheckError(err))

	db := tr.r.extractTxWrite(ctx)

	res, err := db.ExecContext(ctx, deleteTransactionQuery, tid)
	if err != nil {
		return
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return
	}
	if affected == 0 {
		return common.ErrNoRowsAffected
	}

	return
}

func (tr *transactionRepository) GetByID(ctx context.Context, tid string) (en *models.Transaction, err error) {
	monitor := monitoring.New(ctx)
	defer monitor.Finish(monitoring.WithFinishCheckError(err))

	db := tr.r.extractTxRead(ctx)

	var (
		trx     models.Transaction
		tranRef sql.NullString
		payee   sql.NullString
		memo    sql.NullString
	)
	err = db.QueryRowContext(ctx, getTransactionByIDQuery, tid).
		Scan(&trx.TID, &trx.TranDate, &tranRef, &payee, &memo)
	if err != nil {
		return
	}
	trx.TranRef = tranRef.String
	trx.Payee = payee.String
	trx.Memo = memo.String

	rows, err := db.QueryContext(ctx, getSplitsByTransactionQuery, tid)
	if err != nil {
		return
	}
	defer rows.Close()

	for rows.Next() {
		var split models.Split
		var reconciledAt sql.NullTime
		if err = rows.Scan(&split.SID, &split.STID, &split.AccountID, &split.AccountName,
			&split.Sum, &split.IsPending, &reconciledAt); err != nil {
			return
		}
		if reconciledAt.Valid {
			split.ReconciledAt = &reconciledAt.Time
		}
		trx.Splits = append(trx.Splits, split)
	}
	if err = rows.Err(); err != nil {
		return
	}

	return &trx, nil
}

func (tr *transactionRepository) GetList(ctx context.Context, opts models.ListTransactionsFilter) (res []models.Transaction, err error) {
	monitor := monitoring.New(ctx)
	defer monitor.Finish(monitoring.WithFinishCheckError(err))

	db := tr.r.extractTxRead(ctx)

	query, args, err := buildListTransactionsQuery(opts, false)
	if err != nil {
		return
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return
	}
	defer rows.Close()

	var tids []string
	byTID := make(map[string]int)
	for rows.Next() {
		var (
			trx     models.Transaction
			tranRef sql.NullString
			payee   sql.NullString
			memo    sql.NullString
		)
		if err = rows.Scan(&trx.TID, &trx.TranDate, &tranRef, &payee, &memo); err != nil {
			return
		}
		trx.TranRef = tranRef.String
		trx.Payee = payee.String
		trx.Memo = memo.String

		byTID[trx.TID] = len(res)
		tids = append(tids, trx.TID)
		res = append(res, trx)
	}
	if err = rows.Err(); err != nil {
		return
	}

	if len(tids) == 0 {
		return res, nil
	}

	splitRows, err := db.QueryContext(ctx, getSplitsByTransactionsQuery, pq.Array(tids))
	if err != nil {
		return
	}
	defer splitRows.Close()

	for splitRows.Next() {
		var split models.Split
		var reconciledAt sql.NullTime
		if err = splitRows.Scan(&split.SID, &split.STID, &split.AccountID, &split.AccountName,
			&split.Sum, &split.IsPending, &reconciledAt); err != nil {
			return
		}
		if reconciledAt.Valid {
			split.ReconciledAt = &reconciledAt.Time
		}
		if idx, ok := byTID[split.STID]; ok {
			res[idx].Splits = append(res[idx].Splits, split)
		}
	}
	err = splitRows.Err()

	return
}

func (tr *transactionRepository) CountAll(ctx context.Context, opts models.ListTransactionsFilter) (total int, err error) {
	monitor := monitoring.New(ctx)
	defer monitor.Finish(monitoring.WithFinishCheckError(err))

	db := tr.r.extractTxRead(ctx)

	query, args, err := buildListTransactionsQuery(opts, true)
	if err != nil {
		return
	}

	err = db.QueryRowContext(ctx, query, args...).Scan(&total)
	return
}

// MissingAccounts reports which of the given account ids do not exist.
func (tr *transactionRepository) MissingAccounts(ctx context.Context, accountIDs []string) (missing []string, err error) {
	monitor := monitoring.New(ctx)
	defer monitor.Finish(monitoring.WithFinishCheckError(err))

	db := tr.r.extractTxRead(ctx)

	rows, err := db.QueryContext(ctx, checkAccountsExistQuery, pq.Array(accountIDs))
	if err != nil {
		return
	}
	defer rows.Close()

	found := make(map[string]struct{}, len(accountIDs))
	for rows.Next() {
		var id string
		if err = rows.Scan(&id); err != nil {
			return
		}
		found[id] = struct{}{}
	}
	if err = rows.Err(); err != nil {
		return
	}

	for _, id := range accountIDs {
		if _, ok := found[id]; !ok {
			missing = append(missing, id)
		}
	}

	return
}
