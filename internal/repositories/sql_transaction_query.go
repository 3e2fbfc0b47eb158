package repositories

import (
	sq "github.com/Masterminds/squirrel"

	"github.com/jbmohler/lmsmono/internal/models"
)

const (
	storeTransactionQuery = `INSERT INTO hacc.transactions
		(tid, trandate, tranref, payee, memo)
		VALUES ($1, $2, $3, $4, $5)`

	storeSplitQuery = `INSERT INTO hacc.splits
		(sid, stid, account_id, sum)
		VALUES `

	getTransactionByIDQuery = `SELECT
			tid,
			trandate,
			tranref,
			payee,
			memo
		FROM hacc.transactions
		WHERE tid = $1`

	getSplitsByTransactionQuery = `SELECT
			s.sid,
			s.stid,
			s.account_id,
			a.acc_name,
			s.sum,
			s.is_pending,
			s.reconciled_at
		FROM hacc.splits s
		JOIN hacc.accounts a ON a.id = s.account_id
		WHERE s.stid = $1
		ORDER BY s.sum DESC, s.sid`

	getSplitsByTransactionsQuery = `SELECT
			s.sid,
			s.stid,
			s.account_id,
			a.acc_name,
			s.sum,
			s.is_pending,
			s.reconciled_at
		FROM hacc.splits s
		JOIN hacc.accounts a ON a.id = s.account_id
		WHERE s.stid = ANY($1)
		ORDER BY s.stid, s.sum DESC, s.sid`

	deleteSplitsByTransactionQuery = `DELETE FROM hacc.splits WHERE stid = $1`

	deleteTransactionQuery = `DELETE FROM hacc.transactions WHERE tid = $1`

	checkAccountsExistQuery = `SELECT id FROM hacc.accounts WHERE id = ANY($1)`
)

// buildListTransactionsQuery assembles the filtered list query. Filters
// are optional and compose; the text filter searches payee, memo and
// tranref case-insensitively.
func buildListTransactionsQuery(opts models.ListTransactionsFilter, countOnly bool) (string, []interface{}, error) {
	builder := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	var b sq.SelectBuilder
	if countOnly {
		b = builder.Select("COUNT(DISTINCT t.tid)")
	} else {
		b = builder.Select("DISTINCT t.tid", "t.trandate", "t.tranref", "t.payee", "t.memo")
	}

	b = b.From("hacc.transactions t")

	if opts.AccountID != "" {
		b = b.Join("hacc.splits s ON s.stid = t.tid").
			Where(sq.Eq{"s.account_id": opts.AccountID})
	}

	if opts.Query != "" {
		pattern := "%" + opts.Query + "%"
		b = b.Where(sq.Or{
			sq.ILike{"t.payee": pattern},
			sq.ILike{"t.memo": pattern},
			sq.ILike{"t.tranref": pattern},
		})
	}

	if opts.DateFrom != nil {
		b = b.Where(sq.GtOrEq{"t.trandate": *opts.DateFrom})
	}
	if opts.DateTo != nil {
		b = b.Where(sq.LtOrEq{"t.trandate": *opts.DateTo})
	}

	if !countOnly {
		b = b.OrderBy("t.trandate DESC", "t.tid")
		if opts.Limit > 0 {
			b = b.Limit(uint64(opts.Limit))
		}
		if opts.Offset > 0 {
			b = b.Offset(uint64(opts.Offset))
		}
	}

	return b.ToSql()
}
