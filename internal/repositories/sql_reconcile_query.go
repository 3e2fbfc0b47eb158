package repositories

const (
	reconciledTotalQuery = `SELECT COALESCE(SUM(s.sum), 0)
		FROM hacc.splits s
		WHERE s.account_id = $1
		  AND s.reconciled_at IS NOT NULL`

	pendingTotalQuery = `SELECT COALESCE(SUM(s.sum), 0)
		FROM hacc.splits s
		WHERE s.account_id = $1
		  AND s.reconciled_at IS NULL
		  AND s.is_pending`

	sessionRowsQuery = `SELECT
			s.sid,
			t.tid,
			t.trandate,
			t.tranref,
			t.payee,
			t.memo,
			s.sum,
			s.is_pending
		FROM hacc.splits s
		JOIN hacc.transactions t ON t.tid = s.stid
		WHERE s.account_id = $1
		  AND s.reconciled_at IS NULL
		ORDER BY t.trandate, t.tid, s.sid`

	toggleSplitQuery = `UPDATE hacc.splits
		SET is_pending = NOT is_pending
		WHERE sid = $1
		  AND account_id = $2
		  AND reconciled_at IS NULL
		RETURNING is_pending`

	splitStateQuery = `SELECT s.is_pending, s.reconciled_at
		FROM hacc.splits s
		WHERE s.sid = $1
		  AND s.account_id = $2`

	stampPendingQuery = `UPDATE hacc.splits
		SET is_pending = false, reconciled_at = $2
		WHERE account_id = $1
		  AND is_pending
		  AND reconciled_at IS NULL`
)
