package repositories

const (
	// balancesAsOfQuery aggregates per-account balances through a cutoff
	// date. Accounts that never moved are omitted.
	balancesAsOfQuery = `WITH balances AS (
			SELECT s.account_id, SUM(s.sum) AS balance
			FROM hacc.splits s
			JOIN hacc.transactions t ON t.tid = s.stid
			WHERE t.trandate <= $1
			GROUP BY s.account_id
		)
		SELECT
			a.id,
			a.acc_name,
			at.id,
			at.atype_name,
			at.balance_sheet,
			at.debit,
			at.retained_earnings,
			at.sort,
			b.balance
		FROM balances b
		JOIN hacc.accounts a ON a.id = b.account_id
		JOIN hacc.accounttypes at ON at.id = a.type_id
		WHERE b.balance <> 0
		ORDER BY at.sort, a.acc_name`

	plBalancesQuery = `WITH balances AS (
			SELECT s.account_id, SUM(s.sum) AS balance
			FROM hacc.splits s
			JOIN hacc.transactions t ON t.tid = s.stid
			WHERE t.trandate BETWEEN $1 AND $2
			GROUP BY s.account_id
		)
		SELECT
			a.id,
			a.acc_name,
			at.id,
			at.atype_name,
			at.balance_sheet,
			at.debit,
			at.retained_earnings,
			at.sort,
			b.balance
		FROM balances b
		JOIN hacc.accounts a ON a.id = b.account_id
		JOIN hacc.accounttypes at ON at.id = a.type_id
		WHERE NOT at.balance_sheet
		  AND b.balance <> 0
		ORDER BY at.sort, a.acc_name`

	plTransactionsQuery = `SELECT
			a.id,
			a.acc_name,
			at.id,
			at.atype_name,
			at.debit,
			at.sort,
			t.tid,
			t.trandate,
			t.tranref,
			t.payee,
			t.memo,
			s.sum
		FROM hacc.splits s
		JOIN hacc.transactions t ON t.tid = s.stid
		JOIN hacc.accounts a ON a.id = s.account_id
		JOIN hacc.accounttypes at ON at.id = a.type_id
		WHERE t.trandate BETWEEN $1 AND $2
		  AND NOT at.balance_sheet
		ORDER BY at.sort, a.acc_name, t.trandate, t.tid, s.sid`

	// monthlyMovementsQuery returns net activity per account per calendar
	// month, the raw material for the multi period balance sheet scan.
	monthlyMovementsQuery = `SELECT
			a.id,
			a.acc_name,
			at.id,
			at.atype_name,
			at.debit,
			at.sort,
			date_trunc('month', t.trandate)::date AS month,
			SUM(s.sum) AS net
		FROM hacc.splits s
		JOIN hacc.transactions t ON t.tid = s.stid
		JOIN hacc.accounts a ON a.id = s.account_id
		JOIN hacc.accounttypes at ON at.id = a.type_id
		WHERE t.trandate BETWEEN $1 AND $2
		GROUP BY a.id, a.acc_name, at.id, at.atype_name, at.debit, at.sort, month
		ORDER BY at.sort, a.acc_name, month`

	accountOpeningBalanceQuery = `SELECT COALESCE(SUM(s.sum), 0)
		FROM hacc.splits s
		JOIN hacc.transactions t ON t.tid = s.stid
		WHERE s.account_id = $1
		  AND t.trandate < $2`

	accountLedgerFromQuery = `SELECT
			s.sid,
			t.tid,
			t.trandate,
			t.tranref,
			t.payee,
			t.memo,
			s.sum
		FROM hacc.splits s
		JOIN hacc.transactions t ON t.tid = s.stid
		WHERE s.account_id = $1
		  AND t.trandate >= $2
		ORDER BY t.trandate, t.tid, s.sid`

	// recurringGroupsQuery finds payee/memo pairs that repeat within the
	// lookback window, with their typical spacing and most recent amount.
	recurringGroupsQuery = `SELECT
			COALESCE(t.payee, '') AS payee,
			COALESCE(t.memo, '') AS memo,
			COUNT(*) AS occurrences,
			MAX(t.trandate) AS last_date,
			(array_agg(s.sum ORDER BY t.trandate DESC, t.tid DESC))[1] AS last_sum,
			GREATEST((MAX(t.trandate) - MIN(t.trandate)) / GREATEST(COUNT(*) - 1, 1), 1)::int AS interval_days
		FROM hacc.splits s
		JOIN hacc.transactions t ON t.tid = s.stid
		WHERE s.account_id = $1
		  AND t.trandate >= $2
		  AND COALESCE(t.payee, '') <> ''
		GROUP BY COALESCE(t.payee, ''), COALESCE(t.memo, '')
		HAVING COUNT(*) >= $3
		ORDER BY last_date DESC`
)
