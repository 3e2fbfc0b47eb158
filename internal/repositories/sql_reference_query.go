package repositories

const (
	getAccountQuery = `SELECT
			a.id,
			a.acc_name,
			a.description,
			a.type_id,
			a.journal_id,
			a.rec_note,
			at.atype_name,
			at.balance_sheet,
			at.debit,
			j.jrn_name
		FROM hacc.accounts a
		JOIN hacc.accounttypes at ON at.id = a.type_id
		JOIN hacc.journals j ON j.id = a.journal_id
		WHERE a.id = $1`

	listAccountsQuery = `SELECT
			a.id,
			a.acc_name,
			a.description,
			a.type_id,
			a.journal_id,
			a.rec_note,
			at.atype_name,
			at.balance_sheet,
			at.debit,
			j.jrn_name
		FROM hacc.accounts a
		JOIN hacc.accounttypes at ON at.id = a.type_id
		JOIN hacc.journals j ON j.id = a.journal_id
		ORDER BY at.sort, a.acc_name`

	listAccountTypesQuery = `SELECT
			id,
			atype_name,
			description,
			balance_sheet,
			debit,
			retained_earnings,
			sort
		FROM hacc.accounttypes
		ORDER BY sort`

	listJournalsQuery = `SELECT
			id,
			jrn_name,
			description
		FROM hacc.journals
		ORDER BY jrn_name`

	accountLedgerPageQuery = `SELECT
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
		ORDER BY t.trandate DESC, t.tid, s.sid
		LIMIT $2 OFFSET $3`
)
