package repositories

import (
	"context"
	"database/sql"

	"github.com/jbmohler/lmsmono/internal/models"
	"github.com/jbmohler/lmsmono/internal/monitoring"
)

type ReferenceRepository interface {
	GetAccount(ctx context.Context, id string) (account models.Account, err error)
	ListAccounts(ctx context.Context) (accounts []models.Account, err error)
	ListAccountTypes(ctx context.Context) (types []models.AccountType, err error)
	ListJournals(ctx context.Context) (journals []models.Journal, err error)
	AccountLedgerPage(ctx context.Context, accountID string, limit, offset int) (lines []models.LedgerLine, err error)
}

type referenceRepository sqlRepo

var _ ReferenceRepository = (*referenceRepository)(nil)

func scanAccount(scan func(dest ...interface{}) error) (models.Account, error) {
	var (
		account     models.Account
		description sql.NullString
		recNote     sql.NullString
	)
	err := scan(&account.ID, &account.Name, &description, &account.TypeID,
		&account.JournalID, &recNote, &account.TypeName, &account.TypeBalanceSheet,
		&account.TypeDebit, &account.JournalName)
	if err != nil {
		return models.Account{}, err
	}
	account.Description = description.String
	account.RecNote = recNote.String
	return account, nil
}

func (rf *referenceRepository) GetAccount(ctx context.Context, id string) (account models.Account, err error) {
	monitor := monitoring.New(ctx)
	defer monitor.Finish(monitoring.WithFinishCheckError(err))

	db := rf.r.extractTxRead(ctx)

	row := db.QueryRowContext(ctx, getAccountQuery, id)
	account, err = scanAccount(row.Scan)
	return
}

func (rf *referenceRepository) ListAccounts(ctx context.Context) (accounts []models.Account, err error) {
	monitor := monitoring.New(ctx)
	defer monitor.Finish(monitoring.WithFinishCheckError(err))

	db := rf.r.extractTxRead(ctx)

	rows, err := db.QueryContext(ctx, listAccountsQuery)
	if err != nil {
		return
	}
	defer rows.Close()

	for rows.Next() {
		var account models.Account
		account, err = scanAccount(rows.Scan)
		if err != nil {
			return
		}
		accounts = append(accounts, account)
	}
	err = rows.Err()

	return
}

func (rf *referenceRepository) ListAccountTypes(ctx context.Context) (types []models.AccountType, err error) {
	monitor := monitoring.New(ctx)
	defer monitor.Finish(monitoring.WithFinishCheckError(err))

	db := rf.r.extractTxRead(ctx)

	rows, err := db.QueryContext(ctx, listAccountTypesQuery)
	if err != nil {
		return
	}
	defer rows.Close()

	for rows.Next() {
		var (
			at          models.AccountType
			description sql.NullString
		)
		if err = rows.Scan(&at.ID, &at.Name, &description, &at.BalanceSheet,
			&at.Debit, &at.RetainedEarnings, &at.Sort); err != nil {
			return
		}
		at.Description = description.String
		types = append(types, at)
	}
	err = rows.Err()

	return
}

func (rf *referenceRepository) ListJournals(ctx context.Context) (journals []models.Journal, err error) {
	monitor := monitoring.New(ctx)
	defer monitor.Finish(monitoring.WithFinishCheckError(err))

	db := rf.r.extractTxRead(ctx)

	rows, err := db.QueryContext(ctx, listJournalsQuery)
	if err != nil {
		return
	}
	defer rows.Close()

	for rows.Next() {
		var (
			j           models.Journal
			description sql.NullString
		)
		if err = rows.Scan(&j.ID, &j.Name, &description); err != nil {
			return
		}
		j.Description = description.String
		journals = append(journals, j)
	}
	err = rows.Err()

	return
}

func (rf *referenceRepository) AccountLedgerPage(ctx context.Context, accountID string, limit, offset int) (lines []models.LedgerLine, err error) {
	monitor := monitoring.New(ctx)
	defer monitor.Finish(monitoring.WithFinishCheckError(err))

	db := rf.r.extractTxRead(ctx)

	rows, err := db.QueryContext(ctx, accountLedgerPageQuery, accountID, limit, offset)
	if err != nil {
		return
	}
	defer rows.Close()

	for rows.Next() {
		var (
			line    models.LedgerLine
			tranRef sql.NullString
			payee   sql.NullString
			memo    sql.NullString
		)
		if err = rows.Scan(&line.SID, &line.TID, &line.TranDate, &tranRef, &payee,
			&memo, &line.Sum); err != nil {
			return
		}
		line.TranRef = tranRef.String
		line.Payee = payee.String
		line.Memo = memo.String
		lines = append(lines, line)
	}
	err = rows.Err()

	return
}
