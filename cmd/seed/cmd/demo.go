package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jbmohler/lmsmono/cmd/setup"
	"github.com/jbmohler/lmsmono/internal/common/log"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Insert a balanced sample ledger against the starter accounts",
	Long:  ``,
	Run:   runDemo,
}

type demoSplit struct {
	account string
	sum     string
}

type demoTransaction struct {
	ref     string
	daysAgo int
	payee   string
	memo    string
	splits  []demoSplit
}

// Every entry balances to zero. The tranref doubles as the idempotency
// key, so rerunning the command leaves an already seeded ledger alone.
var demoTransactions = []demoTransaction{
	{ref: "demo-0001", daysAgo: 90, payee: "Opening", memo: "starting balances", splits: []demoSplit{
		{account: "Checking", sum: "1500.00"},
		{account: "Savings", sum: "4000.00"},
		{account: "Opening Balances", sum: "-5500.00"},
	}},
	{ref: "demo-0002", daysAgo: 62, payee: "Acme Corp", memo: "monthly salary", splits: []demoSplit{
		{account: "Checking", sum: "2600.00"},
		{account: "Salary", sum: "-2600.00"},
	}},
	{ref: "demo-0003", daysAgo: 55, payee: "Corner Grocer", memo: "weekly run", splits: []demoSplit{
		{account: "Groceries", sum: "126.40"},
		{account: "Credit Card", sum: "-126.40"},
	}},
	{ref: "demo-0004", daysAgo: 48, payee: "Power Co", memo: "electric bill", splits: []demoSplit{
		{account: "Utilities", sum: "95.20"},
		{account: "Checking", sum: "-95.20"},
	}},
	{ref: "demo-0005", daysAgo: 40, payee: "Card Services", memo: "statement payment", splits: []demoSplit{
		{account: "Credit Card", sum: "126.40"},
		{account: "Checking", sum: "-126.40"},
	}},
	{ref: "demo-0006", daysAgo: 32, payee: "Acme Corp", memo: "monthly salary", splits: []demoSplit{
		{account: "Checking", sum: "2600.00"},
		{account: "Salary", sum: "-2600.00"},
	}},
	{ref: "demo-0007", daysAgo: 25, payee: "Corner Grocer", memo: "weekly run", splits: []demoSplit{
		{account: "Groceries", sum: "142.75"},
		{account: "Credit Card", sum: "-142.75"},
	}},
	{ref: "demo-0008", daysAgo: 14, payee: "Transfer", memo: "move to savings", splits: []demoSplit{
		{account: "Savings", sum: "500.00"},
		{account: "Checking", sum: "-500.00"},
	}},
	{ref: "demo-0009", daysAgo: 7, payee: "Power Co", memo: "electric bill", splits: []demoSplit{
		{account: "Utilities", sum: "101.80"},
		{account: "Checking", sum: "-101.80"},
	}},
}

func runDemo(ccmd *cobra.Command, args []string) {
	ctx := context.Background()

	s, _, err := setup.Init("seed")
	if err != nil {
		log.Fatalf(ctx, "failed to setup app: %v", err)
	}

	defer func() {
		s.WriteDB.Close()
		s.ReadDB.Close()
		s.Cache.Close()
	}()

	if err := seedDemo(ctx, s.WriteDB); err != nil {
		log.Fatalf(ctx, "failed to seed sample ledger: %v", err)
	}

	log.Info(ctx, "sample ledger seeded")
}

func seedDemo(ctx context.Context, db *sql.DB) error {
	accountIDs := make(map[string]string, len(accountSeeds))
	for _, acc := range accountSeeds {
		var id string
		err := db.QueryRowContext(ctx,
			`SELECT id FROM hacc.accounts WHERE acc_name = $1`, acc.name,
		).Scan(&id)
		if err != nil {
			return fmt.Errorf("account %q is missing, run seed reference first: %w", acc.name, err)
		}
		accountIDs[acc.name] = id
	}

	for _, demo := range demoTransactions {
		var exists int
		err := db.QueryRowContext(ctx,
			`SELECT COUNT(1) FROM hacc.transactions WHERE tranref = $1`, demo.ref,
		).Scan(&exists)
		if err != nil {
			return err
		}
		if exists > 0 {
			continue
		}

		if err := insertDemoTransaction(ctx, db, accountIDs, demo); err != nil {
			return err
		}
	}

	return nil
}

func insertDemoTransaction(ctx context.Context, db *sql.DB, accountIDs map[string]string, demo demoTransaction) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	tid := uuid.NewString()
	trandate := time.Now().AddDate(0, 0, -demo.daysAgo)

	_, err = tx.ExecContext(ctx, `INSERT INTO hacc.transactions (tid, trandate, tranref, payee, memo)
		VALUES ($1, $2, $3, $4, $5)`,
		tid, trandate, demo.ref, demo.payee, demo.memo,
	)
	if err != nil {
		return err
	}

	for _, split := range demo.splits {
		_, err = tx.ExecContext(ctx, `INSERT INTO hacc.splits (sid, stid, account_id, sum, is_pending)
			VALUES ($1, $2, $3, $4, true)`,
			uuid.NewString(), tid, accountIDs[split.account], split.sum,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}
