package cmd

import (
	"context"
	"database/sql"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jbmohler/lmsmono/cmd/setup"
	"github.com/jbmohler/lmsmono/internal/common/log"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed application to prepare the ledger database",
	Long:  ``,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(schemaCmd)
	rootCmd.AddCommand(referenceCmd)
	rootCmd.AddCommand(demoCmd)
}

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Create the ledger schema and tables",
	Long:  ``,
	Run:   runSchema,
}

var referenceCmd = &cobra.Command{
	Use:   "reference",
	Short: "Insert the standard account types, journals and starter accounts",
	Long:  ``,
	Run:   runReference,
}

var schemaStatements = []string{
	`CREATE SCHEMA IF NOT EXISTS hacc`,
	`CREATE TABLE IF NOT EXISTS hacc.accounttypes (
		id uuid PRIMARY KEY,
		atype_name text NOT NULL UNIQUE,
		description text,
		balance_sheet boolean NOT NULL DEFAULT false,
		debit boolean NOT NULL DEFAULT false,
		retained_earnings boolean NOT NULL DEFAULT false,
		sort integer NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS hacc.journals (
		id uuid PRIMARY KEY,
		jrn_name text NOT NULL UNIQUE,
		description text
	)`,
	`CREATE TABLE IF NOT EXISTS hacc.accounts (
		id uuid PRIMARY KEY,
		acc_name text NOT NULL,
		description text,
		type_id uuid NOT NULL REFERENCES hacc.accounttypes (id),
		journal_id uuid NOT NULL REFERENCES hacc.journals (id),
		rec_note text
	)`,
	`CREATE TABLE IF NOT EXISTS hacc.transactions (
		tid uuid PRIMARY KEY,
		trandate date NOT NULL,
		tranref text,
		payee text,
		memo text
	)`,
	`CREATE TABLE IF NOT EXISTS hacc.splits (
		sid uuid PRIMARY KEY,
		stid uuid NOT NULL REFERENCES hacc.transactions (tid),
		account_id uuid NOT NULL REFERENCES hacc.accounts (id),
		sum numeric(16,2) NOT NULL,
		is_pending boolean NOT NULL DEFAULT false,
		reconciled_at timestamptz
	)`,
	`CREATE INDEX IF NOT EXISTS splits_stid_idx ON hacc.splits (stid)`,
	`CREATE INDEX IF NOT EXISTS splits_account_id_idx ON hacc.splits (account_id)`,
	`CREATE INDEX IF NOT EXISTS transactions_trandate_idx ON hacc.transactions (trandate)`,
}

func runSchema(ccmd *cobra.Command, args []string) {
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

	for _, stmt := range schemaStatements {
		if _, err := s.WriteDB.ExecContext(ctx, stmt); err != nil {
			log.Fatalf(ctx, "failed to apply schema statement: %v", err)
		}
	}

	log.Info(ctx, "ledger schema ready")
}

type accountTypeSeed struct {
	name             string
	balanceSheet     bool
	debit            bool
	retainedEarnings bool
	sort             int
}

var accountTypeSeeds = []accountTypeSeed{
	{name: "Asset", balanceSheet: true, debit: true, sort: 10},
	{name: "Liability", balanceSheet: true, sort: 20},
	{name: "Equity", balanceSheet: true, retainedEarnings: true, sort: 30},
	{name: "Income", sort: 40},
	{name: "Expense", debit: true, sort: 50},
}

type accountSeed struct {
	name     string
	typeName string
}

var accountSeeds = []accountSeed{
	{name: "Checking", typeName: "Asset"},
	{name: "Savings", typeName: "Asset"},
	{name: "Credit Card", typeName: "Liability"},
	{name: "Opening Balances", typeName: "Equity"},
	{name: "Salary", typeName: "Income"},
	{name: "Groceries", typeName: "Expense"},
	{name: "Utilities", typeName: "Expense"},
}

func runReference(ccmd *cobra.Command, args []string) {
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

	if err := seedReference(ctx, s.WriteDB); err != nil {
		log.Fatalf(ctx, "failed to seed reference data: %v", err)
	}

	log.Info(ctx, "reference data seeded")
}

func seedReference(ctx context.Context, db *sql.DB) error {
	typeIDs := make(map[string]string, len(accountTypeSeeds))
	for _, at := range accountTypeSeeds {
		id := uuid.NewString()
		err := db.QueryRowContext(ctx, `INSERT INTO hacc.accounttypes
				(id, atype_name, balance_sheet, debit, retained_earnings, sort)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (atype_name) DO UPDATE SET sort = EXCLUDED.sort
			RETURNING id`,
			id, at.name, at.balanceSheet, at.debit, at.retainedEarnings, at.sort,
		).Scan(&id)
		if err != nil {
			return err
		}
		typeIDs[at.name] = id
	}

	journalID := uuid.NewString()
	err := db.QueryRowContext(ctx, `INSERT INTO hacc.journals (id, jrn_name, description)
		VALUES ($1, 'General', 'Day to day household activity')
		ON CONFLICT (jrn_name) DO UPDATE SET description = EXCLUDED.description
		RETURNING id`,
		journalID,
	).Scan(&journalID)
	if err != nil {
		return err
	}

	for _, acc := range accountSeeds {
		var exists int
		err := db.QueryRowContext(ctx,
			`SELECT COUNT(1) FROM hacc.accounts WHERE acc_name = $1`, acc.name,
		).Scan(&exists)
		if err != nil {
			return err
		}
		if exists > 0 {
			continue
		}

		_, err = db.ExecContext(ctx, `INSERT INTO hacc.accounts
				(id, acc_name, type_id, journal_id)
			VALUES ($1, $2, $3, $4)`,
			uuid.NewString(), acc.name, typeIDs[acc.typeName], journalID,
		)
		if err != nil {
			return err
		}
	}

	return nil
}
