package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jbmohler/lmsmono/internal/common"
)

// BalanceRow is a per-account aggregate balance as read from the ledger.
// Balance is raw signed (debits positive), before normal-sign
// presentation.
type BalanceRow struct {
	AccountID        string
	AccountName      string
	TypeID           string
	TypeName         string
	BalanceSheet     bool
	Debit            bool
	RetainedEarnings bool
	Sort             int
	Balance          decimal.Decimal
}

// MovementRow is the net signed activity of one account within one
// calendar month.
type MovementRow struct {
	AccountID   string
	AccountName string
	TypeID      string
	TypeName    string
	Debit       bool
	Sort        int
	Month       time.Time
	Net         decimal.Decimal
}

// PLTransactionRow is one split against a profit and loss account within
// a report range.
type PLTransactionRow struct {
	AccountID   string
	AccountName string
	TypeID      string
	TypeName    string
	Debit       bool
	Sort        int
	TID         string
	TranDate    time.Time
	TranRef     string
	Payee       string
	Memo        string
	Sum         decimal.Decimal
}

// LedgerLine is one split of an account's register, ordered by date.
type LedgerLine struct {
	SID      string
	TID      string
	TranDate time.Time
	TranRef  string
	Payee    string
	Memo     string
	Sum      decimal.Decimal
}

// RecurringGroup is a payee/memo pair that repeats often enough to
// project forward as a speculative ledger line.
type RecurringGroup struct {
	Payee        string
	Memo         string
	Occurrences  int
	LastDate     time.Time
	LastSum      decimal.Decimal
	IntervalDays int
}

type (
	ReportLine struct {
		AccountID   string  `json:"account_id,omitempty"`
		AccountName string  `json:"acc_name"`
		Amount      Decimal `json:"amount"`
	}

	ReportSection struct {
		TypeID   string       `json:"type_id"`
		TypeName string       `json:"atype_name"`
		Debit    bool         `json:"debit"`
		Lines    []ReportLine `json:"lines"`
		Subtotal Decimal      `json:"subtotal"`
	}

	BalanceSheetResponse struct {
		AsOf                 string          `json:"as_of"`
		Sections             []ReportSection `json:"sections"`
		AssetsTotal          Decimal         `json:"assets_total"`
		LiabilitiesAndEquity Decimal         `json:"liabilities_equity_total"`
	}

	ProfitLossResponse struct {
		DateFrom     string          `json:"d1"`
		DateTo       string          `json:"d2"`
		Sections     []ReportSection `json:"sections"`
		IncomeTotal  Decimal         `json:"income_total"`
		ExpenseTotal Decimal         `json:"expense_total"`
		NetIncome    Decimal         `json:"net_income"`
	}

	ReportTransactionLine struct {
		AccountID   string  `json:"account_id"`
		AccountName string  `json:"acc_name"`
		TypeName    string  `json:"atype_name"`
		TID         string  `json:"tid"`
		TranDate    string  `json:"trandate"`
		TranRef     string  `json:"tranref,omitempty"`
		Payee       string  `json:"payee,omitempty"`
		Memo        string  `json:"memo,omitempty"`
		Amount      Decimal `json:"amount"`
	}

	ProfitLossTransactionsResponse struct {
		DateFrom string                  `json:"d1"`
		DateTo   string                  `json:"d2"`
		Lines    []ReportTransactionLine `json:"lines"`
	}

	MultiPeriodRow struct {
		AccountID   string    `json:"account_id"`
		AccountName string    `json:"acc_name"`
		TypeName    string    `json:"atype_name"`
		Balances    []Decimal `json:"balances"`
	}

	MultiPeriodBalanceSheetResponse struct {
		PeriodEnds []string         `json:"period_ends"`
		Rows       []MultiPeriodRow `json:"rows"`
	}

	RunningBalanceLine struct {
		SID           string  `json:"sid,omitempty"`
		TID           string  `json:"tid,omitempty"`
		TranDate      string  `json:"trandate"`
		TranRef       string  `json:"tranref,omitempty"`
		Payee         string  `json:"payee,omitempty"`
		Memo          string  `json:"memo,omitempty"`
		Amount        Decimal `json:"amount"`
		Balance       Decimal `json:"balance"`
		IsSpeculative bool    `json:"is_speculative"`
	}

	LedgerLineResponse struct {
		SID      string   `json:"sid"`
		TID      string   `json:"tid"`
		TranDate string   `json:"trandate"`
		TranRef  string   `json:"tranref,omitempty"`
		Payee    string   `json:"payee,omitempty"`
		Memo     string   `json:"memo,omitempty"`
		Debit    *Decimal `json:"debit,omitempty"`
		Credit   *Decimal `json:"credit,omitempty"`
	}

	AccountRunningBalanceResponse struct {
		Account        AccountResponse      `json:"account"`
		DateFrom       string               `json:"d"`
		OpeningBalance Decimal              `json:"opening_balance"`
		Lines          []RunningBalanceLine `json:"lines"`
	}
)

func (l LedgerLine) ToResponse() LedgerLineResponse {
	debit, credit := DebitCredit(l.Sum)
	return LedgerLineResponse{
		SID:      l.SID,
		TID:      l.TID,
		TranDate: l.TranDate.Format(common.DateFormatYYYYMMDD),
		TranRef:  l.TranRef,
		Payee:    l.Payee,
		Memo:     l.Memo,
		Debit:    debit,
		Credit:   credit,
	}
}
