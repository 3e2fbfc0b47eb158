package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jbmohler/lmsmono/internal/common"
)

// ReconcileRow is one unreconciled split together with its transaction
// header, as shown in a reconciliation session.
type ReconcileRow struct {
	SID       string
	TID       string
	TranDate  time.Time
	TranRef   string
	Payee     string
	Memo      string
	Sum       decimal.Decimal
	IsPending bool
}

// ReconcileSession is the working state for reconciling one account:
// everything already reconciled collapses into ReconciledTotal, the
// pending marks sum into PendingTotal.
type ReconcileSession struct {
	Account         Account
	ReconciledTotal decimal.Decimal
	PendingTotal    decimal.Decimal
	Rows            []ReconcileRow
}

// ClearedBalance is what the account balance would be if every pending
// split were finalized right now.
func (s ReconcileSession) ClearedBalance() decimal.Decimal {
	return s.ReconciledTotal.Add(s.PendingTotal)
}

type (
	FinalizeReconcileRequest struct {
		StatementBalance *Decimal `json:"statement_balance" validate:"required"`
	}

	ReconcileRowResponse struct {
		SID       string   `json:"sid"`
		TID       string   `json:"tid"`
		TranDate  string   `json:"trandate"`
		TranRef   string   `json:"tranref,omitempty"`
		Payee     string   `json:"payee,omitempty"`
		Memo      string   `json:"memo,omitempty"`
		Debit     *Decimal `json:"debit,omitempty"`
		Credit    *Decimal `json:"credit,omitempty"`
		IsPending bool     `json:"is_pending"`
	}

	ReconcileSessionResponse struct {
		Account         AccountResponse        `json:"account"`
		RecNote         string                 `json:"rec_note,omitempty"`
		ReconciledTotal Decimal                `json:"reconciled_total"`
		PendingTotal    Decimal                `json:"pending_total"`
		ClearedBalance  Decimal                `json:"cleared_balance"`
		Rows            []ReconcileRowResponse `json:"rows"`
	}

	ToggleSplitResponse struct {
		SID       string `json:"sid"`
		IsPending bool   `json:"is_pending"`
	}

	FinalizeReconcileResponse struct {
		AccountID     string    `json:"account_id"`
		ClearedSplits int       `json:"cleared_splits"`
		ReconciledAt  time.Time `json:"reconciled_at"`
	}
)

func (r ReconcileRow) ToResponse() ReconcileRowResponse {
	debit, credit := DebitCredit(r.Sum)
	return ReconcileRowResponse{
		SID:       r.SID,
		TID:       r.TID,
		TranDate:  r.TranDate.Format(common.DateFormatYYYYMMDD),
		TranRef:   r.TranRef,
		Payee:     r.Payee,
		Memo:      r.Memo,
		Debit:     debit,
		Credit:    credit,
		IsPending: r.IsPending,
	}
}

func (s ReconcileSession) ToResponse() ReconcileSessionResponse {
	rows := make([]ReconcileRowResponse, 0, len(s.Rows))
	for _, r := range s.Rows {
		rows = append(rows, r.ToResponse())
	}

	return ReconcileSessionResponse{
		Account:         s.Account.ToResponse(),
		RecNote:         s.Account.RecNote,
		ReconciledTotal: NewDecimalFromExternal(s.ReconciledTotal),
		PendingTotal:    NewDecimalFromExternal(s.PendingTotal),
		ClearedBalance:  NewDecimalFromExternal(s.ClearedBalance()),
		Rows:            rows,
	}
}
