package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jbmohler/lmsmono/internal/common"
)

// Split is one leg of a transaction. Sum is signed: debits positive,
// credits negative. A split belongs to exactly one account and one
// transaction.
type Split struct {
	SID          string
	STID         string
	AccountID    string
	Sum          decimal.Decimal
	IsPending    bool
	ReconciledAt *time.Time

	// joined for presentation
	AccountName string
}

type Transaction struct {
	TID      string
	TranDate time.Time
	TranRef  string
	Payee    string
	Memo     string
	Splits   []Split
}

// Imbalance is the sum of all signed split amounts. Zero for a balanced
// transaction.
func (t Transaction) Imbalance() decimal.Decimal {
	total := decimal.Zero
	for _, s := range t.Splits {
		total = total.Add(s.Sum)
	}
	return total
}

func (t Transaction) Balanced() bool {
	return t.Imbalance().Abs().LessThan(common.BalanceTolerance)
}

// AccountIDs returns the distinct account ids referenced by the splits.
func (t Transaction) AccountIDs() []string {
	seen := make(map[string]struct{}, len(t.Splits))
	var ids []string
	for _, s := range t.Splits {
		if _, ok := seen[s.AccountID]; ok {
			continue
		}
		seen[s.AccountID] = struct{}{}
		ids = append(ids, s.AccountID)
	}
	return ids
}

type (
	// SplitRequest carries one leg of a transaction as the API exposes it:
	// an unsigned debit or credit amount, never a signed sum.
	SplitRequest struct {
		AccountID string   `json:"account_id" validate:"required,uuid4"`
		Debit     *Decimal `json:"debit,omitempty"`
		Credit    *Decimal `json:"credit,omitempty"`
	}

	CreateTransactionRequest struct {
		TranDate string         `json:"trandate" validate:"required,date"`
		TranRef  string         `json:"tranref" validate:"omitempty,noStartEndSpaces"`
		Payee    string         `json:"payee" validate:"omitempty,noStartEndSpaces"`
		Memo     string         `json:"memo"`
		Splits   []SplitRequest `json:"splits" validate:"required,dive"`
	}

	// UpdateTransactionRequest patches header fields independently; nil
	// means leave as is. A non-nil Splits slice replaces the transaction's
	// splits wholesale.
	UpdateTransactionRequest struct {
		TranDate *string        `json:"trandate,omitempty" validate:"omitempty,date"`
		TranRef  *string        `json:"tranref,omitempty"`
		Payee    *string        `json:"payee,omitempty" validate:"omitempty,noStartEndSpaces"`
		Memo     *string        `json:"memo,omitempty"`
		Splits   []SplitRequest `json:"splits,omitempty" validate:"omitempty,dive"`
	}
)

// SignedSum converts the debit/credit pair into a signed amount. Exactly
// one side must be set and it must be positive.
func (r SplitRequest) SignedSum() (decimal.Decimal, error) {
	if (r.Debit == nil) == (r.Credit == nil) {
		return decimal.Zero, GetErrMap(ErrKeyDebitCreditExclusive)
	}

	if r.Debit != nil {
		if !r.Debit.IsPositive() {
			return decimal.Zero, GetErrMap(ErrKeyZeroAmount)
		}
		return r.Debit.Decimal, nil
	}

	if !r.Credit.IsPositive() {
		return decimal.Zero, GetErrMap(ErrKeyZeroAmount)
	}
	return r.Credit.Decimal.Neg(), nil
}

func toSplits(reqs []SplitRequest) ([]Split, error) {
	splits := make([]Split, 0, len(reqs))
	for _, sr := range reqs {
		sum, err := sr.SignedSum()
		if err != nil {
			return nil, err
		}
		splits = append(splits, Split{
			AccountID: sr.AccountID,
			Sum:       sum,
		})
	}
	return splits, nil
}

// ToTransaction validates the request body into a domain transaction.
// IDs are left empty for the service to assign.
func (r CreateTransactionRequest) ToTransaction(minSplits int) (Transaction, error) {
	if len(r.Splits) < minSplits {
		return Transaction{}, GetErrMap(ErrKeyTooFewSplits)
	}

	tranDate, err := time.Parse(common.DateFormatYYYYMMDD, r.TranDate)
	if err != nil {
		return Transaction{}, GetErrMap(ErrKeyInvalidDate, r.TranDate)
	}

	splits, err := toSplits(r.Splits)
	if err != nil {
		return Transaction{}, err
	}

	trx := Transaction{
		TranDate: tranDate,
		TranRef:  r.TranRef,
		Payee:    r.Payee,
		Memo:     r.Memo,
		Splits:   splits,
	}

	if !trx.Balanced() {
		return Transaction{}, GetErrMap(ErrKeyUnbalancedTransaction, trx.Imbalance().String())
	}

	return trx, nil
}

// HeaderChanges returns the patched header columns keyed by column name,
// ready for a dynamic UPDATE. An empty map means no header change.
func (r UpdateTransactionRequest) HeaderChanges() (map[string]interface{}, error) {
	changes := make(map[string]interface{})

	if r.TranDate != nil {
		tranDate, err := time.Parse(common.DateFormatYYYYMMDD, *r.TranDate)
		if err != nil {
			return nil, GetErrMap(ErrKeyInvalidDate, *r.TranDate)
		}
		changes["trandate"] = tranDate
	}
	if r.TranRef != nil {
		changes["tranref"] = *r.TranRef
	}
	if r.Payee != nil {
		changes["payee"] = *r.Payee
	}
	if r.Memo != nil {
		changes["memo"] = *r.Memo
	}

	return changes, nil
}

// ReplacementSplits validates the optional split replacement set. A nil
// return with nil error means the request does not touch splits.
func (r UpdateTransactionRequest) ReplacementSplits(minSplits int) ([]Split, error) {
	if r.Splits == nil {
		return nil, nil
	}
	if len(r.Splits) < minSplits {
		return nil, GetErrMap(ErrKeyTooFewSplits)
	}

	splits, err := toSplits(r.Splits)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	for _, s := range splits {
		total = total.Add(s.Sum)
	}
	if !total.Abs().LessThan(common.BalanceTolerance) {
		return nil, GetErrMap(ErrKeyUnbalancedTransaction, total.String())
	}

	return splits, nil
}

type ListTransactionsFilter struct {
	Query     string
	AccountID string
	DateFrom  *time.Time
	DateTo    *time.Time
	Limit     int
	Offset    int
}

type (
	SplitResponse struct {
		SID          string     `json:"sid"`
		AccountID    string     `json:"account_id"`
		AccountName  string     `json:"acc_name,omitempty"`
		Debit        *Decimal   `json:"debit,omitempty"`
		Credit       *Decimal   `json:"credit,omitempty"`
		IsPending    bool       `json:"is_pending"`
		ReconciledAt *time.Time `json:"reconciled_at,omitempty"`
	}

	TransactionResponse struct {
		TID      string          `json:"tid"`
		TranDate string          `json:"trandate"`
		TranRef  string          `json:"tranref,omitempty"`
		Payee    string          `json:"payee,omitempty"`
		Memo     string          `json:"memo,omitempty"`
		Splits   []SplitResponse `json:"splits"`
	}
)

// DebitCredit splits a signed sum into the unsigned debit/credit pair the
// API presents.
func DebitCredit(sum decimal.Decimal) (debit, credit *Decimal) {
	if sum.IsNegative() {
		c := NewDecimalFromExternal(sum.Neg())
		return nil, &c
	}
	d := NewDecimalFromExternal(sum)
	return &d, nil
}

func (s Split) ToResponse() SplitResponse {
	debit, credit := DebitCredit(s.Sum)
	return SplitResponse{
		SID:          s.SID,
		AccountID:    s.AccountID,
		AccountName:  s.AccountName,
		Debit:        debit,
		Credit:       credit,
		IsPending:    s.IsPending,
		ReconciledAt: s.ReconciledAt,
	}
}

func (t Transaction) ToResponse() TransactionResponse {
	splits := make([]SplitResponse, 0, len(t.Splits))
	for _, s := range t.Splits {
		splits = append(splits, s.ToResponse())
	}

	return TransactionResponse{
		TID:      t.TID,
		TranDate: t.TranDate.Format(common.DateFormatYYYYMMDD),
		TranRef:  t.TranRef,
		Payee:    t.Payee,
		Memo:     t.Memo,
		Splits:   splits,
	}
}
