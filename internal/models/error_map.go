package models

import "errors"

// Error keys. Services look errors up by key so the HTTP layer can render
// a stable code alongside the message.
const (
	ErrKeyDataNotFound            = "DataNotFound"
	ErrKeyDatabaseError           = "DatabaseError"
	ErrKeyTransactionNotFound     = "TransactionNotFound"
	ErrKeyAccountNotFound         = "AccountNotFound"
	ErrKeySplitNotFound           = "SplitNotFound"
	ErrKeyTooFewSplits            = "TooFewSplits"
	ErrKeyUnbalancedTransaction   = "UnbalancedTransaction"
	ErrKeyDebitCreditExclusive    = "DebitCreditExclusive"
	ErrKeyZeroAmount              = "ZeroAmount"
	ErrKeySplitAlreadyCleared     = "SplitAlreadyCleared"
	ErrKeyStatementBalanceDrift   = "StatementBalanceDrift"
	ErrKeyNothingPending          = "NothingPending"
	ErrKeyInvalidDate             = "InvalidDate"
	ErrKeyInvalidReportRange      = "InvalidReportRange"
	ErrKeyInvalidPeriodCount      = "InvalidPeriodCount"
	ErrKeyAccountNotBalanceSheet  = "AccountNotBalanceSheet"
	ErrKeyRetainedEarningsMissing = "RetainedEarningsMissing"
)

const (
	errCodeNotFound    = "LMS-404"
	errCodeConflict    = "LMS-409"
	errCodeBadRequest  = "LMS-400"
	errCodeComputation = "LMS-422"
	errCodeInternal    = "LMS-500"
)

var (
	errDataNotFound            = errors.New("data not found")
	errDatabase                = errors.New("database error")
	errTransactionNotFound     = errors.New("transaction not found")
	errAccountNotFound         = errors.New("account not found")
	errSplitNotFound           = errors.New("split not found for this account")
	errTooFewSplits            = errors.New("transaction must have at least two splits")
	errUnbalancedTransaction   = errors.New("transaction splits do not balance")
	errDebitCreditExclusive    = errors.New("split must set exactly one of debit or credit")
	errZeroAmount              = errors.New("split amount must be greater than zero")
	errSplitAlreadyCleared     = errors.New("split is already reconciled")
	errStatementBalanceDrift   = errors.New("pending balance no longer matches statement balance")
	errNothingPending          = errors.New("no pending splits to finalize")
	errInvalidDate             = errors.New("invalid date, expected YYYY-MM-DD")
	errInvalidReportRange      = errors.New("report range is invalid")
	errInvalidPeriodCount      = errors.New("periods must be between 1 and 60")
	errAccountNotBalanceSheet  = errors.New("running balance requires a balance sheet account")
	errRetainedEarningsMissing = errors.New("no account type is flagged for retained earnings")
)

var MapErrors = MapErrs{
	ErrKeyDataNotFound:            {Code: errCodeNotFound, ErrorMessage: errDataNotFound},
	ErrKeyDatabaseError:           {Code: errCodeInternal, ErrorMessage: errDatabase},
	ErrKeyTransactionNotFound:     {Code: errCodeNotFound, ErrorMessage: errTransactionNotFound},
	ErrKeyAccountNotFound:         {Code: errCodeNotFound, ErrorMessage: errAccountNotFound},
	ErrKeySplitNotFound:           {Code: errCodeNotFound, ErrorMessage: errSplitNotFound},
	ErrKeyTooFewSplits:            {Code: errCodeBadRequest, ErrorMessage: errTooFewSplits},
	ErrKeyUnbalancedTransaction:   {Code: errCodeBadRequest, ErrorMessage: errUnbalancedTransaction},
	ErrKeyDebitCreditExclusive:    {Code: errCodeBadRequest, ErrorMessage: errDebitCreditExclusive},
	ErrKeyZeroAmount:              {Code: errCodeBadRequest, ErrorMessage: errZeroAmount},
	ErrKeySplitAlreadyCleared:     {Code: errCodeConflict, ErrorMessage: errSplitAlreadyCleared},
	ErrKeyStatementBalanceDrift:   {Code: errCodeConflict, ErrorMessage: errStatementBalanceDrift},
	ErrKeyNothingPending:          {Code: errCodeConflict, ErrorMessage: errNothingPending},
	ErrKeyInvalidDate:             {Code: errCodeBadRequest, ErrorMessage: errInvalidDate},
	ErrKeyInvalidReportRange:      {Code: errCodeBadRequest, ErrorMessage: errInvalidReportRange},
	ErrKeyInvalidPeriodCount:      {Code: errCodeBadRequest, ErrorMessage: errInvalidPeriodCount},
	ErrKeyAccountNotBalanceSheet:  {Code: errCodeComputation, ErrorMessage: errAccountNotBalanceSheet},
	ErrKeyRetainedEarningsMissing: {Code: errCodeComputation, ErrorMessage: errRetainedEarningsMissing},
}
