package common

import (
	"database/sql"
	"errors"
	"fmt"
)

var (
	ErrNoRowsAffected          = errors.New("no rows affected")
	ErrValidation              = errors.New("validation failed")
	ErrDataNotFound            = errors.New("data not found")
	ErrInternalServerError     = errors.New("internal server error")
	ErrInvalidFormatDate       = errors.New("invalid format date")
	ErrIDEmpty                 = errors.New("ID is empty")
	ErrUnableToCreate          = errors.New("unable to create data")
	ErrUnableToUpdate          = errors.New("unable to update data")
	ErrTransactionNotFound     = errors.New("transaction not found")
	ErrAccountNotFound         = errors.New("account not found")
	ErrSplitNotFound           = errors.New("split not found")
	ErrTooFewSplits            = errors.New("transaction must have at least two splits")
	ErrUnbalancedTransaction   = errors.New("transaction splits do not balance")
	ErrDebitAndCreditSet       = errors.New("split must set exactly one of debit or credit")
	ErrInvalidAmount           = errors.New("amount must be greater than zero")
	ErrSplitAlreadyCleared     = errors.New("split already cleared")
	ErrStatementBalanceDrifted = errors.New("pending balance no longer matches statement balance")
	ErrNothingPending          = errors.New("no pending splits to finalize")
	ErrInvalidReportRange      = errors.New("report range is invalid")
	ErrInvalidPeriodCount      = errors.New("period count must be positive")
	ErrNoRows                  = sql.ErrNoRows
)

type WrapError struct {
	Causer interface{}
	Err    error
}

func (e WrapError) Error() string {
	return fmt.Sprintf("%v, root cause: %v", e.Causer, e.Err)
}

func (e WrapError) Unwrap() error {
	return e.Err
}
