package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/jbmohler/lmsmono/internal/common"
	"github.com/jbmohler/lmsmono/internal/models"
	"github.com/jbmohler/lmsmono/internal/monitoring"
	"github.com/jbmohler/lmsmono/internal/repositories"
)

type TransactionService interface {
	Create(ctx context.Context, req models.CreateTransactionRequest) (output *models.Transaction, err error)
	Update(ctx context.Context, tid string, req models.UpdateTransactionRequest) (output *models.Transaction, err error)
	Delete(ctx context.Context, tid string) (err error)
	GetByID(ctx context.Context, tid string) (output *models.Transaction, err error)
	List(ctx context.Context, opts models.ListTransactionsFilter) (output []models.Transaction, total int, err error)
}

type transaction service

var _ TransactionService = (*transaction)(nil)

const (
	defaultListLimit = 50
	maxListLimit     = 500
)

// Create implements TransactionService.
func (s *transaction) Create(ctx context.Context, req models.CreateTransactionRequest) (output *models.Transaction, err error) {
	monitor := monitoring.New(ctx)
	defer monitor.Finish(monitoring.WithFinishCheckError(err))

	trx, err := req.ToTransaction(s.srv.conf.Ledger.MinSplits)
	if err != nil {
		return
	}

	if err = s.checkAccounts(ctx, trx.AccountIDs()); err != nil {
		return
	}

	trx.TID = uuid.NewString()
	for i := range trx.Splits {
		trx.Splits[i].SID = uuid.NewString()
		trx.Splits[i].STID = trx.TID
	}

	err = s.srv.sqlRepo.Atomic(ctx, func(ctx context.Context, r repositories.SQLRepository) error {
		return r.GetTransactionRepository().Store(ctx, &trx)
	})
	if err != nil {
		err = checkDatabaseError(err)
		return
	}

	s.srv.ledgerMetrics().RecordTransactionOp("create")

	return s.GetByID(ctx, trx.TID)
}

// Update implements TransactionService. Header fields patch individually,
// a supplied split set replaces the existing one wholesale.
func (s *transaction) Update(ctx context.Context, tid string, req models.UpdateTransactionRequest) (output *models.Transaction, err error) {
	monitor := monitoring.New(ctx)
	defer monitor.Finish(monitoring.WithFinishCheckError(err))

	changes, err := req.HeaderChanges()
	if err != nil {
		return
	}

	splits, err := req.ReplacementSplits(s.srv.conf.Ledger.MinSplits)
	if err != nil {
		return
	}

	if len(changes) == 0 && splits == nil {
		return s.GetByID(ctx, tid)
	}

	if splits != nil {
		accountIDs := make([]string, 0, len(splits))
		for _, split := range splits {
			accountIDs = append(accountIDs, split.AccountID)
		}
		if err = s.checkAccounts(ctx, accountIDs); err != nil {
			return
		}

		for i := range splits {
			splits[i].SID = uuid.NewString()
			splits[i].STID = tid
		}
	}

	err = s.srv.sqlRepo.Atomic(ctx, func(ctx context.Context, r repositories.SQLRepository) error {
		tr := r.GetTransactionRepository()

		// existence check doubles as a row lock on the header
		if _, inErr := tr.GetByID(ctx, tid); inErr != nil {
			return inErr
		}

		if len(changes) > 0 {
			if inErr := tr.UpdateHeader(ctx, tid, changes); inErr != nil {
				return inErr
			}
		}

		if splits != nil {
			if inErr := tr.DeleteSplits(ctx, tid); inErr != nil {
				return inErr
			}
			if inErr := tr.StoreSplits(ctx, tid, splits); inErr != nil {
				return inErr
			}
		}

		return nil
	})
	if err != nil {
		err = checkDatabaseError(err, models.ErrKeyTransactionNotFound)
		return
	}

	s.srv.ledgerMetrics().RecordTransactionOp("update")

	return s.GetByID(ctx, tid)
}

// Delete implements TransactionService. Splits go first to satisfy the
// foreign key, both inside one transaction.
func (s *transaction) Delete(ctx context.Context, tid string) (err error) {
	monitor := monitoring.New(ctx)
	defer monitor.Finish(monitoring.WithFinishCheckError(err))

	err = s.srv.sqlRepo.Atomic(ctx, func(ctx context.Context, r repositories.SQLRepository) error {
		tr := r.GetTransactionRepository()

		if inErr := tr.DeleteSplits(ctx, tid); inErr != nil {
			return inErr
		}

		return tr.Delete(ctx, tid)
	})
	if err != nil {
		if errors.Is(err, common.ErrNoRowsAffected) {
			err = models.GetErrMap(models.ErrKeyTransactionNotFound)
			return
		}
		err = checkDatabaseError(err, models.ErrKeyTransactionNotFound)
		return
	}

	s.srv.ledgerMetrics().RecordTransactionOp("delete")

	return
}

// GetByID implements TransactionService.
func (s *transaction) GetByID(ctx context.Context, tid string) (output *models.Transaction, err error) {
	monitor := monitoring.New(ctx)
	defer monitor.Finish(monitoring.WithFinishCheckError(err))

	output, err = s.srv.sqlRepo.GetTransactionRepository().GetByID(ctx, tid)
	if err != nil {
		err = checkDatabaseError(err, models.ErrKeyTransactionNotFound)
		return
	}

	return
}

// List implements TransactionService.
func (s *transaction) List(ctx context.Context, opts models.ListTransactionsFilter) (output []models.Transaction, total int, err error) {
	monitor := monitoring.New(ctx)
	defer monitor.Finish(monitoring.WithFinishCheckError(err))

	if opts.Limit <= 0 {
		opts.Limit = defaultListLimit
	}
	if opts.Limit > maxListLimit {
		opts.Limit = maxListLimit
	}
	opts.Query = strings.TrimSpace(opts.Query)

	total, err = s.srv.sqlRepo.GetTransactionRepository().CountAll(ctx, opts)
	if err != nil {
		err = checkDatabaseError(err)
		return
	}

	output, err = s.srv.sqlRepo.GetTransactionRepository().GetList(ctx, opts)
	if err != nil {
		err = checkDatabaseError(err)
		return
	}

	return
}

func (s *transaction) checkAccounts(ctx context.Context, accountIDs []string) error {
	missing, err := s.srv.sqlRepo.GetTransactionRepository().MissingAccounts(ctx, accountIDs)
	if err != nil {
		return checkDatabaseError(err)
	}
	if len(missing) > 0 {
		return models.GetErrMap(models.ErrKeyAccountNotFound, strings.Join(missing, ", "))
	}

	return nil
}
