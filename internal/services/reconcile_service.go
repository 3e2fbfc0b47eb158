package services

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jbmohler/lmsmono/internal/common"
	"github.com/jbmohler/lmsmono/internal/models"
	"github.com/jbmohler/lmsmono/internal/monitoring"
	"github.com/jbmohler/lmsmono/internal/repositories"
)

type ReconcileService interface {
	Session(ctx context.Context, accountID string) (output *models.ReconcileSession, err error)
	Toggle(ctx context.Context, accountID, splitID string) (output *models.ToggleSplitResponse, err error)
	Finalize(ctx context.Context, accountID string, statementBalance decimal.Decimal) (output *models.FinalizeReconcileResponse, err error)
}

type reconcile service

var _ ReconcileService = (*reconcile)(nil)

// Session implements ReconcileService.
func (s *reconcile) Session(ctx context.Context, accountID string) (output *models.ReconcileSession, err error) {
	monitor := monitoring.New(ctx)
	defer monitor.Finish(monitoring.WithFinishCheckError(err))

	account, err := s.srv.sqlRepo.GetReferenceRepository().GetAccount(ctx, accountID)
	if err != nil {
		err = checkDatabaseError(err, models.ErrKeyAccountNotFound)
		return
	}

	rcr := s.srv.sqlRepo.GetReconcileRepository()

	reconciled, err := rcr.ReconciledTotal(ctx, accountID)
	if err != nil {
		err = checkDatabaseError(err)
		return
	}

	pending, err := rcr.PendingTotal(ctx, accountID)
	if err != nil {
		err = checkDatabaseError(err)
		return
	}

	rows, err := rcr.SessionRows(ctx, accountID)
	if err != nil {
		err = checkDatabaseError(err)
		return
	}

	output = &models.ReconcileSession{
		Account:         account,
		ReconciledTotal: reconciled,
		PendingTotal:    pending,
		Rows:            rows,
	}

	return
}

// Toggle implements ReconcileService.
func (s *reconcile) Toggle(ctx context.Context, accountID, splitID string) (output *models.ToggleSplitResponse, err error) {
	monitor := monitoring.New(ctx)
	defer monitor.Finish(monitoring.WithFinishCheckError(err))

	isPending, err := s.srv.sqlRepo.GetReconcileRepository().Toggle(ctx, accountID, splitID)
	if err != nil {
		if errors.Is(err, common.ErrSplitAlreadyCleared) {
			err = models.GetErrMap(models.ErrKeySplitAlreadyCleared)
			return
		}
		err = checkDatabaseError(err, models.ErrKeySplitNotFound)
		return
	}

	output = &models.ToggleSplitResponse{
		SID:       splitID,
		IsPending: isPending,
	}

	return
}

// Finalize implements ReconcileService. The statement balance is checked
// against the would-be cleared balance inside the same transaction that
// stamps the pending splits, so a split toggled between the client's last
// refresh and this call still gets caught.
func (s *reconcile) Finalize(ctx context.Context, accountID string, statementBalance decimal.Decimal) (output *models.FinalizeReconcileResponse, err error) {
	monitor := monitoring.New(ctx)
	defer monitor.Finish(monitoring.WithFinishCheckError(err))

	if _, err = s.srv.sqlRepo.GetReferenceRepository().GetAccount(ctx, accountID); err != nil {
		err = checkDatabaseError(err, models.ErrKeyAccountNotFound)
		return
	}

	reconciledAt := time.Now().UTC()

	var cleared int64
	err = s.srv.sqlRepo.Atomic(ctx, func(ctx context.Context, r repositories.SQLRepository) error {
		rcr := r.GetReconcileRepository()

		reconciled, inErr := rcr.ReconciledTotal(ctx, accountID)
		if inErr != nil {
			return inErr
		}

		pending, inErr := rcr.PendingTotal(ctx, accountID)
		if inErr != nil {
			return inErr
		}

		clearedBalance := reconciled.Add(pending)
		drift := clearedBalance.Sub(statementBalance).Abs()
		if drift.Cmp(common.BalanceTolerance) >= 0 {
			s.srv.ledgerMetrics().RecordStatementDrift()
			return models.GetErrMap(models.ErrKeyStatementBalanceDrift, drift.String())
		}

		cleared, inErr = rcr.StampPending(ctx, accountID, reconciledAt)
		if inErr != nil {
			return inErr
		}
		if cleared == 0 {
			return models.GetErrMap(models.ErrKeyNothingPending)
		}

		return nil
	})
	if err != nil {
		var detail models.ErrorDetail
		if !errors.As(err, &detail) {
			err = checkDatabaseError(err)
		}
		return
	}

	s.srv.ledgerMetrics().RecordSplitsCleared(int(cleared))

	output = &models.FinalizeReconcileResponse{
		AccountID:     accountID,
		ClearedSplits: int(cleared),
		ReconciledAt:  reconciledAt,
	}

	return
}
