package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jbmohler/lmsmono/internal/common"
	"github.com/jbmohler/lmsmono/internal/common/cache"
	"github.com/jbmohler/lmsmono/internal/common/log"
	"github.com/jbmohler/lmsmono/internal/models"
	"github.com/jbmohler/lmsmono/internal/monitoring"
)

type ReferenceService interface {
	GetAccount(ctx context.Context, id string) (output *models.Account, err error)
	ListAccounts(ctx context.Context) (output []models.Account, err error)
	ListAccountTypes(ctx context.Context) (output []models.AccountType, err error)
	ListJournals(ctx context.Context) (output []models.Journal, err error)
	AccountTransactions(ctx context.Context, accountID string, limit, offset int) (output []models.LedgerLine, err error)
}

type reference service

var _ ReferenceService = (*reference)(nil)

const (
	cacheKeyAccountTypes    = "lmsmono:reference:account-types"
	cacheKeyAccountTemplate = "lmsmono:reference:account:%s"
)

// GetAccount implements ReferenceService. Accounts sit behind Redis with
// a short TTL, a cache miss or a broken payload falls through to the
// database.
func (s *reference) GetAccount(ctx context.Context, id string) (output *models.Account, err error) {
	monitor := monitoring.New(ctx)
	defer monitor.Finish(monitoring.WithFinishCheckError(err))

	key := fmt.Sprintf(cacheKeyAccountTemplate, id)

	if cached, cacheErr := s.srv.cacheRepo.Get(ctx, key); cacheErr == nil {
		var account models.Account
		if jsonErr := json.Unmarshal([]byte(cached), &account); jsonErr == nil {
			output = &account
			return
		}
	} else if !errors.Is(cacheErr, common.ErrDataNotFound) {
		log.Warn(ctx, "[CACHE.ACCOUNT.GET] falling back to database")
	}

	account, err := s.srv.sqlRepo.GetReferenceRepository().GetAccount(ctx, id)
	if err != nil {
		err = checkDatabaseError(err, models.ErrKeyAccountNotFound)
		return
	}

	if payload, jsonErr := json.Marshal(account); jsonErr == nil {
		if cacheErr := s.srv.cacheRepo.Set(ctx, key, string(payload), s.srv.conf.Report.ReferenceCacheTTL); cacheErr != nil {
			log.Warn(ctx, "[CACHE.ACCOUNT.SET] account not cached")
		}
	}

	output = &account

	return
}

// ListAccounts implements ReferenceService.
func (s *reference) ListAccounts(ctx context.Context) (output []models.Account, err error) {
	monitor := monitoring.New(ctx)
	defer monitor.Finish(monitoring.WithFinishCheckError(err))

	output, err = s.srv.sqlRepo.GetReferenceRepository().ListAccounts(ctx)
	if err != nil {
		err = checkDatabaseError(err)
		return
	}

	return
}

// ListAccountTypes implements ReferenceService.
func (s *reference) ListAccountTypes(ctx context.Context) (output []models.AccountType, err error) {
	monitor := monitoring.New(ctx)
	defer monitor.Finish(monitoring.WithFinishCheckError(err))

	output, err = s.srv.cacheAccountTypes.GetOrSet(ctx, cache.GetOrSetOpts[[]models.AccountType]{
		Key: cacheKeyAccountTypes,
		TTL: s.srv.conf.Report.ReferenceCacheTTL,
		Callback: func() ([]models.AccountType, error) {
			return s.srv.sqlRepo.GetReferenceRepository().ListAccountTypes(ctx)
		},
	})
	if err != nil {
		err = checkDatabaseError(err)
		return
	}

	return
}

// ListJournals implements ReferenceService.
func (s *reference) ListJournals(ctx context.Context) (output []models.Journal, err error) {
	monitor := monitoring.New(ctx)
	defer monitor.Finish(monitoring.WithFinishCheckError(err))

	output, err = s.srv.sqlRepo.GetReferenceRepository().ListJournals(ctx)
	if err != nil {
		err = checkDatabaseError(err)
		return
	}

	return
}

// AccountTransactions implements ReferenceService.
func (s *reference) AccountTransactions(ctx context.Context, accountID string, limit, offset int) (output []models.LedgerLine, err error) {
	monitor := monitoring.New(ctx)
	defer monitor.Finish(monitoring.WithFinishCheckError(err))

	if _, err = s.GetAccount(ctx, accountID); err != nil {
		return
	}

	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	output, err = s.srv.sqlRepo.GetReferenceRepository().AccountLedgerPage(ctx, accountID, limit, offset)
	if err != nil {
		err = checkDatabaseError(err)
		return
	}

	return
}
