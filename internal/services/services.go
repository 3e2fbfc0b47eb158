package services

import (
	"github.com/jbmohler/lmsmono/internal/common/cache"
	"github.com/jbmohler/lmsmono/internal/common/metrics"
	"github.com/jbmohler/lmsmono/internal/config"
	"github.com/jbmohler/lmsmono/internal/models"
	"github.com/jbmohler/lmsmono/internal/repositories"
)

type service struct {
	srv *Services
}

type Services struct {
	conf config.Config

	sqlRepo   repositories.SQLRepository
	cacheRepo repositories.CacheRepository

	cacheAccountTypes cache.Client[[]models.AccountType]

	metrics metrics.Metrics

	common service

	Transaction *transaction
	Reconcile   *reconcile
	Report      *report
	Reference   *reference
}

func New(
	conf config.Config,
	sqlRepo repositories.SQLRepository,
	cacheRepo repositories.CacheRepository,
	metrics metrics.Metrics,
) *Services {
	srv := &Services{
		conf:      conf,
		sqlRepo:   sqlRepo,
		cacheRepo: cacheRepo,
		metrics:   metrics,

		cacheAccountTypes: cache.NewInMemoryClient[[]models.AccountType](),
	}
	srv.common.srv = srv
	srv.Transaction = (*transaction)(&srv.common)
	srv.Reconcile = (*reconcile)(&srv.common)
	srv.Report = (*report)(&srv.common)
	srv.Reference = (*reference)(&srv.common)

	return srv
}

func (s *Services) ledgerMetrics() *metrics.LedgerPrometheusMetrics {
	if s.metrics == nil {
		return nil
	}
	return s.metrics.GetLedgerPrometheus()
}
