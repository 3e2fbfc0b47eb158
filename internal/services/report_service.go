package services

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jbmohler/lmsmono/internal/common"
	"github.com/jbmohler/lmsmono/internal/common/cache"
	"github.com/jbmohler/lmsmono/internal/models"
	"github.com/jbmohler/lmsmono/internal/monitoring"
)

type ReportService interface {
	BalanceSheet(ctx context.Context, asOf time.Time) (output *models.BalanceSheetResponse, err error)
	ProfitAndLoss(ctx context.Context, dateFrom, dateTo time.Time) (output *models.ProfitLossResponse, err error)
	ProfitLossTransactions(ctx context.Context, dateFrom, dateTo time.Time) (output *models.ProfitLossTransactionsResponse, err error)
	MultiPeriodBalanceSheet(ctx context.Context, year, month, periods int) (output *models.MultiPeriodBalanceSheetResponse, err error)
	AccountRunningBalance(ctx context.Context, accountID string, dateFrom time.Time, project bool) (output *models.AccountRunningBalanceResponse, err error)
}

type report service

var _ ReportService = (*report)(nil)

const (
	maxReportPeriods         = 60
	retainedEarningsLineName = "Retained Earnings"
	minRecurrenceOccurrences = 2
)

// BalanceSheet implements ReportService. Profit and loss balances do not
// appear account by account, they roll up into a synthetic retained
// earnings line so assets still equal liabilities plus equity.
func (s *report) BalanceSheet(ctx context.Context, asOf time.Time) (output *models.BalanceSheetResponse, err error) {
	monitor := monitoring.New(ctx)
	defer monitor.Finish(monitoring.WithFinishCheckError(err))

	retained, err := s.retainedEarningsType(ctx)
	if err != nil {
		return
	}

	rows, err := s.srv.sqlRepo.GetReportRepository().BalancesAsOf(ctx, asOf)
	if err != nil {
		err = checkDatabaseError(err)
		return
	}

	sheetRows := make([]models.BalanceRow, 0, len(rows))
	retainedBalance := decimal.Zero
	for _, row := range rows {
		if row.BalanceSheet {
			sheetRows = append(sheetRows, row)
			continue
		}
		retainedBalance = retainedBalance.Add(row.Balance)
	}

	if !retainedBalance.IsZero() {
		sheetRows = append(sheetRows, models.BalanceRow{
			AccountName: retainedEarningsLineName,
			TypeID:      retained.ID,
			TypeName:    retained.Name,
			Debit:       retained.Debit,
			Sort:        retained.Sort,
			Balance:     retainedBalance,
		})
	}

	sections := buildSections(sheetRows)

	assets := decimal.Zero
	liabilitiesEquity := decimal.Zero
	for _, section := range sections {
		if section.Debit {
			assets = assets.Add(section.Subtotal.Decimal)
		} else {
			liabilitiesEquity = liabilitiesEquity.Add(section.Subtotal.Decimal)
		}
	}

	s.srv.ledgerMetrics().RecordReportRun("balance_sheet")

	output = &models.BalanceSheetResponse{
		AsOf:                 asOf.Format(common.DateFormatYYYYMMDD),
		Sections:             sections,
		AssetsTotal:          models.NewDecimalFromExternal(assets),
		LiabilitiesAndEquity: models.NewDecimalFromExternal(liabilitiesEquity),
	}

	return
}

// ProfitAndLoss implements ReportService.
func (s *report) ProfitAndLoss(ctx context.Context, dateFrom, dateTo time.Time) (output *models.ProfitLossResponse, err error) {
	monitor := monitoring.New(ctx)
	defer monitor.Finish(monitoring.WithFinishCheckError(err))

	if dateFrom.After(dateTo) {
		err = models.GetErrMap(models.ErrKeyInvalidReportRange)
		return
	}

	rows, err := s.srv.sqlRepo.GetReportRepository().PLBalances(ctx, dateFrom, dateTo)
	if err != nil {
		err = checkDatabaseError(err)
		return
	}

	sections := buildSections(rows)

	income := decimal.Zero
	expense := decimal.Zero
	for _, section := range sections {
		if section.Debit {
			expense = expense.Add(section.Subtotal.Decimal)
		} else {
			income = income.Add(section.Subtotal.Decimal)
		}
	}

	s.srv.ledgerMetrics().RecordReportRun("profit_loss")

	output = &models.ProfitLossResponse{
		DateFrom:     dateFrom.Format(common.DateFormatYYYYMMDD),
		DateTo:       dateTo.Format(common.DateFormatYYYYMMDD),
		Sections:     sections,
		IncomeTotal:  models.NewDecimalFromExternal(income),
		ExpenseTotal: models.NewDecimalFromExternal(expense),
		NetIncome:    models.NewDecimalFromExternal(income.Sub(expense)),
	}

	return
}

// ProfitLossTransactions implements ReportService.
func (s *report) ProfitLossTransactions(ctx context.Context, dateFrom, dateTo time.Time) (output *models.ProfitLossTransactionsResponse, err error) {
	monitor := monitoring.New(ctx)
	defer monitor.Finish(monitoring.WithFinishCheckError(err))

	if dateFrom.After(dateTo) {
		err = models.GetErrMap(models.ErrKeyInvalidReportRange)
		return
	}

	rows, err := s.srv.sqlRepo.GetReportRepository().PLTransactions(ctx, dateFrom, dateTo)
	if err != nil {
		err = checkDatabaseError(err)
		return
	}

	lines := make([]models.ReportTransactionLine, 0, len(rows))
	for _, row := range rows {
		amount := row.Sum
		if !row.Debit {
			amount = amount.Neg()
		}
		lines = append(lines, models.ReportTransactionLine{
			AccountID:   row.AccountID,
			AccountName: row.AccountName,
			TypeName:    row.TypeName,
			TID:         row.TID,
			TranDate:    row.TranDate.Format(common.DateFormatYYYYMMDD),
			TranRef:     row.TranRef,
			Payee:       row.Payee,
			Memo:        row.Memo,
			Amount:      models.NewDecimalFromExternal(amount),
		})
	}

	s.srv.ledgerMetrics().RecordReportRun("profit_loss_transactions")

	output = &models.ProfitLossTransactionsResponse{
		DateFrom: dateFrom.Format(common.DateFormatYYYYMMDD),
		DateTo:   dateTo.Format(common.DateFormatYYYYMMDD),
		Lines:    lines,
	}

	return
}

// MultiPeriodBalanceSheet implements ReportService. Rather than running
// the as-of aggregation once per period it reads one opening snapshot
// plus per-month movements and chains the periods in a single pass.
func (s *report) MultiPeriodBalanceSheet(ctx context.Context, year, month, periods int) (output *models.MultiPeriodBalanceSheetResponse, err error) {
	monitor := monitoring.New(ctx)
	defer monitor.Finish(monitoring.WithFinishCheckError(err))

	if month < 1 || month > 12 {
		err = models.GetErrMap(models.ErrKeyInvalidDate)
		return
	}
	if periods < 1 || periods > maxReportPeriods {
		err = models.GetErrMap(models.ErrKeyInvalidPeriodCount)
		return
	}

	retained, err := s.retainedEarningsType(ctx)
	if err != nil {
		return
	}

	firstStart := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	lastEnd := firstStart.AddDate(0, periods, -1)

	rpr := s.srv.sqlRepo.GetReportRepository()

	opening, err := rpr.BalancesAsOf(ctx, firstStart.AddDate(0, 0, -1))
	if err != nil {
		err = checkDatabaseError(err)
		return
	}

	movements, err := rpr.MonthlyMovements(ctx, firstStart, lastEnd)
	if err != nil {
		err = checkDatabaseError(err)
		return
	}

	type accountSeries struct {
		name         string
		typeName     string
		balanceSheet bool
		debit        bool
		sort         int
		opening      decimal.Decimal
		activity     []decimal.Decimal
	}

	series := make(map[string]*accountSeries)
	ensure := func(id, name, typeName string, balanceSheet, debit bool, sortOrder int) *accountSeries {
		acc, ok := series[id]
		if !ok {
			acc = &accountSeries{
				name:         name,
				typeName:     typeName,
				balanceSheet: balanceSheet,
				debit:        debit,
				sort:         sortOrder,
				activity:     make([]decimal.Decimal, periods),
			}
			series[id] = acc
		}
		return acc
	}

	for _, row := range opening {
		acc := ensure(row.AccountID, row.AccountName, row.TypeName, row.BalanceSheet, row.Debit, row.Sort)
		acc.opening = row.Balance
	}
	for _, row := range movements {
		idx := (row.Month.Year()-year)*12 + int(row.Month.Month()) - month
		if idx < 0 || idx >= periods {
			continue
		}
		acc := ensure(row.AccountID, row.AccountName, row.TypeName, true, row.Debit, row.Sort)
		acc.activity[idx] = acc.activity[idx].Add(row.Net)
	}

	// movement rows do not carry the balance sheet flag, recheck it from
	// the cached types by name
	types, err := s.accountTypes(ctx)
	if err != nil {
		return
	}
	sheetByName := make(map[string]bool, len(types))
	for _, at := range types {
		sheetByName[at.Name] = at.BalanceSheet
	}
	for _, acc := range series {
		acc.balanceSheet = sheetByName[acc.typeName]
	}

	type outRow struct {
		id   string
		acc  *accountSeries
		bals []decimal.Decimal
	}

	outRows := make([]outRow, 0, len(series))
	retainedBalances := make([]decimal.Decimal, periods)
	for id, acc := range series {
		running := acc.opening
		balances := make([]decimal.Decimal, periods)
		for p := 0; p < periods; p++ {
			running = running.Add(acc.activity[p])
			balances[p] = running
		}

		if !acc.balanceSheet {
			for p := 0; p < periods; p++ {
				retainedBalances[p] = retainedBalances[p].Add(balances[p])
			}
			continue
		}

		outRows = append(outRows, outRow{id: id, acc: acc, bals: balances})
	}

	anyRetained := false
	for _, b := range retainedBalances {
		if !b.IsZero() {
			anyRetained = true
			break
		}
	}
	if anyRetained {
		outRows = append(outRows, outRow{
			acc: &accountSeries{
				name:     retainedEarningsLineName,
				typeName: retained.Name,
				debit:    retained.Debit,
				sort:     retained.Sort,
			},
			bals: retainedBalances,
		})
	}

	sort.Slice(outRows, func(i, j int) bool {
		if outRows[i].acc.sort != outRows[j].acc.sort {
			return outRows[i].acc.sort < outRows[j].acc.sort
		}
		if outRows[i].acc.typeName != outRows[j].acc.typeName {
			return outRows[i].acc.typeName < outRows[j].acc.typeName
		}
		return outRows[i].acc.name < outRows[j].acc.name
	})

	periodEnds := make([]string, periods)
	for p := 0; p < periods; p++ {
		periodEnds[p] = firstStart.AddDate(0, p+1, -1).Format(common.DateFormatYYYYMMDD)
	}

	rows := make([]models.MultiPeriodRow, 0, len(outRows))
	for _, row := range outRows {
		sign := decimal.NewFromInt(1)
		if !row.acc.debit {
			sign = sign.Neg()
		}
		balances := make([]models.Decimal, periods)
		for p := 0; p < periods; p++ {
			balances[p] = models.NewDecimalFromExternal(row.bals[p].Mul(sign))
		}
		rows = append(rows, models.MultiPeriodRow{
			AccountID:   row.id,
			AccountName: row.acc.name,
			TypeName:    row.acc.typeName,
			Balances:    balances,
		})
	}

	s.srv.ledgerMetrics().RecordReportRun("multi_period_balance_sheet")

	output = &models.MultiPeriodBalanceSheetResponse{
		PeriodEnds: periodEnds,
		Rows:       rows,
	}

	return
}

// AccountRunningBalance implements ReportService. With project set,
// payee/memo pairs recurring in the lookback window extend the register
// with speculative lines through the projection horizon. Nothing
// speculative is ever written back.
func (s *report) AccountRunningBalance(ctx context.Context, accountID string, dateFrom time.Time, project bool) (output *models.AccountRunningBalanceResponse, err error) {
	monitor := monitoring.New(ctx)
	defer monitor.Finish(monitoring.WithFinishCheckError(err))

	account, err := s.srv.sqlRepo.GetReferenceRepository().GetAccount(ctx, accountID)
	if err != nil {
		err = checkDatabaseError(err, models.ErrKeyAccountNotFound)
		return
	}
	if !account.TypeBalanceSheet {
		err = models.GetErrMap(models.ErrKeyAccountNotBalanceSheet, account.Name)
		return
	}

	rpr := s.srv.sqlRepo.GetReportRepository()

	opening, err := rpr.AccountOpeningBalance(ctx, accountID, dateFrom)
	if err != nil {
		err = checkDatabaseError(err)
		return
	}

	ledger, err := rpr.AccountLedgerFrom(ctx, accountID, dateFrom)
	if err != nil {
		err = checkDatabaseError(err)
		return
	}

	type entry struct {
		models.LedgerLine
		speculative bool
	}

	entries := make([]entry, 0, len(ledger))
	for _, line := range ledger {
		entries = append(entries, entry{LedgerLine: line})
	}

	if project {
		now := time.Now().UTC().Truncate(24 * time.Hour)
		since := now.AddDate(0, -s.srv.conf.Report.RecurrenceWindowMonths, 0)
		horizon := now.AddDate(0, 0, s.srv.conf.Report.ProjectionWeeks*7)

		var groups []models.RecurringGroup
		groups, err = rpr.RecurringGroups(ctx, accountID, since, minRecurrenceOccurrences)
		if err != nil {
			err = checkDatabaseError(err)
			return
		}

		for _, group := range groups {
			if group.IntervalDays <= 0 {
				continue
			}
			next := group.LastDate.AddDate(0, 0, group.IntervalDays)
			for !next.After(horizon) {
				if next.After(now) {
					entries = append(entries, entry{
						LedgerLine: models.LedgerLine{
							TranDate: next,
							Payee:    group.Payee,
							Memo:     group.Memo,
							Sum:      group.LastSum,
						},
						speculative: true,
					})
				}
				next = next.AddDate(0, 0, group.IntervalDays)
			}
		}

		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].TranDate.Before(entries[j].TranDate)
		})
	}

	sign := decimal.NewFromInt(int64(account.NormalSign()))
	running := opening
	lines := make([]models.RunningBalanceLine, 0, len(entries))
	for _, e := range entries {
		running = running.Add(e.Sum)
		lines = append(lines, models.RunningBalanceLine{
			SID:           e.SID,
			TID:           e.TID,
			TranDate:      e.TranDate.Format(common.DateFormatYYYYMMDD),
			TranRef:       e.TranRef,
			Payee:         e.Payee,
			Memo:          e.Memo,
			Amount:        models.NewDecimalFromExternal(e.Sum.Mul(sign)),
			Balance:       models.NewDecimalFromExternal(running.Mul(sign)),
			IsSpeculative: e.speculative,
		})
	}

	s.srv.ledgerMetrics().RecordReportRun("account_running_balance")

	output = &models.AccountRunningBalanceResponse{
		Account:        account.ToResponse(),
		DateFrom:       dateFrom.Format(common.DateFormatYYYYMMDD),
		OpeningBalance: models.NewDecimalFromExternal(opening.Mul(sign)),
		Lines:          lines,
	}

	return
}

// buildSections groups balance rows by account type and sign-normalizes
// the amounts to each type's conventional side. Rows arrive sorted by
// type sort order then account name.
func buildSections(rows []models.BalanceRow) []models.ReportSection {
	sections := make([]models.ReportSection, 0)
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Sort != rows[j].Sort {
			return rows[i].Sort < rows[j].Sort
		}
		if rows[i].TypeName != rows[j].TypeName {
			return rows[i].TypeName < rows[j].TypeName
		}
		return rows[i].AccountName < rows[j].AccountName
	})

	for _, row := range rows {
		amount := row.Balance
		if !row.Debit {
			amount = amount.Neg()
		}

		if n := len(sections); n == 0 || sections[n-1].TypeID != row.TypeID {
			sections = append(sections, models.ReportSection{
				TypeID:   row.TypeID,
				TypeName: row.TypeName,
				Debit:    row.Debit,
			})
		}

		section := &sections[len(sections)-1]
		section.Lines = append(section.Lines, models.ReportLine{
			AccountID:   row.AccountID,
			AccountName: row.AccountName,
			Amount:      models.NewDecimalFromExternal(amount),
		})
		section.Subtotal = models.NewDecimalFromExternal(section.Subtotal.Decimal.Add(amount))
	}

	return sections
}

func (s *report) accountTypes(ctx context.Context) ([]models.AccountType, error) {
	return s.srv.cacheAccountTypes.GetOrSet(ctx, cache.GetOrSetOpts[[]models.AccountType]{
		Key: cacheKeyAccountTypes,
		TTL: s.srv.conf.Report.ReferenceCacheTTL,
		Callback: func() ([]models.AccountType, error) {
			return s.srv.sqlRepo.GetReferenceRepository().ListAccountTypes(ctx)
		},
	})
}

func (s *report) retainedEarningsType(ctx context.Context) (models.AccountType, error) {
	types, err := s.accountTypes(ctx)
	if err != nil {
		return models.AccountType{}, checkDatabaseError(err)
	}

	for _, at := range types {
		if at.RetainedEarnings {
			return at, nil
		}
	}

	return models.AccountType{}, models.GetErrMap(models.ErrKeyRetainedEarningsMissing)
}
