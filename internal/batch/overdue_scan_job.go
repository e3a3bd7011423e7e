package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"trackloan/internal/domain/loan"
	"trackloan/internal/infrastructure/monitoring"
	"trackloan/internal/pkg/apperrors"
)

// OverdueScanJob walks every active loan, projects its DUE transactions
// against the current date and reports the total number of overdue
// installments as a gauge. It never writes transaction rows; OVERDUE is
// a read-time view, not a stored state.
type OverdueScanJob struct {
	loanRepo loan.Repository
	txRepo   loan.TransactionRepository
	logger   *slog.Logger
	now      func() time.Time
}

func NewOverdueScanJob(loanRepo loan.Repository, txRepo loan.TransactionRepository, logger *slog.Logger) *OverdueScanJob {
	if loanRepo == nil || txRepo == nil || logger == nil {
		panic("OverdueScanJob dependencies cannot be nil")
	}
	return &OverdueScanJob{
		loanRepo: loanRepo,
		txRepo:   txRepo,
		logger:   logger.With("job", "OverdueScan"),
		now:      time.Now,
	}
}

func (j *OverdueScanJob) Run(ctx context.Context) error {
	startTime := time.Now()
	j.logger.InfoContext(ctx, "Starting overdue installment scan job.")

	activeLoanIDs, err := j.loanRepo.GetActiveLoanIDs(ctx)
	if err != nil {
		j.logger.ErrorContext(ctx, "Failed to get active loan IDs, aborting job.", slog.Any("error", err))
		return fmt.Errorf("cannot run job, failed to get active loans: %w", err)
	}
	j.logger.InfoContext(ctx, "Fetched active loan IDs.", slog.Int("count", len(activeLoanIDs)))

	if len(activeLoanIDs) == 0 {
		monitoring.SetOverdueInstallments(0)
		j.logger.InfoContext(ctx, "No active loans found to scan.", slog.Duration("duration", time.Since(startTime)))
		return nil
	}

	now := j.now()

	var wg sync.WaitGroup
	var overdueTotal, loansWithOverdue, errorCount atomic.Int64

	for _, loanID := range activeLoanIDs {
		wg.Add(1)
		go func(currentLoanID int64) {
			defer wg.Done()

			logCtx := j.logger.With(slog.Int64("loanID", currentLoanID))

			txns, txErr := j.txRepo.GetByLoanID(ctx, currentLoanID)
			if txErr != nil {
				if errors.Is(txErr, apperrors.ErrNotFound) {
					logCtx.WarnContext(ctx, "Loan disappeared during overdue scan", slog.Any("error", txErr))
				} else {
					logCtx.ErrorContext(ctx, "Failed to load transactions for overdue scan", slog.Any("error", txErr))
					errorCount.Add(1)
				}
				return
			}

			overdue := 0
			for _, t := range loan.ProjectTransactions(txns, now) {
				if t.Status == loan.TransactionOverdue {
					overdue++
				}
			}
			if overdue > 0 {
				logCtx.DebugContext(ctx, "Loan has overdue installments.", slog.Int("overdue", overdue))
				overdueTotal.Add(int64(overdue))
				loansWithOverdue.Add(1)
			}
		}(loanID)
	}

	wg.Wait()
	monitoring.SetOverdueInstallments(int(overdueTotal.Load()))

	duration := time.Since(startTime)
	summaryLog := j.logger.With(
		slog.Duration("duration", duration),
		slog.Int("total_active_loans", len(activeLoanIDs)),
		slog.Int64("loans_with_overdue", loansWithOverdue.Load()),
		slog.Int64("overdue_installments", overdueTotal.Load()),
		slog.Int64("errors_encountered", errorCount.Load()),
	)
	if errorCount.Load() > 0 {
		summaryLog.WarnContext(ctx, "Overdue installment scan job finished with errors.")
		return fmt.Errorf("job completed with %d errors", errorCount.Load())
	}
	summaryLog.InfoContext(ctx, "Overdue installment scan job finished successfully.")
	return nil
}
