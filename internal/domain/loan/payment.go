package loan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"trackloan/internal/event"
	"trackloan/internal/infrastructure/monitoring"
	"trackloan/internal/pkg/apperrors"
	"trackloan/internal/pkg/refgen"
)

const (
	// MaxPaymentAmount is the upper sanity bound on a single collection.
	MaxPaymentAmount = 1_000_000.0

	maxPastPaymentDays   = 365
	maxFuturePaymentDays = 30
)

// PaymentResult reports the two-phase outcome of a settling payment: the
// payment itself and the best-effort loan closure are separate steps, and the
// second can fail without undoing the first.
type PaymentResult struct {
	TransactionID  int64  `json:"transactionId"`
	TransactionRef string `json:"transactionRef"`
	IsLastPayment  bool   `json:"isLastPayment"`
	ClosureApplied bool   `json:"closureApplied"`
}

type PaymentService interface {
	// ProcessPayment records an immediately settled installment payment and,
	// when it completes the loan's expected repayment, closes the loan.
	ProcessPayment(ctx context.Context, loanID int64, amount float64, paymentDate time.Time) (*PaymentResult, error)

	// RecordDuePayment records a "promise to pay" transaction. It never
	// triggers settlement or closure.
	RecordDuePayment(ctx context.Context, loanID int64, amount float64, paymentDate time.Time) (*Transaction, error)

	// UpdateTransactionAmount corrects a previously recorded amount.
	UpdateTransactionAmount(ctx context.Context, transactionID int64, newAmount float64) error

	GetTransaction(ctx context.Context, transactionID int64) (*Transaction, error)

	// ListTransactions returns the loan's transactions with the read-time
	// overdue projection applied.
	ListTransactions(ctx context.Context, loanID int64) ([]Transaction, error)
}

var _ PaymentService = (*paymentServiceImpl)(nil)

type paymentServiceImpl struct {
	loanRepo Repository
	txRepo   TransactionRepository
	refs     *refgen.Generator
	pub      event.Publisher
	logger   *slog.Logger
	now      func() time.Time
}

func NewPaymentService(loanRepo Repository, txRepo TransactionRepository, refs *refgen.Generator, pub event.Publisher, logger *slog.Logger) PaymentService {
	if refs == nil {
		refs = refgen.New(nil, nil)
	}
	if pub == nil {
		pub = event.NoopPublisher{}
	}
	return &paymentServiceImpl{
		loanRepo: loanRepo,
		txRepo:   txRepo,
		refs:     refs,
		pub:      pub,
		logger:   logger.With(slog.String("component", "paymentService")),
		now:      time.Now,
	}
}

func (s *paymentServiceImpl) ProcessPayment(ctx context.Context, loanID int64, amount float64, paymentDate time.Time) (*PaymentResult, error) {
	logCtx := s.logger.With(slog.Int64("loanID", loanID), slog.Float64("amount", amount))
	logCtx.InfoContext(ctx, "Processing payment")

	if err := s.validatePayment(loanID, amount); err != nil {
		monitoring.RecordPayment("failure_amount")
		return nil, err
	}
	today := truncateToDay(s.now())
	day := truncateToDay(paymentDate)
	if day.After(today.AddDate(0, 0, maxFuturePaymentDays)) {
		monitoring.RecordPayment("failure_validation")
		return nil, apperrors.NewValidationError("paymentDate", "Payment date cannot be more than 30 days in the future")
	}
	if day.Before(today.AddDate(0, 0, -maxPastPaymentDays)) {
		monitoring.RecordPayment("failure_validation")
		return nil, apperrors.NewValidationError("paymentDate", "Payment date cannot be more than 1 year in the past")
	}

	l, err := s.lookupActiveLoan(ctx, loanID)
	if err != nil {
		monitoring.RecordPayment(paymentFailureStatus(err))
		return nil, err
	}

	txns, err := s.txRepo.GetByLoanID(ctx, loanID)
	if err != nil {
		logCtx.ErrorContext(ctx, "Failed to get existing transactions", slog.Any("error", err))
		monitoring.RecordPayment("failure_internal")
		return nil, fmt.Errorf("%w: failed to get transactions for loan %d: %v", apperrors.ErrInternalServer, loanID, err)
	}

	// Settlement is decided against the history as it stands before this
	// payment lands.
	isLastPayment := WillSettleLoan(l, txns, amount)

	txn := &Transaction{
		TransactionRef: s.refs.PaymentRef(),
		LoanID:         loanID,
		Amount:         amount,
		PaymentDate:    paymentDate,
		Status:         TransactionPaid,
	}

	created, err := s.txRepo.Insert(ctx, txn)
	if err != nil {
		logCtx.ErrorContext(ctx, "Failed to insert payment transaction", slog.Any("error", err))
		monitoring.RecordPayment(paymentFailureStatus(err))
		if errors.Is(err, apperrors.ErrDuplicateTransaction) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: failed to record payment for loan %d: %v", apperrors.ErrInternalServer, loanID, err)
	}

	result := &PaymentResult{
		TransactionID:  created.ID,
		TransactionRef: created.TransactionRef,
		IsLastPayment:  isLastPayment,
	}

	if isLastPayment {
		result.ClosureApplied = s.closeLoanBestEffort(ctx, loanID, created.ID, logCtx)
	}

	recordedEvent := event.PaymentRecordedEvent{
		TransactionID:  created.ID,
		TransactionRef: created.TransactionRef,
		LoanID:         loanID,
		Amount:         amount,
		Status:         string(TransactionPaid),
		IsLastPayment:  isLastPayment,
		Timestamp:      time.Now(),
	}
	if pubErr := s.pub.PublishPaymentRecorded(ctx, recordedEvent); pubErr != nil {
		logCtx.ErrorContext(ctx, "Payment recorded, but FAILED to publish payment event", slog.Any("error", pubErr))
	}

	monitoring.RecordPayment("success")
	logCtx.InfoContext(ctx, "Payment processed successfully",
		slog.Int64("transactionID", created.ID),
		slog.Bool("isLastPayment", isLastPayment),
		slog.Bool("closureApplied", result.ClosureApplied))
	return result, nil
}

// closeLoanBestEffort attempts the ACTIVE→CLOSED transition after a settling
// payment. A failure here does not roll back the payment; it is logged,
// counted, and published so the inconsistency stays visible.
func (s *paymentServiceImpl) closeLoanBestEffort(ctx context.Context, loanID, transactionID int64, logCtx *slog.Logger) bool {
	err := s.loanRepo.UpdateLoanStatus(ctx, loanID, StatusClosed)
	if err == nil {
		closedEvent := event.LoanClosedEvent{LoanID: loanID, Timestamp: time.Now()}
		if pubErr := s.pub.PublishLoanClosed(ctx, closedEvent); pubErr != nil {
			logCtx.ErrorContext(ctx, "Loan closed, but FAILED to publish closure event", slog.Any("error", pubErr))
		}
		logCtx.InfoContext(ctx, "Loan fully paid and closed")
		return true
	}

	logCtx.ErrorContext(ctx, "Payment settled loan but closing it failed", slog.Any("error", err))
	monitoring.RecordLoanCloseFailure()
	failedEvent := event.LoanCloseFailedEvent{
		LoanID:        loanID,
		TransactionID: transactionID,
		Reason:        err.Error(),
		Timestamp:     time.Now(),
	}
	if pubErr := s.pub.PublishLoanCloseFailed(ctx, failedEvent); pubErr != nil {
		logCtx.ErrorContext(ctx, "FAILED to publish loan close failure event", slog.Any("error", pubErr))
	}
	return false
}

func (s *paymentServiceImpl) RecordDuePayment(ctx context.Context, loanID int64, amount float64, paymentDate time.Time) (*Transaction, error) {
	logCtx := s.logger.With(slog.Int64("loanID", loanID), slog.Float64("amount", amount))
	logCtx.InfoContext(ctx, "Recording due payment")

	if err := s.validatePayment(loanID, amount); err != nil {
		return nil, err
	}
	// This entry point tolerates at most one day of forward dating; the
	// settled-payment flow above uses a wider window.
	if paymentDate.After(s.now().AddDate(0, 0, 1)) {
		return nil, apperrors.NewValidationError("paymentDate", "Payment date cannot be in the future")
	}

	if _, err := s.lookupActiveLoan(ctx, loanID); err != nil {
		return nil, err
	}

	txn := &Transaction{
		TransactionRef: s.refs.DueRef(),
		LoanID:         loanID,
		Amount:         amount,
		PaymentDate:    paymentDate,
		Status:         TransactionDue,
	}

	created, err := s.txRepo.Insert(ctx, txn)
	if err != nil {
		logCtx.ErrorContext(ctx, "Failed to insert due transaction", slog.Any("error", err))
		if errors.Is(err, apperrors.ErrDuplicateTransaction) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: failed to record due payment for loan %d: %v", apperrors.ErrInternalServer, loanID, err)
	}

	recordedEvent := event.PaymentRecordedEvent{
		TransactionID:  created.ID,
		TransactionRef: created.TransactionRef,
		LoanID:         loanID,
		Amount:         amount,
		Status:         string(TransactionDue),
		Timestamp:      time.Now(),
	}
	if pubErr := s.pub.PublishPaymentRecorded(ctx, recordedEvent); pubErr != nil {
		logCtx.ErrorContext(ctx, "Due payment recorded, but FAILED to publish payment event", slog.Any("error", pubErr))
	}

	logCtx.InfoContext(ctx, "Due payment recorded", slog.Int64("transactionID", created.ID))
	return created, nil
}

func (s *paymentServiceImpl) UpdateTransactionAmount(ctx context.Context, transactionID int64, newAmount float64) error {
	logCtx := s.logger.With(slog.Int64("transactionID", transactionID), slog.Float64("newAmount", newAmount))
	logCtx.InfoContext(ctx, "Updating transaction amount")

	if newAmount <= 0 {
		return apperrors.NewInvalidAmountError(newAmount, "Amount must be positive")
	}
	if newAmount > MaxPaymentAmount {
		return apperrors.NewInvalidAmountError(newAmount, "Amount exceeds maximum limit")
	}

	txn, err := s.txRepo.GetByID(ctx, transactionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logCtx.WarnContext(ctx, "Transaction not found for amount update")
			return fmt.Errorf("%w: transaction %d", apperrors.ErrNotFound, transactionID)
		}
		logCtx.ErrorContext(ctx, "Failed to get transaction for amount update", slog.Any("error", err))
		return fmt.Errorf("%w: failed to get transaction %d: %v", apperrors.ErrInternalServer, transactionID, err)
	}

	if txn.Amount == newAmount {
		return apperrors.NewValidationError("amount", "New amount must be different from current amount")
	}

	txn.Amount = newAmount
	if err := s.txRepo.Update(ctx, txn); err != nil {
		logCtx.ErrorContext(ctx, "Failed to update transaction amount", slog.Any("error", err))
		return fmt.Errorf("%w: failed to update transaction %d: %v", apperrors.ErrInternalServer, transactionID, err)
	}

	logCtx.InfoContext(ctx, "Transaction amount updated")
	return nil
}

func (s *paymentServiceImpl) GetTransaction(ctx context.Context, transactionID int64) (*Transaction, error) {
	txn, err := s.txRepo.GetByID(ctx, transactionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: transaction %d", apperrors.ErrNotFound, transactionID)
		}
		return nil, fmt.Errorf("%w: failed to get transaction %d: %v", apperrors.ErrInternalServer, transactionID, err)
	}
	return txn, nil
}

func (s *paymentServiceImpl) ListTransactions(ctx context.Context, loanID int64) ([]Transaction, error) {
	if loanID <= 0 {
		return nil, apperrors.NewValidationError("loanId", "Invalid loan ID")
	}

	txns, err := s.txRepo.GetByLoanID(ctx, loanID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to list transactions", slog.Int64("loanID", loanID), slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to list transactions for loan %d: %v", apperrors.ErrInternalServer, loanID, err)
	}

	return ProjectTransactions(txns, s.now()), nil
}

func (s *paymentServiceImpl) validatePayment(loanID int64, amount float64) error {
	if loanID <= 0 {
		return apperrors.NewValidationError("loanId", "Invalid loan ID")
	}
	if amount <= 0 {
		return apperrors.NewInvalidAmountError(amount, "Payment amount must be positive")
	}
	if amount > MaxPaymentAmount {
		return apperrors.NewInvalidAmountError(amount, "Payment amount exceeds maximum limit")
	}
	return nil
}

func (s *paymentServiceImpl) lookupActiveLoan(ctx context.Context, loanID int64) (*Loan, error) {
	l, err := s.loanRepo.GetLoanByID(ctx, loanID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.logger.WarnContext(ctx, "Loan not found for payment", slog.Int64("loanID", loanID))
			return nil, fmt.Errorf("%w: loan with ID %d not found", apperrors.ErrNotFound, loanID)
		}
		s.logger.ErrorContext(ctx, "Failed to get loan for payment", slog.Int64("loanID", loanID), slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to get loan %d: %v", apperrors.ErrInternalServer, loanID, err)
	}
	if !l.IsActive() {
		s.logger.WarnContext(ctx, "Payment attempted on non-active loan", slog.Int64("loanID", loanID), slog.String("status", string(l.Status)))
		return nil, fmt.Errorf("%w: loan %d", apperrors.ErrLoanClosed, loanID)
	}
	return l, nil
}

func paymentFailureStatus(err error) string {
	switch {
	case errors.Is(err, apperrors.ErrInvalidPaymentAmount):
		return "failure_amount"
	case errors.Is(err, apperrors.ErrLoanClosed):
		return "failure_closed"
	case errors.Is(err, apperrors.ErrNotFound):
		return "failure_not_found"
	case errors.Is(err, apperrors.ErrDuplicateTransaction):
		return "failure_duplicate"
	default:
		return "failure_internal"
	}
}
