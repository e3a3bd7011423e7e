package loan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"trackloan/internal/domain/customer"
	"trackloan/internal/event"
	"trackloan/internal/infrastructure/monitoring"
	"trackloan/internal/pkg/apperrors"
)

type Summary struct {
	Loan            *Loan        `json:"loan"`
	Progress        Progress     `json:"progress"`
	NextInstallment *Installment `json:"nextInstallment,omitempty"`
}

type LoanService interface {
	DisburseLoan(ctx context.Context, customerID int64, loanAmount, emiAmount float64, tenure int, startDate time.Time) (*Loan, error)

	GetLoan(ctx context.Context, loanID int64) (*Loan, error)

	ListLoansByCustomer(ctx context.Context, customerID int64) ([]*Loan, error)

	GetLoanSummary(ctx context.Context, loanID int64) (*Summary, error)

	GetNextDueInstallment(ctx context.Context, loanID int64) (*Installment, error)
}

var _ LoanService = (*loanServiceImpl)(nil)

type loanServiceImpl struct {
	repo            Repository
	txRepo          TransactionRepository
	customerService customer.CustomerService
	pub             event.Publisher
	logger          *slog.Logger
	now             func() time.Time
}

func NewLoanService(r Repository, tr TransactionRepository, cs customer.CustomerService, pub event.Publisher, logger *slog.Logger) LoanService {
	if pub == nil {
		pub = event.NoopPublisher{}
	}
	return &loanServiceImpl{
		repo:            r,
		txRepo:          tr,
		customerService: cs,
		pub:             pub,
		logger:          logger.With(slog.String("component", "loanService")),
		now:             time.Now,
	}
}

func (s *loanServiceImpl) DisburseLoan(ctx context.Context, customerID int64, loanAmount, emiAmount float64, tenure int, startDate time.Time) (*Loan, error) {
	s.logger.InfoContext(ctx, "Disbursing new loan", slog.Int64("customerID", customerID))

	if err := validateDisbursement(customerID, loanAmount, emiAmount, tenure, startDate, s.now()); err != nil {
		s.logger.WarnContext(ctx, "Disbursement validation failed", slog.Any("error", err))
		monitoring.RecordDisbursement("failure_validation")
		return nil, err
	}

	if _, err := s.customerService.GetCustomer(ctx, customerID); err != nil {
		if errors.Is(err, customer.ErrNotFound) || errors.Is(err, apperrors.ErrNotFound) {
			s.logger.WarnContext(ctx, "Customer not found for disbursement", slog.Any("error", err))
			monitoring.RecordDisbursement("failure_customer")
			return nil, fmt.Errorf("%w: customer %d not found", apperrors.ErrValidation, customerID)
		}
		s.logger.ErrorContext(ctx, "Failed to verify customer for disbursement", slog.Any("error", err))
		monitoring.RecordDisbursement("failure_internal")
		return nil, fmt.Errorf("failed to verify customer %d: %w", customerID, err)
	}

	l := &Loan{
		CustomerID:   customerID,
		LoanAmount:   loanAmount,
		EMIAmount:    emiAmount,
		Tenure:       tenure,
		EMIType:      EMITypeWeekly,
		EMIStartDate: startDate,
		Status:       StatusActive,
	}

	created, err := s.repo.CreateLoan(ctx, l)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to save loan", slog.Any("error", err))
		monitoring.RecordDisbursement("failure_internal")
		return nil, fmt.Errorf("%w: failed to save loan: %v", apperrors.ErrInternalServer, err)
	}

	logCtx := s.logger.With(slog.Int64("loanID", created.ID))
	disbursedEvent := event.LoanDisbursedEvent{
		LoanID:       created.ID,
		CustomerID:   created.CustomerID,
		LoanAmount:   created.LoanAmount,
		EMIAmount:    created.EMIAmount,
		Tenure:       created.Tenure,
		EMIStartDate: created.EMIStartDate,
		Timestamp:    time.Now(),
	}
	if pubErr := s.pub.PublishLoanDisbursed(ctx, disbursedEvent); pubErr != nil {
		logCtx.ErrorContext(ctx, "Loan disbursed, but FAILED to publish disbursement event", slog.Any("error", pubErr))
	}

	monitoring.RecordDisbursement("success")
	logCtx.InfoContext(ctx, "Loan disbursed successfully", slog.Int64("customerID", customerID))
	return created, nil
}

func (s *loanServiceImpl) GetLoan(ctx context.Context, loanID int64) (*Loan, error) {
	s.logger.InfoContext(ctx, "Getting loan details", slog.Int64("loanID", loanID))
	l, err := s.repo.GetLoanByID(ctx, loanID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.logger.WarnContext(ctx, "Loan not found", slog.Int64("loanID", loanID))
			return nil, fmt.Errorf("%w: loan with ID %d not found", apperrors.ErrNotFound, loanID)
		}
		s.logger.ErrorContext(ctx, "Failed to get loan", slog.Int64("loanID", loanID), slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to get loan %d: %v", apperrors.ErrInternalServer, loanID, err)
	}
	return l, nil
}

func (s *loanServiceImpl) ListLoansByCustomer(ctx context.Context, customerID int64) ([]*Loan, error) {
	s.logger.InfoContext(ctx, "Listing loans for customer", slog.Int64("customerID", customerID))
	if customerID <= 0 {
		return nil, apperrors.NewValidationError("customerId", "Invalid customer ID")
	}

	loans, err := s.repo.GetLoansByCustomerID(ctx, customerID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to list loans for customer", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to list loans for customer %d: %v", apperrors.ErrInternalServer, customerID, err)
	}
	return loans, nil
}

func (s *loanServiceImpl) GetLoanSummary(ctx context.Context, loanID int64) (*Summary, error) {
	s.logger.InfoContext(ctx, "Computing loan summary", slog.Int64("loanID", loanID))

	l, err := s.GetLoan(ctx, loanID)
	if err != nil {
		return nil, err
	}

	txns, err := s.txRepo.GetByLoanID(ctx, loanID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to get transactions for summary", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to get transactions for loan %d: %v", apperrors.ErrInternalServer, loanID, err)
	}

	summary := &Summary{
		Loan:     l,
		Progress: ComputeProgress(l, txns),
	}
	if l.IsActive() {
		summary.NextInstallment = NextDueInstallment(l, txns, s.now())
	}
	return summary, nil
}

func (s *loanServiceImpl) GetNextDueInstallment(ctx context.Context, loanID int64) (*Installment, error) {
	s.logger.InfoContext(ctx, "Getting next due installment", slog.Int64("loanID", loanID))

	if loanID <= 0 {
		return nil, apperrors.NewValidationError("loanId", "Invalid loan ID")
	}

	l, err := s.GetLoan(ctx, loanID)
	if err != nil {
		return nil, err
	}

	if !l.IsActive() {
		s.logger.WarnContext(ctx, "Next due installment requested for non-active loan", slog.Int64("loanID", loanID), slog.String("status", string(l.Status)))
		return nil, fmt.Errorf("%w: loan %d", apperrors.ErrLoanClosed, loanID)
	}

	txns, err := s.txRepo.GetByLoanID(ctx, loanID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to get transactions for next due installment", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to get transactions for loan %d: %v", apperrors.ErrInternalServer, loanID, err)
	}

	return NextDueInstallment(l, txns, s.now()), nil
}

func validateDisbursement(customerID int64, loanAmount, emiAmount float64, tenure int, startDate time.Time, now time.Time) error {
	if customerID <= 0 {
		return apperrors.NewValidationError("customerId", "Invalid customer ID")
	}
	if loanAmount <= 0 {
		return apperrors.NewValidationError("loanAmount", "Loan amount must be greater than 0")
	}
	if math.Mod(loanAmount, AmountGranularity) != 0 {
		return apperrors.NewValidationError("loanAmount", "Loan amount must be in multiples of 100")
	}
	if emiAmount <= 0 {
		return apperrors.NewValidationError("emiAmount", "EMI amount must be greater than 0")
	}
	if tenure < MinTenure {
		return apperrors.NewValidationError("tenure", "EMI tenure must be greater than 0")
	}
	if tenure > MaxTenure {
		return apperrors.NewValidationError("tenure", "EMI tenure cannot exceed 52 weeks")
	}
	if !truncateToDay(startDate).After(truncateToDay(now)) {
		return apperrors.NewValidationError("emiStartDate", "EMI start date must be in the future")
	}
	return nil
}
