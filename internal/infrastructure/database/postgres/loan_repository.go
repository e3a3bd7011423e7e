package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"trackloan/internal/domain/loan"
	"trackloan/internal/infrastructure/monitoring"
	"trackloan/internal/pkg/apperrors"

	"github.com/jackc/pgx/v5"
)

type LoanRepository struct {
	db     DBPool
	logger *slog.Logger
}

var _ loan.Repository = (*LoanRepository)(nil)

func NewLoanRepository(db DBPool, logger *slog.Logger) *LoanRepository {
	return &LoanRepository{db: db, logger: logger.With("component", "LoanRepository")}
}

func (r *LoanRepository) CreateLoan(ctx context.Context, newLoan *loan.Loan) (*loan.Loan, error) {
	loanSQL := `
        INSERT INTO loans (customer_id, loan_amount, emi_amount, tenure, emi_type, emi_start_date, status, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
        RETURNING id, customer_id, loan_amount, emi_amount, tenure, emi_type, emi_start_date, status, created_at, updated_at`

	status := "success"
	startTime := time.Now()

	var created loan.Loan
	err := r.db.QueryRow(ctx, loanSQL,
		newLoan.CustomerID, newLoan.LoanAmount, newLoan.EMIAmount, newLoan.Tenure,
		newLoan.EMIType, newLoan.EMIStartDate, newLoan.Status,
	).Scan(
		&created.ID, &created.CustomerID, &created.LoanAmount, &created.EMIAmount,
		&created.Tenure, &created.EMIType, &created.EMIStartDate,
		&created.Status, &created.CreatedAt, &created.UpdatedAt,
	)
	if err != nil {
		status = "error"
	}
	monitoring.RecordDBQuery("CreateLoan", status, time.Since(startTime))

	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to insert loan", "error", err)
		return nil, fmt.Errorf("%w: failed to insert loan: %w", apperrors.ErrDatabase, err)
	}

	r.logger.InfoContext(ctx, "Loan created in DB", "loan_id", created.ID)
	return &created, nil
}

func (r *LoanRepository) GetLoanByID(ctx context.Context, loanID int64) (*loan.Loan, error) {
	query := `
        SELECT id, customer_id, loan_amount, emi_amount, tenure, emi_type, emi_start_date, status, created_at, updated_at
        FROM loans
        WHERE id = $1`

	status := "success"
	startTime := time.Now()

	var l loan.Loan
	err := r.db.QueryRow(ctx, query, loanID).Scan(
		&l.ID, &l.CustomerID, &l.LoanAmount, &l.EMIAmount,
		&l.Tenure, &l.EMIType, &l.EMIStartDate,
		&l.Status, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		status = "error"
	}
	monitoring.RecordDBQuery("GetLoanByID", status, time.Since(startTime))

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.WarnContext(ctx, "Loan not found", "loan_id", loanID)
			return nil, apperrors.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Failed to get loan by ID", "loan_id", loanID, "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return &l, nil
}

func (r *LoanRepository) GetLoansByCustomerID(ctx context.Context, customerID int64) ([]*loan.Loan, error) {
	query := `
        SELECT id, customer_id, loan_amount, emi_amount, tenure, emi_type, emi_start_date, status, created_at, updated_at
        FROM loans
        WHERE customer_id = $1
        ORDER BY created_at DESC`

	status := "success"
	startTime := time.Now()

	rows, err := r.db.Query(ctx, query, customerID)
	if err != nil {
		monitoring.RecordDBQuery("GetLoansByCustomerID", "error", time.Since(startTime))
		r.logger.ErrorContext(ctx, "Failed to query loans for customer", "customer_id", customerID, "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	loans := make([]*loan.Loan, 0)
	for rows.Next() {
		var l loan.Loan
		err := rows.Scan(
			&l.ID, &l.CustomerID, &l.LoanAmount, &l.EMIAmount,
			&l.Tenure, &l.EMIType, &l.EMIStartDate,
			&l.Status, &l.CreatedAt, &l.UpdatedAt,
		)
		if err != nil {
			monitoring.RecordDBQuery("GetLoansByCustomerID", "error", time.Since(startTime))
			r.logger.ErrorContext(ctx, "Failed to scan loan row", "customer_id", customerID, "error", err)
			return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
		}
		loans = append(loans, &l)
	}

	if err = rows.Err(); err != nil {
		status = "error"
	}
	monitoring.RecordDBQuery("GetLoansByCustomerID", status, time.Since(startTime))

	if err != nil {
		r.logger.ErrorContext(ctx, "Error iterating loan rows", "customer_id", customerID, "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}

	return loans, nil
}

func (r *LoanRepository) UpdateLoanStatus(ctx context.Context, loanID int64, newStatus loan.LoanStatus) error {
	sql := `UPDATE loans SET status = $1, updated_at = NOW() WHERE id = $2`

	status := "success"
	startTime := time.Now()
	cmdTag, err := r.db.Exec(ctx, sql, newStatus, loanID)
	if err != nil {
		status = "error"
	}
	monitoring.RecordDBQuery("UpdateLoanStatus", status, time.Since(startTime))

	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to update loan status", "loan_id", loanID, "status", newStatus, "error", err)
		return fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	if cmdTag.RowsAffected() != 1 {
		r.logger.ErrorContext(ctx, "Loan status update affected zero rows", "loan_id", loanID, "status", newStatus)
		return fmt.Errorf("%w: loan status update affected zero rows", apperrors.ErrDatabase)
	}

	r.logger.InfoContext(ctx, "Loan status updated in DB", "loan_id", loanID, "new_status", newStatus)
	return nil
}

func (r *LoanRepository) GetActiveLoanIDs(ctx context.Context) ([]int64, error) {
	logCtx := r.logger.With(slog.String("operation", "GetActiveLoanIDs"))
	logCtx.DebugContext(ctx, "Attempting to get all active loan IDs")

	query := `SELECT id FROM loans WHERE status = $1 ORDER BY id`

	rows, err := r.db.Query(ctx, query, loan.StatusActive)
	if err != nil {
		logCtx.ErrorContext(ctx, "Failed to query active loan IDs", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to query active loans: %w", apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	loanIDs := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			logCtx.ErrorContext(ctx, "Failed to scan active loan ID row", slog.Any("error", err))
			return nil, fmt.Errorf("%w: failed scanning active loan ID: %w", apperrors.ErrDatabase, err)
		}
		loanIDs = append(loanIDs, id)
	}

	if err = rows.Err(); err != nil {
		logCtx.ErrorContext(ctx, "Error iterating active loan ID rows", slog.Any("error", err))
		return nil, fmt.Errorf("%w: error iterating active loan IDs: %w", apperrors.ErrDatabase, err)
	}

	logCtx.DebugContext(ctx, "Finished getting active loan IDs", slog.Int("count", len(loanIDs)))
	return loanIDs, nil
}
