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
	"github.com/jackc/pgx/v5/pgconn"
)

type TransactionRepository struct {
	db     DBPool
	logger *slog.Logger
}

var _ loan.TransactionRepository = (*TransactionRepository)(nil)

func NewTransactionRepository(db DBPool, logger *slog.Logger) *TransactionRepository {
	return &TransactionRepository{db: db, logger: logger.With("component", "TransactionRepository")}
}

func (r *TransactionRepository) Insert(ctx context.Context, t *loan.Transaction) (*loan.Transaction, error) {
	query := `
        INSERT INTO transactions (transaction_ref, loan_id, amount, payment_date, status, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
        RETURNING id, transaction_ref, loan_id, amount, payment_date, status, created_at, updated_at`

	status := "success"
	startTime := time.Now()

	var created loan.Transaction
	err := r.db.QueryRow(ctx, query,
		t.TransactionRef, t.LoanID, t.Amount, t.PaymentDate, t.Status,
	).Scan(
		&created.ID, &created.TransactionRef, &created.LoanID, &created.Amount,
		&created.PaymentDate, &created.Status, &created.CreatedAt, &created.UpdatedAt,
	)
	if err != nil {
		status = "error"
	}
	monitoring.RecordDBQuery("InsertTransaction", status, time.Since(startTime))

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			r.logger.WarnContext(ctx, "Duplicate transaction reference", slog.String("transactionRef", t.TransactionRef), slog.String("constraint", pgErr.ConstraintName))
			return nil, fmt.Errorf("%w: %s", apperrors.ErrDuplicateTransaction, t.TransactionRef)
		}
		r.logger.ErrorContext(ctx, "Failed to insert transaction", slog.Int64("loanID", t.LoanID), slog.Any("error", err))
		return nil, translateDBError(err, r.logger)
	}

	r.logger.InfoContext(ctx, "Transaction inserted in DB", slog.Int64("transactionID", created.ID), slog.Int64("loanID", created.LoanID))
	return &created, nil
}

func (r *TransactionRepository) Update(ctx context.Context, t *loan.Transaction) error {
	query := `
        UPDATE transactions
        SET amount = $1, payment_date = $2, status = $3, updated_at = NOW()
        WHERE id = $4
        RETURNING updated_at`

	status := "success"
	startTime := time.Now()
	err := r.db.QueryRow(ctx, query,
		t.Amount, t.PaymentDate, t.Status, t.ID,
	).Scan(&t.UpdatedAt)
	if err != nil {
		status = "error"
	}
	monitoring.RecordDBQuery("UpdateTransaction", status, time.Since(startTime))

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.WarnContext(ctx, "Transaction not found for update", slog.Int64("transactionID", t.ID))
			return apperrors.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Failed to update transaction", slog.Int64("transactionID", t.ID), slog.Any("error", err))
		return translateDBError(err, r.logger)
	}

	r.logger.InfoContext(ctx, "Transaction updated in DB", slog.Int64("transactionID", t.ID))
	return nil
}

func (r *TransactionRepository) GetByID(ctx context.Context, transactionID int64) (*loan.Transaction, error) {
	query := `
        SELECT id, transaction_ref, loan_id, amount, payment_date, status, created_at, updated_at
        FROM transactions
        WHERE id = $1`

	status := "success"
	startTime := time.Now()

	var t loan.Transaction
	err := r.db.QueryRow(ctx, query, transactionID).Scan(
		&t.ID, &t.TransactionRef, &t.LoanID, &t.Amount,
		&t.PaymentDate, &t.Status, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		status = "error"
	}
	monitoring.RecordDBQuery("GetTransactionByID", status, time.Since(startTime))

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.WarnContext(ctx, "Transaction not found", slog.Int64("transactionID", transactionID))
			return nil, apperrors.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Failed to get transaction by ID", slog.Int64("transactionID", transactionID), slog.Any("error", err))
		return nil, translateDBError(err, r.logger)
	}
	return &t, nil
}

func (r *TransactionRepository) GetByLoanID(ctx context.Context, loanID int64) ([]loan.Transaction, error) {
	query := `
        SELECT id, transaction_ref, loan_id, amount, payment_date, status, created_at, updated_at
        FROM transactions
        WHERE loan_id = $1
        ORDER BY payment_date ASC, id ASC`

	status := "success"
	startTime := time.Now()

	rows, err := r.db.Query(ctx, query, loanID)
	if err != nil {
		monitoring.RecordDBQuery("GetTransactionsByLoanID", "error", time.Since(startTime))
		r.logger.ErrorContext(ctx, "Failed to query transactions for loan", slog.Int64("loanID", loanID), slog.Any("error", err))
		return nil, translateDBError(err, r.logger)
	}
	defer rows.Close()

	txns := make([]loan.Transaction, 0)
	for rows.Next() {
		var t loan.Transaction
		err := rows.Scan(
			&t.ID, &t.TransactionRef, &t.LoanID, &t.Amount,
			&t.PaymentDate, &t.Status, &t.CreatedAt, &t.UpdatedAt,
		)
		if err != nil {
			monitoring.RecordDBQuery("GetTransactionsByLoanID", "error", time.Since(startTime))
			r.logger.ErrorContext(ctx, "Failed to scan transaction row", slog.Int64("loanID", loanID), slog.Any("error", err))
			return nil, translateDBError(err, r.logger)
		}
		txns = append(txns, t)
	}

	if err = rows.Err(); err != nil {
		status = "error"
	}
	monitoring.RecordDBQuery("GetTransactionsByLoanID", status, time.Since(startTime))

	if err != nil {
		r.logger.ErrorContext(ctx, "Error iterating transaction rows", slog.Int64("loanID", loanID), slog.Any("error", err))
		return nil, translateDBError(err, r.logger)
	}

	return txns, nil
}
