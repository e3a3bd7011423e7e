package postgres

import (
	"context"
	"regexp"
	"testing"
	"time"

	"trackloan/internal/domain/loan"
	"trackloan/internal/pkg/apperrors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
)

var transactionColumns = []string{"id", "transaction_ref", "loan_id", "amount", "payment_date", "status", "created_at", "updated_at"}

func testTransaction() *loan.Transaction {
	return &loan.Transaction{
		ID:             1,
		TransactionRef: "PAY1750075200000AB12",
		LoanID:         7,
		Amount:         500,
		PaymentDate:    time.Date(2025, time.June, 16, 0, 0, 0, 0, time.UTC),
		Status:         loan.TransactionPaid,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}
}

func transactionRow(txn *loan.Transaction) *pgxmock.Rows {
	return pgxmock.NewRows(transactionColumns).
		AddRow(txn.ID, txn.TransactionRef, txn.LoanID, txn.Amount, txn.PaymentDate, txn.Status, txn.CreatedAt, txn.UpdatedAt)
}

func setupTransactionRepo(t *testing.T) (context.Context, *TransactionRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mockPool, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to open a stub database connection: %v", err)
	}

	ctx := context.Background()
	repo := NewTransactionRepository(mockPool, logger)

	return ctx, repo, mockPool
}

func TestInsertTransactionWhenSuccess(t *testing.T) {
	ctx, repo, mockPool := setupTransactionRepo(t)
	defer mockPool.Close()

	txn := testTransaction()
	newTxn := *txn
	newTxn.ID = 0

	mockPool.ExpectQuery(regexp.QuoteMeta("INSERT INTO transactions")).WithArgs(
		newTxn.TransactionRef, newTxn.LoanID, newTxn.Amount, newTxn.PaymentDate, newTxn.Status,
	).WillReturnRows(transactionRow(txn))

	created, err := repo.Insert(ctx, &newTxn)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, loan.TransactionPaid, created.Status)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestInsertTransactionDuplicateRef(t *testing.T) {
	ctx, repo, mockPool := setupTransactionRepo(t)
	defer mockPool.Close()

	txn := testTransaction()

	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "transactions_transaction_ref_key"}
	mockPool.ExpectQuery(regexp.QuoteMeta("INSERT INTO transactions")).WithArgs(
		txn.TransactionRef, txn.LoanID, txn.Amount, txn.PaymentDate, txn.Status,
	).WillReturnError(pgErr)

	created, err := repo.Insert(ctx, txn)
	assert.Nil(t, created)
	assert.ErrorIs(t, err, apperrors.ErrDuplicateTransaction)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestUpdateTransactionWhenSuccess(t *testing.T) {
	ctx, repo, mockPool := setupTransactionRepo(t)
	defer mockPool.Close()

	txn := testTransaction()
	txn.Amount = 750

	mockPool.ExpectQuery(regexp.QuoteMeta("UPDATE transactions")).WithArgs(
		txn.Amount, txn.PaymentDate, txn.Status, txn.ID,
	).WillReturnRows(pgxmock.NewRows([]string{"updated_at"}).AddRow(time.Now()))

	err := repo.Update(ctx, txn)
	assert.NoError(t, err)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestUpdateTransactionNotFound(t *testing.T) {
	ctx, repo, mockPool := setupTransactionRepo(t)
	defer mockPool.Close()

	txn := testTransaction()
	mockPool.ExpectQuery(regexp.QuoteMeta("UPDATE transactions")).WithArgs(
		txn.Amount, txn.PaymentDate, txn.Status, txn.ID,
	).WillReturnError(pgx.ErrNoRows)

	err := repo.Update(ctx, txn)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestGetTransactionByIDReturnOne(t *testing.T) {
	ctx, repo, mockPool := setupTransactionRepo(t)
	defer mockPool.Close()

	txn := testTransaction()
	mockPool.ExpectQuery(regexp.QuoteMeta("FROM transactions")).WithArgs(txn.ID).WillReturnRows(transactionRow(txn))

	got, err := repo.GetByID(ctx, txn.ID)
	assert.NoError(t, err)
	assert.Equal(t, txn.TransactionRef, got.TransactionRef)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestGetTransactionByIDReturnNone(t *testing.T) {
	ctx, repo, mockPool := setupTransactionRepo(t)
	defer mockPool.Close()

	mockPool.ExpectQuery(regexp.QuoteMeta("FROM transactions")).WithArgs(int64(404)).WillReturnError(pgx.ErrNoRows)

	got, err := repo.GetByID(ctx, 404)
	assert.Nil(t, got)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestGetTransactionsByLoanID(t *testing.T) {
	ctx, repo, mockPool := setupTransactionRepo(t)
	defer mockPool.Close()

	first := testTransaction()
	second := testTransaction()
	second.ID = 2
	second.TransactionRef = "TXN1750075200000CD34"
	second.Status = loan.TransactionDue

	rows := pgxmock.NewRows(transactionColumns).
		AddRow(first.ID, first.TransactionRef, first.LoanID, first.Amount, first.PaymentDate, first.Status, first.CreatedAt, first.UpdatedAt).
		AddRow(second.ID, second.TransactionRef, second.LoanID, second.Amount, second.PaymentDate, second.Status, second.CreatedAt, second.UpdatedAt)

	mockPool.ExpectQuery(regexp.QuoteMeta("WHERE loan_id = $1")).WithArgs(first.LoanID).WillReturnRows(rows)

	txns, err := repo.GetByLoanID(ctx, first.LoanID)
	assert.NoError(t, err)
	assert.Len(t, txns, 2)
	assert.Equal(t, loan.TransactionDue, txns[1].Status)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestGetTransactionsByLoanIDEmpty(t *testing.T) {
	ctx, repo, mockPool := setupTransactionRepo(t)
	defer mockPool.Close()

	mockPool.ExpectQuery(regexp.QuoteMeta("WHERE loan_id = $1")).WithArgs(int64(99)).WillReturnRows(pgxmock.NewRows(transactionColumns))

	txns, err := repo.GetByLoanID(ctx, 99)
	assert.NoError(t, err)
	assert.Empty(t, txns)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}
