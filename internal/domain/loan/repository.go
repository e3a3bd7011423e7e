package loan

import "context"

type Repository interface {
	// CreateLoan persists the loan and fills in its store-issued identifier
	// and timestamps.
	CreateLoan(ctx context.Context, l *Loan) (*Loan, error)

	GetLoanByID(ctx context.Context, loanID int64) (*Loan, error)

	GetLoansByCustomerID(ctx context.Context, customerID int64) ([]*Loan, error)

	UpdateLoanStatus(ctx context.Context, loanID int64, status LoanStatus) error

	GetActiveLoanIDs(ctx context.Context) ([]int64, error)
}

type TransactionRepository interface {
	// Insert persists the transaction and fills in its store-issued
	// identifier and timestamps.
	Insert(ctx context.Context, t *Transaction) (*Transaction, error)

	Update(ctx context.Context, t *Transaction) error

	GetByID(ctx context.Context, transactionID int64) (*Transaction, error)

	GetByLoanID(ctx context.Context, loanID int64) ([]Transaction, error)
}
