package loan

import (
	"context"
	"log/slog"
	"os"
	"time"

	"trackloan/internal/domain/customer"
	"trackloan/internal/event"

	"github.com/stretchr/testify/mock"
)

var logger = slog.New(slog.NewTextHandler(os.Stdout, nil))

type MockRepository struct {
	mock.Mock
}

func (_m *MockRepository) CreateLoan(ctx context.Context, l *Loan) (*Loan, error) {
	ret := _m.Called(ctx, l)

	var r0 *Loan
	if rf, ok := ret.Get(0).(func(context.Context, *Loan) *Loan); ok {
		r0 = rf(ctx, l)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*Loan)
		}
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, *Loan) error); ok {
		r1 = rf(ctx, l)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

func (_m *MockRepository) GetLoanByID(ctx context.Context, loanID int64) (*Loan, error) {
	ret := _m.Called(ctx, loanID)

	var r0 *Loan
	if rf, ok := ret.Get(0).(func(context.Context, int64) *Loan); ok {
		r0 = rf(ctx, loanID)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*Loan)
		}
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, int64) error); ok {
		r1 = rf(ctx, loanID)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

func (_m *MockRepository) GetLoansByCustomerID(ctx context.Context, customerID int64) ([]*Loan, error) {
	ret := _m.Called(ctx, customerID)

	var r0 []*Loan
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*Loan)
	}

	return r0, ret.Error(1)
}

func (_m *MockRepository) UpdateLoanStatus(ctx context.Context, loanID int64, status LoanStatus) error {
	ret := _m.Called(ctx, loanID, status)

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, int64, LoanStatus) error); ok {
		r0 = rf(ctx, loanID, status)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

func (_m *MockRepository) GetActiveLoanIDs(ctx context.Context) ([]int64, error) {
	ret := _m.Called(ctx)

	var r0 []int64
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]int64)
	}

	return r0, ret.Error(1)
}

type MockTransactionRepository struct {
	mock.Mock
}

func (_m *MockTransactionRepository) Insert(ctx context.Context, t *Transaction) (*Transaction, error) {
	ret := _m.Called(ctx, t)

	var r0 *Transaction
	if rf, ok := ret.Get(0).(func(context.Context, *Transaction) *Transaction); ok {
		r0 = rf(ctx, t)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*Transaction)
		}
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, *Transaction) error); ok {
		r1 = rf(ctx, t)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

func (_m *MockTransactionRepository) Update(ctx context.Context, t *Transaction) error {
	ret := _m.Called(ctx, t)
	return ret.Error(0)
}

func (_m *MockTransactionRepository) GetByID(ctx context.Context, transactionID int64) (*Transaction, error) {
	ret := _m.Called(ctx, transactionID)

	var r0 *Transaction
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*Transaction)
	}

	return r0, ret.Error(1)
}

func (_m *MockTransactionRepository) GetByLoanID(ctx context.Context, loanID int64) ([]Transaction, error) {
	ret := _m.Called(ctx, loanID)

	var r0 []Transaction
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]Transaction)
	}

	return r0, ret.Error(1)
}

type MockCustomerService struct {
	mock.Mock
}

func (_m *MockCustomerService) AddCustomer(ctx context.Context, name string, mobileNumber, address *string) (*customer.Customer, error) {
	ret := _m.Called(ctx, name, mobileNumber, address)

	var r0 *customer.Customer
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*customer.Customer)
	}

	return r0, ret.Error(1)
}

func (_m *MockCustomerService) UpdateCustomer(ctx context.Context, customerID int64, name string, mobileNumber, address *string) error {
	ret := _m.Called(ctx, customerID, name, mobileNumber, address)
	return ret.Error(0)
}

func (_m *MockCustomerService) GetCustomer(ctx context.Context, customerID int64) (*customer.Customer, error) {
	ret := _m.Called(ctx, customerID)

	var r0 *customer.Customer
	if rf, ok := ret.Get(0).(func(context.Context, int64) *customer.Customer); ok {
		r0 = rf(ctx, customerID)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*customer.Customer)
		}
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, int64) error); ok {
		r1 = rf(ctx, customerID)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

func (_m *MockCustomerService) ListCustomers(ctx context.Context) ([]*customer.Customer, error) {
	ret := _m.Called(ctx)

	var r0 []*customer.Customer
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*customer.Customer)
	}

	return r0, ret.Error(1)
}

func (_m *MockCustomerService) SearchCustomers(ctx context.Context, query string) ([]*customer.Customer, error) {
	ret := _m.Called(ctx, query)

	var r0 []*customer.Customer
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*customer.Customer)
	}

	return r0, ret.Error(1)
}

func (_m *MockCustomerService) DeleteCustomer(ctx context.Context, customerID int64) error {
	ret := _m.Called(ctx, customerID)
	return ret.Error(0)
}

type MockPublisher struct {
	mock.Mock
}

func (_m *MockPublisher) PublishCustomerCreated(ctx context.Context, e event.CustomerCreatedEvent) error {
	ret := _m.Called(ctx, e)
	return ret.Error(0)
}

func (_m *MockPublisher) PublishCustomerUpdated(ctx context.Context, e event.CustomerUpdatedEvent) error {
	ret := _m.Called(ctx, e)
	return ret.Error(0)
}

func (_m *MockPublisher) PublishLoanDisbursed(ctx context.Context, e event.LoanDisbursedEvent) error {
	ret := _m.Called(ctx, e)
	return ret.Error(0)
}

func (_m *MockPublisher) PublishPaymentRecorded(ctx context.Context, e event.PaymentRecordedEvent) error {
	ret := _m.Called(ctx, e)
	return ret.Error(0)
}

func (_m *MockPublisher) PublishLoanClosed(ctx context.Context, e event.LoanClosedEvent) error {
	ret := _m.Called(ctx, e)
	return ret.Error(0)
}

func (_m *MockPublisher) PublishLoanCloseFailed(ctx context.Context, e event.LoanCloseFailedEvent) error {
	ret := _m.Called(ctx, e)
	return ret.Error(0)
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func paidTxns(n int, amount float64) []Transaction {
	txns := make([]Transaction, n)
	for i := range txns {
		txns[i] = Transaction{
			ID:          int64(i + 1),
			LoanID:      1,
			Amount:      amount,
			PaymentDate: day(2025, time.January, 6).AddDate(0, 0, i*7),
			Status:      TransactionPaid,
		}
	}
	return txns
}
