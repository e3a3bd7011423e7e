package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewValidationError(t *testing.T) {
	err := NewValidationError("loanAmount", "Loan amount must be in multiples of 100")

	assert.ErrorIs(t, err, ErrValidation)

	var vErr *ValidationError
	assert.ErrorAs(t, err, &vErr)
	assert.Equal(t, "loanAmount", vErr.Field)
	assert.Equal(t, "Loan amount must be in multiples of 100", vErr.Message)
	assert.Contains(t, err.Error(), "loanAmount")
}

func TestValidationErrorWithoutField(t *testing.T) {
	vErr := &ValidationError{Message: "something is off"}

	assert.Equal(t, "validation failed: something is off", vErr.Error())
}

func TestNewInvalidAmountError(t *testing.T) {
	err := NewInvalidAmountError(-5, "Payment amount must be positive")

	assert.ErrorIs(t, err, ErrInvalidPaymentAmount)

	var amtErr *InvalidAmountError
	assert.ErrorAs(t, err, &amtErr)
	assert.Equal(t, -5.0, amtErr.Amount)
	assert.Contains(t, err.Error(), "-5.00")
}

func TestWrapDatabaseError(t *testing.T) {
	cause := errors.New("connection refused")
	err := WrapDatabaseError(cause, "failed to save loan")

	assert.ErrorIs(t, err, ErrDatabase)
	assert.ErrorIs(t, err, cause)

	var appErr *AppError
	assert.ErrorAs(t, err, &appErr)
	assert.Equal(t, "DB_ERROR", appErr.Code)
	assert.Equal(t, "[DB_ERROR] failed to save loan", appErr.Error())
}

func TestSentinelWrappingSurvivesAnnotation(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
	}{
		{"NotFound", fmt.Errorf("%w: loan with ID 7 not found", ErrNotFound), ErrNotFound},
		{"LoanClosed", fmt.Errorf("%w: loan 7", ErrLoanClosed), ErrLoanClosed},
		{"Duplicate", fmt.Errorf("%w: PAY123", ErrDuplicateTransaction), ErrDuplicateTransaction},
		{"ActiveLoans", fmt.Errorf("%w: customer 3", ErrCustomerHasActiveLoans), ErrCustomerHasActiveLoans},
		{"Network", fmt.Errorf("%w: upstream timeout", ErrNetwork), ErrNetwork},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.err, tt.sentinel)
		})
	}
}

func TestSentinelsAreDistinct(t *testing.T) {
	assert.NotErrorIs(t, ErrValidation, ErrInvalidArgument)
	assert.NotErrorIs(t, ErrInvalidPaymentAmount, ErrValidation)
	assert.NotErrorIs(t, ErrLoanClosed, ErrNotFound)
}
