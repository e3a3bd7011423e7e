package dto

import (
	"testing"
	"time"

	"trackloan/internal/domain/loan"

	"github.com/stretchr/testify/assert"
)

func TestProcessPaymentRequestValidate(t *testing.T) {
	t.Run("accepts numeric amount and ISO date", func(t *testing.T) {
		req := ProcessPaymentRequest{Amount: "500.50", PaymentDate: "2025-06-16"}
		assert.NoError(t, req.Validate())
	})

	t.Run("rejects non numeric amount", func(t *testing.T) {
		req := ProcessPaymentRequest{Amount: "abc", PaymentDate: "2025-06-16"}
		assert.Error(t, req.Validate())
	})

	t.Run("rejects empty amount", func(t *testing.T) {
		req := ProcessPaymentRequest{Amount: "", PaymentDate: "2025-06-16"}
		assert.Error(t, req.Validate())
	})

	t.Run("rejects malformed date", func(t *testing.T) {
		req := ProcessPaymentRequest{Amount: "500", PaymentDate: "16-06-2025"}
		assert.Error(t, req.Validate())
	})
}

func TestUpdateTransactionAmountRequestValidate(t *testing.T) {
	assert.NoError(t, (&UpdateTransactionAmountRequest{Amount: "750"}).Validate())
	assert.Error(t, (&UpdateTransactionAmountRequest{Amount: ""}).Validate())
	assert.Error(t, (&UpdateTransactionAmountRequest{Amount: "seven"}).Validate())
}

func TestNewTransactionResponse(t *testing.T) {
	txn := &loan.Transaction{
		ID:             3,
		TransactionRef: "PAY1750075200000AB12",
		LoanID:         5,
		Amount:         500.5,
		PaymentDate:    time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC),
		Status:         loan.TransactionPaid,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}

	response := NewTransactionResponse(txn)

	assert.Equal(t, "3", response.ID)
	assert.Equal(t, "PAY1750075200000AB12", response.TransactionRef)
	assert.Equal(t, "5", response.LoanID)
	assert.Equal(t, "500.50", response.Amount)
	assert.Equal(t, "2025-06-16", response.PaymentDate)
	assert.Equal(t, "PAID", response.Status)
}

func TestNewPaymentResponse(t *testing.T) {
	result := &loan.PaymentResult{
		TransactionID:  9,
		TransactionRef: "PAY1750075200000AB12",
		IsLastPayment:  true,
		ClosureApplied: false,
	}

	response := NewPaymentResponse(result)

	assert.Equal(t, "9", response.TransactionID)
	assert.True(t, response.IsLastPayment)
	assert.False(t, response.ClosureApplied)
}
