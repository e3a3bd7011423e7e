package dto

import (
	"fmt"
	"strconv"
	"time"

	"trackloan/internal/domain/loan"

	"github.com/shopspring/decimal"
)

type ProcessPaymentRequest struct {
	Amount      string `json:"amount"`
	PaymentDate string `json:"paymentDate"`
}

func (r *ProcessPaymentRequest) Validate() error {
	if _, err := decimal.NewFromString(r.Amount); err != nil || r.Amount == "" {
		return fmt.Errorf("invalid payment amount: %w", err)
	}
	if _, err := time.Parse(time.RFC3339[:10], r.PaymentDate); err != nil || r.PaymentDate == "" {
		return fmt.Errorf("invalid paymentDate format (use YYYY-MM-DD): %w", err)
	}
	return nil
}

type RecordDuePaymentRequest struct {
	Amount      string `json:"amount"`
	PaymentDate string `json:"paymentDate"`
}

func (r *RecordDuePaymentRequest) Validate() error {
	if _, err := decimal.NewFromString(r.Amount); err != nil || r.Amount == "" {
		return fmt.Errorf("invalid payment amount: %w", err)
	}
	if _, err := time.Parse(time.RFC3339[:10], r.PaymentDate); err != nil || r.PaymentDate == "" {
		return fmt.Errorf("invalid paymentDate format (use YYYY-MM-DD): %w", err)
	}
	return nil
}

type UpdateTransactionAmountRequest struct {
	Amount string `json:"amount"`
}

func (r *UpdateTransactionAmountRequest) Validate() error {
	if _, err := decimal.NewFromString(r.Amount); err != nil || r.Amount == "" {
		return fmt.Errorf("invalid amount: %w", err)
	}
	return nil
}

type PaymentResponse struct {
	TransactionID  string `json:"transactionId"`
	TransactionRef string `json:"transactionRef"`
	IsLastPayment  bool   `json:"isLastPayment"`
	ClosureApplied bool   `json:"closureApplied"`
}

type TransactionResponse struct {
	ID             string    `json:"id"`
	TransactionRef string    `json:"transactionRef"`
	LoanID         string    `json:"loanId"`
	Amount         string    `json:"amount"`
	PaymentDate    string    `json:"paymentDate"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func NewPaymentResponse(result *loan.PaymentResult) PaymentResponse {
	return PaymentResponse{
		TransactionID:  strconv.FormatInt(result.TransactionID, 10),
		TransactionRef: result.TransactionRef,
		IsLastPayment:  result.IsLastPayment,
		ClosureApplied: result.ClosureApplied,
	}
}

func NewTransactionResponse(t *loan.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:             strconv.FormatInt(t.ID, 10),
		TransactionRef: t.TransactionRef,
		LoanID:         strconv.FormatInt(t.LoanID, 10),
		Amount:         formatMoney(t.Amount),
		PaymentDate:    t.PaymentDate.Format(time.RFC3339[:10]),
		Status:         string(t.Status),
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}
}
