package event

import (
	"context"
	"time"
)

type CustomerEventPayload struct {
	CustomerID   int64     `json:"customerId"`
	Name         string    `json:"name"`
	MobileNumber *string   `json:"mobileNumber,omitempty"`
	Address      *string   `json:"address,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type CustomerCreatedEvent struct {
	Timestamp time.Time            `json:"timestamp"`
	Payload   CustomerEventPayload `json:"payload"`
}

type CustomerUpdatedEvent struct {
	Timestamp time.Time            `json:"timestamp"`
	Payload   CustomerEventPayload `json:"payload"`
}

type LoanDisbursedEvent struct {
	LoanID       int64     `json:"loanId"`
	CustomerID   int64     `json:"customerId"`
	LoanAmount   float64   `json:"loanAmount"`
	EMIAmount    float64   `json:"emiAmount"`
	Tenure       int       `json:"tenure"`
	EMIStartDate time.Time `json:"emiStartDate"`
	Timestamp    time.Time `json:"timestamp"`
}

type PaymentRecordedEvent struct {
	TransactionID  int64     `json:"transactionId"`
	TransactionRef string    `json:"transactionRef"`
	LoanID         int64     `json:"loanId"`
	Amount         float64   `json:"amount"`
	Status         string    `json:"status"`
	IsLastPayment  bool      `json:"isLastPayment"`
	Timestamp      time.Time `json:"timestamp"`
}

type LoanClosedEvent struct {
	LoanID    int64     `json:"loanId"`
	Timestamp time.Time `json:"timestamp"`
}

// LoanCloseFailedEvent surfaces the one deliberately swallowed failure in the
// payment flow: the payment settled the loan but the ACTIVE→CLOSED status
// update did not stick.
type LoanCloseFailedEvent struct {
	LoanID        int64     `json:"loanId"`
	TransactionID int64     `json:"transactionId"`
	Reason        string    `json:"reason"`
	Timestamp     time.Time `json:"timestamp"`
}

type Publisher interface {
	PublishCustomerCreated(ctx context.Context, event CustomerCreatedEvent) error
	PublishCustomerUpdated(ctx context.Context, event CustomerUpdatedEvent) error
	PublishLoanDisbursed(ctx context.Context, event LoanDisbursedEvent) error
	PublishPaymentRecorded(ctx context.Context, event PaymentRecordedEvent) error
	PublishLoanClosed(ctx context.Context, event LoanClosedEvent) error
	PublishLoanCloseFailed(ctx context.Context, event LoanCloseFailedEvent) error
}
