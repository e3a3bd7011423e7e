package event

import "context"

// NoopPublisher stands in when RabbitMQ is disabled, keeping the workflows
// free of nil checks.
type NoopPublisher struct{}

var _ Publisher = (*NoopPublisher)(nil)

func (NoopPublisher) PublishCustomerCreated(context.Context, CustomerCreatedEvent) error { return nil }
func (NoopPublisher) PublishCustomerUpdated(context.Context, CustomerUpdatedEvent) error { return nil }
func (NoopPublisher) PublishLoanDisbursed(context.Context, LoanDisbursedEvent) error     { return nil }
func (NoopPublisher) PublishPaymentRecorded(context.Context, PaymentRecordedEvent) error { return nil }
func (NoopPublisher) PublishLoanClosed(context.Context, LoanClosedEvent) error           { return nil }
func (NoopPublisher) PublishLoanCloseFailed(context.Context, LoanCloseFailedEvent) error { return nil }
