package customer

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("customer not found")

type CustomerRepository interface {
	Save(ctx context.Context, customer *Customer) error

	FindByID(ctx context.Context, customerID int64) (*Customer, error)

	FindAll(ctx context.Context) ([]*Customer, error)

	SearchByName(ctx context.Context, query string) ([]*Customer, error)

	// Delete removes the customer; the store cascades to the customer's loans
	// and their transactions.
	Delete(ctx context.Context, customerID int64) error
}
