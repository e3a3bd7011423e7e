package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"trackloan/internal/domain/customer"
	"trackloan/internal/infrastructure/monitoring"
	"trackloan/internal/pkg/apperrors"

	"github.com/jackc/pgx/v5"
)

type CustomerRepository struct {
	db     DBPool
	logger *slog.Logger
}

var _ customer.CustomerRepository = (*CustomerRepository)(nil)

func NewCustomerRepository(db DBPool, logger *slog.Logger) *CustomerRepository {
	if db == nil {
		panic("DBPool cannot be nil for CustomerRepository")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("Warning: No logger provided to NewCustomerRepository, using default stderr handler")
	}
	return &CustomerRepository{
		db:     db,
		logger: logger.With("component", "CustomerRepository"),
	}
}

func (r *CustomerRepository) Save(ctx context.Context, cust *customer.Customer) error {
	if cust == nil {
		return fmt.Errorf("%w: customer cannot be nil", apperrors.ErrInvalidArgument)
	}

	if cust.CustomerID == 0 {
		return r.createCustomer(ctx, cust)
	}
	return r.updateCustomer(ctx, cust)
}

func (r *CustomerRepository) createCustomer(ctx context.Context, cust *customer.Customer) error {
	r.logger.InfoContext(ctx, "Attempting to insert new customer", slog.String("name", cust.Name))

	query := `
        INSERT INTO customers (name, mobile_number, address, created_at, updated_at)
        VALUES ($1, $2, $3, NOW(), NOW())
        RETURNING id, created_at, updated_at`

	status := "success"
	startTime := time.Now()
	err := r.db.QueryRow(ctx, query,
		cust.Name,
		cust.MobileNumber,
		cust.Address,
	).Scan(
		&cust.CustomerID,
		&cust.CreatedAt,
		&cust.UpdatedAt,
	)
	if err != nil {
		status = "error"
	}
	monitoring.RecordDBQuery("CreateCustomer", status, time.Since(startTime))

	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to insert customer", slog.Any("error", err))
		return translateDBError(err, r.logger)
	}

	r.logger.InfoContext(ctx, "Customer created in DB", slog.Int64("customerID", cust.CustomerID))
	return nil
}

func (r *CustomerRepository) updateCustomer(ctx context.Context, cust *customer.Customer) error {
	r.logger.InfoContext(ctx, "Attempting to update customer", slog.Int64("customerID", cust.CustomerID))

	query := `
        UPDATE customers
        SET name = $1, mobile_number = $2, address = $3, updated_at = NOW()
        WHERE id = $4
        RETURNING updated_at`

	status := "success"
	startTime := time.Now()
	err := r.db.QueryRow(ctx, query,
		cust.Name,
		cust.MobileNumber,
		cust.Address,
		cust.CustomerID,
	).Scan(&cust.UpdatedAt)
	if err != nil {
		status = "error"
	}
	monitoring.RecordDBQuery("UpdateCustomer", status, time.Since(startTime))

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.WarnContext(ctx, "Customer not found for update", slog.Int64("customerID", cust.CustomerID))
			return customer.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Failed to update customer", slog.Any("error", err))
		return translateDBError(err, r.logger)
	}

	r.logger.InfoContext(ctx, "Customer updated in DB", slog.Int64("customerID", cust.CustomerID))
	return nil
}

func (r *CustomerRepository) FindByID(ctx context.Context, customerID int64) (*customer.Customer, error) {
	query := `
        SELECT id, name, mobile_number, address, created_at, updated_at
        FROM customers
        WHERE id = $1`

	status := "success"
	startTime := time.Now()

	var cust customer.Customer
	err := r.db.QueryRow(ctx, query, customerID).Scan(
		&cust.CustomerID, &cust.Name, &cust.MobileNumber, &cust.Address,
		&cust.CreatedAt, &cust.UpdatedAt,
	)
	if err != nil {
		status = "error"
	}
	monitoring.RecordDBQuery("FindCustomerByID", status, time.Since(startTime))

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.WarnContext(ctx, "Customer not found", slog.Int64("customerID", customerID))
			return nil, customer.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Failed to get customer by ID", slog.Int64("customerID", customerID), slog.Any("error", err))
		return nil, translateDBError(err, r.logger)
	}
	return &cust, nil
}

func (r *CustomerRepository) FindAll(ctx context.Context) ([]*customer.Customer, error) {
	query := `
        SELECT id, name, mobile_number, address, created_at, updated_at
        FROM customers
        ORDER BY name ASC`

	return r.queryCustomers(ctx, "FindAllCustomers", query)
}

func (r *CustomerRepository) SearchByName(ctx context.Context, search string) ([]*customer.Customer, error) {
	query := `
        SELECT id, name, mobile_number, address, created_at, updated_at
        FROM customers
        WHERE name ILIKE '%' || $1 || '%'
        ORDER BY name ASC`

	return r.queryCustomers(ctx, "SearchCustomersByName", query, search)
}

func (r *CustomerRepository) queryCustomers(ctx context.Context, queryName, query string, args ...any) ([]*customer.Customer, error) {
	status := "success"
	startTime := time.Now()

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		monitoring.RecordDBQuery(queryName, "error", time.Since(startTime))
		r.logger.ErrorContext(ctx, "Failed to query customers", slog.String("query_name", queryName), slog.Any("error", err))
		return nil, translateDBError(err, r.logger)
	}
	defer rows.Close()

	customers := make([]*customer.Customer, 0)
	for rows.Next() {
		var cust customer.Customer
		err := rows.Scan(
			&cust.CustomerID, &cust.Name, &cust.MobileNumber, &cust.Address,
			&cust.CreatedAt, &cust.UpdatedAt,
		)
		if err != nil {
			monitoring.RecordDBQuery(queryName, "error", time.Since(startTime))
			r.logger.ErrorContext(ctx, "Failed to scan customer row", slog.Any("error", err))
			return nil, translateDBError(err, r.logger)
		}
		customers = append(customers, &cust)
	}

	if err = rows.Err(); err != nil {
		status = "error"
	}
	monitoring.RecordDBQuery(queryName, status, time.Since(startTime))

	if err != nil {
		r.logger.ErrorContext(ctx, "Error iterating customer rows", slog.Any("error", err))
		return nil, translateDBError(err, r.logger)
	}

	return customers, nil
}

// Delete removes the customer row; loans and transactions cascade via
// foreign keys.
func (r *CustomerRepository) Delete(ctx context.Context, customerID int64) error {
	query := `DELETE FROM customers WHERE id = $1`

	status := "success"
	startTime := time.Now()
	cmdTag, err := r.db.Exec(ctx, query, customerID)
	if err != nil {
		status = "error"
	}
	monitoring.RecordDBQuery("DeleteCustomer", status, time.Since(startTime))

	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to delete customer", slog.Int64("customerID", customerID), slog.Any("error", err))
		return translateDBError(err, r.logger)
	}
	if cmdTag.RowsAffected() == 0 {
		r.logger.WarnContext(ctx, "Customer not found for delete", slog.Int64("customerID", customerID))
		return customer.ErrNotFound
	}

	r.logger.InfoContext(ctx, "Customer deleted from DB", slog.Int64("customerID", customerID))
	return nil
}
