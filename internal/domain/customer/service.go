package customer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strings"
	"time"

	"trackloan/internal/event"
	"trackloan/internal/pkg/apperrors"
)

const (
	inputValidationPassed = "Input validation passed"
	customerNotFound      = "Customer not found by repository"

	nameMinLength    = 2
	nameMaxLength    = 30
	addressMaxLength = 50
)

var mobileNumberPattern = regexp.MustCompile(`^[+]?[0-9]{10,15}$`)

type CustomerService interface {
	AddCustomer(ctx context.Context, name string, mobileNumber, address *string) (*Customer, error)
	UpdateCustomer(ctx context.Context, customerID int64, name string, mobileNumber, address *string) error
	GetCustomer(ctx context.Context, customerID int64) (*Customer, error)
	ListCustomers(ctx context.Context) ([]*Customer, error)
	SearchCustomers(ctx context.Context, query string) ([]*Customer, error)
	DeleteCustomer(ctx context.Context, customerID int64) error
}

var _ CustomerService = (*customerService)(nil)

type customerService struct {
	repo   CustomerRepository
	pub    event.Publisher
	logger *slog.Logger
}

func NewCustomerService(repo CustomerRepository, pub event.Publisher, logger *slog.Logger) CustomerService {
	if repo == nil {
		panic("customer repository cannot be nil")
	}
	if pub == nil {
		pub = event.NoopPublisher{}
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("Warning: No logger provided to NewCustomerService, using default stderr handler")
	}

	return &customerService{
		repo:   repo,
		pub:    pub,
		logger: logger.With(slog.String("component", "customerService")),
	}
}

func newCustomerEventPayload(cust *Customer) event.CustomerEventPayload {
	if cust == nil {
		return event.CustomerEventPayload{}
	}
	return event.CustomerEventPayload{
		CustomerID:   cust.CustomerID,
		Name:         cust.Name,
		MobileNumber: cust.MobileNumber,
		Address:      cust.Address,
		CreatedAt:    cust.CreatedAt,
		UpdatedAt:    cust.UpdatedAt,
	}
}

func (s *customerService) AddCustomer(ctx context.Context, name string, mobileNumber, address *string) (*Customer, error) {
	s.logger.InfoContext(ctx, "Attempting to add new customer")

	name = strings.TrimSpace(name)
	mobileNumber = trimOptional(mobileNumber)
	address = trimOptional(address)

	if err := validateName(name); err != nil {
		s.logger.WarnContext(ctx, "Validation failed for customer name", slog.Any("error", err))
		return nil, err
	}
	if err := validateMobileNumber(mobileNumber); err != nil {
		s.logger.WarnContext(ctx, "Validation failed for mobile number", slog.Any("error", err))
		return nil, err
	}
	s.logger.InfoContext(ctx, inputValidationPassed)

	cust := NewCustomer(name, mobileNumber, address)

	s.logger.InfoContext(ctx, "Calling repository Save")
	if err := s.repo.Save(ctx, cust); err != nil {
		s.logger.ErrorContext(ctx, "Repository failed to save new customer", slog.Any("error", err))
		return nil, fmt.Errorf("failed to save new customer: %w", err)
	}

	logCtx := s.logger.With(slog.Int64("customerID", cust.CustomerID))
	logCtx.InfoContext(ctx, "Successfully saved new customer, publishing creation event")
	createdEvent := event.CustomerCreatedEvent{
		Timestamp: time.Now(),
		Payload:   newCustomerEventPayload(cust),
	}
	if pubErr := s.pub.PublishCustomerCreated(ctx, createdEvent); pubErr != nil {
		logCtx.ErrorContext(ctx, "Customer created, but FAILED to publish creation event", slog.Any("error", pubErr))
	}

	logCtx.InfoContext(ctx, "Successfully added new customer")
	return cust, nil
}

func (s *customerService) UpdateCustomer(ctx context.Context, customerID int64, name string, mobileNumber, address *string) error {
	logCtx := s.logger.With(slog.Int64("customerID", customerID))
	logCtx.InfoContext(ctx, "Attempting to update customer")

	if customerID <= 0 {
		return apperrors.NewValidationError("customerId", "Invalid customer ID")
	}

	name = strings.TrimSpace(name)
	mobileNumber = trimOptional(mobileNumber)
	address = trimOptional(address)

	if err := validateName(name); err != nil {
		logCtx.WarnContext(ctx, "Validation failed for customer name", slog.Any("error", err))
		return err
	}
	if err := validateMobileNumber(mobileNumber); err != nil {
		logCtx.WarnContext(ctx, "Validation failed for mobile number", slog.Any("error", err))
		return err
	}
	if address != nil && len(*address) > addressMaxLength {
		logCtx.WarnContext(ctx, "Validation failed: address too long")
		return apperrors.NewValidationError("address", fmt.Sprintf("Address cannot exceed %d characters", addressMaxLength))
	}
	logCtx.InfoContext(ctx, inputValidationPassed)

	logCtx.InfoContext(ctx, "Calling repository FindByID to get current customer data")
	cust, err := s.repo.FindByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			logCtx.WarnContext(ctx, "Customer not found by repository for update")
			return fmt.Errorf("%w: customer %d", apperrors.ErrNotFound, customerID)
		}
		logCtx.ErrorContext(ctx, "Repository error finding customer for update", slog.Any("error", err))
		return fmt.Errorf("cannot find customer %d to update: %w", customerID, err)
	}

	cust.Name = name
	cust.MobileNumber = mobileNumber
	cust.Address = address
	cust.UpdatedAt = time.Now()

	logCtx.InfoContext(ctx, "Calling repository Save to persist customer update")
	if err := s.repo.Save(ctx, cust); err != nil {
		logCtx.ErrorContext(ctx, "Repository failed to save updated customer", slog.Any("error", err))
		if errors.Is(err, ErrNotFound) {
			return fmt.Errorf("%w: customer %d", apperrors.ErrNotFound, customerID)
		}
		return fmt.Errorf("failed to save updated customer %d: %w", customerID, err)
	}

	updatedEvent := event.CustomerUpdatedEvent{
		Timestamp: time.Now(),
		Payload:   newCustomerEventPayload(cust),
	}
	if pubErr := s.pub.PublishCustomerUpdated(ctx, updatedEvent); pubErr != nil {
		logCtx.ErrorContext(ctx, "Customer updated, but FAILED to publish update event", slog.Any("error", pubErr))
	}

	logCtx.InfoContext(ctx, "Successfully updated customer")
	return nil
}

func (s *customerService) GetCustomer(ctx context.Context, customerID int64) (*Customer, error) {
	s.logger.InfoContext(ctx, "Attempting to get customer by ID", slog.Int64("customerID", customerID))

	cust, err := s.repo.FindByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			s.logger.WarnContext(ctx, customerNotFound)
			return nil, fmt.Errorf("%w: customer %d", apperrors.ErrNotFound, customerID)
		}
		s.logger.ErrorContext(ctx, "Repository error finding customer", slog.Any("error", err))
		return nil, fmt.Errorf("failed to get customer %d: %w", customerID, err)
	}

	return cust, nil
}

func (s *customerService) ListCustomers(ctx context.Context) ([]*Customer, error) {
	s.logger.InfoContext(ctx, "Attempting to list all customers")

	customers, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Repository error listing customers", slog.Any("error", err))
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}

	s.logger.InfoContext(ctx, "Successfully retrieved customers", slog.Int("count", len(customers)))
	return customers, nil
}

func (s *customerService) SearchCustomers(ctx context.Context, query string) ([]*Customer, error) {
	query = strings.TrimSpace(query)
	s.logger.InfoContext(ctx, "Attempting to search customers", slog.String("query", query))

	if query == "" {
		return s.ListCustomers(ctx)
	}

	customers, err := s.repo.SearchByName(ctx, query)
	if err != nil {
		s.logger.ErrorContext(ctx, "Repository error searching customers", slog.Any("error", err))
		return nil, fmt.Errorf("failed to search customers: %w", err)
	}

	s.logger.InfoContext(ctx, "Successfully searched customers", slog.Int("count", len(customers)))
	return customers, nil
}

func (s *customerService) DeleteCustomer(ctx context.Context, customerID int64) error {
	logCtx := s.logger.With(slog.Int64("customerID", customerID))
	logCtx.InfoContext(ctx, "Attempting to delete customer")

	if customerID <= 0 {
		return apperrors.NewValidationError("customerId", "Invalid customer ID")
	}

	if err := s.repo.Delete(ctx, customerID); err != nil {
		if errors.Is(err, ErrNotFound) {
			logCtx.WarnContext(ctx, customerNotFound)
			return fmt.Errorf("%w: customer %d", apperrors.ErrNotFound, customerID)
		}
		logCtx.ErrorContext(ctx, "Repository error deleting customer", slog.Any("error", err))
		return fmt.Errorf("failed to delete customer %d: %w", customerID, err)
	}

	logCtx.InfoContext(ctx, "Successfully deleted customer")
	return nil
}

func validateName(name string) error {
	if name == "" {
		return apperrors.NewValidationError("name", "Customer name cannot be empty")
	}
	if len(name) < nameMinLength {
		return apperrors.NewValidationError("name", fmt.Sprintf("Customer name must be at least %d characters", nameMinLength))
	}
	if len(name) > nameMaxLength {
		return apperrors.NewValidationError("name", fmt.Sprintf("Customer name cannot exceed %d characters", nameMaxLength))
	}
	return nil
}

func validateMobileNumber(mobileNumber *string) error {
	if mobileNumber == nil {
		return nil
	}
	if !mobileNumberPattern.MatchString(*mobileNumber) {
		return apperrors.NewValidationError("mobileNumber", "Please enter a valid mobile number")
	}
	return nil
}

// trimOptional normalizes an optional field: whitespace is stripped and an
// empty value collapses to absent.
func trimOptional(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
