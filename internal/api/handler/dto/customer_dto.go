package dto

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"trackloan/internal/domain/customer"
)

type CreateCustomerRequest struct {
	Name         string  `json:"name"`
	MobileNumber *string `json:"mobileNumber,omitempty"`
	Address      *string `json:"address,omitempty"`
}

func (r *CreateCustomerRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("name cannot be empty")
	}
	return nil
}

type UpdateCustomerRequest struct {
	Name         string  `json:"name"`
	MobileNumber *string `json:"mobileNumber,omitempty"`
	Address      *string `json:"address,omitempty"`
}

func (r *UpdateCustomerRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("name cannot be empty")
	}
	return nil
}

type CustomerResponse struct {
	CustomerID   string    `json:"customerId"`
	Name         string    `json:"name"`
	MobileNumber *string   `json:"mobileNumber,omitempty"`
	Address      *string   `json:"address,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func NewCustomerResponse(c *customer.Customer) CustomerResponse {
	return CustomerResponse{
		CustomerID:   strconv.FormatInt(c.CustomerID, 10),
		Name:         c.Name,
		MobileNumber: c.MobileNumber,
		Address:      c.Address,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}
