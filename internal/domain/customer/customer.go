package customer

import "time"

type Customer struct {
	CustomerID   int64     `json:"customerId"`
	Name         string    `json:"name"`
	MobileNumber *string   `json:"mobileNumber,omitempty"`
	Address      *string   `json:"address,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func NewCustomer(name string, mobileNumber, address *string) *Customer {
	now := time.Now()
	return &Customer{
		Name:         name,
		MobileNumber: mobileNumber,
		Address:      address,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
