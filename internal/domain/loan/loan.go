package loan

import "time"

const (
	MinTenure = 1
	MaxTenure = 52

	// Loan principals are collected in round figures.
	AmountGranularity = 100
)

type LoanStatus string

const (
	StatusActive LoanStatus = "ACTIVE"
	StatusClosed LoanStatus = "CLOSED"
	// StatusDefaulted is modeled but never assigned by any workflow.
	StatusDefaulted LoanStatus = "DEFAULTED"
)

type EMIType string

const (
	EMITypeDaily   EMIType = "DAILY"
	EMITypeWeekly  EMIType = "WEEKLY"
	EMITypeMonthly EMIType = "MONTHLY"
)

type Loan struct {
	ID           int64      `json:"id"`
	CustomerID   int64      `json:"customerId"`
	LoanAmount   float64    `json:"loanAmount"`
	EMIAmount    float64    `json:"emiAmount"`
	Tenure       int        `json:"tenure"`
	EMIType      EMIType    `json:"emiType"`
	EMIStartDate time.Time  `json:"emiStartDate"`
	Status       LoanStatus `json:"status"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// TotalExpected is the amount that must be collected before the loan may
// close.
func (l *Loan) TotalExpected() float64 {
	return l.EMIAmount * float64(l.Tenure)
}

func (l *Loan) IsActive() bool {
	return l.Status == StatusActive
}
