package dto

import (
	"fmt"
	"strconv"
	"time"

	"trackloan/internal/domain/loan"

	"github.com/shopspring/decimal"
)

type DisburseLoanRequest struct {
	CustomerID   int64   `json:"customerId"`
	LoanAmount   float64 `json:"loanAmount"`
	EMIAmount    float64 `json:"emiAmount"`
	Tenure       int     `json:"tenure"`
	EMIStartDate string  `json:"emiStartDate"`
}

func (r *DisburseLoanRequest) Validate() error {
	if r.CustomerID <= 0 {
		return fmt.Errorf("customerId must be positive")
	}
	if r.LoanAmount <= 0 {
		return fmt.Errorf("loanAmount must be greater than zero")
	}
	if r.EMIAmount <= 0 {
		return fmt.Errorf("emiAmount must be greater than zero")
	}
	if r.Tenure <= 0 {
		return fmt.Errorf("tenure must be positive")
	}
	if _, err := time.Parse(time.RFC3339[:10], r.EMIStartDate); err != nil || r.EMIStartDate == "" {
		return fmt.Errorf("invalid emiStartDate format (use YYYY-MM-DD): %w", err)
	}
	return nil
}

type LoanResponse struct {
	ID           string    `json:"id"`
	CustomerID   string    `json:"customerId"`
	LoanAmount   string    `json:"loanAmount"`
	EMIAmount    string    `json:"emiAmount"`
	Tenure       int       `json:"tenure"`
	EMIType      string    `json:"emiType"`
	EMIStartDate string    `json:"emiStartDate"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type InstallmentResponse struct {
	Number  int    `json:"number"`
	Amount  string `json:"amount"`
	DueDate string `json:"dueDate"`
}

type ProgressResponse struct {
	TotalExpected   string `json:"totalExpected"`
	PaidAmount      string `json:"paidAmount"`
	Remaining       string `json:"remaining"`
	CompletedCount  int    `json:"completedCount"`
	TotalCount      int    `json:"totalCount"`
	PercentComplete int    `json:"percentComplete"`
}

type LoanSummaryResponse struct {
	Loan            LoanResponse         `json:"loan"`
	Progress        ProgressResponse     `json:"progress"`
	NextInstallment *InstallmentResponse `json:"nextInstallment,omitempty"`
}

type ErrorDetail struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type TokenRequest struct {
	Username string `json:"username"`
}

func formatMoney(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

func NewLoanResponse(domainLoan *loan.Loan) LoanResponse {
	return LoanResponse{
		ID:           strconv.FormatInt(domainLoan.ID, 10),
		CustomerID:   strconv.FormatInt(domainLoan.CustomerID, 10),
		LoanAmount:   formatMoney(domainLoan.LoanAmount),
		EMIAmount:    formatMoney(domainLoan.EMIAmount),
		Tenure:       domainLoan.Tenure,
		EMIType:      string(domainLoan.EMIType),
		EMIStartDate: domainLoan.EMIStartDate.Format(time.RFC3339[:10]),
		Status:       string(domainLoan.Status),
		CreatedAt:    domainLoan.CreatedAt,
		UpdatedAt:    domainLoan.UpdatedAt,
	}
}

func NewInstallmentResponse(inst *loan.Installment) *InstallmentResponse {
	if inst == nil {
		return nil
	}
	return &InstallmentResponse{
		Number:  inst.Number,
		Amount:  formatMoney(inst.Amount),
		DueDate: inst.DueDate.Format(time.RFC3339[:10]),
	}
}

func NewProgressResponse(p loan.Progress) ProgressResponse {
	return ProgressResponse{
		TotalExpected:   formatMoney(p.TotalExpected),
		PaidAmount:      formatMoney(p.PaidAmount),
		Remaining:       formatMoney(p.Remaining),
		CompletedCount:  p.CompletedCount,
		TotalCount:      p.TotalCount,
		PercentComplete: p.PercentComplete,
	}
}

func NewLoanSummaryResponse(s *loan.Summary) LoanSummaryResponse {
	return LoanSummaryResponse{
		Loan:            NewLoanResponse(s.Loan),
		Progress:        NewProgressResponse(s.Progress),
		NextInstallment: NewInstallmentResponse(s.NextInstallment),
	}
}
