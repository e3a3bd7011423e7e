package loan

import "time"

type TransactionStatus string

const (
	TransactionPaid TransactionStatus = "PAID"
	TransactionDue  TransactionStatus = "DUE"
	// TransactionOverdue is never persisted; it only appears through
	// ProjectStatus at read time.
	TransactionOverdue TransactionStatus = "OVERDUE"
)

type Transaction struct {
	ID             int64             `json:"id"`
	TransactionRef string            `json:"transactionRef"`
	LoanID         int64             `json:"loanId"`
	Amount         float64           `json:"amount"`
	PaymentDate    time.Time         `json:"paymentDate"`
	Status         TransactionStatus `json:"status"`
	CreatedAt      time.Time         `json:"createdAt"`
	UpdatedAt      time.Time         `json:"updatedAt"`
}

// ProjectStatus reclassifies a DUE transaction as OVERDUE once its payment
// date has passed. The stored status is never rewritten by this rule.
func ProjectStatus(t Transaction, now time.Time) TransactionStatus {
	if t.Status != TransactionDue {
		return t.Status
	}
	today := truncateToDay(now)
	if truncateToDay(t.PaymentDate).Before(today) {
		return TransactionOverdue
	}
	return TransactionDue
}

// ProjectTransactions applies ProjectStatus to a result set without mutating
// the input slice.
func ProjectTransactions(txns []Transaction, now time.Time) []Transaction {
	projected := make([]Transaction, len(txns))
	for i, t := range txns {
		t.Status = ProjectStatus(t, now)
		projected[i] = t
	}
	return projected
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
