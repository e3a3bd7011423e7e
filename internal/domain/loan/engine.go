package loan

// The accounting engine: pure derivations over a loan and its transaction
// history. Nothing here does I/O; the services fetch the data and pass "now"
// in explicitly so the results are reproducible.

import "time"

type Installment struct {
	Number  int       `json:"number"`
	Amount  float64   `json:"amount"`
	DueDate time.Time `json:"dueDate"`
}

type Progress struct {
	TotalExpected   float64 `json:"totalExpected"`
	PaidAmount      float64 `json:"paidAmount"`
	Remaining       float64 `json:"remaining"`
	CompletedCount  int     `json:"completedCount"`
	TotalCount      int     `json:"totalCount"`
	PercentComplete int     `json:"percentComplete"`
}

// NextDueInstallment returns the upcoming installment for an active loan, or
// nil when every installment has been paid. The nominal due date follows the
// weekly cadence from the EMI start date; a nominal date already in the past
// is clamped forward to today, without changing which installment is next.
func NextDueInstallment(l *Loan, txns []Transaction, now time.Time) *Installment {
	paidCount := countPaid(txns)
	if paidCount >= l.Tenure {
		return nil
	}

	number := paidCount + 1
	dueDate := truncateToDay(l.EMIStartDate).AddDate(0, 0, (number-1)*7)

	today := truncateToDay(now)
	if dueDate.Before(today) {
		dueDate = today
	}

	return &Installment{
		Number:  number,
		Amount:  l.EMIAmount,
		DueDate: dueDate,
	}
}

// WillSettleLoan reports whether adding candidateAmount to the already paid
// total meets or exceeds the loan's expected repayment. Over- or
// under-payment relative to a clean multiple of the EMI amount is accepted
// as-is.
func WillSettleLoan(l *Loan, txns []Transaction, candidateAmount float64) bool {
	return sumPaid(txns)+candidateAmount >= l.TotalExpected()
}

// ComputeProgress aggregates repayment progress. Remaining is not clamped and
// goes negative on overpayment.
func ComputeProgress(l *Loan, txns []Transaction) Progress {
	paidAmount := sumPaid(txns)
	completed := countPaid(txns)
	total := l.Tenure

	percent := 0
	if total > 0 {
		percent = completed * 100 / total
	}

	return Progress{
		TotalExpected:   l.TotalExpected(),
		PaidAmount:      paidAmount,
		Remaining:       l.TotalExpected() - paidAmount,
		CompletedCount:  completed,
		TotalCount:      total,
		PercentComplete: percent,
	}
}

func countPaid(txns []Transaction) int {
	n := 0
	for _, t := range txns {
		if t.Status == TransactionPaid {
			n++
		}
	}
	return n
}

func sumPaid(txns []Transaction) float64 {
	total := 0.0
	for _, t := range txns {
		if t.Status == TransactionPaid {
			total += t.Amount
		}
	}
	return total
}
