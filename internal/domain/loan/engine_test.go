package loan

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func weeklyLoan(tenure int, emiAmount float64, startDate time.Time) *Loan {
	return &Loan{
		ID:           1,
		CustomerID:   1,
		LoanAmount:   emiAmount * float64(tenure),
		EMIAmount:    emiAmount,
		Tenure:       tenure,
		EMIType:      EMITypeWeekly,
		EMIStartDate: startDate,
		Status:       StatusActive,
	}
}

func TestNextDueInstallment(t *testing.T) {
	start := day(2025, time.March, 3)

	t.Run("NoPaymentsFirstInstallmentOnStartDate", func(t *testing.T) {
		l := weeklyLoan(20, 1000, start)
		now := day(2025, time.February, 20)

		inst := NextDueInstallment(l, nil, now)

		assert.NotNil(t, inst)
		assert.Equal(t, 1, inst.Number)
		assert.Equal(t, 1000.0, inst.Amount)
		assert.Equal(t, start, inst.DueDate)
	})

	t.Run("DueDateFollowsWeeklyCadence", func(t *testing.T) {
		l := weeklyLoan(20, 1000, start)
		now := day(2025, time.February, 20)

		inst := NextDueInstallment(l, paidTxns(3, 1000), now)

		assert.NotNil(t, inst)
		assert.Equal(t, 4, inst.Number)
		assert.Equal(t, start.AddDate(0, 0, 21), inst.DueDate)
	})

	t.Run("PastNominalDateClampedToToday", func(t *testing.T) {
		l := weeklyLoan(20, 1000, start)
		now := day(2025, time.June, 15)

		inst := NextDueInstallment(l, paidTxns(2, 1000), now)

		assert.NotNil(t, inst)
		assert.Equal(t, 3, inst.Number)
		// Nominal date (start + 2 weeks) is long past; clamped forward.
		assert.Equal(t, now, inst.DueDate)
	})

	t.Run("AllInstallmentsPaidReturnsNil", func(t *testing.T) {
		l := weeklyLoan(5, 1000, start)

		inst := NextDueInstallment(l, paidTxns(5, 1000), day(2025, time.April, 10))

		assert.Nil(t, inst)
	})

	t.Run("MorePaidThanTenureReturnsNil", func(t *testing.T) {
		l := weeklyLoan(5, 1000, start)

		inst := NextDueInstallment(l, paidTxns(7, 1000), day(2025, time.April, 10))

		assert.Nil(t, inst)
	})

	t.Run("DueTransactionsDoNotAdvanceTheSchedule", func(t *testing.T) {
		l := weeklyLoan(20, 1000, start)
		txns := []Transaction{
			{ID: 1, LoanID: 1, Amount: 1000, PaymentDate: start, Status: TransactionDue},
			{ID: 2, LoanID: 1, Amount: 1000, PaymentDate: start.AddDate(0, 0, 7), Status: TransactionDue},
		}

		inst := NextDueInstallment(l, txns, day(2025, time.February, 20))

		assert.NotNil(t, inst)
		assert.Equal(t, 1, inst.Number)
	})
}

func TestWillSettleLoan(t *testing.T) {
	l := weeklyLoan(20, 1000, day(2025, time.March, 3))

	tests := []struct {
		name      string
		paidCount int
		candidate float64
		want      bool
	}{
		{"FirstPaymentOfMany", 0, 1000, false},
		{"NineteenPaidExactFinal", 19, 1000, true},
		{"NineteenPaidJustShort", 19, 999.99, false},
		{"NineteenPaidOverpay", 19, 5000, true},
		{"SingleGiantPayment", 0, 20000, true},
		{"AlreadySettled", 20, 0.01, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WillSettleLoan(l, paidTxns(tt.paidCount, 1000), tt.candidate)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWillSettleLoanIgnoresDueTransactions(t *testing.T) {
	l := weeklyLoan(2, 1000, day(2025, time.March, 3))
	txns := []Transaction{
		{ID: 1, LoanID: 1, Amount: 1000, Status: TransactionPaid},
		{ID: 2, LoanID: 1, Amount: 1000, Status: TransactionDue},
	}

	assert.False(t, WillSettleLoan(l, txns, 500))
	assert.True(t, WillSettleLoan(l, txns, 1000))
}

func TestComputeProgress(t *testing.T) {
	start := day(2025, time.March, 3)

	t.Run("FreshLoan", func(t *testing.T) {
		l := weeklyLoan(10, 500, start)

		p := ComputeProgress(l, nil)

		assert.Equal(t, 5000.0, p.TotalExpected)
		assert.Equal(t, 0.0, p.PaidAmount)
		assert.Equal(t, 5000.0, p.Remaining)
		assert.Equal(t, 0, p.CompletedCount)
		assert.Equal(t, 10, p.TotalCount)
		assert.Equal(t, 0, p.PercentComplete)
	})

	t.Run("NineOfTenPaid", func(t *testing.T) {
		l := weeklyLoan(10, 500, start)

		p := ComputeProgress(l, paidTxns(9, 500))

		assert.Equal(t, 4500.0, p.PaidAmount)
		assert.Equal(t, 500.0, p.Remaining)
		assert.Equal(t, 9, p.CompletedCount)
		assert.Equal(t, 90, p.PercentComplete)
	})

	t.Run("PercentUsesIntegerDivision", func(t *testing.T) {
		l := weeklyLoan(3, 500, start)

		p := ComputeProgress(l, paidTxns(1, 500))

		assert.Equal(t, 33, p.PercentComplete)
	})

	t.Run("OverpaymentGoesNegative", func(t *testing.T) {
		l := weeklyLoan(2, 500, start)
		txns := []Transaction{
			{ID: 1, LoanID: 1, Amount: 1500, Status: TransactionPaid},
		}

		p := ComputeProgress(l, txns)

		assert.Equal(t, -500.0, p.Remaining)
		assert.Equal(t, 1, p.CompletedCount)
		assert.Equal(t, 50, p.PercentComplete)
	})

	t.Run("DueTransactionsExcluded", func(t *testing.T) {
		l := weeklyLoan(4, 500, start)
		txns := []Transaction{
			{ID: 1, LoanID: 1, Amount: 500, Status: TransactionPaid},
			{ID: 2, LoanID: 1, Amount: 500, Status: TransactionDue},
		}

		p := ComputeProgress(l, txns)

		assert.Equal(t, 500.0, p.PaidAmount)
		assert.Equal(t, 1, p.CompletedCount)
		assert.Equal(t, 25, p.PercentComplete)
	})

	t.Run("ZeroTenureYieldsZeroPercent", func(t *testing.T) {
		l := weeklyLoan(0, 500, start)

		p := ComputeProgress(l, nil)

		assert.Equal(t, 0, p.PercentComplete)
	})
}

func TestProjectStatus(t *testing.T) {
	now := day(2025, time.June, 10)

	tests := []struct {
		name string
		txn  Transaction
		want TransactionStatus
	}{
		{"PaidStaysPaid", Transaction{Status: TransactionPaid, PaymentDate: day(2025, time.June, 1)}, TransactionPaid},
		{"DueInPastBecomesOverdue", Transaction{Status: TransactionDue, PaymentDate: day(2025, time.June, 9)}, TransactionOverdue},
		{"DueTodayStaysDue", Transaction{Status: TransactionDue, PaymentDate: day(2025, time.June, 10)}, TransactionDue},
		{"DueTomorrowStaysDue", Transaction{Status: TransactionDue, PaymentDate: day(2025, time.June, 11)}, TransactionDue},
		{"DueLaterTodayStaysDue", Transaction{Status: TransactionDue, PaymentDate: time.Date(2025, time.June, 10, 23, 59, 0, 0, time.UTC)}, TransactionDue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ProjectStatus(tt.txn, now))
		})
	}
}

func TestProjectTransactionsDoesNotMutateInput(t *testing.T) {
	txns := []Transaction{
		{ID: 1, Status: TransactionDue, PaymentDate: day(2025, time.January, 1)},
	}

	projected := ProjectTransactions(txns, day(2025, time.June, 10))

	assert.Equal(t, TransactionOverdue, projected[0].Status)
	assert.Equal(t, TransactionDue, txns[0].Status)
}
