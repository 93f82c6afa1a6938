package bank

import (
	"time"

	"github.com/shopspring/decimal"
)

// maxWithdrawalsPerDay caps the number of withdrawals an account may make on
// one calendar date.
const maxWithdrawalsPerDay = 3

// maxWithdrawalAmount caps the amount of a single withdrawal.
var maxWithdrawalAmount = decimal.NewFromInt(500)

// Transaction is a candidate monetary movement together with the rule that
// decides whether it may be applied to an account. The set of implementations
// is closed: Deposit and Withdrawal.
//
// Apply either applies the full side effect (balance change plus ledger
// record) or returns an error and leaves the account untouched.
type Transaction interface {
	Kind() TransactionKind
	Amount() decimal.Decimal
	Apply(a *Account) error
}

// Deposit credits an amount to an account.
type Deposit struct {
	amount decimal.Decimal
}

// NewDeposit returns a deposit of the given amount.
func NewDeposit(amount decimal.Decimal) Deposit {
	return Deposit{amount: amount}
}

func (d Deposit) Kind() TransactionKind   { return KindDeposit }
func (d Deposit) Amount() decimal.Decimal { return d.amount }

// Apply credits the account and records the movement. Fails with
// ErrInvalidAmount for non-positive amounts.
func (d Deposit) Apply(a *Account) error {
	if d.amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	a.balance = a.balance.Add(d.amount)
	a.ledger.append(newRecord(KindDeposit, d.amount))
	return nil
}

// Withdrawal debits an amount from an account, subject to the balance, the
// daily withdrawal count and the per-withdrawal amount cap.
type Withdrawal struct {
	amount decimal.Decimal
}

// NewWithdrawal returns a withdrawal of the given amount.
func NewWithdrawal(amount decimal.Decimal) Withdrawal {
	return Withdrawal{amount: amount}
}

func (w Withdrawal) Kind() TransactionKind   { return KindWithdrawal }
func (w Withdrawal) Amount() decimal.Decimal { return w.amount }

// Apply debits the account and records the movement. The checks run in a
// fixed order because the first failing check is the error the user sees:
// invalid amount, then insufficient funds, then the daily count, then the
// per-withdrawal cap.
func (w Withdrawal) Apply(a *Account) error {
	if w.amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	if w.amount.GreaterThan(a.balance) {
		return ErrInsufficientFunds
	}
	if a.ledger.withdrawalsOn(time.Now()) >= maxWithdrawalsPerDay {
		return ErrDailyLimitExceeded
	}
	if w.amount.GreaterThan(maxWithdrawalAmount) {
		return ErrWithdrawalLimitExceeded
	}
	a.balance = a.balance.Sub(w.amount)
	a.ledger.append(newRecord(KindWithdrawal, w.amount))
	return nil
}
