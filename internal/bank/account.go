package bank

import "github.com/shopspring/decimal"

// Account holds a balance and the ledger of movements applied to it. The
// owner pointer is a back-reference into the bank's customer registry; the
// account does not manage its owner.
//
// Deposit and Withdraw are the only operations that change the balance, so
// the balance always equals the signed sum of the ledger and never goes
// negative.
type Account struct {
	number  int
	owner   *Customer
	balance decimal.Decimal
	ledger  Ledger
}

func newAccount(number int, owner *Customer) *Account {
	return &Account{number: number, owner: owner}
}

// restoreAccount rebuilds an account from persisted state. Only snapshot
// restoration may set a balance and ledger directly.
func restoreAccount(number int, owner *Customer, balance decimal.Decimal, records []TransactionRecord) *Account {
	return &Account{
		number:  number,
		owner:   owner,
		balance: balance,
		ledger:  Ledger{records: records},
	}
}

// Number returns the account number.
func (a *Account) Number() int {
	return a.number
}

// Owner returns the customer that owns this account.
func (a *Account) Owner() *Customer {
	return a.owner
}

// Balance returns the current balance.
func (a *Account) Balance() decimal.Decimal {
	return a.balance
}

// Ledger returns the account's transaction history.
func (a *Account) Ledger() *Ledger {
	return &a.ledger
}

// Deposit applies a deposit transaction to the account.
func (a *Account) Deposit(amount decimal.Decimal) error {
	return NewDeposit(amount).Apply(a)
}

// Withdraw applies a withdrawal transaction to the account.
func (a *Account) Withdraw(amount decimal.Decimal) error {
	return NewWithdrawal(amount).Apply(a)
}
