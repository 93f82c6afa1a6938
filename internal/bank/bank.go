// Package bank implements the core retail-banking domain: customers and the
// accounts they own, deposit/withdrawal rules, per-account ledgers, and the
// snapshot protocol that persists the whole object graph.
//
// A single mutex serializes every operation on a Bank. The domain itself
// assumes one active session, but the HTTP front end exposes the Bank to
// concurrent callers, so all reads and mutations go through the lock.
package bank

import (
	"sync"

	"github.com/shopspring/decimal"
)

// Bank is the aggregate root. It owns all customers and accounts, allocates
// account numbers, and maintains the invariant that every registered account
// is referenced by exactly one customer and vice versa.
type Bank struct {
	mu         sync.Mutex
	customers  []*Customer
	byID       map[string]*Customer
	accounts   []*Account
	byNumber   map[int]*Account
	nextNumber int
}

// New creates an empty bank. Account numbers start at 1.
func New() *Bank {
	return &Bank{
		byID:       make(map[string]*Customer),
		byNumber:   make(map[int]*Account),
		nextNumber: 1,
	}
}

// RegisterCustomer creates an identity and a customer and adds them to the
// registry. Fails with ErrDuplicateIdentity if the id is already registered.
func (b *Bank) RegisterCustomer(id, name, birthDate, address string) (*Customer, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.byID[id]; ok {
		return nil, ErrDuplicateIdentity
	}

	c := newCustomer(Identity{ID: id, Name: name, BirthDate: birthDate}, address)
	b.customers = append(b.customers, c)
	b.byID[id] = c
	return c, nil
}

// Authenticate looks a customer up by id. There is no credential check;
// authentication here is identity lookup only.
func (b *Bank) Authenticate(id string) (*Customer, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	c, ok := b.byID[id]
	if !ok {
		return nil, ErrCustomerNotFound
	}
	return c, nil
}

// OpenAccount allocates the next account number and creates an account for
// the customer. The account is inserted into the bank's registry and the
// customer's account list in the same critical section, so a partially
// linked account is never observable. On failure the number counter is
// untouched.
func (b *Bank) OpenAccount(c *Customer) (*Account, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if c == nil {
		return nil, ErrCustomerUnknown
	}
	registered, ok := b.byID[c.identity.ID]
	if !ok || registered != c {
		return nil, ErrCustomerUnknown
	}

	a := newAccount(b.nextNumber, c)
	b.nextNumber++
	b.accounts = append(b.accounts, a)
	b.byNumber[a.number] = a
	c.addAccount(a)
	return a, nil
}

// FindCustomerByID returns the customer registered under id, if any.
func (b *Bank) FindCustomerByID(id string) (*Customer, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	c, ok := b.byID[id]
	return c, ok
}

// FindAccountByNumber returns the account with the given number, if any.
func (b *Bank) FindAccountByNumber(number int) (*Account, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	a, ok := b.byNumber[number]
	return a, ok
}

// ListCustomers returns a snapshot of the customer registry in registration
// order.
func (b *Bank) ListCustomers() []*Customer {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]*Customer, len(b.customers))
	copy(out, b.customers)
	return out
}

// Deposit applies a deposit to the numbered account and returns the new
// balance.
func (b *Bank) Deposit(number int, amount decimal.Decimal) (decimal.Decimal, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	a, ok := b.byNumber[number]
	if !ok {
		return decimal.Decimal{}, ErrAccountNotFound
	}
	if err := a.Deposit(amount); err != nil {
		return decimal.Decimal{}, err
	}
	return a.balance, nil
}

// Withdraw applies a withdrawal to the numbered account and returns the new
// balance.
func (b *Bank) Withdraw(number int, amount decimal.Decimal) (decimal.Decimal, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	a, ok := b.byNumber[number]
	if !ok {
		return decimal.Decimal{}, ErrAccountNotFound
	}
	if err := a.Withdraw(amount); err != nil {
		return decimal.Decimal{}, err
	}
	return a.balance, nil
}

// Statement collects the numbered account's statement lines.
func (b *Bank) Statement(number int) ([]string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	a, ok := b.byNumber[number]
	if !ok {
		return nil, ErrAccountNotFound
	}
	var lines []string
	for line := range a.ledger.Statement() {
		lines = append(lines, line)
	}
	return lines, nil
}
