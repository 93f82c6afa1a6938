package bank

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestRegisterCustomer(t *testing.T) {
	b := New()

	c, err := b.RegisterCustomer("111", "Alice Souza", "02/03/1985", "10 Elm St")
	if err != nil {
		t.Fatalf("RegisterCustomer() error = %v", err)
	}
	if c.Identity().ID != "111" || c.Identity().Name != "Alice Souza" {
		t.Errorf("registered identity = %+v", c.Identity())
	}

	// Second registration with the same id fails and leaves the first intact
	if _, err := b.RegisterCustomer("111", "Someone Else", "01/01/2000", "elsewhere"); err != ErrDuplicateIdentity {
		t.Errorf("duplicate RegisterCustomer() error = %v, want %v", err, ErrDuplicateIdentity)
	}

	got, ok := b.FindCustomerByID("111")
	if !ok || got.Identity().Name != "Alice Souza" {
		t.Errorf("first registration was affected by the duplicate attempt")
	}
	if len(b.ListCustomers()) != 1 {
		t.Errorf("ListCustomers() has %d entries, want 1", len(b.ListCustomers()))
	}
}

func TestAuthenticate(t *testing.T) {
	b := New()
	if _, err := b.RegisterCustomer("111", "Alice Souza", "02/03/1985", "10 Elm St"); err != nil {
		t.Fatalf("RegisterCustomer() error = %v", err)
	}

	tests := []struct {
		name    string
		id      string
		wantErr error
	}{
		{name: "registered id", id: "111", wantErr: nil},
		{name: "unknown id", id: "222", wantErr: ErrCustomerNotFound},
		{name: "empty id", id: "", wantErr: ErrCustomerNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := b.Authenticate(tt.id)
			if err != tt.wantErr {
				t.Errorf("Authenticate(%q) error = %v, wantErr %v", tt.id, err, tt.wantErr)
			}
		})
	}
}

func TestOpenAccount(t *testing.T) {
	b := New()
	c, err := b.RegisterCustomer("111", "Alice Souza", "02/03/1985", "10 Elm St")
	if err != nil {
		t.Fatalf("RegisterCustomer() error = %v", err)
	}

	// Numbers are assigned monotonically starting at 1
	for want := 1; want <= 3; want++ {
		a, err := b.OpenAccount(c)
		if err != nil {
			t.Fatalf("OpenAccount() error = %v", err)
		}
		if a.Number() != want {
			t.Errorf("account number = %d, want %d", a.Number(), want)
		}
	}

	// Linked into both the registry and the owner's account list
	accounts := c.Accounts()
	if len(accounts) != 3 {
		t.Fatalf("customer has %d accounts, want 3", len(accounts))
	}
	for _, a := range accounts {
		if a.Owner() != c {
			t.Errorf("account %d owner mismatch", a.Number())
		}
		got, ok := b.FindAccountByNumber(a.Number())
		if !ok || got != a {
			t.Errorf("account %d not found in the bank registry", a.Number())
		}
	}
}

func TestOpenAccount_UnknownCustomer(t *testing.T) {
	b := New()

	// A customer registered with a different bank instance
	other := New()
	stranger, err := other.RegisterCustomer("999", "Bob", "01/01/1990", "nowhere")
	if err != nil {
		t.Fatalf("RegisterCustomer() error = %v", err)
	}

	if _, err := b.OpenAccount(stranger); err != ErrCustomerUnknown {
		t.Errorf("OpenAccount(stranger) error = %v, want %v", err, ErrCustomerUnknown)
	}
	if _, err := b.OpenAccount(nil); err != ErrCustomerUnknown {
		t.Errorf("OpenAccount(nil) error = %v, want %v", err, ErrCustomerUnknown)
	}

	// The failed attempts must not have burned any account numbers
	c, err := b.RegisterCustomer("111", "Alice Souza", "02/03/1985", "10 Elm St")
	if err != nil {
		t.Fatalf("RegisterCustomer() error = %v", err)
	}
	a, err := b.OpenAccount(c)
	if err != nil {
		t.Fatalf("OpenAccount() error = %v", err)
	}
	if a.Number() != 1 {
		t.Errorf("first account number = %d, want 1", a.Number())
	}
}

func TestBankDepositWithdraw(t *testing.T) {
	b := New()
	c, _ := b.RegisterCustomer("111", "Alice Souza", "02/03/1985", "10 Elm St")
	a, _ := b.OpenAccount(c)

	balance, err := b.Deposit(a.Number(), decimal.RequireFromString("200.00"))
	if err != nil {
		t.Fatalf("Deposit() error = %v", err)
	}
	if !balance.Equal(decimal.RequireFromString("200.00")) {
		t.Errorf("balance after deposit = %s, want 200.00", balance)
	}

	balance, err = b.Withdraw(a.Number(), decimal.RequireFromString("50.00"))
	if err != nil {
		t.Fatalf("Withdraw() error = %v", err)
	}
	if !balance.Equal(decimal.RequireFromString("150.00")) {
		t.Errorf("balance after withdrawal = %s, want 150.00", balance)
	}

	if _, err := b.Deposit(999, decimal.NewFromInt(1)); err != ErrAccountNotFound {
		t.Errorf("Deposit(unknown) error = %v, want %v", err, ErrAccountNotFound)
	}
	if _, err := b.Withdraw(999, decimal.NewFromInt(1)); err != ErrAccountNotFound {
		t.Errorf("Withdraw(unknown) error = %v, want %v", err, ErrAccountNotFound)
	}
}

func TestBankStatement(t *testing.T) {
	b := New()
	c, _ := b.RegisterCustomer("111", "Alice Souza", "02/03/1985", "10 Elm St")
	a, _ := b.OpenAccount(c)

	lines, err := b.Statement(a.Number())
	if err != nil {
		t.Fatalf("Statement() error = %v", err)
	}
	if len(lines) != 1 || lines[0] != noMovementsLine {
		t.Errorf("empty statement = %v", lines)
	}

	b.Deposit(a.Number(), decimal.NewFromInt(100))
	b.Withdraw(a.Number(), decimal.NewFromInt(30))

	lines, err = b.Statement(a.Number())
	if err != nil {
		t.Fatalf("Statement() error = %v", err)
	}
	if len(lines) != 2 {
		t.Errorf("statement has %d lines, want 2", len(lines))
	}

	if _, err := b.Statement(999); err != ErrAccountNotFound {
		t.Errorf("Statement(unknown) error = %v, want %v", err, ErrAccountNotFound)
	}
}

// TestEndToEndScenario walks the full register → open → deposit → withdraw →
// save → load flow and checks the reloaded state matches.
func TestEndToEndScenario(t *testing.T) {
	b := New()

	c, err := b.RegisterCustomer("111", "Alice Souza", "02/03/1985", "10 Elm St")
	if err != nil {
		t.Fatalf("RegisterCustomer() error = %v", err)
	}
	a, err := b.OpenAccount(c)
	if err != nil {
		t.Fatalf("OpenAccount() error = %v", err)
	}
	if a.Number() != 1 {
		t.Fatalf("account number = %d, want 1", a.Number())
	}

	if err := a.Deposit(decimal.RequireFromString("200.00")); err != nil {
		t.Fatalf("Deposit() error = %v", err)
	}
	if !a.Balance().Equal(decimal.RequireFromString("200.00")) || a.Ledger().Size() != 1 {
		t.Fatalf("after deposit: balance = %s, records = %d", a.Balance(), a.Ledger().Size())
	}

	if err := a.Withdraw(decimal.RequireFromString("50.00")); err != nil {
		t.Fatalf("Withdraw() error = %v", err)
	}
	if !a.Balance().Equal(decimal.RequireFromString("150.00")) || a.Ledger().Size() != 2 {
		t.Fatalf("after withdrawal: balance = %s, records = %d", a.Balance(), a.Ledger().Size())
	}

	// Save, then load into a fresh bank
	restored := New()
	if warnings := restored.Restore(b.Snapshot()); len(warnings) != 0 {
		t.Fatalf("Restore() warnings = %v", warnings)
	}

	got, ok := restored.FindAccountByNumber(1)
	if !ok {
		t.Fatal("account 1 missing after reload")
	}
	if !got.Balance().Equal(decimal.RequireFromString("150.00")) {
		t.Errorf("reloaded balance = %s, want 150.00", got.Balance())
	}

	want := a.Ledger().Records()
	records := got.Ledger().Records()
	if len(records) != len(want) {
		t.Fatalf("reloaded ledger has %d records, want %d", len(records), len(want))
	}
	for i := range records {
		if records[i].ID != want[i].ID || records[i].Kind != want[i].Kind || !records[i].Amount.Equal(want[i].Amount) {
			t.Errorf("record %d = %+v, want %+v", i, records[i], want[i])
		}
	}
}
