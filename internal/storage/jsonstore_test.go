package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func testSnapshot() Snapshot {
	return Snapshot{
		NextAccountNumber: 3,
		Customers: []CustomerRecord{
			{ID: "111", Name: "Alice Souza", BirthDate: "02/03/1985", Address: "10 Elm St", AccountNumbers: []int{1, 2}},
		},
		Accounts: []AccountRecord{
			{
				Number:  1,
				OwnerID: "111",
				Balance: decimal.RequireFromString("150.00"),
				History: []LedgerRecord{
					{ID: uuid.New(), Timestamp: time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC), Kind: "deposit", Amount: decimal.RequireFromString("200.00")},
					{ID: uuid.New(), Timestamp: time.Date(2026, 8, 30, 11, 0, 0, 0, time.UTC), Kind: "withdrawal", Amount: decimal.RequireFromString("50.00")},
				},
			},
			{Number: 2, OwnerID: "111", Balance: decimal.Zero},
		},
	}
}

func TestJSONStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bank_data.json")
	store := NewJSONStore(path)
	ctx := context.Background()

	want := testSnapshot()
	if err := store.Save(ctx, want); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if got.NextAccountNumber != want.NextAccountNumber {
		t.Errorf("NextAccountNumber = %d, want %d", got.NextAccountNumber, want.NextAccountNumber)
	}
	if got.Meta.Storage != "json_snapshot" || got.Meta.Version != SchemaVersion {
		t.Errorf("Meta = %+v", got.Meta)
	}

	if len(got.Customers) != 1 {
		t.Fatalf("loaded %d customers, want 1", len(got.Customers))
	}
	c := got.Customers[0]
	if c.ID != "111" || c.Name != "Alice Souza" || c.BirthDate != "02/03/1985" || c.Address != "10 Elm St" {
		t.Errorf("customer = %+v", c)
	}
	if !slices.Equal(c.AccountNumbers, []int{1, 2}) {
		t.Errorf("account numbers = %v, want [1 2]", c.AccountNumbers)
	}

	if len(got.Accounts) != 2 {
		t.Fatalf("loaded %d accounts, want 2", len(got.Accounts))
	}
	a := got.Accounts[0]
	if a.Number != 1 || a.OwnerID != "111" || !a.Balance.Equal(decimal.RequireFromString("150.00")) {
		t.Errorf("account = %+v", a)
	}
	if len(a.History) != 2 {
		t.Fatalf("loaded %d ledger entries, want 2", len(a.History))
	}
	for i, r := range a.History {
		orig := want.Accounts[0].History[i]
		if r.ID != orig.ID || r.Kind != orig.Kind || !r.Amount.Equal(orig.Amount) || !r.Timestamp.Equal(orig.Timestamp) {
			t.Errorf("ledger entry %d = %+v, want %+v", i, r, orig)
		}
	}
}

func TestJSONStore_MissingFile(t *testing.T) {
	store := NewJSONStore(filepath.Join(t.TempDir(), "does_not_exist.json"))

	_, err := store.Load(context.Background())
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("Load() error = %v, want ErrUnavailable", err)
	}
}

func TestJSONStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bank_data.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := NewJSONStore(path).Load(context.Background())
	if !errors.Is(err, ErrCorrupt) {
		t.Errorf("Load() error = %v, want ErrCorrupt", err)
	}
}

func TestJSONStore_SaveReplacesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bank_data.json")
	store := NewJSONStore(path)
	ctx := context.Background()

	if err := store.Save(ctx, testSnapshot()); err != nil {
		t.Fatalf("first Save() error = %v", err)
	}

	second := Snapshot{NextAccountNumber: 42}
	if err := store.Save(ctx, second); err != nil {
		t.Fatalf("second Save() error = %v", err)
	}

	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.NextAccountNumber != 42 {
		t.Errorf("NextAccountNumber = %d, want 42", got.NextAccountNumber)
	}
	if len(got.Customers) != 0 {
		t.Errorf("stale customers survived the rewrite: %v", got.Customers)
	}

	// No temp file left behind
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Errorf("temp file still present after save")
	}
}

func TestJSONStore_FailedRenameLeavesNoTempFile(t *testing.T) {
	// A directory at the target path makes the final rename fail
	path := filepath.Join(t.TempDir(), "bank_data.json")
	if err := os.Mkdir(path, 0o755); err != nil {
		t.Fatal(err)
	}

	if err := NewJSONStore(path).Save(context.Background(), testSnapshot()); err == nil {
		t.Fatal("Save() succeeded, want rename failure")
	}

	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Errorf("temp file still present after failed save")
	}
}
