package bank

import (
	"fmt"

	"github.com/rfmoraes/minibank/internal/storage"
)

// Snapshot flattens the bank into its storable form. The mutual references
// between customers and accounts become ids: customers carry their account
// numbers, accounts carry their owner's identity id.
func (b *Bank) Snapshot() storage.Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()

	snap := storage.Snapshot{
		Meta:              storage.Meta{Version: storage.SchemaVersion},
		NextAccountNumber: b.nextNumber,
	}

	for _, c := range b.customers {
		rec := storage.CustomerRecord{
			ID:        c.identity.ID,
			Name:      c.identity.Name,
			BirthDate: c.identity.BirthDate,
			Address:   c.address,
		}
		for _, a := range c.accounts {
			rec.AccountNumbers = append(rec.AccountNumbers, a.number)
		}
		snap.Customers = append(snap.Customers, rec)
	}

	for _, a := range b.accounts {
		rec := storage.AccountRecord{
			Number:  a.number,
			OwnerID: a.owner.identity.ID,
			Balance: a.balance,
		}
		for _, r := range a.ledger.records {
			rec.History = append(rec.History, storage.LedgerRecord{
				ID:        r.ID,
				Timestamp: r.Timestamp,
				Kind:      string(r.Kind),
				Amount:    r.Amount,
			})
		}
		snap.Accounts = append(snap.Accounts, rec)
	}

	return snap
}

// Restore resets the bank and rebuilds it from a snapshot. Entries that
// cannot be used are skipped, each producing a warning that wraps
// ErrMalformedRecord; a bad entry never aborts the rest of the load.
//
// Reconstruction runs in three passes. Customers are rebuilt first, their
// stored account-number lists ignored for the moment. Accounts come second,
// looked up against the now-populated customer registry; an account whose
// owner is missing is an orphan and is dropped. The third pass re-derives
// every customer's account list strictly from the stored number lists,
// replacing the provisional links the account pass created — the stored
// lists are the single authoritative source, which is what guarantees the
// restored graph is bidirectionally consistent even though accounts did not
// exist yet while customers were being rebuilt.
func (b *Bank) Restore(snap storage.Snapshot) []error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.customers = nil
	b.byID = make(map[string]*Customer)
	b.accounts = nil
	b.byNumber = make(map[int]*Account)
	b.nextNumber = snap.NextAccountNumber
	if b.nextNumber < 1 {
		b.nextNumber = 1
	}

	var warnings []error
	warn := func(format string, args ...any) {
		warnings = append(warnings, fmt.Errorf("%w: "+format, append([]any{ErrMalformedRecord}, args...)...))
	}

	for _, rec := range snap.Customers {
		if rec.ID == "" || rec.Name == "" || rec.BirthDate == "" {
			warn("customer entry missing required fields, skipped")
			continue
		}
		if _, ok := b.byID[rec.ID]; ok {
			warn("duplicate customer id %q, skipped", rec.ID)
			continue
		}
		c := newCustomer(Identity{ID: rec.ID, Name: rec.Name, BirthDate: rec.BirthDate}, rec.Address)
		b.customers = append(b.customers, c)
		b.byID[rec.ID] = c
	}

	for _, rec := range snap.Accounts {
		if rec.Number < 1 {
			warn("account entry with invalid number %d, skipped", rec.Number)
			continue
		}
		if _, ok := b.byNumber[rec.Number]; ok {
			warn("duplicate account number %d, skipped", rec.Number)
			continue
		}
		owner, ok := b.byID[rec.OwnerID]
		if !ok {
			warn("account %d references unknown customer %q, skipped", rec.Number, rec.OwnerID)
			continue
		}
		if rec.Balance.Sign() < 0 {
			warn("account %d has negative balance %s, skipped", rec.Number, rec.Balance)
			continue
		}

		var records []TransactionRecord
		for _, h := range rec.History {
			kind := TransactionKind(h.Kind)
			if kind != KindDeposit && kind != KindWithdrawal {
				warn("account %d ledger entry with unknown kind %q, skipped", rec.Number, h.Kind)
				continue
			}
			if h.Amount.Sign() <= 0 {
				warn("account %d ledger entry with non-positive amount %s, skipped", rec.Number, h.Amount)
				continue
			}
			records = append(records, TransactionRecord{
				ID:        h.ID,
				Timestamp: h.Timestamp,
				Kind:      kind,
				Amount:    h.Amount,
			})
		}

		a := restoreAccount(rec.Number, owner, rec.Balance, records)
		b.accounts = append(b.accounts, a)
		b.byNumber[rec.Number] = a
		owner.addAccount(a)
	}

	// Only the entry the customer pass accepted may relink; a duplicate
	// entry resolves to the same restored customer and must not reset the
	// links its authoritative sibling established.
	relinked := make(map[string]bool)
	for _, rec := range snap.Customers {
		c, ok := b.byID[rec.ID]
		if !ok || relinked[rec.ID] {
			continue
		}
		relinked[rec.ID] = true
		c.accounts = nil
		for _, number := range rec.AccountNumbers {
			a, ok := b.byNumber[number]
			if !ok {
				warn("customer %q references missing account %d, link dropped", rec.ID, number)
				continue
			}
			c.addAccount(a)
		}
	}

	return warnings
}
