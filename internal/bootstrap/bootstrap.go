// Package bootstrap wires the bank to its snapshot store at startup.
package bootstrap

import (
	"context"
	"errors"
	"log"

	"github.com/rfmoraes/minibank/internal/bank"
	"github.com/rfmoraes/minibank/internal/storage"
)

// Initialize loads the persisted snapshot into the bank. Storage problems
// are never fatal: a missing snapshot means a fresh start, a corrupt one is
// reported once and the bank stays empty. Entries the bank had to skip
// during reconstruction are logged individually.
func Initialize(ctx context.Context, store storage.Store, b *bank.Bank) {
	snap, err := store.Load(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrUnavailable) {
			log.Printf("No snapshot found, starting with an empty bank")
			return
		}
		log.Printf("Snapshot unreadable, starting with an empty bank: %v", err)
		return
	}

	warnings := b.Restore(snap)
	for _, w := range warnings {
		log.Printf("Snapshot: %v", w)
	}

	log.Printf("Loaded snapshot: %d customers, %d skipped entries", len(b.ListCustomers()), len(warnings))
}
