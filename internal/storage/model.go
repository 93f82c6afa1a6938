// Package storage defines the flat snapshot format the bank persists to, and
// the stores that read and write it. The in-memory graph is mutually
// referential (customers point at accounts, accounts point back at their
// owner), so the persisted form is acyclic and id-based: customers carry
// account numbers, accounts carry the owner's identity id, and the bank
// rebuilds the links on restore.
package storage

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SchemaVersion is the current snapshot schema version.
const SchemaVersion = 1

// Meta describes how and when a snapshot was written.
type Meta struct {
	Storage   string    `json:"storage"`
	Version   int       `json:"version"`
	WrittenAt time.Time `json:"written_at"`
}

// CustomerRecord is the persisted form of a customer. AccountNumbers refers
// to accounts by number rather than embedding them; it is the authoritative
// source for the customer's account links on restore.
type CustomerRecord struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	BirthDate      string `json:"birth_date"`
	Address        string `json:"address"`
	AccountNumbers []int  `json:"account_numbers"`
}

// LedgerRecord is the persisted form of one ledger entry.
type LedgerRecord struct {
	ID        uuid.UUID       `json:"id"`
	Timestamp time.Time       `json:"timestamp"`
	Kind      string          `json:"kind"`
	Amount    decimal.Decimal `json:"amount"`
}

// AccountRecord is the persisted form of an account. OwnerID refers to the
// owning customer by identity id.
type AccountRecord struct {
	Number  int             `json:"number"`
	OwnerID string          `json:"owner_id"`
	Balance decimal.Decimal `json:"balance"`
	History []LedgerRecord  `json:"history"`
}

// Snapshot is the whole bank state in storable form: the account-number
// counter, every customer and every account. It is written wholesale on each
// save and read wholesale on each load.
type Snapshot struct {
	Meta              Meta             `json:"_meta"`
	NextAccountNumber int              `json:"next_account_number"`
	Customers         []CustomerRecord `json:"customers"`
	Accounts          []AccountRecord  `json:"accounts"`
}
