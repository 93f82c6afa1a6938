package bank

import (
	"fmt"
	"iter"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionKind tags a ledger record with the movement it describes.
type TransactionKind string

const (
	KindDeposit    TransactionKind = "deposit"
	KindWithdrawal TransactionKind = "withdrawal"
)

// label returns the kind as it appears on a printed statement.
func (k TransactionKind) label() string {
	switch k {
	case KindDeposit:
		return "Deposit"
	case KindWithdrawal:
		return "Withdrawal"
	}
	return string(k)
}

// statementTimeLayout is the timestamp format used on statement lines.
const statementTimeLayout = "02/01/2006 15:04:05"

// noMovementsLine is the single statement line for an empty ledger.
const noMovementsLine = "No movements recorded."

// TransactionRecord is one applied monetary movement. Records are immutable
// once appended; only successful transactions create them.
type TransactionRecord struct {
	ID        uuid.UUID       `json:"id"`
	Timestamp time.Time       `json:"timestamp"`
	Kind      TransactionKind `json:"kind"`
	Amount    decimal.Decimal `json:"amount"`
}

func newRecord(kind TransactionKind, amount decimal.Decimal) TransactionRecord {
	return TransactionRecord{
		ID:        uuid.New(),
		Timestamp: time.Now(),
		Kind:      kind,
		Amount:    amount,
	}
}

// Ledger is the append-only transaction history of a single account.
// Records keep their insertion order; nothing is ever removed or rewritten.
type Ledger struct {
	records []TransactionRecord
}

func (l *Ledger) append(r TransactionRecord) {
	l.records = append(l.records, r)
}

// Records returns a copy of the ledger's records in insertion order.
func (l *Ledger) Records() []TransactionRecord {
	out := make([]TransactionRecord, len(l.records))
	copy(out, l.records)
	return out
}

// Size returns the number of records in the ledger.
func (l *Ledger) Size() int {
	return len(l.records)
}

// Statement yields one formatted line per record in insertion order, or the
// single "no movements" line when the ledger is empty. The sequence is
// restartable: ranging over it twice produces the same lines.
func (l *Ledger) Statement() iter.Seq[string] {
	return func(yield func(string) bool) {
		if len(l.records) == 0 {
			yield(noMovementsLine)
			return
		}
		for _, r := range l.records {
			line := fmt.Sprintf("%s - %s: %s",
				r.Timestamp.Format(statementTimeLayout), r.Kind.label(), r.Amount.StringFixed(2))
			if !yield(line) {
				return
			}
		}
	}
}

// withdrawalsOn counts the withdrawal records whose stored timestamp falls on
// the same calendar date as day. The count is derived from the records as
// stored, so entries restored from a snapshot participate as-is.
func (l *Ledger) withdrawalsOn(day time.Time) int {
	y, m, d := day.Date()
	n := 0
	for _, r := range l.records {
		if r.Kind != KindWithdrawal {
			continue
		}
		ry, rm, rd := r.Timestamp.Date()
		if ry == y && rm == m && rd == d {
			n++
		}
	}
	return n
}
