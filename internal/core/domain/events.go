package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionEventKind tells observers what happened to a transaction.
type TransactionEventKind string

const (
	TransactionCommitted TransactionEventKind = "COMMITTED"
	TransactionDeleted   TransactionEventKind = "DELETED"
)

// EventEntry is the entry summary carried by a TransactionEvent.
type EventEntry struct {
	AccountID string          `json:"accountID"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
}

// TransactionEvent is emitted after a transaction has been committed or deleted.
type TransactionEvent struct {
	TransactionID string               `json:"transactionID"`
	Kind          TransactionEventKind `json:"kind"`
	Type          TransactionType      `json:"type"`
	Date          time.Time            `json:"date"`
	Reference     string               `json:"reference,omitempty"`
	InvoiceID     string               `json:"invoiceID,omitempty"`
	PurchaseID    string               `json:"purchaseID,omitempty"`
	Entries       []EventEntry         `json:"entries"`
	OccurredAt    time.Time            `json:"occurredAt"`
	ActorID       string               `json:"actorID,omitempty"`
}

// AccountIDs returns the distinct accounts touched by the event.
func (e TransactionEvent) AccountIDs() []string {
	seen := make(map[string]struct{}, len(e.Entries))
	ids := make([]string, 0, len(e.Entries))
	for _, entry := range e.Entries {
		if _, ok := seen[entry.AccountID]; ok {
			continue
		}
		seen[entry.AccountID] = struct{}{}
		ids = append(ids, entry.AccountID)
	}
	return ids
}

// NewTransactionEvent summarizes txn for observers.
func NewTransactionEvent(txn Transaction, kind TransactionEventKind, actorID string, at time.Time) TransactionEvent {
	entries := make([]EventEntry, len(txn.Entries))
	for i, e := range txn.Entries {
		entries[i] = EventEntry{AccountID: e.AccountID, Debit: e.Debit, Credit: e.Credit}
	}
	return TransactionEvent{
		TransactionID: txn.TransactionID,
		Kind:          kind,
		Type:          txn.Type,
		Date:          txn.Date,
		Reference:     txn.Reference,
		InvoiceID:     txn.InvoiceID,
		PurchaseID:    txn.PurchaseID,
		Entries:       entries,
		OccurredAt:    at,
		ActorID:       actorID,
	}
}
