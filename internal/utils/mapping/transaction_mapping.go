package mapping

import (
	"database/sql"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/models"
)

// NullString maps an empty string to SQL NULL.
func NullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// ToModelTransaction converts a domain Transaction to its table row
func ToModelTransaction(d domain.Transaction) models.Transaction {
	return models.Transaction{
		TransactionID:   d.TransactionID,
		TransactionDate: d.Date,
		TransactionType: models.TransactionType(d.Type),
		Description:     d.Description,
		Reference:       d.Reference,
		Amount:          d.Amount,
		InvoiceID:       NullString(d.InvoiceID),
		PurchaseID:      NullString(d.PurchaseID),
		AuditFields:     models.AuditFields(d.AuditFields),
	}
}

// ToDomainTransaction converts a table row to a domain Transaction without entries
func ToDomainTransaction(m models.Transaction) domain.Transaction {
	return domain.Transaction{
		TransactionID: m.TransactionID,
		Date:          m.TransactionDate,
		Type:          domain.TransactionType(m.TransactionType),
		Description:   m.Description,
		Reference:     m.Reference,
		Amount:        m.Amount,
		InvoiceID:     m.InvoiceID.String,
		PurchaseID:    m.PurchaseID.String,
		AuditFields:   domain.AuditFields(m.AuditFields),
	}
}

// ToModelJournalEntry converts a domain JournalEntry to its table row
func ToModelJournalEntry(d domain.JournalEntry) models.JournalEntry {
	return models.JournalEntry{
		EntryID:       d.EntryID,
		TransactionID: d.TransactionID,
		AccountID:     d.AccountID,
		LineNo:        d.LineNo,
		Debit:         d.Debit,
		Credit:        d.Credit,
		Description:   d.Description,
	}
}

// ToDomainJournalEntry converts a table row to a domain JournalEntry
func ToDomainJournalEntry(m models.JournalEntry) domain.JournalEntry {
	return domain.JournalEntry{
		EntryID:       m.EntryID,
		TransactionID: m.TransactionID,
		AccountID:     m.AccountID,
		LineNo:        m.LineNo,
		Debit:         m.Debit,
		Credit:        m.Credit,
		Description:   m.Description,
	}
}
