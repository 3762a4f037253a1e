package domain

import "time"

// InvoiceStatus is the lifecycle state of an invoice kept by the invoicing collaborator.
type InvoiceStatus string

const (
	InvoiceDraft     InvoiceStatus = "DRAFT"
	InvoicePending   InvoiceStatus = "PENDING"
	InvoicePaid      InvoiceStatus = "PAID"
	InvoiceOverdue   InvoiceStatus = "OVERDUE"
	InvoiceCancelled InvoiceStatus = "CANCELLED"
)

// IsValid reports whether s is a known invoice status.
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceDraft, InvoicePending, InvoicePaid, InvoiceOverdue, InvoiceCancelled:
		return true
	}
	return false
}

// ShouldPostPayment reports whether moving from old to next settles the invoice.
// Only the first transition into PAID posts to the ledger.
func ShouldPostPayment(old, next InvoiceStatus) bool {
	return old != InvoicePaid && next == InvoicePaid
}

// EffectiveStatus returns OVERDUE for a pending invoice whose due date has passed.
func EffectiveStatus(status InvoiceStatus, dueDate *time.Time, now time.Time) InvoiceStatus {
	if status == InvoicePending && dueDate != nil && now.After(*dueDate) {
		return InvoiceOverdue
	}
	return status
}
