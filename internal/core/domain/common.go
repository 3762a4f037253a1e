package domain

import "time"

// AuditFields holds standard audit information for domain entities.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"` // UserID Reference
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"` // UserID Reference
}

// DateRange is an inclusive date window. A nil bound is unbounded on that side.
type DateRange struct {
	From *time.Time
	To   *time.Time
}

// Contains reports whether t falls inside the window, bounds included.
func (r DateRange) Contains(t time.Time) bool {
	if r.From != nil && t.Before(*r.From) {
		return false
	}
	if r.To != nil && t.After(*r.To) {
		return false
	}
	return true
}

// Until returns an unbounded-start window ending at asOf.
func Until(asOf time.Time) DateRange {
	return DateRange{To: &asOf}
}

// Between returns the inclusive window [from, to].
func Between(from, to time.Time) DateRange {
	return DateRange{From: &from, To: &to}
}
