package events

import (
	"context"
	"errors"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
)

// Dispatcher fans one ledger event out to several observers.
// Every observer is called even when an earlier one fails.
type Dispatcher struct {
	observers []portssvc.TransactionObserver
}

// NewDispatcher creates a dispatcher over the given observers, skipping nil entries.
func NewDispatcher(observers ...portssvc.TransactionObserver) *Dispatcher {
	d := &Dispatcher{}
	for _, o := range observers {
		d.Register(o)
	}
	return d
}

// Register adds an observer.
func (d *Dispatcher) Register(observer portssvc.TransactionObserver) {
	if observer != nil {
		d.observers = append(d.observers, observer)
	}
}

// Len returns the number of registered observers.
func (d *Dispatcher) Len() int {
	return len(d.observers)
}

// OnTransactionEvent implements portssvc.TransactionObserver.
func (d *Dispatcher) OnTransactionEvent(ctx context.Context, event domain.TransactionEvent) error {
	var errs []error
	for _, o := range d.observers {
		if err := o.OnTransactionEvent(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

var _ portssvc.TransactionObserver = (*Dispatcher)(nil)
