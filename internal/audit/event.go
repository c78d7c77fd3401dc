// Package audit records committed company status transitions. Events are
// emitted after the transaction that produced them commits; sinks are
// best-effort and never fail the operation.
package audit

import (
	"context"
	"time"

	id "kyc/pkg/domain"
)

// Event is one committed status transition.
type Event struct {
	CompanyID id.CompanyID `json:"company_id"`
	From      int          `json:"from"`
	To        int          `json:"to"`
	Event     string       `json:"event"`
	ActorID   string       `json:"actor_id,omitempty"`
	RequestID string       `json:"request_id,omitempty"`
	Timestamp time.Time    `json:"timestamp"`
}

// Publisher is implemented by every audit sink.
type Publisher interface {
	Emit(ctx context.Context, event Event) error
}

// Multi fans an event out to several sinks and returns the first error.
type Multi []Publisher

func (m Multi) Emit(ctx context.Context, event Event) error {
	var first error
	for _, p := range m {
		if err := p.Emit(ctx, event); err != nil && first == nil {
			first = err
		}
	}
	return first
}
