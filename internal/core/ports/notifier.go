package ports

import (
	"time"

	"dispatch/internal/core/domain/model/kernel"
)

// DispatchEvent describes an assignment lifecycle fact worth telling the
// outside world about: created, accepted, a status change, a cancellation.
type DispatchEvent struct {
	AssignmentID kernel.UUID
	OrderID      kernel.UUID
	CourierID    kernel.UUID
	Status       string
	OccurredAt   time.Time
}

// Notifier publishes dispatch events to interested consumers.
// Publishing is fire-and-forget: implementations must never block the
// caller and a lost event must not affect the operation that produced it.
type Notifier interface {
	Notify(event DispatchEvent)
}
