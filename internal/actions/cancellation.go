package actions

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// CancellationToken carries a cooperative cancellation request into an
// executor. The transition is one-way: once requested it never resets, and
// executors consult it between project iterations only — an in-flight
// network call is never aborted.
type CancellationToken struct {
	mutex       sync.Mutex
	identifier  string
	requested   bool
	requestedAt *time.Time
}

// NewCancellationToken constructs an unrequested token for one operation.
func NewCancellationToken() *CancellationToken {
	return &CancellationToken{identifier: uuid.NewString()}
}

// ID returns the token identifier.
func (token *CancellationToken) ID() string {
	return token.identifier
}

// Cancel requests cancellation of the owning operation. Repeated calls keep
// the original request timestamp.
func (token *CancellationToken) Cancel() {
	token.mutex.Lock()
	defer token.mutex.Unlock()

	if token.requested {
		return
	}

	requestedAt := time.Now()
	token.requested = true
	token.requestedAt = &requestedAt
}

// IsCancelled reports whether cancellation has been requested.
func (token *CancellationToken) IsCancelled() bool {
	token.mutex.Lock()
	defer token.mutex.Unlock()
	return token.requested
}

// CancelledAt returns when cancellation was requested, or nil.
func (token *CancellationToken) CancelledAt() *time.Time {
	token.mutex.Lock()
	defer token.mutex.Unlock()

	if token.requestedAt == nil {
		return nil
	}

	requestedAt := *token.requestedAt
	return &requestedAt
}
