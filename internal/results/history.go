package results

import "sync"

// History is an append-only store of operation results keyed by identifier.
// Re-adding an existing identifier merges the newer envelope's set fields
// into the stored one, which supports asynchronous completion updates.
type History struct {
	mutex   sync.Mutex
	entries []OperationResult
}

// NewHistory constructs an empty history.
func NewHistory() *History {
	return &History{}
}

// Add appends the result, or merges it into the stored entry with the same
// identifier.
func (history *History) Add(result OperationResult) {
	history.mutex.Lock()
	defer history.mutex.Unlock()

	for entryIndex := range history.entries {
		if history.entries[entryIndex].ID == result.ID {
			history.entries[entryIndex] = mergeOperationResults(history.entries[entryIndex], result)
			return
		}
	}

	history.entries = append(history.entries, result)
}

// List returns a snapshot of the stored results in insertion order.
func (history *History) List() []OperationResult {
	history.mutex.Lock()
	defer history.mutex.Unlock()

	snapshot := make([]OperationResult, len(history.entries))
	copy(snapshot, history.entries)
	return snapshot
}

// mergeOperationResults overlays the update's set fields onto the stored
// envelope, leaving unset fields untouched.
func mergeOperationResults(stored OperationResult, update OperationResult) OperationResult {
	merged := stored

	if len(update.AffectedProjects) > 0 {
		merged.AffectedProjects = update.AffectedProjects
	}
	if !update.CreatedAt.IsZero() {
		merged.CreatedAt = update.CreatedAt
	}
	if update.StartedAt != nil {
		merged.StartedAt = update.StartedAt
	}
	if update.CompletedAt != nil {
		merged.CompletedAt = update.CompletedAt
	}
	if update.CompletionTime != nil {
		merged.CompletionTime = update.CompletionTime
	}
	if update.Error != "" {
		merged.Error = update.Error
	}
	if update.Result != nil {
		merged.Result = update.Result
	}
	if update.Parameters != nil {
		merged.Parameters = update.Parameters
	}

	return merged
}
