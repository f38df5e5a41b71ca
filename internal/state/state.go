// Package state persists per-conversation copilot state. Each conversation
// owns one record keyed by its conversation id; a turn reads the record once,
// works on the copy, and writes it back once. Writes are last-write-wins.
package state

import "context"

// Record is the per-conversation state document.
//
// FileUploaded and Instructions move together: both are set when a document
// has been ingested and both are cleared on reset. Instructions holds the
// compressed agent instruction payload.
type Record struct {
	FileUploaded     bool              `json:"file_uploaded"`
	Instructions     *string           `json:"instructions,omitempty"`
	LastResponseID   *string           `json:"last_response_id,omitempty"`
	SuggestedActions map[string]string `json:"suggested_actions,omitempty"`
}

// Reset clears the record back to its default, forgetting the uploaded
// document, the response chain, and any pending suggested actions.
func (r *Record) Reset() {
	*r = Record{}
}

// Store reads and writes conversation records.
//
// Get returns the default record for keys that have never been written, so
// callers never have to special-case a first turn.
type Store interface {
	Get(ctx context.Context, key string) (Record, error)
	Put(ctx context.Context, key string, rec Record) error
}
