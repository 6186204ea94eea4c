package intake

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/abdalla-ayman/tailor-frontend/internal/models"
)

// Snapshot is the serialized form of the entire workflow state. The
// navigation layer carries it opaquely when the user leaves the workflow to
// view the selected customer's record, so the draft comes back exactly as it
// was left.
type Snapshot struct {
	ID          string           `json:"id"`
	SearchField string           `json:"searchField"`
	SearchQuery string           `json:"searchQuery"`
	AmountDue   string           `json:"amountDue"`
	Items       []Item           `json:"items"`
	Customer    *models.Customer `json:"customer,omitempty"`
	Violations  []string         `json:"violations,omitempty"`
	FieldErrors FieldErrors      `json:"fieldErrors"`
}

// Capture serializes the workflow state into an opaque payload.
func (w *Workflow) Capture() ([]byte, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	snap := Snapshot{
		ID:          uuid.NewString(),
		SearchField: w.searchField,
		SearchQuery: w.searchQuery,
		AmountDue:   w.amountDue,
		Items:       append([]Item{}, w.items...),
		Customer:    w.customer,
		Violations:  append([]string{}, w.violations...),
		FieldErrors: w.fieldErrors,
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("failed to capture workflow state: %w", err)
	}
	return data, nil
}

// Restore replaces the workflow state with a previously captured payload.
func (w *Workflow) Restore(data []byte) error {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("failed to restore workflow state: %w", err)
	}
	if snap.SearchField != SearchByID && snap.SearchField != SearchByName {
		return fmt.Errorf("snapshot has unknown search field %q", snap.SearchField)
	}
	if len(snap.Items) == 0 {
		snap.Items = []Item{blankItem()}
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.searchField = snap.SearchField
	w.searchQuery = snap.SearchQuery
	w.amountDue = snap.AmountDue
	w.items = snap.Items
	w.customer = snap.Customer
	w.violations = snap.Violations
	w.fieldErrors = snap.FieldErrors
	w.searchOpen = false
	w.candidates = nil
	w.lookupSeq++ // in-flight lookups from before the restore are stale
	w.state = w.restingStateLocked()
	return nil
}
