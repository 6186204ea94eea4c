// Package intake implements the order-creation workflow: customer lookup and
// selection, line-item editing, cross-entity measurement validation, and
// submission to the create-order endpoint.
package intake

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/abdalla-ayman/tailor-frontend/internal/models"
)

// State is the workflow's position. A successful submission closes the
// workflow, so the state observed afterwards is StateEmpty again.
type State string

const (
	StateEmpty             State = "empty"
	StateCustomerSearching State = "customer_searching"
	StateCustomerSelected  State = "customer_selected"
	StateValidating        State = "validating"
	StateSubmitting        State = "submitting"
	StateFailed            State = "failed"
)

// Customer lookup searches by identifier or by name.
const (
	SearchByID   = "_id"
	SearchByName = "name"
)

// lookupLimit caps the candidate list presented while typing.
const lookupLimit = 2

// Gateway is the slice of the API the workflow needs.
type Gateway interface {
	SearchCustomers(field, query string, limit int) ([]models.Customer, error)
	CreateOrder(req models.CreateOrderRequest) (*models.Order, error)
}

// Item is one in-progress line item. Count holds the raw input text; numeric
// coercion is authoritative at validation, not at the keystroke.
type Item struct {
	Type   models.GarmentKind `json:"type"`
	Count  string             `json:"count"`
	Fabric string             `json:"fabric"`
	Notes  string             `json:"notes"`
}

func blankItem() Item { return Item{Count: "1"} }

// ItemErrors flags the invalid fields of one line item for inline rendering.
type ItemErrors struct {
	Type  bool `json:"type"`
	Count bool `json:"count"`
}

// FieldErrors mirrors the violation list as per-field flags.
type FieldErrors struct {
	Customer  bool         `json:"customer"`
	AmountDue bool         `json:"amountDue"`
	Items     []ItemErrors `json:"items"`
}

// Workflow is the draft-order state machine. All methods are safe for the
// event-loop-plus-lookup-goroutine access pattern; lookup responses that were
// superseded before resolving are discarded.
type Workflow struct {
	mu        sync.Mutex
	api       Gateway
	onRefresh func()
	onError   func(error)

	state       State
	searchField string
	searchQuery string
	searchOpen  bool
	lookupSeq   uint64
	candidates  []models.Customer
	customer    *models.Customer
	amountDue   string
	items       []Item
	violations  []string
	fieldErrors FieldErrors
}

// New returns an empty workflow. onRefresh fires after a successful
// submission so listings refetch; onError reports lookup failures. Either
// may be nil.
func New(api Gateway, onRefresh func(), onError func(error)) *Workflow {
	w := &Workflow{api: api, onRefresh: onRefresh, onError: onError}
	w.resetLocked()
	return w
}

// Reset discards all in-progress edits and returns to the initial state.
// Closing or cancelling the workflow from any state lands here.
func (w *Workflow) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.resetLocked()
}

func (w *Workflow) resetLocked() {
	w.state = StateEmpty
	w.searchField = SearchByID
	w.searchQuery = ""
	w.searchOpen = false
	w.candidates = nil
	w.customer = nil
	w.amountDue = ""
	w.items = []Item{blankItem()}
	w.violations = nil
	w.fieldErrors = FieldErrors{}
}

func (w *Workflow) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// OpenSearch starts a customer search session.
func (w *Workflow) OpenSearch() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.searchOpen = true
	if w.customer == nil {
		w.state = StateCustomerSearching
	}
}

// CloseSearch ends the search session without selecting.
func (w *Workflow) CloseSearch() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.searchOpen = false
}

// SetSearchField toggles between lookup by identifier and by name.
func (w *Workflow) SetSearchField(field string) error {
	if field != SearchByID && field != SearchByName {
		return fmt.Errorf("unknown customer search field %q", field)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.searchField == field {
		return nil
	}
	w.searchField = field
	w.lookupLocked()
	return nil
}

// SetSearchQuery records what the user typed and, while a search session is
// open, issues a lookup for it.
func (w *Workflow) SetSearchQuery(query string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.searchQuery == query {
		return
	}
	w.searchQuery = query
	w.lookupLocked()
}

func (w *Workflow) lookupLocked() {
	if !w.searchOpen || w.searchQuery == "" {
		return
	}
	w.lookupSeq++
	go w.runLookup(w.lookupSeq, w.searchField, w.searchQuery)
}

func (w *Workflow) runLookup(seq uint64, field, query string) {
	customers, err := w.api.SearchCustomers(field, query, lookupLimit)

	w.mu.Lock()
	if seq != w.lookupSeq {
		w.mu.Unlock()
		return
	}
	if err == nil {
		w.candidates = customers
	}
	w.mu.Unlock()

	if err != nil && w.onError != nil {
		w.onError(err)
	}
}

// Candidates returns the current lookup matches.
func (w *Workflow) Candidates() []models.Customer {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]models.Customer{}, w.candidates...)
}

// SelectCustomer attaches the full customer record to the draft and ends the
// search session.
func (w *Workflow) SelectCustomer(customer models.Customer) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.customer = &customer
	w.searchOpen = false
	w.fieldErrors.Customer = false
	w.state = StateCustomerSelected
}

// ClearCustomer detaches the selection and returns to search mode.
func (w *Workflow) ClearCustomer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.customer = nil
	w.state = StateCustomerSearching
}

// Customer returns the attached customer, or nil.
func (w *Workflow) Customer() *models.Customer {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.customer
}

// SetAmountDue records the raw amount input.
func (w *Workflow) SetAmountDue(raw string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.amountDue = raw
	w.fieldErrors.AmountDue = false
}

// AddItem appends a blank line item; there is no upper bound.
func (w *Workflow) AddItem() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.items = append(w.items, blankItem())
}

// RemoveItem removes the item at index. The first item is always present and
// cannot be removed.
func (w *Workflow) RemoveItem(index int) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if index <= 0 || index >= len(w.items) {
		return fmt.Errorf("cannot remove item at index %d", index)
	}
	w.items = append(w.items[:index], w.items[index+1:]...)
	if len(w.fieldErrors.Items) > index {
		w.fieldErrors.Items = append(w.fieldErrors.Items[:index], w.fieldErrors.Items[index+1:]...)
	}
	return nil
}

// SetItemType sets a line item's garment kind.
func (w *Workflow) SetItemType(index int, kind models.GarmentKind) error {
	if kind != "" && !kind.Valid() {
		return fmt.Errorf("unknown garment kind %q", kind)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if index < 0 || index >= len(w.items) {
		return fmt.Errorf("no item at index %d", index)
	}
	w.items[index].Type = kind
	if len(w.fieldErrors.Items) > index {
		w.fieldErrors.Items[index].Type = false
	}
	return nil
}

// SetItemCount records a line item's raw count input.
func (w *Workflow) SetItemCount(index int, raw string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if index < 0 || index >= len(w.items) {
		return fmt.Errorf("no item at index %d", index)
	}
	w.items[index].Count = raw
	if len(w.fieldErrors.Items) > index {
		w.fieldErrors.Items[index].Count = false
	}
	return nil
}

// SetItemFabric sets a line item's fabric description.
func (w *Workflow) SetItemFabric(index int, fabric string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if index < 0 || index >= len(w.items) {
		return fmt.Errorf("no item at index %d", index)
	}
	w.items[index].Fabric = fabric
	return nil
}

// SetItemNotes sets a line item's notes.
func (w *Workflow) SetItemNotes(index int, notes string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if index < 0 || index >= len(w.items) {
		return fmt.Errorf("no item at index %d", index)
	}
	w.items[index].Notes = notes
	return nil
}

// Items returns the draft's line items.
func (w *Workflow) Items() []Item {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]Item{}, w.items...)
}

// Violations returns the messages from the last submit attempt.
func (w *Workflow) Violations() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string{}, w.violations...)
}

// FieldErrors returns the per-field flags from the last submit attempt.
func (w *Workflow) FieldErrors() FieldErrors {
	w.mu.Lock()
	defer w.mu.Unlock()
	fe := w.fieldErrors
	fe.Items = append([]ItemErrors{}, w.fieldErrors.Items...)
	return fe
}

// Submit validates the draft and, only when no violation remains, sends it
// to the create-order endpoint. A validation failure aborts with no network
// call; a network failure leaves the draft intact for retry. Success resets
// the workflow and signals listings to refresh.
func (w *Workflow) Submit() (*models.Order, error) {
	w.mu.Lock()

	w.state = StateValidating
	violations, fieldErrors := w.validateLocked()
	w.violations = violations
	w.fieldErrors = fieldErrors
	if len(violations) > 0 {
		w.state = w.restingStateLocked()
		w.mu.Unlock()
		return nil, &ValidationError{Violations: violations, Fields: fieldErrors}
	}

	w.state = StateSubmitting
	order, err := w.api.CreateOrder(w.submissionLocked())
	if err != nil {
		w.state = StateFailed
		w.mu.Unlock()
		return nil, err
	}

	w.resetLocked()
	onRefresh := w.onRefresh
	w.mu.Unlock()

	// Invoked unlocked so the callback may read workflow state.
	if onRefresh != nil {
		onRefresh()
	}
	return order, nil
}

// submissionLocked builds the wire payload, stripping everything but the
// customer reference, the amount, and the items.
func (w *Workflow) submissionLocked() models.CreateOrderRequest {
	req := models.CreateOrderRequest{
		CustomerID: w.customer.ID,
		Items:      make([]models.OrderItem, 0, len(w.items)),
	}
	req.AmountDue, _ = strconv.ParseFloat(strings.TrimSpace(w.amountDue), 64)
	for _, item := range w.items {
		count, _ := strconv.Atoi(strings.TrimSpace(item.Count))
		req.Items = append(req.Items, models.OrderItem{
			Type:   item.Type,
			Count:  count,
			Fabric: item.Fabric,
			Notes:  item.Notes,
		})
	}
	return req
}

func (w *Workflow) restingStateLocked() State {
	switch {
	case w.customer != nil:
		return StateCustomerSelected
	case w.searchOpen:
		return StateCustomerSearching
	default:
		return StateEmpty
	}
}
