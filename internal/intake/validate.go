package intake

import (
	"fmt"
	"strconv"
	"strings"
)

// Violation messages shown to the user. Item messages carry the item's
// 1-based position; the measurements message is deliberately aggregate and
// does not pinpoint an item.
const (
	MsgCustomerRequired    = "customer must be selected"
	MsgAmountRequired      = "a valid amount is required"
	MsgMissingMeasurements = "selected customer lacks required measurements for one or more items"
)

func msgItemType(position int) string {
	return fmt.Sprintf("a garment type is required for item %d", position)
}

func msgItemCount(position int) string {
	return fmt.Sprintf("a valid count is required for item %d", position)
}

// ValidationError carries the full ordered violation list from a failed
// submit attempt.
type ValidationError struct {
	Violations []string
	Fields     FieldErrors
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("order draft is invalid: %s", strings.Join(e.Violations, "; "))
}

// validateLocked runs the submit-time checks in fixed order, accumulating
// every violation rather than stopping at the first.
func (w *Workflow) validateLocked() ([]string, FieldErrors) {
	var violations []string
	fieldErrors := FieldErrors{Items: make([]ItemErrors, len(w.items))}

	if w.customer == nil {
		violations = append(violations, MsgCustomerRequired)
		fieldErrors.Customer = true
	}

	if !validAmount(w.amountDue) {
		violations = append(violations, MsgAmountRequired)
		fieldErrors.AmountDue = true
	}

	for i, item := range w.items {
		if item.Type == "" {
			violations = append(violations, msgItemType(i+1))
			fieldErrors.Items[i].Type = true
		}
		if !validCount(item.Count) {
			violations = append(violations, msgItemCount(i+1))
			fieldErrors.Items[i].Count = true
		}
	}

	if w.customer != nil && !w.measurementsCoveredLocked() {
		violations = append(violations, MsgMissingMeasurements)
	}

	return violations, fieldErrors
}

// measurementsCoveredLocked checks that every typed line item refers to a
// garment kind the attached customer has measurements on file for.
func (w *Workflow) measurementsCoveredLocked() bool {
	for _, item := range w.items {
		if item.Type == "" {
			continue
		}
		if !w.customer.Measurements.Populated(item.Type) {
			return false
		}
	}
	return true
}

func validAmount(raw string) bool {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false
	}
	amount, err := strconv.ParseFloat(raw, 64)
	return err == nil && amount >= 0
}

func validCount(raw string) bool {
	count, err := strconv.Atoi(strings.TrimSpace(raw))
	return err == nil && count >= 1
}
