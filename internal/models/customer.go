package models

import "strings"

// Customer is a shop customer as returned by the backend. The identifier is
// server-assigned and opaque.
type Customer struct {
	ID           string         `json:"_id"`
	Name         string         `json:"name"`
	Phone        []string       `json:"phone"`
	Residence    string         `json:"residence"`
	Measurements MeasurementSet `json:"measurements"`
}

// PhoneDisplay joins the stored numbers back into the comma-separated form
// the console edits them in.
func (c *Customer) PhoneDisplay() string {
	return strings.Join(c.Phone, ",")
}

// CustomerPayload is the writable subset of a customer record; it never
// carries the server-owned identifier.
type CustomerPayload struct {
	Name         string         `json:"name"`
	Phone        []string       `json:"phone"`
	Residence    string         `json:"residence"`
	Measurements MeasurementSet `json:"measurements"`
}

// CustomerDraft is the mutable builder behind the add/edit customer forms.
// Phone is kept in its comma-separated input form until submission.
type CustomerDraft struct {
	Name         string
	Phone        string
	Residence    string
	Measurements MeasurementSet
}

// NewCustomerDraft returns a blank draft with an empty measurements entry per
// garment kind.
func NewCustomerDraft() CustomerDraft {
	return CustomerDraft{Measurements: NewMeasurementSet()}
}

// ToSubmission converts the draft into the wire payload, splitting the phone
// field on commas and trimming each entry.
func (d CustomerDraft) ToSubmission() CustomerPayload {
	var phones []string
	for _, p := range strings.Split(d.Phone, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			phones = append(phones, p)
		}
	}
	measurements := d.Measurements
	if measurements == nil {
		measurements = NewMeasurementSet()
	}
	return CustomerPayload{
		Name:         d.Name,
		Phone:        phones,
		Residence:    d.Residence,
		Measurements: measurements,
	}
}
