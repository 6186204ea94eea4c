// Package search implements the paginated, filterable list pattern shared by
// the customers, orders, and accounts tables. One controller owns one
// entity's table state; every input change issues exactly one fetch, and
// responses that were superseded before resolving are discarded so the table
// never mixes rows from two filter states.
package search

import (
	"fmt"
	"sync"
)

// PageSizes is the fixed set of allowed rows-per-page values.
var PageSizes = []int{5, 10, 25}

// Query is the combined filter state for one fetch.
type Query struct {
	Page     int // 0-based; the gateway shifts to the API's 1-based pages
	PageSize int
	Field    string
	Text     string
	Status   string
}

// Page is one fetched page of rows plus the total match count for the pager.
type Page[T any] struct {
	Rows  []T
	Total int
}

// FetchFunc loads one page for the given query.
type FetchFunc[T any] func(Query) (Page[T], error)

// Controller drives one entity table. Fetches run asynchronously; each is
// tagged with a monotonic sequence number and only the latest-issued response
// is applied. A failed fetch reports through the error callback and leaves
// the previously displayed rows in place.
type Controller[T any] struct {
	mu      sync.Mutex
	fetch   FetchFunc[T]
	fields  []string
	onError func(error)

	q           Query
	refreshSeen int64
	seq         uint64
	rows        []T
	total       int
}

// NewController builds a controller over the entity's searchable fields; the
// first field is the default selection. onError may be nil.
func NewController[T any](fields []string, fetch FetchFunc[T], onError func(error)) *Controller[T] {
	c := &Controller[T]{
		fetch:   fetch,
		fields:  fields,
		onError: onError,
		q:       Query{PageSize: PageSizes[0]},
	}
	if len(fields) > 0 {
		c.q.Field = fields[0]
	}
	return c
}

// Start issues the initial fetch.
func (c *Controller[T]) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.issueLocked()
}

// SetPage moves to a 0-based page index.
func (c *Controller[T]) SetPage(page int) error {
	if page < 0 {
		return fmt.Errorf("page must not be negative, got %d", page)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.q.Page == page {
		return nil
	}
	c.q.Page = page
	c.issueLocked()
	return nil
}

// SetPageSize switches rows per page and resets to the first page.
func (c *Controller[T]) SetPageSize(size int) error {
	if !AllowedPageSize(size) {
		return fmt.Errorf("page size must be one of %v, got %d", PageSizes, size)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.q.PageSize == size {
		return nil
	}
	c.q.PageSize = size
	c.q.Page = 0
	c.issueLocked()
	return nil
}

// SetField switches the attribute searched against.
func (c *Controller[T]) SetField(field string) error {
	if !c.allowedField(field) {
		return fmt.Errorf("unknown search field %q", field)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.q.Field == field {
		return nil
	}
	c.q.Field = field
	c.issueLocked()
	return nil
}

// SetText updates the free-text query.
func (c *Controller[T]) SetText(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.q.Text == text {
		return
	}
	c.q.Text = text
	c.issueLocked()
}

// SetStatus updates the status filter; empty means all.
func (c *Controller[T]) SetStatus(status string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.q.Status == status {
		return
	}
	c.q.Status = status
	c.issueLocked()
}

// ObserveRefresh refetches when the externally owned refresh signal has
// changed since the last observation, even if no other input moved.
func (c *Controller[T]) ObserveRefresh(signal int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.refreshSeen == signal {
		return
	}
	c.refreshSeen = signal
	c.issueLocked()
}

// Rows returns the currently displayed page.
func (c *Controller[T]) Rows() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	rows := make([]T, len(c.rows))
	copy(rows, c.rows)
	return rows
}

// Total returns the total match count from the last applied fetch.
func (c *Controller[T]) Total() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.total
}

// Query returns the current combined filter state.
func (c *Controller[T]) Query() Query {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.q
}

// Fields returns the entity's searchable attributes.
func (c *Controller[T]) Fields() []string {
	return append([]string{}, c.fields...)
}

func (c *Controller[T]) issueLocked() {
	c.seq++
	seq := c.seq
	q := c.q
	go c.run(seq, q)
}

func (c *Controller[T]) run(seq uint64, q Query) {
	page, err := c.fetch(q)

	c.mu.Lock()
	if seq != c.seq {
		// A newer request was issued while this one was in flight.
		c.mu.Unlock()
		return
	}
	if err == nil {
		c.rows = page.Rows
		c.total = page.Total
	}
	c.mu.Unlock()

	if err != nil && c.onError != nil {
		c.onError(err)
	}
}

func (c *Controller[T]) allowedField(field string) bool {
	return AllowedField(c.fields, field)
}

// AllowedField reports whether field is one of the entity's declared
// searchable attributes.
func AllowedField(fields []string, field string) bool {
	for _, f := range fields {
		if f == field {
			return true
		}
	}
	return false
}

// AllowedPageSize reports whether size is one of the fixed page sizes.
func AllowedPageSize(size int) bool {
	for _, s := range PageSizes {
		if s == size {
			return true
		}
	}
	return false
}
