// Package forms holds the view-then-edit buffer shared by the customer,
// order, and account detail panels, plus the field input sanitizers.
package forms

import (
	"encoding/json"
	"fmt"
)

// Buffer holds a record read-only until an explicit edit begins, then edits
// a local copy. Save hands the copy out for submission; Cancel throws it
// away and reverts to the original with no network involvement. On a failed
// update the buffer is kept so typed changes survive.
type Buffer[T any] struct {
	original T
	draft    T
	editing  bool
}

// NewBuffer wraps a freshly fetched record.
func NewBuffer[T any](record T) (*Buffer[T], error) {
	b := &Buffer[T]{}
	if err := b.Load(record); err != nil {
		return nil, err
	}
	return b, nil
}

// Load replaces the buffered record, dropping any edit in progress.
func (b *Buffer[T]) Load(record T) error {
	copied, err := deepCopy(record)
	if err != nil {
		return err
	}
	b.original = record
	b.draft = copied
	b.editing = false
	return nil
}

// BeginEdit copies the record into the mutable draft and enables editing.
func (b *Buffer[T]) BeginEdit() error {
	copied, err := deepCopy(b.original)
	if err != nil {
		return err
	}
	b.draft = copied
	b.editing = true
	return nil
}

func (b *Buffer[T]) Editing() bool { return b.editing }

// Draft exposes the mutable copy; mutations never touch the original.
func (b *Buffer[T]) Draft() *T { return &b.draft }

// Record returns what the panel renders: the draft while editing, the
// original otherwise.
func (b *Buffer[T]) Record() T {
	if b.editing {
		return b.draft
	}
	return b.original
}

// Save returns the draft for submission. The buffer stays in edit mode until
// Saved is called, so a failed update loses nothing.
func (b *Buffer[T]) Save() T { return b.draft }

// Saved commits the draft after a successful update.
func (b *Buffer[T]) Saved() error {
	copied, err := deepCopy(b.draft)
	if err != nil {
		return err
	}
	b.original = copied
	b.editing = false
	return nil
}

// Cancel discards the draft and reverts to the original record.
func (b *Buffer[T]) Cancel() error {
	copied, err := deepCopy(b.original)
	if err != nil {
		return err
	}
	b.draft = copied
	b.editing = false
	return nil
}

// deepCopy goes through JSON so records holding maps and slices detach
// fully from the original.
func deepCopy[T any](v T) (T, error) {
	var out T
	data, err := json.Marshal(v)
	if err != nil {
		return out, fmt.Errorf("failed to copy record: %w", err)
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, fmt.Errorf("failed to copy record: %w", err)
	}
	return out, nil
}
