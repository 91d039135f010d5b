package core

import (
	"slices"
	"time"
)

// Product is a single catalog entry.
type Product struct {
	ID          int64
	Name        string
	Quantity    int64
	Price       int64     // Minor units (cents)
	LastUpdated time.Time // Calendar date, UTC midnight
}

// Draft holds the fields of a product that has not been stored yet.
// The store assigns the ID on create.
type Draft struct {
	Name        string
	Quantity    int64
	Price       int64
	LastUpdated time.Time
}

// Fields holds the mutable fields of a stored product.
type Fields struct {
	Quantity    int64
	Price       int64
	LastUpdated time.Time
}

// Fields returns the mutable part of the draft.
func (d Draft) Fields() Fields {
	return Fields{Quantity: d.Quantity, Price: d.Price, LastUpdated: d.LastUpdated}
}

// IDSet is the set of product IDs known to the store.
type IDSet map[int64]struct{}

// NewIDSet builds a set from the given IDs.
func NewIDSet(ids ...int64) IDSet {
	s := make(IDSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Has reports whether id is in the set.
func (s IDSet) Has(id int64) bool {
	_, ok := s[id]
	return ok
}

// Sorted returns the IDs in ascending order.
func (s IDSet) Sorted() []int64 {
	ids := make([]int64, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// RowOutcome is what reconciliation did with one CSV row.
type RowOutcome string

const (
	OutcomeCreated   RowOutcome = "created"
	OutcomeUpdated   RowOutcome = "updated"
	OutcomeUnchanged RowOutcome = "unchanged"
	OutcomeErrored   RowOutcome = "errored"
)

// RowError describes a CSV row that was skipped during import.
type RowError struct {
	Line   int      // 1-indexed line in the source file
	Reason string   // Why the row was skipped
	Record []string // Raw cells as read
}

// ImportSummary contains the final result of an import run.
type ImportSummary struct {
	RunID     string
	FileName  string
	Header    []string // Header row of the source file
	Rows      int      // Data rows seen (header excluded)
	Created   int
	Updated   int
	Unchanged int
	Errored   int
	Errors    []RowError
	Duration  time.Duration
}

// record tallies one row outcome.
func (s *ImportSummary) record(o RowOutcome) {
	switch o {
	case OutcomeCreated:
		s.Created++
	case OutcomeUpdated:
		s.Updated++
	case OutcomeUnchanged:
		s.Unchanged++
	case OutcomeErrored:
		s.Errored++
	}
}
