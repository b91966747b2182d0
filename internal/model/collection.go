package model

import "iter"

// Collection is an append-ordered sequence of Records. It is not safe for
// concurrent use.
type Collection struct {
	records []Record
}

// NewCollection returns an empty collection.
func NewCollection() *Collection {
	return &Collection{}
}

// Append adds r at the tail.
func (c *Collection) Append(r Record) {
	c.records = append(c.records, r)
}

// Len returns the number of records.
func (c *Collection) Len() int {
	return len(c.records)
}

// All yields index and record in insertion order. The sequence can be ranged
// over any number of times.
func (c *Collection) All() iter.Seq2[int, Record] {
	return func(yield func(int, Record) bool) {
		for i, r := range c.records {
			if !yield(i, r) {
				return
			}
		}
	}
}

// Records returns a copy of the contents in insertion order.
func (c *Collection) Records() []Record {
	out := make([]Record, len(c.records))
	copy(out, c.records)
	return out
}

// Release drops every record. Calling it again is a no-op.
func (c *Collection) Release() {
	c.records = nil
}
