// Package buckets groups produced rows by (layer, geometry type) for the
// output boundary.
//
// A bucket set is the hand-off point of the conversion core: reprojection,
// bounding box filtering, and writing all happen on the other side of it.
package buckets

import "github.com/tsawler/cartograph/model"

// Key identifies one bucket.
type Key struct {
	Layer string
	Type  model.GeometryType
}

// Set holds rows grouped by bucket. Bucket order follows the order in which
// layer/type pairs were first encountered, making output ordering
// deterministic for a given input; rows within a bucket keep their
// production order.
type Set struct {
	// SourceCRS identifies the coordinate reference system of the source
	// drawing (for example "EPSG:3826"). The core never transforms
	// coordinates; the boundary uses this to reproject.
	SourceCRS string

	order []Key
	rows  map[Key][]model.Row
}

// NewSet creates an empty bucket set.
func NewSet() *Set {
	return &Set{rows: make(map[Key][]model.Row)}
}

// Add appends a row to its bucket, creating the bucket on first encounter.
func (s *Set) Add(row model.Row) {
	key := Key{Layer: row.Layer, Type: row.Type}
	if _, ok := s.rows[key]; !ok {
		s.order = append(s.order, key)
	}
	s.rows[key] = append(s.rows[key], row)
}

// Keys returns the bucket keys in first-encounter order.
func (s *Set) Keys() []Key {
	return append([]Key(nil), s.order...)
}

// Rows returns the rows of one bucket in production order.
func (s *Set) Rows(key Key) []model.Row {
	return s.rows[key]
}

// Len returns the number of buckets.
func (s *Set) Len() int {
	return len(s.order)
}

// Total returns the number of rows across all buckets.
func (s *Set) Total() int {
	var n int
	for _, rows := range s.rows {
		n += len(rows)
	}
	return n
}
