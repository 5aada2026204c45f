// Copyright 2026 The Kpimatrix Authors
// SPDX-License-Identifier: MIT

package series

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// SeriesSet is an insertion-ordered set of sibling series keyed by name.
// Lookup by name and iteration in order share one structure, so the two
// views can never disagree.
type SeriesSet struct {
	m *orderedmap.OrderedMap[string, *Series]
}

// NewSeriesSet returns an empty set.
func NewSeriesSet() *SeriesSet {
	return &SeriesSet{m: orderedmap.New[string, *Series]()}
}

// Len returns the number of series in the set.
func (s *SeriesSet) Len() int {
	if s == nil {
		return 0
	}
	return s.m.Len()
}

// Get returns the series named name, or nil.
func (s *SeriesSet) Get(name string) *Series {
	if s == nil {
		return nil
	}
	v, _ := s.m.Get(name)
	return v
}

// Has reports whether a series named name exists.
func (s *SeriesSet) Has(name string) bool {
	return s.Get(name) != nil
}

// GetOrCreate returns the series named name, creating it with create when
// absent. The boolean reports whether the series was created.
func (s *SeriesSet) GetOrCreate(name string, create func() *Series) (*Series, bool) {
	if v, ok := s.m.Get(name); ok {
		return v, false
	}
	v := create()
	v.Name = name
	s.m.Set(name, v)
	return v, true
}

// Put inserts or replaces the series under its name. A replaced series keeps
// its position; a new one is appended.
func (s *SeriesSet) Put(v *Series) {
	s.m.Set(v.Name, v)
}

// Delete removes the series named name and returns it.
func (s *SeriesSet) Delete(name string) *Series {
	v, _ := s.m.Delete(name)
	return v
}

// Series returns the series in order.
func (s *SeriesSet) Series() []*Series {
	if s == nil {
		return nil
	}
	out := make([]*Series, 0, s.m.Len())
	for pair := s.m.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Value)
	}
	return out
}

// Names returns the series names in order.
func (s *SeriesSet) Names() []string {
	if s == nil {
		return nil
	}
	out := make([]string, 0, s.m.Len())
	for pair := s.m.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Key)
	}
	return out
}

// reorder rebuilds the set in the order of ordered.
func (s *SeriesSet) reorder(ordered []*Series) {
	m := orderedmap.New[string, *Series]()
	for _, v := range ordered {
		m.Set(v.Name, v)
	}
	s.m = m
}
