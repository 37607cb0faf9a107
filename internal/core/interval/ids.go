package interval

import "sync/atomic"

// IDSource hands out strictly increasing logical ids.
type IDSource struct {
	last atomic.Int64
}

// NewIDSource returns a source whose first id is start.
func NewIDSource(start int64) *IDSource {
	s := &IDSource{}
	s.last.Store(start - 1)
	return s
}

// Next returns the next id.
func (s *IDSource) Next() int64 {
	return s.last.Add(1)
}
