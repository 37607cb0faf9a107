package model

import (
	"errors"
	"fmt"
	"sort"
)

var (
	ErrNotFound    = errors.New("not found")
	ErrInvalidDate = errors.New("invalid date")
)

// ErrorKind classifies a validation error.
type ErrorKind int

const (
	KindFileAccess ErrorKind = iota
	KindStructural
	KindLineFormat
	KindTimeDiscontinuity
	KindMissingSleepNight
	KindDateContinuity
	KindTooFewActivities
	KindRemarkAfterEvent
	KindInvalidLineFormat
)

func (k ErrorKind) String() string {
	switch k {
	case KindFileAccess:
		return "FileAccess"
	case KindStructural:
		return "Structural"
	case KindLineFormat:
		return "LineFormat"
	case KindTimeDiscontinuity:
		return "TimeDiscontinuity"
	case KindMissingSleepNight:
		return "MissingSleepNight"
	case KindDateContinuity:
		return "DateContinuity"
	case KindTooFewActivities:
		return "TooFewActivities"
	case KindRemarkAfterEvent:
		return "RemarkAfterEvent"
	case KindInvalidLineFormat:
		return "InvalidLineFormat"
	default:
		return "Unknown"
	}
}

// Error is one validation finding. LineNumber is 0 when not line specific.
type Error struct {
	Source     string    `json:"source,omitempty"`
	LineNumber int       `json:"line"`
	Kind       ErrorKind `json:"kind"`
	Message    string    `json:"message"`
}

func (e Error) Error() string {
	if e.LineNumber > 0 {
		return fmt.Sprintf("%s:%d: [%s] %s", e.Source, e.LineNumber, e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: [%s] %s", e.Source, e.Kind, e.Message)
}

// NewError creates an Error without source; the owning ErrorSet fills it in.
func NewError(line int, kind ErrorKind, format string, args ...interface{}) Error {
	return Error{LineNumber: line, Kind: kind, Message: fmt.Sprintf(format, args...)}
}

type errorKey struct {
	source  string
	line    int
	kind    ErrorKind
	message string
}

// ErrorSet collects unique errors. The zero value is not usable; use NewErrorSet.
type ErrorSet struct {
	source string
	seen   map[errorKey]struct{}
	items  []Error
}

// NewErrorSet creates a set whose errors default to the given source.
func NewErrorSet(source string) *ErrorSet {
	return &ErrorSet{
		source: source,
		seen:   make(map[errorKey]struct{}),
	}
}

// Add records err unless an identical one is already present.
func (s *ErrorSet) Add(err Error) {
	if err.Source == "" {
		err.Source = s.source
	}
	key := errorKey{source: err.Source, line: err.LineNumber, kind: err.Kind, message: err.Message}
	if _, ok := s.seen[key]; ok {
		return
	}
	s.seen[key] = struct{}{}
	s.items = append(s.items, err)
}

// Addf is shorthand for Add(NewError(...)).
func (s *ErrorSet) Addf(line int, kind ErrorKind, format string, args ...interface{}) {
	s.Add(NewError(line, kind, format, args...))
}

// Merge adds every error from other.
func (s *ErrorSet) Merge(other *ErrorSet) {
	if other == nil {
		return
	}
	for _, e := range other.items {
		s.Add(e)
	}
}

// Len returns the number of unique errors.
func (s *ErrorSet) Len() int {
	return len(s.items)
}

// Empty reports whether no error was recorded.
func (s *ErrorSet) Empty() bool {
	return len(s.items) == 0
}

// Count returns how many errors of kind were recorded.
func (s *ErrorSet) Count(kind ErrorKind) int {
	n := 0
	for _, e := range s.items {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

// Sorted returns the errors ordered by source, line, kind and message.
func (s *ErrorSet) Sorted() []Error {
	out := make([]Error, len(s.items))
	copy(out, s.items)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Source != b.Source {
			return a.Source < b.Source
		}
		if a.LineNumber != b.LineNumber {
			return a.LineNumber < b.LineNumber
		}
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		return a.Message < b.Message
	})
	return out
}

// BySource groups the sorted errors by their source.
func (s *ErrorSet) BySource() (sources []string, groups map[string][]Error) {
	groups = make(map[string][]Error)
	for _, e := range s.Sorted() {
		if _, ok := groups[e.Source]; !ok {
			sources = append(sources, e.Source)
		}
		groups[e.Source] = append(groups[e.Source], e)
	}
	return sources, groups
}
