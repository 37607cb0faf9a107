package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorSetDeduplicates(t *testing.T) {
	set := NewErrorSet("2025.txt")
	set.Addf(3, KindStructural, "year %d", 2027)
	set.Addf(3, KindStructural, "year %d", 2027)
	set.Addf(3, KindLineFormat, "year %d", 2027)

	assert.Equal(t, 2, set.Len())
	assert.Equal(t, 1, set.Count(KindStructural))
	assert.Equal(t, 1, set.Count(KindLineFormat))
}

func TestErrorSetSorted(t *testing.T) {
	set := NewErrorSet("b.txt")
	set.Addf(10, KindLineFormat, "late")
	set.Addf(2, KindStructural, "early")
	set.Add(Error{Source: "a.txt", LineNumber: 7, Kind: KindInvalidLineFormat, Message: "other file"})
	set.Addf(0, KindDateContinuity, "missing")

	sorted := set.Sorted()
	require.Len(t, sorted, 4)
	assert.Equal(t, "a.txt", sorted[0].Source)
	assert.Equal(t, 0, sorted[1].LineNumber)
	assert.Equal(t, 2, sorted[2].LineNumber)
	assert.Equal(t, 10, sorted[3].LineNumber)
}

func TestErrorSetBySource(t *testing.T) {
	set := NewErrorSet("")
	set.Add(Error{Source: "b.txt", LineNumber: 1, Kind: KindStructural, Message: "x"})
	set.Add(Error{Source: "a.txt", LineNumber: 4, Kind: KindStructural, Message: "y"})
	set.Add(Error{Source: "a.txt", LineNumber: 2, Kind: KindStructural, Message: "z"})

	sources, groups := set.BySource()
	assert.Equal(t, []string{"a.txt", "b.txt"}, sources)
	require.Len(t, groups["a.txt"], 2)
	assert.Equal(t, 2, groups["a.txt"][0].LineNumber)
}

func TestErrorSetMerge(t *testing.T) {
	a := NewErrorSet("a.txt")
	a.Addf(1, KindStructural, "one")
	b := NewErrorSet("b.txt")
	b.Addf(1, KindStructural, "one")
	b.Addf(2, KindStructural, "two")

	a.Merge(b)
	a.Merge(nil)
	assert.Equal(t, 3, a.Len())
}

func TestErrorString(t *testing.T) {
	e := Error{Source: "2025.txt", LineNumber: 12, Kind: KindRemarkAfterEvent, Message: "remark after event"}
	assert.Equal(t, "2025.txt:12: [RemarkAfterEvent] remark after event", e.Error())

	e.LineNumber = 0
	assert.Equal(t, "2025.txt: [RemarkAfterEvent] remark after event", e.Error())
}

func TestErrorKindString(t *testing.T) {
	assert.Equal(t, "FileAccess", KindFileAccess.String())
	assert.Equal(t, "InvalidLineFormat", KindInvalidLineFormat.String())
	assert.Equal(t, "Unknown", ErrorKind(99).String())
}
