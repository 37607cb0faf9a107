package parser

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/penwyp/go-time-tracer/internal/core/model"
	"github.com/penwyp/go-time-tracer/internal/util"
)

// LineKind is the grammatical class of a source line.
type LineKind int

const (
	LineBlank LineKind = iota
	LineYear
	LineDate
	LineRemark
	LineEvent
	LineUnknown
)

func (k LineKind) String() string {
	switch k {
	case LineBlank:
		return "blank"
	case LineYear:
		return "year"
	case LineDate:
		return "date"
	case LineRemark:
		return "remark"
	case LineEvent:
		return "event"
	default:
		return "unknown"
	}
}

const bom = "\uFEFF"

// LineClassifier tests single lines against the source grammar. It holds only
// configuration and is safe for concurrent use.
type LineClassifier struct {
	remarkPrefix string
	delimiter    string
}

// NewLineClassifier creates a classifier for the given remark prefix and
// inline remark delimiter.
func NewLineClassifier(remarkPrefix, delimiter string) *LineClassifier {
	return &LineClassifier{remarkPrefix: remarkPrefix, delimiter: delimiter}
}

// CleanLine strips a UTF-8 BOM, carriage returns and surrounding whitespace.
func CleanLine(line string) string {
	line = strings.TrimPrefix(line, bom)
	return strings.TrimSpace(strings.TrimRight(line, "\r"))
}

// Classify returns the kind of an already cleaned line.
func (c *LineClassifier) Classify(line string) LineKind {
	switch {
	case line == "":
		return LineBlank
	case len(line) == 5 && line[0] == 'y' && allDigits(line[1:]):
		return LineYear
	case len(line) == 4 && allDigits(line):
		return LineDate
	case len(line) > 4 && allDigits(line[:4]) && !isDigit(line[4]):
		return LineEvent
	case c.remarkPrefix != "" && strings.HasPrefix(line, c.remarkPrefix):
		return LineRemark
	default:
		return LineUnknown
	}
}

// ParseYear parses a year line such as "y2025".
func ParseYear(line string) (int, error) {
	if len(line) != 5 || line[0] != 'y' || !allDigits(line[1:]) {
		return 0, fmt.Errorf("invalid year line %q", line)
	}
	return strconv.Atoi(line[1:])
}

// ParseDate parses an MMDD date line within year.
func ParseDate(line string, year int, loc *time.Location) (time.Time, error) {
	if len(line) != 4 || !allDigits(line) {
		return time.Time{}, fmt.Errorf("%w: %q", model.ErrInvalidDate, line)
	}
	month, _ := strconv.Atoi(line[:2])
	day, _ := strconv.Atoi(line[2:])
	if month < 1 || month > 12 {
		return time.Time{}, fmt.Errorf("%w: month %02d out of range", model.ErrInvalidDate, month)
	}
	if day < 1 || day > util.DaysIn(year, time.Month(month)) {
		return time.Time{}, fmt.Errorf("%w: %04d-%02d-%02d does not exist", model.ErrInvalidDate, year, month, day)
	}
	if loc == nil {
		loc = time.Local
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, loc), nil
}

// ParseRemark returns the text of a remark line.
func (c *LineClassifier) ParseRemark(line string) string {
	return strings.TrimSpace(strings.TrimPrefix(line, c.remarkPrefix))
}

// ParseEvent tokenizes an event line into its end time, description and
// inline remark. The description is not checked against any vocabulary.
func (c *LineClassifier) ParseEvent(line string) (model.RawEvent, error) {
	if len(line) <= 4 || !allDigits(line[:4]) {
		return model.RawEvent{}, fmt.Errorf("invalid event line %q", line)
	}
	minutes, err := util.ParseClock(line[:4])
	if err != nil {
		return model.RawEvent{}, fmt.Errorf("invalid event time %q: must be 00:00-23:59", line[:4])
	}

	body := line[4:]
	var remark string
	if c.delimiter != "" {
		if i := strings.Index(body, c.delimiter); i >= 0 {
			remark = strings.TrimSpace(body[i+len(c.delimiter):])
			body = body[:i]
		}
	}
	desc := strings.TrimSpace(body)
	if desc == "" {
		return model.RawEvent{}, fmt.Errorf("event at %s has no description", line[:4])
	}

	return model.RawEvent{
		EndTime:     util.FormatClock(minutes),
		Description: desc,
		Remark:      remark,
	}, nil
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}
	return s != ""
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
