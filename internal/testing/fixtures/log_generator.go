package fixtures

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Event is one HHMM<description> line.
type Event struct {
	Clock  string // HHMM
	Desc   string
	Remark string
}

// Day is one MMDD block of a source file.
type Day struct {
	Date    time.Time
	Remarks []string
	Events  []Event
}

// Seconds of the standard day's study, and of the night sleep between two
// standard days.
const (
	StandardStudySeconds = 30600
	StandardSleepSeconds = 28800
)

// StandardDay returns a well-formed day from a 07:00 wake to a 23:00 shower.
func StandardDay(date time.Time) Day {
	return Day{
		Date: date,
		Events: []Event{
			{Clock: "0700", Desc: "wake"},
			{Clock: "0720", Desc: "wash"},
			{Clock: "0745", Desc: "breakfast"},
			{Clock: "0945", Desc: "math", Remark: "linear algebra"},
			{Clock: "1215", Desc: "lunch"},
			{Clock: "1700", Desc: "code"},
			{Clock: "1830", Desc: "dinner"},
			{Clock: "1915", Desc: "run"},
			{Clock: "2100", Desc: "english"},
			{Clock: "2230", Desc: "bilibili"},
			{Clock: "2300", Desc: "shower"},
		},
	}
}

// Render writes days in source form. A year line is emitted before the
// first day and whenever the year changes.
func Render(days []Day) string {
	var b strings.Builder
	year := 0
	for _, d := range days {
		if d.Date.Year() != year {
			year = d.Date.Year()
			fmt.Fprintf(&b, "y%d\n", year)
		}
		fmt.Fprintf(&b, "%02d%02d\n", int(d.Date.Month()), d.Date.Day())
		for _, r := range d.Remarks {
			fmt.Fprintf(&b, "r %s\n", r)
		}
		for _, e := range d.Events {
			b.WriteString(e.Clock + e.Desc)
			if e.Remark != "" {
				b.WriteString("//" + e.Remark)
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}

// LogDataGenerator writes source log files below a base directory.
type LogDataGenerator struct {
	baseDir string
}

// NewLogDataGenerator creates a new generator
func NewLogDataGenerator(baseDir string) *LogDataGenerator {
	return &LogDataGenerator{
		baseDir: baseDir,
	}
}

// GenerateDays writes count consecutive standard days starting at start to
// name and returns the file path.
func (g *LogDataGenerator) GenerateDays(name string, start time.Time, count int) (string, error) {
	days := make([]Day, 0, count)
	for i := 0; i < count; i++ {
		days = append(days, StandardDay(start.AddDate(0, 0, i)))
	}
	return g.GenerateFile(name, Render(days))
}

// GenerateFile writes content to name and returns the file path.
func (g *LogDataGenerator) GenerateFile(name, content string) (string, error) {
	path := filepath.Join(g.baseDir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", err
	}
	return path, nil
}
