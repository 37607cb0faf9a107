package formatter

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/penwyp/go-time-tracer/internal/util"
)

// Style describes a lightweight markup language.
type Style struct {
	Name     string
	Heading  func(level int, text string) string
	Bold     func(text string) string
	Escape   func(text string) string
	ListOpen func(depth int) string
	ListItem func(depth int, text string) string
	ListEnd  func(depth int) string
}

var markdownEscaper = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `_`, `\_`, "`", "\\`", `#`, `\#`)

// Markdown renders GitHub flavoured Markdown.
var Markdown = Style{
	Name:     "markdown",
	Heading:  func(level int, text string) string { return strings.Repeat("#", level) + " " + text + "\n" },
	Bold:     func(text string) string { return "**" + text + "**" },
	Escape:   markdownEscaper.Replace,
	ListOpen: func(int) string { return "" },
	ListItem: func(depth int, text string) string { return util.Indent(depth) + "- " + text + "\n" },
	ListEnd:  func(int) string { return "" },
}

var latexEscaper = strings.NewReplacer(
	`\`, `\textbackslash{}`, `{`, `\{`, `}`, `\}`, `$`, `\$`, `&`, `\&`,
	`#`, `\#`, `^`, `\^{}`, `_`, `\_`, `%`, `\%`, `~`, `\~{}`,
)

// LaTeX renders starred sections and nested itemize environments.
var LaTeX = Style{
	Name: "latex",
	Heading: func(level int, text string) string {
		return `\` + strings.Repeat("sub", level-1) + "section*{" + text + "}\n"
	},
	Bold:     func(text string) string { return `\textbf{` + text + "}" },
	Escape:   latexEscaper.Replace,
	ListOpen: func(depth int) string { return util.Indent(depth) + `\begin{itemize}` + "\n" },
	ListItem: func(depth int, text string) string { return util.Indent(depth+1) + `\item ` + text + "\n" },
	ListEnd:  func(depth int) string { return util.Indent(depth) + `\end{itemize}` + "\n" },
}

var typstEscaper = strings.NewReplacer(
	`\`, `\\`, `*`, `\*`, `_`, `\_`, `#`, `\#`, `$`, `\$`, `@`, `\@`, `<`, `\<`, `[`, `\[`, `]`, `\]`, `~`, `\~`,
)

// Typst renders Typst markup.
var Typst = Style{
	Name:     "typst",
	Heading:  func(level int, text string) string { return strings.Repeat("=", level) + " " + text + "\n" },
	Bold:     func(text string) string { return "*" + text + "*" },
	Escape:   typstEscaper.Replace,
	ListOpen: func(int) string { return "" },
	ListItem: func(depth int, text string) string { return util.Indent(depth) + "- " + text + "\n" },
	ListEnd:  func(int) string { return "" },
}

// MarkupFormatter renders a report in a markup Style.
type MarkupFormatter struct {
	style Style
}

func NewMarkupFormatter(style Style) *MarkupFormatter {
	return &MarkupFormatter{style: style}
}

func (f *MarkupFormatter) Format(w io.Writer, r *Report) error {
	s := f.style
	bw := bufio.NewWriter(w)

	bw.WriteString(s.Heading(1, s.Escape(r.Heading())))
	bw.WriteString("\n")
	for _, line := range overview(r) {
		bw.WriteString(s.Escape(line) + "\n\n")
	}
	if r.Empty() {
		bw.WriteString(s.Escape("No data for this period.") + "\n")
		return bw.Flush()
	}

	if lines := StatLines(r); len(lines) > 0 {
		bw.WriteString(s.Heading(2, "Statistics"))
		bw.WriteString("\n")
		bw.WriteString(s.ListOpen(0))
		for _, l := range lines {
			text := fmt.Sprintf("%s: %s (daily %s)", s.Bold(s.Escape(l.Label)),
				util.FormatDuration(l.Total), util.FormatDuration(l.Average))
			bw.WriteString(s.ListItem(0, text))
		}
		bw.WriteString(s.ListEnd(0))
		bw.WriteString("\n")
	}

	if len(r.Breakdown) > 0 {
		bw.WriteString(s.Heading(2, "Project Breakdown"))
		bw.WriteString("\n")
		f.writeBreakdown(bw, r)
	}
	return bw.Flush()
}

// writeBreakdown emits the rows as nested lists, opening and closing one
// level whenever the depth changes.
func (f *MarkupFormatter) writeBreakdown(bw *bufio.Writer, r *Report) {
	s := f.style
	depth := -1
	for _, row := range r.Breakdown {
		for depth < row.Depth {
			depth++
			bw.WriteString(s.ListOpen(depth))
		}
		for depth > row.Depth {
			bw.WriteString(s.ListEnd(depth))
			depth--
		}
		name := s.Escape(row.Name)
		if row.Depth == 0 {
			name = s.Bold(name)
		}
		text := fmt.Sprintf("%s: %s (%s)", name, util.FormatDuration(row.Duration),
			s.Escape(util.FormatPercentage(row.Percentage)))
		bw.WriteString(s.ListItem(row.Depth, text))
	}
	for ; depth >= 0; depth-- {
		bw.WriteString(s.ListEnd(depth))
	}
}
