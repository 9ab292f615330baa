package robot

import (
	"regexp"
	"strings"
)

const (
	// cellSep is the column delimiter of the plain-text table syntax.
	cellSep = "    "
	// emptyCell is the DSL's designated placeholder for an empty optional
	// cell. A literal empty string would misalign every column after it.
	emptyCell = "${EMPTY}"
)

var spaceRuns = regexp.MustCompile(` {2,}`)

// normalizeCell makes a value safe to occupy one table cell: tabs become
// spaces, runs of two or more spaces collapse to one, and an empty result is
// replaced by the ${EMPTY} placeholder.
func normalizeCell(s string) string {
	s = strings.ReplaceAll(s, "\t", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	s = spaceRuns.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)
	if s == "" {
		return emptyCell
	}
	return s
}

// scriptWriter accumulates the script text line by line.
type scriptWriter struct {
	b strings.Builder
}

func (w *scriptWriter) section(name string) {
	if w.b.Len() > 0 {
		w.b.WriteString("\n")
	}
	w.b.WriteString("*** " + name + " ***\n")
}

// row writes one table row at the given indent depth, normalizing each cell.
func (w *scriptWriter) row(indent int, cells ...string) {
	w.b.WriteString(strings.Repeat(cellSep, indent))
	normalized := make([]string, len(cells))
	for i, c := range cells {
		normalized[i] = normalizeCell(c)
	}
	w.b.WriteString(strings.Join(normalized, cellSep))
	w.b.WriteString("\n")
}

// name writes an unindented test-case or keyword name line, which is not a
// cell and keeps its spacing as-is.
func (w *scriptWriter) name(s string) {
	w.b.WriteString(s + "\n")
}

func (w *scriptWriter) blank() {
	w.b.WriteString("\n")
}

func (w *scriptWriter) String() string {
	return w.b.String()
}
