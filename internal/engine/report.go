package engine

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/coltype/internal/columns"
)

// WriteReportTable prints reports as an aligned COLUMN | LABEL | CONF table
func WriteReportTable(w io.Writer, reports []ColumnReport) error {
	width := len("COLUMN")
	for _, r := range reports {
		if len(r.Column) > width {
			width = len(r.Column)
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%-*s | %-13s | %s\n", width, "COLUMN", "LABEL", "CONF")
	b.WriteString(strings.Repeat("-", width+3+15+3+6))
	b.WriteString("\n")
	for _, r := range reports {
		fmt.Fprintf(&b, "%-*s | %-13s | %.2f\n", width, r.Column, r.Label, r.Confidence)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// WriteReportCSV writes reports as column,label,confidence rows
func WriteReportCSV(w io.Writer, reports []ColumnReport) error {
	rows := make([][]string, len(reports))
	for i, r := range reports {
		rows[i] = []string{r.Column, string(r.Label), strconv.FormatFloat(r.Confidence, 'f', -1, 64)}
	}
	return columns.WriteCSV(w, []string{"column", "label", "confidence"}, rows)
}
