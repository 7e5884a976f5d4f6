package cli

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"golang.org/x/term"
)

// Table renders key/value style tables for command output
type Table struct {
	data  bytes.Buffer
	table *tablewriter.Table
}

func NewTable(headers ...string) *Table {
	t := &Table{}
	t.table = tablewriter.NewWriter(&t.data)
	t.table.Options(tablewriter.WithHeaderAlignment(tw.AlignLeft))
	t.table.Configure(func(cfg *tablewriter.Config) {
		if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && width > 0 {
			cfg.MaxWidth = width
		}
	})
	t.table.Header(headers)
	return t
}

// AddRow appends `values` formatted for display, booleans become
// yes/no and string slices are comma-separated
func (t *Table) AddRow(values ...any) error {
	row := make([]string, 0, len(values))
	for _, value := range values {
		row = append(row, formatCell(value))
	}
	return t.table.Append(row)
}

func (t *Table) String() string {
	t.data.Reset()
	t.table.Render()
	return t.data.String()
}

func formatCell(value any) string {
	switch v := value.(type) {
	case nil:
		return "-"
	case bool:
		if v {
			return "yes"
		}
		return "no"
	case string:
		return v
	case []string:
		return strings.Join(v, ", ")
	}
	return fmt.Sprintf("%v", value)
}
