package export

import (
	"fmt"
	"io"
	"steamdoc/lib/scrapers/steamworks"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
)

// PrintLines writes each item's string form on its own line.
func PrintLines[T any](w io.Writer, items []T) error {
	for _, item := range items {
		_, err := fmt.Fprintln(w, item)
		if err != nil {
			return err
		}
	}
	return nil
}

// PrintValue writes a single value on one line.
func PrintValue(w io.Writer, value any) error {
	_, err := fmt.Fprintln(w, value)
	return err
}

func NewTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(w)
	return t
}

// RenderEndpoints draws one table per endpoint listing its parameters,
// each preceded by a line naming the endpoint.
func RenderEndpoints(w io.Writer, title string, endpoints []steamworks.Endpoint) {
	for i, endpoint := range endpoints {
		if i > 0 {
			fmt.Fprintln(w)
		}

		name := endpoint.Name
		if title != "" {
			name = title + " / " + name
		}

		fmt.Fprintf(w, "%s: %s %s\n", name, endpoint.Method, endpoint.Url)

		t := NewTable(w)
		t.AppendHeader(table.Row{"Parameter", "Type", "Required", "Description"})
		for _, name := range endpoint.Params.Names() {
			spec, _ := endpoint.Params.Get(name)
			t.AppendRow(table.Row{name, spec.Type, strconv.FormatBool(spec.Required), spec.Description})
		}
		t.Render()
	}
}
