package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/trebuchet-org/ignite/internal/usecase"
)

// ModulesRenderer renders the module list
type ModulesRenderer struct {
	out io.Writer
}

// NewModulesRenderer creates a new modules renderer
func NewModulesRenderer(out io.Writer) *ModulesRenderer {
	return &ModulesRenderer{out: out}
}

// RenderModules renders one row per module
func (r *ModulesRenderer) RenderModules(modules []usecase.ModuleSummary) error {
	if len(modules) == 0 {
		fmt.Fprintln(r.out, "No modules registered")
		return nil
	}

	t := newTable()
	t.AppendHeader(table.Row{"MODULE", "FUTURES", "RESULTS", "PARAMETERS", "USES"})
	for _, m := range modules {
		t.AppendRow(table.Row{
			moduleStyle.Sprint(m.ID),
			len(m.Futures),
			strings.Join(m.Results, ", "),
			strings.Join(m.Parameters, ", "),
			strings.Join(m.Submodules, ", "),
		})
	}
	fmt.Fprintln(r.out, t.Render())
	return nil
}

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.Style().Options.DrawBorder = false
	t.Style().Options.SeparateColumns = false
	t.Style().Options.SeparateRows = false
	return t
}
