package render

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/trebuchet-org/ignite/internal/domain/models"
	"github.com/trebuchet-org/ignite/internal/usecase"
)

// DeploymentRenderer renders detailed information about a single deployment
type DeploymentRenderer struct {
	out io.Writer
}

// NewDeploymentRenderer creates a new deployment renderer
func NewDeploymentRenderer(out io.Writer) *DeploymentRenderer {
	return &DeploymentRenderer{out: out}
}

// RenderDeployment renders the journal grouped by module
func (r *DeploymentRenderer) RenderDeployment(details *usecase.DeploymentDetails) error {
	state := details.State

	headerStyle.Fprintf(r.out, "Deployment: %s\n", state.ID)
	fmt.Fprintln(r.out, strings.Repeat("=", 80))

	fmt.Fprintf(r.out, "  Chain ID: %d\n", state.ChainID)
	if state.Network != "" {
		fmt.Fprintf(r.out, "  Network: %s\n", state.Network)
	}
	if state.LastRunID != "" {
		fmt.Fprintf(r.out, "  Last run: %s\n", faintStyle.Sprint(state.LastRunID))
	}
	fmt.Fprintf(r.out, "  Updated: %s\n", state.UpdatedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(r.out, "  Futures: %s, %s, %s\n",
		successStyle.Sprintf("%d succeeded", details.Summary[models.FutureStatusSuccess]),
		failedStyle.Sprintf("%d failed", details.Summary[models.FutureStatusFailed]),
		pendingStyle.Sprintf("%d pending", details.Summary[models.FutureStatusPending]))

	modules := make([]string, 0, len(details.ByModule))
	for m := range details.ByModule {
		modules = append(modules, m)
	}
	sort.Strings(modules)

	for _, m := range modules {
		fmt.Fprintln(r.out)
		moduleStyle.Fprintln(r.out, m)

		t := newTable()
		for _, id := range details.ByModule[m] {
			f := state.Future(id)
			_, contract := splitFutureID(id)
			row := table.Row{futureStyle.Sprint(contract), FormatStatus(f.Status), addressStyle.Sprint(f.Address)}
			if f.Error != "" {
				row = append(row, color.New(color.FgRed).Sprint(f.Error))
			}
			t.AppendRow(row)
		}
		fmt.Fprintln(r.out, t.Render())
	}

	return nil
}
