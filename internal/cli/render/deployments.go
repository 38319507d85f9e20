package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/trebuchet-org/ignite/internal/usecase"
)

// DeploymentsRenderer renders deployment lists as tables
type DeploymentsRenderer struct {
	out io.Writer
}

// NewDeploymentsRenderer creates a new deployments renderer
func NewDeploymentsRenderer(out io.Writer) *DeploymentsRenderer {
	return &DeploymentsRenderer{out: out}
}

// RenderDeploymentList renders one row per deployment
func (r *DeploymentsRenderer) RenderDeploymentList(result *usecase.DeploymentListResult) error {
	if len(result.Deployments) == 0 {
		fmt.Fprintln(r.out, "No deployments found")
		return nil
	}

	t := newTable()
	t.AppendHeader(table.Row{"DEPLOYMENT", "CHAIN", "NETWORK", "MODULES", "FUTURES", "FAILED"})
	for _, d := range result.Deployments {
		failed := ""
		if d.Failed > 0 {
			failed = failedStyle.Sprint(d.Failed)
		}
		t.AppendRow(table.Row{
			headerStyle.Sprint(d.ID),
			d.ChainID,
			d.Network,
			strings.Join(d.Modules, ", "),
			fmt.Sprintf("%d/%d", d.Succeeded, d.Futures),
			failed,
		})
	}
	fmt.Fprintln(r.out, t.Render())
	return nil
}
