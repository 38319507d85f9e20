package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/trebuchet-org/ignite/internal/usecase"
)

// DeployRenderer handles rendering of deployment runs
type DeployRenderer struct {
	out io.Writer
}

// NewDeployRenderer creates a new deploy renderer
func NewDeployRenderer(out io.Writer) *DeployRenderer {
	return &DeployRenderer{out: out}
}

// GetWriter returns the io.Writer used by this renderer
func (r *DeployRenderer) GetWriter() io.Writer {
	return r.out
}

// RenderFutureStarting prints the header of a future being sent
func (r *DeployRenderer) RenderFutureStarting(current, total int, futureID string) {
	fmt.Fprintf(r.out, "[%d/%d] Deploying %s\n", current, total, futureStyle.Sprint(futureID))
}

// RenderFutureResult renders a single future result
func (r *DeployRenderer) RenderFutureResult(result *usecase.FutureResult) {
	switch result.Outcome {
	case usecase.OutcomeFailed:
		color.New(color.FgRed).Fprintf(r.out, "  ❌ Failed: %v\n", result.Error)
	case usecase.OutcomeSkipped:
		faintStyle.Fprintf(r.out, "  ⊘ %s already deployed at %s\n", result.Step.FutureID, result.Address)
	default:
		color.New(color.FgGreen).Fprintf(r.out, "  ✓ %s at %s\n", result.Step.ContractName, addressStyle.Sprint(result.Address))
		faintStyle.Fprintf(r.out, "    tx %s\n", result.TxHash)
	}
}

// deployJSON is the --json shape of a run
type deployJSON struct {
	DeploymentID string            `json:"deploymentId"`
	RunID        string            `json:"runId"`
	Module       string            `json:"module"`
	DryRun       bool              `json:"dryRun,omitempty"`
	Success      bool              `json:"success"`
	Deployed     []string          `json:"deployed"`
	Skipped      []string          `json:"skipped"`
	Failed       *failedJSON       `json:"failed,omitempty"`
	Results      map[string]string `json:"results"`
}

type failedJSON struct {
	FutureID string `json:"futureId"`
	Error    string `json:"error"`
}

// RenderJSON writes the run result as JSON
func (r *DeployRenderer) RenderJSON(result *usecase.DeployModuleResult) error {
	out := deployJSON{
		DeploymentID: result.DeploymentID,
		RunID:        result.RunID,
		Module:       result.Plan.ModuleID,
		DryRun:       result.DryRun,
		Success:      result.Success,
		Deployed:     futureIDs(result.Deployed),
		Skipped:      futureIDs(result.Skipped),
		Results:      result.Results,
	}
	if result.Failed != nil {
		out.Failed = &failedJSON{FutureID: result.Failed.Step.FutureID, Error: result.Failed.Error.Error()}
	}
	return RenderJSON(r.out, out)
}

// RenderSummary displays the final summary
func (r *DeployRenderer) RenderSummary(result *usecase.DeployModuleResult) {
	fmt.Fprintf(r.out, "\n%s\n", strings.Repeat("═", 70))

	if result.Success {
		verb := "Deployed"
		if result.DryRun {
			verb = "Simulated"
		}
		color.New(color.FgGreen, color.Bold).Fprintf(r.out, "🎉 %s %s\n", verb, result.Plan.ModuleID)
	} else {
		color.New(color.FgRed, color.Bold).Fprintf(r.out, "❌ Deployment of %s failed\n", result.Plan.ModuleID)
	}

	fmt.Fprintf(r.out, "\n📊 Summary:\n")
	fmt.Fprintf(r.out, "  • Deployment: %s\n", result.DeploymentID)
	fmt.Fprintf(r.out, "  • Run: %s\n", faintStyle.Sprint(result.RunID))
	fmt.Fprintf(r.out, "  • Deployed: %d/%d\n", len(result.Deployed), len(result.Plan.Steps))
	if len(result.Skipped) > 0 {
		fmt.Fprintf(r.out, "  • Already deployed: %d\n", len(result.Skipped))
	}
	if result.Failed != nil {
		fmt.Fprintf(r.out, "  • Failed at: %s\n", result.Failed.Step.FutureID)
		fmt.Fprintf(r.out, "  • Error: %v\n", result.Failed.Error)
	}

	if len(result.Results) > 0 {
		fmt.Fprintf(r.out, "\n%s results:\n", moduleStyle.Sprint(result.Plan.ModuleID))
		for _, name := range result.Plan.Definition.Results.Names() {
			addr, ok := result.Results[name]
			if !ok {
				continue
			}
			fmt.Fprintf(r.out, "  %s: %s\n", name, addressStyle.Sprint(addr))
		}
	}
}

func futureIDs(results []*usecase.FutureResult) []string {
	ids := make([]string, 0, len(results))
	for _, r := range results {
		ids = append(ids, r.Step.FutureID)
	}
	return ids
}
