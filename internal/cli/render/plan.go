package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/trebuchet-org/ignite/internal/usecase"
	"github.com/trebuchet-org/ignite/pkg/ignition"
)

// PlanRenderer renders execution plans
type PlanRenderer struct {
	out io.Writer
}

// NewPlanRenderer creates a new plan renderer
func NewPlanRenderer(out io.Writer) *PlanRenderer {
	return &PlanRenderer{out: out}
}

// planJSON is the --json shape of a plan
type planJSON struct {
	Module  string         `json:"module"`
	Batches [][]string     `json:"batches"`
	Futures []planStepJSON `json:"futures"`
}

type planStepJSON struct {
	ID           string   `json:"id"`
	Module       string   `json:"module"`
	Contract     string   `json:"contract"`
	Kind         string   `json:"kind"`
	Batch        int      `json:"batch"`
	Dependencies []string `json:"dependencies"`
}

// RenderJSON writes the plan as JSON
func (r *PlanRenderer) RenderJSON(plan *usecase.ExecutionPlan) error {
	out := planJSON{Module: plan.ModuleID, Batches: plan.Batches, Futures: []planStepJSON{}}
	for _, step := range plan.Steps {
		deps := step.Dependencies
		if deps == nil {
			deps = []string{}
		}
		out.Futures = append(out.Futures, planStepJSON{
			ID:           step.FutureID,
			Module:       step.ModuleID,
			Contract:     step.ContractName,
			Kind:         string(step.Kind),
			Batch:        step.Batch,
			Dependencies: deps,
		})
	}
	return RenderJSON(r.out, out)
}

// RenderExecutionPlan displays the execution plan grouped by batch
func (r *PlanRenderer) RenderExecutionPlan(plan *usecase.ExecutionPlan) {
	fmt.Fprintf(r.out, "\n🎯 Module %s\n", plan.ModuleID)

	color.New(color.Bold).Fprintf(r.out, "📋 Execution Plan: ")
	faintStyle.Fprintf(r.out, "%s in %s\n", plural(len(plan.Steps), "future"), plural(len(plan.Batches), "batch"))
	fmt.Fprintf(r.out, "%s\n", strings.Repeat("─", 50))

	n := 0
	for b, batch := range plan.Batches {
		faintStyle.Fprintf(r.out, "Batch #%d\n", b+1)
		for _, id := range batch {
			n++
			step := plan.Step(id)
			fmt.Fprintf(r.out, "%d. ", n)
			futureStyle.Fprintf(r.out, "%s", step.FutureID)
			if step.Kind == ignition.KindLibrary {
				color.New(color.FgBlue).Fprintf(r.out, " [library]")
			}
			if len(step.Dependencies) > 0 {
				color.New(color.FgHiBlack).Fprintf(r.out, " (depends on: %s)", strings.Join(step.Dependencies, ", "))
			}
			fmt.Fprintln(r.out)
		}
	}

	fmt.Fprintln(r.out)
}
