package progress

import (
	"context"

	"github.com/trebuchet-org/ignite/internal/cli/render"
	"github.com/trebuchet-org/ignite/internal/usecase"
)

// DeployProgress renders deployment events as they happen
type DeployProgress struct {
	renderer     *render.DeployRenderer
	plans        *render.PlanRenderer
	spinner      *SpinnerProgressReporter
	planRendered bool
}

// NewDeployProgress creates a new deploy progress reporter
func NewDeployProgress(renderer *render.DeployRenderer, plans *render.PlanRenderer) *DeployProgress {
	return &DeployProgress{
		renderer: renderer,
		plans:    plans,
		spinner:  newSpinnerProgressReporter(renderer.GetWriter()),
	}
}

// OnProgress handles progress events for deployments
func (p *DeployProgress) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	switch event.Stage {
	case usecase.StagePlanCreated:
		if plan, ok := event.Metadata.(*usecase.ExecutionPlan); ok && !p.planRendered {
			p.plans.RenderExecutionPlan(plan)
			p.planRendered = true
		}

	case usecase.StageFutureStarting:
		p.spinner.Stop()
		p.renderer.RenderFutureStarting(event.Current, event.Total, event.Message)
		p.spinner.OnProgress(ctx, usecase.ProgressEvent{Spinner: true, Message: "sending " + event.Message})

	case usecase.StageFutureSkipped, usecase.StageFutureCompleted:
		p.spinner.Stop()
		if result, ok := event.Metadata.(*usecase.FutureResult); ok {
			p.renderer.RenderFutureResult(result)
		}

	case usecase.StageDeployCompleted:
		// The summary is rendered by the command after Run returns
		p.spinner.Stop()

	default:
		p.spinner.OnProgress(ctx, event)
	}
}

// Info forwards info messages to the spinner
func (p *DeployProgress) Info(message string) {
	p.spinner.Info(message)
}

// Error forwards error messages to the spinner
func (p *DeployProgress) Error(message string) {
	p.spinner.Error(message)
}

// Ensure DeployProgress implements ProgressSink
var _ usecase.ProgressSink = (*DeployProgress)(nil)
