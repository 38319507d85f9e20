package render

import (
	"fmt"
	"io"

	"github.com/trebuchet-org/ignite/internal/usecase"
)

// ValidationRenderer renders validation results
type ValidationRenderer struct {
	out io.Writer
}

// NewValidationRenderer creates a new validation renderer
func NewValidationRenderer(out io.Writer) *ValidationRenderer {
	return &ValidationRenderer{out: out}
}

// RenderValidation prints one line per issue, or a success line
func (r *ValidationRenderer) RenderValidation(result *usecase.ValidationResult) error {
	if result.Valid() {
		fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("%s is valid (%s)", result.Plan.ModuleID, plural(len(result.Plan.Steps), "future"))))
		return nil
	}

	fmt.Fprintln(r.out, FormatError(fmt.Sprintf("%s has %s", result.Plan.ModuleID, plural(len(result.Issues), "issue"))))
	for _, issue := range result.Issues {
		fmt.Fprintf(r.out, "  • %s: %v\n", futureStyle.Sprint(issue.FutureID), issue.Err)
	}
	return nil
}
