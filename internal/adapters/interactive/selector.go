package interactive

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/manifoldco/promptui"
	"github.com/sahilm/fuzzy"
	"github.com/trebuchet-org/ignite/internal/domain/config"
	"github.com/trebuchet-org/ignite/internal/domain/models"
	"github.com/trebuchet-org/ignite/internal/usecase"
	"github.com/trebuchet-org/ignite/pkg/ignition"
)

// ErrNonInteractive is returned when a prompt is needed in non-interactive mode
var ErrNonInteractive = fmt.Errorf("interactive selection not available in non-interactive mode")

// SelectorAdapter handles interactive selection
type SelectorAdapter struct {
	config *config.RuntimeConfig
}

// NewSelectorAdapter creates a new selector adapter
func NewSelectorAdapter(cfg *config.RuntimeConfig) *SelectorAdapter {
	return &SelectorAdapter{config: cfg}
}

// SelectModule selects a module from a list
func (s *SelectorAdapter) SelectModule(ctx context.Context, modules []*ignition.Module, prompt string) (*ignition.Module, error) {
	if len(modules) == 0 {
		return nil, fmt.Errorf("no modules provided for selection")
	}

	// If only one module, return it directly
	if len(modules) == 1 {
		return modules[0], nil
	}

	if s.config.NonInteractive {
		return nil, ErrNonInteractive
	}

	options := make([]string, len(modules))
	for i, m := range modules {
		options[i] = m.ID()
	}

	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "▸ {{ . | cyan }}",
		Inactive: "  {{ . | faint }}",
		Selected: "✓ {{ . | green }}",
		Help:     color.New(color.FgYellow).Sprint("Use arrow keys to navigate, Enter to select"),
	}

	promptSelect := promptui.Select{
		Label:             prompt,
		Items:             options,
		Templates:         templates,
		Size:              10,
		StartInSearchMode: true,
		Searcher:          createFuzzySearchFunc(options),
	}

	index, _, err := promptSelect.Run()
	if err != nil {
		return nil, fmt.Errorf("selection cancelled: %w", err)
	}

	return modules[index], nil
}

// SelectFutures lets the user pick recorded futures
func (s *SelectorAdapter) SelectFutures(ctx context.Context, futures []*models.FutureState, prompt string) ([]*models.FutureState, error) {
	if s.config.NonInteractive {
		return nil, ErrNonInteractive
	}
	return SelectFutures(futures, prompt)
}

// createFuzzySearchFunc creates a fuzzy search function for promptui
func createFuzzySearchFunc(items []string) func(input string, index int) bool {
	return func(input string, index int) bool {
		// Empty search shows all items
		if input == "" {
			return true
		}

		input = strings.ToLower(input)
		item := strings.ToLower(items[index])

		if strings.Contains(item, input) {
			return true
		}

		return len(fuzzy.Find(input, []string{item})) > 0
	}
}

// Ensure the adapter implements the interfaces
var (
	_ usecase.ModuleSelector = (*SelectorAdapter)(nil)
	_ usecase.FutureSelector = (*SelectorAdapter)(nil)
)
