package parameters

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"strings"

	"github.com/trebuchet-org/ignite/internal/domain/config"
	"github.com/trebuchet-org/ignite/internal/usecase"
	"gopkg.in/yaml.v3"
)

// Loader reads module parameter files shaped as {ModuleID: {name: value}}.
// JSON files keep integer precision; YAML files are decoded with yaml.v3.
type Loader struct {
	projectRoot string
}

// NewLoader creates a new parameters loader
func NewLoader(cfg *config.RuntimeConfig) *Loader {
	return &Loader{projectRoot: cfg.ProjectRoot}
}

// LoadParameters reads the parameters file at path, relative to the project root
func (l *Loader) LoadParameters(ctx context.Context, path string) (map[string]map[string]any, error) {
	if !filepath.IsAbs(path) && l.projectRoot != "" {
		path = filepath.Join(l.projectRoot, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read parameters file: %w", err)
	}

	var raw map[string]any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("failed to parse parameters file %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse parameters file %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported parameters file %s (use .json, .yaml or .yml)", path)
	}

	params := make(map[string]map[string]any, len(raw))
	for moduleID, values := range raw {
		entries, ok := values.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("parameters for module %s must be a mapping, got %T", moduleID, values)
		}
		normalized := make(map[string]any, len(entries))
		for name, v := range entries {
			n, err := normalize(v)
			if err != nil {
				return nil, fmt.Errorf("parameter %s.%s: %w", moduleID, name, err)
			}
			normalized[name] = n
		}
		params[moduleID] = normalized
	}
	return params, nil
}

// normalize turns decoder-specific values into the literals modules use
func normalize(v any) (any, error) {
	switch val := v.(type) {
	case json.Number:
		if n, ok := new(big.Int).SetString(val.String(), 10); ok {
			return n, nil
		}
		return nil, fmt.Errorf("number %s is not an integer", val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			n, err := normalize(item)
			if err != nil {
				return nil, err
			}
			out[i] = n
		}
		return out, nil
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			n, err := normalize(item)
			if err != nil {
				return nil, err
			}
			out[k] = n
		}
		return out, nil
	default:
		return v, nil
	}
}

// Ensure Loader implements ParameterSource
var _ usecase.ParameterSource = (*Loader)(nil)
