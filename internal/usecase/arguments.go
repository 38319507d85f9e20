package usecase

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/ignite/internal/domain"
	"github.com/trebuchet-org/ignite/pkg/ignition"
)

// ModuleParameters holds deploy-time values keyed by module id then parameter name
type ModuleParameters map[string]map[string]any

// Lookup returns the supplied value of a parameter or its default
func (p ModuleParameters) Lookup(param ignition.ModuleParameter) (any, error) {
	if values, ok := p[param.ModuleID]; ok {
		if v, ok := values[param.Name]; ok {
			return v, nil
		}
	}
	if param.DefaultValue != nil {
		return param.DefaultValue, nil
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrMissingParameter, param)
}

// argumentResolver replaces handles and parameters inside constructor args
type argumentResolver struct {
	params  ModuleParameters
	address func(h ignition.ContractHandle) (common.Address, error)
}

func (r argumentResolver) resolve(args []any) ([]any, error) {
	out := make([]any, len(args))
	for i, arg := range args {
		v, err := r.resolveValue(arg)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}

func (r argumentResolver) resolveValue(arg any) (any, error) {
	switch v := arg.(type) {
	case ignition.ContractHandle:
		return r.address(v)
	case ignition.ModuleParameter:
		value, err := r.params.Lookup(v)
		if err != nil {
			return nil, err
		}
		// Parameter values may themselves be nested lists
		return r.resolveValue(value)
	case []any:
		return r.resolve(v)
	default:
		return arg, nil
	}
}

// placeholder stands in for addresses of futures that are not deployed yet
var placeholder = common.HexToAddress("0x000000000000000000000000000000000000dEaD")

func placeholderAddress(ignition.ContractHandle) (common.Address, error) {
	return placeholder, nil
}
