package usecase

import (
	"encoding/json"
	"fmt"
	"math/big"
	"reflect"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/trebuchet-org/ignite/pkg/ignition"
)

// fingerprintInput is the canonical form of a request used to detect
// changes between runs. Handles are reduced to their future ids and
// parameters to their resolved values.
type fingerprintInput struct {
	Contract  string            `json:"contract"`
	Kind      string            `json:"kind"`
	Args      []any             `json:"args"`
	Value     string            `json:"value,omitempty"`
	Salt      string            `json:"salt,omitempty"`
	From      string            `json:"from,omitempty"`
	Libraries map[string]string `json:"libraries,omitempty"`
	After     []string          `json:"after,omitempty"`
}

// Fingerprint returns a stable hash of a request's declaration
func Fingerprint(req ignition.ContractRequest, params ModuleParameters) (string, error) {
	args, err := canonicalArgs(req.Args, params)
	if err != nil {
		return "", fmt.Errorf("%s: %w", req.FutureID, err)
	}

	input := fingerprintInput{
		Contract: req.ContractName,
		Kind:     string(req.Kind),
		Args:     args,
		Salt:     req.Options.Salt,
		From:     req.Options.From,
	}
	if req.Options.Value != nil && req.Options.Value.Sign() != 0 {
		input.Value = req.Options.Value.String()
	}
	if len(req.Options.Libraries) > 0 {
		input.Libraries = make(map[string]string, len(req.Options.Libraries))
		for name, h := range req.Options.Libraries {
			input.Libraries[name] = h.FutureID()
		}
	}
	for _, h := range req.Options.After {
		input.After = append(input.After, h.FutureID())
	}

	// encoding/json sorts map keys, which keeps the encoding stable
	data, err := json.Marshal(input)
	if err != nil {
		return "", fmt.Errorf("%s: failed to encode request: %w", req.FutureID, err)
	}
	return crypto.Keccak256Hash(data).Hex(), nil
}

func canonicalArgs(args []any, params ModuleParameters) ([]any, error) {
	out := make([]any, len(args))
	for i, arg := range args {
		v, err := canonicalValue(arg, params)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}

func canonicalValue(arg any, params ModuleParameters) (any, error) {
	switch v := arg.(type) {
	case nil:
		return nil, nil
	case ignition.ContractHandle:
		return "future:" + v.FutureID(), nil
	case ignition.ModuleParameter:
		value, err := params.Lookup(v)
		if err != nil {
			return nil, err
		}
		return canonicalValue(value, params)
	case []any:
		return canonicalArgs(v, params)
	case *big.Int:
		return "int:" + v.String(), nil
	case common.Address:
		return "address:" + v.Hex(), nil
	case string, bool:
		return v, nil
	}

	// Every integer kind is normalized so that int(5) and uint64(5) match
	rv := reflect.ValueOf(arg)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return "int:" + big.NewInt(rv.Int()).String(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "int:" + new(big.Int).SetUint64(rv.Uint()).String(), nil
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if f != float64(int64(f)) {
			return nil, fmt.Errorf("non-integer number %v", f)
		}
		return "int:" + big.NewInt(int64(f)).String(), nil
	}
	return fmt.Sprintf("%T:%v", arg, arg), nil
}
