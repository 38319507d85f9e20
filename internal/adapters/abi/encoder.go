package abi

import (
	"fmt"
	"math/big"
	"reflect"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/trebuchet-org/ignite/internal/domain"
	"github.com/trebuchet-org/ignite/internal/domain/models"
	"github.com/trebuchet-org/ignite/internal/usecase"
)

// Encoder packs constructor arguments and links library addresses
type Encoder struct{}

// NewEncoder creates a new constructor encoder
func NewEncoder() *Encoder {
	return &Encoder{}
}

// EncodeConstructor coerces module literals to the constructor's ABI types and packs them
func (e *Encoder) EncodeConstructor(artifact *models.Artifact, args []any) ([]byte, error) {
	parsed, err := artifact.ParsedABI()
	if err != nil {
		return nil, err
	}

	inputs := parsed.Constructor.Inputs
	if len(inputs) != len(args) {
		return nil, domain.ArgumentMismatchError{
			Reason: fmt.Sprintf("%s expects %d arguments, got %d", artifact.ContractName, len(inputs), len(args)),
		}
	}

	values := make([]any, len(args))
	for i, input := range inputs {
		v, err := coerce(input.Type, args[i])
		if err != nil {
			name := input.Name
			if name == "" {
				name = strconv.Itoa(i)
			}
			return nil, domain.ArgumentMismatchError{
				Reason: fmt.Sprintf("argument %s (%s): %v", name, input.Type.String(), err),
			}
		}
		values[i] = v
	}

	packed, err := inputs.Pack(values...)
	if err != nil {
		return nil, domain.ArgumentMismatchError{Reason: err.Error()}
	}
	return packed, nil
}

// coerce converts a module literal into the Go type go-ethereum packs for t
func coerce(t abi.Type, v any) (any, error) {
	switch t.T {
	case abi.UintTy, abi.IntTy:
		return coerceInteger(t, v)
	case abi.AddressTy:
		return coerceAddress(v)
	case abi.BoolTy:
		switch b := v.(type) {
		case bool:
			return b, nil
		case string:
			return strconv.ParseBool(b)
		}
	case abi.StringTy:
		if s, ok := v.(string); ok {
			return s, nil
		}
	case abi.BytesTy:
		return coerceBytes(v)
	case abi.FixedBytesTy:
		b, err := coerceBytes(v)
		if err != nil {
			return nil, err
		}
		if len(b) > t.Size {
			return nil, fmt.Errorf("%d bytes do not fit in bytes%d", len(b), t.Size)
		}
		arr := reflect.New(t.GetType()).Elem()
		reflect.Copy(arr, reflect.ValueOf(b))
		return arr.Interface(), nil
	case abi.SliceTy, abi.ArrayTy:
		return coerceList(t, v)
	case abi.TupleTy:
		return coerceTuple(t, v)
	default:
		return nil, fmt.Errorf("unsupported type %s", t.String())
	}
	return nil, fmt.Errorf("cannot use %T as %s", v, t.String())
}

func coerceInteger(t abi.Type, v any) (any, error) {
	n, err := toBigInt(v)
	if err != nil {
		return nil, err
	}

	if t.T == abi.UintTy {
		if n.Sign() < 0 {
			return nil, fmt.Errorf("negative value %s for %s", n, t.String())
		}
		if n.BitLen() > t.Size {
			return nil, fmt.Errorf("value %s overflows %s", n, t.String())
		}
	} else {
		limit := new(big.Int).Lsh(big.NewInt(1), uint(t.Size-1))
		if n.Cmp(limit) >= 0 || n.Cmp(new(big.Int).Neg(limit)) < 0 {
			return nil, fmt.Errorf("value %s overflows %s", n, t.String())
		}
	}

	goType := t.GetType()
	if goType == reflect.TypeOf(&big.Int{}) {
		return n, nil
	}
	if t.T == abi.UintTy {
		return reflect.ValueOf(n.Uint64()).Convert(goType).Interface(), nil
	}
	return reflect.ValueOf(n.Int64()).Convert(goType).Interface(), nil
}

func toBigInt(v any) (*big.Int, error) {
	switch n := v.(type) {
	case *big.Int:
		if n == nil {
			return nil, fmt.Errorf("nil integer")
		}
		return new(big.Int).Set(n), nil
	case big.Int:
		return new(big.Int).Set(&n), nil
	case string:
		s := strings.ReplaceAll(strings.TrimSpace(n), "_", "")
		out, ok := new(big.Int).SetString(s, 0)
		if !ok {
			return nil, fmt.Errorf("invalid integer %q", n)
		}
		return out, nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return big.NewInt(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return new(big.Int).SetUint64(rv.Uint()), nil
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if f != float64(int64(f)) {
			return nil, fmt.Errorf("non-integer number %v", f)
		}
		return big.NewInt(int64(f)), nil
	}
	return nil, fmt.Errorf("cannot use %T as integer", v)
}

func coerceAddress(v any) (common.Address, error) {
	switch a := v.(type) {
	case common.Address:
		return a, nil
	case string:
		if !common.IsHexAddress(a) {
			return common.Address{}, fmt.Errorf("%w: %q", domain.ErrInvalidAddress, a)
		}
		return common.HexToAddress(a), nil
	}
	return common.Address{}, fmt.Errorf("cannot use %T as address", v)
}

func coerceBytes(v any) ([]byte, error) {
	switch b := v.(type) {
	case []byte:
		return b, nil
	case common.Hash:
		return b.Bytes(), nil
	case string:
		decoded, err := hexutil.Decode(b)
		if err != nil {
			return nil, fmt.Errorf("invalid hex bytes %q: %w", b, err)
		}
		return decoded, nil
	}
	return nil, fmt.Errorf("cannot use %T as bytes", v)
}

func coerceList(t abi.Type, v any) (any, error) {
	items, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("cannot use %T as %s", v, t.String())
	}
	if t.T == abi.ArrayTy && len(items) != t.Size {
		return nil, fmt.Errorf("%s expects %d elements, got %d", t.String(), t.Size, len(items))
	}

	var out reflect.Value
	if t.T == abi.SliceTy {
		out = reflect.MakeSlice(t.GetType(), len(items), len(items))
	} else {
		out = reflect.New(t.GetType()).Elem()
	}
	for i, item := range items {
		elem, err := coerce(*t.Elem, item)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out.Index(i).Set(reflect.ValueOf(elem))
	}
	return out.Interface(), nil
}

func coerceTuple(t abi.Type, v any) (any, error) {
	out := reflect.New(t.GetType()).Elem()

	switch fields := v.(type) {
	case []any:
		if len(fields) != len(t.TupleElems) {
			return nil, fmt.Errorf("%s expects %d fields, got %d", t.String(), len(t.TupleElems), len(fields))
		}
		for i, elem := range t.TupleElems {
			value, err := coerce(*elem, fields[i])
			if err != nil {
				return nil, fmt.Errorf("field %d: %w", i, err)
			}
			out.Field(i).Set(reflect.ValueOf(value))
		}
	case map[string]any:
		for i, elem := range t.TupleElems {
			name := t.TupleRawNames[i]
			raw, ok := fields[name]
			if !ok {
				return nil, fmt.Errorf("missing field %s", name)
			}
			value, err := coerce(*elem, raw)
			if err != nil {
				return nil, fmt.Errorf("field %s: %w", name, err)
			}
			out.Field(i).Set(reflect.ValueOf(value))
		}
	default:
		return nil, fmt.Errorf("cannot use %T as %s", v, t.String())
	}
	return out.Interface(), nil
}

// Ensure Encoder implements ConstructorEncoder
var _ usecase.ConstructorEncoder = (*Encoder)(nil)
