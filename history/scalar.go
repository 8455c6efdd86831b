package history

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
)

// ScalarKind enumerates the closed set of value types a round can report.
type ScalarKind uint8

const (
	KindInt ScalarKind = iota
	KindFloat
	KindBool
	KindString
	KindFloats
	KindBytes
)

func (k ScalarKind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	case KindFloats:
		return "floats"
	case KindBytes:
		return "bytes"
	default:
		return "unknown"
	}
}

var (
	ErrUnsupportedValue = errors.New("unsupported scalar value")
	ErrNonNumericValue  = errors.New("non-numeric scalar value")
)

// Scalar is a single reportable measurement. It is a tagged union over the
// kinds above; the zero value is Int(0).
type Scalar struct {
	kind ScalarKind
	i    int64
	f    float64
	b    bool
	s    string
	fs   []float64
	bs   []byte
}

func Int(v int64) Scalar { return Scalar{kind: KindInt, i: v} }

func Float(v float64) Scalar { return Scalar{kind: KindFloat, f: v} }

func Bool(v bool) Scalar { return Scalar{kind: KindBool, b: v} }

func String(v string) Scalar { return Scalar{kind: KindString, s: v} }

func Floats(v []float64) Scalar { return Scalar{kind: KindFloats, fs: v} }

func Bytes(v []byte) Scalar { return Scalar{kind: KindBytes, bs: v} }

func (s Scalar) Kind() ScalarKind { return s.kind }

// Interface returns the stored value as its native Go type.
func (s Scalar) Interface() any {
	switch s.kind {
	case KindInt:
		return s.i
	case KindFloat:
		return s.f
	case KindBool:
		return s.b
	case KindString:
		return s.s
	case KindFloats:
		return s.fs
	case KindBytes:
		return s.bs
	default:
		return nil
	}
}

// numeric returns the value in the shape the round-collapsing transform
// accepts. Bool, string and byte values are not collapsible.
func (s Scalar) numeric() (any, error) {
	switch s.kind {
	case KindInt:
		return s.i, nil
	case KindFloat:
		return s.f, nil
	case KindFloats:
		out := make([]float64, len(s.fs))
		copy(out, s.fs)
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrNonNumericValue, s.kind)
	}
}

func (s Scalar) MarshalJSON() ([]byte, error) {
	switch s.kind {
	case KindBytes:
		return json.Marshal(base64.StdEncoding.EncodeToString(s.bs))
	default:
		return json.Marshal(s.Interface())
	}
}

func (s *Scalar) UnmarshalJSON(data []byte) error {
	var raw any
	if err := unmarshalNumberAware(data, &raw); err != nil {
		return err
	}
	sc, err := FromAny(raw)
	if err != nil {
		return err
	}
	*s = sc

	return nil
}

func unmarshalNumberAware(data []byte, v *any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	return dec.Decode(v)
}

// FromAny converts a dynamically typed value, as produced by decoding JSON
// or CBOR payloads, into a Scalar.
func FromAny(v any) (Scalar, error) {
	switch val := v.(type) {
	case Scalar:
		return val, nil
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return Int(i), nil
		}
		f, err := val.Float64()
		if err != nil {
			return Scalar{}, fmt.Errorf("%w: %v", ErrUnsupportedValue, v)
		}
		return Float(f), nil
	case int:
		return Int(int64(val)), nil
	case int64:
		return Int(val), nil
	case uint64:
		return Int(int64(val)), nil
	case float64:
		return Float(val), nil
	case float32:
		return Float(float64(val)), nil
	case bool:
		return Bool(val), nil
	case string:
		return String(val), nil
	case []byte:
		return Bytes(val), nil
	case []float64:
		return Floats(val), nil
	case []any:
		fs := make([]float64, len(val))
		for i, e := range val {
			el, err := FromAny(e)
			if err != nil {
				return Scalar{}, err
			}
			switch el.Kind() {
			case KindInt:
				fs[i] = float64(el.i)
			case KindFloat:
				fs[i] = el.f
			default:
				return Scalar{}, fmt.Errorf("%w: sequence element %v", ErrUnsupportedValue, e)
			}
		}
		return Floats(fs), nil
	default:
		return Scalar{}, fmt.Errorf("%w: %T", ErrUnsupportedValue, v)
	}
}

// FromAnyMap converts a name-to-value mapping into scalar metrics.
func FromAnyMap(m map[string]any) (map[string]Scalar, error) {
	out := make(map[string]Scalar, len(m))
	for k, v := range m {
		s, err := FromAny(v)
		if err != nil {
			return nil, fmt.Errorf("metric %q: %w", k, err)
		}
		out[k] = s
	}

	return out, nil
}
