package history_test

import (
	"encoding/json"
	"testing"

	"github.com/absmach/fledger/history"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScalarKinds(t *testing.T) {
	cases := []struct {
		desc     string
		scalar   history.Scalar
		kind     history.ScalarKind
		expected any
	}{
		{"int", history.Int(-4), history.KindInt, int64(-4)},
		{"float", history.Float(0.25), history.KindFloat, 0.25},
		{"bool", history.Bool(true), history.KindBool, true},
		{"string", history.String("converged"), history.KindString, "converged"},
		{"floats", history.Floats([]float64{1, 2}), history.KindFloats, []float64{1, 2}},
		{"bytes", history.Bytes([]byte{0x01}), history.KindBytes, []byte{0x01}},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			assert.Equal(t, tc.kind, tc.scalar.Kind())
			assert.Equal(t, tc.expected, tc.scalar.Interface())
		})
	}
}

func TestScalarZeroValue(t *testing.T) {
	var s history.Scalar
	assert.Equal(t, history.KindInt, s.Kind())
	assert.Equal(t, int64(0), s.Interface())
}

func TestFromAny(t *testing.T) {
	cases := []struct {
		desc     string
		value    any
		expected history.Scalar
		err      error
	}{
		{"json integer", json.Number("42"), history.Int(42), nil},
		{"json float", json.Number("0.5"), history.Float(0.5), nil},
		{"go int", 7, history.Int(7), nil},
		{"go float64", 1.5, history.Float(1.5), nil},
		{"bool", false, history.Bool(false), nil},
		{"string", "done", history.String("done"), nil},
		{"float slice", []float64{0.1}, history.Floats([]float64{0.1}), nil},
		{"generic numeric slice", []any{json.Number("1"), 2.5}, history.Floats([]float64{1, 2.5}), nil},
		{"bytes", []byte("x"), history.Bytes([]byte("x")), nil},
		{"mixed slice", []any{"a", 1.0}, history.Scalar{}, history.ErrUnsupportedValue},
		{"map", map[string]any{}, history.Scalar{}, history.ErrUnsupportedValue},
		{"nil", nil, history.Scalar{}, history.ErrUnsupportedValue},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			got, err := history.FromAny(tc.value)
			if tc.err != nil {
				assert.ErrorIs(t, err, tc.err)

				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestScalarJSON(t *testing.T) {
	// Integral JSON numbers decode as ints, everything else keeps its kind.
	var s history.Scalar
	require.NoError(t, json.Unmarshal([]byte(`3`), &s))
	assert.Equal(t, history.Int(3), s)

	require.NoError(t, json.Unmarshal([]byte(`0.75`), &s))
	assert.Equal(t, history.Float(0.75), s)

	require.NoError(t, json.Unmarshal([]byte(`[0.1, 0.2]`), &s))
	assert.Equal(t, history.Floats([]float64{0.1, 0.2}), s)

	require.NoError(t, json.Unmarshal([]byte(`"plateau"`), &s))
	assert.Equal(t, history.String("plateau"), s)

	data, err := json.Marshal(history.Bytes([]byte{0xde, 0xad}))
	require.NoError(t, err)
	assert.Equal(t, `"3q0="`, string(data))
}

func TestFromAnyMap(t *testing.T) {
	metrics, err := history.FromAnyMap(map[string]any{
		"accuracy": 0.9,
		"epochs":   json.Number("3"),
	})
	require.NoError(t, err)
	assert.Equal(t, history.Float(0.9), metrics["accuracy"])
	assert.Equal(t, history.Int(3), metrics["epochs"])

	_, err = history.FromAnyMap(map[string]any{"bad": map[string]any{}})
	assert.ErrorIs(t, err, history.ErrUnsupportedValue)
}
