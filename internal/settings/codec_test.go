package settings

import (
	"math"
	"net/netip"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type paymentMode int

const (
	paymentModeSandbox paymentMode = iota
	paymentModeLive
)

func (m paymentMode) String() string {
	switch m {
	case paymentModeSandbox:
		return "Sandbox"
	case paymentModeLive:
		return "Live"
	default:
		return "paymentMode(?)"
	}
}

type level string

func TestCodecRoundTrip(t *testing.T) {
	ct := NewCodecTable()
	require.NoError(t, ct.registerEnum(reflect.TypeFor[paymentMode](), map[int64]string{0: "Sandbox", 1: "Live"}))

	seven := 7

	testCases := []struct {
		name  string
		value any
		text  string
		kind  Kind
	}{
		{name: "bool true", value: true, text: "True", kind: KindBool},
		{name: "bool false", value: false, text: "False", kind: KindBool},
		{name: "int", value: -42, text: "-42", kind: KindInt},
		{name: "int8 min", value: int8(math.MinInt8), text: "-128", kind: KindInt},
		{name: "int64 max", value: int64(math.MaxInt64), text: "9223372036854775807", kind: KindInt},
		{name: "uint16", value: uint16(65535), text: "65535", kind: KindUint},
		{name: "float64", value: 3.25, text: "3.25", kind: KindFloat},
		{name: "float32", value: float32(0.1), text: "0.1", kind: KindFloat},
		{name: "string", value: "Red", text: "Red", kind: KindString},
		{name: "named string", value: level("debug"), text: "debug", kind: KindString},
		{name: "empty string", value: "", text: "", kind: KindString},
		{name: "enum", value: paymentModeLive, text: "Live", kind: KindEnum},
		{
			name:  "time",
			value: time.Date(2024, 5, 17, 8, 30, 0, 500, time.UTC),
			text:  "2024-05-17T08:30:00.0000005Z",
			kind:  KindTime,
		},
		{name: "duration", value: 90 * time.Second, text: "1m30s", kind: KindDuration},
		{name: "text marshaler", value: netip.MustParseAddr("10.0.0.1"), text: "10.0.0.1", kind: KindText},
		{name: "pointer", value: &seven, text: "7", kind: KindInt},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c, err := ct.Lookup(reflect.TypeOf(tc.value))
			require.NoError(t, err)
			assert.Equal(t, tc.kind, c.Kind())

			text, err := c.Encode(tc.value)
			require.NoError(t, err)
			assert.Equal(t, tc.text, text)

			decoded, err := c.Decode(text)
			require.NoError(t, err)
			assert.Equal(t, tc.value, decoded)
		})
	}
}

func TestCodecDecodeLenient(t *testing.T) {
	ct := NewCodecTable()
	require.NoError(t, ct.registerEnum(reflect.TypeFor[paymentMode](), map[int64]string{0: "Sandbox", 1: "Live"}))

	testCases := []struct {
		name     string
		typ      reflect.Type
		text     string
		expected any
	}{
		{name: "bool lower case", typ: reflect.TypeFor[bool](), text: "true", expected: true},
		{name: "bool padded", typ: reflect.TypeFor[bool](), text: " FALSE ", expected: false},
		{name: "int padded", typ: reflect.TypeFor[int](), text: " 12 ", expected: 12},
		{name: "leading zero is decimal", typ: reflect.TypeFor[int](), text: "010", expected: 10},
		{name: "enum lower case name", typ: reflect.TypeFor[paymentMode](), text: "live", expected: paymentModeLive},
		{name: "enum number", typ: reflect.TypeFor[paymentMode](), text: "0", expected: paymentModeSandbox},
		{
			name:     "date only",
			typ:      reflect.TypeFor[time.Time](),
			text:     "2024-05-17",
			expected: time.Date(2024, 5, 17, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "date time without zone",
			typ:      reflect.TypeFor[time.Time](),
			text:     "2024-05-17 08:30:00",
			expected: time.Date(2024, 5, 17, 8, 30, 0, 0, time.UTC),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c, err := ct.Lookup(tc.typ)
			require.NoError(t, err)

			v, err := c.Decode(tc.text)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, v)
		})
	}
}

func TestCodecDecodeInvalid(t *testing.T) {
	ct := NewCodecTable()
	require.NoError(t, ct.registerEnum(reflect.TypeFor[paymentMode](), map[int64]string{0: "Sandbox", 1: "Live"}))

	testCases := []struct {
		name string
		typ  reflect.Type
		text string
	}{
		{name: "bool", typ: reflect.TypeFor[bool](), text: "yes"},
		{name: "int", typ: reflect.TypeFor[int](), text: "abc"},
		{name: "int overflow", typ: reflect.TypeFor[int8](), text: "128"},
		{name: "negative uint", typ: reflect.TypeFor[uint](), text: "-1"},
		{name: "float", typ: reflect.TypeFor[float64](), text: "1,5"},
		{name: "empty int", typ: reflect.TypeFor[int](), text: ""},
		{name: "enum name", typ: reflect.TypeFor[paymentMode](), text: "Cash"},
		{name: "enum undefined number", typ: reflect.TypeFor[paymentMode](), text: "5"},
		{name: "time", typ: reflect.TypeFor[time.Time](), text: "yesterday"},
		{name: "duration", typ: reflect.TypeFor[time.Duration](), text: "10"},
		{name: "text", typ: reflect.TypeFor[netip.Addr](), text: "no-ip"},
		{name: "pointer element", typ: reflect.TypeFor[*int](), text: "x"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c, err := ct.Lookup(tc.typ)
			require.NoError(t, err)

			assert.False(t, c.Valid(tc.text))

			_, err = c.Decode(tc.text)
			require.ErrorIs(t, err, ErrConversion)
		})
	}
}

func TestCodecNilPointer(t *testing.T) {
	ct := NewCodecTable()

	c, err := ct.Lookup(reflect.TypeFor[*string]())
	require.NoError(t, err)

	text, err := c.Encode((*string)(nil))
	require.NoError(t, err)
	assert.Empty(t, text)

	text, err = c.Encode(nil)
	require.NoError(t, err)
	assert.Empty(t, text)

	v, err := c.Decode("")
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestCodecEncodeErrors(t *testing.T) {
	ct := NewCodecTable()

	c, err := ct.Lookup(reflect.TypeFor[int]())
	require.NoError(t, err)

	_, err = c.Encode("12")
	require.ErrorIs(t, err, ErrConversion)

	_, err = c.Encode(nil)
	require.ErrorIs(t, err, ErrConversion)
}

func TestCodecUnsupported(t *testing.T) {
	ct := NewCodecTable()

	for _, typ := range []reflect.Type{
		reflect.TypeFor[[]string](),
		reflect.TypeFor[map[string]int](),
		reflect.TypeFor[struct{ A int }](),
		reflect.TypeFor[**int](),
		reflect.TypeFor[any](),
	} {
		_, err := ct.Lookup(typ)
		require.ErrorIs(t, err, ErrConversion, typ.String())
	}
}

func TestCodecUnknownEnumValueEncodesNumber(t *testing.T) {
	ct := NewCodecTable()
	require.NoError(t, ct.registerEnum(reflect.TypeFor[paymentMode](), map[int64]string{0: "Sandbox", 1: "Live"}))

	c, err := ct.Lookup(reflect.TypeFor[paymentMode]())
	require.NoError(t, err)

	text, err := c.Encode(paymentMode(9))
	require.NoError(t, err)
	assert.Equal(t, "9", text)
}

func TestRegisterEnumErrors(t *testing.T) {
	ct := NewCodecTable()

	err := ct.registerEnum(reflect.TypeFor[string](), map[int64]string{0: "a"})
	require.ErrorIs(t, err, ErrNotEnum)

	err = ct.registerEnum(reflect.TypeFor[paymentMode](), map[int64]string{0: "Live", 1: "live"})
	require.ErrorIs(t, err, ErrNotEnum)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "enum", KindEnum.String())
	assert.Equal(t, "Kind(42)", Kind(42).String())
}
