package settings

import (
	"encoding"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
)

// Kind tags the conversion strategy of a Codec.
type Kind uint8

// Supported value kinds.
const (
	KindInvalid Kind = iota
	KindBool
	KindInt
	KindUint
	KindFloat
	KindString
	KindEnum
	KindTime
	KindDuration
	KindText
)

var kindNames = [...]string{
	KindInvalid:  "invalid",
	KindBool:     "bool",
	KindInt:      "int",
	KindUint:     "uint",
	KindFloat:    "float",
	KindString:   "string",
	KindEnum:     "enum",
	KindTime:     "time",
	KindDuration: "duration",
	KindText:     "text",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}

	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

const (
	boolTrue  = "True"
	boolFalse = "False"
)

// timeLayouts are tried in order when decoding a time.
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	time.DateOnly,
}

var (
	timeType        = reflect.TypeFor[time.Time]()
	durationType    = reflect.TypeFor[time.Duration]()
	textMarshaler   = reflect.TypeFor[encoding.TextMarshaler]()
	textUnmarshaler = reflect.TypeFor[encoding.TextUnmarshaler]()
)

// Codec converts values of one Go type to and from their stored text.
type Codec struct {
	kind   Kind
	typ    reflect.Type
	elem   *Codec // set for pointer types
	encode func(v reflect.Value) (string, error)
	decode func(text string) (reflect.Value, error)
}

// Kind returns the conversion strategy. Pointer codecs report their element kind.
func (c *Codec) Kind() Kind { return c.kind }

// Type returns the Go type the codec converts.
func (c *Codec) Type() reflect.Type { return c.typ }

// Encode returns the canonical text of v, which must be of the codec type.
// A nil pointer encodes as the empty string.
func (c *Codec) Encode(v any) (string, error) {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		if c.elem != nil {
			return "", nil
		}
		return "", errors.Wrapf(ErrConversion, "cannot encode nil as %s", c.typ)
	}

	if rv.Type() != c.typ {
		return "", errors.Wrapf(ErrConversion, "cannot encode %s as %s", rv.Type(), c.typ)
	}

	return c.encodeValue(rv)
}

// Decode parses text into a value of the codec type. Pointer codecs decode
// the empty string as nil.
func (c *Codec) Decode(text string) (any, error) {
	rv, err := c.decodeValue(text)
	if err != nil {
		return nil, err
	}

	return rv.Interface(), nil
}

// Valid reports whether text decodes without error.
func (c *Codec) Valid(text string) bool {
	_, err := c.decodeValue(text)
	return err == nil
}

func (c *Codec) encodeValue(v reflect.Value) (string, error) {
	if c.elem != nil {
		if v.IsNil() {
			return "", nil
		}
		return c.elem.encodeValue(v.Elem())
	}

	return c.encode(v)
}

func (c *Codec) decodeValue(text string) (reflect.Value, error) {
	if c.elem != nil {
		if text == "" {
			return reflect.Zero(c.typ), nil
		}
		v, err := c.elem.decodeValue(text)
		if err != nil {
			return reflect.Value{}, err
		}
		ptr := reflect.New(c.elem.typ)
		ptr.Elem().Set(v)
		return ptr, nil
	}

	v, err := c.decode(text)
	if err != nil {
		return reflect.Value{}, errors.Wrapf(ErrConversion, "%q is not a valid %s: %v", text, c.typ, err)
	}

	return v, nil
}

// enumDef holds the names of a registered enumeration.
type enumDef struct {
	names  map[int64]string
	values map[string]int64 // lower-case name
}

// CodecTable resolves codecs per Go type. Enumerations are registered on it.
type CodecTable struct {
	mu    sync.RWMutex
	enums map[reflect.Type]*enumDef
	cache map[reflect.Type]*Codec
}

// NewCodecTable returns a table knowing the built-in kinds only.
func NewCodecTable() *CodecTable {
	return &CodecTable{
		enums: map[reflect.Type]*enumDef{},
		cache: map[reflect.Type]*Codec{},
	}
}

// registerEnum records names for the integer type t.
func (ct *CodecTable) registerEnum(t reflect.Type, names map[int64]string) error {
	if !isSigned(t.Kind()) && !isUnsigned(t.Kind()) {
		return errors.Wrapf(ErrNotEnum, "%s", t)
	}

	def := &enumDef{names: names, values: make(map[string]int64, len(names))}
	for v, name := range names {
		key := strings.ToLower(name)
		if _, dup := def.values[key]; dup {
			return errors.Wrapf(ErrNotEnum, "%s: duplicate name %q", t, name)
		}
		def.values[key] = v
	}

	ct.mu.Lock()
	defer ct.mu.Unlock()

	ct.enums[t] = def
	delete(ct.cache, t)

	return nil
}

// Lookup returns the codec for t or an error wrapping ErrConversion if the
// type has no string form.
func (ct *CodecTable) Lookup(t reflect.Type) (*Codec, error) {
	ct.mu.RLock()
	c, ok := ct.cache[t]
	ct.mu.RUnlock()
	if ok {
		return c, nil
	}

	c, err := ct.build(t)
	if err != nil {
		return nil, err
	}

	ct.mu.Lock()
	ct.cache[t] = c
	ct.mu.Unlock()

	return c, nil
}

func (ct *CodecTable) build(t reflect.Type) (*Codec, error) {
	if t.Kind() == reflect.Pointer {
		if t.Elem().Kind() == reflect.Pointer {
			return nil, errors.Wrapf(ErrConversion, "unsupported type %s", t)
		}
		elem, err := ct.Lookup(t.Elem())
		if err != nil {
			return nil, err
		}
		return &Codec{kind: elem.kind, typ: t, elem: elem}, nil
	}

	ct.mu.RLock()
	enum, isEnum := ct.enums[t]
	ct.mu.RUnlock()

	switch {
	case isEnum:
		return enumCodec(t, enum), nil
	case t == timeType:
		return timeCodec(), nil
	case t == durationType:
		return durationCodec(), nil
	case t.Implements(textMarshaler) && reflect.PointerTo(t).Implements(textUnmarshaler):
		return textCodec(t), nil
	}

	k := t.Kind()
	switch {
	case k == reflect.Bool:
		return boolCodec(t), nil
	case isSigned(k):
		return intCodec(t), nil
	case isUnsigned(k):
		return uintCodec(t), nil
	case k == reflect.Float32 || k == reflect.Float64:
		return floatCodec(t), nil
	case k == reflect.String:
		return stringCodec(t), nil
	}

	return nil, errors.Wrapf(ErrConversion, "unsupported type %s", t)
}

func isSigned(k reflect.Kind) bool {
	return k >= reflect.Int && k <= reflect.Int64
}

func isUnsigned(k reflect.Kind) bool {
	return k >= reflect.Uint && k <= reflect.Uint64
}

func boolCodec(t reflect.Type) *Codec {
	return &Codec{
		kind: KindBool,
		typ:  t,
		encode: func(v reflect.Value) (string, error) {
			if v.Bool() {
				return boolTrue, nil
			}
			return boolFalse, nil
		},
		decode: func(text string) (reflect.Value, error) {
			text = strings.TrimSpace(text)
			v := reflect.New(t).Elem()
			switch {
			case strings.EqualFold(text, boolTrue):
				v.SetBool(true)
			case strings.EqualFold(text, boolFalse):
				v.SetBool(false)
			default:
				return reflect.Value{}, errors.New("expected True or False")
			}
			return v, nil
		},
	}
}

func intCodec(t reflect.Type) *Codec {
	return &Codec{
		kind: KindInt,
		typ:  t,
		encode: func(v reflect.Value) (string, error) {
			return strconv.FormatInt(v.Int(), 10), nil
		},
		decode: func(text string) (reflect.Value, error) {
			n, err := strconv.ParseInt(strings.TrimSpace(text), 10, t.Bits())
			if err != nil {
				return reflect.Value{}, err
			}
			v := reflect.New(t).Elem()
			v.SetInt(n)
			return v, nil
		},
	}
}

func uintCodec(t reflect.Type) *Codec {
	return &Codec{
		kind: KindUint,
		typ:  t,
		encode: func(v reflect.Value) (string, error) {
			return strconv.FormatUint(v.Uint(), 10), nil
		},
		decode: func(text string) (reflect.Value, error) {
			n, err := strconv.ParseUint(strings.TrimSpace(text), 10, t.Bits())
			if err != nil {
				return reflect.Value{}, err
			}
			v := reflect.New(t).Elem()
			v.SetUint(n)
			return v, nil
		},
	}
}

func floatCodec(t reflect.Type) *Codec {
	return &Codec{
		kind: KindFloat,
		typ:  t,
		encode: func(v reflect.Value) (string, error) {
			return strconv.FormatFloat(v.Float(), 'g', -1, t.Bits()), nil
		},
		decode: func(text string) (reflect.Value, error) {
			f, err := strconv.ParseFloat(strings.TrimSpace(text), t.Bits())
			if err != nil {
				return reflect.Value{}, err
			}
			v := reflect.New(t).Elem()
			v.SetFloat(f)
			return v, nil
		},
	}
}

func stringCodec(t reflect.Type) *Codec {
	return &Codec{
		kind: KindString,
		typ:  t,
		encode: func(v reflect.Value) (string, error) {
			return v.String(), nil
		},
		decode: func(text string) (reflect.Value, error) {
			v := reflect.New(t).Elem()
			v.SetString(text)
			return v, nil
		},
	}
}

func timeCodec() *Codec {
	return &Codec{
		kind: KindTime,
		typ:  timeType,
		encode: func(v reflect.Value) (string, error) {
			return v.Interface().(time.Time).Format(time.RFC3339Nano), nil //nolint:forcetypeassert
		},
		decode: func(text string) (reflect.Value, error) {
			text = strings.TrimSpace(text)
			for _, layout := range timeLayouts {
				if ts, err := time.Parse(layout, text); err == nil {
					return reflect.ValueOf(ts), nil
				}
			}
			return reflect.Value{}, errors.New("unknown time format")
		},
	}
}

func durationCodec() *Codec {
	return &Codec{
		kind: KindDuration,
		typ:  durationType,
		encode: func(v reflect.Value) (string, error) {
			return time.Duration(v.Int()).String(), nil
		},
		decode: func(text string) (reflect.Value, error) {
			d, err := time.ParseDuration(strings.TrimSpace(text))
			if err != nil {
				return reflect.Value{}, err
			}
			return reflect.ValueOf(d), nil
		},
	}
}

func textCodec(t reflect.Type) *Codec {
	return &Codec{
		kind: KindText,
		typ:  t,
		encode: func(v reflect.Value) (string, error) {
			b, err := v.Interface().(encoding.TextMarshaler).MarshalText() //nolint:forcetypeassert
			if err != nil {
				return "", errors.Wrap(ErrConversion, err.Error())
			}
			return string(b), nil
		},
		decode: func(text string) (reflect.Value, error) {
			ptr := reflect.New(t)
			if err := ptr.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(text)); err != nil { //nolint:forcetypeassert
				return reflect.Value{}, err
			}
			return ptr.Elem(), nil
		},
	}
}

func enumCodec(t reflect.Type, def *enumDef) *Codec {
	signed := isSigned(t.Kind())

	ordinal := func(v reflect.Value) int64 {
		if signed {
			return v.Int()
		}
		return int64(v.Uint()) //nolint:gosec
	}

	return &Codec{
		kind: KindEnum,
		typ:  t,
		encode: func(v reflect.Value) (string, error) {
			if name, ok := def.names[ordinal(v)]; ok {
				return name, nil
			}
			return strconv.FormatInt(ordinal(v), 10), nil
		},
		decode: func(text string) (reflect.Value, error) {
			text = strings.TrimSpace(text)

			n, ok := def.values[strings.ToLower(text)]
			if !ok {
				parsed, err := strconv.ParseInt(text, 10, 64)
				if err != nil {
					return reflect.Value{}, fmt.Errorf("unknown name %q", text)
				}
				if _, defined := def.names[parsed]; !defined {
					return reflect.Value{}, fmt.Errorf("undefined value %d", parsed)
				}
				n = parsed
			}

			v := reflect.New(t).Elem()
			if signed {
				v.SetInt(n)
			} else {
				v.SetUint(uint64(n)) //nolint:gosec
			}
			return v, nil
		},
	}
}
