package settings

import (
	"cmp"
	"fmt"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

const (
	tagName       = "setting"
	tagSkip       = "-"
	tagOrderParam = "order="
)

// defaultRegistry is the process-wide registry used by Register.
var defaultRegistry = NewRegistry() //nolint:gochecknoglobals

// DefaultRegistry returns the process-wide registry.
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// Property is one stored field of a settings group.
type Property struct {
	name  string
	field string
	index []int
	typ   reflect.Type
	codec *Codec
	order int
	seq   int
}

// Name returns the property name used in keys.
func (p *Property) Name() string { return p.name }

// FieldName returns the Go struct field name.
func (p *Property) FieldName() string { return p.field }

// Type returns the declared field type.
func (p *Property) Type() reflect.Type { return p.typ }

// Codec returns the field codec or nil if the type has no string form.
func (p *Property) Codec() *Codec { return p.codec }

// Convertible reports whether the property is saved and loaded.
func (p *Property) Convertible() bool { return p.codec != nil }

// SetText decodes text into the property field of settings, a pointer to
// the group struct the property was taken from.
func (p *Property) SetText(settings any, text string) error {
	if p.codec == nil {
		return errors.Wrapf(ErrConversion, "%s has no string form", p.name)
	}

	v := reflect.ValueOf(settings)
	if v.Kind() != reflect.Pointer || v.IsNil() {
		return ErrArgumentNil
	}

	f := v.Elem()
	for _, i := range p.index {
		if f.Kind() != reflect.Struct || i >= f.NumField() {
			return errors.Wrapf(ErrGroupNotRegistered, "%T has no property %s", settings, p.name)
		}
		f = f.Field(i)
	}

	if f.Type() != p.typ || !f.CanSet() {
		return errors.Wrapf(ErrGroupNotRegistered, "%T has no property %s", settings, p.name)
	}

	decoded, err := p.codec.decodeValue(text)
	if err != nil {
		return err
	}

	f.Set(decoded)

	return nil
}

// Group is a registered settings group.
type Group struct {
	name     string
	typ      reflect.Type
	order    int
	seq      int
	abstract bool
	defaults func() reflect.Value
	props    []*Property
	byName   map[string]*Property
}

// Name returns the group name used as key prefix.
func (g *Group) Name() string { return g.name }

// Type returns the struct type of the group.
func (g *Group) Type() reflect.Type { return g.typ }

// Abstract reports whether the group was registered with Abstract.
func (g *Group) Abstract() bool { return g.abstract }

// Properties returns the properties in display order.
func (g *Group) Properties() []*Property {
	return slices.Clone(g.props)
}

// Property finds a property by name or Go field name, ignoring case.
func (g *Group) Property(name string) (*Property, bool) {
	p, ok := g.byName[strings.ToLower(name)]
	return p, ok
}

// New returns a pointer to a freshly built default instance.
func (g *Group) New() any {
	return g.newValue().Interface()
}

func (g *Group) newValue() reflect.Value {
	ptr := reflect.New(g.typ)
	if g.defaults != nil {
		ptr.Elem().Set(g.defaults())
	}

	return ptr
}

func (g *Group) matches(marker reflect.Type) bool {
	switch {
	case marker == nil:
		return true
	case marker.Kind() == reflect.Interface:
		return g.typ.Implements(marker) || reflect.PointerTo(g.typ).Implements(marker)
	default:
		return marker == g.typ || marker == reflect.PointerTo(g.typ)
	}
}

type groupOptions struct {
	name     string
	order    int
	abstract bool
}

// GroupOption customizes a registration.
type GroupOption func(*groupOptions)

// WithName replaces the default group name, the struct type name.
func WithName(name string) GroupOption {
	return func(o *groupOptions) { o.name = name }
}

// WithOrder sets the display order. Ties keep registration order.
func WithOrder(order int) GroupOption {
	return func(o *groupOptions) { o.order = order }
}

// Abstract registers a group that is listed by Discover(..., true) only and cannot be loaded.
func Abstract() GroupOption {
	return func(o *groupOptions) { o.abstract = true }
}

// Registry holds settings groups and the codec table their fields resolve against.
type Registry struct {
	mu     sync.RWMutex
	codecs *CodecTable
	groups []*Group
	byName map[string]*Group
	byType map[reflect.Type]*Group
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		codecs: NewCodecTable(),
		byName: map[string]*Group{},
		byType: map[reflect.Type]*Group{},
	}
}

// Codecs returns the codec table of the registry.
func (r *Registry) Codecs() *CodecTable {
	return r.codecs
}

// RegisterGroup registers T as a settings group on r. defaults builds the
// default instance; nil means the zero value.
func RegisterGroup[T any](r *Registry, defaults func() T, opts ...GroupOption) (*Group, error) {
	var build func() reflect.Value
	if defaults != nil {
		build = func() reflect.Value { return reflect.ValueOf(defaults()) }
	}

	return r.register(reflect.TypeFor[T](), build, opts...)
}

// Register registers T on the process-wide registry.
func Register[T any](defaults func() T, opts ...GroupOption) (*Group, error) {
	return RegisterGroup(defaultRegistry, defaults, opts...)
}

// MustRegister is like Register but panics on error.
func MustRegister[T any](defaults func() T, opts ...GroupOption) *Group {
	g, err := Register(defaults, opts...)
	if err != nil {
		panic(err)
	}

	return g
}

// RegisterEnum registers the named integer type E as enumeration with the
// given values. Names come from fmt.Sprint, so a String method is honored.
// Enumerations must be registered before the groups using them.
func RegisterEnum[E ~int | ~int8 | ~int16 | ~int32 | ~int64 | ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64](
	r *Registry, values ...E,
) error {
	t := reflect.TypeFor[E]()
	if len(values) == 0 {
		return errors.Wrapf(ErrNotEnum, "%s: no values", t)
	}

	names := make(map[int64]string, len(values))
	for _, v := range values {
		rv := reflect.ValueOf(v)

		var n int64
		if isSigned(rv.Kind()) {
			n = rv.Int()
		} else {
			n = int64(rv.Uint()) //nolint:gosec
		}

		names[n] = fmt.Sprint(v)
	}

	return r.codecs.registerEnum(t, names)
}

func (r *Registry) register(t reflect.Type, defaults func() reflect.Value, opts ...GroupOption) (*Group, error) {
	if t.Kind() != reflect.Struct {
		return nil, errors.Wrapf(ErrNotStruct, "%s", t)
	}

	o := groupOptions{name: t.Name()}
	for _, opt := range opts {
		opt(&o)
	}

	if o.name == "" {
		return nil, errors.Wrapf(ErrGroupNameEmpty, "%s", t)
	}

	props, err := r.properties(t)
	if err != nil {
		return nil, err
	}

	g := &Group{
		name:     o.name,
		typ:      t,
		order:    o.order,
		abstract: o.abstract,
		defaults: defaults,
		props:    props,
		byName:   make(map[string]*Property, len(props)*2), //nolint:mnd
	}

	for _, p := range props {
		g.byName[strings.ToLower(p.name)] = p
	}
	for _, p := range props {
		if _, taken := g.byName[strings.ToLower(p.field)]; !taken {
			g.byName[strings.ToLower(p.field)] = p
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := strings.ToLower(g.name)
	if _, exists := r.byName[key]; exists {
		return nil, errors.Wrapf(ErrGroupExists, "%s", g.name)
	}
	if _, exists := r.byType[t]; exists {
		return nil, errors.Wrapf(ErrGroupExists, "%s", t)
	}

	g.seq = len(r.groups)
	r.groups = append(r.groups, g)
	r.byName[key] = g
	r.byType[t] = g

	return g, nil
}

// properties walks the exported fields of t, promoted ones included.
func (r *Registry) properties(t reflect.Type) ([]*Property, error) {
	var (
		props []*Property
		seen  = map[string]string{}
	)

	for _, f := range reflect.VisibleFields(t) {
		if f.Anonymous || !f.IsExported() || throughPointer(t, f.Index) {
			continue
		}

		name, order, skip := parseTag(f)
		if skip {
			continue
		}

		lower := strings.ToLower(name)
		if other, dup := seen[lower]; dup {
			return nil, errors.Wrapf(ErrDuplicateProperty, "%s: %s and %s", t, other, name)
		}
		seen[lower] = name

		p := &Property{
			name:  name,
			field: f.Name,
			index: f.Index,
			typ:   f.Type,
			order: order,
			seq:   len(props),
		}

		// fields without a string form are listed but never stored
		if c, err := r.codecs.Lookup(f.Type); err == nil {
			p.codec = c
		}

		props = append(props, p)
	}

	slices.SortStableFunc(props, func(a, b *Property) int {
		return cmp.Or(cmp.Compare(a.order, b.order), cmp.Compare(a.seq, b.seq))
	})

	return props, nil
}

// throughPointer reports whether a promoted field is reached through an embedded pointer.
func throughPointer(t reflect.Type, index []int) bool {
	cur := t
	for _, i := range index[:len(index)-1] {
		f := cur.Field(i)
		if f.Type.Kind() == reflect.Pointer {
			return true
		}
		cur = f.Type
	}

	return false
}

func parseTag(f reflect.StructField) (name string, order int, skip bool) {
	name = f.Name

	tag, ok := f.Tag.Lookup(tagName)
	if !ok {
		return name, 0, false
	}
	if tag == tagSkip {
		return "", 0, true
	}

	parts := strings.Split(tag, ",")
	if parts[0] != "" {
		name = parts[0]
	}

	for _, part := range parts[1:] {
		if v, found := strings.CutPrefix(strings.TrimSpace(part), tagOrderParam); found {
			if n, err := strconv.Atoi(v); err == nil {
				order = n
			}
		}
	}

	return name, order, false
}

// Groups returns every registered group in display order.
func (r *Registry) Groups() []*Group {
	return r.Discover(nil, true)
}

// Discover returns the groups matching marker in display order. A nil
// marker matches every group, an interface marker matches groups whose
// type or pointer type implements it, any other type matches itself.
// Abstract groups are left out unless includeAbstract is set.
func (r *Registry) Discover(marker reflect.Type, includeAbstract bool) []*Group {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Group, 0, len(r.groups))
	for _, g := range r.groups {
		if g.abstract && !includeAbstract {
			continue
		}
		if g.matches(marker) {
			out = append(out, g)
		}
	}

	slices.SortStableFunc(out, func(a, b *Group) int {
		return cmp.Or(cmp.Compare(a.order, b.order), cmp.Compare(a.seq, b.seq))
	})

	return out
}

// Lookup finds a group by name, ignoring case.
func (r *Registry) Lookup(name string) (*Group, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	g, ok := r.byName[strings.ToLower(strings.TrimSpace(name))]

	return g, ok
}

// LookupType finds the group of t or *t.
func (r *Registry) LookupType(t reflect.Type) (*Group, bool) {
	if t == nil {
		return nil, false
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	g, ok := r.byType[t]

	return g, ok
}

// instance resolves the group of settings, which is a registered struct or a pointer to one.
func (r *Registry) instance(settings any) (*Group, reflect.Value, error) {
	if settings == nil {
		return nil, reflect.Value{}, ErrArgumentNil
	}

	v := reflect.ValueOf(settings)
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil, reflect.Value{}, ErrArgumentNil
		}
		v = v.Elem()
	}

	g, ok := r.LookupType(v.Type())
	if !ok {
		return nil, reflect.Value{}, errors.Wrapf(ErrGroupNotRegistered, "%s", v.Type())
	}

	return g, v, nil
}
