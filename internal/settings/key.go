package settings

import (
	"reflect"
	"strings"

	"github.com/pkg/errors"
)

const keySeparator = "."

// Key joins a group and property name into a setting key.
func Key(group, property string) string {
	return group + keySeparator + property
}

// NormalizeKey returns the form keys are stored and compared in.
func NormalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

// Key returns the setting key of property, e.g. "TestSettings.Enabled".
func (g *Group) Key(property string) (string, error) {
	p, err := g.resolve(property)
	if err != nil {
		return "", err
	}

	return Key(g.name, p.name), nil
}

// resolve maps a property identifier to a property, explaining what it refers to otherwise.
func (g *Group) resolve(property string) (*Property, error) {
	if p, ok := g.Property(property); ok {
		return p, nil
	}

	if _, ok := reflect.PointerTo(g.typ).MethodByName(property); ok {
		return nil, errors.Wrapf(ErrInvalidPropertyExpression, "%s.%s refers to a method, not a property", g.name, property)
	}

	if _, ok := g.typ.FieldByName(property); ok {
		return nil, errors.Wrapf(ErrInvalidPropertyExpression, "%s.%s refers to a field, not a property", g.name, property)
	}

	return nil, errors.Wrapf(ErrInvalidPropertyExpression, "%s has no property %q", g.name, property)
}
