package settings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (*TestSettings) Reset() {}

func TestKey(t *testing.T) {
	assert.Equal(t, "TestSettings.Enabled", Key("TestSettings", "Enabled"))
	assert.Equal(t, Key("a", "b"), Key("a", "b"))
	assert.Equal(t, "testsettings.enabled", NormalizeKey("  TestSettings.Enabled "))
}

func TestGroupKey(t *testing.T) {
	r := newRegistry(t)

	test, ok := r.Lookup("TestSettings")
	require.True(t, ok)
	paypal, ok := r.Lookup("PaypalSettings")
	require.True(t, ok)

	testCases := []struct {
		name     string
		group    *Group
		property string
		expected string
		message  string
	}{
		{name: "property", group: test, property: "Enabled", expected: "TestSettings.Enabled"},
		{name: "case insensitive", group: test, property: "defaultcolor", expected: "TestSettings.DefaultColor"},
		{name: "renamed by tag", group: paypal, property: "Email", expected: "PaypalSettings.email"},
		{name: "promoted", group: paypal, property: "CreatedBy", expected: "PaypalSettings.CreatedBy"},
		{name: "method", group: test, property: "Reset", message: "refers to a method, not a property"},
		{name: "unexported field", group: paypal, property: "counter", message: "refers to a field, not a property"},
		{name: "skipped field", group: paypal, property: "Internal", message: "refers to a field, not a property"},
		{name: "unknown", group: test, property: "Missing", message: `has no property "Missing"`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			key, err := tc.group.Key(tc.property)
			if tc.message != "" {
				require.ErrorIs(t, err, ErrInvalidPropertyExpression)
				assert.Contains(t, err.Error(), tc.message)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.expected, key)
		})
	}
}
