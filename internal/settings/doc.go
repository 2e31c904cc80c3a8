// Package settings maps typed settings groups onto flat key/value records.
//
// A settings group is a plain struct registered once at process start:
//
//	type TestSettings struct {
//		Enabled       bool
//		DefaultLangID int
//		DefaultColor  string
//	}
//
//	settings.MustRegister(func() TestSettings {
//		return TestSettings{Enabled: true, DefaultColor: "Red"}
//	})
//
// Every exported field becomes a property stored under the key
// "<Group>.<Property>". Keys are compared case-insensitively and written
// lower-case, e.g. "testsettings.defaultcolor".
//
// Reading is lenient: a missing or malformed stored value leaves the
// property at its default. Writing is strict: a value that cannot be
// encoded fails the call. Nothing is cached; every call reads the whole
// settings table from the repository.
package settings
