package setting

import "errors"

var (
	// ErrSettingNotFound is returned when a setting is not found.
	ErrSettingNotFound = errors.New("setting not found")
	// ErrSettingNameEmpty is returned when attempting to create/update a setting with an empty name.
	ErrSettingNameEmpty = errors.New("setting name cannot be empty")
	// ErrSettingNameTooLong is returned when a setting name exceeds models.NameMaxLength.
	ErrSettingNameTooLong = errors.New("setting name is too long")
	// ErrSettingNil is returned when a nil setting is passed to a write operation.
	ErrSettingNil = errors.New("setting cannot be nil")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)
