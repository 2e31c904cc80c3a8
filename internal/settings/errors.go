package settings

import (
	"errors"

	"github.com/bobasettings/bobasettings/internal/db/controller/setting"
)

var (
	// ErrInvalidPropertyExpression is returned when a property identifier does not name a settings property.
	ErrInvalidPropertyExpression = errors.New("invalid property expression")
	// ErrConversion is returned when a value cannot be converted to or from its stored text.
	ErrConversion = errors.New("conversion error")
	// ErrArgumentNil is returned when a nil settings group or record is passed in.
	ErrArgumentNil = errors.New("argument cannot be nil")
	// ErrSettingNotFound is returned when no stored setting matches.
	ErrSettingNotFound = setting.ErrSettingNotFound
	// ErrRepositoryNil is returned by NewService without a repository.
	ErrRepositoryNil = errors.New("settings repository is nil")

	// ErrGroupNotRegistered is returned for types or names unknown to the registry.
	ErrGroupNotRegistered = errors.New("settings group is not registered")
	// ErrGroupAbstract is returned when loading a group registered as abstract.
	ErrGroupAbstract = errors.New("settings group is abstract")
	// ErrGroupExists is returned when a group name is registered twice.
	ErrGroupExists = errors.New("settings group already registered")
	// ErrGroupNameEmpty is returned for unnamed types registered without WithName.
	ErrGroupNameEmpty = errors.New("settings group name cannot be empty")
	// ErrNotStruct is returned when a non struct type is registered as a group.
	ErrNotStruct = errors.New("settings group must be a struct")
	// ErrDuplicateProperty is returned when two properties differ only by case.
	ErrDuplicateProperty = errors.New("duplicate settings property")
	// ErrNotEnum is returned by RegisterEnum for unusable enumerations.
	ErrNotEnum = errors.New("invalid enumeration")
)
