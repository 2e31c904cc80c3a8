// Package models contains database model definitions.
package models

// NameMaxLength is the maximum length of a setting name.
const NameMaxLength = 512

// Setting represents a single persisted key/value pair.
// Several rows may share the same Name; readers take the first one.
type Setting struct {
	ID    uint64 `gorm:"primaryKey"       json:"id"    yaml:"-"`
	Name  string `gorm:"size:512;index"   json:"name"  yaml:"name"`
	Value string `gorm:"type:text"        json:"value" yaml:"value"`
}
