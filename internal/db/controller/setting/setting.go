// Package setting provides the settings repository contract and its gorm implementation.
package setting

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/bobasettings/bobasettings/internal/db/models"
)

const (
	idQueryPattern    = "id = ?"
	idsQueryPattern   = "id IN ?"
	nameQueryPattern  = "name = ?"
	valueQueryPattern = "value = ?"
	orderByID         = "id"
)

// Store is the gorm backed Repository. It works with every dialector opened by package db.
type Store struct {
	db *gorm.DB
}

// NewStore returns a Store on top of db.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Migrate creates or updates the settings table.
func Migrate(db *gorm.DB) error {
	if db == nil {
		return ErrDBNil
	}

	return db.AutoMigrate(&models.Setting{})
}

// GetAll retrieves all settings ordered by id.
func (s *Store) GetAll(ctx context.Context) ([]models.Setting, error) {
	if s.db == nil {
		return nil, ErrDBNil
	}

	settings := []models.Setting{}
	if result := s.db.WithContext(ctx).Order(orderByID).Find(&settings); result.Error != nil {
		return nil, result.Error
	}

	return settings, nil
}

// GetByID retrieves a setting by its ID.
func (s *Store) GetByID(ctx context.Context, id uint64) (*models.Setting, error) {
	if s.db == nil {
		return nil, ErrDBNil
	}

	var setting models.Setting
	result := s.db.WithContext(ctx).First(&setting, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrSettingNotFound
		}
		return nil, result.Error
	}

	return &setting, nil
}

// GetByIDs retrieves the settings with the given ids. Unknown ids are ignored.
func (s *Store) GetByIDs(ctx context.Context, ids []uint64) ([]models.Setting, error) {
	if s.db == nil {
		return nil, ErrDBNil
	}

	settings := []models.Setting{}
	if len(ids) == 0 {
		return settings, nil
	}

	result := s.db.WithContext(ctx).Where(idsQueryPattern, ids).Order(orderByID).Find(&settings)
	if result.Error != nil {
		return nil, result.Error
	}

	return settings, nil
}

// GetByName retrieves every setting whose name equals name.
func (s *Store) GetByName(ctx context.Context, name string) ([]models.Setting, error) {
	return s.findWhere(ctx, nameQueryPattern, name)
}

// GetByValue retrieves every setting whose value equals value.
func (s *Store) GetByValue(ctx context.Context, value string) ([]models.Setting, error) {
	return s.findWhere(ctx, valueQueryPattern, value)
}

func (s *Store) findWhere(ctx context.Context, query string, arg string) ([]models.Setting, error) {
	if s.db == nil {
		return nil, ErrDBNil
	}

	settings := []models.Setting{}
	if result := s.db.WithContext(ctx).Where(query, arg).Order(orderByID).Find(&settings); result.Error != nil {
		return nil, result.Error
	}

	return settings, nil
}

// Insert creates a new setting. The store assigns the ID.
func (s *Store) Insert(ctx context.Context, setting *models.Setting) (*models.Setting, error) {
	if s.db == nil {
		return nil, ErrDBNil
	}
	if setting == nil {
		return nil, ErrSettingNil
	}
	if err := CheckName(setting.Name); err != nil {
		return nil, err
	}

	if result := s.db.WithContext(ctx).Create(setting); result.Error != nil {
		return nil, result.Error
	}

	return setting, nil
}

// InsertBulk creates all settings in a single statement.
func (s *Store) InsertBulk(ctx context.Context, settings []models.Setting) ([]models.Setting, error) {
	if s.db == nil {
		return nil, ErrDBNil
	}
	if len(settings) == 0 {
		return []models.Setting{}, nil
	}

	for i := range settings {
		if err := CheckName(settings[i].Name); err != nil {
			return nil, err
		}
	}

	if result := s.db.WithContext(ctx).Create(&settings); result.Error != nil {
		return nil, result.Error
	}

	return settings, nil
}

// Update writes name and value of an existing setting.
func (s *Store) Update(ctx context.Context, setting *models.Setting) (*models.Setting, error) {
	if s.db == nil {
		return nil, ErrDBNil
	}
	if setting == nil {
		return nil, ErrSettingNil
	}
	if err := CheckName(setting.Name); err != nil {
		return nil, err
	}

	tx := s.db.WithContext(ctx)

	var existing models.Setting
	result := tx.First(&existing, setting.ID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrSettingNotFound
		}
		return nil, result.Error
	}

	existing.Name = setting.Name
	existing.Value = setting.Value
	if result = tx.Save(&existing); result.Error != nil {
		return nil, result.Error
	}

	return &existing, nil
}

// Delete deletes the given setting.
func (s *Store) Delete(ctx context.Context, setting *models.Setting) error {
	if setting == nil {
		return ErrSettingNil
	}

	return s.DeleteByID(ctx, setting.ID)
}

// DeleteMany deletes the given settings in one statement. Unknown ids are ignored.
func (s *Store) DeleteMany(ctx context.Context, settings []models.Setting) error {
	if s.db == nil {
		return ErrDBNil
	}
	if len(settings) == 0 {
		return nil
	}

	return s.db.WithContext(ctx).Where(idsQueryPattern, IDs(settings)).Delete(&models.Setting{}).Error
}

// DeleteByID deletes a setting by ID.
func (s *Store) DeleteByID(ctx context.Context, id uint64) error {
	if s.db == nil {
		return ErrDBNil
	}

	result := s.db.WithContext(ctx).Where(idQueryPattern, id).Delete(&models.Setting{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSettingNotFound
	}

	return nil
}
