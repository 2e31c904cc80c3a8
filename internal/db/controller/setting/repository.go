package setting

import (
	"context"

	"github.com/bobasettings/bobasettings/internal/db/models"
)

// Repository is the CRUD contract every settings backend implements.
//
// GetByName and GetByValue match exactly; case-insensitive lookups are
// the business of the caller. GetByID and DeleteByID return
// ErrSettingNotFound for an unknown id.
type Repository interface {
	GetAll(ctx context.Context) ([]models.Setting, error)
	GetByID(ctx context.Context, id uint64) (*models.Setting, error)
	GetByIDs(ctx context.Context, ids []uint64) ([]models.Setting, error)
	GetByName(ctx context.Context, name string) ([]models.Setting, error)
	GetByValue(ctx context.Context, value string) ([]models.Setting, error)
	Insert(ctx context.Context, s *models.Setting) (*models.Setting, error)
	InsertBulk(ctx context.Context, s []models.Setting) ([]models.Setting, error)
	Update(ctx context.Context, s *models.Setting) (*models.Setting, error)
	Delete(ctx context.Context, s *models.Setting) error
	DeleteMany(ctx context.Context, s []models.Setting) error
	DeleteByID(ctx context.Context, id uint64) error
}

// CheckName validates a setting name before it is written.
func CheckName(name string) error {
	if name == "" {
		return ErrSettingNameEmpty
	}

	if len(name) > models.NameMaxLength {
		return ErrSettingNameTooLong
	}

	return nil
}

// IDs returns the ids of the given settings in order.
func IDs(settings []models.Setting) []uint64 {
	ids := make([]uint64, 0, len(settings))
	for i := range settings {
		ids = append(ids, settings[i].ID)
	}

	return ids
}
