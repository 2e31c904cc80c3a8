// Package memory implements an in-process settings repository.
package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/bobasettings/bobasettings/internal/db/controller/setting"
	"github.com/bobasettings/bobasettings/internal/db/models"
)

// Store keeps settings in insertion order. The zero value is ready to use.
type Store struct {
	mu      sync.RWMutex
	nextID  uint64
	records []models.Setting
}

// New returns an empty Store.
func New() *Store {
	return &Store{}
}

// GetAll returns a copy of all settings.
func (s *Store) GetAll(_ context.Context) ([]models.Setting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Setting, len(s.records))
	copy(out, s.records)

	return out, nil
}

// GetByID returns the setting with the given id.
func (s *Store) GetByID(_ context.Context, id uint64) (*models.Setting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil, setting.ErrSettingNotFound
	}

	found := s.records[i]

	return &found, nil
}

// GetByIDs returns the settings with the given ids in store order.
func (s *Store) GetByIDs(_ context.Context, ids []uint64) ([]models.Setting, error) {
	return s.filter(func(r *models.Setting) bool { return slices.Contains(ids, r.ID) }), nil
}

// GetByName returns every setting named name.
func (s *Store) GetByName(_ context.Context, name string) ([]models.Setting, error) {
	return s.filter(func(r *models.Setting) bool { return r.Name == name }), nil
}

// GetByValue returns every setting holding value.
func (s *Store) GetByValue(_ context.Context, value string) ([]models.Setting, error) {
	return s.filter(func(r *models.Setting) bool { return r.Value == value }), nil
}

// Insert stores a copy of rec under a fresh id and writes the id back to rec.
func (s *Store) Insert(_ context.Context, rec *models.Setting) (*models.Setting, error) {
	if rec == nil {
		return nil, setting.ErrSettingNil
	}
	if err := setting.CheckName(rec.Name); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.insertLocked(rec)

	return rec, nil
}

// InsertBulk stores all settings. Nothing is stored if one name is invalid.
func (s *Store) InsertBulk(_ context.Context, recs []models.Setting) ([]models.Setting, error) {
	if len(recs) == 0 {
		return []models.Setting{}, nil
	}

	for i := range recs {
		if err := setting.CheckName(recs[i].Name); err != nil {
			return nil, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range recs {
		s.insertLocked(&recs[i])
	}

	return recs, nil
}

// Update replaces name and value of an existing setting.
func (s *Store) Update(_ context.Context, rec *models.Setting) (*models.Setting, error) {
	if rec == nil {
		return nil, setting.ErrSettingNil
	}
	if err := setting.CheckName(rec.Name); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(rec.ID)
	if i < 0 {
		return nil, setting.ErrSettingNotFound
	}

	s.records[i].Name = rec.Name
	s.records[i].Value = rec.Value
	updated := s.records[i]

	return &updated, nil
}

// Delete removes rec.
func (s *Store) Delete(ctx context.Context, rec *models.Setting) error {
	if rec == nil {
		return setting.ErrSettingNil
	}

	return s.DeleteByID(ctx, rec.ID)
}

// DeleteMany removes all given settings, ignoring unknown ids.
func (s *Store) DeleteMany(_ context.Context, recs []models.Setting) error {
	if len(recs) == 0 {
		return nil
	}

	ids := setting.IDs(recs)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = slices.DeleteFunc(s.records, func(r models.Setting) bool {
		return slices.Contains(ids, r.ID)
	})

	return nil
}

// DeleteByID removes the setting with the given id.
func (s *Store) DeleteByID(_ context.Context, id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return setting.ErrSettingNotFound
	}

	s.records = slices.Delete(s.records, i, i+1)

	return nil
}

func (s *Store) insertLocked(rec *models.Setting) {
	s.nextID++
	rec.ID = s.nextID
	s.records = append(s.records, *rec)
}

func (s *Store) indexOf(id uint64) int {
	return slices.IndexFunc(s.records, func(r models.Setting) bool { return r.ID == id })
}

func (s *Store) filter(keep func(r *models.Setting) bool) []models.Setting {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.Setting{}
	for i := range s.records {
		if keep(&s.records[i]) {
			out = append(out, s.records[i])
		}
	}

	return out
}
