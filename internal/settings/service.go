package settings

import (
	"context"
	"fmt"
	"reflect"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/bobasettings/bobasettings/internal/db/controller/setting"
	"github.com/bobasettings/bobasettings/internal/db/models"
)

const nullValue = "null"

// Service maps settings groups onto a setting.Repository. It keeps no state
// between calls.
type Service struct {
	repo     setting.Repository
	registry *Registry
}

// Option configures a Service.
type Option func(*Service)

// WithRegistry makes the service resolve groups against r instead of DefaultRegistry.
func WithRegistry(r *Registry) Option {
	return func(s *Service) {
		if r != nil {
			s.registry = r
		}
	}
}

// NewService returns a Service storing into repo.
func NewService(repo setting.Repository, opts ...Option) (*Service, error) {
	if repo == nil {
		return nil, ErrRepositoryNil
	}

	s := &Service{repo: repo, registry: defaultRegistry}
	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// Registry returns the registry the service resolves groups against.
func (s *Service) Registry() *Registry {
	return s.registry
}

// GetAllSettings returns every stored record in store order.
func (s *Service) GetAllSettings(ctx context.Context) ([]models.Setting, error) {
	all, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	if all == nil {
		all = []models.Setting{}
	}

	return all, nil
}

// dictionary groups all records by normalized name, keeping store order.
func (s *Service) dictionary(ctx context.Context) (map[string][]models.Setting, error) {
	all, err := s.GetAllSettings(ctx)
	if err != nil {
		return nil, err
	}

	dict := make(map[string][]models.Setting, len(all))
	for _, rec := range all {
		key := NormalizeKey(rec.Name)
		dict[key] = append(dict[key], rec)
	}

	return dict, nil
}

// first returns the first record stored under key.
func (s *Service) first(ctx context.Context, key string) (models.Setting, bool, error) {
	dict, err := s.dictionary(ctx)
	if err != nil {
		return models.Setting{}, false, err
	}

	recs := dict[NormalizeKey(key)]
	if len(recs) == 0 {
		return models.Setting{}, false, nil
	}

	return recs[0], true, nil
}

// GetAllRegisteredSettings describes every property of every loadable group.
func (s *Service) GetAllRegisteredSettings(ctx context.Context) ([]Descriptor, error) {
	dict, err := s.dictionary(ctx)
	if err != nil {
		return nil, err
	}

	out := []Descriptor{}
	for _, g := range s.registry.Discover(nil, false) {
		defaults := g.newValue().Elem()

		for _, p := range g.props {
			key := Key(g.name, p.name)
			d := Descriptor{
				GroupName:    g.name,
				PropertyName: p.name,
				FullKey:      key,
				DeclaredType: p.typ.String(),
				DefaultValue: describe(p, defaults.FieldByIndex(p.index)),
			}

			if recs := dict[NormalizeKey(key)]; len(recs) > 0 {
				d.ID = recs[0].ID
				d.CurrentValue = recs[0].Value
				d.Stored = true
			}

			out = append(out, d)
		}
	}

	return out, nil
}

func describe(p *Property, v reflect.Value) string {
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice:
		if v.IsNil() {
			return nullValue
		}
	}

	if p.codec != nil {
		if text, err := p.codec.encodeValue(v); err == nil {
			return text
		}
	}

	return fmt.Sprint(v.Interface())
}

// GetSettingByID returns the record with id.
func (s *Service) GetSettingByID(ctx context.Context, id uint64) (*models.Setting, error) {
	return s.repo.GetByID(ctx, id)
}

// GetSettingByKey returns the value stored under key converted to T. A blank
// key, a missing record or an unconvertible value yield defaultValue; only
// store failures are returned as error.
func GetSettingByKey[T any](ctx context.Context, s *Service, key string, defaultValue T) (T, error) {
	key = NormalizeKey(key)
	if key == "" {
		return defaultValue, nil
	}

	rec, ok, err := s.first(ctx, key)
	if err != nil {
		return defaultValue, err
	}
	if !ok {
		return defaultValue, nil
	}

	v, err := convertText[T](s.registry.codecs, rec.Value)
	if err != nil {
		log.Debug().Err(err).Str("key", key).Msg("stored value ignored")
		return defaultValue, nil
	}

	return v, nil
}

func convertText[T any](codecs *CodecTable, text string) (T, error) {
	var zero T

	t := reflect.TypeFor[T]()
	if t.Kind() == reflect.Interface {
		if v, ok := any(text).(T); ok {
			return v, nil
		}
		return zero, errors.Wrapf(ErrConversion, "cannot convert text to %s", t)
	}

	c, err := codecs.Lookup(t)
	if err != nil {
		return zero, err
	}

	rv, err := c.decodeValue(text)
	if err != nil {
		return zero, err
	}

	return rv.Interface().(T), nil //nolint:forcetypeassert
}

// GetSetting returns the first record stored under key, fetched again by its ID.
func (s *Service) GetSetting(ctx context.Context, key string) (*models.Setting, error) {
	if NormalizeKey(key) == "" {
		return nil, ErrSettingNotFound
	}

	rec, ok, err := s.first(ctx, key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.Wrapf(ErrSettingNotFound, "%s", NormalizeKey(key))
	}

	return s.repo.GetByID(ctx, rec.ID)
}

// SetSetting stores value under key, updating the first existing record or
// inserting a new one. Strings are stored as given, nil as the empty string,
// anything else through the codec of its type.
func (s *Service) SetSetting(ctx context.Context, key string, value any) error {
	text, err := s.encodeAny(value)
	if err != nil {
		return err
	}

	return s.upsert(ctx, key, text)
}

func (s *Service) encodeAny(value any) (string, error) {
	switch v := value.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	}

	c, err := s.registry.codecs.Lookup(reflect.TypeOf(value))
	if err != nil {
		return "", err
	}

	return c.Encode(value)
}

// upsert writes text under the normalized key.
func (s *Service) upsert(ctx context.Context, key string, text string) error {
	key = NormalizeKey(key)
	if key == "" {
		return setting.ErrSettingNameEmpty
	}

	rec, ok, err := s.first(ctx, key)
	if err != nil {
		return err
	}

	if ok {
		current, err := s.repo.GetByID(ctx, rec.ID)
		switch {
		case err == nil:
			current.Value = text
			if _, err = s.repo.Update(ctx, current); err != nil {
				return err
			}
			log.Debug().Str("key", key).Uint64("id", current.ID).Msg("setting updated")
			return nil
		case !errors.Is(err, ErrSettingNotFound):
			return err
		}
		// removed since the read; insert below
	}

	inserted, err := s.repo.Insert(ctx, &models.Setting{Name: key, Value: text})
	if err != nil {
		return err
	}
	log.Debug().Str("key", key).Uint64("id", inserted.ID).Msg("setting inserted")

	return nil
}

// InsertSetting stores rec as a new record.
func (s *Service) InsertSetting(ctx context.Context, rec *models.Setting) error {
	if rec == nil {
		return ErrArgumentNil
	}

	_, err := s.repo.Insert(ctx, rec)

	return err
}

// UpdateSetting writes name and value of an existing record.
func (s *Service) UpdateSetting(ctx context.Context, rec *models.Setting) error {
	if rec == nil {
		return ErrArgumentNil
	}

	_, err := s.repo.Update(ctx, rec)

	return err
}

// DeleteSetting removes rec.
func (s *Service) DeleteSetting(ctx context.Context, rec *models.Setting) error {
	if rec == nil {
		return ErrArgumentNil
	}

	return s.repo.Delete(ctx, rec)
}

// DeleteSettings removes recs in one batch.
func (s *Service) DeleteSettings(ctx context.Context, recs []models.Setting) error {
	return s.repo.DeleteMany(ctx, recs)
}

// DeleteSettingByID removes the record with id.
func (s *Service) DeleteSettingByID(ctx context.Context, id uint64) error {
	return s.repo.DeleteByID(ctx, id)
}

// SettingKey returns the key of property on the group of settings.
func (s *Service) SettingKey(settings any, property string) (string, error) {
	g, _, err := s.registry.instance(settings)
	if err != nil {
		return "", err
	}

	return g.Key(property)
}

// Load returns the stored state of group T laid over its defaults.
func Load[T any](ctx context.Context, s *Service) (*T, error) {
	v, err := s.LoadType(ctx, reflect.TypeFor[T]())
	if err != nil {
		return nil, err
	}

	return v.(*T), nil //nolint:forcetypeassert
}

// LoadType is Load for a reflect.Type. It returns a pointer to the group struct.
func (s *Service) LoadType(ctx context.Context, t reflect.Type) (any, error) {
	g, ok := s.registry.LookupType(t)
	if !ok {
		return nil, errors.Wrapf(ErrGroupNotRegistered, "%v", t)
	}

	return s.load(ctx, g)
}

// LoadGroup is Load for a group name.
func (s *Service) LoadGroup(ctx context.Context, name string) (any, error) {
	g, ok := s.registry.Lookup(name)
	if !ok {
		return nil, errors.Wrapf(ErrGroupNotRegistered, "%s", name)
	}

	return s.load(ctx, g)
}

func (s *Service) load(ctx context.Context, g *Group) (any, error) {
	if g.abstract {
		return nil, errors.Wrapf(ErrGroupAbstract, "%s", g.name)
	}

	dict, err := s.dictionary(ctx)
	if err != nil {
		return nil, err
	}

	ptr := g.newValue()
	for _, p := range g.props {
		if p.codec == nil {
			continue
		}

		key := NormalizeKey(Key(g.name, p.name))
		recs := dict[key]
		if len(recs) == 0 {
			continue
		}

		v, err := p.codec.decodeValue(recs[0].Value)
		if err != nil {
			log.Debug().Err(err).Str("key", key).Msg("stored value ignored")
			continue
		}

		ptr.Elem().FieldByIndex(p.index).Set(v)
	}

	return ptr.Interface(), nil
}

// Save writes every convertible property of settings. Earlier writes stay
// in place when a later one fails.
func (s *Service) Save(ctx context.Context, settings any) error {
	g, v, err := s.registry.instance(settings)
	if err != nil {
		return err
	}

	saved := 0
	for _, p := range g.props {
		if p.codec == nil {
			continue
		}

		if err := s.saveProperty(ctx, g, p, v); err != nil {
			return err
		}
		saved++
	}

	log.Info().Str("group", g.name).Int("properties", saved).Msg("settings saved")

	return nil
}

// SaveProperty writes a single property of settings.
func (s *Service) SaveProperty(ctx context.Context, settings any, property string) error {
	g, v, err := s.registry.instance(settings)
	if err != nil {
		return err
	}

	p, err := g.resolve(property)
	if err != nil {
		return err
	}
	if p.codec == nil {
		return errors.Wrapf(ErrConversion, "%s has no string form", Key(g.name, p.name))
	}

	if err := s.saveProperty(ctx, g, p, v); err != nil {
		return err
	}

	log.Info().Str("key", Key(g.name, p.name)).Msg("setting saved")

	return nil
}

func (s *Service) saveProperty(ctx context.Context, g *Group, p *Property, v reflect.Value) error {
	text, err := p.codec.encodeValue(v.FieldByIndex(p.index))
	if err != nil {
		return errors.Wrapf(err, "%s", Key(g.name, p.name))
	}

	return s.upsert(ctx, Key(g.name, p.name), text)
}

// DeleteGroup removes every record stored for the group of type t.
func (s *Service) DeleteGroup(ctx context.Context, t reflect.Type) error {
	g, ok := s.registry.LookupType(t)
	if !ok {
		return errors.Wrapf(ErrGroupNotRegistered, "%v", t)
	}

	return s.deleteGroup(ctx, g)
}

// DeleteGroupOf removes every record stored for group T.
func DeleteGroupOf[T any](ctx context.Context, s *Service) error {
	return s.DeleteGroup(ctx, reflect.TypeFor[T]())
}

// DeleteGroupByName removes every record stored for the named group.
func (s *Service) DeleteGroupByName(ctx context.Context, name string) error {
	g, ok := s.registry.Lookup(name)
	if !ok {
		return errors.Wrapf(ErrGroupNotRegistered, "%s", name)
	}

	return s.deleteGroup(ctx, g)
}

func (s *Service) deleteGroup(ctx context.Context, g *Group) error {
	keys := make(map[string]struct{}, len(g.props))
	for _, p := range g.props {
		keys[NormalizeKey(Key(g.name, p.name))] = struct{}{}
	}

	all, err := s.GetAllSettings(ctx)
	if err != nil {
		return err
	}

	var matches []models.Setting
	for _, rec := range all {
		if _, ok := keys[NormalizeKey(rec.Name)]; ok {
			matches = append(matches, rec)
		}
	}

	if len(matches) == 0 {
		return nil
	}

	if err := s.repo.DeleteMany(ctx, matches); err != nil {
		return err
	}

	log.Info().Str("group", g.name).Int("records", len(matches)).Msg("settings deleted")

	return nil
}

// DeleteProperty removes the first record stored for property. It does
// nothing when there is none.
func (s *Service) DeleteProperty(ctx context.Context, settings any, property string) error {
	key, err := s.SettingKey(settings, property)
	if err != nil {
		return err
	}

	rec, ok, err := s.first(ctx, key)
	if err != nil || !ok {
		return err
	}

	current, err := s.repo.GetByID(ctx, rec.ID)
	if err != nil {
		if errors.Is(err, ErrSettingNotFound) {
			return nil
		}
		return err
	}

	if err := s.repo.Delete(ctx, current); err != nil {
		return err
	}

	log.Info().Str("key", key).Msg("setting deleted")

	return nil
}

// SettingExists reports whether a record is stored for property. An empty value counts.
func (s *Service) SettingExists(ctx context.Context, settings any, property string) (bool, error) {
	key, err := s.SettingKey(settings, property)
	if err != nil {
		return false, err
	}

	_, ok, err := s.first(ctx, key)

	return ok, err
}
