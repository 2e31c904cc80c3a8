// Package redis implements the settings repository on top of a redis hash.
//
// Records live as JSON documents in the hash <prefix>:records keyed by their id.
// Ids come from INCR on <prefix>:seq, so id order is insertion order.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"slices"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/bobasettings/bobasettings/internal/db/controller/setting"
	"github.com/bobasettings/bobasettings/internal/db/models"
)

// DefaultPrefix is used when no key prefix is configured.
const DefaultPrefix = "bobasettings"

// ErrClientNil is returned when the redis client is nil.
var ErrClientNil = errors.New("redis client is nil")

// updateScript sets ARGV[2] at field ARGV[1] of hash KEYS[1] only if the field exists.
var updateScript = redis.NewScript(`
if redis.call("HEXISTS", KEYS[1], ARGV[1]) == 0 then
	return 0
end
redis.call("HSET", KEYS[1], ARGV[1], ARGV[2])
return 1
`) //nolint:gochecknoglobals

// Store is the redis backed setting.Repository.
type Store struct {
	client  redis.UniversalClient
	seqKey  string
	hashKey string
}

// New returns a Store using client. An empty prefix means DefaultPrefix.
func New(client redis.UniversalClient, prefix string) *Store {
	if prefix == "" {
		prefix = DefaultPrefix
	}

	return &Store{
		client:  client,
		seqKey:  prefix + ":seq",
		hashKey: prefix + ":records",
	}
}

// GetAll returns all settings ordered by id.
func (s *Store) GetAll(ctx context.Context) ([]models.Setting, error) {
	return s.filter(ctx, func(*models.Setting) bool { return true })
}

// GetByID returns the setting with the given id.
func (s *Store) GetByID(ctx context.Context, id uint64) (*models.Setting, error) {
	if s.client == nil {
		return nil, ErrClientNil
	}

	raw, err := s.client.HGet(ctx, s.hashKey, field(id)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, setting.ErrSettingNotFound
		}
		return nil, err
	}

	var rec models.Setting
	if err = json.Unmarshal([]byte(raw), &rec); err != nil {
		return nil, err
	}

	return &rec, nil
}

// GetByIDs returns the settings with the given ids ordered by id.
func (s *Store) GetByIDs(ctx context.Context, ids []uint64) ([]models.Setting, error) {
	if s.client == nil {
		return nil, ErrClientNil
	}

	out := []models.Setting{}
	if len(ids) == 0 {
		return out, nil
	}

	fields := make([]string, 0, len(ids))
	for _, id := range ids {
		fields = append(fields, field(id))
	}

	values, err := s.client.HMGet(ctx, s.hashKey, fields...).Result()
	if err != nil {
		return nil, err
	}

	for _, v := range values {
		raw, ok := v.(string)
		if !ok {
			continue // unknown id
		}

		var rec models.Setting
		if err = json.Unmarshal([]byte(raw), &rec); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}

	sortByID(out)

	return out, nil
}

// GetByName returns every setting named name.
func (s *Store) GetByName(ctx context.Context, name string) ([]models.Setting, error) {
	return s.filter(ctx, func(r *models.Setting) bool { return r.Name == name })
}

// GetByValue returns every setting holding value.
func (s *Store) GetByValue(ctx context.Context, value string) ([]models.Setting, error) {
	return s.filter(ctx, func(r *models.Setting) bool { return r.Value == value })
}

// Insert stores rec under a fresh id and writes the id back to rec.
func (s *Store) Insert(ctx context.Context, rec *models.Setting) (*models.Setting, error) {
	if s.client == nil {
		return nil, ErrClientNil
	}
	if rec == nil {
		return nil, setting.ErrSettingNil
	}
	if err := setting.CheckName(rec.Name); err != nil {
		return nil, err
	}

	id, err := s.client.Incr(ctx, s.seqKey).Result()
	if err != nil {
		return nil, err
	}
	rec.ID = uint64(id)

	if err = s.write(ctx, s.client, rec); err != nil {
		return nil, err
	}

	return rec, nil
}

// InsertBulk stores all settings inside one MULTI/EXEC block.
func (s *Store) InsertBulk(ctx context.Context, recs []models.Setting) ([]models.Setting, error) {
	if s.client == nil {
		return nil, ErrClientNil
	}
	if len(recs) == 0 {
		return []models.Setting{}, nil
	}

	for i := range recs {
		if err := setting.CheckName(recs[i].Name); err != nil {
			return nil, err
		}
	}

	last, err := s.client.IncrBy(ctx, s.seqKey, int64(len(recs))).Result()
	if err != nil {
		return nil, err
	}

	first := uint64(last) - uint64(len(recs)) + 1
	for i := range recs {
		recs[i].ID = first + uint64(i)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for i := range recs {
			if err := s.write(ctx, pipe, &recs[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return recs, nil
}

// Update replaces name and value of an existing setting.
func (s *Store) Update(ctx context.Context, rec *models.Setting) (*models.Setting, error) {
	if s.client == nil {
		return nil, ErrClientNil
	}
	if rec == nil {
		return nil, setting.ErrSettingNil
	}
	if err := setting.CheckName(rec.Name); err != nil {
		return nil, err
	}

	updated := *rec

	raw, err := json.Marshal(&updated)
	if err != nil {
		return nil, err
	}

	n, err := updateScript.Run(ctx, s.client, []string{s.hashKey}, field(updated.ID), raw).Int()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, setting.ErrSettingNotFound
	}

	return &updated, nil
}

// Delete removes rec.
func (s *Store) Delete(ctx context.Context, rec *models.Setting) error {
	if rec == nil {
		return setting.ErrSettingNil
	}

	return s.DeleteByID(ctx, rec.ID)
}

// DeleteMany removes all given settings with one HDEL.
func (s *Store) DeleteMany(ctx context.Context, recs []models.Setting) error {
	if s.client == nil {
		return ErrClientNil
	}
	if len(recs) == 0 {
		return nil
	}

	fields := make([]string, 0, len(recs))
	for i := range recs {
		fields = append(fields, field(recs[i].ID))
	}

	return s.client.HDel(ctx, s.hashKey, fields...).Err()
}

// DeleteByID removes the setting with the given id.
func (s *Store) DeleteByID(ctx context.Context, id uint64) error {
	if s.client == nil {
		return ErrClientNil
	}

	n, err := s.client.HDel(ctx, s.hashKey, field(id)).Result()
	if err != nil {
		return err
	}
	if n == 0 {
		return setting.ErrSettingNotFound
	}

	return nil
}

func (s *Store) write(ctx context.Context, c redis.Cmdable, rec *models.Setting) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	return c.HSet(ctx, s.hashKey, field(rec.ID), raw).Err()
}

func (s *Store) filter(ctx context.Context, keep func(*models.Setting) bool) ([]models.Setting, error) {
	if s.client == nil {
		return nil, ErrClientNil
	}

	all, err := s.client.HGetAll(ctx, s.hashKey).Result()
	if err != nil {
		return nil, err
	}

	out := make([]models.Setting, 0, len(all))
	for _, raw := range all {
		var rec models.Setting
		if err = json.Unmarshal([]byte(raw), &rec); err != nil {
			return nil, err
		}
		if keep(&rec) {
			out = append(out, rec)
		}
	}

	sortByID(out)

	return out, nil
}

func field(id uint64) string {
	return strconv.FormatUint(id, 10)
}

func sortByID(recs []models.Setting) {
	slices.SortFunc(recs, func(a, b models.Setting) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		default:
			return 0
		}
	})
}
