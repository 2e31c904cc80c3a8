// Package settingtest holds the behaviour every setting.Repository must show.
// Backend packages run it from their own tests.
package settingtest

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobasettings/bobasettings/internal/db/controller/setting"
	"github.com/bobasettings/bobasettings/internal/db/models"
)

// Factory returns an empty repository for a single sub test.
type Factory func(t *testing.T) setting.Repository

// Run runs the repository contract against the repositories built by newRepo.
func Run(t *testing.T, newRepo Factory) {
	t.Helper()

	t.Run("insert assigns ids", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		first, err := repo.Insert(ctx, &models.Setting{Name: "a.one", Value: "1"})
		require.NoError(t, err)
		second, err := repo.Insert(ctx, &models.Setting{Name: "a.two", Value: "2"})
		require.NoError(t, err)

		assert.NotZero(t, first.ID)
		assert.NotZero(t, second.ID)
		assert.NotEqual(t, first.ID, second.ID)

		got, err := repo.GetByID(ctx, second.ID)
		require.NoError(t, err)
		assert.Equal(t, "a.two", got.Name)
		assert.Equal(t, "2", got.Value)
	})

	t.Run("insert rejects bad names", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Insert(ctx, nil)
		require.ErrorIs(t, err, setting.ErrSettingNil)

		_, err = repo.Insert(ctx, &models.Setting{Name: ""})
		require.ErrorIs(t, err, setting.ErrSettingNameEmpty)

		_, err = repo.Insert(ctx, &models.Setting{Name: strings.Repeat("x", models.NameMaxLength+1)})
		require.ErrorIs(t, err, setting.ErrSettingNameTooLong)
	})

	t.Run("get all keeps insertion order and duplicates", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		for _, s := range []models.Setting{
			{Name: "dup.key", Value: "first"},
			{Name: "other", Value: "x"},
			{Name: "dup.key", Value: "second"},
		} {
			_, err := repo.Insert(ctx, &s)
			require.NoError(t, err)
		}

		all, err := repo.GetAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, "first", all[0].Value)
		assert.Equal(t, "second", all[2].Value)

		byName, err := repo.GetByName(ctx, "dup.key")
		require.NoError(t, err)
		assert.Len(t, byName, 2)

		byValue, err := repo.GetByValue(ctx, "x")
		require.NoError(t, err)
		require.Len(t, byValue, 1)
		assert.Equal(t, "other", byValue[0].Name)
	})

	t.Run("empty store", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		all, err := repo.GetAll(ctx)
		require.NoError(t, err)
		assert.NotNil(t, all)
		assert.Empty(t, all)

		_, err = repo.GetByID(ctx, 42)
		require.ErrorIs(t, err, setting.ErrSettingNotFound)

		byName, err := repo.GetByName(ctx, "missing")
		require.NoError(t, err)
		assert.Empty(t, byName)
	})

	t.Run("bulk insert and get by ids", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		inserted, err := repo.InsertBulk(ctx, []models.Setting{
			{Name: "b.one", Value: "1"},
			{Name: "b.two", Value: "2"},
			{Name: "b.three", Value: "3"},
		})
		require.NoError(t, err)
		require.Len(t, inserted, 3)
		for _, s := range inserted {
			assert.NotZero(t, s.ID)
		}

		got, err := repo.GetByIDs(ctx, []uint64{inserted[0].ID, inserted[2].ID, 9999})
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "b.one", got[0].Name)
		assert.Equal(t, "b.three", got[1].Name)

		_, err = repo.InsertBulk(ctx, []models.Setting{{Name: "ok"}, {Name: ""}})
		require.ErrorIs(t, err, setting.ErrSettingNameEmpty)
	})

	t.Run("update keeps id", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		s, err := repo.Insert(ctx, &models.Setting{Name: "u.key", Value: "old"})
		require.NoError(t, err)

		s.Value = "new"
		updated, err := repo.Update(ctx, s)
		require.NoError(t, err)
		assert.Equal(t, s.ID, updated.ID)

		got, err := repo.GetByID(ctx, s.ID)
		require.NoError(t, err)
		assert.Equal(t, "new", got.Value)

		_, err = repo.Update(ctx, &models.Setting{ID: 9999, Name: "u.key"})
		require.ErrorIs(t, err, setting.ErrSettingNotFound)

		_, err = repo.Update(ctx, nil)
		require.ErrorIs(t, err, setting.ErrSettingNil)
	})

	t.Run("delete", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		inserted, err := repo.InsertBulk(ctx, []models.Setting{
			{Name: "d.one"}, {Name: "d.two"}, {Name: "d.three"}, {Name: "d.four"},
		})
		require.NoError(t, err)

		require.NoError(t, repo.Delete(ctx, &inserted[0]))
		require.ErrorIs(t, repo.Delete(ctx, &inserted[0]), setting.ErrSettingNotFound)
		require.ErrorIs(t, repo.Delete(ctx, nil), setting.ErrSettingNil)

		require.NoError(t, repo.DeleteByID(ctx, inserted[1].ID))
		require.ErrorIs(t, repo.DeleteByID(ctx, inserted[1].ID), setting.ErrSettingNotFound)

		require.NoError(t, repo.DeleteMany(ctx, nil))
		require.NoError(t, repo.DeleteMany(ctx, []models.Setting{inserted[2], {ID: 9999}}))

		all, err := repo.GetAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 1)
		assert.Equal(t, "d.four", all[0].Name)
	})
}
