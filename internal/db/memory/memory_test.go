package memory_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobasettings/bobasettings/internal/db/controller/setting"
	"github.com/bobasettings/bobasettings/internal/db/controller/setting/settingtest"
	"github.com/bobasettings/bobasettings/internal/db/memory"
	"github.com/bobasettings/bobasettings/internal/db/models"
)

func TestStoreContract(t *testing.T) {
	settingtest.Run(t, func(_ *testing.T) setting.Repository {
		return memory.New()
	})
}

func TestGetAllReturnsCopies(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	_, err := store.Insert(ctx, &models.Setting{Name: "a", Value: "1"})
	require.NoError(t, err)

	all, err := store.GetAll(ctx)
	require.NoError(t, err)
	all[0].Value = "changed"

	again, err := store.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, "1", again[0].Value)
}

func TestConcurrentInsert(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Insert(ctx, &models.Setting{Name: "same.key"})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	all, err := store.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 50)

	seen := map[uint64]bool{}
	for _, s := range all {
		assert.False(t, seen[s.ID], "duplicate id %d", s.ID)
		seen[s.ID] = true
	}
}
