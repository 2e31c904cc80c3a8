package daemon

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobasettings/bobasettings/internal/config"
	"github.com/bobasettings/bobasettings/internal/groups"
	"github.com/bobasettings/bobasettings/internal/settings"
)

func writeSeed(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestNew(t *testing.T) {
	ctx := context.Background()

	cfg := &config.Config{
		DB: config.DB{Engine: config.EngineSQLite},
		Seed: config.Seed{File: writeSeed(t, `settings:
  - name: TestSettings.DefaultColor
    value: Blue
  - name: paypalsettings.mode
    value: Live
`)},
	}

	d, err := New(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, d.Close()) })

	require.NotNil(t, d.Web())

	test, err := settings.Load[groups.TestSettings](ctx, d.Settings())
	require.NoError(t, err)
	assert.Equal(t, "Blue", test.DefaultColor)
	assert.True(t, test.Enabled)

	paypal, err := settings.Load[groups.PaypalSettings](ctx, d.Settings())
	require.NoError(t, err)
	assert.Equal(t, groups.PaymentModeLive, paypal.Mode)
}

func TestNewSeedKeepsStoredValues(t *testing.T) {
	ctx := context.Background()

	cfg := &config.Config{
		DB:   config.DB{Engine: config.EngineSQLite, Path: filepath.Join(t.TempDir(), "settings.db")},
		Seed: config.Seed{File: writeSeed(t, "settings:\n  - name: testsettings.defaultcolor\n    value: Blue\n")},
	}

	d, err := New(ctx, cfg)
	require.NoError(t, err)
	require.NoError(t, d.Settings().SetSetting(ctx, "testsettings.defaultcolor", "Green"))
	require.NoError(t, d.Close())

	d, err = New(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, d.Close()) })

	color, err := settings.GetSettingByKey(ctx, d.Settings(), "testsettings.defaultcolor", "")
	require.NoError(t, err)
	assert.Equal(t, "Green", color)

	cfg.Seed.Overwrite = true
	d2, err := New(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, d2.Close()) })

	color, err = settings.GetSettingByKey(ctx, d2.Settings(), "testsettings.defaultcolor", "")
	require.NoError(t, err)
	assert.Equal(t, "Blue", color)
}

func TestNewErrors(t *testing.T) {
	ctx := context.Background()

	_, err := New(ctx, nil)
	require.ErrorIs(t, err, ErrConfigNil)

	_, err = New(ctx, &config.Config{DB: config.DB{Engine: "oracle"}})
	require.ErrorIs(t, err, config.ErrUnknownDBEngine)

	_, err = New(ctx, &config.Config{Seed: config.Seed{File: filepath.Join(t.TempDir(), "missing.yaml")}})
	require.Error(t, err)
}
