package setting

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobasettings/bobasettings/internal/config"
	"github.com/bobasettings/bobasettings/internal/db/memory"
	"github.com/bobasettings/bobasettings/internal/db/models"
	"github.com/bobasettings/bobasettings/internal/groups"
	"github.com/bobasettings/bobasettings/internal/settings"
)

// setupApp creates a fiber app serving the settings routes on an in-memory store.
func setupApp(t *testing.T) (*fiber.App, *settings.Service) {
	t.Helper()

	r := settings.NewRegistry()
	require.NoError(t, groups.Register(r))

	svc, err := settings.NewService(memory.New(), settings.WithRegistry(r))
	require.NoError(t, err)

	app := fiber.New()
	s := &Service{}
	require.NoError(t, s.Init(app, &config.Config{}, svc))

	return app, svc
}

func do(t *testing.T, app *fiber.App, method, target, body string) (int, []byte) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() {
		_ = resp.Body.Close()
	}()

	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp.StatusCode, out
}

func TestInitNil(t *testing.T) {
	s := &Service{}
	require.Error(t, s.Init(nil, &config.Config{}, nil))
}

func TestList(t *testing.T) {
	app, svc := setupApp(t)

	status, body := do(t, app, http.MethodGet, "/api/settings", "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.JSONEq(t, `[]`, string(body))

	require.NoError(t, svc.SetSetting(context.Background(), "a.b", "1"))

	status, body = do(t, app, http.MethodGet, "/api/settings", "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.JSONEq(t, `[{"id":1,"name":"a.b","value":"1"}]`, string(body))
}

func TestRegistered(t *testing.T) {
	app, svc := setupApp(t)
	require.NoError(t, svc.SetSetting(context.Background(), "testsettings.defaultcolor", "Blue"))

	status, body := do(t, app, http.MethodGet, "/api/settings/registered", "")
	require.Equal(t, fiber.StatusOK, status)

	var descriptors []settings.Descriptor
	require.NoError(t, json.Unmarshal(body, &descriptors))
	assert.Len(t, descriptors, 14)

	var color settings.Descriptor
	for _, d := range descriptors {
		if d.FullKey == "TestSettings.DefaultColor" {
			color = d
		}
	}

	assert.True(t, color.Stored)
	assert.Equal(t, "Red", color.DefaultValue)
	assert.Equal(t, "Blue", color.CurrentValue)
}

func TestGetPut(t *testing.T) {
	app, _ := setupApp(t)

	status, _ := do(t, app, http.MethodGet, "/api/settings/key/TestSettings.DefaultColor", "")
	assert.Equal(t, fiber.StatusNotFound, status)

	status, body := do(t, app, http.MethodPut, "/api/settings/key/TestSettings.DefaultColor", `{"value":"Blue"}`)
	require.Equal(t, fiber.StatusOK, status)
	assert.JSONEq(t, `{"id":1,"name":"testsettings.defaultcolor","value":"Blue"}`, string(body))

	status, body = do(t, app, http.MethodPut, "/api/settings/key/testsettings.DEFAULTCOLOR", `{"value":"Green"}`)
	require.Equal(t, fiber.StatusOK, status)
	assert.JSONEq(t, `{"id":1,"name":"testsettings.defaultcolor","value":"Green"}`, string(body))

	status, body = do(t, app, http.MethodGet, "/api/settings/key/TestSettings.DefaultColor", "")
	require.Equal(t, fiber.StatusOK, status)

	var rec models.Setting
	require.NoError(t, json.Unmarshal(body, &rec))
	assert.Equal(t, "Green", rec.Value)

	status, _ = do(t, app, http.MethodPut, "/api/settings/key/TestSettings.DefaultColor", `{}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestDelete(t *testing.T) {
	app, svc := setupApp(t)
	require.NoError(t, svc.SetSetting(context.Background(), "a.b", "1"))

	status, _ := do(t, app, http.MethodDelete, "/api/settings/abc", "")
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = do(t, app, http.MethodDelete, "/api/settings/1", "")
	assert.Equal(t, fiber.StatusNoContent, status)

	status, _ = do(t, app, http.MethodDelete, "/api/settings/1", "")
	assert.Equal(t, fiber.StatusNotFound, status)
}
