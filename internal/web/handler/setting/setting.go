// Package setting serves the raw key/value records under /api/settings.
package setting

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/bobasettings/bobasettings/internal/config"
	"github.com/bobasettings/bobasettings/internal/settings"
	"github.com/bobasettings/bobasettings/internal/web/handler"
)

const (
	// Path is the path of the settings routes below handler.APIPath.
	Path = "/settings"
)

// Service is the settings record handler service.
type Service struct {
	handler.Service
	cfg *config.Config
	svc *settings.Service
}

// Init initializes the settings record handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, svc *settings.Service) error {
	if app == nil || cfg == nil || svc == nil {
		return errors.New(handler.ErrNilACSFatalLogMsg)
	}

	s.cfg = cfg
	s.svc = svc

	app.Route(handler.APIPath+Path, func(router fiber.Router) {
		router.Get(handler.RouterRootPath, s.List)
		router.Get("/registered", s.Registered)
		router.Get("/key/:key", s.Get)
		router.Put("/key/:key", s.Put)
		router.Delete("/:id", s.Delete)
	})

	return nil
}

// List returns every stored record.
func (s *Service) List(c *fiber.Ctx) error {
	all, err := s.svc.GetAllSettings(c.UserContext())
	if err != nil {
		return handler.Error(c, err)
	}

	return c.JSON(all)
}

// Registered returns the descriptors of every registered property.
func (s *Service) Registered(c *fiber.Ctx) error {
	descriptors, err := s.svc.GetAllRegisteredSettings(c.UserContext())
	if err != nil {
		return handler.Error(c, err)
	}

	return c.JSON(descriptors)
}

// Get returns the first record stored under the key.
func (s *Service) Get(c *fiber.Ctx) error {
	rec, err := s.svc.GetSetting(c.UserContext(), c.Params("key"))
	if err != nil {
		return handler.Error(c, err)
	}

	return c.JSON(rec)
}

// Put stores the raw value under the key.
func (s *Service) Put(c *fiber.Ctx) error {
	value, err := handler.ParseValue(c)
	if err != nil {
		return handler.Error(c, err)
	}

	key := settings.NormalizeKey(c.Params("key"))

	if err = s.svc.SetSetting(c.UserContext(), key, value); err != nil {
		return handler.Error(c, err)
	}

	rec, err := s.svc.GetSetting(c.UserContext(), key)
	if err != nil {
		return handler.Error(c, err)
	}

	log.Info().Str("key", key).Msg("setting written through api")

	return c.JSON(rec)
}

// Delete removes the record with the id.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return handler.Error(c, fiber.NewError(fiber.StatusBadRequest, "invalid setting id"))
	}

	if err = s.svc.DeleteSettingByID(c.UserContext(), id); err != nil {
		return handler.Error(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
