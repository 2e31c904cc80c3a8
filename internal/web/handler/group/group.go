// Package group serves typed settings groups under /api/groups.
package group

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/bobasettings/bobasettings/internal/config"
	"github.com/bobasettings/bobasettings/internal/settings"
	"github.com/bobasettings/bobasettings/internal/web/handler"
)

const (
	// Path is the path of the group routes below handler.APIPath.
	Path = "/groups"
)

// PropertyInfo describes one property of a group.
type PropertyInfo struct {
	Name        string `json:"name"`
	Field       string `json:"field"`
	Type        string `json:"type"`
	Kind        string `json:"kind,omitempty"`
	Convertible bool   `json:"convertible"`
}

// Info describes a registered group.
type Info struct {
	Name       string         `json:"name"`
	Properties []PropertyInfo `json:"properties"`
}

// Service is the settings group handler service.
type Service struct {
	handler.Service
	cfg       *config.Config
	svc       *settings.Service
	validator *validator.Validate
}

// Init initializes the settings group handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, svc *settings.Service) error {
	if app == nil || cfg == nil || svc == nil {
		return errors.New(handler.ErrNilACSFatalLogMsg)
	}

	s.cfg = cfg
	s.svc = svc
	s.validator = validator.New()

	app.Route(handler.APIPath+Path, func(router fiber.Router) {
		router.Get(handler.RouterRootPath, s.List)
		router.Get("/:name", s.Get)
		router.Put("/:name", s.Put)
		router.Delete("/:name", s.Delete)
		router.Put("/:name/:property", s.PutProperty)
		router.Delete("/:name/:property", s.DeleteProperty)
	})

	return nil
}

// List describes every loadable group.
func (s *Service) List(c *fiber.Ctx) error {
	out := []Info{}

	for _, g := range s.svc.Registry().Discover(nil, false) {
		info := Info{Name: g.Name(), Properties: []PropertyInfo{}}

		for _, p := range g.Properties() {
			pi := PropertyInfo{
				Name:        p.Name(),
				Field:       p.FieldName(),
				Type:        p.Type().String(),
				Convertible: p.Convertible(),
			}
			if p.Convertible() {
				pi.Kind = p.Codec().Kind().String()
			}

			info.Properties = append(info.Properties, pi)
		}

		out = append(out, info)
	}

	return c.JSON(out)
}

// Get returns the loaded group.
func (s *Service) Get(c *fiber.Ctx) error {
	v, err := s.svc.LoadGroup(c.UserContext(), c.Params("name"))
	if err != nil {
		return handler.Error(c, err)
	}

	return c.JSON(v)
}

// Put merges the JSON body into the stored group, validates and saves it.
func (s *Service) Put(c *fiber.Ctx) error {
	v, err := s.svc.LoadGroup(c.UserContext(), c.Params("name"))
	if err != nil {
		return handler.Error(c, err)
	}

	if err = c.BodyParser(v); err != nil {
		return handler.Error(c, fiber.NewError(fiber.StatusBadRequest, "invalid request body"))
	}

	if err = s.validator.Struct(v); err != nil {
		return handler.Error(c, err)
	}

	if err = s.svc.Save(c.UserContext(), v); err != nil {
		return handler.Error(c, err)
	}

	log.Info().Str("group", c.Params("name")).Msg("settings group written through api")

	return c.JSON(v)
}

// Delete removes every stored property of the group.
func (s *Service) Delete(c *fiber.Ctx) error {
	if err := s.svc.DeleteGroupByName(c.UserContext(), c.Params("name")); err != nil {
		return handler.Error(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// PutProperty decodes, validates and saves a single property.
func (s *Service) PutProperty(c *fiber.Ctx) error {
	value, err := handler.ParseValue(c)
	if err != nil {
		return handler.Error(c, err)
	}

	g, p, err := s.property(c)
	if err != nil {
		return handler.Error(c, err)
	}

	v, err := s.svc.LoadGroup(c.UserContext(), g.Name())
	if err != nil {
		return handler.Error(c, err)
	}

	if err = p.SetText(v, value); err != nil {
		return handler.Error(c, err)
	}

	if err = s.validator.StructPartial(v, p.FieldName()); err != nil {
		return handler.Error(c, err)
	}

	if err = s.svc.SaveProperty(c.UserContext(), v, p.Name()); err != nil {
		return handler.Error(c, err)
	}

	return c.JSON(v)
}

// DeleteProperty removes the stored value of a single property.
func (s *Service) DeleteProperty(c *fiber.Ctx) error {
	g, p, err := s.property(c)
	if err != nil {
		return handler.Error(c, err)
	}

	if err = s.svc.DeleteProperty(c.UserContext(), g.New(), p.Name()); err != nil {
		return handler.Error(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Service) property(c *fiber.Ctx) (*settings.Group, *settings.Property, error) {
	name := c.Params("name")

	g, ok := s.svc.Registry().Lookup(name)
	if !ok {
		return nil, nil, pkgerrors.Wrap(settings.ErrGroupNotRegistered, name)
	}

	p, ok := g.Property(c.Params("property"))
	if !ok {
		return nil, nil, pkgerrors.Wrapf(settings.ErrInvalidPropertyExpression, "%s has no property %q", g.Name(), c.Params("property"))
	}

	return g, p, nil
}
