package config

import (
	"github.com/bobasettings/bobasettings/internal/logger"
)

// Config overall data structure.
type Config struct {
	DevMode   bool // enable dev mode for development
	Title     string
	DB        DB
	Redis     Redis
	Seed      Seed
	Log       logger.Log
	Webserver Webserver
}

// Webserver implement webserver settings.
type Webserver struct {
	CleanPath      bool   // use clean path middleware to allow multi slash requests
	DisableRecover bool   // disable recover middleware
	Port           int    // listening port for the webserver
	ShutDownTime   int    // seconds /checkalive fails before the server stops
	URL            string // base url for the webserver
	BodyLimit      int    // max request body in bytes, fiber default if 0
}
