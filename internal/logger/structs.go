package logger

import (
	"time"

	"github.com/DataDog/datadog-api-client-go/v2/api/datadog"
)

// Console configures console output.
type Console struct {
	Enabled          bool `toml:"enabled"`
	UseConsoleWriter bool `toml:"useConsoleWriter"`
}

// Rotation configures one rolling log file.
type Rotation struct {
	File       string `toml:"file"`
	MaxSize    int    `toml:"maxSize"` // megabytes
	MaxBackups int    `toml:"maxBackups"`
	MaxAge     int    `toml:"maxAge"` // days
}

// LogFile configures file logging. Every level class gets its own file.
type LogFile struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`

	Access Rotation `toml:"access"`
	Error  Rotation `toml:"error"` // error, fatal and panic
	Info   Rotation `toml:"info"`  // debug and info
	Trace  Rotation `toml:"trace"`
	Warn   Rotation `toml:"warn"`
}

// DataDog ships log lines to the datadog logs intake.
type DataDog struct {
	Enabled     bool                         `toml:"enabled"`
	ServiceName string                       `toml:"serviceName"` // defaults to Log.ServiceName
	APIKey      string                       `toml:"apiKey"`      // API Key defined at datadog
	Site        string                       `toml:"site"`        // Regional Site aka DD_SITE ("datadoghq.eu")
	Servers     datadog.ServerConfigurations `toml:"servers"`     // overrides the intake endpoint
	Timeout     time.Duration                `toml:"timeout"`     // how long to wait to send a log entry to datadog
	BufferSize  int                          `toml:"bufferSize"`  // queued lines, older lines are dropped when full
}

// Log implements the logger config.
type Log struct {
	LogLevel string `toml:"logLevel"` // trace, debug, info, warn, error

	// EnableAccessLogToConsole writes the http access log to stdout as well.
	// Console.Enabled must be set too.
	EnableAccessLogToConsole bool `toml:"enableAccessLogToConsole"`
	ReportCaller             bool `toml:"reportCaller"`
	DisableCheckAlive        bool `toml:"disableCheckAlive"` // do not log /checkalive calls

	AppName     string `toml:"appName"`
	ServiceName string `toml:"serviceName"`

	// SlowQuery is the duration above which database queries are logged at warn level.
	SlowQuery time.Duration `toml:"slowQuery"`

	Console Console `toml:"console"`
	File    LogFile `toml:"file"`
	DataDog DataDog `toml:"datadog"`
}
