// Package config handles input from etc/*.toml files
package config

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"slices"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

const (
	// DefaultPath is used when ReadConfig gets no path.
	DefaultPath = "./etc/"

	// MainFile is the file read below the config path.
	MainFile = "main.toml"

	// EnvJSON overrides the file content with a JSON document.
	EnvJSON = "BOBA_SETTINGS_CONFIG_JSON"

	defaultShutDownTime = 5
)

var engines = []string{EngineMemory, EngineSQLite, EngineMySQL, EnginePostgres, EngineRedis}

// ReadConfig from config file.
func ReadConfig(path string) (Config, error) {
	var c Config

	if path == "" {
		path = DefaultPath
	}

	if _, err := toml.DecodeFile(filepath.Join(path, MainFile), &c); err != nil {
		return Config{}, errors.Wrap(err, "failed to read main config file")
	}

	if JSONConfigEnv := os.Getenv(EnvJSON); JSONConfigEnv != "" {
		var err error
		if c, err = decodeAndMergeConfig(c, JSONConfigEnv); err != nil {
			return c, err
		}
	}

	return c, validate(&c)
}

func decodeAndMergeConfig(c Config, configAsJSON string) (Config, error) {
	if err := json.Unmarshal([]byte(configAsJSON), &c); err != nil {
		return Config{}, errors.Wrap(err, "failed to read config from env "+EnvJSON)
	}

	return c, nil
}

// DumpConfig config as TOML String.
func DumpConfig(c *Config) (string, error) {
	var buffer bytes.Buffer

	if err := toml.NewEncoder(&buffer).Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// DumpConfigJSON config as JSON String.
func DumpConfigJSON(c *Config) (string, error) {
	var buffer bytes.Buffer

	j := json.NewEncoder(&buffer)
	j.SetIndent("", "  ")

	if err := j.Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// validate checks the settings the daemon cannot start without and fills defaults.
func validate(c *Config) error {
	invalidErrMessage := "invalid config"

	if c.Webserver.Port == 0 {
		return errors.Wrap(ErrWebServerPortCanNotBeZero, invalidErrMessage)
	}

	if c.Webserver.URL == "" {
		return errors.Wrap(ErrEmptyURL, invalidErrMessage)
	}

	if c.Webserver.ShutDownTime == 0 {
		c.Webserver.ShutDownTime = defaultShutDownTime
	}

	if c.DB.Engine == "" {
		c.DB.Engine = EngineMemory
	}

	if !slices.Contains(engines, c.DB.Engine) {
		return errors.Wrapf(ErrUnknownDBEngine, "%s: %q", invalidErrMessage, c.DB.Engine)
	}

	if c.DB.Engine == EngineRedis && c.Redis.Addr == "" {
		return errors.Wrap(ErrEmptyRedisAddr, invalidErrMessage)
	}

	return nil
}
