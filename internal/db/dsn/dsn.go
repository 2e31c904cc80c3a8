// Package dsn builds the data source names of the sql engines.
package dsn

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bobasettings/bobasettings/internal/config"
)

// SQLiteMemory is the sqlite path of a private in-memory database.
const SQLiteMemory = ":memory:"

// ErrNoDSN is returned for engines that do not connect through a DSN.
var ErrNoDSN = errors.New("db engine has no DSN")

// Create builds the Data Source Name of the configured engine.
func Create(cfg *config.Config) (string, error) {
	switch cfg.DB.Engine {
	case config.EngineMySQL:
		return MySQL(cfg.DB), nil
	case config.EnginePostgres:
		return Postgres(cfg.DB), nil
	case config.EngineSQLite:
		return SQLite(cfg.DB), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrNoDSN, cfg.DB.Engine)
	}
}

// MySQL returns user:password@tcp(host:port)/name?extras.
func MySQL(db config.DB) string {
	out := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s",
		db.User,
		db.Password,
		db.Host,
		db.Port,
		db.Name,
	)

	if db.Extras != "" {
		out += "?" + db.Extras
	}

	return out
}

// Postgres returns a keyword/value connection string. Extras are appended
// as given, e.g. "sslmode=disable TimeZone=UTC".
func Postgres(db config.DB) string {
	parts := []string{
		"host=" + db.Host,
		fmt.Sprintf("port=%d", db.Port),
		"user=" + db.User,
		"password=" + db.Password,
		"dbname=" + db.Name,
	}

	if db.Extras != "" {
		parts = append(parts, db.Extras)
	}

	return strings.Join(parts, " ")
}

// SQLite returns the database file, an in-memory database if none is set.
func SQLite(db config.DB) string {
	if db.Path == "" {
		return SQLiteMemory
	}

	return db.Path
}
