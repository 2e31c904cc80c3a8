package config

// Supported DB engines.
const (
	EngineMemory   = "memory"
	EngineSQLite   = "sqlite"
	EngineMySQL    = "mysql"
	EnginePostgres = "postgres"
	EngineRedis    = "redis"
)

// DB holds the settings store configuration.
type DB struct {
	Engine   string // memory, sqlite, mysql, postgres or redis
	Extras   string // appended to mysql and postgres DSNs
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	Path     string // sqlite database file, ":memory:" allowed

	MaxOpenConns int
	MaxIdleConns int
}

// Redis holds the redis connection used by the redis engine.
type Redis struct {
	Addr     string
	Password string
	DB       int
	Prefix   string // key prefix, defaults to bobasettings
}

// Seed configures the settings imported at start.
type Seed struct {
	File      string // YAML seed file, empty disables seeding
	Overwrite bool   // replace stored values instead of importing missing keys only
}
