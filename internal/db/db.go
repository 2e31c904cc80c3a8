// Package db opens the settings repository of the configured engine.
package db

import (
	"context"
	"os"
	"path/filepath"

	"github.com/glebarez/sqlite"
	"github.com/pkg/errors"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/bobasettings/bobasettings/internal/config"
	"github.com/bobasettings/bobasettings/internal/db/controller/setting"
	"github.com/bobasettings/bobasettings/internal/db/dsn"
	"github.com/bobasettings/bobasettings/internal/db/memory"
	"github.com/bobasettings/bobasettings/internal/db/redis"
	gormadapter "github.com/bobasettings/bobasettings/internal/logger/adapter/gorm"
)

// ErrConfigNil is returned by Open without a config.
var ErrConfigNil = errors.New("config is nil")

// Store is an opened settings repository.
type Store struct {
	Repository setting.Repository
	Engine     string

	close func() error
}

// Close releases the connection behind the repository.
func (s *Store) Close() error {
	if s == nil || s.close == nil {
		return nil
	}

	return s.close()
}

// Open connects to the engine named in cfg.DB.Engine and returns its repository.
// SQL engines are migrated before they are returned.
func Open(ctx context.Context, cfg *config.Config) (*Store, error) {
	if cfg == nil {
		return nil, ErrConfigNil
	}

	switch cfg.DB.Engine {
	case config.EngineMemory, "":
		log.Info().Msg("using in-memory settings store")

		return &Store{Repository: memory.New(), Engine: config.EngineMemory}, nil
	case config.EngineRedis:
		return openRedis(ctx, cfg)
	case config.EngineSQLite, config.EngineMySQL, config.EnginePostgres:
		return openSQL(ctx, cfg)
	default:
		return nil, errors.Wrap(config.ErrUnknownDBEngine, cfg.DB.Engine)
	}
}

// Dialector returns the gorm dialector of a SQL engine.
func Dialector(cfg *config.Config) (gorm.Dialector, error) {
	source, err := dsn.Create(cfg)
	if err != nil {
		return nil, err
	}

	switch cfg.DB.Engine {
	case config.EngineMySQL:
		return mysql.Open(source), nil
	case config.EnginePostgres:
		return postgres.Open(source), nil
	default:
		return sqlite.Open(source), nil
	}
}

func openSQL(ctx context.Context, cfg *config.Config) (*Store, error) {
	dialector, err := Dialector(cfg)
	if err != nil {
		return nil, err
	}

	if cfg.DB.Engine == config.EngineSQLite && dsn.SQLite(cfg.DB) != dsn.SQLiteMemory {
		if err = os.MkdirAll(filepath.Dir(cfg.DB.Path), 0o750); err != nil {
			return nil, errors.Wrap(err, "failed to create sqlite directory")
		}
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{Logger: gormadapter.New(cfg.Log)})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to connect %s database", cfg.DB.Engine)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get sql connection pool")
	}

	// every connection of an in-memory sqlite database sees its own schema
	if cfg.DB.Engine == config.EngineSQLite && dsn.SQLite(cfg.DB) == dsn.SQLiteMemory {
		sqlDB.SetMaxOpenConns(1)
	} else {
		if cfg.DB.MaxOpenConns > 0 {
			sqlDB.SetMaxOpenConns(cfg.DB.MaxOpenConns)
		}

		if cfg.DB.MaxIdleConns > 0 {
			sqlDB.SetMaxIdleConns(cfg.DB.MaxIdleConns)
		}
	}

	if err = setting.Migrate(gdb.WithContext(ctx)); err != nil {
		_ = sqlDB.Close()

		return nil, errors.Wrap(err, "failed to migrate database")
	}

	log.Info().Str("engine", cfg.DB.Engine).Msg("settings database ready")

	return &Store{
		Repository: setting.NewStore(gdb),
		Engine:     cfg.DB.Engine,
		close:      sqlDB.Close,
	}, nil
}

func openRedis(ctx context.Context, cfg *config.Config) (*Store, error) {
	if cfg.Redis.Addr == "" {
		return nil, config.ErrEmptyRedisAddr
	}

	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()

		return nil, errors.Wrapf(err, "failed to reach redis at %s", cfg.Redis.Addr)
	}

	log.Info().Str("addr", cfg.Redis.Addr).Msg("using redis settings store")

	return &Store{
		Repository: redis.New(client, cfg.Redis.Prefix),
		Engine:     config.EngineRedis,
		close:      client.Close,
	}, nil
}
