// Package gorm routes gorm's logger through the global zerolog logger.
package gorm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/bobasettings/bobasettings/internal/logger"
)

// DefaultSlowQuery is used when logger.Log.SlowQuery is not set.
const DefaultSlowQuery = 200 * time.Millisecond

// Logger implements gormlogger.Interface.
type Logger struct {
	level     gormlogger.LogLevel
	slowQuery time.Duration
}

// New returns a Logger at warn level.
func New(cfg logger.Log) *Logger {
	slow := cfg.SlowQuery
	if slow <= 0 {
		slow = DefaultSlowQuery
	}

	return &Logger{level: gormlogger.Warn, slowQuery: slow}
}

// LogMode returns a copy logging at level.
func (l *Logger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	c := *l
	c.level = level

	return &c
}

// Info logs at debug level; gorm uses it for chatter.
func (l *Logger) Info(_ context.Context, msg string, args ...any) {
	if l.level >= gormlogger.Info {
		log.Debug().Str("component", "gorm").Msg(fmt.Sprintf(msg, args...))
	}
}

// Warn logs at warn level.
func (l *Logger) Warn(_ context.Context, msg string, args ...any) {
	if l.level >= gormlogger.Warn {
		log.Warn().Str("component", "gorm").Msg(fmt.Sprintf(msg, args...))
	}
}

// Error logs at error level.
func (l *Logger) Error(_ context.Context, msg string, args ...any) {
	if l.level >= gormlogger.Error {
		log.Error().Str("component", "gorm").Msg(fmt.Sprintf(msg, args...))
	}
}

// Trace logs failed queries, slow queries and, at info level, every query.
// Missing records are not failures.
func (l *Logger) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)

	switch {
	case err != nil && l.level >= gormlogger.Error && !errors.Is(err, gorm.ErrRecordNotFound):
		sql, rows := fc()
		log.Error().Err(err).Str("component", "gorm").Dur("elapsed", elapsed).Int64("rows", rows).
			Str("sql", sql).Msg("query failed")
	case elapsed > l.slowQuery && l.level >= gormlogger.Warn:
		sql, rows := fc()
		log.Warn().Str("component", "gorm").Dur("elapsed", elapsed).Int64("rows", rows).
			Str("sql", sql).Msg("slow query")
	case l.level >= gormlogger.Info:
		sql, rows := fc()
		log.Trace().Str("component", "gorm").Dur("elapsed", elapsed).Int64("rows", rows).
			Str("sql", sql).Msg("query")
	}
}
