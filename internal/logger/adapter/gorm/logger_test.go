package gorm_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/bobasettings/bobasettings/internal/logger"
	adapter "github.com/bobasettings/bobasettings/internal/logger/adapter/gorm"
)

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()

	var buf bytes.Buffer

	previous, level := log.Logger, zerolog.GlobalLevel()
	log.Logger = zerolog.New(&buf)
	zerolog.SetGlobalLevel(zerolog.TraceLevel)

	t.Cleanup(func() {
		log.Logger = previous
		zerolog.SetGlobalLevel(level)
	})

	return &buf
}

func query() (string, int64) { return "SELECT * FROM settings", 2 }

func TestTrace(t *testing.T) {
	testCases := []struct {
		name     string
		level    gormlogger.LogLevel
		begin    time.Duration
		err      error
		expected string
	}{
		{name: "silent", level: gormlogger.Silent, err: errors.New("boom")},
		{name: "failure", level: gormlogger.Error, err: errors.New("boom"), expected: "query failed"},
		{name: "not found is no failure", level: gormlogger.Error, err: gorm.ErrRecordNotFound},
		{name: "slow", level: gormlogger.Warn, begin: time.Second, expected: "slow query"},
		{name: "slow below warn", level: gormlogger.Error, begin: time.Second},
		{name: "fast at warn", level: gormlogger.Warn},
		{name: "every query at info", level: gormlogger.Info, expected: `"message":"query"`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			buf := capture(t)

			l := adapter.New(logger.Log{}).LogMode(tc.level)
			l.Trace(context.Background(), time.Now().Add(-tc.begin), query, tc.err)

			if tc.expected == "" {
				assert.Empty(t, buf.String())
				return
			}

			assert.Contains(t, buf.String(), tc.expected)
			assert.Contains(t, buf.String(), "SELECT * FROM settings")
		})
	}
}

func TestMessages(t *testing.T) {
	buf := capture(t)
	ctx := context.Background()

	l := adapter.New(logger.Log{SlowQuery: time.Hour})
	l.Info(ctx, "hidden %d", 1)
	l.Warn(ctx, "warned %d", 2)
	l.Error(ctx, "failed %d", 3)

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "warned 2")
	assert.Contains(t, buf.String(), "failed 3")

	buf.Reset()
	l.LogMode(gormlogger.Info).Info(ctx, "shown %s", "now")
	assert.Contains(t, buf.String(), "shown now")

	buf.Reset()
	l.Trace(ctx, time.Now().Add(-time.Minute), query, nil)
	assert.Empty(t, buf.String(), "below the configured slow query threshold")
}
