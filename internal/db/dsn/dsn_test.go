package dsn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobasettings/bobasettings/internal/config"
)

func TestCreate(t *testing.T) {
	db := config.DB{
		Host:     "db.local",
		Port:     3306,
		User:     "boba",
		Password: "secret",
		Name:     "settings",
	}

	testCases := []struct {
		name          string
		engine        string
		extras        string
		path          string
		expected      string
		expectedError error
	}{
		{
			name:     "mysql",
			engine:   config.EngineMySQL,
			extras:   "parseTime=True",
			expected: "boba:secret@tcp(db.local:3306)/settings?parseTime=True",
		},
		{
			name:     "mysql without extras",
			engine:   config.EngineMySQL,
			expected: "boba:secret@tcp(db.local:3306)/settings",
		},
		{
			name:     "postgres",
			engine:   config.EnginePostgres,
			extras:   "sslmode=disable",
			expected: "host=db.local port=3306 user=boba password=secret dbname=settings sslmode=disable",
		},
		{
			name:     "sqlite file",
			engine:   config.EngineSQLite,
			path:     "/var/lib/boba.db",
			expected: "/var/lib/boba.db",
		},
		{
			name:     "sqlite default",
			engine:   config.EngineSQLite,
			expected: SQLiteMemory,
		},
		{
			name:          "memory",
			engine:        config.EngineMemory,
			expectedError: ErrNoDSN,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := &config.Config{DB: db}
			cfg.DB.Engine = tc.engine
			cfg.DB.Extras = tc.extras
			cfg.DB.Path = tc.path

			out, err := Create(cfg)
			if tc.expectedError != nil {
				require.ErrorIs(t, err, tc.expectedError)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.expected, out)
		})
	}
}
