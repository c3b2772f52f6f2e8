package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	corenumerator "essenceflow/internal/core/numerator"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "essenceflow", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, int32(25), cfg.Database.MaxConns)
	assert.Equal(t, 30*time.Second, cfg.Database.StatementTimeout)
	assert.Equal(t, 12*time.Hour, cfg.JWT.AccessTokenTTL)
	assert.True(t, cfg.HTTP.GzipEnabled)
	assert.Equal(t, "0.4", cfg.Dashboard.COGSRatio.String())
	assert.Equal(t, 5, cfg.Dashboard.AlertLimit)
	assert.Equal(t, 3, cfg.Dashboard.ExpiryWindowMonths)
	assert.Equal(t, "strict", cfg.Numbering.Strategy)
	assert.Equal(t, "admin@essenceflow.local", cfg.Admin.Email)
	assert.Empty(t, cfg.Admin.Password)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("EF_APP_PORT", "9090")
	t.Setenv("EF_DATABASE_DRIVER", "MEMORY")
	t.Setenv("EF_DATABASE_MAX_CONNS", "40")
	t.Setenv("EF_JWT_ACCESS_TOKEN_TTL", "2h")
	t.Setenv("EF_DASHBOARD_COGS_RATIO", "0.35")
	t.Setenv("EF_NUMBERING_STRATEGY", "cached")
	t.Setenv("EF_NUMBERING_RANGE_SIZE", "20")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, DriverMemory, cfg.Database.Driver)
	assert.Equal(t, int32(40), cfg.Database.MaxConns)
	assert.Equal(t, 2*time.Hour, cfg.JWT.AccessTokenTTL)
	assert.Equal(t, "0.35", cfg.Dashboard.COGSRatio.String())

	opts := cfg.NumeratorOptions()
	assert.Equal(t, corenumerator.StrategyCached, opts.Strategy)
	assert.Equal(t, int64(20), opts.RangeSize)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[app]
name = "essenceflow-test"
port = "7000"

[http]
cors_allow_origins = ["https://shop.example", "https://admin.example"]

[dashboard]
cogs_ratio = 0.25
alert_limit = 10
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "essenceflow-test", cfg.App.Name)
	assert.Equal(t, "7000", cfg.App.Port)
	assert.Equal(t, []string{"https://shop.example", "https://admin.example"}, cfg.HTTP.CORSAllowOrigins)
	assert.Equal(t, "0.25", cfg.Dashboard.COGSRatio.String())
	assert.Equal(t, 10, cfg.Dashboard.AlertLimit)

	t.Setenv("EF_APP_PORT", "7001")
	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, "7001", cfg.App.Port, "env beats file")
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "unknown driver",
			env:     map[string]string{"EF_DATABASE_DRIVER": "mongo"},
			wantErr: "database.driver",
		},
		{
			name:    "postgres without url",
			env:     map[string]string{"EF_DATABASE_URL": " "},
			wantErr: "database.url",
		},
		{
			name:    "cogs ratio above one",
			env:     map[string]string{"EF_DASHBOARD_COGS_RATIO": "1.5"},
			wantErr: "cogs_ratio",
		},
		{
			name:    "cogs ratio not a number",
			env:     map[string]string{"EF_DASHBOARD_COGS_RATIO": "forty"},
			wantErr: "cogs_ratio",
		},
		{
			name:    "unknown numbering strategy",
			env:     map[string]string{"EF_NUMBERING_STRATEGY": "random"},
			wantErr: "numbering.strategy",
		},
		{
			name:    "production with dev secret",
			env:     map[string]string{"EF_APP_ENV": "production"},
			wantErr: "jwt.secret",
		},
		{
			name: "production with memory driver",
			env: map[string]string{
				"EF_APP_ENV":         "production",
				"EF_JWT_SECRET":      "0123456789abcdef0123456789abcdef",
				"EF_DATABASE_DRIVER": "memory",
			},
			wantErr: "not allowed in production",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfig_Mappings(t *testing.T) {
	t.Setenv("EF_JWT_SECRET", "s3cret")
	t.Setenv("EF_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	pool := cfg.PoolConfig()
	assert.Equal(t, cfg.Database.URL, pool.DSN)
	assert.Equal(t, "essenceflow", pool.AppName)
	assert.Equal(t, int32(25), pool.MaxConns)

	jwt := cfg.AuthJWTConfig()
	assert.Equal(t, "s3cret", jwt.Secret)
	assert.Equal(t, 12*time.Hour, jwt.AccessTokenTTL)

	assert.Equal(t, "debug", cfg.LoggerConfig().Level)
	assert.Equal(t, 5, cfg.DashboardSettings().AlertLimit)
	assert.Equal(t, corenumerator.StrategyStrict, cfg.NumeratorOptions().Strategy)
}
