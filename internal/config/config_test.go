package config

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_DefaultsAndEnv(t *testing.T) {
	t.Setenv("APP_JWT_SECRET_KEY", "test-secret")
	t.Setenv("APP_SERVER_PORT", "9000")
	t.Setenv("APP_DB_PATH", "/tmp/quiz.db")
	t.Setenv("APP_REDIS_ADDRESS", "localhost:6379")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, 20*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, DriverSQLite, cfg.DB.Driver)
	assert.Equal(t, "/tmp/quiz.db", cfg.DB.Path)
	assert.Equal(t, "localhost:6379", cfg.Redis.Address)
	assert.Equal(t, "test-secret", cfg.JWT.SecretKey)
	assert.Equal(t, 24*time.Hour, cfg.JWT.AccessTokenTTL)
	assert.Equal(t, 168*time.Hour, cfg.JWT.RefreshTokenTTL)
	assert.Equal(t, "changeme123", cfg.Auth.DefaultPassword)
	assert.Equal(t, "info", cfg.Logger.Level)
}

func newViper(values map[string]interface{}) *viper.Viper {
	v := viper.New()
	setDefaults(v)
	for k, val := range values {
		v.Set(k, val)
	}
	return v
}

func TestFromViper_Errors(t *testing.T) {
	_, err := fromViper(newViper(nil))
	assert.ErrorContains(t, err, "jwt.secret_key must be set")

	_, err = fromViper(newViper(map[string]interface{}{"jwt.secret_key": "s", "db.driver": "oracle"}))
	assert.ErrorContains(t, err, "unsupported db.driver")

	cfg, err := fromViper(newViper(map[string]interface{}{"jwt.secret_key": "s", "db.driver": "MySQL"}))
	require.NoError(t, err)
	assert.Equal(t, DriverMySQL, cfg.DB.Driver)
}

func TestGetDSN(t *testing.T) {
	cfg, err := fromViper(newViper(map[string]interface{}{
		"jwt.secret_key": "s",
		"db.driver":      "mysql",
		"db.host":        "db",
		"db.user":        "quiz",
		"db.password":    "pw",
		"db.name":        "classquiz",
	}))
	require.NoError(t, err)

	dsn := cfg.GetDSN()
	assert.True(t, strings.HasPrefix(dsn, "quiz:pw@tcp(db:3306)/classquiz?"), dsn)
	assert.Contains(t, dsn, "parseTime=true")
	assert.Contains(t, dsn, "clientFoundRows=true")
	assert.Contains(t, dsn, "multiStatements=true")

	cfg.DB.Driver = DriverSQLite
	cfg.DB.Path = "quiz.db"
	assert.Equal(t, "file:quiz.db?_foreign_keys=on&_busy_timeout=5000", cfg.GetDSN())
}

func TestParseTTLStringOrDefault(t *testing.T) {
	cfg := &Config{}
	assert.Equal(t, 5*time.Minute, cfg.ParseTTLStringOrDefault("5m", time.Hour))
	assert.Equal(t, time.Hour, cfg.ParseTTLStringOrDefault("", time.Hour))
	assert.Equal(t, time.Hour, cfg.ParseTTLStringOrDefault("soon", time.Hour))
}
