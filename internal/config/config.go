package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DriverSQLite = "sqlite3"
	DriverMySQL  = "mysql"
)

type Config struct {
	DB        DBConfig
	Server    ServerConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Auth      AuthConfig
	CacheTTLs CacheTTLConfig
	Logger    LoggerConfig
}

type DBConfig struct {
	Driver       string
	Path         string // sqlite only
	Host         string
	Port         int
	User         string
	Password     string
	DBName       string
	AutoMigrate  bool
	MaxOpenConns int
	MaxIdleConns int
}

type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	BodyLimit    int
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type JWTConfig struct {
	SecretKey       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

type AuthConfig struct {
	// DefaultPassword is issued to every account created by a teacher or an admin.
	DefaultPassword string
}

type CacheTTLConfig struct {
	Quiz string
}

type LoggerConfig struct {
	Env   string
	Level string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8090)
	v.SetDefault("server.read_timeout", 20)
	v.SetDefault("server.write_timeout", 20)
	v.SetDefault("server.idle_timeout", 20)
	v.SetDefault("server.body_limit", 10*1024*1024)
	v.SetDefault("db.driver", DriverSQLite)
	v.SetDefault("db.path", "classquiz.db")
	v.SetDefault("db.port", 3306)
	v.SetDefault("db.max_open_conns", 10)
	v.SetDefault("db.max_idle_conns", 5)
	v.SetDefault("jwt.access_token_ttl", "24h")
	v.SetDefault("jwt.refresh_token_ttl", "168h")
	v.SetDefault("auth.default_password", "changeme123")
	v.SetDefault("cache_ttls.quiz", "10m")
	v.SetDefault("logger.env", "development")
	v.SetDefault("logger.level", "info")
}

// LoadConfig reads config.yaml from the usual locations and applies APP_* environment overrides.
func LoadConfig() (*Config, error) {
	// .env is optional
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if os.Getenv("ENV") == "test" {
		v.AddConfigPath("../../configs")
		v.AddConfigPath("../../")
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
	}

	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if configFile := v.ConfigFileUsed(); configFile != "" {
		absPath, _ := filepath.Abs(configFile)
		fmt.Printf("Using config file: %s\n", absPath)
	}

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		DB: DBConfig{
			Driver:       strings.ToLower(v.GetString("db.driver")),
			Path:         v.GetString("db.path"),
			Host:         v.GetString("db.host"),
			Port:         v.GetInt("db.port"),
			User:         v.GetString("db.user"),
			Password:     v.GetString("db.password"),
			DBName:       v.GetString("db.name"),
			AutoMigrate:  v.GetBool("db.auto_migrate"),
			MaxOpenConns: v.GetInt("db.max_open_conns"),
			MaxIdleConns: v.GetInt("db.max_idle_conns"),
		},
		Server: ServerConfig{
			Port:         v.GetInt("server.port"),
			ReadTimeout:  time.Duration(v.GetInt("server.read_timeout")) * time.Second,
			WriteTimeout: time.Duration(v.GetInt("server.write_timeout")) * time.Second,
			IdleTimeout:  time.Duration(v.GetInt("server.idle_timeout")) * time.Second,
			BodyLimit:    v.GetInt("server.body_limit"),
		},
		Redis: RedisConfig{
			Address:  v.GetString("redis.address"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		JWT: JWTConfig{
			SecretKey:       v.GetString("jwt.secret_key"),
			AccessTokenTTL:  v.GetDuration("jwt.access_token_ttl"),
			RefreshTokenTTL: v.GetDuration("jwt.refresh_token_ttl"),
		},
		Auth: AuthConfig{
			DefaultPassword: v.GetString("auth.default_password"),
		},
		CacheTTLs: CacheTTLConfig{
			Quiz: v.GetString("cache_ttls.quiz"),
		},
		Logger: LoggerConfig{
			Env:   v.GetString("logger.env"),
			Level: v.GetString("logger.level"),
		},
	}

	if cfg.DB.Driver != DriverSQLite && cfg.DB.Driver != DriverMySQL {
		return nil, fmt.Errorf("unsupported db.driver %q (expected %s or %s)", cfg.DB.Driver, DriverSQLite, DriverMySQL)
	}
	if cfg.JWT.SecretKey == "" {
		return nil, errors.New("jwt.secret_key must be set (APP_JWT_SECRET_KEY)")
	}
	return cfg, nil
}

// GetDSN builds the data source name for the configured driver.
func (c *Config) GetDSN() string {
	if c.DB.Driver == DriverMySQL {
		mc := mysql.NewConfig()
		mc.User = c.DB.User
		mc.Passwd = c.DB.Password
		mc.Net = "tcp"
		mc.Addr = fmt.Sprintf("%s:%d", c.DB.Host, c.DB.Port)
		mc.DBName = c.DB.DBName
		mc.ParseTime = true
		mc.MultiStatements = true
		// RowsAffected must count matched rows, not changed rows.
		mc.ClientFoundRows = true
		mc.Loc = time.UTC
		return mc.FormatDSN()
	}
	return SQLiteDSN(c.DB.Path)
}

// SQLiteDSN returns a go-sqlite3 DSN for path with foreign keys enforced.
func SQLiteDSN(path string) string {
	return fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", path)
}

// ParseTTLStringOrDefault parses a duration such as "10m", falling back when empty or invalid.
func (c *Config) ParseTTLStringOrDefault(ttlString string, defaultTTL time.Duration) time.Duration {
	if ttlString == "" {
		return defaultTTL
	}
	d, err := time.ParseDuration(ttlString)
	if err != nil {
		return defaultTTL
	}
	return d
}
