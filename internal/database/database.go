package database

import (
	"fmt"

	"classquiz/internal/config"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// NewSQLXDB opens and pings a database for the given driver ("sqlite3" or "mysql").
func NewSQLXDB(driver, dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s database: %w", driver, err)
	}

	// sqlite는 단일 writer. 커넥션을 하나로 고정해야 트랜잭션끼리 잠기지 않는다.
	if driver == config.DriverSQLite {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping %s database: %w", driver, err)
	}
	return db, nil
}

// Open connects using the database section of cfg and applies pool limits.
func Open(cfg *config.Config) (*sqlx.DB, error) {
	db, err := NewSQLXDB(cfg.DB.Driver, cfg.GetDSN())
	if err != nil {
		return nil, err
	}
	if cfg.DB.Driver == config.DriverMySQL {
		if cfg.DB.MaxOpenConns > 0 {
			db.SetMaxOpenConns(cfg.DB.MaxOpenConns)
		}
		if cfg.DB.MaxIdleConns > 0 {
			db.SetMaxIdleConns(cfg.DB.MaxIdleConns)
		}
	}
	return db, nil
}
