package database

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/picgc/internal/config"
)

// connectTimeout bounds the MySQL dial.
const connectTimeout = 10 * time.Second

// sqliteReadOnly makes every statement on the files database read-only.
const sqliteReadOnly = "?_pragma=query_only(1)"

// DataSource returns the database/sql driver name and DSN for cfg.
func DataSource(cfg config.DBConfig) (driverName, dsn string, err error) {
	switch cfg.Driver {
	case config.DriverMySQL, "":
		mc := mysql.NewConfig()
		mc.User = cfg.User
		mc.Passwd = cfg.Password
		mc.Net = "tcp"
		mc.Addr = net.JoinHostPort(cfg.Host, cfg.Port)
		mc.DBName = cfg.DBName
		mc.Timeout = connectTimeout
		return "mysql", mc.FormatDSN(), nil
	case config.DriverSQLite:
		return "sqlite", cfg.DBName + sqliteReadOnly, nil
	default:
		return "", "", fmt.Errorf("%w: %q", config.ErrUnsupportedDriver, cfg.Driver)
	}
}

// Connect opens the files database described by cfg and verifies the
// connection with a ping. The pool is limited to a single connection, which
// is held for the whole run.
func Connect(ctx context.Context, cfg config.DBConfig) (*sql.DB, error) {
	driverName, dsn, err := DataSource(cfg)
	if err != nil {
		return nil, err
	}

	// database/sql would silently create a new, empty SQLite file.
	if driverName == "sqlite" {
		if _, err := os.Stat(cfg.DBName); err != nil {
			return nil, fmt.Errorf("database not found at %s: %w", cfg.DBName, err)
		}
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("can't connect to database: %w", err)
	}

	return db, nil
}
