package sqlconnect

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"time"

	"expense_tracker/internal/config"

	"github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

type Dialect string

const (
	MySQL    Dialect = "mysql"
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
)

// DriverName is the database/sql driver registered for the dialect.
func (d Dialect) DriverName() string {
	switch d {
	case Postgres:
		return "pgx"
	case SQLite:
		return "sqlite"
	default:
		return "mysql"
	}
}

// DSN builds the connection string for cfg.DBDriver. multiStatements is
// only honoured by MySQL and is needed to run migration files.
func DSN(cfg *config.Config, multiStatements bool) string {
	switch Dialect(cfg.DBDriver) {
	case Postgres:
		u := url.URL{
			Scheme:   "postgres",
			User:     url.UserPassword(cfg.DBUser, cfg.DBPassword),
			Host:     cfg.DBHost + ":" + cfg.DBPort,
			Path:     cfg.DBName,
			RawQuery: "sslmode=disable&timezone=UTC",
		}
		return u.String()
	case SQLite:
		return SQLiteDSN(cfg.SQLiteDBPath)
	default:
		mc := mysql.NewConfig()
		mc.User = cfg.DBUser
		mc.Passwd = cfg.DBPassword
		mc.Net = "tcp"
		mc.Addr = cfg.DBHost + ":" + cfg.DBPort
		mc.DBName = cfg.DBName
		mc.ParseTime = true
		mc.Loc = time.UTC
		mc.MultiStatements = multiStatements
		return mc.FormatDSN()
	}
}

func SQLiteDSN(path string) string {
	return "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)&_time_format=sqlite"
}

// ConnectDb opens and pings the configured database.
func ConnectDb(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*sql.DB, Dialect, error) {
	dialect := Dialect(cfg.DBDriver)

	logger.WithField("driver", dialect).Info("Connecting to database...")

	db, err := sql.Open(dialect.DriverName(), DSN(cfg, false))
	if err != nil {
		return nil, "", fmt.Errorf("failed to open DB connection: %w", err)
	}

	if dialect == SQLite {
		// one writer at a time; concurrent writers would get SQLITE_BUSY
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(30 * time.Minute)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err = db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, "", fmt.Errorf("failed to ping DB: %w", err)
	}

	logger.WithField("driver", dialect).Info("Connected to database")
	return db, dialect, nil
}
