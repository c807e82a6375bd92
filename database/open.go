package database

import (
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/rpupo63/portfolio-backend/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/dbresolver"
)

const (
	TypePostgres = "postgres"
	TypeSupabase = "supa"
	TypeSQLite   = "sqlite"

	maxOpenConns    = 20
	maxIdleConns    = 5
	connMaxLifetime = 30 * time.Minute
)

// Open connects to the configured store. Reads are spread over ReplicaURLs when any are set.
func Open(cfg config.DatabaseConfig, gormLogger logger.Interface) (*gorm.DB, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("database url is empty for DB_TYPE %q", cfg.Type)
	}

	primary, err := dialector(cfg.Type, cfg.URL)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(primary, &gorm.Config{
		PrepareStmt:    false,
		Logger:         gormLogger,
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to %s database: %w", cfg.Type, err)
	}

	if len(cfg.ReplicaURLs) > 0 {
		replicas := make([]gorm.Dialector, 0, len(cfg.ReplicaURLs))
		for _, url := range cfg.ReplicaURLs {
			replica, err := dialector(cfg.Type, url)
			if err != nil {
				return nil, err
			}
			replicas = append(replicas, replica)
		}
		resolver := dbresolver.Register(dbresolver.Config{
			Replicas: replicas,
			Policy:   dbresolver.RandomPolicy{},
		}).
			SetMaxOpenConns(maxOpenConns).
			SetMaxIdleConns(maxIdleConns).
			SetConnMaxLifetime(connMaxLifetime)
		if err := db.Use(resolver); err != nil {
			return nil, fmt.Errorf("register read replicas: %w", err)
		}
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if cfg.Type == TypeSQLite {
		// SQLite allows a single writer.
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(maxOpenConns)
		sqlDB.SetMaxIdleConns(maxIdleConns)
		sqlDB.SetConnMaxLifetime(connMaxLifetime)
	}

	var result int
	if err := db.Raw("SELECT 1").Scan(&result).Error; err != nil {
		return nil, fmt.Errorf("test database connection: %w", err)
	}

	return db, nil
}

func dialector(kind, dsn string) (gorm.Dialector, error) {
	switch kind {
	case TypePostgres, TypeSupabase:
		return postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), nil
	case TypeSQLite:
		return sqlite.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported DB_TYPE %q", kind)
	}
}

type gormWriter struct {
	logger zerolog.Logger
}

func (w gormWriter) Printf(format string, args ...any) {
	w.logger.Warn().Msgf(format, args...)
}

// NewGormLogger routes slow queries and errors through zerolog.
func NewGormLogger(level logger.LogLevel) logger.Interface {
	return logger.New(
		gormWriter{logger: log.With().Str("component", "gorm").Logger()},
		logger.Config{
			SlowThreshold:             2 * time.Second,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}
