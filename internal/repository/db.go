// Package repository implements the document store contract on top of GORM.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	customerrors "github.com/yashkamboj/portfolio/internal/errors"
	"github.com/yashkamboj/portfolio/internal/models"
)

// Supported values of database.driver.
const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
	DriverNone   = "none"
)

// Open connects to the configured store. The sqlite driver takes a file name,
// the mysql driver a DSN. DriverNone returns customerrors.ErrDatabaseUnavailable
// so callers can run in degraded mode.
func Open(driver, name, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case DriverSQLite, "":
		dialector = sqlite.Open(name)
	case DriverMySQL:
		if dsn == "" {
			return nil, fmt.Errorf("mysql driver requires database.dsn: %w", customerrors.ErrDatabaseUnavailable)
		}
		dialector = mysql.Open(dsn)
	case DriverNone:
		return nil, customerrors.ErrDatabaseUnavailable
	default:
		return nil, fmt.Errorf("unknown database driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		// Timestamps are stored in UTC so range filters compare consistently on every driver.
		NowFunc: func() time.Time { return time.Now().UTC() },
		Logger:  logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// Migrate creates or updates the tables of the four entity collections.
func Migrate(db *gorm.DB) error {
	if db == nil {
		return customerrors.ErrDatabaseUnavailable
	}
	if err := db.AutoMigrate(&models.Contact{}, &models.Project{}, &models.BlogPost{}, &models.Visitor{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// conn binds the request context to the handle, or reports that no store is configured.
func conn(ctx context.Context, db *gorm.DB) (*gorm.DB, error) {
	if db == nil {
		return nil, customerrors.ErrDatabaseUnavailable
	}
	return db.WithContext(ctx), nil
}

// notFound translates gorm's sentinel into the application's.
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return customerrors.ErrNotFound
	}
	return err
}

// createdBetween restricts a query to records whose creation time falls in r.
func createdBetween(r models.DateRange) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if r.Start != nil {
			db = db.Where("created_at >= ?", r.Start.UTC())
		}
		if r.End != nil {
			db = db.Where("created_at <= ?", r.End.UTC())
		}
		return db
	}
}
