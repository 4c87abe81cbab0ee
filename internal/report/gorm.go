package report

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/opentelemetry/tracing"

	"github.com/bssrdf/boxtree/pkg/config"
	"github.com/bssrdf/boxtree/pkg/errors"
	"github.com/bssrdf/boxtree/pkg/telemetry"
)

// NewGormDB opens a GORM connection based on configuration.
// Supported types: sqlite (default), postgres, mysql.
func NewGormDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector

	switch cfg.Type {
	case "sqlite", "":
		dialector = sqlite.Open(cfg.Path)
	case "postgres", "postgresql":
		dsn := fmt.Sprintf(
			"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
			cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Database,
		)
		dialector = postgres.Open(dsn)
	case "mysql":
		dsn := fmt.Sprintf(
			"%s:%s@tcp(%s:%d)/%s?parseTime=true&loc=Local",
			cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Database,
		)
		dialector = mysql.Open(dsn)
	default:
		return nil, errors.Wrap(errors.CodeConfigError,
			fmt.Sprintf("unsupported database type: %s", cfg.Type), nil)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, errors.Wrap(errors.CodeDatabaseError, "failed to open database", err)
	}

	// Enable OpenTelemetry tracing if OTEL_ENABLED=true
	if telemetry.Enabled() {
		if err := db.Use(tracing.NewPlugin()); err != nil {
			return nil, errors.Wrap(errors.CodeDatabaseError, "failed to enable telemetry", err)
		}
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(errors.CodeDatabaseError, "failed to get underlying sql.DB", err)
	}

	maxConns := cfg.MaxConns
	if maxConns <= 0 {
		maxConns = 10
	}
	sqlDB.SetMaxOpenConns(maxConns)
	sqlDB.SetMaxIdleConns(maxConns / 2)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}

// GormRepository implements Repository using GORM.
type GormRepository struct {
	db *gorm.DB
}

// NewRepository creates a repository and migrates its schema.
func NewRepository(db *gorm.DB) (*GormRepository, error) {
	if err := db.AutoMigrate(&BuildReport{}, &ListReport{}); err != nil {
		return nil, errors.Wrap(errors.CodeDatabaseError, "failed to migrate schema", err)
	}
	return &GormRepository{db: db}, nil
}

// Open opens a database from configuration and returns a migrated repository.
func Open(cfg *config.DatabaseConfig) (*GormRepository, error) {
	db, err := NewGormDB(cfg)
	if err != nil {
		return nil, err
	}
	return NewRepository(db)
}

// Save stores a build report and its list records.
func (r *GormRepository) Save(ctx context.Context, report *BuildReport) error {
	if err := r.db.WithContext(ctx).Create(report).Error; err != nil {
		return errors.Wrap(errors.CodeDatabaseError, "failed to save build report", err)
	}
	return nil
}

// Get retrieves a build report by id, including its list records.
func (r *GormRepository) Get(ctx context.Context, id uint) (*BuildReport, error) {
	var report BuildReport
	err := r.db.WithContext(ctx).Preload("Lists").First(&report, id).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.Wrap(errors.CodeDatabaseError,
				fmt.Sprintf("build report %d not found", id), err)
		}
		return nil, errors.Wrap(errors.CodeDatabaseError, "failed to load build report", err)
	}
	return &report, nil
}

// List retrieves the most recent build reports, newest first.
func (r *GormRepository) List(ctx context.Context, limit int) ([]BuildReport, error) {
	if limit <= 0 {
		limit = 20
	}
	var reports []BuildReport
	err := r.db.WithContext(ctx).
		Preload("Lists").
		Order("created_at desc").
		Limit(limit).
		Find(&reports).Error
	if err != nil {
		return nil, errors.Wrap(errors.CodeDatabaseError, "failed to list build reports", err)
	}
	return reports, nil
}

// Close releases the underlying database connection.
func (r *GormRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
