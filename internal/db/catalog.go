package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/scholargraph/scholargraph-backend/internal/platform/envutil"
	"github.com/scholargraph/scholargraph-backend/internal/platform/logger"
	"github.com/scholargraph/scholargraph-backend/internal/types"
)

// CatalogService owns the relational paper catalog: the flat listing of
// ingested documents the graph store does not own but must stay id-consistent
// with.
type CatalogService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCatalogService(log *logger.Logger) (*CatalogService, error) {
	serviceLog := log.With("service", "CatalogService")

	driver := envutil.Str("CATALOG_DRIVER", "postgres")

	var (
		database *gorm.DB
		err      error
	)
	switch driver {
	case "sqlite":
		path := envutil.Str("CATALOG_SQLITE_PATH", "./data/catalog.db")
		database, err = gorm.Open(sqlite.Open(path), &gorm.Config{})
		if err != nil {
			return nil, fmt.Errorf("catalog: open sqlite %s: %w", path, err)
		}
	case "postgres":
		host := envutil.Str("POSTGRES_HOST", "localhost")
		port := envutil.Str("POSTGRES_PORT", "5432")
		user := envutil.Str("POSTGRES_USER", "postgres")
		password := envutil.Str("POSTGRES_PASSWORD", "")
		name := envutil.Str("POSTGRES_NAME", "scholargraph")
		dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", user, password, host, port, name)
		database, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if err != nil {
			return nil, fmt.Errorf("catalog: connect postgres: %w", err)
		}
	default:
		return nil, fmt.Errorf("catalog: unknown driver %q", driver)
	}

	serviceLog.Info("catalog connected", "driver", driver)
	return &CatalogService{db: database, log: serviceLog}, nil
}

func (s *CatalogService) AutoMigrateAll() error {
	s.log.Info("migrating catalog tables")
	if err := s.db.AutoMigrate(&types.Paper{}); err != nil {
		s.log.Error("catalog migration failed", "error", err)
		return err
	}
	return nil
}

func (s *CatalogService) DB() *gorm.DB { return s.db }

func (s *CatalogService) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
