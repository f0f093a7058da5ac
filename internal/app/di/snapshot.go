package di

import (
	"log/slog"

	"gorm.io/gorm"

	"fintools/internal/app/config"
	"fintools/internal/feature/snapshot/adapters"
	"fintools/internal/feature/snapshot/domain/entity"
	"fintools/internal/feature/snapshot/usecase"
	"fintools/internal/platform/db"
	"fintools/internal/shared/timestamp"
)

// OpenIndexDB opens the snapshot index database, or returns nil when the index is disabled.
func OpenIndexDB(cfg *config.Config) (*gorm.DB, error) {
	if !cfg.IndexEnabled() {
		return nil, nil
	}
	return db.OpenDB(db.Config{
		DatabaseURL: cfg.DatabaseURL,
		SQLitePath:  cfg.SQLitePath,
	}, &adapters.SnapshotModel{})
}

// NewCatalog creates the snapshot catalog. A nil gdb falls back to scanning the output directories.
func NewCatalog(cfg *config.Config, gdb *gorm.DB, logger *slog.Logger) *usecase.Catalog {
	var index usecase.SnapshotIndex
	if gdb != nil {
		index = adapters.NewSnapshotRepository(gdb)
	}
	return usecase.NewCatalog(index, cfg.OutputDir, stocklistNaming(cfg), cfg.DiffDir, diffNaming(cfg), logger)
}

// NewExporter creates the stocklist exporter.
func NewExporter(cfg *config.Config, resolver usecase.Resolver, catalog *usecase.Catalog, logger *slog.Logger) *usecase.ExportUsecase {
	return usecase.NewExportUsecase(resolver, catalog, cfg.OutputDir, stocklistNaming(cfg), timestamp.Now, logger)
}

// NewComparer creates the snapshot differ.
func NewComparer(cfg *config.Config, catalog *usecase.Catalog, logger *slog.Logger) *usecase.CompareUsecase {
	return usecase.NewCompareUsecase(catalog, stocklistNaming(cfg), diffNaming(cfg), cfg.DiffDir, timestamp.Now, logger)
}

func stocklistNaming(cfg *config.Config) entity.Naming {
	return entity.Naming{Prefix: cfg.StocklistPrefix, Suffix: cfg.Suffix}
}

func diffNaming(cfg *config.Config) entity.Naming {
	return entity.Naming{Prefix: cfg.DiffPrefix, Suffix: cfg.Suffix}
}
