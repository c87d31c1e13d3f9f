// Package sqlstore keeps the herd records in a relational database through bun.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"
	"go.uber.org/zap"
	_ "modernc.org/sqlite" // pure go sqlite driver

	"github.com/mamadbah2/herdbook/internal/config"
	"github.com/mamadbah2/herdbook/internal/domain/models"
)

// Store owns the pooled database handle shared by every repository.
type Store struct {
	db     *bun.DB
	driver string
	logger *zap.Logger
}

// Open connects to the configured database and verifies the connection.
func Open(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var db *bun.DB
	switch cfg.Driver {
	case config.DriverPostgres:
		sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.DSN())))
		sqldb.SetMaxOpenConns(cfg.MaxOpenConns)
		sqldb.SetMaxIdleConns(cfg.MaxIdleConns)
		sqldb.SetConnMaxLifetime(cfg.ConnMaxLifetime)
		db = bun.NewDB(sqldb, pgdialect.New())
	case config.DriverSQLite:
		sqldb, err := sql.Open("sqlite", sqliteDSN(cfg.Path))
		if err != nil {
			return nil, fmt.Errorf("open sqlite %s: %w", cfg.Path, err)
		}
		// One connection keeps an in-memory database alive and serializes writers.
		sqldb.SetMaxOpenConns(1)
		sqldb.SetMaxIdleConns(1)
		sqldb.SetConnMaxLifetime(0)
		sqldb.SetConnMaxIdleTime(0)
		db = bun.NewDB(sqldb, sqlitedialect.New())
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	if logger.Core().Enabled(zap.DebugLevel) {
		db.AddQueryHook(bundebug.NewQueryHook(
			bundebug.WithVerbose(true),
			bundebug.FromEnv("BUNDEBUG"),
		))
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s database: %w", cfg.Driver, err)
	}

	logger.Info("database connected", zap.String("driver", cfg.Driver))
	return &Store{db: db, driver: cfg.Driver, logger: logger}, nil
}

func sqliteDSN(path string) string {
	if path == ":memory:" {
		return "file::memory:?_pragma=foreign_keys(1)"
	}
	return fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", path)
}

// DB returns the underlying bun handle.
func (s *Store) DB() *bun.DB {
	return s.db
}

// Ping checks that the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close releases the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// Cattle returns the cattle repository.
func (s *Store) Cattle() *CattleRepository {
	return NewCattleRepository(s.db)
}

// Breeds returns the breed repository.
func (s *Store) Breeds() *BreedRepository {
	return NewBreedRepository(s.db)
}

// Lots returns the lot repository.
func (s *Store) Lots() *LotRepository {
	return NewLotRepository(s.db)
}

// Products returns the product repository.
func (s *Store) Products() *ProductRepository {
	return NewProductRepository(s.db)
}

// Reports returns the report repository.
func (s *Store) Reports() *ReportRepository {
	return NewReportRepository(s.db)
}

type table struct {
	resource string
	model    any
}

// tables are listed in foreign key order.
var tables = []table{
	{resource: "Breed", model: (*models.Breed)(nil)},
	{resource: "Lots", model: (*models.Lot)(nil)},
	{resource: "Cattle", model: (*models.Cattle)(nil)},
	{resource: "Products", model: (*models.Product)(nil)},
}

type uniqueIndex struct {
	name   string
	model  any
	column string
}

var uniqueIndexes = []uniqueIndex{
	{name: "breeds_name_active_uidx", model: (*models.Breed)(nil), column: "name"},
	{name: "lots_name_active_uidx", model: (*models.Lot)(nil), column: "name"},
	{name: "cattle_number_active_uidx", model: (*models.Cattle)(nil), column: "number"},
}

// Sync creates missing tables and indexes. A failing table does not stop the
// others; every failure is logged and returned joined.
func (s *Store) Sync(ctx context.Context) error {
	var errs []error
	for _, t := range tables {
		_, err := s.db.NewCreateTable().
			Model(t.model).
			IfNotExists().
			WithForeignKeys().
			Exec(ctx)
		if err != nil {
			s.logger.Error("table sync failed", zap.String("resource", t.resource), zap.Error(err))
			errs = append(errs, fmt.Errorf("sync %s table: %w", t.resource, err))
			continue
		}
		s.logger.Debug("table synced", zap.String("resource", t.resource))
	}

	for _, idx := range uniqueIndexes {
		_, err := s.db.NewCreateIndex().
			Model(idx.model).
			Unique().
			IfNotExists().
			Index(idx.name).
			Column(idx.column).
			Where("is_delete = false").
			Exec(ctx)
		if err != nil {
			s.logger.Error("index sync failed", zap.String("index", idx.name), zap.Error(err))
			errs = append(errs, fmt.Errorf("sync index %s: %w", idx.name, err))
		}
	}

	return errors.Join(errs...)
}

// ReferenceBreeds are seeded as non-editable rows.
var ReferenceBreeds = []models.Breed{
	{Name: "Holstein", Origin: "Netherlands", Production: "milk", Code: "HO"},
	{Name: "Jersey", Origin: "Jersey Island", Production: "milk", Code: "JE"},
	{Name: "Brown Swiss", Origin: "Switzerland", Production: "dual purpose", Code: "BS"},
	{Name: "Angus", Origin: "Scotland", Production: "beef", Code: "AN"},
	{Name: "Hereford", Origin: "England", Production: "beef", Code: "HE"},
	{Name: "Brahman", Origin: "United States", Production: "beef", Code: "BR"},
	{Name: "Gyr", Origin: "India", Production: "milk", Code: "GY"},
	{Name: "Normande", Origin: "France", Production: "dual purpose", Code: "NO"},
}

// SeedBreeds inserts the reference breeds that are not present yet and returns
// how many rows were added.
func (s *Store) SeedBreeds(ctx context.Context) (int, error) {
	inserted := 0
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		now := time.Now().UTC()
		for _, ref := range ReferenceBreeds {
			exists, err := activeKeyExists[models.Breed](ctx, tx, "name", ref.Name, 0)
			if err != nil {
				return err
			}
			if exists {
				continue
			}
			row := ref
			row.IsEditable = false
			row.Register = "System"
			row.Touch(now)
			if _, err := tx.NewInsert().Model(&row).Exec(ctx); err != nil {
				return fmt.Errorf("seed breed %s: %w", ref.Name, err)
			}
			inserted++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	if inserted > 0 {
		s.logger.Info("reference breeds seeded", zap.Int("inserted", inserted))
	}
	return inserted, nil
}
