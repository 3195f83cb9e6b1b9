package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/nutrilog/backend/internal/domain"
	"go.uber.org/zap"
	sqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// connectionPragmas are applied by the driver to every connection it opens,
// so a replaced pool connection keeps foreign key enforcement.
const connectionPragmas = "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"

// Store is the SQLite-backed domain.FoodStore. It holds a single connection;
// callers are expected to use it from one writer at a time.
type Store struct {
	db     *sql.DB
	path   string
	logger *zap.Logger
}

var _ domain.FoodStore = (*Store)(nil)

// Open connects to the SQLite file at path, creating it if missing. The
// schema is not touched; call EnsureSchema before use.
func Open(ctx context.Context, path string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("store")

	db, err := sql.Open("sqlite", path+connectionPragmas)
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %v", domain.ErrStorageUnavailable, path, err)
	}
	// One connection keeps :memory: databases consistent and serializes writers.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: opening %s: %v", domain.ErrStorageUnavailable, path, err)
	}

	logger.Debug("Opened database", zap.String("path", path))
	return &Store{db: db, path: path, logger: logger}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// EnsureSchema creates every table that does not exist yet. Safe to call on
// every start.
func (s *Store) EnsureSchema(ctx context.Context) error {
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		for _, stmt := range schema {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: creating schema: %v", domain.ErrStorageUnavailable, err)
	}
	s.logger.Debug("Schema ready", zap.Int("tables", len(schema)))
	return nil
}

// withTx runs fn inside a transaction, committing on success.
func (s *Store) withTx(ctx context.Context, fn func(*sql.Tx) error) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
		if err != nil {
			tx.Rollback()
			return
		}
		err = tx.Commit()
	}()
	return fn(tx)
}

// classify maps SQLite constraint failures onto domain errors. duplicate is
// the error reported for a UNIQUE violation on the statement's table.
func classify(err error, duplicate error) error {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT {
		switch {
		case sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE,
			strings.Contains(sqliteErr.Error(), "UNIQUE constraint failed"):
			return fmt.Errorf("%w: %v", duplicate, err)
		case sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY,
			strings.Contains(sqliteErr.Error(), "FOREIGN KEY constraint failed"):
			return fmt.Errorf("%w: %v", domain.ErrForeignKeyViolation, err)
		}
	}
	return fmt.Errorf("%w: %v", domain.ErrStorage, err)
}
