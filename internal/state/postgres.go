package state

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// PostgresStore keeps one JSONB record per conversation.
type PostgresStore struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

// NewPostgresStore runs pending migrations and opens a connection pool.
func NewPostgresStore(ctx context.Context, dsn string, log *slog.Logger) (*PostgresStore, error) {
	if log == nil {
		log = slog.Default()
	}
	log = log.With(slog.String("component", "state"))

	if err := runMigrations(dsn); err != nil {
		return nil, fmt.Errorf("migrate conversation state: %w", err)
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	log.Info("postgres state store ready")
	return &PostgresStore{pool: pool, log: log}, nil
}

func runMigrations(dsn string) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return err
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return err
	}
	driver, err := migratepgx.WithInstance(db, &migratepgx.Config{})
	if err != nil {
		db.Close()
		return err
	}
	m, err := migrate.NewWithInstance("iofs", src, "docwise", driver)
	if err != nil {
		db.Close()
		return err
	}
	defer m.Close()
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, key string) (Record, error) {
	var rec Record
	err := s.pool.QueryRow(ctx,
		`SELECT record FROM conversation_state WHERE conversation_id = $1`, key).Scan(&rec)
	if errors.Is(err, pgx.ErrNoRows) {
		return Record{}, nil
	}
	if err != nil {
		return Record{}, fmt.Errorf("get conversation state: %w", err)
	}
	return rec, nil
}

func (s *PostgresStore) Put(ctx context.Context, key string, rec Record) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO conversation_state (conversation_id, record)
		 VALUES ($1, $2)
		 ON CONFLICT (conversation_id)
		 DO UPDATE SET record = EXCLUDED.record, updated_at = now()`,
		key, rec)
	if err != nil {
		return fmt.Errorf("put conversation state: %w", err)
	}
	return nil
}

func (s *PostgresStore) Close() {
	s.pool.Close()
}
