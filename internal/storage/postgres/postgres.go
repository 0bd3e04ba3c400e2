package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
)

const uniqueViolation = "23505"

// DBTX is the subset of database/sql used by the queries. Both *sql.DB and
// *sql.Tx satisfy it.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Storage struct {
	db   DBTX
	sql  *sql.DB
	pool *pgxpool.Pool
}

func Config(dsn string, log *slog.Logger) (*pgxpool.Config, error) {
	const defaultMaxConns = int32(50)
	const defaultMinConns = int32(0)
	const defaultMaxConnLifetime = time.Hour
	const defaultMaxConnIdleTime = time.Minute * 30
	const defaultHealthCheckPeriod = time.Minute
	const defaultConnectTimeout = time.Second * 5

	dbConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}

	dbConfig.MaxConns = defaultMaxConns
	dbConfig.MinConns = defaultMinConns
	dbConfig.MaxConnLifetime = defaultMaxConnLifetime
	dbConfig.MaxConnIdleTime = defaultMaxConnIdleTime
	dbConfig.HealthCheckPeriod = defaultHealthCheckPeriod
	dbConfig.ConnConfig.ConnectTimeout = defaultConnectTimeout

	dbConfig.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		log.Debug("opened database connection", slog.Uint64("pid", uint64(conn.PgConn().PID())))
		return nil
	}

	dbConfig.BeforeClose = func(conn *pgx.Conn) {
		log.Debug("closed database connection", slog.Uint64("pid", uint64(conn.PgConn().PID())))
	}

	return dbConfig, nil
}

func New(ctx context.Context, dsn string, log *slog.Logger) (*Storage, error) {
	const op = "storage.postgres.New"

	cfg, err := Config(dsn, log)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	db := stdlib.OpenDBFromPool(pool)

	return &Storage{db: db, sql: db, pool: pool}, nil
}

func (s *Storage) Ping(ctx context.Context) error {
	if s.sql == nil {
		return nil
	}
	return s.sql.PingContext(ctx)
}

func (s *Storage) Close() error {
	var err error
	if s.sql != nil {
		err = s.sql.Close()
	}
	if s.pool != nil {
		s.pool.Close()
	}
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
