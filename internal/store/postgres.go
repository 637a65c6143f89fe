package store

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nhle/sadhana/internal/model"
)

// PgConnection is the subset of *pgxpool.Pool the store uses, so tests can
// substitute pgxmock.
type PgConnection interface {
	Ping(ctx context.Context) error
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

const (
	pgFetchQuery = `SELECT date, COALESCE(japa, '{}'), COALESCE(stotra, '{}'), COALESCE(is_exercise_done, false), COALESCE(is_ate_junkfood, false), COALESCE(is_ate_after_sunset, false) FROM sadhna_logs WHERE date = $1;`

	pgUpsertQuery = `INSERT INTO sadhna_logs (date, japa, stotra, is_exercise_done, is_ate_junkfood, is_ate_after_sunset) VALUES ($1, $2, $3, $4, $5, $6) ON CONFLICT (date) DO UPDATE SET japa = EXCLUDED.japa, stotra = EXCLUDED.stotra, is_exercise_done = EXCLUDED.is_exercise_done, is_ate_junkfood = EXCLUDED.is_ate_junkfood, is_ate_after_sunset = EXCLUDED.is_ate_after_sunset;`
)

// PostgresStore implements Store against a Postgres sadhna_logs table.
type PostgresStore struct {
	conn PgConnection
}

// PostgresConnString builds a connection URL from the config and password.
func PostgresConnString(cfg model.PostgresConfig, password string) string {
	u := url.URL{
		Scheme: "postgresql",
		User:   url.UserPassword(cfg.User, password),
		Host:   cfg.Address,
		Path:   "/" + cfg.Database,
	}
	if cfg.SSLMode != "" {
		u.RawQuery = url.Values{"sslmode": []string{cfg.SSLMode}}.Encode()
	}
	return u.String()
}

// NewPostgresStore opens a pgx pool and verifies it with a ping.
func NewPostgresStore(
	ctx context.Context,
	cfg model.PostgresConfig,
	password string,
) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, PostgresConnString(cfg, password))
	if err != nil {
		return nil, fmt.Errorf("creating postgres pool: %w", err)
	}
	return NewPostgresStoreWithConn(ctx, pool)
}

// NewPostgresStoreWithConn wraps an existing connection after pinging it.
func NewPostgresStoreWithConn(ctx context.Context, conn PgConnection) (*PostgresStore, error) {
	if err := conn.Ping(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}
	return &PostgresStore{conn: conn}, nil
}

// EnsureSchema creates the sadhna_logs table if it does not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.conn.Exec(ctx, postgresSchema); err != nil {
		return fmt.Errorf("creating %s table: %w", TableName, err)
	}
	return nil
}

// FetchByDate looks up the row for day. NULL arrays and flags read as false.
func (s *PostgresStore) FetchByDate(ctx context.Context, day model.Day) (model.SadhanaLog, error) {
	var (
		date                       time.Time
		japa, stotra               []bool
		exercise, junkFood, sunset bool
	)
	row := s.conn.QueryRow(ctx, pgFetchQuery, day.Time())
	err := row.Scan(&date, &japa, &stotra, &exercise, &junkFood, &sunset)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.SadhanaLog{}, ErrNotFound
		}
		return model.SadhanaLog{}, &Error{Op: "fetch", Day: day, Err: describePgError(err)}
	}

	return model.SadhanaLog{
		Date:           model.DayOf(date),
		Japa:           model.FlagsFrom(japa),
		Stotra:         model.FlagsFrom(stotra),
		ExerciseDone:   exercise,
		AteJunkFood:    junkFood,
		AteAfterSunset: sunset,
	}, nil
}

// UpsertByDate writes the whole record in one statement.
func (s *PostgresStore) UpsertByDate(ctx context.Context, log model.SadhanaLog) error {
	_, err := s.conn.Exec(
		ctx,
		pgUpsertQuery,
		log.Date.Time(),
		log.Japa.Slice(),
		log.Stotra.Slice(),
		log.ExerciseDone,
		log.AteJunkFood,
		log.AteAfterSunset,
	)
	if err != nil {
		return &Error{Op: "upsert", Day: log.Date, Err: describePgError(err)}
	}
	return nil
}

// Close closes the pool.
func (s *PostgresStore) Close() error {
	s.conn.Close()
	return nil
}

// describePgError turns well-known server errors into readable ones.
func describePgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		// Undefined table
		case "42P01":
			return fmt.Errorf("table %s does not exist (set store.postgres.ensure_schema): %w", TableName, err)
		// Insufficient privilege
		case "42501":
			return fmt.Errorf("permission denied on %s: %w", TableName, err)
		}
	}
	return err
}
