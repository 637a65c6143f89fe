package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/nhle/sadhana/internal/model"
)

// SQLiteStore implements Store with a local SQLite database. It is the
// default backend and needs no network.
type SQLiteStore struct {
	db *sqlx.DB
}

// sqliteRow mirrors a sadhna_logs row; the flag arrays are JSON text.
type sqliteRow struct {
	Date           string `db:"date"`
	Japa           string `db:"japa"`
	Stotra         string `db:"stotra"`
	ExerciseDone   bool   `db:"is_exercise_done"`
	AteJunkFood    bool   `db:"is_ate_junkfood"`
	AteAfterSunset bool   `db:"is_ate_after_sunset"`
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath,
// enables WAL mode, and runs any pending schema migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// A single connection keeps ":memory:" databases shared and serializes
	// writers, which is all a one-screen app needs.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (s *SQLiteStore) runMigrations() error {
	currentVersion := 0

	var tableCount int
	err := s.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

// FetchByDate retrieves the log for day.
func (s *SQLiteStore) FetchByDate(
	ctx context.Context,
	day model.Day,
) (model.SadhanaLog, error) {
	var row sqliteRow
	err := s.db.GetContext(ctx, &row, `
		SELECT date, japa, stotra, is_exercise_done, is_ate_junkfood, is_ate_after_sunset
		FROM sadhna_logs WHERE date = ?`, day.String())
	if errors.Is(err, sql.ErrNoRows) {
		return model.SadhanaLog{}, ErrNotFound
	}
	if err != nil {
		return model.SadhanaLog{}, &Error{Op: "fetch", Day: day, Err: err}
	}

	log, err := row.toLog()
	if err != nil {
		return model.SadhanaLog{}, &Error{Op: "fetch", Day: day, Err: err}
	}
	return log, nil
}

// UpsertByDate inserts the log or replaces the row with the same date,
// keeping the existing row id.
func (s *SQLiteStore) UpsertByDate(ctx context.Context, log model.SadhanaLog) error {
	japa, err := json.Marshal(log.Japa)
	if err != nil {
		return fmt.Errorf("marshaling japa: %w", err)
	}
	stotra, err := json.Marshal(log.Stotra)
	if err != nil {
		return fmt.Errorf("marshaling stotra: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO sadhna_logs (
			id, date, japa, stotra,
			is_exercise_done, is_ate_junkfood, is_ate_after_sunset,
			updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(date) DO UPDATE SET
			japa = excluded.japa,
			stotra = excluded.stotra,
			is_exercise_done = excluded.is_exercise_done,
			is_ate_junkfood = excluded.is_ate_junkfood,
			is_ate_after_sunset = excluded.is_ate_after_sunset,
			updated_at = excluded.updated_at`,
		uuid.New().String(), log.Date.String(), string(japa), string(stotra),
		boolToInt(log.ExerciseDone), boolToInt(log.AteJunkFood), boolToInt(log.AteAfterSunset),
		time.Now().UTC(),
	)
	if err != nil {
		return &Error{Op: "upsert", Day: log.Date, Err: err}
	}
	return nil
}

func (r sqliteRow) toLog() (model.SadhanaLog, error) {
	day, err := model.ParseDay(r.Date)
	if err != nil {
		return model.SadhanaLog{}, err
	}

	var japa, stotra []bool
	if r.Japa != "" {
		if err := json.Unmarshal([]byte(r.Japa), &japa); err != nil {
			return model.SadhanaLog{}, fmt.Errorf("decoding japa: %w", err)
		}
	}
	if r.Stotra != "" {
		if err := json.Unmarshal([]byte(r.Stotra), &stotra); err != nil {
			return model.SadhanaLog{}, fmt.Errorf("decoding stotra: %w", err)
		}
	}

	return model.SadhanaLog{
		Date:           day,
		Japa:           model.FlagsFrom(japa),
		Stotra:         model.FlagsFrom(stotra),
		ExerciseDone:   r.ExerciseDone,
		AteJunkFood:    r.AteJunkFood,
		AteAfterSunset: r.AteAfterSunset,
	}, nil
}

// boolToInt converts a bool to the 0/1 SQLite stores it as.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
