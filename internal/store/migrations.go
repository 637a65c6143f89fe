package store

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// migrations is the ordered list of SQLite schema migrations.
// Each migration's version must be sequential starting from 1.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS sadhna_logs (
	id                  TEXT PRIMARY KEY,
	date                TEXT NOT NULL UNIQUE,
	japa                TEXT NOT NULL DEFAULT '[false,false,false]',
	stotra              TEXT NOT NULL DEFAULT '[false,false,false]',
	is_exercise_done    INTEGER NOT NULL DEFAULT 0 CHECK(is_exercise_done IN (0, 1)),
	is_ate_junkfood     INTEGER NOT NULL DEFAULT 0 CHECK(is_ate_junkfood IN (0, 1)),
	is_ate_after_sunset INTEGER NOT NULL DEFAULT 0 CHECK(is_ate_after_sunset IN (0, 1)),
	created_at          DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at          DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
	{
		version: 2,
		sql: `
CREATE INDEX IF NOT EXISTS idx_sadhna_logs_updated_at ON sadhna_logs(updated_at);

INSERT INTO schema_version (version) VALUES (2);
`,
	},
}

// postgresSchema creates the remote table when store.postgres.ensure_schema
// is set. Existing Supabase projects usually already have it.
const postgresSchema = `
CREATE TABLE IF NOT EXISTS sadhna_logs (
	id                  uuid PRIMARY KEY DEFAULT gen_random_uuid(),
	date                date NOT NULL UNIQUE,
	japa                boolean[] NOT NULL DEFAULT '{false,false,false}',
	stotra              boolean[] NOT NULL DEFAULT '{false,false,false}',
	is_exercise_done    boolean NOT NULL DEFAULT false,
	is_ate_junkfood     boolean NOT NULL DEFAULT false,
	is_ate_after_sunset boolean NOT NULL DEFAULT false,
	created_at          timestamptz NOT NULL DEFAULT now()
);`
