package postgres

// schema is applied in order by Migrate. Every statement is idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id         BIGSERIAL PRIMARY KEY,
		username   VARCHAR(80)  NOT NULL UNIQUE,
		email      VARCHAR(120) NOT NULL UNIQUE,
		password   TEXT         NOT NULL,
		created_at TIMESTAMPTZ  NOT NULL,
		updated_at TIMESTAMPTZ  NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS bookmarks (
		id         BIGSERIAL PRIMARY KEY,
		body       TEXT        NOT NULL DEFAULT '',
		url        TEXT        NOT NULL UNIQUE,
		short_url  VARCHAR(16) NOT NULL UNIQUE,
		visits     BIGINT      NOT NULL DEFAULT 0 CHECK (visits >= 0),
		user_id    BIGINT      NOT NULL REFERENCES users(id),
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS bookmarks_user_id_idx ON bookmarks(user_id, id)`,
}
