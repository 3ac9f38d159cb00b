// Package sqlxrepos is the PostgreSQL record store, selected with
// storeEngine=postgres. The JSON file store remains the default; this backend
// exists for deployments that outgrow a single data file.
package sqlxrepos

import (
	"net/url"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/gradeboard/gradeboard/core"
)

const schema = `
CREATE TABLE IF NOT EXISTS student (
	id            TEXT PRIMARY KEY,
	name          TEXT NOT NULL DEFAULT '',
	class_name    TEXT NOT NULL DEFAULT '',
	section       TEXT NOT NULL DEFAULT '',
	academic_year TEXT NOT NULL DEFAULT '',
	attendance    DOUBLE PRECISION NOT NULL DEFAULT 0,
	marks         JSONB NOT NULL DEFAULT '{}'
);

CREATE TABLE IF NOT EXISTS teacher (
	id      TEXT PRIMARY KEY,
	name    TEXT NOT NULL DEFAULT '',
	subject TEXT NOT NULL DEFAULT '',
	email   TEXT NOT NULL DEFAULT '',
	class   TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS account (
	id            TEXT PRIMARY KEY,
	name          TEXT NOT NULL DEFAULT '',
	username      TEXT NOT NULL UNIQUE,
	email         TEXT NOT NULL UNIQUE,
	role          TEXT NOT NULL,
	record_id     TEXT NOT NULL,
	is_active     BOOLEAN NOT NULL DEFAULT TRUE,
	password_hash BYTEA NOT NULL DEFAULT '',
	created_at    TIMESTAMPTZ NOT NULL,
	updated_at    TIMESTAMPTZ NOT NULL,
	last_login    TIMESTAMPTZ NOT NULL DEFAULT 'epoch'
);
`

func Open(conf *core.Config) (*sqlx.DB, error) {
	user := url.UserPassword(conf.Database.User, conf.Database.Password)

	sslMode := "require"
	if conf.Database.DisableTLS {
		sslMode = "disable"
	}
	q := make(url.Values)
	q.Set("sslmode", sslMode)
	q.Set("timezone", "utc")

	u := url.URL{
		Scheme:   conf.Database.Engine,
		User:     user,
		Host:     conf.DatabaseAddress(),
		Path:     conf.Database.Name,
		RawQuery: q.Encode(),
	}

	db, err := sqlx.Open(conf.Database.Engine, u.String())
	if err != nil {
		return nil, errors.Wrap(err, "opening database")
	}
	if err = ping(db); err != nil {
		return nil, err
	}
	if _, err = db.Exec(schema); err != nil {
		return nil, errors.Wrap(err, "ensuring schema")
	}
	return db, nil
}

// ping waits for the database to be ready. Waits 100ms longer between each attempt.
func ping(db *sqlx.DB) error {
	var err error
	maxAttempts := 30
	for attempts := 1; attempts <= maxAttempts; attempts++ {
		err = db.Ping()
		if err == nil {
			break
		}
		time.Sleep(time.Duration(attempts) * 100 * time.Millisecond)
	}

	if err != nil {
		return errors.Wrap(err, "DB ping timeout")
	}
	return nil
}
