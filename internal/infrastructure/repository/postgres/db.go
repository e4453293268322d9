package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

// EnsureSchema creates the sync tables if they do not exist yet.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across api/scheduler startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026083001)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS documents (
	document_number TEXT PRIMARY KEY,
	category TEXT NOT NULL,
	subcategory TEXT,
	title TEXT NOT NULL,
	abstract TEXT,
	action_text TEXT,
	dates_text TEXT,
	effective_date DATE,
	publication_date DATE NOT NULL,
	agency_names JSONB NOT NULL DEFAULT '[]'::jsonb,
	topics JSONB NOT NULL DEFAULT '[]'::jsonb,
	is_significant BOOLEAN NOT NULL DEFAULT FALSE,
	cfr_references JSONB,
	docket_ids JSONB,
	html_url TEXT NOT NULL,
	pdf_url TEXT,
	full_text_url TEXT,
	raw_text_url TEXT,
	page_length INTEGER NOT NULL DEFAULT 0,
	comments_close_on DATE,
	comment_url TEXT,
	start_page INTEGER,
	end_page INTEGER,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_documents_publication_date ON documents(publication_date DESC);

CREATE TABLE IF NOT EXISTS profiles (
	user_id TEXT PRIMARY KEY,
	contact_ref TEXT NOT NULL,
	policy_interests JSONB NOT NULL DEFAULT '[]'::jsonb
);

CREATE TABLE IF NOT EXISTS notifications (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	document_number TEXT NOT NULL REFERENCES documents(document_number),
	notification_type TEXT NOT NULL,
	title TEXT NOT NULL,
	message TEXT NOT NULL,
	priority TEXT NOT NULL,
	payload JSONB NOT NULL DEFAULT '{}'::jsonb,
	action_url TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_notifications_user_created ON notifications(user_id, created_at DESC);

CREATE TABLE IF NOT EXISTS sync_runs (
	id TEXT PRIMARY KEY,
	sync_type TEXT NOT NULL,
	status TEXT NOT NULL,
	documents_fetched INTEGER NOT NULL DEFAULT 0,
	documents_stored INTEGER NOT NULL DEFAULT 0,
	notifications_created INTEGER NOT NULL DEFAULT 0,
	error_count INTEGER NOT NULL DEFAULT 0,
	started_at TIMESTAMPTZ NOT NULL,
	completed_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_sync_runs_started_at ON sync_runs(started_at DESC);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}
