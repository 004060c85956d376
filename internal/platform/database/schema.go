package database

import (
	"database/sql"
	"fmt"
)

// EnsureSchema creates the tables the application needs. Safe to call on
// every boot, all statements use IF NOT EXISTS. Statements run one at a
// time: the pgx driver's extended protocol takes a single statement per
// Exec.
func EnsureSchema(db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS votes (
        id TEXT PRIMARY KEY,
        title TEXT NOT NULL,
        options JSONB NOT NULL DEFAULT '[]',
        category TEXT,
        author_id TEXT,
        author_name TEXT,
        vote_records JSONB NOT NULL DEFAULT '[]',
        custom_questions JSONB,
        show_analytics BOOLEAN NOT NULL DEFAULT TRUE,
        is_private BOOLEAN NOT NULL DEFAULT FALSE,
        created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
    )`,
	`CREATE INDEX IF NOT EXISTS idx_votes_created_at ON votes(created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS comments (
        id TEXT PRIMARY KEY,
        vote_id TEXT NOT NULL,
        user_id TEXT NOT NULL,
        user_name TEXT NOT NULL,
        user_avatar TEXT,
        content TEXT NOT NULL,
        parent_id TEXT,
        likes JSONB NOT NULL DEFAULT '[]',
        vote_changed BOOLEAN NOT NULL DEFAULT FALSE,
        voted_option_text TEXT,
        needs_reply BOOLEAN NOT NULL DEFAULT FALSE,
        created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
        updated_at TIMESTAMPTZ
    )`,
	`CREATE INDEX IF NOT EXISTS idx_comments_vote_id ON comments(vote_id)`,
}
