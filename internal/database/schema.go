package database

import (
	"context"
	"database/sql"
	"fmt"
)

// Schema bootstrap. Statements are idempotent so Initialize is safe to run
// on every startup.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		email VARCHAR(255) UNIQUE NOT NULL,
		display_name VARCHAR(255) NOT NULL,
		bio TEXT NOT NULL DEFAULT '',
		avatar_url VARCHAR(500) NOT NULL DEFAULT '',
		latitude DOUBLE PRECISION,
		longitude DOUBLE PRECISION,
		city VARCHAR(255) NOT NULL DEFAULT '',
		country VARCHAR(255) NOT NULL DEFAULT '',
		preferences JSONB NOT NULL DEFAULT '{}',
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,

	// One row per ordered (actor, target) pair; re-swipes overwrite.
	`CREATE TABLE IF NOT EXISTS swipes (
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		target_user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		action VARCHAR(10) NOT NULL CHECK (action IN ('like', 'pass')),
		decided_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (user_id, target_user_id)
	)`,

	// Participants stored in canonical order (user_id_1 < user_id_2) so the
	// unique constraint covers both orderings of a pair.
	`CREATE TABLE IF NOT EXISTS matches (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		user_id_1 UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		user_id_2 UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		status VARCHAR(20) NOT NULL DEFAULT 'accepted'
			CHECK (status IN ('pending', 'accepted', 'rejected', 'blocked')),
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		seq BIGSERIAL,
		UNIQUE (user_id_1, user_id_2),
		CHECK (user_id_1 < user_id_2)
	)`,

	`CREATE TABLE IF NOT EXISTS messages (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		match_id UUID NOT NULL REFERENCES matches(id) ON DELETE CASCADE,
		sender_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		receiver_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		content TEXT NOT NULL,
		type VARCHAR(20) NOT NULL DEFAULT 'text' CHECK (type IN ('text', 'image', 'deck')),
		read BOOLEAN NOT NULL DEFAULT false,
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,

	`CREATE INDEX IF NOT EXISTS idx_users_email ON users(email)`,
	`CREATE INDEX IF NOT EXISTS idx_swipes_target ON swipes(target_user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_matches_user1 ON matches(user_id_1)`,
	`CREATE INDEX IF NOT EXISTS idx_matches_user2 ON matches(user_id_2)`,
	`CREATE INDEX IF NOT EXISTS idx_messages_match ON messages(match_id)`,
}

// Initialize creates the schema if it does not exist yet.
func (db *DB) Initialize(ctx context.Context) error {
	return db.WithTransaction(ctx, func(tx *sql.Tx) error {
		for _, stmt := range schemaStatements {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("schema bootstrap failed: %w", err)
			}
		}
		return nil
	})
}
