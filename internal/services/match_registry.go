package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/devotedslingers/devotedslingers/internal/database"
	"github.com/devotedslingers/devotedslingers/internal/errors"
)

// PostgresMatchRegistry is the Postgres-backed MatchRegistry. Participants
// are stored in canonical order so the unique constraint on
// (user_id_1, user_id_2) suppresses duplicates for both orderings of a pair.
type PostgresMatchRegistry struct {
	db *database.DB
}

func NewPostgresMatchRegistry(db *database.DB) *PostgresMatchRegistry {
	return &PostgresMatchRegistry{db: db}
}

const matchColumns = `id, user_id_1, user_id_2, status, created_at, updated_at`

func scanMatch(row interface{ Scan(...interface{}) error }) (*Match, error) {
	m := &Match{}
	err := row.Scan(&m.ID, &m.UserID1, &m.UserID2, &m.Status, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *PostgresMatchRegistry) FindMatch(ctx context.Context, userA, userB string) (*Match, error) {
	lo, hi := database.CanonicalPair(userA, userB)

	query := `
		SELECT ` + matchColumns + `
		FROM matches
		WHERE user_id_1 = $1 AND user_id_2 = $2
	`

	m, err := scanMatch(r.db.QueryRowContext(ctx, query, lo, hi))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, errors.NewStoreUnavailableError("find_match", err)
	}
	return m, nil
}

func (r *PostgresMatchRegistry) CreateIfAbsent(ctx context.Context, userA, userB string, now time.Time) (*Match, error) {
	if userA == userB {
		return nil, errors.NewInvalidDecisionError("cannot match a user with themselves")
	}
	lo, hi := database.CanonicalPair(userA, userB)

	// ON CONFLICT DO NOTHING returns no row when another caller won the
	// insert race; the follow-up read observes the winner.
	insert := `
		INSERT INTO matches (id, user_id_1, user_id_2, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		ON CONFLICT (user_id_1, user_id_2) DO NOTHING
		RETURNING ` + matchColumns

	m, err := scanMatch(r.db.QueryRowContext(ctx, insert,
		uuid.New().String(), lo, hi, database.MatchStatusAccepted, now))
	if err == nil {
		return m, nil
	}
	if err != sql.ErrNoRows {
		return nil, errors.NewStoreUnavailableError("create_match", err)
	}

	existing, err := r.FindMatch(ctx, lo, hi)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, errors.NewStoreUnavailableError("create_match",
			sql.ErrNoRows).WithDetails("conflicting row vanished during creation")
	}
	return existing, nil
}

func (r *PostgresMatchRegistry) UpdateStatus(ctx context.Context, matchID string, status database.MatchStatus, now time.Time) (*Match, error) {
	if !status.Valid() {
		return nil, errors.NewValidationError("status", "unknown match status")
	}

	query := `
		UPDATE matches
		SET status = $1, updated_at = $2
		WHERE id = $3
		RETURNING ` + matchColumns

	m, err := scanMatch(r.db.QueryRowContext(ctx, query, status, now, matchID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NewNotFoundError("match").WithMetadata("match_id", matchID)
		}
		return nil, errors.NewStoreUnavailableError("update_match_status", err)
	}
	return m, nil
}

func (r *PostgresMatchRegistry) GetByID(ctx context.Context, matchID string) (*Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1`

	m, err := scanMatch(r.db.QueryRowContext(ctx, query, matchID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NewNotFoundError("match").WithMetadata("match_id", matchID)
		}
		return nil, errors.NewStoreUnavailableError("get_match", err)
	}
	return m, nil
}

func (r *PostgresMatchRegistry) ListForUser(ctx context.Context, userID string, status database.MatchStatus) ([]*Match, error) {
	query := `
		SELECT ` + matchColumns + `
		FROM matches
		WHERE (user_id_1 = $1 OR user_id_2 = $1)
	`
	args := []interface{}{userID}

	if status != "" {
		query += ` AND status = $2`
		args = append(args, status)
	}

	// seq breaks created_at ties by insertion order.
	query += ` ORDER BY created_at DESC, seq DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.NewStoreUnavailableError("list_matches", err)
	}
	defer rows.Close()

	var matches []*Match
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, errors.NewStoreUnavailableError("list_matches", err)
		}
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewStoreUnavailableError("list_matches", err)
	}

	return matches, nil
}
