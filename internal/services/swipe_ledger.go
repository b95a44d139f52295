package services

import (
	"context"
	"time"

	"github.com/devotedslingers/devotedslingers/internal/database"
	"github.com/devotedslingers/devotedslingers/internal/errors"
)

// PostgresSwipeLedger is the Postgres-backed SwipeLedger. The primary key on
// (user_id, target_user_id) makes the upsert atomic under concurrent
// re-swipes of the same pair.
type PostgresSwipeLedger struct {
	db *database.DB
}

func NewPostgresSwipeLedger(db *database.DB) *PostgresSwipeLedger {
	return &PostgresSwipeLedger{db: db}
}

func (l *PostgresSwipeLedger) RecordDecision(ctx context.Context, actorID, targetID string, action database.SwipeAction, decidedAt time.Time) error {
	if actorID == targetID {
		return errors.NewInvalidDecisionError("cannot swipe on yourself")
	}
	if !action.Valid() {
		return errors.NewInvalidDecisionError("unknown swipe action").
			WithMetadata("action", string(action))
	}

	query := `
		INSERT INTO swipes (user_id, target_user_id, action, decided_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, target_user_id)
		DO UPDATE SET action = EXCLUDED.action, decided_at = EXCLUDED.decided_at
	`

	if _, err := l.db.ExecContext(ctx, query, actorID, targetID, action, decidedAt); err != nil {
		return errors.NewStoreUnavailableError("record_decision", err)
	}
	return nil
}

func (l *PostgresSwipeLedger) HasReciprocalLike(ctx context.Context, userID, otherID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM swipes
			WHERE user_id = $1 AND target_user_id = $2 AND action = 'like'
		)
	`

	var exists bool
	if err := l.db.QueryRowContext(ctx, query, otherID, userID).Scan(&exists); err != nil {
		return false, errors.NewStoreUnavailableError("has_reciprocal_like", err)
	}
	return exists, nil
}

func (l *PostgresSwipeLedger) TargetsDecidedBy(ctx context.Context, actorID string) ([]string, error) {
	query := `SELECT target_user_id FROM swipes WHERE user_id = $1`

	rows, err := l.db.QueryContext(ctx, query, actorID)
	if err != nil {
		return nil, errors.NewStoreUnavailableError("targets_decided_by", err)
	}
	defer rows.Close()

	var targets []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, errors.NewStoreUnavailableError("targets_decided_by", err)
		}
		targets = append(targets, id)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewStoreUnavailableError("targets_decided_by", err)
	}

	return targets, nil
}
