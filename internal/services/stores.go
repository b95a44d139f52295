package services

import (
	"context"
	"time"

	"github.com/devotedslingers/devotedslingers/internal/database"
)

type SwipeDecision = database.SwipeDecision
type Match = database.Match
type UserProfile = database.UserProfile
type Message = database.Message

// SwipeLedger is the durable, keyed record of the latest decision per
// ordered (actor, target) pair.
type SwipeLedger interface {
	// RecordDecision upserts the decision for (actorID, targetID). A later
	// decision for the same pair overwrites the earlier one unconditionally.
	RecordDecision(ctx context.Context, actorID, targetID string, action database.SwipeAction, decidedAt time.Time) error

	// HasReciprocalLike reports whether otherID has recorded a LIKE toward
	// userID. Pure read.
	HasReciprocalLike(ctx context.Context, userID, otherID string) (bool, error)

	// TargetsDecidedBy returns every target actorID has any decision for,
	// LIKE or PASS.
	TargetsDecidedBy(ctx context.Context, actorID string) ([]string, error)
}

// MatchRegistry is the canonical mutual-match store. The participant pair is
// unordered: (x,y) and (y,x) address the same match.
type MatchRegistry interface {
	// FindMatch looks up the match for a pair in either order. Returns
	// (nil, nil) when absent.
	FindMatch(ctx context.Context, userA, userB string) (*Match, error)

	// CreateIfAbsent creates the match for a pair with status accepted, or
	// returns the existing row unchanged. Concurrent callers for the same
	// pair both observe exactly one row.
	CreateIfAbsent(ctx context.Context, userA, userB string, now time.Time) (*Match, error)

	// UpdateStatus overwrites the status and bumps updated_at.
	UpdateStatus(ctx context.Context, matchID string, status database.MatchStatus, now time.Time) (*Match, error)

	// GetByID returns the match or a not-found error.
	GetByID(ctx context.Context, matchID string) (*Match, error)

	// ListForUser returns matches where userID is either participant,
	// optionally filtered by status, most recent first.
	ListForUser(ctx context.Context, userID string, status database.MatchStatus) ([]*Match, error)
}

// ProfileReader is the read-only view of the profile store the matching
// engine consumes. The engine never writes profile data.
type ProfileReader interface {
	// AllProfileIDsExcluding returns every profile identifier except userID,
	// in the storage default ordering (stable for a fixed snapshot).
	AllProfileIDsExcluding(ctx context.Context, userID string) ([]string, error)
}
