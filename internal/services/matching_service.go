package services

import (
	"context"
	"time"

	"github.com/devotedslingers/devotedslingers/internal/cache"
	"github.com/devotedslingers/devotedslingers/internal/database"
	"github.com/devotedslingers/devotedslingers/internal/errors"
	"github.com/devotedslingers/devotedslingers/internal/telemetry"
)

// SwipeResult is the outcome of recording a swipe decision. MatchCreated is
// true whenever a mutual like was confirmed by this call, even when the
// underlying match row predates it; it signals "mutual like confirmed now",
// not "row freshly inserted".
type SwipeResult struct {
	MatchCreated bool   `json:"match_created"`
	Match        *Match `json:"match,omitempty"`
}

// MatchingService composes the swipe ledger and the match registry into the
// swipe-and-match protocol. All mutation of swipe and match rows goes
// through it.
type MatchingService struct {
	ledger   SwipeLedger
	registry MatchRegistry
	profiles ProfileReader
	cache    *cache.RedisService // optional, nil disables candidate-pool caching
}

func NewMatchingService(ledger SwipeLedger, registry MatchRegistry, profiles ProfileReader, redis *cache.RedisService) *MatchingService {
	return &MatchingService{
		ledger:   ledger,
		registry: registry,
		profiles: profiles,
		cache:    redis,
	}
}

// Swipe records a decision and, on a mutual like, materializes the match.
// Steps run strictly in order: decision recorded, then reciprocal check,
// then match creation. A PASS never creates a match and never revokes an
// existing one.
func (s *MatchingService) Swipe(ctx context.Context, actorID, targetID string, action database.SwipeAction, now time.Time) (*SwipeResult, error) {
	logger := telemetry.LogFromContext(ctx).WithFields(map[string]interface{}{
		"actor_id":  actorID,
		"target_id": targetID,
		"action":    string(action),
		"operation": "swipe",
	})

	if actorID == "" || targetID == "" {
		return nil, errors.NewInvalidDecisionError("actor and target are required")
	}
	if actorID == targetID {
		return nil, errors.NewInvalidDecisionError("cannot swipe on yourself")
	}
	if !action.Valid() {
		return nil, errors.NewInvalidDecisionError("unknown swipe action").
			WithMetadata("action", string(action))
	}

	if err := s.ledger.RecordDecision(ctx, actorID, targetID, action, now); err != nil {
		logger.WithError(err).Error("Failed to record swipe decision")
		return nil, err
	}

	// The actor's candidate pool is stale the moment the decision lands.
	if s.cache != nil {
		s.cache.InvalidateCandidatePool(ctx, actorID)
	}

	if action == database.SwipeActionPass {
		return &SwipeResult{MatchCreated: false}, nil
	}

	reciprocal, err := s.ledger.HasReciprocalLike(ctx, actorID, targetID)
	if err != nil {
		logger.WithError(err).Error("Failed to check reciprocal like")
		return nil, err
	}
	if !reciprocal {
		return &SwipeResult{MatchCreated: false}, nil
	}

	match, err := s.registry.CreateIfAbsent(ctx, actorID, targetID, now)
	if err != nil {
		logger.WithError(err).Error("Failed to materialize match")
		return nil, err
	}

	logger.WithField("match_id", match.ID).Info("Mutual like confirmed")
	return &SwipeResult{MatchCreated: true, Match: match}, nil
}

// PotentialMatches returns up to limit candidate identifiers the user has
// not swiped on yet, in the profile store's default ordering. Pure read.
func (s *MatchingService) PotentialMatches(ctx context.Context, userID string, limit int) ([]string, error) {
	if userID == "" {
		return nil, errors.NewValidationError("user_id", "user_id is required")
	}
	if limit <= 0 {
		return nil, errors.NewValidationError("limit", "limit must be a positive integer")
	}

	// A cached pool may predate the user's latest swipe: a concurrent
	// Swipe can invalidate the key between this call's ledger read and its
	// write-back, leaving a stale pool in the cache. The ledger is always
	// re-consulted on a hit so a swiped candidate never reappears.
	if s.cache != nil {
		if pool, ok := s.cache.GetCandidatePool(ctx, userID); ok {
			decided, err := s.ledger.TargetsDecidedBy(ctx, userID)
			if err != nil {
				return nil, err
			}
			return capPool(subtract(pool, decided), limit), nil
		}
	}

	candidates, err := s.profiles.AllProfileIDsExcluding(ctx, userID)
	if err != nil {
		return nil, err
	}

	decided, err := s.ledger.TargetsDecidedBy(ctx, userID)
	if err != nil {
		return nil, err
	}

	pool := subtract(candidates, decided)

	if s.cache != nil {
		s.cache.SetCandidatePool(ctx, userID, pool)
	}

	return capPool(pool, limit), nil
}

// subtract returns the ids not present in decided, preserving order.
func subtract(ids, decided []string) []string {
	seen := make(map[string]struct{}, len(decided))
	for _, id := range decided {
		seen[id] = struct{}{}
	}

	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		out = append(out, id)
	}
	return out
}

func capPool(pool []string, limit int) []string {
	if len(pool) > limit {
		return pool[:limit]
	}
	return pool
}

// UserMatches returns the user's matches, optionally filtered by status,
// most recent first.
func (s *MatchingService) UserMatches(ctx context.Context, userID string, status database.MatchStatus) ([]*Match, error) {
	if userID == "" {
		return nil, errors.NewValidationError("user_id", "user_id is required")
	}
	if status != "" && !status.Valid() {
		return nil, errors.NewValidationError("status", "unknown match status")
	}
	return s.registry.ListForUser(ctx, userID, status)
}

// MatchByID returns a single match or a not-found error.
func (s *MatchingService) MatchByID(ctx context.Context, matchID string) (*Match, error) {
	if matchID == "" {
		return nil, errors.NewValidationError("match_id", "match_id is required")
	}
	return s.registry.GetByID(ctx, matchID)
}

// UpdateMatchStatus overwrites a match's status and bumps its updated_at.
func (s *MatchingService) UpdateMatchStatus(ctx context.Context, matchID string, status database.MatchStatus, now time.Time) (*Match, error) {
	if matchID == "" {
		return nil, errors.NewValidationError("match_id", "match_id is required")
	}
	if !status.Valid() {
		return nil, errors.NewValidationError("status", "unknown match status")
	}
	return s.registry.UpdateStatus(ctx, matchID, status, now)
}
