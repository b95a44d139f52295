package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"github.com/devotedslingers/devotedslingers/internal/database"
	"github.com/devotedslingers/devotedslingers/internal/errors"
)

// In-memory SwipeLedger. Mirrors the Postgres implementation's keyed-upsert
// semantics so the engine tests run against the same contract.
type memorySwipeLedger struct {
	mu        sync.Mutex
	decisions map[[2]string]*SwipeDecision
}

func newMemorySwipeLedger() *memorySwipeLedger {
	return &memorySwipeLedger{decisions: make(map[[2]string]*SwipeDecision)}
}

func (l *memorySwipeLedger) RecordDecision(_ context.Context, actorID, targetID string, action database.SwipeAction, decidedAt time.Time) error {
	if actorID == targetID {
		return errors.NewInvalidDecisionError("cannot swipe on yourself")
	}
	if !action.Valid() {
		return errors.NewInvalidDecisionError("unknown swipe action")
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.decisions[[2]string{actorID, targetID}] = &SwipeDecision{
		ActorID:   actorID,
		TargetID:  targetID,
		Action:    action,
		DecidedAt: decidedAt,
	}
	return nil
}

func (l *memorySwipeLedger) HasReciprocalLike(_ context.Context, userID, otherID string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	decision, ok := l.decisions[[2]string{otherID, userID}]
	return ok && decision.Action == database.SwipeActionLike, nil
}

func (l *memorySwipeLedger) TargetsDecidedBy(_ context.Context, actorID string) ([]string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var targets []string
	for key := range l.decisions {
		if key[0] == actorID {
			targets = append(targets, key[1])
		}
	}
	sort.Strings(targets)
	return targets, nil
}

func (l *memorySwipeLedger) decision(actorID, targetID string) *SwipeDecision {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.decisions[[2]string{actorID, targetID}]
}

func (l *memorySwipeLedger) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.decisions)
}

// In-memory MatchRegistry keyed by the canonical pair, like the matches
// table's unique constraint.
type memoryMatchRegistry struct {
	mu      sync.Mutex
	byPair  map[[2]string]*Match
	byID    map[string]*Match
	ordered []*Match // insertion order, for the created_at tiebreak
}

func newMemoryMatchRegistry() *memoryMatchRegistry {
	return &memoryMatchRegistry{
		byPair: make(map[[2]string]*Match),
		byID:   make(map[string]*Match),
	}
}

func pairKey(a, b string) [2]string {
	lo, hi := database.CanonicalPair(a, b)
	return [2]string{lo, hi}
}

func (r *memoryMatchRegistry) FindMatch(_ context.Context, userA, userB string) (*Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m, ok := r.byPair[pairKey(userA, userB)]; ok {
		copied := *m
		return &copied, nil
	}
	return nil, nil
}

func (r *memoryMatchRegistry) CreateIfAbsent(_ context.Context, userA, userB string, now time.Time) (*Match, error) {
	if userA == userB {
		return nil, errors.NewInvalidDecisionError("cannot match a user with themselves")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := pairKey(userA, userB)
	if m, ok := r.byPair[key]; ok {
		copied := *m
		return &copied, nil
	}

	m := &Match{
		ID:        uuid.New().String(),
		UserID1:   key[0],
		UserID2:   key[1],
		Status:    database.MatchStatusAccepted,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.byPair[key] = m
	r.byID[m.ID] = m
	r.ordered = append(r.ordered, m)

	copied := *m
	return &copied, nil
}

func (r *memoryMatchRegistry) UpdateStatus(_ context.Context, matchID string, status database.MatchStatus, now time.Time) (*Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.byID[matchID]
	if !ok {
		return nil, errors.NewNotFoundError("match")
	}
	m.Status = status
	m.UpdatedAt = now

	copied := *m
	return &copied, nil
}

func (r *memoryMatchRegistry) GetByID(_ context.Context, matchID string) (*Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.byID[matchID]
	if !ok {
		return nil, errors.NewNotFoundError("match")
	}
	copied := *m
	return &copied, nil
}

func (r *memoryMatchRegistry) ListForUser(_ context.Context, userID string, status database.MatchStatus) ([]*Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matches []*Match
	// Walk newest-insertion-first; the stable sort below keeps that order
	// among equal creation times.
	for i := len(r.ordered) - 1; i >= 0; i-- {
		m := r.ordered[i]
		if !m.HasParticipant(userID) {
			continue
		}
		if status != "" && m.Status != status {
			continue
		}
		copied := *m
		matches = append(matches, &copied)
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].CreatedAt.After(matches[j].CreatedAt)
	})
	return matches, nil
}

func (r *memoryMatchRegistry) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byPair)
}

// In-memory ProfileReader returning a fixed ordering.
type memoryProfileReader struct {
	mu  sync.Mutex
	ids []string
}

func newMemoryProfileReader(ids ...string) *memoryProfileReader {
	return &memoryProfileReader{ids: ids}
}

func (p *memoryProfileReader) AllProfileIDsExcluding(_ context.Context, userID string) ([]string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []string
	for _, id := range p.ids {
		if id != userID {
			out = append(out, id)
		}
	}
	return out, nil
}

// decidedHookLedger runs a callback after each TargetsDecidedBy read. Tests
// use it to interleave a swipe into the window between the ledger read and
// the candidate-pool cache write-back.
type decidedHookLedger struct {
	*memorySwipeLedger
	afterDecided func()
}

func (l *decidedHookLedger) TargetsDecidedBy(ctx context.Context, actorID string) ([]string, error) {
	targets, err := l.memorySwipeLedger.TargetsDecidedBy(ctx, actorID)
	if l.afterDecided != nil {
		l.afterDecided()
	}
	return targets, err
}

// mapRedisClient backs cache.RedisClient with a map so the caching paths of
// the engine can be exercised in-process.
type mapRedisClient struct {
	mu    sync.Mutex
	store map[string]string
}

func newMapRedisClient() *mapRedisClient {
	return &mapRedisClient{store: make(map[string]string)}
}

func (c *mapRedisClient) Set(_ context.Context, key string, value interface{}, _ time.Duration) *redis.StatusCmd {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store[key] = string(value.([]byte))
	return redis.NewStatusResult("OK", nil)
}

func (c *mapRedisClient) Get(_ context.Context, key string) *redis.StringCmd {
	c.mu.Lock()
	defer c.mu.Unlock()
	value, ok := c.store[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(value, nil)
}

func (c *mapRedisClient) Del(_ context.Context, keys ...string) *redis.IntCmd {
	c.mu.Lock()
	defer c.mu.Unlock()
	var removed int64
	for _, key := range keys {
		if _, ok := c.store[key]; ok {
			delete(c.store, key)
			removed++
		}
	}
	return redis.NewIntResult(removed, nil)
}

func (c *mapRedisClient) Publish(_ context.Context, _ string, _ interface{}) *redis.IntCmd {
	return redis.NewIntResult(1, nil)
}

func (c *mapRedisClient) Ping(_ context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", nil)
}

func (c *mapRedisClient) Close() error { return nil }
