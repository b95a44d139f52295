package handlers

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/devotedslingers/devotedslingers/internal/database"
	"github.com/devotedslingers/devotedslingers/internal/realtime"
	"github.com/devotedslingers/devotedslingers/internal/services"
)

type mockMatchingService struct {
	mock.Mock
}

func (m *mockMatchingService) Swipe(ctx context.Context, actorID, targetID string, action database.SwipeAction, now time.Time) (*services.SwipeResult, error) {
	args := m.Called(ctx, actorID, targetID, action, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.SwipeResult), args.Error(1)
}

func (m *mockMatchingService) PotentialMatches(ctx context.Context, userID string, limit int) ([]string, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *mockMatchingService) UserMatches(ctx context.Context, userID string, status database.MatchStatus) ([]*services.Match, error) {
	args := m.Called(ctx, userID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*services.Match), args.Error(1)
}

func (m *mockMatchingService) MatchByID(ctx context.Context, matchID string) (*services.Match, error) {
	args := m.Called(ctx, matchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.Match), args.Error(1)
}

func (m *mockMatchingService) UpdateMatchStatus(ctx context.Context, matchID string, status database.MatchStatus, now time.Time) (*services.Match, error) {
	args := m.Called(ctx, matchID, status, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.Match), args.Error(1)
}

type mockProfileService struct {
	mock.Mock
}

func (m *mockProfileService) GetProfile(ctx context.Context, userID string) (*services.UserProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.UserProfile), args.Error(1)
}

func (m *mockProfileService) CreateProfile(ctx context.Context, email, displayName string) (*services.UserProfile, error) {
	args := m.Called(ctx, email, displayName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.UserProfile), args.Error(1)
}

func (m *mockProfileService) UpdateProfile(ctx context.Context, userID string, update services.ProfileUpdate) (*services.UserProfile, error) {
	args := m.Called(ctx, userID, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.UserProfile), args.Error(1)
}

func (m *mockProfileService) SearchProfiles(ctx context.Context, filters services.SearchFilters) ([]*services.UserProfile, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*services.UserProfile), args.Error(1)
}

type mockMessagingService struct {
	mock.Mock
}

func (m *mockMessagingService) SendMessage(ctx context.Context, matchID, senderID, content string, msgType database.MessageType) (*services.Message, error) {
	args := m.Called(ctx, matchID, senderID, content, msgType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.Message), args.Error(1)
}

func (m *mockMessagingService) ListMessages(ctx context.Context, matchID string, limit, offset int) ([]*services.Message, error) {
	args := m.Called(ctx, matchID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*services.Message), args.Error(1)
}

func (m *mockMessagingService) MarkRead(ctx context.Context, messageID, readerID string) error {
	args := m.Called(ctx, messageID, readerID)
	return args.Error(0)
}

func (m *mockMessagingService) UnreadCount(ctx context.Context, matchID, userID string) (int, error) {
	args := m.Called(ctx, matchID, userID)
	return args.Int(0), args.Error(1)
}

// recordingNotifier captures events so tests can assert on fan-out without a
// Redis connection.
type recordingNotifier struct {
	mu       sync.Mutex
	matches  []*services.Match
	messages []*services.Message
}

var _ realtime.Notifier = (*recordingNotifier)(nil)

func (n *recordingNotifier) MatchCreated(_ context.Context, match *database.Match) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.matches = append(n.matches, match)
}

func (n *recordingNotifier) MessageCreated(_ context.Context, message *database.Message) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, message)
}

func (n *recordingNotifier) matchCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.matches)
}

func (n *recordingNotifier) messageCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.messages)
}
