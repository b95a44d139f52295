package interfaces

import (
	"context"
	"time"

	"github.com/devotedslingers/devotedslingers/internal/database"
	"github.com/devotedslingers/devotedslingers/internal/services"
)

// MatchingServiceInterface defines the interface for matchmaking operations
type MatchingServiceInterface interface {
	Swipe(ctx context.Context, actorID, targetID string, action database.SwipeAction, now time.Time) (*services.SwipeResult, error)
	PotentialMatches(ctx context.Context, userID string, limit int) ([]string, error)
	UserMatches(ctx context.Context, userID string, status database.MatchStatus) ([]*services.Match, error)
	MatchByID(ctx context.Context, matchID string) (*services.Match, error)
	UpdateMatchStatus(ctx context.Context, matchID string, status database.MatchStatus, now time.Time) (*services.Match, error)
}

// ProfileServiceInterface defines the interface for profile operations
type ProfileServiceInterface interface {
	GetProfile(ctx context.Context, userID string) (*services.UserProfile, error)
	CreateProfile(ctx context.Context, email, displayName string) (*services.UserProfile, error)
	UpdateProfile(ctx context.Context, userID string, update services.ProfileUpdate) (*services.UserProfile, error)
	SearchProfiles(ctx context.Context, filters services.SearchFilters) ([]*services.UserProfile, error)
}

// MessagingServiceInterface defines the interface for messaging operations
type MessagingServiceInterface interface {
	SendMessage(ctx context.Context, matchID, senderID, content string, msgType database.MessageType) (*services.Message, error)
	ListMessages(ctx context.Context, matchID string, limit, offset int) ([]*services.Message, error)
	MarkRead(ctx context.Context, messageID, readerID string) error
	UnreadCount(ctx context.Context, matchID, userID string) (int, error)
}
