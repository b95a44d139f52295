package database

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// SwipeAction is a user's verdict on a candidate.
type SwipeAction string

const (
	SwipeActionLike SwipeAction = "like"
	SwipeActionPass SwipeAction = "pass"
)

// Valid reports whether the action is one of the recognized verdicts.
func (a SwipeAction) Valid() bool {
	return a == SwipeActionLike || a == SwipeActionPass
}

// SwipeDecision is the latest decision for an ordered (actor, target) pair.
// The store is keyed: a re-swipe overwrites the prior row, no history is
// kept.
type SwipeDecision struct {
	ActorID   string      `json:"actor_id" db:"user_id"`
	TargetID  string      `json:"target_id" db:"target_user_id"`
	Action    SwipeAction `json:"action" db:"action"`
	DecidedAt time.Time   `json:"decided_at" db:"decided_at"`
}

// MatchStatus is the lifecycle status of a match.
type MatchStatus string

const (
	MatchStatusPending  MatchStatus = "pending"
	MatchStatusAccepted MatchStatus = "accepted"
	MatchStatusRejected MatchStatus = "rejected"
	MatchStatusBlocked  MatchStatus = "blocked"
)

// Valid reports whether the status is one of the recognized values.
func (s MatchStatus) Valid() bool {
	switch s {
	case MatchStatusPending, MatchStatusAccepted, MatchStatusRejected, MatchStatusBlocked:
		return true
	}
	return false
}

// Match is a durable record of a mutual-like pair. Participants are stored
// in canonical order: UserID1 < UserID2. (x,y) and (y,x) always resolve to
// the same row.
type Match struct {
	ID        string      `json:"id" db:"id"`
	UserID1   string      `json:"user_id_1" db:"user_id_1"`
	UserID2   string      `json:"user_id_2" db:"user_id_2"`
	Status    MatchStatus `json:"status" db:"status"`
	CreatedAt time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt time.Time   `json:"updated_at" db:"updated_at"`
}

// HasParticipant reports whether userID is one of the two participants.
func (m *Match) HasParticipant(userID string) bool {
	return m.UserID1 == userID || m.UserID2 == userID
}

// OtherParticipant returns the participant that is not userID, or "" when
// userID is not part of the match.
func (m *Match) OtherParticipant(userID string) string {
	switch userID {
	case m.UserID1:
		return m.UserID2
	case m.UserID2:
		return m.UserID1
	}
	return ""
}

// CanonicalPair orders two user identifiers into the storage ordering used
// by the matches table.
func CanonicalPair(a, b string) (string, string) {
	if b < a {
		return b, a
	}
	return a, b
}

// UserProfile represents a player profile. The matching engine reads
// profiles for candidate selection and never writes them.
type UserProfile struct {
	ID          string      `json:"id" db:"id"`
	Email       string      `json:"email" db:"email"`
	DisplayName string      `json:"display_name" db:"display_name"`
	Bio         string      `json:"bio" db:"bio"`
	AvatarURL   string      `json:"avatar_url" db:"avatar_url"`
	Latitude    *float64    `json:"latitude" db:"latitude"`
	Longitude   *float64    `json:"longitude" db:"longitude"`
	City        string      `json:"city" db:"city"`
	Country     string      `json:"country" db:"country"`
	Preferences Preferences `json:"preferences" db:"preferences"`
	CreatedAt   time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at" db:"updated_at"`
}

// Preferences represents matchmaking preferences stored as JSONB.
type Preferences struct {
	MinAge      int      `json:"min_age,omitempty"`
	MaxAge      int      `json:"max_age,omitempty"`
	MaxDistance int      `json:"max_distance,omitempty"`
	Formats     []string `json:"formats,omitempty"`
}

// Implement driver.Valuer and sql.Scanner for Preferences
func (p Preferences) Value() (driver.Value, error) {
	return json.Marshal(p)
}

func (p *Preferences) Scan(value interface{}) error {
	if value == nil {
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, p)
	case string:
		return json.Unmarshal([]byte(v), p)
	default:
		return fmt.Errorf("cannot scan %T into Preferences", value)
	}
}

// MessageType classifies message payloads.
type MessageType string

const (
	MessageTypeText  MessageType = "text"
	MessageTypeImage MessageType = "image"
	MessageTypeDeck  MessageType = "deck"
)

// Valid reports whether the message type is recognized.
func (t MessageType) Valid() bool {
	return t == MessageTypeText || t == MessageTypeImage || t == MessageTypeDeck
}

// Message represents a message between matched users.
type Message struct {
	ID          string      `json:"id" db:"id"`
	MatchID     string      `json:"match_id" db:"match_id"`
	SenderID    string      `json:"sender_id" db:"sender_id"`
	ReceiverID  string      `json:"receiver_id" db:"receiver_id"`
	Content     string      `json:"content" db:"content"`
	MessageType MessageType `json:"type" db:"type"`
	IsRead      bool        `json:"read" db:"read"`
	CreatedAt   time.Time   `json:"created_at" db:"created_at"`
}
