package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/devotedslingers/devotedslingers/internal/database"
	"github.com/devotedslingers/devotedslingers/internal/errors"
	"github.com/devotedslingers/devotedslingers/internal/telemetry"
)

// MessagingService handles messages between matched users. Messages may only
// flow inside an accepted match; authorization piggybacks on the match
// registry.
type MessagingService struct {
	db       *database.DB
	registry MatchRegistry
}

func NewMessagingService(db *database.DB, registry MatchRegistry) *MessagingService {
	return &MessagingService{db: db, registry: registry}
}

// SendMessage stores a message inside a match conversation. The sender must
// be a participant and the match must be accepted.
func (s *MessagingService) SendMessage(ctx context.Context, matchID, senderID, content string, msgType database.MessageType) (*Message, error) {
	logger := telemetry.LogFromContext(ctx).WithFields(map[string]interface{}{
		"match_id":  matchID,
		"sender_id": senderID,
		"operation": "send_message",
	})

	if matchID == "" || senderID == "" {
		return nil, errors.NewValidationError("match_id", "match_id and sender_id are required")
	}
	if content == "" {
		return nil, errors.NewValidationError("content", "content is required")
	}
	if msgType == "" {
		msgType = database.MessageTypeText
	}
	if !msgType.Valid() {
		return nil, errors.NewValidationError("type", "unknown message type")
	}

	match, err := s.registry.GetByID(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if !match.HasParticipant(senderID) {
		return nil, errors.NewValidationError("sender_id", "sender is not part of this match")
	}
	if match.Status != database.MatchStatusAccepted {
		return nil, errors.NewConflictError("match is not accepted").
			WithMetadata("status", string(match.Status))
	}

	message := &Message{
		ID:          uuid.New().String(),
		MatchID:     matchID,
		SenderID:    senderID,
		ReceiverID:  match.OtherParticipant(senderID),
		Content:     content,
		MessageType: msgType,
		CreatedAt:   time.Now().UTC(),
	}

	query := `
		INSERT INTO messages (id, match_id, sender_id, receiver_id, content, type, read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, false, $7)
	`

	if _, err := s.db.ExecContext(ctx, query,
		message.ID, message.MatchID, message.SenderID, message.ReceiverID,
		message.Content, message.MessageType, message.CreatedAt); err != nil {
		logger.WithError(err).Error("Failed to store message")
		return nil, errors.NewStoreUnavailableError("send_message", err)
	}

	logger.WithField("message_id", message.ID).Info("Message stored")
	return message, nil
}

// ListMessages returns a page of a match's messages, oldest first.
func (s *MessagingService) ListMessages(ctx context.Context, matchID string, limit, offset int) ([]*Message, error) {
	if matchID == "" {
		return nil, errors.NewValidationError("match_id", "match_id is required")
	}
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	query := `
		SELECT id, match_id, sender_id, receiver_id, content, type, read, created_at
		FROM messages
		WHERE match_id = $1
		ORDER BY created_at, id
		LIMIT $2 OFFSET $3
	`

	rows, err := s.db.QueryContext(ctx, query, matchID, limit, offset)
	if err != nil {
		return nil, errors.NewStoreUnavailableError("list_messages", err)
	}
	defer rows.Close()

	var messages []*Message
	for rows.Next() {
		m := &Message{}
		if err := rows.Scan(
			&m.ID, &m.MatchID, &m.SenderID, &m.ReceiverID,
			&m.Content, &m.MessageType, &m.IsRead, &m.CreatedAt); err != nil {
			return nil, errors.NewStoreUnavailableError("list_messages", err)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewStoreUnavailableError("list_messages", err)
	}

	return messages, nil
}

// MarkRead flags a message as read. Only the receiver may mark a message.
func (s *MessagingService) MarkRead(ctx context.Context, messageID, readerID string) error {
	if messageID == "" || readerID == "" {
		return errors.NewValidationError("message_id", "message_id and reader_id are required")
	}

	query := `UPDATE messages SET read = true WHERE id = $1 AND receiver_id = $2`

	result, err := s.db.ExecContext(ctx, query, messageID, readerID)
	if err != nil {
		return errors.NewStoreUnavailableError("mark_read", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return errors.NewStoreUnavailableError("mark_read", err)
	}
	if affected == 0 {
		return errors.NewNotFoundError("message").WithMetadata("message_id", messageID)
	}
	return nil
}

// UnreadCount returns the number of unread messages addressed to userID in a
// match.
func (s *MessagingService) UnreadCount(ctx context.Context, matchID, userID string) (int, error) {
	if matchID == "" || userID == "" {
		return 0, errors.NewValidationError("match_id", "match_id and user_id are required")
	}

	query := `
		SELECT COUNT(*) FROM messages
		WHERE match_id = $1 AND receiver_id = $2 AND read = false
	`

	var count int
	if err := s.db.QueryRowContext(ctx, query, matchID, userID).Scan(&count); err != nil {
		if err == sql.ErrNoRows {
			return 0, nil
		}
		return 0, errors.NewStoreUnavailableError("unread_count", err)
	}
	return count, nil
}
