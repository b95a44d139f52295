package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devotedslingers/devotedslingers/internal/database"
	"github.com/devotedslingers/devotedslingers/internal/errors"
)

// The validation and authorization paths never touch the database, so a nil
// DB is enough to exercise them.
func newTestMessaging(registry MatchRegistry) *MessagingService {
	return NewMessagingService(nil, registry)
}

func TestSendMessage_Validation(t *testing.T) {
	svc := newTestMessaging(newMemoryMatchRegistry())
	ctx := context.Background()

	tests := []struct {
		name     string
		matchID  string
		senderID string
		content  string
		msgType  database.MessageType
	}{
		{"missing match", "", "a", "hi", database.MessageTypeText},
		{"missing sender", "m1", "", "hi", database.MessageTypeText},
		{"empty content", "m1", "a", "", database.MessageTypeText},
		{"unknown type", "m1", "a", "hi", database.MessageType("video")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.SendMessage(ctx, tt.matchID, tt.senderID, tt.content, tt.msgType)
			require.Error(t, err)
			assert.True(t, errors.IsErrorType(err, errors.ErrorTypeValidation))
		})
	}
}

func TestSendMessage_UnknownMatch(t *testing.T) {
	svc := newTestMessaging(newMemoryMatchRegistry())

	_, err := svc.SendMessage(context.Background(), "missing", "a", "hi", database.MessageTypeText)
	require.Error(t, err)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeNotFound))
}

func TestSendMessage_SenderMustParticipate(t *testing.T) {
	registry := newMemoryMatchRegistry()
	match, err := registry.CreateIfAbsent(context.Background(), "a", "b", time.Now())
	require.NoError(t, err)

	svc := newTestMessaging(registry)

	_, err = svc.SendMessage(context.Background(), match.ID, "intruder", "hi", database.MessageTypeText)
	require.Error(t, err)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeValidation))
}

func TestSendMessage_RequiresAcceptedMatch(t *testing.T) {
	ctx := context.Background()

	for _, status := range []database.MatchStatus{
		database.MatchStatusPending,
		database.MatchStatusRejected,
		database.MatchStatusBlocked,
	} {
		t.Run(string(status), func(t *testing.T) {
			registry := newMemoryMatchRegistry()
			match, err := registry.CreateIfAbsent(ctx, "a", "b", time.Now())
			require.NoError(t, err)
			_, err = registry.UpdateStatus(ctx, match.ID, status, time.Now())
			require.NoError(t, err)

			svc := newTestMessaging(registry)

			_, err = svc.SendMessage(ctx, match.ID, "a", "hi", database.MessageTypeText)
			require.Error(t, err)
			assert.True(t, errors.IsErrorType(err, errors.ErrorTypeConflict))
		})
	}
}

func TestListMessages_Validation(t *testing.T) {
	svc := newTestMessaging(newMemoryMatchRegistry())

	_, err := svc.ListMessages(context.Background(), "", 10, 0)
	require.Error(t, err)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeValidation))
}

func TestMarkRead_Validation(t *testing.T) {
	svc := newTestMessaging(newMemoryMatchRegistry())

	err := svc.MarkRead(context.Background(), "", "a")
	require.Error(t, err)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeValidation))

	err = svc.MarkRead(context.Background(), "m1", "")
	require.Error(t, err)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeValidation))
}

func TestUnreadCount_Validation(t *testing.T) {
	svc := newTestMessaging(newMemoryMatchRegistry())

	_, err := svc.UnreadCount(context.Background(), "", "a")
	require.Error(t, err)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeValidation))
}
