package utils

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type contextKey string

const (
	ContextUsernameKey  contextKey = "username"
	ContextSessionIDKey contextKey = "sessionID"
)

// SessionData is what the session middleware needs to know about a session.
type SessionData struct {
	SessionID string
	Username  string
	ExpiresAt time.Time
}

func GenerateUUID() string {
	return uuid.NewString()
}

func WithSession(ctx context.Context, s SessionData) context.Context {
	ctx = context.WithValue(ctx, ContextUsernameKey, s.Username)
	return context.WithValue(ctx, ContextSessionIDKey, s.SessionID)
}

func GetUsernameFromContext(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(ContextUsernameKey).(string)
	return username, ok && username != ""
}

func GetSessionIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(ContextSessionIDKey).(string)
	return id, ok && id != ""
}
