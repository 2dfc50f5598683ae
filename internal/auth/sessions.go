package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/MuseumTrail/MT-Backend/internal/utils"
)

var ErrSessionNotFound = errors.New("session not found")

// SessionStore persists login sessions. It satisfies middleware.SessionFetcher.
type SessionStore struct {
	db  *gorm.DB
	ttl time.Duration
}

func NewSessionStore(d *gorm.DB, ttl time.Duration) *SessionStore {
	return &SessionStore{db: d, ttl: ttl}
}

func (s *SessionStore) TTL() time.Duration { return s.ttl }

func (s *SessionStore) Create(ctx context.Context, username string) (Session, error) {
	session := Session{
		SessionID: utils.GenerateUUID(),
		Username:  username,
		ExpiresAt: time.Now().Add(s.ttl),
	}
	if err := s.db.WithContext(ctx).Create(&session).Error; err != nil {
		return Session{}, fmt.Errorf("create session: %w", err)
	}
	return session, nil
}

func (s *SessionStore) FindSessionByID(id string) (utils.SessionData, error) {
	var session Session

	err := s.db.First(&session, "session_id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.SessionData{}, ErrSessionNotFound
	}
	if err != nil {
		return utils.SessionData{}, err
	}

	return utils.SessionData{
		SessionID: session.SessionID,
		Username:  session.Username,
		ExpiresAt: session.ExpiresAt,
	}, nil
}

// Valid reports whether id names a session that has not expired.
func (s *SessionStore) Valid(id string) bool {
	if id == "" {
		return false
	}
	session, err := s.FindSessionByID(id)
	return err == nil && session.ExpiresAt.After(time.Now())
}

func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if err := s.db.WithContext(ctx).Where("session_id = ?", id).Delete(&Session{}).Error; err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// DeleteExpired removes sessions past their expiry and returns how many went.
func (s *SessionStore) DeleteExpired(ctx context.Context) (int64, error) {
	res := s.db.WithContext(ctx).Where("expires_at < ?", time.Now()).Delete(&Session{})
	if res.Error != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", res.Error)
	}
	return res.RowsAffected, nil
}
