package services

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/techagentng/civilink/config"
	"github.com/techagentng/civilink/db"
	apiError "github.com/techagentng/civilink/errors"
	"github.com/techagentng/civilink/models"
	"github.com/techagentng/civilink/services/jwt"
)

// SessionContext is the single source of the current user. Handlers resolve
// the session from the bearer token instead of reading shared state.
type SessionContext interface {
	GetSession(ctx context.Context, token string) (*models.Session, error)
	SetSession(ctx context.Context, session *models.Session) (string, error)
	ClearSession(ctx context.Context, token string) error
}

type sessionManager struct {
	Config   *config.Config
	sessions db.SessionRepository
}

func NewSessionContext(sessions db.SessionRepository, conf *config.Config) SessionContext {
	return &sessionManager{Config: conf, sessions: sessions}
}

// SetSession stores session as the user's only session and returns a signed
// access token for it.
func (m *sessionManager) SetSession(ctx context.Context, session *models.Session) (string, error) {
	session.ID = uuid.NewString()
	session.CreatedAt = time.Now().UTC()

	if err := m.sessions.Put(ctx, session, m.Config.SessionTTL); err != nil {
		return "", errors.Wrap(err, "store session")
	}
	token, err := jwt.GenerateToken(session.ID, session.Username, m.Config.JWTSecret, m.Config.SessionTTL)
	if err != nil {
		return "", errors.Wrap(err, "sign token")
	}
	return token, nil
}

func (m *sessionManager) GetSession(ctx context.Context, token string) (*models.Session, error) {
	id, err := jwt.SessionID(token, m.Config.JWTSecret)
	if err != nil {
		return nil, apiError.ErrUnauthorized
	}
	s, err := m.sessions.Get(ctx, id)
	if errors.Is(err, db.ErrSessionNotFound) {
		return nil, apiError.New("session has ended, please log in again", http.StatusUnauthorized)
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (m *sessionManager) ClearSession(ctx context.Context, token string) error {
	id, err := jwt.SessionID(token, m.Config.JWTSecret)
	if err != nil {
		return apiError.ErrUnauthorized
	}
	return m.sessions.Delete(ctx, id)
}
