package db

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/techagentng/civilink/models"
)

var ErrSessionNotFound = errors.New("session not found")

const (
	sessionPrefix     = "session:"
	userSessionPrefix = "session:user:"
)

// SessionRepository keeps at most one live session per username: putting a
// new session for a user drops the previous one.
type SessionRepository interface {
	Get(ctx context.Context, id string) (*models.Session, error)
	Put(ctx context.Context, session *models.Session, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
}

type sessionRepo struct {
	kv KeyValueStore
}

func NewSessionRepo(kv KeyValueStore) SessionRepository {
	return &sessionRepo{kv: kv}
}

func (r *sessionRepo) Get(ctx context.Context, id string) (*models.Session, error) {
	raw, err := r.kv.Get(ctx, sessionPrefix+id)
	if errors.Is(err, ErrKeyNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}

	var s models.Session
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		_ = r.kv.Delete(ctx, sessionPrefix+id)
		return nil, ErrSessionNotFound
	}
	return &s, nil
}

func (r *sessionRepo) Put(ctx context.Context, session *models.Session, ttl time.Duration) error {
	if session.ID == "" {
		return errors.New("session id is empty")
	}

	indexKey := userSessionPrefix + session.Username
	previous, err := r.kv.Get(ctx, indexKey)
	if err != nil && !errors.Is(err, ErrKeyNotFound) {
		return err
	}
	if previous != "" && previous != session.ID {
		if err := r.kv.Delete(ctx, sessionPrefix+previous); err != nil {
			return err
		}
	}

	b, err := json.Marshal(session)
	if err != nil {
		return errors.Wrap(err, "encode session")
	}
	if err := r.kv.Set(ctx, sessionPrefix+session.ID, string(b), ttl); err != nil {
		return err
	}
	return r.kv.Set(ctx, indexKey, session.ID, ttl)
}

func (r *sessionRepo) Delete(ctx context.Context, id string) error {
	s, err := r.Get(ctx, id)
	if errors.Is(err, ErrSessionNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	indexKey := userSessionPrefix + s.Username
	if current, err := r.kv.Get(ctx, indexKey); err == nil && current == id {
		if err := r.kv.Delete(ctx, indexKey); err != nil {
			return err
		}
	}
	return r.kv.Delete(ctx, sessionPrefix+id)
}
