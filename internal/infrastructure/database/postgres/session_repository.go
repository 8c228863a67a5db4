package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"fleet-console/internal/domain/account"
	"fleet-console/internal/domain/session"
	"fleet-console/internal/infrastructure/database/postgres/models"

	"gorm.io/gorm"
)

// SessionRepository implements session.Repository on PostgreSQL
type SessionRepository struct {
	db *DB
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *DB) session.Repository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Create(ctx context.Context, s *session.Session) error {
	now := time.Now()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	s.UpdatedAt = now

	dbModel, err := toSessionModel(s)
	if err != nil {
		return err
	}
	if err := r.db.DB.WithContext(ctx).Create(dbModel).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return session.ErrSessionExists
		}
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

func (r *SessionRepository) GetByID(ctx context.Context, id string) (*session.Session, error) {
	var dbModel models.SessionModel
	err := r.db.DB.WithContext(ctx).
		Where("id = ? AND (expires_at IS NULL OR expires_at > ?)", id, time.Now()).
		First(&dbModel).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, session.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	return toSessionEntity(&dbModel)
}

func (r *SessionRepository) UpdateTokens(ctx context.Context, id, accessToken, refreshToken string, expiresAt time.Time) error {
	updates := map[string]interface{}{
		"access_token":  accessToken,
		"refresh_token": refreshToken,
		"updated_at":    time.Now(),
	}
	if !expiresAt.IsZero() {
		updates["expires_at"] = expiresAt
	}
	return r.update(ctx, id, updates)
}

func (r *SessionRepository) SetMe(ctx context.Context, id string, me *account.Me) error {
	encoded, err := encodeMe(me)
	if err != nil {
		return err
	}
	return r.update(ctx, id, map[string]interface{}{
		"me":         encoded,
		"updated_at": time.Now(),
	})
}

func (r *SessionRepository) update(ctx context.Context, id string, updates map[string]interface{}) error {
	result := r.db.DB.WithContext(ctx).
		Model(&models.SessionModel{}).
		Where("id = ?", id).
		Updates(updates)

	if result.Error != nil {
		return fmt.Errorf("failed to update session: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return session.ErrSessionNotFound
	}
	return nil
}

func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	result := r.db.DB.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.SessionModel{})

	if result.Error != nil {
		return fmt.Errorf("failed to delete session: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return session.ErrSessionNotFound
	}
	return nil
}

func (r *SessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.DB.WithContext(ctx).
		Where("expires_at IS NOT NULL AND expires_at < ?", now).
		Delete(&models.SessionModel{})

	return result.RowsAffected, result.Error
}

func (r *SessionRepository) Health(ctx context.Context) error {
	return r.db.Health(ctx)
}

// Helper functions to convert between domain entities and database models

func encodeMe(me *account.Me) (*string, error) {
	if me == nil {
		return nil, nil
	}
	b, err := json.Marshal(me)
	if err != nil {
		return nil, fmt.Errorf("failed to encode principal: %w", err)
	}
	s := string(b)
	return &s, nil
}

func toSessionModel(s *session.Session) (*models.SessionModel, error) {
	me, err := encodeMe(s.Me)
	if err != nil {
		return nil, err
	}

	var expiresAt *time.Time
	if !s.ExpiresAt.IsZero() {
		expiresAt = &s.ExpiresAt
	}

	return &models.SessionModel{
		ID:           s.ID,
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		Me:           me,
		ExpiresAt:    expiresAt,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}, nil
}

func toSessionEntity(m *models.SessionModel) (*session.Session, error) {
	s := &session.Session{
		ID:           m.ID,
		AccessToken:  m.AccessToken,
		RefreshToken: m.RefreshToken,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
	if m.ExpiresAt != nil {
		s.ExpiresAt = *m.ExpiresAt
	}
	if m.Me != nil && *m.Me != "" {
		var me account.Me
		if err := json.Unmarshal([]byte(*m.Me), &me); err != nil {
			return nil, fmt.Errorf("failed to decode principal: %w", err)
		}
		s.Me = &me
	}
	return s, nil
}
