package store

import (
	"context"
	"errors"
	"time"

	"github.com/Foxichek/wiralis/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProfileStore struct{ db *gorm.DB }

func (s *Store) Profiles() *ProfileStore { return &ProfileStore{db: s.DB} }

// Upsert creates the profile or, when a row for the same telegram_id exists,
// overwrites its display fields in place. id and created_at survive the
// conflict path so repeated issuance never re-mints the public identifier.
// On that path the receiver is not refreshed: profile.ID still holds the
// discarded candidate id, so callers needing the persisted identity must
// re-read by telegram_id.
func (p *ProfileStore) Upsert(ctx context.Context, profile *domain.Profile) error {
	now := time.Now().UTC()
	if profile.ID == uuid.Nil {
		profile.ID = uuid.New()
	}
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = now
	}
	profile.UpdatedAt = now

	return p.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "telegram_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"display_name", "username", "quote", "short_code", "role", "updated_at"}),
	}).Create(profile).Error
}

func (p *ProfileStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Profile, error) {
	var profile domain.Profile
	if err := p.db.WithContext(ctx).First(&profile, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &profile, nil
}

func (p *ProfileStore) GetByTelegramID(ctx context.Context, telegramID int64) (*domain.Profile, error) {
	var profile domain.Profile
	if err := p.db.WithContext(ctx).First(&profile, "telegram_id = ?", telegramID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &profile, nil
}
