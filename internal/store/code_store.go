package store

import (
	"context"
	"errors"
	"time"

	"github.com/Foxichek/wiralis/internal/domain"

	"gorm.io/gorm"
)

type CodeStore struct{ db *gorm.DB }

func (s *Store) Codes() *CodeStore { return &CodeStore{db: s.DB} }

// Create inserts a fresh registration code. The code column is the primary
// key, so a collision with any existing value (live or inert) surfaces as
// ErrDuplicateCode and the caller redraws.
func (c *CodeStore) Create(ctx context.Context, code *domain.RegistrationCode) error {
	if err := c.db.WithContext(ctx).Create(code).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateCode
		}
		return err
	}
	return nil
}

func (c *CodeStore) Get(ctx context.Context, code string) (*domain.RegistrationCode, error) {
	var rc domain.RegistrationCode
	if err := c.db.WithContext(ctx).First(&rc, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &rc, nil
}

// MarkUsed flips is_used exactly once. The guard on is_used makes the update
// the linearization point for redemption: zero rows affected means another
// request consumed the code first.
func (c *CodeStore) MarkUsed(ctx context.Context, code string, usedAt time.Time) (bool, error) {
	res := c.db.WithContext(ctx).Model(&domain.RegistrationCode{}).
		Where("code = ? AND is_used = ?", code, false).
		Updates(map[string]any{"is_used": true, "used_at": usedAt})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
