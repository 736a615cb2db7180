package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Foxichek/wiralis/internal/domain"
	"github.com/Foxichek/wiralis/internal/dto"
	"github.com/Foxichek/wiralis/internal/store"

	"github.com/google/uuid"
)

const (
	// CodeTTL is the fixed validity window of a registration code.
	CodeTTL = 10 * time.Minute

	maxCodeAttempts = 5
)

// The service sees the store only through these capability interfaces; the
// gorm store is the production binding and tests may substitute their own.
type dataStore interface {
	Profiles() profileStore
	Codes() codeStore
	WithTx(ctx context.Context, fn func(tx dataStore) error) error
}

type profileStore interface {
	Upsert(ctx context.Context, profile *domain.Profile) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Profile, error)
	GetByTelegramID(ctx context.Context, telegramID int64) (*domain.Profile, error)
}

type codeStore interface {
	Create(ctx context.Context, code *domain.RegistrationCode) error
	Get(ctx context.Context, code string) (*domain.RegistrationCode, error)
	MarkUsed(ctx context.Context, code string, usedAt time.Time) (bool, error)
}

type gormStoreAdapter struct {
	store *store.Store
}

func (g gormStoreAdapter) Profiles() profileStore { return g.store.Profiles() }

func (g gormStoreAdapter) Codes() codeStore { return g.store.Codes() }

func (g gormStoreAdapter) WithTx(ctx context.Context, fn func(tx dataStore) error) error {
	return g.store.WithTx(ctx, func(tx *store.Store) error {
		return fn(gormStoreAdapter{store: tx})
	})
}

type Service struct {
	store  dataStore
	admins map[int64]struct{}
}

// New builds the service over the gorm store. adminTelegramIDs is the
// configured set of Telegram identities whose profiles are marked with the
// admin role on issuance.
func New(st *store.Store, adminTelegramIDs []int64) *Service {
	return newService(gormStoreAdapter{store: st}, adminTelegramIDs)
}

func newService(st dataStore, adminTelegramIDs []int64) *Service {
	admins := make(map[int64]struct{}, len(adminTelegramIDs))
	for _, id := range adminTelegramIDs {
		admins[id] = struct{}{}
	}
	return &Service{store: st, admins: admins}
}

// Issue mints a fresh single-use code for the given Telegram identity and
// upserts the identity's profile snapshot. Both writes happen in one
// transaction: a failed code insert rolls the profile upsert back too.
func (s *Service) Issue(ctx context.Context, req dto.GenerateCodeRequest) (dto.GenerateCodeResponse, error) {
	if req.TelegramID == 0 {
		return dto.GenerateCodeResponse{}, fmt.Errorf("%w: telegramId is required", domain.ErrInvalidRequest)
	}
	if req.DisplayName == "" {
		return dto.GenerateCodeResponse{}, fmt.Errorf("%w: displayName is required", domain.ErrInvalidRequest)
	}
	if len(req.ShortCode) > 4 {
		return dto.GenerateCodeResponse{}, fmt.Errorf("%w: shortCode must be at most 4 characters", domain.ErrInvalidRequest)
	}

	role := domain.RoleMember
	if _, ok := s.admins[req.TelegramID]; ok {
		role = domain.RoleAdmin
	}
	profile := &domain.Profile{
		TelegramID:  req.TelegramID,
		DisplayName: req.DisplayName,
		Username:    req.Username,
		Quote:       req.Quote,
		ShortCode:   req.ShortCode,
		Role:        role,
	}

	var out dto.GenerateCodeResponse
	err := s.store.WithTx(ctx, func(tx dataStore) error {
		if err := tx.Profiles().Upsert(ctx, profile); err != nil {
			return err
		}

		now := time.Now().UTC()
		rc := &domain.RegistrationCode{
			TelegramID: req.TelegramID,
			CreatedAt:  now,
			ExpiresAt:  now.Add(CodeTTL),
		}
		for attempt := 0; attempt < maxCodeAttempts; attempt++ {
			code, err := generateCode()
			if err != nil {
				return err
			}
			rc.Code = code
			// The nested transaction becomes a savepoint, so a duplicate-key
			// rollback doesn't poison the outer transaction.
			err = tx.WithTx(ctx, func(tx dataStore) error {
				return tx.Codes().Create(ctx, rc)
			})
			switch {
			case err == nil:
				out = dto.GenerateCodeResponse{Code: rc.Code, ExpiresAt: rc.ExpiresAt}
				return nil
			case errors.Is(err, store.ErrDuplicateCode):
				// Redraw. The alphabet makes collisions astronomically rare.
			default:
				return err
			}
		}
		return fmt.Errorf("code generation collided %d times", maxCodeAttempts)
	})
	if err != nil {
		return dto.GenerateCodeResponse{}, err
	}
	return out, nil
}

// Redeem consumes a code and returns the profile it was issued for. A code
// value redeems successfully at most once: the conditional mark-used update in
// the store is the deciding step for concurrent attempts.
func (s *Service) Redeem(ctx context.Context, code string) (*domain.Profile, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if !validCode(code) {
		return nil, fmt.Errorf("%w: code must be %d characters from A-Z and 0-9", domain.ErrInvalidRequest, CodeLength)
	}

	rc, err := s.store.Codes().Get(ctx, code)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, domain.ErrCodeNotFound
		}
		return nil, err
	}

	now := time.Now().UTC()
	// Expiry is checked before the used flag so a stale code always reports
	// as expired, whatever happened to it in the meantime.
	if now.After(rc.ExpiresAt) {
		return nil, domain.ErrCodeExpired
	}
	if rc.IsUsed {
		return nil, domain.ErrCodeUsed
	}

	profile, err := s.store.Profiles().GetByTelegramID(ctx, rc.TelegramID)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			// Integrity fault: a live code should never outlive its profile.
			// The code is left unconsumed.
			return nil, domain.ErrProfileNotFound
		}
		return nil, err
	}

	ok, err := s.store.Codes().MarkUsed(ctx, code, now)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrCodeUsed
	}
	return profile, nil
}

// GetProfile is the public re-fetch path used by the web client after the
// code exchange. Pure read.
func (s *Service) GetProfile(ctx context.Context, id string) (*domain.Profile, error) {
	pid, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrProfileNotFound
	}
	profile, err := s.store.Profiles().GetByID(ctx, pid)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, err
	}
	return profile, nil
}
