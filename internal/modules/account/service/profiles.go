package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"neurofade/internal/modules/account/domain"
	accountout "neurofade/internal/modules/account/port/out"
	"neurofade/internal/platform/codec"
	apperrors "neurofade/internal/platform/errors"
)

const profileKey = "account_user"

type profileRecord struct {
	Username    string    `cbor:"username"`
	FirstName   string    `cbor:"first_name,omitempty"`
	LastName    string    `cbor:"last_name,omitempty"`
	WatchSynced bool      `cbor:"watch_synced,omitempty"`
	LoggedInAt  time.Time `cbor:"logged_in_at"`
}

// Profiles keeps the logged-in user across processes. A record with an
// empty username means nobody is logged in.
type Profiles struct {
	store accountout.ProfileStore
}

func NewProfiles(store accountout.ProfileStore) *Profiles {
	return &Profiles{store: store}
}

// Load returns the saved user and whether one is logged in.
func (p *Profiles) Load(ctx context.Context) (domain.User, bool, error) {
	raw, err := p.store.Get(ctx, profileKey)
	if errors.Is(err, apperrors.ErrNotFound) {
		return domain.User{}, false, nil
	}
	if err != nil {
		return domain.User{}, false, fmt.Errorf("load profile: %w", err)
	}
	var rec profileRecord
	if err := codec.Unmarshal(raw, &rec); err != nil {
		return domain.User{}, false, fmt.Errorf("decode profile: %w", err)
	}
	if rec.Username == "" {
		return domain.User{}, false, nil
	}
	return domain.User{
		Username:    rec.Username,
		FirstName:   rec.FirstName,
		LastName:    rec.LastName,
		WatchSynced: rec.WatchSynced,
		LoggedInAt:  rec.LoggedInAt,
	}, true, nil
}

func (p *Profiles) Save(ctx context.Context, u domain.User) error {
	return p.put(ctx, profileRecord{
		Username:    u.Username,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		WatchSynced: u.WatchSynced,
		LoggedInAt:  u.LoggedInAt.UTC(),
	})
}

func (p *Profiles) Clear(ctx context.Context) error {
	return p.put(ctx, profileRecord{})
}

func (p *Profiles) put(ctx context.Context, rec profileRecord) error {
	raw, err := codec.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	if err := p.store.Put(ctx, profileKey, raw); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}
