package service

import (
	"context"
	"errors"
	"fmt"

	"neurofade/internal/modules/blocklist/domain"
	blocklistout "neurofade/internal/modules/blocklist/port/out"
	"neurofade/internal/platform/codec"
	apperrors "neurofade/internal/platform/errors"
)

// Repository stores the block list as a CBOR array of ids under a single
// key.
type Repository struct {
	store blocklistout.KVStore
}

func NewRepository(store blocklistout.KVStore) *Repository {
	return &Repository{store: store}
}

// Load returns the saved block list, or the default selection when nothing
// has been saved yet.
func (r *Repository) Load(ctx context.Context) (domain.BlockList, error) {
	raw, err := r.store.Get(ctx, domain.StorageKey)
	if errors.Is(err, apperrors.ErrNotFound) {
		return domain.DefaultSelection(), nil
	}
	if err != nil {
		return domain.BlockList{}, fmt.Errorf("load block list: %w", err)
	}
	var ids []string
	if err := codec.Unmarshal(raw, &ids); err != nil {
		return domain.BlockList{}, fmt.Errorf("decode block list: %w", err)
	}
	return domain.New(ids...), nil
}

func (r *Repository) Save(ctx context.Context, list domain.BlockList) error {
	ids := list.IDs()
	if ids == nil {
		ids = []string{}
	}
	raw, err := codec.Marshal(ids)
	if err != nil {
		return fmt.Errorf("encode block list: %w", err)
	}
	if err := r.store.Put(ctx, domain.StorageKey, raw); err != nil {
		return fmt.Errorf("save block list: %w", err)
	}
	return nil
}
