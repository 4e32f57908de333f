package domain

import (
	"fmt"
	"slices"
	"strings"

	apperrors "neurofade/internal/platform/errors"
)

// StorageKey is the single key the block list is persisted under.
const StorageKey = "blocked_apps"

// BlockList is an ordered set of app identifiers. Insertion order is kept
// and duplicates are dropped.
type BlockList struct {
	ids []string
}

// New builds a block list, trimming ids and dropping blanks and duplicates.
func New(ids ...string) BlockList {
	var b BlockList
	for _, id := range ids {
		_ = b.Add(id)
	}
	return b
}

// Add appends id unless it is already present. Blank ids are rejected.
func (b *BlockList) Add(id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("%w: app id is required", apperrors.ErrInvalidInput)
	}
	if !slices.Contains(b.ids, id) {
		b.ids = append(b.ids, id)
	}
	return nil
}

// Remove drops id and reports whether it was present.
func (b *BlockList) Remove(id string) bool {
	idx := slices.Index(b.ids, strings.TrimSpace(id))
	if idx < 0 {
		return false
	}
	b.ids = slices.Delete(b.ids, idx, idx+1)
	return true
}

func (b BlockList) Contains(id string) bool {
	return slices.Contains(b.ids, id)
}

func (b BlockList) IDs() []string {
	return slices.Clone(b.ids)
}

func (b BlockList) Len() int {
	return len(b.ids)
}

type App struct {
	ID              string
	Name            string
	DefaultSelected bool
}

// Catalog lists the apps offered for blocking out of the box.
var Catalog = []App{
	{ID: "instagram", Name: "Instagram", DefaultSelected: true},
	{ID: "twitter", Name: "Twitter"},
	{ID: "tiktok", Name: "TikTok", DefaultSelected: true},
	{ID: "facebook", Name: "Facebook"},
	{ID: "youtube", Name: "YouTube", DefaultSelected: true},
}

// DefaultSelection is used until the user saves a block list.
func DefaultSelection() BlockList {
	var b BlockList
	for _, app := range Catalog {
		if app.DefaultSelected {
			_ = b.Add(app.ID)
		}
	}
	return b
}
