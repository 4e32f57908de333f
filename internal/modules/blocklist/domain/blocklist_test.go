package domain

import (
	"errors"
	"reflect"
	"testing"

	apperrors "neurofade/internal/platform/errors"
)

func TestNewDeduplicatesAndKeepsOrder(t *testing.T) {
	t.Parallel()
	b := New(" tiktok", "instagram", "tiktok", "", "youtube ")
	want := []string{"tiktok", "instagram", "youtube"}
	if !reflect.DeepEqual(b.IDs(), want) {
		t.Fatalf("expected %v, got %v", want, b.IDs())
	}
}

func TestAddRemove(t *testing.T) {
	t.Parallel()
	var b BlockList
	if err := b.Add("   "); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	if err := b.Add("facebook"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := b.Add("facebook"); err != nil {
		t.Fatalf("re-add: %v", err)
	}
	if b.Len() != 1 || !b.Contains("facebook") {
		t.Fatalf("unexpected list %v", b.IDs())
	}
	if b.Remove("twitter") {
		t.Fatalf("removing a missing id must report false")
	}
	if !b.Remove("facebook") || b.Len() != 0 {
		t.Fatalf("expected facebook removed, got %v", b.IDs())
	}
}

func TestIDsReturnsCopy(t *testing.T) {
	t.Parallel()
	b := New("instagram")
	ids := b.IDs()
	ids[0] = "changed"
	if !b.Contains("instagram") {
		t.Fatalf("mutating IDs() must not affect the list")
	}
}

func TestDefaultSelection(t *testing.T) {
	t.Parallel()
	want := []string{"instagram", "tiktok", "youtube"}
	if got := DefaultSelection().IDs(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}
