package codec_test

import (
	"bytes"
	"testing"

	"neurofade/internal/platform/codec"
)

func TestMarshalIsDeterministicForStringLists(t *testing.T) {
	t.Parallel()
	first, err := codec.Marshal([]string{"com.instagram", "com.tiktok"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	second, err := codec.Marshal([]string{"com.instagram", "com.tiktok"})
	if err != nil {
		t.Fatalf("marshal again: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Fatalf("expected identical encodings, got %x vs %x", first, second)
	}

	var decoded []string
	if err := codec.Unmarshal(first, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(decoded) != 2 || decoded[1] != "com.tiktok" {
		t.Fatalf("unexpected decoded list %v", decoded)
	}
}

func TestUnmarshalRejectsGarbage(t *testing.T) {
	t.Parallel()
	var decoded []string
	if err := codec.Unmarshal([]byte{0xff, 0x00}, &decoded); err == nil {
		t.Fatalf("expected decode error")
	}
}
