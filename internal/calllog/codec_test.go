package calllog

import (
	"errors"
	"testing"

	"callsim/internal/calls"
)

func TestDecode_EmptyArray(t *testing.T) {
	got, err := Decode([]byte(`[]`))
	if err != nil || len(got) != 0 {
		t.Fatalf("expected empty log, got %v %v", got, err)
	}
}

func TestEncode_NilIsEmptyArray(t *testing.T) {
	data, err := Encode(nil)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if string(data) != "[]" {
		t.Fatalf("expected [], got %s", data)
	}
}

func TestDecode_RoundTripKeepsOrder(t *testing.T) {
	data, err := Encode([]calls.LogEntry{entry("C"), entry("B"), entry("A")})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := Decode(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !equalIDs(ids(got), "C", "B", "A") {
		t.Fatalf("unexpected order %v", ids(got))
	}
	if got[0].DurationSeconds != 5 || !got[0].EndedAt.Equal(entry("C").EndedAt) {
		t.Fatalf("unexpected entry %+v", got[0])
	}
}

func TestDecode_MissingContactIsCorrupt(t *testing.T) {
	payload := `[{"id":"1","status":"missed","mode":"incoming","started_at":"2023-11-14T22:13:20Z","ended_at":"2023-11-14T22:13:20Z","duration":0}]`
	if _, err := Decode([]byte(payload)); !errors.Is(err, ErrCorrupt) {
		t.Fatalf("expected ErrCorrupt, got %v", err)
	}
}
