package contacts

import (
	"errors"
	"testing"
)

func TestSeed_BuildsDemoContacts(t *testing.T) {
	list := Seed(100)
	if len(list) != 100 {
		t.Fatalf("expected 100 contacts, got %d", len(list))
	}
	if list[0].ID != "1" || list[0].Name != "Contact 1" || list[0].Phone != "+91 900001001" {
		t.Fatalf("unexpected first contact: %+v", list[0])
	}
	if list[99].Phone != "+91 900001100" {
		t.Fatalf("unexpected last phone: %q", list[99].Phone)
	}
}

func TestMemoryDirectory_Page(t *testing.T) {
	d := NewMemoryDirectory(Seed(100), 12)

	cases := []struct {
		page    int
		wantLen int
		firstID string
	}{
		{1, 12, "1"},
		{2, 12, "13"},
		{9, 4, "97"},
		{10, 0, ""},
	}
	for _, tc := range cases {
		got, err := d.Page(tc.page)
		if err != nil {
			t.Fatalf("page %d: unexpected err: %v", tc.page, err)
		}
		if len(got) != tc.wantLen {
			t.Fatalf("page %d: expected %d contacts, got %d", tc.page, tc.wantLen, len(got))
		}
		if tc.wantLen > 0 && got[0].ID != tc.firstID {
			t.Fatalf("page %d: expected first id %q, got %q", tc.page, tc.firstID, got[0].ID)
		}
	}

	if _, err := d.Page(0); !errors.Is(err, ErrInvalidPage) {
		t.Fatalf("expected ErrInvalidPage, got %v", err)
	}
}

func TestMemoryDirectory_GetAndRandom(t *testing.T) {
	d := NewMemoryDirectory(Seed(3), 0)
	c, err := d.Get("2")
	if err != nil || c.Name != "Contact 2" {
		t.Fatalf("unexpected get result: %+v %v", c, err)
	}
	if _, err := d.Get("42"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	d.rnd = func(n int) int { return n - 1 }
	r, err := d.Random()
	if err != nil || r.ID != "3" {
		t.Fatalf("unexpected random pick: %+v %v", r, err)
	}

	if _, err := NewMemoryDirectory(nil, 0).Random(); !errors.Is(err, ErrEmpty) {
		t.Fatalf("expected ErrEmpty, got %v", err)
	}
}

func TestContact_Initials(t *testing.T) {
	if got := (Contact{Name: "ada  lovelace"}).Initials(); got != "AL" {
		t.Fatalf("expected AL, got %q", got)
	}
}
