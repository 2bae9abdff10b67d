package gesture

import (
	"errors"
	"math"
	"testing"
)

func TestClassifier_Boundaries(t *testing.T) {
	c, err := NewClassifier(100)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if c.Threshold() != 80 {
		t.Fatalf("expected threshold 80, got %v", c.Threshold())
	}

	cases := []struct {
		x    float64
		want Decision
	}{
		{81, Accept},
		{-81, Reject},
		{0, Cancel},
		{80, Cancel},
		{-80, Cancel},
		{80.0001, Accept},
		{500, Accept},
		{math.NaN(), Cancel},
	}
	for _, tc := range cases {
		if got := c.Classify(tc.x); got != tc.want {
			t.Fatalf("Classify(%v): expected %q, got %q", tc.x, tc.want, got)
		}
	}
}

func TestNewClassifier_RejectsInvalidMax(t *testing.T) {
	for _, m := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		if _, err := NewClassifier(m); !errors.Is(err, ErrInvalidTrack) {
			t.Fatalf("NewClassifier(%v): expected ErrInvalidTrack, got %v", m, err)
		}
	}
}

func TestTrack_MaxSwipe(t *testing.T) {
	c, err := NewTrackClassifier(Track{Width: 335, ButtonSize: 70})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if c.Max() != 132.5 {
		t.Fatalf("expected 132.5, got %v", c.Max())
	}
	if _, err := NewTrackClassifier(Track{Width: 60, ButtonSize: 70}); err == nil {
		t.Fatalf("expected error for track narrower than button")
	}
}

func TestClassifier_Clamp(t *testing.T) {
	c, _ := NewClassifier(100)
	cases := map[float64]float64{150: 100, -150: -100, 42: 42}
	for in, want := range cases {
		if got := c.Clamp(in); got != want {
			t.Fatalf("Clamp(%v): expected %v, got %v", in, want, got)
		}
	}
	if got := c.Clamp(math.NaN()); got != 0 {
		t.Fatalf("expected NaN to clamp to 0, got %v", got)
	}
}
