package gesture

import (
	"errors"
	"math"
)

// Decision is the outcome of one completed swipe.
type Decision string

const (
	Accept Decision = "accept"
	Reject Decision = "reject"
	// Cancel means the control must spring back to displacement 0.
	Cancel Decision = "cancel"
)

// ThresholdRatio is the fraction of the maximum displacement a swipe must pass.
const ThresholdRatio = 0.8

var ErrInvalidTrack = errors.New("gesture: maximum displacement must be positive")

// Track describes the swipe control geometry in screen points.
type Track struct {
	Width      float64
	ButtonSize float64
}

// MaxSwipe is how far the button can travel from the centre to either end.
func (t Track) MaxSwipe() float64 { return (t.Width - t.ButtonSize) / 2 }

// Classifier turns a finished drag into a Decision. It is stateless;
// the caller owns the live position of the control.
type Classifier struct {
	max       float64
	threshold float64
}

func NewClassifier(maxSwipe float64) (Classifier, error) {
	if !(maxSwipe > 0) || math.IsInf(maxSwipe, 0) {
		return Classifier{}, ErrInvalidTrack
	}
	return Classifier{max: maxSwipe, threshold: maxSwipe * ThresholdRatio}, nil
}

func NewTrackClassifier(t Track) (Classifier, error) { return NewClassifier(t.MaxSwipe()) }

func (c Classifier) Max() float64       { return c.max }
func (c Classifier) Threshold() float64 { return c.threshold }

// Classify evaluates the cumulative horizontal displacement at gesture end.
// The threshold itself is not enough: x must exceed it.
func (c Classifier) Classify(x float64) Decision {
	switch {
	case x > c.threshold:
		return Accept
	case x < -c.threshold:
		return Reject
	default:
		return Cancel
	}
}

// Clamp bounds an intermediate displacement to the track for rendering.
func (c Classifier) Clamp(x float64) float64 {
	if math.IsNaN(x) {
		return 0
	}
	return math.Max(-c.max, math.Min(c.max, x))
}
