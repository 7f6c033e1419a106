package sorter

import (
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/shapesort/internal/events"
)

// Outcome is how a run ended.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeWin
	OutcomeLose
)

// String returns the name stored with saved scores.
func (o Outcome) String() string {
	switch o {
	case OutcomeWin:
		return "win"
	case OutcomeLose:
		return "lose"
	default:
		return ""
	}
}

// Tracker owns score and lives and raises the terminal events.
//
// Only the first terminal event of a run is published: once game-win or
// game-over has fired, neither fires again. Score keeps counting after that;
// lives never go below zero.
type Tracker struct {
	bus       *Bus
	logger    *log.Logger
	score     int
	lives     int
	threshold int
	outcome   Outcome
}

// NewTracker creates a tracker with fixed starting lives and win threshold.
func NewTracker(bus *Bus, lives, threshold int, logger *log.Logger) *Tracker {
	return &Tracker{
		bus:       bus,
		logger:    logger,
		lives:     lives,
		threshold: threshold,
	}
}

// AddScore adds one point.
func (t *Tracker) AddScore() {
	t.score++
	t.bus.Publish(Event{Kind: events.ScoreChanged, Value: t.score})

	if t.outcome == OutcomeNone && t.score >= t.threshold {
		t.outcome = OutcomeWin
		t.logger.Info("game won", "score", t.score, "threshold", t.threshold)
		t.bus.Publish(Event{Kind: events.GameWin, Value: t.score})
	}
}

// LoseLife removes one life.
func (t *Tracker) LoseLife() {
	if t.lives == 0 {
		t.logger.Debug("lose life ignored, no lives left")
		return
	}
	t.lives--
	t.bus.Publish(Event{Kind: events.LivesChanged, Value: t.lives})

	if t.outcome == OutcomeNone && t.lives <= 0 {
		t.outcome = OutcomeLose
		t.logger.Info("game over", "score", t.score)
		t.bus.Publish(Event{Kind: events.GameOver, Value: t.score})
	}
}

// Score returns the current score.
func (t *Tracker) Score() int { return t.score }

// Lives returns the remaining lives.
func (t *Tracker) Lives() int { return t.lives }

// Threshold returns the score needed to win.
func (t *Tracker) Threshold() int { return t.threshold }

// Outcome returns the terminal outcome, if any.
func (t *Tracker) Outcome() Outcome { return t.outcome }

// Terminal reports whether the run has ended.
func (t *Tracker) Terminal() bool { return t.outcome != OutcomeNone }
