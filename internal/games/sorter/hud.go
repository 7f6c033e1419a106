package sorter

import "github.com/vovakirdan/shapesort/internal/events"

// HUD mirrors the outward notifications for frontends. It only listens.
type HUD struct {
	Score      int
	Lives      int
	Target     int
	Outcome    Outcome
	FinalScore int
}

// NewHUD subscribes a HUD to score, lives and terminal events.
func NewHUD(bus *Bus, lives, target int) *HUD {
	h := &HUD{Lives: lives, Target: target}
	bus.Subscribe(events.ScoreChanged, func(ev Event) { h.Score = ev.Value })
	bus.Subscribe(events.LivesChanged, func(ev Event) { h.Lives = ev.Value })
	bus.Subscribe(events.GameOver, func(ev Event) {
		if h.Outcome == OutcomeNone {
			h.Outcome = OutcomeLose
			h.FinalScore = ev.Value
		}
	})
	bus.Subscribe(events.GameWin, func(ev Event) {
		if h.Outcome == OutcomeNone {
			h.Outcome = OutcomeWin
			h.FinalScore = ev.Value
		}
	})
	return h
}
