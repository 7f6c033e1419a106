package config

import "math/rand"

// Provider draws per-run random values from GameSettings.
// All draws come from the supplied generator so seeded runs are reproducible.
type Provider struct {
	settings GameSettings
	rng      *rand.Rand
}

// NewProvider creates a provider over settings using rng.
func NewProvider(settings GameSettings, rng *rand.Rand) *Provider {
	return &Provider{settings: settings, rng: rng}
}

// Settings returns the ranges the provider draws from.
func (p *Provider) Settings() GameSettings {
	return p.settings
}

// FiguresToWin draws the win threshold from [min, max] inclusive.
func (p *Provider) FiguresToWin() int {
	lo, hi := p.settings.MinFiguresToWin, p.settings.MaxFiguresToWin
	if hi <= lo {
		return max(lo, 1)
	}
	return lo + p.rng.Intn(hi-lo+1)
}

// SpawnTimeout draws seconds until the next spawn from [min, max).
func (p *Provider) SpawnTimeout() float64 {
	return p.uniform(p.settings.MinSpawnTimeout, p.settings.MaxSpawnTimeout)
}

// Speed draws a shape speed from [min, max).
func (p *Provider) Speed() float64 {
	return p.uniform(p.settings.MinSpeed, p.settings.MaxSpeed)
}

// Lives returns the initial lives for a run.
func (p *Provider) Lives() int {
	return p.settings.Lives
}

// Intn exposes the generator for uniform picks (lanes, shapes).
func (p *Provider) Intn(n int) int {
	return p.rng.Intn(n)
}

func (p *Provider) uniform(lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return lo + p.rng.Float64()*(hi-lo)
}
