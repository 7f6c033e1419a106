package config

import (
	"math/rand"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestEmbeddedDefaultsMatchHardcoded(t *testing.T) {
	cfg, err := Parse(DefaultYAML())
	if err != nil {
		t.Fatalf("Parse(embedded) failed: %v", err)
	}
	if !reflect.DeepEqual(cfg, DefaultSorterConfig()) {
		t.Errorf("embedded defaults drifted from DefaultSorterConfig()\ngot:  %+v\nwant: %+v", cfg, DefaultSorterConfig())
	}
	if errs := Validate(cfg); len(errs) != 0 {
		t.Errorf("default config should validate, got %v", errs)
	}
}

func TestLoadCustomPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	data := "settings:\n  lives: 7\n  min_figures_to_win: 2\n  max_figures_to_win: 2\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, source, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if source != path {
		t.Errorf("source = %q, expected %q", source, path)
	}
	if cfg.Settings.Lives != 7 || cfg.Settings.MaxFiguresToWin != 2 {
		t.Errorf("custom values not applied: %+v", cfg.Settings)
	}
	// Untouched sections keep their defaults
	if len(cfg.Shapes) != 4 || cfg.Pool.WarmSize != 20 {
		t.Errorf("partial file should keep defaults, got %d shapes, warm %d", len(cfg.Shapes), cfg.Pool.WarmSize)
	}
}

func TestLoadCustomPathErrors(t *testing.T) {
	if _, _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load() with missing custom file should fail")
	}

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(bad, []byte("settings: [unterminated"), 0o600); err != nil {
		t.Fatal(err)
	}
	_, _, err := Load(bad)
	if err == nil || !strings.Contains(err.Error(), "parse") {
		t.Errorf("Load() with bad YAML should report a parse error, got %v", err)
	}
}

func TestLoadSearchOrder(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	_, source, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if source != SourceEmbedded {
		t.Errorf("without files source = %q, expected embedded", source)
	}

	userPath := filepath.Join(home, ".shapesort", "configs", FileName)
	if err := os.MkdirAll(filepath.Dir(userPath), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(userPath, []byte("settings:\n  lives: 9\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, source, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if source != userPath {
		t.Errorf("source = %q, expected user config %q", source, userPath)
	}
	if cfg.Settings.Lives != 9 {
		t.Errorf("Lives = %d, expected 9 from user config", cfg.Settings.Lives)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*SorterConfig)
		section string
	}{
		{"no lanes", func(c *SorterConfig) { c.Lanes = nil }, "lanes"},
		{"no shapes", func(c *SorterConfig) { c.Shapes = nil }, "shapes"},
		{"unknown kind", func(c *SorterConfig) { c.Shapes[0].Kind = "hexagon" }, "shapes[0]"},
		{"unknown color", func(c *SorterConfig) { c.Shapes[1].Color = "plaid" }, "shapes[1]"},
		{"bad slot kind", func(c *SorterConfig) { c.Slots[2].Accepts = "blob" }, "slots[2]"},
		{"inverted speed", func(c *SorterConfig) { c.Settings.MinSpeed = 9; c.Settings.MaxSpeed = 1 }, "settings"},
		{"zero lives", func(c *SorterConfig) { c.Settings.Lives = 0 }, "settings"},
		{"negative pool", func(c *SorterConfig) { c.Pool.WarmSize = -1 }, "pool"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultSorterConfig()
			tc.mutate(&cfg)
			errs := Validate(cfg)
			if len(errs) == 0 {
				t.Fatal("Validate() should report a problem")
			}
			if !strings.HasPrefix(errs[0].Error(), tc.section) {
				t.Errorf("error %q should name section %q", errs[0], tc.section)
			}
		})
	}
}

func TestProviderRanges(t *testing.T) {
	p := NewProvider(DefaultSorterConfig().Settings, rand.New(rand.NewSource(1)))
	seenMin, seenMax := false, false

	for i := 0; i < 2000; i++ {
		n := p.FiguresToWin()
		if n < 10 || n > 20 {
			t.Fatalf("FiguresToWin() = %d, outside [10, 20]", n)
		}
		seenMin = seenMin || n == 10
		seenMax = seenMax || n == 20

		if s := p.SpawnTimeout(); s < 1 || s >= 3 {
			t.Fatalf("SpawnTimeout() = %f, outside [1, 3)", s)
		}
		if v := p.Speed(); v < 4 || v >= 10 {
			t.Fatalf("Speed() = %f, outside [4, 10)", v)
		}
	}
	if !seenMin || !seenMax {
		t.Error("FiguresToWin() range should be inclusive on both ends")
	}
	if p.Lives() != 3 {
		t.Errorf("Lives() = %d, expected 3", p.Lives())
	}
}

func TestProviderDegenerateRange(t *testing.T) {
	p := NewProvider(GameSettings{MinFiguresToWin: 2, MaxFiguresToWin: 2, MinSpeed: 5, MaxSpeed: 5}, rand.New(rand.NewSource(1)))
	if p.FiguresToWin() != 2 {
		t.Error("equal bounds should return the bound")
	}
	if p.Speed() != 5 {
		t.Error("equal speed bounds should return the bound")
	}
}

func TestProviderDeterministic(t *testing.T) {
	a := NewProvider(DefaultSorterConfig().Settings, rand.New(rand.NewSource(42)))
	b := NewProvider(DefaultSorterConfig().Settings, rand.New(rand.NewSource(42)))
	for i := 0; i < 50; i++ {
		if a.SpawnTimeout() != b.SpawnTimeout() || a.FiguresToWin() != b.FiguresToWin() {
			t.Fatal("same seed should give same draws")
		}
	}
}

func TestApplyPreset(t *testing.T) {
	tests := []struct {
		preset  DifficultyPreset
		enabled bool
		level   float64
		lives   int
	}{
		{DifficultyEasy, true, 0.0, 5},
		{DifficultyNormal, true, 0.3, 3},
		{DifficultyHard, true, 0.7, 2},
		{DifficultyFixed, false, 0.0, 3},
	}

	for _, tc := range tests {
		t.Run(string(tc.preset), func(t *testing.T) {
			cfg := DefaultSorterConfig()
			ApplyPreset(&cfg, tc.preset)
			if cfg.Difficulty.Enabled != tc.enabled {
				t.Errorf("Enabled = %v, expected %v", cfg.Difficulty.Enabled, tc.enabled)
			}
			if cfg.Difficulty.InitialLevel != tc.level {
				t.Errorf("InitialLevel = %f, expected %f", cfg.Difficulty.InitialLevel, tc.level)
			}
			if cfg.Settings.Lives != tc.lives {
				t.Errorf("Lives = %d, expected %d", cfg.Settings.Lives, tc.lives)
			}
		})
	}
}

func TestParsePreset(t *testing.T) {
	if p, ok := ParsePreset(""); !ok || p != DifficultyNormal {
		t.Errorf("ParsePreset(\"\") = %q, %v; expected normal", p, ok)
	}
	if _, ok := ParsePreset("nightmare"); ok {
		t.Error("ParsePreset should reject unknown names")
	}
}

func TestApplyRush(t *testing.T) {
	cfg := DefaultSorterConfig()
	ApplyRush(&cfg)
	if cfg.Settings.MaxSpawnTimeout != 1.5 || cfg.Settings.MaxSpeed != 15 {
		t.Errorf("rush settings = %+v", cfg.Settings)
	}
}

func TestDifficultyManager(t *testing.T) {
	d := NewDifficultyManager(DifficultyConfig{
		Enabled:     true,
		Progression: ProgressionConfig{Type: "score", MaxAt: 10},
		Scaling:     ScalingConfig{SpeedMultiplier: 1.0, SpawnReduction: 0.5},
	})

	if got := d.Level(5, 0); got != 0.5 {
		t.Errorf("Level(5) = %f, expected 0.5", got)
	}
	if got := d.Level(50, 0); got != 1.0 {
		t.Errorf("Level(50) = %f, expected clamped 1.0", got)
	}
	if got := d.Speed(4, 10, 0); got != 8 {
		t.Errorf("Speed at max = %f, expected 8", got)
	}
	if got := d.SpawnTimeout(2, 10, 0); got != 1 {
		t.Errorf("SpawnTimeout at max = %f, expected 1", got)
	}

	fixed := NewDifficultyManager(DifficultyConfig{Enabled: false, InitialLevel: 0.3})
	if got := fixed.Level(100, 100); got != 0.3 {
		t.Errorf("disabled Level = %f, expected initial 0.3", got)
	}
}

func TestWatcherReportsWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte("settings: {}\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	w, err := NewWatcher(path)
	if err != nil {
		t.Fatalf("NewWatcher() error: %v", err)
	}
	defer func() { _ = w.Close() }()

	// Unrelated files in the same directory are ignored
	if err := os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x: 1\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("settings:\n  lives: 4\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	select {
	case name := <-w.Events:
		if filepath.Base(name) != FileName {
			t.Errorf("event for %q, expected %s", name, FileName)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no change event within 2s")
	}
}

func TestUserConfigPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	expected := filepath.Join(home, ".shapesort", "configs", FileName)
	if got := UserConfigPath(); got != expected {
		t.Errorf("UserConfigPath() = %q, expected %q", got, expected)
	}
	if got := UserConfigDir(); got != filepath.Dir(expected) {
		t.Errorf("UserConfigDir() = %q, expected %q", got, filepath.Dir(expected))
	}
}
