package registry

import (
	"testing"

	"github.com/vovakirdan/shapesort/internal/core"
)

type stubGame struct{ id string }

func (g *stubGame) ID() string                           { return g.id }
func (g *stubGame) Title() string                        { return "Stub " + g.id }
func (g *stubGame) Reset(core.RuntimeConfig)             {}
func (g *stubGame) Step(core.InputFrame) core.StepResult { return core.StepResult{} }
func (g *stubGame) Render(*core.Screen)                  {}
func (g *stubGame) State() core.GameState                { return core.GameState{} }

func TestRegisterAndCreate(t *testing.T) {
	Register("stub_b", func() Game { return &stubGame{id: "stub_b"} })
	Register("stub_a", func() Game { return &stubGame{id: "stub_a"} })

	if !Exists("stub_a") || !Exists("stub_b") {
		t.Fatal("registered games should exist")
	}
	if Exists("missing") {
		t.Error("Exists(\"missing\") = true, expected false")
	}

	g, err := Create("stub_a")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if g.ID() != "stub_a" {
		t.Errorf("Create() ID = %q, expected stub_a", g.ID())
	}

	if _, err := Create("missing"); err == nil {
		t.Error("Create(\"missing\") should fail")
	}

	var titles []string
	for _, info := range List() {
		if info.ID == "stub_a" || info.ID == "stub_b" {
			titles = append(titles, info.Title)
		}
	}
	if len(titles) != 2 || titles[0] != "Stub stub_a" || titles[1] != "Stub stub_b" {
		t.Errorf("List() titles = %v, expected sorted stub titles", titles)
	}

	ids := IDs()
	for i := 1; i < len(ids); i++ {
		if ids[i-1] >= ids[i] {
			t.Errorf("IDs() = %v, expected sorted", ids)
		}
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	Register("stub_dup", func() Game { return &stubGame{id: "stub_dup"} })

	defer func() {
		if recover() == nil {
			t.Error("registering a duplicate ID should panic")
		}
	}()
	Register("stub_dup", func() Game { return &stubGame{id: "stub_dup"} })
}
