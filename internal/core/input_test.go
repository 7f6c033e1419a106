package core

import (
	"reflect"
	"testing"
)

func TestAddButton(t *testing.T) {
	pos := V(3, 4)
	tests := []struct {
		name                    string
		pressed, released, held bool
		expected                []PointerKind
	}{
		{"idle", false, false, false, nil},
		{"press", true, false, true, []PointerKind{PointerDown}},
		{"hold", false, false, true, []PointerKind{PointerMove}},
		{"release", false, true, false, []PointerKind{PointerUp}},
		{"click within one frame", true, true, false, []PointerKind{PointerDown, PointerUp}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := NewInputFrame()
			f.AddButton(tc.pressed, tc.released, tc.held, pos)

			var got []PointerKind
			for _, ev := range f.Pointer {
				got = append(got, ev.Kind)
				if ev.Pos != pos {
					t.Errorf("event %v at %+v, expected %+v", ev.Kind, ev.Pos, pos)
				}
			}
			if !reflect.DeepEqual(got, tc.expected) {
				t.Errorf("AddButton() queued %v, expected %v", got, tc.expected)
			}
		})
	}
}
