package parser

import (
	"testing"

	"github.com/nathoo/islecore/types"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  types.Intent
	}{
		// Empty / whitespace
		{name: "empty string", input: "", want: types.Intent{}},
		{name: "whitespace only", input: "   ", want: types.Intent{}},

		// Basic verbs
		{name: "look", input: "look", want: types.Intent{Verb: "look"}},
		{name: "inventory", input: "inventory", want: types.Intent{Verb: "inventory"}},
		{name: "status", input: "status", want: types.Intent{Verb: "status"}},

		// Verb aliases
		{name: "l → look", input: "l", want: types.Intent{Verb: "look"}},
		{name: "i → inventory", input: "i", want: types.Intent{Verb: "inventory"}},
		{name: "hp → status", input: "hp", want: types.Intent{Verb: "status"}},
		{name: "get hat → take hat", input: "get hat", want: types.Intent{Verb: "take", Object: "hat"}},
		{name: "eat meat → use meat", input: "eat meat", want: types.Intent{Verb: "use", Object: "meat"}},
		{name: "equip → claim", input: "equip", want: types.Intent{Verb: "claim"}},
		{name: "fight arlong → attack arlong", input: "fight arlong", want: types.Intent{Verb: "attack", Object: "arlong"}},
		{name: "y → yes", input: "y", want: types.Intent{Verb: "yes"}},

		// Direction shortcuts
		{name: "n → go north", input: "n", want: types.Intent{Verb: "go", Object: "north"}},
		{name: "west → go west", input: "west", want: types.Intent{Verb: "go", Object: "west"}},
		{name: "go e", input: "go e", want: types.Intent{Verb: "go", Object: "east"}},
		{name: "walk south", input: "walk south", want: types.Intent{Verb: "go", Object: "south"}},
		{name: "sail n", input: "sail n", want: types.Intent{Verb: "sail", Object: "north"}},
		{name: "set sail east", input: "Set Sail East", want: types.Intent{Verb: "sail", Object: "east"}},

		// Multi-word verbs and prepositions
		{name: "pick up all", input: "pick up all", want: types.Intent{Verb: "take", Object: "all"}},
		{name: "talk to makino", input: "talk to Makino", want: types.Intent{Verb: "talk", Object: "makino"}},
		{name: "speak with the barkeeper", input: "speak with the barkeeper", want: types.Intent{Verb: "talk", Object: "barkeeper"}},
		{name: "look around", input: "look around", want: types.Intent{Verb: "look"}},

		// Articles and multi-word objects
		{name: "take the straw hat", input: "take the straw hat", want: types.Intent{Verb: "take", Object: "straw hat"}},

		// Bare number
		{name: "2 → attack 2", input: "2", want: types.Intent{Verb: "attack", Object: "2"}},

		// Unknown verbs pass through
		{name: "unknown verb", input: "dance wildly", want: types.Intent{Verb: "dance", Object: "wildly"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.input)
			if got != tt.want {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestDirection(t *testing.T) {
	tests := []struct {
		in   string
		want types.Orientation
		ok   bool
	}{
		{"n", types.North, true},
		{"SOUTH", types.South, true},
		{" e ", types.East, true},
		{"west", types.West, true},
		{"up", "", false},
		{"northeast", "", false},
	}
	for _, tt := range tests {
		got, ok := Direction(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("Direction(%q) = %q, %v, want %q, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}
