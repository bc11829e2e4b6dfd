// Package parser converts command strings into Intent structs.
// Intentionally dumb: no NLP, just pattern matching.
package parser

import (
	"strconv"
	"strings"

	"github.com/nathoo/islecore/types"
)

var directionExpansions = map[string]types.Orientation{
	"n":     types.North,
	"s":     types.South,
	"e":     types.East,
	"w":     types.West,
	"north": types.North,
	"south": types.South,
	"east":  types.East,
	"west":  types.West,
}

var verbAliases = map[string]string{
	// Look
	"l":       "look",
	"examine": "look",
	"x":       "look",
	"search":  "look",

	// Walking between sub-locations
	"walk": "go",
	"move": "go",
	"head": "go",
	"run":  "go",

	// Sailing between locations
	"travel":   "sail",
	"voyage":   "sail",
	"navigate": "sail",

	// Capture
	"get":     "take",
	"grab":    "take",
	"capture": "take",
	"collect": "take",

	// Fruits
	"equip": "claim",

	// Consume
	"eat":     "use",
	"drink":   "use",
	"consume": "use",

	// NPCs
	"speak":    "talk",
	"chat":     "talk",
	"ask":      "talk",
	"interact": "talk",
	"greet":    "talk",
	"fight":    "attack",
	"hit":      "attack",
	"strike":   "attack",

	// Confirmations
	"y":    "yes",
	"ok":   "yes",
	"sure": "yes",
	"nope": "no",

	// Miscellaneous
	"inv":   "inventory",
	"i":     "inventory",
	"stats": "status",
	"hp":    "status",
	"?":     "help",
}

var prepositions = map[string]bool{
	"to": true, "with": true, "at": true, "on": true,
}

var articles = map[string]bool{
	"the": true, "a": true, "an": true,
}

// Parse converts a raw command string into an Intent.
func Parse(input string) types.Intent {
	input = strings.TrimSpace(input)
	if input == "" {
		return types.Intent{}
	}

	words := strings.Fields(strings.ToLower(input))

	if len(words) == 1 {
		// Direction shortcut: bare "n", "south", etc. → go <direction>
		if dir, ok := directionExpansions[words[0]]; ok {
			return types.Intent{Verb: "go", Object: string(dir)}
		}
		// Bare number: an attack choice during combat.
		if _, err := strconv.Atoi(words[0]); err == nil {
			return types.Intent{Verb: "attack", Object: words[0]}
		}
	}

	words = expandMultiWordVerbs(words)

	if alias, ok := verbAliases[words[0]]; ok {
		words[0] = alias
	}

	verb := words[0]
	rest := stripArticles(words[1:])

	// "talk to makino", "attack with 2": drop a leading preposition.
	if len(rest) > 0 && prepositions[rest[0]] {
		rest = rest[1:]
	}

	object := strings.Join(rest, " ")
	if verb == "go" || verb == "sail" {
		if dir, ok := directionExpansions[object]; ok {
			object = string(dir)
		}
	}

	return types.Intent{Verb: verb, Object: object}
}

// Direction returns the Orientation named by s, accepting abbreviations.
func Direction(s string) (types.Orientation, bool) {
	dir, ok := directionExpansions[strings.ToLower(strings.TrimSpace(s))]
	return dir, ok
}

// expandMultiWordVerbs handles "pick up", "look around", "set sail" etc.
func expandMultiWordVerbs(words []string) []string {
	if len(words) < 2 {
		return words
	}

	switch words[0] {
	case "pick":
		if words[1] == "up" {
			return append([]string{"take"}, words[2:]...)
		}
	case "look":
		if words[1] == "around" || words[1] == "at" {
			return append([]string{"look"}, words[2:]...)
		}
	case "set":
		if words[1] == "sail" {
			return append([]string{"sail"}, words[2:]...)
		}
	case "talk", "speak":
		if words[1] == "to" || words[1] == "with" {
			return append([]string{"talk"}, words[2:]...)
		}
	}

	return words
}

// stripArticles removes articles ("the", "a", "an") from the word list.
func stripArticles(words []string) []string {
	result := make([]string, 0, len(words))
	for _, w := range words {
		if !articles[w] {
			result = append(result, w)
		}
	}
	return result
}
