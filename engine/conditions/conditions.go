// Package conditions evaluates predicates against the Registry.
package conditions

import (
	"github.com/nathoo/islecore/engine/state"
	"github.com/nathoo/islecore/types"
)

// Eval evaluates a single condition against the current Registry.
func Eval(c types.Condition, r *state.Registry) bool {
	switch c.Type {
	case "has_item":
		item, _ := c.Params["item"].(string)
		return r.HasItem(item)

	case "has_fruit":
		fruit, _ := c.Params["fruit"].(string)
		return r.Player.Fruit != nil && (fruit == "" || r.Player.Fruit.ID == fruit)

	case "flag_set":
		flag, _ := c.Params["flag"].(string)
		return r.GetFlag(flag)

	case "flag_not":
		flag, _ := c.Params["flag"].(string)
		return !r.GetFlag(flag)

	case "in_location":
		loc, _ := c.Params["location"].(string)
		return r.Player.Position == loc

	case "not":
		if c.Inner == nil {
			return true
		}
		return !Eval(*c.Inner, r)

	default:
		return false
	}
}

// EvalAll returns true if all conditions pass (AND logic).
// An empty condition list is vacuously true.
func EvalAll(conds []types.Condition, r *state.Registry) bool {
	for _, c := range conds {
		if !Eval(c, r) {
			return false
		}
	}
	return true
}

// HasItem builds a has_item condition.
func HasItem(id string) types.Condition {
	return types.Condition{Type: "has_item", Params: map[string]any{"item": id}}
}

// FlagNot builds a flag_not condition.
func FlagNot(flag string) types.Condition {
	return types.Condition{Type: "flag_not", Params: map[string]any{"flag": flag}}
}

// FlagSet builds a flag_set condition.
func FlagSet(flag string) types.Condition {
	return types.Condition{Type: "flag_set", Params: map[string]any{"flag": flag}}
}

// HasFruit builds a has_fruit condition. An empty id accepts any fruit.
func HasFruit(id string) types.Condition {
	return types.Condition{Type: "has_fruit", Params: map[string]any{"fruit": id}}
}

// InLocation builds an in_location condition.
func InLocation(loc string) types.Condition {
	return types.Condition{Type: "in_location", Params: map[string]any{"location": loc}}
}

// Not negates c.
func Not(c types.Condition) types.Condition {
	return types.Condition{Type: "not", Inner: &c}
}
