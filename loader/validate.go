package loader

import (
	"fmt"
	"strings"

	"github.com/nathoo/islecore/engine/state"
	"github.com/nathoo/islecore/types"
)

// ValidationError collects all validation errors and warnings.
type ValidationError struct {
	Errors   []string
	Warnings []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed with %d error(s):\n  %s",
		len(e.Errors), strings.Join(e.Errors, "\n  "))
}

func (e *ValidationError) errorf(format string, args ...any) {
	e.Errors = append(e.Errors, fmt.Sprintf(format, args...))
}

func (e *ValidationError) warnf(format string, args ...any) {
	e.Warnings = append(e.Warnings, fmt.Sprintf(format, args...))
}

// validate checks the built registry for referential integrity, value
// ranges and fights that could never end.
func validate(reg *state.Registry, ve *ValidationError) {
	validateGraph(reg, ve)

	for _, o := range reg.Objects {
		validateItemPlacement(reg, ve, "object", o.ID, o.Placement)
	}
	for _, c := range reg.Consumables {
		validateItemPlacement(reg, ve, "consumable", c.ID, c.Placement)
		if c.HPRestore < 0 {
			ve.errorf("consumable %q restores negative hp %d", c.ID, c.HPRestore)
		}
	}
	boat := false
	for _, m := range reg.Mobiles {
		validatePlacement(reg, ve, "mobile", m.ID, m.Placement)
		if m.Name == state.BoatName {
			boat = true
		}
	}
	if !boat {
		ve.warnf("no mobile object named %q: the player cannot sail", state.BoatName)
	}

	for id, a := range reg.Attacks {
		if a.Power < 0 {
			ve.errorf("attack %q has negative power %d", id, a.Power)
		}
	}
	for _, f := range reg.Fruits {
		validatePlacement(reg, ve, "fruit", f.ID, f.Placement)
		validateAttacks(reg, ve, "fruit", f.ID, f.AttackIDs)
	}

	validatePlayer(reg, ve)
	for _, n := range reg.NPCs {
		validateNPC(reg, ve, n)
	}

	for _, q := range reg.Quests {
		for _, id := range q.Items {
			if _, ok := staticObject(reg, id); !ok {
				ve.errorf("quest %q item %q is not a static object", q.ID, id)
			}
		}
		for _, c := range q.Conditions {
			validateCondition(reg, ve, q.ID, c)
		}
		validatePlacement(reg, ve, "quest finale", q.ID, q.Finale)
	}
}

// staticObject looks a static object up in the world or among the
// player's starting items and reports whether it is a key.
func staticObject(reg *state.Registry, id string) (isKey, ok bool) {
	if o, ok := reg.Object(id); ok {
		return o.IsKey, true
	}
	if reg.Player != nil {
		for _, item := range reg.Player.Inventory {
			if item.ID == id && item.Kind == types.ItemStatic {
				return item.IsKey, true
			}
		}
	}
	return false, false
}

func validateCondition(reg *state.Registry, ve *ValidationError, quest string, c types.Condition) {
	switch c.Type {
	case "has_item":
		id, _ := c.Params["item"].(string)
		if _, ok := staticObject(reg, id); !ok {
			if _, ok := reg.Consumable(id); !ok {
				ve.errorf("quest %q condition refers to undefined item %q", quest, id)
			}
		}
	case "has_fruit":
		if id, _ := c.Params["fruit"].(string); id != "" {
			if _, ok := reg.Fruit(id); !ok {
				ve.errorf("quest %q condition refers to undefined fruit %q", quest, id)
			}
		}
	case "in_location":
		id, _ := c.Params["location"].(string)
		if _, ok := reg.Locations[id]; !ok {
			ve.errorf("quest %q condition refers to undefined location %q", quest, id)
		}
	case "not":
		if c.Inner != nil {
			validateCondition(reg, ve, quest, *c.Inner)
		}
	}
}

func validateGraph(reg *state.Registry, ve *ValidationError) {
	g := reg.Graph()
	for _, id := range reg.LocationOrder {
		l := reg.Locations[id]
		for _, dir := range types.Orientations {
			target, ok := l.Exits[dir]
			if !ok {
				continue
			}
			if _, ok := reg.Locations[target]; !ok {
				ve.errorf("location %q exit %s points to undefined location %q", id, dir, target)
			}
		}
		if l.RequiredKey != "" {
			if isKey, ok := staticObject(reg, l.RequiredKey); !ok || !isKey {
				ve.errorf("location %q requires %q, which is not a key object", id, l.RequiredKey)
			}
		}
		if _, ok := g.Entry(id); !ok {
			ve.warnf("location %q has no %s sub-location: arrivals by boat cannot land", id, state.EntryPrefix)
		}
	}

	for id, s := range reg.SubLocations {
		if _, ok := reg.Locations[s.Location]; !ok {
			ve.errorf("sub-location %q belongs to undefined location %q", id, s.Location)
			continue
		}
		for _, dir := range types.Orientations {
			target, ok := s.Exits[dir]
			if !ok {
				continue
			}
			owner, ok := g.Owner(target)
			switch {
			case !ok:
				ve.errorf("sub-location %q exit %s points to undefined sub-location %q", id, dir, target)
			case owner != s.Location:
				ve.errorf("sub-location %q exit %s leaves %q for %q", id, dir, s.Location, owner)
			}
		}
	}
}

// validateItemPlacement accepts an empty placement: the item starts in an
// NPC's inventory.
func validateItemPlacement(reg *state.Registry, ve *ValidationError, kind, id string, p types.Placement) {
	if p == (types.Placement{}) {
		return
	}
	validatePlacement(reg, ve, kind, id, p)
}

func validatePlacement(reg *state.Registry, ve *ValidationError, kind, id string, p types.Placement) {
	if _, ok := reg.Locations[p.Location]; !ok {
		ve.errorf("%s %q is placed in undefined location %q", kind, id, p.Location)
		return
	}
	if _, ok := reg.Graph().Resolve(p.Location, p.Sub); !ok {
		ve.errorf("%s %q is placed in %q, which is not a sub-location of %q", kind, id, p.Sub, p.Location)
	}
}

func validateAttacks(reg *state.Registry, ve *ValidationError, kind, id string, attacks []string) {
	for _, a := range attacks {
		if _, ok := reg.Attacks[a]; !ok {
			ve.errorf("%s %q references undefined attack %q", kind, id, a)
		}
	}
}

func validatePlayer(reg *state.Registry, ve *ValidationError) {
	p := reg.Player
	if p == nil {
		ve.errorf("no player defined")
		return
	}
	validatePlacement(reg, ve, "player", p.Name, reg.PlayerPlacement())
	if p.HP < 0 || p.HP > types.MaxPlayerHP {
		ve.errorf("player hp %d outside [0, %d]", p.HP, types.MaxPlayerHP)
	}
	if p.Power < 0 {
		ve.errorf("player has negative power %d", p.Power)
	}
}

func validateNPC(reg *state.Registry, ve *ValidationError, n *types.NPC) {
	validatePlacement(reg, ve, "npc", n.ID, n.Placement)
	for _, id := range n.Inventory {
		if _, ok := reg.Object(id); !ok {
			ve.warnf("npc %q holds %q, which is not a static object and will never be handed over", n.ID, id)
		}
	}

	switch b := n.Behavior.(type) {
	case *types.Hostile:
		validateAttacks(reg, ve, "npc", n.ID, b.AttackIDs)
		if b.Power < 0 || b.HP < 0 || b.Reward < 0 {
			ve.errorf("npc %q has negative power, hp or reward", n.ID)
		}
		if b.HP == 0 {
			ve.warnf("npc %q is hostile with no hp: it starts defeated", n.ID)
		}
		for _, id := range b.RequiredItemIDs {
			if _, ok := staticObject(reg, id); !ok {
				ve.errorf("npc %q requires %q, which is not a static object", n.ID, id)
			}
		}
		if b.HP > 0 && reg.Player != nil && reg.Player.Power == 0 && counterDamage(reg, b) == 0 {
			ve.errorf("npc %q: a fight against it could never end (no damage on either side)", n.ID)
		}
	case *types.Trainer:
		if b.PowerBonus < 0 || b.AttackBonus < 0 {
			ve.errorf("trainer %q has a negative bonus", n.ID)
		}
		if b.HPThreshold < 0 || b.HPThreshold > types.MaxPlayerHP {
			ve.errorf("trainer %q hp threshold %d outside [0, %d]", n.ID, b.HPThreshold, types.MaxPlayerHP)
		}
	}
}

// counterDamage is the damage a Hostile NPC deals per round: its power plus
// the power of its first known attack.
func counterDamage(reg *state.Registry, h *types.Hostile) int {
	dmg := h.Power
	for _, id := range h.AttackIDs {
		if a, ok := reg.Attacks[id]; ok {
			dmg += a.Power
			break
		}
	}
	return dmg
}
