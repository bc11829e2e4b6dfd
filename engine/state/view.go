package state

import (
	"maps"
	"slices"

	"github.com/nathoo/islecore/types"
)

// View is a read-only window on a Registry for rendering. Every accessor
// returns values, so holders of a View cannot mutate the world.
type View struct {
	r *Registry
}

// View returns a read-only view of r.
func (r *Registry) View() View {
	return View{r: r}
}

// Game returns the game metadata.
func (v View) Game() types.GameDef {
	return v.r.Game
}

// Player returns a snapshot of the player record.
func (v View) Player() types.Player {
	p := *v.r.Player
	p.Inventory = slices.Clone(p.Inventory)
	if p.Fruit != nil {
		f := CopyFruit(p.Fruit)
		p.Fruit = &f
	}
	return p
}

// Location returns a Location by id.
func (v View) Location(id string) (types.Location, bool) {
	l, ok := v.r.Locations[id]
	if !ok {
		return types.Location{}, false
	}
	return CopyLocation(l), true
}

// SubLocation returns a SubLocation by id.
func (v View) SubLocation(id string) (types.SubLocation, bool) {
	s, ok := v.r.SubLocations[id]
	if !ok {
		return types.SubLocation{}, false
	}
	return CopySubLocation(s), true
}

// Attack returns an Attack by id.
func (v View) Attack(id string) (types.Attack, bool) {
	a, ok := v.r.Attacks[id]
	if !ok {
		return types.Attack{}, false
	}
	return *a, true
}

// NPC returns an NPC by id. The behavior is copied.
func (v View) NPC(id string) (types.NPC, bool) {
	n, ok := v.r.NPC(id)
	if !ok {
		return types.NPC{}, false
	}
	return CopyNPC(n), true
}

// Graph returns the world graph view.
func (v View) Graph() Graph {
	return v.r.Graph()
}

// Flag returns the value of a flag.
func (v View) Flag(name string) bool {
	return v.r.GetFlag(name)
}

// EntityName returns the display name of any entity.
func (v View) EntityName(id string) string {
	return v.r.EntityName(id)
}

// CopyNPC returns a deep copy of an NPC, including its behavior.
func CopyNPC(n *types.NPC) types.NPC {
	c := *n
	c.Inventory = slices.Clone(n.Inventory)
	switch b := n.Behavior.(type) {
	case *types.Hostile:
		h := *b
		h.AttackIDs = slices.Clone(b.AttackIDs)
		h.RequiredItemIDs = slices.Clone(b.RequiredItemIDs)
		c.Behavior = &h
	case *types.Friendly:
		f := *b
		c.Behavior = &f
	case *types.Trainer:
		t := *b
		c.Behavior = &t
	}
	return c
}

// CopyLocation returns a copy of l that shares no maps or slices with it.
func CopyLocation(l *types.Location) types.Location {
	c := *l
	c.Exits = maps.Clone(l.Exits)
	c.Subs = slices.Clone(l.Subs)
	return c
}

// CopySubLocation returns a copy of s that shares no maps with it.
func CopySubLocation(s *types.SubLocation) types.SubLocation {
	c := *s
	c.Exits = maps.Clone(s.Exits)
	return c
}

// CopyFruit returns a copy of f that shares no slices with it.
func CopyFruit(f *types.Fruit) types.Fruit {
	c := *f
	c.AttackIDs = slices.Clone(f.AttackIDs)
	return c
}

// Quests returns the quest definitions.
func (v View) Quests() []types.QuestDef {
	out := make([]types.QuestDef, 0, len(v.r.Quests))
	for _, q := range v.r.Quests {
		q.Items = slices.Clone(q.Items)
		out = append(out, q)
	}
	return out
}
