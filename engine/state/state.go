// Package state owns the Entity Registry: every world entity plus the one
// Player. Other packages borrow the Registry for the duration of a call and
// never keep a second copy of the player.
package state

import (
	"github.com/nathoo/islecore/types"
)

// PlayerTarget is the damage target name of the player.
const PlayerTarget = "player"

// BoatName is the name of the MobileObject that gates inter-Location travel.
const BoatName = "Boat"

// EntryPrefix marks the arrival sub-location of a Location.
const EntryPrefix = "entry"

// FinaleFlag is set once a quest has teleported the player to its finale.
const FinaleFlag = "finale_reached"

// GameOverFlag is set when the game has ended.
const GameOverFlag = "game_over"

// Registry is the single source of truth for the world.
type Registry struct {
	Game types.GameDef

	Locations     map[string]*types.Location
	LocationOrder []string
	SubLocations  map[string]*types.SubLocation
	Attacks       map[string]*types.Attack

	// World entity sets, in definition order. Captured entities leave them.
	Objects     []*types.StaticObject
	Consumables []*types.Consumable
	Mobiles     []*types.MobileObject
	Fruits      []*types.Fruit
	NPCs        []*types.NPC

	Player *types.Player

	Quests   []types.QuestDef
	Handlers []types.EventHandler
	Flags    map[string]bool
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{
		Locations:    map[string]*types.Location{},
		SubLocations: map[string]*types.SubLocation{},
		Attacks:      map[string]*types.Attack{},
		Flags:        map[string]bool{},
	}
}

// GetFlag returns the value of a flag. Unset flags return false.
func (r *Registry) GetFlag(name string) bool {
	return r.Flags[name]
}

// PlayerPlacement returns the player's current (position, sub-position).
func (r *Registry) PlayerPlacement() types.Placement {
	return types.Placement{Location: r.Player.Position, Sub: r.Player.SubPosition}
}

// HasItem returns true if the player's inventory holds the given id.
func (r *Registry) HasItem(id string) bool {
	return r.InventoryIndex(id) >= 0
}

// InventoryIndex returns the position of an item in the player's
// inventory, or -1.
func (r *Registry) InventoryIndex(id string) int {
	for i, item := range r.Player.Inventory {
		if item.ID == id {
			return i
		}
	}
	return -1
}

// HasConsumable returns true if the inventory holds at least one consumable.
func (r *Registry) HasConsumable() bool {
	for _, item := range r.Player.Inventory {
		if item.Kind == types.ItemConsumable {
			return true
		}
	}
	return false
}

// ObjectsAt returns the static objects placed exactly at p.
func (r *Registry) ObjectsAt(p types.Placement) []*types.StaticObject {
	var out []*types.StaticObject
	for _, o := range r.Objects {
		if o.Placement == p {
			out = append(out, o)
		}
	}
	return out
}

// ConsumablesAt returns the consumables placed exactly at p.
func (r *Registry) ConsumablesAt(p types.Placement) []*types.Consumable {
	var out []*types.Consumable
	for _, c := range r.Consumables {
		if c.Placement == p {
			out = append(out, c)
		}
	}
	return out
}

// MobilesAt returns the mobile objects placed exactly at p.
func (r *Registry) MobilesAt(p types.Placement) []*types.MobileObject {
	var out []*types.MobileObject
	for _, m := range r.Mobiles {
		if m.Placement == p {
			out = append(out, m)
		}
	}
	return out
}

// FruitsAt returns the unclaimed fruits placed exactly at p.
func (r *Registry) FruitsAt(p types.Placement) []*types.Fruit {
	var out []*types.Fruit
	for _, f := range r.Fruits {
		if f.Placement == p {
			out = append(out, f)
		}
	}
	return out
}

// NPCsAt returns the NPCs placed exactly at p.
func (r *Registry) NPCsAt(p types.Placement) []*types.NPC {
	var out []*types.NPC
	for _, n := range r.NPCs {
		if n.Placement == p {
			out = append(out, n)
		}
	}
	return out
}

// Object returns the world static object with the given id.
func (r *Registry) Object(id string) (*types.StaticObject, bool) {
	for _, o := range r.Objects {
		if o.ID == id {
			return o, true
		}
	}
	return nil, false
}

// Consumable returns the world consumable with the given id.
func (r *Registry) Consumable(id string) (*types.Consumable, bool) {
	for _, c := range r.Consumables {
		if c.ID == id {
			return c, true
		}
	}
	return nil, false
}

// Fruit returns the unclaimed fruit with the given id.
func (r *Registry) Fruit(id string) (*types.Fruit, bool) {
	for _, f := range r.Fruits {
		if f.ID == id {
			return f, true
		}
	}
	return nil, false
}

// Mobile returns the mobile object with the given id.
func (r *Registry) Mobile(id string) (*types.MobileObject, bool) {
	for _, m := range r.Mobiles {
		if m.ID == id {
			return m, true
		}
	}
	return nil, false
}

// NPC returns the NPC with the given id.
func (r *Registry) NPC(id string) (*types.NPC, bool) {
	for _, n := range r.NPCs {
		if n.ID == id {
			return n, true
		}
	}
	return nil, false
}

// BoatAt returns the Boat if one is placed exactly at p.
func (r *Registry) BoatAt(p types.Placement) (*types.MobileObject, bool) {
	for _, m := range r.MobilesAt(p) {
		if m.Name == BoatName {
			return m, true
		}
	}
	return nil, false
}

// RemoveObject takes a static object out of the world set.
func (r *Registry) RemoveObject(id string) (*types.StaticObject, bool) {
	for i, o := range r.Objects {
		if o.ID == id {
			r.Objects = append(r.Objects[:i:i], r.Objects[i+1:]...)
			return o, true
		}
	}
	return nil, false
}

// RemoveConsumable takes a consumable out of the world set.
func (r *Registry) RemoveConsumable(id string) (*types.Consumable, bool) {
	for i, c := range r.Consumables {
		if c.ID == id {
			r.Consumables = append(r.Consumables[:i:i], r.Consumables[i+1:]...)
			return c, true
		}
	}
	return nil, false
}

// RemoveFruit takes an unclaimed fruit out of the world set.
func (r *Registry) RemoveFruit(id string) (*types.Fruit, bool) {
	for i, f := range r.Fruits {
		if f.ID == id {
			r.Fruits = append(r.Fruits[:i:i], r.Fruits[i+1:]...)
			return f, true
		}
	}
	return nil, false
}

// FruitAttacks returns the attacks granted by a fruit, skipping ids that
// do not resolve.
func (r *Registry) FruitAttacks(f *types.Fruit) []*types.Attack {
	if f == nil {
		return nil
	}
	var out []*types.Attack
	for _, id := range f.AttackIDs {
		if a, ok := r.Attacks[id]; ok {
			out = append(out, a)
		}
	}
	return out
}

// EntityName returns the display name of any entity, falling back to its id.
func (r *Registry) EntityName(id string) string {
	if l, ok := r.Locations[id]; ok && l.Name != "" {
		return l.Name
	}
	if s, ok := r.SubLocations[id]; ok && s.Name != "" {
		return s.Name
	}
	if o, ok := r.Object(id); ok {
		return o.Name
	}
	if c, ok := r.Consumable(id); ok {
		return c.Name
	}
	if f, ok := r.Fruit(id); ok {
		return f.Name
	}
	if n, ok := r.NPC(id); ok {
		return n.Name
	}
	if a, ok := r.Attacks[id]; ok {
		return a.Name
	}
	if i := r.InventoryIndex(id); i >= 0 {
		return r.Player.Inventory[i].Name
	}
	if r.Player.Fruit != nil && r.Player.Fruit.ID == id {
		return r.Player.Fruit.Name
	}
	return id
}

// StaticSnapshot returns the inventory snapshot of a static object.
func StaticSnapshot(o *types.StaticObject) types.InventoryItem {
	return types.InventoryItem{
		Kind:        types.ItemStatic,
		ID:          o.ID,
		Name:        o.Name,
		Description: o.Description,
		Placement:   types.InventoryMarker,
		IsKey:       o.IsKey,
	}
}

// ConsumableSnapshot returns the inventory snapshot of a consumable.
func ConsumableSnapshot(c *types.Consumable) types.InventoryItem {
	return types.InventoryItem{
		Kind:        types.ItemConsumable,
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Placement:   types.InventoryMarker,
		HPRestore:   c.HPRestore,
	}
}
