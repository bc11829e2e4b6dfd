// Package worldtest builds a small, fully linked East Blue registry for
// tests of the engine and its shells.
package worldtest

import (
	"github.com/nathoo/islecore/engine/events"
	"github.com/nathoo/islecore/engine/state"
	"github.com/nathoo/islecore/types"
)

// Placements used by the fixture.
var (
	FooshaHarbor = types.Placement{Location: "foosha", Sub: "entry_foosha"}
	FooshaSquare = types.Placement{Location: "foosha", Sub: "foosha_square"}
	FooshaBar    = types.Placement{Location: "foosha", Sub: "foosha_bar"}
	ShellsHarbor = types.Placement{Location: "shells", Sub: "entry_shells"}
	ShellsBase   = types.Placement{Location: "shells", Sub: "shells_base"}
	ArlongDock   = types.Placement{Location: "arlong_park", Sub: "entry_arlong"}
	ArlongPool   = types.Placement{Location: "arlong_park", Sub: "arlong_pool"}
	Raftel       = types.Placement{Location: "raftel", Sub: "entry_raftel"}
)

// QuestItems are the key quest items of the fixture.
var QuestItems = []string{"straw_hat", "log_pose", "sword", "map"}

// New returns a fresh fixture registry with the player on Foosha's
// harbor, next to the Boat.
//
//	foosha ──north──▶ shells
//	foosha ──east───▶ arlong_park (requires log_pose)
//	foosha ──west───▶ baratie (no entry sub-location)
//	foosha ──south──▶ raftel
func New() *state.Registry {
	r := state.New()
	r.Game = types.GameDef{Title: "East Blue", Author: "Test", Version: "1.0", Intro: "Set sail!"}

	addLocation(r, &types.Location{
		ID: "foosha", Name: "Foosha Village", Description: "A quiet windmill village.",
		Exits: map[types.Orientation]string{
			types.North: "shells", types.East: "arlong_park", types.West: "baratie", types.South: "raftel",
		},
	})
	addLocation(r, &types.Location{
		ID: "shells", Name: "Shells Town", Description: "A navy town.",
		Exits: map[types.Orientation]string{types.South: "foosha"},
	})
	addLocation(r, &types.Location{
		ID: "arlong_park", Name: "Arlong Park", Description: "A fortress of fish-men.",
		Exits:       map[types.Orientation]string{types.West: "foosha"},
		RequiredKey: "log_pose",
	})
	addLocation(r, &types.Location{ID: "baratie", Name: "Baratie", Description: "A floating restaurant."})
	addLocation(r, &types.Location{ID: "raftel", Name: "Raftel", Description: "The last island."})

	addSub(r, &types.SubLocation{
		ID: "entry_foosha", Location: "foosha", Name: "Foosha Harbor", Description: "Boats bob in the water.",
		Exits: map[types.Orientation]string{types.East: "foosha_square"},
	})
	addSub(r, &types.SubLocation{
		ID: "foosha_square", Location: "foosha", Name: "Village Square", Description: "The heart of the village.",
		Exits: map[types.Orientation]string{
			types.West: "entry_foosha", types.North: "foosha_bar", types.South: "ghost_pier",
		},
	})
	addSub(r, &types.SubLocation{
		ID: "foosha_bar", Location: "foosha", Name: "Partys Bar", Description: "Makino's bar.",
		Exits: map[types.Orientation]string{types.South: "foosha_square"},
	})
	addSub(r, &types.SubLocation{
		ID: "entry_shells", Location: "shells", Name: "Shells Harbor",
		Exits: map[types.Orientation]string{types.North: "shells_base"},
	})
	addSub(r, &types.SubLocation{
		ID: "shells_base", Location: "shells", Name: "Navy Base",
		Exits: map[types.Orientation]string{types.South: "entry_shells"},
	})
	addSub(r, &types.SubLocation{
		ID: "entry_arlong", Location: "arlong_park", Name: "Arlong Dock",
		Exits: map[types.Orientation]string{types.East: "arlong_pool"},
	})
	addSub(r, &types.SubLocation{ID: "arlong_pool", Location: "arlong_park", Name: "Shark Pool"})
	addSub(r, &types.SubLocation{ID: "baratie_deck", Location: "baratie", Name: "Deck"})
	addSub(r, &types.SubLocation{ID: "entry_raftel", Location: "raftel", Name: "Raftel Shore"})

	r.Objects = []*types.StaticObject{
		{ID: "log_pose", Name: "Log Pose", Description: "A compass for the Grand Line.", Placement: FooshaSquare, IsKey: true},
		{ID: "straw_hat", Name: "Straw Hat", Description: "A treasured hat.", Placement: FooshaSquare},
		{ID: "sword", Name: "Sword", Description: "A sharp katana.", Placement: ShellsHarbor},
		{ID: "map", Name: "Map", Description: "A chart of the seas."},
		{ID: "axe_hand", Name: "Axe Hand", Description: "Morgan's axe."},
		{ID: "compass", Name: "Compass", Description: "Makino's gift."},
	}
	r.Consumables = []*types.Consumable{
		{ID: "meat", Name: "Meat", Description: "A juicy bone-in steak.", Placement: FooshaBar, HPRestore: 30},
		{ID: "sake", Name: "Sake", Description: "Strong rice wine.", Placement: FooshaBar, HPRestore: 10},
	}
	r.Mobiles = []*types.MobileObject{
		{ID: "boat", Name: state.BoatName, Description: "A small dinghy.", Placement: FooshaHarbor},
	}
	for _, a := range []*types.Attack{
		{ID: "gum_pistol", Name: "Gum-Gum Pistol", Power: 5},
		{ID: "gum_bazooka", Name: "Gum-Gum Bazooka", Power: 12},
		{ID: "flame_fist", Name: "Fire Fist", Power: 8},
		{ID: "shark_tooth", Name: "Shark Tooth", Power: 3},
	} {
		r.Attacks[a.ID] = a
	}
	r.Fruits = []*types.Fruit{
		{ID: "gomu", Name: "Gomu Gomu Fruit", PowerName: "Rubber", Placement: FooshaSquare,
			AttackIDs: []string{"gum_pistol", "gum_bazooka"}},
		{ID: "mera", Name: "Mera Mera Fruit", PowerName: "Fire", Placement: ShellsBase,
			AttackIDs: []string{"flame_fist"}},
	}
	r.NPCs = []*types.NPC{
		{ID: "makino", Name: "Makino", Description: "The kind barkeeper.", Placement: FooshaBar,
			Inventory: []string{"compass"}, Behavior: &types.Friendly{Dialogue: "Take care out there!"}},
		{ID: "garp", Name: "Garp", Description: "A navy hero.", Placement: FooshaSquare,
			Behavior: &types.Trainer{Skill: "Fist of Love", PowerBonus: 5, HPThreshold: 50, AttackBonus: 1}},
		{ID: "morgan", Name: "Morgan", Description: "Axe-hand captain.", Placement: ShellsBase,
			Inventory: []string{"axe_hand"},
			Behavior:  &types.Hostile{Power: 2, HP: 20, MaxHP: 20, Reward: 3}},
		{ID: "arlong", Name: "Arlong", Description: "A saw-nosed fish-man.", Placement: ArlongPool,
			Inventory: []string{"map"},
			Behavior: &types.Hostile{Power: 5, HP: 40, MaxHP: 40, AttackIDs: []string{"shark_tooth"},
				RequiredItemIDs: []string{"log_pose"}}},
	}
	r.Player = &types.Player{
		Name: "Luffy", Position: "foosha", SubPosition: "entry_foosha", HP: types.MaxPlayerHP, Power: 10,
	}

	q := types.QuestDef{ID: "one_piece", Items: QuestItems, Finale: Raftel, Text: "You found the One Piece."}
	r.Quests = []types.QuestDef{q}
	r.Handlers = []types.EventHandler{events.QuestHandler(q)}
	return r
}

// Place moves the player to p.
func Place(r *state.Registry, p types.Placement) {
	r.Player.Position = p.Location
	r.Player.SubPosition = p.Sub
}

// Give puts world static objects straight into the player's inventory.
func Give(r *state.Registry, ids ...string) {
	for _, id := range ids {
		if o, ok := r.RemoveObject(id); ok {
			r.Player.Inventory = append(r.Player.Inventory, state.StaticSnapshot(o))
		}
	}
}

func addLocation(r *state.Registry, l *types.Location) {
	r.Locations[l.ID] = l
	r.LocationOrder = append(r.LocationOrder, l.ID)
}

func addSub(r *state.Registry, s *types.SubLocation) {
	r.SubLocations[s.ID] = s
	if l, ok := r.Locations[s.Location]; ok {
		l.Subs = append(l.Subs, s.ID)
	}
}
