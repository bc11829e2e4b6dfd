package loader

import (
	lua "github.com/yuin/gopher-lua"
)

// Record type tags shared by Lua constructors and data files.
const (
	tagGame        = "game"
	tagLocation    = "location"
	tagSubLocation = "sublocation"
	tagStatic      = "static"
	tagConsumable  = "consumable"
	tagMobile      = "mobile"
	tagFruit       = "fruit"
	tagAttack      = "attack"
	tagNPC         = "npc"
	tagPlayer      = "player"
	tagQuest       = "quest"
)

// registerAPI registers the world constructors as Lua globals.
//
//	Game { title = "...", intro = "..." }
//	Location "foosha" { name = "...", exits = { north = "shells" } }
//	SubLocation "entry_foosha" { location = "foosha", exits = { east = "square" } }
//	Object "log_pose" { location = "foosha", sub = "square", key = true }
//	Consumable "meat" { restore = 30, location = "foosha", sub = "bar" }
//	Mobile "boat" { name = "Boat", location = "foosha", sub = "entry_foosha" }
//	Attack "gum_pistol" { name = "Gum-Gum Pistol", power = 5 }
//	Fruit "gomu" { power_name = "Rubber", attacks = { "gum_pistol" } }
//	NPC "arlong" { behavior = "hostile", hp = 40, power = 5, requires = { "log_pose" } }
//	Player { name = "Luffy", location = "foosha", sub = "entry_foosha" }
//	Quest "one_piece" { items = { ... }, finale = { location = "raftel", sub = "entry_raftel" } }
func registerAPI(L *lua.LState, coll *collector) {
	L.SetGlobal("Game", L.NewFunction(func(L *lua.LState) int {
		tbl := L.CheckTable(1)
		coll.add(compileRecord(tagGame, "", tbl))
		return 0
	}))

	L.SetGlobal("Player", L.NewFunction(func(L *lua.LState) int {
		tbl := L.CheckTable(1)
		coll.add(compileRecord(tagPlayer, getString(tbl, "id"), tbl))
		return 0
	}))

	curried := map[string]string{
		"Location":    tagLocation,
		"SubLocation": tagSubLocation,
		"Object":      tagStatic,
		"Consumable":  tagConsumable,
		"Mobile":      tagMobile,
		"Fruit":       tagFruit,
		"Attack":      tagAttack,
		"NPC":         tagNPC,
		"Quest":       tagQuest,
	}
	for name, tag := range curried {
		L.SetGlobal(name, constructor(L, coll, tag))
	}
}

// constructor returns a curried Lua constructor: Kind("id") returns a
// function that takes the definition table.
func constructor(L *lua.LState, coll *collector, tag string) *lua.LFunction {
	return L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			coll.add(compileRecord(tag, id, tbl))
			return 0
		}))
		return 1
	})
}
