package loader

import (
	"fmt"
	"sort"

	lua "github.com/yuin/gopher-lua"

	"github.com/nathoo/islecore/engine/conditions"
	"github.com/nathoo/islecore/engine/events"
	"github.com/nathoo/islecore/engine/state"
	"github.com/nathoo/islecore/types"
)

// record is one tagged world entity as written in Lua or in a data file.
// Fields a type does not use are ignored.
type record struct {
	Type        string `json:"type" yaml:"type"`
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`

	// Placement of placed entities.
	Location string `json:"location" yaml:"location"`
	Sub      string `json:"sub" yaml:"sub"`

	// game
	Title   string `json:"title" yaml:"title"`
	Author  string `json:"author" yaml:"author"`
	Version string `json:"version" yaml:"version"`
	Intro   string `json:"intro" yaml:"intro"`

	// location, sublocation
	Exits       map[string]string `json:"exits" yaml:"exits"`
	RequiredKey string            `json:"required_key" yaml:"required_key"`

	// static, consumable
	Key     bool `json:"key" yaml:"key"`
	Restore int  `json:"restore" yaml:"restore"`

	// attack, fruit, npc, player
	Power     int      `json:"power" yaml:"power"`
	HP        *int     `json:"hp" yaml:"hp"`
	PowerName string   `json:"power_name" yaml:"power_name"`
	Attacks   []string `json:"attacks" yaml:"attacks"`
	Inventory []string `json:"inventory" yaml:"inventory"`

	// npc behavior
	Behavior    string   `json:"behavior" yaml:"behavior"`
	Requires    []string `json:"requires" yaml:"requires"`
	Reward      int      `json:"reward" yaml:"reward"`
	Dialogue    string   `json:"dialogue" yaml:"dialogue"`
	Skill       string   `json:"skill" yaml:"skill"`
	Bonus       int      `json:"bonus" yaml:"bonus"`
	Threshold   int      `json:"threshold" yaml:"threshold"`
	AttackBonus int      `json:"attack_bonus" yaml:"attack_bonus"`

	// quest
	Items  []string        `json:"items" yaml:"items"`
	When   []condition     `json:"when" yaml:"when"`
	Finale types.Placement `json:"finale" yaml:"finale"`
	Text   string          `json:"text" yaml:"text"`
}

// condition is one extra quest gate as written in content.
type condition struct {
	Type     string     `json:"type" yaml:"type"`
	Item     string     `json:"item" yaml:"item"`
	Fruit    string     `json:"fruit" yaml:"fruit"`
	Flag     string     `json:"flag" yaml:"flag"`
	Location string     `json:"location" yaml:"location"`
	Inner    *condition `json:"inner" yaml:"inner"`
}

func (r record) placement() types.Placement {
	return types.Placement{Location: r.Location, Sub: r.Sub}
}

// compileRecord reads a Lua definition table into a record.
func compileRecord(tag, id string, tbl *lua.LTable) record {
	r := record{
		Type:        tag,
		ID:          id,
		Name:        getString(tbl, "name"),
		Description: getString(tbl, "description"),
		Location:    getString(tbl, "location"),
		Sub:         getString(tbl, "sub"),

		Title:   getString(tbl, "title"),
		Author:  getString(tbl, "author"),
		Version: getString(tbl, "version"),
		Intro:   getString(tbl, "intro"),

		Exits:       tableToStringMap(getTable(tbl, "exits")),
		RequiredKey: getString(tbl, "required_key"),

		Key:     getBool(tbl, "key", false),
		Restore: getInt(tbl, "restore"),

		Power:     getInt(tbl, "power"),
		PowerName: getString(tbl, "power_name"),
		Attacks:   tableToStrings(getTable(tbl, "attacks")),
		Inventory: tableToStrings(getTable(tbl, "inventory")),

		Behavior:    getString(tbl, "behavior"),
		Requires:    tableToStrings(getTable(tbl, "requires")),
		Reward:      getInt(tbl, "reward"),
		Dialogue:    getString(tbl, "dialogue"),
		Skill:       getString(tbl, "skill"),
		Bonus:       getInt(tbl, "bonus"),
		Threshold:   getInt(tbl, "threshold"),
		AttackBonus: getInt(tbl, "attack_bonus"),

		Items: tableToStrings(getTable(tbl, "items")),
		When:  tableToConditions(getTable(tbl, "when")),
		Text:  getString(tbl, "text"),
	}
	if n, ok := tbl.RawGetString("hp").(lua.LNumber); ok {
		hp := int(n)
		r.HP = &hp
	}
	if f := getTable(tbl, "finale"); f != nil {
		r.Finale = types.Placement{Location: getString(f, "location"), Sub: getString(f, "sub")}
	}
	return r
}

// getString returns a string field from a Lua table, or "" if missing.
func getString(tbl *lua.LTable, key string) string {
	v := tbl.RawGetString(key)
	if s, ok := v.(lua.LString); ok {
		return string(s)
	}
	return ""
}

// getBool returns a bool field from a Lua table, or the default if missing.
func getBool(tbl *lua.LTable, key string, def bool) bool {
	v := tbl.RawGetString(key)
	if b, ok := v.(lua.LBool); ok {
		return bool(b)
	}
	return def
}

// getInt returns an int field from a Lua table, or 0 if missing.
func getInt(tbl *lua.LTable, key string) int {
	v := tbl.RawGetString(key)
	if n, ok := v.(lua.LNumber); ok {
		return int(n)
	}
	return 0
}

// getTable returns a table field from a Lua table, or nil if missing.
func getTable(tbl *lua.LTable, key string) *lua.LTable {
	v := tbl.RawGetString(key)
	if t, ok := v.(*lua.LTable); ok {
		return t
	}
	return nil
}

// tableToStringMap converts a Lua table to a map[string]string.
func tableToStringMap(tbl *lua.LTable) map[string]string {
	if tbl == nil {
		return nil
	}
	m := map[string]string{}
	tbl.ForEach(func(k, v lua.LValue) {
		if ks, ok := k.(lua.LString); ok {
			if vs, ok := v.(lua.LString); ok {
				m[string(ks)] = string(vs)
			}
		}
	})
	return m
}

// tableToStrings converts a Lua array of strings to a slice.
func tableToStrings(tbl *lua.LTable) []string {
	if tbl == nil {
		return nil
	}
	var out []string
	for i := 1; i <= tbl.MaxN(); i++ {
		if s, ok := tbl.RawGetInt(i).(lua.LString); ok {
			out = append(out, string(s))
		}
	}
	return out
}

// tableToConditions reads a Lua array of condition tables.
func tableToConditions(tbl *lua.LTable) []condition {
	if tbl == nil {
		return nil
	}
	var out []condition
	for i := 1; i <= tbl.MaxN(); i++ {
		if t, ok := tbl.RawGetInt(i).(*lua.LTable); ok {
			out = append(out, tableToCondition(t))
		}
	}
	return out
}

func tableToCondition(tbl *lua.LTable) condition {
	c := condition{
		Type:     getString(tbl, "type"),
		Item:     getString(tbl, "item"),
		Fruit:    getString(tbl, "fruit"),
		Flag:     getString(tbl, "flag"),
		Location: getString(tbl, "location"),
	}
	if inner := getTable(tbl, "inner"); inner != nil {
		ic := tableToCondition(inner)
		c.Inner = &ic
	}
	return c
}

// build turns records into a Registry and validates it. The registry is
// only usable when the returned ValidationError holds no errors.
func build(records []record) (*state.Registry, *ValidationError) {
	reg := state.New()
	ve := &ValidationError{}
	seen := map[string]string{} // id → type

	claim := func(r record) bool {
		if r.ID == "" {
			ve.errorf("%s record without id", r.Type)
			return false
		}
		if prev, dup := seen[r.ID]; dup {
			ve.errorf("duplicate id %q (%s and %s)", r.ID, prev, r.Type)
			return false
		}
		seen[r.ID] = r.Type
		return true
	}

	var subs []*types.SubLocation
	var startInventory []string
	for _, r := range records {
		switch r.Type {
		case tagGame:
			reg.Game = types.GameDef{Title: r.Title, Author: r.Author, Version: r.Version, Intro: r.Intro}

		case tagLocation:
			if !claim(r) {
				continue
			}
			exits, ok := compileExits(r, ve)
			if !ok {
				continue
			}
			reg.Locations[r.ID] = &types.Location{
				ID: r.ID, Name: nameOr(r), Description: r.Description,
				Exits: exits, RequiredKey: r.RequiredKey,
			}
			reg.LocationOrder = append(reg.LocationOrder, r.ID)

		case tagSubLocation:
			if !claim(r) {
				continue
			}
			exits, ok := compileExits(r, ve)
			if !ok {
				continue
			}
			s := &types.SubLocation{
				ID: r.ID, Location: r.Location, Name: nameOr(r), Description: r.Description, Exits: exits,
			}
			reg.SubLocations[r.ID] = s
			subs = append(subs, s)

		case tagStatic:
			if claim(r) {
				reg.Objects = append(reg.Objects, &types.StaticObject{
					ID: r.ID, Name: nameOr(r), Description: r.Description, Placement: r.placement(), IsKey: r.Key,
				})
			}

		case tagConsumable:
			if claim(r) {
				reg.Consumables = append(reg.Consumables, &types.Consumable{
					ID: r.ID, Name: nameOr(r), Description: r.Description, Placement: r.placement(), HPRestore: r.Restore,
				})
			}

		case tagMobile:
			if claim(r) {
				reg.Mobiles = append(reg.Mobiles, &types.MobileObject{
					ID: r.ID, Name: nameOr(r), Description: r.Description, Placement: r.placement(),
				})
			}

		case tagAttack:
			if claim(r) {
				reg.Attacks[r.ID] = &types.Attack{ID: r.ID, Name: nameOr(r), Description: r.Description, Power: r.Power}
			}

		case tagFruit:
			if claim(r) {
				reg.Fruits = append(reg.Fruits, &types.Fruit{
					ID: r.ID, Name: nameOr(r), Description: r.Description, PowerName: r.PowerName,
					Placement: r.placement(), AttackIDs: r.Attacks,
				})
			}

		case tagNPC:
			if !claim(r) {
				continue
			}
			b, err := compileBehavior(r)
			if err != nil {
				ve.errorf("npc %q: %v", r.ID, err)
				continue
			}
			reg.NPCs = append(reg.NPCs, &types.NPC{
				ID: r.ID, Name: nameOr(r), Description: r.Description, Placement: r.placement(),
				Inventory: r.Inventory, Behavior: b,
			})

		case tagPlayer:
			if reg.Player != nil {
				ve.errorf("duplicate player record")
				continue
			}
			hp := types.MaxPlayerHP
			if r.HP != nil {
				hp = *r.HP
			}
			reg.Player = &types.Player{
				Name: nameOr(r), Position: r.Location, SubPosition: r.Sub, HP: hp, Power: r.Power,
			}
			startInventory = r.Inventory

		case tagQuest:
			if !claim(r) {
				continue
			}
			conds, err := compileConditions(r.When)
			if err != nil {
				ve.errorf("quest %q: %v", r.ID, err)
				continue
			}
			reg.Quests = append(reg.Quests, types.QuestDef{
				ID: r.ID, Items: r.Items, Conditions: conds, Finale: r.Finale, Text: r.Text,
			})

		default:
			ve.errorf("record %q has unknown type %q", r.ID, r.Type)
		}
	}

	// Owners list their sub-locations in definition order.
	for _, s := range subs {
		if l, ok := reg.Locations[s.Location]; ok {
			l.Subs = append(l.Subs, s.ID)
		}
	}
	// The player's starting items leave the world set.
	for _, id := range startInventory {
		if o, ok := reg.RemoveObject(id); ok {
			reg.Player.Inventory = append(reg.Player.Inventory, state.StaticSnapshot(o))
		} else if c, ok := reg.RemoveConsumable(id); ok {
			reg.Player.Inventory = append(reg.Player.Inventory, state.ConsumableSnapshot(c))
		} else {
			ve.errorf("player starts with %q, which is not a world object or consumable", id)
		}
	}
	for _, q := range reg.Quests {
		reg.Handlers = append(reg.Handlers, events.QuestHandler(q))
	}

	validate(reg, ve)
	return reg, ve
}

func nameOr(r record) string {
	if r.Name != "" {
		return r.Name
	}
	return r.ID
}

func compileExits(r record, ve *ValidationError) (map[types.Orientation]string, bool) {
	exits := make(map[types.Orientation]string, len(r.Exits))
	ok := true
	for dir, target := range r.Exits {
		o := types.Orientation(dir)
		switch o {
		case types.North, types.South, types.East, types.West:
			exits[o] = target
		default:
			ve.errorf("%s %q exit has unknown orientation %q", r.Type, r.ID, dir)
			ok = false
		}
	}
	return exits, ok
}

func compileBehavior(r record) (types.Behavior, error) {
	switch r.Behavior {
	case "hostile":
		hp := 0
		if r.HP != nil {
			hp = *r.HP
		}
		return &types.Hostile{
			Power: r.Power, HP: hp, MaxHP: hp, AttackIDs: r.Attacks,
			RequiredItemIDs: r.Requires, Reward: r.Reward,
		}, nil
	case "friendly", "":
		return &types.Friendly{Dialogue: r.Dialogue}, nil
	case "trainer":
		return &types.Trainer{
			Skill: r.Skill, PowerBonus: r.Bonus, HPThreshold: r.Threshold, AttackBonus: r.AttackBonus,
		}, nil
	default:
		return nil, fmt.Errorf("unknown behavior %q", r.Behavior)
	}
}

// compileConditions turns content conditions into engine conditions.
func compileConditions(cs []condition) ([]types.Condition, error) {
	out := make([]types.Condition, 0, len(cs))
	for _, c := range cs {
		tc, err := compileCondition(c)
		if err != nil {
			return nil, err
		}
		out = append(out, tc)
	}
	return out, nil
}

func compileCondition(c condition) (types.Condition, error) {
	switch c.Type {
	case "has_item":
		if c.Item == "" {
			return types.Condition{}, fmt.Errorf("has_item needs an item")
		}
		return conditions.HasItem(c.Item), nil
	case "has_fruit":
		return conditions.HasFruit(c.Fruit), nil
	case "flag_set", "flag_not":
		if c.Flag == "" {
			return types.Condition{}, fmt.Errorf("%s needs a flag", c.Type)
		}
		if c.Type == "flag_set" {
			return conditions.FlagSet(c.Flag), nil
		}
		return conditions.FlagNot(c.Flag), nil
	case "in_location":
		if c.Location == "" {
			return types.Condition{}, fmt.Errorf("in_location needs a location")
		}
		return conditions.InLocation(c.Location), nil
	case "not":
		if c.Inner == nil {
			return types.Condition{}, fmt.Errorf("not needs an inner condition")
		}
		inner, err := compileCondition(*c.Inner)
		if err != nil {
			return types.Condition{}, err
		}
		return conditions.Not(inner), nil
	default:
		return types.Condition{}, fmt.Errorf("unknown condition type %q", c.Type)
	}
}

// sortedLuaFiles returns files with game.lua first and the rest sorted
// alphabetically.
func sortedLuaFiles(files []string) []string {
	var gameFile string
	var others []string
	for _, f := range files {
		if f == "game.lua" {
			gameFile = f
		} else {
			others = append(others, f)
		}
	}
	sort.Strings(others)
	if gameFile != "" {
		return append([]string{gameFile}, others...)
	}
	return others
}
