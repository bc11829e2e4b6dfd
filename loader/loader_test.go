package loader

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nathoo/islecore/engine/state"
	"github.com/nathoo/islecore/types"
)

func TestLoad_MinimalLua(t *testing.T) {
	reg, err := Load("testdata/minimal")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if reg.Game.Title != "Minimal Isle" {
		t.Errorf("Title = %q, want %q", reg.Game.Title, "Minimal Isle")
	}
	if reg.Player == nil || reg.Player.Name != "Tester" {
		t.Fatalf("player = %+v", reg.Player)
	}
	if reg.Player.HP != types.MaxPlayerHP {
		t.Errorf("default player hp = %d, want %d", reg.Player.HP, types.MaxPlayerHP)
	}
	rock := reg.Locations["rock"]
	if rock == nil {
		t.Fatal("location 'rock' not found")
	}
	if want := []string{"entry_rock", "summit"}; !equalStrings(rock.Subs, want) {
		t.Errorf("rock subs = %v, want %v", rock.Subs, want)
	}
	if reg.SubLocations["entry_rock"].Exits[types.North] != "summit" {
		t.Errorf("entry_rock exits = %v", reg.SubLocations["entry_rock"].Exits)
	}
	if _, ok := reg.BoatAt(reg.PlayerPlacement()); !ok {
		t.Error("boat not at the player's placement")
	}
}

func TestLoad_EastBlue(t *testing.T) {
	reg, err := Load(filepath.Join("..", "worlds", "east_blue"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if reg.Game.Title != "IsleCore: East Blue" {
		t.Errorf("Title = %q", reg.Game.Title)
	}
	wantOrder := []string{"foosha", "shells", "syrup", "baratie", "arlong_park", "raftel"}
	if !equalStrings(reg.LocationOrder, wantOrder) {
		t.Errorf("LocationOrder = %v, want %v", reg.LocationOrder, wantOrder)
	}
	if got := reg.Locations["arlong_park"].RequiredKey; got != "log_pose" {
		t.Errorf("arlong_park key = %q", got)
	}
	for _, id := range reg.LocationOrder {
		if _, ok := reg.Graph().Entry(id); !ok {
			t.Errorf("location %q has no entry sub-location", id)
		}
	}

	arlong, ok := reg.NPC("arlong")
	if !ok {
		t.Fatal("npc arlong not found")
	}
	h, ok := arlong.Behavior.(*types.Hostile)
	if !ok {
		t.Fatalf("arlong behavior = %T, want *types.Hostile", arlong.Behavior)
	}
	if h.HP != 60 || h.MaxHP != 60 || h.Power != 6 || h.Reward != 5 {
		t.Errorf("arlong = %+v", h)
	}

	if len(reg.Quests) != 1 || len(reg.Quests[0].Items) != 4 {
		t.Fatalf("quests = %+v", reg.Quests)
	}
	if c := reg.Quests[0].Conditions; len(c) != 1 || c[0].Type != "has_fruit" {
		t.Errorf("quest conditions = %+v", c)
	}
	if len(reg.Handlers) != 1 {
		t.Errorf("handlers = %d, want 1", len(reg.Handlers))
	}
}

func TestLoad_DataFiles(t *testing.T) {
	for _, file := range []string{"world.yaml", "world.json"} {
		t.Run(file, func(t *testing.T) {
			reg, err := Load(filepath.Join("testdata", file))
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}

			if reg.Game.Title != "Data Isles" || reg.Game.Author != "Tester" {
				t.Errorf("game = %+v", reg.Game)
			}
			if reg.Player.HP != 80 || reg.Player.Power != 6 {
				t.Errorf("player = %+v", reg.Player)
			}
			if want := []string{"entry_isle", "cave"}; !equalStrings(reg.Locations["isle"].Subs, want) {
				t.Errorf("isle subs = %v, want %v", reg.Locations["isle"].Subs, want)
			}

			shell, ok := reg.Object("shell")
			if !ok || !shell.IsKey {
				t.Errorf("shell = %+v", shell)
			}
			pearl, ok := reg.Object("pearl")
			if !ok || pearl.Placement != (types.Placement{}) {
				t.Errorf("pearl = %+v", pearl)
			}
			if c, ok := reg.Consumable("coconut"); !ok || c.HPRestore != 15 {
				t.Errorf("coconut = %+v", c)
			}
			if f, ok := reg.Fruit("ito"); !ok || f.PowerName != "string" || len(f.AttackIDs) != 1 {
				t.Errorf("ito = %+v", f)
			}

			crab, _ := reg.NPC("crab")
			h, ok := crab.Behavior.(*types.Hostile)
			if !ok {
				t.Fatalf("crab behavior = %T", crab.Behavior)
			}
			if h.HP != 25 || len(h.RequiredItemIDs) != 1 || h.Reward != 2 {
				t.Errorf("crab = %+v", h)
			}
			hermit, _ := reg.NPC("hermit")
			tr, ok := hermit.Behavior.(*types.Trainer)
			if !ok || tr.Skill != "Patience" || tr.PowerBonus != 3 || tr.HPThreshold != 40 {
				t.Errorf("hermit = %+v", hermit.Behavior)
			}

			q := reg.Quests[0]
			if q.Finale != (types.Placement{Location: "isle", Sub: "cave"}) || q.Text != "The pearl shines." {
				t.Errorf("quest = %+v", q)
			}
			if len(q.Conditions) != 2 || q.Conditions[0].Type != "has_fruit" ||
				q.Conditions[1].Type != "not" || q.Conditions[1].Inner == nil ||
				q.Conditions[1].Inner.Params["location"] != "reef" {
				t.Errorf("quest conditions = %+v", q.Conditions)
			}
		})
	}
}

// baseWorld is a valid world without a player.
const baseWorld = `
- type: game
  title: Test Isles
- type: location
  id: isle
  name: Isle
- type: sublocation
  id: entry_isle
  location: isle
- type: mobile
  id: boat
  name: Boat
  location: isle
  sub: entry_isle
`

const playerRecord = `
- type: player
  name: Tester
  location: isle
  sub: entry_isle
  power: 5
`

func writeWorld(t *testing.T, content string) string {
	t.Helper()
	return writeWorldFile(t, "world.yaml", content)
}

func writeWorldFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_ValidationErrors(t *testing.T) {
	tests := []struct {
		name  string
		world string
		want  string
	}{
		{
			name:  "missing player",
			world: baseWorld,
			want:  "no player defined",
		},
		{
			name:  "duplicate player",
			world: baseWorld + playerRecord + playerRecord,
			want:  "duplicate player",
		},
		{
			name: "duplicate id",
			world: baseWorld + playerRecord + `
- type: static
  id: boat
`,
			want: `duplicate id "boat"`,
		},
		{
			name: "unknown type",
			world: baseWorld + playerRecord + `
- type: dragon
  id: smaug
`,
			want: `unknown type "dragon"`,
		},
		{
			name: "location exit to nowhere",
			world: baseWorld + playerRecord + `
- type: location
  id: reef
  exits:
    north: atlantis
- type: sublocation
  id: entry_reef
  location: reef
`,
			want: `points to undefined location "atlantis"`,
		},
		{
			name: "unknown orientation",
			world: baseWorld + playerRecord + `
- type: location
  id: reef
  exits:
    up: isle
`,
			want: `unknown orientation "up"`,
		},
		{
			name: "sub-location exit to nowhere",
			world: baseWorld + playerRecord + `
- type: sublocation
  id: cave
  location: isle
  exits:
    south: tunnel
`,
			want: `points to undefined sub-location "tunnel"`,
		},
		{
			name: "sub-location exit crosses locations",
			world: baseWorld + playerRecord + `
- type: location
  id: reef
- type: sublocation
  id: entry_reef
  location: reef
  exits:
    west: entry_isle
`,
			want: `leaves "reef" for "isle"`,
		},
		{
			name: "orphan sub-location",
			world: baseWorld + playerRecord + `
- type: sublocation
  id: cave
  location: atlantis
`,
			want: `belongs to undefined location "atlantis"`,
		},
		{
			name: "placement in foreign sub-location",
			world: baseWorld + playerRecord + `
- type: location
  id: reef
- type: sublocation
  id: entry_reef
  location: reef
- type: static
  id: shell
  location: isle
  sub: entry_reef
`,
			want: `not a sub-location of "isle"`,
		},
		{
			name: "unknown attack",
			world: baseWorld + playerRecord + `
- type: fruit
  id: ito
  attacks: [string_shot]
  location: isle
  sub: entry_isle
`,
			want: `references undefined attack "string_shot"`,
		},
		{
			name: "quest item is a consumable",
			world: baseWorld + playerRecord + `
- type: consumable
  id: coconut
  restore: 5
  location: isle
  sub: entry_isle
- type: quest
  id: q
  items: [coconut]
  finale:
    location: isle
    sub: entry_isle
`,
			want: `item "coconut" is not a static object`,
		},
		{
			name: "player hp out of range",
			world: baseWorld + `
- type: player
  name: Tester
  location: isle
  sub: entry_isle
  hp: 150
`,
			want: "player hp 150 outside [0, 100]",
		},
		{
			name: "negative attack power",
			world: baseWorld + playerRecord + `
- type: attack
  id: weak
  power: -2
`,
			want: `attack "weak" has negative power`,
		},
		{
			name: "required key is not a key",
			world: baseWorld + playerRecord + `
- type: static
  id: pebble
  location: isle
  sub: entry_isle
- type: location
  id: reef
  required_key: pebble
- type: sublocation
  id: entry_reef
  location: reef
`,
			want: `requires "pebble", which is not a key object`,
		},
		{
			name: "unknown behavior",
			world: baseWorld + playerRecord + `
- type: npc
  id: ghost
  behavior: spooky
  location: isle
  sub: entry_isle
`,
			want: `unknown behavior "spooky"`,
		},
		{
			name: "unknown starting item",
			world: baseWorld + `
- type: player
  name: Tester
  location: isle
  sub: entry_isle
  inventory: [ghost_map]
`,
			want: `player starts with "ghost_map", which is not a world object`,
		},
		{
			name: "unknown condition type",
			world: baseWorld + playerRecord + `
- type: static
  id: pearl
- type: quest
  id: q
  items: [pearl]
  when:
    - type: moon_phase
  finale:
    location: isle
    sub: entry_isle
`,
			want: `quest "q": unknown condition type "moon_phase"`,
		},
		{
			name: "negation without inner condition",
			world: baseWorld + playerRecord + `
- type: quest
  id: q
  when:
    - type: not
  finale:
    location: isle
    sub: entry_isle
`,
			want: "not needs an inner condition",
		},
		{
			name: "condition on undefined fruit",
			world: baseWorld + playerRecord + `
- type: quest
  id: q
  when:
    - type: not
      inner:
        type: has_fruit
        fruit: yami
  finale:
    location: isle
    sub: entry_isle
`,
			want: `condition refers to undefined fruit "yami"`,
		},
		{
			name: "fight that never ends",
			world: baseWorld + `
- type: player
  name: Tester
  location: isle
  sub: entry_isle
  power: 0
- type: npc
  id: turtle
  behavior: hostile
  hp: 10
  power: 0
  location: isle
  sub: entry_isle
`,
			want: `"turtle": a fight against it could never end`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeWorld(t, tt.world))
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("err = %v, want *ValidationError", err)
			}
			if !strings.Contains(ve.Error(), tt.want) {
				t.Errorf("errors do not mention %q:\n%s", tt.want, ve.Error())
			}
		})
	}
}

func TestLoad_ValidWorldHasNoErrors(t *testing.T) {
	if _, err := Load(writeWorld(t, baseWorld+playerRecord)); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
}

func TestLoad_WarningsAreLogged(t *testing.T) {
	world := `
- type: location
  id: isle
- type: sublocation
  id: beach
  location: isle
- type: player
  name: Tester
  location: isle
  sub: beach
`
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	if _, err := Load(writeWorld(t, world), WithLogger(logger)); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "level=WARN") {
		t.Errorf("no warning logged:\n%s", out)
	}
	if !strings.Contains(out, "cannot sail") || !strings.Contains(out, "cannot land") {
		t.Errorf("missing boat and entry warnings:\n%s", out)
	}
}

func TestBuild_Warnings(t *testing.T) {
	records := []record{
		{Type: tagLocation, ID: "isle"},
		{Type: tagSubLocation, ID: "beach", Location: "isle"},
		{Type: tagStatic, ID: "pearl"},
		{Type: tagNPC, ID: "crab", Behavior: "friendly", Inventory: []string{"ghost_item"}, Location: "isle", Sub: "beach"},
		{Type: tagPlayer, Name: "Tester", Location: "isle", Sub: "beach"},
	}
	_, ve := build(records)
	if len(ve.Errors) != 0 {
		t.Fatalf("errors = %v", ve.Errors)
	}
	if len(ve.Warnings) != 3 {
		t.Errorf("warnings = %v, want 3 (no boat, no entry, unknown gift)", ve.Warnings)
	}
}

func TestBuild_HostileWithoutHPWarns(t *testing.T) {
	records := []record{
		{Type: tagLocation, ID: "isle"},
		{Type: tagSubLocation, ID: "entry_isle", Location: "isle"},
		{Type: tagMobile, ID: "boat", Name: state.BoatName, Location: "isle", Sub: "entry_isle"},
		{Type: tagNPC, ID: "crab", Behavior: "hostile", Power: 3, Location: "isle", Sub: "entry_isle"},
		{Type: tagPlayer, Name: "Tester", Location: "isle", Sub: "entry_isle", Power: 5},
	}
	_, ve := build(records)
	if len(ve.Errors) != 0 {
		t.Fatalf("errors = %v", ve.Errors)
	}
	if len(ve.Warnings) != 1 || !strings.Contains(ve.Warnings[0], `"crab" is hostile with no hp`) {
		t.Errorf("warnings = %v, want the no-hp warning", ve.Warnings)
	}
}

func TestLoad_PlayerStartingInventory(t *testing.T) {
	world := `[
	{"type": "location", "id": "isle", "name": "Isle", "exits": {"east": "reef"}},
	{"type": "location", "id": "reef", "name": "Reef", "required_key": "shell"},
	{"type": "sublocation", "id": "entry_isle", "location": "isle"},
	{"type": "sublocation", "id": "entry_reef", "location": "reef"},
	{"type": "mobile", "id": "boat", "name": "Boat", "location": "isle", "sub": "entry_isle"},
	{"type": "static", "id": "map", "name": "Sea Map"},
	{"type": "static", "id": "shell", "name": "Conch Shell", "key": true},
	{"type": "consumable", "id": "coconut", "name": "Coconut", "restore": 15},
	{"type": "player", "name": "Tester", "location": "isle", "sub": "entry_isle",
		"inventory": ["map", "coconut", "shell"]},
	{"type": "quest", "id": "q", "items": ["map"], "finale": {"location": "reef", "sub": "entry_reef"}}
]`
	reg, err := Load(writeWorldFile(t, "world.json", world))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	inv := reg.Player.Inventory
	if len(inv) != 3 {
		t.Fatalf("player inventory = %+v, want map, coconut and shell", inv)
	}
	if inv[0].ID != "map" || inv[0].Kind != types.ItemStatic || inv[0].Placement != types.InventoryMarker {
		t.Errorf("inventory[0] = %+v", inv[0])
	}
	if inv[1].ID != "coconut" || inv[1].Kind != types.ItemConsumable || inv[1].HPRestore != 15 {
		t.Errorf("inventory[1] = %+v", inv[1])
	}
	if !inv[2].IsKey {
		t.Errorf("shell lost its key flag: %+v", inv[2])
	}
	if _, ok := reg.Object("map"); ok {
		t.Error("map is both held and in the world")
	}
	if _, ok := reg.Consumable("coconut"); ok {
		t.Error("coconut is both held and in the world")
	}
	if !reg.HasItem("map") {
		t.Error("HasItem(map) = false")
	}
}

func TestLoad_LuaSandbox(t *testing.T) {
	tests := []struct {
		name   string
		script string
	}{
		{"os library", `os.exit(1)`},
		{"io library", `io.open("/etc/passwd")`},
		{"dofile", `dofile("other.lua")`},
		{"randomseed", `math.randomseed(42)`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			if err := os.WriteFile(filepath.Join(dir, "game.lua"), []byte(tt.script), 0o644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(dir); err == nil {
				t.Error("expected an error from a sandboxed call")
			}
		})
	}
}

func TestLoad_InputErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("expected error for missing path")
	}
	if _, err := Load(t.TempDir()); err == nil || !strings.Contains(err.Error(), "no .lua files") {
		t.Errorf("empty dir: err = %v", err)
	}

	path := filepath.Join(t.TempDir(), "world.toml")
	if err := os.WriteFile(path, []byte("x = 1"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "unsupported extension") {
		t.Errorf("toml: err = %v", err)
	}

	if _, err := Load(writeWorld(t, "type: [unclosed")); err == nil {
		t.Error("expected a decoding error")
	}
}

func TestSortedLuaFiles(t *testing.T) {
	got := sortedLuaFiles([]string{"npcs.lua", "items.lua", "game.lua", "islands.lua"})
	want := []string{"game.lua", "islands.lua", "items.lua", "npcs.lua"}
	if !equalStrings(got, want) {
		t.Errorf("sortedLuaFiles = %v, want %v", got, want)
	}
}

func TestLoad_LoadedWorldIsPlayable(t *testing.T) {
	reg, err := Load(filepath.Join("testdata", "world.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got := reg.EntityName("crab"); got != "Giant Crab" {
		t.Errorf("EntityName(crab) = %q", got)
	}
	if reg.Player.Position != "isle" || reg.Player.SubPosition != "entry_isle" {
		t.Errorf("player at %s/%s", reg.Player.Position, reg.Player.SubPosition)
	}
	if reg.GetFlag(state.FinaleFlag) {
		t.Error("finale flag set before play")
	}
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
