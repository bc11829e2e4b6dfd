// Package types defines the shared data structures for the IsleCore engine.
// This package contains only type definitions. The one exception is the
// marker method that closes the NPC Behavior set.
package types

// Orientation labels an edge of the world graph.
type Orientation string

const (
	North Orientation = "north"
	South Orientation = "south"
	East  Orientation = "east"
	West  Orientation = "west"
)

// Orientations lists the four edge labels in display order.
var Orientations = []Orientation{North, South, East, West}

// MaxPlayerHP is the upper bound of Player.HP.
const MaxPlayerHP = 100

// InventoryMarker is the placement location of an item held by the player.
const InventoryMarker = "inventory"

// Placement is an entity's position in the world: a Location id and one of
// its SubLocation ids.
type Placement struct {
	Location string `json:"location"`
	Sub      string `json:"sub"`
}

// Location is a top-level node of the world graph.
type Location struct {
	ID          string
	Name        string
	Description string
	Exits       map[Orientation]string // orientation → location id
	RequiredKey string                 // static object id; "" = open
	Subs        []string               // owned sub-location ids, definition order
}

// SubLocation is a node nested in exactly one Location.
type SubLocation struct {
	ID          string
	Location    string
	Name        string
	Description string
	Exits       map[Orientation]string // orientation → sub-location id
}

// StaticObject is a capturable world object. Key objects gate Locations.
type StaticObject struct {
	ID          string
	Name        string
	Description string
	Placement   Placement
	IsKey       bool
}

// Consumable is a capturable object that restores hp when consumed.
type Consumable struct {
	ID          string
	Name        string
	Description string
	Placement   Placement
	HPRestore   int
}

// MobileObject is a world object that moves with the player, like the Boat.
type MobileObject struct {
	ID          string
	Name        string
	Description string
	Placement   Placement
}

// Attack is a named damage source granted by Fruits or used by Hostile NPCs.
type Attack struct {
	ID          string
	Name        string
	Description string
	Power       int
}

// Fruit grants its holder a power and a list of attacks.
// Placement is meaningful only while the fruit is unclaimed.
type Fruit struct {
	ID          string
	Name        string
	Description string
	PowerName   string
	Placement   Placement
	AttackIDs   []string
}

// ItemKind tags an inventory snapshot with its original entity kind.
type ItemKind string

const (
	ItemStatic     ItemKind = "static"
	ItemConsumable ItemKind = "consumable"
)

// InventoryItem is a snapshot of a captured StaticObject or Consumable.
type InventoryItem struct {
	Kind        ItemKind
	ID          string
	Name        string
	Description string
	Placement   string // always InventoryMarker
	IsKey       bool
	HPRestore   int
}

// Behavior is the closed set of NPC behavior variants:
// *Hostile, *Friendly and *Trainer.
type Behavior interface {
	isBehavior()
}

// Hostile NPCs fight the player. HP == 0 marks them permanently defeated.
type Hostile struct {
	Power           int
	HP              int
	MaxHP           int
	AttackIDs       []string
	RequiredItemIDs []string
	Reward          int // power granted to the player on victory
}

// Friendly NPCs talk and may hand over the first item of their inventory.
type Friendly struct {
	Dialogue string // optional special dialogue
}

// Trainer NPCs raise the player's power once the player is healthy enough.
type Trainer struct {
	Skill       string
	PowerBonus  int
	HPThreshold int
	AttackBonus int // added to every attack of the equipped fruit
}

func (*Hostile) isBehavior()  {}
func (*Friendly) isBehavior() {}
func (*Trainer) isBehavior()  {}

// NPC is a non-player character with one behavior variant.
type NPC struct {
	ID          string
	Name        string
	Description string
	Placement   Placement
	Inventory   []string // object ids it can give away
	Behavior    Behavior
}

// Player is the single player record, owned by the Registry.
type Player struct {
	Name        string
	Position    string // location id
	SubPosition string // sub-location id
	HP          int
	Power       int
	Boost       int // temporary power, cleared when the next fight ends
	Fruit       *Fruit
	Inventory   []InventoryItem
}

// GameDef holds game metadata.
type GameDef struct {
	Title   string
	Author  string
	Version string
	Intro   string
}

// QuestDef is a fixed set of key quest items that teleports the player to
// the finale once all of them are in the inventory and every extra
// condition holds.
type QuestDef struct {
	ID         string
	Items      []string
	Conditions []Condition
	Finale     Placement
	Text       string
}

// Intent is the parsed representation of a player command.
type Intent struct {
	Verb   string
	Object string // optional
}

// Effect is a single atomic state mutation instruction.
type Effect struct {
	Type   string
	Params map[string]any
}

// Event is emitted after effects are applied.
type Event struct {
	Type string
	Data map[string]any
}

// Condition is a predicate evaluated against the Registry.
type Condition struct {
	Type   string         // "has_item", "has_fruit", "flag_set", "flag_not", "in_location", "not"
	Params map[string]any // condition-specific parameters
	Inner  *Condition     // for "not": the negated inner condition
}

// EventHandler produces effects when an event fires and its conditions hold.
type EventHandler struct {
	ID         string
	EventTypes []string
	Conditions []Condition
	Effects    []Effect
}

// Result is the text output of a single shell step.
type Result struct {
	Effects  []Effect
	Events   []Event
	Output   []string
	GameOver bool
}

// Effect types.
const (
	EffectMovePlayer        = "move_player"         // location, sub
	EffectSetSub            = "set_sub"             // sub
	EffectMoveMobile        = "move_mobile"         // entity, location, sub
	EffectCapture           = "capture"             // item
	EffectGiveItem          = "give_item"           // item, npc (optional)
	EffectClearNPCInventory = "clear_npc_inventory" // npc
	EffectEquipFruit        = "equip_fruit"         // fruit
	EffectReturnFruit       = "return_fruit"
	EffectDamage            = "damage"       // target ("player" or npc id), amount
	EffectHeal              = "heal"         // amount
	EffectRemoveItem        = "remove_item"  // item
	EffectBoostPower        = "boost_power"  // amount
	EffectBoostAttack       = "boost_attack" // attack, amount
	EffectSetBoost          = "set_boost"    // amount
	EffectSetFlag           = "set_flag"     // flag, value
	EffectTeleport          = "teleport"     // location, sub
	EffectEndGame           = "end_game"
)

// Event types.
const (
	EventPlayerMoved    = "player_moved"
	EventItemCaptured   = "item_captured"
	EventItemReceived   = "item_received"
	EventItemConsumed   = "item_consumed"
	EventFruitEquipped  = "fruit_equipped"
	EventFruitReturned  = "fruit_returned"
	EventNPCDefeated    = "npc_defeated"
	EventPlayerDefeated = "player_defeated"
	EventFlagChanged    = "flag_changed"
	EventTeleported     = "teleported"
	EventGameOver       = "game_over"
)
