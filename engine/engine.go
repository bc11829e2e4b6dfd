// Package engine implements the island game rules over a state.Registry:
// movement, capture, consumption, NPC interaction and combat. Every
// operation mutates the Registry through effects, runs one event pass and
// returns a structured result. The engine never prints.
package engine

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/nathoo/islecore/engine/effects"
	"github.com/nathoo/islecore/engine/events"
	"github.com/nathoo/islecore/engine/state"
	"github.com/nathoo/islecore/types"
)

// DefaultReflexBudget is the time allowed to answer a reflex check.
const DefaultReflexBudget = 3 * time.Second

// Engine owns the Registry for the lifetime of a game. Callers read the
// world through World and mutate it only through the operations.
type Engine struct {
	reg *state.Registry
	rng *RNG
	log *slog.Logger

	reflexBudget time.Duration

	// At most one of these is waiting on the player.
	offer  *Offer
	reflex *Reflex
	combat *Combat
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the diagnostic logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithSeed seeds the engine's RNG.
func WithSeed(seed int64) Option {
	return func(e *Engine) { e.rng = NewRNG(seed) }
}

// WithReflexBudget sets the time allowed to answer a reflex check.
func WithReflexBudget(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.reflexBudget = d
		}
	}
}

// New creates an engine over a fully linked registry.
func New(reg *state.Registry, opts ...Option) *Engine {
	e := &Engine{
		reg:          reg,
		rng:          NewRNG(1),
		log:          slog.New(slog.DiscardHandler),
		reflexBudget: DefaultReflexBudget,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// World returns a read-only view of the Registry.
func (e *Engine) World() state.View {
	return e.reg.View()
}

// Player returns a snapshot of the player.
func (e *Engine) Player() types.Player {
	return e.reg.View().Player()
}

// Seed returns the RNG seed, for replaying a session.
func (e *Engine) Seed() int64 {
	return e.rng.Seed()
}

// GameOver reports whether the game has ended.
func (e *Engine) GameOver() bool {
	return e.reg.GetFlag(state.GameOverFlag)
}

// Trace records the effects applied and the events emitted by one
// operation, including those produced by event handlers.
type Trace struct {
	Effects  []types.Effect
	Events   []types.Event
	GameOver bool
}

// Finale reports whether a quest teleported the player during the
// operation.
func (t Trace) Finale() bool {
	for _, ev := range t.Events {
		if ev.Type == types.EventTeleported {
			return true
		}
	}
	return false
}

func (t *Trace) merge(o Trace) {
	t.Effects = append(t.Effects, o.Effects...)
	t.Events = append(t.Events, o.Events...)
	t.GameOver = t.GameOver || o.GameOver
}

// begin guards the start of a state-changing operation. A pending offer the
// player walked away from counts as declined.
func (e *Engine) begin(op string) error {
	if e.GameOver() {
		return ErrGameOver
	}
	if e.combat != nil {
		return ErrInCombat
	}
	if e.reflex != nil {
		return ErrReflexPending
	}
	if e.offer != nil {
		e.log.Debug("offer dropped", "kind", e.offer.Kind.String(), "subject", e.offer.Subject)
		e.offer = nil
	}
	p := e.reg.PlayerPlacement()
	e.log.Debug("operation", "op", op, "location", p.Location, "sub", p.Sub)
	return nil
}

// commit applies effects, dispatches the emitted events once and applies
// the handler effects without re-dispatching them.
func (e *Engine) commit(effs []types.Effect) (Trace, error) {
	var tr Trace

	evts, err := effects.Apply(e.reg, effs)
	tr.Effects = append(tr.Effects, effs...)
	tr.Events = append(tr.Events, evts...)
	if err != nil {
		return tr, fmt.Errorf("%w: %w", ErrNotFound, err)
	}

	if handlerEffs := events.Dispatch(evts, e.reg); len(handlerEffs) > 0 {
		e.log.Debug("event handlers fired", "effects", len(handlerEffs))
		evts2, err := effects.Apply(e.reg, handlerEffs)
		tr.Effects = append(tr.Effects, handlerEffs...)
		tr.Events = append(tr.Events, evts2...)
		if err != nil {
			return tr, fmt.Errorf("%w: %w", ErrNotFound, err)
		}
	}

	if e.GameOver() {
		tr.GameOver = true
		e.offer, e.reflex, e.combat = nil, nil, nil
		e.log.Info("game over", "location", e.reg.Player.Position, "sub", e.reg.Player.SubPosition)
	}
	return tr, nil
}

// Scene is what the player sees at their exact sub-position.
type Scene struct {
	Location    types.Location
	Sub         types.SubLocation
	Objects     []types.StaticObject
	Consumables []types.Consumable
	Mobiles     []types.MobileObject
	Fruits      []types.Fruit
	NPCs        []types.NPC
	SubExits    []types.Orientation
	SeaExits    []types.Orientation
	Boat        bool
}

// Look lists the current Location and SubLocation, everything placed at the
// player's exact sub-position and the exits of both graph levels.
func (e *Engine) Look() Scene {
	r := e.reg
	here := r.PlayerPlacement()
	g := r.Graph()

	var sc Scene
	if l, ok := r.Locations[here.Location]; ok {
		sc.Location = state.CopyLocation(l)
	}
	if s, ok := g.Resolve(here.Location, here.Sub); ok {
		sc.Sub = state.CopySubLocation(s)
	}
	for _, o := range r.ObjectsAt(here) {
		sc.Objects = append(sc.Objects, *o)
	}
	for _, c := range r.ConsumablesAt(here) {
		sc.Consumables = append(sc.Consumables, *c)
	}
	for _, m := range r.MobilesAt(here) {
		sc.Mobiles = append(sc.Mobiles, *m)
	}
	for _, f := range r.FruitsAt(here) {
		sc.Fruits = append(sc.Fruits, state.CopyFruit(f))
	}
	for _, n := range r.NPCsAt(here) {
		sc.NPCs = append(sc.NPCs, state.CopyNPC(n))
	}
	sc.SubExits = g.SubExits(here.Sub)
	sc.SeaExits = g.LocationExits(here.Location)
	_, sc.Boat = r.BoatAt(here)
	return sc
}
