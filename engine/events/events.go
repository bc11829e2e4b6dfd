// Package events implements single-pass event handler dispatch.
// Event handlers produce additional effects but do not recurse.
package events

import (
	"slices"

	"github.com/nathoo/islecore/engine/conditions"
	"github.com/nathoo/islecore/engine/state"
	"github.com/nathoo/islecore/types"
)

// Dispatch runs the Registry's event handlers against the emitted events.
// Single pass, no recursion. A handler fires at most once per pass even if
// several of its events were emitted. Returns the effects produced.
func Dispatch(evts []types.Event, r *state.Registry) []types.Effect {
	var result []types.Effect
	fired := map[int]bool{}

	for _, event := range evts {
		for i, handler := range r.Handlers {
			if fired[i] || !slices.Contains(handler.EventTypes, event.Type) {
				continue
			}
			if !conditions.EvalAll(handler.Conditions, r) {
				continue
			}
			fired[i] = true
			result = append(result, handler.Effects...)
		}
	}

	return result
}

// QuestTriggers are the events after which the quest monitor re-checks the
// player's inventory: captures, combat-victory transfers, and the fruit
// and position changes its extra conditions may depend on.
var QuestTriggers = []string{
	types.EventItemCaptured,
	types.EventItemReceived,
	types.EventNPCDefeated,
	types.EventFruitEquipped,
	types.EventPlayerMoved,
}

// QuestHandler compiles a quest into the handler that watches the
// inventory. It fires once: when every quest item is held and the finale
// has not been reached and the quest's own conditions hold, it sets the
// finale flag, teleports the player and ends the game.
func QuestHandler(q types.QuestDef) types.EventHandler {
	conds := make([]types.Condition, 0, len(q.Items)+len(q.Conditions)+1)
	conds = append(conds, conditions.FlagNot(state.FinaleFlag))
	for _, id := range q.Items {
		conds = append(conds, conditions.HasItem(id))
	}
	conds = append(conds, q.Conditions...)
	return types.EventHandler{
		ID:         "quest:" + q.ID,
		EventTypes: QuestTriggers,
		Conditions: conds,
		Effects: []types.Effect{
			{Type: types.EffectSetFlag, Params: map[string]any{"flag": state.FinaleFlag, "value": true}},
			{Type: types.EffectTeleport, Params: map[string]any{"location": q.Finale.Location, "sub": q.Finale.Sub}},
			{Type: types.EffectEndGame},
		},
	}
}
