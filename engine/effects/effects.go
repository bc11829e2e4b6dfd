// Package effects implements centralized Registry mutation via the Apply
// function. Every effect type is one atomic operation. No logic in effects.
package effects

import (
	"errors"
	"fmt"
	"slices"

	"github.com/nathoo/islecore/engine/state"
	"github.com/nathoo/islecore/types"
)

// ErrUnknownEntity is returned when an effect references an entity that is
// not where the effect expects it.
var ErrUnknownEntity = errors.New("unknown entity")

// ErrUnknownEffect is returned for an effect type Apply does not implement.
var ErrUnknownEffect = errors.New("unknown effect type")

// Apply applies a list of effects to the Registry in order, mutating it.
// It returns the events emitted. On error, effects before the failing one
// stay applied and their events are returned.
func Apply(r *state.Registry, effs []types.Effect) ([]types.Event, error) {
	var events []types.Event

	for _, eff := range effs {
		evts, err := apply(r, eff)
		events = append(events, evts...)
		if err != nil {
			return events, fmt.Errorf("applying %s: %w", eff.Type, err)
		}
	}

	return events, nil
}

func apply(r *state.Registry, eff types.Effect) ([]types.Event, error) {
	p := r.Player

	switch eff.Type {
	case types.EffectMovePlayer, types.EffectTeleport:
		loc, _ := eff.Params["location"].(string)
		sub, _ := eff.Params["sub"].(string)
		p.Position = loc
		p.SubPosition = sub
		evType := types.EventPlayerMoved
		if eff.Type == types.EffectTeleport {
			evType = types.EventTeleported
		}
		return []types.Event{{Type: evType, Data: map[string]any{"location": loc, "sub": sub}}}, nil

	case types.EffectSetSub:
		sub, _ := eff.Params["sub"].(string)
		p.SubPosition = sub
		return []types.Event{{
			Type: types.EventPlayerMoved,
			Data: map[string]any{"location": p.Position, "sub": sub},
		}}, nil

	case types.EffectMoveMobile:
		id, _ := eff.Params["entity"].(string)
		m, ok := r.Mobile(id)
		if !ok {
			return nil, fmt.Errorf("%w: mobile %q", ErrUnknownEntity, id)
		}
		m.Placement.Location, _ = eff.Params["location"].(string)
		m.Placement.Sub, _ = eff.Params["sub"].(string)
		return nil, nil

	case types.EffectCapture:
		id, _ := eff.Params["item"].(string)
		var item types.InventoryItem
		if o, ok := r.RemoveObject(id); ok {
			item = state.StaticSnapshot(o)
		} else if c, ok := r.RemoveConsumable(id); ok {
			item = state.ConsumableSnapshot(c)
		} else {
			return nil, fmt.Errorf("%w: capturable %q", ErrUnknownEntity, id)
		}
		p.Inventory = append(p.Inventory, item)
		return []types.Event{{Type: types.EventItemCaptured, Data: map[string]any{"item": id}}}, nil

	case types.EffectGiveItem:
		id, _ := eff.Params["item"].(string)
		npcID, _ := eff.Params["npc"].(string)
		o, ok := r.RemoveObject(id)
		if !ok {
			return nil, fmt.Errorf("%w: object %q", ErrUnknownEntity, id)
		}
		p.Inventory = append(p.Inventory, state.StaticSnapshot(o))
		if n, ok := r.NPC(npcID); ok {
			if i := slices.Index(n.Inventory, id); i >= 0 {
				n.Inventory = slices.Delete(n.Inventory, i, i+1)
			}
		}
		return []types.Event{{Type: types.EventItemReceived, Data: map[string]any{"item": id, "npc": npcID}}}, nil

	case types.EffectClearNPCInventory:
		npcID, _ := eff.Params["npc"].(string)
		n, ok := r.NPC(npcID)
		if !ok {
			return nil, fmt.Errorf("%w: npc %q", ErrUnknownEntity, npcID)
		}
		n.Inventory = nil
		return nil, nil

	case types.EffectEquipFruit:
		id, _ := eff.Params["fruit"].(string)
		f, ok := r.RemoveFruit(id)
		if !ok {
			return nil, fmt.Errorf("%w: fruit %q", ErrUnknownEntity, id)
		}
		f.Placement = types.Placement{}
		p.Fruit = f
		return []types.Event{{Type: types.EventFruitEquipped, Data: map[string]any{"fruit": id}}}, nil

	case types.EffectReturnFruit:
		f := p.Fruit
		if f == nil {
			return nil, nil
		}
		f.Placement = r.PlayerPlacement()
		r.Fruits = append(r.Fruits, f)
		p.Fruit = nil
		return []types.Event{{Type: types.EventFruitReturned, Data: map[string]any{"fruit": f.ID}}}, nil

	case types.EffectDamage:
		target, _ := eff.Params["target"].(string)
		amount := toInt(eff.Params["amount"])
		return applyDamage(r, target, amount)

	case types.EffectHeal:
		amount := toInt(eff.Params["amount"])
		p.HP = min(p.HP+amount, types.MaxPlayerHP)
		return nil, nil

	case types.EffectRemoveItem:
		id, _ := eff.Params["item"].(string)
		i := r.InventoryIndex(id)
		if i < 0 {
			return nil, fmt.Errorf("%w: inventory item %q", ErrUnknownEntity, id)
		}
		p.Inventory = slices.Delete(p.Inventory, i, i+1)
		return []types.Event{{Type: types.EventItemConsumed, Data: map[string]any{"item": id}}}, nil

	case types.EffectBoostPower:
		p.Power += toInt(eff.Params["amount"])
		return nil, nil

	case types.EffectBoostAttack:
		id, _ := eff.Params["attack"].(string)
		a, ok := r.Attacks[id]
		if !ok {
			return nil, fmt.Errorf("%w: attack %q", ErrUnknownEntity, id)
		}
		a.Power += toInt(eff.Params["amount"])
		return nil, nil

	case types.EffectSetBoost:
		p.Boost = toInt(eff.Params["amount"])
		return nil, nil

	case types.EffectSetFlag:
		flag, _ := eff.Params["flag"].(string)
		value, _ := eff.Params["value"].(bool)
		r.Flags[flag] = value
		return []types.Event{{Type: types.EventFlagChanged, Data: map[string]any{"flag": flag, "value": value}}}, nil

	case types.EffectEndGame:
		r.Flags[state.GameOverFlag] = true
		return []types.Event{{Type: types.EventGameOver, Data: map[string]any{}}}, nil

	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownEffect, eff.Type)
	}
}

// applyDamage decrements the target's hp, clamping to 0.
func applyDamage(r *state.Registry, target string, amount int) ([]types.Event, error) {
	if amount < 0 {
		amount = 0
	}
	if target == state.PlayerTarget {
		p := r.Player
		p.HP = max(p.HP-amount, 0)
		if p.HP == 0 {
			return []types.Event{{Type: types.EventPlayerDefeated, Data: map[string]any{}}}, nil
		}
		return nil, nil
	}

	n, ok := r.NPC(target)
	if !ok {
		return nil, fmt.Errorf("%w: npc %q", ErrUnknownEntity, target)
	}
	h, ok := n.Behavior.(*types.Hostile)
	if !ok {
		return nil, fmt.Errorf("%w: npc %q is not hostile", ErrUnknownEntity, target)
	}
	h.HP = max(h.HP-amount, 0)
	if h.HP == 0 {
		return []types.Event{{Type: types.EventNPCDefeated, Data: map[string]any{"npc": target}}}, nil
	}
	return nil, nil
}

func toInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case float64:
		return int(n)
	case int64:
		return int(n)
	default:
		return 0
	}
}
