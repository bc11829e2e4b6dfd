package engine

import (
	"errors"
	"fmt"

	"github.com/nathoo/islecore/engine/resolve"
	"github.com/nathoo/islecore/engine/state"
	"github.com/nathoo/islecore/types"
)

// MissingItemPenalty is the hp lost when engaging a Hostile NPC without
// the items it requires.
const MissingItemPenalty = 10

// InteractKind is the outcome of an interaction.
type InteractKind int

const (
	// InteractDefeated: the Hostile NPC is no longer a threat.
	InteractDefeated InteractKind = iota
	// InteractPenalized: required items were missing; the player was hurt.
	InteractPenalized
	// InteractCombat: a fight has started; continue with Attack.
	InteractCombat
	// InteractFriendly: the NPC talked, and may offer a gift.
	InteractFriendly
	// InteractTrainerReady: the Trainer offers training.
	InteractTrainerReady
	// InteractTrainerNotReady: the player's hp is below the threshold.
	InteractTrainerNotReady
)

func (k InteractKind) String() string {
	switch k {
	case InteractDefeated:
		return "defeated"
	case InteractPenalized:
		return "penalized"
	case InteractCombat:
		return "combat"
	case InteractFriendly:
		return "friendly"
	case InteractTrainerReady:
		return "trainer ready"
	case InteractTrainerNotReady:
		return "trainer not ready"
	default:
		return fmt.Sprintf("InteractKind(%d)", int(k))
	}
}

// InteractResult describes an interaction with one NPC.
type InteractResult struct {
	Trace
	Kind InteractKind
	NPC  types.NPC

	// Hostile
	Missing []string // names of required items not held
	Penalty int
	Attacks []types.Attack // attack choices when a fight starts

	// Friendly and Trainer
	Offer           *Offer
	GiftUnavailable string // gift id that resolves to no world object
	HPThreshold     int
}

// Interact resolves an NPC by name, case-insensitively, among the NPCs at
// the player's sub-position and dispatches on its behavior.
func (e *Engine) Interact(name string) (InteractResult, error) {
	if err := e.begin("interact"); err != nil {
		return InteractResult{}, err
	}
	n, err := e.findNPC(name)
	if err != nil {
		return InteractResult{}, err
	}

	e.log.Debug("interact", "npc", n.ID)
	switch b := n.Behavior.(type) {
	case *types.Hostile:
		return e.engage(n, b)
	case *types.Friendly:
		return e.befriend(n, b), nil
	case *types.Trainer:
		return e.train(n, b), nil
	default:
		return InteractResult{}, fmt.Errorf("%w: npc %q has no behavior", ErrNotFound, n.ID)
	}
}

// findNPC picks the NPC named by name. A name known in the world but not
// at the player's sub-position yields ErrNotHere.
func (e *Engine) findNPC(name string) (*types.NPC, error) {
	r := e.reg
	here := r.PlayerPlacement()

	var local []resolve.Candidate
	known := false
	for _, n := range r.NPCs {
		c := resolve.Candidate{ID: n.ID, Name: n.Name}
		if n.Placement == here {
			local = append(local, c)
		} else if resolve.Match(name, c) {
			known = true
		}
	}

	id, err := resolve.Pick(name, local)
	if err == nil {
		n, _ := r.NPC(id)
		return n, nil
	}

	var amb *resolve.AmbiguityError
	switch {
	case errors.As(err, &amb):
		return nil, fmt.Errorf("%w: %w", ErrPrecondition, err)
	case known:
		return nil, fmt.Errorf("%w: %s", ErrNotHere, name)
	default:
		return nil, fmt.Errorf("%w: %w", ErrNotFound, err)
	}
}

func (e *Engine) engage(n *types.NPC, h *types.Hostile) (InteractResult, error) {
	r := e.reg
	res := InteractResult{NPC: state.CopyNPC(n)}

	if h.HP == 0 {
		res.Kind = InteractDefeated
		return res, nil
	}

	for _, id := range h.RequiredItemIDs {
		if !r.HasItem(id) {
			res.Missing = append(res.Missing, r.EntityName(id))
		}
	}
	if len(res.Missing) > 0 {
		res.Kind = InteractPenalized
		res.Penalty = MissingItemPenalty
		tr, err := e.commit([]types.Effect{
			{Type: types.EffectDamage, Params: map[string]any{"target": state.PlayerTarget, "amount": MissingItemPenalty}},
		})
		res.Trace = tr
		e.log.Debug("engage refused", "npc", n.ID, "missing", res.Missing)
		return res, err
	}

	e.combat = &Combat{NPC: n.ID, Round: 1, Phase: PhaseStart}
	res.Kind = InteractCombat
	res.Attacks = e.AttackOptions()
	e.log.Debug("combat started", "npc", n.ID, "npc_hp", h.HP, "player_hp", r.Player.HP)
	return res, nil
}

func (e *Engine) befriend(n *types.NPC, _ *types.Friendly) InteractResult {
	res := InteractResult{Kind: InteractFriendly, NPC: state.CopyNPC(n)}
	if len(n.Inventory) == 0 {
		return res
	}

	gift := n.Inventory[0]
	o, ok := e.reg.Object(gift)
	if !ok {
		res.GiftUnavailable = gift
		e.log.Warn("gift does not resolve to a world object", "npc", n.ID, "item", gift)
		return res
	}
	e.offer = &Offer{Kind: OfferGift, Subject: o.ID, SubjectName: o.Name, NPC: n.ID}
	offer := *e.offer
	res.Offer = &offer
	return res
}

func (e *Engine) train(n *types.NPC, t *types.Trainer) InteractResult {
	res := InteractResult{NPC: state.CopyNPC(n), HPThreshold: t.HPThreshold}
	if e.reg.Player.HP < t.HPThreshold {
		res.Kind = InteractTrainerNotReady
		return res
	}

	res.Kind = InteractTrainerReady
	e.offer = &Offer{
		Kind:        OfferTraining,
		Subject:     n.ID,
		SubjectName: t.Skill,
		NPC:         n.ID,
		PowerBonus:  t.PowerBonus,
		AttackBonus: t.AttackBonus,
	}
	offer := *e.offer
	res.Offer = &offer
	return res
}
