package engine

import (
	"fmt"

	"github.com/nathoo/islecore/engine/state"
	"github.com/nathoo/islecore/types"
)

// Phase is a state of the combat state machine.
type Phase int

const (
	PhaseStart Phase = iota
	PhasePlayerChoosesAttack
	PhaseResolvePlayerDamage
	PhaseCheckNPCDefeated
	PhaseResolveNPCCounter
	PhaseCheckPlayerDefeated
	PhasePlayerWins
	PhasePlayerLoses
)

var phaseNames = [...]string{
	"start", "player chooses attack", "resolve player damage", "check npc defeated",
	"resolve npc counter", "check player defeated", "player wins", "player loses",
}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return fmt.Sprintf("Phase(%d)", int(p))
	}
	return phaseNames[p]
}

// Terminal reports whether the fight is over.
func (p Phase) Terminal() bool {
	return p == PhasePlayerWins || p == PhasePlayerLoses
}

// NormalAttack is the one attack of a player without fruit attacks. Its
// damage is the player's power alone.
var NormalAttack = types.Attack{ID: "normal_attack", Name: "Normal attack"}

// Combat is an open fight against one Hostile NPC.
type Combat struct {
	NPC   string
	Round int
	Phase Phase
}

// CombatRound reports one resolved round.
type CombatRound struct {
	Trace
	NPC       string
	Round     int
	Attack    types.Attack
	Defaulted bool // the choice was out of range; the first attack was used

	PlayerDamage int
	NPCHP        int

	Counter       *types.Attack // nil when the NPC has no attacks
	CounterDamage int
	PlayerHP      int

	Phases []Phase // phases visited this round, ending in the current one
	Loot   []string
	Reward int
}

// Outcome returns the phase the round ended in.
func (c CombatRound) Outcome() Phase {
	if len(c.Phases) == 0 {
		return PhaseStart
	}
	return c.Phases[len(c.Phases)-1]
}

// Combat returns the open fight, if any.
func (e *Engine) Combat() (Combat, bool) {
	if e.combat == nil {
		return Combat{}, false
	}
	return *e.combat, true
}

// AttackOptions returns the player's attack choices: the attacks of the
// equipped fruit, or the normal attack.
func (e *Engine) AttackOptions() []types.Attack {
	var out []types.Attack
	for _, a := range e.reg.FruitAttacks(e.reg.Player.Fruit) {
		out = append(out, *a)
	}
	if len(out) == 0 {
		out = append(out, NormalAttack)
	}
	return out
}

// Attack resolves one round of the open fight with the attack at index
// choice of AttackOptions. An out-of-range choice uses the first attack.
func (e *Engine) Attack(choice int) (CombatRound, error) {
	if e.GameOver() {
		return CombatRound{}, ErrGameOver
	}
	if e.combat == nil {
		return CombatRound{}, ErrNotInCombat
	}
	c := e.combat
	r := e.reg
	p := r.Player

	n, ok := r.NPC(c.NPC)
	if !ok {
		e.combat = nil
		return CombatRound{}, fmt.Errorf("%w: npc %q", ErrNotFound, c.NPC)
	}
	h, ok := n.Behavior.(*types.Hostile)
	if !ok {
		e.combat = nil
		return CombatRound{}, fmt.Errorf("%w: npc %q is not hostile", ErrNotFound, c.NPC)
	}

	res := CombatRound{NPC: n.ID, Round: c.Round}
	step := func(ph Phase) {
		c.Phase = ph
		res.Phases = append(res.Phases, ph)
	}

	step(PhasePlayerChoosesAttack)
	attacks := e.AttackOptions()
	if choice < 0 || choice >= len(attacks) {
		choice = 0
		res.Defaulted = true
	}
	res.Attack = attacks[choice]

	step(PhaseResolvePlayerDamage)
	res.PlayerDamage = p.Power + p.Boost + res.Attack.Power
	tr, err := e.commit([]types.Effect{
		{Type: types.EffectDamage, Params: map[string]any{"target": n.ID, "amount": res.PlayerDamage}},
	})
	res.Trace.merge(tr)
	res.NPCHP = h.HP
	if err != nil {
		return res, err
	}

	step(PhaseCheckNPCDefeated)
	if h.HP == 0 {
		err := e.win(n, h, &res)
		step(PhasePlayerWins)
		e.endCombat(res)
		return res, err
	}

	step(PhaseResolveNPCCounter)
	res.CounterDamage = h.Power
	for _, id := range h.AttackIDs {
		if a, ok := r.Attacks[id]; ok {
			counter := *a
			res.Counter = &counter
			res.CounterDamage += a.Power
			break
		}
	}
	tr, err = e.commit([]types.Effect{
		{Type: types.EffectDamage, Params: map[string]any{"target": state.PlayerTarget, "amount": res.CounterDamage}},
	})
	res.Trace.merge(tr)
	res.PlayerHP = p.HP
	if err != nil {
		return res, err
	}

	step(PhaseCheckPlayerDefeated)
	if p.HP == 0 {
		tr, err := e.commit([]types.Effect{
			{Type: types.EffectSetBoost, Params: map[string]any{"amount": 0}},
		})
		res.Trace.merge(tr)
		step(PhasePlayerLoses)
		e.endCombat(res)
		return res, err
	}

	step(PhasePlayerChoosesAttack)
	c.Round++
	e.log.Debug("combat round", "npc", n.ID, "round", res.Round,
		"player_damage", res.PlayerDamage, "npc_hp", res.NPCHP,
		"counter_damage", res.CounterDamage, "player_hp", res.PlayerHP)
	return res, nil
}

// win transfers the NPC's loot, grants its reward and clears the
// temporary boost.
func (e *Engine) win(n *types.NPC, h *types.Hostile, res *CombatRound) error {
	r := e.reg
	res.PlayerHP = r.Player.HP

	var effs []types.Effect
	for _, id := range n.Inventory {
		if _, ok := r.Object(id); !ok {
			e.log.Warn("loot does not resolve to a world object", "npc", n.ID, "item", id)
			continue
		}
		res.Loot = append(res.Loot, id)
		effs = append(effs, types.Effect{Type: types.EffectGiveItem, Params: map[string]any{"item": id, "npc": n.ID}})
	}
	effs = append(effs, types.Effect{Type: types.EffectClearNPCInventory, Params: map[string]any{"npc": n.ID}})
	if h.Reward > 0 {
		res.Reward = h.Reward
		effs = append(effs, types.Effect{Type: types.EffectBoostPower, Params: map[string]any{"amount": h.Reward}})
	}
	effs = append(effs, types.Effect{Type: types.EffectSetBoost, Params: map[string]any{"amount": 0}})

	tr, err := e.commit(effs)
	res.Trace.merge(tr)
	return err
}

func (e *Engine) endCombat(res CombatRound) {
	e.combat = nil
	e.log.Debug("combat over", "npc", res.NPC, "round", res.Round,
		"outcome", res.Outcome().String(), "player_hp", res.PlayerHP)
}
