package engine

import (
	"strings"
	"time"

	"github.com/nathoo/islecore/engine/resolve"
	"github.com/nathoo/islecore/engine/state"
	"github.com/nathoo/islecore/types"
)

const (
	// IntoxicatingMarker in a consumable's name triggers a reflex check.
	IntoxicatingMarker = "sake"

	// IntoxicationBoost is the temporary power granted by an intoxicating
	// consumable. It is cleared when the next fight ends.
	IntoxicationBoost = 5

	// ReflexPenalty is the hp lost for a wrong answer, and the cap of the
	// penalty for a slow one.
	ReflexPenalty = 20
)

var reflexWords = []string{
	"anchor", "barrel", "cannon", "compass", "cutlass",
	"galleon", "harbor", "lantern", "parrot", "treasure",
}

// ConsumeResult reports a consumed item. Defaulted is set when the
// selection matched no consumable and the first one was used instead.
type ConsumeResult struct {
	Trace
	Item      types.InventoryItem
	Healed    int
	Defaulted bool
	Reflex    *Reflex
}

// Reflex is a timed check started by an intoxicating consumable: the
// player must type Word back within Budget.
type Reflex struct {
	Word   string
	Budget time.Duration
	Boost  int
}

// ReflexResult is the outcome of a reflex check.
type ReflexResult struct {
	Trace
	Correct bool
	Late    bool
	Overrun time.Duration
	Penalty int
	HP      int
}

// Consume eats or drinks one consumable from the inventory, restoring hp
// up to the cap. The selection names the item; anything that names no
// consumable picks the first one.
func (e *Engine) Consume(sel string) (ConsumeResult, error) {
	if err := e.begin("consume"); err != nil {
		return ConsumeResult{}, err
	}
	r := e.reg
	p := r.Player

	if !r.HasConsumable() {
		return ConsumeResult{}, ErrNoConsumable
	}
	if p.HP >= types.MaxPlayerHP {
		return ConsumeResult{}, ErrFullHealth
	}

	var cands []resolve.Candidate
	for _, item := range p.Inventory {
		if item.Kind == types.ItemConsumable {
			cands = append(cands, resolve.Candidate{ID: item.ID, Name: item.Name})
		}
	}
	var res ConsumeResult
	id, err := resolve.Pick(sel, cands)
	if err != nil {
		id = cands[0].ID
		res.Defaulted = strings.TrimSpace(sel) != ""
	}
	res.Item = p.Inventory[r.InventoryIndex(id)]

	effs := []types.Effect{
		{Type: types.EffectHeal, Params: map[string]any{"amount": res.Item.HPRestore}},
		{Type: types.EffectRemoveItem, Params: map[string]any{"item": id}},
	}
	intoxicating := strings.Contains(strings.ToLower(res.Item.Name), IntoxicatingMarker)
	if intoxicating {
		effs = append(effs, types.Effect{
			Type:   types.EffectSetBoost,
			Params: map[string]any{"amount": p.Boost + IntoxicationBoost},
		})
	}

	hp := p.HP
	tr, err := e.commit(effs)
	res.Trace = tr
	if err != nil {
		return res, err
	}
	res.Healed = p.HP - hp

	if intoxicating {
		e.reflex = &Reflex{
			Word:   reflexWords[e.rng.Roll(len(reflexWords))-1],
			Budget: e.reflexBudget,
			Boost:  IntoxicationBoost,
		}
		rc := *e.reflex
		res.Reflex = &rc
		e.log.Debug("reflex check started", "word", rc.Word, "budget", rc.Budget, "rng_position", e.rng.Position())
	}
	return res, nil
}

// PendingReflex returns the running reflex check, if any.
func (e *Engine) PendingReflex() (Reflex, bool) {
	if e.reflex == nil {
		return Reflex{}, false
	}
	return *e.reflex, true
}

// AnswerReflex settles the running reflex check. elapsed is the time the
// shell measured between showing the word and reading the answer. A wrong
// answer costs ReflexPenalty hp; a slow one costs a share of it
// proportional to the overrun.
func (e *Engine) AnswerReflex(answer string, elapsed time.Duration) (ReflexResult, error) {
	if e.GameOver() {
		return ReflexResult{}, ErrGameOver
	}
	if e.reflex == nil {
		return ReflexResult{}, ErrNoReflexCheck
	}
	rc := *e.reflex
	e.reflex = nil

	res := ReflexResult{
		Correct: strings.EqualFold(strings.TrimSpace(answer), rc.Word),
		Late:    elapsed > rc.Budget,
	}
	if res.Late {
		res.Overrun = elapsed - rc.Budget
	}
	res.Penalty = reflexPenalty(res.Correct, res.Overrun, rc.Budget)
	e.log.Debug("reflex check answered", "correct", res.Correct, "elapsed", elapsed, "penalty", res.Penalty)

	if res.Penalty > 0 {
		tr, err := e.commit([]types.Effect{
			{Type: types.EffectDamage, Params: map[string]any{"target": state.PlayerTarget, "amount": res.Penalty}},
		})
		res.Trace = tr
		if err != nil {
			return res, err
		}
	}
	res.HP = e.reg.Player.HP
	return res, nil
}

// reflexPenalty computes the hp lost: the full penalty for a wrong answer,
// otherwise ceil(ReflexPenalty * overrun / budget) capped at ReflexPenalty.
func reflexPenalty(correct bool, overrun, budget time.Duration) int {
	if !correct {
		return ReflexPenalty
	}
	if overrun <= 0 {
		return 0
	}
	if budget <= 0 {
		return ReflexPenalty
	}
	n := int64(ReflexPenalty) * int64(overrun)
	pen := n / int64(budget)
	if n%int64(budget) != 0 {
		pen++
	}
	return int(min(pen, ReflexPenalty))
}
