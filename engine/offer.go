package engine

import (
	"fmt"

	"github.com/nathoo/islecore/types"
)

// OfferKind says what accepting an Offer does.
type OfferKind int

const (
	OfferEquipFruit OfferKind = iota
	OfferSwapFruit
	OfferGift
	OfferTraining
)

func (k OfferKind) String() string {
	switch k {
	case OfferEquipFruit:
		return "equip fruit"
	case OfferSwapFruit:
		return "swap fruit"
	case OfferGift:
		return "gift"
	case OfferTraining:
		return "training"
	default:
		return fmt.Sprintf("OfferKind(%d)", int(k))
	}
}

// Offer is a yes/no question the engine is waiting on. It stays pending
// until Respond is called or another operation starts.
type Offer struct {
	Kind        OfferKind
	Subject     string // fruit id, gift object id, or trainer NPC id
	SubjectName string
	NPC         string // offering NPC, for gifts and training
	Held        string // name of the fruit a swap gives back
	PowerBonus  int
	AttackBonus int
}

// OfferResult is the outcome of answering an Offer.
type OfferResult struct {
	Trace
	Offer    Offer
	Accepted bool
}

// Pending returns the offer waiting for an answer, if any.
func (e *Engine) Pending() (Offer, bool) {
	if e.offer == nil {
		return Offer{}, false
	}
	return *e.offer, true
}

// Respond answers the pending offer. Declining changes nothing.
func (e *Engine) Respond(accept bool) (OfferResult, error) {
	if e.GameOver() {
		return OfferResult{}, ErrGameOver
	}
	if e.offer == nil {
		return OfferResult{}, ErrNoPendingOffer
	}
	o := *e.offer
	e.offer = nil

	res := OfferResult{Offer: o, Accepted: accept}
	e.log.Debug("offer answered", "kind", o.Kind.String(), "subject", o.Subject, "accepted", accept)
	if !accept {
		return res, nil
	}

	var effs []types.Effect
	switch o.Kind {
	case OfferEquipFruit:
		if _, ok := e.reg.Fruit(o.Subject); !ok {
			return res, ErrNoFruitHere
		}
		effs = append(effs,
			types.Effect{Type: types.EffectEquipFruit, Params: map[string]any{"fruit": o.Subject}})

	case OfferSwapFruit:
		if _, ok := e.reg.Fruit(o.Subject); !ok {
			return res, ErrNoFruitHere
		}
		effs = append(effs,
			types.Effect{Type: types.EffectReturnFruit},
			types.Effect{Type: types.EffectEquipFruit, Params: map[string]any{"fruit": o.Subject}})

	case OfferGift:
		effs = append(effs,
			types.Effect{Type: types.EffectGiveItem, Params: map[string]any{"item": o.Subject, "npc": o.NPC}})

	case OfferTraining:
		effs = append(effs,
			types.Effect{Type: types.EffectBoostPower, Params: map[string]any{"amount": o.PowerBonus}})
		if o.AttackBonus > 0 {
			for _, a := range e.reg.FruitAttacks(e.reg.Player.Fruit) {
				effs = append(effs, types.Effect{
					Type:   types.EffectBoostAttack,
					Params: map[string]any{"attack": a.ID, "amount": o.AttackBonus},
				})
			}
		}
	}

	tr, err := e.commit(effs)
	res.Trace = tr
	return res, err
}
