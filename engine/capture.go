package engine

import (
	"errors"

	"github.com/nathoo/islecore/engine/resolve"
	"github.com/nathoo/islecore/engine/state"
	"github.com/nathoo/islecore/types"
)

// Selection chooses what Capture takes: every eligible item, or the one
// item a name resolves to.
type Selection struct {
	All  bool
	Name string
}

// All selects every capturable item at the player's sub-position.
func All() Selection { return Selection{All: true} }

// Item selects one capturable item by name or id.
func Item(name string) Selection { return Selection{Name: name} }

// CaptureStatus is the outcome of a capture.
type CaptureStatus int

const (
	Captured CaptureStatus = iota
	NothingToCapture
)

func (s CaptureStatus) String() string {
	if s == Captured {
		return "captured"
	}
	return "nothing to capture"
}

// CaptureResult lists the inventory items a capture produced. When the
// selection matched nothing, Suggestion or Candidates may help the player.
type CaptureResult struct {
	Trace
	Status     CaptureStatus
	Items      []types.InventoryItem
	Suggestion string
	Candidates []string
}

// Capture moves the selected static objects and consumables placed at the
// player's exact sub-position into the inventory, in world order.
func (e *Engine) Capture(sel Selection) (CaptureResult, error) {
	if err := e.begin("capture"); err != nil {
		return CaptureResult{}, err
	}
	r := e.reg
	here := r.PlayerPlacement()

	var cands []resolve.Candidate
	for _, o := range r.ObjectsAt(here) {
		cands = append(cands, resolve.Candidate{ID: o.ID, Name: o.Name})
	}
	for _, c := range r.ConsumablesAt(here) {
		cands = append(cands, resolve.Candidate{ID: c.ID, Name: c.Name})
	}

	res := CaptureResult{Status: NothingToCapture}
	var ids []string
	switch {
	case len(cands) == 0:
		return res, nil
	case sel.All:
		for _, c := range cands {
			ids = append(ids, c.ID)
		}
	default:
		id, err := resolve.Pick(sel.Name, cands)
		if err != nil {
			var nf *resolve.NotFoundError
			var amb *resolve.AmbiguityError
			switch {
			case errors.As(err, &nf):
				res.Suggestion = nf.Suggestion
			case errors.As(err, &amb):
				res.Candidates = amb.Candidates
			}
			return res, nil
		}
		ids = []string{id}
	}

	effs := make([]types.Effect, 0, len(ids))
	for _, id := range ids {
		effs = append(effs, types.Effect{Type: types.EffectCapture, Params: map[string]any{"item": id}})
	}
	before := len(r.Player.Inventory)
	tr, err := e.commit(effs)
	res.Trace = tr
	if err != nil {
		return res, err
	}

	res.Status = Captured
	res.Items = append(res.Items, r.Player.Inventory[before:]...)
	e.log.Debug("captured", "items", ids)
	return res, nil
}

// FruitResult carries the offer made for a fruit found at the player's
// sub-position.
type FruitResult struct {
	Fruit types.Fruit
	Offer Offer
}

// CaptureFruit finds the first fruit at the player's sub-position and
// offers to equip it, or to swap it for the held fruit. The answer is given
// through Respond.
func (e *Engine) CaptureFruit() (FruitResult, error) {
	if err := e.begin("capture fruit"); err != nil {
		return FruitResult{}, err
	}
	r := e.reg
	fruits := r.FruitsAt(r.PlayerPlacement())
	if len(fruits) == 0 {
		return FruitResult{}, ErrNoFruitHere
	}
	f := fruits[0]

	offer := Offer{Kind: OfferEquipFruit, Subject: f.ID, SubjectName: f.Name}
	if held := r.Player.Fruit; held != nil {
		offer.Kind = OfferSwapFruit
		offer.Held = held.Name
	}
	e.offer = &offer
	return FruitResult{Fruit: state.CopyFruit(f), Offer: offer}, nil
}
