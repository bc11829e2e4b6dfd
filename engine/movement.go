package engine

import (
	"fmt"

	"github.com/nathoo/islecore/types"
)

// MoveResult describes a completed move.
type MoveResult struct {
	Trace
	From types.Placement
	To   types.Placement
}

// Sail moves the player and the Boat to the Location reached by dir. The
// Boat must be at the player's exact sub-position. The player arrives at
// the destination's entry sub-location; when the destination has none the
// position still changes and ErrNoEntryPoint is returned.
func (e *Engine) Sail(dir types.Orientation) (MoveResult, error) {
	if err := e.begin("sail"); err != nil {
		return MoveResult{}, err
	}
	r := e.reg
	res := MoveResult{From: r.PlayerPlacement()}

	boat, ok := r.BoatAt(res.From)
	if !ok {
		return res, ErrNoVehicle
	}
	dest, ok := r.Graph().Neighbor(res.From.Location, dir)
	if !ok {
		return res, ErrNoConnection
	}
	loc, ok := r.Locations[dest]
	if !ok {
		return res, fmt.Errorf("%w: %s of %s is %q", ErrBrokenTopology, dir, res.From.Location, dest)
	}
	if err := e.checkKey(loc); err != nil {
		return res, err
	}

	entry, hasEntry := r.Graph().Entry(dest)
	res.To = types.Placement{Location: dest, Sub: entry}
	tr, err := e.commit([]types.Effect{
		{Type: types.EffectMovePlayer, Params: map[string]any{"location": dest, "sub": entry}},
		{Type: types.EffectMoveMobile, Params: map[string]any{"entity": boat.ID, "location": dest, "sub": entry}},
	})
	res.Trace = tr
	if err != nil {
		return res, err
	}

	e.log.Debug("sailed", "from", res.From.Location, "to", dest, "entry", entry)
	if !hasEntry {
		e.log.Warn("location has no entry sub-location", "location", dest)
		return res, fmt.Errorf("%w: %s", ErrNoEntryPoint, dest)
	}
	return res, nil
}

// checkKey refuses entry to a Location whose key object is not held as a
// static inventory item.
func (e *Engine) checkKey(loc *types.Location) error {
	key := loc.RequiredKey
	if key == "" {
		return nil
	}
	r := e.reg
	if i := r.InventoryIndex(key); i >= 0 && r.Player.Inventory[i].Kind == types.ItemStatic {
		return nil
	}
	missing := &MissingKeyError{KeyID: key, KeyName: r.EntityName(key)}
	if o, ok := r.Object(key); ok {
		missing.KeyDescription = o.Description
	}
	return missing
}

// Walk moves the player to the neighboring SubLocation of the current
// Location reached by dir.
func (e *Engine) Walk(dir types.Orientation) (MoveResult, error) {
	if err := e.begin("walk"); err != nil {
		return MoveResult{}, err
	}
	r := e.reg
	g := r.Graph()
	res := MoveResult{From: r.PlayerPlacement()}

	if _, ok := g.Resolve(res.From.Location, res.From.Sub); !ok {
		return res, fmt.Errorf("%w: player stands on %q in %s", ErrBrokenTopology, res.From.Sub, res.From.Location)
	}
	dest, ok := g.SubNeighbor(res.From.Sub, dir)
	if !ok {
		return res, ErrNoConnection
	}
	if _, ok := g.Resolve(res.From.Location, dest); !ok {
		return res, fmt.Errorf("%w: %s of %s is %q", ErrBrokenTopology, dir, res.From.Sub, dest)
	}

	res.To = types.Placement{Location: res.From.Location, Sub: dest}
	tr, err := e.commit([]types.Effect{
		{Type: types.EffectSetSub, Params: map[string]any{"sub": dest}},
	})
	res.Trace = tr
	return res, err
}
