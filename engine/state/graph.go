package state

import (
	"strings"

	"github.com/nathoo/islecore/types"
)

// Graph is a read-only view of the two-level world graph derived from the
// Registry: Locations linked to Locations, SubLocations linked to
// SubLocations of the same Location.
type Graph struct {
	r *Registry
}

// Graph returns the world graph view over r.
func (r *Registry) Graph() Graph {
	return Graph{r: r}
}

// Neighbor returns the Location reached from loc by following dir.
func (g Graph) Neighbor(loc string, dir types.Orientation) (string, bool) {
	l, ok := g.r.Locations[loc]
	if !ok {
		return "", false
	}
	dest, ok := l.Exits[dir]
	return dest, ok
}

// SubNeighbor returns the SubLocation reached from sub by following dir.
func (g Graph) SubNeighbor(sub string, dir types.Orientation) (string, bool) {
	s, ok := g.r.SubLocations[sub]
	if !ok {
		return "", false
	}
	dest, ok := s.Exits[dir]
	return dest, ok
}

// Owner returns the Location that owns sub.
func (g Graph) Owner(sub string) (string, bool) {
	s, ok := g.r.SubLocations[sub]
	if !ok {
		return "", false
	}
	return s.Location, true
}

// Resolve returns the SubLocation sub if it exists and belongs to loc.
func (g Graph) Resolve(loc, sub string) (*types.SubLocation, bool) {
	s, ok := g.r.SubLocations[sub]
	if !ok || s.Location != loc {
		return nil, false
	}
	return s, true
}

// Entry returns the first sub-location of loc, in definition order, whose
// id carries EntryPrefix.
func (g Graph) Entry(loc string) (string, bool) {
	l, ok := g.r.Locations[loc]
	if !ok {
		return "", false
	}
	for _, id := range l.Subs {
		if strings.HasPrefix(id, EntryPrefix) {
			return id, true
		}
	}
	return "", false
}

// LocationExits returns the orientations leaving loc, in display order.
func (g Graph) LocationExits(loc string) []types.Orientation {
	l, ok := g.r.Locations[loc]
	if !ok {
		return nil
	}
	return sortedExits(l.Exits)
}

// SubExits returns the orientations leaving sub, in display order.
func (g Graph) SubExits(sub string) []types.Orientation {
	s, ok := g.r.SubLocations[sub]
	if !ok {
		return nil
	}
	return sortedExits(s.Exits)
}

func sortedExits(exits map[types.Orientation]string) []types.Orientation {
	var out []types.Orientation
	for _, dir := range types.Orientations {
		if _, ok := exits[dir]; ok {
			out = append(out, dir)
		}
	}
	return out
}
