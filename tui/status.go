package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nathoo/islecore/types"
)

const hpBarWidth = 10

// hpBar draws the player's health as a fixed-width gauge.
func hpBar(hp int) string {
	filled := min(max(hp*hpBarWidth/types.MaxPlayerHP, 0), hpBarWidth)
	if hp > 0 && filled == 0 {
		filled = 1
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", hpBarWidth-filled)
}

// renderStatusBar produces a full-width inverted status line showing the
// current position, health, power and what the player carries. During a
// fight the opponent replaces the inventory.
func (m Model) renderStatusBar() string {
	eng := m.session.Engine()
	world := eng.World()
	p := eng.Player()

	place := p.Position
	if loc, ok := world.Location(p.Position); ok {
		place = loc.Name
	}
	if sub, ok := world.SubLocation(p.SubPosition); ok {
		place += ", " + sub.Name
	}

	hp := hpStyle(p.HP, types.MaxPlayerHP).Render(hpBar(p.HP))
	left := fmt.Sprintf(" %s | HP %s %d", place, hp, p.HP)

	power := fmt.Sprintf("Pow %d", p.Power)
	if p.Boost > 0 {
		power += fmt.Sprintf("+%d", p.Boost)
	}
	if p.Fruit != nil {
		power += " | " + p.Fruit.Name
	}

	right := power + " "
	if cb, ok := eng.Combat(); ok {
		foe := world.EntityName(cb.NPC)
		if n, ok := world.NPC(cb.NPC); ok {
			if h, ok := n.Behavior.(*types.Hostile); ok {
				foe = fmt.Sprintf("%s %d/%d", foe, h.HP, h.MaxHP)
			}
		}
		right = fmt.Sprintf("vs %s | %s ", foe, power)
	} else if len(p.Inventory) > 0 {
		names := make([]string, len(p.Inventory))
		for i, item := range p.Inventory {
			names[i] = item.Name
		}
		// Show item names if they fit, otherwise just the count.
		candidate := fmt.Sprintf("Inv: %s | %s ", strings.Join(names, ", "), power)
		if lipgloss.Width(left)+lipgloss.Width(candidate)+2 < m.width {
			right = candidate
		} else {
			right = fmt.Sprintf("Inv: %d | %s ", len(names), power)
		}
	}

	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right), 0)
	bar := left + strings.Repeat(" ", gap) + right
	return styleStatusBar.Width(m.width).Render(bar)
}
