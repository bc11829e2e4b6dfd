package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles used throughout the TUI.
var (
	styleStatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Bold(true)

	styleInputPrompt = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleNarration = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	styleYouSee = lipgloss.NewStyle().
			Bold(true)

	styleExits = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	styleDialogue = lipgloss.NewStyle().
			Foreground(lipgloss.Color("228"))

	styleCombat = lipgloss.NewStyle().
			Foreground(lipgloss.Color("209"))

	styleQuestion = lipgloss.NewStyle().
			Foreground(lipgloss.Color("117"))

	styleFinale = lipgloss.NewStyle().
			Foreground(lipgloss.Color("220")).
			Bold(true)

	styleSystem = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	styleError = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	stylePlayerInput = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleTrace = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	styleHPHigh = lipgloss.NewStyle().Foreground(lipgloss.Color("34")).Background(lipgloss.Color("236"))
	styleHPMid  = lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Background(lipgloss.Color("236"))
	styleHPLow  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Background(lipgloss.Color("236"))
)

// lineKind identifies the type of an output line for styling.
type lineKind int

const (
	kindNarration lineKind = iota
	kindYouSee
	kindExits
	kindDialogue
	kindCombat
	kindQuestion
	kindFinale
	kindSystem
	kindError
	kindTrace
)

// classifyLine determines what kind of output line this is.
func classifyLine(line string) lineKind {
	switch {
	case strings.HasPrefix(line, "[trace]"):
		return kindTrace
	case strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]"):
		return kindSystem
	case strings.HasPrefix(line, "***"),
		strings.HasPrefix(line, "You have gathered every treasure"):
		return kindFinale
	case strings.HasPrefix(line, "You see:"):
		return kindYouSee
	case strings.HasPrefix(line, "Paths:"),
		strings.HasPrefix(line, "You can sail"):
		return kindExits
	case strings.HasPrefix(line, "There's no"),
		strings.HasPrefix(line, "There's nothing"),
		strings.HasPrefix(line, "You can't"),
		strings.HasPrefix(line, "You don't have"),
		strings.HasPrefix(line, "They are not here"),
		strings.HasPrefix(line, "The way is blocked"):
		return kindError
	case strings.HasPrefix(line, "Round "),
		strings.HasPrefix(line, "You face "),
		strings.Contains(line, " strikes back"):
		return kindCombat
	case strings.HasPrefix(line, "Quick!"),
		strings.HasSuffix(line, "?") && !strings.Contains(line, `"`):
		return kindQuestion
	case strings.Contains(line, " says: "):
		return kindDialogue
	default:
		return kindNarration
	}
}

// styledYouSee renders "You see: item1, item2." with item names bold.
func styledYouSee(line string) string {
	const prefix = "You see: "
	if !strings.HasPrefix(line, prefix) {
		return styleNarration.Render(line)
	}
	return styleNarration.Render(prefix) + styleYouSee.Render(line[len(prefix):])
}

// styledSystemMsg renders a system message in gray with brackets.
func styledSystemMsg(text string) string {
	return styleSystem.Render("[" + text + "]")
}

// renderLineKind applies the style for a given lineKind.
func renderLineKind(line string, kind lineKind) string {
	switch kind {
	case kindYouSee:
		return styledYouSee(line)
	case kindExits:
		return styleExits.Render(line)
	case kindDialogue:
		return styleDialogue.Render(line)
	case kindCombat:
		return styleCombat.Render(line)
	case kindQuestion:
		return styleQuestion.Render(line)
	case kindFinale:
		return styleFinale.Render(line)
	case kindSystem:
		return styleSystem.Render(line)
	case kindError:
		return styleError.Render(line)
	case kindTrace:
		return styleTrace.Render(line)
	default:
		return styleNarration.Render(line)
	}
}

// hpStyle picks the health color for the status bar.
func hpStyle(hp, limit int) lipgloss.Style {
	switch {
	case hp*3 > limit*2:
		return styleHPHigh
	case hp*3 > limit:
		return styleHPMid
	default:
		return styleHPLow
	}
}
