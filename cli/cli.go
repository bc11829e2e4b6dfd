// Package cli provides the line-oriented shell: terminal I/O, output
// formatting and meta-command dispatch over a game session.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/nathoo/islecore/engine/state"
	"github.com/nathoo/islecore/session"
	"github.com/nathoo/islecore/types"
)

// CLI handles terminal interaction with the player.
type CLI struct {
	Session   *session.Session
	In        io.Reader
	Out       io.Writer
	Trace     bool
	EchoInput bool   // echo each input line after the prompt (for script playback)
	lastCmd   string // for "again" repeat
}

// New creates a CLI on stdin and stdout.
func New(s *session.Session) *CLI {
	return &CLI{
		Session: s,
		In:      os.Stdin,
		Out:     os.Stdout,
	}
}

// Run starts the game loop. It shows the intro and the starting scene,
// then loops: prompt → input → step → output. It returns when input ends,
// on /quit, or once the game is over.
func (c *CLI) Run() {
	c.printResult(c.Session.Intro())

	scanner := bufio.NewScanner(c.In)
	for {
		c.print(c.Session.Prompt())
		if !scanner.Scan() {
			c.printLine("")
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		// Skip comment lines (for script files).
		if strings.HasPrefix(input, "#") {
			continue
		}
		if c.EchoInput {
			c.printLine(input)
		}

		if strings.HasPrefix(input, "/") {
			if c.handleMeta(input) {
				return
			}
			continue
		}

		if strings.EqualFold(input, "again") {
			if c.lastCmd == "" {
				c.printLine("Nothing to repeat.")
				continue
			}
			input = c.lastCmd
		} else {
			c.lastCmd = input
		}

		result := c.Session.Step(input)
		c.printResult(result)
		if c.Trace {
			c.printTrace(result)
		}
		if result.GameOver {
			return
		}
	}
}

// handleMeta dispatches meta-commands. Returns true if the game should exit.
func (c *CLI) handleMeta(input string) bool {
	cmd := strings.Fields(input)[0]

	switch cmd {
	case "/quit", "/exit":
		c.printSystem("Goodbye.")
		return true

	case "/help":
		c.cmdHelp()

	case "/state":
		c.cmdState()

	case "/trace":
		c.Trace = !c.Trace
		if c.Trace {
			c.printSystem("Trace output enabled.")
		} else {
			c.printSystem("Trace output disabled.")
		}

	default:
		c.printSystem(fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd))
	}

	return false
}

func (c *CLI) cmdHelp() {
	help := []string{
		"System:",
		"  /quit         Exit game",
		"  /help         Show this help",
		"  /state        Debug: dump current state",
		"  /trace        Toggle debug trace output",
		"",
	}
	help = append(help, session.Help()...)
	help = append(help, "  again                 Repeat your last command")
	for _, line := range help {
		c.printLine(line)
	}
}

func (c *CLI) cmdState() {
	eng := c.Session.Engine()
	p := eng.Player()
	c.printSystem(fmt.Sprintf("Seed: %d", eng.Seed()))
	c.printSystem(fmt.Sprintf("Position: %s / %s", p.Position, p.SubPosition))
	c.printSystem(fmt.Sprintf("HP: %d  Power: %d  Boost: %d", p.HP, p.Power, p.Boost))
	if p.Fruit != nil {
		c.printSystem(fmt.Sprintf("Fruit: %s", p.Fruit.ID))
	}
	ids := make([]string, len(p.Inventory))
	for i, item := range p.Inventory {
		ids[i] = item.ID
	}
	c.printSystem(fmt.Sprintf("Inventory: %v", ids))

	var flags []string
	for _, f := range []string{state.FinaleFlag, state.GameOverFlag} {
		if eng.World().Flag(f) {
			flags = append(flags, f)
		}
	}
	if len(flags) > 0 {
		c.printSystem(fmt.Sprintf("Flags: %v", flags))
	}
	if cb, ok := eng.Combat(); ok {
		c.printSystem(fmt.Sprintf("Combat: %s round %d (%s)", cb.NPC, cb.Round, cb.Phase))
	}
}

func (c *CLI) printTrace(result types.Result) {
	if len(result.Effects) > 0 {
		c.printSystem(fmt.Sprintf("[trace] Effects: %d", len(result.Effects)))
		for _, e := range result.Effects {
			c.printSystem(fmt.Sprintf("[trace]   %s %v", e.Type, e.Params))
		}
	}
	if len(result.Events) > 0 {
		c.printSystem(fmt.Sprintf("[trace] Events: %d", len(result.Events)))
		for _, e := range result.Events {
			c.printSystem(fmt.Sprintf("[trace]   %s", e.Type))
		}
	}
}

func (c *CLI) printResult(result types.Result) {
	for _, line := range result.Output {
		c.printLine(line)
	}
}

func (c *CLI) printLine(text string) {
	fmt.Fprintln(c.Out, text)
}

func (c *CLI) print(text string) {
	fmt.Fprint(c.Out, text)
}

func (c *CLI) printSystem(text string) {
	fmt.Fprintf(c.Out, "[%s]\n", text)
}
