// Package session turns player commands into engine operations and
// narrates the structured results as text. It is the single entry point of
// both shells: one Step per line of input.
package session

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nathoo/islecore/engine"
	"github.com/nathoo/islecore/engine/parser"
	"github.com/nathoo/islecore/engine/resolve"
	"github.com/nathoo/islecore/types"
)

// Verbs understood outside combat, used for suggestions.
var verbs = []string{
	"look", "go", "sail", "take", "claim", "use", "talk", "attack",
	"inventory", "status", "help", "yes", "no",
}

// Session is a text adapter over an Engine. It holds no world state of its
// own beyond the timing of a running reflex check.
type Session struct {
	eng *engine.Engine
	log *slog.Logger
	now func() time.Time

	reflexShown time.Time
	title       cases.Caser
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the diagnostic logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

// WithClock replaces the clock used to time reflex checks.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// New creates a session over eng.
func New(eng *engine.Engine, opts ...Option) *Session {
	s := &Session{
		eng:   eng,
		log:   slog.New(slog.DiscardHandler),
		now:   time.Now,
		title: cases.Title(language.English),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Engine returns the underlying engine.
func (s *Session) Engine() *engine.Engine {
	return s.eng
}

// Intro returns the opening text: title, intro and the starting scene.
func (s *Session) Intro() types.Result {
	g := s.eng.World().Game()
	var out []string
	if g.Title != "" {
		out = append(out, g.Title)
	}
	if g.Intro != "" {
		out = append(out, g.Intro, "")
	}
	out = append(out, s.describeScene()...)
	return types.Result{Output: out}
}

// Prompt returns the input prompt for the current state.
func (s *Session) Prompt() string {
	switch {
	case s.eng.GameOver():
		return "> "
	case s.reflexPending():
		return "word> "
	case s.inCombat():
		return "attack #> "
	case s.offerPending():
		return "(yes/no) > "
	default:
		return "> "
	}
}

// Step processes one line of player input.
func (s *Session) Step(input string) types.Result {
	input = strings.TrimSpace(input)

	if s.eng.GameOver() {
		return types.Result{Output: []string{"The voyage is over. Type /quit to leave."}, GameOver: true}
	}
	if s.reflexPending() {
		return s.answerReflex(input)
	}

	intent := parser.Parse(input)
	if intent.Verb == "" {
		return say("What do you want to do?")
	}
	s.log.Debug("step", "verb", intent.Verb, "object", intent.Object)

	switch intent.Verb {
	case "look":
		return types.Result{Output: s.describeScene()}
	case "inventory":
		return types.Result{Output: s.describeInventory()}
	case "status":
		return types.Result{Output: s.describeStatus()}
	case "help":
		return types.Result{Output: Help()}
	}

	if s.inCombat() {
		return s.attack(intent)
	}
	if s.offerPending() && (intent.Verb == "yes" || intent.Verb == "no") {
		return s.respond(intent.Verb == "yes")
	}

	switch intent.Verb {
	case "go":
		return s.move(intent.Object, false)
	case "sail":
		return s.move(intent.Object, true)
	case "take":
		sel := engine.Item(intent.Object)
		if intent.Object == "" || intent.Object == "all" || intent.Object == "everything" {
			sel = engine.All()
		}
		res, err := s.eng.Capture(sel)
		if err != nil {
			return s.fail(err)
		}
		return s.narrateCapture(res)
	case "claim":
		res, err := s.eng.CaptureFruit()
		if err != nil {
			return s.fail(err)
		}
		return s.narrateFruitOffer(res)
	case "use":
		res, err := s.eng.Consume(intent.Object)
		if err != nil {
			return s.fail(err)
		}
		return s.narrateConsume(res)
	case "talk", "attack":
		if intent.Object == "" {
			return say("Who?")
		}
		res, err := s.eng.Interact(intent.Object)
		if err != nil {
			return s.fail(err)
		}
		return s.narrateInteract(res)
	case "yes", "no":
		return say("Nobody asked you anything.")
	default:
		msg := "I don't understand that."
		if sug := resolve.Suggest(intent.Verb, verbs); sug != "" {
			msg = "I don't understand that. Did you mean \"" + sug + "\"?"
		}
		return say(msg)
	}
}

func (s *Session) move(dir string, sail bool) types.Result {
	if dir == "" {
		return say("Which way? (north, south, east or west)")
	}
	o, ok := parser.Direction(dir)
	if !ok {
		msg := "That's not a direction."
		if sug := resolve.Suggest(dir, []string{"north", "south", "east", "west"}); sug != "" {
			msg = "That's not a direction. Did you mean " + sug + "?"
		}
		return say(msg)
	}

	var res engine.MoveResult
	var err error
	if sail {
		res, err = s.eng.Sail(o)
	} else {
		res, err = s.eng.Walk(o)
	}
	if err != nil && !errors.Is(err, engine.ErrNoEntryPoint) {
		return s.fail(err)
	}
	return s.narrateMove(res, sail, err)
}

// attack resolves a combat round. Anything that is not an attack number
// degrades to the first attack.
func (s *Session) attack(intent types.Intent) types.Result {
	choice := -1
	if intent.Verb == "attack" {
		if n, err := strconv.Atoi(intent.Object); err == nil {
			choice = n - 1
		} else if intent.Object == "" {
			choice = 0
		}
	}
	res, err := s.eng.Attack(choice)
	if err != nil {
		return s.fail(err)
	}
	return s.narrateRound(res)
}

func (s *Session) respond(accept bool) types.Result {
	res, err := s.eng.Respond(accept)
	if err != nil {
		return s.fail(err)
	}
	return s.narrateOffer(res)
}

func (s *Session) answerReflex(input string) types.Result {
	elapsed := s.now().Sub(s.reflexShown)
	res, err := s.eng.AnswerReflex(input, elapsed)
	if err != nil {
		return s.fail(err)
	}
	return s.narrateReflex(res)
}

func (s *Session) reflexPending() bool {
	_, ok := s.eng.PendingReflex()
	return ok
}

func (s *Session) inCombat() bool {
	_, ok := s.eng.Combat()
	return ok
}

func (s *Session) offerPending() bool {
	_, ok := s.eng.Pending()
	return ok
}

// Help returns the command reference.
func Help() []string {
	return []string{
		"Commands:",
		"  look (l)              Describe where you are",
		"  go <dir> (n/s/e/w)    Walk within the island",
		"  sail <dir>            Sail the Boat to another island",
		"  take [item|all]       Pick up items here",
		"  claim                 Eat the fruit here",
		"  use <item>            Eat or drink a consumable",
		"  talk <npc>            Talk to (or confront) someone",
		"  attack <n>            Choose an attack during a fight",
		"  yes / no              Answer an offer",
		"  inventory (i)         What you carry",
		"  status                Your health and power",
	}
}

func say(lines ...string) types.Result {
	return types.Result{Output: lines}
}

func withTrace(r types.Result, tr engine.Trace) types.Result {
	r.Effects = append(r.Effects, tr.Effects...)
	r.Events = append(r.Events, tr.Events...)
	r.GameOver = r.GameOver || tr.GameOver
	return r
}
