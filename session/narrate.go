package session

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nathoo/islecore/engine"
	"github.com/nathoo/islecore/engine/resolve"
	"github.com/nathoo/islecore/types"
)

func (s *Session) describeScene() []string {
	sc := s.eng.Look()
	var out []string

	out = append(out, fmt.Sprintf("%s, %s", sc.Location.Name, sc.Sub.Name))
	if sc.Sub.Description != "" {
		out = append(out, sc.Sub.Description)
	} else if sc.Location.Description != "" {
		out = append(out, sc.Location.Description)
	}

	var things []string
	for _, o := range sc.Objects {
		things = append(things, o.Name)
	}
	for _, c := range sc.Consumables {
		things = append(things, c.Name)
	}
	if len(things) > 0 {
		out = append(out, "You see: "+strings.Join(things, ", ")+".")
	}
	for _, f := range sc.Fruits {
		out = append(out, fmt.Sprintf("A strange fruit lies here: the %s.", f.Name))
	}
	for _, n := range sc.NPCs {
		out = append(out, s.npcLine(n))
	}
	if sc.Boat {
		out = append(out, "Your Boat is moored here.")
	}

	if len(sc.SubExits) > 0 {
		out = append(out, "Paths: "+s.joinDirections(sc.SubExits)+".")
	}
	if sc.Boat && len(sc.SeaExits) > 0 {
		out = append(out, "You can sail "+s.joinDirections(sc.SeaExits)+".")
	}
	return out
}

func (s *Session) npcLine(n types.NPC) string {
	switch b := n.Behavior.(type) {
	case *types.Hostile:
		if b.HP == 0 {
			return fmt.Sprintf("%s lies defeated here.", n.Name)
		}
		return fmt.Sprintf("%s stands here, looking for a fight.", n.Name)
	case *types.Trainer:
		return fmt.Sprintf("%s is here, ready to teach %s.", n.Name, b.Skill)
	default:
		return fmt.Sprintf("%s is here.", n.Name)
	}
}

func (s *Session) joinDirections(dirs []types.Orientation) string {
	names := make([]string, len(dirs))
	for i, d := range dirs {
		names[i] = string(d)
	}
	return strings.Join(names, ", ")
}

func (s *Session) describeInventory() []string {
	p := s.eng.Player()
	if len(p.Inventory) == 0 {
		return []string{"You are carrying nothing."}
	}
	out := []string{"You are carrying:"}
	for _, item := range p.Inventory {
		line := "  " + item.Name
		switch {
		case item.IsKey:
			line += " (key)"
		case item.Kind == types.ItemConsumable:
			line += fmt.Sprintf(" (+%d hp)", item.HPRestore)
		}
		out = append(out, line)
	}
	return out
}

func (s *Session) describeStatus() []string {
	p := s.eng.Player()
	power := fmt.Sprintf("Power: %d", p.Power)
	if p.Boost > 0 {
		power += fmt.Sprintf(" (+%d)", p.Boost)
	}
	out := []string{
		p.Name,
		fmt.Sprintf("HP: %d/%d", p.HP, types.MaxPlayerHP),
		power,
	}
	if p.Fruit != nil {
		out = append(out, fmt.Sprintf("Fruit: %s (%s)", p.Fruit.Name, s.title.String(p.Fruit.PowerName)))
	} else {
		out = append(out, "Fruit: none")
	}
	return out
}

func (s *Session) narrateMove(res engine.MoveResult, sail bool, err error) types.Result {
	var out []string
	if sail {
		loc, _ := s.eng.World().Location(res.To.Location)
		out = append(out, fmt.Sprintf("You sail to %s.", loc.Name))
	}
	if errors.Is(err, engine.ErrNoEntryPoint) {
		out = append(out, "There is nowhere to land. You stay aboard the Boat.")
		return withTrace(types.Result{Output: out}, res.Trace)
	}
	out = append(out, s.describeScene()...)
	return withTrace(types.Result{Output: out}, res.Trace)
}

func (s *Session) narrateCapture(res engine.CaptureResult) types.Result {
	var out []string
	switch {
	case res.Status == engine.Captured:
		for _, item := range res.Items {
			out = append(out, fmt.Sprintf("Taken: %s.", item.Name))
		}
	case len(res.Candidates) > 0:
		out = append(out, "Which one? "+strings.Join(res.Candidates, ", "))
	case res.Suggestion != "":
		out = append(out, fmt.Sprintf("There's nothing like that here. Did you mean %q?", res.Suggestion))
	default:
		out = append(out, "There's nothing to take here.")
	}
	out = append(out, s.finale(res.Trace)...)
	return withTrace(types.Result{Output: out}, res.Trace)
}

func (s *Session) narrateFruitOffer(res engine.FruitResult) types.Result {
	out := []string{fmt.Sprintf("You found the %s. It grants the power of %s.", res.Fruit.Name, s.title.String(res.Fruit.PowerName))}
	if res.Offer.Kind == engine.OfferSwapFruit {
		out = append(out, fmt.Sprintf("You already hold the %s. Swap it for the %s?", res.Offer.Held, res.Fruit.Name))
	} else {
		out = append(out, "Eat it?")
	}
	return types.Result{Output: out}
}

func (s *Session) narrateOffer(res engine.OfferResult) types.Result {
	o := res.Offer
	var out []string
	if !res.Accepted {
		switch o.Kind {
		case engine.OfferEquipFruit, engine.OfferSwapFruit:
			out = append(out, fmt.Sprintf("You leave the %s where it is.", o.SubjectName))
		case engine.OfferGift:
			out = append(out, "You politely refuse.")
		case engine.OfferTraining:
			out = append(out, "Maybe another time.")
		}
		return types.Result{Output: out}
	}

	switch o.Kind {
	case engine.OfferEquipFruit:
		out = append(out, fmt.Sprintf("You eat the %s.", o.SubjectName))
	case engine.OfferSwapFruit:
		out = append(out, fmt.Sprintf("You put down the %s and eat the %s.", o.Held, o.SubjectName))
	case engine.OfferGift:
		out = append(out, fmt.Sprintf("%s hands you the %s.", s.eng.World().EntityName(o.NPC), o.SubjectName))
	case engine.OfferTraining:
		out = append(out, fmt.Sprintf("You train %s. Power +%d.", o.SubjectName, o.PowerBonus))
		if o.AttackBonus > 0 {
			out = append(out, fmt.Sprintf("Your attacks grow stronger (+%d).", o.AttackBonus))
		}
	}
	out = append(out, s.finale(res.Trace)...)
	return withTrace(types.Result{Output: out}, res.Trace)
}

func (s *Session) narrateConsume(res engine.ConsumeResult) types.Result {
	var out []string
	if res.Defaulted {
		out = append(out, fmt.Sprintf("You don't have that. You reach for the %s instead.", res.Item.Name))
	}
	out = append(out, fmt.Sprintf("You consume the %s and recover %d hp.", res.Item.Name, res.Healed))
	if res.Reflex != nil {
		out = append(out,
			fmt.Sprintf("Your head spins, but you feel stronger (+%d power for your next fight).", res.Reflex.Boost),
			fmt.Sprintf("Quick! Type %q within %s:", res.Reflex.Word, res.Reflex.Budget),
		)
		s.reflexShown = s.now()
	}
	return withTrace(types.Result{Output: out}, res.Trace)
}

func (s *Session) narrateReflex(res engine.ReflexResult) types.Result {
	var out []string
	switch {
	case !res.Correct:
		out = append(out, fmt.Sprintf("You stumble over the word and fall. You lose %d hp.", res.Penalty))
	case res.Late:
		out = append(out, fmt.Sprintf("Too slow by %s. You lose %d hp.", res.Overrun.Round(time.Millisecond), res.Penalty))
	default:
		out = append(out, "Sharp as ever.")
	}
	out = append(out, fmt.Sprintf("HP: %d/%d", res.HP, types.MaxPlayerHP))
	return withTrace(types.Result{Output: out}, res.Trace)
}

func (s *Session) narrateInteract(res engine.InteractResult) types.Result {
	n := res.NPC
	var out []string
	switch res.Kind {
	case engine.InteractDefeated:
		out = append(out, fmt.Sprintf("%s is no longer a threat.", n.Name))

	case engine.InteractPenalized:
		out = append(out,
			fmt.Sprintf("%s is too strong for you without the %s.", n.Name, strings.Join(res.Missing, ", ")),
			fmt.Sprintf("You are knocked back and lose %d hp.", res.Penalty),
		)

	case engine.InteractCombat:
		out = append(out, fmt.Sprintf("You face %s!", n.Name))
		out = append(out, s.attackMenu(res.Attacks)...)

	case engine.InteractFriendly:
		if f, ok := n.Behavior.(*types.Friendly); ok && f.Dialogue != "" {
			out = append(out, fmt.Sprintf("%s says: %q", n.Name, f.Dialogue))
		} else {
			out = append(out, fmt.Sprintf("%s greets you warmly.", n.Name))
		}
		if res.Offer != nil {
			out = append(out, fmt.Sprintf("%s offers you the %s. Accept?", n.Name, res.Offer.SubjectName))
		}

	case engine.InteractTrainerReady:
		o := res.Offer
		out = append(out, fmt.Sprintf("%s offers to teach you %s (+%d power). Train?", n.Name, o.SubjectName, o.PowerBonus))

	case engine.InteractTrainerNotReady:
		out = append(out, fmt.Sprintf("%s says: come back when you have at least %d hp.", n.Name, res.HPThreshold))
	}
	return withTrace(types.Result{Output: out}, res.Trace)
}

func (s *Session) attackMenu(attacks []types.Attack) []string {
	out := []string{"Choose your attack:"}
	for i, a := range attacks {
		out = append(out, fmt.Sprintf("  %d. %s (%d)", i+1, a.Name, a.Power))
	}
	return out
}

func (s *Session) narrateRound(res engine.CombatRound) types.Result {
	name := s.eng.World().EntityName(res.NPC)
	var out []string
	if res.Defaulted {
		out = append(out, "You hesitate and fall back on your first attack.")
	}
	out = append(out, fmt.Sprintf("Round %d: your %s deals %d damage. %s has %d hp left.",
		res.Round, res.Attack.Name, res.PlayerDamage, name, res.NPCHP))

	switch res.Outcome() {
	case engine.PhasePlayerWins:
		out = append(out, fmt.Sprintf("%s is defeated!", name))
		for _, id := range res.Loot {
			out = append(out, fmt.Sprintf("You take the %s.", s.eng.World().EntityName(id)))
		}
		if res.Reward > 0 {
			out = append(out, fmt.Sprintf("Power +%d.", res.Reward))
		}
		out = append(out, s.finale(res.Trace)...)
		return withTrace(types.Result{Output: out}, res.Trace)
	}

	counter := "strikes back"
	if res.Counter != nil {
		counter = "strikes back with " + res.Counter.Name
	}
	out = append(out, fmt.Sprintf("%s %s for %d damage. You have %d hp left.", name, counter, res.CounterDamage, res.PlayerHP))

	if res.Outcome() == engine.PhasePlayerLoses {
		out = append(out, "You collapse. Rest and eat before you try again.")
		return withTrace(types.Result{Output: out}, res.Trace)
	}
	out = append(out, s.attackMenu(s.eng.AttackOptions())...)
	return withTrace(types.Result{Output: out}, res.Trace)
}

// finale narrates a quest completion: the teleport and the end of the game.
func (s *Session) finale(tr engine.Trace) []string {
	if !tr.Finale() {
		return nil
	}
	v := s.eng.World()
	out := []string{""}
	for _, q := range v.Quests() {
		if q.Text != "" {
			out = append(out, q.Text)
		}
	}
	p := v.Player()
	loc, _ := v.Location(p.Position)
	out = append(out, fmt.Sprintf("You have gathered every treasure. The sea carries you to %s.", loc.Name))
	if tr.GameOver {
		out = append(out, "", "*** THE END ***")
	}
	return out
}

// fail narrates an engine error.
func (s *Session) fail(err error) types.Result {
	var nf *resolve.NotFoundError
	var amb *resolve.AmbiguityError
	var key *engine.MissingKeyError

	switch {
	case errors.As(err, &amb):
		return say(fmt.Sprintf("Which %s do you mean? %s", amb.Name, strings.Join(amb.Candidates, ", ")))
	case errors.As(err, &nf):
		if nf.Suggestion != "" {
			return say(fmt.Sprintf("There's no %q here. Did you mean %q?", nf.Name, nf.Suggestion))
		}
		return say(fmt.Sprintf("There's no %q here.", nf.Name))
	case errors.As(err, &key):
		return say(capitalize(key.Error()) + ".")
	case errors.Is(err, engine.ErrNotHere):
		return say("They are not here.")
	case errors.Is(err, engine.ErrBrokenTopology):
		s.log.Warn("broken world topology", "error", err)
		return say("The way is blocked by fog.")
	case errors.Is(err, engine.ErrPrecondition):
		return say(capitalize(err.Error()) + ".")
	default:
		s.log.Error("engine error", "error", err)
		return say("Something went wrong: " + err.Error())
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
