package engine

import (
	"errors"
	"slices"
	"testing"

	"github.com/nathoo/islecore/engine/effects"
	"github.com/nathoo/islecore/engine/resolve"
	"github.com/nathoo/islecore/internal/worldtest"
	"github.com/nathoo/islecore/types"
)

func hostile(t *testing.T, e *Engine, id string) *types.Hostile {
	t.Helper()
	n, ok := e.reg.NPC(id)
	if !ok {
		t.Fatalf("npc %q not found", id)
	}
	h, ok := n.Behavior.(*types.Hostile)
	if !ok {
		t.Fatalf("npc %q is not hostile", id)
	}
	return h
}

func equip(t *testing.T, e *Engine, fruit string) {
	t.Helper()
	if _, err := effects.Apply(e.reg, []types.Effect{
		{Type: types.EffectEquipFruit, Params: map[string]any{"fruit": fruit}},
	}); err != nil {
		t.Fatal(err)
	}
}

func startFight(t *testing.T, e *Engine, name string) InteractResult {
	t.Helper()
	res, err := e.Interact(name)
	if err != nil {
		t.Fatalf("Interact(%q): %v", name, err)
	}
	if res.Kind != InteractCombat {
		t.Fatalf("expected combat, got %v", res.Kind)
	}
	return res
}

// --- Interact ---

func TestInteract_FriendlyGift(t *testing.T) {
	e, r := newTestEngine(t)
	worldtest.Place(r, worldtest.FooshaBar)

	res, err := e.Interact("MAKINO")
	if err != nil {
		t.Fatal(err)
	}
	if res.Kind != InteractFriendly || res.NPC.ID != "makino" {
		t.Fatalf("unexpected result %+v", res)
	}
	if res.Offer == nil || res.Offer.Kind != OfferGift || res.Offer.Subject != "compass" {
		t.Fatalf("expected a compass gift, got %+v", res.Offer)
	}

	ans, err := e.Respond(true)
	if err != nil {
		t.Fatal(err)
	}
	if !ans.Accepted || !r.HasItem("compass") {
		t.Fatal("compass not received")
	}
	item := r.Player.Inventory[r.InventoryIndex("compass")]
	if item.Kind != types.ItemStatic || item.Placement != types.InventoryMarker {
		t.Errorf("unexpected snapshot %+v", item)
	}
	makino, _ := r.NPC("makino")
	if len(makino.Inventory) != 0 {
		t.Errorf("makino still holds %v", makino.Inventory)
	}

	// Nothing left to give: talking again makes no offer.
	res, err = e.Interact("makino")
	if err != nil {
		t.Fatal(err)
	}
	if res.Offer != nil {
		t.Errorf("unexpected second offer %+v", res.Offer)
	}
}

func TestInteract_FriendlyGiftDeclined(t *testing.T) {
	e, r := newTestEngine(t)
	worldtest.Place(r, worldtest.FooshaBar)

	if _, err := e.Interact("makino"); err != nil {
		t.Fatal(err)
	}
	if _, err := e.Respond(false); err != nil {
		t.Fatal(err)
	}
	if r.HasItem("compass") {
		t.Error("declined gift was received")
	}
	makino, _ := r.NPC("makino")
	if len(makino.Inventory) != 1 {
		t.Errorf("declined gift left makino: %v", makino.Inventory)
	}
}

func TestInteract_FriendlyGiftUnresolvable(t *testing.T) {
	e, r := newTestEngine(t)
	worldtest.Place(r, worldtest.FooshaBar)
	makino, _ := r.NPC("makino")
	makino.Inventory = []string{"ghost_ship"}

	res, err := e.Interact("makino")
	if err != nil {
		t.Fatal(err)
	}
	if res.Offer != nil || res.GiftUnavailable != "ghost_ship" {
		t.Errorf("unexpected result %+v", res)
	}
}

func TestInteract_TrainerBoostsPowerAndAttacks(t *testing.T) {
	e, r := newTestEngine(t)
	worldtest.Place(r, worldtest.FooshaSquare)
	equip(t, e, "gomu")

	res, err := e.Interact("garp")
	if err != nil {
		t.Fatal(err)
	}
	if res.Kind != InteractTrainerReady || res.Offer == nil || res.Offer.Kind != OfferTraining {
		t.Fatalf("unexpected result %+v", res)
	}
	if _, err := e.Respond(true); err != nil {
		t.Fatal(err)
	}
	if r.Player.Power != 15 {
		t.Errorf("expected power 15, got %d", r.Player.Power)
	}
	if r.Attacks["gum_pistol"].Power != 6 || r.Attacks["gum_bazooka"].Power != 13 {
		t.Errorf("fruit attacks not trained: pistol %d bazooka %d",
			r.Attacks["gum_pistol"].Power, r.Attacks["gum_bazooka"].Power)
	}
	if r.Attacks["flame_fist"].Power != 8 {
		t.Error("training touched an attack of another fruit")
	}
}

func TestInteract_TrainerNotReady(t *testing.T) {
	e, r := newTestEngine(t)
	worldtest.Place(r, worldtest.FooshaSquare)
	r.Player.HP = 40

	res, err := e.Interact("garp")
	if err != nil {
		t.Fatal(err)
	}
	if res.Kind != InteractTrainerNotReady || res.Offer != nil || res.HPThreshold != 50 {
		t.Errorf("unexpected result %+v", res)
	}
	if _, ok := e.Pending(); ok {
		t.Error("an unready player must get no offer")
	}
	if r.Player.Power != 10 {
		t.Errorf("power changed to %d", r.Player.Power)
	}
}

func TestInteract_NotHere(t *testing.T) {
	e, _ := newTestEngine(t)

	_, err := e.Interact("makino")
	if !errors.Is(err, ErrNotHere) {
		t.Fatalf("expected ErrNotHere, got %v", err)
	}
	if !errors.Is(err, ErrNotFound) {
		t.Error("ErrNotHere should be a not-found error")
	}
}

func TestInteract_Unknown(t *testing.T) {
	e, r := newTestEngine(t)
	worldtest.Place(r, worldtest.FooshaBar)

	_, err := e.Interact("makimo")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	var nf *resolve.NotFoundError
	if !errors.As(err, &nf) || nf.Suggestion != "Makino" {
		t.Errorf("expected a Makino suggestion, got %v", err)
	}
}

func TestInteract_HostileMissingItems(t *testing.T) {
	tests := []struct {
		name   string
		hp     int
		wantHP int
	}{
		{"healthy", 100, 90},
		{"floors at zero", 5, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, r := newTestEngine(t)
			worldtest.Place(r, worldtest.ArlongPool)
			r.Player.HP = tt.hp

			res, err := e.Interact("arlong")
			if err != nil {
				t.Fatal(err)
			}
			if res.Kind != InteractPenalized || res.Penalty != MissingItemPenalty {
				t.Fatalf("unexpected result %+v", res)
			}
			if !slices.Equal(res.Missing, []string{"Log Pose"}) {
				t.Errorf("missing = %v", res.Missing)
			}
			if r.Player.HP != tt.wantHP {
				t.Errorf("hp = %d, want %d", r.Player.HP, tt.wantHP)
			}
			if _, ok := e.Combat(); ok {
				t.Error("combat started without the required items")
			}
		})
	}
}

// --- Combat ---

func TestCombat_OneRoundWin(t *testing.T) {
	e, r := newTestEngine(t)
	worldtest.Place(r, worldtest.ShellsBase)
	h := hostile(t, e, "morgan")
	h.HP = 10

	open := startFight(t, e, "morgan")
	if len(open.Attacks) != 1 || open.Attacks[0].ID != NormalAttack.ID {
		t.Errorf("expected only the normal attack, got %v", open.Attacks)
	}

	round, err := e.Attack(0)
	if err != nil {
		t.Fatal(err)
	}
	if round.Outcome() != PhasePlayerWins {
		t.Fatalf("expected PlayerWins, got %v", round.Outcome())
	}
	if round.PlayerDamage != 10 || h.HP != 0 || round.NPCHP != 0 {
		t.Errorf("damage %d npc hp %d", round.PlayerDamage, h.HP)
	}
	if round.CounterDamage != 0 || r.Player.HP != 100 {
		t.Error("the npc countered after being defeated")
	}
	if !slices.Equal(round.Loot, []string{"axe_hand"}) || !r.HasItem("axe_hand") {
		t.Errorf("loot %v not transferred", round.Loot)
	}
	if item := r.Player.Inventory[r.InventoryIndex("axe_hand")]; item.Placement != types.InventoryMarker {
		t.Errorf("loot placement = %q", item.Placement)
	}
	morgan, _ := r.NPC("morgan")
	if len(morgan.Inventory) != 0 {
		t.Errorf("morgan still holds %v", morgan.Inventory)
	}
	if round.Reward != 3 || r.Player.Power != 13 {
		t.Errorf("reward %d power %d, want 3 and 13", round.Reward, r.Player.Power)
	}
	if _, ok := e.Combat(); ok {
		t.Error("combat still open after a win")
	}
}

func TestCombat_PhasesOfAFullRound(t *testing.T) {
	e, r := newTestEngine(t)
	worldtest.Place(r, worldtest.ShellsBase)
	startFight(t, e, "morgan")

	round, err := e.Attack(0)
	if err != nil {
		t.Fatal(err)
	}
	want := []Phase{
		PhasePlayerChoosesAttack, PhaseResolvePlayerDamage, PhaseCheckNPCDefeated,
		PhaseResolveNPCCounter, PhaseCheckPlayerDefeated, PhasePlayerChoosesAttack,
	}
	if !slices.Equal(round.Phases, want) {
		t.Errorf("phases = %v, want %v", round.Phases, want)
	}
	if round.NPCHP != 10 || round.CounterDamage != 2 || round.PlayerHP != 98 {
		t.Errorf("npc hp %d counter %d player hp %d", round.NPCHP, round.CounterDamage, round.PlayerHP)
	}
	if round.Counter != nil {
		t.Error("morgan has no attacks; the counter uses power alone")
	}
	c, ok := e.Combat()
	if !ok || c.Round != 2 || c.Phase != PhasePlayerChoosesAttack {
		t.Errorf("unexpected combat state %+v", c)
	}

	round, err = e.Attack(0)
	if err != nil {
		t.Fatal(err)
	}
	if round.Round != 2 || round.Outcome() != PhasePlayerWins {
		t.Errorf("round %d ended in %v", round.Round, round.Outcome())
	}
}

func TestCombat_CounterUsesFirstAttack(t *testing.T) {
	e, r := newTestEngine(t)
	worldtest.Give(r, "log_pose")
	worldtest.Place(r, worldtest.ArlongPool)
	startFight(t, e, "arlong")

	round, err := e.Attack(0)
	if err != nil {
		t.Fatal(err)
	}
	if round.Counter == nil || round.Counter.ID != "shark_tooth" {
		t.Fatalf("expected shark tooth counter, got %+v", round.Counter)
	}
	if round.CounterDamage != 8 || r.Player.HP != 92 {
		t.Errorf("counter %d player hp %d, want 8 and 92", round.CounterDamage, r.Player.HP)
	}
}

func TestCombat_InvalidChoiceDefaultsToFirst(t *testing.T) {
	for _, choice := range []int{-1, 2, 99} {
		e, r := newTestEngine(t)
		worldtest.Place(r, worldtest.ShellsBase)
		equip(t, e, "gomu")
		startFight(t, e, "morgan")

		round, err := e.Attack(choice)
		if err != nil {
			t.Fatalf("choice %d: %v", choice, err)
		}
		if !round.Defaulted || round.Attack.ID != "gum_pistol" {
			t.Errorf("choice %d: got %s defaulted=%v", choice, round.Attack.ID, round.Defaulted)
		}
		if round.PlayerDamage != 15 {
			t.Errorf("choice %d: damage %d, want 15", choice, round.PlayerDamage)
		}
	}
}

func TestCombat_FruitAttackChoice(t *testing.T) {
	e, r := newTestEngine(t)
	worldtest.Place(r, worldtest.ShellsBase)
	equip(t, e, "gomu")
	open := startFight(t, e, "morgan")
	if len(open.Attacks) != 2 {
		t.Fatalf("expected two fruit attacks, got %v", open.Attacks)
	}

	round, err := e.Attack(1)
	if err != nil {
		t.Fatal(err)
	}
	if round.Defaulted || round.Attack.ID != "gum_bazooka" || round.PlayerDamage != 22 {
		t.Errorf("unexpected round %+v", round)
	}
	if round.Outcome() != PhasePlayerWins {
		t.Errorf("expected a win, got %v", round.Outcome())
	}
}

func TestCombat_PlayerLoses(t *testing.T) {
	e, r := newTestEngine(t)
	worldtest.Give(r, "log_pose")
	worldtest.Place(r, worldtest.ArlongPool)
	r.Player.HP = 5
	r.Player.Boost = 2
	startFight(t, e, "arlong")

	round, err := e.Attack(0)
	if err != nil {
		t.Fatal(err)
	}
	if round.Outcome() != PhasePlayerLoses {
		t.Fatalf("expected PlayerLoses, got %v", round.Outcome())
	}
	if r.Player.HP != 0 || round.PlayerHP != 0 {
		t.Errorf("hp = %d, want 0", r.Player.HP)
	}
	if r.HasItem("map") || len(round.Loot) != 0 {
		t.Error("a lost fight transferred loot")
	}
	if hostile(t, e, "arlong").HP != 28 {
		t.Errorf("arlong hp = %d, want 28", hostile(t, e, "arlong").HP)
	}
	if r.Player.Boost != 0 {
		t.Errorf("boost not cleared: %d", r.Player.Boost)
	}
	if _, ok := e.Combat(); ok {
		t.Error("combat still open after a loss")
	}
}

func TestCombat_BoostAddsDamageAndClearsOnWin(t *testing.T) {
	e, r := newTestEngine(t)
	worldtest.Place(r, worldtest.ShellsBase)
	r.Player.Boost = 10
	startFight(t, e, "morgan")

	round, err := e.Attack(0)
	if err != nil {
		t.Fatal(err)
	}
	if round.PlayerDamage != 20 || round.Outcome() != PhasePlayerWins {
		t.Errorf("damage %d outcome %v", round.PlayerDamage, round.Outcome())
	}
	if r.Player.Boost != 0 {
		t.Errorf("boost = %d, want 0", r.Player.Boost)
	}
}

func TestCombat_DefeatedNPCNeverReengages(t *testing.T) {
	e, r := newTestEngine(t)
	worldtest.Place(r, worldtest.ShellsBase)
	hostile(t, e, "morgan").HP = 0

	for i := 0; i < 3; i++ {
		res, err := e.Interact("morgan")
		if err != nil {
			t.Fatal(err)
		}
		if res.Kind != InteractDefeated || len(res.Effects) != 0 {
			t.Fatalf("call %d: unexpected result %+v", i, res)
		}
		if _, ok := e.Combat(); ok {
			t.Fatal("a defeated npc started a fight")
		}
	}
	if r.Player.HP != 100 {
		t.Errorf("hp changed to %d", r.Player.HP)
	}
}

func TestCombat_OperationsBlockedDuringFight(t *testing.T) {
	e, r := newTestEngine(t)
	worldtest.Place(r, worldtest.ShellsBase)
	startFight(t, e, "morgan")

	if _, err := e.Walk(types.South); !errors.Is(err, ErrInCombat) {
		t.Errorf("Walk: expected ErrInCombat, got %v", err)
	}
	if _, err := e.Capture(All()); !errors.Is(err, ErrInCombat) {
		t.Errorf("Capture: expected ErrInCombat, got %v", err)
	}
	if _, err := e.Interact("morgan"); !errors.Is(err, ErrInCombat) {
		t.Errorf("Interact: expected ErrInCombat, got %v", err)
	}
}

func TestAttack_NotInCombat(t *testing.T) {
	e, _ := newTestEngine(t)
	_, err := e.Attack(0)
	if !errors.Is(err, ErrNotInCombat) || !errors.Is(err, ErrPrecondition) {
		t.Errorf("expected ErrNotInCombat, got %v", err)
	}
}

func TestCombat_Terminates(t *testing.T) {
	tests := []struct {
		name        string
		playerPower int
		npcHP       int
		npcPower    int
	}{
		{"weak player", 1, 20, 1},
		{"even", 10, 40, 10},
		{"strong npc", 3, 30, 30},
		{"strong player", 50, 40, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, r := newTestEngine(t)
			worldtest.Place(r, worldtest.ShellsBase)
			r.Player.Power = tt.playerPower
			h := hostile(t, e, "morgan")
			h.HP, h.MaxHP, h.Power = tt.npcHP, tt.npcHP, tt.npcPower
			startFight(t, e, "morgan")

			bound := max(
				(tt.npcHP+tt.playerPower-1)/tt.playerPower,
				(r.Player.HP+tt.npcPower-1)/tt.npcPower,
			)
			rounds := 0
			for {
				round, err := e.Attack(0)
				if err != nil {
					t.Fatal(err)
				}
				rounds++
				if r.Player.HP < 0 || r.Player.HP > types.MaxPlayerHP || h.HP < 0 {
					t.Fatalf("hp out of range: player %d npc %d", r.Player.HP, h.HP)
				}
				if round.Outcome().Terminal() {
					break
				}
				if rounds > bound {
					t.Fatalf("combat exceeded %d rounds", bound)
				}
			}
		})
	}
}

func TestQuest_FiresOnCombatLoot(t *testing.T) {
	e, r := newTestEngine(t)
	worldtest.Give(r, "straw_hat", "log_pose", "sword")
	worldtest.Place(r, worldtest.ArlongPool)
	startFight(t, e, "arlong")

	var last CombatRound
	for i := 0; i < 4; i++ {
		round, err := e.Attack(0)
		if err != nil {
			t.Fatal(err)
		}
		last = round
	}
	if last.Outcome() != PhasePlayerWins {
		t.Fatalf("expected a win in round 4, got %v", last.Outcome())
	}
	if r.Player.HP != 76 {
		t.Errorf("hp = %d, want 76", r.Player.HP)
	}
	if !last.Finale() || !last.GameOver {
		t.Fatal("collecting the map should trigger the finale")
	}
	if countEvents(last.Events, types.EventTeleported) != 1 {
		t.Errorf("expected one teleport, got %v", last.Events)
	}
	if r.PlayerPlacement() != worldtest.Raftel {
		t.Errorf("player at %+v, want Raftel", r.PlayerPlacement())
	}
	if !e.GameOver() {
		t.Error("engine should report game over")
	}
}

func TestPhaseString(t *testing.T) {
	if PhasePlayerWins.String() != "player wins" {
		t.Errorf("got %q", PhasePlayerWins.String())
	}
	if Phase(42).String() != "Phase(42)" {
		t.Errorf("got %q", Phase(42).String())
	}
	if !PhasePlayerLoses.Terminal() || PhaseResolveNPCCounter.Terminal() {
		t.Error("unexpected terminal phases")
	}
}
