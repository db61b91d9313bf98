package combat

import (
	"errors"
	"reflect"
	"testing"
)

const second = uint64(1_000_000_000)

func mustParse(t *testing.T, s string) []MoveIntent {
	t.Helper()
	moves, err := Parse(s)
	if err != nil {
		t.Fatalf("Parse(%q): %v", s, err)
	}
	return moves
}

func TestNewDuel(t *testing.T) {
	d := NewDuel(DefaultRules(), "alice.testnet", 500, 42)

	if d.Warrior1.ID != Warrior1 || d.Warrior2.ID != Warrior2 {
		t.Errorf("Expected ids 1 and 2, got %d and %d", d.Warrior1.ID, d.Warrior2.ID)
	}
	if d.Warrior1.Owner != "alice.testnet" {
		t.Errorf("Expected owner on warrior 1, got '%s'", d.Warrior1.Owner)
	}
	if d.Warrior1.Health != 10 || d.Warrior2.Health != 10 {
		t.Errorf("Expected base health 10, got %d and %d", d.Warrior1.Health, d.Warrior2.Health)
	}
	if d.State() != Active {
		t.Errorf("Expected active duel, got %s", d.State())
	}
	if d.Reward != 500 {
		t.Errorf("Expected reward 500, got %d", d.Reward)
	}
	if d.LastActionAt != 42 {
		t.Errorf("Expected last action 42, got %d", d.LastActionAt)
	}
	if d.MissedAction1 || d.MissedAction2 {
		t.Error("Expected missed flags cleared")
	}
}

func TestResolve_BothSurvive(t *testing.T) {
	d := NewDuel(DefaultRules(), "alice", 100, 0)
	opp := OpponentResponse(60, 110) // Neck, Chest

	round, err := Resolve(d, mustParse(t, "Attack:Head Protect:Legs"), opp, 5*second)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	got := round.Duel
	if got.Warrior1.Health != 8 || got.Warrior2.Health != 8 {
		t.Errorf("Expected health 8/8, got %d/%d", got.Warrior1.Health, got.Warrior2.Health)
	}
	if round.Damage1 != 2 || round.Damage2 != 2 {
		t.Errorf("Expected damage 2/2, got %d/%d", round.Damage1, round.Damage2)
	}
	if got.Winner != nil {
		t.Errorf("Expected no winner, got %d", *got.Winner)
	}
	if got.LastActionAt != 5*second {
		t.Errorf("Expected last action %d, got %d", 5*second, got.LastActionAt)
	}
	if got.Reward != 0 {
		t.Errorf("Expected round record reward 0, got %d", got.Reward)
	}
	if d.Warrior1.Health != 10 || d.Reward != 100 {
		t.Error("Expected input duel untouched")
	}
}

func TestResolve_RepeatedRoundsDecideWinner(t *testing.T) {
	d := NewDuel(DefaultRules(), "alice", 0, 0)
	// Opponent attacks Head and protects Chest every round. The submitter
	// protects Head, so it only takes 2*1-1 per round while dealing 2.
	opp := OpponentResponse(10, 120)
	moves := mustParse(t, "Attack:Head Protect:Head")

	now := uint64(0)
	for i := 1; i <= 5; i++ {
		now += second
		round, err := Resolve(d, moves, opp, now)
		if err != nil {
			t.Fatalf("round %d: %v", i, err)
		}
		d = round.Duel
		if i < 5 && d.State() != Active {
			t.Fatalf("round %d: expected active duel", i)
		}
	}

	winner, decided := d.Result()
	if !decided {
		t.Fatal("Expected duel decided after 5 rounds")
	}
	if winner != Warrior1 {
		t.Errorf("Expected warrior 1 to win, got %d", winner)
	}
	if d.Warrior2.Health != 0 {
		t.Errorf("Expected loser health 0, got %d", d.Warrior2.Health)
	}
	if d.Warrior1.Health != 5 {
		t.Errorf("Expected winner health 5, got %d", d.Warrior1.Health)
	}
}

func TestResolve_DoubleDefeatIsDraw(t *testing.T) {
	d := NewDuel(DefaultRules(), "alice", 0, 0)
	d.Warrior1.Health = 2
	d.Warrior2.Health = 1

	round, err := Resolve(d, mustParse(t, "Attack:Head Protect:Legs"), OpponentResponse(60, 110), second)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	winner, decided := round.Duel.Result()
	if !decided || winner != Draw {
		t.Fatalf("Expected draw, got winner=%d decided=%v", winner, decided)
	}
	if round.Duel.Warrior1.Health != 0 || round.Duel.Warrior2.Health != 0 {
		t.Errorf("Expected both healths 0, got %d/%d", round.Duel.Warrior1.Health, round.Duel.Warrior2.Health)
	}
}

func TestResolve_OpponentWins(t *testing.T) {
	d := NewDuel(DefaultRules(), "alice", 0, 0)
	d.Warrior1.Health = 2
	d.Warrior2.Health = 3

	round, err := Resolve(d, mustParse(t, "Attack:Head Protect:Legs"), OpponentResponse(60, 110), second)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	winner, _ := round.Duel.Result()
	if winner != Warrior2 {
		t.Errorf("Expected warrior 2 to win, got %d", winner)
	}
	if round.Duel.Warrior1.Health != 0 {
		t.Errorf("Expected loser health 0, got %d", round.Duel.Warrior1.Health)
	}
	if round.Duel.Warrior2.Health != 1 {
		t.Errorf("Expected winner health 1, got %d", round.Duel.Warrior2.Health)
	}
}

func TestResolve_SubmitterTimeout(t *testing.T) {
	d := NewDuel(DefaultRules(), "alice", 0, 0)
	// Submitter protects Head, which the opponent attacks: without the
	// timeout the blow would be reduced by defense.
	opp := OpponentResponse(0, 0)
	moves := mustParse(t, "Attack:Head Protect:Head")

	round, err := Resolve(d, moves, opp, MaxActionWindow+1)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !round.Duel.MissedAction1 {
		t.Error("Expected submitter flagged as missed")
	}
	if round.Damage2 != 0 {
		t.Errorf("Expected no damage from a missed action, got %d", round.Damage2)
	}
	if round.Damage1 != 2 {
		t.Errorf("Expected full damage on a missed protect, got %d", round.Damage1)
	}

	// A timely follow-up clears the flag again.
	next, err := Resolve(round.Duel, moves, opp, MaxActionWindow+1+second)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if next.Duel.MissedAction1 {
		t.Error("Expected submitter flag cleared")
	}
}

func TestResolve_WindowBoundaryIsInclusive(t *testing.T) {
	d := NewDuel(DefaultRules(), "alice", 0, 7)
	round, err := Resolve(d, mustParse(t, "Attack:Head Protect:Legs"), OpponentResponse(0, 0), 7+MaxActionWindow)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if round.Duel.MissedAction1 {
		t.Error("Expected move at exactly the window edge to count")
	}
}

func TestResolve_OpponentMissedFlagCarriedOver(t *testing.T) {
	d := NewDuel(DefaultRules(), "alice", 0, 0)
	d.MissedAction2 = true

	round, err := Resolve(d, mustParse(t, "Attack:Head Protect:Head"), OpponentResponse(0, 0), second)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !round.Duel.MissedAction2 {
		t.Error("Expected opponent flag to be carried over")
	}
	if round.Damage1 != 0 {
		t.Errorf("Expected no damage from missed opponent, got %d", round.Damage1)
	}
	// Opponent protected Head, but a missed side cannot protect.
	if round.Damage2 != 2 {
		t.Errorf("Expected full damage on missed opponent, got %d", round.Damage2)
	}
}

func TestResolve_DecidedDuelRejected(t *testing.T) {
	d := NewDuel(DefaultRules(), "alice", 0, 0)
	w := Warrior1
	d.Winner = &w
	before := d

	round, err := Resolve(d, mustParse(t, "Attack:Head Protect:Legs"), OpponentResponse(0, 0), second)
	if !errors.Is(err, ErrDuelDecided) {
		t.Fatalf("Expected ErrDuelDecided, got %v", err)
	}
	if !reflect.DeepEqual(round, Round{}) {
		t.Errorf("Expected zero round, got %+v", round)
	}
	if !reflect.DeepEqual(d, before) {
		t.Error("Expected duel unchanged")
	}
}

func TestResolve_TooFewMoves(t *testing.T) {
	d := NewDuel(DefaultRules(), "alice", 0, 0)
	_, err := Resolve(d, []MoveIntent{{Action: Attack, Part: Head}}, OpponentResponse(0, 0), second)
	if !errors.Is(err, ErrTooFewActions) {
		t.Errorf("Expected ErrTooFewActions, got %v", err)
	}
}

func TestDamage(t *testing.T) {
	atk := Warrior{Stats: Stats{Strength: 3}}
	def := Warrior{Stats: Stats{Defense: 2}}
	tank := Warrior{Stats: Stats{Defense: 50}}

	tests := []struct {
		name           string
		defender       Warrior
		attack         BodyPart
		protect        BodyPart
		attackerMissed bool
		defenderMissed bool
		want           uint64
	}{
		{"unprotected", def, Head, Legs, false, false, 6},
		{"protected", def, Head, Head, false, false, 4},
		{"protected by heavy defense", tank, Head, Head, false, false, 0},
		{"defender missed", def, Head, Head, false, true, 6},
		{"attacker missed", def, Head, Legs, true, false, 0},
	}
	for _, tc := range tests {
		got := Damage(atk, tc.defender, tc.attack, tc.protect, tc.attackerMissed, tc.defenderMissed)
		if got != tc.want {
			t.Errorf("%s: expected %d, got %d", tc.name, tc.want, got)
		}
	}
}

func TestDuel_Warrior(t *testing.T) {
	d := NewDuel(DefaultRules(), "alice", 0, 0)
	if w, ok := d.Warrior(Warrior1); !ok || w.Owner != "alice" {
		t.Errorf("Expected warrior 1 owned by alice, got %+v", w)
	}
	if _, ok := d.Warrior(Draw); ok {
		t.Error("Expected no warrior for the draw marker")
	}
}
