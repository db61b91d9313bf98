package notify

import (
	"encoding/json"
	"testing"

	"defight/internal/arena"
	"defight/internal/combat"
)

func decidedRecord() arena.Record {
	d := combat.NewDuel(combat.DefaultRules(), "alice", 300, 0)
	w := combat.Warrior2
	d.Winner = &w
	d.Warrior1.Health = 0
	d.Warrior2.Health = 4
	d.LastActionAt = 123
	return arena.Record{ID: "duel-9", Owner: "alice", Stake: 300, Duel: d, Rounds: make([]combat.Round, 3)}
}

func TestNewResult(t *testing.T) {
	res, err := NewResult(decidedRecord())
	if err != nil {
		t.Fatalf("NewResult: %v", err)
	}
	want := Result{DuelID: "duel-9", Owner: "alice", Stake: 300, Winner: 2, Rounds: 3, Health1: 0, Health2: 4, EndedAtNs: 123}
	if res != want {
		t.Errorf("Expected %+v, got %+v", want, res)
	}

	b, err := json.Marshal(res)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var fields map[string]any
	if err := json.Unmarshal(b, &fields); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if fields["duel_id"] != "duel-9" || fields["winner"] != float64(2) {
		t.Errorf("Unexpected payload %s", b)
	}
}

func TestNewResult_ActiveDuel(t *testing.T) {
	rec := decidedRecord()
	rec.Duel.Winner = nil
	if _, err := NewResult(rec); err == nil {
		t.Error("Expected error for active duel")
	}
}

func TestChannel(t *testing.T) {
	if got := Channel("abc"); got != "duel:result:abc" {
		t.Errorf("Expected duel:result:abc, got %s", got)
	}
}
