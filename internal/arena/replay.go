package arena

import (
	"errors"
	"fmt"
	"reflect"

	"defight/internal/combat"
)

// ErrReplayMismatch means a stored round does not follow from the rounds
// before it.
var ErrReplayMismatch = errors.New("recorded round does not replay")

// Replay re-resolves every recorded round from rec.Start and returns the
// resulting duel. Because the engine is deterministic in its inputs, any
// difference from the stored rounds means the record was altered.
func Replay(rec Record) (combat.Duel, error) {
	d := rec.Start
	for i, r := range rec.Rounds {
		round, err := combat.Resolve(d, r.Moves, r.Opponent, r.Timestamp)
		if err != nil {
			return combat.Duel{}, fmt.Errorf("round %d: %w", i+1, err)
		}
		if !reflect.DeepEqual(round.Duel, r.Duel) {
			return combat.Duel{}, fmt.Errorf("round %d: %w", i+1, ErrReplayMismatch)
		}
		d = round.Duel
	}
	if !reflect.DeepEqual(d, rec.Duel) {
		return combat.Duel{}, fmt.Errorf("final state: %w", ErrReplayMismatch)
	}
	return d, nil
}
