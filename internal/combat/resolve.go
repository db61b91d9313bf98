package combat

import "errors"

// MaxActionWindow is how long, in nanoseconds, the submitter may take between
// rounds before its move is forfeited.
const MaxActionWindow uint64 = 60_000_000_000

// ErrDuelDecided is returned when a round is submitted to a finished duel.
var ErrDuelDecided = errors.New("battle has already finished")

// Resolve plays one round of d. The first move names the submitter's attack
// target and the second its protect target; further moves are ignored. The
// submitter is always Warrior1. opp is the automated Warrior2 move and now the
// caller's clock in nanoseconds.
//
// The submitter's missed-action flag is recomputed from the action window on
// every round. The opponent's flag is carried over untouched.
//
// d is never modified; on error the zero Round is returned.
func Resolve(d Duel, moves []MoveIntent, opp OpponentMove, now uint64) (Round, error) {
	if d.State() == Decided {
		return Round{}, ErrDuelDecided
	}
	if len(moves) < 2 {
		return Round{}, ErrTooFewActions
	}

	next := d
	next.Reward = 0
	next.MissedAction1 = actionWindowExpired(d.LastActionAt, now)

	attack, protect := moves[0].Part, moves[1].Part
	toOpponent := Damage(next.Warrior1, next.Warrior2, attack, opp.Protect, next.MissedAction1, next.MissedAction2)
	toSubmitter := Damage(next.Warrior2, next.Warrior1, opp.Attack, protect, next.MissedAction2, next.MissedAction1)

	next.settle(toSubmitter, toOpponent)
	next.LastActionAt = now

	return Round{
		Duel:      next,
		Moves:     append([]MoveIntent(nil), moves...),
		Opponent:  opp,
		Damage1:   toSubmitter,
		Damage2:   toOpponent,
		Timestamp: now,
	}, nil
}

// Damage is what attacker deals to defender in one direction of a round.
// A side that missed its action deals nothing. A blow on an unprotected part,
// or on a defender that missed its action, deals twice the attacker's
// strength; a protected blow has the defender's defense taken off, never
// going below zero.
func Damage(attacker, defender Warrior, attackPart, protectPart BodyPart, attackerMissed, defenderMissed bool) uint64 {
	if attackerMissed {
		return 0
	}
	hit := 2 * uint64(attacker.Strength)
	if attackPart != protectPart || defenderMissed {
		return hit
	}
	def := uint64(defender.Defense)
	if def >= hit {
		return 0
	}
	return hit - def
}

func actionWindowExpired(last, now uint64) bool {
	return now > last && now-last > MaxActionWindow
}
