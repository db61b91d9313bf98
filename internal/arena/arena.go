// Package arena runs duels for accounts: it owns the I/O around the combat
// engine, pulling entropy and time from the environment, persisting every
// round and settling finished duels.
package arena

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"defight/internal/combat"
	"defight/internal/equipment"
	"defight/internal/store"
)

var (
	ErrDuelNotFound   = errors.New("duel not found")
	ErrDuelInProgress = errors.New("another battle already started")
	ErrOwnerRequired  = errors.New("account is required")
)

// Record is a duel as persisted between rounds. Stake is kept here for the
// payout step; the duel's own reward is zeroed by every round write.
type Record struct {
	ID        string         `json:"id"`
	Owner     string         `json:"owner"`
	Stake     uint64         `json:"stake"`
	CreatedAt time.Time      `json:"created_at"`
	Start     combat.Duel    `json:"start"`
	Duel      combat.Duel    `json:"duel"`
	Rounds    []combat.Round `json:"rounds,omitempty"`
}

// AccountStats counts an account's finished and started duels.
type AccountStats struct {
	Battles int `json:"battles"`
	Wins    int `json:"wins"`
	Losses  int `json:"losses"`
	Draws   int `json:"draws"`
}

// Publisher announces decided duels.
type Publisher interface {
	Publish(ctx context.Context, rec Record) error
}

// Service resolves duels. Rounds of one duel are serialized; different duels
// run independently.
type Service struct {
	Duels  store.Store[Record]
	Stats  store.Store[AccountStats]
	Active store.Store[string] // account -> duel id
	Rules  combat.Rules

	// Entropy feeds the opponent. Defaults to crypto/rand.
	Entropy io.Reader
	// Now defaults to time.Now.
	Now       func() time.Time
	Publisher Publisher
	Log       *zap.Logger

	locks locker
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Service) entropy() io.Reader {
	if s.Entropy != nil {
		return s.Entropy
	}
	return rand.Reader
}

func (s *Service) log() *zap.Logger {
	if s.Log != nil {
		return s.Log
	}
	return zap.NewNop()
}

// StartDuel opens a duel for owner against the automated opponent. The
// owner's equipped items are folded into its warrior. A zero stake falls back
// to the rules' stake.
func (s *Service) StartDuel(ctx context.Context, owner string, stake uint64, items []equipment.Item) (Record, error) {
	if owner == "" {
		return Record{}, ErrOwnerRequired
	}
	unlock := s.locks.lock("account:" + owner)
	defer unlock()

	if activeID, ok, err := s.Active.Get(ctx, owner); err != nil {
		return Record{}, fmt.Errorf("load active duel: %w", err)
	} else if ok && activeID != "" {
		rec, found, err := s.Duels.Get(ctx, activeID)
		if err != nil {
			return Record{}, fmt.Errorf("load duel %s: %w", activeID, err)
		}
		if found && rec.Duel.State() == combat.Active {
			return Record{}, ErrDuelInProgress
		}
	}

	loadout, err := equipment.Equip(items)
	if err != nil {
		return Record{}, err
	}
	base, err := equipment.Apply(s.Rules.Base, loadout, items)
	if err != nil {
		return Record{}, err
	}
	if stake == 0 {
		stake = s.Rules.Stake
	}

	now := s.now()
	rec := Record{
		ID:        s.Duels.NewID(),
		Owner:     owner,
		Stake:     stake,
		CreatedAt: now.UTC(),
		Duel:      combat.NewDuel(s.Rules, owner, stake, uint64(now.UnixNano())),
	}
	rec.Duel.Warrior1.Stats = base
	rec.Start = rec.Duel

	if err := s.Duels.Put(ctx, rec.ID, rec); err != nil {
		return Record{}, fmt.Errorf("save duel: %w", err)
	}
	if err := s.Active.Put(ctx, owner, rec.ID); err != nil {
		return Record{}, fmt.Errorf("save active duel: %w", err)
	}
	if err := s.updateStats(ctx, owner, func(st *AccountStats) { st.Battles++ }); err != nil {
		return Record{}, err
	}

	s.log().Info("duel started",
		zap.String("duel_id", rec.ID),
		zap.String("owner", owner),
		zap.Uint64("stake", stake),
		zap.Uint32("strength", base.Strength),
		zap.Uint32("defense", base.Defense))
	return rec, nil
}

// MakeAction resolves one round of duel id from a raw submission such as
// "Attack:Head Protect:Legs". A rejected submission leaves the duel as it was.
func (s *Service) MakeAction(ctx context.Context, id, submission string) (combat.Round, error) {
	unlock := s.locks.lock("duel:" + id)
	defer unlock()

	rec, err := s.Get(ctx, id)
	if err != nil {
		return combat.Round{}, err
	}
	if rec.Duel.State() == combat.Decided {
		return combat.Round{}, combat.ErrDuelDecided
	}

	moves, err := combat.Parse(submission)
	if err != nil {
		s.logRejected(id, err)
		return combat.Round{}, err
	}

	var seed [2]byte
	if _, err := io.ReadFull(s.entropy(), seed[:]); err != nil {
		return combat.Round{}, fmt.Errorf("read entropy: %w", err)
	}
	opp := combat.OpponentResponse(seed[0], seed[1])

	round, err := combat.Resolve(rec.Duel, moves, opp, uint64(s.now().UnixNano()))
	if err != nil {
		return combat.Round{}, err
	}
	rec.Duel = round.Duel
	rec.Rounds = append(rec.Rounds, round)
	if err := s.Duels.Put(ctx, id, rec); err != nil {
		return combat.Round{}, fmt.Errorf("save duel: %w", err)
	}

	s.log().Info("round resolved",
		zap.String("duel_id", id),
		zap.Stringers("moves", moves[:2]),
		zap.Stringer("opponent_attack", opp.Attack),
		zap.Stringer("opponent_protect", opp.Protect),
		zap.Uint64("damage_1", round.Damage1),
		zap.Uint64("damage_2", round.Damage2),
		zap.Bool("missed_action", round.Duel.MissedAction1))

	if round.Duel.State() == combat.Decided {
		// The round is committed; settlement failures must not fail it.
		if err := s.settle(ctx, rec); err != nil {
			s.log().Error("failed to settle duel", zap.String("duel_id", id), zap.Error(err))
		}
	}
	return round, nil
}

// Get loads duel id.
func (s *Service) Get(ctx context.Context, id string) (Record, error) {
	rec, ok, err := s.Duels.Get(ctx, id)
	if err != nil {
		return Record{}, fmt.Errorf("load duel %s: %w", id, err)
	}
	if !ok {
		return Record{}, ErrDuelNotFound
	}
	return rec, nil
}

// AccountStats returns owner's counters; unknown accounts have zero stats.
func (s *Service) AccountStats(ctx context.Context, owner string) (AccountStats, error) {
	st, _, err := s.Stats.Get(ctx, owner)
	if err != nil {
		return AccountStats{}, fmt.Errorf("load stats %s: %w", owner, err)
	}
	return st, nil
}

// settle books a decided duel. Every step is attempted; their failures are
// joined.
func (s *Service) settle(ctx context.Context, rec Record) error {
	winner, _ := rec.Duel.Result()
	switch winner {
	case combat.Draw:
		s.log().Info("battle is over, draw", zap.String("duel_id", rec.ID))
	default:
		w, _ := rec.Duel.Warrior(winner)
		s.log().Info("battle is over",
			zap.String("duel_id", rec.ID),
			zap.Uint8("winner", uint8(winner)),
			zap.String("winner_owner", w.Owner),
			zap.Int("rounds", len(rec.Rounds)))
	}

	var errs []error
	err := s.updateStats(ctx, rec.Owner, func(st *AccountStats) {
		switch winner {
		case combat.Warrior1:
			st.Wins++
		case combat.Warrior2:
			st.Losses++
		default:
			st.Draws++
		}
	})
	if err != nil {
		errs = append(errs, err)
	}
	if err := s.clearActive(ctx, rec.Owner, rec.ID); err != nil {
		errs = append(errs, err)
	}

	if s.Publisher != nil {
		if err := s.Publisher.Publish(ctx, rec); err != nil {
			s.log().Error("failed to publish duel result", zap.String("duel_id", rec.ID), zap.Error(err))
		}
	}
	return errors.Join(errs...)
}

// clearActive drops owner's active marker if it still points at id. A newer
// duel started since then keeps its marker.
func (s *Service) clearActive(ctx context.Context, owner, id string) error {
	unlock := s.locks.lock("account:" + owner)
	defer unlock()

	current, _, err := s.Active.Get(ctx, owner)
	if err != nil {
		return fmt.Errorf("load active duel: %w", err)
	}
	if current != id {
		return nil
	}
	if err := s.Active.Put(ctx, owner, ""); err != nil {
		return fmt.Errorf("clear active duel: %w", err)
	}
	return nil
}

func (s *Service) updateStats(ctx context.Context, owner string, fn func(*AccountStats)) error {
	unlock := s.locks.lock("stats:" + owner)
	defer unlock()

	st, _, err := s.Stats.Get(ctx, owner)
	if err != nil {
		return fmt.Errorf("load stats %s: %w", owner, err)
	}
	fn(&st)
	if err := s.Stats.Put(ctx, owner, st); err != nil {
		return fmt.Errorf("save stats %s: %w", owner, err)
	}
	return nil
}

func (s *Service) logRejected(id string, err error) {
	var wrong *combat.WrongActionsError
	if errors.As(err, &wrong) {
		for _, pe := range wrong.Errors {
			s.log().Warn("submission rejected",
				zap.String("duel_id", id),
				zap.Stringer("kind", pe.Kind),
				zap.String("token", pe.Token),
				zap.String("reason", pe.Error()))
		}
		return
	}
	s.log().Warn("submission rejected", zap.String("duel_id", id), zap.Error(err))
}
