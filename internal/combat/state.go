package combat

// State is the duel lifecycle. Decided is terminal.
type State uint8

const (
	Active State = iota
	Decided
)

func (s State) String() string {
	if s == Decided {
		return "decided"
	}
	return "active"
}

// State reports whether d still accepts rounds.
func (d Duel) State() State {
	if d.Winner == nil {
		return Active
	}
	return Decided
}

// Result returns the winner marker and whether the duel is decided. A decided
// duel with winner Draw ended in a draw.
func (d Duel) Result() (WarriorID, bool) {
	if d.Winner == nil {
		return 0, false
	}
	return *d.Winner, true
}

// Warrior returns the combatant tagged id.
func (d Duel) Warrior(id WarriorID) (Warrior, bool) {
	switch id {
	case Warrior1:
		return d.Warrior1, true
	case Warrior2:
		return d.Warrior2, true
	}
	return Warrior{}, false
}

// settle applies one round of damage and moves the duel to Decided when a
// warrior falls. A warrior falls when the incoming damage reaches its health.
// Both falling together is a draw and both end at zero health.
func (d *Duel) settle(toWarrior1, toWarrior2 uint64) {
	fallen1 := toWarrior1 >= uint64(d.Warrior1.Health)
	fallen2 := toWarrior2 >= uint64(d.Warrior2.Health)

	d.Warrior1.Health = remaining(d.Warrior1.Health, toWarrior1)
	d.Warrior2.Health = remaining(d.Warrior2.Health, toWarrior2)

	var winner WarriorID
	switch {
	case fallen1 && fallen2:
		winner = Draw
	case fallen1:
		winner = Warrior2
	case fallen2:
		winner = Warrior1
	default:
		return
	}
	d.Winner = &winner
}

func remaining(health uint32, damage uint64) uint32 {
	if damage >= uint64(health) {
		return 0
	}
	return health - uint32(damage)
}
