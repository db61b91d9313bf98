package combat

import "fmt"

// BodyPart is a target on a warrior. The ordinal order is fixed and used by
// the opponent response derivation.
type BodyPart uint8

const (
	Head BodyPart = iota
	Neck
	Chest
	Groin
	Legs
)

var bodyPartNames = [...]string{"Head", "Neck", "Chest", "Groin", "Legs"}

func (p BodyPart) String() string {
	if int(p) < len(bodyPartNames) {
		return bodyPartNames[p]
	}
	return fmt.Sprintf("BodyPart(%d)", uint8(p))
}

// ParseBodyPart matches name against the part names exactly.
func ParseBodyPart(name string) (BodyPart, bool) {
	switch name {
	case "Head":
		return Head, true
	case "Neck":
		return Neck, true
	case "Chest":
		return Chest, true
	case "Groin":
		return Groin, true
	case "Legs":
		return Legs, true
	}
	return 0, false
}

func (p BodyPart) MarshalText() ([]byte, error) {
	if int(p) >= len(bodyPartNames) {
		return nil, fmt.Errorf("invalid body part %d", uint8(p))
	}
	return []byte(bodyPartNames[p]), nil
}

func (p *BodyPart) UnmarshalText(b []byte) error {
	v, ok := ParseBodyPart(string(b))
	if !ok {
		return fmt.Errorf("unknown body part %q", string(b))
	}
	*p = v
	return nil
}

// ActionType is what a warrior does with a body part.
type ActionType uint8

const (
	Attack ActionType = iota
	Protect
)

func (a ActionType) String() string {
	switch a {
	case Attack:
		return "Attack"
	case Protect:
		return "Protect"
	}
	return fmt.Sprintf("ActionType(%d)", uint8(a))
}

// ParseActionType matches name against the action names exactly.
func ParseActionType(name string) (ActionType, bool) {
	switch name {
	case "Attack":
		return Attack, true
	case "Protect":
		return Protect, true
	}
	return 0, false
}

func (a ActionType) MarshalText() ([]byte, error) {
	if a > Protect {
		return nil, fmt.Errorf("invalid action type %d", uint8(a))
	}
	return []byte(a.String()), nil
}

func (a *ActionType) UnmarshalText(b []byte) error {
	v, ok := ParseActionType(string(b))
	if !ok {
		return fmt.Errorf("unknown action type %q", string(b))
	}
	*a = v
	return nil
}

// MoveIntent is one parsed "<Action>:<Part>" token.
type MoveIntent struct {
	Action ActionType `json:"action"`
	Part   BodyPart   `json:"part"`
}

func (m MoveIntent) String() string {
	return m.Action.String() + ":" + m.Part.String()
}

// WarriorID tags a side of the duel. Zero is reserved for the draw marker.
type WarriorID uint8

const (
	Draw     WarriorID = 0
	Warrior1 WarriorID = 1
	Warrior2 WarriorID = 2
)

// Stats holds the six warrior attributes.
type Stats struct {
	Strength  uint32 `json:"strength" yaml:"strength"`
	Stamina   uint32 `json:"stamina" yaml:"stamina"`
	Agility   uint32 `json:"agility" yaml:"agility"`
	Intuition uint32 `json:"intuition" yaml:"intuition"`
	Health    uint32 `json:"health" yaml:"health"`
	Defense   uint32 `json:"defense" yaml:"defense"`
}

// Warrior is one combatant. Equipment effects are already folded into Stats.
type Warrior struct {
	ID    WarriorID `json:"id"`
	Owner string    `json:"owner,omitempty"`
	Stats
}

// Duel is the aggregate resolved one round at a time. Timestamps are
// nanoseconds.
type Duel struct {
	Warrior1      Warrior    `json:"warrior_1"`
	Warrior2      Warrior    `json:"warrior_2"`
	Winner        *WarriorID `json:"winner"`
	Reward        uint64     `json:"reward"`
	LastActionAt  uint64     `json:"last_action_at"`
	MissedAction1 bool       `json:"missed_action_1"`
	MissedAction2 bool       `json:"missed_action_2"`
}

// OpponentMove is the automated side's attack and protect targets.
type OpponentMove struct {
	Attack  BodyPart `json:"attack"`
	Protect BodyPart `json:"protect"`
}

// Round is the outcome of one resolved round. Duel is the record to persist;
// its Reward is always zero because payout is settled elsewhere.
type Round struct {
	Duel      Duel         `json:"duel"`
	Moves     []MoveIntent `json:"moves"`
	Opponent  OpponentMove `json:"opponent"`
	Damage1   uint64       `json:"damage_1"`
	Damage2   uint64       `json:"damage_2"`
	Timestamp uint64       `json:"timestamp"`
}
