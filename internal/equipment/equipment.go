// Package equipment folds equipped item bonuses into warrior stats before a
// duel starts. Items describe themselves with an extra string such as
// "place:weapon_1,damage:3".
package equipment

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"defight/internal/combat"
)

// Place is an equipment slot.
type Place string

const (
	Helmet       Place = "helmet"
	Armor        Place = "armor"
	Gloves       Place = "gloves"
	Bracers      Place = "bracers"
	ShoulderPads Place = "shoulder_pads"
	Leggings     Place = "leggings"
	Boots        Place = "boots"
	Amulet       Place = "amulet"
	Weapon1      Place = "weapon_1"
	Weapon2      Place = "weapon_2"
)

var places = map[Place]bool{
	Helmet: true, Armor: true, Gloves: true, Bracers: true, ShoulderPads: true,
	Leggings: true, Boots: true, Amulet: true, Weapon1: true, Weapon2: true,
}

// ErrInvalidExtra is wrapped by every extra string parse failure.
var ErrInvalidExtra = errors.New("invalid item extra")

// Item is an owned token.
type Item struct {
	TokenID string `json:"token_id"`
	Extra   string `json:"extra"`
}

// Bonus is what one item adds to its wearer.
type Bonus struct {
	Place   Place
	Damage  uint32
	Defense uint32
}

// Loadout maps each slot to the token equipped there.
type Loadout map[Place]string

// ParseExtra reads an item's extra string. The first entry must name the
// place; unknown keys are ignored.
func ParseExtra(extra string) (Bonus, error) {
	params := strings.Split(extra, ",")
	key, val, ok := strings.Cut(strings.TrimSpace(params[0]), ":")
	if !ok || key != "place" {
		return Bonus{}, fmt.Errorf("%w %q: first entry must be place", ErrInvalidExtra, extra)
	}
	b := Bonus{Place: Place(val)}
	if !places[b.Place] {
		return Bonus{}, fmt.Errorf("%w %q: unknown place %q", ErrInvalidExtra, extra, val)
	}

	for _, p := range params[1:] {
		key, val, ok := strings.Cut(strings.TrimSpace(p), ":")
		if !ok {
			return Bonus{}, fmt.Errorf("%w %q: malformed entry %q", ErrInvalidExtra, extra, p)
		}
		switch key {
		case "damage", "defense":
			n, err := strconv.ParseUint(val, 10, 16)
			if err != nil {
				return Bonus{}, fmt.Errorf("%w %q: %s: %w", ErrInvalidExtra, extra, key, err)
			}
			if key == "damage" {
				b.Damage += uint32(n)
			} else {
				b.Defense += uint32(n)
			}
		}
	}
	return b, nil
}

// Equip puts every item in its slot. A later item replaces an earlier one in
// the same slot.
func Equip(items []Item) (Loadout, error) {
	l := Loadout{}
	for _, it := range items {
		b, err := ParseExtra(it.Extra)
		if err != nil {
			return nil, fmt.Errorf("token %s: %w", it.TokenID, err)
		}
		l[b.Place] = it.TokenID
	}
	return l, nil
}

// Apply adds the bonuses of the equipped items to base. Items that are owned
// but not in their loadout slot count for nothing.
func Apply(base combat.Stats, loadout Loadout, items []Item) (combat.Stats, error) {
	out := base
	for _, it := range items {
		b, err := ParseExtra(it.Extra)
		if err != nil {
			return base, fmt.Errorf("token %s: %w", it.TokenID, err)
		}
		if loadout[b.Place] != it.TokenID {
			continue
		}
		out.Strength += b.Damage
		out.Defense += b.Defense
	}
	return out, nil
}
